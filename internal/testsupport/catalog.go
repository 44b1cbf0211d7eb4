package testsupport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeToken is the bearer token FakeCatalog accepts.
const FakeToken = "test-token"

// FakeUploadsPlaylist is the uploads container of the fake account.
const FakeUploadsPlaylist = "UU-fake"

type pendingUpload struct {
	kind    string
	videoID string
	insert  map[string]json.RawMessage
}

// FakeCatalog is an in-memory catalog served over httptest. Updates replace
// the stored snippet wholesale, like the real service, so tests catch
// partial updates.
type FakeCatalog struct {
	t      testing.TB
	server *httptest.Server

	// FailThumbnail and FailPlaylist make those endpoints answer with the
	// given status when non-zero.
	FailThumbnail int
	FailPlaylist  int
	FailCreate    int

	mu         sync.Mutex
	nextID     int
	snippets   map[string]map[string]json.RawMessage
	statuses   map[string]map[string]json.RawMessage
	playlists  map[string][]string
	thumbnails map[string][]byte
	uploads    map[string]pendingUpload
	calls      []string
}

// NewFakeCatalog starts a fake catalog that is closed when the test ends.
func NewFakeCatalog(t testing.TB) *FakeCatalog {
	t.Helper()
	f := &FakeCatalog{
		t:          t,
		snippets:   map[string]map[string]json.RawMessage{},
		statuses:   map[string]map[string]json.RawMessage{},
		playlists:  map[string][]string{},
		thumbnails: map[string][]byte{},
		uploads:    map[string]pendingUpload{},
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

// APIBase returns the data API root.
func (f *FakeCatalog) APIBase() string { return f.server.URL + "/youtube/v3" }

// UploadBase returns the upload API root.
func (f *FakeCatalog) UploadBase() string { return f.server.URL + "/upload/youtube/v3" }

// HTTPClient returns a client that trusts the fake server.
func (f *FakeCatalog) HTTPClient() *http.Client { return f.server.Client() }

// SeedVideo stores an entry with the given raw snippet JSON and adds it to
// the uploads container.
func (f *FakeCatalog) SeedVideo(id, snippetJSON string) {
	f.t.Helper()
	snippet := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(snippetJSON), &snippet); err != nil {
		f.t.Fatalf("seed snippet %s: %v", id, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snippets[id] = snippet
	f.playlists[FakeUploadsPlaylist] = append(f.playlists[FakeUploadsPlaylist], id)
}

// Snippet returns the stored snippet field as a decoded value.
func (f *FakeCatalog) Snippet(id, field string, out any) bool {
	f.t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.snippets[id][field]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		f.t.Fatalf("decode %s.%s: %v", id, field, err)
	}
	return true
}

// Status returns a stored status field as a decoded value.
func (f *FakeCatalog) Status(id, field string, out any) bool {
	f.t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.statuses[id][field]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		f.t.Fatalf("decode status %s.%s: %v", id, field, err)
	}
	return true
}

// Playlist returns the entry ids in playlistID.
func (f *FakeCatalog) Playlist(playlistID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.playlists[playlistID]...)
}

// Thumbnail returns the bytes uploaded as videoID's thumbnail.
func (f *FakeCatalog) Thumbnail(videoID string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.thumbnails[videoID]
}

// Calls returns "METHOD /path" for every request received.
func (f *FakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeCatalog) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	f.mu.Unlock()

	if r.Header.Get("Authorization") != "Bearer "+FakeToken {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/upload/youtube/v3/videos":
		if f.FailCreate != 0 {
			http.Error(w, `{"error":"create rejected"}`, f.FailCreate)
			return
		}
		var insert map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&insert); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.startUpload(w, pendingUpload{kind: "video", insert: insert})
	case r.Method == http.MethodPost && r.URL.Path == "/upload/youtube/v3/thumbnails/set":
		if f.FailThumbnail != 0 {
			http.Error(w, `{"error":"thumbnail rejected"}`, f.FailThumbnail)
			return
		}
		f.startUpload(w, pendingUpload{kind: "thumbnail", videoID: r.URL.Query().Get("videoId")})
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/upload/session/"):
		f.finishUpload(w, r, strings.TrimPrefix(r.URL.Path, "/upload/session/"))
	case r.Method == http.MethodGet && r.URL.Path == "/youtube/v3/videos":
		f.getVideo(w, r.URL.Query().Get("id"))
	case r.Method == http.MethodPut && r.URL.Path == "/youtube/v3/videos":
		f.putVideo(w, r)
	case r.Method == http.MethodGet && r.URL.Path == "/youtube/v3/channels":
		writeFakeJSON(w, map[string]any{"items": []any{map[string]any{
			"id":             "UC-fake",
			"contentDetails": map[string]any{"relatedPlaylists": map[string]any{"uploads": FakeUploadsPlaylist}},
		}}})
	case r.Method == http.MethodGet && r.URL.Path == "/youtube/v3/playlistItems":
		f.listPlaylist(w, r)
	case r.Method == http.MethodPost && r.URL.Path == "/youtube/v3/playlistItems":
		f.insertPlaylistItem(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (f *FakeCatalog) startUpload(w http.ResponseWriter, pending pendingUpload) {
	f.mu.Lock()
	f.nextID++
	session := strconv.Itoa(f.nextID)
	f.uploads[session] = pending
	f.mu.Unlock()
	w.Header().Set("Location", f.server.URL+"/upload/session/"+session)
	w.WriteHeader(http.StatusOK)
}

func (f *FakeCatalog) finishUpload(w http.ResponseWriter, r *http.Request, session string) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	pending, ok := f.uploads[session]
	delete(f.uploads, session)
	if !ok {
		f.mu.Unlock()
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	if pending.kind == "thumbnail" {
		f.thumbnails[pending.videoID] = data
		f.mu.Unlock()
		writeFakeJSON(w, map[string]any{"kind": "youtube#thumbnailSetResponse"})
		return
	}
	id := fmt.Sprintf("vid-%s", session)
	snippet := map[string]json.RawMessage{}
	_ = json.Unmarshal(pending.insert["snippet"], &snippet)
	status := map[string]json.RawMessage{}
	_ = json.Unmarshal(pending.insert["status"], &status)
	snippet["channelId"] = json.RawMessage(`"UC-fake"`)
	f.snippets[id] = snippet
	f.statuses[id] = status
	f.playlists[FakeUploadsPlaylist] = append(f.playlists[FakeUploadsPlaylist], id)
	f.mu.Unlock()
	writeFakeJSON(w, map[string]any{"id": id, "snippet": snippet, "status": status})
}

func (f *FakeCatalog) getVideo(w http.ResponseWriter, id string) {
	f.mu.Lock()
	snippet, ok := f.snippets[id]
	f.mu.Unlock()
	if !ok {
		writeFakeJSON(w, map[string]any{"items": []any{}})
		return
	}
	writeFakeJSON(w, map[string]any{"items": []any{map[string]any{"id": id, "snippet": snippet}}})
}

func (f *FakeCatalog) putVideo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID      string                     `json:"id"`
		Snippet map[string]json.RawMessage `json:"snippet"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	_, ok := f.snippets[body.ID]
	if ok {
		f.snippets[body.ID] = body.Snippet
	}
	f.mu.Unlock()
	if !ok {
		http.Error(w, `{"error":"videoNotFound"}`, http.StatusNotFound)
		return
	}
	writeFakeJSON(w, map[string]any{"id": body.ID, "snippet": body.Snippet})
}

func (f *FakeCatalog) listPlaylist(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	size, _ := strconv.Atoi(q.Get("maxResults"))
	if size <= 0 {
		size = 5
	}
	start := 0
	if token := q.Get("pageToken"); token != "" {
		start, _ = strconv.Atoi(strings.TrimPrefix(token, "p"))
	}

	f.mu.Lock()
	ids := f.playlists[q.Get("playlistId")]
	end := min(start+size, len(ids))
	items := make([]any, 0, max(end-start, 0))
	for i := start; i < end; i++ {
		var title string
		_ = json.Unmarshal(f.snippets[ids[i]]["title"], &title)
		items = append(items, map[string]any{
			"id":             fmt.Sprintf("item-%d", i),
			"snippet":        map[string]any{"title": title, "position": i},
			"contentDetails": map[string]any{"videoId": ids[i]},
		})
	}
	f.mu.Unlock()

	resp := map[string]any{"items": items}
	if end < len(ids) {
		resp["nextPageToken"] = fmt.Sprintf("p%d", end)
	}
	writeFakeJSON(w, resp)
}

func (f *FakeCatalog) insertPlaylistItem(w http.ResponseWriter, r *http.Request) {
	if f.FailPlaylist != 0 {
		http.Error(w, `{"error":"playlist rejected"}`, f.FailPlaylist)
		return
	}
	var body struct {
		Snippet struct {
			PlaylistID string `json:"playlistId"`
			ResourceID struct {
				VideoID string `json:"videoId"`
			} `json:"resourceId"`
		} `json:"snippet"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.playlists[body.Snippet.PlaylistID] = append(f.playlists[body.Snippet.PlaylistID], body.Snippet.ResourceID.VideoID)
	f.mu.Unlock()
	writeFakeJSON(w, map[string]any{"id": "membership"})
}

func writeFakeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
