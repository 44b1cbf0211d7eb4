package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vidpub/internal/logging"
	"vidpub/internal/services"
)

// UploadedTarget is the target sentinel meaning every entry the account uploaded.
const UploadedTarget = "uploaded"

// PlaylistItem is one membership record returned by List.
type PlaylistItem struct {
	ID          string `json:"id"`
	VideoID     string `json:"video_id"`
	Title       string `json:"title"`
	Position    int    `json:"position"`
	PublishedAt string `json:"published_at,omitempty"`
}

type resourceID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

type playlistItemInsert struct {
	Snippet struct {
		PlaylistID string     `json:"playlistId"`
		ResourceID resourceID `json:"resourceId"`
	} `json:"snippet"`
}

type playlistItemsPage struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID      string `json:"id"`
		Snippet struct {
			Title      string     `json:"title"`
			Position   int        `json:"position"`
			ResourceID resourceID `json:"resourceId"`
		} `json:"snippet"`
		ContentDetails struct {
			VideoID          string `json:"videoId"`
			VideoPublishedAt string `json:"videoPublishedAt"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type channelsPage struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
	} `json:"items"`
}

// AddToPlaylist inserts videoID into playlistID.
func (c *Client) AddToPlaylist(ctx context.Context, playlistID, videoID string) error {
	if strings.TrimSpace(playlistID) == "" || strings.TrimSpace(videoID) == "" {
		return services.Wrap(services.ErrValidation, "catalog", "playlist", "playlist id and video id are required", nil)
	}
	var body playlistItemInsert
	body.Snippet.PlaylistID = playlistID
	body.Snippet.ResourceID = resourceID{Kind: "youtube#video", VideoID: videoID}

	query := url.Values{}
	query.Set("part", "snippet")
	req, err := c.newRequest(ctx, http.MethodPost, c.apiURL("playlistItems", query), body)
	if err != nil {
		return err
	}
	if err := c.doJSON(req, nil); err != nil {
		return err
	}
	logging.WithContext(ctx, c.logger).Info("added to playlist",
		logging.String("playlist_id", playlistID),
		logging.String(logging.FieldVideoID, videoID),
	)
	return nil
}

// ClampPageSize maps non-positive sizes to DefaultPageSize and caps at MaxPageSize.
func ClampPageSize(pageSize int) int {
	switch {
	case pageSize <= 0:
		return DefaultPageSize
	case pageSize > MaxPageSize:
		return MaxPageSize
	default:
		return pageSize
	}
}

// List returns every item of playlistID in server order, following
// continuation cursors until a page carries none. More than the session's
// page bound yields ErrPaginationOverrun.
func (c *Client) List(ctx context.Context, playlistID string, pageSize int) ([]PlaylistItem, error) {
	if strings.TrimSpace(playlistID) == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "list", "playlist id is empty", nil)
	}
	query := url.Values{}
	query.Set("part", "snippet,contentDetails")
	query.Set("playlistId", playlistID)
	query.Set("maxResults", strconv.Itoa(ClampPageSize(pageSize)))

	var items []PlaylistItem
	cursor := ""
	for page := 1; ; page++ {
		if page > c.maxPages {
			return items, fmt.Errorf("%w: playlist %s still had a cursor after %d pages", ErrPaginationOverrun, playlistID, c.maxPages)
		}
		if cursor != "" {
			query.Set("pageToken", cursor)
		}
		req, err := c.newRequest(ctx, http.MethodGet, c.apiURL("playlistItems", query), nil)
		if err != nil {
			return items, err
		}
		var resp playlistItemsPage
		if err := c.doJSON(req, &resp); err != nil {
			return items, err
		}
		for _, raw := range resp.Items {
			videoID := raw.ContentDetails.VideoID
			if videoID == "" {
				videoID = raw.Snippet.ResourceID.VideoID
			}
			items = append(items, PlaylistItem{
				ID:          raw.ID,
				VideoID:     videoID,
				Title:       raw.Snippet.Title,
				Position:    raw.Snippet.Position,
				PublishedAt: raw.ContentDetails.VideoPublishedAt,
			})
		}
		if resp.NextPageToken == "" {
			logging.WithContext(ctx, c.logger).Debug("playlist listed",
				logging.String("playlist_id", playlistID),
				logging.Int("pages", page),
				logging.Int("items", len(items)),
			)
			return items, nil
		}
		cursor = resp.NextPageToken
	}
}

// UploadsPlaylist returns the calling account's default uploads container.
func (c *Client) UploadsPlaylist(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("part", "contentDetails")
	query.Set("mine", "true")
	req, err := c.newRequest(ctx, http.MethodGet, c.apiURL("channels", query), nil)
	if err != nil {
		return "", err
	}
	var resp channelsPage
	if err := c.doJSON(req, &resp); err != nil {
		return "", err
	}
	for _, item := range resp.Items {
		if uploads := item.ContentDetails.RelatedPlaylists.Uploads; uploads != "" {
			return uploads, nil
		}
	}
	return "", ErrNoChannel
}

// ResolveTargets expands target into entry identifiers. UploadedTarget
// resolves the uploads container and lists it; anything else is a single id.
func (c *Client) ResolveTargets(ctx context.Context, target string, pageSize int) ([]string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, services.Wrap(services.ErrValidation, "catalog", "resolve", "update target is empty", nil)
	}
	if target != UploadedTarget {
		return []string{target}, nil
	}
	uploads, err := c.UploadsPlaylist(ctx)
	if err != nil {
		return nil, err
	}
	items, err := c.List(ctx, uploads, pageSize)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.VideoID != "" {
			ids = append(ids, item.VideoID)
		}
	}
	return ids, nil
}
