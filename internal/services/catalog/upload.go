package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"vidpub/internal/logging"
	"vidpub/internal/metadata"
	"vidpub/internal/schedule"
	"vidpub/internal/services"
)

type videoStatus struct {
	PrivacyStatus           string `json:"privacyStatus"`
	PublishAt               string `json:"publishAt,omitempty"`
	SelfDeclaredMadeForKids bool   `json:"selfDeclaredMadeForKids"`
}

type videoInsert struct {
	Snippet Snippet     `json:"snippet"`
	Status  videoStatus `json:"status"`
}

type videoResource struct {
	ID      string   `json:"id"`
	Snippet *Snippet `json:"snippet,omitempty"`
}

// Create uploads the file at path as a new catalog entry described by sub
// and returns the server-assigned identifier. The made-for-kids flag is
// always declared false.
func (c *Client) Create(ctx context.Context, path string, sub metadata.Submission) (string, error) {
	body := videoInsert{
		Snippet: Snippet{
			Title:       sub.DisplayTitle(),
			Description: sub.Description,
			Tags:        sub.Tags,
			CategoryID:  sub.Category.ID(),
		},
		Status: videoStatus{
			PrivacyStatus:           sub.Privacy.String(),
			SelfDeclaredMadeForKids: false,
		},
	}
	if !sub.PublishAt.IsZero() {
		body.Status.PublishAt = schedule.Format(sub.PublishAt)
	}

	query := url.Values{}
	query.Set("uploadType", "resumable")
	query.Set("part", "snippet,status")

	var created videoResource
	if err := c.resumableUpload(ctx, c.uploadURL("videos", query), body, path, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", &TransportError{Method: http.MethodPut, URL: c.uploadBase + "/videos", Err: fmt.Errorf("response carried no entry id")}
	}
	logging.WithContext(ctx, c.logger).Info("catalog entry created",
		logging.String(logging.FieldVideoID, created.ID),
		logging.String("file", path),
	)
	return created.ID, nil
}

// AttachThumbnail uploads the image at imagePath as the thumbnail of videoID.
func (c *Client) AttachThumbnail(ctx context.Context, videoID, imagePath string) error {
	if videoID == "" {
		return services.Wrap(services.ErrValidation, "catalog", "thumbnail", "video id is empty", nil)
	}
	query := url.Values{}
	query.Set("videoId", videoID)
	query.Set("uploadType", "resumable")
	if err := c.resumableUpload(ctx, c.uploadURL("thumbnails/set", query), nil, imagePath, nil); err != nil {
		return err
	}
	logging.WithContext(ctx, c.logger).Info("thumbnail attached",
		logging.String(logging.FieldVideoID, videoID),
		logging.String("image", imagePath),
	)
	return nil
}

// resumableUpload negotiates an upload session at initURL, then streams the
// file at path to the returned location in one request. Interrupted
// transfers are not resumed.
func (c *Client) resumableUpload(ctx context.Context, initURL string, meta any, path string, out any) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open upload file: %w", err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat upload file: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	location, err := c.startSession(ctx, initURL, meta, contentType, info.Size())
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPut, location, nil)
	if err != nil {
		return err
	}
	req.Body = io.NopCloser(file)
	req.GetBody = nil
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", contentType)

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Method: req.Method, URL: displayURL(req.URL), Err: fmt.Errorf("decode upload response: %w", err)}
	}
	return nil
}

func (c *Client) startSession(ctx context.Context, initURL string, meta any, contentType string, size int64) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, initURL, meta)
	if err != nil {
		return "", err
	}
	req.Header.Set("X-Upload-Content-Type", contentType)
	req.Header.Set("X-Upload-Content-Length", strconv.FormatInt(size, 10))

	resp, err := c.send(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	location, err := resp.Location()
	if err != nil {
		return "", &TransportError{Method: req.Method, URL: displayURL(req.URL), StatusCode: resp.StatusCode, Err: fmt.Errorf("upload session location: %w", err)}
	}
	return location.String(), nil
}
