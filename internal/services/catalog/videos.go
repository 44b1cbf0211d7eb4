package catalog

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"vidpub/internal/logging"
	"vidpub/internal/metadata"
	"vidpub/internal/services"
)

// Video is a summary row from a chart listing.
type Video struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

type videosPage struct {
	Items []struct {
		ID             string   `json:"id"`
		Snippet        *Snippet `json:"snippet"`
		ContentDetails *struct {
			Duration string `json:"duration"`
		} `json:"contentDetails"`
	} `json:"items"`
}

type videoUpdate struct {
	ID      string  `json:"id"`
	Snippet Snippet `json:"snippet"`
}

// Read fetches the editable snippet of videoID. An entry without snippet
// data yields an empty Snippet and no error.
func (c *Client) Read(ctx context.Context, videoID string) (Snippet, error) {
	if strings.TrimSpace(videoID) == "" {
		return Snippet{}, services.Wrap(services.ErrValidation, "catalog", "read", "video id is empty", nil)
	}
	query := url.Values{}
	query.Set("part", "snippet")
	query.Set("id", videoID)
	req, err := c.newRequest(ctx, http.MethodGet, c.apiURL("videos", query), nil)
	if err != nil {
		return Snippet{}, err
	}
	var resp videosPage
	if err := c.doJSON(req, &resp); err != nil {
		return Snippet{}, err
	}
	if len(resp.Items) == 0 {
		return Snippet{}, services.Wrap(ErrEntryNotFound, "catalog", "read", "no entry with id "+videoID, nil)
	}
	if resp.Items[0].Snippet == nil {
		return Snippet{}, nil
	}
	return *resp.Items[0].Snippet, nil
}

// Edit fetches the current snippet of videoID, applies mutate to a copy and
// submits the whole snippet back. The catalog resets omitted snippet fields,
// so updates are never built from scratch.
func (c *Client) Edit(ctx context.Context, videoID string, mutate func(*Snippet) error) (Snippet, error) {
	current, err := c.Read(ctx, videoID)
	if err != nil {
		return Snippet{}, err
	}
	next := current.clone()
	if err := mutate(&next); err != nil {
		return Snippet{}, err
	}

	query := url.Values{}
	query.Set("part", "snippet")
	req, err := c.newRequest(ctx, http.MethodPut, c.apiURL("videos", query), videoUpdate{ID: videoID, Snippet: next})
	if err != nil {
		return Snippet{}, err
	}
	var resp videoResource
	if err := c.doJSON(req, &resp); err != nil {
		return Snippet{}, err
	}
	if resp.Snippet == nil {
		return next, nil
	}
	return *resp.Snippet, nil
}

// MergeUpdate rewrites the description of videoID according to mode.
func (c *Client) MergeUpdate(ctx context.Context, videoID string, mode metadata.MergeMode, text string) (Snippet, error) {
	updated, err := c.Edit(ctx, videoID, func(s *Snippet) error {
		merged, err := metadata.MergeDescription(s.Description, text, mode)
		if err != nil {
			return err
		}
		s.Description = merged
		return nil
	})
	if err != nil {
		return Snippet{}, err
	}
	logging.WithContext(ctx, c.logger).Info("description updated",
		logging.String(logging.FieldVideoID, videoID),
		logging.String("mode", string(mode)),
	)
	return updated, nil
}

// Popular lists the catalog's most popular entries, at most limit of them.
func (c *Client) Popular(ctx context.Context, limit int) ([]Video, error) {
	query := url.Values{}
	query.Set("part", "id,contentDetails,snippet")
	query.Set("chart", "mostPopular")
	query.Set("maxResults", strconv.Itoa(ClampPageSize(limit)))
	req, err := c.newRequest(ctx, http.MethodGet, c.apiURL("videos", query), nil)
	if err != nil {
		return nil, err
	}
	var resp videosPage
	if err := c.doJSON(req, &resp); err != nil {
		return nil, err
	}
	videos := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		v := Video{ID: item.ID, Title: "n/a", Duration: "n/a"}
		if item.Snippet != nil && item.Snippet.Title != "" {
			v.Title = item.Snippet.Title
		}
		if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
			v.Duration = item.ContentDetails.Duration
		}
		videos = append(videos, v)
	}
	return videos, nil
}
