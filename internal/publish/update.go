package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"vidpub/internal/logging"
	"vidpub/internal/metadata"
	"vidpub/internal/notifications"
	"vidpub/internal/services"
	"vidpub/internal/services/catalog"
)

// UpdateRequest amends one entry, or every uploaded entry when Target is
// catalog.UploadedTarget.
type UpdateRequest struct {
	Target string
	// DescriptionFile holds the text merged into each description.
	DescriptionFile string
	ChangeMode      metadata.MergeMode
	// ThumbnailDir is searched for the source video of each entry; a new
	// thumbnail is composed and attached when set.
	ThumbnailDir string
	Watermark    string
	ThumbSecond  int
	PlaylistID   string
	PageSize     int
	FFmpeg       string
	FFprobe      string
}

// EntryResult reports the steps applied to one entry.
type EntryResult struct {
	VideoID            string   `json:"video_id"`
	Title              string   `json:"title,omitempty"`
	DescriptionUpdated bool     `json:"description_updated"`
	Thumbnail          string   `json:"thumbnail,omitempty"`
	PlaylistAdded      bool     `json:"playlist_added"`
	Errors             []string `json:"errors,omitempty"`
}

// UpdateResult aggregates per-entry results.
type UpdateResult struct {
	Entries []EntryResult `json:"entries"`
	Failed  int           `json:"failed"`
}

// ErrNothingToUpdate is returned when an update request selects no step.
var ErrNothingToUpdate = services.Wrap(services.ErrValidation, "publish", "update", "nothing to update: give a description file, thumbnail directory or playlist", nil)

// Update applies the requested steps to every resolved entry. A failing
// step on one entry is recorded and the remaining steps and entries still
// run; the returned error summarises all failures.
func (p *Publisher) Update(ctx context.Context, req UpdateRequest) (UpdateResult, error) {
	var result UpdateResult
	if req.DescriptionFile == "" && req.ThumbnailDir == "" && req.PlaylistID == "" {
		return result, ErrNothingToUpdate
	}
	if p.catalog == nil {
		return result, ErrNoCatalog
	}

	var text string
	if req.DescriptionFile != "" {
		if _, err := metadata.ParseMergeMode(string(req.ChangeMode)); err != nil {
			return result, err
		}
		data, err := os.ReadFile(req.DescriptionFile)
		if err != nil {
			return result, fmt.Errorf("%w: read description file: %w", services.ErrValidation, err)
		}
		text = string(data)
	}
	if req.ThumbnailDir != "" {
		info, err := os.Stat(req.ThumbnailDir)
		if err != nil {
			return result, fmt.Errorf("%w: thumbnail directory: %w", services.ErrValidation, err)
		}
		if !info.IsDir() {
			return result, services.Wrap(services.ErrValidation, "publish", "update", req.ThumbnailDir+" is not a directory", nil)
		}
	}

	ids, err := p.catalog.ResolveTargets(services.WithStep(ctx, "resolve"), req.Target, req.PageSize)
	if err != nil {
		return result, fmt.Errorf("resolve update targets: %w", err)
	}
	logging.WithContext(ctx, p.logger).Info("update started",
		logging.String("target", req.Target),
		logging.Int("entries", len(ids)),
	)

	var failures []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		entry, errs := p.updateEntry(services.WithVideoID(ctx, id), id, req, text)
		result.Entries = append(result.Entries, entry)
		if len(errs) > 0 {
			result.Failed++
			failures = append(failures, fmt.Errorf("%s: %w", id, errors.Join(errs...)))
		}
	}

	logger := logging.WithContext(ctx, p.logger)
	if result.Failed > 0 {
		logger.Warn("update finished with failures",
			logging.Alert("partial_update"),
			logging.Int("entries", len(ids)),
			logging.Int("failed", result.Failed),
		)
	} else {
		logger.Info("update finished", logging.Int("entries", len(ids)))
	}
	p.notify(ctx, func(ctx context.Context, svc notifications.Service) error {
		return svc.NotifyUpdateCompleted(ctx, req.Target, len(ids), result.Failed)
	})
	if result.Failed > 0 {
		return result, fmt.Errorf("%d of %d entries had failures: %w", result.Failed, len(ids), errors.Join(failures...))
	}
	return result, nil
}

func (p *Publisher) updateEntry(ctx context.Context, id string, req UpdateRequest, text string) (EntryResult, []error) {
	entry := EntryResult{VideoID: id}
	var errs []error
	record := func(msg, eventType, impact string, err error) {
		errs = append(errs, fmt.Errorf("%s: %w", msg, err))
		entry.Errors = append(entry.Errors, p.warn(ctx, msg, eventType, impact, err))
	}

	var snippet catalog.Snippet
	haveSnippet := false
	if req.DescriptionFile != "" {
		updated, err := p.catalog.MergeUpdate(services.WithStep(ctx, "description"), id, req.ChangeMode, text)
		if err != nil {
			record("description update failed", "description_update_failed", "description unchanged", err)
		} else {
			entry.DescriptionUpdated = true
			snippet, haveSnippet = updated, true
		}
	}

	if req.ThumbnailDir != "" {
		if !haveSnippet {
			read, err := p.catalog.Read(services.WithStep(ctx, "read"), id)
			if err != nil {
				record("read entry failed", "entry_read_failed", "thumbnail not regenerated", err)
			} else {
				snippet, haveSnippet = read, true
			}
		}
		if haveSnippet {
			path, err := p.regenerateThumbnail(ctx, id, snippet.Title, req)
			if err != nil {
				record("thumbnail regeneration failed", "thumbnail_regenerate_failed", "thumbnail unchanged", err)
			} else {
				entry.Thumbnail = path
			}
		}
	}
	if haveSnippet {
		entry.Title = snippet.Title
	}

	if req.PlaylistID != "" {
		if err := p.catalog.AddToPlaylist(services.WithStep(ctx, "playlist"), req.PlaylistID, id); err != nil {
			record("playlist add failed", "playlist_add_failed", "entry not added to playlist "+req.PlaylistID, err)
		} else {
			entry.PlaylistAdded = true
		}
	}
	return entry, errs
}

// regenerateThumbnail finds the entry's source video by its episode label,
// composes a fresh thumbnail captioned with the title and attaches it.
func (p *Publisher) regenerateThumbnail(ctx context.Context, id, title string, req UpdateRequest) (string, error) {
	episode, caption := metadata.SplitDisplayTitle(title)
	if episode == nil {
		return "", fmt.Errorf("%w: title %q carries no episode label", metadata.ErrInvalidEpisodeEncoding, title)
	}
	video, err := findEpisodeVideo(req.ThumbnailDir, *episode)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(caption) == "" {
		caption = metadata.Title("", video)
	}
	path, _, err := p.ensureThumbnail(services.WithStep(ctx, "thumbnail"), thumbnailRequest{
		Video:       video,
		Caption:     caption,
		Watermark:   req.Watermark,
		ThumbSecond: req.ThumbSecond,
		FFmpeg:      req.FFmpeg,
		FFprobe:     req.FFprobe,
		Regenerate:  true,
	})
	if err != nil {
		return "", err
	}
	if err := p.catalog.AttachThumbnail(services.WithStep(ctx, "thumbnail"), id, path); err != nil {
		return "", err
	}
	return path, nil
}
