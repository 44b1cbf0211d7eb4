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
	"vidpub/internal/schedule"
	"vidpub/internal/services"
)

// ErrNoCatalog is returned when a network flow runs on a Publisher built without a catalog.
var ErrNoCatalog = services.Wrap(services.ErrConfiguration, "publish", "catalog", "no catalog session configured", nil)

// UploadRequest is the validated input of one upload.
type UploadRequest struct {
	File        string
	Description string
	// Title overrides the title derived from the file name.
	Title string
	// Thumbnail is an existing image to attach; empty means the video's
	// sibling .jpg, generated when missing.
	Thumbnail        string
	Episode          *uint8
	Watermark        string
	ThumbSecond      int
	PublishAt        schedule.Mode
	PublishTime      schedule.ClockTime
	FirstEpisodeDate string
	PlaylistID       string
	Keywords         string
	Privacy          metadata.Privacy
	Category         metadata.Category
	DryRun           bool
	FFmpeg           string
	FFprobe          string
}

// UploadResult describes what an upload did.
type UploadResult struct {
	Report             metadata.Report `json:"report"`
	DryRun             bool            `json:"dry_run"`
	VideoID            string          `json:"video_id,omitempty"`
	Thumbnail          string          `json:"thumbnail,omitempty"`
	ThumbnailGenerated bool            `json:"thumbnail_generated,omitempty"`
	ThumbnailAttached  bool            `json:"thumbnail_attached"`
	PlaylistAdded      bool            `json:"playlist_added"`
	Warnings           []string        `json:"warnings,omitempty"`
}

// Prepare derives the submission for req. A missing episode number is not
// an error here; it only fails scheduling modes that need it, and that
// failure is carried in publishErr so dry runs can still report.
func (p *Publisher) Prepare(req UploadRequest) (sub metadata.Submission, report metadata.Report, publishErr error) {
	title := metadata.Title(req.Title, req.File)
	episode, episodeErr := metadata.OptionalEpisode(req.Episode, title)

	sub = metadata.Submission{
		Title:       title,
		Description: req.Description,
		Tags:        metadata.Tags(req.Keywords),
		Episode:     episode,
		Category:    req.Category,
		Privacy:     req.Privacy,
	}

	at, err := schedule.Resolve(req.PublishAt, schedule.Params{
		Now:     p.now(),
		Clock:   req.PublishTime,
		Origin:  req.FirstEpisodeDate,
		Episode: episode,
	})
	publishAt := ""
	if err != nil {
		if errors.Is(err, schedule.ErrMissingEpisode) && episodeErr != nil {
			err = fmt.Errorf("%w: %w", err, episodeErr)
		}
		publishErr = err
	} else {
		sub.PublishAt = at
		publishAt = schedule.Format(at)
	}
	return sub, metadata.NewReport(sub, publishAt, publishErr), publishErr
}

// Upload publishes req.File. Dry runs stop after Prepare without touching
// the network or generating thumbnails.
func (p *Publisher) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	sub, report, publishErr := p.Prepare(req)
	result := UploadResult{Report: report, DryRun: req.DryRun}
	if req.DryRun {
		return result, nil
	}
	if publishErr != nil {
		return result, fmt.Errorf("resolve publish time: %w", publishErr)
	}
	if p.catalog == nil {
		return result, ErrNoCatalog
	}
	if strings.TrimSpace(req.File) == "" {
		return result, services.Wrap(services.ErrValidation, "publish", "upload", "video file is required", nil)
	}
	if info, err := os.Stat(req.File); err != nil {
		return result, fmt.Errorf("%w: video file: %w", services.ErrValidation, err)
	} else if info.IsDir() {
		return result, services.Wrap(services.ErrValidation, "publish", "upload", req.File+" is a directory", nil)
	}

	unlock, err := p.acquire(req.File)
	if err != nil {
		return result, err
	}
	defer unlock()

	logger := logging.WithContext(ctx, p.logger)
	logger.Info("upload started",
		logging.String("file", req.File),
		logging.String("title", sub.DisplayTitle()),
		logging.String("publish_at", report.PublishAt),
	)

	thumbPath, generated, err := p.ensureThumbnail(services.WithStep(ctx, "thumbnail"), thumbnailRequest{
		Video:       req.File,
		Explicit:    req.Thumbnail,
		Caption:     sub.Title,
		Watermark:   req.Watermark,
		ThumbSecond: req.ThumbSecond,
		FFmpeg:      req.FFmpeg,
		FFprobe:     req.FFprobe,
	})
	if err != nil {
		return result, fmt.Errorf("prepare thumbnail: %w", err)
	}
	result.Thumbnail = thumbPath
	result.ThumbnailGenerated = generated

	videoID, err := p.catalog.Create(services.WithStep(ctx, "create"), req.File, sub)
	if err != nil {
		err = fmt.Errorf("create catalog entry: %w", err)
		p.notify(ctx, func(ctx context.Context, svc notifications.Service) error {
			return svc.NotifyError(ctx, err, "upload of "+sub.DisplayTitle())
		})
		return result, err
	}
	result.VideoID = videoID
	ctx = services.WithVideoID(ctx, videoID)

	if err := p.catalog.AttachThumbnail(services.WithStep(ctx, "thumbnail"), videoID, thumbPath); err != nil {
		result.Warnings = append(result.Warnings, p.warn(ctx, "thumbnail attach failed", "thumbnail_attach_failed", "entry published without custom thumbnail", err))
	} else {
		result.ThumbnailAttached = true
	}

	if req.PlaylistID != "" {
		if err := p.catalog.AddToPlaylist(services.WithStep(ctx, "playlist"), req.PlaylistID, videoID); err != nil {
			result.Warnings = append(result.Warnings, p.warn(ctx, "playlist add failed", "playlist_add_failed", "entry not added to playlist "+req.PlaylistID, err))
		} else {
			result.PlaylistAdded = true
		}
	}

	logging.WithContext(ctx, p.logger).Info("upload finished",
		logging.Bool("thumbnail_attached", result.ThumbnailAttached),
		logging.Bool("playlist_added", result.PlaylistAdded),
		logging.Int("warnings", len(result.Warnings)),
	)
	p.notify(ctx, func(ctx context.Context, svc notifications.Service) error {
		return svc.NotifyUploadCompleted(ctx, sub.DisplayTitle(), videoID, report.PublishAt)
	})
	return result, nil
}

// warn logs a best-effort failure and returns the line reported to the user.
func (p *Publisher) warn(ctx context.Context, msg, eventType, impact string, err error) string {
	logging.WarnWithContext(logging.WithContext(ctx, p.logger), msg, eventType,
		logging.String(logging.FieldImpact, impact),
		logging.Error(err),
	)
	return fmt.Sprintf("%s: %v", msg, err)
}
