package publish

import (
	"context"
	"log/slog"
	"time"

	"vidpub/internal/logging"
	"vidpub/internal/media/ffmpeg"
	"vidpub/internal/metadata"
	"vidpub/internal/notifications"
	"vidpub/internal/services/catalog"
	"vidpub/internal/thumbnail"
)

// Catalog is the subset of the catalog client the orchestrator drives.
type Catalog interface {
	Create(ctx context.Context, path string, sub metadata.Submission) (string, error)
	AttachThumbnail(ctx context.Context, videoID, imagePath string) error
	AddToPlaylist(ctx context.Context, playlistID, videoID string) error
	List(ctx context.Context, playlistID string, pageSize int) ([]catalog.PlaylistItem, error)
	Read(ctx context.Context, videoID string) (catalog.Snippet, error)
	MergeUpdate(ctx context.Context, videoID string, mode metadata.MergeMode, text string) (catalog.Snippet, error)
	UploadsPlaylist(ctx context.Context) (string, error)
	ResolveTargets(ctx context.Context, target string, pageSize int) ([]string, error)
	Popular(ctx context.Context, limit int) ([]catalog.Video, error)
}

// Renderer composes thumbnail files.
type Renderer interface {
	Render(spec thumbnail.Spec) (string, bool, error)
}

// ScreenshotFunc extracts a still frame next to a video.
type ScreenshotFunc func(ctx context.Context, logger *slog.Logger, req ffmpeg.ScreenshotRequest) (string, bool, error)

// Publisher runs orchestration flows against one catalog session.
type Publisher struct {
	catalog    Catalog
	renderer   Renderer
	screenshot ScreenshotFunc
	notifier   notifications.Service
	logger     *slog.Logger
	lockDir    string
	now        func() time.Time
}

// Option customises Publisher construction.
type Option func(*Publisher)

// WithClock overrides the reference time used for scheduling.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

// WithScreenshot overrides still extraction.
func WithScreenshot(fn ScreenshotFunc) Option {
	return func(p *Publisher) {
		p.screenshot = fn
	}
}

// WithLockDir sets where per-video publish locks are created.
func WithLockDir(dir string) Option {
	return func(p *Publisher) {
		p.lockDir = dir
	}
}

// WithNotifier sends upload and update events to svc.
func WithNotifier(svc notifications.Service) Option {
	return func(p *Publisher) {
		p.notifier = svc
	}
}

// New builds a Publisher. cat may be nil for dry runs; renderer may be nil
// when thumbnails are always supplied explicitly.
func New(cat Catalog, renderer Renderer, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{
		catalog:    cat,
		renderer:   renderer,
		screenshot: ffmpeg.Screenshot,
		logger:     logging.NewComponentLogger(logger, "publish"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// notify delivers an event when a notifier is configured. Failures are
// logged and otherwise ignored.
func (p *Publisher) notify(ctx context.Context, send func(context.Context, notifications.Service) error) {
	if p.notifier == nil {
		return
	}
	if err := send(ctx, p.notifier); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "notification failed", "notification_failed",
			logging.String(logging.FieldImpact, "no notification delivered"),
			logging.Error(err),
		)
	}
}
