package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"vidpub/internal/fileutil"
	"vidpub/internal/logging"
	"vidpub/internal/media/ffmpeg"
	"vidpub/internal/metadata"
	"vidpub/internal/services"
	"vidpub/internal/thumbnail"
)

// videoExtensions are the file types searched when matching an entry to its source video.
var videoExtensions = []string{".mp4", ".mkv", ".mov", ".webm", ".avi", ".m4v"}

type thumbnailRequest struct {
	Video       string
	Explicit    string
	Caption     string
	Watermark   string
	ThumbSecond int
	FFmpeg      string
	FFprobe     string
	// Regenerate replaces an existing sibling .jpg instead of reusing it.
	Regenerate bool
}

// ensureThumbnail returns the image to attach. An explicit image must exist.
// Otherwise the video's sibling .jpg is reused or composed from a still.
func (p *Publisher) ensureThumbnail(ctx context.Context, req thumbnailRequest) (path string, generated bool, err error) {
	if req.Explicit != "" {
		exists, err := fileutil.Exists(req.Explicit)
		if err != nil {
			return "", false, fmt.Errorf("stat thumbnail: %w", err)
		}
		if !exists {
			return "", false, services.Wrap(services.ErrValidation, "publish", "thumbnail", "thumbnail "+req.Explicit+" does not exist", nil)
		}
		return req.Explicit, false, nil
	}

	output := fileutil.SiblingPath(req.Video, ".jpg")
	exists, err := fileutil.Exists(output)
	if err != nil {
		return "", false, fmt.Errorf("stat thumbnail: %w", err)
	}
	if exists && !req.Regenerate {
		logging.WithContext(ctx, p.logger).Info("reusing thumbnail", logging.String("path", output))
		return output, false, nil
	}
	target := output
	if exists {
		// Compose beside the old image and swap only once the new one is complete.
		target = fileutil.SiblingPath(req.Video, ".regen.jpg")
		_ = os.Remove(target)
	}
	if p.renderer == nil {
		return "", false, services.Wrap(services.ErrConfiguration, "publish", "thumbnail", "no thumbnail renderer configured", nil)
	}

	background, _, err := p.screenshot(ctx, p.logger, ffmpeg.ScreenshotRequest{
		FFmpeg:  req.FFmpeg,
		FFprobe: req.FFprobe,
		Video:   req.Video,
		Second:  req.ThumbSecond,
	})
	if err != nil {
		return "", false, err
	}

	watermark := req.Watermark
	if watermark != "" {
		ok, err := fileutil.Exists(watermark)
		if err != nil {
			return "", false, fmt.Errorf("stat watermark: %w", err)
		}
		if !ok {
			return "", false, services.Wrap(services.ErrValidation, "publish", "thumbnail", "watermark "+watermark+" does not exist", nil)
		}
	}

	path, skipped, err := p.renderer.Render(thumbnail.Spec{
		Background: background,
		Overlay:    watermark,
		Caption:    req.Caption,
		Output:     target,
	})
	if err != nil {
		return "", false, err
	}
	if target != output {
		if err := os.Rename(target, output); err != nil {
			return "", false, fmt.Errorf("replace thumbnail: %w", err)
		}
		path = output
	}
	logging.WithContext(ctx, p.logger).Info("thumbnail composed",
		logging.String("path", path),
		logging.String("background", background),
	)
	return path, !skipped, nil
}

// findEpisodeVideo returns the video in dir whose file name starts with
// the hex label of episode. Matches are tried in name order.
func findEpisodeVideo(dir string, episode uint8) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read video directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !slices.Contains(videoExtensions, strings.ToLower(filepath.Ext(name))) {
			continue
		}
		ep, err := metadata.EpisodeNumber(nil, metadata.Title("", name))
		if err != nil || ep != episode {
			continue
		}
		return filepath.Join(dir, name), nil
	}
	return "", services.Wrap(services.ErrValidation, "publish", "thumbnail",
		fmt.Sprintf("no video for episode %X in %s", episode, dir), nil)
}
