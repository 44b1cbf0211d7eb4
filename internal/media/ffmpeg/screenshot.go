package ffmpeg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"vidpub/internal/fileutil"
	"vidpub/internal/logging"
	"vidpub/internal/services"
)

// ScreenshotRequest describes one still extraction.
type ScreenshotRequest struct {
	FFmpeg  string
	FFprobe string
	Video   string
	Second  int
}

// Screenshot writes the frame at req.Second of req.Video to a sibling .png
// and returns its path. An existing sibling is reused and skipped is true.
// When req.FFprobe is set, a timestamp past the end of the video fails
// before ffmpeg runs.
func Screenshot(ctx context.Context, logger *slog.Logger, req ScreenshotRequest) (path string, skipped bool, err error) {
	logger = logging.NewComponentLogger(logger, "ffmpeg")
	if strings.TrimSpace(req.Video) == "" {
		return "", false, services.Wrap(services.ErrValidation, "ffmpeg", "screenshot", "video path is empty", nil)
	}
	if req.Second < 0 {
		return "", false, services.Wrap(services.ErrValidation, "ffmpeg", "screenshot", fmt.Sprintf("screenshot second %d is negative", req.Second), nil)
	}
	output := fileutil.SiblingPath(req.Video, ".png")

	exists, err := fileutil.Exists(output)
	if err != nil {
		return "", false, fmt.Errorf("stat screenshot: %w", err)
	}
	if exists {
		logger.Info("screenshot exists, skipping", logging.String("path", output))
		return output, true, nil
	}

	if strings.TrimSpace(req.FFprobe) != "" {
		probe, err := Inspect(ctx, req.FFprobe, req.Video)
		if err != nil {
			return "", false, err
		}
		if length := probe.Duration(); length > 0 && time.Duration(req.Second)*time.Second >= length {
			return "", false, services.Wrap(services.ErrValidation, "ffmpeg", "screenshot",
				fmt.Sprintf("screenshot second %d is beyond video length %s", req.Second, length.Round(time.Second)), nil)
		}
	}

	binary := strings.TrimSpace(req.FFmpeg)
	if binary == "" {
		binary = "ffmpeg"
	}
	args := []string{"-hide_banner", "-loglevel", "error", "-i", req.Video, "-ss", strconv.Itoa(req.Second), "-vframes", "1", "-y", output}
	cmd := exec.CommandContext(ctx, binary, args...)
	started := time.Now()
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(output)
		return "", false, fmt.Errorf("%w: ffmpeg screenshot: %w: %s", services.ErrExternalTool, err, strings.TrimSpace(string(out)))
	}

	// ffmpeg exits successfully when the seek lands past the last frame.
	info, err := os.Stat(output)
	if err != nil || info.Size() == 0 {
		_ = os.Remove(output)
		return "", false, services.Wrap(services.ErrExternalTool, "ffmpeg", "screenshot",
			fmt.Sprintf("no frame written at second %d of %s", req.Second, req.Video), nil)
	}
	logger.Info("screenshot extracted",
		logging.String("path", output),
		logging.Int("second", req.Second),
		logging.Duration("elapsed", time.Since(started)),
	)
	return output, false, nil
}
