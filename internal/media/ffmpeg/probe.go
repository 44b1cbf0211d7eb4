package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"vidpub/internal/services"
)

// Probe represents the parsed output from an ffprobe inspection.
type Probe struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Probe, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Probe{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.Output()
	if err != nil {
		return Probe{}, fmt.Errorf("%w: ffprobe inspect %s: %w%s", services.ErrExternalTool, path, err, stderrDetail(err))
	}

	var result Probe
	if err := json.Unmarshal(output, &result); err != nil {
		return Probe{}, fmt.Errorf("%w: ffprobe parse: %w", services.ErrParse, err)
	}
	return result, nil
}

// HasVideo reports whether at least one video stream was found.
func (p Probe) HasVideo() bool {
	for _, stream := range p.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return true
		}
	}
	return false
}

// Duration returns the container duration, falling back to the longest
// video stream. Zero means unknown.
func (p Probe) Duration() time.Duration {
	seconds := parseFloat(p.Format.Duration)
	if seconds <= 0 || math.IsNaN(seconds) {
		for _, stream := range p.Streams {
			if !strings.EqualFold(stream.CodecType, "video") {
				continue
			}
			if s := parseFloat(stream.Duration); s > seconds && !math.IsNaN(s) {
				seconds = s
			}
		}
	}
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}

// stderrDetail appends captured stderr from an exec.ExitError.
func stderrDetail(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if detail := strings.TrimSpace(string(exitErr.Stderr)); detail != "" {
			return ": " + detail
		}
	}
	return ""
}
