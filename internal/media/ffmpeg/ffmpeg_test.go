package ffmpeg

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"vidpub/internal/logging"
	"vidpub/internal/services"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return path
}

// stubFFmpeg writes its arguments to a log and "png" to the last argument.
func stubFFmpeg(t *testing.T, dir string) (bin, argsLog string) {
	argsLog = filepath.Join(dir, "ffmpeg.args")
	bin = writeScript(t, dir, "ffmpeg", `echo "$@" > "`+argsLog+`"
for last; do :; done
printf png > "$last"
`)
	return bin, argsLog
}

func TestScreenshotWritesSiblingPNG(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, argsLog := stubFFmpeg(t, dir)
	video := filepath.Join(dir, "2A-intro.mp4")

	path, skipped, err := Screenshot(context.Background(), logging.NewNop(), ScreenshotRequest{FFmpeg: bin, Video: video, Second: 360})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if skipped {
		t.Fatal("expected fresh extraction")
	}
	if want := filepath.Join(dir, "2A-intro.png"); path != want {
		t.Fatalf("unexpected path %q want %q", path, want)
	}
	args, err := os.ReadFile(argsLog)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if !strings.Contains(string(args), "-i "+video+" -ss 360 -vframes 1 -y "+path) {
		t.Fatalf("unexpected ffmpeg args: %s", args)
	}
}

func TestScreenshotReusesExistingFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, argsLog := stubFFmpeg(t, dir)
	video := filepath.Join(dir, "clip.mkv")
	existing := filepath.Join(dir, "clip.png")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	path, skipped, err := Screenshot(context.Background(), nil, ScreenshotRequest{FFmpeg: bin, Video: video, Second: 1})
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if !skipped || path != existing {
		t.Fatalf("expected reuse of %q, got %q skipped=%v", existing, path, skipped)
	}
	if _, err := os.Stat(argsLog); !os.IsNotExist(err) {
		t.Fatal("ffmpeg should not run when the screenshot exists")
	}
}

func TestScreenshotFailsWhenNoFrameWritten(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin := writeScript(t, dir, "ffmpeg", "exit 0\n")
	video := filepath.Join(dir, "clip.mp4")

	_, _, err := Screenshot(context.Background(), nil, ScreenshotRequest{FFmpeg: bin, Video: video, Second: 5})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "clip.png")); !os.IsNotExist(statErr) {
		t.Fatal("empty screenshot should be removed")
	}
}

func TestScreenshotReportsFFmpegFailure(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin := writeScript(t, dir, "ffmpeg", "echo 'No such file' >&2\nexit 1\n")

	_, _, err := Screenshot(context.Background(), nil, ScreenshotRequest{FFmpeg: bin, Video: filepath.Join(dir, "x.mp4"), Second: 5})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "No such file") {
		t.Fatalf("expected ffmpeg output in error, got %v", err)
	}
}

func TestScreenshotChecksVideoLength(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	bin, argsLog := stubFFmpeg(t, dir)
	probe := writeScript(t, dir, "ffprobe", `echo '{"streams":[{"codec_type":"video"}],"format":{"duration":"120.5"}}'`+"\n")
	video := filepath.Join(dir, "short.mp4")

	_, _, err := Screenshot(context.Background(), nil, ScreenshotRequest{FFmpeg: bin, FFprobe: probe, Video: video, Second: 360})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, statErr := os.Stat(argsLog); !os.IsNotExist(statErr) {
		t.Fatal("ffmpeg should not run for an out-of-range second")
	}

	if _, _, err := Screenshot(context.Background(), nil, ScreenshotRequest{FFmpeg: bin, FFprobe: probe, Video: video, Second: 60}); err != nil {
		t.Fatalf("in-range screenshot failed: %v", err)
	}
}

func TestScreenshotRejectsNegativeSecond(t *testing.T) {
	t.Parallel()
	_, _, err := Screenshot(context.Background(), nil, ScreenshotRequest{Video: "/tmp/x.mp4", Second: -1})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProbeDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		probe Probe
		want  time.Duration
	}{
		{"format", Probe{Format: Format{Duration: "90.5"}}, 90500 * time.Millisecond},
		{"stream fallback", Probe{Streams: []Stream{{CodecType: "audio", Duration: "200"}, {CodecType: "video", Duration: "30"}}}, 30 * time.Second},
		{"invalid", Probe{Format: Format{Duration: "bad"}}, 0},
		{"missing", Probe{}, 0},
	}
	for _, tc := range tests {
		if got := tc.probe.Duration(); got != tc.want {
			t.Errorf("%s: Duration() = %v, want %v", tc.name, got, tc.want)
		}
	}
	if (Probe{Streams: []Stream{{CodecType: "Video"}}}).HasVideo() != true {
		t.Error("expected HasVideo for case-insensitive codec type")
	}
}

func TestInspectParsesOutput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	probe := writeScript(t, dir, "ffprobe", `echo '{"streams":[{"index":0,"codec_type":"video","width":1920,"height":1080}],"format":{"duration":"10"}}'`+"\n")

	result, err := Inspect(context.Background(), probe, filepath.Join(dir, "clip.mp4"))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !result.HasVideo() || result.Streams[0].Width != 1920 {
		t.Fatalf("unexpected probe: %+v", result)
	}
	if result.Duration() != 10*time.Second {
		t.Fatalf("unexpected duration %v", result.Duration())
	}
}
