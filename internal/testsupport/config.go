package testsupport

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"vidpub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.CredentialsPath = filepath.Join(base, "credentials.json")
	cfgVal.Catalog.APIBaseURL = "http://127.0.0.1:0/youtube/v3"
	cfgVal.Catalog.UploadBaseURL = "http://127.0.0.1:0/upload/youtube/v3"
	cfgVal.Upload.FFprobeBinary = ""
	cfgVal.Logging.Format = "json"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCatalog points the catalog endpoints at a fake server.
func WithCatalog(fake *FakeCatalog) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Catalog.APIBaseURL = fake.APIBase()
		b.cfg.Catalog.UploadBaseURL = fake.UploadBase()
	}
}

// WithStubbedFFmpeg writes an ffmpeg stub that writes a PNG frame to its last
// argument and configures it as the upload ffmpeg binary.
func WithStubbedFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		if runtime.GOOS == "windows" {
			b.t.Skip("ffmpeg stub requires a POSIX shell")
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		frame := filepath.Join(binDir, "frame.png")
		WritePNG(b.t, frame, 1920, 1080)
		script := "#!/bin/sh\nfor last; do :; done\ncp \"" + frame + "\" \"$last\"\n"
		target := filepath.Join(binDir, "ffmpeg")
		if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
			b.t.Fatalf("write ffmpeg stub: %v", err)
		}
		b.cfg.Upload.FFmpegBinary = target
	}
}

// WithWatermark writes a small opaque watermark image and configures it.
func WithWatermark() ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "logos.png")
		WritePNG(b.t, path, 64, 64)
		b.cfg.Upload.Watermark = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
