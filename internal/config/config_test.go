package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vidpub/internal/config"
	"vidpub/internal/services"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VIDPUB_CREDENTIALS", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "share", "vidpub", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	wantCreds := filepath.Join(tempHome, ".config", "vidpub", "credentials.json")
	if cfg.Paths.CredentialsPath != wantCreds {
		t.Fatalf("unexpected credentials path: got %q want %q", cfg.Paths.CredentialsPath, wantCreds)
	}
	if cfg.Catalog.PageSize != 10 {
		t.Fatalf("expected default page size 10, got %d", cfg.Catalog.PageSize)
	}
	if cfg.Upload.PublishAt != "coming=friday" {
		t.Fatalf("unexpected publish_at default: %q", cfg.Upload.PublishAt)
	}
	if cfg.Upload.ThumbSecond != 360 {
		t.Fatalf("unexpected thumb_second default: %d", cfg.Upload.ThumbSecond)
	}
	if cfg.Update.ChangeDescription != "append" {
		t.Fatalf("unexpected change_desc default: %q", cfg.Update.ChangeDescription)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VIDPUB_CREDENTIALS", "")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
log_dir = "~/vidpub-logs"

[catalog]
api_base_url = "http://127.0.0.1:9999/v3/"
page_size = 25

[upload]
publish_at = " iso-date=2024-02-03 "
publish_time = "17:30:00"
privacy = "Unlisted"
category = "comedy"
keywords = "go, video"

[update]
change_desc = "PREPEND"

[logging]
format = "json"
level = "debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "vidpub-logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Catalog.APIBaseURL != "http://127.0.0.1:9999/v3" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Catalog.APIBaseURL)
	}
	if cfg.Catalog.UploadBaseURL != config.Default().Catalog.UploadBaseURL {
		t.Fatalf("expected upload base default, got %q", cfg.Catalog.UploadBaseURL)
	}
	if cfg.Catalog.PageSize != 25 {
		t.Fatalf("unexpected page size: %d", cfg.Catalog.PageSize)
	}
	if cfg.Upload.PublishAt != "iso-date=2024-02-03" {
		t.Fatalf("expected publish_at trimmed, got %q", cfg.Upload.PublishAt)
	}
	if cfg.Upload.Privacy != "unlisted" {
		t.Fatalf("expected privacy lowercased, got %q", cfg.Upload.Privacy)
	}
	if cfg.Upload.Keywords != "go, video" {
		t.Fatalf("expected keywords verbatim, got %q", cfg.Upload.Keywords)
	}
	if cfg.Update.ChangeDescription != "prepend" {
		t.Fatalf("unexpected change_desc: %q", cfg.Update.ChangeDescription)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[upload]\nwatermrk = \"x.png\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to fail decoding")
	}
}

func TestCredentialsEnvOverridesConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\ncredentials_path = \"/from/file.json\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	envPath := filepath.Join(tempHome, "env-creds.json")
	t.Setenv("VIDPUB_CREDENTIALS", envPath)

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.CredentialsPath != envPath {
		t.Fatalf("expected credentials path from env, got %q", cfg.Paths.CredentialsPath)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "publish_at") {
		t.Fatalf("sample config missing publish_at: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Upload.Watermark != "logos.png" {
		t.Fatalf("unexpected sample watermark: %q", cfg.Upload.Watermark)
	}

	t.Setenv("HOME", t.TempDir())
	t.Setenv("VIDPUB_CREDENTIALS", "")
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"page size zero", func(c *config.Config) { c.Catalog.PageSize = 0 }},
		{"page size too large", func(c *config.Config) { c.Catalog.PageSize = 51 }},
		{"max pages", func(c *config.Config) { c.Catalog.MaxPages = 0 }},
		{"negative timeout", func(c *config.Config) { c.Catalog.RequestTimeout = -1 }},
		{"publish method", func(c *config.Config) { c.Upload.PublishAt = "tomorrow" }},
		{"publish weekday", func(c *config.Config) { c.Upload.PublishAt = "coming=funday" }},
		{"publish time", func(c *config.Config) { c.Upload.PublishTime = "25:00:00" }},
		{"first episode date", func(c *config.Config) { c.Upload.FirstEpisodeDate = "2020/09/01" }},
		{"privacy", func(c *config.Config) { c.Upload.Privacy = "secret" }},
		{"category", func(c *config.Config) { c.Upload.Category = "sports" }},
		{"thumb second", func(c *config.Config) { c.Upload.ThumbSecond = -5 }},
		{"change mode", func(c *config.Config) { c.Update.ChangeDescription = "merge" }},
		{"ntfy topic", func(c *config.Config) { c.Notifications.NtfyTopic = "ntfy.sh/topic" }},
		{"ntfy timeout", func(c *config.Config) { c.Notifications.RequestTimeout = -1 }},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"log level", func(c *config.Config) { c.Logging.Level = "trace" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, services.ErrConfiguration) {
				t.Fatalf("expected configuration marker, got %v", err)
			}
		})
	}
}

func TestDefaultValidates(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
