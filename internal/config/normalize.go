package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalog()
	c.normalizeUpload()
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("VIDPUB_CREDENTIALS"); ok && strings.TrimSpace(value) != "" {
		c.Paths.CredentialsPath = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.CredentialsPath) == "" {
		c.Paths.CredentialsPath = defaultCredentialsPath
	}
	var err error
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.CredentialsPath, err = expandPath(c.Paths.CredentialsPath); err != nil {
		return fmt.Errorf("paths.credentials_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() {
	c.Catalog.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.APIBaseURL), "/")
	if c.Catalog.APIBaseURL == "" {
		c.Catalog.APIBaseURL = defaultAPIBaseURL
	}
	c.Catalog.UploadBaseURL = strings.TrimRight(strings.TrimSpace(c.Catalog.UploadBaseURL), "/")
	if c.Catalog.UploadBaseURL == "" {
		c.Catalog.UploadBaseURL = defaultUploadBaseURL
	}
	if c.Catalog.PageSize == 0 {
		c.Catalog.PageSize = defaultPageSize
	}
	if c.Catalog.MaxPages == 0 {
		c.Catalog.MaxPages = defaultMaxPages
	}
}

// normalizeUpload trims surrounding whitespace from enum-like fields only.
// Keywords are kept verbatim because tag segments are not trimmed.
func (c *Config) normalizeUpload() {
	c.Upload.PublishAt = strings.TrimSpace(c.Upload.PublishAt)
	c.Upload.PublishTime = strings.TrimSpace(c.Upload.PublishTime)
	c.Upload.Privacy = strings.ToLower(strings.TrimSpace(c.Upload.Privacy))
	c.Upload.Category = strings.ToLower(strings.TrimSpace(c.Upload.Category))
	c.Upload.FirstEpisodeDate = strings.TrimSpace(c.Upload.FirstEpisodeDate)
	c.Upload.PlaylistID = strings.TrimSpace(c.Upload.PlaylistID)
	c.Upload.FFmpegBinary = strings.TrimSpace(c.Upload.FFmpegBinary)
	if c.Upload.FFmpegBinary == "" {
		c.Upload.FFmpegBinary = defaultFFmpegBinary
	}
	c.Upload.FFprobeBinary = strings.TrimSpace(c.Upload.FFprobeBinary)
	c.Update.ChangeDescription = strings.ToLower(strings.TrimSpace(c.Update.ChangeDescription))
	if c.Update.ChangeDescription == "" {
		c.Update.ChangeDescription = defaultChangeMode
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
