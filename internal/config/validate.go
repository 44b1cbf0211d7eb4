package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"vidpub/internal/metadata"
	"vidpub/internal/schedule"
	"vidpub/internal/services"
)

// maxCatalogPageSize is the largest page the catalog serves.
const maxCatalogPageSize = 50

// Validate ensures the configuration is usable. Scheduling and enum fields
// are parsed here so a bad default fails at load time rather than mid-upload.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return wrapInvalid(err)
	}
	if err := c.validateUpload(); err != nil {
		return wrapInvalid(err)
	}
	if err := c.validateUpdate(); err != nil {
		return wrapInvalid(err)
	}
	if err := c.validateNotifications(); err != nil {
		return wrapInvalid(err)
	}
	if err := c.validateLogging(); err != nil {
		return wrapInvalid(err)
	}
	return nil
}

func wrapInvalid(err error) error {
	return fmt.Errorf("%w: %w", services.ErrConfiguration, err)
}

func (c *Config) validateCatalog() error {
	if c.Catalog.RequestTimeout < 0 {
		return errors.New("catalog.request_timeout must be >= 0 (seconds, 0 disables)")
	}
	if c.Catalog.PageSize < 1 || c.Catalog.PageSize > maxCatalogPageSize {
		return fmt.Errorf("catalog.page_size must be between 1 and %d", maxCatalogPageSize)
	}
	if c.Catalog.MaxPages < 1 {
		return errors.New("catalog.max_pages must be positive")
	}
	return nil
}

func (c *Config) validateUpload() error {
	if _, err := schedule.ParseMode(c.Upload.PublishAt); err != nil {
		return fmt.Errorf("upload.publish_at: %w", err)
	}
	if _, err := schedule.ParseClock(c.Upload.PublishTime); err != nil {
		return fmt.Errorf("upload.publish_time: %w", err)
	}
	if _, err := schedule.ParseDate(c.Upload.FirstEpisodeDate); err != nil {
		return fmt.Errorf("upload.first_episode_date: %w", err)
	}
	if _, err := metadata.ParsePrivacy(c.Upload.Privacy); err != nil {
		return fmt.Errorf("upload.privacy: %w", err)
	}
	if _, err := metadata.ParseCategory(c.Upload.Category); err != nil {
		return fmt.Errorf("upload.category: %w", err)
	}
	if c.Upload.ThumbSecond < 0 {
		return errors.New("upload.thumb_second must be >= 0")
	}
	return nil
}

func (c *Config) validateUpdate() error {
	if _, err := metadata.ParseMergeMode(c.Update.ChangeDescription); err != nil {
		return fmt.Errorf("update.change_desc: %w", err)
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	if c.Notifications.NtfyTopic == "" {
		return nil
	}
	u, err := url.Parse(c.Notifications.NtfyTopic)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("notifications.ntfy_topic %q must be an http(s) URL", c.Notifications.NtfyTopic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be auto, console or json", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn or error", c.Logging.Level)
	}
	return nil
}
