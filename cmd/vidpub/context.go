package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"vidpub/internal/config"
	"vidpub/internal/logging"
	"vidpub/internal/notifications"
	"vidpub/internal/publish"
	"vidpub/internal/services/catalog"
	"vidpub/internal/services/credentials"
	"vidpub/internal/thumbnail"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// authorizer returns the token authorizer backed by the configured credential file.
func (c *commandContext) authorizer() (*credentials.TokenAuthorizer, error) {
	cfg := c.configValue()
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return credentials.NewTokenAuthorizer(credentials.NewFileStore(cfg.Paths.CredentialsPath)), nil
}

// publisher wires a Publisher for one command. Without a catalog session
// only dry-run flows work. The returned cleanup releases font resources.
func (c *commandContext) publisher(withCatalog bool) (*publish.Publisher, func(), error) {
	cfg := c.configValue()
	if cfg == nil {
		return nil, nil, errors.New("configuration not loaded")
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}

	var cat publish.Catalog
	if withCatalog {
		auth, err := c.authorizer()
		if err != nil {
			return nil, nil, err
		}
		client, err := catalog.NewClient(catalog.NewSessionFromConfig(cfg, auth, logger))
		if err != nil {
			return nil, nil, err
		}
		cat = client
	}

	compositor, err := thumbnail.New()
	if err != nil {
		return nil, nil, fmt.Errorf("load thumbnail font: %w", err)
	}
	cleanup := func() { _ = compositor.Close() }
	pub := publish.New(cat, compositor, logger,
		publish.WithLockDir(cfg.Paths.LogDir),
		publish.WithNotifier(notifications.NewService(cfg)),
	)
	return pub, cleanup, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
