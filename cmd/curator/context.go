package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"curator/internal/config"
	"curator/internal/confirm"
	"curator/internal/figshare"
	"curator/internal/history"
	"curator/internal/logging"
)

type commandContext struct {
	configFlag *string
	assumeYes  *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string, assumeYes *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		assumeYes:  assumeYes,
	}
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
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
			Paths:  []string{"stderr", filepath.Join(cfg.Paths.LogDir, "curator.log")},
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) client() (*figshare.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return figshare.New(cfg, figshare.WithLogger(logger))
}

// confirmer returns the interactive prompt, or an auto-affirming one when
// --yes was passed.
func (c *commandContext) confirmer() confirm.Confirmer {
	if c.assumeYes != nil && *c.assumeYes {
		return confirm.Assume(true)
	}
	return confirm.NewTerminal(os.Stdin, os.Stdout)
}

// journal opens the audit journal when enabled; a nil store with nil error
// means history is disabled.
func (c *commandContext) journal() (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	return history.Open(cfg)
}

func (c *commandContext) accountFilter() figshare.AccountFilter {
	cfg, err := c.ensureConfig()
	if err != nil {
		return figshare.AccountFilter{}
	}
	return figshare.AccountFilter{
		ExcludeEmails:     cfg.Accounts.ExcludeEmails,
		ExcludeSubstrings: cfg.Accounts.ExcludeSubstring,
	}
}
