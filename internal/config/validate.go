package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStages(); err != nil {
		return err
	}
	if err := c.validateFigshare(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		return errors.New("paths.workspace_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateStages() error {
	if len(c.Stages.Names) < 2 {
		return errors.New("stages.names requires at least two stages")
	}
	seen := map[string]struct{}{}
	for _, name := range c.Stages.Names {
		if strings.ContainsAny(name, "/\\") {
			return fmt.Errorf("stages.names entry %q must not contain path separators", name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("stages.names entry %q is duplicated", name)
		}
		seen[name] = struct{}{}
	}
	if c.Stages.DataFolder == c.Stages.MetadataFolder {
		return errors.New("stages.data_folder and stages.metadata_folder must differ")
	}
	return nil
}

func (c *Config) validateFigshare() error {
	if c.Figshare.APIToken == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/curator/config.toml"
		}
		return fmt.Errorf("figshare.api_token is required. Set FIGSHARE_API_TOKEN env var or edit %s (create with 'curator config init')", defaultPath)
	}
	if !strings.HasPrefix(c.APIBaseURL(), "http") {
		return fmt.Errorf("figshare base url %q must be an http(s) URL", c.APIBaseURL())
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
