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
	c.normalizeStages()
	c.normalizeFigshare()
	c.normalizeAccounts()
	c.normalizeManifest()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStages() {
	names := make([]string, 0, len(c.Stages.Names))
	for _, name := range c.Stages.Names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	if len(names) == 0 {
		names = defaultStageNames()
	}
	c.Stages.Names = names

	if strings.TrimSpace(c.Stages.DataFolder) == "" {
		c.Stages.DataFolder = defaultDataFolder
	}
	if strings.TrimSpace(c.Stages.MetadataFolder) == "" {
		c.Stages.MetadataFolder = defaultMetadataFolder
	}
}

func (c *Config) normalizeFigshare() {
	c.Figshare.APIToken = strings.TrimSpace(c.Figshare.APIToken)
	if c.Figshare.APIToken == "" {
		if value, ok := os.LookupEnv("FIGSHARE_API_TOKEN"); ok {
			c.Figshare.APIToken = strings.TrimSpace(value)
		}
	}
	c.Figshare.BaseURL = strings.TrimRight(strings.TrimSpace(c.Figshare.BaseURL), "/")
	if c.Figshare.BaseURL == "" {
		c.Figshare.BaseURL = defaultFigshareBaseURL
	}
	c.Figshare.StageBaseURL = strings.TrimRight(strings.TrimSpace(c.Figshare.StageBaseURL), "/")
	if c.Figshare.StageBaseURL == "" {
		c.Figshare.StageBaseURL = defaultFigshareStageURL
	}
	if c.Figshare.PageSize <= 0 || c.Figshare.PageSize > defaultPageSize {
		// The remote service rejects pages larger than 1000.
		c.Figshare.PageSize = defaultPageSize
	}
	if c.Figshare.RequestTimeout <= 0 {
		c.Figshare.RequestTimeout = defaultRequestTimeout
	}
}

func (c *Config) normalizeAccounts() {
	c.Accounts.ExcludeEmails = trimStrings(c.Accounts.ExcludeEmails)
	c.Accounts.ExcludeSubstring = trimStrings(c.Accounts.ExcludeSubstring)
}

func (c *Config) normalizeManifest() {
	if strings.TrimSpace(c.Manifest.TemplateName) == "" {
		c.Manifest.TemplateName = defaultTemplateName
	}
	if strings.TrimSpace(c.Manifest.OutputName) == "" {
		c.Manifest.OutputName = defaultOutputName
	}
	if strings.TrimSpace(c.Manifest.DOIPlaceholder) == "" {
		c.Manifest.DOIPlaceholder = defaultDOIPlaceholder
	}
}

func (c *Config) normalizeHistory() error {
	if strings.TrimSpace(c.History.Path) == "" {
		return nil
	}
	expanded, err := expandPath(c.History.Path)
	if err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	c.History.Path = expanded
	return nil
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

func trimStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
