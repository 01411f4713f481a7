package config

const (
	defaultWorkspaceDir     = "~/curation"
	defaultLogDir           = "~/.local/share/curator/logs"
	defaultDataFolder       = "DATA"
	defaultMetadataFolder   = "METADATA"
	defaultFigshareBaseURL  = "https://api.figshare.com/v2/account"
	defaultFigshareStageURL = "https://api.figsh.com/v2/account"
	defaultPageSize         = 1000
	defaultRequestTimeout   = 30
	defaultTemplateName     = "README_template.txt"
	defaultOutputName       = "README.txt"
	defaultDOIPlaceholder   = "10.25422/azu.data.[DOI_NUMBER]"
	defaultNotifyTimeout    = 10
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultHistoryEnabled   = true
)

func defaultStageNames() []string {
	return []string{"1.ToDo", "2.UnderReview", "3.Published"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			LogDir:       defaultLogDir,
		},
		Stages: Stages{
			Names:          defaultStageNames(),
			DataFolder:     defaultDataFolder,
			MetadataFolder: defaultMetadataFolder,
		},
		Figshare: Figshare{
			BaseURL:        defaultFigshareBaseURL,
			StageBaseURL:   defaultFigshareStageURL,
			PageSize:       defaultPageSize,
			RequestTimeout: defaultRequestTimeout,
		},
		Manifest: Manifest{
			TemplateName:   defaultTemplateName,
			OutputName:     defaultOutputName,
			DOIPlaceholder: defaultDOIPlaceholder,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
