package config

const (
	defaultDataDir                   = "~/.local/share/actas"
	defaultLogDir                    = "~/.local/share/actas/logs"
	defaultAudioDir                  = "~/.local/share/actas/audio"
	defaultExportDir                 = "~/actas"
	defaultTranscriberBaseURL        = "https://api.openai.com/v1/audio/transcriptions"
	defaultTranscriberModel          = "whisper-1"
	defaultTranscriberLanguage       = "es"
	defaultTranscriberTimeoutSeconds = 300
	defaultDrafterBaseURL            = "https://api.openai.com/v1/chat/completions"
	defaultDrafterModel              = "gpt-4o"
	defaultDrafterTitle              = "Actas Drafter"
	defaultDrafterTimeoutSeconds     = 120
	defaultEmailPort                 = 587
	defaultEmailTimeoutSeconds       = 30
	defaultNotifyRequestTimeout      = 10
	defaultLogFormat                 = "console"
	defaultLogLevel                  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			AudioDir:  defaultAudioDir,
			ExportDir: defaultExportDir,
		},
		Transcriber: Transcriber{
			BaseURL:        defaultTranscriberBaseURL,
			Model:          defaultTranscriberModel,
			Language:       defaultTranscriberLanguage,
			TimeoutSeconds: defaultTranscriberTimeoutSeconds,
		},
		Drafter: Drafter{
			BaseURL:        defaultDrafterBaseURL,
			Model:          defaultDrafterModel,
			Title:          defaultDrafterTitle,
			TimeoutSeconds: defaultDrafterTimeoutSeconds,
		},
		Email: Email{
			Port:           defaultEmailPort,
			TimeoutSeconds: defaultEmailTimeoutSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
