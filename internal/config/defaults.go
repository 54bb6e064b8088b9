package config

const (
	defaultSettleSeconds  = 1
	defaultEngine         = "ocr"
	defaultJPEGQuality    = 75
	defaultVisionBaseURL  = "https://api.openai.com/v1/chat/completions"
	defaultVisionModel    = "gpt-4o-mini"
	defaultVisionTimeout  = 30
	defaultReportHost     = "destinytrialsreport.com"
	defaultLaunchSound    = "launched.wav"
	defaultLogLevel       = "info"
	defaultLogFormat      = "auto"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Watch: Watch{
			SettleSeconds: defaultSettleSeconds,
		},
		Extraction: Extraction{
			Engine:      defaultEngine,
			Fallback:    false,
			JPEGQuality: defaultJPEGQuality,
			MaxWidth:    0,
		},
		Vision: Vision{
			BaseURL:        defaultVisionBaseURL,
			Model:          defaultVisionModel,
			TimeoutSeconds: defaultVisionTimeout,
		},
		Report: Report{
			Host:      defaultReportHost,
			Sound:     true,
			SoundPath: defaultLaunchSound,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
