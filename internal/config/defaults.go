package config

const (
	defaultDataDir              = "~/.local/share/easel"
	defaultLogDir               = "~/.local/share/easel/logs"
	defaultCanvasDir            = "~/.local/share/easel/canvas"
	defaultAPIBind              = "127.0.0.1:7626"
	defaultRemoteBaseURL        = "https://generativelanguage.googleapis.com"
	defaultImageModel           = "gemini-2.5-flash-image"
	defaultVideoModel           = "veo-3.1-generate-preview"
	defaultRemoteTimeoutSeconds = 60
	defaultRefreshInterval      = 30
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			CanvasDir: defaultCanvasDir,
			APIBind:   defaultAPIBind,
		},
		Remote: Remote{
			BaseURL:        defaultRemoteBaseURL,
			ImageModel:     defaultImageModel,
			VideoModel:     defaultVideoModel,
			TimeoutSeconds: defaultRemoteTimeoutSeconds,
		},
		Workflow: Workflow{
			RefreshInterval: defaultRefreshInterval,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
