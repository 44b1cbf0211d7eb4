package config

const (
	defaultLogDir           = "~/.local/share/vidpub/logs"
	defaultCredentialsPath  = "~/.config/vidpub/credentials.json"
	defaultAPIBaseURL       = "https://www.googleapis.com/youtube/v3"
	defaultUploadBaseURL    = "https://www.googleapis.com/upload/youtube/v3"
	defaultRequestTimeout   = 0
	defaultPageSize         = 10
	defaultMaxPages         = 1000
	defaultWatermark        = "logos.png"
	defaultThumbSecond      = 360
	defaultPublishAt        = "coming=friday"
	defaultPublishTime      = "08:00:00"
	defaultKeywords         = "rust,tutorial,youtube,upload,vidpub"
	defaultPrivacy          = "private"
	defaultCategory         = "science"
	defaultFirstEpisodeDate = "2020-09-01"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultChangeMode       = "append"
	defaultNtfyTimeout      = 10
	defaultLogFormat        = "auto"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:          defaultLogDir,
			CredentialsPath: defaultCredentialsPath,
		},
		Catalog: Catalog{
			APIBaseURL:     defaultAPIBaseURL,
			UploadBaseURL:  defaultUploadBaseURL,
			RequestTimeout: defaultRequestTimeout,
			PageSize:       defaultPageSize,
			MaxPages:       defaultMaxPages,
		},
		Upload: Upload{
			Watermark:        defaultWatermark,
			ThumbSecond:      defaultThumbSecond,
			PublishAt:        defaultPublishAt,
			PublishTime:      defaultPublishTime,
			Keywords:         defaultKeywords,
			Privacy:          defaultPrivacy,
			Category:         defaultCategory,
			FirstEpisodeDate: defaultFirstEpisodeDate,
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
		},
		Update: Update{
			ChangeDescription: defaultChangeMode,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
