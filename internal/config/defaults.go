package config

const (
	defaultAudioDir      = "~/.local/share/trackscribe/audio"
	defaultTranscriptDir = "~/.local/share/trackscribe/transcripts"
	defaultLogDir        = "~/.local/share/trackscribe/logs"
	defaultDatabasePath  = "~/.local/share/trackscribe/trackscribe.db"

	defaultYtDlpBinary         = "yt-dlp"
	defaultYtDlpFormat         = "bestaudio/best"
	defaultYtDlpAudioFormat    = "wav"
	defaultYtDlpTimeoutSeconds = 1800

	defaultWhisperXBinary      = "whisperx"
	defaultWhisperXModel       = "large-v2"
	defaultWhisperXDevice      = "cpu"
	defaultWhisperXComputeType = "int8"
	defaultWhisperXBatchSize   = 16

	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogRetentionDays = 7
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			AudioDir:      defaultAudioDir,
			TranscriptDir: defaultTranscriptDir,
			LogDir:        defaultLogDir,
		},
		Database: Database{
			Path: defaultDatabasePath,
		},
		Pipeline: Pipeline{
			ContinueOnError: false,
		},
		Transcripts: Transcripts{
			Cache:          true,
			CharAlignments: false,
		},
		YtDlp: YtDlp{
			Binary:         defaultYtDlpBinary,
			Format:         defaultYtDlpFormat,
			AudioFormat:    defaultYtDlpAudioFormat,
			TimeoutSeconds: defaultYtDlpTimeoutSeconds,
		},
		WhisperX: WhisperX{
			Binary:      defaultWhisperXBinary,
			Model:       defaultWhisperXModel,
			Device:      defaultWhisperXDevice,
			ComputeType: defaultWhisperXComputeType,
			BatchSize:   defaultWhisperXBatchSize,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
