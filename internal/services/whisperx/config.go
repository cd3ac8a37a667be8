package whisperx

// Config captures runtime settings for WhisperX invocations.
type Config struct {
	// Binary is the WhisperX executable to invoke.
	Binary string
	// Model is the Whisper model to load (e.g. "large-v2").
	Model string
	// Device selects where inference runs ("cpu" or "cuda").
	Device string
	// ComputeType selects the inference precision (e.g. "int8", "float16").
	ComputeType string
	// BatchSize is the transcription batch size.
	BatchSize int
	// Language is the default language hint; empty lets the engine detect.
	Language string
	// CharAlignments requests character-level timings in the output.
	CharAlignments bool
}

// WhisperX configuration defaults.
const (
	Command            = "whisperx"
	DefaultModel       = "large-v2"
	DefaultDevice      = "cpu"
	DefaultComputeType = "int8"
	DefaultBatchSize   = 16
	OutputFormat       = "json"
)

func (c Config) withDefaults() Config {
	if c.Binary == "" {
		c.Binary = Command
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.ComputeType == "" {
		c.ComputeType = DefaultComputeType
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	return c
}
