package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"trackscribe/internal/catalog"
	langpkg "trackscribe/internal/language"
)

// Service provides WhisperX transcription with forced alignment. One
// invocation of the CLI performs both passes and emits a JSON payload
// with segment, word, and optionally character timings.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg.withDefaults()}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Binary returns the executable the service invokes.
func (s *Service) Binary() string {
	return s.cfg.Binary
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking WhisperX/pyannote.
	// Force legacy behavior so WhisperX can load alignment checkpoints safely.
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		cmd.Env = append(os.Environ(), "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// Request describes one transcription run.
type Request struct {
	// AudioPath is the audio artifact to transcribe.
	AudioPath string
	// OutputDir is where WhisperX writes its output files; defaults to
	// the audio file's directory.
	OutputDir string
	// Language optionally overrides the configured language hint.
	Language string
}

// Transcribe runs WhisperX over the request's audio file and returns the
// parsed aligned result. The engine names its JSON output after the audio
// file's base name inside OutputDir.
func (s *Service) Transcribe(ctx context.Context, req Request) (catalog.AlignedResult, error) {
	var result catalog.AlignedResult

	if req.AudioPath == "" {
		return result, fmt.Errorf("transcribe: audio path required")
	}
	outputDir := req.OutputDir
	if outputDir == "" {
		outputDir = filepath.Dir(req.AudioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return result, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	language := req.Language
	if language == "" {
		language = s.cfg.Language
	}

	args := s.buildArgs(req.AudioPath, outputDir, language)
	if err := s.run(ctx, s.cfg.Binary, args...); err != nil {
		return result, fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	result, err := LoadResult(jsonPath)
	if err != nil {
		return result, fmt.Errorf("whisperx output: %w", err)
	}
	if result.Language == "" {
		result.Language = langpkg.ToISO2(language)
	}
	return result, nil
}

// buildArgs constructs the command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 16)

	args = append(args,
		source,
		"--model", s.cfg.Model,
		"--device", s.cfg.Device,
		"--compute_type", s.cfg.ComputeType,
		"--batch_size", strconv.Itoa(s.cfg.BatchSize),
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	)

	if s.cfg.CharAlignments {
		args = append(args, "--return_char_alignments")
	}

	if lang := langpkg.ToISO2(language); lang != "" {
		args = append(args, "--language", lang)
	}

	return args
}

// Word mirrors a word-level alignment entry in WhisperX JSON output.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Score float64 `json:"score"`
}

// Char mirrors a character-level alignment entry in WhisperX JSON output.
type Char struct {
	Char  string  `json:"char"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Score float64 `json:"score"`
}

// Segment mirrors a transcribed segment in WhisperX JSON output.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words"`
	Chars []Char  `json:"chars"`
}

// whisperXPayload is the JSON structure WhisperX writes.
type whisperXPayload struct {
	Segments []Segment `json:"segments"`
	Language string    `json:"language"`
}

// LoadResult loads a WhisperX JSON file and maps it into the catalog's
// aligned-result shape. Segments the engine produced without character
// alignment keep a nil chars slice.
func LoadResult(jsonPath string) (catalog.AlignedResult, error) {
	var result catalog.AlignedResult

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return result, err
	}
	var payload whisperXPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return result, fmt.Errorf("parse whisperx json: %w", err)
	}

	result.Language = payload.Language
	result.Segments = make([]catalog.Segment, 0, len(payload.Segments))
	for _, seg := range payload.Segments {
		mapped := catalog.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
		if seg.Words != nil {
			mapped.Words = make([]catalog.Word, 0, len(seg.Words))
			for _, w := range seg.Words {
				mapped.Words = append(mapped.Words, catalog.Word{
					Word:  w.Word,
					Start: w.Start,
					End:   w.End,
					Score: w.Score,
				})
			}
		}
		if seg.Chars != nil {
			mapped.Chars = make([]catalog.Char, 0, len(seg.Chars))
			for _, c := range seg.Chars {
				mapped.Chars = append(mapped.Chars, catalog.Char{
					Char:  c.Char,
					Start: c.Start,
					End:   c.End,
					Score: c.Score,
				})
			}
		}
		result.Segments = append(result.Segments, mapped)
	}
	result.Normalize()
	return result, nil
}
