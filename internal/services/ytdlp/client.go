package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TrackInfo is discovery metadata for one source entry.
type TrackInfo struct {
	Title           string
	WebpageURL      string
	MediaURL        string
	Uploader        string
	DurationSeconds float64
	PlaylistTitle   string
	PlaylistURL     string
	TrackNumber     int
}

// Complete reports whether the entry carries both locators the pipeline
// needs: the canonical webpage URL that identifies the track and the
// ephemeral media URL that proves it is fetchable right now.
func (t *TrackInfo) Complete() bool {
	return t != nil && strings.TrimSpace(t.WebpageURL) != "" && strings.TrimSpace(t.MediaURL) != ""
}

// Resolver defines the discovery behaviour required by the orchestrator.
type Resolver interface {
	ResolveTrack(ctx context.Context, url string) (*TrackInfo, error)
	ResolvePlaylist(ctx context.Context, url string) ([]*TrackInfo, error)
}

// Fetcher defines the download behaviour required by the fetch stage.
// Implementations resolve a fresh media URL on every call; the ephemeral
// locator recorded at discovery time is never replayed.
type Fetcher interface {
	FetchToPath(ctx context.Context, webpageURL, destPath string) error
}

// Executor abstracts command execution for testability. Stdout lines are
// delivered to onStdout; stderr is forwarded to the process stderr so
// tool noise never pollutes parsed output.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Config captures runtime settings for yt-dlp invocations.
type Config struct {
	// Binary is the yt-dlp executable to invoke.
	Binary string
	// Format is the format selector for audio downloads.
	Format string
	// AudioFormat is the container the fetched audio is converted to.
	AudioFormat string
	// TimeoutSeconds bounds a single invocation; zero means no limit.
	TimeoutSeconds int
}

// yt-dlp configuration defaults.
const (
	Command            = "yt-dlp"
	DefaultFormat      = "bestaudio/best"
	DefaultAudioFormat = "wav"
)

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Binary) == "" {
		c.Binary = Command
	}
	if strings.TrimSpace(c.Format) == "" {
		c.Format = DefaultFormat
	}
	if strings.TrimSpace(c.AudioFormat) == "" {
		c.AudioFormat = DefaultAudioFormat
	}
	return c
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	cfg     Config
	timeout time.Duration
	exec    Executor
}

// New constructs a yt-dlp client.
func New(cfg Config, opts ...Option) *Client {
	cfg = cfg.withDefaults()
	client := &Client{
		cfg:     cfg,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		exec:    commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Binary returns the executable the client invokes.
func (c *Client) Binary() string {
	return c.cfg.Binary
}

// AudioFormat returns the container fetched audio is converted to.
func (c *Client) AudioFormat() string {
	return c.cfg.AudioFormat
}

// rawEntry mirrors the fields yt-dlp reports per resolved entry.
type rawEntry struct {
	Title      string  `json:"title"`
	WebpageURL string  `json:"webpage_url"`
	URL        string  `json:"url"`
	Uploader   string  `json:"uploader"`
	Duration   float64 `json:"duration"`
}

// rawInfo mirrors the top level of --dump-single-json output. For a
// playlist the entry fields describe the playlist itself.
type rawInfo struct {
	rawEntry
	Type    string     `json:"_type"`
	Entries []rawEntry `json:"entries"`
}

// ResolveTrack resolves metadata for a single track URL. When the URL
// turns out to reference a playlist, the first entry is returned.
func (c *Client) ResolveTrack(ctx context.Context, url string) (*TrackInfo, error) {
	info, err := c.dump(ctx, url, false)
	if err != nil {
		return nil, err
	}
	if info.Type == "playlist" || len(info.Entries) > 0 {
		if len(info.Entries) == 0 {
			return nil, fmt.Errorf("resolve track: playlist %q has no entries", url)
		}
		track := entryToTrack(info.Entries[0])
		track.PlaylistTitle = info.Title
		track.PlaylistURL = info.WebpageURL
		track.TrackNumber = 1
		return track, nil
	}
	return entryToTrack(info.rawEntry), nil
}

// ResolvePlaylist resolves metadata for every entry of a playlist URL.
// Entries keep their 1-based playlist position even when they are too
// incomplete to process, so skipping one leaves a visible gap instead of
// renumbering its siblings. A non-playlist URL yields a single entry.
func (c *Client) ResolvePlaylist(ctx context.Context, url string) ([]*TrackInfo, error) {
	info, err := c.dump(ctx, url, true)
	if err != nil {
		return nil, err
	}

	if info.Type != "playlist" && len(info.Entries) == 0 {
		track := entryToTrack(info.rawEntry)
		track.TrackNumber = 1
		return []*TrackInfo{track}, nil
	}

	tracks := make([]*TrackInfo, 0, len(info.Entries))
	for i, entry := range info.Entries {
		track := entryToTrack(entry)
		track.PlaylistTitle = info.Title
		track.PlaylistURL = info.WebpageURL
		track.TrackNumber = i + 1
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// FetchToPath downloads the track's audio and converts it so the final
// artifact lands exactly on destPath. The media URL is resolved fresh by
// yt-dlp as part of the download.
func (c *Client) FetchToPath(ctx context.Context, webpageURL, destPath string) error {
	if strings.TrimSpace(webpageURL) == "" {
		return errors.New("webpage url required")
	}
	if strings.TrimSpace(destPath) == "" {
		return errors.New("destination path required")
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create audio dir: %w", err)
	}

	fetchCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	// yt-dlp names the converted file after --audio-format, so hand it
	// the destination minus extension plus the ext template.
	outputTemplate := strings.TrimSuffix(destPath, filepath.Ext(destPath)) + ".%(ext)s"

	args := []string{
		"--format", c.cfg.Format,
		"--extract-audio",
		"--audio-format", c.cfg.AudioFormat,
		"--output", outputTemplate,
		"--no-playlist",
		"--no-progress",
		webpageURL,
	}
	if err := c.exec.Run(fetchCtx, c.cfg.Binary, args, nil); err != nil {
		return fmt.Errorf("yt-dlp download: %w", err)
	}
	return nil
}

func (c *Client) dump(ctx context.Context, url string, playlist bool) (*rawInfo, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("url required")
	}

	dumpCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		dumpCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	args := []string{
		"--dump-single-json",
		"--no-download",
		"--format", c.cfg.Format,
	}
	if playlist {
		args = append(args, "--yes-playlist")
	} else {
		args = append(args, "--no-playlist")
	}
	args = append(args, url)

	var output strings.Builder
	if err := c.exec.Run(dumpCtx, c.cfg.Binary, args, func(line string) {
		output.WriteString(line)
	}); err != nil {
		return nil, fmt.Errorf("yt-dlp metadata: %w", err)
	}

	payload := strings.TrimSpace(output.String())
	if payload == "" {
		return nil, fmt.Errorf("yt-dlp metadata: empty response for %q", url)
	}
	var info rawInfo
	if err := json.Unmarshal([]byte(payload), &info); err != nil {
		return nil, fmt.Errorf("parse yt-dlp json: %w", err)
	}
	return &info, nil
}

func entryToTrack(entry rawEntry) *TrackInfo {
	return &TrackInfo{
		Title:           strings.TrimSpace(entry.Title),
		WebpageURL:      strings.TrimSpace(entry.WebpageURL),
		MediaURL:        strings.TrimSpace(entry.URL),
		Uploader:        strings.TrimSpace(entry.Uploader),
		DurationSeconds: entry.Duration,
	}
}
