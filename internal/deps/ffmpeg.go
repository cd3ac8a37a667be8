package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// CheckFFmpegForFetcher reports the FFmpeg binary yt-dlp will execute for
// audio conversion.
//
// pipx and venv installs often bundle an ffmpeg next to the yt-dlp
// executable, and yt-dlp prefers that one before resolving "ffmpeg" from
// PATH. This helper mirrors that lookup order so status output matches what
// the fetcher actually runs.
func CheckFFmpegForFetcher(fetcherCommand string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Used by yt-dlp for audio conversion",
	}

	fetcherBinary := strings.TrimSpace(fetcherCommand)
	if fetcherBinary != "" {
		if resolved, err := exec.LookPath(fetcherBinary); err == nil {
			if candidate, ok := sidecarCandidate(resolved); ok {
				if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
					result.Command = candidate
					result.Available = true
					return result
				}
			}
		}
	}

	ffmpegName := "ffmpeg"
	if ffmpegPath, err := exec.LookPath(ffmpegName); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = ffmpegName
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", ffmpegName)
	return result
}

func sidecarCandidate(fetcherPath string) (string, bool) {
	if fetcherPath == "" {
		return "", false
	}
	dir := filepath.Dir(fetcherPath)
	name := "ffmpeg"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name), true
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
