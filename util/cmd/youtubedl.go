package cmd

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
)

var youTubeHeaders = []string{
	"User-Agent:Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept-Language:en-US,en;q=0.9",
	"Referer:https://www.youtube.com/",
}

// YouTubeDl fetches the best audio stream behind url and transcodes it
// into path, whose extension selects the target audio format.
func YouTubeDl(ctx context.Context, executable, url, path string) error {
	var (
		output bytes.Buffer
		ext    = strings.TrimPrefix(filepath.Ext(path), ".")
		stem   = strings.TrimSuffix(path, filepath.Ext(path))
		args   = []string{
			"--format", "bestaudio/best",
			"--extract-audio",
			"--audio-format", ext,
			"--audio-quality", "0",
			"--output", stem + ".%(ext)s",
			"--no-playlist",
			"--no-overwrites",
			"--no-warnings",
			"--force-ipv4",
			"--concurrent-fragments", "1",
			"--retries", "3",
			"--retry-sleep", "exp=1::2",
		}
	)
	if ext == "" {
		return errors.New("output path lacks an audio format extension")
	}
	for _, header := range youTubeHeaders {
		args = append(args, "--add-header", header)
	}

	cmd := exec.CommandContext(ctx, executable, append(args, url)...)
	cmd.Stdout = &output
	cmd.Stderr = &output
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if message := strings.TrimSpace(output.String()); message != "" {
			return errors.New(message)
		}
		return err
	}
	return nil
}
