package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"ytinfo/internal/model"
	"ytinfo/pkg/logger"

	"go.uber.org/zap"
)

// maxStderrInError bounds how much yt-dlp stderr is carried into errors
const maxStderrInError = 500

// YtDlpProvider shells out to the yt-dlp binary and returns its --dump-json output
type YtDlpProvider struct {
	path string
}

// NewYtDlpProvider creates a provider running the binary at path
func NewYtDlpProvider(path string) *YtDlpProvider {
	return &YtDlpProvider{path: path}
}

func (p *YtDlpProvider) Name() string { return "ytdlp" }

// GetMetadata runs yt-dlp for a single video. The process is killed when ctx ends.
func (p *YtDlpProvider) GetMetadata(ctx context.Context, videoURL string) (model.RawMetadata, error) {
	cmd := exec.CommandContext(ctx, p.path,
		"--dump-json",
		"--no-warnings",
		"--no-playlist",
		"--no-check-certificate",
		"--",
		videoURL,
	)
	cmd.WaitDelay = 2 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("yt-dlp interrupted: %w", ctxErr)
		}
		msg := tail(strings.TrimSpace(stderr.String()), maxStderrInError)
		logger.Logger.Warn("yt-dlp failed", zap.String("url", videoURL), zap.String("stderr", msg), zap.Error(err))
		if msg != "" {
			return nil, fmt.Errorf("yt-dlp failed: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("yt-dlp failed: %w", err)
	}

	var raw model.RawMetadata
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}
	return raw, nil
}

// tail keeps the last n bytes of s, where yt-dlp prints its ERROR line
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
