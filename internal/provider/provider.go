// Package provider adapts external video-metadata extractors to a single
// capability: fetch the raw metadata for one video URL.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ytinfo/config"
	"ytinfo/internal/model"
)

// ErrUnknownProvider is returned by New for an unsupported provider name
var ErrUnknownProvider = errors.New("unknown extraction provider")

// Provider fetches raw metadata for a video URL.
// Implementations must honour ctx cancellation where the underlying tool allows it.
type Provider interface {
	Name() string
	GetMetadata(ctx context.Context, videoURL string) (model.RawMetadata, error)
}

// New builds the provider selected by cfg.Provider
func New(cfg *model.ExtractionConfig) (Provider, error) {
	switch cfg.Provider {
	case config.ProviderKkdai:
		return NewKkdaiProvider(time.Duration(cfg.HTTPTimeout) * time.Second), nil
	case config.ProviderYtDlp:
		return NewYtDlpProvider(cfg.YtDlpPath), nil
	case config.ProviderWorker:
		baseURL := fmt.Sprintf("http://%s:%d", cfg.Worker.Host, cfg.Worker.Port)
		return NewWorkerProvider(baseURL, time.Duration(cfg.Worker.Timeout)*time.Second), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
