package service

import (
	"context"
	"errors"
	"time"

	"ytinfo/internal/model"
	"ytinfo/internal/provider"
	"ytinfo/pkg/logger"
	"ytinfo/pkg/metrics"

	"go.uber.org/zap"
)

// VideoService extracts and normalizes video metadata
type VideoService struct {
	provider provider.Provider
	timeout  time.Duration
}

// NewVideoService creates a video service bounding each provider call by timeout
func NewVideoService(p provider.Provider, timeout time.Duration) *VideoService {
	return &VideoService{
		provider: p,
		timeout:  timeout,
	}
}

// ProviderName returns the configured extraction provider
func (s *VideoService) ProviderName() string {
	return s.provider.Name()
}

// GetVideoInfo fetches metadata for videoURL and maps it onto the VideoInfo contract
func (s *VideoService) GetVideoInfo(ctx context.Context, videoURL string) (*model.VideoInfo, error) {
	start := time.Now()

	raw, err := raceDeadline(ctx, s.timeout, func(ctx context.Context) (model.RawMetadata, error) {
		return s.provider.GetMetadata(ctx, videoURL)
	})
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrTimeout) {
			outcome = "timeout"
		}
		metrics.ObserveExtraction(s.provider.Name(), outcome, time.Since(start))
		logger.Logger.Error("Failed to get video info",
			zap.Error(err),
			zap.String("url", videoURL),
			zap.String("provider", s.provider.Name()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, err
	}
	metrics.ObserveExtraction(s.provider.Name(), "ok", time.Since(start))

	info, err := Normalize(raw)
	if err != nil {
		logger.Logger.Error("Provider returned no video details", zap.String("url", videoURL), zap.Error(err))
		return nil, err
	}

	logger.Logger.Info("Video info retrieved",
		zap.String("video_id", info.VideoID),
		zap.String("title", info.Title),
		zap.Int("formats", len(info.Sizes)),
	)
	return info, nil
}
