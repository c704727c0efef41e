package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ytinfo/internal/model"
	"ytinfo/pkg/logger"

	"go.uber.org/zap"
)

// WorkerProvider asks a remote extraction worker for yt-dlp style metadata
type WorkerProvider struct {
	workerURL  string
	httpClient *http.Client
}

// NewWorkerProvider creates a worker client for baseURL (scheme://host:port)
func NewWorkerProvider(baseURL string, timeout time.Duration) *WorkerProvider {
	return &WorkerProvider{
		workerURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (p *WorkerProvider) Name() string { return "worker" }

// GetMetadata posts the URL to the worker's /api/info endpoint
func (p *WorkerProvider) GetMetadata(ctx context.Context, videoURL string) (model.RawMetadata, error) {
	endpoint := p.workerURL + "/api/info"

	bodyBytes, err := json.Marshal(model.VideoInfoRequest{URL: videoURL})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		logger.Logger.Error("Failed to create request", zap.Error(err))
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		logger.Logger.Error("Failed to reach extraction worker", zap.Error(err), zap.String("url", videoURL))
		return nil, fmt.Errorf("failed to fetch video info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Logger.Warn("Non-OK status from extraction worker", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("extraction worker returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var raw model.RawMetadata
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		logger.Logger.Error("Failed to decode worker response", zap.Error(err))
		return nil, fmt.Errorf("failed to parse worker response: %w", err)
	}
	return raw, nil
}
