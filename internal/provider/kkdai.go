package provider

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ytinfo/internal/model"
	"ytinfo/pkg/logger"

	"github.com/kkdai/youtube/v2"
	"go.uber.org/zap"
)

// KkdaiProvider extracts metadata in-process with github.com/kkdai/youtube.
// Its output uses the videoDetails shape.
type KkdaiProvider struct {
	client *youtube.Client
}

// NewKkdaiProvider creates a provider whose HTTP calls are bounded by httpTimeout
func NewKkdaiProvider(httpTimeout time.Duration) *KkdaiProvider {
	return &KkdaiProvider{
		client: &youtube.Client{
			HTTPClient: &http.Client{Timeout: httpTimeout},
		},
	}
}

func (p *KkdaiProvider) Name() string { return "kkdai" }

// GetMetadata fetches the player response for videoURL
func (p *KkdaiProvider) GetMetadata(ctx context.Context, videoURL string) (model.RawMetadata, error) {
	video, err := p.client.GetVideoContext(ctx, videoURL)
	if err != nil {
		logger.Logger.Warn("kkdai extraction failed", zap.String("url", videoURL), zap.Error(err))
		return nil, translateKkdaiError(err)
	}
	return videoToRaw(video), nil
}

// translateKkdaiError prefixes typed library errors with the wording the
// error classifier matches on.
func translateKkdaiError(err error) error {
	var statusErr *youtube.ErrPlayabiltyStatus
	switch {
	case errors.Is(err, youtube.ErrVideoPrivate):
		return fmt.Errorf("Private video: %w", err)
	case errors.Is(err, youtube.ErrLoginRequired):
		return fmt.Errorf("Sign in to confirm your age: %w", err)
	case errors.Is(err, youtube.ErrNotPlayableInEmbed), errors.As(err, &statusErr):
		return fmt.Errorf("Video unavailable: %w", err)
	}
	return err
}

func videoToRaw(video *youtube.Video) model.RawMetadata {
	thumbnails := make([]any, 0, len(video.Thumbnails))
	for _, t := range video.Thumbnails {
		thumbnails = append(thumbnails, map[string]any{"url": t.URL})
	}

	formats := make([]any, 0, len(video.Formats))
	for _, f := range video.Formats {
		formats = append(formats, map[string]any{
			"itag":          f.ItagNo,
			"mimeType":      f.MimeType,
			"hasVideo":      strings.HasPrefix(f.MimeType, "video/"),
			"hasAudio":      f.AudioChannels > 0 || strings.HasPrefix(f.MimeType, "audio/"),
			"contentLength": strconv.FormatInt(f.ContentLength, 10),
			"qualityLabel":  f.QualityLabel,
			"quality":       f.Quality,
			"container":     containerFromMime(f.MimeType),
		})
	}

	publishDate := ""
	if !video.PublishDate.IsZero() {
		publishDate = video.PublishDate.Format("2006-01-02")
	}

	return model.RawMetadata{
		"videoDetails": map[string]any{
			"videoId":          video.ID,
			"title":            video.Title,
			"lengthSeconds":    strconv.Itoa(int(video.Duration.Seconds())),
			"author":           map[string]any{"name": video.Author},
			"ownerChannelName": video.Author,
			"description":      video.Description,
			"thumbnails":       thumbnails,
			"viewCount":        strconv.Itoa(video.Views),
			"publishDate":      publishDate,
		},
		"formats": formats,
	}
}

// containerFromMime turns "video/mp4; codecs=..." into "mp4"
func containerFromMime(mimeType string) string {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(mimeType, ";")[0])
	}
	if _, sub, ok := strings.Cut(mediaType, "/"); ok {
		return sub
	}
	return ""
}
