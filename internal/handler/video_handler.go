package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ytinfo/internal/model"
	"ytinfo/internal/service"
	"ytinfo/pkg/logger"
	"ytinfo/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the POST /api/video-info body
const maxBodyBytes = 1 << 20

// User-facing validation messages
var (
	errMalformedBody = errors.New("Body inválido - JSON malformado")
	errMissingURL    = errors.New("URL é obrigatória")
	errInvalidURL    = errors.New("URL do YouTube inválida")
)

const (
	msgMethodNotAllowed = "Método não permitido"
	msgSafetyTimeout    = "A requisição demorou muito tempo"
)

// VideoHandler handles video-related requests
type VideoHandler struct {
	videoService  *service.VideoService
	safetyTimeout time.Duration
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(vs *service.VideoService, cfg *model.Config) *VideoHandler {
	return &VideoHandler{
		videoService:  vs,
		safetyTimeout: time.Duration(cfg.Extraction.SafetyTimeout) * time.Second,
	}
}

type extractionResult struct {
	info *model.VideoInfo
	err  error
}

// GetVideoInfo handles /api/video-info. Only POST is accepted; OPTIONS is
// answered by the CORS middleware before reaching here.
func (h *VideoHandler) GetVideoInfo(c *gin.Context) {
	log := logger.FromContext(c)
	res := newResponder(c, log)

	if c.Request.Method != http.MethodPost {
		res.fail(http.StatusMethodNotAllowed, service.KindMethodNotAllowed, msgMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.safetyTimeout)
	defer cancel()

	videoURL, err := readVideoURL(c.Writer, c.Request)
	if err != nil {
		log.Warn("Invalid video info request", zap.Error(err))
		res.fail(http.StatusBadRequest, service.KindValidation, err.Error())
		return
	}
	if !validator.ValidateYouTubeURL(videoURL) {
		log.Warn("Invalid YouTube URL", zap.String("url", videoURL))
		res.fail(http.StatusBadRequest, service.KindValidation, errInvalidURL.Error())
		return
	}

	done := make(chan extractionResult, 1)
	go func() {
		var r extractionResult
		defer func() {
			if p := recover(); p != nil {
				r = extractionResult{err: fmt.Errorf("unexpected failure: %v", p)}
			}
			done <- r
		}()
		r.info, r.err = h.videoService.GetVideoInfo(ctx, videoURL)
	}()

	select {
	case r := <-done:
		// A provider error caused by the request deadline counts as the safety timeout
		if r.err != nil && ctx.Err() != nil {
			h.safetyTimedOut(res, log, videoURL, ctx.Err())
			return
		}
		if r.err != nil {
			class := service.ClassifyError(r.err)
			log.Error("Failed to get video info",
				zap.Error(r.err),
				zap.String("url", videoURL),
				zap.Int("status", class.Status),
				zap.String("kind", string(class.Kind)),
			)
			res.fail(class.Status, class.Kind, class.Message)
			return
		}
		res.ok(r.info)
	case <-ctx.Done():
		h.safetyTimedOut(res, log, videoURL, ctx.Err())
	}
}

func (h *VideoHandler) safetyTimedOut(res *responder, log *zap.Logger, videoURL string, cause error) {
	log.Error("Safety timeout reached",
		zap.String("url", videoURL),
		zap.Duration("timeout", h.safetyTimeout),
		zap.NamedError("cause", cause),
	)
	res.fail(http.StatusGatewayTimeout, service.KindTimeout, msgSafetyTimeout)
}

// HealthCheck handles GET /api/health
func (h *VideoHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "ytinfo",
		"provider": h.videoService.ProviderName(),
	})
}

// readVideoURL extracts "url" from a JSON body. A body that is itself a JSON
// string holding the object is unwrapped once.
func readVideoURL(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return "", errMalformedBody
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return "", errMissingURL
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", errMalformedBody
	}
	if encoded, ok := payload.(string); ok {
		if strings.TrimSpace(encoded) == "" {
			return "", errMissingURL
		}
		if err := json.Unmarshal([]byte(encoded), &payload); err != nil {
			return "", errMalformedBody
		}
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return "", errMissingURL
	}
	videoURL, _ := obj["url"].(string)
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return "", errMissingURL
	}
	return videoURL, nil
}
