package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ytinfo/internal/model"
	"ytinfo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

type stubProvider struct {
	raw   model.RawMetadata
	err   error
	block chan struct{}
	panic bool
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) GetMetadata(ctx context.Context, _ string) (model.RawMetadata, error) {
	if p.panic {
		panic("boom")
	}
	if p.block != nil {
		<-p.block
	}
	return p.raw, p.err
}

func sampleMetadata() model.RawMetadata {
	return model.RawMetadata{
		"id":          "dQw4w9WgXcQ",
		"title":       "Never Gonna Give You Up",
		"duration":    212.0,
		"uploader":    "Rick Astley",
		"thumbnail":   "https://i.ytimg.com/vi/dQw4w9WgXcQ/hq.jpg",
		"description": "The official video",
		"view_count":  1500000.0,
		"upload_date": "20091025",
		"formats": []any{
			map[string]any{"vcodec": "avc1", "acodec": "mp4a", "ext": "mp4", "format_note": "360p", "filesize": 1048576.0},
			map[string]any{"vcodec": "none", "acodec": "opus", "ext": "webm", "filesize": 2048.0},
		},
	}
}

func testConfig(t *testing.T) *model.Config {
	t.Helper()
	return &model.Config{
		Extraction: model.ExtractionConfig{Provider: "stub", Timeout: 5, SafetyTimeout: 5},
		RateLimit:  model.RateLimitConfig{Enabled: false},
		Frontend:   model.FrontendConfig{Dir: t.TempDir()},
		Metrics:    model.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func newTestRouter(t *testing.T, p *stubProvider, cfg *model.Config) *gin.Engine {
	t.Helper()
	vs := service.NewVideoService(p, time.Duration(cfg.Extraction.Timeout)*time.Second)
	rls := service.NewRateLimitService(&cfg.RateLimit)
	t.Cleanup(rls.Stop)
	return NewRouter(cfg, vs, rls)
}

func postInfo(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/video-info", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestGetVideoInfo_Success(t *testing.T) {
	router := newTestRouter(t, &stubProvider{raw: sampleMetadata()}, testConfig(t))

	w := postInfo(router, `{"url":"https://www.youtube.com/watch?v=dQw4w9WgXcQ"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var info model.VideoInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "Never Gonna Give You Up", info.Title)
	assert.Equal(t, "3:32", info.Duration)
	assert.Equal(t, "Rick Astley", info.Author)
	assert.Equal(t, int64(1500000), info.Views)
	assert.Equal(t, "dQw4w9WgXcQ", info.VideoID)
	require.Len(t, info.Sizes, 1)
	assert.Equal(t, model.SizeEntry{Quality: "360p", Container: "mp4", Size: "1 MB", SizeBytes: 1048576}, info.Sizes[0])
}

func TestGetVideoInfo_EmptySizesIsArray(t *testing.T) {
	raw := sampleMetadata()
	delete(raw, "formats")
	router := newTestRouter(t, &stubProvider{raw: raw}, testConfig(t))

	w := postInfo(router, `{"url":"https://youtu.be/dQw4w9WgXcQ"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sizes":[]`)
}

func TestGetVideoInfo_DoubleEncodedBody(t *testing.T) {
	router := newTestRouter(t, &stubProvider{raw: sampleMetadata()}, testConfig(t))

	w := postInfo(router, `"{\"url\":\"https://youtu.be/dQw4w9WgXcQ\"}"`)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetVideoInfo_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"malformed json", `{"url":`, "Body inválido - JSON malformado"},
		{"malformed inner json", `"{not json"`, "Body inválido - JSON malformado"},
		{"empty body", ``, "URL é obrigatória"},
		{"missing url", `{}`, "URL é obrigatória"},
		{"blank url", `{"url":"   "}`, "URL é obrigatória"},
		{"array body", `[1,2]`, "URL é obrigatória"},
		{"not youtube", `{"url":"https://vimeo.com/123"}`, "URL do YouTube inválida"},
		{"bare host", `{"url":"youtube.com/"}`, "URL do YouTube inválida"},
	}

	p := &stubProvider{raw: sampleMetadata()}
	router := newTestRouter(t, p, testConfig(t))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postInfo(router, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.want, decodeError(t, w))
		})
	}
}

func TestGetVideoInfo_BodyTooLarge(t *testing.T) {
	router := newTestRouter(t, &stubProvider{raw: sampleMetadata()}, testConfig(t))

	body := `{"url":"https://youtu.be/x","pad":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	w := postInfo(router, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Body inválido - JSON malformado", decodeError(t, w))
}

func TestGetVideoInfo_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, &stubProvider{raw: sampleMetadata()}, testConfig(t))

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/video-info", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.Equal(t, "Método não permitido", decodeError(t, w), method)
	}
}

func TestGetVideoInfo_Preflight(t *testing.T) {
	router := newTestRouter(t, &stubProvider{raw: sampleMetadata()}, testConfig(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/video-info", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,OPTIONS,PATCH,DELETE,POST,PUT", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestGetVideoInfo_ProviderErrorsAreClassified(t *testing.T) {
	tests := []struct {
		err    string
		status int
		want   string
	}{
		{"Video unavailable", http.StatusNotFound, "Vídeo não disponível ou privado"},
		{"Private video. Sign in", http.StatusForbidden, "Este vídeo é privado"},
		{"dial tcp: ECONNREFUSED", http.StatusServiceUnavailable, "Erro de conexão com o YouTube. Tente novamente em alguns instantes."},
		{"network is unreachable", http.StatusServiceUnavailable, "Erro de conexão com o YouTube. Verifique sua internet."},
	}

	for _, tt := range tests {
		t.Run(tt.err, func(t *testing.T) {
			router := newTestRouter(t, &stubProvider{err: &stubError{tt.err}}, testConfig(t))

			w := postInfo(router, `{"url":"https://youtu.be/abc"}`)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.want, decodeError(t, w))
		})
	}
}

type stubError struct{ msg string }

func (e *stubError) Error() string { return e.msg }

func TestGetVideoInfo_ProviderPanic(t *testing.T) {
	router := newTestRouter(t, &stubProvider{panic: true}, testConfig(t))

	w := postInfo(router, `{"url":"https://youtu.be/abc"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, decodeError(t, w))
}

func TestGetVideoInfo_SafetyTimeout(t *testing.T) {
	release := make(chan struct{})
	p := &stubProvider{raw: sampleMetadata(), block: release}
	h := &VideoHandler{
		videoService:  service.NewVideoService(p, 5*time.Second),
		safetyTimeout: 50 * time.Millisecond,
	}
	router := gin.New()
	router.POST("/api/video-info", h.GetVideoInfo)

	start := time.Now()
	w := postInfo(router, `{"url":"https://youtu.be/abc"}`)
	close(release)

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "A requisição demorou muito tempo", decodeError(t, w))
}

func TestGetVideoInfo_ExtractionTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	p := &stubProvider{raw: sampleMetadata(), block: release}
	h := &VideoHandler{
		videoService:  service.NewVideoService(p, 50*time.Millisecond),
		safetyTimeout: 5 * time.Second,
	}
	router := gin.New()
	router.POST("/api/video-info", h.GetVideoInfo)

	w := postInfo(router, `{"url":"https://youtu.be/abc"}`)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "A requisição demorou muito. Tente novamente ou use outro vídeo.", decodeError(t, w))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit = model.RateLimitConfig{Enabled: true, RequestsPerMinute: 1}
	router := newTestRouter(t, &stubProvider{raw: sampleMetadata()}, cfg)

	first := postInfo(router, `{"url":"https://youtu.be/abc"}`)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := postInfo(router, `{"url":"https://youtu.be/abc"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "Muitas requisições. Tente novamente mais tarde.", decodeError(t, second))

	// health is outside the limited group
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(t, &stubProvider{}, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{"status": "healthy", "service": "ytinfo", "provider": "stub"}, body)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubProvider{raw: sampleMetadata()}, testConfig(t))
	postInfo(router, `{"url":"https://youtu.be/abc"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ytinfo_http_request_duration_seconds")
	assert.Contains(t, w.Body.String(), `ytinfo_responses_total{kind="ok"}`)
}

func TestStaticAndFallback(t *testing.T) {
	cfg := testConfig(t)
	dir := cfg.Frontend.Dir
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>index</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "robots.txt"), []byte("robots"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "static"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "static", "app.js"), []byte("app"), 0o644))
	router := newTestRouter(t, &stubProvider{}, cfg)

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodGet, "/", http.StatusOK, "<html>index</html>"},
		{http.MethodGet, "/static/app.js", http.StatusOK, "app"},
		{http.MethodGet, "/robots.txt", http.StatusOK, "robots"},
		{http.MethodGet, "/some/client/route", http.StatusOK, "<html>index</html>"},
		{http.MethodPost, "/nope", http.StatusNotFound, `{"error":"Rota não encontrada"}`},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, tt.status, w.Code, tt.path)
		assert.Equal(t, tt.body, w.Body.String(), tt.path)
	}
}

func TestFallbackWithoutIndex(t *testing.T) {
	router := newTestRouter(t, &stubProvider{}, testConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/anything", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Rota não encontrada", decodeError(t, w))
}
