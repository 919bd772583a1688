package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/solvr/config"
	"github.com/use-agent/solvr/models"
)

type fakeJobs struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeJobs) Handle(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
}

type fakeRenderer struct{}

func (fakeRenderer) Render(context.Context, *models.Solution) (*models.Artifact, error) {
	return &models.Artifact{Filename: "solution_1.pdf", Path: "temp/solution_1.pdf", Size: 1}, nil
}

func testConfig() *config.Config {
	cfg := config.Defaults()
	cfg.Server.Mode = "test"
	return cfg
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_Routes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	jobs := &fakeJobs{}
	r := NewRouter(ctx, Deps{Jobs: jobs, Renderer: fakeRenderer{}, StartTime: time.Now()}, testConfig())

	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/api/process", `{"url":"https://youtube.com/watch?v=abc"}`).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/api/generate-doc", `{"problemStatement":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, send(r, http.MethodGet, "/nope", "").Code)
	assert.Equal(t, []string{"https://youtube.com/watch?v=abc"}, jobs.urls)
}

func TestRouter_RequestID(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := NewRouter(ctx, Deps{Jobs: &fakeJobs{}, StartTime: time.Now()}, testConfig())

	w := send(r, http.MethodGet, "/health", "")
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestRouter_DocAPIDisabled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig()
	cfg.Server.DocAPI = false
	r := NewRouter(ctx, Deps{Jobs: &fakeJobs{}, Renderer: fakeRenderer{}, StartTime: time.Now()}, cfg)

	assert.Equal(t, http.StatusNotFound, send(r, http.MethodPost, "/api/generate-doc", `{}`).Code)
}

func TestRouter_RateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2}
	jobs := &fakeJobs{}
	r := NewRouter(ctx, Deps{Jobs: jobs, StartTime: time.Now()}, cfg)

	body := `{"url":"https://leetcode.com/problems/two-sum/"}`
	assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/api/process", body).Code)
	assert.Equal(t, http.StatusOK, send(r, http.MethodPost, "/api/process", body).Code)

	w := send(r, http.MethodPost, "/api/process", body)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), models.ErrCodeRateLimited)
	assert.Len(t, jobs.urls, 2)

	// Health is never limited.
	assert.Equal(t, http.StatusOK, send(r, http.MethodGet, "/health", "").Code)
}

func TestWithCORS(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := WithCORS(NewRouter(ctx, Deps{Jobs: &fakeJobs{}, StartTime: time.Now()}, testConfig()), nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/process", nil)
	req.Header.Set("Origin", "chrome-extension://abcdef")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-request-id")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "content-type,x-request-id", strings.ToLower(w.Header().Get("Access-Control-Allow-Headers")))
}

func TestWithCORS_ExposesRequestID(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := WithCORS(NewRouter(ctx, Deps{Jobs: &fakeJobs{}, StartTime: time.Now()}, testConfig()), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "chrome-extension://abcdef")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "x-request-id", strings.ToLower(w.Header().Get("Access-Control-Expose-Headers")))
}

func TestWithCORS_RestrictedOrigins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := WithCORS(NewRouter(ctx, Deps{Jobs: &fakeJobs{}, StartTime: time.Now()}, testConfig()), []string{"https://allowed.example"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://other.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
