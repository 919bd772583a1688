package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/solvr/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeJobs struct {
	mu   sync.Mutex
	urls []string
}

func (f *fakeJobs) Handle(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
}

type fakeRenderer struct {
	RenderFn func(sol *models.Solution) (*models.Artifact, error)
}

func (f *fakeRenderer) Render(_ context.Context, sol *models.Solution) (*models.Artifact, error) {
	return f.RenderFn(sol)
}

func do(t *testing.T, h gin.HandlerFunc, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Handle(method, "/", h)
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProcess_StartsJob(t *testing.T) {
	t.Parallel()

	jobs := &fakeJobs{}
	w := do(t, Process(jobs), http.MethodPost, `{"url":"https://leetcode.com/problems/two-sum/"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Processing started", resp["message"])
	assert.Equal(t, "5 minutes", resp["estimatedTime"])
	assert.NotContains(t, resp, "success")
	assert.Equal(t, []string{"https://leetcode.com/problems/two-sum/"}, jobs.urls)
}

func TestProcess_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"missing url", `{}`},
		{"blank url", `{"url":""}`},
		{"relative", `{"url":"/problems/two-sum"}`},
		{"no scheme", `{"url":"leetcode.com/problems/two-sum"}`},
		{"ftp scheme", `{"url":"ftp://example.com/file"}`},
		{"malformed json", `{"url":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			jobs := &fakeJobs{}
			w := do(t, Process(jobs), http.MethodPost, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp models.ProcessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.Success)
			assert.False(t, *resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
			assert.Empty(t, jobs.urls)
		})
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	w := do(t, Health("solvr", "1.2.3", time.Now().Add(-90*time.Second)), http.MethodGet, "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "solvr", resp.Service)
	assert.Equal(t, "1.2.3", resp.Version)
	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.Uptime)
}

func TestGenerateDoc_Success(t *testing.T) {
	t.Parallel()

	var got *models.Solution
	r := &fakeRenderer{RenderFn: func(sol *models.Solution) (*models.Artifact, error) {
		got = sol
		return &models.Artifact{Filename: "solution_1.pdf", Path: "temp/solution_1.pdf", Size: 2048}, nil
	}}

	w := do(t, GenerateDoc(r), http.MethodPost, `{"problemStatement":"Two Sum","keyInsights":"Use a hash map."}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.GenerateDocResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "solution_1.pdf", resp.Filename)
	assert.Equal(t, "temp/solution_1.pdf", resp.Filepath)
	assert.Equal(t, int64(2048), resp.Size)
	require.NotNil(t, got)
	assert.Equal(t, "Two Sum", got.Title())
}

func TestGenerateDoc_BadJSON(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{RenderFn: func(*models.Solution) (*models.Artifact, error) {
		t.Fatal("renderer must not be called")
		return nil, nil
	}}

	w := do(t, GenerateDoc(r), http.MethodPost, `not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.GenerateDocResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
}

func TestGenerateDoc_RenderFailure(t *testing.T) {
	t.Parallel()

	r := &fakeRenderer{RenderFn: func(*models.Solution) (*models.Artifact, error) {
		return nil, errors.New("chrome crashed")
	}}

	w := do(t, GenerateDoc(r), http.MethodPost, `{"problemStatement":"x"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp models.GenerateDocResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInternal, resp.Error.Code)
	assert.Equal(t, "chrome crashed", resp.Error.Message)
}

func TestMapErrorToStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code string
		want int
	}{
		{models.ErrCodeInvalidInput, http.StatusBadRequest},
		{models.ErrCodeParse, http.StatusBadRequest},
		{models.ErrCodeNotFound, http.StatusNotFound},
		{models.ErrCodeRateLimited, http.StatusTooManyRequests},
		{models.ErrCodeTimeout, http.StatusGatewayTimeout},
		{models.ErrCodeNavigation, http.StatusBadGateway},
		{models.ErrCodeTransport, http.StatusBadGateway},
		{models.ErrCodeLLMFailure, http.StatusInternalServerError},
		{models.ErrCodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, mapErrorToStatus(models.NewPipelineError(tt.code, "m", nil)))
		})
	}
}
