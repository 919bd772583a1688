package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "solvr-test" {
			http.Error(w, "bad agent", http.StatusBadRequest)
			return
		}
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<html><head><title> Hello </title></head></html>"))
	}))
	t.Cleanup(srv.Close)

	c := New(WithUserAgent("solvr-test"))

	body, err := c.Get(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "Hello", ExtractTitle(string(body)))

	_, err = c.Get(context.Background(), srv.URL+"/missing")
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Two Sum - YouTube", ExtractTitle("<title>Two Sum - YouTube</title>"))
	assert.Equal(t, "", ExtractTitle("<html><body>no title</body></html>"))
	assert.Equal(t, "", ExtractTitle("<title></title>"))
}
