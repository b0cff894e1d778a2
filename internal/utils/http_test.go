package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/ideascout/constants"
)

func TestBrowserGet(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	body, err := BrowserGet(context.Background(), srv.Client(), srv.URL+"/page", 10)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaaaa", string(body))
	assert.Equal(t, constants.BrowserUserAgent, gotUA)

	_, err = BrowserGet(context.Background(), srv.Client(), srv.URL+"/missing", 10)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
}

func TestBrowserGet_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := BrowserGet(ctx, srv.Client(), srv.URL, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
