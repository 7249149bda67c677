package screenshot

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireBrowser(t *testing.T) {
	t.Helper()

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "headless-shell"} {
		if _, err := exec.LookPath(name); err == nil {
			return
		}
	}

	t.Skip("chrome is not installed")
}

func TestShooter_Capture(t *testing.T) {
	requireBrowser(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.UserAgent(), "Chrome/91")
		fmt.Fprint(w, `<html><body><article id="readme"><h1>agent-kit</h1></article></body></html>`)
	}))
	defer srv.Close()

	s := New(30 * time.Second)
	s.settle = 10 * time.Millisecond

	shot, err := s.Capture(context.Background(), srv.URL)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(shot))
	require.NoError(t, err)
	assert.Equal(t, Width, img.Bounds().Dx())
	assert.Equal(t, Height, img.Bounds().Dy())
}

func TestShooter_CaptureWithoutReadme(t *testing.T) {
	requireBrowser(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>nothing here</p></body></html>`)
	}))
	defer srv.Close()

	s := New(30 * time.Second)
	s.waitContent = 100 * time.Millisecond
	s.fallbackSettle = 10 * time.Millisecond

	shot, err := s.Capture(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.NotEmpty(t, shot)
}
