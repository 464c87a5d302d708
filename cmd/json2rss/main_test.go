package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsps-watch/json2rss/internal/config"
	"jsps-watch/json2rss/internal/fetch"
)

func generateConfig(t *testing.T, sourceURL string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Profile = config.DefaultGenerateProfile
	cfg.SourceURL = sourceURL
	cfg.FetchTimeout = time.Second
	cfg.OutputPath = filepath.Join(t.TempDir(), "rss.xml")
	return cfg
}

func TestRunGenerate(t *testing.T) {
	t.Run("success - writes file and reports it", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[{"title": "a"}, {"title": "b"}]`))
		}))
		defer upstream.Close()

		cfg := generateConfig(t, upstream.URL)
		var stdout bytes.Buffer

		err := runGenerate(cfg, &stdout)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "RSS feed written to "+cfg.OutputPath+" (2 items)")
		data, err := os.ReadFile(cfg.OutputPath)
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(string(data), "<item>"))
	})

	t.Run("upstream failure - prints error and writes nothing", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusInternalServerError)
		}))
		defer upstream.Close()

		cfg := generateConfig(t, upstream.URL)
		var stdout bytes.Buffer

		err := runGenerate(cfg, &stdout)

		require.Error(t, err)
		var fetchErr *fetch.FetchError
		assert.True(t, errors.As(err, &fetchErr))
		assert.True(t, strings.HasPrefix(stdout.String(), "Failed to generate RSS: failed to fetch JSON:"), stdout.String())

		_, statErr := os.Stat(cfg.OutputPath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("network failure - prints error", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := upstream.URL
		upstream.Close()

		cfg := generateConfig(t, url)
		var stdout bytes.Buffer

		require.Error(t, runGenerate(cfg, &stdout))
		assert.Contains(t, stdout.String(), "Failed to generate RSS")
		_, statErr := os.Stat(cfg.OutputPath)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("invalid JSON - prints parse error", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html></html>`))
		}))
		defer upstream.Close()

		cfg := generateConfig(t, upstream.URL)
		var stdout bytes.Buffer

		require.Error(t, runGenerate(cfg, &stdout))
		assert.Contains(t, stdout.String(), "Failed to generate RSS: failed to parse JSON:")
	})

	t.Run("unknown profile - prints error", func(t *testing.T) {
		cfg := generateConfig(t, "http://upstream.invalid")
		cfg.Profile = "atom"
		var stdout bytes.Buffer

		require.Error(t, runGenerate(cfg, &stdout))
		assert.Contains(t, stdout.String(), "unknown profile")
	})
}
