package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	t.Run("success - decodes array and sends headers", func(t *testing.T) {
		var gotUA, gotAccept string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAccept = r.Header.Get("Accept")
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"client_news_id": 9007199254740993, "title": "a"}, {"title": "b"}]`))
		}))
		defer upstream.Close()

		f := NewFetcher(Config{Timeout: time.Second, UserAgent: "json2rss-test"})
		records, err := f.Fetch(context.Background(), upstream.URL)

		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "json2rss-test", gotUA)
		assert.Equal(t, "application/json", gotAccept)

		first := records[0].(map[string]any)
		assert.Equal(t, json.Number("9007199254740993"), first["client_news_id"])
	})

	t.Run("empty array is not an error", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer upstream.Close()

		records, err := NewFetcher(Config{}).Fetch(context.Background(), upstream.URL)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("non-2xx status is a FetchError", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusServiceUnavailable)
		}))
		defer upstream.Close()

		_, err := NewFetcher(Config{}).Fetch(context.Background(), upstream.URL)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
		assert.Contains(t, err.Error(), "503")
	})

	t.Run("network failure is a FetchError", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := upstream.URL
		upstream.Close()

		_, err := NewFetcher(Config{}).Fetch(context.Background(), url)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Zero(t, fetchErr.StatusCode)
		assert.NotEmpty(t, err.Error())
	})

	t.Run("timeout is a FetchError", func(t *testing.T) {
		release := make(chan struct{})
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer upstream.Close()
		defer close(release)

		_, err := NewFetcher(Config{Timeout: 50 * time.Millisecond}).Fetch(context.Background(), upstream.URL)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
	})

	t.Run("oversized body is a FetchError", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[` + strings.Repeat(`"x",`, 100) + `"x"]`))
		}))
		defer upstream.Close()

		_, err := NewFetcher(Config{MaxBodyBytes: 64}).Fetch(context.Background(), upstream.URL)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Contains(t, err.Error(), "exceeds")
	})

	t.Run("invalid bodies are ParseErrors", func(t *testing.T) {
		bodies := map[string]string{
			"html":     `<html>maintenance</html>`,
			"object":   `{"title": "not an array"}`,
			"null":     `null`,
			"trailing": `[] []`,
			"empty":    ``,
		}
		for name, body := range bodies {
			t.Run(name, func(t *testing.T) {
				upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(body))
				}))
				defer upstream.Close()

				_, err := NewFetcher(Config{}).Fetch(context.Background(), upstream.URL)

				var parseErr *ParseError
				require.True(t, errors.As(err, &parseErr), "got %v", err)
				var fetchErr *FetchError
				assert.False(t, errors.As(err, &fetchErr))
			})
		}
	})

	t.Run("cancelled context is a FetchError", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer upstream.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewFetcher(Config{}).Fetch(ctx, upstream.URL)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
