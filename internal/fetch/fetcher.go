// Package fetch retrieves the upstream JSON array.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxBodyBytes = 10 << 20
)

// Config controls the HTTP client used for upstream requests.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// Fetcher performs a single GET per call. It holds no per-request state
// and is safe for concurrent use.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// NewFetcher creates a fetcher, filling zero config values with defaults.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	return &Fetcher{
		client:       &http.Client{Timeout: cfg.Timeout},
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Fetch downloads url and decodes the body as a JSON array. Numbers are
// kept as json.Number so large identifiers survive intact.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]any, error) {
	log.Debug().Str("url", url).Msg("Fetching upstream JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("failed to read body: %w", err)}
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("body exceeds %d bytes", f.maxBodyBytes)}
	}

	records, err := decodeArray(body)
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}

	log.Debug().
		Str("url", url).
		Int("bytes", len(body)).
		Int("records", len(records)).
		Dur("duration", time.Since(start)).
		Msg("Fetched upstream JSON")

	return records, nil
}

func decodeArray(body []byte) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var records []any
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("invalid JSON array: %w", err)
	}
	if records == nil {
		return nil, errors.New("invalid JSON array: got null")
	}

	var trailing json.RawMessage
	if err := dec.Decode(&trailing); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON array: trailing data after array")
	}

	return records, nil
}
