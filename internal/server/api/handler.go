package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"jsps-watch/json2rss/internal/fetch"
	"jsps-watch/json2rss/internal/process"
	"jsps-watch/json2rss/internal/render"
)

const indexHTML = "<h1>JSPS inform_ja RSS Feed Generator</h1>" +
	"<p>Visit /json2rss to get the generated RSS feed.</p>"

// FeedRunner produces one RSS document per call.
type FeedRunner interface {
	Run(ctx context.Context) (*process.Result, error)
}

// FeedHandler holds dependencies for the feed endpoints.
// Each request runs its own independent cycle; nothing is cached.
type FeedHandler struct {
	runner FeedRunner
}

// NewFeedHandler creates a new handler instance.
func NewFeedHandler(runner FeedRunner) *FeedHandler {
	return &FeedHandler{
		runner: runner,
	}
}

// Index serves a short HTML description of the service.
func (h *FeedHandler) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(indexHTML)); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error writing index response")
	}
}

// GetFeed fetches the upstream JSON and responds with the RSS document.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	log.Debug().Msg("Processing feed request")

	res, err := h.runner.Run(r.Context())
	if err != nil {
		event := log.Error().Err(err)
		var fetchErr *fetch.FetchError
		var parseErr *fetch.ParseError
		switch {
		case errors.As(err, &fetchErr):
			event = event.Str("kind", "fetch").Int("upstream_status", fetchErr.StatusCode)
		case errors.As(err, &parseErr):
			event = event.Str("kind", "parse")
		default:
			event = event.Str("kind", "internal")
		}
		event.Msg("Error generating feed")

		http.Error(w, fmt.Sprintf("Failed to fetch JSON: %v", err), http.StatusInternalServerError)
		return
	}

	header := w.Header()
	header.Set("Content-Type", render.ContentType)
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")
	w.WriteHeader(http.StatusOK)

	if _, writeErr := w.Write(res.XML); writeErr != nil {
		log.Error().Err(writeErr).Msg("Error writing RSS response body to client")
		return
	}
	log.Debug().Int("items", res.Items).Int("bytes_written", len(res.XML)).Msg("Response completed")
}
