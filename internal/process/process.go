// Package process runs the fetch, transform, render pipeline.
package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"jsps-watch/json2rss/internal/models"
	"jsps-watch/json2rss/internal/profile"
	"jsps-watch/json2rss/internal/render"
	"jsps-watch/json2rss/internal/transform"
)

// Source returns the raw upstream JSON array.
type Source interface {
	Fetch(ctx context.Context, url string) ([]any, error)
}

// Result is the outcome of one successful cycle.
type Result struct {
	XML     []byte
	Items   int
	Undated int // items emitted without pubDate
}

// Transpiler converts the upstream JSON into RSS. It keeps no state
// between calls, so one value can serve concurrent requests.
type Transpiler struct {
	source  Source
	profile profile.Profile
	now     func() time.Time
}

// NewTranspiler creates a transpiler reading from source with the field
// layout and endpoint of p.
func NewTranspiler(source Source, p profile.Profile) (*Transpiler, error) {
	if source == nil {
		return nil, fmt.Errorf("source cannot be nil")
	}
	if p.SourceURL == "" {
		return nil, fmt.Errorf("profile %q has no source URL", p.Name)
	}
	return &Transpiler{source: source, profile: p, now: time.Now}, nil
}

// Profile returns the profile the transpiler was built with.
func (t *Transpiler) Profile() profile.Profile {
	return t.profile
}

// Run performs one fetch-transform-render cycle. Fetch and parse errors
// are returned unchanged so callers can inspect them with errors.As.
func (t *Transpiler) Run(ctx context.Context) (*Result, error) {
	startTime := time.Now()

	raw, err := t.source.Fetch(ctx, t.profile.SourceURL)
	if err != nil {
		return nil, err
	}

	records := models.RecordsFromArray(raw)
	items := transform.MapRecords(records, t.profile)

	body, err := render.RenderFeed(items, t.profile.Meta, t.now())
	if err != nil {
		return nil, err
	}

	undated := 0
	for _, it := range items {
		if it.PublishedAt == nil {
			undated++
		}
	}

	log.Info().
		Str("profile", t.profile.Name).
		Str("source", t.profile.SourceURL).
		Int("items", len(items)).
		Int("undated", undated).
		Int("bytes", len(body)).
		Dur("duration", time.Since(startTime)).
		Msg("Feed generated")

	return &Result{XML: body, Items: len(items), Undated: undated}, nil
}

// Generate runs one cycle and writes the document to path. Nothing is
// written when the cycle fails.
func (t *Transpiler) Generate(ctx context.Context, path string) (*Result, error) {
	res, err := t.Run(ctx)
	if err != nil {
		return nil, err
	}

	if err := WriteFileAtomic(path, res.XML); err != nil {
		return nil, err
	}

	log.Info().Str("path", path).Int("bytes", len(res.XML)).Msg("Wrote RSS file")
	return res, nil
}

// WriteFileAtomic replaces path with data via a temporary file in the same
// directory, so readers never observe a partial document.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
