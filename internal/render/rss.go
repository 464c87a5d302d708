// Package render serializes feed items as RSS 2.0.
package render

import (
	"fmt"
	"time"

	"github.com/gorilla/feeds"

	"jsps-watch/json2rss/internal/models"
)

// ContentType is the media type of RenderFeed output.
const ContentType = "application/rss+xml; charset=UTF-8"

// RenderFeed returns an indented RSS 2.0 document with one <item> per
// element of items, in order. A zero builtAt omits lastBuildDate.
func RenderFeed(items []models.FeedItem, meta models.FeedMeta, builtAt time.Time) ([]byte, error) {
	feed := &feeds.Feed{
		Title:       meta.Title,
		Link:        &feeds.Link{Href: meta.Link},
		Description: meta.Description,
		Items:       make([]*feeds.Item, 0, len(items)),
	}
	if !builtAt.IsZero() {
		feed.Updated = builtAt.UTC()
	}

	for _, it := range items {
		entry := &feeds.Item{
			Id:          it.ID,
			IsPermaLink: "false", // ids are upstream record numbers, not URLs
			Title:       it.Title,
			Link:        &feeds.Link{Href: it.Link},
			Description: it.Description,
		}
		if it.PublishedAt != nil {
			entry.Created = it.PublishedAt.UTC()
		}
		feed.Items = append(feed.Items, entry)
	}

	rss, err := feed.ToRss()
	if err != nil {
		return nil, fmt.Errorf("failed to render RSS: %w", err)
	}
	return []byte(rss), nil
}
