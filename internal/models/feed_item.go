package models

import "time"

// FeedItem is one RSS entry derived from a SourceRecord.
type FeedItem struct {
	ID          string
	Title       string
	Link        string
	PublishedAt *time.Time // nil when the source timestamp was missing or malformed
	Description string
}
