// Package transform maps upstream records onto feed items.
package transform

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"jsps-watch/json2rss/internal/models"
	"jsps-watch/json2rss/internal/profile"
)

// TimeLayout is the upstream timestamp format, YYYY/MM/DD HH:MM:SS.
const TimeLayout = "2006/01/02 15:04:05"

// looseTimeLayout accepts the same fields without zero padding,
// e.g. 2024/3/5 9:00:00.
const looseTimeLayout = "2006/1/2 15:4:5"

const (
	defaultTitle   = "No Title"
	tagSeparator   = " / "
	messagePreface = "\nMessage: "
)

// MapRecordToItem builds a FeedItem from rec using the field layout of p.
// It never fails: absent or mistyped fields fall back to defaults.
func MapRecordToItem(rec models.SourceRecord, p profile.Profile) models.FeedItem {
	id, _ := rec.String(p.IDField)
	message, _ := rec.String(p.MessageField)

	item := models.FeedItem{
		ID:          id,
		Title:       Title(rec, p.TitleField),
		Link:        Link(rec, p, message),
		Description: Description(rec, p.TagsField, message),
	}

	if raw, ok := rec.String(p.TimeField); ok && raw != "" {
		if ts, ok := ParseTime(raw, p.Location); ok {
			item.PublishedAt = &ts
		} else {
			log.Debug().
				Str("id", id).
				Str("field", p.TimeField).
				Str("value", raw).
				Msg("Skipping unparseable publish time")
		}
	}

	return item
}

// MapRecords maps every record in order.
func MapRecords(records []models.SourceRecord, p profile.Profile) []models.FeedItem {
	items := make([]models.FeedItem, 0, len(records))
	for _, rec := range records {
		items = append(items, MapRecordToItem(rec, p))
	}
	return items
}

// Title returns the title field, or "No Title" when it is absent or null.
// An empty string is kept as-is.
func Title(rec models.SourceRecord, field string) string {
	title, ok := rec.String(field)
	if !ok {
		return defaultTitle
	}
	return title
}

// Link resolves the item link. A list value contributes its first element.
// Site paths starting with "/" are joined to the profile origin. Empty
// links fall back to message. Other values are kept only when the profile
// allows external links, with the origin prefixed unless they already
// carry an http(s) scheme; otherwise they also fall back to message.
func Link(rec models.SourceRecord, p profile.Profile, message string) string {
	raw := firstString(rec, p.LinkField)

	switch {
	case strings.HasPrefix(raw, "/"):
		return p.Origin + raw
	case raw == "":
		return message
	case !p.KeepExternalLinks:
		return message
	case strings.HasPrefix(raw, "http"):
		return raw
	default:
		return p.Origin + "/" + raw
	}
}

func firstString(rec models.SourceRecord, field string) string {
	if list, ok := rec.List(field); ok {
		if len(list) == 0 {
			return ""
		}
		return models.Stringify(list[0])
	}
	s, _ := rec.String(field)
	return s
}

// ParseTime reads raw in TimeLayout (zero padding optional) as wall time
// in loc and returns it in UTC. A nil loc treats the timestamp as already
// UTC.
func ParseTime(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{TimeLayout, looseTimeLayout} {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

// Description joins tag names with " / " and appends the message line.
func Description(rec models.SourceRecord, tagsField, message string) string {
	var names []string
	if tags, ok := rec.List(tagsField); ok {
		names = make([]string, 0, len(tags))
		for _, tag := range tags {
			names = append(names, tagName(tag))
		}
	}

	desc := strings.Join(names, tagSeparator)
	if message != "" {
		desc += messagePreface + message
	}
	return strings.TrimSpace(desc)
}

func tagName(tag any) string {
	obj, ok := tag.(map[string]any)
	if !ok {
		return models.Stringify(tag)
	}
	if name, ok := obj["name"]; ok {
		return models.Stringify(name)
	}
	return models.Stringify(obj)
}
