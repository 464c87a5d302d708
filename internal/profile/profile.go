// Package profile defines the named field layouts the pipeline understands.
package profile

import (
	"fmt"
	"sort"
	"time"

	"jsps-watch/json2rss/internal/models"
)

const (
	InformSourceURL = "https://www.jsps.go.jp/include/news/inform_ja.json"
	SiteOrigin      = "https://www.jsps.go.jp"
)

// JST is Japan Standard Time. Japan observes no DST, so a fixed zone
// avoids depending on the host tz database.
var JST = time.FixedZone("JST", 9*60*60)

// Profile describes where to fetch records and how to read their fields.
type Profile struct {
	Name      string
	SourceURL string
	Origin    string

	IDField      string
	TitleField   string
	LinkField    string
	MessageField string
	TimeField    string
	TagsField    string

	// Location the upstream timestamps are written in. Nil means naive
	// timestamps, read as UTC.
	Location *time.Location

	// KeepExternalLinks keeps link values that are not site paths. When
	// false such links are replaced by the message field.
	KeepExternalLinks bool

	Meta models.FeedMeta
}

var informMeta = models.FeedMeta{
	Title:       "JSPS inform_ja Feed",
	Link:        SiteOrigin + "/",
	Description: "Generated from inform_ja.json",
}

// Inform is the layout of inform_ja.json with cms_file links and JST times.
var Inform = Profile{
	Name:              "inform",
	SourceURL:         InformSourceURL,
	Origin:            SiteOrigin,
	IDField:           "client_news_id",
	TitleField:        "title",
	LinkField:         "cms_file",
	MessageField:      "message",
	TimeField:         "time",
	TagsField:         "tags",
	Location:          JST,
	KeepExternalLinks: false,
	Meta:              informMeta,
}

// News reads news_url links and naive news_date timestamps.
var News = Profile{
	Name:              "news",
	SourceURL:         InformSourceURL,
	Origin:            SiteOrigin,
	IDField:           "client_news_id",
	TitleField:        "title",
	LinkField:         "news_url",
	MessageField:      "message",
	TimeField:         "news_date",
	TagsField:         "tags",
	Location:          nil,
	KeepExternalLinks: true,
	Meta:              informMeta,
}

var registry = map[string]Profile{
	Inform.Name: Inform,
	News.Name:   News,
}

// Lookup returns the profile registered under name.
func Lookup(name string) (Profile, error) {
	p, ok := registry[name]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (available: %v)", name, Names())
	}
	return p, nil
}

// Names lists the registered profile names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WithSource returns a copy of p fetching from url. An empty url keeps the
// profile's endpoint.
func (p Profile) WithSource(url string) Profile {
	if url != "" {
		p.SourceURL = url
	}
	return p
}
