package models

// FeedMeta holds the static channel fields of the generated feed.
type FeedMeta struct {
	Title       string
	Link        string
	Description string
}

// Feed is the channel metadata plus items in upstream order.
type Feed struct {
	Meta  FeedMeta
	Items []FeedItem
}
