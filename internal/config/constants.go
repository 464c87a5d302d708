package config

import "time"

// Constants defining default values for application configuration
const (
	DefaultOutputPath = "./rss.xml"

	DefaultServerPort = 5000
	DefaultServerHost = "127.0.0.1"

	DefaultServeProfile    = "inform"
	DefaultGenerateProfile = "news"

	DefaultFetchTimeout = 10 * time.Second
	DefaultMaxBodyBytes = 10 << 20 // 10 MiB
	DefaultUserAgent    = "json2rss/1.0"

	DefaultLogLevel = "info"
)
