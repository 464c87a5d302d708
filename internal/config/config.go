package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config holds all configuration for the application
type Config struct {
	// Pipeline settings
	Profile   string
	SourceURL string // Overrides the profile's endpoint when non-empty

	// Output settings
	OutputPath string

	// Server settings
	ServerHost string
	ServerPort int

	// Fetch settings
	FetchTimeout time.Duration
	MaxBodyBytes int64
	UserAgent    string

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns an initial configuration with hardcoded defaults.
func DefaultConfig() *Config {
	logLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		Profile:      DefaultServeProfile,
		OutputPath:   DefaultOutputPath,
		ServerHost:   DefaultServerHost,
		ServerPort:   DefaultServerPort,
		FetchTimeout: GetEnvDuration("JSON2RSS_TIMEOUT", DefaultFetchTimeout),
		MaxBodyBytes: DefaultMaxBodyBytes,
		UserAgent:    GetEnvString("JSON2RSS_USER_AGENT", DefaultUserAgent),
		LogLevel:     logLevel,
	}
}

// ListenAddr returns the formatted listen address for the HTTP server.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}
