package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"jsps-watch/json2rss/internal/config"
	"jsps-watch/json2rss/internal/fetch"
	"jsps-watch/json2rss/internal/process"
	"jsps-watch/json2rss/internal/profile"
	"jsps-watch/json2rss/internal/server"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

const usage = `Usage: json2rss [command] [options]
Commands: server, generate

For command-specific options, use: json2rss [command] -h`

func main() {
	serverCfg := config.DefaultConfig()
	serverCmd := flag.NewFlagSet("server", flag.ExitOnError)
	serverCmd.StringVar(&serverCfg.ServerHost, "host", config.GetEnvString("JSON2RSS_HOST", config.DefaultServerHost),
		"Host to bind the server to (env: JSON2RSS_HOST)")
	serverCmd.IntVar(&serverCfg.ServerPort, "port", config.GetEnvInt("JSON2RSS_PORT", config.DefaultServerPort),
		"Port to listen on (env: JSON2RSS_PORT)")
	registerCommonFlags(serverCmd, serverCfg, config.DefaultServeProfile)

	generateCfg := config.DefaultConfig()
	generateCmd := flag.NewFlagSet("generate", flag.ExitOnError)
	generateCmd.StringVar(&generateCfg.OutputPath, "out", config.GetEnvString("JSON2RSS_OUTPUT", config.DefaultOutputPath),
		"Path of the RSS file to write (env: JSON2RSS_OUTPUT)")
	registerCommonFlags(generateCmd, generateCfg, config.DefaultGenerateProfile)

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "server":
		serverCmd.Parse(os.Args[2:])
		zerolog.SetGlobalLevel(serverCfg.LogLevel)

		if err := runServer(serverCfg); err != nil {
			log.Error().Err(err).Msg("Server failed")
			os.Exit(1)
		}

	case "generate":
		generateCmd.Parse(os.Args[2:])
		zerolog.SetGlobalLevel(generateCfg.LogLevel)

		if err := runGenerate(generateCfg, os.Stdout); err != nil {
			log.Error().Err(err).Msg("Generate failed")
			os.Exit(1)
		}

	case "-h", "--help", "help":
		fmt.Println(usage)
		os.Exit(0)

	default:
		log.Error().Str("command", os.Args[1]).Msg("Unknown command")
		fmt.Println(usage)
		os.Exit(1)
	}
}

// registerCommonFlags adds the pipeline and logging flags shared by both commands.
func registerCommonFlags(fs *flag.FlagSet, cfg *config.Config, defaultProfile string) {
	fs.StringVar(&cfg.Profile, "profile", config.GetEnvString("JSON2RSS_PROFILE", defaultProfile),
		fmt.Sprintf("Record layout profile, one of %v (env: JSON2RSS_PROFILE)", profile.Names()))
	fs.StringVar(&cfg.SourceURL, "source", config.GetEnvString("JSON2RSS_SOURCE", ""),
		"Override the profile's JSON endpoint (env: JSON2RSS_SOURCE)")
	fs.DurationVar(&cfg.FetchTimeout, "timeout", cfg.FetchTimeout,
		"Upstream request timeout (env: JSON2RSS_TIMEOUT)")
	fs.Func("log-level", "Log level: debug, info, warn, error (env: JSON2RSS_LOG_LEVEL)", func(s string) error {
		level, err := zerolog.ParseLevel(s)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
		return nil
	})
	cfg.LogLevel = config.GetEnvLogLevel("JSON2RSS_LOG_LEVEL", cfg.LogLevel)
}

// newTranspiler wires the fetcher and the selected profile.
func newTranspiler(cfg *config.Config) (*process.Transpiler, error) {
	p, err := profile.Lookup(cfg.Profile)
	if err != nil {
		return nil, err
	}
	p = p.WithSource(cfg.SourceURL)

	fetcher := fetch.NewFetcher(fetch.Config{
		Timeout:      cfg.FetchTimeout,
		UserAgent:    cfg.UserAgent,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})

	log.Debug().
		Str("profile", p.Name).
		Str("source", p.SourceURL).
		Dur("timeout", cfg.FetchTimeout).
		Msg("Pipeline configured")

	return process.NewTranspiler(fetcher, p)
}

// runServer serves the feed over HTTP until a shutdown signal arrives.
func runServer(cfg *config.Config) error {
	tr, err := newTranspiler(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}
	return server.RunServer(tr, cfg.ListenAddr(), log.Logger)
}

// runGenerate performs a single cycle and writes the feed to cfg.OutputPath.
// The outcome line, success or failure, is printed to stdout.
func runGenerate(cfg *config.Config, stdout io.Writer) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err := generate(ctx, cfg, stdout)
	if err != nil {
		fmt.Fprintf(stdout, "Failed to generate RSS: %v\n", err)
	}
	return err
}

func generate(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	tr, err := newTranspiler(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	res, err := tr.Generate(ctx, cfg.OutputPath)
	if err != nil {
		var fetchErr *fetch.FetchError
		var parseErr *fetch.ParseError
		switch {
		case errors.As(err, &fetchErr):
			return fmt.Errorf("failed to fetch JSON: %w", err)
		case errors.As(err, &parseErr):
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		return err
	}

	fmt.Fprintf(stdout, "RSS feed written to %s (%d items)\n", cfg.OutputPath, res.Items)
	return nil
}
