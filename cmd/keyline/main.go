// Package main is the entry point for keyline, an interactive line reader.
//
// Each submitted line is printed to stdout; editing happens on stderr.
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

	"github.com/dshills/keyline/internal/app"
	"github.com/dshills/keyline/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errHelp and errVersion end flag parsing successfully.
var (
	errHelp    = errors.New("help requested")
	errVersion = errors.New("version requested")
)

// options holds the parsed command line. Empty strings mean "not given".
type options struct {
	ConfigPath  string
	HistoryFile string
	Prompt      string
	LogLevel    string

	promptSet bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseFlags(args, os.Stderr)
	switch {
	case errors.Is(err, errHelp):
		return 0
	case errors.Is(err, errVersion):
		fmt.Printf("keyline %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	cfg, err := loadConfig(context.Background(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}

	application, err := app.New(cfg, app.Options{RawMode: true})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer func() { _ = application.Close() }()

	// Raw mode turns Ctrl-C into a key; these signals still come from
	// outside and must leave the terminal usable.
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-signals
		_ = application.Close()
		os.Exit(1)
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "\r\nError: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig layers the command line over the file and environment.
func loadConfig(ctx context.Context, opts options) (*config.Config, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg := config.New(config.WithFile(path))
	if err := cfg.Load(ctx); err != nil {
		return nil, err
	}

	overrides := map[string]string{
		"session.historyFile": opts.HistoryFile,
		"logging.level":       opts.LogLevel,
	}
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := cfg.Set(key, value); err != nil {
			return nil, err
		}
	}
	// An empty prompt is a valid choice when given explicitly.
	if opts.promptSet {
		if err := cfg.Set("session.prompt", opts.Prompt); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	var showVersion bool
	var showHelp bool

	fs := flag.NewFlagSet("keyline", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.HistoryFile, "history", "", "Path to the history file")
	fs.StringVar(&opts.HistoryFile, "H", "", "Path to the history file (shorthand)")
	fs.StringVar(&opts.Prompt, "prompt", "", "Prompt printed before the line")
	fs.StringVar(&opts.Prompt, "p", "", "Prompt printed before the line (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")
	fs.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	fs.BoolVar(&showHelp, "help", false, "Show help message")
	fs.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "keyline - interactive line reader with history\n\n")
		fmt.Fprintf(stderr, "Usage: keyline [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  keyline                          Read lines with the default prompt\n")
		fmt.Fprintf(stderr, "  keyline -p 'sql> ' -H ~/.sqlhist  Custom prompt and persistent history\n")
		fmt.Fprintf(stderr, "  keyline -c ~/.config/keyline/config.toml\n")
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return opts, errHelp
		}
		return opts, err
	}

	if showHelp {
		fs.Usage()
		return opts, errHelp
	}
	if showVersion {
		return opts, errVersion
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "prompt" || f.Name == "p" {
			opts.promptSet = true
		}
	})

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.LogLevel)
	}

	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	return opts, nil
}
