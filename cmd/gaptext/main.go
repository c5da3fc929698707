// Package main is the entry point for the gaptext command.
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

	"github.com/dshills/gaptext/internal/config"
	"github.com/dshills/gaptext/internal/engine/document"
	"github.com/dshills/gaptext/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the global flags.
type options struct {
	ConfigPath string
	LogLevel   string
	CRLF       bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("gaptext", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	var showVersion bool
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")
	fs.BoolVar(&opts.CRLF, "crlf", false, "Strip and restore CRLF line endings in uniformly CRLF files")
	fs.BoolVar(&showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "gaptext - gap buffer text engine\n\n")
		fmt.Fprintf(stderr, "Usage: gaptext [options] <command> <file>\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  info    Show line count, widths, file type and line endings ([-json])\n")
		fmt.Fprintf(stderr, "  render  Print a window of lines ([-from n] [-to n] [-col n] [-width n])\n")
		fmt.Fprintf(stderr, "  check   Verify that saving reproduces the file byte for byte\n")
		fmt.Fprintf(stderr, "  watch   Report and reload external changes until interrupted\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if showVersion {
		fmt.Fprintf(stdout, "gaptext %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	rest := fs.Args()
	if len(rest) < 2 {
		fs.Usage()
		return 1
	}
	command, path, cmdArgs := rest[0], rest[1], rest[2:]

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger := logging.New(logging.Config{
		Level:  cfg.LogLevel(),
		Output: stderr,
		Prefix: "gaptext",
	})
	logging.SetDefault(logger)

	docOpts := append(cfg.DocumentOptions(), document.WithLogger(logger))

	switch command {
	case "info":
		err = infoCommand(stdout, stderr, path, cmdArgs, docOpts)
	case "render":
		err = renderCommand(stdout, stderr, path, cmdArgs, docOpts)
	case "check":
		err = checkCommand(stdout, path, docOpts)
	case "watch":
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		err = watchCommand(ctx, path, cfg, logger, docOpts)
	default:
		err = fmt.Errorf("unknown command %q", command)
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// loadConfig resolves configuration and applies flag overrides.
func loadConfig(opts options) (*config.Config, error) {
	var loadOpts []config.Option
	if opts.ConfigPath != "" {
		loadOpts = append(loadOpts, config.WithFile(opts.ConfigPath))
	}

	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.CRLF {
		cfg.Document.LineEndings = string(document.LineEndingsNormalizeCRLF)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
