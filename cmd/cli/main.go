package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/tebeka/atexit"

	"github.com/doichev-kostia/computer-enhance/sim8086/pkg/config"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <source> [destination]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.String("log-level", "", "trace, debug, info, warn or error")
	flag.String("log-format", "", "text or json")
	flag.Bool("listing", false, "print a table of the decoded instructions to stderr")
	flag.Bool("debug", false, "dump every decoded instruction to stderr")
	flag.Bool("crosscheck", false, "compare every instruction with a reference decoder")
	flag.String("assembler", "", "reassemble the output with this assembler and compare the bytes")
	flag.Usage = usage
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		exit(err)
	}
	flag.Visit(func(f *flag.Flag) {
		applyFlag(&cfg, f.Name, f.Value.String())
	})
	if err := cfg.Validate(); err != nil {
		exit(err)
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	// 1 - source, 2 - destination (stdout when omitted)
	if flag.NArg() < 1 || flag.NArg() > 2 {
		usage()
		exit(fmt.Errorf("invalid number of arguments, expected the source file and an optional destination file"))
	}

	filename := flag.Arg(0)
	if !fileExists(filename) {
		exit(fmt.Errorf("the specified file %s doesn't exist", filename))
	}

	source, err := os.ReadFile(filename)
	if err != nil {
		exit(fmt.Errorf("failed to read the file %s: %w", filename, err))
	}

	out, err := openDestination(flag.Arg(1))
	if err != nil {
		exit(err)
	}
	atexit.Register(func() {
		if err := out.Close(); err != nil {
			slog.Error("failed to close the destination", "err", err)
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	atexit.Register(stop)

	if err := run(ctx, cfg, source, out, os.Stderr, logger); err != nil {
		slog.Error("translation failed", "source", filename, "err", err)
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// applyFlag overrides a config value with a flag given on the command line.
func applyFlag(cfg *config.Config, name string, value string) {
	switch name {
	case "log-level":
		cfg.Log.Level = value
	case "log-format":
		cfg.Log.Format = value
	case "listing":
		cfg.Listing = value == "true"
	case "debug":
		cfg.Debug = value == "true"
	case "crosscheck":
		cfg.Verify.CrossCheck = value == "true"
	case "assembler":
		cfg.Verify.Assembler = value
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// openDestination creates path, which must not exist yet. An empty path means stdout.
func openDestination(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create the destination %s: %w", path, err)
	}
	return file, nil
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err.Error())
	atexit.Exit(1)
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)

	return !errors.Is(err, os.ErrNotExist)
}
