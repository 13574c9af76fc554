// audiohdr prints the decoded headers of CAFF, WAV, Ogg Vorbis and MP3
// files.
//
// Each FILE argument is decoded once and reported in the chosen output
// format. With --watch, files created or written in a directory are
// decoded as they settle and reported one at a time until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/simonhull/audiohdr"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := defaultConfig()
	var configPath string
	var showVersion bool

	flagSet := pflag.NewFlagSet("audiohdr", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&cfg.Output, "output", "o", cfg.Output, "report format: text, json, yaml or cbor")
	flagSet.StringVar(&cfg.Digest, "digest", cfg.Digest, "payload digest for CAFF and WAV: sha1 or blake3")
	flagSet.StringVarP(&cfg.Format, "format", "f", cfg.Format, "force a decoder: caff, wav, ogg or mp3 (default: detect)")
	flagSet.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	flagSet.StringVar(&cfg.Watch, "watch", cfg.Watch, "decode files as they appear in this directory")
	flagSet.BoolVar(&cfg.Strict, "strict", cfg.Strict, "treat warnings as errors")
	flagSet.StringVar(&configPath, "config", "", "YAML file with default settings (flags override it)")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}
	if showVersion {
		info := audiohdr.GetVersionInfo()
		fmt.Fprintf(stdout, "audiohdr %s (commit %s, built %s, %s)\n",
			info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
		return nil
	}

	if configPath != "" {
		if err := applyConfigFile(flagSet, configPath, &cfg); err != nil {
			return err
		}
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	level, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	opts, err := openOptions(cfg, logger)
	if err != nil {
		return err
	}

	if cfg.Watch != "" {
		return watchDir(ctx, cfg.Watch, settleDelay, logger, func(path string) {
			if cfg.Format == "" && !audioExtension(path) {
				logger.Debug("skipping file without an audio extension", "path", path)
				return
			}
			if err := reportFile(stdout, cfg.Output, path, opts); err != nil {
				logger.Warn("decode failed", "path", path, "err", err)
			}
		})
	}

	paths := flagSet.Args()
	if len(paths) == 0 {
		printHelp(stderr, flagSet)
		return errors.New("no input files")
	}
	return reportAll(ctx, stdout, stderr, cfg.Output, paths, opts)
}

// applyConfigFile loads path under the flags: any flag set on the command
// line keeps its value.
func applyConfigFile(flagSet *pflag.FlagSet, path string, cfg *config) error {
	fromFlags := *cfg
	if err := loadConfigFile(path, cfg); err != nil {
		return err
	}
	override := map[string]func(){
		"output":    func() { cfg.Output = fromFlags.Output },
		"digest":    func() { cfg.Digest = fromFlags.Digest },
		"format":    func() { cfg.Format = fromFlags.Format },
		"log-level": func() { cfg.LogLevel = fromFlags.LogLevel },
		"watch":     func() { cfg.Watch = fromFlags.Watch },
		"strict":    func() { cfg.Strict = fromFlags.Strict },
	}
	for name, apply := range override {
		if flagSet.Changed(name) {
			apply()
		}
	}
	return nil
}

func openOptions(cfg config, logger *slog.Logger) ([]audiohdr.Option, error) {
	alg, err := audiohdr.ParseDigest(cfg.Digest)
	if err != nil {
		return nil, err
	}
	opts := []audiohdr.Option{audiohdr.WithLogger(logger), audiohdr.WithDigest(alg)}

	if cfg.Format != "" {
		format := audiohdr.ParseFormat(cfg.Format)
		if format == audiohdr.FormatUnknown {
			return nil, fmt.Errorf("unknown format %q (want caff, wav, ogg or mp3)", cfg.Format)
		}
		opts = append(opts, audiohdr.WithFormat(format))
	}
	if cfg.Strict {
		opts = append(opts, audiohdr.WithStrictParsing())
	}
	return opts, nil
}

// reportAll decodes every path, writes one report for the files that
// decoded and returns an error naming how many did not.
func reportAll(ctx context.Context, stdout, stderr io.Writer, output string, paths []string, opts []audiohdr.Option) error {
	reports := make([]report, 0, len(paths))
	failed := 0
	for _, path := range paths {
		f, err := audiohdr.OpenContext(ctx, path, opts...)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		reports = append(reports, newReport(f))
		f.Close()
	}

	if err := writeReports(stdout, output, reports); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be decoded", failed, len(paths))
	}
	return nil
}

func reportFile(w io.Writer, output, path string, opts []audiohdr.Option) error {
	f, err := audiohdr.Open(path, opts...)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeReports(w, output, []report{newReport(f)})
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `audiohdr decodes the headers of CAFF, WAV, Ogg Vorbis and MP3 files.

Usage:
  audiohdr [flags] FILE...
  audiohdr [flags] --watch DIR

Examples:
  # Summaries of a few files
  audiohdr take1.caf take2.wav

  # JSON with BLAKE3 payload digests
  audiohdr -o json --digest blake3 *.wav

  # Decode a raw MPEG stream with an unusual extension
  audiohdr --format mp3 capture.bin

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
