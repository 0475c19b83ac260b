// Fieldmed is a deterministic combat injury and medical recovery simulator.
// Usage: fieldmed [--version] [--plain] [--script <file>] [--trace]
// [--journal <db>] [--log <file>] [--seed <n>] <campaign_directory>
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nathoo/fieldmed/cli"
	"github.com/nathoo/fieldmed/engine"
	"github.com/nathoo/fieldmed/engine/journal"
	"github.com/nathoo/fieldmed/loader"
	"github.com/nathoo/fieldmed/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: fieldmed [--version] [--plain] [--script <file>] [--trace] [--journal <db>] [--log <file>] [--seed <n>] <campaign_directory>\n"

type config struct {
	plain       bool
	trace       bool
	campaignDir string
	scriptFile  string
	journalPath string
	logPath     string
	seed        int64
	seedSet     bool
}

func main() {
	cfg, done := parseArgs(os.Args[1:])
	if done {
		return
	}
	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parseArgs reads the command line. It exits on usage errors and reports
// done for --version.
func parseArgs(args []string) (config, bool) {
	var cfg config
	value := func(i *int, flag string) string {
		if *i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", flag)
			os.Exit(1)
		}
		*i++
		return args[*i]
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("fieldmed %s (commit %s, built %s)\n", version, commit, date)
			return cfg, true
		case "--plain":
			cfg.plain = true
		case "--trace":
			cfg.trace = true
		case "--script":
			cfg.scriptFile = value(&i, "--script")
		case "--journal":
			cfg.journalPath = value(&i, "--journal")
		case "--log":
			cfg.logPath = value(&i, "--log")
		case "--seed":
			n, err := strconv.ParseInt(value(&i, "--seed"), 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "--seed must be an integer\n")
				os.Exit(1)
			}
			cfg.seed, cfg.seedSet = n, true
		default:
			if cfg.campaignDir == "" {
				cfg.campaignDir = args[i]
			}
		}
	}

	if cfg.campaignDir == "" {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	return cfg, false
}

func run(cfg config) error {
	logger := newLogger(cfg)

	// Load and compile Lua campaign content.
	defs, err := loader.Load(cfg.campaignDir)
	if err != nil {
		return errors.Wrap(err, "loading campaign")
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	if cfg.seedSet {
		opts = append(opts, engine.WithSeed(cfg.seed))
	}
	if cfg.journalPath != "" {
		j, err := journal.Open(context.Background(), cfg.journalPath)
		if err != nil {
			return err
		}
		defer j.Close()
		opts = append(opts, engine.WithJournal(j))
	}

	eng, err := engine.New(defs, opts...)
	if err != nil {
		return err
	}
	logger.Info("campaign_loaded",
		"title", defs.Campaign.Title,
		"people", len(defs.Persons),
		"seed", eng.RNG.Seed())

	banner := fmt.Sprintf("%s v%s by %s\n\n", defs.Campaign.Title, defs.Campaign.Version, defs.Campaign.Author)

	// Script mode: open file, force plain, echo commands.
	if cfg.scriptFile != "" {
		f, err := os.Open(cfg.scriptFile)
		if err != nil {
			return errors.Wrap(err, "opening script")
		}
		defer f.Close()
		fmt.Print(banner)
		c := cli.New(eng, defs)
		c.In = f
		c.EchoInput = true
		c.Trace = cfg.trace
		c.Run()
		return nil
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if cfg.plain || !isTerminal() {
		fmt.Print(banner)
		c := cli.New(eng, defs)
		c.Trace = cfg.trace
		c.Run()
		return nil
	}

	return tui.Run(eng, defs)
}

// newLogger writes JSON logs to a rotated file when --log is given and
// discards them otherwise. --trace lowers the level to debug.
func newLogger(cfg config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.trace {
		level = slog.LevelDebug
	}
	var w io.Writer = io.Discard
	if cfg.logPath != "" {
		w = &lumberjack.Logger{
			Filename:   cfg.logPath,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
