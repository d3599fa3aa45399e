package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ontomatch/internal/config"
	"github.com/standardbeagle/ontomatch/internal/debug"
	ierrors "github.com/standardbeagle/ontomatch/internal/errors"
	"github.com/standardbeagle/ontomatch/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")

	cfg, err := config.LoadWithRoot(configPath, c.String("root"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	// Apply CLI flag overrides
	if size := c.String("size"); size != "" {
		cfg.Task.Size = size
	}
	if lang := c.String("language"); lang != "" {
		cfg.Task.Language = lang
	}
	if dir := c.String("knowledge"); dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve knowledge path %q: %w", dir, err)
		}
		cfg.Knowledge.Dir = absDir
	}
	if ref := c.String("reference"); ref != "" && c.Command.Name == "match" {
		cfg.Oracle.Mode = "reference"
		cfg.Oracle.Reference = ref
	}
	if c.Bool("interactive") {
		cfg.Oracle.Mode = "console"
	}
	if c.IsSet("query-limit") {
		cfg.Oracle.QueryLimit = c.Int("query-limit")
	}
	if c.IsSet("workers") {
		cfg.Performance.Workers = c.Int("workers")
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var ontologyFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "source",
		Aliases:  []string{"s"},
		Usage:    "Source ontology file",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "target",
		Aliases:  []string{"t"},
		Usage:    "Target ontology file",
		Required: true,
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "ontomatch",
		Usage:                  "Automatic ontology matching",
		Version:                version.Info(),
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: .ontomatch.kdl in the working directory)",
			},
			&cli.StringFlag{
				Name:  "root",
				Usage: "Project directory searched for .ontomatch.kdl (default: working directory)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Write debug logs to stderr",
			},
			&cli.BoolFlag{
				Name:  "debug-log",
				Usage: "Write debug logs to a file in the temp directory",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress all debug output",
			},
		},
		Commands: []*cli.Command{
			{
				Name:    "match",
				Aliases: []string{"m"},
				Usage:   "Match two ontologies and write the alignment as JSON",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Alignment output file (default: stdout)",
					},
					&cli.StringFlag{
						Name:  "reference",
						Usage: "Reference alignment answering the interactive questions",
					},
					&cli.BoolFlag{
						Name:    "interactive",
						Aliases: []string{"i"},
						Usage:   "Ask on the terminal about doubtful mappings",
					},
					&cli.IntFlag{
						Name:  "query-limit",
						Usage: "Maximum number of oracle questions (0=unlimited)",
					},
					&cli.StringFlag{
						Name:  "size",
						Usage: "Force the size category (small, medium, large, huge)",
					},
					&cli.StringFlag{
						Name:  "language",
						Usage: "Force the language setting (single, multi, translate)",
					},
					&cli.StringFlag{
						Name:    "knowledge",
						Aliases: []string{"k"},
						Usage:   "Background knowledge directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Matcher worker count (0=auto)",
					},
					&cli.StringFlag{
						Name:  "metrics-file",
						Usage: "Write pipeline metrics in Prometheus text format",
					},
				}, ontologyFlags...),
				Action: matchCommand,
			},
			{
				Name:  "evaluate",
				Usage: "Score an alignment against a reference alignment",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "alignment",
						Aliases:  []string{"a"},
						Usage:    "Alignment to evaluate",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "reference",
						Aliases:  []string{"r"},
						Usage:    "Reference alignment",
						Required: true,
					},
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: evaluateCommand,
			},
			{
				Name:  "repair",
				Usage: "Remove cardinality and disjointness conflicts from an alignment",
				Flags: append([]cli.Flag{
					&cli.StringFlag{
						Name:     "alignment",
						Aliases:  []string{"a"},
						Usage:    "Alignment to repair",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Repaired alignment output file (default: stdout)",
					},
				}, ontologyFlags...),
				Action: repairCommand,
			},
			{
				Name:  "sources",
				Usage: "List the background knowledge sources",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "knowledge",
						Aliases: []string{"k"},
						Usage:   "Background knowledge directory",
					},
				},
				Action: sourcesCommand,
			},
		},
		Before: func(c *cli.Context) error {
			debug.SetQuietMode(c.Bool("quiet"))
			if c.Bool("debug") {
				debug.EnableDebug = "true"
				debug.SetDebugOutput(c.App.ErrWriter)
			}
			if c.Bool("debug-log") {
				debug.EnableDebug = "true"
				path, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.ErrWriter, "Debug log: %s\n", path)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
	}
}

// exitCode is 2 for configuration problems, 1 for everything else
func exitCode(err error) int {
	if ierrors.IsConfig(err) {
		return 2
	}
	return 1
}

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintln(c.App.Writer, version.FullInfo())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}
