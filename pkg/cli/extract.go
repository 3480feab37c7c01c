package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pagescout/pkg/config"
	"github.com/devicelab-dev/pagescout/pkg/extract"
	"github.com/devicelab-dev/pagescout/pkg/logger"
)

var extractCommand = &cli.Command{
	Name:      "extract",
	Usage:     "Extract element locators from saved page source snapshots",
	ArgsUsage: "[files or directories...]",
	Description: `Parse saved page source XML files and write one locator expression per
element to a text file, in document order. A file that fails to parse is
reported and skipped; the rest of the batch still runs.

Examples:
  pagescout extract snapshots/
  pagescout extract page_1.xml page_2.xml --output locators
  pagescout extract snapshots/ --interactive-only --format report
  pagescout extract snapshots/ --tag XCUIElementTypeButton --tag XCUIElementTypeCell`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Locator output directory",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: tsv or report",
		},
		&cli.BoolFlag{
			Name:  "interactive-only",
			Usage: "Emit only interactive elements",
		},
		&cli.StringSliceFlag{
			Name:  "tag",
			Usage: "Emit only elements with this tag (repeatable)",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Disable progress output",
		},
	},
	Action: runExtract,
}

func runExtract(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyExtractFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputs := c.Args().Slice()
	if len(inputs) == 0 {
		inputs = []string{cfg.SnapshotDir}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return err
	}
	if err := logger.Init(filepath.Join(cfg.OutputDir, "pagescout.log")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()
	logger.SetVerbose(cfg.Verbose)

	results, err := extract.Run(extract.Options{
		Inputs:          inputs,
		OutputDir:       cfg.OutputDir,
		Format:          cfg.Format,
		InteractiveOnly: c.Bool("interactive-only"),
		Tags:            c.StringSlice("tag"),
		InteractiveTags: cfg.InteractiveTags,
		Quiet:           c.Bool("quiet"),
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Err == nil {
			fmt.Printf("%s: %d locators -> %s\n", r.File, r.Elements, r.Output)
		}
	}

	if failed := extract.Failed(results); len(failed) > 0 {
		for _, r := range failed {
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", r.File, r.Err)
		}
		return cli.Exit(fmt.Sprintf("%d of %d files failed", len(failed), len(results)), 1)
	}
	return nil
}

// applyExtractFlags overrides config values with set flags.
func applyExtractFlags(c *cli.Context, cfg *config.Config) {
	if v := c.String("output"); v != "" {
		cfg.OutputDir = v
	}
	if v := c.String("format"); v != "" {
		cfg.Format = v
	}
	if c.Bool("verbose") {
		cfg.Verbose = true
	}
}
