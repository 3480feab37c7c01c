// Package cli provides the command-line interface for pagescout.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "server-url",
		Aliases: []string{"s"},
		Usage:   "Appium server URL",
		EnvVars: []string{"APPIUM_URL"},
	},
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to pagescout.yaml (default: look in current directory)",
		EnvVars: []string{"PAGESCOUT_CONFIG"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging to stderr",
		EnvVars: []string{"PAGESCOUT_VERBOSE"},
	},
}

// Execute runs the CLI.
func Execute() {
	// Optional .env for APPIUM_URL and friends; absence is not an error
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "pagescout",
		Usage:   "Capture mobile page sources and extract element locators",
		Version: Version,
		Description: `pagescout connects to a running Appium session to save page source
snapshots, and turns saved snapshots into element locator lists.

Examples:
  pagescout capture --bundle com.example.app --watch
  pagescout capture --session-id 3f9c... --output snapshots
  pagescout extract snapshots/ --output locators
  pagescout extract page_1.xml --interactive-only --format report`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			captureCommand,
			extractCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
