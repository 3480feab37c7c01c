package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/pagescout/pkg/capture"
	"github.com/devicelab-dev/pagescout/pkg/config"
	"github.com/devicelab-dev/pagescout/pkg/core"
	"github.com/devicelab-dev/pagescout/pkg/driver/appium"
	"github.com/devicelab-dev/pagescout/pkg/fsutil"
	"github.com/devicelab-dev/pagescout/pkg/logger"
)

var captureCommand = &cli.Command{
	Name:  "capture",
	Usage: "Save page source snapshots from a running automation session",
	Description: `Connect to an Appium server and save the current page source to a
uniquely named XML file. With --watch, keep polling and save every screen
not seen before until interrupted.

Examples:
  pagescout capture
  pagescout capture --session-id 3f9c21aa --output snapshots
  pagescout capture --watch --bundle com.example.app --interval 2s`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Snapshot output directory",
		},
		&cli.StringFlag{
			Name:  "session-id",
			Usage: "Attach to an existing session instead of creating one",
		},
		&cli.StringFlag{
			Name:  "bundle",
			Usage: "Only capture while this app bundle is in the foreground (watch mode)",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Keep polling and save every new screen until interrupted",
		},
		&cli.DurationFlag{
			Name:  "interval",
			Usage: "Watch mode poll interval",
		},
		&cli.BoolFlag{
			Name:  "flat",
			Usage: "Write snapshots directly into the output directory instead of a timestamped run subdirectory",
		},
	},
	Action: runCapture,
}

func runCapture(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyCaptureFlags(c, cfg)
	if err := cfg.ValidateCapture(); err != nil {
		return err
	}

	interval, err := cfg.Interval()
	if err != nil {
		return err
	}

	// Each run gets its own timestamped subdirectory so sequence numbers
	// from separate runs never interleave.
	cfg.SnapshotDir = resolveSnapshotDir(cfg.SnapshotDir, c.Bool("flat"))

	if err := os.MkdirAll(cfg.SnapshotDir, 0o755); err != nil {
		return core.ErrWriteFailed.WithCause(err)
	}
	if err := logger.Init(filepath.Join(cfg.SnapshotDir, "pagescout.log")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}
	defer logger.Close()
	logger.SetVerbose(cfg.Verbose)

	client := appium.NewClient(cfg.ServerURL)
	if cfg.SessionID != "" {
		if err := client.Attach(cfg.SessionID); err != nil {
			return err
		}
		logger.Info("attached to session %s", cfg.SessionID)
	} else {
		if len(cfg.Capabilities) == 0 {
			return core.ErrMissingRequired.WithMessage("either sessionID or capabilities must be configured")
		}
		if err := client.Connect(cfg.Capabilities); err != nil {
			return err
		}
		defer client.Disconnect()
		logger.Info("created session %s", client.SessionID())
	}

	if cfg.SnapshotMaxDepth > 0 {
		if err := client.SetSettings(map[string]interface{}{
			"snapshotMaxDepth": cfg.SnapshotMaxDepth,
		}); err != nil {
			logger.Warn("could not set snapshotMaxDepth: %v", err)
		}
	}

	capturer := capture.New(client, capture.Options{
		OutputDir: cfg.SnapshotDir,
		Bundle:    cfg.BundleID,
		Interval:  interval,
	})

	if !c.Bool("watch") {
		path, err := capturer.CaptureOnce()
		if err != nil {
			return err
		}
		fmt.Printf("Saved page source: %s\n", path)
		return nil
	}

	fmt.Printf("Watching for new screens (interval %s), Ctrl-C to stop...\n", interval)
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := capturer.Watch(ctx); err != nil {
		return err
	}
	fmt.Printf("\nStopped. Saved %d snapshots to %s\n", capturer.Count(), cfg.SnapshotDir)
	return nil
}

// applyCaptureFlags overrides config values with set flags.
func applyCaptureFlags(c *cli.Context, cfg *config.Config) {
	if v := c.String("server-url"); v != "" {
		cfg.ServerURL = v
	}
	if v := c.String("output"); v != "" {
		cfg.SnapshotDir = v
	}
	if v := c.String("session-id"); v != "" {
		cfg.SessionID = v
	}
	if v := c.String("bundle"); v != "" {
		cfg.BundleID = v
	}
	if v := c.Duration("interval"); v > 0 {
		cfg.PollInterval = v.String()
	}
	if c.Bool("verbose") {
		cfg.Verbose = true
	}
}

// resolveSnapshotDir returns the directory snapshots are written to:
// a timestamped subdirectory of base, or base itself with --flat.
func resolveSnapshotDir(base string, flat bool) string {
	if flat {
		return filepath.Clean(base)
	}
	return fsutil.RunDir(base)
}

// loadConfig loads pagescout.yaml from --config or the current directory.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	return config.LoadFromDir(".")
}
