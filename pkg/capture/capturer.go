// Package capture saves page source snapshots from a running automation
// session to uniquely named XML files.
package capture

import (
	"context"
	"os"
	"time"

	"github.com/devicelab-dev/pagescout/pkg/core"
	"github.com/devicelab-dev/pagescout/pkg/fsutil"
	"github.com/devicelab-dev/pagescout/pkg/logger"
)

// Source is the upstream session boundary: anything that can report the
// current page source and the foreground app. Implemented by appium.Client.
type Source interface {
	PageSource() (string, error)
	ActiveBundleID() (string, error)
}

// Options controls a capture run.
type Options struct {
	OutputDir string
	Bundle    string        // in watch mode, capture only while this app is foreground
	Interval  time.Duration // watch mode poll interval
}

// Capturer writes snapshots from a Source to disk, skipping screens that
// were already saved in this run.
type Capturer struct {
	src   Source
	opts  Options
	seen  map[string]bool
	count int
}

// New creates a Capturer.
func New(src Source, opts Options) *Capturer {
	if opts.Interval <= 0 {
		opts.Interval = 2 * time.Second
	}
	return &Capturer{
		src:  src,
		opts: opts,
		seen: make(map[string]bool),
	}
}

// Count returns the number of snapshots saved so far.
func (c *Capturer) Count() int {
	return c.count
}

// CaptureOnce fetches the current page source and writes it to the next
// page_<n>.xml in the output directory. Returns the file path.
func (c *Capturer) CaptureOnce() (string, error) {
	source, err := c.src.PageSource()
	if err != nil {
		return "", err
	}
	return c.save(source)
}

// Watch polls the session until ctx is cancelled, saving every screen it
// has not seen before. Screens are compared by a hash with volatile
// attributes stripped, so typing into a field does not produce a new file.
func (c *Capturer) Watch(ctx context.Context) error {
	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if c.opts.Bundle != "" {
			bundle, err := c.src.ActiveBundleID()
			if err != nil {
				return err
			}
			if bundle != c.opts.Bundle {
				logger.Debug("not in %s (currently in %s), waiting", c.opts.Bundle, bundle)
				continue
			}
		}

		source, err := c.src.PageSource()
		if err != nil {
			return err
		}

		hash := FilteredHash(source)
		if c.seen[hash] {
			logger.Debug("screen already saved, skipping")
			continue
		}
		c.seen[hash] = true

		path, err := c.save(source)
		if err != nil {
			return err
		}
		logger.Info("saved new page source: %s", path)
	}
}

func (c *Capturer) save(source string) (string, error) {
	if err := os.MkdirAll(c.opts.OutputDir, 0o755); err != nil {
		return "", core.ErrWriteFailed.WithCause(err)
	}

	path := fsutil.NextSequenceName(c.opts.OutputDir, "page", ".xml")
	if err := fsutil.WriteAtomic(path, []byte(source)); err != nil {
		return "", err
	}
	c.count++
	return path, nil
}
