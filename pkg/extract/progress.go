package extract

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
)

// progress reports per-file completion during a batch run.
// Cosmetic only; quiet mode disables it entirely.
type progress struct {
	quiet bool
	bar   *progressbar.ProgressBar
	total int
	done  int
}

func newProgress(total int, quiet bool) *progress {
	p := &progress{quiet: quiet, total: total}
	if quiet || total == 0 {
		return p
	}

	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Extracting locators"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
	)
	return p
}

func (p *progress) fileDone(file string, elements int) {
	p.done++
	if p.quiet {
		return
	}
	if p.bar != nil {
		p.bar.Add(1)
	}
}

func (p *progress) finish() {
	if p.quiet || p.bar == nil {
		return
	}
	p.bar.Finish()
	fmt.Printf("\nProcessed %d of %d files\n", p.done, p.total)
}
