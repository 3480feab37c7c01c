// Package extract walks saved page source snapshots and emits one locator
// expression per element of interest.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/devicelab-dev/pagescout/pkg/core"
	"github.com/devicelab-dev/pagescout/pkg/locator"
	"github.com/devicelab-dev/pagescout/pkg/logger"
	"github.com/devicelab-dev/pagescout/pkg/pagesource"
)

// MasterFile is the cross-snapshot list of unique interactive elements.
const MasterFile = "master_interactive.txt"

// Options controls an extraction run.
type Options struct {
	Inputs          []string // snapshot files or directories containing them
	OutputDir       string
	Format          string   // tsv (default) or report
	InteractiveOnly bool     // emit only interactive elements
	Tags            []string // when non-empty, emit only these tags
	InteractiveTags []string // extra tags for the interactive classifier
	Quiet           bool
}

// Entry is one extracted element: its locator plus descriptive fields.
type Entry struct {
	Element        *pagesource.Element
	Locator        locator.Locator
	Candidates     []string
	Classification string
}

// Result is the outcome for one input file.
type Result struct {
	File     string
	Output   string // written output file, empty on failure
	Elements int    // emitted entries
	Err      error
}

// Failed returns the results that did not complete.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

// Run extracts locators from every input file. A parse failure on one file
// is recorded in its Result and does not stop the rest of the batch; the
// returned error covers run-level failures only (bad inputs, write errors
// on the master file).
func Run(opts Options) ([]Result, error) {
	if opts.Format == "" {
		opts.Format = "tsv"
	}
	if opts.Format != "tsv" && opts.Format != "report" {
		return nil, core.ErrInvalidConfig.WithMessage(fmt.Sprintf("unknown output format %q", opts.Format))
	}

	files, err := collectInputs(opts.Inputs)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, core.ErrWriteFailed.WithCause(err)
	}

	classifier := locator.NewClassifier(opts.InteractiveTags)
	progress := newProgress(len(files), opts.Quiet)

	// Unique interactive elements across all snapshots
	masterSeen := make(map[string]bool)
	var master []Entry

	usedNames := make(map[string]int)

	results := make([]Result, 0, len(files))
	for _, file := range files {
		result := Result{File: file}

		entries, platform, err := extractFile(file, classifier, opts)
		if err != nil {
			result.Err = err
			logger.Error("extract %s: %v", file, err)
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", file, err)
		} else {
			outPath := outputName(opts.OutputDir, file, usedNames)
			if err := writeEntries(outPath, entries, platform, opts.Format, filepath.Base(file)); err != nil {
				result.Err = err
				logger.Error("write %s: %v", outPath, err)
			} else {
				result.Output = outPath
				result.Elements = len(entries)
				logger.Info("extracted %d locators from %s", len(entries), file)

				for _, entry := range entries {
					if entry.Classification != "Interactive" {
						continue
					}
					key := locator.UniqueKey(platform, entry.Element)
					if masterSeen[key] {
						continue
					}
					masterSeen[key] = true
					master = append(master, entry)
				}
			}
		}

		results = append(results, result)
		progress.fileDone(file, result.Elements)
	}
	progress.finish()

	if err := writeMaster(filepath.Join(opts.OutputDir, MasterFile), master); err != nil {
		return results, err
	}

	return results, nil
}

// extractFile parses one snapshot and derives locator entries in pre-order
// document order.
func extractFile(path string, classifier *locator.Classifier, opts Options) ([]Entry, string, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- operator-provided snapshot file
	if err != nil {
		return nil, "", err
	}

	snap, err := pagesource.Parse(string(data))
	if err != nil {
		return nil, "", err
	}

	wantTags := make(map[string]bool, len(opts.Tags))
	for _, tag := range opts.Tags {
		wantTags[tag] = true
	}

	builder := locator.NewBuilder(snap)
	entries := []Entry{}
	snap.Walk(func(e *pagesource.Element) {
		classification := classifier.Classification(snap.Platform, e)
		if opts.InteractiveOnly && classification != "Interactive" {
			return
		}
		if len(wantTags) > 0 && !wantTags[e.Tag] {
			return
		}
		entries = append(entries, Entry{
			Element:        e,
			Locator:        builder.Build(e),
			Candidates:     locator.Candidates(snap.Platform, e),
			Classification: classification,
		})
	})

	return entries, snap.Platform, nil
}

// collectInputs expands files and directories into a sorted list of XML
// snapshot files. Directories are walked recursively so timestamped run
// subdirectories from capture are found.
func collectInputs(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, core.ErrMissingRequired.WithMessage("no input files or directories given")
	}

	var files []string
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, core.ErrInvalidConfig.WithCause(err).WithMessage(fmt.Sprintf("input %s not found", input))
		}

		if !info.IsDir() {
			files = append(files, input)
			continue
		}

		err = filepath.WalkDir(input, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".xml") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// outputName maps page_3.xml to <out>/page_3_locators.txt. Inputs from
// different directories can share a basename, so repeats within a run get a
// numeric suffix instead of overwriting the earlier output.
func outputName(outputDir, inputFile string, used map[string]int) string {
	base := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
	used[base]++
	if n := used[base]; n > 1 {
		base = fmt.Sprintf("%s_%d", base, n)
	}
	return filepath.Join(outputDir, base+"_locators.txt")
}
