package extract

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/pagescout/pkg/fsutil"
)

// descriptorAttrs are the attributes rendered in the element descriptor,
// per platform.
var descriptorAttrs = map[string][]string{
	"ios":     {"name", "label", "value", "enabled", "visible"},
	"android": {"resource-id", "text", "content-desc", "enabled", "clickable"},
}

// writeEntries writes one snapshot's entries to path in the chosen format.
// The file is written atomically; a failed run leaves nothing behind.
func writeEntries(path string, entries []Entry, platform, format, sourceName string) error {
	var data string
	if format == "report" {
		data = formatReport(entries, platform, sourceName)
	} else {
		data = formatTSV(entries, platform)
	}
	return fsutil.WriteAtomic(path, []byte(data))
}

// formatTSV renders one element per line, in traversal order:
// tag, classification, attribute summary, locator, candidates.
// Columns are tab-separated so downstream tooling can split on \t.
func formatTSV(entries []Entry, platform string) string {
	var sb strings.Builder
	for _, entry := range entries {
		e := entry.Element
		sb.WriteString(e.Tag)
		sb.WriteString("\t")
		sb.WriteString(entry.Classification)
		sb.WriteString("\t")
		sb.WriteString(e.AttrSummary(descriptorAttrs[platform]...))
		sb.WriteString("\t")
		sb.WriteString(entry.Locator.Expr)
		sb.WriteString("\t")
		sb.WriteString(strings.Join(entry.Candidates, " "))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatReport renders the multi-line block layout, one block per element.
func formatReport(entries []Entry, platform, sourceName string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Locators for %s ===\n", sourceName)

	for _, entry := range entries {
		e := entry.Element
		fmt.Fprintf(&sb, "Tag: %s\n", e.Tag)
		fmt.Fprintf(&sb, "Attributes: %s\n", e.AttrSummary(descriptorAttrs[platform]...))
		if !e.Bounds.IsZero() {
			b := e.Bounds
			fmt.Fprintf(&sb, "Position: x=%d, y=%d, width=%d, height=%d\n", b.X, b.Y, b.Width, b.Height)
		}
		fmt.Fprintf(&sb, "Classification: %s\n", entry.Classification)
		fmt.Fprintf(&sb, "Locator: %s\n", entry.Locator.Expr)
		if len(entry.Candidates) > 0 {
			sb.WriteString("Candidates:\n")
			for _, candidate := range entry.Candidates {
				fmt.Fprintf(&sb, "  - %s\n", candidate)
			}
		}
		sb.WriteString(strings.Repeat("-", 80))
		sb.WriteString("\n")
	}
	return sb.String()
}

// writeMaster writes the cross-snapshot list of unique interactive
// elements in block format.
func writeMaster(path string, master []Entry) error {
	var sb strings.Builder
	sb.WriteString("=== MASTER LIST OF UNIQUE INTERACTIVE ELEMENTS ===\n\n")

	for _, entry := range master {
		e := entry.Element
		fmt.Fprintf(&sb, "Tag: %s\n", e.Tag)
		fmt.Fprintf(&sb, "Attributes: %s\n", e.AttrSummary())
		fmt.Fprintf(&sb, "Locator: %s\n", entry.Locator.Expr)
		for _, candidate := range entry.Candidates {
			fmt.Fprintf(&sb, "  - %s\n", candidate)
		}
		sb.WriteString("\n")
	}
	return fsutil.WriteAtomic(path, []byte(sb.String()))
}
