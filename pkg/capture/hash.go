package capture

import (
	"crypto/md5" //#nosec G501 -- dedup fingerprint, not security
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/devicelab-dev/pagescout/pkg/pagesource"
)

// volatileAttrs change as the user types or scrolls without the screen
// itself changing. They are stripped before hashing.
var volatileAttrs = map[string]bool{
	"value": true,
}

// FilteredHash fingerprints a page source with volatile attributes removed,
// so minor changes (e.g. text input) map to the same hash. Falls back to
// hashing the raw text when the source does not parse.
func FilteredHash(source string) string {
	snap, err := pagesource.Parse(source)
	if err != nil {
		sum := md5.Sum([]byte(source)) //#nosec G401
		return hex.EncodeToString(sum[:])
	}

	// Depth is part of each line so that nesting changes alter the hash
	// even when the flattened pre-order sequence stays the same.
	var sb strings.Builder
	snap.Walk(func(e *pagesource.Element) {
		sb.WriteString(strconv.Itoa(e.Depth))
		sb.WriteString(":")
		sb.WriteString(e.Tag)

		keys := make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			if !volatileAttrs[k] {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString("|")
			sb.WriteString(k)
			sb.WriteString("=")
			sb.WriteString(e.Attrs[k])
		}
		sb.WriteString("\n")
	})

	sum := md5.Sum([]byte(sb.String())) //#nosec G401
	return hex.EncodeToString(sum[:])
}
