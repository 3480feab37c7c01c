package locator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/devicelab-dev/pagescout/pkg/pagesource"
)

// Resolve evaluates a locator expression against a snapshot and returns the
// element it addresses. Identifier expressions must match exactly one
// element; positional paths must land on an existing node.
func Resolve(snap *pagesource.Snapshot, expr string) (*pagesource.Element, error) {
	if strings.HasPrefix(expr, "//*[@") {
		return resolveIdentifier(snap, expr)
	}
	return resolvePath(snap, expr)
}

func resolveIdentifier(snap *pagesource.Snapshot, expr string) (*pagesource.Element, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(expr, "//*[@"), "']")
	key, value, ok := strings.Cut(inner, "='")
	if !ok {
		return nil, fmt.Errorf("invalid identifier expression: %s", expr)
	}

	var matches []*pagesource.Element
	snap.Walk(func(e *pagesource.Element) {
		if e.Attr(key) == value {
			matches = append(matches, e)
		}
	})

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no element matches %s", expr)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%s is ambiguous: %d elements match", expr, len(matches))
	}
}

func resolvePath(snap *pagesource.Snapshot, expr string) (*pagesource.Element, error) {
	if !strings.HasPrefix(expr, "/") {
		return nil, fmt.Errorf("invalid path expression: %s", expr)
	}

	// Root form without an index
	if expr == "/"+snap.Root.Tag {
		return snap.Root, nil
	}

	cur := snap.Root
	for _, segment := range strings.Split(expr[1:], "/") {
		tag, index, err := parseSegment(segment)
		if err != nil {
			return nil, fmt.Errorf("invalid path expression %s: %w", expr, err)
		}

		next := childAt(cur, tag, index)
		if next == nil {
			return nil, fmt.Errorf("%s does not resolve: no %s[%d] under /%s", expr, tag, index, cur.Tag)
		}
		cur = next
	}
	return cur, nil
}

// parseSegment splits "tag[i]" into its tag and 1-based index.
func parseSegment(segment string) (string, int, error) {
	open := strings.IndexByte(segment, '[')
	if open < 1 || !strings.HasSuffix(segment, "]") {
		return "", 0, fmt.Errorf("malformed segment %q", segment)
	}
	index, err := strconv.Atoi(segment[open+1 : len(segment)-1])
	if err != nil || index < 1 {
		return "", 0, fmt.Errorf("malformed index in segment %q", segment)
	}
	return segment[:open], index, nil
}

// childAt returns the index-th same-tag child of parent, or nil.
func childAt(parent *pagesource.Element, tag string, index int) *pagesource.Element {
	seen := 0
	for _, child := range parent.Children {
		if child.Tag != tag {
			continue
		}
		seen++
		if seen == index {
			return child
		}
	}
	return nil
}
