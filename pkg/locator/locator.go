// Package locator derives locator expressions for page source elements and
// resolves them back against a snapshot.
//
// Two forms are produced:
//
//   - identifier form, when the element carries a stable identifier attribute
//     (iOS accessibility name, Android resource-id) whose value is unique
//     within the snapshot: //*[@name='submitBtn']
//   - positional path form otherwise, built from tag names and 1-based
//     same-tag sibling indexes relative to the root: /button[2]/label[1]
package locator

import (
	"fmt"
	"strings"

	"github.com/devicelab-dev/pagescout/pkg/pagesource"
)

// Kind distinguishes the two locator forms.
type Kind int

const (
	KindIdentifier Kind = iota
	KindPath
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "identifier"
	case KindPath:
		return "path"
	default:
		return "unknown"
	}
}

// Locator is one derived expression addressing an element within a snapshot.
type Locator struct {
	Kind Kind
	Expr string
}

// IdentifierAttr returns the stable identifier attribute name for a platform.
func IdentifierAttr(platform string) string {
	if platform == "ios" {
		return "name"
	}
	return "resource-id"
}

// Builder derives locators for elements of a single snapshot.
// It indexes identifier attribute values once so that duplicated
// identifiers can be detected and demoted to positional paths.
type Builder struct {
	snap    *pagesource.Snapshot
	idAttr  string
	idCount map[string]int
}

// NewBuilder indexes the snapshot and returns a builder for its elements.
func NewBuilder(snap *pagesource.Snapshot) *Builder {
	b := &Builder{
		snap:    snap,
		idAttr:  IdentifierAttr(snap.Platform),
		idCount: make(map[string]int),
	}
	snap.Walk(func(e *pagesource.Element) {
		if id := e.Attr(b.idAttr); id != "" {
			b.idCount[id]++
		}
	})
	return b
}

// Build derives the locator for an element of the builder's snapshot.
// Identifier form takes precedence when the identifier value is unique in
// the snapshot; anything else gets a positional path, which disambiguates
// same-tag siblings deterministically by document order.
func (b *Builder) Build(e *pagesource.Element) Locator {
	if id := e.Attr(b.idAttr); id != "" && b.idCount[id] == 1 {
		return Locator{
			Kind: KindIdentifier,
			Expr: fmt.Sprintf("//*[@%s='%s']", b.idAttr, id),
		}
	}
	return Locator{Kind: KindPath, Expr: Path(e)}
}

// Path builds the absolute positional path for an element: one /tag[index]
// segment per ancestor level below the root. The root itself is addressed
// as /tag without an index.
func Path(e *pagesource.Element) string {
	if e.Parent == nil {
		return "/" + e.Tag
	}

	var segments []string
	for cur := e; cur.Parent != nil; cur = cur.Parent {
		segments = append(segments, fmt.Sprintf("/%s[%d]", cur.Tag, cur.SiblingIndex()))
	}

	// Segments were collected leaf-first
	var sb strings.Builder
	for i := len(segments) - 1; i >= 0; i-- {
		sb.WriteString(segments[i])
	}
	return sb.String()
}
