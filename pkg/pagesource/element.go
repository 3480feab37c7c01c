// Package pagesource parses Appium page source XML into a navigable UI tree.
// Handles both iOS (XCUITest) and Android (UiAutomator2) formats.
package pagesource

import (
	"fmt"
	"sort"
	"strings"

	"github.com/devicelab-dev/pagescout/pkg/core"
)

// Element is one node of a page source snapshot.
// Children are kept in document order; Parent is nil for the root.
type Element struct {
	Tag      string
	Attrs    map[string]string
	Bounds   core.Bounds
	Depth    int
	Parent   *Element
	Children []*Element
}

// Attr returns the named attribute or "" when absent.
func (e *Element) Attr(name string) string {
	return e.Attrs[name]
}

// HasAttr reports whether the attribute is present, even if empty.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attrs[name]
	return ok
}

// BoolAttr returns the attribute as a boolean, or def when absent.
// Page sources encode booleans as the literal strings "true"/"false".
func (e *Element) BoolAttr(name string, def bool) bool {
	v, ok := e.Attrs[name]
	if !ok {
		return def
	}
	return v == "true"
}

// SiblingIndex returns the 1-based position of e among same-tag siblings
// under the same parent. The root is always at index 1.
func (e *Element) SiblingIndex() int {
	if e.Parent == nil {
		return 1
	}
	index := 0
	for _, sib := range e.Parent.Children {
		if sib.Tag == e.Tag {
			index++
		}
		if sib == e {
			return index
		}
	}
	return index
}

// AttrSummary returns a stable "key='value', ..." rendering of the given
// attributes, skipping absent or empty ones. With no keys given, all
// attributes are rendered in sorted order.
func (e *Element) AttrSummary(keys ...string) string {
	if len(keys) == 0 {
		keys = make([]string, 0, len(e.Attrs))
		for k := range e.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	var parts []string
	for _, k := range keys {
		if v := e.Attrs[k]; v != "" {
			parts = append(parts, fmt.Sprintf("%s='%s'", k, v))
		}
	}
	return strings.Join(parts, ", ")
}

// Snapshot is one parsed page source: a rooted tree plus the detected
// platform ("ios" or "android").
type Snapshot struct {
	Platform string
	Root     *Element
}

// Walk visits every element in pre-order document order: a node before its
// children, children left to right.
func (s *Snapshot) Walk(fn func(*Element)) {
	walk(s.Root, fn)
}

func walk(e *Element, fn func(*Element)) {
	fn(e)
	for _, child := range e.Children {
		walk(child, fn)
	}
}

// Elements returns every element flattened in document order.
func (s *Snapshot) Elements() []*Element {
	var out []*Element
	s.Walk(func(e *Element) {
		out = append(out, e)
	})
	return out
}
