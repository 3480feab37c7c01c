package locator

import (
	"strconv"
	"strings"

	"github.com/devicelab-dev/pagescout/pkg/pagesource"
)

// defaultInteractiveTags lists iOS element types that are typically
// tappable or otherwise interactive. Extendable via config.
var defaultInteractiveTags = []string{
	"XCUIElementTypeButton",
	"XCUIElementTypeLink",
	"XCUIElementTypeCell",
	"XCUIElementTypeStaticText", // sometimes used like buttons
	"XCUIElementTypeMenuItem",
	"XCUIElementTypeCheckBox",
	"XCUIElementTypeSwitch",
	"XCUIElementTypeTextField",
	"XCUIElementTypeSecureTextField",
}

// Classifier decides whether an element counts as interactive.
type Classifier struct {
	tags map[string]bool
}

// NewClassifier builds a classifier from the default interactive tag set
// plus any extra tags from configuration.
func NewClassifier(extraTags []string) *Classifier {
	c := &Classifier{tags: make(map[string]bool)}
	for _, tag := range defaultInteractiveTags {
		c.tags[tag] = true
	}
	for _, tag := range extraTags {
		c.tags[tag] = true
	}
	return c
}

// Interactive reports whether the element is interactive.
//
// iOS: the tag must be in the interactive set and the element enabled and
// visible (both default to true when the attribute is absent).
// Android: the element must be clickable, enabled, and displayed.
func (c *Classifier) Interactive(platform string, e *pagesource.Element) bool {
	if platform == "ios" {
		return c.tags[e.Tag] && e.BoolAttr("enabled", true) && e.BoolAttr("visible", true)
	}

	clickable := e.BoolAttr("clickable", false) || c.tags[e.Tag]
	return clickable && e.BoolAttr("enabled", true) && e.BoolAttr("displayed", true)
}

// Classification returns the element's classification label.
func (c *Classifier) Classification(platform string, e *pagesource.Element) string {
	if c.Interactive(platform, e) {
		return "Interactive"
	}
	return "Non-Interactive"
}

// UniqueKey builds a deduplication key for an element: tag plus the
// identifying attributes and geometry. Elements that render the same key
// are treated as the same control across snapshots.
func UniqueKey(platform string, e *pagesource.Element) string {
	var fields []string
	if platform == "ios" {
		fields = []string{e.Attr("name"), e.Attr("label"), e.Attr("value")}
	} else {
		fields = []string{e.Attr("resource-id"), e.Attr("text"), e.Attr("content-desc")}
	}

	parts := append([]string{e.Tag}, fields...)
	b := e.Bounds
	parts = append(parts,
		strconv.Itoa(b.X), strconv.Itoa(b.Y), strconv.Itoa(b.Width), strconv.Itoa(b.Height))
	return strings.Join(parts, "|")
}
