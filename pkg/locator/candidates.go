package locator

import (
	"fmt"

	"github.com/devicelab-dev/pagescout/pkg/pagesource"
)

// Candidates returns alternative attribute-based locators for an element,
// useful when writing automation scripts by hand.
//
// iOS candidates use class chain syntax (**/Tag[@attr='value']); Android
// candidates use XPath attribute predicates.
func Candidates(platform string, e *pagesource.Element) []string {
	if platform == "ios" {
		return iosClassChainCandidates(e)
	}
	return androidCandidates(e)
}

func iosClassChainCandidates(e *pagesource.Element) []string {
	var candidates []string
	name := e.Attr("name")
	label := e.Attr("label")
	value := e.Attr("value")

	if name != "" {
		candidates = append(candidates, fmt.Sprintf("**/%s[@name='%s']", e.Tag, name))
	}
	if label != "" && (name == "" || label != name) {
		candidates = append(candidates, fmt.Sprintf("**/%s[@label='%s']", e.Tag, label))
	}
	if value != "" {
		candidates = append(candidates, fmt.Sprintf("**/%s[@value='%s']", e.Tag, value))
	}
	if name != "" && label != "" {
		candidates = append(candidates, fmt.Sprintf("**/%s[@name='%s' and @label='%s']", e.Tag, name, label))
	}
	return candidates
}

func androidCandidates(e *pagesource.Element) []string {
	var candidates []string
	if id := e.Attr("resource-id"); id != "" {
		candidates = append(candidates, fmt.Sprintf("//%s[@resource-id='%s']", e.Tag, id))
	}
	if text := e.Attr("text"); text != "" {
		candidates = append(candidates, fmt.Sprintf("//%s[@text='%s']", e.Tag, text))
	}
	if desc := e.Attr("content-desc"); desc != "" {
		candidates = append(candidates, fmt.Sprintf("//%s[@content-desc='%s']", e.Tag, desc))
	}
	return candidates
}
