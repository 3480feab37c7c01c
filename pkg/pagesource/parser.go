package pagesource

import (
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/devicelab-dev/pagescout/pkg/core"
)

// Parse parses page source XML into a snapshot tree.
// Auto-detects iOS vs Android format.
func Parse(xmlData string) (*Snapshot, error) {
	platform := DetectPlatform(xmlData)

	decoder := xml.NewDecoder(strings.NewReader(xmlData))

	var root *Element
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, core.ErrMalformedSource.WithCause(err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		if root != nil {
			return nil, core.ErrMalformedSource.WithMessage("page source has more than one root element")
		}

		root, err = parseElement(decoder, start, 0)
		if err != nil {
			return nil, core.ErrMalformedSource.WithCause(err)
		}
	}

	if root == nil {
		return nil, core.ErrMalformedSource.WithMessage("page source contains no elements")
	}

	return &Snapshot{Platform: platform, Root: root}, nil
}

// DetectPlatform detects iOS vs Android format by iOS-specific markers.
func DetectPlatform(xmlData string) string {
	if strings.Contains(xmlData, "XCUIElementType") || strings.Contains(xmlData, "AppiumAUT") {
		return "ios"
	}
	return "android"
}

// parseElement consumes tokens until the matching end element, building the
// subtree rooted at start.
func parseElement(decoder *xml.Decoder, start xml.StartElement, depth int) (*Element, error) {
	elem := &Element{
		Tag:   start.Name.Local,
		Attrs: make(map[string]string, len(start.Attr)),
		Depth: depth,
	}
	for _, attr := range start.Attr {
		elem.Attrs[attr.Name.Local] = attr.Value
	}
	elem.Bounds = parseElementBounds(elem.Attrs)

	for {
		token, err := decoder.Token()
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			child, err := parseElement(decoder, t, depth+1)
			if err != nil {
				return nil, err
			}
			child.Parent = elem
			elem.Children = append(elem.Children, child)

		case xml.EndElement:
			return elem, nil
		}
	}
}

// parseElementBounds extracts geometry from either format:
// Android carries a bounds="[x1,y1][x2,y2]" attribute, iOS carries
// separate x/y/width/height attributes.
func parseElementBounds(attrs map[string]string) core.Bounds {
	if b, ok := attrs["bounds"]; ok {
		return parseAndroidBounds(b)
	}

	var bounds core.Bounds
	if v, err := strconv.Atoi(attrs["x"]); err == nil {
		bounds.X = v
	}
	if v, err := strconv.Atoi(attrs["y"]); err == nil {
		bounds.Y = v
	}
	if v, err := strconv.Atoi(attrs["width"]); err == nil {
		bounds.Width = v
	}
	if v, err := strconv.Atoi(attrs["height"]); err == nil {
		bounds.Height = v
	}
	return bounds
}

// parseAndroidBounds parses the Android bounds string "[x1,y1][x2,y2]".
func parseAndroidBounds(s string) core.Bounds {
	s = strings.ReplaceAll(s, "][", ",")
	s = strings.Trim(s, "[]")
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return core.Bounds{}
	}

	x1, _ := strconv.Atoi(parts[0])
	y1, _ := strconv.Atoi(parts[1])
	x2, _ := strconv.Atoi(parts[2])
	y2, _ := strconv.Atoi(parts[3])

	return core.Bounds{
		X:      x1,
		Y:      y1,
		Width:  x2 - x1,
		Height: y2 - y1,
	}
}
