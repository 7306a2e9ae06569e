package domfallback

import (
	"context"
	"errors"
	"strings"

	"toolgen/internal/application/port/output"
	"toolgen/internal/domain/entity"

	"golang.org/x/net/html"
)

const (
	method = "dom-heuristic"

	// Fixed confidence for structural detection without visual evidence.
	detectionConfidence = 0.6
)

var _ output.Detector = (*Detector)(nil)

// Detector is the secondary backend: it recognizes interactive elements by
// parsing the captured page HTML instead of looking at pixels.
type Detector struct{}

func New() *Detector {
	return &Detector{}
}

func (d *Detector) Name() string { return method }

func (d *Detector) Detect(_ context.Context, _ *entity.Screenshot, page *entity.PageContext) (*entity.Detection, error) {
	if page == nil || page.HTML == "" {
		return nil, errors.New("no page context available")
	}

	doc, err := html.Parse(strings.NewReader(page.HTML))
	if err != nil {
		return nil, err
	}

	var elements []entity.DetectedElement
	walk(doc, &elements)

	return &entity.Detection{
		Method:     method,
		Confidence: detectionConfidence,
		Elements:   elements,
	}, nil
}

func walk(n *html.Node, out *[]entity.DetectedElement) {
	if n.Type == html.ElementNode {
		if typ, ok := elementType(n); ok {
			*out = append(*out, entity.DetectedElement{
				Type:       typ,
				Label:      label(n),
				Confidence: detectionConfidence,
			})
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, out)
	}
}

func elementType(n *html.Node) (string, bool) {
	switch n.Data {
	case "button":
		return "button", true
	case "a":
		return "link", true
	case "input":
		if attr(n, "type") == "password" {
			return "login_form", true
		}
		return "input", true
	case "textarea", "select":
		return "input", true
	case "nav":
		return "nav", true
	}
	if attr(n, "role") == "button" {
		return "button", true
	}
	return "", false
}

func label(n *html.Node) string {
	if v := attr(n, "aria-label"); v != "" {
		return v
	}
	if v := attr(n, "placeholder"); v != "" {
		return v
	}
	return strings.TrimSpace(text(n))
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func text(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(text(c))
	}
	return sb.String()
}
