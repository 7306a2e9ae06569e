package mapper

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"toolgen/internal/application/port/output"
	"toolgen/internal/domain/entity"
)

const maxTextLen = 100

// Mapper enumerates the page's interactive elements, builds normalized
// descriptors and classifies each one into exactly one category.
type Mapper struct {
	logger output.LoggerPort
}

func New(logger output.LoggerPort) *Mapper {
	return &Mapper{logger: logger}
}

// MapElements runs the in-page extractor and classifies every surviving
// element. Extraction failure is fatal to the run; individual anomalies
// (zero-area nodes) are discarded silently.
func (m *Mapper) MapElements(ctx context.Context, session output.SessionPort) (*entity.CategorizedElements, error) {
	raw, err := session.ExtractElements(ctx)
	if err != nil {
		m.logger.Error("element extraction failed", "error", err)
		return nil, fmt.Errorf("extract elements: %w", err)
	}

	set := &entity.CategorizedElements{}
	for _, r := range raw {
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		desc := describe(r)
		desc.Category = classify(desc)
		set.Add(desc)
	}

	m.logger.Info("interface mapped",
		"total", set.Total(),
		"auth", len(set.Authentication),
		"navigation", len(set.Navigation),
		"forms", len(set.Forms),
		"actions", len(set.Actions),
		"content", len(set.Content),
		"score", set.AutomationPotential())
	return set, nil
}

func describe(r entity.RawElement) entity.ElementDescriptor {
	// Truncation counts runes, not bytes, so multibyte text stays valid UTF-8.
	text := strings.TrimSpace(r.Text)
	if utf8.RuneCountInString(text) > maxTextLen {
		text = string([]rune(text)[:maxTextLen])
	}

	tag := strings.ToLower(r.Tag)
	return entity.ElementDescriptor{
		Tag:         tag,
		Text:        text,
		Placeholder: r.Placeholder,
		Value:       r.Value,
		Href:        r.Href,
		Rect:        entity.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		Attrs: entity.ElementAttributes{
			ID:        r.ID,
			Classes:   r.Classes,
			Role:      r.Role,
			AriaLabel: r.AriaLabel,
			TestID:    r.TestID,
			Name:      r.Name,
			Type:      r.Type,
		},
		Selector:    Selector(r),
		IsVisible:   true,
		IsClickable: isClickable(tag, r),
	}
}

// Selector is best-effort and not guaranteed unique: downstream tools
// re-resolve it at execution time instead of caching DOM references.
func Selector(r entity.RawElement) string {
	if r.ID != "" {
		return "#" + r.ID
	}
	tag := strings.ToLower(r.Tag)
	if len(r.Classes) > 0 {
		return tag + "." + strings.Join(r.Classes, ".")
	}
	return tag
}

func isClickable(tag string, r entity.RawElement) bool {
	return tag == "button" || tag == "a" || r.HasOnClick || r.Role == "button"
}

var authKeywords = []string{"login", "signin", "password", "email", "signup", "register", "auth"}

var navKeywords = []string{"home", "menu", "nav", "about", "contact", "docs", "dashboard", "settings", "next", "back"}

var actionKeywords = []string{"create", "generate", "submit", "save", "delete", "edit", "update"}

// classify tests the category predicates in fixed precedence order; the
// first match wins, which guarantees the partition invariant.
func classify(d entity.ElementDescriptor) entity.Category {
	if isAuthentication(d) {
		return entity.CategoryAuthentication
	}
	if isNavigation(d) {
		return entity.CategoryNavigation
	}
	if d.Tag == "input" || d.Tag == "textarea" || d.Tag == "select" {
		return entity.CategoryForms
	}
	if isAction(d) {
		return entity.CategoryActions
	}
	return entity.CategoryContent
}

func isAuthentication(d entity.ElementDescriptor) bool {
	if strings.EqualFold(d.Attrs.Type, "password") {
		return true
	}
	haystack := strings.ToLower(d.Text + " " + d.Placeholder + " " + d.Attrs.ID + " " + strings.Join(d.Attrs.Classes, " "))
	// "Sign In" should match "signin"; compare a space-stripped copy too.
	return containsAny(haystack, authKeywords) ||
		containsAny(strings.ReplaceAll(haystack, " ", ""), authKeywords)
}

func isNavigation(d entity.ElementDescriptor) bool {
	if d.Tag == "a" {
		return true
	}
	haystack := strings.ToLower(d.Text + " " + d.Href + " " + strings.Join(d.Attrs.Classes, " "))
	return containsAny(haystack, navKeywords)
}

func isAction(d entity.ElementDescriptor) bool {
	if d.Tag == "button" {
		return true
	}
	haystack := strings.ToLower(d.Text + " " + d.Attrs.AriaLabel)
	return containsAny(haystack, actionKeywords)
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
