// Package dom materializes an HTML fragment into an immutable element
// snapshot so extraction passes never mutate the tree they walk.
package dom

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Element is a read-only view of one element node.
type Element struct {
	ID        int               // Pre-order index across the whole fragment
	Tag       string            // Lowercase tag name
	Attrs     map[string]string // nil when the element has no attributes
	Text      string            // Trimmed text content
	OwnText   string            // Trimmed text content excluding nested lists
	InnerHTML string
	OuterHTML string
	Children  []Element
}

// Parse snapshots the top-level elements of an HTML fragment. Top-level
// text nodes are dropped, matching how callers only look at element children.
func Parse(fragment string) ([]Element, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	var (
		out  []Element
		next int
	)
	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		out = append(out, build(s, &next))
	})
	return out, nil
}

func build(s *goquery.Selection, next *int) Element {
	n := s.Get(0)
	el := Element{
		ID:   *next,
		Tag:  strings.ToLower(n.Data),
		Text: strings.TrimSpace(s.Text()),
	}
	*next++

	if len(n.Attr) > 0 {
		el.Attrs = make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			el.Attrs[strings.ToLower(a.Key)] = a.Val
		}
	}

	el.OwnText = el.Text
	if s.Find("ul, ol").Length() > 0 {
		el.OwnText = strings.TrimSpace(s.Clone().Find("ul, ol").Remove().End().Text())
	}

	el.InnerHTML, _ = s.Html()
	el.InnerHTML = strings.TrimSpace(el.InnerHTML)
	el.OuterHTML, _ = goquery.OuterHtml(s)

	s.Children().Each(func(_ int, c *goquery.Selection) {
		el.Children = append(el.Children, build(c, next))
	})
	return el
}

// Attr returns an attribute value or "".
func (e Element) Attr(key string) string {
	return e.Attrs[key]
}

// HasAttr reports whether the attribute is present, even if empty.
func (e Element) HasAttr(key string) bool {
	_, ok := e.Attrs[key]
	return ok
}

// Lower returns the trimmed, lowercased text content.
func (e Element) Lower() string {
	return strings.ToLower(e.Text)
}

// HeadingLevel returns 1..6 for h1..h6 and 0 otherwise.
func (e Element) HeadingLevel() int {
	return HeadingLevel(e.Tag)
}

// IsHeading reports whether the element is h1..h6.
func (e Element) IsHeading() bool {
	return e.HeadingLevel() > 0
}

// Find returns descendants (not e itself) with one of the given tags, in
// document order.
func (e Element) Find(tags ...string) []Element {
	var out []Element
	for _, c := range e.Children {
		collect(c, tags, &out)
	}
	return out
}

// Contains reports whether any descendant has one of the given tags.
func (e Element) Contains(tags ...string) bool {
	for _, c := range e.Children {
		if c.is(tags) || c.Contains(tags...) {
			return true
		}
	}
	return false
}

func (e Element) is(tags []string) bool {
	for _, t := range tags {
		if e.Tag == t {
			return true
		}
	}
	return false
}

func collect(e Element, tags []string, out *[]Element) {
	if e.is(tags) {
		*out = append(*out, e)
	}
	for _, c := range e.Children {
		collect(c, tags, out)
	}
}

// Flatten returns every element in the sequence and all of their
// descendants in document (pre-order) order.
func Flatten(elements []Element) []Element {
	var out []Element
	var walk func(Element)
	walk = func(e Element) {
		out = append(out, e)
		for _, c := range e.Children {
			walk(c)
		}
	}
	for _, e := range elements {
		walk(e)
	}
	return out
}

// HeadingLevel maps a tag name to its heading level.
func HeadingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

// StripTags drops markup and decodes entities.
func StripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(tagRe.ReplaceAllString(s, "")))
}

var spaceRe = regexp.MustCompile(`\s+`)

// CollapseSpace replaces whitespace runs with a single space and trims.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}
