// Package course extracts the sections of a course page document.
package course

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/contentgen/internal/doctree"
	"github.com/dgallion1/contentgen/internal/dom"
	"github.com/dgallion1/contentgen/internal/faq"
	"github.com/dgallion1/contentgen/internal/section"
	"github.com/dgallion1/contentgen/internal/syllabus"
)

const minIntroLen = 20

// Course is the extracted model of one course document.
type Course struct {
	Title           string            `json:"title"`
	Overview        string            `json:"overview,omitempty"`         // HTML
	ObjectivesIntro string            `json:"objectives_intro,omitempty"` // HTML
	Objectives      []string          `json:"objectives,omitempty"`       // item HTML
	Modules         []doctree.Module  `json:"modules,omitempty"`
	FAQ             []doctree.FAQPair `json:"faq,omitempty"`
}

// Extract pulls every course section out of the top-level elements. Missing
// sections leave their fields empty.
func Extract(elements []dom.Element, title string) Course {
	c := Course{Title: title}

	if r, ok := section.Overview(elements); ok {
		c.Overview = outerHTML(r.Body(elements))
	}
	if r, ok := section.Objectives(elements); ok {
		c.ObjectivesIntro, c.Objectives = objectives(r.Body(elements))
	}
	if r, ok := section.Syllabus(elements); ok {
		c.Modules = syllabus.Extract(elements, r, title)
	}
	if r, ok := faq.FindSection(elements); ok {
		c.FAQ = faq.Extract(elements, r)
	}
	return c
}

// LessonCount is the number of lessons across all modules.
func (c Course) LessonCount() int {
	return doctree.LessonCount(c.Modules)
}

func outerHTML(elements []dom.Element) string {
	var b strings.Builder
	for _, e := range elements {
		b.WriteString(e.OuterHTML)
	}
	return b.String()
}

// objectives takes the first substantial paragraph as the intro and every
// list item in the section as an objective.
func objectives(body []dom.Element) (intro string, items []string) {
	for _, e := range body {
		if e.Text == "" {
			continue
		}
		if e.IsHeading() && strings.Contains(e.Lower(), "objectives") {
			continue
		}

		switch dom.Classify(e) {
		case dom.KindParagraph:
			if intro == "" && utf8.RuneCountInString(e.Text) > minIntroLen {
				intro = e.InnerHTML
			}
		case dom.KindList:
			for _, li := range e.Find("li") {
				if li.InnerHTML != "" {
					items = append(items, li.InnerHTML)
				}
			}
		case dom.KindListItem:
			items = append(items, e.InnerHTML)
		}
	}
	return intro, items
}
