// Package section finds contiguous runs of top-level elements that belong to
// one logical part of a document (overview, objectives, syllabus, FAQ).
package section

import (
	"regexp"
	"strings"

	"github.com/dgallion1/contentgen/internal/dom"
)

// Range is a half-open index range into a top-level element sequence.
// Start is the marker element itself.
type Range struct {
	Start int
	End   int
}

// Whole covers all n elements as a section without a marker element.
func Whole(n int) Range {
	return Range{Start: -1, End: n}
}

// Body returns the elements after the marker, up to End.
func (r Range) Body(elements []dom.Element) []dom.Element {
	if r.Start < -1 || r.Start+1 >= r.End || r.End > len(elements) {
		return nil
	}
	return elements[r.Start+1 : r.End]
}

// Len is the number of elements after the marker.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start - 1
}

// Matcher reports whether an element is a boundary marker.
type Matcher func(e dom.Element) bool

// Contains matches when the lowercased text contains any of subs.
func Contains(subs ...string) Matcher {
	return func(e dom.Element) bool {
		lower := e.Lower()
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return true
			}
		}
		return false
	}
}

// Prefix matches when the lowercased text starts with any of prefixes.
func Prefix(prefixes ...string) Matcher {
	return func(e dom.Element) bool {
		lower := e.Lower()
		for _, p := range prefixes {
			if strings.HasPrefix(lower, p) {
				return true
			}
		}
		return false
	}
}

// Pattern matches the lowercased text against re.
func Pattern(re *regexp.Regexp) Matcher {
	return func(e dom.Element) bool {
		return re.MatchString(e.Lower())
	}
}

// Heading restricts m to h1..h6 elements.
func Heading(m Matcher) Matcher {
	return func(e dom.Element) bool {
		return e.IsHeading() && m(e)
	}
}

// Not inverts m.
func Not(m Matcher) Matcher {
	return func(e dom.Element) bool { return !m(e) }
}

// All matches when every matcher does.
func All(ms ...Matcher) Matcher {
	return func(e dom.Element) bool {
		for _, m := range ms {
			if !m(e) {
				return false
			}
		}
		return true
	}
}

func matchAny(ms []Matcher, e dom.Element) bool {
	for _, m := range ms {
		if m(e) {
			return true
		}
	}
	return false
}

// Detector describes how one kind of section starts and ends.
type Detector struct {
	Start []Matcher
	Stop  []Matcher

	// StopAtHeadingLevel ends the section at any heading of this level or
	// higher (h1 is highest). Zero disables the rule.
	StopAtHeadingLevel int
	// StopAtSameLevel ends the section at a heading whose level is the same
	// as or higher than the start marker's. Ignored when the marker is not a
	// heading.
	StopAtSameLevel bool
	// Continuation headings never end the section.
	Continuation []Matcher
	// HeadingGrace ignores heading boundaries this many elements after the
	// start marker.
	HeadingGrace int
}

// Find scans elements from index from. The first element matching Start
// opens the section; the first later element matching Stop, or a heading
// boundary, closes it. A missing stop closes the section at len(elements).
func (d Detector) Find(elements []dom.Element, from int) (Range, bool) {
	if from < 0 {
		from = 0
	}
	start := -1
	for i := from; i < len(elements); i++ {
		if matchAny(d.Start, elements[i]) {
			start = i
			break
		}
	}
	if start < 0 {
		return Range{}, false
	}

	startLevel := elements[start].HeadingLevel()
	for i := start + 1; i < len(elements); i++ {
		el := elements[i]
		if matchAny(d.Stop, el) || d.headingBoundary(el, i-start, startLevel) {
			return Range{Start: start, End: i}, true
		}
	}
	return Range{Start: start, End: len(elements)}, true
}

func (d Detector) headingBoundary(el dom.Element, offset, startLevel int) bool {
	level := el.HeadingLevel()
	if level == 0 || offset <= d.HeadingGrace || matchAny(d.Continuation, el) {
		return false
	}
	if d.StopAtHeadingLevel > 0 && level <= d.StopAtHeadingLevel {
		return true
	}
	return d.StopAtSameLevel && startLevel > 0 && level <= startLevel
}

// FindSection is the plain form of Detector.Find: start and stop markers are
// matched with contains semantics against the lowercased text.
func FindSection(elements []dom.Element, startMarkers, stopMarkers []string, from int) (Range, bool) {
	d := Detector{Start: []Matcher{Contains(lowerAll(startMarkers)...)}}
	if len(stopMarkers) > 0 {
		d.Stop = []Matcher{Contains(lowerAll(stopMarkers)...)}
	}
	return d.Find(elements, from)
}

func lowerAll(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
