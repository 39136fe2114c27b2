package section

import (
	"regexp"

	"github.com/dgallion1/contentgen/internal/dom"
)

// MetaMarkers open the trailing SEO block of a blog draft. Everything from
// the first element starting with one of them is discarded.
var MetaMarkers = []string{"meta description", "meta title", "slug", "category", "relevant courses"}

// Meta matches a meta information line.
var Meta = Prefix(MetaMarkers...)

var (
	// ModuleMarker matches "Module 3: ...", "MODULE 2", "Module B" and
	// "Module IV" at the start of a line. Letter and Roman numeral labels
	// must be uppercase and end the line or be followed by punctuation, so
	// prose such as "Module civil engineering" is not a marker.
	ModuleMarker = regexp.MustCompile(`^(?i:module)(?:\s*\d+|\s+(?:[A-Z]|[IVXLC]+)\s*(?:[:.)\-]|$))`)
	// LessonMarker is the lesson counterpart of ModuleMarker.
	LessonMarker = regexp.MustCompile(`^(?i:lesson)(?:\s*\d+|\s+(?:[A-Z]|[IVXLC]+)\s*(?:[:.)\-]|$))`)

	objectivesNumbered = regexp.MustCompile(`^\d+\.\d*\s*.*objectives`)
)

// Marker matches text against a hierarchy marker regexp.
func Marker(re *regexp.Regexp) Matcher {
	return func(e dom.Element) bool { return re.MatchString(e.Text) }
}

var overviewStart = []Matcher{Contains("overview")}

// Overview finds the overview section. It ends at the objectives marker, or
// at the syllabus marker when the document has no objectives.
func Overview(elements []dom.Element) (Range, bool) {
	r, ok := Detector{
		Start: overviewStart,
		Stop:  []Matcher{Contains("course objectives"), Prefix("1.2")},
	}.Find(elements, 0)
	if !ok || r.End < len(elements) {
		return r, ok
	}
	return Detector{
		Start: overviewStart,
		Stop:  []Matcher{Contains("syllabus")},
	}.Find(elements, 0)
}

var objectivesDetector = Detector{
	Start: []Matcher{
		Contains("course objectives", "learning objectives"),
		Heading(Contains("objectives")),
		Pattern(objectivesNumbered),
	},
	Stop: []Matcher{
		Contains("syllabus", "course content", "faq", "frequently asked"),
		Prefix("1.3"),
	},
	StopAtHeadingLevel: 3,
	Continuation:       []Matcher{Contains("objectives")},
}

// Objectives finds the course objectives section.
func Objectives(elements []dom.Element) (Range, bool) {
	return objectivesDetector.Find(elements, 0)
}

// SyllabusHeading matches the words that open a syllabus section.
var SyllabusHeading = Contains("course content", "syllabus", "lessons", "modules")

var syllabusDetector = Detector{
	Start: []Matcher{All(SyllabusHeading, Not(Contains("course objectives")))},
	Stop:  []Matcher{Contains("final examination", "faq", "frequently asked questions")},

	StopAtHeadingLevel: 3,
	HeadingGrace:       2,
	Continuation: []Matcher{
		Marker(ModuleMarker),
		Marker(LessonMarker),
		Contains("lesson"),
	},
}

// Syllabus finds the syllabus section. The search starts after the
// objectives section so a "Modules" mention inside the objectives is not
// taken for the syllabus heading.
func Syllabus(elements []dom.Element) (Range, bool) {
	from := 0
	if r, ok := Objectives(elements); ok {
		from = r.End
	}
	return syllabusDetector.Find(elements, from)
}

// FAQHeading matches an FAQ section heading.
var FAQHeading = Heading(Contains("faq", "frequently asked questions", "questions and answers"))

var faqDetector = Detector{
	Start:           []Matcher{FAQHeading},
	Stop:            []Matcher{Meta, Contains("for online course page:")},
	StopAtSameLevel: true,
}

// FAQ finds the FAQ section: from the FAQ heading to the next heading of the
// same or a higher level, a meta line, or the course-page footer marker.
func FAQ(elements []dom.Element) (Range, bool) {
	return faqDetector.Find(elements, 0)
}
