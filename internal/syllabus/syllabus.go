// Package syllabus rebuilds the module → lesson → item hierarchy of a course
// syllabus from flat document elements.
package syllabus

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/contentgen/internal/doctree"
	"github.com/dgallion1/contentgen/internal/dom"
	"github.com/dgallion1/contentgen/internal/section"
)

var (
	moduleNumberRe = regexp.MustCompile(`(?i)module\s*(\d+)`)
	lessonNumberRe = regexp.MustCompile(`(?i)lesson\s*(\d+)`)

	// lessonMentionRe finds "Lesson 3:" anywhere in a line; several of them
	// in one paragraph are split into separate lessons.
	lessonMentionRe = regexp.MustCompile(`(?i)lesson\s*\d+\s*:`)
	numberedItemRe  = regexp.MustCompile(`^\d+\.`)
)

const (
	// minImplicitLesson is the shortest list item that opens a lesson when a
	// module has none yet.
	minImplicitLesson = 10
	// minDescription is the shortest paragraph taken as a late module
	// description.
	minDescription = 20
	// maxLessonHeading bounds h3/h4 lesson titles in the fallback scan.
	maxLessonHeading = 100
	implicitTitleLen = 50
)

// DefaultModuleTitle names the module synthesized when lessons appear
// without a module marker.
func DefaultModuleTitle(courseTitle string) string {
	if courseTitle == "" {
		courseTitle = "Course"
	}
	return courseTitle + " Content"
}

// Extract builds modules from the body of r. When the marker scan finds no
// module at all but the section has content, a direct lesson scan collects
// lessons into a single synthetic module. Lessons and modules are sorted by
// their leading number; unnumbered entries keep document order after the
// numbered ones.
func Extract(elements []dom.Element, r section.Range, courseTitle string) []doctree.Module {
	body := r.Body(elements)

	b := &builder{courseTitle: courseTitle, lesson: -1}
	b.scan(body)
	modules := b.finish()

	if len(modules) == 0 && len(body) > 0 {
		modules = extractDirect(body, courseTitle)
	}
	return Sort(modules)
}

type builder struct {
	courseTitle string
	modules     []doctree.Module
	cur         *doctree.Module
	lesson      int // index into cur.Lessons, -1 when none is open
}

func (b *builder) scan(body []dom.Element) {
	consumed := make(map[int]bool)

	for i, e := range body {
		if e.Text == "" || consumed[i] {
			continue
		}
		if e.IsHeading() && section.SyllabusHeading(e) && !isMarker(e.Text) {
			continue
		}
		if strings.Contains(e.Lower(), "course objectives") {
			continue
		}

		switch dom.Classify(e) {
		case dom.KindList:
			b.list(e)
			continue
		case dom.KindListItem:
			b.item(e)
			continue
		}

		switch {
		case section.ModuleMarker.MatchString(e.Text):
			b.openModule(e.Text)
			if j, desc, ok := describe(body, i); ok {
				b.cur.Description = desc
				consumed[j] = true
			}
		case isLesson(e.Text):
			b.lessonLine(e.Text)
		case e.Tag == "p" && b.cur != nil && b.cur.Description == "" &&
			utf8.RuneCountInString(e.Text) > minDescription:
			b.cur.Description = e.Text
		}
	}
}

// describe looks at the one or two elements after a module marker for a
// paragraph that can serve as the module description.
func describe(body []dom.Element, at int) (int, string, bool) {
	for j := at + 1; j < len(body) && j <= at+2; j++ {
		next := body[j]
		if strings.Contains(next.Lower(), "final examination") {
			return 0, "", false
		}
		if next.Tag == "p" && next.Text != "" && !isMarker(next.Text) {
			return j, next.Text, true
		}
	}
	return 0, "", false
}

func (b *builder) list(e dom.Element) {
	for _, li := range e.Children {
		if li.Tag == "li" {
			b.item(li)
		}
	}
}

// item handles one list item. Marker items restructure the tree and their
// nested lists are walked; anything else is content of the open lesson. A
// lesson marker item met while a lesson is open is dropped, and only its
// nested list items reach the open lesson.
func (b *builder) item(li dom.Element) {
	own := li.OwnText
	switch {
	case section.ModuleMarker.MatchString(own):
		b.openModule(own)
		b.nested(li)
	case isLesson(own) && b.lesson >= 0:
		b.nested(li)
	case isLesson(own):
		b.openLesson(own)
		b.nested(li)
	default:
		b.addItem(li)
	}
}

func (b *builder) nested(li dom.Element) {
	for _, c := range li.Children {
		if c.Tag == "ul" || c.Tag == "ol" {
			b.list(c)
		}
	}
}

func (b *builder) addItem(li dom.Element) {
	html := strings.TrimSpace(li.InnerHTML)
	if html == "" {
		return
	}
	if b.cur != nil && b.lesson >= 0 {
		l := &b.cur.Lessons[b.lesson]
		l.Items = append(l.Items, html)
		return
	}
	if b.cur != nil && utf8.RuneCountInString(li.Text) > minImplicitLesson {
		title := fmt.Sprintf("Lesson %d: %s", len(b.cur.Lessons)+1, truncate(li.Text, implicitTitleLen))
		b.cur.Lessons = append(b.cur.Lessons, doctree.Lesson{Title: title, Items: []string{html}})
		b.lesson = len(b.cur.Lessons) - 1
	}
}

// lessonLine opens one lesson per "Lesson N:" segment of text; the last one
// stays open for the items that follow.
func (b *builder) lessonLine(text string) {
	for _, seg := range SplitLessonSegments(text) {
		b.openLesson(seg)
	}
}

func (b *builder) openModule(title string) {
	b.closeModule()
	b.cur = &doctree.Module{Title: title}
	b.lesson = -1
}

func (b *builder) closeModule() {
	if b.cur != nil {
		b.modules = append(b.modules, *b.cur)
	}
	b.cur = nil
	b.lesson = -1
}

// openLesson starts a lesson in the current module, synthesizing a module
// when none is open. A title already present in the module reopens that
// lesson instead, so lesson summary lists do not produce duplicates.
func (b *builder) openLesson(title string) {
	if b.cur == nil {
		b.cur = &doctree.Module{Title: DefaultModuleTitle(b.courseTitle), Synthetic: true}
	}
	for k, l := range b.cur.Lessons {
		if strings.EqualFold(l.Title, title) {
			b.lesson = k
			return
		}
	}
	b.cur.Lessons = append(b.cur.Lessons, doctree.Lesson{Title: title})
	b.lesson = len(b.cur.Lessons) - 1
}

func (b *builder) finish() []doctree.Module {
	b.closeModule()
	return b.modules
}

// extractDirect is the fallback for syllabi without module markers: lesson
// markers, numbered paragraphs and short h3/h4 headings each open a lesson
// and following list items fill it.
func extractDirect(body []dom.Element, courseTitle string) []doctree.Module {
	m := doctree.Module{Title: DefaultModuleTitle(courseTitle), Synthetic: true}
	cur := -1

	for _, e := range body {
		if e.Text == "" {
			continue
		}
		if e.IsHeading() && section.SyllabusHeading(e) {
			continue
		}

		tag := e.Tag
		switch {
		case isLesson(e.Text),
			tag == "p" && numberedItemRe.MatchString(e.Text),
			(tag == "h3" || tag == "h4") && utf8.RuneCountInString(e.Text) < maxLessonHeading:
			m.Lessons = append(m.Lessons, doctree.Lesson{Title: e.OwnText})
			cur = len(m.Lessons) - 1
			for _, list := range e.Find("ul", "ol") {
				m.Lessons[cur].Items = append(m.Lessons[cur].Items, listItems(list)...)
			}
		case cur >= 0 && (tag == "ul" || tag == "ol"):
			m.Lessons[cur].Items = append(m.Lessons[cur].Items, listItems(e)...)
		case cur >= 0 && tag == "li" && !isLesson(e.Text):
			m.Lessons[cur].Items = append(m.Lessons[cur].Items, strings.TrimSpace(e.InnerHTML))
		}
	}

	if len(m.Lessons) == 0 {
		return nil
	}
	return []doctree.Module{m}
}

func listItems(list dom.Element) []string {
	var out []string
	for _, li := range list.Find("li") {
		if li.Text == "" || isLesson(li.Text) {
			continue
		}
		out = append(out, strings.TrimSpace(li.InnerHTML))
	}
	return out
}

// SplitLessonSegments splits "Lesson 1: A Lesson 2: B" into one string per
// lesson. Text without such a marker comes back unchanged as one segment.
func SplitLessonSegments(text string) []string {
	idx := lessonMentionRe.FindAllStringIndex(text, -1)
	if len(idx) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	segments := make([]string, 0, len(idx))
	for k, loc := range idx {
		end := len(text)
		if k+1 < len(idx) {
			end = idx[k+1][0]
		}
		if seg := strings.TrimSpace(text[loc[0]:end]); seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

func isLesson(text string) bool {
	return section.LessonMarker.MatchString(text) || lessonMentionRe.MatchString(text)
}

func isMarker(text string) bool {
	return section.ModuleMarker.MatchString(text) || isLesson(text)
}

// ModuleNumber extracts N from "Module N".
func ModuleNumber(title string) (int, bool) {
	return leadingNumber(moduleNumberRe, title)
}

// LessonNumber extracts N from "Lesson N".
func LessonNumber(title string) (int, bool) {
	return leadingNumber(lessonNumberRe, title)
}

func leadingNumber(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
