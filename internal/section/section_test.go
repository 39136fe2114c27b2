package section

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/contentgen/internal/dom"
)

func parse(t *testing.T, fragment string) []dom.Element {
	t.Helper()
	els, err := dom.Parse(fragment)
	require.NoError(t, err)
	return els
}

func TestFindSection(t *testing.T) {
	els := parse(t, `<p>intro</p><h2>Overview</h2><p>a</p><p>b</p><h2>Course Objectives</h2><p>c</p>`)

	r, ok := FindSection(els, []string{"Overview"}, []string{"course objectives"}, 0)
	require.True(t, ok)
	assert.Equal(t, Range{Start: 1, End: 4}, r)
	assert.Equal(t, 2, r.Len())

	body := r.Body(els)
	require.Len(t, body, 2)
	assert.Equal(t, "a", body[0].Text)
}

func TestFindSection_MissingStopRunsToEnd(t *testing.T) {
	els := parse(t, `<h2>FAQ</h2><p>one</p><p>two</p>`)

	r, ok := FindSection(els, []string{"faq"}, []string{"meta description"}, 0)
	require.True(t, ok)
	assert.Equal(t, len(els), r.End)
}

func TestFindSection_NotFound(t *testing.T) {
	els := parse(t, `<p>nothing here</p>`)

	_, ok := FindSection(els, []string{"faq"}, nil, 0)
	assert.False(t, ok)
}

func TestFindSection_FromIndex(t *testing.T) {
	els := parse(t, `<p>Syllabus mention</p><p>x</p><h2>Syllabus</h2><p>y</p>`)

	r, ok := FindSection(els, []string{"syllabus"}, nil, 1)
	require.True(t, ok)
	assert.Equal(t, 2, r.Start)
}

func TestDetector_FirstStopWins(t *testing.T) {
	els := parse(t, `<h2>Start</h2><p>stop a</p><p>stop b</p>`)

	d := Detector{Start: []Matcher{Contains("start")}, Stop: []Matcher{Prefix("stop")}}
	r, ok := d.Find(els, 0)
	require.True(t, ok)
	assert.Equal(t, 1, r.End)
}

func TestDetector_HeadingBoundary(t *testing.T) {
	els := parse(t, `<h2>Syllabus</h2><h3>Module 1: Basics</h3><p>x</p><h3>Module 2: More</h3><p>y</p><h2>Final words</h2>`)

	r, ok := Syllabus(els)
	require.True(t, ok)
	assert.Equal(t, 0, r.Start)
	assert.Equal(t, 5, r.End, "module headings continue the section")
}

func TestOverview(t *testing.T) {
	t.Run("stops at objectives", func(t *testing.T) {
		els := parse(t, `<h2>Course Overview</h2><p>About.</p><h2>Course Objectives</h2><ul><li>x</li></ul>`)
		r, ok := Overview(els)
		require.True(t, ok)
		assert.Equal(t, Range{Start: 0, End: 2}, r)
	})

	t.Run("falls back to syllabus", func(t *testing.T) {
		els := parse(t, `<h2>Overview</h2><p>About.</p><p>More.</p><h2>Syllabus</h2>`)
		r, ok := Overview(els)
		require.True(t, ok)
		assert.Equal(t, Range{Start: 0, End: 3}, r)
	})
}

func TestObjectives(t *testing.T) {
	els := parse(t, `<h2>Overview</h2><p>text</p>`+
		`<h2>Course Objectives</h2><p>After this course you will be able to:</p><ul><li>a</li></ul>`+
		`<h3>More objectives</h3><ul><li>b</li></ul>`+
		`<h2>Syllabus</h2>`)

	r, ok := Objectives(els)
	require.True(t, ok)
	assert.Equal(t, Range{Start: 2, End: 7}, r)
}

func TestSyllabus_StartsAfterObjectives(t *testing.T) {
	els := parse(t, `<h2>Course Objectives</h2><p>Complete all modules to pass</p>`+
		`<h2>Course Content</h2><p>Lesson 1: Intro</p><h4>FAQ</h4>`)

	r, ok := Syllabus(els)
	require.True(t, ok)
	assert.Equal(t, Range{Start: 2, End: 4}, r)
}

func TestFAQ(t *testing.T) {
	els := parse(t, `<h1>Post</h1><h2>FAQs</h2><h3>What is it?</h3><p>A thing.</p><h2>Next</h2><p>x</p>`)

	r, ok := FAQ(els)
	require.True(t, ok)
	assert.Equal(t, Range{Start: 1, End: 4}, r)
}

func TestFAQ_StopsAtMeta(t *testing.T) {
	els := parse(t, `<h2>Frequently Asked Questions</h2><p>Why?</p><p>Because.</p><p>Meta Description: x</p>`)

	r, ok := FAQ(els)
	require.True(t, ok)
	assert.Equal(t, 3, r.End)
}

func TestMarkers(t *testing.T) {
	tests := []struct {
		text   string
		module bool
		lesson bool
	}{
		{"Module 3: Hazards", true, false},
		{"MODULE 2", true, false},
		{"Module B", true, false},
		{"Module IV: Review", true, false},
		{"Modules overview", false, false},
		{"Lesson 1: Intro", false, true},
		{"Lesson A", false, true},
		{"Lessons learned", false, false},
		{"Module civil engineering is covered in detail", false, false},
		{"module ill effects", false, false},
		{"Lesson vic and more", false, false},
		{"Module C - Storage", true, false},
		{"Lesson II.", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.module, ModuleMarker.MatchString(tt.text))
			assert.Equal(t, tt.lesson, LessonMarker.MatchString(tt.text))
		})
	}
}
