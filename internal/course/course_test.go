package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/contentgen/internal/doctree"
	"github.com/dgallion1/contentgen/internal/dom"
)

const forklift = `<h1>Forklift Safety</h1>
<h2>Course Overview</h2>
<p>This course teaches forklift operation.</p>
<h3>Who should attend</h3>
<p>Operators.</p>
<h2>Course Objectives</h2>
<p>After completing this course, you will be able to:</p>
<ul><li>Inspect a forklift</li><li>Load <em>safely</em></li></ul>
<h2>Course Syllabus</h2>
<h3>Module 1: Basics</h3>
<p>Lesson 1: Parts</p>
<ul><li>Mast</li></ul>
<h3>Module 2: Operation</h3>
<p>Lesson 2: Driving</p>
<h2>FAQ</h2>
<p>1. How long is it? About 4 hours.</p>
<p><strong>Is there a test?</strong></p>
<p>Yes, a final exam.</p>`

func TestExtract(t *testing.T) {
	els, err := dom.Parse(forklift)
	require.NoError(t, err)

	c := Extract(els, "Forklift Safety")

	assert.Equal(t, "Forklift Safety", c.Title)
	assert.Equal(t, `<p>This course teaches forklift operation.</p><h3>Who should attend</h3><p>Operators.</p>`, c.Overview)

	assert.Equal(t, "After completing this course, you will be able to:", c.ObjectivesIntro)
	assert.Equal(t, []string{"Inspect a forklift", "Load <em>safely</em>"}, c.Objectives)

	require.Len(t, c.Modules, 2)
	assert.Equal(t, "Module 1: Basics", c.Modules[0].Title)
	assert.Equal(t, []doctree.Lesson{{Title: "Lesson 1: Parts", Items: []string{"Mast"}}}, c.Modules[0].Lessons)
	assert.Equal(t, "Module 2: Operation", c.Modules[1].Title)
	assert.Equal(t, 2, c.LessonCount())

	assert.Equal(t, []doctree.FAQPair{
		{Question: "How long is it?", Answer: "About 4 hours."},
		{Question: "Is there a test?", Answer: "<p>Yes, a final exam.</p>"},
	}, c.FAQ)
}

func TestExtract_MissingSections(t *testing.T) {
	els, err := dom.Parse(`<p>Just a paragraph.</p>`)
	require.NoError(t, err)

	c := Extract(els, "Empty")
	assert.Empty(t, c.Overview)
	assert.Empty(t, c.Objectives)
	assert.Empty(t, c.Modules)
	assert.Empty(t, c.FAQ)
}
