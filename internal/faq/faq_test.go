package faq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/contentgen/internal/doctree"
	"github.com/dgallion1/contentgen/internal/dom"
	"github.com/dgallion1/contentgen/internal/section"
)

func parse(t *testing.T, fragment string) []dom.Element {
	t.Helper()
	els, err := dom.Parse(fragment)
	require.NoError(t, err)
	return els
}

func TestExtract_SameElementAnswer(t *testing.T) {
	els := parse(t, `<p>1. What is X? It is Y and Z.</p>`)

	pairs := Extract(els, section.Whole(len(els)))
	assert.Equal(t, []doctree.FAQPair{{Question: "What is X?", Answer: "It is Y and Z."}}, pairs)
}

func TestExtract_AccumulatesMarkup(t *testing.T) {
	els := parse(t, `<h2>FAQ</h2>`+
		`<p><strong>What is a permit?</strong></p>`+
		`<p>A: A written approval.</p>`+
		`<ul><li>Issued daily</li></ul>`+
		`<p><strong>Who signs it?</strong></p>`+
		`<p>The supervisor.</p>`+
		`<h2>Related</h2><p>Ignored?</p>`)

	r, ok := FindSection(els)
	require.True(t, ok)

	pairs := Extract(els, r)
	require.Len(t, pairs, 2)
	assert.Equal(t, "What is a permit?", pairs[0].Question)
	assert.Equal(t, "<p>A written approval.</p> <ul><li>Issued daily</li></ul>", pairs[0].Answer)
	assert.Equal(t, "Who signs it?", pairs[1].Question)
	assert.Equal(t, "<p>The supervisor.</p>", pairs[1].Answer)
}

func TestExtract_KeepsPreformattedAnswer(t *testing.T) {
	els := parse(t, "<p>How do I list files?</p><pre>ls  -la\n  /tmp</pre>")

	pairs := Extract(els, section.Whole(len(els)))
	require.Len(t, pairs, 1)
	assert.Equal(t, "<pre>ls  -la\n  /tmp</pre>", pairs[0].Answer)
}

func TestCleanAnswer(t *testing.T) {
	assert.Equal(t, "<p>Yes.</p>", CleanAnswer("  <p>Answer: Yes.</p> "))
	assert.Equal(t, "Keep  two", CleanAnswer("A: Keep  two"))
}

func TestExtract_DropsUnansweredQuestions(t *testing.T) {
	els := parse(t, `<p>Is it safe?</p><p>Is it cheap?</p><p>Yes.</p>`)

	pairs := Extract(els, section.Whole(len(els)))
	assert.Equal(t, []doctree.FAQPair{{Question: "Is it cheap?", Answer: "<p>Yes.</p>"}}, pairs)
}

func TestExtract_NoDuplicateQuestions(t *testing.T) {
	els := parse(t, `<p>Q: Why?</p><p>Because.</p><p>Q: Why?</p><p>Again.</p>`)

	pairs := Extract(els, section.Whole(len(els)))
	require.Len(t, pairs, 1)
	assert.Equal(t, "<p>Because.</p>", pairs[0].Answer)
}

func TestExtract_StopsAtMeta(t *testing.T) {
	els := parse(t, `<p>Why?</p><p>Because.</p><p>Meta Title: x</p><p>More?</p><p>Hidden.</p>`)

	pairs := Extract(els, section.Whole(len(els)))
	require.Len(t, pairs, 1)
	assert.Equal(t, "Why?", pairs[0].Question)
}

func TestExtract_EveryPairComplete(t *testing.T) {
	els := parse(t, `<h3>Frequently Asked Questions</h3>`+
		`<p>1. How long is the course?</p><p>Eight hours.</p>`+
		`<p>2. Is there a test?</p>`+
		`<p>3. Can I pause? Yes, progress is saved.</p>`+
		`<p>Question 4: Do I get a card?</p><p>Answer: A wallet card ships in a week.</p>`)

	r, ok := FindSection(els)
	require.True(t, ok)

	pairs := Extract(els, r)
	require.Len(t, pairs, 3)

	seen := map[string]bool{}
	for _, p := range pairs {
		assert.NotEmpty(t, p.Question)
		assert.NotEmpty(t, dom.StripTags(p.Answer))
		assert.False(t, seen[p.Question], "duplicate %q", p.Question)
		seen[p.Question] = true
	}
	assert.Equal(t, "Can I pause?", pairs[1].Question)
	assert.Equal(t, "Yes, progress is saved.", pairs[1].Answer)
	assert.Equal(t, "Do I get a card?", pairs[2].Question)
	assert.Equal(t, "<p>A wallet card ships in a week.</p>", pairs[2].Answer)
}

func TestSplitQuestion(t *testing.T) {
	tests := []struct {
		in, question, inline string
	}{
		{"1. What is X? It is Y and Z.", "What is X?", "It is Y and Z."},
		{"Q3: How long does it take? - About two hours.", "How long does it take?", "About two hours."},
		{"Question 2:   Who   pays?", "Who pays?", ""},
		{"What next? A: Call us.", "What next?", "Call us."},
		{"5. Scheduling", "Scheduling", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			q, inline := SplitQuestion(tt.in)
			assert.Equal(t, tt.question, q)
			assert.Equal(t, tt.inline, inline)
		})
	}
}

func TestIsQuestion(t *testing.T) {
	tests := []struct {
		fragment string
		want     bool
	}{
		{`<p>1. Scheduling</p>`, true},
		{`<p><b>Cost</b> and what is included?</p>`, true},
		{`<p>Is it free?</p>`, true},
		{`<p>Q: Refunds</p>`, true},
		{`<p>It is free.</p>`, false},
		{`<p>Questions about the course are welcome.</p>`, false},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			els := parse(t, tt.fragment)
			require.Len(t, els, 1)
			assert.Equal(t, tt.want, IsQuestion(els[0]))
		})
	}
}
