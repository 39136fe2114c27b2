// Package faq pairs questions with answers inside an FAQ section.
package faq

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/contentgen/internal/doctree"
	"github.com/dgallion1/contentgen/internal/dom"
	"github.com/dgallion1/contentgen/internal/section"
)

// maxQuestionLen bounds the "ends with ?" rule so long paragraphs that
// happen to end in a question are kept as answers.
const maxQuestionLen = 200

var (
	numberedRe    = regexp.MustCompile(`^\d+\.\s+`)
	numberPrefix  = regexp.MustCompile(`^\d+\.\s*`)
	questionLabel = regexp.MustCompile(`(?i)^(?:q\d*|question\s*\d*)\s*[:.]\s*`)
	answerLabel   = regexp.MustCompile(`(?i)^(?:a|answer|ans)\s*[:)]\s*`)
	separators    = regexp.MustCompile(`^[\s:\-–—→•○]+`)

	// answerLabelHTML strips an answer label that follows any opening tags.
	answerLabelHTML = regexp.MustCompile(`(?i)^((?:\s*<[^/>][^>]*>)*)\s*(?:a|answer|ans)\s*[:)]\s*`)
)

// FindSection locates the FAQ section of a document.
func FindSection(elements []dom.Element) (section.Range, bool) {
	return section.FAQ(elements)
}

// IsQuestion reports whether an element opens a new question: it is
// numbered ("1. "), it has bold markup and a '?', it is a short line ending
// in '?', or it carries a "Q:" / "Question 2:" label.
func IsQuestion(e dom.Element) bool {
	text := e.Text
	switch {
	case text == "":
		return false
	case numberedRe.MatchString(text):
		return true
	case strings.Contains(text, "?") && e.Contains("strong", "b"):
		return true
	case strings.HasSuffix(text, "?") && utf8.RuneCountInString(text) < maxQuestionLen:
		return true
	}
	return questionLabel.MatchString(text)
}

// SplitQuestion cleans question text and separates an answer written on the
// same line after the question mark.
func SplitQuestion(text string) (question, inline string) {
	text = dom.CollapseSpace(text)
	text = numberPrefix.ReplaceAllString(text, "")
	text = questionLabel.ReplaceAllString(text, "")

	q, rest, found := strings.Cut(text, "?")
	if !found {
		return strings.TrimSpace(text), ""
	}
	question = strings.TrimSpace(q) + "?"

	rest = separators.ReplaceAllString(rest, "")
	rest = answerLabel.ReplaceAllString(rest, "")
	return question, strings.TrimSpace(rest)
}

// CleanAnswer strips a leading "A:" / "Answer:" label. Whitespace inside the
// markup is left alone so preformatted answers keep their layout.
func CleanAnswer(answer string) string {
	answer = strings.TrimSpace(answer)
	answer = answerLabelHTML.ReplaceAllString(answer, "$1")
	return strings.TrimSpace(answer)
}

type pending struct {
	question string
	answer   []string
}

// Extract walks the body of r. A question element opens a pair; every
// following element up to the next question is appended to the answer as
// markup. Pairs are emitted in order, only with a non-empty answer, and each
// question at most once.
func Extract(elements []dom.Element, r section.Range) []doctree.FAQPair {
	body := r.Body(elements)

	var (
		out  []doctree.FAQPair
		seen = make(map[string]bool)
		cur  *pending
	)
	flush := func() {
		if cur == nil {
			return
		}
		answer := CleanAnswer(strings.Join(cur.answer, " "))
		key := strings.ToLower(cur.question)
		if cur.question != "" && dom.StripTags(answer) != "" && !seen[key] {
			seen[key] = true
			out = append(out, doctree.FAQPair{Question: cur.question, Answer: answer})
		}
		cur = nil
	}

	for i, e := range body {
		if e.Text == "" {
			continue
		}
		if section.Meta(e) {
			break
		}

		if IsQuestion(e) {
			flush()
			q, inline := SplitQuestion(e.Text)
			cur = &pending{question: q}
			if inline != "" {
				cur.answer = append(cur.answer, html.EscapeString(inline))
			}
			continue
		}
		if cur == nil {
			continue
		}

		cur.answer = append(cur.answer, e.OuterHTML)
		if next, ok := nextNonEmpty(body, i+1); ok && IsQuestion(next) {
			flush()
		}
	}
	flush()
	return out
}

func nextNonEmpty(elements []dom.Element, from int) (dom.Element, bool) {
	for i := from; i < len(elements); i++ {
		if elements[i].Text != "" {
			return elements[i], true
		}
	}
	return dom.Element{}, false
}
