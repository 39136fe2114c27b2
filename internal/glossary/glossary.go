// Package glossary reads term/definition tables and groups them A to Z.
package glossary

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/contentgen/internal/dom"
)

// Other is the bucket for terms that do not start with a letter A-Z.
const Other = "#"

// Letters is the display order of the buckets; Other comes last.
var Letters = func() []string {
	out := make([]string, 0, 27)
	for r := 'A'; r <= 'Z'; r++ {
		out = append(out, string(r))
	}
	return append(out, Other)
}()

// Term is one glossary entry. Definition is HTML.
type Term struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// Extract reads the first table in the document. The first row is a header;
// every later row with exactly two cells and both cells non-empty becomes a
// term.
func Extract(elements []dom.Element) []Term {
	var table *dom.Element
	for _, e := range dom.Flatten(elements) {
		if e.Tag == "table" {
			table = &e
			break
		}
	}
	if table == nil {
		return nil
	}

	var terms []Term
	for i, row := range table.Find("tr") {
		if i == 0 {
			continue
		}
		cells := row.Find("td", "th")
		if len(cells) != 2 {
			continue
		}
		term := dom.CollapseSpace(cells[0].Text)
		def := strings.TrimSpace(cells[1].InnerHTML)
		if term == "" || dom.StripTags(def) == "" {
			continue
		}
		terms = append(terms, Term{Term: term, Definition: def})
	}
	return terms
}

// Letter returns the bucket for a term: its first letter with accents
// folded ("Éclair" -> "E"), or Other.
func Letter(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return Other
	}
	for _, r := range norm.NFKD.String(term) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		r = unicode.ToUpper(r)
		if r >= 'A' && r <= 'Z' {
			return string(r)
		}
		return Other
	}
	return Other
}

// Group buckets terms by Letter, keeping document order inside a bucket.
func Group(terms []Term) map[string][]Term {
	groups := make(map[string][]Term)
	for _, t := range terms {
		l := Letter(t.Term)
		groups[l] = append(groups[l], t)
	}
	return groups
}
