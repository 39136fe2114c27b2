// Package blog turns a normalized blog draft into a title and an ordered
// stream of content blocks.
package blog

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/contentgen/internal/doctree"
	"github.com/dgallion1/contentgen/internal/dom"
	"github.com/dgallion1/contentgen/internal/faq"
	"github.com/dgallion1/contentgen/internal/section"
)

// LineRemoveMarkers prefix editorial notes that are dropped from the output
// without ending the block stream.
var LineRemoveMarkers = []string{"link:", "alt-text", "alt text:", "title text:"}

// Blog is the extracted model of one blog draft.
type Blog struct {
	Title      string            `json:"title"`
	Blocks     []doctree.Block   `json:"blocks"`
	ImageCount int               `json:"image_count"`
	FAQ        []doctree.FAQPair `json:"faq,omitempty"`
}

// Extract runs title detection, block extraction and FAQ pairing over the
// top-level elements of a normalized draft.
func Extract(elements []dom.Element) Blog {
	title := ExtractTitle(elements)
	blocks := ExtractBlocks(elements, title)

	b := Blog{
		Title:      title.Text,
		Blocks:     blocks,
		ImageCount: CountImages(blocks),
	}
	if r, ok := faq.FindSection(elements); ok {
		b.FAQ = faq.Extract(elements, r)
	}
	return b
}

// Title is the detected post title.
type Title struct {
	Text string
	// ElementID is the snapshot ID of the element consumed as the title, or
	// -1 when the element stays in the block stream.
	ElementID int
}

// ExtractTitle tries, in order: the first non-empty <h1>; the first <p>
// longer than 10 and shorter than 200 characters; the text of the first
// element longer than 5 characters, cut at the first '.'. Only the first two
// consume their element. No candidate yields an empty title.
func ExtractTitle(elements []dom.Element) Title {
	flat := dom.Flatten(elements)

	for _, e := range flat {
		if e.Tag == "h1" && e.Text != "" {
			return Title{Text: e.Text, ElementID: e.ID}
		}
	}

	for _, e := range flat {
		if e.Tag != "p" {
			continue
		}
		if n := utf8.RuneCountInString(e.Text); n > 10 && n < 200 {
			return Title{Text: e.Text, ElementID: e.ID}
		}
	}

	for _, e := range flat {
		if utf8.RuneCountInString(e.Text) > 5 {
			text, _, _ := strings.Cut(e.Text, ".")
			return Title{Text: strings.TrimSpace(text), ElementID: -1}
		}
	}

	return Title{ElementID: -1}
}

// ExtractBlocks walks the elements in document order and classifies them
// into blocks. The walk stops for good at the first meta line. Headings,
// paragraphs and lists are consumed whole; images nested in a paragraph are
// emitted as their own blocks right after it.
func ExtractBlocks(elements []dom.Element, title Title) []doctree.Block {
	w := &walker{exclude: title.ElementID}
	for _, e := range elements {
		if w.stopped {
			break
		}
		w.walk(e)
	}
	return w.blocks
}

// CountImages counts the image blocks.
func CountImages(blocks []doctree.Block) int {
	n := 0
	for _, b := range blocks {
		if b.Kind == doctree.BlockImage {
			n++
		}
	}
	return n
}

type walker struct {
	exclude int
	images  int
	blocks  []doctree.Block
	stopped bool
}

func (w *walker) walk(e dom.Element) {
	if w.stopped || e.ID == w.exclude {
		return
	}
	if e.Text == "" && e.Tag != "img" && !e.Contains("img") {
		return
	}

	lower := e.Lower()
	if section.Meta(e) {
		w.stopped = true
		return
	}
	if hasAnyPrefix(lower, LineRemoveMarkers) {
		return
	}

	switch dom.Classify(e) {
	case dom.KindHeading:
		w.blocks = append(w.blocks, doctree.Block{
			Kind:  doctree.BlockHeading,
			Level: e.HeadingLevel(),
			HTML:  e.InnerHTML,
		})
		return
	case dom.KindParagraph:
		w.paragraph(e)
		return
	case dom.KindList:
		w.list(e)
		return
	case dom.KindImage:
		w.image(e)
		return
	}

	for _, c := range e.Children {
		if w.stopped {
			return
		}
		w.walk(c)
	}
}

var imgTagRe = regexp.MustCompile(`(?i)<img\b[^>]*>`)

func (w *walker) paragraph(e dom.Element) {
	html := e.InnerHTML
	imgs := e.Find("img")
	if len(imgs) > 0 {
		html = strings.TrimSpace(imgTagRe.ReplaceAllString(html, ""))
	}
	if dom.StripTags(html) != "" {
		w.blocks = append(w.blocks, doctree.Block{Kind: doctree.BlockParagraph, HTML: html})
	}
	for _, img := range imgs {
		w.image(img)
	}
}

func (w *walker) list(e dom.Element) {
	var items []string
	for _, li := range e.Children {
		if li.Tag != "li" {
			continue
		}
		item := strings.TrimSpace(strings.ReplaceAll(li.InnerHTML, "&gt;", ""))
		if item == "" || (dom.StripTags(item) == "" && !li.Contains("img")) {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return
	}
	w.blocks = append(w.blocks, doctree.Block{
		Kind:    doctree.BlockList,
		Ordered: e.Tag == "ol",
		Items:   items,
	})
}

func (w *walker) image(e dom.Element) {
	w.images++
	alt := strings.TrimSpace(e.Attr("alt"))
	if alt == "" {
		alt = fmt.Sprintf("Blog image %d", w.images)
	}
	w.blocks = append(w.blocks, doctree.Block{
		Kind:        doctree.BlockImage,
		Alt:         alt,
		Placeholder: fmt.Sprintf("[Image %d]", w.images),
		ResolvedURL: doctree.UnresolvedURL,
	})
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
