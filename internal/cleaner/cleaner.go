// Package cleaner strips pasted HTML down to plain structural markup.
package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Options selects the cleaning passes. The zero value only collapses runs of
// three or more <br>; use DefaultOptions for the usual set.
type Options struct {
	RemoveComments      bool `json:"remove_comments" yaml:"remove_comments"`
	RemoveScriptStyle   bool `json:"remove_script_style" yaml:"remove_script_style"`
	RemoveFontTags      bool `json:"remove_font_tags" yaml:"remove_font_tags"`
	RemoveClasses       bool `json:"remove_classes" yaml:"remove_classes"`
	RemoveIDs           bool `json:"remove_ids" yaml:"remove_ids"`
	RemoveStyles        bool `json:"remove_styles" yaml:"remove_styles"`
	RemoveDataAttrs     bool `json:"remove_data_attrs" yaml:"remove_data_attrs"`
	RemoveOtherAttrs    bool `json:"remove_other_attrs" yaml:"remove_other_attrs"`
	RemoveEmptyTags     bool `json:"remove_empty_tags" yaml:"remove_empty_tags"`
	RemoveNBSP          bool `json:"remove_nbsp" yaml:"remove_nbsp"`
	RemoveBr            bool `json:"remove_br" yaml:"remove_br"`
	ConvertLineBreaks   bool `json:"convert_line_breaks" yaml:"convert_line_breaks"`
	NormalizeWhitespace bool `json:"normalize_whitespace" yaml:"normalize_whitespace"`
	Minify              bool `json:"minify" yaml:"minify"`
	Beautify            bool `json:"beautify" yaml:"beautify"`
}

// DefaultOptions enables everything except <br> removal, line break
// conversion and beautifying.
func DefaultOptions() Options {
	return Options{
		RemoveComments:      true,
		RemoveScriptStyle:   true,
		RemoveFontTags:      true,
		RemoveClasses:       true,
		RemoveIDs:           true,
		RemoveStyles:        true,
		RemoveDataAttrs:     true,
		RemoveOtherAttrs:    true,
		RemoveEmptyTags:     true,
		RemoveNBSP:          true,
		NormalizeWhitespace: true,
		Minify:              true,
	}
}

// EssentialAttrs survive every attribute pass.
var EssentialAttrs = map[string]bool{
	"href": true, "src": true, "alt": true, "title": true,
	"target": true, "rel": true, "type": true,
}

// emptyCandidates are the only tags RemoveEmptyTags may drop.
var emptyCandidates = map[string]bool{
	"div": true, "span": true, "p": true, "li": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "aside": true, "header": true, "footer": true,
}

var meaningfulAttrs = map[string]bool{"href": true, "src": true, "alt": true, "title": true}

var (
	commentRe   = regexp.MustCompile(`<!--[\s\S]*?-->`)
	scriptRe    = regexp.MustCompile(`(?i)<script[^>]*>[\s\S]*?</script>`)
	styleRe     = regexp.MustCompile(`(?i)<style[^>]*>[\s\S]*?</style>`)
	nbspRe      = regexp.MustCompile(`(?i)&nbsp;|&#160;|&#xa0;`)
	anyBrRe     = regexp.MustCompile(`(?i)</?\s*br\s*/?>`)
	brRunRe     = regexp.MustCompile(`(?i)(<br\s*/?>\s*){3,}`)
	spaceRe     = regexp.MustCompile(`\s+`)
	betweenRe   = regexp.MustCompile(`>\s+<`)
	blankLineRe = regexp.MustCompile(`(?:\r?\n){2,}`)
)

// Result is the outcome of one Clean call.
type Result struct {
	HTML      string `json:"html"`
	Before    Stats  `json:"before"`
	After     Stats  `json:"after"`
	Reduction int    `json:"reduction_percent"`
}

// Clean runs the selected passes over raw and returns the cleaned body
// markup with before/after statistics.
func Clean(raw string, opt Options) (Result, error) {
	res := Result{Before: Measure(raw, opt)}
	if strings.TrimSpace(raw) == "" {
		res.After = res.Before
		return res, nil
	}

	content := raw
	if opt.RemoveComments {
		content = commentRe.ReplaceAllString(content, "")
	}
	if opt.RemoveScriptStyle {
		content = scriptRe.ReplaceAllString(content, "")
		content = styleRe.ReplaceAllString(content, "")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return res, fmt.Errorf("parse html: %w", err)
	}
	body := doc.Find("body")
	cleanDOM(body, opt)

	out, err := body.Html()
	if err != nil {
		return res, fmt.Errorf("render html: %w", err)
	}
	out = cleanText(out, opt)

	res.HTML = out
	res.After = Measure(out, opt)
	res.Reduction = ReductionPercent(raw, out)
	return res, nil
}

func cleanDOM(body *goquery.Selection, opt Options) {
	if opt.RemoveBr {
		body.Find("br").ReplaceWithHtml(" ")
	}

	if opt.RemoveFontTags {
		for {
			sel := body.Find("font, span").First()
			if sel.Length() == 0 {
				break
			}
			sel.ReplaceWithSelection(sel.Contents())
		}
	}

	body.Find("*").Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if !dropAttr(strings.ToLower(a.Key), opt) {
				kept = append(kept, a)
			}
		}
		n.Attr = kept
	})

	if opt.RemoveEmptyTags {
		for _, n := range body.Nodes {
			removeEmpty(n)
		}
	}

	if opt.ConvertLineBreaks {
		inner, err := body.Html()
		if err == nil {
			if parts := blankLineRe.Split(inner, -1); len(parts) > 1 {
				var sb strings.Builder
				for _, p := range parts {
					if p = strings.TrimSpace(p); p != "" {
						sb.WriteString("<p>" + p + "</p>")
					}
				}
				body.SetHtml(sb.String())
			}
		}
	}

	if opt.NormalizeWhitespace {
		for _, n := range body.Nodes {
			collapseText(n)
		}
	}
}

func dropAttr(key string, opt Options) bool {
	if EssentialAttrs[key] {
		return false
	}
	switch {
	case key == "class":
		return opt.RemoveClasses
	case key == "id":
		return opt.RemoveIDs
	case key == "style":
		return opt.RemoveStyles
	case strings.HasPrefix(key, "data-"):
		return opt.RemoveDataAttrs
	}
	return opt.RemoveOtherAttrs
}

// removeEmpty drops candidate elements with no text, no element children
// and no meaningful attribute. Children are visited first so a parent
// emptied by the pass is removed as well.
func removeEmpty(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			removeEmpty(c)
			if isEmpty(c) {
				n.RemoveChild(c)
			}
		}
		c = next
	}
}

func isEmpty(n *html.Node) bool {
	if !emptyCandidates[n.Data] {
		return false
	}
	for _, a := range n.Attr {
		if meaningfulAttrs[strings.ToLower(a.Key)] {
			return false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
	}
	return strings.TrimSpace(strings.ReplaceAll(textOf(n), "\u00a0", " ")) == ""
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collapseText folds whitespace runs in text nodes to one space. Text inside
// <pre> is left alone.
func collapseText(n *html.Node) {
	if n.Type == html.ElementNode && n.Data == "pre" {
		return
	}
	if n.Type == html.TextNode {
		n.Data = spaceRe.ReplaceAllString(n.Data, " ")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collapseText(c)
	}
}

func cleanText(s string, opt Options) string {
	if opt.RemoveNBSP {
		s = nbspRe.ReplaceAllString(s, " ")
		s = strings.ReplaceAll(s, "\u00a0", " ")
	}

	if opt.RemoveBr {
		s = anyBrRe.ReplaceAllString(s, " ")
		s = spaceRe.ReplaceAllString(s, " ")
	} else {
		s = brRunRe.ReplaceAllString(s, "<br><br>")
	}

	if opt.NormalizeWhitespace {
		s = strings.TrimSpace(betweenRe.ReplaceAllString(spaceRe.ReplaceAllString(s, " "), "><"))
	}

	switch {
	case opt.Beautify:
		s = Beautify(s)
	case opt.Minify:
		s = strings.TrimSpace(betweenRe.ReplaceAllString(spaceRe.ReplaceAllString(s, " "), "><"))
	}
	return s
}
