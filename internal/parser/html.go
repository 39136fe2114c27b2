package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/dgallion1/contentgen/internal/doctree"
)

// HTMLParser handles HTML files. The <body> is sanitized with a user
// generated content policy unless Raw is set; the <title> becomes the
// document title.
type HTMLParser struct {
	policy *bluemonday.Policy
	// Raw keeps the body markup as uploaded.
	Raw bool
}

// NewHTMLParser returns a parser that keeps formatting, headings, lists,
// tables, links and images (data URIs included) and drops scripts, event
// handlers and javascript: URLs.
func NewHTMLParser() *HTMLParser {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	return &HTMLParser{policy: policy}
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	src := &doctree.Source{
		Filename: filename,
		Title:    TitleFromFilename(filename),
	}
	if title := findTitle(doc); title != "" {
		src.Title = title
	}

	body := string(raw)
	if b := findBody(doc); b != nil {
		var buf strings.Builder
		for c := b.FirstChild; c != nil; c = c.NextSibling {
			if err := html.Render(&buf, c); err != nil {
				return nil, fmt.Errorf("render body: %w", err)
			}
		}
		body = buf.String()
	}

	if p.Raw {
		src.HTML = body
		return src, nil
	}
	policy := p.policy
	if policy == nil {
		policy = NewHTMLParser().policy
	}
	src.HTML = policy.Sanitize(body)
	return src, nil
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
