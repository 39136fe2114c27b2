// Package normalize strips presentation-only markup from converted documents.
package normalize

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Normalize removes style/class attributes, unwraps span and div elements,
// collapses runs of <br> and drops empty elements (images excepted).
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) (string, error) {
	root, err := parseFragment(raw)
	if err != nil {
		return "", err
	}

	stripPresentation(root)
	unwrap(root)
	clean(root)

	return renderChildren(root)
}

func parseFragment(raw string) (*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), context)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	return root, nil
}

func renderChildren(root *html.Node) (string, error) {
	var buf strings.Builder
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}
	return buf.String(), nil
}

func stripPresentation(n *html.Node) {
	if n.Type == html.ElementNode && len(n.Attr) > 0 {
		kept := n.Attr[:0]
		for _, a := range n.Attr {
			if a.Namespace == "" && (a.Key == "style" || a.Key == "class") {
				continue
			}
			kept = append(kept, a)
		}
		n.Attr = kept
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		stripPresentation(c)
	}
}

// unwrap splices the children of every span and div into their parent.
func unwrap(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		unwrap(c)
		if c.Type == html.ElementNode && (c.DataAtom == atom.Span || c.DataAtom == atom.Div) {
			for gc := c.FirstChild; gc != nil; {
				gnext := gc.NextSibling
				c.RemoveChild(gc)
				n.InsertBefore(gc, c)
				gc = gnext
			}
			n.RemoveChild(c)
		}
		c = next
	}
}

// clean works bottom-up so a parent emptied by its children's removal is
// judged on what is left.
func clean(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			clean(c)
			if isEmpty(c) {
				n.RemoveChild(c)
			}
		}
		c = next
	}
	collapseBreaks(n)
}

func isEmpty(n *html.Node) bool {
	if n.DataAtom == atom.Img || n.DataAtom == atom.Br {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return false
		}
	}
	return strings.TrimSpace(TextContent(n)) == ""
}

// collapseBreaks keeps the first <br> of each run and drops breaks that sit
// at the start or end of n.
func collapseBreaks(n *html.Node) {
	var prev *html.Node
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case isBreak(c):
			if prev != nil {
				n.RemoveChild(c)
			} else {
				prev = c
			}
		case isBlank(c):
		default:
			prev = nil
		}
		c = next
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isBreak(c) {
			n.RemoveChild(c)
		} else if !isBlank(c) {
			break
		}
		c = next
	}
	for c := n.LastChild; c != nil; {
		prev := c.PrevSibling
		if isBreak(c) {
			n.RemoveChild(c)
		} else if !isBlank(c) {
			break
		}
		c = prev
	}
}

func isBreak(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Br
}

func isBlank(n *html.Node) bool {
	return n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

// TextContent concatenates all descendant text nodes.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}
