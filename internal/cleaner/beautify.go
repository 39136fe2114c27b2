package cleaner

import (
	"strings"

	"golang.org/x/net/html"
)

const indentUnit = "  "

var voidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// Beautify puts every tag and text run on its own line, indented two spaces
// per nesting level.
func Beautify(s string) string {
	z := html.NewTokenizer(strings.NewReader(betweenRe.ReplaceAllString(s, "><")))

	var (
		lines []string
		depth int
	)
	emit := func(text string) {
		lines = append(lines, strings.Repeat(indentUnit, depth)+text)
	}

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Join(lines, "\n")
		case html.TextToken:
			if text := strings.TrimSpace(string(z.Raw())); text != "" {
				emit(text)
			}
		case html.StartTagToken:
			raw := string(z.Raw())
			name, _ := z.TagName()
			emit(raw)
			if !voidTags[string(name)] {
				depth++
			}
		case html.EndTagToken:
			depth = max(0, depth-1)
			emit(string(z.Raw()))
		case html.SelfClosingTagToken, html.CommentToken, html.DoctypeToken:
			emit(string(z.Raw()))
		}
	}
}
