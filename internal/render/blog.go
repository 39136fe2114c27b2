// Package render turns extracted models into CMS-ready HTML fragments.
package render

import (
	"fmt"
	"html"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/dgallion1/contentgen/internal/blog"
	"github.com/dgallion1/contentgen/internal/doctree"
)

// Images carries the user-supplied image data for a blog render. URLs are
// matched to image blocks by position: URLs[0] is "[Image 1]".
type Images struct {
	FeaturedURL   string   `json:"featured_url,omitempty" validate:"omitempty,url"`
	FeaturedAlt   string   `json:"featured_alt,omitempty"`
	FeaturedTitle string   `json:"featured_title,omitempty"`
	URLs          []string `json:"urls,omitempty" validate:"dive,omitempty,url"`
}

// URL returns the source for the n-th image block (1-based). Missing or
// blank entries fall back to the block's own URL, then to "#".
func (im Images) URL(n int, b doctree.Block) string {
	if n >= 1 && n <= len(im.URLs) {
		if u := strings.TrimSpace(im.URLs[n-1]); u != "" {
			return u
		}
	}
	if b.ResolvedURL != "" {
		return b.ResolvedURL
	}
	return doctree.UnresolvedURL
}

// Blog renders the post body: title, optional featured image, every block
// in order and the closing divider.
func Blog(b blog.Blog, im Images, theme Theme) string {
	var sb strings.Builder
	writeBlogBody(&sb, b, im)
	sb.WriteString(fancyLine(theme))
	return sb.String()
}

func writeBlogBody(sb *strings.Builder, b blog.Blog, im Images) {
	if b.Title != "" {
		fmt.Fprintf(sb, "<h1 class=\"text-center fs-1\">%s</h1><hr>\n\n", html.EscapeString(b.Title))
	}

	if u := strings.TrimSpace(im.FeaturedURL); u != "" {
		fmt.Fprintf(sb, "<img src=\"%s\"", attr(u))
		if im.FeaturedAlt != "" {
			fmt.Fprintf(sb, " alt=\"%s\"", attr(im.FeaturedAlt))
		}
		if im.FeaturedTitle != "" {
			fmt.Fprintf(sb, " title=\"%s\"", attr(im.FeaturedTitle))
		}
		sb.WriteString(" class=\"w-100 mb-3\">\n\n")
	}

	n := 0
	for _, blk := range b.Blocks {
		switch blk.Kind {
		case doctree.BlockHeading:
			level := blk.Level
			if level < 1 || level > 6 {
				level = 2
			}
			if level == 1 {
				fmt.Fprintf(sb, "<h1 class=\"text-center fs-1\">%s</h1>\n\n", blk.HTML)
			} else {
				fmt.Fprintf(sb, "<h%d class=\"fs-%d\">%s</h%d>\n\n", level, level, blk.HTML, level)
			}
		case doctree.BlockParagraph:
			fmt.Fprintf(sb, "<p>%s</p>\n\n", blk.HTML)
		case doctree.BlockList:
			tag := "ul"
			if blk.Ordered {
				tag = "ol"
			}
			fmt.Fprintf(sb, "<%s>\n", tag)
			for _, item := range blk.Items {
				fmt.Fprintf(sb, "  <li>%s</li>\n", item)
			}
			fmt.Fprintf(sb, "</%s>\n\n", tag)
		case doctree.BlockImage:
			n++
			fmt.Fprintf(sb, "<img src=\"%s\" alt=\"%s\" class=\"w-100 mb-3\">\n\n", attr(im.URL(n, blk)), attr(blk.Alt))
		}
	}
}

func fancyLine(theme Theme) string {
	return `<div class="fancy-line"></div><style>.fancy-line{width:60%;margin:20px auto;border-top:2px solid ` +
		theme.DividerColor +
		`;text-align:center;position:relative}.fancy-line::after{content:"` + theme.OrnamentGlyphs +
		`";position:absolute;top:-12px;left:50%;transform:translateX(-50%);background:white;padding:0 10px;color:` +
		theme.OrnamentColor + `}</style>`
}

// BlogFAQ renders question/answer pairs as a Bootstrap accordion.
func BlogFAQ(pairs []doctree.FAQPair, theme Theme) string {
	if len(pairs) == 0 {
		return "<!-- No FAQs found in the FAQ section -->"
	}

	var sb strings.Builder
	sb.WriteString("<div class=\"faq-section\">\n")
	fmt.Fprintf(&sb, "  <h2 class=\"text-center mb-4\">%s</h2>\n", html.EscapeString(theme.FAQHeading))
	sb.WriteString("  <div class=\"accordion\" id=\"faqAccordion\">\n")
	for i, p := range pairs {
		heading := fmt.Sprintf("faqHeading%d", i)
		collapse := fmt.Sprintf("faqCollapse%d", i)
		sb.WriteString("    <div class=\"accordion-item\">\n")
		fmt.Fprintf(&sb, "      <h3 class=\"accordion-header\" id=\"%s\">\n", heading)
		fmt.Fprintf(&sb, "        <button class=\"accordion-button collapsed\" type=\"button\" data-bs-toggle=\"collapse\" data-bs-target=\"#%s\" aria-expanded=\"false\" aria-controls=\"%s\">\n", collapse, collapse)
		fmt.Fprintf(&sb, "          %s\n", html.EscapeString(p.Question))
		sb.WriteString("        </button>\n")
		sb.WriteString("      </h3>\n")
		fmt.Fprintf(&sb, "      <div id=\"%s\" class=\"accordion-collapse collapse\" aria-labelledby=\"%s\" data-bs-parent=\"#faqAccordion\">\n", collapse, heading)
		fmt.Fprintf(&sb, "        <div class=\"accordion-body\">\n          %s\n        </div>\n", p.Answer)
		sb.WriteString("      </div>\n")
		sb.WriteString("    </div>\n")
	}
	sb.WriteString("  </div>\n</div>")
	return sb.String()
}

// BlogMarkdown renders the post body as Markdown for platforms that do not
// take HTML. The decorative divider is left out.
func BlogMarkdown(b blog.Blog, im Images) (string, error) {
	var sb strings.Builder
	writeBlogBody(&sb, b, im)
	md, err := htmltomarkdown.ConvertString(sb.String())
	if err != nil {
		return "", fmt.Errorf("convert blog to markdown: %w", err)
	}
	return md, nil
}

func attr(s string) string {
	return html.EscapeString(s)
}
