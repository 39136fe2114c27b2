package parser

import (
	"encoding/base64"
	"fmt"
	"html"
	"io"
	"mime"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/contentgen/internal/doctree"
)

// DOCXParser handles .docx files. Heading styles become h1..h6, numbered
// or list-styled paragraphs become (nested) lists, bold and italic runs are
// kept, embedded pictures become data URI images and tables are copied
// cell by cell.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.Source, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "contentgen-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	w := &docxWriter{doc: doc}
	for _, item := range doc.Document.Body.Items {
		switch it := item.(type) {
		case *docx.Paragraph:
			w.paragraph(it)
		case *docx.Table:
			w.closeLists()
			w.table(it)
		}
	}
	w.closeLists()

	return &doctree.Source{
		Filename: filename,
		Title:    TitleFromFilename(filename),
		HTML:     w.sb.String(),
	}, nil
}

type openList struct {
	tag    string
	liOpen bool
}

type docxWriter struct {
	doc   *docx.Docx
	sb    strings.Builder
	lists []openList
}

func (w *docxWriter) paragraph(para *docx.Paragraph) {
	content := w.inline(para)

	if level, tag, ok := docxListItem(para); ok {
		if strings.TrimSpace(content) == "" {
			return
		}
		w.listItem(level, tag, content)
		return
	}
	w.closeLists()

	if level := docxHeadingLevel(para); level > 0 {
		fmt.Fprintf(&w.sb, "<h%d>%s</h%d>\n", level, content, level)
		return
	}
	fmt.Fprintf(&w.sb, "<p>%s</p>\n", content)
}

// listItem opens or closes nested lists until the item's level is current.
func (w *docxWriter) listItem(level int, tag, content string) {
	for len(w.lists) > level+1 {
		w.closeTop()
	}
	if len(w.lists) == level+1 {
		top := &w.lists[len(w.lists)-1]
		if top.liOpen {
			w.sb.WriteString("</li>\n")
		}
		top.liOpen = false
	}
	for len(w.lists) < level+1 {
		fmt.Fprintf(&w.sb, "<%s>\n", tag)
		w.lists = append(w.lists, openList{tag: tag})
	}
	w.sb.WriteString("<li>" + content)
	w.lists[len(w.lists)-1].liOpen = true
}

func (w *docxWriter) closeTop() {
	top := w.lists[len(w.lists)-1]
	if top.liOpen {
		w.sb.WriteString("</li>\n")
	}
	fmt.Fprintf(&w.sb, "</%s>\n", top.tag)
	w.lists = w.lists[:len(w.lists)-1]
}

func (w *docxWriter) closeLists() {
	for len(w.lists) > 0 {
		w.closeTop()
	}
}

func (w *docxWriter) table(t *docx.Table) {
	w.sb.WriteString("<table>\n")
	for _, row := range t.TableRows {
		w.sb.WriteString("<tr>")
		for _, cell := range row.TableCells {
			var parts []string
			for _, para := range cell.Paragraphs {
				if c := w.inline(para); strings.TrimSpace(c) != "" {
					parts = append(parts, c)
				}
			}
			content := strings.Join(parts, "<br>")
			if len(parts) > 1 {
				content = "<p>" + strings.Join(parts, "</p><p>") + "</p>"
			}
			w.sb.WriteString("<td>" + content + "</td>")
		}
		w.sb.WriteString("</tr>\n")
	}
	w.sb.WriteString("</table>\n")
}

// inline renders the runs and hyperlinks of a paragraph.
func (w *docxWriter) inline(para *docx.Paragraph) string {
	var sb strings.Builder
	for _, child := range para.Children {
		switch c := child.(type) {
		case *docx.Run:
			sb.WriteString(w.run(c))
		case *docx.Hyperlink:
			text := w.run(&c.Run)
			target, err := w.doc.ReferTarget(c.ID)
			if err != nil || target == "" {
				sb.WriteString(text)
				continue
			}
			fmt.Fprintf(&sb, `<a href="%s">%s</a>`, html.EscapeString(target), text)
		}
	}
	return strings.TrimSpace(sb.String())
}

func (w *docxWriter) run(run *docx.Run) string {
	var sb strings.Builder
	for _, rc := range run.Children {
		switch c := rc.(type) {
		case *docx.Text:
			sb.WriteString(html.EscapeString(c.Text))
		case *docx.Tab:
			sb.WriteString(" ")
		case *docx.BarterRabbet:
			sb.WriteString("<br>")
		case *docx.Drawing:
			sb.WriteString(w.image(c))
		}
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" || run.RunProperties == nil {
		return text
	}
	if run.RunProperties.Italic != nil {
		text = "<em>" + text + "</em>"
	}
	if run.RunProperties.Bold != nil {
		text = "<strong>" + text + "</strong>"
	}
	return text
}

// image inlines a drawing's picture as a data URI. Shapes, canvases and
// pictures whose media is missing render as nothing.
func (w *docxWriter) image(d *docx.Drawing) string {
	var g *docx.AGraphic
	switch {
	case d.Inline != nil:
		g = d.Inline.Graphic
	case d.Anchor != nil:
		g = d.Anchor.Graphic
	}
	if g == nil || g.GraphicData == nil || g.GraphicData.Pic == nil || g.GraphicData.Pic.BlipFill == nil {
		return ""
	}

	target, err := w.doc.ReferTarget(g.GraphicData.Pic.BlipFill.Blip.Embed)
	if err != nil {
		return ""
	}
	media := w.doc.Media(path.Base(target))
	if media == nil || len(media.Data) == 0 {
		return ""
	}

	mt := mime.TypeByExtension(path.Ext(media.Name))
	if mt == "" {
		mt = "application/octet-stream"
	}
	return fmt.Sprintf(`<img src="data:%s;base64,%s">`, mt, base64.StdEncoding.EncodeToString(media.Data))
}

func docxHeadingLevel(para *docx.Paragraph) int {
	style := docxStyle(para)
	if style == "" {
		return 0
	}
	if strings.EqualFold(style, "Title") {
		return 1
	}
	lower := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(lower, "heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimPrefix(lower, "heading"))
	if err != nil || n < 1 || n > 6 {
		return 0
	}
	return n
}

// docxListItem reports the nesting level and list tag of a list paragraph.
// Numbering definitions are not resolved, so the style name decides between
// ordered and unordered.
func docxListItem(para *docx.Paragraph) (level int, tag string, ok bool) {
	style := strings.ToLower(strings.ReplaceAll(docxStyle(para), " ", ""))
	var num *docx.NumProperties
	if para.Properties != nil {
		num = para.Properties.NumProperties
	}
	if num == nil && !strings.HasPrefix(style, "list") {
		return 0, "", false
	}

	if num != nil && num.Ilvl != nil {
		if n, err := strconv.Atoi(num.Ilvl.Val); err == nil && n >= 0 {
			level = n
		}
	}
	tag = "ul"
	if strings.HasPrefix(style, "listnumber") {
		tag = "ol"
	}
	return level, tag, true
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}
