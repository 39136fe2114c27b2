package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
)

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"a.txt", "*parser.TextParser"},
		{"a.MD", "*parser.MarkdownParser"},
		{"a.csv", "*parser.CSVParser"},
		{"a.htm", "*parser.HTMLParser"},
		{"a.pdf", "*parser.PDFParser"},
		{"a.docx", "*parser.DOCXParser"},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.filename, err)
		}
		if got := fmt.Sprintf("%T", p); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.filename, tt.want, got)
		}
	}

	if _, err := ForFile("slides.pptx"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if IsSupportedExtension("x.pptx") || !IsSupportedExtension("x.DOCX") {
		t.Error("IsSupportedExtension disagrees with ForFile")
	}
}

func TestCSVParser_Table(t *testing.T) {
	input := "Term,Definition\nMast,\"The upright, vertical part\"\nForks,Lift <arms>\n"
	p := &CSVParser{}
	src, err := p.Parse(strings.NewReader(input), "glossary.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "glossary" {
		t.Errorf("expected title %q, got %q", "glossary", src.Title)
	}
	want := "<table>\n" +
		"<tr><th>Term</th><th>Definition</th></tr>\n" +
		"<tr><td>Mast</td><td>The upright, vertical part</td></tr>\n" +
		"<tr><td>Forks</td><td>Lift &lt;arms&gt;</td></tr>\n" +
		"</table>"
	if src.HTML != want {
		t.Errorf("expected %q, got %q", want, src.HTML)
	}
}

func TestCSVParser_Empty(t *testing.T) {
	p := &CSVParser{}
	src, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.HTML != "" {
		t.Errorf("expected no markup, got %q", src.HTML)
	}
}

func TestHTMLParser_SanitizesBody(t *testing.T) {
	input := `<html><head><title>Draft Post</title><script>bad()</script></head>
<body><h1>Hello</h1><p onclick="x()">Text <a href="javascript:alert(1)">bad</a> <a href="https://example.com">good</a></p><script>alert(1)</script></body></html>`

	src, err := NewHTMLParser().Parse(strings.NewReader(input), "draft.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "Draft Post" {
		t.Errorf("expected title from <title>, got %q", src.Title)
	}
	for _, bad := range []string{"<script", "onclick", "javascript:", "<title>"} {
		if strings.Contains(src.HTML, bad) {
			t.Errorf("expected %q to be stripped, got %q", bad, src.HTML)
		}
	}
	if !strings.Contains(src.HTML, "<h1>Hello</h1>") || !strings.Contains(src.HTML, `href="https://example.com"`) {
		t.Errorf("expected safe markup to survive, got %q", src.HTML)
	}
}

func TestHTMLParser_FragmentTitleFromFilename(t *testing.T) {
	src, err := NewHTMLParser().Parse(strings.NewReader("<p>Just a fragment</p>"), "frag.htm")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "frag" {
		t.Errorf("expected %q, got %q", "frag", src.Title)
	}
	if src.HTML != "<p>Just a fragment</p>" {
		t.Errorf("unexpected body %q", src.HTML)
	}
}

func buildDOCX(t *testing.T, build func(*docx.Docx)) *bytes.Reader {
	t.Helper()
	w := docx.New().WithDefaultTheme()
	build(w)
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestDOCXParser_Structure(t *testing.T) {
	r := buildDOCX(t, func(w *docx.Docx) {
		w.AddParagraph().Style("Heading1").AddText("Forklift Safety")
		para := w.AddParagraph()
		para.AddText("Operate")
		para.AddText("carefully").Bold()
		w.AddParagraph().Style("ListParagraph").NumPr("1", "0").AddText("Lesson 1: Parts")
		w.AddParagraph().Style("ListParagraph").NumPr("1", "1").AddText("Mast")
		w.AddParagraph().Style("ListParagraph").NumPr("1", "0").AddText("Lesson 2: Checks")
		w.AddParagraph().Style("Heading2").AddText("Glossary")

		tbl := w.AddTable(2, 2, 0, nil)
		tbl.TableRows[0].TableCells[0].AddParagraph().AddText("Term")
		tbl.TableRows[0].TableCells[1].AddParagraph().AddText("Definition")
		tbl.TableRows[1].TableCells[0].AddParagraph().AddText("Mast")
		tbl.TableRows[1].TableCells[1].AddParagraph().AddText("The upright")
	})

	src, err := (&DOCXParser{}).Parse(r, "course.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.Title != "course" {
		t.Errorf("expected title %q, got %q", "course", src.Title)
	}

	for _, want := range []string{
		"<h1>Forklift Safety</h1>",
		"<strong>carefully</strong>",
		"<ul>\n<li>Lesson 1: Parts<ul>\n<li>Mast</li>\n</ul>\n</li>\n<li>Lesson 2: Checks</li>\n</ul>\n",
		"<h2>Glossary</h2>",
		"<tr><td>Term</td><td>Definition</td></tr>",
		"<tr><td>Mast</td><td>The upright</td></tr>",
	} {
		if !strings.Contains(src.HTML, want) {
			t.Errorf("expected output to contain %q, got %q", want, src.HTML)
		}
	}
}

func TestDOCXParser_InvalidFile(t *testing.T) {
	if _, err := (&DOCXParser{}).Parse(strings.NewReader("not a zip"), "bad.docx"); err == nil {
		t.Fatal("expected an error for a non-docx upload")
	}
}

func TestHTMLParser_RawKeepsMarkup(t *testing.T) {
	input := `<body><p class="x" style="color:red">Styled</p><!-- note --></body>`
	src, err := (&HTMLParser{Raw: true}).Parse(strings.NewReader(input), "pasted.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`class="x"`, `style="color:red"`, "<!-- note -->"} {
		if !strings.Contains(src.HTML, want) {
			t.Errorf("expected %q to survive, got %q", want, src.HTML)
		}
	}
}
