// Package generate runs an upload through conversion, normalization,
// extraction and rendering for one output kind.
package generate

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/contentgen/internal/blog"
	"github.com/dgallion1/contentgen/internal/cleaner"
	"github.com/dgallion1/contentgen/internal/course"
	"github.com/dgallion1/contentgen/internal/doctree"
	"github.com/dgallion1/contentgen/internal/dom"
	"github.com/dgallion1/contentgen/internal/glossary"
	"github.com/dgallion1/contentgen/internal/normalize"
	"github.com/dgallion1/contentgen/internal/parser"
	"github.com/dgallion1/contentgen/internal/render"
)

var (
	// ErrEmptyDocument means the upload converted to no usable content.
	ErrEmptyDocument = errors.New("document has no content")
	// ErrMissingTitle means a course was requested without a title.
	ErrMissingTitle = errors.New("course title is required")
	// ErrUnknownKind means the requested output kind does not exist.
	ErrUnknownKind = errors.New("unknown output kind")
)

// Kind selects what a document is turned into.
type Kind string

const (
	KindBlog     Kind = "blog"
	KindCourse   Kind = "course"
	KindGlossary Kind = "glossary"
	KindClean    Kind = "clean"
)

// Kinds lists every supported kind.
var Kinds = []Kind{KindBlog, KindCourse, KindGlossary, KindClean}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Section keys of Result.Sections.
const (
	SectionBlog       = "blog"
	SectionBlogFAQ    = "faq"
	SectionMarkdown   = "markdown"
	SectionOverview   = "overview"
	SectionObjectives = "objectives"
	SectionSyllabus   = "syllabus"
	SectionCourseFAQ  = "faq"
	SectionGlossary   = "glossary"
	SectionClean      = "html"
)

// Stage is reported through Options.OnStage as a run progresses.
type Stage string

const (
	StageExtracting Stage = "extracting"
	StageRendering  Stage = "rendering"
)

// Options tune a single run.
type Options struct {
	// CourseTitle overrides the converted document title for courses.
	CourseTitle string
	// Images supplies blog image URLs by position.
	Images render.Images
	// Markdown adds a Markdown rendering of the blog body.
	Markdown bool
	// Clean overrides the generator's cleaner options for KindClean.
	Clean *cleaner.Options
	// OnStage, when set, is called as the run enters each stage.
	OnStage func(Stage)
}

func (o Options) stage(s Stage) {
	if o.OnStage != nil {
		o.OnStage(s)
	}
}

// Result is the output of one run. Every call returns a fresh Result.
type Result struct {
	Kind     Kind              `json:"kind"`
	Title    string            `json:"title"`
	Slug     string            `json:"slug"`
	Sections map[string]string `json:"sections"`
	Model    any               `json:"model,omitempty"`
	Warnings []Warning         `json:"warnings,omitempty"`
}

func (r *Result) warn(code, msg string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Message: msg})
}

// Warning is a recoverable condition, such as a missing section.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Generator holds the settings shared by every run. It is safe for
// concurrent use.
type Generator struct {
	Theme       render.Theme
	PDFFallback bool
	Clean       cleaner.Options
}

// New returns a generator with the default theme and cleaner options.
func New() *Generator {
	return &Generator{
		Theme:       render.DefaultTheme(),
		PDFFallback: true,
		Clean:       cleaner.DefaultOptions(),
	}
}

// Convert turns an upload into an HTML source using the parser registered
// for its extension. HTML uploads for KindClean skip sanitizing so the
// cleaner sees the markup as pasted.
func (g *Generator) Convert(kind Kind, r io.Reader, filename string) (*doctree.Source, error) {
	p, err := parser.ForFile(filename)
	if err != nil {
		return nil, err
	}
	switch p := p.(type) {
	case *parser.PDFParser:
		p.FallbackPdftotext = g.PDFFallback
	case *parser.HTMLParser:
		p.Raw = kind == KindClean
	}
	src, err := p.Parse(r, filename)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", filename, err)
	}
	return src, nil
}

// GenerateFile converts an upload and generates the requested kind.
func (g *Generator) GenerateFile(kind Kind, r io.Reader, filename string, opts Options) (*Result, error) {
	src, err := g.Convert(kind, r, filename)
	if err != nil {
		return nil, err
	}
	return g.Generate(kind, src, opts)
}

// Generate produces the sections for kind from a converted source.
func (g *Generator) Generate(kind Kind, src *doctree.Source, opts Options) (*Result, error) {
	if strings.TrimSpace(src.HTML) == "" {
		return nil, ErrEmptyDocument
	}
	if kind == KindClean {
		return g.clean(src, opts)
	}

	switch kind {
	case KindBlog, KindCourse, KindGlossary:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if kind == KindCourse && strings.TrimSpace(opts.CourseTitle) == "" && strings.TrimSpace(src.Title) == "" {
		return nil, ErrMissingTitle
	}

	opts.stage(StageExtracting)
	normalized, err := normalize.Normalize(src.HTML)
	if err != nil {
		return nil, fmt.Errorf("normalize: %w", err)
	}
	elements, err := dom.Parse(normalized)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, ErrEmptyDocument
	}

	switch kind {
	case KindBlog:
		return g.RenderBlog(blog.Extract(elements), opts.Images, opts.Markdown, opts.stage)
	case KindCourse:
		title := strings.TrimSpace(opts.CourseTitle)
		if title == "" {
			title = strings.TrimSpace(src.Title)
		}
		return g.renderCourse(course.Extract(elements, title), opts.stage)
	default:
		return g.renderGlossary(glossary.Extract(elements), src.Title, opts.stage)
	}
}

// RenderBlog renders an already extracted blog. It backs both generation
// and re-rendering with user supplied image URLs.
func (g *Generator) RenderBlog(b blog.Blog, im render.Images, markdown bool, stage func(Stage)) (*Result, error) {
	if stage != nil {
		stage(StageRendering)
	}
	res := &Result{
		Kind:     KindBlog,
		Title:    b.Title,
		Slug:     Slugify(b.Title),
		Sections: map[string]string{},
		Model:    b,
	}
	if b.Title == "" {
		res.warn("no_title", "no title found; add an <h1> or a short first paragraph")
	}
	if len(b.Blocks) == 0 {
		res.warn("no_content", "no content blocks found before the meta section")
	}
	if len(b.FAQ) == 0 {
		res.warn("no_faq", "no FAQ section found")
	}
	if b.ImageCount > len(im.URLs) {
		res.warn("missing_image_urls", fmt.Sprintf("%d of %d images have no URL and use %q",
			b.ImageCount-len(im.URLs), b.ImageCount, doctree.UnresolvedURL))
	}

	res.Sections[SectionBlog] = render.Blog(b, im, g.Theme)
	res.Sections[SectionBlogFAQ] = render.BlogFAQ(b.FAQ, g.Theme)
	if markdown {
		md, err := render.BlogMarkdown(b, im)
		if err != nil {
			return nil, err
		}
		res.Sections[SectionMarkdown] = md
	}
	return res, nil
}

func (g *Generator) renderCourse(c course.Course, stage func(Stage)) (*Result, error) {
	stage(StageRendering)
	res := &Result{
		Kind:     KindCourse,
		Title:    c.Title,
		Slug:     Slugify(c.Title),
		Sections: map[string]string{},
		Model:    c,
	}
	if c.Overview == "" {
		res.warn("no_overview", "no overview section found")
	}
	if len(c.Objectives) == 0 {
		res.warn("no_objectives", "no course objectives found")
	}
	if len(c.Modules) == 0 {
		res.warn("no_syllabus", "no syllabus modules or lessons found")
	}
	if len(c.FAQ) == 0 {
		res.warn("no_faq", "no FAQ section found")
	}

	overview, err := render.CourseOverview(c, g.Theme)
	if err != nil {
		return nil, err
	}
	res.Sections[SectionOverview] = overview
	res.Sections[SectionObjectives] = render.CourseObjectives(c, g.Theme)
	res.Sections[SectionSyllabus] = render.CourseSyllabus(c, g.Theme)
	res.Sections[SectionCourseFAQ] = render.CourseFAQ(c.FAQ)
	return res, nil
}

func (g *Generator) renderGlossary(terms []glossary.Term, title string, stage func(Stage)) (*Result, error) {
	stage(StageRendering)
	res := &Result{
		Kind:     KindGlossary,
		Title:    title,
		Slug:     Slugify(title),
		Sections: map[string]string{SectionGlossary: render.Glossary(terms, g.Theme)},
		Model:    terms,
	}
	if len(terms) == 0 {
		res.warn("no_terms", "no two-column term table found")
	}
	return res, nil
}

func (g *Generator) clean(src *doctree.Source, opts Options) (*Result, error) {
	o := g.Clean
	if opts.Clean != nil {
		o = *opts.Clean
	}
	opts.stage(StageRendering)
	cleaned, err := cleaner.Clean(src.HTML, o)
	if err != nil {
		return nil, err
	}
	return &Result{
		Kind:     KindClean,
		Title:    src.Title,
		Slug:     Slugify(src.Title),
		Sections: map[string]string{SectionClean: cleaned.HTML},
		Model:    cleaned,
	}, nil
}
