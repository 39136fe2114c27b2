package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dgallion1/contentgen/internal/course"
	"github.com/dgallion1/contentgen/internal/doctree"
	"github.com/dgallion1/contentgen/internal/dom"
)

// CourseOverview renders the overview section behind a commented-out video
// column. Headings are restyled as warning-colored h2 and links open in a new
// tab.
func CourseOverview(c course.Course, theme Theme) (string, error) {
	title := c.Title
	if title == "" {
		title = "Course Video"
	}
	video := fmt.Sprintf(`<!-- <div class="col-md-5 col-sm-12 elementor-col-40 elementor-column ml-md-3 p-0 pb-0 pt-0 verified-field-container" style="float:right"><div class="demo-video"><iframe title="%[1]s" src="%[2]s" width="560" height="200" frameborder="0" allow="autoplay; fullscreen; picture-in-picture" allowfullscreen data-ready="true"></iframe><img src="" class="w-100 ps-3" alt="%[1]s"></div></div> -->`,
		attr(title), attr(theme.OverviewVideoURL))

	if c.Overview == "" {
		return video + "<p>No overview content found.</p>", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(c.Overview))
	if err != nil {
		return "", fmt.Errorf("parse overview: %w", err)
	}
	body := doc.Find("body")
	body.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		inner, _ := s.Html()
		s.ReplaceWithHtml(`<h2 class="fs-4 text-warning">` + inner + `</h2>`)
	})
	body.Find("ul, ol").RemoveAttr("class")
	body.Find("a").SetAttr("target", "_blank")

	content, err := body.Html()
	if err != nil {
		return "", fmt.Errorf("render overview: %w", err)
	}
	return video + content, nil
}

// CourseObjectives renders the objectives list under its intro line.
func CourseObjectives(c course.Course, theme Theme) string {
	items := "<li>No course objectives found in the document.</li>"
	if len(c.Objectives) > 0 {
		lis := make([]string, len(c.Objectives))
		for i, o := range c.Objectives {
			lis[i] = "<li>" + o + "</li>"
		}
		items = strings.Join(lis, "\n")
	}

	intro := c.ObjectivesIntro
	if intro == "" {
		intro = html.EscapeString(theme.ObjectivesIntro)
	}
	return fmt.Sprintf(`<h2 class="h3">Course Objectives</h2><p class="m-0"><strong>%s</strong></p><ul>%s</ul>`, intro, items)
}

// LessonsOnly reports whether the syllabus is a single module that only
// groups lessons, in which case each lesson gets its own box.
func LessonsOnly(modules []doctree.Module) bool {
	if len(modules) != 1 {
		return false
	}
	m := modules[0]
	return m.Synthetic || strings.Contains(m.Title, "Content") || strings.Contains(m.Title, "Lessons")
}

// CourseSyllabus renders modules and lessons as stacked boxes between a
// fixed introduction and final examination.
func CourseSyllabus(c course.Course, theme Theme) string {
	title := html.EscapeString(c.Title)
	if title == "" {
		title = "Course"
	}
	lessonsOnly := LessonsOnly(c.Modules)
	rule := fmt.Sprintf(`<hr class="border-3 my-2" style="background: %s;opacity: 1;padding: 2px;">`, theme.SyllabusHighlight)

	var boxes strings.Builder
	for _, m := range c.Modules {
		if lessonsOnly {
			for _, l := range m.Lessons {
				boxes.WriteString(`<div class="sbox">`)
				fmt.Fprintf(&boxes, `<h4 class="fs-5 fw-normal font-poppins">%s</h4>`, html.EscapeString(l.Title))
				if len(l.Items) > 0 {
					boxes.WriteString(rule)
					fmt.Fprintf(&boxes, "<ul>%s</ul>", itemList(l.Items))
				}
				boxes.WriteString("</div>\n")
			}
			continue
		}

		var lessons strings.Builder
		for _, l := range m.Lessons {
			if len(l.Items) > 0 {
				fmt.Fprintf(&lessons, "<li>%s<ul>%s</ul></li>", html.EscapeString(l.Title), itemList(l.Items))
			} else {
				fmt.Fprintf(&lessons, "<li><strong>%s</strong></li>", html.EscapeString(l.Title))
			}
		}
		boxes.WriteString(`<div class="sbox">`)
		fmt.Fprintf(&boxes, `<h4 class="fs-5 fw-normal font-poppins">%s</h4>`, html.EscapeString(m.Title))
		boxes.WriteString(rule)
		if m.Description != "" {
			fmt.Fprintf(&boxes, `<p class="pl-3 mb-2">%s</p>`, html.EscapeString(m.Description))
		}
		fmt.Fprintf(&boxes, "<ul>%s</ul></div>\n", lessons.String())
	}
	if len(c.Modules) == 0 {
		boxes.WriteString(`<div class="sbox"><p>No syllabus content could be extracted. Please check the document structure.</p></div>` + "\n")
	}

	divided := ""
	if !lessonsOnly && len(c.Modules) > 1 {
		divided = fmt.Sprintf(" divided into %d modules", len(c.Modules))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<h2 class=\"fs-2 mb-3\">%s Course Syllabus</h2>\n", title)
	fmt.Fprintf(&sb, "<p>This %s consists of %d lessons%s. Students are required to take each lesson in sequential order as listed below.</p>\n",
		title, c.LessonCount(), divided)
	fmt.Fprintf(&sb, "<div style=\"background: %s;padding-bottom:1px;\">\n", theme.SyllabusBackground)
	fmt.Fprintf(&sb, "<div class=\"border-0 pl-3 sbox\" style=\"background-color: %s;\"><div class=\"fs-5 fw-normal lh-sm m-0 text-uppercase\">Lessons</div></div>\n", theme.SyllabusHighlight)
	sb.WriteString("<h3 class=\"font-poppins fs-5 fw-normal pl-3 sbox\">Introduction</h3>\n")
	sb.WriteString(boxes.String())
	sb.WriteString("<div class=\"sbox\"><h4 class=\"font-poppins fs-5 m-0 fw-normal\">Final Examination</h4></div>\n")
	sb.WriteString("</div>")
	return sb.String()
}

func itemList(items []string) string {
	var sb strings.Builder
	for _, it := range items {
		sb.WriteString("<li>" + dom.CollapseSpace(it) + "</li>")
	}
	return sb.String()
}

// CourseFAQ renders numbered question/answer items separated by rules.
func CourseFAQ(pairs []doctree.FAQPair) string {
	var sb strings.Builder
	sb.WriteString("<div class=\"faq-section\">\n")
	for i, p := range pairs {
		sb.WriteString("  <div class=\"faq-item\">\n")
		fmt.Fprintf(&sb, "    <div class=\"faq-question\">%d. %s</div>\n", i+1, html.EscapeString(p.Question))
		fmt.Fprintf(&sb, "    <div class=\"faq-answer\">%s</div>\n", p.Answer)
		sb.WriteString("  </div>\n")
		if i < len(pairs)-1 {
			sb.WriteString("  <hr>\n")
		}
	}
	sb.WriteString("</div>")
	return sb.String()
}
