package render

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Theme holds the site-specific strings baked into generated markup.
type Theme struct {
	DividerColor   string `yaml:"divider_color"`
	OrnamentColor  string `yaml:"ornament_color"`
	OrnamentGlyphs string `yaml:"ornament_glyphs"`

	FAQHeading string `yaml:"faq_heading"`

	OverviewVideoURL string `yaml:"overview_video_url"`
	ObjectivesIntro  string `yaml:"objectives_intro"`

	SyllabusHighlight  string `yaml:"syllabus_highlight"`
	SyllabusBackground string `yaml:"syllabus_background"`

	GlossaryActiveColor string `yaml:"glossary_active_color"`
}

// DefaultTheme is the stock look of the generated fragments.
func DefaultTheme() Theme {
	return Theme{
		DividerColor:        "#116466",
		OrnamentColor:       "red",
		OrnamentGlyphs:      "✦ ✦ ✦",
		FAQHeading:          "Frequently Asked Questions",
		OverviewVideoURL:    "https://player.vimeo.com/video/680313019?h=6c9335ab94",
		ObjectivesIntro:     "After completing this course, the learner will be able to:",
		SyllabusHighlight:   "#ffcd05",
		SyllabusBackground:  "#f2f3f5",
		GlossaryActiveColor: "#ffbf00",
	}
}

// LoadTheme reads a YAML theme file. Keys missing from the file keep their
// default values. An empty path returns the default theme.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	if path == "" {
		return theme, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return theme, fmt.Errorf("read theme %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &theme); err != nil {
		return theme, fmt.Errorf("unmarshal theme %s: %w", path, err)
	}
	return theme, nil
}
