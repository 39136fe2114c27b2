package cleaner

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Stats describes a piece of markup.
type Stats struct {
	Chars int `json:"chars"`
	Words int `json:"words"`
	NBSP  int `json:"nbsp"`
	Tags  int `json:"tags"`
	// Score starts at 100 and loses points for leftovers the enabled
	// options would remove.
	Score int `json:"clean_score"`
}

var (
	tagRe      = regexp.MustCompile(`(?i)</?[a-z][a-z0-9]*\b[^>]*>`)
	stripRe    = regexp.MustCompile(`<[^>]*>`)
	fontRe     = regexp.MustCompile(`(?i)<font[^>]*>|</font>`)
	styleAttr  = regexp.MustCompile(`(?i)style="[^"]*"`)
	classAttr  = regexp.MustCompile(`class="[^"]*"`)
	idAttr     = regexp.MustCompile(`id="[^"]*"`)
	dataAttr   = regexp.MustCompile(`(?i)data-[a-z-]+="[^"]*"`)
	emptyTagRe = regexp.MustCompile(`(?i)<([a-z][a-z0-9]*)(?:\s[^>]*)?>\s*</([a-z][a-z0-9]*)>`)
)

type check struct {
	re      *regexp.Regexp
	weight  int
	enabled func(Options) bool
	count   func(string) int
}

var checks = []check{
	{re: nbspRe, weight: 15, enabled: func(o Options) bool { return o.RemoveNBSP }},
	{re: anyBrRe, weight: 10, enabled: func(o Options) bool { return o.RemoveBr }},
	{re: fontRe, weight: 10, enabled: func(o Options) bool { return o.RemoveFontTags }},
	{re: styleAttr, weight: 15, enabled: func(o Options) bool { return o.RemoveStyles }},
	{re: classAttr, weight: 10, enabled: func(o Options) bool { return o.RemoveClasses }},
	{re: idAttr, weight: 10, enabled: func(o Options) bool { return o.RemoveIDs }},
	{re: dataAttr, weight: 10, enabled: func(o Options) bool { return o.RemoveDataAttrs }},
	{weight: 15, enabled: func(o Options) bool { return o.RemoveEmptyTags }, count: countEmptyTags},
	{re: scriptRe, weight: 10, enabled: func(o Options) bool { return o.RemoveScriptStyle }},
	{re: styleRe, weight: 10, enabled: func(o Options) bool { return o.RemoveScriptStyle }},
	{re: commentRe, weight: 5, enabled: func(o Options) bool { return o.RemoveComments }},
}

// Measure computes the statistics for content under the given options.
func Measure(content string, opt Options) Stats {
	st := Stats{
		Chars: utf8.RuneCountInString(content),
		Words: len(strings.Fields(stripRe.ReplaceAllString(content, ""))),
		NBSP:  len(nbspRe.FindAllStringIndex(content, -1)),
		Tags:  len(tagRe.FindAllStringIndex(content, -1)),
	}
	if strings.TrimSpace(content) == "" {
		return st
	}

	score := 100
	for _, c := range checks {
		if !c.enabled(opt) {
			continue
		}
		var n int
		if c.count != nil {
			n = c.count(content)
		} else {
			n = len(c.re.FindAllStringIndex(content, -1))
		}
		if n > 0 {
			score -= min(n*2, c.weight)
		}
	}
	st.Score = max(0, score)
	return st
}

// countEmptyTags counts open/close pairs of the same tag with only
// whitespace between them. RE2 has no backreferences, so the tag names are
// compared after matching.
func countEmptyTags(content string) int {
	n := 0
	for _, m := range emptyTagRe.FindAllStringSubmatch(content, -1) {
		if strings.EqualFold(m[1], m[2]) {
			n++
		}
	}
	return n
}

// ReductionPercent is the share of characters removed, rounded.
func ReductionPercent(before, after string) int {
	if len(before) == 0 {
		return 0
	}
	return int(math.Round(float64(len(before)-len(after)) / float64(len(before)) * 100))
}
