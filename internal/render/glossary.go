package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/dgallion1/contentgen/internal/glossary"
)

const glossaryScript = `<script>
    function openItem(glossaryItem, evt) {
        var items = document.getElementsByClassName("result-container");
        for (var i = 0; i < items.length; i++) {
            items[i].style.display = "none";
        }
        document.getElementById(glossaryItem).style.display = "block";

        var btns = document.getElementsByClassName("glossaryBtn");
        for (var j = 0; j < btns.length; j++) {
            btns[j].classList.remove("active");
        }
        evt.target.classList.add("active");
    }
</script>`

// glossaryPanelID maps a bucket to the element id of its panel.
func glossaryPanelID(letter string) string {
	if letter == glossary.Other {
		return "other"
	}
	return letter
}

// Glossary renders one button and one panel per letter A-Z; terms outside
// A-Z get a trailing "#" tab when there are any. Only the A panel starts
// visible.
func Glossary(terms []glossary.Term, theme Theme) string {
	groups := glossary.Group(terms)

	var buttons, panels strings.Builder
	for _, letter := range glossary.Letters {
		bucket := groups[letter]
		if letter == glossary.Other && len(bucket) == 0 {
			continue
		}
		id := glossaryPanelID(letter)
		first := letter == "A"

		active, display := "", "none"
		if first {
			active, display = " active", "block"
		}
		fmt.Fprintf(&buttons, "<button class=\"glossaryBtn btn btn-outline-primary m-1%s\" onclick=\"openItem('%s', event)\">%s</button>\n",
			active, id, html.EscapeString(letter))

		fmt.Fprintf(&panels, "<div id=\"%s\" class=\"result-container glosary-item\" style=\"display:%s;\">\n", id, display)
		if len(bucket) == 0 {
			fmt.Fprintf(&panels, "<h2>%s</h2><p>No terms found</p>\n", letter)
		}
		for _, t := range bucket {
			fmt.Fprintf(&panels, "<h2>%s</h2>\n<div>%s</div>\n", html.EscapeString(t.Term), t.Definition)
		}
		panels.WriteString("</div>\n")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<style>
    .active.glossaryBtn,
    .glossaryBtn:hover {
        background: black !important;
        transform: translateY(-4px) scale(1);
        transition: 0.2s;
        color: %s!important
    }
</style>
`, theme.GlossaryActiveColor)
	sb.WriteString("<div class=\"custom-glossary\">\n")
	sb.WriteString(glossaryScript)
	sb.WriteString("\n<div class=\"container\">\n<div class=\"glossaryBtnMain alphabet-buttons mb-3\">\n")
	sb.WriteString(buttons.String())
	sb.WriteString("</div>\n")
	sb.WriteString(panels.String())
	sb.WriteString("</div>\n</div>")
	return sb.String()
}
