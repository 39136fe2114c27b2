package doctree

// Source is a converted upload: an HTML fragment ready for normalization.
type Source struct {
	Filename string // Original upload name
	Title    string // Document title (from metadata or filename)
	HTML     string // Body fragment produced by the converter
}

// BlockKind tags the variant held by a Block.
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockParagraph BlockKind = "paragraph"
	BlockList      BlockKind = "list"
	BlockImage     BlockKind = "image"
)

// UnresolvedURL is the image source used until a real URL is supplied.
const UnresolvedURL = "#"

// Block is one classified unit of renderable content. Only the fields for
// its Kind are meaningful.
type Block struct {
	Kind BlockKind `json:"type"`

	Level int    `json:"level,omitempty"` // Heading: 1..6
	HTML  string `json:"html,omitempty"`  // Heading, Paragraph

	Ordered bool     `json:"ordered,omitempty"` // List
	Items   []string `json:"items,omitempty"`   // List: item inner HTML

	Alt         string `json:"alt,omitempty"`          // Image
	Placeholder string `json:"placeholder,omitempty"`  // Image: "[Image n]"
	ResolvedURL string `json:"resolved_url,omitempty"` // Image: "#" until patched
}

// FAQPair is a matched question and answer. Answer is HTML.
type FAQPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Module is a syllabus module.
type Module struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Lessons     []Lesson `json:"lessons"`
	Synthetic   bool     `json:"synthetic,omitempty"` // Created because no module marker existed
}

// Lesson is one lesson inside a module. Items are inner HTML strings.
type Lesson struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

// LessonCount sums lessons across modules.
func LessonCount(modules []Module) int {
	n := 0
	for _, m := range modules {
		n += len(m.Lessons)
	}
	return n
}
