package dom

// Kind is the closed set of element classes the extractors switch on.
type Kind int

const (
	KindOther Kind = iota
	KindHeading
	KindParagraph
	KindList
	KindListItem
	KindImage
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	case KindListItem:
		return "list_item"
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	default:
		return "other"
	}
}

// Classify maps an element to its Kind.
func Classify(e Element) Kind {
	if e.IsHeading() {
		return KindHeading
	}
	switch e.Tag {
	case "p":
		return KindParagraph
	case "ul", "ol":
		return KindList
	case "li":
		return KindListItem
	case "img":
		return KindImage
	case "table":
		return KindTable
	}
	return KindOther
}
