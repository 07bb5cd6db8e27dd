package completion

import "fmt"

// Result is the payload of a completion. It is one of PlainText, ContentList or Other.
type Result interface {
	isResult()
}

// PlainText is a completion whose content is a single string.
type PlainText struct {
	Text string
}

// ContentList is a completion whose content is an ordered list of parts.
type ContentList struct {
	Parts []Part
}

// Other is any completion shape not covered by PlainText or ContentList.
type Other struct {
	Value any
}

func (PlainText) isResult()   {}
func (ContentList) isResult() {}
func (Other) isResult()       {}

// Part is one element of a ContentList: a TextPart or an OpaquePart.
type Part interface {
	isPart()
}

// TextPart carries text.
type TextPart struct {
	Text string
}

// OpaquePart is a part without text, such as a tool call or an image.
type OpaquePart struct {
	Value any
}

func (TextPart) isPart()   {}
func (OpaquePart) isPart() {}

// Normalize reduces a result to a plain string. It never fails: shapes that
// carry no text fall back to their fmt representation.
func Normalize(result Result) string {
	switch r := result.(type) {
	case PlainText:
		return r.Text
	case ContentList:
		if len(r.Parts) == 0 {
			return "[]"
		}
		return normalizePart(r.Parts[0])
	case Other:
		return stringify(r.Value)
	}
	return ""
}

func normalizePart(part Part) string {
	switch p := part.(type) {
	case TextPart:
		return p.Text
	case OpaquePart:
		return stringify(p.Value)
	default:
		return stringify(p)
	}
}

func stringify(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
