package render

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Class names used by comparison blocks.
const (
	ComparisonClass = "comparison"
	OriginalClass   = "orig"
	EncodedClass    = "spng"
)

// ImageSources builds image URLs for a test name.
type ImageSources struct {
	// Base is prepended verbatim, e.g. "./images/".
	Base string

	// OriginalSuffix follows the name for the reference image, e.g. "-orig.png".
	OriginalSuffix string

	// EncodedSuffix follows the name for the candidate image, e.g. "-spng.png".
	EncodedSuffix string
}

// Original returns the reference image URL for name.
func (s ImageSources) Original(name string) string {
	return s.Base + name + s.OriginalSuffix
}

// Encoded returns the candidate image URL for name.
func (s ImageSources) Encoded(name string) string {
	return s.Base + name + s.EncodedSuffix
}

// NewComparisonBlock creates the block for one test name.
// The name is used verbatim as the id, the label text and a path segment.
func NewComparisonBlock(name string, sources ImageSources) *html.Node {
	block := element(atom.Div,
		html.Attribute{Key: "class", Val: ComparisonClass},
		html.Attribute{Key: "id", Val: name},
	)

	label := element(atom.P)
	label.AppendChild(&html.Node{Type: html.TextNode, Data: name})
	block.AppendChild(label)

	block.AppendChild(element(atom.Img,
		html.Attribute{Key: "src", Val: sources.Original(name)},
		html.Attribute{Key: "class", Val: OriginalClass},
	))
	block.AppendChild(element(atom.Img,
		html.Attribute{Key: "src", Val: sources.Encoded(name)},
		html.Attribute{Key: "class", Val: EncodedClass},
	))

	return block
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}
