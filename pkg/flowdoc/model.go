// Package flowdoc turns a parsed Block sequence into a flow-document object
// tree: paragraphs, tables and images with explicit spacing, borders and
// shading, ready for packing into a word-processor file.
package flowdoc

import "md-export-be/pkg/document"

// Document is the serialized flow-document tree.
type Document struct {
	Style document.Style
	Nodes []Node
}

// Node is one flow-document element.
type Node interface {
	flowNode()
}

// Alignment values for paragraphs and images.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
)

// Border is a single paragraph or cell edge.
type Border struct {
	Color   string // hex, no '#'
	WidthPt float64
}

// TextRun is one styled span inside a paragraph.
type TextRun struct {
	Text       string
	Bold       bool
	Italic     bool
	Font       string // empty = body font
	SizePt     float64
	Color      string // hex, no '#'; empty = text color
	Background string // hex, no '#'; empty = none
}

// Paragraph is one visual line/region of text.
type Paragraph struct {
	Runs          []TextRun
	SpaceBeforePt float64
	SpaceAfterPt  float64
	IndentPt      float64
	Shading       string // hex background, no '#'
	BorderBottom  *Border
	BorderLeft    *Border
	Alignment     string
}

// Table is one contiguous run of source table rows.
type Table struct {
	Rows        []TableRow
	ColumnCount int
}

// TableRow is one rendered table row.
type TableRow struct {
	Cells  []TableCell
	Header bool
}

// TableCell is one rendered cell. Shading carries the header/stripe fill.
type TableCell struct {
	Paragraph Paragraph
	Shading   string
}

// Image is a rasterized diagram placed in the flow.
type Image struct {
	Data      []byte
	WidthPx   int
	HeightPx  int
	Alignment string
}

func (Paragraph) flowNode() {}
func (Table) flowNode()     {}
func (Image) flowNode()     {}
