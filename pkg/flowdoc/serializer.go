package flowdoc

import (
	"fmt"

	"md-export-be/pkg/document"
	"md-export-be/pkg/markdown"
)

// DiagramResult is one rasterized diagram, keyed by ordinal. A missing
// ordinal means rasterization failed; the serializer degrades that diagram
// to a visible caption instead of aborting the document.
type DiagramResult struct {
	Data     []byte
	WidthPx  int
	HeightPx int
}

// Serialize walks the block sequence and builds the flow-document tree.
// It is pure: the input blocks are never mutated.
func Serialize(blocks []markdown.Block, diagrams map[int]DiagramResult, style document.Style) *Document {
	s := &serializer{style: style, diagrams: diagrams}
	doc := &Document{Style: style}

	for i := 0; i < len(blocks); i++ {
		switch b := blocks[i].(type) {
		case markdown.Heading:
			doc.Nodes = append(doc.Nodes, s.heading(b))
		case markdown.Paragraph:
			doc.Nodes = append(doc.Nodes, s.paragraph(b))
		case markdown.ListItem:
			doc.Nodes = append(doc.Nodes, s.listItem(b))
		case markdown.BlockQuote:
			doc.Nodes = append(doc.Nodes, s.quoteLine(b))
		case markdown.CodeLine:
			doc.Nodes = append(doc.Nodes, s.codeLine(b)...)
		case markdown.Rule:
			doc.Nodes = append(doc.Nodes, s.rule())
		case markdown.Diagram:
			doc.Nodes = append(doc.Nodes, s.diagram(b))
		case markdown.TableRow:
			// One table per contiguous run of TableRow blocks.
			rows := []markdown.TableRow{b}
			for i+1 < len(blocks) {
				next, ok := blocks[i+1].(markdown.TableRow)
				if !ok {
					break
				}
				rows = append(rows, next)
				i++
			}
			doc.Nodes = append(doc.Nodes, s.table(rows))
		}
	}
	return doc
}

type serializer struct {
	style    document.Style
	diagrams map[int]DiagramResult
}

// textRuns maps inline runs to styled flow runs at the given size.
// Link URLs are not printed inline; link text renders in the accent color.
func (s *serializer) textRuns(runs []markdown.InlineRun, sizePt float64, bold bool) []TextRun {
	out := make([]TextRun, 0, len(runs))
	for _, r := range runs {
		tr := TextRun{Text: r.Text, SizePt: sizePt, Bold: bold}
		switch r.Kind {
		case markdown.RunBold:
			tr.Bold = true
		case markdown.RunItalic:
			tr.Italic = true
		case markdown.RunCode:
			tr.Font = s.style.MonoFont
			tr.SizePt = s.style.CodeSize
			tr.Color = s.style.InlineCodeText
			tr.Background = s.style.InlineCodeBack
		case markdown.RunLink:
			tr.Color = s.style.AccentColor
		}
		out = append(out, tr)
	}
	return out
}

func (s *serializer) heading(h markdown.Heading) Node {
	p := Paragraph{
		Runs:          s.textRuns(h.Runs, s.style.HeadingSizes[h.Level-1], true),
		SpaceBeforePt: 12,
		SpaceAfterPt:  6,
	}
	// H1/H2 carry the section divider, matching the markup stylesheet.
	if h.Level <= 2 {
		p.BorderBottom = &Border{Color: s.style.BorderColor, WidthPt: 0.75}
	}
	return p
}

func (s *serializer) paragraph(b markdown.Paragraph) Node {
	return Paragraph{
		Runs:         s.textRuns(b.Runs, s.style.BodySize, false),
		SpaceAfterPt: 8,
	}
}

func (s *serializer) listItem(b markdown.ListItem) Node {
	prefix := "• "
	if b.Ordered {
		prefix = fmt.Sprintf("%d. ", b.Index)
	}
	runs := append(
		[]TextRun{{Text: prefix, SizePt: s.style.BodySize}},
		s.textRuns(b.Runs, s.style.BodySize, false)...,
	)
	return Paragraph{
		Runs:         runs,
		IndentPt:     18,
		SpaceAfterPt: 2,
	}
}

func (s *serializer) quoteLine(b markdown.BlockQuote) Node {
	return Paragraph{
		Runs:       s.textRuns(b.Runs, s.style.BodySize, false),
		IndentPt:   12,
		Shading:    s.style.QuoteBackground,
		BorderLeft: &Border{Color: s.style.AccentColor, WidthPt: 2.25},
	}
}

// codeLine renders one code line as a shaded monospace paragraph. The first
// and last lines add an empty padding paragraph so the shading forms one
// visual block.
func (s *serializer) codeLine(b markdown.CodeLine) []Node {
	padding := Paragraph{
		Runs:    []TextRun{{Text: "", Font: s.style.MonoFont, SizePt: 2}},
		Shading: s.style.CodeBackground,
	}
	line := Paragraph{
		Runs: []TextRun{{
			Text:   b.Text,
			Font:   s.style.MonoFont,
			SizePt: s.style.CodeSize,
		}},
		Shading: s.style.CodeBackground,
	}

	var nodes []Node
	if b.First {
		nodes = append(nodes, padding)
	}
	nodes = append(nodes, line)
	if b.Last {
		nodes = append(nodes, padding)
	}
	return nodes
}

func (s *serializer) rule() Node {
	return Paragraph{
		Runs:          []TextRun{{Text: "", SizePt: 2}},
		SpaceBeforePt: 6,
		SpaceAfterPt:  6,
		BorderBottom:  &Border{Color: s.style.BorderColor, WidthPt: 0.75},
	}
}

func (s *serializer) diagram(d markdown.Diagram) Node {
	res, ok := s.diagrams[d.Ordinal]
	if !ok || len(res.Data) == 0 {
		// Rasterization failed for this ordinal: visible fallback, never abort.
		return Paragraph{
			Runs:          []TextRun{{Text: "[Diagram]", Italic: true, SizePt: s.style.BodySize}},
			Alignment:     AlignCenter,
			SpaceBeforePt: 6,
			SpaceAfterPt:  6,
		}
	}

	w, h := res.WidthPx, res.HeightPx
	if max := s.style.MaxImageWidthPx; w > max && w > 0 {
		h = h * max / w
		w = max
	}
	return Image{Data: res.Data, WidthPx: w, HeightPx: h, Alignment: AlignCenter}
}

func (s *serializer) table(rows []markdown.TableRow) Node {
	columns := markdown.TableColumnCount(rows)
	t := Table{ColumnCount: columns}

	for _, row := range rows {
		shading := ""
		switch {
		case row.IsHeader:
			shading = s.style.TableHeaderBack
		case row.RowIndex%2 == 0:
			shading = s.style.TableStripe
		}

		r := TableRow{Header: row.IsHeader}
		for c := 0; c < columns; c++ {
			var runs []TextRun
			if c < len(row.Cells) {
				runs = s.textRuns(row.Cells[c], s.style.BodySize, row.IsHeader)
			}
			r.Cells = append(r.Cells, TableCell{
				Paragraph: Paragraph{Runs: runs},
				Shading:   shading,
			})
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}
