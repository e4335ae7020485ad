// Package markup serializes a parsed Block sequence to an HTML document with
// an embedded stylesheet. The stylesheet is driven by the same style
// constants as the flow-document serializer so both outputs stay visually
// consistent. Diagrams are embedded as mermaid markers for the downstream
// print renderer; they are not pre-rasterized here.
package markup

import (
	"fmt"
	"html"
	"strings"

	"md-export-be/pkg/document"
	"md-export-be/pkg/markdown"
)

// Serialize renders the block sequence as a standalone HTML page.
func Serialize(blocks []markdown.Block, title string, style document.Style) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("<style>\n")
	b.WriteString(stylesheet(style))
	b.WriteString("</style>\n</head>\n<body>\n")
	writeBody(&b, blocks)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func writeBody(b *strings.Builder, blocks []markdown.Block) {
	for i := 0; i < len(blocks); i++ {
		switch blk := blocks[i].(type) {
		case markdown.Heading:
			fmt.Fprintf(b, "<h%d>%s</h%d>\n", blk.Level, inlineHTML(blk.Runs), blk.Level)

		case markdown.Paragraph:
			fmt.Fprintf(b, "<p>%s</p>\n", inlineHTML(blk.Runs))

		case markdown.BlockQuote:
			// One blockquote per source line, matching the flow-document
			// serializer's per-line quote paragraphs.
			fmt.Fprintf(b, "<blockquote><p>%s</p></blockquote>\n", inlineHTML(blk.Runs))

		case markdown.Rule:
			b.WriteString("<hr>\n")

		case markdown.Diagram:
			fmt.Fprintf(b, "<div class=\"mermaid\">%s</div>\n", html.EscapeString(blk.Source))

		case markdown.ListItem:
			// Adjacency grouping: one list element per contiguous run of
			// items sharing the ordered flag.
			items := []markdown.ListItem{blk}
			for i+1 < len(blocks) {
				next, ok := blocks[i+1].(markdown.ListItem)
				if !ok || next.Ordered != blk.Ordered {
					break
				}
				items = append(items, next)
				i++
			}
			tag := "ul"
			if blk.Ordered {
				tag = "ol"
			}
			fmt.Fprintf(b, "<%s>\n", tag)
			for _, item := range items {
				if item.Ordered {
					fmt.Fprintf(b, "<li value=\"%d\">%s</li>\n", item.Index, inlineHTML(item.Runs))
				} else {
					fmt.Fprintf(b, "<li>%s</li>\n", inlineHTML(item.Runs))
				}
			}
			fmt.Fprintf(b, "</%s>\n", tag)

		case markdown.CodeLine:
			lines := []markdown.CodeLine{blk}
			for i+1 < len(blocks) {
				next, ok := blocks[i+1].(markdown.CodeLine)
				if !ok {
					break
				}
				lines = append(lines, next)
				i++
			}
			class := ""
			if blk.Language != "" {
				class = fmt.Sprintf(" class=\"language-%s\"", html.EscapeString(blk.Language))
			}
			fmt.Fprintf(b, "<pre><code%s>", class)
			for j, line := range lines {
				if j > 0 {
					b.WriteString("\n")
				}
				b.WriteString(html.EscapeString(line.Text))
			}
			b.WriteString("</code></pre>\n")

		case markdown.TableRow:
			rows := []markdown.TableRow{blk}
			for i+1 < len(blocks) {
				next, ok := blocks[i+1].(markdown.TableRow)
				if !ok {
					break
				}
				rows = append(rows, next)
				i++
			}
			writeTable(b, rows)
		}
	}
}

func writeTable(b *strings.Builder, rows []markdown.TableRow) {
	columns := markdown.TableColumnCount(rows)
	b.WriteString("<table>\n")
	for _, row := range rows {
		tag := "td"
		class := ""
		if row.IsHeader {
			tag = "th"
		} else if row.RowIndex%2 == 0 {
			// Explicit stripe class: must match the flow-document rule.
			class = " class=\"stripe\""
		}
		fmt.Fprintf(b, "<tr%s>", class)
		for c := 0; c < columns; c++ {
			content := ""
			if c < len(row.Cells) {
				content = inlineHTML(row.Cells[c])
			}
			fmt.Fprintf(b, "<%s>%s</%s>", tag, content, tag)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>\n")
}

func inlineHTML(runs []markdown.InlineRun) string {
	var b strings.Builder
	for _, r := range runs {
		text := html.EscapeString(r.Text)
		switch r.Kind {
		case markdown.RunBold:
			b.WriteString("<strong>" + text + "</strong>")
		case markdown.RunItalic:
			b.WriteString("<em>" + text + "</em>")
		case markdown.RunCode:
			b.WriteString("<code>" + text + "</code>")
		case markdown.RunLink:
			fmt.Fprintf(&b, "<a href=\"%s\">%s</a>", html.EscapeString(r.Href), text)
		default:
			b.WriteString(text)
		}
	}
	return b.String()
}

func stylesheet(s document.Style) string {
	var b strings.Builder
	fmt.Fprintf(&b, `@page { margin: %.0fmm %.0fmm %.0fmm %.0fmm; }
body { font-family: "%s", sans-serif; font-size: %.0fpt; color: #%s; }
h1 { font-size: %.0fpt; border-bottom: 1px solid #%s; padding-bottom: 4px; }
h2 { font-size: %.0fpt; border-bottom: 1px solid #%s; padding-bottom: 3px; }
h3 { font-size: %.0fpt; }
h4 { font-size: %.0fpt; }
a { color: #%s; }
`,
		s.MarginTopMM, s.MarginRightMM, s.MarginBottomMM, s.MarginLeftMM,
		s.BodyFont, s.BodySize, s.TextColor,
		s.HeadingSizes[0], s.BorderColor,
		s.HeadingSizes[1], s.BorderColor,
		s.HeadingSizes[2], s.HeadingSizes[3],
		s.AccentColor,
	)
	fmt.Fprintf(&b, `pre { background: #%s; border: 1px solid #%s; border-radius: 4px; padding: 8px; }
pre code { font-family: "%s", monospace; font-size: %.0fpt; background: none; color: inherit; }
code { font-family: "%s", monospace; font-size: %.0fpt; background: #%s; color: #%s; padding: 1px 4px; border-radius: 3px; }
blockquote { background: #%s; border-left: 3px solid #%s; margin: 4px 0; padding: 4px 12px; }
blockquote p { margin: 0; }
`,
		s.CodeBackground, s.BorderColor,
		s.MonoFont, s.CodeSize,
		s.MonoFont, s.CodeSize, s.InlineCodeBack, s.InlineCodeText,
		s.QuoteBackground, s.AccentColor,
	)
	fmt.Fprintf(&b, `table { border-collapse: collapse; width: 100%%; margin: 8px 0; }
th, td { border: 1px solid #%s; padding: 6px 10px; text-align: left; }
th { background: #%s; }
tr.stripe td { background: #%s; }
hr { border: none; border-bottom: 1px solid #%s; margin: 12px 0; }
.mermaid { text-align: center; margin: 12px 0; }
`,
		s.BorderColor, s.TableHeaderBack, s.TableStripe, s.BorderColor,
	)
	return b.String()
}
