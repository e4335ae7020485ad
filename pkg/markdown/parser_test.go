package markdown

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseHeadingAndParagraph(t *testing.T) {
	blocks := NewParser().Parse("# Title\n\nHello **world**.")

	want := []Block{
		Heading{Level: 1, Runs: []InlineRun{{Kind: RunPlain, Text: "Title"}}},
		Paragraph{Runs: []InlineRun{
			{Kind: RunPlain, Text: "Hello "},
			{Kind: RunBold, Text: "world"},
			{Kind: RunPlain, Text: "."},
		}},
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestParseHeadingLevels(t *testing.T) {
	blocks := NewParser().Parse("# a\n## b\n### c\n#### d\n##### e")

	levels := []int{}
	for _, b := range blocks {
		if h, ok := b.(Heading); ok {
			levels = append(levels, h.Level)
		}
	}
	if !reflect.DeepEqual(levels, []int{1, 2, 3, 4}) {
		t.Errorf("heading levels = %v", levels)
	}
	// Five hashes is not a heading; it falls through to a paragraph.
	if _, ok := blocks[len(blocks)-1].(Paragraph); !ok {
		t.Errorf("expected ##### line to parse as paragraph, got %#v", blocks[len(blocks)-1])
	}
}

func TestParseTable(t *testing.T) {
	blocks := NewParser().Parse("| A | B |\n|---|---|\n| 1 | 2 |")

	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks (separator emits none), got %d: %#v", len(blocks), blocks)
	}

	header := blocks[0].(TableRow)
	if !header.IsHeader || header.RowIndex != 0 {
		t.Errorf("header row = %#v", header)
	}
	if PlainText(header.Cells[0]) != "A" || PlainText(header.Cells[1]) != "B" {
		t.Errorf("header cells = %#v", header.Cells)
	}

	data := blocks[1].(TableRow)
	if data.IsHeader || data.RowIndex != 1 {
		t.Errorf("data row = %#v", data)
	}
	if PlainText(data.Cells[0]) != "1" || PlainText(data.Cells[1]) != "2" {
		t.Errorf("data cells = %#v", data.Cells)
	}

	if got := TableColumnCount([]TableRow{header, data}); got != 2 {
		t.Errorf("column count = %d, want 2", got)
	}
}

func TestParseTableShortRow(t *testing.T) {
	blocks := NewParser().Parse("| A | B | C |\n|---|---|---|\n| only |")

	rows := []TableRow{}
	for _, b := range blocks {
		rows = append(rows, b.(TableRow))
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if got := TableColumnCount(rows); got != 3 {
		t.Errorf("column count = %d, want 3", got)
	}
	if len(rows[1].Cells) != 1 {
		t.Errorf("short row keeps its own cell count, got %d", len(rows[1].Cells))
	}
}

func TestParseTableEndsOnNonPipeLine(t *testing.T) {
	blocks := NewParser().Parse("| A |\n|---|\n| 1 |\nafter")

	if _, ok := blocks[len(blocks)-1].(Paragraph); !ok {
		t.Fatalf("line after table should re-classify as paragraph: %#v", blocks)
	}

	// A later table starts fresh: its first row is a header again.
	blocks = NewParser().Parse("| A |\n| 1 |\n\n| X |\n| 2 |")
	headers := 0
	for _, b := range blocks {
		if r, ok := b.(TableRow); ok && r.IsHeader {
			headers++
		}
	}
	if headers != 2 {
		t.Errorf("expected 2 header rows across 2 tables, got %d", headers)
	}
}

func TestParseLists(t *testing.T) {
	blocks := NewParser().Parse("- one\n* two\n3. three\n10. ten")

	want := []Block{
		ListItem{Ordered: false, Runs: []InlineRun{{Kind: RunPlain, Text: "one"}}},
		ListItem{Ordered: false, Runs: []InlineRun{{Kind: RunPlain, Text: "two"}}},
		ListItem{Ordered: true, Index: 3, Runs: []InlineRun{{Kind: RunPlain, Text: "three"}}},
		ListItem{Ordered: true, Index: 10, Runs: []InlineRun{{Kind: RunPlain, Text: "ten"}}},
	}
	if !reflect.DeepEqual(blocks, want) {
		t.Errorf("Parse = %#v, want %#v", blocks, want)
	}
}

func TestParseBlockQuotePerLine(t *testing.T) {
	blocks := NewParser().Parse("> first\n> second")

	if len(blocks) != 2 {
		t.Fatalf("multi-line quote must stay one block per line, got %d", len(blocks))
	}
	for i, b := range blocks {
		if _, ok := b.(BlockQuote); !ok {
			t.Errorf("block %d = %#v, want BlockQuote", i, b)
		}
	}
}

func TestParseCodeBlock(t *testing.T) {
	blocks := NewParser().Parse("```go\nfunc main() {\n}\n```")

	if len(blocks) != 2 {
		t.Fatalf("blocks = %#v", blocks)
	}
	first := blocks[0].(CodeLine)
	last := blocks[1].(CodeLine)
	if first.Language != "go" || last.Language != "go" {
		t.Errorf("language carried on every line: %#v %#v", first, last)
	}
	if !first.First || first.Last || last.First || !last.Last {
		t.Errorf("first/last flags wrong: %#v %#v", first, last)
	}
	if first.Text != "func main() {" || last.Text != "}" {
		t.Errorf("code text not verbatim: %q %q", first.Text, last.Text)
	}
}

func TestParseUnterminatedFenceClosesAtEOF(t *testing.T) {
	blocks := NewParser().Parse("```\ndangling")

	if len(blocks) != 1 {
		t.Fatalf("blocks = %#v", blocks)
	}
	line := blocks[0].(CodeLine)
	if line.Text != "dangling" || !line.First || !line.Last {
		t.Errorf("unterminated fence line = %#v", line)
	}
}

func TestParseDiagramFence(t *testing.T) {
	blocks := NewParser().Parse("```mermaid\ngraph TD\n```")

	if len(blocks) != 1 {
		t.Fatalf("diagram fence must emit exactly one block, got %#v", blocks)
	}
	d := blocks[0].(Diagram)
	if d.Source != "graph TD" || d.Ordinal != 0 {
		t.Errorf("diagram = %#v", d)
	}
	for _, b := range blocks {
		if _, ok := b.(CodeLine); ok {
			t.Errorf("diagram fences must not emit code lines")
		}
	}
}

func TestParseDiagramOrdinals(t *testing.T) {
	source := strings.Join([]string{
		"# Title",
		"```mermaid",
		"graph TD",
		"```",
		"some text",
		"- item",
		"```mermaid",
		"sequenceDiagram",
		"```",
	}, "\n")

	p := NewParser()
	diagrams := DiagramBlocks(p.Parse(source))
	if len(diagrams) != 2 {
		t.Fatalf("diagrams = %#v", diagrams)
	}
	if diagrams[0].Ordinal != 0 || diagrams[1].Ordinal != 1 {
		t.Errorf("ordinals = %d, %d; want 0, 1", diagrams[0].Ordinal, diagrams[1].Ordinal)
	}

	// The ordinal counter is per call: a second parse starts at 0 again.
	again := DiagramBlocks(p.Parse(source))
	if again[0].Ordinal != 0 {
		t.Errorf("ordinal counter leaked across calls: %d", again[0].Ordinal)
	}
}

func TestParseHorizontalRule(t *testing.T) {
	blocks := NewParser().Parse("---\n***\n___\n--")

	rules := 0
	for _, b := range blocks {
		if _, ok := b.(Rule); ok {
			rules++
		}
	}
	if rules != 3 {
		t.Errorf("rules = %d, want 3", rules)
	}
	if _, ok := blocks[len(blocks)-1].(Paragraph); !ok {
		t.Errorf("-- is not a rule, want paragraph: %#v", blocks[len(blocks)-1])
	}
}

func TestParseIsIdempotent(t *testing.T) {
	source := "# T\n\npara\n\n```mermaid\ngraph TD\n```\n\n| a |\n| b |\n\n> q\n\n---"
	p := NewParser()
	first := p.Parse(source)
	second := p.Parse(source)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-parsing identical input diverged")
	}
}

// logicalLineCount is the per-block line coverage used to check that the
// parser never loses lines as input grows.
func logicalLineCount(blocks []Block) int {
	return len(blocks)
}

func TestParseMonotonicProgress(t *testing.T) {
	lines := []string{
		"# Title",
		"text with **bold**",
		"- item",
		"| a | b |",
		"| 1 | 2 |",
		"> quote",
		"```",
		"code",
		"```",
		"---",
	}

	p := NewParser()
	prev := 0
	for i := 1; i <= len(lines); i++ {
		count := logicalLineCount(p.Parse(strings.Join(lines[:i], "\n")))
		if count < prev {
			t.Fatalf("line count regressed from %d to %d at prefix %d", prev, count, i)
		}
		prev = count
	}
}

func TestParseCustomDiagramLanguage(t *testing.T) {
	blocks := NewParserWithLanguage("plantuml").Parse("```plantuml\n@startuml\n```\n```mermaid\ngraph TD\n```")

	if len(DiagramBlocks(blocks)) != 1 {
		t.Fatalf("expected one diagram: %#v", blocks)
	}
	codeLines := 0
	for _, b := range blocks {
		if c, ok := b.(CodeLine); ok {
			codeLines++
			if c.Language != "mermaid" {
				t.Errorf("code line language = %q", c.Language)
			}
		}
	}
	if codeLines != 1 {
		t.Errorf("code lines = %d, want 1", codeLines)
	}
}
