package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultDiagramLanguage is the fence language treated as a diagram block.
const DefaultDiagramLanguage = "mermaid"

var (
	headingPattern   = regexp.MustCompile(`^(#{1,4})\s+(.*)$`)
	orderedPattern   = regexp.MustCompile(`^(\d+)\.\s+(.*)$`)
	rulePattern      = regexp.MustCompile(`^(-{3,}|\*{3,}|_{3,})$`)
	fencePattern     = regexp.MustCompile("^```\\s*([A-Za-z0-9_+-]*)\\s*$")
	separatorPattern = regexp.MustCompile(`^:?-+:?$`)
)

// Parser converts Markdown source into an ordered Block sequence.
// The zero value is not usable; use NewParser. A Parser carries no state
// between Parse calls (the diagram ordinal counter is per call), so one
// Parser may serve concurrent conversions.
type Parser struct {
	diagramLanguage string
}

func NewParser() *Parser {
	return &Parser{diagramLanguage: DefaultDiagramLanguage}
}

// NewParserWithLanguage overrides the diagram fence language.
func NewParserWithLanguage(language string) *Parser {
	if language == "" {
		language = DefaultDiagramLanguage
	}
	return &Parser{diagramLanguage: language}
}

// Parse scans the source line by line and returns the document model.
// Parsing is total: every line classifies into some block (the Paragraph
// branch is the catch-all), so Parse never fails. An unterminated fence or
// table at end of input is closed at end of document.
func (p *Parser) Parse(source string) []Block {
	source = strings.ReplaceAll(source, "\r\n", "\n")
	lines := strings.Split(source, "\n")
	blocks := make([]Block, 0, len(lines))

	// Per-call state. The diagram ordinal in particular must reset here so
	// concurrent conversions never interfere.
	diagramOrdinal := 0
	inCode := false
	codeLanguage := ""
	var codeBuffer []string
	inTable := false
	tableRowIndex := 0
	tableSawSeparator := false

	closeCode := func() {
		if codeLanguage == p.diagramLanguage {
			blocks = append(blocks, Diagram{
				Source:  strings.Join(codeBuffer, "\n"),
				Ordinal: diagramOrdinal,
			})
			diagramOrdinal++
		} else {
			for i, text := range codeBuffer {
				blocks = append(blocks, CodeLine{
					Language: codeLanguage,
					Text:     text,
					First:    i == 0,
					Last:     i == len(codeBuffer)-1,
				})
			}
		}
		inCode = false
		codeLanguage = ""
		codeBuffer = nil
	}

	closeTable := func() {
		inTable = false
		tableRowIndex = 0
		tableSawSeparator = false
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t")

		// CodeBlock mode: buffer verbatim until the closing fence.
		if inCode {
			if strings.TrimSpace(line) == "```" {
				closeCode()
			} else {
				codeBuffer = append(codeBuffer, raw)
			}
			continue
		}

		// Table mode: the first non-`|` line ends the table and is
		// re-classified under the default rules below.
		if inTable && !strings.HasPrefix(strings.TrimSpace(line), "|") {
			closeTable()
		}

		trimmed := strings.TrimSpace(line)

		switch {
		case fencePattern.MatchString(trimmed):
			inCode = true
			codeLanguage = fencePattern.FindStringSubmatch(trimmed)[1]

		case strings.HasPrefix(trimmed, "|"):
			inTable = true
			cells := splitTableCells(trimmed)
			if isSeparatorRow(cells) {
				tableSawSeparator = true
				continue
			}
			cellRuns := make([][]InlineRun, 0, len(cells))
			for _, cell := range cells {
				cellRuns = append(cellRuns, TokenizeLine(cell))
			}
			blocks = append(blocks, TableRow{
				Cells:    cellRuns,
				IsHeader: tableRowIndex == 0 && !tableSawSeparator,
				RowIndex: tableRowIndex,
			})
			tableRowIndex++

		case headingPattern.MatchString(trimmed):
			m := headingPattern.FindStringSubmatch(trimmed)
			blocks = append(blocks, Heading{Level: len(m[1]), Runs: TokenizeLine(m[2])})

		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			blocks = append(blocks, ListItem{Ordered: false, Runs: TokenizeLine(trimmed[2:])})

		case orderedPattern.MatchString(trimmed):
			m := orderedPattern.FindStringSubmatch(trimmed)
			index, _ := strconv.Atoi(m[1])
			blocks = append(blocks, ListItem{Ordered: true, Index: index, Runs: TokenizeLine(m[2])})

		case rulePattern.MatchString(trimmed):
			blocks = append(blocks, Rule{})

		case strings.HasPrefix(trimmed, ">"):
			text := strings.TrimPrefix(trimmed, ">")
			text = strings.TrimPrefix(text, " ")
			blocks = append(blocks, BlockQuote{Runs: TokenizeLine(text)})

		case trimmed == "":
			// blank line: no block

		default:
			blocks = append(blocks, Paragraph{Runs: TokenizeLine(trimmed)})
		}
	}

	// End of document closes whatever is still open.
	if inCode {
		closeCode()
	}

	return blocks
}

// splitTableCells splits a `|`-delimited row into trimmed cell texts,
// discarding the empty leading/trailing cells produced by the surrounding
// pipes.
func splitTableCells(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, 0, len(parts))
	for _, part := range parts {
		cells = append(cells, strings.TrimSpace(part))
	}
	return cells
}

// isSeparatorRow reports whether every cell is a dash/colon header
// separator. Separator rows emit no block.
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		if !separatorPattern.MatchString(cell) {
			return false
		}
	}
	return true
}

// TableColumnCount is max(cell count) over one contiguous table region.
// It is derived here instead of being stored on any block so the model
// stays free of presentation decisions.
func TableColumnCount(rows []TableRow) int {
	max := 0
	for _, row := range rows {
		if len(row.Cells) > max {
			max = len(row.Cells)
		}
	}
	return max
}

// DiagramBlocks returns the diagram placeholders of a block sequence in
// ordinal order.
func DiagramBlocks(blocks []Block) []Diagram {
	var out []Diagram
	for _, b := range blocks {
		if d, ok := b.(Diagram); ok {
			out = append(out, d)
		}
	}
	return out
}
