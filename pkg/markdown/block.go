package markdown

// Block is one structural unit of a parsed document. The parser emits blocks
// in document order; that order is load-bearing for every serializer.
type Block interface {
	blockNode()
}

// Heading is a `#`..`####` line. Level is 1..4.
type Heading struct {
	Level int
	Runs  []InlineRun
}

// Paragraph is the catch-all block for lines that match nothing else.
type Paragraph struct {
	Runs []InlineRun
}

// ListItem is one bullet or numbered line. Items are emitted individually;
// a contiguous run of ListItem blocks with the same Ordered value renders as
// one list (adjacency grouping, no wrapper node).
type ListItem struct {
	Ordered bool
	Index   int // 1-based, meaningful only when Ordered
	Runs    []InlineRun
}

// TableRow is one `|`-delimited line. Rows are emitted individually; the
// column count of a table is max(len(Cells)) over its contiguous rows and
// short rows are padded by the serializers, not here.
type TableRow struct {
	Cells    [][]InlineRun
	IsHeader bool
	RowIndex int
}

// BlockQuote is one `>` line. Multi-line quotes are adjacent BlockQuote
// blocks, never merged.
type BlockQuote struct {
	Runs []InlineRun
}

// CodeLine is one physical line inside a fenced code block. The fence
// language is carried on every line of the block.
type CodeLine struct {
	Language string
	Text     string
	First    bool
	Last     bool
}

// Diagram is one fenced block whose language is the diagram language.
// Source is the verbatim fence contents; Ordinal is the 0-based index among
// all diagram blocks in the document, used to join rasterized images back in.
type Diagram struct {
	Source  string
	Ordinal int
}

// Rule is a horizontal rule line.
type Rule struct{}

func (Heading) blockNode()    {}
func (Paragraph) blockNode()  {}
func (ListItem) blockNode()   {}
func (TableRow) blockNode()   {}
func (BlockQuote) blockNode() {}
func (CodeLine) blockNode()   {}
func (Diagram) blockNode()    {}
func (Rule) blockNode()       {}
