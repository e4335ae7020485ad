package markdown

import "regexp"

// RunKind identifies the styling of a single inline run.
type RunKind int

const (
	RunPlain RunKind = iota
	RunBold
	RunItalic
	RunCode
	RunLink
)

// InlineRun is one styled span of text inside a single source line.
// Runs never span lines and are immutable once produced.
type InlineRun struct {
	Kind RunKind
	Text string
	Href string // only set for RunLink
}

// inlinePattern matches the four inline spans in one alternation so that
// tie-breaking at equal start positions is decided by group order
// (link > bold > italic > code), not by comparing separate match objects.
//
// Group layout: 1,2 = link text/url; 3 = bold; 4 = italic; 5 = code.
var inlinePattern = regexp.MustCompile(
	`\[([^\]]+)\]\(([^)]*)\)` +
		`|\*\*([^*]+)\*\*` +
		`|\*([^*]+)\*` +
		"|`([^`]+)`")

// TokenizeLine scans one line of text (block prefix already stripped) and
// returns its ordered inline runs. The scan is a single left-to-right pass:
// literal text before the earliest match becomes a Plain run, the match
// becomes its typed run, and consumed characters are never re-scanned.
// Unterminated markers fall through to plain text.
//
// TokenizeLine is pure and safe for concurrent use.
func TokenizeLine(line string) []InlineRun {
	var runs []InlineRun
	rest := line
	for rest != "" {
		loc := inlinePattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			runs = append(runs, InlineRun{Kind: RunPlain, Text: rest})
			break
		}
		if loc[0] > 0 {
			runs = append(runs, InlineRun{Kind: RunPlain, Text: rest[:loc[0]]})
		}
		switch {
		case loc[2] >= 0: // link
			runs = append(runs, InlineRun{Kind: RunLink, Text: rest[loc[2]:loc[3]], Href: rest[loc[4]:loc[5]]})
		case loc[6] >= 0: // bold
			runs = append(runs, InlineRun{Kind: RunBold, Text: rest[loc[6]:loc[7]]})
		case loc[8] >= 0: // italic
			runs = append(runs, InlineRun{Kind: RunItalic, Text: rest[loc[8]:loc[9]]})
		case loc[10] >= 0: // code
			runs = append(runs, InlineRun{Kind: RunCode, Text: rest[loc[10]:loc[11]]})
		}
		rest = rest[loc[1]:]
	}
	return runs
}

// PlainText flattens runs back to their visible text, without markers.
func PlainText(runs []InlineRun) string {
	out := ""
	for _, r := range runs {
		out += r.Text
	}
	return out
}
