package markdown

import (
	"reflect"
	"testing"
)

func TestTokenizeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []InlineRun
	}{
		{
			name: "plain text only",
			line: "just some text",
			want: []InlineRun{{Kind: RunPlain, Text: "just some text"}},
		},
		{
			name: "bold in the middle",
			line: "Hello **world**.",
			want: []InlineRun{
				{Kind: RunPlain, Text: "Hello "},
				{Kind: RunBold, Text: "world"},
				{Kind: RunPlain, Text: "."},
			},
		},
		{
			name: "italic",
			line: "an *emphasized* word",
			want: []InlineRun{
				{Kind: RunPlain, Text: "an "},
				{Kind: RunItalic, Text: "emphasized"},
				{Kind: RunPlain, Text: " word"},
			},
		},
		{
			name: "inline code",
			line: "run `go vet` first",
			want: []InlineRun{
				{Kind: RunPlain, Text: "run "},
				{Kind: RunCode, Text: "go vet"},
				{Kind: RunPlain, Text: " first"},
			},
		},
		{
			name: "link keeps text and href",
			line: "see [docs](https://example.com) here",
			want: []InlineRun{
				{Kind: RunPlain, Text: "see "},
				{Kind: RunLink, Text: "docs", Href: "https://example.com"},
				{Kind: RunPlain, Text: " here"},
			},
		},
		{
			name: "earliest match wins over later stronger style",
			line: "*first* then **second**",
			want: []InlineRun{
				{Kind: RunItalic, Text: "first"},
				{Kind: RunPlain, Text: " then "},
				{Kind: RunBold, Text: "second"},
			},
		},
		{
			name: "bold beats italic at same start",
			line: "**both**",
			want: []InlineRun{{Kind: RunBold, Text: "both"}},
		},
		{
			name: "unterminated marker falls through to plain",
			line: "a lone * star",
			want: []InlineRun{{Kind: RunPlain, Text: "a lone * star"}},
		},
		{
			name: "unterminated bold falls through",
			line: "broken **bold",
			want: []InlineRun{{Kind: RunPlain, Text: "broken **bold"}},
		},
		{
			name: "consumed characters are not rescanned",
			line: "`a*b` *c*",
			want: []InlineRun{
				{Kind: RunCode, Text: "a*b"},
				{Kind: RunPlain, Text: " "},
				{Kind: RunItalic, Text: "c"},
			},
		},
		{
			name: "empty line yields no runs",
			line: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenizeLine(tt.line)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TokenizeLine(%q) = %#v, want %#v", tt.line, got, tt.want)
			}
		})
	}
}

func TestTokenizeLineIsPure(t *testing.T) {
	line := "mix of **bold** and `code` and [a](b)"
	first := TokenizeLine(line)
	second := TokenizeLine(line)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated tokenization diverged: %#v vs %#v", first, second)
	}
}

func TestPlainText(t *testing.T) {
	runs := TokenizeLine("Hello **world**, see [docs](x)")
	if got := PlainText(runs); got != "Hello world, see docs" {
		t.Errorf("PlainText = %q", got)
	}
}
