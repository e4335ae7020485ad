package markup

import (
	"regexp"
	"strings"
	"testing"

	"md-export-be/pkg/document"
	"md-export-be/pkg/markdown"
)

func render(source, title string) string {
	return Serialize(markdown.NewParser().Parse(source), title, document.Default())
}

func TestSerializeSkeleton(t *testing.T) {
	out := render("hello", "My Doc")

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>My Doc</title>",
		"<style>",
		"<p>hello</p>",
		"</html>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestSerializeHeadings(t *testing.T) {
	out := render("# One\n#### Four", "t")

	if !strings.Contains(out, "<h1>One</h1>") || !strings.Contains(out, "<h4>Four</h4>") {
		t.Errorf("headings missing:\n%s", out)
	}
}

func TestSerializeInline(t *testing.T) {
	out := render("**b** *i* `c` [text](https://x.test/p?q=1)", "t")

	for _, want := range []string{
		"<strong>b</strong>",
		"<em>i</em>",
		"<code>c</code>",
		`<a href="https://x.test/p?q=1">text</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q in:\n%s", want, out)
		}
	}
}

func TestSerializeListGrouping(t *testing.T) {
	out := render("- a\n- b\n1. x\n2. y\n- c", "t")

	if strings.Count(out, "<ul>") != 2 {
		t.Errorf("ul count = %d, want 2 (adjacency grouping)", strings.Count(out, "<ul>"))
	}
	if strings.Count(out, "<ol>") != 1 {
		t.Errorf("ol count = %d, want 1", strings.Count(out, "<ol>"))
	}
	if !strings.Contains(out, `<li value="2">y</li>`) {
		t.Errorf("ordered items must carry their source index:\n%s", out)
	}
}

func TestSerializeCodeBlockGrouping(t *testing.T) {
	out := render("```go\na\nb\n```", "t")

	if strings.Count(out, "<pre>") != 1 {
		t.Errorf("contiguous code lines must form one pre block")
	}
	if !strings.Contains(out, `<code class="language-go">a`+"\n"+"b</code>") {
		t.Errorf("code content wrong:\n%s", out)
	}
}

func TestSerializeTable(t *testing.T) {
	out := render("| A | B |\n|---|---|\n| 1 | 2 |\n| 3 |", "t")

	if !strings.Contains(out, "<tr><th>A</th><th>B</th></tr>") {
		t.Errorf("header row wrong:\n%s", out)
	}
	// Row index 2 stripes; its missing second cell pads to an empty td.
	if !strings.Contains(out, `<tr class="stripe"><td>3</td><td></td></tr>`) {
		t.Errorf("striped padded row wrong:\n%s", out)
	}
	if !strings.Contains(out, "<tr><td>1</td><td>2</td></tr>") {
		t.Errorf("odd data row must not stripe:\n%s", out)
	}
}

func TestSerializeQuoteAndRule(t *testing.T) {
	out := render("> q1\n> q2\n---", "t")

	if strings.Count(out, "<blockquote>") != 2 {
		t.Errorf("per-line quotes, got %d blockquotes", strings.Count(out, "<blockquote>"))
	}
	if !strings.Contains(out, "<hr>") {
		t.Errorf("rule missing")
	}
}

func TestSerializeDiagramMarker(t *testing.T) {
	out := render("```mermaid\ngraph TD\nA --> B\n```", "t")

	if !strings.Contains(out, `<div class="mermaid">graph TD`+"\n"+`A --&gt; B</div>`) {
		t.Errorf("mermaid marker wrong:\n%s", out)
	}
	if strings.Contains(out, "<pre>") {
		t.Errorf("diagram source must not render as a code block")
	}
}

func TestSerializeEscaping(t *testing.T) {
	out := render("a <script> & \"b\"", "<evil>")

	if strings.Contains(out, "<script>") {
		t.Errorf("body not escaped:\n%s", out)
	}
	if !strings.Contains(out, "<title>&lt;evil&gt;</title>") {
		t.Errorf("title not escaped:\n%s", out)
	}
}

func TestStylesheetCarriesStyleConstants(t *testing.T) {
	out := render("x", "t")

	for _, want := range []string{
		"@page { margin: 20mm 15mm 20mm 15mm; }",
		"#1A1A2E",
		"#0969DA",
		"tr.stripe td { background: #F8F9FA; }",
		`font-family: "Consolas", monospace`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stylesheet missing %q", want)
		}
	}
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Stripping all markup from a rendered heading+paragraph document must give
// back the plain text of the source.
func TestSerializeTextRoundTrip(t *testing.T) {
	blocks := markdown.NewParser().Parse("# Title\n\nHello **world**.")
	out := Serialize(blocks, "t", document.Default())

	body := out[strings.Index(out, "<body>"):]
	text := strings.Join(strings.Fields(tagPattern.ReplaceAllString(body, " ")), " ")
	if text != "Title Hello world." {
		t.Errorf("stripped text = %q", text)
	}
}
