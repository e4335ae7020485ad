// Package docx packs a flow-document tree into a Word file: the OOXML parts
// (content types, relationships, document body, image media) assembled into
// a zip entirely in memory.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"md-export-be/pkg/flowdoc"
)

const (
	twipsPerPoint = 20
	twipsPerMM    = 56.693
	emuPerPixel   = 9525
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const rootRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Pack serializes the flow-document tree into .docx bytes.
func Pack(doc *flowdoc.Document) ([]byte, error) {
	p := &packer{doc: doc}
	documentXML := p.documentXML()

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	entries := map[string]string{
		"[Content_Types].xml":          contentTypesXML,
		"_rels/.rels":                  rootRelsXML,
		"word/_rels/document.xml.rels": p.documentRelsXML(),
		"word/document.xml":            documentXML,
	}
	for path, content := range entries {
		w, err := zw.Create(path)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
	}
	for i, img := range p.images {
		w, err := zw.Create(fmt.Sprintf("word/media/image%d.png", i+1))
		if err != nil {
			return nil, fmt.Errorf("create media: %w", err)
		}
		if _, err := w.Write(img); err != nil {
			return nil, fmt.Errorf("write media: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}

type packer struct {
	doc    *flowdoc.Document
	images [][]byte // media parts in relationship order
}

func (p *packer) documentRelsXML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + "\n")
	for i := range p.images {
		fmt.Fprintf(&b,
			`  <Relationship Id="rIdImg%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image%d.png"/>`+"\n",
			i+1, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func (p *packer) documentXML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"` + "\n")
	b.WriteString(`            xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` + "\n")
	b.WriteString(`            xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` + "\n")
	b.WriteString(`            xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"` + "\n")
	b.WriteString(`            xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` + "\n")
	b.WriteString("<w:body>\n")

	for _, node := range p.doc.Nodes {
		switch n := node.(type) {
		case flowdoc.Paragraph:
			b.WriteString(p.paragraphXML(n))
		case flowdoc.Table:
			b.WriteString(p.tableXML(n))
		case flowdoc.Image:
			b.WriteString(p.imageXML(n))
		}
	}

	b.WriteString(p.sectionXML())
	b.WriteString("</w:body>\n</w:document>")
	return b.String()
}

// sectionXML carries the page geometry: A4 with the style's margins.
func (p *packer) sectionXML() string {
	s := p.doc.Style
	return fmt.Sprintf(
		"<w:sectPr><w:pgSz w:w=\"11906\" w:h=\"16838\"/><w:pgMar w:top=\"%d\" w:right=\"%d\" w:bottom=\"%d\" w:left=\"%d\"/></w:sectPr>\n",
		mmToTwips(s.MarginTopMM), mmToTwips(s.MarginRightMM),
		mmToTwips(s.MarginBottomMM), mmToTwips(s.MarginLeftMM),
	)
}

func (p *packer) paragraphXML(par flowdoc.Paragraph) string {
	var b strings.Builder
	b.WriteString("<w:p>")
	b.WriteString(p.paragraphPropsXML(par))
	for _, run := range par.Runs {
		b.WriteString(p.runXML(run))
	}
	b.WriteString("</w:p>\n")
	return b.String()
}

func (p *packer) paragraphPropsXML(par flowdoc.Paragraph) string {
	var b strings.Builder
	b.WriteString("<w:pPr>")
	if par.BorderBottom != nil || par.BorderLeft != nil {
		b.WriteString("<w:pBdr>")
		if par.BorderLeft != nil {
			fmt.Fprintf(&b, `<w:left w:val="single" w:sz="%d" w:space="4" w:color="%s"/>`,
				int(par.BorderLeft.WidthPt*8), par.BorderLeft.Color)
		}
		if par.BorderBottom != nil {
			fmt.Fprintf(&b, `<w:bottom w:val="single" w:sz="%d" w:space="1" w:color="%s"/>`,
				int(par.BorderBottom.WidthPt*8), par.BorderBottom.Color)
		}
		b.WriteString("</w:pBdr>")
	}
	if par.Shading != "" {
		fmt.Fprintf(&b, `<w:shd w:val="clear" w:fill="%s"/>`, par.Shading)
	}
	if par.SpaceBeforePt > 0 || par.SpaceAfterPt > 0 {
		fmt.Fprintf(&b, `<w:spacing w:before="%d" w:after="%d"/>`,
			int(par.SpaceBeforePt*twipsPerPoint), int(par.SpaceAfterPt*twipsPerPoint))
	}
	if par.IndentPt > 0 {
		fmt.Fprintf(&b, `<w:ind w:left="%d"/>`, int(par.IndentPt*twipsPerPoint))
	}
	if par.Alignment == flowdoc.AlignCenter {
		b.WriteString(`<w:jc w:val="center"/>`)
	}
	b.WriteString("</w:pPr>")
	return b.String()
}

func (p *packer) runXML(run flowdoc.TextRun) string {
	style := p.doc.Style
	var b strings.Builder
	b.WriteString("<w:r><w:rPr>")

	font := run.Font
	if font == "" {
		font = style.BodyFont
	}
	fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, escape(font), escape(font))

	size := run.SizePt
	if size == 0 {
		size = style.BodySize
	}
	// w:sz is half-points.
	fmt.Fprintf(&b, `<w:sz w:val="%d"/>`, int(size*2))

	color := run.Color
	if color == "" {
		color = style.TextColor
	}
	fmt.Fprintf(&b, `<w:color w:val="%s"/>`, color)

	if run.Bold {
		b.WriteString("<w:b/>")
	}
	if run.Italic {
		b.WriteString("<w:i/>")
	}
	if run.Background != "" {
		fmt.Fprintf(&b, `<w:shd w:val="clear" w:fill="%s"/>`, run.Background)
	}
	b.WriteString("</w:rPr>")
	fmt.Fprintf(&b, `<w:t xml:space="preserve">%s</w:t>`, escape(run.Text))
	b.WriteString("</w:r>")
	return b.String()
}

func (p *packer) tableXML(t flowdoc.Table) string {
	borderColor := p.doc.Style.BorderColor
	var b strings.Builder
	b.WriteString("<w:tbl><w:tblPr>")
	b.WriteString(`<w:tblW w:w="5000" w:type="pct"/>`)
	b.WriteString("<w:tblBorders>")
	for _, edge := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		fmt.Fprintf(&b, `<w:%s w:val="single" w:sz="6" w:color="%s"/>`, edge, borderColor)
	}
	b.WriteString("</w:tblBorders></w:tblPr>")

	b.WriteString("<w:tblGrid>")
	for i := 0; i < t.ColumnCount; i++ {
		b.WriteString("<w:gridCol/>")
	}
	b.WriteString("</w:tblGrid>")

	for _, row := range t.Rows {
		b.WriteString("<w:tr>")
		for _, cell := range row.Cells {
			b.WriteString("<w:tc><w:tcPr>")
			if cell.Shading != "" {
				fmt.Fprintf(&b, `<w:shd w:val="clear" w:fill="%s"/>`, cell.Shading)
			}
			b.WriteString("</w:tcPr>")
			b.WriteString(p.paragraphXML(cell.Paragraph))
			b.WriteString("</w:tc>")
		}
		b.WriteString("</w:tr>")
	}
	b.WriteString("</w:tbl>\n")
	return b.String()
}

func (p *packer) imageXML(img flowdoc.Image) string {
	p.images = append(p.images, img.Data)
	relID := fmt.Sprintf("rIdImg%d", len(p.images))
	cx := img.WidthPx * emuPerPixel
	cy := img.HeightPx * emuPerPixel

	var b strings.Builder
	b.WriteString("<w:p><w:pPr>")
	if img.Alignment == flowdoc.AlignCenter {
		b.WriteString(`<w:jc w:val="center"/>`)
	}
	b.WriteString("</w:pPr><w:r><w:drawing><wp:inline>")
	fmt.Fprintf(&b, `<wp:extent cx="%d" cy="%d"/>`, cx, cy)
	fmt.Fprintf(&b, `<wp:docPr id="%d" name="Diagram %d"/>`, len(p.images), len(p.images))
	b.WriteString(`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture"><pic:pic>`)
	fmt.Fprintf(&b, `<pic:nvPicPr><pic:cNvPr id="%d" name="Diagram %d"/><pic:cNvPicPr/></pic:nvPicPr>`,
		len(p.images), len(p.images))
	fmt.Fprintf(&b, `<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`, relID)
	b.WriteString("<pic:spPr><a:xfrm><a:off x=\"0\" y=\"0\"/>")
	fmt.Fprintf(&b, `<a:ext cx="%d" cy="%d"/>`, cx, cy)
	b.WriteString(`</a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`)
	b.WriteString("</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>\n")
	return b.String()
}

func mmToTwips(mm float64) int {
	return int(mm * twipsPerMM)
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
