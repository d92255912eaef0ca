package export

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

// docxEpoch is used for every zip entry timestamp
var docxEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const documentFooter = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1134" w:right="1134" w:bottom="1134" w:left="1134" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr></w:body></w:document>`

// paragraph formatting per style: justification, indent (twips), bold,
// italic, size (half-points), page break before
type docxStyle struct {
	jc        string
	indent    int
	bold      bool
	italic    bool
	size      int
	pageBreak bool
}

var docxStyles = map[lineStyle]docxStyle{
	styleTitle:        {jc: "center", bold: true, size: 36},
	styleMeta:         {jc: "center", size: 22},
	styleInstructions: {italic: true, size: 22},
	styleQuestion:     {size: 24},
	styleOption:       {indent: 567, size: 24},
	styleHeading:      {bold: true, size: 28, pageBreak: true},
	styleAnswer:       {size: 24},
}

func renderDOCX(lines []line) ([]byte, error) {
	var body strings.Builder
	body.WriteString(documentHeader)
	for _, l := range lines {
		if err := writeParagraph(&body, l); err != nil {
			return nil, err
		}
	}
	body.WriteString(documentFooter)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct{ name, content string }{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", body.String()},
	}
	for _, part := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: part.name, Method: zip.Deflate, Modified: docxEpoch})
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize docx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeParagraph(b *strings.Builder, l line) error {
	st := docxStyles[l.style]
	b.WriteString("<w:p><w:pPr>")
	if st.pageBreak {
		b.WriteString(`<w:pageBreakBefore/>`)
	}
	b.WriteString(`<w:spacing w:after="120"/>`)
	if st.indent > 0 {
		fmt.Fprintf(b, `<w:ind w:left="%d"/>`, st.indent)
	}
	if st.jc != "" {
		fmt.Fprintf(b, `<w:jc w:val="%s"/>`, st.jc)
	}
	b.WriteString("</w:pPr><w:r><w:rPr>")
	if st.bold {
		b.WriteString("<w:b/>")
	}
	if st.italic {
		b.WriteString("<w:i/>")
	}
	fmt.Fprintf(b, `<w:sz w:val="%d"/>`, st.size)
	b.WriteString(`</w:rPr><w:t xml:space="preserve">`)
	if err := xml.EscapeText(b, []byte(l.text)); err != nil {
		return err
	}
	b.WriteString("</w:t></w:r></w:p>")
	return nil
}
