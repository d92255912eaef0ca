package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

var errNoDocumentPart = errors.New("docx: word/document.xml not found")

// readDOCXParagraphs returns the text of every paragraph in the main document
// part, including paragraphs inside tables, in document order.
func readDOCXParagraphs(content []byte) ([]string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("docx: %w", err)
	}
	for _, file := range reader.File {
		if file.Name != docxBodyPart {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("docx: %w", err)
		}
		defer rc.Close()
		return parseDocumentXML(rc)
	}
	return nil, errNoDocumentPart
}

// parseDocumentXML walks the WordprocessingML token stream. Text runs (w:t) are
// collected per paragraph (w:p); tabs and breaks become spaces.
func parseDocumentXML(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	var paragraphs []string
	var current strings.Builder
	inText := false
	depth := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("docx: malformed document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				if depth == 0 {
					current.Reset()
				}
				depth++
			case "t":
				inText = true
			case "tab", "br", "cr":
				current.WriteByte(' ')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				depth--
				if depth == 0 {
					paragraphs = append(paragraphs, strings.TrimSpace(current.String()))
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}
	return paragraphs, nil
}
