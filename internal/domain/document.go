package domain

import "context"

// Supported document MIME types
const (
	MIMETypePDF  = "application/pdf"
	MIMETypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Document is an uploaded file awaiting extraction. It is never modified.
type Document struct {
	ID       string
	Filename string
	MIMEType string
	Content  []byte
}

// Span is a half-open [Start, End) range of character offsets into ExtractedText.CleanedText.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of characters covered by the span
func (s Span) Len() int {
	return s.End - s.Start
}

// ExtractedText is the result of reading a Document.
type ExtractedText struct {
	SourceDocumentID string `json:"source_document_id"`
	RawText          string `json:"raw_text"`
	CleanedText      string `json:"cleaned_text"`
	Pages            []Span `json:"pages,omitempty"`
	Paragraphs       []Span `json:"paragraphs,omitempty"`
	OCRUsed          bool   `json:"ocr_used"`
	// OCRTimedOut marks a result degraded by the OCR deadline; it is not cached.
	OCRTimedOut      bool   `json:"ocr_timed_out,omitempty"`
}

// Chunk is a bounded window of cleaned text used as generation input.
type Chunk struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	OrderIndex int    `json:"order_index"`
}

// Extractor turns a Document into ExtractedText.
// Implementations fail with ErrUnsupportedFormat or ErrExtractionFailed.
type Extractor interface {
	Extract(ctx context.Context, doc *Document) (*ExtractedText, error)
}
