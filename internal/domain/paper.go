package domain

import (
	"context"
	"fmt"
	"strings"
)

// MarkTable assigns marks per question type
type MarkTable map[QuestionType]int

// DefaultMarkTable is the standard marking policy
func DefaultMarkTable() MarkTable {
	return MarkTable{
		QuestionTypeMCQ:         1,
		QuestionTypeTrueFalse:   1,
		QuestionTypeShortAnswer: 2,
		QuestionTypeLongAnswer:  5,
		QuestionTypeHOTS:        3,
	}
}

// Marks returns the marks for t; unknown types score zero
func (m MarkTable) Marks(t QuestionType) int {
	return m[t]
}

// Total sums the marks of the given questions
func (m MarkTable) Total(questions []*Question) int {
	total := 0
	for _, q := range questions {
		total += m.Marks(q.Type)
	}
	return total
}

// Validate requires a non-negative entry for every question type
func (m MarkTable) Validate() error {
	for _, t := range QuestionTypes {
		v, ok := m[t]
		if !ok {
			return NewInvalidConfigError(fmt.Sprintf("mark table has no entry for %s", t))
		}
		if v < 1 {
			return NewInvalidConfigError(fmt.Sprintf("marks for %s must be at least 1", t))
		}
	}
	return nil
}

// QuestionPaper is an ordered selection of questions ready to render
type QuestionPaper struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Instructions    string      `json:"instructions,omitempty"`
	Questions       []*Question `json:"questions"`
	Marks           []int       `json:"marks"`
	TotalMarks      int         `json:"total_marks"`
	DurationMinutes int         `json:"duration_minutes,omitempty"`
}

// ExportFormat is an output document format
type ExportFormat string

const (
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatDOCX ExportFormat = "docx"
)

// ParseExportFormat normalizes a format name. Unknown names fail with ErrUnsupportedFormat.
func ParseExportFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case ExportFormatPDF, ExportFormatDOCX:
		return f, nil
	default:
		return "", NewUnsupportedFormatError(s)
	}
}

// ContentType returns the MIME type of the rendered document
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportFormatPDF:
		return MIMETypePDF
	case ExportFormatDOCX:
		return MIMETypeDOCX
	default:
		return "application/octet-stream"
	}
}

// Filename returns the attachment name for a rendered paper
func (f ExportFormat) Filename() string {
	return "question_paper." + string(f)
}

// PaperExporter renders a paper to bytes without modifying it
type PaperExporter interface {
	Export(ctx context.Context, paper *QuestionPaper, format ExportFormat, includeAnswerKey bool) ([]byte, error)
}
