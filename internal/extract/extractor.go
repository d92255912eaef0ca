package extract

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"quiz-forge/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const (
	DefaultMinCharsPerPage = 50
	DefaultOCRTimeout      = 2 * time.Minute
)

// Extractor dispatches documents to a format reader and normalizes the result.
type Extractor struct {
	pdf             *PDFReader
	ocr             OCREngine
	minCharsPerPage int
	ocrTimeout      time.Duration
	logger          *zap.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithOCR enables the OCR fallback for PDFs without a usable text layer.
func WithOCR(engine OCREngine) Option {
	return func(e *Extractor) {
		e.ocr = engine
	}
}

// WithMinCharsPerPage sets the text-layer density below which OCR is attempted.
func WithMinCharsPerPage(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.minCharsPerPage = n
		}
	}
}

// WithOCRTimeout bounds a single document's OCR run.
func WithOCRTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.ocrTimeout = d
		}
	}
}

// NewExtractor creates an Extractor reading PDFs through pdf.
func NewExtractor(pdf *PDFReader, logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		pdf:             pdf,
		minCharsPerPage: DefaultMinCharsPerPage,
		ocrTimeout:      DefaultOCRTimeout,
		logger:          logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ domain.Extractor = (*Extractor)(nil)

// Extract reads doc and returns its raw and cleaned text.
func (e *Extractor) Extract(ctx context.Context, doc *domain.Document) (*domain.ExtractedText, error) {
	if doc == nil || len(doc.Content) == 0 {
		return nil, domain.NewExtractionFailedError("document is empty", nil)
	}

	format, err := DetectFormat(doc)
	if err != nil {
		return nil, err
	}

	var (
		pages   []string
		outcome ocrOutcome
	)
	switch format {
	case domain.MIMETypePDF:
		pages, outcome, err = e.readPDF(ctx, doc)
	case domain.MIMETypeDOCX:
		pages, err = e.readDOCX(doc)
	}
	if err != nil {
		return nil, err
	}

	raw := strings.Join(pages, "\f")
	cleaned := Normalize(raw)
	return &domain.ExtractedText{
		SourceDocumentID: doc.ID,
		RawText:          raw,
		CleanedText:      cleaned,
		Pages:            pageSpans(pages, cleaned),
		Paragraphs:       paragraphSpans(cleaned),
		OCRUsed:          outcome == ocrApplied,
		OCRTimedOut:      outcome == ocrTimedOut,
	}, nil
}

type ocrOutcome int

const (
	ocrSkipped ocrOutcome = iota
	ocrApplied
	ocrTimedOut
)

func (e *Extractor) readPDF(ctx context.Context, doc *domain.Document) ([]string, ocrOutcome, error) {
	pages, err := e.pdf.Pages(ctx, doc.Content)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ocrSkipped, ctxErr
		}
		if e.ocr == nil || errors.Is(err, ErrToolNotFound) {
			return nil, ocrSkipped, domain.NewExtractionFailedError("failed to read pdf text layer", err).
				WithContext("filename", doc.Filename)
		}
		e.logger.Warn("pdf text layer unreadable, trying OCR", zap.String("filename", doc.Filename), zap.Error(err))
		pages = nil
	}

	if e.ocr == nil || (len(pages) > 0 && density(pages) >= e.minCharsPerPage) {
		return pages, ocrSkipped, nil
	}

	ocrCtx, cancel := context.WithTimeout(ctx, e.ocrTimeout)
	defer cancel()
	ocrPages, err := e.ocr.Recognize(ocrCtx, doc.Content)
	switch {
	case err == nil:
		return ocrPages, ocrApplied, nil
	case ctx.Err() != nil:
		return nil, ocrSkipped, ctx.Err()
	case errors.Is(err, context.DeadlineExceeded):
		e.logger.Warn("OCR timed out, keeping text layer",
			zap.String("filename", doc.Filename),
			zap.Duration("timeout", e.ocrTimeout),
		)
		return pages, ocrTimedOut, nil
	case hasText(pages):
		e.logger.Warn("OCR failed, keeping text layer", zap.String("filename", doc.Filename), zap.Error(err))
		return pages, ocrSkipped, nil
	default:
		return nil, ocrSkipped, domain.NewExtractionFailedError("OCR failed", err).WithContext("filename", doc.Filename)
	}
}

func (e *Extractor) readDOCX(doc *domain.Document) ([]string, error) {
	paragraphs, err := readDOCXParagraphs(doc.Content)
	if err != nil {
		return nil, domain.NewExtractionFailedError("failed to read docx", err).WithContext("filename", doc.Filename)
	}
	return []string{strings.Join(paragraphs, "\n")}, nil
}

// DetectFormat resolves a document's MIME type from the declared type, then the
// file extension, then the content itself.
func DetectFormat(doc *domain.Document) (string, error) {
	if declared, _, err := mime.ParseMediaType(doc.MIMEType); err == nil {
		switch declared {
		case domain.MIMETypePDF, domain.MIMETypeDOCX:
			return declared, nil
		}
	}

	switch strings.ToLower(filepath.Ext(doc.Filename)) {
	case ".pdf":
		return domain.MIMETypePDF, nil
	case ".docx":
		return domain.MIMETypeDOCX, nil
	}

	detected := mimetype.Detect(doc.Content)
	switch {
	case detected.Is(domain.MIMETypePDF):
		return domain.MIMETypePDF, nil
	case detected.Is(domain.MIMETypeDOCX):
		return domain.MIMETypeDOCX, nil
	case detected.Is("application/zip") && bytes.Contains(doc.Content, []byte(docxBodyPart)):
		return domain.MIMETypeDOCX, nil
	}
	return "", domain.NewUnsupportedFormatError(detected.String()).WithContext("filename", doc.Filename)
}
