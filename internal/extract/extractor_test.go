package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"quiz-forge/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// runnerFunc adapts a function to CommandRunner.
type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f runnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

func staticRunner(out string, err error) runnerFunc {
	return func(context.Context, string, ...string) ([]byte, error) {
		return []byte(out), err
	}
}

type fakeOCR struct {
	pages []string
	err   error
	delay time.Duration
	calls int32
}

func (f *fakeOCR) Recognize(ctx context.Context, _ []byte) ([]string, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.pages, f.err
}

func createTestDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("[Content_Types].xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`))
	require.NoError(t, err)
	f, err = w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Cell Biology</w:t></w:r></w:p>
    <w:p><w:r><w:t xml:space="preserve">The mitochondria </w:t></w:r><w:r><w:t>produce ATP.</w:t></w:r></w:p>
    <w:tbl><w:tr><w:tc><w:p><w:r><w:t>Ribosomes</w:t></w:r><w:r><w:tab/><w:t>build proteins.</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
  </w:body>
</w:document>`

func TestExtractor_DOCX(t *testing.T) {
	e := NewExtractor(NewPDFReader(staticRunner("", nil), ""), zap.NewNop())
	doc := &domain.Document{
		ID:       "doc-1",
		Filename: "notes.docx",
		MIMEType: domain.MIMETypeDOCX,
		Content:  createTestDOCX(t, sampleDocumentXML),
	}

	result, err := e.Extract(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "doc-1", result.SourceDocumentID)
	assert.Equal(t, "Cell Biology\nThe mitochondria produce ATP.\nRibosomes build proteins.", result.CleanedText)
	assert.Len(t, result.Paragraphs, 3)
	assert.Len(t, result.Pages, 1)
	assert.False(t, result.OCRUsed)
	assert.LessOrEqual(t, Length(result.CleanedText), Length(result.RawText))
}

func TestExtractor_DOCXCorrupt(t *testing.T) {
	e := NewExtractor(NewPDFReader(staticRunner("", nil), ""), zap.NewNop())
	doc := &domain.Document{Filename: "broken.docx", Content: []byte("PK\x03\x04 not really a zip")}

	_, err := e.Extract(context.Background(), doc)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtractor_DOCXWithoutDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	_, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	e := NewExtractor(NewPDFReader(staticRunner("", nil), ""), zap.NewNop())
	_, err = e.Extract(context.Background(), &domain.Document{Filename: "empty.docx", Content: buf.Bytes()})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtractor_PDFTextLayer(t *testing.T) {
	layer := "Chapter One\nThe French Revolution began in\n1789 and reshaped Europe.\n\nIt ended the monarchy.\f" +
		"Chapter Two\nNapoleon rose to power after the revolu-\ntion and crowned himself emperor.\f"
	ocr := &fakeOCR{pages: []string{"should not be used"}}
	e := NewExtractor(NewPDFReader(staticRunner(layer, nil), ""), zap.NewNop(), WithOCR(ocr), WithMinCharsPerPage(10))

	result, err := e.Extract(context.Background(), &domain.Document{
		ID: "doc-2", Filename: "history.pdf", MIMEType: "application/pdf", Content: []byte("%PDF-1.4"),
	})
	require.NoError(t, err)

	assert.Equal(t, int32(0), atomic.LoadInt32(&ocr.calls))
	assert.False(t, result.OCRUsed)
	assert.Equal(t,
		"Chapter One The French Revolution began in 1789 and reshaped Europe.\nIt ended the monarchy.\n"+
			"Chapter Two Napoleon rose to power after the revolution and crowned himself emperor.",
		result.CleanedText)
	require.Len(t, result.Pages, 2)
	runes := []rune(result.CleanedText)
	assert.True(t, strings.HasPrefix(string(runes[result.Pages[1].Start:result.Pages[1].End]), "Chapter Two"))
	assert.Len(t, result.Paragraphs, 3)
}

func TestExtractor_PDFFallsBackToOCR(t *testing.T) {
	ocr := &fakeOCR{pages: []string{"Scanned page about volcanoes and magma chambers."}}
	e := NewExtractor(NewPDFReader(staticRunner("\f", nil), ""), zap.NewNop(), WithOCR(ocr))

	result, err := e.Extract(context.Background(), &domain.Document{Filename: "scan.pdf", Content: []byte("%PDF-1.4")})
	require.NoError(t, err)
	assert.True(t, result.OCRUsed)
	assert.Equal(t, "Scanned page about volcanoes and magma chambers.", result.CleanedText)
}

func TestExtractor_OCRTimeoutYieldsEmptyText(t *testing.T) {
	ocr := &fakeOCR{pages: []string{"too late"}, delay: time.Second}
	e := NewExtractor(NewPDFReader(staticRunner("", nil), ""), zap.NewNop(),
		WithOCR(ocr), WithOCRTimeout(20*time.Millisecond))

	result, err := e.Extract(context.Background(), &domain.Document{Filename: "slow.pdf", Content: []byte("%PDF-1.4")})
	require.NoError(t, err)
	assert.Empty(t, result.CleanedText)
	assert.False(t, result.OCRUsed)
	assert.True(t, result.OCRTimedOut)
}

func TestExtractor_OCRFailureWithoutTextLayer(t *testing.T) {
	ocr := &fakeOCR{err: errors.New("tesseract crashed")}
	e := NewExtractor(NewPDFReader(staticRunner("", nil), ""), zap.NewNop(), WithOCR(ocr))

	_, err := e.Extract(context.Background(), &domain.Document{Filename: "bad.pdf", Content: []byte("%PDF-1.4")})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)

	blankPages := NewExtractor(NewPDFReader(staticRunner(" \f\n\f", nil), ""), zap.NewNop(), WithOCR(ocr))
	_, err = blankPages.Extract(context.Background(), &domain.Document{Filename: "scan.pdf", Content: []byte("%PDF-1.4")})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestExtractor_OCRFailureKeepsSparseTextLayer(t *testing.T) {
	ocr := &fakeOCR{err: errors.New("tesseract crashed")}
	e := NewExtractor(NewPDFReader(staticRunner("Fig. 3\f", nil), ""), zap.NewNop(), WithOCR(ocr))

	result, err := e.Extract(context.Background(), &domain.Document{Filename: "sparse.pdf", Content: []byte("%PDF-1.4")})
	require.NoError(t, err)
	assert.Equal(t, "Fig. 3", result.CleanedText)
	assert.False(t, result.OCRUsed)
}

func TestExtractor_CancelledContext(t *testing.T) {
	ocr := &fakeOCR{delay: time.Second}
	e := NewExtractor(NewPDFReader(staticRunner("", nil), ""), zap.NewNop(), WithOCR(ocr))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := e.Extract(ctx, &domain.Document{Filename: "x.pdf", Content: []byte("%PDF-1.4")})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractor_PDFToolMissing(t *testing.T) {
	runner := staticRunner("", fmt.Errorf("%w: pdftotext", ErrToolNotFound))
	e := NewExtractor(NewPDFReader(runner, ""), zap.NewNop(), WithOCR(&fakeOCR{}))

	_, err := e.Extract(context.Background(), &domain.Document{Filename: "a.pdf", Content: []byte("%PDF-1.4")})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestExtractor_EmptyDocument(t *testing.T) {
	e := NewExtractor(NewPDFReader(staticRunner("", nil), ""), zap.NewNop())
	_, err := e.Extract(context.Background(), &domain.Document{Filename: "a.pdf"})
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
}

func TestDetectFormat(t *testing.T) {
	docx := createTestDOCX(t, sampleDocumentXML)
	tests := []struct {
		name    string
		doc     *domain.Document
		want    string
		wantErr error
	}{
		{"declared pdf with params", &domain.Document{MIMEType: "application/pdf; charset=binary", Content: []byte("x")}, domain.MIMETypePDF, nil},
		{"extension docx", &domain.Document{Filename: "A.DOCX", MIMEType: "application/octet-stream", Content: []byte("x")}, domain.MIMETypeDOCX, nil},
		{"sniffed pdf", &domain.Document{Filename: "upload", Content: []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n")}, domain.MIMETypePDF, nil},
		{"sniffed docx", &domain.Document{Filename: "upload", Content: docx}, domain.MIMETypeDOCX, nil},
		{"plain text unsupported", &domain.Document{Filename: "notes.txt", Content: []byte("just text")}, "", domain.ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.doc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTesseractOCR_Recognize(t *testing.T) {
	var tesseractCalls []string
	runner := runnerFunc(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		switch name {
		case "pdftoppm":
			prefix := args[len(args)-1]
			for _, n := range []string{"2", "1"} {
				if err := os.WriteFile(prefix+"-"+n+".png", []byte("png"), 0o600); err != nil {
					return nil, err
				}
			}
			return nil, nil
		case "tesseract":
			tesseractCalls = append(tesseractCalls, args[0])
			if strings.HasSuffix(args[0], "-1.png") {
				return []byte("First page\ntext\f"), nil
			}
			return []byte("Second page"), nil
		}
		return nil, fmt.Errorf("unexpected command %s", name)
	})

	pages, err := NewTesseractOCR(runner, "", "", "").Recognize(context.Background(), []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, []string{"First page text", "Second page"}, pages)
	assert.Len(t, tesseractCalls, 2)
}

func TestReflow(t *testing.T) {
	assert.Equal(t, "one two\nthree", reflow("one\ntwo\n\n\nthree\n"))
	assert.Equal(t, "photosynthesis", reflow("photo-\nsynthesis"))
	assert.Equal(t, "Anglo- Saxon", reflow("Anglo-\nSaxon"))
}
