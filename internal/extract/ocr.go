package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// OCREngine recognizes the text of every page of a scanned PDF.
type OCREngine interface {
	Recognize(ctx context.Context, content []byte) ([]string, error)
}

// TesseractOCR rasterizes pages with pdftoppm and reads them with tesseract.
type TesseractOCR struct {
	runner    CommandRunner
	rasterize string
	tesseract string
	language  string
}

// NewTesseractOCR creates a TesseractOCR. Empty tool names fall back to their defaults.
func NewTesseractOCR(runner CommandRunner, pdftoppm, tesseract, language string) *TesseractOCR {
	if pdftoppm == "" {
		pdftoppm = "pdftoppm"
	}
	if tesseract == "" {
		tesseract = "tesseract"
	}
	if language == "" {
		language = "eng"
	}
	return &TesseractOCR{runner: runner, rasterize: pdftoppm, tesseract: tesseract, language: language}
}

// Recognize returns one string per page in page order. It stops between pages
// once ctx is done.
func (o *TesseractOCR) Recognize(ctx context.Context, content []byte) ([]string, error) {
	dir, err := os.MkdirTemp("", "quiz-forge-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, content, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp pdf: %w", err)
	}

	prefix := filepath.Join(dir, "page")
	if _, err := o.runner.Run(ctx, o.rasterize, "-r", "300", "-gray", "-png", input, prefix); err != nil {
		return nil, err
	}

	images, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("failed to list rasterized pages: %w", err)
	}
	// pdftoppm zero-pads page numbers to a fixed width, so lexical order is page order
	sort.Strings(images)

	pages := make([]string, 0, len(images))
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := o.runner.Run(ctx, o.tesseract, img, "stdout", "-l", o.language)
		if err != nil {
			return nil, err
		}
		pages = append(pages, reflow(strings.ReplaceAll(string(out), "\f", "")))
	}
	return pages, nil
}
