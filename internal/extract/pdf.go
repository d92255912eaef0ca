package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// PDFReader reads the text layer of a PDF with pdftotext.
type PDFReader struct {
	runner CommandRunner
	tool   string
}

// NewPDFReader creates a PDFReader. An empty tool defaults to "pdftotext".
func NewPDFReader(runner CommandRunner, tool string) *PDFReader {
	if tool == "" {
		tool = "pdftotext"
	}
	return &PDFReader{runner: runner, tool: tool}
}

// Pages returns the reflowed text of each page. Paragraphs within a page are
// separated by "\n" and wrapped lines are joined.
func (r *PDFReader) Pages(ctx context.Context, content []byte) ([]string, error) {
	dir, err := os.MkdirTemp("", "quiz-forge-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "input.pdf")
	if err := os.WriteFile(input, content, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp pdf: %w", err)
	}

	out, err := r.runner.Run(ctx, r.tool, "-enc", "UTF-8", input, "-")
	if err != nil {
		return nil, err
	}
	return splitPages(string(out)), nil
}

// splitPages splits pdftotext output on form feeds and reflows each page.
func splitPages(out string) []string {
	raw := strings.Split(out, "\f")
	// pdftotext terminates every page with a form feed
	if len(raw) > 1 && strings.TrimSpace(raw[len(raw)-1]) == "" {
		raw = raw[:len(raw)-1]
	}
	pages := make([]string, 0, len(raw))
	for _, p := range raw {
		pages = append(pages, reflow(p))
	}
	return pages
}

// reflow joins wrapped lines into paragraphs. Blank lines end a paragraph and a
// trailing hyphen before a lowercase continuation is removed.
func reflow(page string) string {
	var paragraphs []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			paragraphs = append(paragraphs, current.String())
			current.Reset()
		}
	}
	for _, line := range strings.Split(strings.ReplaceAll(page, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		if current.Len() == 0 {
			current.WriteString(line)
			continue
		}
		prev := current.String()
		first := []rune(line)[0]
		if strings.HasSuffix(prev, "-") && unicode.IsLower(first) {
			current.Reset()
			current.WriteString(strings.TrimSuffix(prev, "-"))
		} else {
			current.WriteByte(' ')
		}
		current.WriteString(line)
	}
	flush()
	return strings.Join(paragraphs, "\n")
}

// density returns the average number of non-space characters per page.
func density(pages []string) int {
	if len(pages) == 0 {
		return 0
	}
	total := 0
	for _, p := range pages {
		for _, r := range p {
			if !unicode.IsSpace(r) {
				total++
			}
		}
	}
	return total / len(pages)
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
