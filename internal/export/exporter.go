// Package export renders question papers to PDF and DOCX.
package export

import (
	"context"

	"quiz-forge/internal/domain"

	"go.uber.org/zap"
)

// Exporter implements domain.PaperExporter. Rendering is sequential per call;
// concurrent calls are independent.
type Exporter struct {
	logger *zap.Logger
}

func NewExporter(logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{logger: logger}
}

// Export renders paper in the requested format. An unsupported format fails
// before any rendering work. The paper is never modified.
func (e *Exporter) Export(ctx context.Context, paper *domain.QuestionPaper, format domain.ExportFormat, includeAnswerKey bool) ([]byte, error) {
	if format != domain.ExportFormatPDF && format != domain.ExportFormatDOCX {
		return nil, domain.NewUnsupportedFormatError(string(format))
	}
	if paper == nil {
		return nil, domain.NewExportError("paper is required", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines, err := layoutPaper(paper, includeAnswerKey)
	if err != nil {
		return nil, domain.NewExportError("failed to lay out paper", err)
	}

	var out []byte
	switch format {
	case domain.ExportFormatPDF:
		out, err = renderPDF(paper, lines)
	case domain.ExportFormatDOCX:
		out, err = renderDOCX(lines)
	}
	if err != nil {
		e.logger.Error("Failed to render paper", zap.Error(err), zap.String("format", string(format)), zap.String("paper_id", paper.ID))
		return nil, domain.NewExportError("failed to render "+string(format), err)
	}

	e.logger.Info("Rendered paper",
		zap.String("paper_id", paper.ID),
		zap.String("format", string(format)),
		zap.Int("questions", len(paper.Questions)),
		zap.Bool("answer_key", includeAnswerKey),
		zap.Int("bytes", len(out)))
	return out, nil
}

var _ domain.PaperExporter = (*Exporter)(nil)
