package service

import (
	"context"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/paper"

	"go.uber.org/zap"
)

// ExportService assembles questions into a paper and renders it
type ExportService interface {
	Export(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error)
}

type exportService struct {
	assembler *paper.Assembler
	exporter  domain.PaperExporter
	logger    *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(assembler *paper.Assembler, exporter domain.PaperExporter, logger *zap.Logger) ExportService {
	return &exportService{
		assembler: assembler,
		exporter:  exporter,
		logger:    logger,
	}
}

// Export rejects an unsupported format before assembling anything.
// An empty format means pdf.
func (s *exportService) Export(ctx context.Context, req *dto.ExportRequest) (*dto.ExportResult, error) {
	name := req.Format
	if name == "" {
		name = string(domain.ExportFormatPDF)
	}
	format, err := domain.ParseExportFormat(name)
	if err != nil {
		return nil, err
	}

	p, err := s.assembler.Assemble(req.Questions, req.PaperTitle, req.Instructions, req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	content, err := s.exporter.Export(ctx, p, format, req.IncludeAnswerKey)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Exported question paper",
		zap.String("paper_id", p.ID),
		zap.String("format", string(format)),
		zap.Int("questions", len(p.Questions)),
		zap.Int("total_marks", p.TotalMarks),
		zap.Bool("answer_key", req.IncludeAnswerKey))

	return &dto.ExportResult{
		Content:     content,
		ContentType: format.ContentType(),
		Filename:    format.Filename(),
	}, nil
}
