package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/dto"
	"quiz-forge/internal/logger"
	"quiz-forge/internal/middleware"
	"quiz-forge/internal/service"
	"quiz-forge/internal/util"
	"quiz-forge/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PartialResultHeader is set on upload responses cut short by cancellation
const PartialResultHeader = "X-Partial-Result"

// PipelineHandler serves the upload, generate and export endpoints
type PipelineHandler struct {
	ingest     service.IngestService
	generation service.GenerationService
	export     service.ExportService
	validator  *validation.Validator
}

// NewPipelineHandler creates a new PipelineHandler instance
func NewPipelineHandler(
	ingest service.IngestService,
	generation service.GenerationService,
	export service.ExportService,
	validator *validation.Validator,
) *PipelineHandler {
	return &PipelineHandler{
		ingest:     ingest,
		generation: generation,
		export:     export,
		validator:  validator,
	}
}

// Upload godoc
// @Summary Upload documents
// @Description Extracts, cleans and chunks each uploaded PDF or DOCX. Failures are reported per file.
// @Tags pipeline
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Documents (.pdf, .docx)"
// @Success 200 {object} dto.UploadResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /upload [post]
func (h *PipelineHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return domain.NewInvalidInputError("request must be multipart/form-data")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return domain.ValidationErrors{domain.NewMissingFieldError("files")}
	}

	docs := make([]*domain.Document, 0, len(headers))
	for _, fh := range headers {
		doc, err := readDocument(fh)
		if err != nil {
			return domain.NewInvalidInputError(fmt.Sprintf("could not read %s", fh.Filename))
		}
		docs = append(docs, doc)
	}

	resp, err := h.ingest.ProcessFiles(c.UserContext(), docs)
	if err != nil {
		if resp != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			logger.Get().Warn("Upload batch interrupted",
				zap.Int("completed", len(resp)),
				zap.Int("requested", len(docs)),
				zap.Error(err),
			)
			c.Set(PartialResultHeader, "true")
			return c.JSON(resp)
		}
		return err
	}
	return c.JSON(resp)
}

func readDocument(fh *multipart.FileHeader) (*domain.Document, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &domain.Document{
		ID:       util.NewULID(),
		Filename: fh.Filename,
		MIMEType: fh.Header.Get(fiber.HeaderContentType),
		Content:  content,
	}, nil
}

// Generate godoc
// @Summary Generate questions
// @Description Generates, scores and deduplicates questions from context chunks. Authenticated callers get the result saved to a bank.
// @Tags pipeline
// @Accept json
// @Produce json
// @Param request body dto.GenerateRequest true "Generation request"
// @Success 200 {object} dto.GenerateResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 504 {object} middleware.ErrorResponse
// @Security ApiKeyAuth
// @Router /generate [post]
func (h *PipelineHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.Struct(&req); len(errs) > 0 {
		return errs
	}
	if req.BankID != "" && !validation.IsValidULID(req.BankID) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("bank_id", req.BankID)}
	}

	resp, err := h.generation.Generate(c.UserContext(), middleware.UserID(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Export godoc
// @Summary Export a question paper
// @Description Assembles the questions into a numbered paper and renders it as PDF or DOCX.
// @Tags pipeline
// @Accept json
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param request body dto.ExportRequest true "Export request"
// @Success 200 {file} binary
// @Failure 415 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /export [post]
func (h *PipelineHandler) Export(c *fiber.Ctx) error {
	var req dto.ExportRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}
	if errs := h.validator.Struct(&req); len(errs) > 0 {
		return errs
	}

	result, err := h.export.Export(c.UserContext(), &req)
	if err != nil {
		return err
	}

	c.Attachment(result.Filename)
	c.Set(fiber.HeaderContentType, result.ContentType)
	return c.Send(result.Content)
}

// ModelInfo godoc
// @Summary Active generation setup
// @Tags meta
// @Produce json
// @Success 200 {object} dto.ModelInfoResponse
// @Router /model-info [get]
func (h *PipelineHandler) ModelInfo(c *fiber.Ctx) error {
	return c.JSON(h.generation.ModelInfo())
}

// HealthHandler reports liveness and dependency status
type HealthHandler struct {
	cache domain.Cache
	banks domain.QuestionBankRepository
}

// NewHealthHandler creates a HealthHandler. Either dependency may be nil.
func NewHealthHandler(cache domain.Cache, banks domain.QuestionBankRepository) *HealthHandler {
	return &HealthHandler{cache: cache, banks: banks}
}

// Health godoc
// @Summary Health check
// @Tags meta
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	resp := dto.HealthResponse{Status: "ok", Checks: map[string]string{}}
	check := func(name string, ping func(context.Context) error) {
		if err := ping(c.UserContext()); err != nil {
			logger.Get().Warn("Health check failed", zap.String("check", name), zap.Error(err))
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			return
		}
		resp.Checks[name] = "ok"
	}
	if h.cache != nil {
		check("cache", h.cache.Ping)
	}
	if h.banks != nil {
		check("database", h.banks.Ping)
	}

	status := fiber.StatusOK
	if resp.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}
