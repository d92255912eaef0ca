package dto

import "quiz-forge/internal/domain"

// Upload item statuses
const (
	UploadStatusSuccess = "success"
	UploadStatusError   = "error"
)

// UploadFileResult is the outcome for one uploaded file
// @Description Extraction result for a single file
type UploadFileResult struct {
	Status        string     `json:"status"`
	RawText       string     `json:"raw_text,omitempty"`
	CleanedText   string     `json:"cleaned_text,omitempty"`
	Chunks        []string   `json:"chunks,omitempty"`
	ChunkConcepts [][]string `json:"chunk_concepts,omitempty"`
	KeyConcepts   []string   `json:"key_concepts,omitempty"`
	OCRUsed       bool       `json:"ocr_used,omitempty"`
	Message       string     `json:"message,omitempty"`
}

// UploadResponse maps each filename to its result
type UploadResponse map[string]UploadFileResult

// GenerationConfigRequest carries per-chunk question counts.
// Range checks happen in the domain so that bad values surface as INVALID_CONFIG.
type GenerationConfigRequest struct {
	NumMCQ         int    `json:"num_mcq"`
	NumTrueFalse   int    `json:"num_true_false"`
	NumShortAnswer int    `json:"num_short_answer"`
	NumLongAnswer  int    `json:"num_long_answer"`
	NumHOTS        int    `json:"num_hots"`
	Difficulty     int    `json:"difficulty"`
	Subject        string `json:"subject,omitempty" validate:"max=100"`
	GradeLevel     string `json:"grade_level,omitempty" validate:"max=50"`
}

// ToDomain converts the request config
func (r GenerationConfigRequest) ToDomain() domain.GenerationConfig {
	return domain.GenerationConfig{
		NumMCQ:         r.NumMCQ,
		NumTrueFalse:   r.NumTrueFalse,
		NumShortAnswer: r.NumShortAnswer,
		NumLongAnswer:  r.NumLongAnswer,
		NumHOTS:        r.NumHOTS,
		Difficulty:     r.Difficulty,
		Subject:        r.Subject,
		GradeLevel:     r.GradeLevel,
	}
}

// GenerateRequest is the body of POST /api/generate
// @Description Request body for question generation
type GenerateRequest struct {
	ContextChunks []string                `json:"context_chunks" validate:"required,min=1,max=200"`
	Config        GenerationConfigRequest `json:"config"`
	Title         string                  `json:"title,omitempty" validate:"max=200"`
	BankID        string                  `json:"bank_id,omitempty"`
}

// GenerateResponse is the ranked question pool with its answer key
type GenerateResponse struct {
	Questions   []*domain.Question      `json:"questions"`
	AnswerKey   []domain.AnswerKeyEntry `json:"answer_key"`
	SavedBankID string                  `json:"saved_bank_id,omitempty"`
}

// ExportRequest is the body of POST /api/export
// @Description Request body for paper export
type ExportRequest struct {
	Questions        []*domain.Question `json:"questions"`
	Format           string             `json:"format"`
	IncludeAnswerKey bool               `json:"include_answer_key"`
	PaperTitle       string             `json:"paper_title,omitempty" validate:"max=200"`
	Instructions     string             `json:"instructions,omitempty" validate:"max=2000"`
	DurationMinutes  int                `json:"duration_minutes,omitempty" validate:"gte=0,lte=1440"`
}

// ExportResult is a rendered paper ready to send
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ModelInfoResponse describes the active generation setup
type ModelInfoResponse struct {
	Strategy          string   `json:"strategy"`
	Model             string   `json:"model,omitempty"`
	Fallback          string   `json:"fallback,omitempty"`
	CallTimeout       string   `json:"call_timeout"`
	Workers           int      `json:"workers"`
	RatePerSecond     float64  `json:"rate_per_second"`
	MaxFileSizeMB     int      `json:"max_file_size_mb"`
	AllowedExtensions []string `json:"allowed_extensions"`
	ChunkUnit         string   `json:"chunk_unit"`
	ChunkTargetSize   int      `json:"chunk_target_size"`
	ChunkOverlap      int      `json:"chunk_overlap"`
}

// HealthResponse reports liveness and dependency checks
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
