package domain

import (
	"context"
	"errors"
	"fmt"
)

// GenerationConfig describes what to generate for each chunk
type GenerationConfig struct {
	NumMCQ         int    `json:"num_mcq"`
	NumTrueFalse   int    `json:"num_true_false"`
	NumShortAnswer int    `json:"num_short_answer"`
	NumLongAnswer  int    `json:"num_long_answer"`
	NumHOTS        int    `json:"num_hots"`
	Difficulty     int    `json:"difficulty"`
	Subject        string `json:"subject,omitempty"`
	GradeLevel     string `json:"grade_level,omitempty"`
}

// Count returns the requested number of questions of type t
func (c GenerationConfig) Count(t QuestionType) int {
	switch t {
	case QuestionTypeMCQ:
		return c.NumMCQ
	case QuestionTypeTrueFalse:
		return c.NumTrueFalse
	case QuestionTypeShortAnswer:
		return c.NumShortAnswer
	case QuestionTypeLongAnswer:
		return c.NumLongAnswer
	case QuestionTypeHOTS:
		return c.NumHOTS
	default:
		return 0
	}
}

// Total returns the number of questions requested per chunk
func (c GenerationConfig) Total() int {
	total := 0
	for _, t := range QuestionTypes {
		total += c.Count(t)
	}
	return total
}

// Validate fails with ErrInvalidConfig on negative counts or an out of range difficulty
func (c GenerationConfig) Validate() error {
	for _, t := range QuestionTypes {
		if n := c.Count(t); n < 0 {
			return NewInvalidConfigError(fmt.Sprintf("count for %s must not be negative, got %d", t, n)).
				WithContext("type", string(t))
		}
	}
	if c.Difficulty < MinDifficulty || c.Difficulty > MaxDifficulty {
		return NewInvalidConfigError(fmt.Sprintf("difficulty must be between %d and %d, got %d", MinDifficulty, MaxDifficulty, c.Difficulty))
	}
	return nil
}

// CandidateRequest is everything a strategy needs to propose one question
type CandidateRequest struct {
	Chunk      *Chunk
	Concepts   []string
	Type       QuestionType
	Difficulty int
	Index      int
	Subject    string
	GradeLevel string
}

// Candidate is an unscored question proposal returned by a strategy
type Candidate struct {
	Prompt     string
	Options    []string
	Answer     string
	Keywords   []string
	Difficulty int
}

// ErrInsufficientContext is returned by a strategy when the chunk cannot support the requested type
var ErrInsufficientContext = errors.New("chunk does not contain enough material for this question type")

// CandidateGenerator is the generation strategy capability
type CandidateGenerator interface {
	GenerateCandidate(ctx context.Context, req CandidateRequest) (*Candidate, error)
}

// ModelInfo describes the active generation strategy
type ModelInfo struct {
	Strategy string `json:"strategy"`
	Model    string `json:"model,omitempty"`
	Fallback string `json:"fallback,omitempty"`
}
