package domain

import (
	"fmt"
	"strings"
	"time"
)

// QuestionType is the closed set of question kinds the pipeline produces
type QuestionType string

const (
	QuestionTypeMCQ         QuestionType = "mcq"
	QuestionTypeTrueFalse   QuestionType = "true_false"
	QuestionTypeShortAnswer QuestionType = "short_answer"
	QuestionTypeLongAnswer  QuestionType = "long_answer"
	QuestionTypeHOTS        QuestionType = "hots"
)

// Difficulty bounds
const (
	MinDifficulty = 1
	MaxDifficulty = 5
)

// QuestionTypes lists every type in generation order.
var QuestionTypes = []QuestionType{
	QuestionTypeMCQ,
	QuestionTypeTrueFalse,
	QuestionTypeShortAnswer,
	QuestionTypeLongAnswer,
	QuestionTypeHOTS,
}

// Valid reports whether t is one of the known question types
func (t QuestionType) Valid() bool {
	for _, known := range QuestionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseQuestionType parses a type name case-insensitively
func ParseQuestionType(s string) (QuestionType, error) {
	t := QuestionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", NewInvalidInputError(fmt.Sprintf("unknown question type: %s", s))
	}
	return t, nil
}

// Question is a generated exam question. Options are only set for mcq.
type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"prompt"`
	Options       []string     `json:"options,omitempty"`
	Answer        string       `json:"answer,omitempty"`
	Keywords      []string     `json:"keywords,omitempty"`
	QualityScore  float64      `json:"quality_score"`
	Difficulty    int          `json:"difficulty"`
	SourceChunkID string       `json:"source_chunk_id"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Validate checks the structural invariants of a question
func (q *Question) Validate() error {
	if !q.Type.Valid() {
		return NewInvalidInputError(fmt.Sprintf("unknown question type: %s", q.Type))
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return NewInvalidInputError("prompt is required")
	}
	if q.Difficulty < MinDifficulty || q.Difficulty > MaxDifficulty {
		return NewInvalidInputError(fmt.Sprintf("difficulty %d out of range", q.Difficulty))
	}
	if q.QualityScore < 0 || q.QualityScore > 1 {
		return NewInvalidInputError(fmt.Sprintf("quality score %.2f out of range", q.QualityScore))
	}
	if q.Type == QuestionTypeMCQ {
		if len(q.Options) < 2 {
			return NewInvalidInputError("mcq requires at least two options")
		}
		if !q.HasOption(q.Answer) {
			return NewInvalidInputError("mcq answer must be one of the options")
		}
	} else if len(q.Options) > 0 {
		return NewInvalidInputError(fmt.Sprintf("%s questions do not take options", q.Type))
	}
	return nil
}

// HasOption reports whether option is present verbatim in q.Options
func (q *Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// AnswerKeyEntry maps a question to its correct answer
type AnswerKeyEntry struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// BuildAnswerKey derives the answer key in question order
func BuildAnswerKey(questions []*Question) []AnswerKeyEntry {
	key := make([]AnswerKeyEntry, 0, len(questions))
	for _, q := range questions {
		key = append(key, AnswerKeyEntry{QuestionID: q.ID, Answer: q.Answer})
	}
	return key
}

// ClampDifficulty restricts d to target±1 within [MinDifficulty, MaxDifficulty]
func ClampDifficulty(d, target int) int {
	target = clamp(target, MinDifficulty, MaxDifficulty)
	lo := clamp(target-1, MinDifficulty, MaxDifficulty)
	hi := clamp(target+1, MinDifficulty, MaxDifficulty)
	return clamp(d, lo, hi)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
