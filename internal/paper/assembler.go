// Package paper lays out an ordered question selection as a QuestionPaper.
package paper

import (
	"strings"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/util"
)

// DefaultTitle is used when a paper is assembled without a title
const DefaultTitle = "Question Paper"

// Assembler computes marks with a fixed mark table
type Assembler struct {
	marks domain.MarkTable
	newID func() string
}

// NewAssembler validates the mark table
func NewAssembler(marks domain.MarkTable) (*Assembler, error) {
	if marks == nil {
		marks = domain.DefaultMarkTable()
	}
	if err := marks.Validate(); err != nil {
		return nil, err
	}
	return &Assembler{marks: marks, newID: util.NewULID}, nil
}

// Assemble builds a paper over questions in the given order. The question
// slice is copied; questions themselves are shared, not cloned.
func (a *Assembler) Assemble(questions []*domain.Question, title, instructions string, durationMinutes int) (*domain.QuestionPaper, error) {
	if durationMinutes < 0 {
		return nil, domain.NewInvalidInputError("duration_minutes must not be negative")
	}
	ordered := make([]*domain.Question, 0, len(questions))
	marks := make([]int, 0, len(questions))
	for i, q := range questions {
		if q == nil || !q.Type.Valid() {
			return nil, domain.NewInvalidInputError("paper contains an invalid question").WithContext("position", i+1)
		}
		ordered = append(ordered, q)
		marks = append(marks, a.marks.Marks(q.Type))
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	return &domain.QuestionPaper{
		ID:              a.newID(),
		Title:           title,
		Instructions:    strings.TrimSpace(instructions),
		Questions:       ordered,
		Marks:           marks,
		TotalMarks:      a.marks.Total(ordered),
		DurationMinutes: durationMinutes,
	}, nil
}
