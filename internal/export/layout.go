package export

import (
	"fmt"
	"strings"

	"quiz-forge/internal/domain"
)

// AnswerKeyHeading titles the final answer key section
const AnswerKeyHeading = "Answer Key"

type lineStyle int

const (
	styleTitle lineStyle = iota
	styleMeta
	styleInstructions
	styleQuestion
	styleOption
	styleHeading
	styleAnswer
)

type line struct {
	style lineStyle
	text  string
}

// layoutPaper flattens a paper into styled lines shared by every renderer.
// Questions are numbered from 1 in the stored order and options are lettered
// in their stored order.
func layoutPaper(p *domain.QuestionPaper, includeAnswerKey bool) ([]line, error) {
	if len(p.Marks) != len(p.Questions) {
		return nil, fmt.Errorf("paper has %d questions but %d mark entries", len(p.Questions), len(p.Marks))
	}

	lines := []line{{styleTitle, p.Title}}

	meta := fmt.Sprintf("Total marks: %d", p.TotalMarks)
	if p.DurationMinutes > 0 {
		meta = fmt.Sprintf("Duration: %d minutes    %s", p.DurationMinutes, meta)
	}
	lines = append(lines, line{styleMeta, meta})
	if p.Instructions != "" {
		lines = append(lines, line{styleInstructions, "Instructions: " + p.Instructions})
	}

	for i, q := range p.Questions {
		if q == nil {
			return nil, fmt.Errorf("question %d is missing", i+1)
		}
		lines = append(lines, line{styleQuestion, fmt.Sprintf("%d. %s [%s]", i+1, oneLine(q.Prompt), markLabel(p.Marks[i]))})
		for j, opt := range q.Options {
			lines = append(lines, line{styleOption, fmt.Sprintf("%s) %s", optionLabel(j), oneLine(opt))})
		}
	}

	if includeAnswerKey {
		lines = append(lines, line{styleHeading, AnswerKeyHeading})
		for i, q := range p.Questions {
			lines = append(lines, line{styleAnswer, fmt.Sprintf("%d. %s", i+1, answerText(q))})
		}
	}
	return lines, nil
}

func answerText(q *domain.Question) string {
	answer := oneLine(q.Answer)
	if answer == "" {
		return "-"
	}
	if q.Type == domain.QuestionTypeMCQ {
		for j, opt := range q.Options {
			if opt == q.Answer {
				return fmt.Sprintf("%s) %s", optionLabel(j), answer)
			}
		}
	}
	return answer
}

func markLabel(n int) string {
	if n == 1 {
		return "1 mark"
	}
	return fmt.Sprintf("%d marks", n)
}

// optionLabel returns A..Z, then AA, BB, ...
func optionLabel(i int) string {
	letter := string(rune('A' + i%26))
	return strings.Repeat(letter, i/26+1)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
