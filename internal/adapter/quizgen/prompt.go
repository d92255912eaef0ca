package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"quiz-forge/internal/domain"
)

var typeInstructions = map[domain.QuestionType]string{
	domain.QuestionTypeMCQ:         `a multiple-choice question with exactly one correct option and 3 plausible distractors. "options" must list all choices and "answer" must equal one of them`,
	domain.QuestionTypeTrueFalse:   `a true/false statement. "answer" must be "True" or "False" and "options" must be empty`,
	domain.QuestionTypeShortAnswer: `a short-answer question answerable in one or two sentences`,
	domain.QuestionTypeLongAnswer:  `a long-answer question that asks for an explanation across several points`,
	domain.QuestionTypeHOTS:        `a higher-order thinking question requiring analysis, comparison or evaluation rather than recall`,
}

const promptTemplate = `You are an expert exam setter. Write %s.
Base it only on the passage below.%s
Target difficulty: %d on a scale of 1 (easiest) to 5 (hardest).
Key concepts to focus on: [%s]
This is question number %d of this type for the passage; make it different from earlier ones.

Respond with ONLY a JSON object in the following format:
{
  "prompt": "question text",
  "options": ["option A", "option B"],
  "answer": "correct answer",
  "keywords": ["keyword1", "keyword2"],
  "difficulty": 3
}
If the passage cannot support this kind of question, respond with {"insufficient": true}.

Passage:
%s`

// BuildPrompt renders the model prompt for one candidate request
func BuildPrompt(req domain.CandidateRequest) string {
	var audience []string
	if req.Subject != "" {
		audience = append(audience, "Subject: "+req.Subject+".")
	}
	if req.GradeLevel != "" {
		audience = append(audience, "Grade level: "+req.GradeLevel+".")
	}
	hint := ""
	if len(audience) > 0 {
		hint = "\n" + strings.Join(audience, " ")
	}
	text := ""
	if req.Chunk != nil {
		text = req.Chunk.Text
	}
	return fmt.Sprintf(promptTemplate,
		typeInstructions[req.Type],
		hint,
		req.Difficulty,
		strings.Join(req.Concepts, ", "),
		req.Index+1,
		text,
	)
}

type candidatePayload struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer"`
	Keywords     []string `json:"keywords"`
	Difficulty   int      `json:"difficulty"`
	Insufficient bool     `json:"insufficient"`
}

// ParseCandidate extracts the JSON object from a raw model response.
// Reasoning blocks wrapped in <think> tags are ignored.
func ParseCandidate(raw string) (*domain.Candidate, error) {
	cleaned := strings.TrimSpace(raw)
	if thinkStart := strings.Index(cleaned, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(cleaned, "</think>"); thinkEnd > thinkStart {
			cleaned = strings.TrimSpace(cleaned[:thinkStart] + cleaned[thinkEnd+len("</think>"):])
		}
	}

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd <= jsonStart {
		return nil, domain.NewLLMServiceError(fmt.Errorf("no JSON object found in model response: %q", truncate(cleaned, 200)))
	}

	var payload candidatePayload
	if err := json.Unmarshal([]byte(cleaned[jsonStart:jsonEnd+1]), &payload); err != nil {
		return nil, domain.NewLLMServiceError(fmt.Errorf("failed to unmarshal model response: %w", err))
	}
	if payload.Insufficient {
		return nil, domain.ErrInsufficientContext
	}
	if strings.TrimSpace(payload.Prompt) == "" {
		return nil, domain.NewLLMServiceError(fmt.Errorf("model response has no prompt"))
	}
	return &domain.Candidate{
		Prompt:     payload.Prompt,
		Options:    payload.Options,
		Answer:     payload.Answer,
		Keywords:   payload.Keywords,
		Difficulty: payload.Difficulty,
	}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
