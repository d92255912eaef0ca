// Package scoring rates candidate questions and removes near duplicates.
package scoring

import (
	"math"
	"strings"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/util"

	"golang.org/x/text/cases"
)

const (
	minPromptWords = 4
	maxPromptWords = 60
	maxShortWords  = 60
	minLongWords   = 5
)

// weights sum to 1
const (
	weightBase      = 0.20
	weightAnswer    = 0.20
	weightLength    = 0.15
	weightForm      = 0.15
	weightGrounding = 0.15
	weightType      = 0.15
)

var questionWords = []string{
	"what", "who", "when", "where", "why", "how", "which",
	"explain", "describe", "compare", "analyze", "analyse", "evaluate", "discuss", "define",
}

// Score rates a question in [0, 1]. It depends only on the question content.
func Score(q *domain.Question) float64 {
	score := weightBase

	answer := strings.TrimSpace(q.Answer)
	if answer != "" {
		score += weightAnswer
	}

	promptWords := len(util.Words(q.Prompt))
	if promptWords >= minPromptWords && promptWords <= maxPromptWords {
		score += weightLength
	}

	if hasQuestionForm(q.Prompt) {
		score += weightForm
	}

	score += weightGrounding * grounding(q)
	score += weightType * typeFit(q, answer)

	score = math.Max(0, math.Min(1, score))
	return math.Round(score*1e4) / 1e4
}

func hasQuestionForm(prompt string) bool {
	p := strings.ToLower(strings.TrimSpace(prompt))
	if p == "" {
		return false
	}
	if strings.HasSuffix(p, "?") || strings.HasPrefix(p, "true or false") {
		return true
	}
	words := util.Words(p)
	if len(words) == 0 {
		return false
	}
	first := words[0].Text
	for _, w := range questionWords {
		if first == w {
			return true
		}
	}
	return false
}

// grounding is the share of keywords that appear in the prompt or answer
func grounding(q *domain.Question) float64 {
	if len(q.Keywords) == 0 {
		return 0
	}
	folder := cases.Fold()
	haystack := folder.String(q.Prompt + " " + q.Answer + " " + strings.Join(q.Options, " "))
	hits := 0
	for _, k := range q.Keywords {
		k = strings.TrimSpace(k)
		if k != "" && strings.Contains(haystack, folder.String(k)) {
			hits++
		}
	}
	return float64(hits) / float64(len(q.Keywords))
}

func typeFit(q *domain.Question, answer string) float64 {
	switch q.Type {
	case domain.QuestionTypeMCQ:
		return distractorDistinctness(q)
	case domain.QuestionTypeTrueFalse:
		if answer == "True" || answer == "False" {
			return 1
		}
	case domain.QuestionTypeShortAnswer:
		if n := len(util.Words(answer)); n > 0 && n <= maxShortWords {
			return 1
		}
	case domain.QuestionTypeLongAnswer, domain.QuestionTypeHOTS:
		if len(util.Words(answer)) >= minLongWords {
			return 1
		}
	}
	return 0
}

// distractorDistinctness is the share of distractors that differ from the
// answer and from each other after case folding.
func distractorDistinctness(q *domain.Question) float64 {
	if len(q.Options) < 2 {
		return 0
	}
	folder := cases.Fold()
	answer := folder.String(strings.TrimSpace(q.Answer))
	seen := map[string]struct{}{answer: {}}
	distractors, distinct := 0, 0
	answerSeen := false
	for _, opt := range q.Options {
		key := folder.String(strings.TrimSpace(opt))
		if key == answer && !answerSeen {
			answerSeen = true
			continue
		}
		distractors++
		if _, dup := seen[key]; dup || key == "" {
			continue
		}
		seen[key] = struct{}{}
		distinct++
	}
	if distractors == 0 {
		return 0
	}
	return float64(distinct) / float64(distractors)
}
