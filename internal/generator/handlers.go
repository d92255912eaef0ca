package generator

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"

	"quiz-forge/internal/domain"

	"golang.org/x/text/cases"
)

// typeHandler holds the per-type rules applied around a strategy call
type typeHandler struct {
	// difficultyBias shifts the difficulty asked of the strategy; the result
	// is still clamped to the configured target.
	difficultyBias int
	finalize       func(q *domain.Question, seed uint64) error
}

var handlers = map[domain.QuestionType]typeHandler{
	domain.QuestionTypeMCQ:         {difficultyBias: 0, finalize: finalizeMCQ},
	domain.QuestionTypeTrueFalse:   {difficultyBias: -1, finalize: finalizeTrueFalse},
	domain.QuestionTypeShortAnswer: {difficultyBias: 0, finalize: finalizeOpen},
	domain.QuestionTypeLongAnswer:  {difficultyBias: 1, finalize: finalizeOpen},
	domain.QuestionTypeHOTS:        {difficultyBias: 1, finalize: finalizeOpen},
}

// OptionSeed derives the shuffle seed for one generation call
func OptionSeed(chunkID string, t domain.QuestionType, index int) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s\x00%s\x00%d", chunkID, t, index)
	return h.Sum64()
}

func finalizeMCQ(q *domain.Question, seed uint64) error {
	folder := cases.Fold()
	seen := make(map[string]struct{}, len(q.Options))
	options := make([]string, 0, len(q.Options))
	answerKey := folder.String(strings.TrimSpace(q.Answer))
	answer := ""
	for _, opt := range q.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		key := folder.String(opt)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if key == answerKey {
			answer = opt
		}
		options = append(options, opt)
	}
	if answer == "" {
		if answerKey == "" {
			return fmt.Errorf("mcq candidate has no answer")
		}
		// the strategy forgot to list the answer among the options
		answer = strings.TrimSpace(q.Answer)
		options = append(options, answer)
	}
	if len(options) < 2 {
		return domain.ErrInsufficientContext
	}

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	r.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	q.Options = options
	q.Answer = answer
	return nil
}

func finalizeTrueFalse(q *domain.Question, _ uint64) error {
	q.Options = nil
	switch strings.ToLower(strings.TrimSpace(q.Answer)) {
	case "true", "t", "yes":
		q.Answer = "True"
	case "false", "f", "no":
		q.Answer = "False"
	default:
		return fmt.Errorf("true/false candidate has answer %q", q.Answer)
	}
	return nil
}

func finalizeOpen(q *domain.Question, _ uint64) error {
	q.Options = nil
	q.Answer = strings.TrimSpace(q.Answer)
	return nil
}
