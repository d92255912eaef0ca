package generator

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"quiz-forge/internal/concepts"
	"quiz-forge/internal/domain"
	"quiz-forge/internal/util"

	"golang.org/x/text/cases"
)

const (
	minFactWords   = 5
	maxDistractors = 3
	blank          = "_____"
)

// TemplateStrategy builds questions from sentences of the chunk that mention
// a key concept. It is deterministic and needs no model.
type TemplateStrategy struct{}

// NewTemplateStrategy returns the offline baseline strategy
func NewTemplateStrategy() *TemplateStrategy {
	return &TemplateStrategy{}
}

type fact struct {
	sentence string
	concept  string
}

// GenerateCandidate implements domain.CandidateGenerator
func (s *TemplateStrategy) GenerateCandidate(ctx context.Context, req domain.CandidateRequest) (*domain.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Chunk == nil {
		return nil, domain.ErrInsufficientContext
	}

	terms := concepts.Dedupe(req.Concepts)
	if len(terms) == 0 {
		terms = concepts.Extract(req.Chunk.Text, 10)
	}
	sentences := factSentences(req.Chunk.Text)
	facts := collectFacts(sentences, terms)
	if req.Index >= len(facts) {
		return nil, domain.ErrInsufficientContext
	}
	f := facts[req.Index]

	switch req.Type {
	case domain.QuestionTypeMCQ:
		return mcqFromFact(f, terms, req)
	case domain.QuestionTypeTrueFalse:
		return trueFalseFromFact(f, terms, req), nil
	case domain.QuestionTypeShortAnswer:
		return &domain.Candidate{
			Prompt:     fmt.Sprintf("What does the text state about %s?", f.concept),
			Answer:     f.sentence,
			Keywords:   []string{f.concept},
			Difficulty: req.Difficulty,
		}, nil
	case domain.QuestionTypeLongAnswer:
		return &domain.Candidate{
			Prompt:     fmt.Sprintf("Describe %s in detail, using evidence from the text.", f.concept),
			Answer:     strings.Join(sentencesMentioning(sentences, f.concept, 3), " "),
			Keywords:   []string{f.concept},
			Difficulty: req.Difficulty,
		}, nil
	case domain.QuestionTypeHOTS:
		return hotsFromFact(f, terms, sentences, req)
	}
	return nil, domain.NewInvalidInputError(fmt.Sprintf("unsupported question type %q", req.Type))
}

func mcqFromFact(f fact, terms []string, req domain.CandidateRequest) (*domain.Candidate, error) {
	stem, ok := blankTerm(f.sentence, f.concept)
	if !ok {
		return nil, domain.ErrInsufficientContext
	}
	distractors := pickDistractors(f, terms, req.Chunk.Text)
	if len(distractors) == 0 {
		return nil, domain.ErrInsufficientContext
	}
	return &domain.Candidate{
		Prompt:     fmt.Sprintf("Which term best completes the statement: %q?", stem),
		Options:    append([]string{f.concept}, distractors...),
		Answer:     f.concept,
		Keywords:   []string{f.concept},
		Difficulty: req.Difficulty,
	}, nil
}

// trueFalseFromFact states the fact as written on even indexes and swaps in
// another concept on odd ones, making the statement false.
func trueFalseFromFact(f fact, terms []string, req domain.CandidateRequest) *domain.Candidate {
	statement, answer := f.sentence, "True"
	if req.Index%2 == 1 {
		for _, other := range terms {
			if sameTerm(other, f.concept) || findTerm(f.sentence, other) >= 0 {
				continue
			}
			if swapped, ok := replaceTerm(f.sentence, f.concept, other); ok {
				statement, answer = swapped, "False"
				break
			}
		}
	}
	return &domain.Candidate{
		Prompt:     "True or false: " + statement,
		Answer:     answer,
		Keywords:   []string{f.concept},
		Difficulty: req.Difficulty,
	}
}

func hotsFromFact(f fact, terms, sentences []string, req domain.CandidateRequest) (*domain.Candidate, error) {
	var other string
	for _, t := range terms {
		if !sameTerm(t, f.concept) {
			other = t
			break
		}
	}
	if other == "" {
		return nil, domain.ErrInsufficientContext
	}
	evidence := append(sentencesMentioning(sentences, f.concept, 2), sentencesMentioning(sentences, other, 2)...)
	return &domain.Candidate{
		Prompt: fmt.Sprintf("Analyze how %s relates to %s. Why does this relationship matter, and what would change if %s were absent?",
			f.concept, other, f.concept),
		Answer:     strings.Join(uniqueStrings(evidence), " "),
		Keywords:   []string{f.concept, other},
		Difficulty: req.Difficulty,
	}, nil
}

func factSentences(text string) []string {
	var out []string
	for _, s := range util.Sentences(text) {
		if len(util.Words(s)) >= minFactWords {
			out = append(out, s)
		}
	}
	return out
}

// collectFacts pairs concepts with the sentences mentioning them, in concept
// rank order then sentence order.
func collectFacts(sentences, terms []string) []fact {
	var facts []fact
	used := make(map[string]struct{})
	for _, term := range terms {
		for _, s := range sentences {
			if _, ok := used[s]; ok {
				continue
			}
			if findTerm(s, term) >= 0 {
				facts = append(facts, fact{sentence: s, concept: term})
				used[s] = struct{}{}
				break
			}
		}
	}
	return facts
}

func pickDistractors(f fact, terms []string, chunkText string) []string {
	var out []string
	accept := func(t string) {
		if len(out) >= maxDistractors || sameTerm(t, f.concept) || findTerm(f.sentence, t) >= 0 {
			return
		}
		for _, o := range out {
			if sameTerm(o, t) {
				return
			}
		}
		out = append(out, t)
	}
	for _, t := range terms {
		accept(t)
	}
	if len(out) < maxDistractors {
		// fall back to chunk vocabulary
		for _, t := range concepts.Extract(chunkText, 20) {
			accept(t)
		}
	}
	return out
}

func sentencesMentioning(sentences []string, term string, limit int) []string {
	var out []string
	for _, s := range sentences {
		if len(out) == limit {
			break
		}
		if findTerm(s, term) >= 0 {
			out = append(out, s)
		}
	}
	return out
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func sameTerm(a, b string) bool {
	folder := cases.Fold()
	return folder.String(a) == folder.String(b)
}

// findTerm returns the rune offset of the first case-insensitive, whole-word
// occurrence of term in s, or -1.
func findTerm(s, term string) int {
	hay := []rune(s)
	needle := []rune(strings.TrimSpace(term))
	if len(needle) == 0 || len(needle) > len(hay) {
		return -1
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		if !foldEqual(hay[i:i+len(needle)], needle) {
			continue
		}
		if i > 0 && isWordRune(hay[i-1]) {
			continue
		}
		if end := i + len(needle); end < len(hay) && isWordRune(hay[end]) {
			continue
		}
		return i
	}
	return -1
}

func replaceTerm(s, term, with string) (string, bool) {
	i := findTerm(s, term)
	if i < 0 {
		return s, false
	}
	runes := []rune(s)
	n := len([]rune(strings.TrimSpace(term)))
	return string(runes[:i]) + with + string(runes[i+n:]), true
}

func blankTerm(s, term string) (string, bool) {
	return replaceTerm(s, term, blank)
}

func foldEqual(a, b []rune) bool {
	for i := range a {
		if unicode.ToLower(a[i]) != unicode.ToLower(b[i]) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
