// Package concepts ranks the salient terms of a passage.
package concepts

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"quiz-forge/internal/util"

	"golang.org/x/text/cases"
)

const (
	DefaultMaxConcepts = 10
	maxPhraseWords     = 4
	capitalizedBoost   = 1.5
)

type candidate struct {
	surface     string
	first       int
	count       int
	words       int
	capitalized bool
}

// Extract returns up to maxConcepts key terms of text, most salient first.
//
// Candidates are non-stopword unigrams longer than two characters and runs of
// capitalized words. A candidate scores frequency x (1 + earliness), boosted
// when it appears capitalized mid-sentence and for longer phrases. Ties go to the
// earlier first occurrence. Terms are unique under Unicode case folding and keep
// the surface form of their first occurrence.
func Extract(text string, maxConcepts int) []string {
	if maxConcepts <= 0 {
		return nil
	}
	tokens := util.Words(text)
	if len(tokens) == 0 {
		return nil
	}
	folder := cases.Fold()
	runes := []rune(text)
	initial := sentenceInitial(runes, tokens)

	byKey := make(map[string]*candidate)
	add := func(key, surface string, index, words int, capitalized bool) {
		c, ok := byKey[key]
		if !ok {
			c = &candidate{surface: surface, first: index, words: words}
			byKey[key] = c
		}
		c.count++
		c.capitalized = c.capitalized || capitalized
	}

	for i, tok := range tokens {
		lower := strings.ToLower(tok.Text)
		if utf8.RuneCountInString(tok.Text) <= 2 || IsStopword(lower) || isNumeric(tok.Text) {
			continue
		}
		add(folder.String(tok.Text), tok.Text, i, 1, isCapitalized(tok.Text) && !initial[i])
	}

	for i := 0; i < len(tokens); i++ {
		if !phraseWord(tokens[i]) {
			continue
		}
		j := i + 1
		for j < len(tokens) && j-i < maxPhraseWords && phraseWord(tokens[j]) && adjacent(runes, tokens[j-1], tokens[j]) {
			j++
		}
		if j-i >= 2 {
			surface := string(runes[tokens[i].Start:tokens[j-1].End])
			add(folder.String(surface), surface, i, j-i, true)
			i = j - 1
		}
	}

	ranked := make([]*candidate, 0, len(byKey))
	scores := make(map[*candidate]float64, len(byKey))
	keys := make(map[*candidate]string, len(byKey))
	total := float64(len(tokens))
	for key, c := range byKey {
		score := float64(c.count) * (2 - float64(c.first)/total)
		if c.capitalized {
			score *= capitalizedBoost
		}
		score *= 1 + 0.25*float64(c.words-1)
		scores[c] = score
		keys[c] = key
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(a, b int) bool {
		ca, cb := ranked[a], ranked[b]
		if scores[ca] != scores[cb] {
			return scores[ca] > scores[cb]
		}
		if ca.first != cb.first {
			return ca.first < cb.first
		}
		if ca.words != cb.words {
			return ca.words > cb.words
		}
		return keys[ca] < keys[cb]
	})

	if len(ranked) > maxConcepts {
		ranked = ranked[:maxConcepts]
	}
	out := make([]string, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, c.surface)
	}
	return out
}

// sentenceInitial marks tokens that open a sentence, where capitalization says
// nothing about salience.
func sentenceInitial(runes []rune, tokens []util.Token) []bool {
	initial := make([]bool, len(tokens))
	for i, tok := range tokens {
		j := tok.Start - 1
		for j >= 0 && unicode.IsSpace(runes[j]) && runes[j] != '\n' {
			j--
		}
		initial[i] = j < 0 || runes[j] == '\n' || util.IsSentenceEnd(runes[j]) || runes[j] == ':'
	}
	return initial
}

func phraseWord(tok util.Token) bool {
	return isCapitalized(tok.Text) && !IsStopword(strings.ToLower(tok.Text)) && !isNumeric(tok.Text)
}

// adjacent reports whether only spaces separate a and b.
func adjacent(runes []rune, a, b util.Token) bool {
	if b.Start == a.End {
		return false
	}
	for _, r := range runes[a.End:b.Start] {
		if r != ' ' {
			return false
		}
	}
	return true
}

func isCapitalized(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

func isNumeric(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Dedupe removes case-insensitive duplicates, keeping the first occurrence.
func Dedupe(terms []string) []string {
	folder := cases.Fold()
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := folder.String(t)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}
