package scoring

import (
	"sort"
	"strings"
	"unicode"

	"quiz-forge/internal/domain"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// DuplicateThreshold is the token-set Jaccard similarity at or above which
// two prompts are duplicates
const DuplicateThreshold = 0.85

// NormalizePrompt applies NFKC, case folding and punctuation removal, and
// collapses whitespace.
func NormalizePrompt(prompt string) string {
	folded := cases.Fold().String(norm.NFKC.String(prompt))
	var b strings.Builder
	space := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
			continue
		}
		space = true
	}
	return b.String()
}

// Jaccard returns the intersection-over-union of the word sets of two
// normalized prompts
func Jaccard(a, b string) float64 {
	return jaccardSets(tokenSet(a), tokenSet(b))
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		set[t] = struct{}{}
	}
	return set
}

// IsDuplicate reports whether two prompts are duplicates
func IsDuplicate(a, b string) bool {
	na, nb := NormalizePrompt(a), NormalizePrompt(b)
	return na == nb || Jaccard(na, nb) >= DuplicateThreshold
}

// ScoreAndDedupe scores candidates, drops near duplicates keeping the higher
// score (the earlier candidate on ties) and returns the survivors by
// descending score. Candidates must be in source chunk order. The input
// questions are not modified. Applying it to its own output changes nothing.
func ScoreAndDedupe(candidates []*domain.Question) []*domain.Question {
	type entry struct {
		q    *domain.Question
		norm string
		set  map[string]struct{}
	}

	entries := make([]entry, 0, len(candidates))
	for _, c := range candidates {
		if c == nil {
			continue
		}
		q := *c
		q.Options = append([]string(nil), c.Options...)
		q.Keywords = append([]string(nil), c.Keywords...)
		q.QualityScore = Score(c)
		n := NormalizePrompt(q.Prompt)
		entries = append(entries, entry{q: &q, norm: n, set: tokenSet(n)})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].q.QualityScore > entries[j].q.QualityScore
	})

	kept := make([]entry, 0, len(entries))
	out := make([]*domain.Question, 0, len(entries))
	for _, e := range entries {
		dup := false
		for _, k := range kept {
			if e.norm == k.norm || jaccardSets(e.set, k.set) >= DuplicateThreshold {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		kept = append(kept, e)
		out = append(out, e.q)
	}
	return out
}

func jaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}
