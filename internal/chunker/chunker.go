// Package chunker splits cleaned text into overlapping windows used as
// generation input. Offsets are rune offsets into the source text.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"quiz-forge/internal/domain"
	"quiz-forge/internal/util"
)

// Unit selects how target size and overlap are measured
type Unit string

const (
	UnitChars Unit = "chars"
	UnitWords Unit = "words"
)

// ParseUnit parses a configured unit name
func ParseUnit(s string) (Unit, error) {
	switch Unit(strings.ToLower(strings.TrimSpace(s))) {
	case UnitChars:
		return UnitChars, nil
	case UnitWords:
		return UnitWords, nil
	}
	return "", domain.NewInvalidConfigError(fmt.Sprintf("unknown chunking unit %q", s))
}

// break strength, higher is preferred
const (
	breakNone = iota
	breakSpace
	breakSentence
	breakParagraph
)

// Chunker holds a validated size configuration. It is safe for concurrent use.
type Chunker struct {
	unit    Unit
	target  int
	overlap int
}

// New validates the size configuration
func New(unit Unit, targetSize, overlap int) (*Chunker, error) {
	if unit != UnitChars && unit != UnitWords {
		return nil, domain.NewInvalidConfigError(fmt.Sprintf("unknown chunking unit %q", unit))
	}
	if targetSize <= 0 {
		return nil, domain.NewInvalidConfigError("target size must be positive").
			WithContext("target_size", targetSize)
	}
	if overlap < 0 || overlap >= targetSize {
		return nil, domain.NewInvalidConfigError("overlap must be in [0, target size)").
			WithContext("target_size", targetSize).
			WithContext("overlap", overlap)
	}
	return &Chunker{unit: unit, target: targetSize, overlap: overlap}, nil
}

// Chunk is a convenience wrapper around New and (*Chunker).Chunk
func Chunk(text string, unit Unit, targetSize, overlap int, opts ...Option) ([]*domain.Chunk, error) {
	c, err := New(unit, targetSize, overlap)
	if err != nil {
		return nil, err
	}
	return c.Chunk(text, opts...), nil
}

type options struct {
	idPrefix  string
	protected []string
}

// Option customizes a single Chunk call
type Option func(*options)

// WithIDPrefix sets the chunk ID prefix; IDs are "<prefix>-0000", "<prefix>-0001", ...
func WithIDPrefix(prefix string) Option {
	return func(o *options) { o.idPrefix = prefix }
}

// WithProtectedTerms marks terms that should not be split across chunks
func WithProtectedTerms(terms []string) Option {
	return func(o *options) { o.protected = terms }
}

// Chunk splits text into ordered chunks whose spans cover the whole text.
// Consecutive chunks share exactly the configured overlap.
func (c *Chunker) Chunk(text string, opts ...Option) []*domain.Chunk {
	o := options{idPrefix: "chunk"}
	for _, opt := range opts {
		opt(&o)
	}

	chunks := []*domain.Chunk{}
	if strings.TrimSpace(text) == "" {
		return chunks
	}

	runes := []rune(text)
	words := util.Words(text)
	protected := protectedSpans(runes, o.protected)

	// units are rune offsets in char mode and word indexes in word mode
	total := len(runes)
	offsetOf := func(u int) int { return u }
	if c.unit == UnitWords {
		total = len(words)
		offsetOf = func(u int) int {
			if u >= len(words) {
				return len(runes)
			}
			return words[u].Start
		}
	}

	slack := min(c.target/10, c.target-c.overlap-1)
	startUnit := 0
	for {
		start := 0
		if startUnit > 0 {
			start = offsetOf(startUnit)
		}
		ideal := startUnit + c.target
		if ideal >= total {
			chunks = append(chunks, newChunk(runes, start, len(runes), len(chunks), o.idPrefix))
			return chunks
		}

		endUnit := c.pickBreak(runes, words, protected, ideal-slack, min(ideal+slack, total-1), ideal)
		end := offsetOf(endUnit)
		chunks = append(chunks, newChunk(runes, start, end, len(chunks), o.idPrefix))
		startUnit = endUnit - c.overlap
	}
}

// pickBreak returns the unit at which the chunk should end: the strongest
// break in [lo, hi], nearest to ideal, avoiding protected terms when possible.
// With no word boundary in the window it cuts at ideal.
func (c *Chunker) pickBreak(runes []rune, words []util.Token, protected []domain.Span, lo, hi, ideal int) int {
	best, bestKind, bestDist, bestGuarded := ideal, breakNone, 0, true
	found := false
	for k, w := range words {
		unit := w.Start
		if c.unit == UnitWords {
			unit = k
		}
		if unit < lo {
			continue
		}
		if unit > hi {
			break
		}
		prevEnd := 0
		if k > 0 {
			prevEnd = words[k-1].End
		}
		kind := classifyGap(runes[prevEnd:w.Start])
		guarded := insideAny(protected, w.Start)
		dist := abs(unit - ideal)

		better := !found
		if found {
			switch {
			case guarded != bestGuarded:
				better = !guarded
			case kind != bestKind:
				better = kind > bestKind
			default:
				better = dist < bestDist
			}
		}
		if better {
			best, bestKind, bestDist, bestGuarded, found = unit, kind, dist, guarded, true
		}
	}
	return best
}

func classifyGap(gap []rune) int {
	kind := breakNone
	for _, r := range gap {
		switch {
		case r == '\n':
			return breakParagraph
		case util.IsSentenceEnd(r):
			kind = max(kind, breakSentence)
		case unicode.IsSpace(r):
			kind = max(kind, breakSpace)
		}
	}
	return kind
}

// protectedSpans finds case-insensitive occurrences of the terms
func protectedSpans(runes []rune, terms []string) []domain.Span {
	if len(terms) == 0 {
		return nil
	}
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}
	var spans []domain.Span
	for _, term := range terms {
		t := []rune(strings.TrimSpace(term))
		if len(t) < 2 {
			continue
		}
		for i := range t {
			t[i] = unicode.ToLower(t[i])
		}
		for i := 0; i+len(t) <= len(lower); i++ {
			if equalRunes(lower[i:i+len(t)], t) {
				spans = append(spans, domain.Span{Start: i, End: i + len(t)})
			}
		}
	}
	return spans
}

func insideAny(spans []domain.Span, pos int) bool {
	for _, s := range spans {
		if s.Start < pos && pos < s.End {
			return true
		}
	}
	return false
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newChunk(runes []rune, start, end, index int, prefix string) *domain.Chunk {
	return &domain.Chunk{
		ID:         fmt.Sprintf("%s-%04d", prefix, index),
		Text:       strings.TrimSpace(string(runes[start:end])),
		Start:      start,
		End:        end,
		OrderIndex: index,
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
