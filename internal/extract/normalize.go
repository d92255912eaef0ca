package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"quiz-forge/internal/domain"
)

var urlPattern = regexp.MustCompile(`(?:https?://|www\.)[^\s\p{Z}\x0b]+`)

// typographic punctuation folded to its ASCII equivalent, one rune for one
var foldTable = map[rune]rune{
	'\u2018': '\'', '\u2019': '\'', '\u201a': '\'', '\u201b': '\'', '\u2032': '\'',
	'\u201c': '"', '\u201d': '"', '\u201e': '"', '\u201f': '"', '\u2033': '"',
	'\u2010': '-', '\u2011': '-', '\u2012': '-', '\u2013': '-', '\u2014': '-', '\u2015': '-', '\u2212': '-',
	'\u2022': '*', '\u00b7': '*',
	'\u2044': '/',
	'\uff0c': ',', '\uff0e': '.', '\uff1a': ':', '\uff1b': ';', '\uff1f': '?', '\uff01': '!',
}

// Normalize cleans extracted text: invalid UTF-8 and control/format characters are
// dropped, typographic punctuation is folded to ASCII, URLs are removed, and
// whitespace runs collapse to a single space, or to "\n" when the run contains a
// line or page break. The result is trimmed.
//
// Normalize is idempotent and never returns more characters than it was given.
func Normalize(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = strings.Map(foldRune, s)
	s = urlPattern.ReplaceAllString(s, "")
	return collapseWhitespace(s)
}

func foldRune(r rune) rune {
	if unicode.IsSpace(r) {
		return r
	}
	if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
		return -1
	}
	if folded, ok := foldTable[r]; ok {
		return folded
	}
	return r
}

func isBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace, pendingBreak := false, false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if isBreak(r) {
				pendingBreak = true
			} else {
				pendingSpace = true
			}
			continue
		}
		if b.Len() > 0 {
			if pendingBreak {
				b.WriteByte('\n')
			} else if pendingSpace {
				b.WriteByte(' ')
			}
		}
		pendingSpace, pendingBreak = false, false
		b.WriteRune(r)
	}
	return b.String()
}

// Length returns the number of characters in s, counting each invalid byte as one.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// pageSpans locates each non-empty normalized page inside cleaned. Pages are
// separated by a single "\n" after normalization.
func pageSpans(pages []string, cleaned string) []domain.Span {
	var spans []domain.Span
	offset := 0
	for _, page := range pages {
		n := Normalize(page)
		if n == "" {
			continue
		}
		l := Length(n)
		spans = append(spans, domain.Span{Start: offset, End: offset + l})
		offset += l + 1
	}
	total := Length(cleaned)
	if len(spans) == 0 || spans[len(spans)-1].End != total {
		if total == 0 {
			return nil
		}
		return []domain.Span{{Start: 0, End: total}}
	}
	return spans
}

// paragraphSpans returns the "\n"-separated paragraphs of cleaned text.
func paragraphSpans(cleaned string) []domain.Span {
	if cleaned == "" {
		return nil
	}
	var spans []domain.Span
	start, pos := 0, 0
	for _, r := range cleaned {
		if r == '\n' {
			spans = append(spans, domain.Span{Start: start, End: pos})
			start = pos + 1
		}
		pos++
	}
	return append(spans, domain.Span{Start: start, End: pos})
}
