package util

import "unicode"

// Token is a word with its [Start, End) rune offsets in the source text.
type Token struct {
	Text  string
	Start int
	End   int
}

// Words splits text into word tokens. A word is a run of letters and digits;
// an apostrophe or hyphen is kept when it joins two such runs ("don't", "x-ray").
func Words(text string) []Token {
	runes := []rune(text)
	var tokens []Token
	start := -1
	for i := 0; i <= len(runes); i++ {
		inWord := i < len(runes) && isWordRune(runes[i])
		if !inWord && i < len(runes) && start >= 0 && isJoiner(runes[i]) &&
			i+1 < len(runes) && isWordRune(runes[i+1]) {
			continue
		}
		if inWord {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = append(tokens, Token{Text: string(runes[start:i]), Start: start, End: i})
			start = -1
		}
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isJoiner(r rune) bool {
	return r == '\'' || r == '-'
}

// IsSentenceEnd reports whether r terminates a sentence.
func IsSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// Sentences splits text into trimmed sentences ending at '.', '!' or '?'
// followed by whitespace, or at a line break.
func Sentences(text string) []string {
	runes := []rune(text)
	var out []string
	start := 0
	emit := func(end int) {
		s := trimRunes(runes[start:end])
		if s != "" {
			out = append(out, s)
		}
		start = end
	}
	for i, r := range runes {
		switch {
		case r == '\n':
			emit(i)
		case IsSentenceEnd(r) && (i+1 == len(runes) || unicode.IsSpace(runes[i+1])):
			emit(i + 1)
		}
	}
	emit(len(runes))
	return out
}

func trimRunes(rs []rune) string {
	lo, hi := 0, len(rs)
	for lo < hi && unicode.IsSpace(rs[lo]) {
		lo++
	}
	for hi > lo && unicode.IsSpace(rs[hi-1]) {
		hi--
	}
	return string(rs[lo:hi])
}
