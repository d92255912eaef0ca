package concepts

var stopwords = toSet(`a about above after again against all also am an and any are aren't as at
be because been before being below between both but by can cannot could couldn't
did didn't do does doesn't doing don't down during each either etc few for from further
had hadn't has hasn't have haven't having he her here hers herself him himself his how however
i if in into is isn't it it's its itself just let's like may me might more most must my myself
no nor not now of off on once only or other ought our ours ourselves out over own
same shall she should shouldn't so some such than that that's the their theirs them themselves
then there there's these they this those through thus to too under until up upon us use used
using very via was wasn't we were weren't what what's when where which while who whom whose why
will with within without won't would wouldn't yet you your yours yourself yourselves
one two three first second new many much well often however therefore also thereby`)

func toSet(words string) map[string]struct{} {
	set := make(map[string]struct{})
	start := -1
	for i := 0; i <= len(words); i++ {
		if i < len(words) && words[i] != ' ' && words[i] != '\n' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			set[words[start:i]] = struct{}{}
			start = -1
		}
	}
	return set
}

// IsStopword reports whether the lowercased word carries no topical meaning.
func IsStopword(lower string) bool {
	_, ok := stopwords[lower]
	return ok
}
