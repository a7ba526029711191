package textutil

import (
	"regexp"
	"strings"

	"github.com/antzucaro/matchr"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// Suggest returns the candidate closest to `name` by Jaro-Winkler similarity,
// or "" if no candidate is at least `threshold` similar.
func Suggest(name string, candidates []string, threshold float64) string {
	name = NormalizeName(name)
	best := ""
	bestScore := threshold
	for _, c := range candidates {
		score := matchr.JaroWinkler(name, NormalizeName(c), false)
		if score >= bestScore {
			best = c
			bestScore = score
		}
	}
	return best
}
