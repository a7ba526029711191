package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// Profile is one normalization strategy, Apply must be total over every
// string input.
type Profile interface {
	Name() string
	Apply(text string) string
}

const (
	ProfileFull    = "full"
	ProfileMinimal = "minimal"
)

func ParseProfile(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case ProfileFull, "":
		return Full{}, nil
	case ProfileMinimal:
		return Minimal{}, nil
	}
	return nil, fmt.Errorf("unknown normalization profile %q (expected %s or %s)", name, ProfileFull, ProfileMinimal)
}

// Step is a single named rewrite of the full profile.
type Step struct {
	Name  string
	Apply func(text string) string
}

func replace(pairs ...string) func(string) string {
	r := strings.NewReplacer(pairs...)
	return r.Replace
}

func replaceRegexp(re *regexp.Regexp, repl string) func(string) string {
	return func(text string) string {
		return re.ReplaceAllString(text, repl)
	}
}

// untilStable repeats fn until the text stops changing, fn must shrink the
// text whenever it changes it.
func untilStable(fn func(string) string) func(string) string {
	return func(text string) string {
		for {
			next := fn(text)
			if next == text {
				return text
			}
			text = next
		}
	}
}

func chain(fns ...func(string) string) func(string) string {
	return func(text string) string {
		for _, fn := range fns {
			text = fn(text)
		}
		return text
	}
}

var (
	// go's \s does not cover \v or unicode spaces
	whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{85}]+`)
	boilerplate   = regexp.MustCompile(`For more information about District economic conditions,? visit: URL`)

	ampersand         = regexp.MustCompile(`\s*&\s*`)
	forbiddenSymbols  = regexp.MustCompile(`[<>~*]`)
	hyphenRun         = regexp.MustCompile(`-{2,}`)
	questionThenWord  = regexp.MustCompile(`\?([\p{L}\p{N}_])`)
	spaceThenQuestion = regexp.MustCompile(`[\s\v\p{Z}]+\?`)
	spaceThenComma    = regexp.MustCompile(`[\s\v\p{Z}]+,`)
	commaRun          = regexp.MustCompile(`,{2,}`)
	spaceThenPeriod   = regexp.MustCompile(`[\s\v\p{Z}]+\.([^0-9])`)
)

// FullSteps is the ordered rewrite chain of the full profile, each step
// assumes the previous ones already ran.
var FullSteps = []Step{
	{Name: "clean", Apply: clean},
	{Name: "boilerplate", Apply: replaceRegexp(boilerplate, "")},
	{Name: "percent", Apply: replace("%-", " percent to ", "%", " percent")},
	{Name: "ampersand", Apply: replaceRegexp(ampersand, " and ")},
	{Name: "equals", Apply: replace("=", " equals ")},
	{Name: "symbols", Apply: replaceRegexp(forbiddenSymbols, "")},
	{Name: "hyphen-runs", Apply: replaceRegexp(hyphenRun, " , ")},
	{Name: "question-marks", Apply: chain(
		replaceRegexp(questionThenWord, "? $1"),
		replaceRegexp(spaceThenQuestion, "?"),
	)},
	{Name: "commas", Apply: chain(
		replaceRegexp(spaceThenComma, ","),
		replaceRegexp(commaRun, ","),
	)},
	// a match consumes the character after the period, so " . . ." needs
	// several rounds
	{Name: "space-before-period", Apply: untilStable(replaceRegexp(spaceThenPeriod, ".$1"))},
	{Name: "ellipsis", Apply: replace("...", " ")},
	{Name: "double-punctuation", Apply: chain(
		replace("..", "."),
		replace(",.", ","),
	)},
	{Name: "brackets", Apply: replace("[", "", "]", "")},
	{Name: "whitespace", Apply: func(text string) string {
		return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	}},
}

// later steps can expose the pattern of an earlier one (ex. "-[-"), the
// chain is repeated until the text stops changing.
const maxPasses = 8

// Full is the aggressive profile producing punctuation-normalized prose with
// none of % & = < > ~ * [ ] left in it.
type Full struct{}

func (Full) Name() string {
	return ProfileFull
}

func (Full) Apply(text string) string {
	for i := 0; i < maxPasses; i++ {
		next := text
		for _, step := range FullSteps {
			next = step.Apply(next)
		}
		if next == text {
			break
		}
		text = next
	}
	return text
}
