package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFull(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "percent range", input: "40%-50%", expected: "40 percent to 50 percent"},
		{name: "spaced percent", input: "up 100 %", expected: "up 100 percent"},
		{name: "decimal kept", input: "Sales rose 3.5. Profits fell.", expected: "Sales rose 3.5. Profits fell."},
		{name: "space before period", input: "word . Next", expected: "word. Next"},
		{name: "spaced period run", input: "a . . . . b", expected: "a. b"},
		{name: "space before decimal", input: "about .5 percent", expected: "about .5 percent"},
		{name: "question then space", input: "What? Next", expected: "What? Next"},
		{name: "space then question", input: "What ?", expected: "What?"},
		{name: "question then word", input: "What?Next", expected: "What? Next"},
		{name: "ampersand", input: "R & D and R&D", expected: "R and D and R and D"},
		{name: "equals", input: "a=b", expected: "a equals b"},
		{name: "symbols", input: "~5 *units* <est>", expected: "5 units est"},
		{name: "hyphen run", input: "growth--slow", expected: "growth, slow"},
		{name: "single hyphen", input: "year-over-year", expected: "year-over-year"},
		{name: "doubled comma", input: "yes,, no , maybe", expected: "yes, no, maybe"},
		{name: "ellipsis", input: "Wait... what", expected: "Wait what"},
		{name: "double period", input: "End.. Start", expected: "End. Start"},
		{name: "comma period", input: "a,. b", expected: "a, b"},
		{name: "brackets", input: "[sic] text", expected: "sic text"},
		{name: "whitespace", input: "  lots \n\n of \t space  ", expected: "lots of space"},
		{
			name:     "boilerplate",
			input:    "Growth was modest. For more information about District economic conditions visit: URL Retail rose.",
			expected: "Growth was modest. Retail rose.",
		},
		{
			name:     "boilerplate with comma",
			input:    "For more information about District economic conditions, visit: URL",
			expected: "",
		},
		{
			name:     "entities and typography",
			input:    "Caf&eacute; &amp; “quotes” — dash",
			expected: `Cafe and "quotes" - dash`,
		},
		{name: "diacritics", input: "Señor Müller", expected: "Senor Muller"},
		{name: "compatibility forms", input: "ﬁnance ％", expected: "finance percent"},
		{name: "format characters", input: "zero\u200bwidth soft\u00adhyphen", expected: "zerowidth softhyphen"},
		{name: "control characters", input: "bell\x07 tab\there", expected: "bell tab here"},
		{name: "exposed hyphen run", input: "-[-", expected: ","},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Full{}.Apply(test.input))
		})
	}
}

var tricky = []string{
	"",
	"40%-50%",
	"? ?a",
	"What ? ?Next",
	"a . . . b",
	"x -- -- y",
	"%%--",
	"[..]",
	". ,. ,",
	"&&",
	"&amp;lt;",
	"-[-[-",
	"a [.] b",
	"..., ,,, ...",
	"1 . 2 . x",
	"Prices rose 2.5 % -- on average -- in Q3 ; see [table] .",
	"For more information about District economic conditions, visit: URL",
	"“Tight” labor markets… wages up 3–4%.",
	"a" + strings.Repeat(" .", 300) + " b",
}

func TestFullIdempotent(t *testing.T) {
	for _, input := range tricky {
		once := Full{}.Apply(input)
		require.Equal(t, once, Full{}.Apply(once), "input %q", input)
	}
}

func TestFullForbiddenCharacters(t *testing.T) {
	inputs := append([]string{
		"100% of <firms> ~ said * = [yes] & more",
		"％ ＆ ＝ ＜ ＞ ～ ＊ ［ ］",
		"&lt;tag&gt; &amp;amp; &#37;",
	}, tricky...)

	for _, input := range inputs {
		out := Full{}.Apply(input)
		require.False(t, strings.ContainsAny(out, "%&=<>~*[]"), "input %q produced %q", input, out)
	}
}

func TestMinimal(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{
			name:     "keeps punctuation and case",
			input:    "Activity ROSE modestly!  Did hiring slow?\n\nYes -- a little [sic].",
			expected: "Activity ROSE modestly! Did hiring slow? Yes -- a little [sic].",
		},
		{
			name:     "drops link sentences",
			input:    "Visit https://example.com for data. Retail rose. See http://old.example.org too.",
			expected: "Retail rose.",
		},
		{
			name:     "drops notes",
			input:    "Note: figures are preliminary. Lending grew. NOTE: ignore this. note:lower",
			expected: "Lending grew.",
		},
		{
			name:     "boilerplate",
			input:    "\u2039 Back to Archive Search\r\nSummary of Commentary. For more information about District economic conditions, visit: URL\r\nEnd",
			expected: "Summary of Commentary. End",
		},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.expected, Minimal{}.Apply(test.input))
		})
	}
}

func TestParseProfile(t *testing.T) {
	profile, err := ParseProfile("")
	require.NoError(t, err)
	require.Equal(t, ProfileFull, profile.Name())

	profile, err = ParseProfile(" Minimal ")
	require.NoError(t, err)
	require.Equal(t, ProfileMinimal, profile.Name())

	_, err = ParseProfile("aggressive")
	require.ErrorContains(t, err, "unknown normalization profile")
}

func FuzzFull(f *testing.F) {
	for _, input := range tricky {
		f.Add(input)
	}
	f.Add("Prices rose 5% & wages rose 3%-4%.")
	f.Add("Output <rose> ~ 2 * 3 = 6 [sic]")
	f.Add("Is demand up?Yes , it is .")
	f.Add("line one\n\n\tline\u00a0two\u2028three")

	f.Fuzz(func(t *testing.T, input string) {
		once := Full{}.Apply(input)
		if twice := (Full{}).Apply(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", input, once, twice)
		}
		if strings.ContainsAny(once, "%&=<>~*[]") {
			t.Fatalf("forbidden character left in %q (input %q)", once, input)
		}
		if strings.Contains(once, "  ") {
			t.Fatalf("double space left in %q (input %q)", once, input)
		}
		if strings.TrimSpace(once) != once {
			t.Fatalf("surrounding whitespace left in %q (input %q)", once, input)
		}
	})
}
