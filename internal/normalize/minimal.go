package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const backToArchive = "\u2039 Back to Archive Search"

var sentenceBreak = regexp.MustCompile(`[.!?][\s\v\p{Z}\x{85}]+`)

// Minimal keeps punctuation and case, it only drops navigation boilerplate
// and the sentences that carry a link or an editorial note.
type Minimal struct{}

func (Minimal) Name() string {
	return ProfileMinimal
}

func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		// the punctuation mark stays with its sentence
		sentences = append(sentences, text[start:loc[0]+1])
		start = loc[1]
	}
	return append(sentences, text[start:])
}

func dropSentence(sentence string) bool {
	return strings.Contains(sentence, "http://") ||
		strings.Contains(sentence, "https://") ||
		strings.HasPrefix(strings.ToLower(sentence), "note:")
}

func (Minimal) Apply(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, backToArchive, "")
	text = boilerplate.ReplaceAllString(text, "")

	var kept []string
	for _, sentence := range splitSentences(text) {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" || dropSentence(sentence) {
			continue
		}
		kept = append(kept, sentence)
	}
	text = strings.Join(kept, " ")

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}
