package paper

import "strings"

var titlePunctuation = strings.NewReplacer(
	".", "",
	"$", "",
	",", "",
	":", "",
	";", "",
	"?", "",
	"!", "",
	"\"", "",
	"{", "",
	"}", "",
)

// Title is a paper title split into words with punctuation removed.
type Title struct {
	Words []string
}

// NewTitle strips punctuation and splits on whitespace.
func NewTitle(raw string) Title {
	return Title{Words: strings.Fields(titlePunctuation.Replace(raw))}
}

// Normalized is the lowercase, single-spaced form used to match the same
// work across sources.
func (t Title) Normalized() string {
	return strings.ToLower(strings.Join(t.Words, " "))
}

func (t Title) String() string {
	return strings.Join(t.Words, " ")
}

// Equal compares normalized forms.
func (t Title) Equal(other Title) bool {
	return t.Normalized() == other.Normalized()
}
