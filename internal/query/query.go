// Package query parses the interactive search syntax into match terms.
//
// Terms are separated by whitespace. A term ending in '$' must match a whole
// token; every other term matches any token it prefixes. All terms must match.
package query

import "strings"

// ExactSuffix marks a term that has to match a token exactly.
const ExactSuffix = "$"

// Kind selects how a term is compared against a token.
type Kind int

const (
	Prefix Kind = iota
	Exact
)

func (k Kind) String() string {
	if k == Exact {
		return "exact"
	}
	return "prefix"
}

// Term is a single lowercased search word.
type Term struct {
	Kind Kind
	Word string
}

// Matches reports whether the term accepts the given lowercase token.
func (t Term) Matches(token string) bool {
	if t.Kind == Exact {
		return token == t.Word
	}
	return strings.HasPrefix(token, t.Word)
}

func (t Term) String() string {
	if t.Kind == Exact {
		return t.Word + ExactSuffix
	}
	return t.Word
}

// Query is an ordered list of terms combined with AND.
type Query []Term

// Parse splits raw on whitespace and classifies every term.
func Parse(raw string) Query {
	fields := strings.Fields(raw)
	q := make(Query, 0, len(fields))
	for _, field := range fields {
		field = strings.ToLower(field)
		if strings.HasSuffix(field, ExactSuffix) {
			word := strings.TrimSuffix(field, ExactSuffix)
			if word == "" {
				continue
			}
			q = append(q, Term{Kind: Exact, Word: word})
			continue
		}
		q = append(q, Term{Kind: Prefix, Word: field})
	}
	return q
}

// Empty reports whether the query has no terms. An empty query matches
// every token stream.
func (q Query) Empty() bool {
	return len(q) == 0
}

// Equal compares two queries term by term.
func (q Query) Equal(other Query) bool {
	if len(q) != len(other) {
		return false
	}
	for i := range q {
		if q[i] != other[i] {
			return false
		}
	}
	return true
}

// Words returns the bare words without match markers, for provider URLs.
func (q Query) Words() []string {
	words := make([]string, 0, len(q))
	for _, t := range q {
		words = append(words, t.Word)
	}
	return words
}

// MatchAll reports whether every term matches at least one of the tokens.
func (q Query) MatchAll(tokens []string) bool {
	for _, term := range q {
		found := false
		for _, token := range tokens {
			if term.Matches(token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// String renders the query back into the input syntax.
func (q Query) String() string {
	parts := make([]string, 0, len(q))
	for _, t := range q {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " ")
}
