package paper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csheth/litfind/internal/query"
)

func TestTitleNormalized(t *testing.T) {
	t.Parallel()

	title := NewTitle("  Attention Is   All You Need.")
	assert.Equal(t, "attention is all you need", title.Normalized())
	assert.Equal(t, "Attention Is All You Need", title.String())
	assert.True(t, title.Equal(NewTitle("attention is all you need")))
	assert.Equal(t, "x y", NewTitle("X: {Y}?").Normalized())
}

func TestMatchesExactAndPrefix(t *testing.T) {
	t.Parallel()

	q := query.Parse("Smith$ learning")

	smithson := Info{Title: NewTitle("Deep learning"), Authors: []string{"John Smithson"}}
	assert.False(t, smithson.Matches(q))

	theory := Info{Title: NewTitle("Smith learning theory")}
	assert.True(t, theory.Matches(q))
}

func TestMatchesEmptyQuery(t *testing.T) {
	t.Parallel()

	assert.True(t, Info{}.Matches(query.Parse("")))
	assert.True(t, Info{Title: NewTitle("anything")}.Matches(nil))
}

func TestMatchesVenueAndYear(t *testing.T) {
	t.Parallel()

	info := Info{
		Title: NewTitle("Graph Networks"),
		Venue: Venue{Kind: VenueConference, Name: "NeurIPS"},
		Year:  "2019",
	}
	assert.True(t, info.Matches(query.Parse("neur 2019$")))
	assert.False(t, info.Matches(query.Parse("2018")))
}

func TestSameWork(t *testing.T) {
	t.Parallel()

	id := NewArxivIdentifier(ArxivID{Year: 17, Month: 6, Number: "03762"})
	other := NewArxivIdentifier(ArxivID{Year: 18, Month: 1, Number: "00001"})

	withID := Info{ID: &id, Title: NewTitle("A"), Year: "2017"}
	sameID := Info{ID: &id, Title: NewTitle("Different"), Year: "2020"}
	otherID := Info{ID: &other, Title: NewTitle("A"), Year: "2017"}
	assert.True(t, withID.SameWork(sameID))
	assert.False(t, withID.SameWork(otherID))

	venue := Venue{Kind: VenueJournal, Name: "JMLR"}
	plain := Info{Title: NewTitle("Some Title."), Venue: venue, Year: "2010"}
	assert.True(t, plain.SameWork(Info{Title: NewTitle("some title"), Venue: venue, Year: "2010"}))
	assert.False(t, plain.SameWork(Info{Title: NewTitle("some title"), Venue: venue, Year: "2011"}))
	assert.True(t, plain.SameWork(Info{ID: &id, Title: NewTitle("some title"), Venue: venue, Year: "2010"}))
}

func TestDefaultFilename(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "full",
			info: Info{
				Title:   NewTitle("Attention Is All You Need"),
				Authors: []string{"Ashish Vaswani", "Noam Shazeer", "Niki Parmar"},
				Year:    "2017",
			},
			want: "vaswaniNP17attentionis",
		},
		{
			name: "single author",
			info: Info{Title: NewTitle("Learning"), Authors: []string{"Ada Lovelace"}, Year: "1843"},
			want: "lovelace43learning",
		},
		{
			name: "missing fields",
			info: Info{Title: NewTitle("I/O Bound")},
			want: "unknowni-obound",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.info.DefaultFilename())
		})
	}
}
