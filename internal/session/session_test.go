package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/litfind/internal/paper"
)

func samplePapers() []paper.Paper {
	info := paper.Info{Title: paper.NewTitle("Attention Is All You Need"), Year: "2017"}
	return []paper.Paper{
		paper.New([]paper.Hit{
			paper.ArxivHit{Info: info, AbsURL: "http://arxiv.org/abs/1706.03762"},
			paper.DblpHit{Info: info, ExternalURL: "https://ee", ListingURL: "https://dblp.org/rec/x"},
		}),
		paper.New([]paper.Hit{
			paper.LocalHit{Info: paper.Info{Title: paper.NewTitle("Local")}, Location: "/docs/local.pdf"},
		}),
	}
}

func TestTyping(t *testing.T) {
	t.Parallel()

	s := Session{}
	s, act := Transition(RuneKey('g'), s, nil)
	assert.Equal(t, "g", s.Term)
	assert.Equal(t, Searching, s.State.Mode)
	assert.Equal(t, UpdateSearch, act.Kind)

	s, act = Transition(RuneKey('é'), s, nil)
	assert.Equal(t, "gé", s.Term)
	assert.Equal(t, UpdateSearch, act.Kind)

	s, act = Transition(Key{Kind: KeyBackspace}, s, nil)
	assert.Equal(t, "g", s.Term)
	assert.Equal(t, Searching, s.State.Mode)
	assert.Equal(t, UpdateSearch, act.Kind)

	s, act = Transition(Key{Kind: KeyBackspace}, s, nil)
	assert.Equal(t, "", s.Term)
	assert.Equal(t, Idle, s.State.Mode)
	assert.Equal(t, UpdateSearch, act.Kind)

	s, act = Transition(Key{Kind: KeyBackspace}, s, nil)
	assert.Equal(t, Idle, s.State.Mode)
	assert.Equal(t, None, act.Kind)

	_, act = Transition(RuneKey('\t'), s, nil)
	assert.Equal(t, None, act.Kind)
}

func TestInterruptQuitsFromEveryMode(t *testing.T) {
	t.Parallel()

	papers := samplePapers()
	states := []State{
		{Mode: Idle},
		{Mode: Searching},
		{Mode: Scrolling, Index: 1},
		{Mode: Selected, Index: 0, Hit: papers[0].Hits[0]},
	}
	for _, st := range states {
		s := Session{Term: "x", State: st}
		next, act := Transition(Key{Kind: KeyInterrupt}, s, papers)
		assert.Equal(t, Quit, act.Kind, st.Mode.String())
		assert.Equal(t, s, next)
	}
}

func TestScrolling(t *testing.T) {
	t.Parallel()

	papers := samplePapers()

	s, act := Transition(Key{Kind: KeyDown}, Session{Term: "att"}, nil)
	assert.Equal(t, Idle, s.State.Mode)
	assert.Equal(t, None, act.Kind)

	s, act = Transition(Key{Kind: KeyDown}, Session{Term: "att", State: State{Mode: Searching}}, papers)
	assert.Equal(t, Searching, s.State.Mode)
	assert.Equal(t, None, act.Kind)

	s, act = Transition(Key{Kind: KeyDown}, Session{Term: "att"}, papers)
	require.Equal(t, Scrolling, s.State.Mode)
	assert.Equal(t, 0, s.State.Index)
	assert.Equal(t, Reprint, act.Kind)

	s, _ = Transition(Key{Kind: KeyDown}, s, papers)
	assert.Equal(t, 1, s.State.Index)
	s, _ = Transition(Key{Kind: KeyDown}, s, papers)
	assert.Equal(t, 1, s.State.Index)

	s, _ = Transition(Key{Kind: KeyUp}, s, papers)
	assert.Equal(t, 0, s.State.Index)
	s, act = Transition(Key{Kind: KeyUp}, s, papers)
	assert.Equal(t, Idle, s.State.Mode)
	assert.Equal(t, Reprint, act.Kind)
	assert.Equal(t, "att", s.Term)
}

func TestScrollingKeys(t *testing.T) {
	t.Parallel()

	papers := samplePapers()
	at := func(i int) Session { return Session{Term: "a", State: State{Mode: Scrolling, Index: i}} }

	s, act := Transition(Key{Kind: KeyEnter}, at(0), papers)
	assert.Equal(t, at(0), s)
	assert.Equal(t, Action{Kind: Open, Target: "http://arxiv.org/abs/1706.03762"}, act)

	_, act = Transition(Key{Kind: KeyEnter}, at(1), papers)
	assert.Equal(t, Action{Kind: Open, Target: "/docs/local.pdf"}, act)

	s, act = Transition(Key{Kind: KeyEsc}, at(1), papers)
	assert.Equal(t, Searching, s.State.Mode)
	assert.Equal(t, Reprint, act.Kind)

	s, _ = Transition(RuneKey('s'), at(1), papers)
	assert.Equal(t, Idle, s.State.Mode)

	s, act = Transition(RuneKey('2'), at(0), papers)
	require.Equal(t, Selected, s.State.Mode)
	assert.Equal(t, 0, s.State.Index)
	assert.Equal(t, paper.SourceDblp, s.State.Hit.Source())
	assert.Equal(t, Reprint, act.Kind)

	s, act = Transition(RuneKey('3'), at(0), papers)
	assert.Equal(t, Scrolling, s.State.Mode)
	assert.Equal(t, None, act.Kind)

	s, act = Transition(RuneKey('x'), at(0), papers)
	assert.Equal(t, at(0), s)
	assert.Equal(t, None, act.Kind)
}

func TestSelectedActions(t *testing.T) {
	t.Parallel()

	papers := samplePapers()
	arxiv := papers[0].Hits[0].(paper.ArxivHit)
	dblp := papers[0].Hits[1].(paper.DblpHit)
	local := papers[1].Hits[0]

	cases := []struct {
		name string
		hit  paper.Hit
		key  rune
		want Action
	}{
		{"arxiv download", arxiv, '1', Action{Kind: Download, Target: "http://arxiv.org/pdf/1706.03762.pdf", Info: arxiv.Info}},
		{"arxiv open", arxiv, '2', Action{Kind: Open, Target: arxiv.AbsURL}},
		{"arxiv unknown", arxiv, '3', Action{}},
		{"dblp external", dblp, '1', Action{Kind: Open, Target: "https://ee"}},
		{"dblp listing", dblp, '2', Action{Kind: Open, Target: "https://dblp.org/rec/x"}},
		{"dblp bib", dblp, '3', Action{Kind: FetchToClipboard, Target: "https://dblp.org/rec/x.bib"}},
		{"local open", local, '1', Action{Kind: Open, Target: "/docs/local.pdf"}},
		{"letter", local, 'q', Action{}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s := Session{Term: "a", State: State{Mode: Selected, Index: 0, Hit: tc.hit}}
			next, act := Transition(RuneKey(tc.key), s, papers)
			assert.Equal(t, tc.want, act)
			assert.Equal(t, s, next)
		})
	}
}

func TestSelectedBacksOut(t *testing.T) {
	t.Parallel()

	papers := samplePapers()
	s := Session{Term: "a", State: State{Mode: Selected, Index: 1, Hit: papers[1].Hits[0]}}
	for _, key := range []Key{{Kind: KeyEsc}, RuneKey('s')} {
		next, act := Transition(key, s, papers)
		assert.Equal(t, State{Mode: Scrolling, Index: 1}, next.State)
		assert.Equal(t, Reprint, act.Kind)
	}
}

func TestIndicesAreClampedToPapers(t *testing.T) {
	t.Parallel()

	papers := samplePapers()
	s := Session{Term: "a", State: State{Mode: Scrolling, Index: 7}}
	_, act := Transition(Key{Kind: KeyEnter}, s, papers)
	assert.Equal(t, "/docs/local.pdf", act.Target)

	next, act := Transition(Key{Kind: KeyEnter}, s, nil)
	assert.Equal(t, Idle, next.State.Mode)
	assert.Equal(t, None, act.Kind)
}

func TestRoundComplete(t *testing.T) {
	t.Parallel()

	s := RoundComplete(Session{Term: "a", State: State{Mode: Searching}})
	assert.Equal(t, Idle, s.State.Mode)

	scrolling := Session{Term: "a", State: State{Mode: Scrolling, Index: 1}}
	assert.Equal(t, scrolling, RoundComplete(scrolling))
}

// Random walks from Idle over shrinking and growing paper lists never panic
// and never leave an index outside the list.
func TestTransitionTotality(t *testing.T) {
	t.Parallel()

	keys := []Key{
		RuneKey('a'), RuneKey('s'), RuneKey('1'), RuneKey('2'), RuneKey('3'), RuneKey('9'),
		{Kind: KeyBackspace}, {Kind: KeyEnter}, {Kind: KeyEsc}, {Kind: KeyUp}, {Kind: KeyDown}, {Kind: KeyOther},
	}
	full := samplePapers()
	rng := rand.New(rand.NewSource(1))

	for walk := 0; walk < 200; walk++ {
		s := Session{}
		for step := 0; step < 50; step++ {
			papers := full[:rng.Intn(len(full)+1)]
			key := keys[rng.Intn(len(keys))]
			require.NotPanics(t, func() { s, _ = Transition(key, s, papers) })
			if s.State.Mode == Scrolling || s.State.Mode == Selected {
				require.Less(t, s.State.Index, len(papers))
			}
		}
	}
}
