// Package session maps keystrokes onto the interactive browsing state.
//
// Transition is a pure function: it never performs I/O. Opening, downloading
// and clipboard work are requested through the returned Action and carried
// out by the caller.
package session

import (
	"unicode"
	"unicode/utf8"

	"github.com/csheth/litfind/internal/paper"
)

// Mode is the coarse position of the session.
type Mode int

const (
	Idle Mode = iota
	Searching
	Scrolling
	Selected
)

func (m Mode) String() string {
	switch m {
	case Searching:
		return "searching"
	case Scrolling:
		return "scrolling"
	case Selected:
		return "selected"
	default:
		return "idle"
	}
}

// State is the mode plus its data: the highlighted paper for Scrolling and
// Selected, and the chosen variant for Selected.
type State struct {
	Mode  Mode
	Index int
	Hit   paper.Hit
}

// Session is the search term together with the browsing state.
type Session struct {
	Term  string
	State State
}

// KeyKind distinguishes the keys the session reacts to.
type KeyKind int

const (
	KeyOther KeyKind = iota
	KeyRune
	KeyBackspace
	KeyEnter
	KeyEsc
	KeyUp
	KeyDown
	KeyInterrupt
)

// Key is a decoded keystroke. Rune is set for KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

// RuneKey is a printable character key.
func RuneKey(r rune) Key {
	return Key{Kind: KeyRune, Rune: r}
}

// ActionKind tells the caller which side effect to perform.
type ActionKind int

const (
	None ActionKind = iota
	// UpdateSearch publishes the new term, clears the displayed papers and
	// resets the round counter.
	UpdateSearch
	Reprint
	Download
	FetchToClipboard
	Open
	Quit
)

func (k ActionKind) String() string {
	switch k {
	case UpdateSearch:
		return "update-search"
	case Reprint:
		return "reprint"
	case Download:
		return "download"
	case FetchToClipboard:
		return "fetch-to-clipboard"
	case Open:
		return "open"
	case Quit:
		return "quit"
	default:
		return "none"
	}
}

// Action is a requested side effect. Target is the URL or path it acts on;
// Info is set for Download.
type Action struct {
	Kind   ActionKind
	Target string
	Info   paper.Info
}

// Transition computes the next session and the side effect to perform.
// Pairs without a rule leave the session unchanged and return None.
func Transition(key Key, s Session, papers []paper.Paper) (Session, Action) {
	if key.Kind == KeyInterrupt {
		return s, Action{Kind: Quit}
	}

	s.State = clamp(s.State, papers)

	switch s.State.Mode {
	case Idle, Searching:
		return typing(key, s, papers)
	case Scrolling:
		return scrolling(key, s, papers)
	case Selected:
		return selected(key, s)
	}
	return s, Action{}
}

// RoundComplete leaves the searching indicator once every source answered.
func RoundComplete(s Session) Session {
	if s.State.Mode == Searching {
		s.State = State{Mode: Idle}
	}
	return s
}

// clamp keeps indices inside the current paper list. Scrolling or Selected
// over an empty list falls back to Idle.
func clamp(st State, papers []paper.Paper) State {
	if st.Mode != Scrolling && st.Mode != Selected {
		return st
	}
	if len(papers) == 0 {
		return State{Mode: Idle}
	}
	if st.Index < 0 {
		st.Index = 0
	}
	if st.Index >= len(papers) {
		st.Index = len(papers) - 1
	}
	return st
}

func typing(key Key, s Session, papers []paper.Paper) (Session, Action) {
	switch key.Kind {
	case KeyRune:
		if !unicode.IsPrint(key.Rune) {
			return s, Action{}
		}
		s.Term += string(key.Rune)
		s.State = State{Mode: Searching}
		return s, Action{Kind: UpdateSearch}
	case KeyBackspace:
		if s.Term == "" {
			s.State = State{Mode: Idle}
			return s, Action{}
		}
		_, size := utf8.DecodeLastRuneInString(s.Term)
		s.Term = s.Term[:len(s.Term)-size]
		if s.Term == "" {
			s.State = State{Mode: Idle}
		} else {
			s.State = State{Mode: Searching}
		}
		return s, Action{Kind: UpdateSearch}
	case KeyDown:
		if s.State.Mode == Idle && len(papers) > 0 {
			s.State = State{Mode: Scrolling, Index: 0}
			return s, Action{Kind: Reprint}
		}
	}
	return s, Action{}
}

func scrolling(key Key, s Session, papers []paper.Paper) (Session, Action) {
	i := s.State.Index
	switch key.Kind {
	case KeyDown:
		if i < len(papers)-1 {
			s.State.Index = i + 1
		}
		return s, Action{Kind: Reprint}
	case KeyUp:
		if i > 0 {
			s.State.Index = i - 1
		} else {
			s.State = State{Mode: Idle}
		}
		return s, Action{Kind: Reprint}
	case KeyEnter:
		return s, Action{Kind: Open, Target: paper.PrimaryTarget(papers[i].Best())}
	case KeyEsc:
		s.State = State{Mode: Searching}
		return s, Action{Kind: Reprint}
	case KeyRune:
		if key.Rune == 's' {
			s.State = State{Mode: Idle}
			return s, Action{Kind: Reprint}
		}
		if n, ok := digit(key.Rune); ok {
			if hit, found := papers[i].Variant(n); found {
				s.State = State{Mode: Selected, Index: i, Hit: hit}
				return s, Action{Kind: Reprint}
			}
		}
	}
	return s, Action{}
}

func selected(key Key, s Session) (Session, Action) {
	back := func() (Session, Action) {
		s.State = State{Mode: Scrolling, Index: s.State.Index}
		return s, Action{Kind: Reprint}
	}

	switch key.Kind {
	case KeyEsc:
		return back()
	case KeyRune:
		if key.Rune == 's' {
			return back()
		}
	default:
		return s, Action{}
	}

	n, ok := digit(key.Rune)
	if !ok {
		return s, Action{}
	}
	for _, choice := range Choices(s.State.Hit) {
		if choice.Key == n {
			return s, choice.Action
		}
	}
	return s, Action{}
}

func digit(r rune) (int, bool) {
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

// Choice is one numbered action offered for a selected variant.
type Choice struct {
	Key    int
	Label  string
	Action Action
}

// Choices lists what can be done with a variant, in menu order.
func Choices(h paper.Hit) []Choice {
	switch v := h.(type) {
	case paper.LocalHit:
		return []Choice{
			{Key: 1, Label: "open " + v.Location, Action: Action{Kind: Open, Target: v.Location}},
		}
	case paper.ArxivHit:
		return []Choice{
			{Key: 1, Label: "download", Action: Action{Kind: Download, Target: v.PDFURL(), Info: v.Info}},
			{Key: 2, Label: "open online", Action: Action{Kind: Open, Target: v.AbsURL}},
		}
	case paper.DblpHit:
		return []Choice{
			{Key: 1, Label: "open " + v.ExternalURL, Action: Action{Kind: Open, Target: v.ExternalURL}},
			{Key: 2, Label: "open " + v.ListingURL, Action: Action{Kind: Open, Target: v.ListingURL}},
			{Key: 3, Label: "copy bib", Action: Action{Kind: FetchToClipboard, Target: v.BibURL()}},
		}
	default:
		return nil
	}
}
