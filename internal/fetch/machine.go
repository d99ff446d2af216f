// Package fetch supervises one provider: it watches the live query, keeps
// at most one request in flight and forwards tagged results.
package fetch

import "github.com/csheth/litfind/internal/query"

// State is the supervisor's position in its three-state machine.
type State int

const (
	// Idle has nothing in flight.
	Idle State = iota
	// Fetching has one request in flight.
	Fetching
	// FetchingPending has one request in flight and a newer term waiting.
	FetchingPending
)

func (s State) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case FetchingPending:
		return "fetching+pending"
	default:
		return "idle"
	}
}

// Machine holds the transitions. It performs no I/O; the caller starts a
// fetch whenever a transition returns a query to start.
type Machine struct {
	State   State
	Current query.Query
	Pending query.Query
}

// OnTerm handles a change of the live term.
func (m *Machine) OnTerm(q query.Query) (query.Query, bool) {
	if q.Empty() {
		m.Pending = nil
		if m.State == FetchingPending {
			m.State = Fetching
		}
		return nil, false
	}

	switch m.State {
	case Idle:
		m.State = Fetching
		m.Current = q
		return q, true
	default:
		// Latest wins: an older pending term is overwritten.
		m.State = FetchingPending
		m.Pending = q
		return nil, false
	}
}

// OnDone handles completion of the in-flight fetch.
func (m *Machine) OnDone() (query.Query, bool) {
	if m.State == FetchingPending {
		m.State = Fetching
		m.Current, m.Pending = m.Pending, nil
		return m.Current, true
	}
	m.State = Idle
	m.Current = nil
	return nil, false
}
