package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type jobKind string

const (
	jobKindDownload  jobKind = "download"
	jobKindClipboard jobKind = "clipboard"
	jobKindOpen      jobKind = "open"
)

// jobSnapshot identifies a side effect for the model's running counts.
type jobSnapshot struct {
	ID     string
	Kind   jobKind
	Failed bool
}

// jobSignalMsg arrives before the job body runs.
type jobSignalMsg struct {
	Snapshot jobSnapshot
}

// jobResultEnvelope carries the job's own message back to Update.
type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus runs downloads, clipboard fetches and opens off the event loop.
// Each job reports back as a message; nothing is shared with the model.
type jobBus struct {
	counter int64
	logger  zerolog.Logger
}

func newJobBus(logger zerolog.Logger) *jobBus {
	return &jobBus{logger: logger.With().Str("component", "jobs").Logger()}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start signals the job as running, then runs it.
func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	snapshot := jobSnapshot{ID: b.nextID(kind), Kind: kind}
	return tea.Sequence(
		func() tea.Msg { return jobSignalMsg{Snapshot: snapshot} },
		func() tea.Msg { return b.run(snapshot, runner) },
	)
}

func (b *jobBus) run(snapshot jobSnapshot, runner jobRunner) jobResultEnvelope {
	started := time.Now()
	payload, err := runner(context.Background())
	snapshot.Failed = err != nil

	event := b.logger.Info()
	if err != nil {
		event = b.logger.Warn().Err(err)
	}
	event.Str("job", snapshot.ID).Dur("duration", time.Since(started)).Msg("job finished")
	return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
}
