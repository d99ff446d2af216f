package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/csheth/litfind/internal/aggregate"
	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
	"github.com/csheth/litfind/internal/session"
)

// Config wires runtime dependencies into the TUI program.
type Config struct {
	Engine     Searcher
	Downloader Downloader
	Catalog    CatalogSaver
	Bib        BibCopier
	Opener     Opener
	Logger     zerolog.Logger
	// Sources is the number of configured sources, catalog included.
	Sources int
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot

	sources := config.Sources
	if sources <= 0 {
		sources = len(paper.Sources)
	}

	return &model{
		config:      config,
		round:       aggregate.NewRound(sources),
		spinner:     spin,
		help:        help.New(),
		keys:        newKeyMap(),
		jobs:        newJobBus(config.Logger),
		layout:      newPageLayout(),
		logger:      config.Logger.With().Str("component", "tui").Logger(),
		infoMessage: "Type to search. Terms match word prefixes; end a word with $ for an exact match.",
	}
}

type model struct {
	config Config

	session session.Session
	papers  []paper.Paper
	live    query.Query
	round   aggregate.Round

	degraded    bool
	catalogSize int
	loaded      bool

	spinner  spinner.Model
	spinning bool
	help     help.Model
	keys     keyMap
	jobs     *jobBus
	layout   pageLayout
	logger   zerolog.Logger

	running      map[jobKind]int
	infoMessage  string
	errorMessage string
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(
		waitForResult(m.config.Engine.Results()),
		waitForLoad(m.config.Engine.Loaded()),
	)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if !m.spinning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case loadedMsg:
		return m, m.handleLoaded(msg)
	case resultMsg:
		m.handleResult(msg)
		return m, waitForResult(m.config.Engine.Results())
	case tea.KeyMsg:
		return m.handleKey(msg)
	case jobSignalMsg:
		if m.running == nil {
			m.running = map[jobKind]int{}
		}
		m.running[msg.Snapshot.Kind]++
		return m, nil
	case jobResultEnvelope:
		if m.running[msg.Snapshot.Kind] > 0 {
			m.running[msg.Snapshot.Kind]--
		}
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case downloadDoneMsg:
		m.handleDownloadDone(msg)
		return m, nil
	case clipboardDoneMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = "BibTeX entry copied to clipboard."
		return m, nil
	case openDoneMsg:
		if msg.err != nil {
			m.errorMessage = fmt.Sprintf("Could not open %s: %v", msg.target, msg.err)
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Opened %s", msg.target)
		return m, nil
	}
	return m, nil
}

func (m *model) handleLoaded(msg loadedMsg) tea.Cmd {
	m.loaded = true
	if msg.result.Err != nil {
		m.degraded = true
		m.round.SetExpected(len(paper.Sources) - 1)
		m.errorMessage = fmt.Sprintf("Catalog unavailable, searching online only: %v", msg.result.Err)
		m.logger.Warn().Err(msg.result.Err).Msg("degraded mode")
		m.checkRound()
		return nil
	}
	m.catalogSize = msg.result.Size
	m.logger.Debug().Int("entries", msg.result.Size).Msg("catalog loaded")
	return nil
}

func (m *model) handleResult(msg resultMsg) {
	res := msg.result
	if res.Err != nil {
		m.logger.Warn().Err(res.Err).Str("source", res.Source.String()).Msg("source failed")
	}
	m.papers = aggregate.Merge(m.papers, res, m.live)
	m.round.Record(res)
	m.checkRound()
}

func (m *model) checkRound() {
	if m.live.Empty() || !m.round.Complete() {
		return
	}
	m.session = session.RoundComplete(m.session)
	if m.session.State.Mode != session.Searching {
		m.spinning = false
	}
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.decodeKey(msg)
	next, action := session.Transition(k, m.session, m.papers)
	m.session = next
	cmd := m.dispatch(action)
	// A key can put the session back into Searching after the round already
	// finished; no further result would take it out again.
	m.checkRound()
	return m, cmd
}

func (m *model) dispatch(action session.Action) tea.Cmd {
	switch action.Kind {
	case session.UpdateSearch:
		return m.updateSearch()
	case session.Download:
		if m.config.Downloader == nil {
			m.errorMessage = "Downloads are not configured."
			return nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Downloading %s…", action.Info.Title.String())
		return m.jobs.Start(jobKindDownload, downloadJob(m.config.Downloader, m.config.Catalog, action.Info, action.Target))
	case session.FetchToClipboard:
		if m.config.Bib == nil || action.Target == "" {
			m.errorMessage = "No BibTeX entry for this hit."
			return nil
		}
		m.errorMessage = ""
		m.infoMessage = "Fetching BibTeX entry…"
		return m.jobs.Start(jobKindClipboard, clipboardJob(m.config.Bib, action.Target))
	case session.Open:
		if m.config.Opener == nil || action.Target == "" {
			m.errorMessage = "Nothing to open for this hit."
			return nil
		}
		return m.jobs.Start(jobKindOpen, openJob(m.config.Opener, action.Target))
	case session.Quit:
		return tea.Quit
	}
	// Reprint and None: the view is redrawn after every update.
	return nil
}

func (m *model) updateSearch() tea.Cmd {
	m.live = query.Parse(m.session.Term)
	m.papers = nil
	m.round.Reset(m.live)
	m.config.Engine.Publish(m.live)
	m.errorMessage = ""
	m.infoMessage = ""
	if m.session.State.Mode != session.Searching || m.spinning {
		if m.session.State.Mode != session.Searching {
			m.spinning = false
		}
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

func (m *model) handleDownloadDone(msg downloadDoneMsg) {
	switch {
	case msg.err == nil:
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Saved %s to %s", msg.title, msg.path)
		m.catalogSize++
	case errors.Is(msg.err, errNotCatalogued):
		m.errorMessage = fmt.Sprintf("%v (%s)", msg.err, msg.path)
	default:
		m.errorMessage = msg.err.Error()
	}
}
