package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/litfind/internal/paper"
)

const heroTagline = "Find papers across your catalog, arXiv and DBLP."

const (
	minListWidth = 40
	// search line, status line, blank, error, info, help
	chromeHeight  = 6
	minListHeight = 3
)

var (
	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	promptStyle        = lipgloss.NewStyle().Bold(true)
	termStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#e0def4"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	currentLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffd166"))
	tagStyles          = map[paper.Source]lipgloss.Style{
		paper.SourceLocal: lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c")),
		paper.SourceArxiv: lipgloss.NewStyle().Foreground(lipgloss.Color("#f28482")),
		paper.SourceDblp:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7f5af0")),
	}
)
