package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/session"
)

func (m *model) View() string {
	parts := []string{
		m.searchLine(),
		m.statusLine(),
	}
	parts = append(parts, m.paperRows()...)
	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	parts = append(parts, m.help.ShortHelpView(m.keys.helpFor(m.session.State.Mode, len(m.papers) > 0)))
	return joinNonEmpty(parts)
}

func (m *model) searchLine() string {
	cursor := ""
	if mode := m.session.State.Mode; mode == session.Idle || mode == session.Searching {
		cursor = "▏"
	}
	return fmt.Sprintf("%s %s %s%s", titleStyle.Render("litfind"), promptStyle.Render("search:"), termStyle.Render(m.session.Term), cursor)
}

func (m *model) statusLine() string {
	var b strings.Builder
	state := m.session.State
	switch state.Mode {
	case session.Searching:
		fmt.Fprintf(&b, "%s searching %d/%d sources", m.spinner.View(), m.round.Reported(), m.round.Expected())
	case session.Scrolling:
		fmt.Fprintf(&b, "paper %d of %d · digit picks a source, enter opens the best", state.Index+1, len(m.papers))
	case session.Selected:
		choices := session.Choices(state.Hit)
		labels := make([]string, 0, len(choices))
		for _, c := range choices {
			labels = append(labels, fmt.Sprintf("%s %s", keyStyle.Render(fmt.Sprint(c.Key)), c.Label))
		}
		fmt.Fprintf(&b, "%s: %s", state.Hit.Tag(), strings.Join(labels, "  "))
	default:
		if len(m.papers) > 0 {
			fmt.Fprintf(&b, "%d papers", len(m.papers))
		} else {
			b.WriteString(heroTagline)
		}
	}
	switch {
	case m.degraded:
		b.WriteString(" · catalog offline")
	case !m.loaded:
		b.WriteString(" · loading catalog")
	default:
		fmt.Fprintf(&b, " · %d in catalog", m.catalogSize)
	}
	switch n := m.running[jobKindDownload]; {
	case n == 1:
		b.WriteString(" · 1 download running")
	case n > 1:
		fmt.Fprintf(&b, " · %d downloads running", n)
	}
	return sectionHeaderStyle.Render(b.String())
}

func (m *model) paperRows() []string {
	if len(m.papers) == 0 {
		return nil
	}
	selected := -1
	if mode := m.session.State.Mode; mode == session.Scrolling || mode == session.Selected {
		selected = m.session.State.Index
	}
	start, end := m.layout.window(selected, len(m.papers))
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		highlighted := i == selected
		line := truncate.StringWithTail(paperLine(i, m.papers[i], !highlighted), uint(m.layout.listWidth), "…")
		if highlighted {
			line = currentLineStyle.Render(line)
		}
		rows = append(rows, line)
	}
	return rows
}

// paperLine is one row: index, year, title, authors and the numbered
// variants the digit keys select.
func paperLine(i int, p paper.Paper, colored bool) string {
	info := p.Metadata()
	year := info.Year
	if year == "" {
		year = "----"
	}
	tags := make([]string, 0, len(p.Hits))
	for n, h := range p.Hits {
		tag := fmt.Sprintf("%d:%s", n+1, h.Tag())
		if style, ok := tagStyles[h.Source()]; ok && colored {
			tag = style.Render(tag)
		}
		tags = append(tags, tag)
	}
	return fmt.Sprintf("%3d %s %s [%s] %s", i+1, year, info.Title, strings.Join(info.Authors, ", "), strings.Join(tags, " "))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}
