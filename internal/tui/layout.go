package tui

type pageLayout struct {
	windowWidth  int
	windowHeight int
	listWidth    int
	listHeight   int
}

func newPageLayout() pageLayout {
	return pageLayout{
		listWidth:  80,
		listHeight: 20,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	l.listWidth = width
	if l.listWidth < minListWidth {
		l.listWidth = minListWidth
	}
	l.listHeight = height - chromeHeight
	if l.listHeight < minListHeight {
		l.listHeight = minListHeight
	}
}

// window returns the slice [start, end) of rows to draw so that the
// highlighted row stays visible. selected < 0 means no highlight.
func (l pageLayout) window(selected, total int) (int, int) {
	if total <= l.listHeight {
		return 0, total
	}
	start := 0
	if selected >= l.listHeight {
		start = selected - l.listHeight + 1
	}
	return start, start + l.listHeight
}
