package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pmatos/pog/internal/search"
)

// gutterWidth is the line number column width, sized for files up to
// 99,999,999 lines plus a separator space.
const gutterWidth = 9

// segment is a run of text sharing one background color. An empty color
// means unstyled.
type segment struct {
	Text  string
	Color string
}

// matchSpan is a search match placed on the line being rendered, with the
// highlight color it should get. The current match gets a distinct color.
type matchSpan struct {
	search.Match
	color string
}

// colorSegments splits a line into segments by background color. Priority
// from lowest to highest: full-line mark, search highlight, manual region
// marks. Match offsets are byte positions in text; region columns are rune
// positions. Everything past the end of the line is clipped.
func colorSegments(text string, lm *LineMarkings, matches []matchSpan) []segment {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	// Full-line mark with nothing layered on top stays a single segment.
	if lm != nil && lm.FullLineColor != "" && len(lm.Regions) == 0 && len(matches) == 0 {
		return []segment{{Text: text, Color: lm.FullLineColor}}
	}

	colors := make([]string, len(runes))
	if lm != nil && lm.FullLineColor != "" {
		for i := range colors {
			colors[i] = lm.FullLineColor
		}
	}
	for _, m := range matches {
		start, end := byteSpanToRunes(text, m.Start, m.End)
		for i := start; i < end && i < len(colors); i++ {
			colors[i] = m.color
		}
	}
	if lm != nil {
		for _, r := range lm.Regions {
			for i := r.StartCol; i >= 0 && i < r.EndCol && i < len(colors); i++ {
				colors[i] = r.Color
			}
		}
	}

	var segs []segment
	for i := 0; i < len(runes); {
		j := i + 1
		for j < len(runes) && colors[j] == colors[i] {
			j++
		}
		segs = append(segs, segment{Text: string(runes[i:j]), Color: colors[i]})
		i = j
	}
	return segs
}

// byteSpanToRunes converts a byte-offset span into rune indexes.
func byteSpanToRunes(text string, start, end int) (int, int) {
	runeStart, runeEnd := -1, len([]rune(text))
	idx := 0
	for byteOff := range text {
		if byteOff >= start && runeStart < 0 {
			runeStart = idx
		}
		if byteOff >= end {
			runeEnd = idx
			break
		}
		idx++
	}
	if runeStart < 0 {
		runeStart = idx
	}
	return runeStart, runeEnd
}

// renderLine renders one numbered line with gutter, marks, and search
// highlights, truncated to the terminal width.
func (m Model) renderLine(num int, text string, styles Styles) string {
	var b strings.Builder

	budget := m.width
	if !m.hideGutter {
		b.WriteString(styles.Gutter.Render(fmt.Sprintf("%*d ", gutterWidth-1, num+1)))
		budget -= gutterWidth
	}
	if budget <= 0 {
		return b.String()
	}
	text = runewidth.Truncate(text, budget, "")

	var lineMatches []matchSpan
	if m.session.Active() {
		current, hasCurrent := m.session.CurrentMatch()
		for _, sm := range m.session.Matches() {
			if sm.Line != num {
				continue
			}
			color := m.theme.SearchHighlight
			if hasCurrent && sm == current {
				color = m.theme.Accent
			}
			lineMatches = append(lineMatches, matchSpan{Match: sm, color: color})
		}
	}

	for _, seg := range colorSegments(text, m.marks.Get(num), lineMatches) {
		if seg.Color == "" {
			b.WriteString(styles.Text.Render(seg.Text))
		} else {
			b.WriteString(styles.MarkStyle(seg.Color).Render(seg.Text))
		}
	}
	return b.String()
}

// renderLines renders the visible page, padding short pages with blank rows.
func (m Model) renderLines(styles Styles) string {
	rows := make([]string, 0, m.pageLines())
	for _, nl := range m.lines {
		rows = append(rows, m.renderLine(nl.Num, nl.Text, styles))
	}
	for len(rows) < m.pageLines() {
		rows = append(rows, "")
	}
	return strings.Join(rows, "\n")
}

// renderStatusBar renders the bottom bar: file name on the left, search
// status in the middle, position on the right.
func (m Model) renderStatusBar(styles Styles) string {
	left := m.displayName
	if m.errMsg != "" {
		left = m.errMsg
	}

	last := m.topLine + m.pageLines()
	if last > m.totalLines {
		last = m.totalLines
	}
	right := fmt.Sprintf("%d-%d/%d  %s", m.topLine+1, last, m.totalLines, m.theme.Name)

	middle := m.searchInfo
	if idx := m.session.CurrentIndex(); idx >= 0 {
		middle = fmt.Sprintf("%s (%d/%d)", m.searchInfo, idx+1, len(m.session.Matches()))
	}

	gap := m.width - runewidth.StringWidth(left) - runewidth.StringWidth(middle) - runewidth.StringWidth(right) - 2
	if gap < 2 {
		gap = 2
	}
	leftGap := gap / 2
	bar := left + strings.Repeat(" ", leftGap) + middle + strings.Repeat(" ", gap-leftGap) + right
	bar = runewidth.Truncate(bar, m.width-2, "")

	if m.errMsg != "" {
		return styles.StatusBar.Foreground(lipgloss.Color(m.theme.Danger)).Render(bar)
	}
	return styles.StatusBar.Render(bar)
}

// renderSearchBar renders the search input row shown while typing a pattern.
func (m Model) renderSearchBar(styles Styles) string {
	return styles.SearchBar.Render("/" + m.searchInput.View())
}

// renderHelp renders the key binding overlay.
func (m Model) renderHelp(styles Styles) string {
	var b strings.Builder
	b.WriteString(styles.AccentText.Render("pog — key bindings"))
	b.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %-12s %s\n", h.Key, styles.MutedText.Render(h.Desc)))
		}
		b.WriteString("\n")
	}
	b.WriteString(styles.MutedText.Render("  press any key to close"))
	return b.String()
}
