package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/daviddao/voiceagent_viewer/internal/format"
	"github.com/daviddao/voiceagent_viewer/internal/render"
	"github.com/daviddao/voiceagent_viewer/internal/viewstate"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			Background(lipgloss.Color("#1E1E2E")).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#7C3AED")).
			Padding(0, 1)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6C7086")).
				Background(lipgloss.Color("#313244")).
				Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#89B4FA"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#CDD6F4"))

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C7086"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CBA6F7"))

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7C3AED"))

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#89B4FA")).
			Padding(0, 1)

	agentBubbleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#CDD6F4")).
				Background(lipgloss.Color("#313244")).
				Padding(0, 1)

	actionNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A6E3A1"))

	argsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CDD6F4")).
			Background(lipgloss.Color("#1E1E2E"))
)

// badgeStyles colors action-type badges by class.
var badgeStyles = map[format.ActionStyle]lipgloss.Style{
	format.ActionConfirm: badgeStyle("#89B4FA"),
	format.ActionChange:  badgeStyle("#F9E2AF"),
	format.ActionCancel:  badgeStyle("#F38BA8"),
	format.ActionOther:   badgeStyle("#9399B2"),
}

func badgeStyle(bg string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#1E1E2E")).
		Background(lipgloss.Color(bg)).
		Padding(0, 1)
}

// List column widths, in terminal cells.
const (
	colTime   = 24
	colBadges = 30
	colOrder  = 12
)

// --- View rendering ---

func (m uiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTitleBar())
	b.WriteRune('\n')
	b.WriteString(m.renderTabBar())
	b.WriteRune('\n')
	b.WriteRune('\n')

	if m.screen.Banner != "" {
		b.WriteString(bannerStyle.Render("! " + m.screen.Banner))
		b.WriteRune('\n')
		b.WriteRune('\n')
	}

	var content string
	switch {
	case m.screen.Detail != nil:
		content = m.viewport.View()
	case m.screen.Loading:
		content = m.spinner.View() + " " + render.LoadingText
	case m.screen.List != nil:
		content = m.renderList(m.contentHeight())
	}

	// Truncate each line to terminal width so content doesn't wrap
	// on resize.
	b.WriteString(truncateLines(content, m.width))

	rendered := strings.Count(b.String(), "\n")
	for rendered < m.height-2 {
		b.WriteRune('\n')
		rendered++
	}

	if m.showHelp {
		b.WriteString(m.help.View(keys))
	} else {
		b.WriteString(m.renderStatusBar())
	}

	return b.String()
}

func (m uiModel) renderTitleBar() string {
	title := titleStyle.Render("voice agent viewer")
	stats := dimStyle.Render(fmt.Sprintf("%d conversations | %s",
		len(m.state.Summaries), m.baseURL))
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(title)-lipgloss.Width(stats)-2))
	return title + gap + stats
}

func (m uiModel) renderTabBar() string {
	if m.screen.Detail != nil {
		tabs := []string{
			tabInactiveStyle.Render(viewstate.ModeList.String()),
			tabActiveStyle.Render(render.DetailTitle + ": " + m.screen.Detail.ID),
		}
		return strings.Join(tabs, " ")
	}
	return tabActiveStyle.Render(viewstate.ModeList.String())
}

func (m uiModel) renderStatusBar() string {
	left := " " + contextHelp(m.state.Mode)
	right := ""
	if !m.lastRefresh.IsZero() {
		right = fmt.Sprintf("updated %s ago ", time.Since(m.lastRefresh).Truncate(time.Second))
	}
	gap := strings.Repeat(" ", max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right)))
	return statusBarStyle.Render(left + gap + right)
}

// --- List ---

// renderList draws the table, scrolled so the cursor stays within height.
func (m uiModel) renderList(height int) string {
	lv := m.screen.List
	var b strings.Builder

	h := lv.Headers
	b.WriteString(headerStyle.Render("  " +
		padRight(h[0], colTime) + padRight(h[1], colBadges) + padRight(h[2], colOrder) + h[3]))
	b.WriteRune('\n')

	if m.screen.Empty {
		b.WriteString(dimStyle.Render("  (" + render.EmptyText + ")"))
		b.WriteRune('\n')
		return b.String()
	}

	visible := max(1, height-1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(len(lv.Rows), start+visible)

	for i := start; i < end; i++ {
		row := lv.Rows[i]
		prefix := "  "
		timeCell := padRight(row.Time, colTime)
		if i == m.cursor {
			prefix = selectedStyle.Render("> ")
			timeCell = selectedStyle.Render(timeCell)
		}
		b.WriteString(prefix)
		b.WriteString(timeCell)
		b.WriteString(padRight(renderBadges(row.Badges), colBadges))
		b.WriteString(padRight(row.OrderID, colOrder))
		b.WriteString(row.UserID)
		b.WriteRune('\n')
	}
	return b.String()
}

func renderBadges(badges []render.Badge) string {
	parts := make([]string, len(badges))
	for i, bd := range badges {
		parts[i] = badgeStyles[bd.Style].Render(bd.Label)
	}
	return strings.Join(parts, " ")
}

// --- Detail ---

// renderDetail draws the detail body for the viewport.
func renderDetail(d *render.DetailView, width int) string {
	if width <= 0 {
		width = 80
	}
	var b strings.Builder

	b.WriteString(headerStyle.Render(render.DetailTitle))
	b.WriteString(dimStyle.Render("  " + d.ID))
	b.WriteString("\n\n")

	basic := []string{
		field("記録時間", d.Time),
		field("終了時間", orDash(d.EndTime)),
		field("問い合わせ分類", renderBadges(d.Badges)),
	}
	order := []string{
		field("注文ID", d.OrderID),
		field("ユーザーID", d.UserID),
	}
	left := strings.Join(basic, "\n")
	right := strings.Join(order, "\n")
	if width >= 80 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(width/2).Render(left), right))
	} else {
		b.WriteString(left + "\n" + right)
	}
	b.WriteRune('\n')
	if d.Summary != "" {
		b.WriteString(field("概要", wrapBlock(d.Summary, max(20, width-12))))
		b.WriteRune('\n')
	}
	b.WriteRune('\n')

	b.WriteString(headerStyle.Render(render.HistoryTitle))
	b.WriteRune('\n')
	bubbleWidth := max(20, min(60, width*2/3))
	for _, msg := range d.Messages {
		b.WriteString(renderBubble(msg, bubbleWidth, width))
		b.WriteRune('\n')
	}

	if d.Actions != nil {
		b.WriteRune('\n')
		b.WriteString(headerStyle.Render(render.ActionsTitle))
		b.WriteRune('\n')
		for _, a := range d.Actions {
			b.WriteString(actionNameStyle.Render(a.Name))
			if a.Raw != a.Name {
				b.WriteString(dimStyle.Render(" (" + a.Raw + ")"))
			}
			b.WriteString("  ")
			b.WriteString(dimStyle.Render(a.Time))
			b.WriteRune('\n')
			b.WriteString(argsBoxStyle.Render(a.Args))
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// renderBubble draws one message, placed right for user turns.
func renderBubble(msg render.Bubble, bubbleWidth, width int) string {
	style := agentBubbleStyle
	pos := lipgloss.Left
	if msg.Align == render.AlignRight {
		style = userBubbleStyle
		pos = lipgloss.Right
	}

	meta := msg.Role
	if msg.Time != "" {
		meta += "  " + msg.Time
	}
	block := lipgloss.JoinVertical(pos,
		style.Render(wrapBlock(msg.Content, bubbleWidth-2)),
		dimStyle.Render(meta),
	)
	return lipgloss.PlaceHorizontal(width, pos, block)
}

func field(label, value string) string {
	return labelStyle.Render(padRight(label, 16)) + value
}

func orDash(s string) string {
	if s == "" {
		return format.Placeholder
	}
	return s
}

// --- Helpers ---

// wrapBlock wraps s to width, breaking on spaces where possible and
// hard-wrapping text without them.
func wrapBlock(s string, width int) string {
	if width <= 0 {
		return s
	}
	return wrap.String(wordwrap.String(s, width), width)
}

// padRight pads s with spaces to width cells, always leaving a gap.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-w)
}

// truncateLines truncates each line in content to at most width visible
// characters, preserving ANSI escape codes. This prevents terminal line
// wrapping when the window is resized narrower.
func truncateLines(content string, width int) string {
	if width <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > width {
			lines[i] = ansi.Truncate(line, width, "")
		}
	}
	return strings.Join(lines, "\n")
}
