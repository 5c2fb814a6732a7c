package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 36

// View renders the whole console frame.
func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	sidebar := a.viewInbox()
	var main string
	switch a.pane {
	case paneCRM:
		main = a.viewCRM()
	case paneAI:
		main = a.viewAI()
	default:
		main = a.viewChat()
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		styleSidebar.Width(sidebarWidth).Height(a.height-3).Render(sidebar),
		lipgloss.NewStyle().Width(a.mainWidth()).Render(main),
	)

	return lipgloss.JoinVertical(lipgloss.Left, body, a.viewStatus(), a.viewHelp())
}

func (a *App) mainWidth() int {
	w := a.width - sidebarWidth - 2
	if w < 20 {
		return 20
	}
	return w
}

func (a *App) viewStatus() string {
	if a.statusErr != nil {
		return styleError.Render("error: " + a.statusErr.Error())
	}
	if a.statusLine != "" {
		return styleStatus.Render(a.statusLine)
	}
	return ""
}

func (a *App) viewHelp() string {
	var help string
	switch {
	case a.focus == focusFilePath:
		help = "type a file path, enter to upload, esc to cancel"
	case a.pickingProduct:
		help = "type to search, enter to search/stage, ↑↓ select, esc close"
	case a.focus == focusCompose:
		help = "enter send · ctrl+r record · ctrl+f file · ctrl+p product · ctrl+x clear · esc back"
	case a.pane == paneInbox:
		help = "↑↓ move · enter open · / search · t takeover · u unread · g tag · 1-4 panes · q quit"
	case a.pane == paneChat:
		help = "i compose · ↑↓ scroll · G bottom · t takeover · 1-4 panes · q quit"
	case a.pane == paneCRM:
		help = "↑↓ field · enter edit · s save · esc back"
	case a.pane == paneAI:
		help = "tab section · ↑↓ row · ←→ adjust · s save · R refresh models · esc back"
	}
	return styleHelp.Render(help)
}

func fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s + strings.Repeat(" ", width-len(runes))
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

func cursorSuffix(active bool) string {
	if active {
		return "▏"
	}
	return ""
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func countLabel(n int, singular string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %ss", n, singular)
}
