package tui

import (
	"fmt"
	"strings"

	"github.com/chatlead/agent-console/internal/format"
	"github.com/chatlead/agent-console/internal/model"
)

func (a *App) viewInbox() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Inbox"))
	b.WriteString(styleDim.Render("  " + countLabel(len(a.conversations), "chat")))
	b.WriteString("\n")
	b.WriteString(a.viewInboxFilters())
	b.WriteString("\n\n")

	if len(a.conversations) == 0 {
		b.WriteString(styleDim.Render("no conversations"))
		return b.String()
	}

	rows := a.height - 8
	if rows < 3 {
		rows = 3
	}
	start := 0
	if a.selected >= rows {
		start = a.selected - rows + 1
	}

	for i := start; i < len(a.conversations) && i < start+rows; i++ {
		b.WriteString(a.viewInboxRow(a.conversations[i], i == a.selected))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) viewInboxFilters() string {
	search := a.search
	if a.focus == focusSearch {
		search += "▏"
	}
	if search == "" {
		search = "/ to search"
	}

	parts := []string{search}
	if a.takeover != model.TakeoverAll {
		parts = append(parts, "takeover:"+string(a.takeover))
	}
	if a.unread != model.UnreadAll {
		parts = append(parts, "unread:"+string(a.unread))
	}
	if a.tagFilter != "" {
		parts = append(parts, "tag:"+a.tagFilter)
	}
	return styleDim.Render(strings.Join(parts, "  "))
}

func (a *App) viewInboxRow(conv model.Conversation, selected bool) string {
	name := conv.DisplayName()
	if conv.Takeover {
		name = "⚑ " + name
	}

	badge := ""
	if conv.HasUnread {
		badge = fmt.Sprintf(" ●%d", conv.UnreadCount)
	}

	when := format.LastUpdated(conv.UpdatedAt)
	top := fit(name, sidebarWidth-4-len(badge)) + badge

	preview := conv.Text
	if conv.LastMsgType != "" {
		preview = format.Preview(model.MessageType(conv.LastMsgType), conv.Text)
	}
	bottom := fit(preview, sidebarWidth-4-len([]rune(when))) + styleDim.Render(when)

	line := top + "\n  " + bottom
	switch {
	case selected:
		return styleSelected.Render(line)
	case conv.HasUnread:
		return styleUnread.Render(top) + "\n  " + bottom
	default:
		return line
	}
}
