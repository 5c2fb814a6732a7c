package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/chatlead/agent-console/internal/format"
	"github.com/chatlead/agent-console/internal/model"
	"github.com/chatlead/agent-console/internal/recorder"
)

func (a *App) viewChat() string {
	conv := a.openConversation()
	if conv == nil {
		return styleDim.Render("select a conversation")
	}

	var b strings.Builder
	b.WriteString(styleTitle.Render(conv.DisplayName()))
	b.WriteString(styleDim.Render("  " + conv.Phone))
	if conv.Takeover {
		b.WriteString(styleRecording.Render("  human takeover"))
	}
	b.WriteString("\n\n")

	b.WriteString(a.viewThread())
	b.WriteString("\n")
	b.WriteString(a.viewComposer())

	if a.pickingProduct {
		b.WriteString("\n")
		b.WriteString(a.viewProductPicker())
	}
	if a.focus == focusFilePath && !a.fileToKB {
		b.WriteString("\n")
		b.WriteString(styleStatus.Render("file: " + a.filePath + "▏"))
	}
	return b.String()
}

// viewThread renders the visible window of the message list, one message
// per row, scrolled by the viewport offset.
func (a *App) viewThread() string {
	if len(a.messages) == 0 {
		return styleDim.Render("no messages yet")
	}

	height := a.chatHeight()
	start := a.viewport.Offset()
	if start > len(a.messages)-1 {
		start = len(a.messages) - 1
	}
	end := start + height
	if end > len(a.messages) {
		end = len(a.messages)
	}

	now := time.Now()
	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(a.viewMessage(a.messages[i], now))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if !a.viewport.NearBottom() {
		b.WriteString("\n")
		b.WriteString(styleDim.Render("↓ more below"))
	}
	return b.String()
}

func (a *App) viewMessage(msg model.Message, now time.Time) string {
	body := msg.Text
	switch msg.Type {
	case model.TypeText:
	case model.TypeProduct:
		body = format.Preview(msg.Type, msg.Text)
	default:
		label := format.Preview(msg.Type, "")
		if msg.FileName != nil && *msg.FileName != "" {
			label += " " + *msg.FileName
		}
		if msg.FileSize != nil && *msg.FileSize > 0 {
			label += " (" + format.Bytes(*msg.FileSize) + ")"
		}
		if msg.DurationSec != nil && *msg.DurationSec > 0 {
			label += " " + format.Duration(*msg.DurationSec)
		}
		if msg.MediaCaption != nil && *msg.MediaCaption != "" {
			label += " · " + *msg.MediaCaption
		}
		body = label
	}
	body = format.Truncate(body, a.mainWidth()-18)

	stamp := format.MessageTime(msg.CreatedAt, now)
	if msg.Direction == model.DirectionOut {
		glyph := format.StatusGlyph(msg.WAStatus)
		line := fmt.Sprintf("%s %s %s", body, styleDim.Render(stamp), glyph)
		return styleBubbleOut.Render("  → ") + styleBubbleOut.Render(line)
	}
	return styleBubbleIn.Render("← ") + body + " " + styleDim.Render(stamp)
}

func (a *App) viewComposer() string {
	var b strings.Builder

	if att := a.composer.Staged(); att != nil {
		b.WriteString(styleStatus.Render("[" + attachmentChip(att) + "] "))
	}

	switch a.recorder.State() {
	case recorder.StateRecording:
		b.WriteString(styleRecording.Render(fmt.Sprintf("● rec %s  ctrl+r to stop", format.Duration(a.recorder.Elapsed()))))
		return b.String()
	case recorder.StateStopping:
		b.WriteString(styleRecording.Render("uploading voice note..."))
		return b.String()
	}

	text := a.composer.Text()
	if text == "" && a.focus != focusCompose {
		b.WriteString(styleDim.Render("press i to type a message"))
		return b.String()
	}
	b.WriteString("> " + text + cursorSuffix(a.focus == focusCompose))
	return b.String()
}

func attachmentChip(att *model.Attachment) string {
	if att.Kind == model.AttachmentProduct {
		return "product: " + format.Truncate(strings.SplitN(att.Text, "\n", 2)[0], 28)
	}
	label := string(att.Subtype) + ": " + att.FileName
	if att.FileSize > 0 {
		label += " " + format.Bytes(att.FileSize)
	}
	if att.DurationSec > 0 {
		label += " " + format.Duration(att.DurationSec)
	}
	return label
}

func (a *App) viewProductPicker() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Products"))
	b.WriteString("  " + a.productQuery + cursorSuffix(a.focus == focusProductQuery))
	b.WriteString("\n")

	if len(a.products) == 0 {
		b.WriteString(styleDim.Render("enter to search the catalog"))
		return b.String()
	}
	for i, p := range a.products {
		row := fit(p.Name, 40) + " " + p.Price
		if p.StockStatus != "" && p.StockStatus != "instock" {
			row += styleDim.Render(" (" + p.StockStatus + ")")
		}
		if i == a.productIndex {
			b.WriteString(styleSelected.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}
	return b.String()
}
