// Package format holds pure display formatting for the console.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/chatlead/agent-console/internal/model"
)

// MessageTime renders a message timestamp: clock time for today, short date
// otherwise.
func MessageTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	loc := now.Location()
	y1, m1, d1 := t.In(loc).Date()
	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return t.In(loc).Format("15:04")
	}
	return t.In(loc).Format("Jan 2")
}

// LastUpdated renders a conversation's last activity relative to now.
func LastUpdated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

// Bytes renders a file size for display.
func Bytes(n int64) string {
	if n < 0 {
		return ""
	}
	return humanize.IBytes(uint64(n))
}

// Duration renders an audio duration as m:ss.
func Duration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// StatusGlyph maps a delivery status to its chat glyph.
func StatusGlyph(status *model.DeliveryStatus) string {
	if status == nil {
		return ""
	}
	switch *status {
	case model.StatusSent:
		return "✓"
	case model.StatusDelivered:
		return "✓✓"
	case model.StatusRead:
		return "✓✓•"
	case model.StatusFailed:
		return "!"
	default:
		return ""
	}
}

// Preview renders the one-line inbox preview for a message type and text.
func Preview(msgType model.MessageType, text string) string {
	text = strings.TrimSpace(text)
	switch msgType {
	case model.TypeImage:
		return withFallback("[photo]", text)
	case model.TypeVideo:
		return withFallback("[video]", text)
	case model.TypeAudio:
		return "[voice note]"
	case model.TypeDocument:
		return withFallback("[document]", text)
	case model.TypeProduct:
		return withFallback("[product]", text)
	default:
		return text
	}
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max == 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

func withFallback(tag, text string) string {
	if text == "" {
		return tag
	}
	return tag + " " + text
}
