// Package composer shapes transient composer state into outbound message
// payloads.
package composer

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/chatlead/agent-console/internal/api"
	"github.com/chatlead/agent-console/internal/model"
	"github.com/chatlead/agent-console/pkg/logger"
)

// ErrEmptyMessage means there is nothing to send: no text and no staged
// attachment. Sending is a no-op in that state.
var ErrEmptyMessage = errors.New("nothing to send")

// ErrLocked means the composer is locked while a recording is in progress.
var ErrLocked = errors.New("composer is locked during recording")

// Sender is the slice of the backend client the composer needs.
type Sender interface {
	SendMessage(ctx context.Context, msg model.OutboundMessage) error
}

var _ Sender = (*api.Client)(nil)

// Composer holds the free-text field and at most one staged attachment for
// the open conversation.
type Composer struct {
	sender Sender
	logger *logger.Logger

	phone      string
	text       string
	staged     *model.Attachment
	pickerOpen bool
	locked     bool
}

// New creates a composer bound to a send endpoint.
func New(sender Sender, log *logger.Logger) *Composer {
	if log == nil {
		log = logger.NewNop()
	}
	return &Composer{sender: sender, logger: log}
}

// SetPhone retargets the composer at another conversation and discards any
// pending state.
func (c *Composer) SetPhone(phone string) {
	if c.phone == phone {
		return
	}
	c.phone = phone
	c.text = ""
	c.staged = nil
	c.pickerOpen = false
}

// Phone returns the target conversation.
func (c *Composer) Phone() string { return c.phone }

// Text returns the current free-text field.
func (c *Composer) Text() string { return c.text }

// SetText replaces the free-text field. Ignored while locked.
func (c *Composer) SetText(text string) {
	if c.locked {
		return
	}
	c.text = text
}

// Staged returns the pending attachment, nil when none.
func (c *Composer) Staged() *model.Attachment { return c.staged }

// Stage replaces the staged attachment. At most one is pending at a time.
func (c *Composer) Stage(att model.Attachment) error {
	if c.locked {
		return ErrLocked
	}
	c.staged = &att
	c.pickerOpen = false
	return nil
}

// ClearAttachment discards the staged attachment.
func (c *Composer) ClearAttachment() { c.staged = nil }

// PickerOpen reports whether the attachment picker menu is open.
func (c *Composer) PickerOpen() bool { return c.pickerOpen }

// TogglePicker opens or closes the attachment picker menu.
func (c *Composer) TogglePicker() { c.pickerOpen = !c.pickerOpen }

// Lock disables text editing and staging while a recording is active.
func (c *Composer) Lock() { c.locked = true }

// Unlock re-enables the composer after a recording ends.
func (c *Composer) Unlock() { c.locked = false }

// Locked reports whether the composer is locked.
func (c *Composer) Locked() bool { return c.locked }

// CanSend reports whether Build would produce a payload.
func (c *Composer) CanSend() bool {
	return !c.locked && (strings.TrimSpace(c.text) != "" || c.staged != nil)
}

// Build translates the current state into exactly one outbound payload shape.
// It never mutates state; Send owns the post-send reset.
func (c *Composer) Build() (model.OutboundMessage, error) {
	text := strings.TrimSpace(c.text)

	if c.staged == nil {
		if text == "" {
			return model.OutboundMessage{}, ErrEmptyMessage
		}
		return model.OutboundMessage{
			Phone:     c.phone,
			Direction: model.DirectionOut,
			Type:      model.TypeText,
			Text:      text,
		}, nil
	}

	switch c.staged.Kind {
	case model.AttachmentProduct:
		// The attachment's own blurb wins; live composer text is ignored.
		return model.OutboundMessage{
			Phone:         c.phone,
			Direction:     model.DirectionOut,
			Type:          model.TypeProduct,
			Text:          c.staged.Text,
			FeaturedImage: nullable(c.staged.FeaturedImage),
			RealImage:     nullable(c.staged.RealImage),
			Permalink:     nullable(c.staged.Permalink),
		}, nil

	default:
		// Media send: the text field rides along as the caption, empty
		// string rather than null when blank.
		caption := text
		return model.OutboundMessage{
			Phone:        c.phone,
			Direction:    model.DirectionOut,
			Type:         c.staged.Subtype,
			Text:         caption,
			MediaCaption: &caption,
			MediaID:      nullable(c.staged.MediaID),
			MimeType:     nullable(c.staged.MimeType),
			FileName:     nullable(c.staged.FileName),
			FileSize:     nullableInt64(c.staged.FileSize),
			DurationSec:  nullableInt(c.staged.DurationSec),
		}, nil
	}
}

// Send builds and posts the payload. On success the text, attachment and
// picker are all reset and the caller must reload both the message list and
// the conversation list. On failure every piece of state survives so the
// user can retry.
func (c *Composer) Send(ctx context.Context) error {
	msg, err := c.Build()
	if err != nil {
		return err
	}

	if err := c.sender.SendMessage(ctx, msg); err != nil {
		c.logger.Error("send failed", zap.String("phone", c.phone), zap.Error(err))
		return err
	}

	c.text = ""
	c.staged = nil
	c.pickerOpen = false
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableInt64(n int64) *int64 {
	if n <= 0 {
		return nil
	}
	return &n
}

func nullableInt(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
