package poll

import (
	"github.com/chatlead/agent-console/internal/model"
)

// ThreadOutcome describes how one message refetch changed the open thread,
// so the view can pick between smooth and instant scrolling.
type ThreadOutcome struct {
	// Reloaded means the thread switched conversations (or loaded for the
	// first time): scroll to bottom instantly.
	Reloaded bool
	// Grew means new messages arrived in the same conversation: scroll
	// smoothly, if the user is near the bottom.
	Grew bool
}

// Thread holds the open conversation's messages between poll cycles.
type Thread struct {
	phone    string
	messages []model.Message
}

// NewThread returns an empty thread.
func NewThread() *Thread {
	return &Thread{}
}

// Phone returns the conversation the thread is tracking.
func (t *Thread) Phone() string { return t.phone }

// Messages returns the current messages, oldest first, in server order.
func (t *Thread) Messages() []model.Message { return t.messages }

// Apply replaces the message list wholesale. No incremental diff: the
// response is the new truth.
func (t *Thread) Apply(phone string, messages []model.Message) ThreadOutcome {
	outcome := ThreadOutcome{}
	if phone != t.phone {
		outcome.Reloaded = true
	} else if len(messages) > len(t.messages) {
		outcome.Grew = true
	}

	t.phone = phone
	t.messages = messages
	return outcome
}

// Clear empties the thread, as when no conversation is selected.
func (t *Thread) Clear() {
	t.phone = ""
	t.messages = nil
}
