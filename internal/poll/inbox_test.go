package poll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chatlead/agent-console/internal/model"
)

func conv(phone string, updated time.Time) model.Conversation {
	return model.Conversation{Phone: phone, UpdatedAt: updated}
}

func TestInboxFirstApplyRecordsBaselineWithoutCue(t *testing.T) {
	inbox := NewInbox()
	now := time.Now()

	cue := inbox.ApplyList([]model.Conversation{
		conv("15550001", now),
		conv("15550002", now.Add(-time.Hour)),
	}, "")

	require.False(t, cue, "first apply is baseline only")
	require.Len(t, inbox.Conversations(), 2)
}

func TestInboxCueFiresWhenTimestampAdvances(t *testing.T) {
	inbox := NewInbox()
	t1 := time.Now()
	t2 := t1.Add(time.Minute)

	inbox.ApplyList([]model.Conversation{conv("15550001", t1)}, "")

	cue := inbox.ApplyList([]model.Conversation{conv("15550001", t2)}, "")
	require.True(t, cue)

	// Same timestamp again: nothing advanced.
	cue = inbox.ApplyList([]model.Conversation{conv("15550001", t2)}, "")
	require.False(t, cue)
}

func TestInboxCueFiresForNewConversation(t *testing.T) {
	inbox := NewInbox()
	now := time.Now()

	inbox.ApplyList([]model.Conversation{conv("15550001", now)}, "")
	cue := inbox.ApplyList([]model.Conversation{
		conv("15550001", now),
		conv("15550009", now),
	}, "")

	require.True(t, cue)
}

func TestInboxCueSkipsOpenConversation(t *testing.T) {
	inbox := NewInbox()
	t1 := time.Now()

	inbox.ApplyList([]model.Conversation{conv("15550001", t1)}, "15550001")
	cue := inbox.ApplyList([]model.Conversation{conv("15550001", t1.Add(time.Second))}, "15550001")

	require.False(t, cue, "the open conversation never cues")
}

func TestInboxCueFiresOncePerCycle(t *testing.T) {
	inbox := NewInbox()
	t1 := time.Now()
	t2 := t1.Add(time.Minute)

	inbox.ApplyList([]model.Conversation{
		conv("15550001", t1),
		conv("15550002", t1),
	}, "")

	// Both advanced; a single apply still reports one cue.
	cue := inbox.ApplyList([]model.Conversation{
		conv("15550001", t2),
		conv("15550002", t2),
	}, "")
	require.True(t, cue)
}

func TestInboxResetForgetsBaseline(t *testing.T) {
	inbox := NewInbox()
	now := time.Now()

	inbox.ApplyList([]model.Conversation{conv("15550001", now)}, "")
	inbox.Reset()

	require.Empty(t, inbox.Conversations())
	cue := inbox.ApplyList([]model.Conversation{conv("15550001", now.Add(time.Hour))}, "")
	require.False(t, cue, "apply after reset is a fresh baseline")
}
