// Package poll keeps console state eventually consistent with the backend
// by periodic refetch. There is no push channel; every cycle replaces its
// slice of state wholesale.
package poll

import (
	"time"

	"github.com/chatlead/agent-console/internal/model"
)

// Inbox reconciles the conversation list across poll cycles and decides when
// the new-message cue should fire.
type Inbox struct {
	conversations []model.Conversation
	lastSeen      map[string]time.Time
	primed        bool
}

// NewInbox returns an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{lastSeen: make(map[string]time.Time)}
}

// Conversations returns the current list, in server order.
func (i *Inbox) Conversations() []model.Conversation {
	return i.conversations
}

// ApplyList replaces the list wholesale and reports whether the audible cue
// should fire. The cue fires at most once per cycle, when any conversation
// other than the open one advanced its updated_at since the previous cycle.
// The first apply after mount only records the baseline.
func (i *Inbox) ApplyList(conversations []model.Conversation, openPhone string) bool {
	cue := false
	if i.primed {
		for _, conv := range conversations {
			if conv.Phone == openPhone {
				continue
			}
			prev, seen := i.lastSeen[conv.Phone]
			if !seen || conv.UpdatedAt.After(prev) {
				cue = true
				break
			}
		}
	}

	seen := make(map[string]time.Time, len(conversations))
	for _, conv := range conversations {
		seen[conv.Phone] = conv.UpdatedAt
	}

	i.conversations = conversations
	i.lastSeen = seen
	i.primed = true
	return cue
}

// Reset clears the baseline, as on view unmount.
func (i *Inbox) Reset() {
	i.conversations = nil
	i.lastSeen = make(map[string]time.Time)
	i.primed = false
}
