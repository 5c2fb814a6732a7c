// Package model defines data structures shared across the agent console.
package model

import (
	"strings"
	"time"
)

// Conversation is one customer thread, keyed by phone number. The backend
// inlines the CRM profile columns on the conversation row.
type Conversation struct {
	Phone     string    `json:"phone"`
	Takeover  bool      `json:"takeover"`
	UpdatedAt time.Time `json:"updated_at"`

	// CRM profile fields, empty strings when never saved.
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	City         string `json:"city"`
	CustomerType string `json:"customer_type"`
	Interests    string `json:"interests"`
	Tags         string `json:"tags"`
	Notes        string `json:"notes"`

	LastReadAt *time.Time `json:"last_read_at,omitempty"`

	// Last message preview.
	Text          string     `json:"text"`
	LastMsgType   string     `json:"last_msg_type,omitempty"`
	LastDirection string     `json:"last_direction,omitempty"`
	LastCreatedAt *time.Time `json:"last_created_at,omitempty"`

	HasUnread   bool `json:"has_unread"`
	UnreadCount int  `json:"unread_count"`
}

// DisplayName returns the CRM name when one is saved, otherwise the phone.
func (c Conversation) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
	if name != "" {
		return name
	}
	return c.Phone
}

// ConversationFilter parameterizes the conversation list fetch. Zero values
// mean "all".
type ConversationFilter struct {
	Search   string
	Takeover TakeoverFilter
	Unread   UnreadFilter
	Tags     string
}

// TakeoverFilter selects conversations by who is handling them.
type TakeoverFilter string

const (
	TakeoverAll TakeoverFilter = "all"
	TakeoverOn  TakeoverFilter = "on"
	TakeoverOff TakeoverFilter = "off"
)

// UnreadFilter selects conversations by unread state.
type UnreadFilter string

const (
	UnreadAll UnreadFilter = "all"
	UnreadYes UnreadFilter = "yes"
	UnreadNo  UnreadFilter = "no"
)

// ListConversationsResponse is the conversation list envelope.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
}

// CRMProfile is the editable customer record for one phone number. Saves are
// full-record upserts; there is no partial patch.
type CRMProfile struct {
	Phone        string `json:"phone"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	City         string `json:"city"`
	CustomerType string `json:"customer_type"`
	Interests    string `json:"interests"`
	Tags         string `json:"tags"`
	Notes        string `json:"notes"`
}

// TakeoverRequest toggles bot/human handling for a conversation.
type TakeoverRequest struct {
	Phone    string `json:"phone"`
	Takeover bool   `json:"takeover"`
}

// TagsResponse is the distinct CRM tag list used by the inbox tag filter.
type TagsResponse struct {
	Tags []string `json:"tags"`
}
