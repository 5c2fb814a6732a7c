package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/chatlead/agent-console/internal/model"
)

// ListConversations fetches the conversation list filtered server-side. The
// response order is preserved verbatim; the console never re-sorts it.
func (c *Client) ListConversations(ctx context.Context, filter model.ConversationFilter) ([]model.Conversation, error) {
	query := url.Values{}
	query.Set("search", filter.Search)
	query.Set("takeover", string(orDefault(filter.Takeover, model.TakeoverAll)))
	query.Set("unread", string(orDefault(filter.Unread, model.UnreadAll)))
	query.Set("tags", filter.Tags)

	var resp model.ListConversationsResponse
	if err := c.doJSON(ctx, "list_conversations", http.MethodGet, "/api/conversations", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// ListMessages fetches the full message list for one conversation, oldest
// first.
func (c *Client) ListMessages(ctx context.Context, phone string) ([]model.Message, error) {
	var resp model.ListMessagesResponse
	path := "/api/conversations/" + url.PathEscape(phone) + "/messages"
	if err := c.doJSON(ctx, "list_messages", http.MethodGet, path, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

// MarkRead marks a conversation as read. Callers treat this as
// fire-and-forget.
func (c *Client) MarkRead(ctx context.Context, phone string) error {
	path := "/api/conversations/" + url.PathEscape(phone) + "/read"
	return c.doJSON(ctx, "mark_read", http.MethodPost, path, nil, nil, nil)
}

// SetTakeover toggles bot/human handling of a conversation.
func (c *Client) SetTakeover(ctx context.Context, phone string, takeover bool) error {
	req := model.TakeoverRequest{Phone: phone, Takeover: takeover}
	return c.doJSON(ctx, "set_takeover", http.MethodPost, "/api/conversations/takeover", nil, req, nil)
}

// ListCRMTags fetches the distinct CRM tag list for the inbox tag filter.
func (c *Client) ListCRMTags(ctx context.Context) ([]string, error) {
	var resp model.TagsResponse
	if err := c.doJSON(ctx, "list_crm_tags", http.MethodGet, "/api/crm/tags", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

// GetCRM fetches the CRM profile for a phone. Unsaved profiles come back with
// empty fields rather than a 404.
func (c *Client) GetCRM(ctx context.Context, phone string) (*model.CRMProfile, error) {
	var profile model.CRMProfile
	path := "/api/crm/" + url.PathEscape(phone)
	if err := c.doJSON(ctx, "get_crm", http.MethodGet, path, nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveCRM upserts the full CRM record for a phone.
func (c *Client) SaveCRM(ctx context.Context, profile model.CRMProfile) error {
	return c.doJSON(ctx, "save_crm", http.MethodPost, "/api/crm", nil, profile, nil)
}

// Health probes backend reachability.
func (c *Client) Health(ctx context.Context) (*model.HealthResponse, error) {
	var resp model.HealthResponse
	if err := c.doJSON(ctx, "health", http.MethodGet, "/api/health", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func orDefault[T ~string](v, def T) T {
	if v == "" {
		return def
	}
	return v
}
