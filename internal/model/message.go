package model

import (
	"time"
)

// Direction is who sent a message.
type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

// MessageType is the primary payload shape of a message.
type MessageType string

const (
	TypeText     MessageType = "text"
	TypeImage    MessageType = "image"
	TypeVideo    MessageType = "video"
	TypeAudio    MessageType = "audio"
	TypeDocument MessageType = "document"
	TypeProduct  MessageType = "product"
)

// DeliveryStatus is the WhatsApp delivery state of an outbound message.
type DeliveryStatus string

const (
	StatusSent      DeliveryStatus = "sent"
	StatusDelivered DeliveryStatus = "delivered"
	StatusRead      DeliveryStatus = "read"
	StatusFailed    DeliveryStatus = "failed"
)

// Message is one message in a conversation. Exactly one of plain text, the
// media reference, or the product fields is the primary payload, selected by
// Type.
type Message struct {
	ID        int64       `json:"id"`
	Phone     string      `json:"phone"`
	Direction Direction   `json:"direction"`
	Type      MessageType `json:"msg_type"`
	Text      string      `json:"text"`

	MediaURL     *string `json:"media_url,omitempty"`
	MediaCaption *string `json:"media_caption,omitempty"`
	MediaID      *string `json:"media_id,omitempty"`
	MimeType     *string `json:"mime_type,omitempty"`
	FileName     *string `json:"file_name,omitempty"`
	FileSize     *int64  `json:"file_size,omitempty"`
	DurationSec  *int    `json:"duration_sec,omitempty"`

	FeaturedImage *string `json:"featured_image,omitempty"`
	RealImage     *string `json:"real_image,omitempty"`
	Permalink     *string `json:"permalink,omitempty"`

	WAMessageID *string         `json:"wa_message_id,omitempty"`
	WAStatus    *DeliveryStatus `json:"wa_status,omitempty"`
	WAError     *string         `json:"wa_error,omitempty"`
	WATsSent    *time.Time      `json:"wa_ts_sent,omitempty"`
	WATsDlvd    *time.Time      `json:"wa_ts_delivered,omitempty"`
	WATsRead    *time.Time      `json:"wa_ts_read,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// HasMedia reports whether the message carries a stored media reference.
func (m Message) HasMedia() bool {
	return m.MediaID != nil && *m.MediaID != ""
}

// ListMessagesResponse is the message list envelope for one conversation.
type ListMessagesResponse struct {
	Messages []Message `json:"messages"`
}

// OutboundMessage is the ingest payload for an agent-sent message. Optional
// fields are nulled when unknown rather than omitted, matching the backend
// contract.
type OutboundMessage struct {
	Phone     string      `json:"phone"`
	Direction Direction   `json:"direction"`
	Type      MessageType `json:"msg_type"`
	Text      string      `json:"text"`

	MediaCaption *string `json:"media_caption"`
	MediaID      *string `json:"media_id"`
	MimeType     *string `json:"mime_type"`
	FileName     *string `json:"file_name"`
	FileSize     *int64  `json:"file_size"`
	DurationSec  *int    `json:"duration_sec"`

	FeaturedImage *string `json:"featured_image"`
	RealImage     *string `json:"real_image"`
	Permalink     *string `json:"permalink"`
}

// MediaUpload is the backend's answer to a multipart media upload.
type MediaUpload struct {
	OK       bool   `json:"ok"`
	MediaID  string `json:"media_id"`
	MimeType string `json:"mime_type"`
	FileName string `json:"filename"`
	Kind     string `json:"kind"`
}
