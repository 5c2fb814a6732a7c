package model

// AttachmentKind discriminates the two staged non-text payloads.
type AttachmentKind string

const (
	AttachmentMedia   AttachmentKind = "media"
	AttachmentProduct AttachmentKind = "product"
)

// Attachment is the transient, client-only description of one pending
// outbound payload. At most one is staged at a time; it is never persisted.
type Attachment struct {
	ID   string
	Kind AttachmentKind

	// Media fields, set when Kind == AttachmentMedia.
	MediaID     string
	Subtype     MessageType // image, video, audio or document
	MimeType    string
	FileName    string
	FileSize    int64
	DurationSec int

	// Product fields, set when Kind == AttachmentProduct. Text is the
	// pre-built blurb that wins over any live composer text.
	ProductID     int64
	Text          string
	FeaturedImage string
	RealImage     string
	Permalink     string
}
