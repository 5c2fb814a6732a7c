package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/chatlead/agent-console/internal/model"
	"github.com/chatlead/agent-console/pkg/metrics"
)

// SendMessage submits one outbound message payload through the ingest
// pipeline.
func (c *Client) SendMessage(ctx context.Context, msg model.OutboundMessage) error {
	if err := c.doJSON(ctx, "send_message", http.MethodPost, "/api/messages/ingest", nil, msg, nil); err != nil {
		return err
	}
	metrics.MessagesSentTotal.WithLabelValues(string(msg.Type)).Inc()
	return nil
}

// UploadRequest describes one multipart media upload.
type UploadRequest struct {
	Kind     string // image, video, audio or document
	FileName string
	MimeType string
	Reader   io.Reader
}

// UploadMedia uploads a file to media storage and returns the stored media
// reference.
func (c *Client) UploadMedia(ctx context.Context, req UploadRequest) (*model.MediaUpload, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	written := make(chan int64, 1)
	go func() {
		var n int64
		defer func() { written <- n }()

		part, err := createFilePart(mw, "file", req.FileName, req.MimeType)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		n, err = io.Copy(part, req.Reader)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("kind", req.Kind); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/api/media/upload", nil, pr)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	var upload model.MediaUpload
	if err := c.do(httpReq, "upload_media", &upload); err != nil {
		return nil, err
	}

	metrics.UploadBytesTotal.WithLabelValues(req.Kind).Add(float64(<-written))
	return &upload, nil
}

// MediaProxyURL resolves a stored media identifier to the backend URL that
// streams its bytes.
func (c *Client) MediaProxyURL(mediaID string) string {
	return c.baseURL + "/api/media/proxy/" + url.PathEscape(mediaID)
}

// FetchMedia streams a stored media object. The caller owns the returned
// reader.
func (c *Client) FetchMedia(ctx context.Context, mediaID string) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/media/proxy/"+url.PathEscape(mediaID), nil, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch_media: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, &APIError{StatusCode: resp.StatusCode, Message: readErrorDetail(resp.Body)}
	}
	return resp.Body, nil
}

func createFilePart(mw *multipart.Writer, field, fileName, mimeType string) (io.Writer, error) {
	if mimeType == "" {
		return mw.CreateFormFile(field, fileName)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, fileName))
	h.Set("Content-Type", mimeType)
	return mw.CreatePart(h)
}
