package api

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chatlead/agent-console/internal/model"
)

// GetAISettings reads the assistant configuration singleton.
func (c *Client) GetAISettings(ctx context.Context) (*model.AISettings, error) {
	var settings model.AISettings
	if err := c.doJSON(ctx, "get_ai_settings", http.MethodGet, "/api/ai/settings", nil, nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateAISettings writes the full settings object and returns the server's
// authoritative copy.
func (c *Client) UpdateAISettings(ctx context.Context, settings model.AISettings) (*model.AISettings, error) {
	var saved model.AISettings
	if err := c.doJSON(ctx, "update_ai_settings", http.MethodPut, "/api/ai/settings", nil, settings, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// ListModels fetches the static provider→models catalog.
func (c *Client) ListModels(ctx context.Context) (*model.ModelCatalog, error) {
	var catalog model.ModelCatalog
	if err := c.doJSON(ctx, "list_models", http.MethodGet, "/api/ai/models", nil, nil, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

// ListModelsLive fetches the live model listing for one provider.
func (c *Client) ListModelsLive(ctx context.Context, provider string) ([]model.LiveModel, error) {
	query := url.Values{}
	query.Set("provider", provider)

	var resp model.LiveModelsResponse
	if err := c.doJSON(ctx, "list_models_live", http.MethodGet, "/api/ai/models/live", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Models, nil
}

// ProcessMessage runs one message through the assistant pipeline without
// touching WhatsApp, for QA.
func (c *Client) ProcessMessage(ctx context.Context, phone, text string) (*model.AIProcessResult, error) {
	req := model.AIProcessRequest{Phone: phone, Text: text}

	var result model.AIProcessResult
	if err := c.doJSON(ctx, "process_message", http.MethodPost, "/api/ai/process-message", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListKnowledgeFiles lists knowledge base files filtered by active state.
func (c *Client) ListKnowledgeFiles(ctx context.Context, active model.KnowledgeFilter, limit int) ([]model.KnowledgeFile, error) {
	if limit <= 0 {
		limit = 200
	}

	query := url.Values{}
	query.Set("active", string(orDefault(active, model.KnowledgeAll)))
	query.Set("limit", strconv.Itoa(limit))

	var files []model.KnowledgeFile
	if err := c.doJSON(ctx, "list_knowledge_files", http.MethodGet, "/api/ai/knowledge/files", query, nil, &files); err != nil {
		return nil, err
	}
	return files, nil
}

// UploadKnowledgeFile uploads one document plus free-text notes.
func (c *Client) UploadKnowledgeFile(ctx context.Context, fileName, mimeType, notes string, r io.Reader) (*model.KnowledgeFile, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := createFilePart(mw, "file", fileName, mimeType)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("notes", notes); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/ai/knowledge/upload", nil, pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var file model.KnowledgeFile
	if err := c.do(req, "upload_knowledge_file", &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// ReindexKnowledgeFile rebuilds the indexed chunks for one file.
func (c *Client) ReindexKnowledgeFile(ctx context.Context, id string) error {
	path := "/api/ai/knowledge/reindex/" + url.PathEscape(id)
	return c.doJSON(ctx, "reindex_knowledge_file", http.MethodPost, path, nil, nil, nil)
}

// DeleteKnowledgeFile removes one knowledge base file.
func (c *Client) DeleteKnowledgeFile(ctx context.Context, id string) error {
	path := "/api/ai/knowledge/files/" + url.PathEscape(id)
	return c.doJSON(ctx, "delete_knowledge_file", http.MethodDelete, path, nil, nil, nil)
}
