// Package aipanel implements the assistant configuration panel: the
// settings singleton, knowledge base files and the QA tester.
package aipanel

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chatlead/agent-console/internal/api"
	"github.com/chatlead/agent-console/internal/model"
	"github.com/chatlead/agent-console/pkg/logger"
)

// StatusDuration is how long transient panel status messages stay visible.
const StatusDuration = 2500 * time.Millisecond

// ErrPhoneRequired means the QA tester was invoked without a phone number;
// no request is issued.
var ErrPhoneRequired = errors.New("phone number is required")

// ErrConfirmRequired means a knowledge file delete was attempted without
// explicit confirmation.
var ErrConfirmRequired = errors.New("delete requires confirmation")

// Backend is the slice of the API client the panel needs.
type Backend interface {
	GetAISettings(ctx context.Context) (*model.AISettings, error)
	UpdateAISettings(ctx context.Context, settings model.AISettings) (*model.AISettings, error)
	ListModelsLive(ctx context.Context, provider string) ([]model.LiveModel, error)
	ListKnowledgeFiles(ctx context.Context, active model.KnowledgeFilter, limit int) ([]model.KnowledgeFile, error)
	UploadKnowledgeFile(ctx context.Context, fileName, mimeType, notes string, r io.Reader) (*model.KnowledgeFile, error)
	ReindexKnowledgeFile(ctx context.Context, id string) error
	DeleteKnowledgeFile(ctx context.Context, id string) error
	ProcessMessage(ctx context.Context, phone, text string) (*model.AIProcessResult, error)
}

var _ Backend = (*api.Client)(nil)

// Status is a transient panel status message.
type Status struct {
	Message string
	IsError bool
	Until   time.Time
}

// Panel is the assistant configuration state.
type Panel struct {
	backend Backend
	logger  *logger.Logger
	now     func() time.Time

	settings model.AISettings // authoritative server copy, clamped
	draft    model.AISettings // edit buffer

	models *ModelCache

	kbFilter model.KnowledgeFilter
	kbFiles  []model.KnowledgeFile

	qaResult *model.AIProcessResult

	status *Status
}

// New creates a panel.
func New(backend Backend, log *logger.Logger) *Panel {
	if log == nil {
		log = logger.NewNop()
	}
	return &Panel{
		backend:  backend,
		logger:   log,
		now:      time.Now,
		models:   NewModelCache(backend),
		kbFilter: model.KnowledgeAll,
	}
}

// Load fetches the settings singleton, clamps every numeric field and
// resets the draft.
func (p *Panel) Load(ctx context.Context) error {
	settings, err := p.backend.GetAISettings(ctx)
	if err != nil {
		p.logger.Error("settings load failed", zap.Error(err))
		return err
	}

	p.settings = ClampSettings(*settings)
	p.draft = p.settings
	return nil
}

// Settings returns the authoritative server copy.
func (p *Panel) Settings() model.AISettings { return p.settings }

// Draft returns the current edit buffer.
func (p *Panel) Draft() model.AISettings { return p.draft }

// EditDraft applies one mutation to the edit buffer.
func (p *Panel) EditDraft(mutate func(*model.AISettings)) {
	mutate(&p.draft)
}

// Save clamps the draft, submits the full object, and replaces both local
// copies with the server's response.
func (p *Panel) Save(ctx context.Context) error {
	draft := ClampSettings(p.draft)

	saved, err := p.backend.UpdateAISettings(ctx, draft)
	if err != nil {
		p.logger.Error("settings save failed", zap.Error(err))
		p.setStatus("Settings save failed", true)
		return err
	}

	p.settings = ClampSettings(*saved)
	p.draft = p.settings
	p.setStatus("Settings saved", false)
	return nil
}

// ProviderModels returns the model list for a provider, cached once
// populated. When the draft's selected model is missing from a freshly
// loaded non-empty list, the first available model is auto-selected.
func (p *Panel) ProviderModels(ctx context.Context, provider string) ([]model.LiveModel, error) {
	models, err := p.models.Models(ctx, provider)
	if err != nil {
		return nil, err
	}
	p.autoSelect(provider, models)
	return models, nil
}

// RefreshModels bypasses the cache for one provider.
func (p *Panel) RefreshModels(ctx context.Context, provider string) ([]model.LiveModel, error) {
	models, err := p.models.Refresh(ctx, provider)
	if err != nil {
		return nil, err
	}
	p.autoSelect(provider, models)
	return models, nil
}

func (p *Panel) autoSelect(provider string, models []model.LiveModel) {
	if len(models) == 0 || p.draft.Provider != provider {
		return
	}
	for _, m := range models {
		if m.ID == p.draft.Model {
			return
		}
	}
	p.draft.Model = models[0].ID
}

// KnowledgeFilter returns the active list toggle.
func (p *Panel) KnowledgeFilter() model.KnowledgeFilter { return p.kbFilter }

// SetKnowledgeFilter switches the active/inactive/all toggle and reloads.
func (p *Panel) SetKnowledgeFilter(ctx context.Context, filter model.KnowledgeFilter) error {
	p.kbFilter = filter
	return p.LoadKnowledgeFiles(ctx)
}

// KnowledgeFiles returns the last loaded file list.
func (p *Panel) KnowledgeFiles() []model.KnowledgeFile { return p.kbFiles }

// LoadKnowledgeFiles refetches the file list under the current filter.
func (p *Panel) LoadKnowledgeFiles(ctx context.Context) error {
	files, err := p.backend.ListKnowledgeFiles(ctx, p.kbFilter, 0)
	if err != nil {
		p.logger.Warn("knowledge list failed", zap.Error(err))
		return err
	}
	p.kbFiles = files
	return nil
}

// UploadKnowledge uploads one document with notes and refreshes the list.
func (p *Panel) UploadKnowledge(ctx context.Context, fileName, mimeType, notes string, r io.Reader) error {
	if _, err := p.backend.UploadKnowledgeFile(ctx, fileName, mimeType, notes, r); err != nil {
		p.logger.Error("knowledge upload failed", zap.String("file", fileName), zap.Error(err))
		p.setStatus("Upload failed", true)
		return err
	}
	p.setStatus("File uploaded", false)
	return p.LoadKnowledgeFiles(ctx)
}

// ReindexKnowledge rebuilds one file's chunks and refreshes the list.
func (p *Panel) ReindexKnowledge(ctx context.Context, id string) error {
	if err := p.backend.ReindexKnowledgeFile(ctx, id); err != nil {
		p.logger.Error("knowledge reindex failed", zap.String("id", id), zap.Error(err))
		p.setStatus("Reindex failed", true)
		return err
	}
	p.setStatus("Reindexed", false)
	return p.LoadKnowledgeFiles(ctx)
}

// DeleteKnowledge removes one file. The confirmed flag must come from an
// explicit user confirmation.
func (p *Panel) DeleteKnowledge(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmRequired
	}
	if err := p.backend.DeleteKnowledgeFile(ctx, id); err != nil {
		p.logger.Error("knowledge delete failed", zap.String("id", id), zap.Error(err))
		p.setStatus("Delete failed", true)
		return err
	}
	p.setStatus("File deleted", false)
	return p.LoadKnowledgeFiles(ctx)
}

// RunQA submits one phone+text pair to the manual processing endpoint and
// retains the raw structured response. An empty phone is a validation
// failure: no request is issued.
func (p *Panel) RunQA(ctx context.Context, phone, text string) (*model.AIProcessResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrPhoneRequired
	}

	result, err := p.backend.ProcessMessage(ctx, phone, text)
	if err != nil {
		p.logger.Error("qa invocation failed", zap.String("phone", phone), zap.Error(err))
		return nil, err
	}
	p.qaResult = result
	return result, nil
}

// QAResult returns the last QA response, nil when none.
func (p *Panel) QAResult() *model.AIProcessResult { return p.qaResult }

// Status returns the active transient status, nil once expired.
func (p *Panel) Status() *Status {
	if p.status == nil {
		return nil
	}
	if p.now().After(p.status.Until) {
		p.status = nil
		return nil
	}
	return p.status
}

func (p *Panel) setStatus(message string, isError bool) {
	p.status = &Status{Message: message, IsError: isError, Until: p.now().Add(StatusDuration)}
}
