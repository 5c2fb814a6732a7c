package aipanel

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chatlead/agent-console/internal/model"
)

type fakeAIBackend struct {
	settings     model.AISettings
	updateCalls  []model.AISettings
	modelLists   map[string][]model.LiveModel
	modelCalls   int
	kbFiles      []model.KnowledgeFile
	kbListFilter model.KnowledgeFilter
	deleted      []string
	reindexed    []string
	uploads      []string
	qaCalls      []string
	qaResult     *model.AIProcessResult
	err          error
}

func (b *fakeAIBackend) GetAISettings(ctx context.Context) (*model.AISettings, error) {
	if b.err != nil {
		return nil, b.err
	}
	s := b.settings
	return &s, nil
}

func (b *fakeAIBackend) UpdateAISettings(ctx context.Context, settings model.AISettings) (*model.AISettings, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.updateCalls = append(b.updateCalls, settings)
	b.settings = settings
	s := settings
	return &s, nil
}

func (b *fakeAIBackend) ListModelsLive(ctx context.Context, provider string) ([]model.LiveModel, error) {
	b.modelCalls++
	if b.err != nil {
		return nil, b.err
	}
	return b.modelLists[provider], nil
}

func (b *fakeAIBackend) ListKnowledgeFiles(ctx context.Context, active model.KnowledgeFilter, limit int) ([]model.KnowledgeFile, error) {
	b.kbListFilter = active
	return b.kbFiles, nil
}

func (b *fakeAIBackend) UploadKnowledgeFile(ctx context.Context, fileName, mimeType, notes string, r io.Reader) (*model.KnowledgeFile, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.uploads = append(b.uploads, fileName)
	return &model.KnowledgeFile{ID: "kb-1", FileName: fileName}, nil
}

func (b *fakeAIBackend) ReindexKnowledgeFile(ctx context.Context, id string) error {
	b.reindexed = append(b.reindexed, id)
	return b.err
}

func (b *fakeAIBackend) DeleteKnowledgeFile(ctx context.Context, id string) error {
	b.deleted = append(b.deleted, id)
	return b.err
}

func (b *fakeAIBackend) ProcessMessage(ctx context.Context, phone, text string) (*model.AIProcessResult, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.qaCalls = append(b.qaCalls, phone)
	return b.qaResult, nil
}

func TestPanelLoadClampsSettings(t *testing.T) {
	backend := &fakeAIBackend{settings: model.AISettings{
		Provider:    "groq",
		Temperature: 9.5,
		MaxTokens:   0,
	}}
	panel := New(backend, nil)

	require.NoError(t, panel.Load(context.Background()))

	require.Equal(t, 2.0, panel.Settings().Temperature)
	require.Equal(t, DefaultMaxTokens, panel.Settings().MaxTokens)
	require.Equal(t, panel.Settings(), panel.Draft())
}

func TestPanelSaveClampsDraftAndAdoptsServerCopy(t *testing.T) {
	backend := &fakeAIBackend{settings: model.AISettings{MaxTokens: 512, Temperature: 0.7, TimeoutSec: 25, ReplyChunkChars: 480}}
	panel := New(backend, nil)
	require.NoError(t, panel.Load(context.Background()))

	panel.EditDraft(func(s *model.AISettings) {
		s.Temperature = 5
		s.ReplyDelayMs = -100
	})
	require.NoError(t, panel.Save(context.Background()))

	require.Len(t, backend.updateCalls, 1)
	require.Equal(t, 2.0, backend.updateCalls[0].Temperature, "clamped before submit")
	require.Equal(t, 0, backend.updateCalls[0].ReplyDelayMs)
	require.Equal(t, 2.0, panel.Settings().Temperature)

	status := panel.Status()
	require.NotNil(t, status)
	require.False(t, status.IsError)
}

func TestPanelSaveFailureKeepsDraft(t *testing.T) {
	backend := &fakeAIBackend{settings: model.AISettings{MaxTokens: 512, Temperature: 0.7, TimeoutSec: 25, ReplyChunkChars: 480}}
	panel := New(backend, nil)
	require.NoError(t, panel.Load(context.Background()))

	panel.EditDraft(func(s *model.AISettings) { s.Provider = "mistral" })
	backend.err = errors.New("backend down")

	require.Error(t, panel.Save(context.Background()))
	require.Equal(t, "mistral", panel.Draft().Provider, "edits survive a failed save")

	status := panel.Status()
	require.NotNil(t, status)
	require.True(t, status.IsError)
}

func TestPanelModelsAreCachedPerProvider(t *testing.T) {
	backend := &fakeAIBackend{modelLists: map[string][]model.LiveModel{
		"groq": {{ID: "llama-3.3-70b"}},
	}}
	panel := New(backend, nil)

	_, err := panel.ProviderModels(context.Background(), "groq")
	require.NoError(t, err)
	_, err = panel.ProviderModels(context.Background(), "groq")
	require.NoError(t, err)
	require.Equal(t, 1, backend.modelCalls, "second call served from cache")

	_, err = panel.RefreshModels(context.Background(), "groq")
	require.NoError(t, err)
	require.Equal(t, 2, backend.modelCalls, "refresh bypasses cache")
}

func TestPanelEmptyModelListIsNotCached(t *testing.T) {
	backend := &fakeAIBackend{modelLists: map[string][]model.LiveModel{}}
	panel := New(backend, nil)

	_, err := panel.ProviderModels(context.Background(), "google")
	require.NoError(t, err)
	_, err = panel.ProviderModels(context.Background(), "google")
	require.NoError(t, err)
	require.Equal(t, 2, backend.modelCalls, "empty lists retry on next call")
}

func TestPanelAutoSelectsFirstModelWhenDraftModelMissing(t *testing.T) {
	backend := &fakeAIBackend{
		settings: model.AISettings{Provider: "groq", Model: "retired-model", MaxTokens: 512, Temperature: 0.7, TimeoutSec: 25, ReplyChunkChars: 480},
		modelLists: map[string][]model.LiveModel{
			"groq": {{ID: "llama-3.3-70b"}, {ID: "mixtral-8x7b"}},
		},
	}
	panel := New(backend, nil)
	require.NoError(t, panel.Load(context.Background()))

	_, err := panel.ProviderModels(context.Background(), "groq")
	require.NoError(t, err)
	require.Equal(t, "llama-3.3-70b", panel.Draft().Model)
}

func TestPanelAutoSelectLeavesKnownModelAlone(t *testing.T) {
	backend := &fakeAIBackend{
		settings: model.AISettings{Provider: "groq", Model: "mixtral-8x7b", MaxTokens: 512, Temperature: 0.7, TimeoutSec: 25, ReplyChunkChars: 480},
		modelLists: map[string][]model.LiveModel{
			"groq": {{ID: "llama-3.3-70b"}, {ID: "mixtral-8x7b"}},
		},
	}
	panel := New(backend, nil)
	require.NoError(t, panel.Load(context.Background()))

	_, err := panel.ProviderModels(context.Background(), "groq")
	require.NoError(t, err)
	require.Equal(t, "mixtral-8x7b", panel.Draft().Model)
}

func TestPanelKnowledgeFilterReloadsList(t *testing.T) {
	backend := &fakeAIBackend{kbFiles: []model.KnowledgeFile{{ID: "kb-1", FileName: "faq.pdf"}}}
	panel := New(backend, nil)

	require.NoError(t, panel.SetKnowledgeFilter(context.Background(), model.KnowledgeActive))

	require.Equal(t, model.KnowledgeActive, backend.kbListFilter)
	require.Len(t, panel.KnowledgeFiles(), 1)
}

func TestPanelDeleteRequiresConfirmation(t *testing.T) {
	backend := &fakeAIBackend{}
	panel := New(backend, nil)

	err := panel.DeleteKnowledge(context.Background(), "kb-1", false)
	require.ErrorIs(t, err, ErrConfirmRequired)
	require.Empty(t, backend.deleted)

	require.NoError(t, panel.DeleteKnowledge(context.Background(), "kb-1", true))
	require.Equal(t, []string{"kb-1"}, backend.deleted)
}

func TestPanelRunQARequiresPhone(t *testing.T) {
	backend := &fakeAIBackend{qaResult: &model.AIProcessResult{OK: true, ReplyText: "hola"}}
	panel := New(backend, nil)

	_, err := panel.RunQA(context.Background(), "   ", "hello")
	require.ErrorIs(t, err, ErrPhoneRequired)
	require.Empty(t, backend.qaCalls, "no request without a phone")

	result, err := panel.RunQA(context.Background(), " 15550001 ", "hello")
	require.NoError(t, err)
	require.Equal(t, []string{"15550001"}, backend.qaCalls)
	require.Equal(t, result, panel.QAResult())
}

func TestPanelStatusExpires(t *testing.T) {
	backend := &fakeAIBackend{settings: model.AISettings{MaxTokens: 512, Temperature: 0.7, TimeoutSec: 25, ReplyChunkChars: 480}}
	panel := New(backend, nil)
	require.NoError(t, panel.Load(context.Background()))

	now := time.Now()
	panel.now = func() time.Time { return now }
	require.NoError(t, panel.Save(context.Background()))
	require.NotNil(t, panel.Status())

	panel.now = func() time.Time { return now.Add(StatusDuration + time.Millisecond) }
	require.Nil(t, panel.Status())
}
