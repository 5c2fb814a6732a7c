package tui

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/chatlead/agent-console/internal/aipanel"
	"github.com/chatlead/agent-console/internal/api"
	"github.com/chatlead/agent-console/internal/composer"
	"github.com/chatlead/agent-console/internal/crm"
	"github.com/chatlead/agent-console/internal/model"
	"github.com/chatlead/agent-console/internal/poll"
	"github.com/chatlead/agent-console/internal/recorder"
)

type uiTickMsg struct{}

// ListUpdated wraps a conversation list poll result for Program.Send.
func ListUpdated(u poll.ListUpdate) tea.Msg { return listUpdatedMsg(u) }

// ThreadUpdated wraps a thread poll result for Program.Send.
func ThreadUpdated(u poll.ThreadUpdate) tea.Msg { return threadUpdatedMsg(u) }

// listUpdatedMsg and threadUpdatedMsg are forwarded from the polling engine
// through Program.Send.
type listUpdatedMsg poll.ListUpdate

type threadUpdatedMsg poll.ThreadUpdate

type tagsMsg struct {
	Tags []string
	Err  error
}

type sentMsg struct{ Err error }

type recordingMsg struct{ Err error }

type recordingStoppedMsg struct {
	Attachment *model.Attachment
	Err        error
}

type uploadedMsg struct{ Err error }

type productsMsg struct {
	Products []model.Product
	Err      error
}

type crmLoadedMsg struct{ Err error }

type crmSavedMsg struct{ Err error }

type aiLoadedMsg struct{ Err error }

type aiModelsMsg struct {
	Models []model.LiveModel
	Err    error
}

type aiActionMsg struct{ Err error }

type qaMsg struct {
	Result *model.AIProcessResult
	Err    error
}

func uiTickCmd() tea.Cmd {
	return tea.Tick(uiTickInterval, func(time.Time) tea.Msg { return uiTickMsg{} })
}

// bellCmd rings the terminal bell, the console's audible new-message cue.
func bellCmd() tea.Msg {
	fmt.Print("\a")
	return nil
}

func loadTagsCmd(ctx context.Context, client *api.Client) tea.Cmd {
	return func() tea.Msg {
		tags, err := client.ListCRMTags(ctx)
		return tagsMsg{Tags: tags, Err: err}
	}
}

func selectCmd(ctx context.Context, engine *poll.Engine, phone string) tea.Cmd {
	return func() tea.Msg {
		engine.Select(ctx, phone)
		return nil
	}
}

func setFilterCmd(ctx context.Context, engine *poll.Engine, filter model.ConversationFilter) tea.Cmd {
	return func() tea.Msg {
		engine.SetFilter(ctx, filter)
		return nil
	}
}

func sendCmd(ctx context.Context, comp *composer.Composer) tea.Cmd {
	return func() tea.Msg {
		err := comp.Send(ctx)
		if err == composer.ErrEmptyMessage {
			return nil
		}
		return sentMsg{Err: err}
	}
}

func refreshAfterSendCmd(ctx context.Context, engine *poll.Engine) tea.Cmd {
	return func() tea.Msg {
		engine.RefreshThread(ctx)
		engine.RefreshList(ctx)
		return nil
	}
}

func startRecordingCmd(ctx context.Context, rec *recorder.Recorder) tea.Cmd {
	return func() tea.Msg {
		return recordingMsg{Err: rec.Start(ctx)}
	}
}

func stopRecordingCmd(ctx context.Context, rec *recorder.Recorder) tea.Cmd {
	return func() tea.Msg {
		att, err := rec.Stop(ctx)
		return recordingStoppedMsg{Attachment: att, Err: err}
	}
}

// stageFileCmd uploads a local file and stages the result as a media
// attachment.
func stageFileCmd(ctx context.Context, client *api.Client, comp *composer.Composer, path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadedMsg{Err: err}
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			return uploadedMsg{Err: err}
		}

		name := filepath.Base(path)
		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		subtype := subtypeForMime(mimeType)

		upload, err := client.UploadMedia(ctx, api.UploadRequest{
			Kind:     string(subtype),
			FileName: name,
			MimeType: mimeType,
			Reader:   f,
		})
		if err != nil {
			return uploadedMsg{Err: err}
		}

		err = comp.Stage(model.Attachment{
			ID:       uuid.NewString(),
			Kind:     model.AttachmentMedia,
			Subtype:  subtype,
			MediaID:  upload.MediaID,
			MimeType: upload.MimeType,
			FileName: upload.FileName,
			FileSize: info.Size(),
		})
		return uploadedMsg{Err: err}
	}
}

func subtypeForMime(mimeType string) model.MessageType {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return model.TypeImage
	case strings.HasPrefix(mimeType, "video/"):
		return model.TypeVideo
	case strings.HasPrefix(mimeType, "audio/"):
		return model.TypeAudio
	default:
		return model.TypeDocument
	}
}

func searchProductsCmd(ctx context.Context, client *api.Client, query string) tea.Cmd {
	return func() tea.Msg {
		products, err := client.SearchProducts(ctx, query, 1, 12)
		return productsMsg{Products: products, Err: err}
	}
}

// stageProductCmd stages a catalog product as the pending attachment. The
// blurb becomes the attachment's own text, which wins over composer text.
func stageProductCmd(comp *composer.Composer, product model.Product) tea.Cmd {
	return func() tea.Msg {
		blurb := product.Name
		if product.Price != "" {
			blurb += "\n" + product.Price
		}
		if product.Permalink != "" {
			blurb += "\n" + product.Permalink
		}

		err := comp.Stage(model.Attachment{
			ID:            uuid.NewString(),
			Kind:          model.AttachmentProduct,
			ProductID:     product.ID,
			Text:          blurb,
			FeaturedImage: product.FeaturedImage,
			RealImage:     product.RealImage,
			Permalink:     product.Permalink,
		})
		return uploadedMsg{Err: err}
	}
}

func toggleTakeoverCmd(ctx context.Context, client *api.Client, engine *poll.Engine, phone string, takeover bool) tea.Cmd {
	return func() tea.Msg {
		if err := client.SetTakeover(ctx, phone, takeover); err != nil {
			return aiActionMsg{Err: err}
		}
		engine.RefreshList(ctx)
		return nil
	}
}

func loadCRMCmd(ctx context.Context, form *crm.Form, phone string) tea.Cmd {
	return func() tea.Msg {
		return crmLoadedMsg{Err: form.Load(ctx, phone)}
	}
}

func saveCRMCmd(ctx context.Context, form *crm.Form) tea.Cmd {
	return func() tea.Msg {
		return crmSavedMsg{Err: form.Save(ctx)}
	}
}

func loadAICmd(ctx context.Context, panel *aipanel.Panel) tea.Cmd {
	return func() tea.Msg {
		if err := panel.Load(ctx); err != nil {
			return aiLoadedMsg{Err: err}
		}
		return aiLoadedMsg{Err: panel.LoadKnowledgeFiles(ctx)}
	}
}

func saveAICmd(ctx context.Context, panel *aipanel.Panel) tea.Cmd {
	return func() tea.Msg {
		return aiActionMsg{Err: panel.Save(ctx)}
	}
}

func loadModelsCmd(ctx context.Context, panel *aipanel.Panel, provider string, refresh bool) tea.Cmd {
	return func() tea.Msg {
		var (
			models []model.LiveModel
			err    error
		)
		if refresh {
			models, err = panel.RefreshModels(ctx, provider)
		} else {
			models, err = panel.ProviderModels(ctx, provider)
		}
		return aiModelsMsg{Models: models, Err: err}
	}
}

func kbFilterCmd(ctx context.Context, panel *aipanel.Panel, filter model.KnowledgeFilter) tea.Cmd {
	return func() tea.Msg {
		return aiActionMsg{Err: panel.SetKnowledgeFilter(ctx, filter)}
	}
}

func kbUploadCmd(ctx context.Context, panel *aipanel.Panel, path, notes string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return aiActionMsg{Err: err}
		}
		defer f.Close()

		mimeType := mime.TypeByExtension(filepath.Ext(path))
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		return aiActionMsg{Err: panel.UploadKnowledge(ctx, filepath.Base(path), mimeType, notes, f)}
	}
}

func kbReindexCmd(ctx context.Context, panel *aipanel.Panel, id string) tea.Cmd {
	return func() tea.Msg {
		return aiActionMsg{Err: panel.ReindexKnowledge(ctx, id)}
	}
}

func kbDeleteCmd(ctx context.Context, panel *aipanel.Panel, id string) tea.Cmd {
	return func() tea.Msg {
		return aiActionMsg{Err: panel.DeleteKnowledge(ctx, id, true)}
	}
}

func qaCmd(ctx context.Context, panel *aipanel.Panel, phone, text string) tea.Cmd {
	return func() tea.Msg {
		result, err := panel.RunQA(ctx, phone, text)
		return qaMsg{Result: result, Err: err}
	}
}
