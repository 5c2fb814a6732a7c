// Package tui renders the agent console and dispatches user-intent
// commands. All I/O happens in tea.Cmd functions; Update only mutates
// state.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/chatlead/agent-console/internal/aipanel"
	"github.com/chatlead/agent-console/internal/api"
	"github.com/chatlead/agent-console/internal/composer"
	"github.com/chatlead/agent-console/internal/config"
	"github.com/chatlead/agent-console/internal/crm"
	"github.com/chatlead/agent-console/internal/model"
	"github.com/chatlead/agent-console/internal/poll"
	"github.com/chatlead/agent-console/internal/recorder"
	"github.com/chatlead/agent-console/pkg/logger"
)

const uiTickInterval = time.Second

// pane is the focused console area.
type pane int

const (
	paneInbox pane = iota
	paneChat
	paneCRM
	paneAI
)

// focus is the active text input inside a pane.
type focus int

const (
	focusNone focus = iota
	focusSearch
	focusCompose
	focusProductQuery
	focusCRMField
	focusQAPhone
	focusQAText
	focusFilePath
	focusAIText
)

// aiSection is the active block inside the AI pane.
type aiSection int

const (
	aiSectionSettings aiSection = iota
	aiSectionKB
	aiSectionQA
)

// App is the bubbletea model for the console.
type App struct {
	cfg    *config.Config
	logger *logger.Logger

	client   *api.Client
	engine   *poll.Engine
	composer *composer.Composer
	recorder *recorder.Recorder
	crmForm  *crm.Form
	panel    *aipanel.Panel

	ctx context.Context

	width  int
	height int

	pane  pane
	focus focus

	// Inbox
	conversations []model.Conversation
	selected      int
	search        string
	takeover      model.TakeoverFilter
	unread        model.UnreadFilter
	tagFilter     string
	tags          []string

	// Chat
	messages []model.Message
	viewport *poll.Viewport

	// Product picker
	pickingProduct bool
	productQuery   string
	// productSearched is the query the current products slice answers;
	// enter searches when it differs from productQuery, stages otherwise.
	productSearched string
	products        []model.Product
	productIndex    int

	// File path prompt, shared by media staging and knowledge upload.
	filePath  string
	fileToKB  bool
	prevFocus focus

	// CRM
	crmField int

	// AI panel
	aiSection aiSection
	aiRow     int
	aiModels  []model.LiveModel
	kbIndex   int
	// kbConfirm holds the file id awaiting delete confirmation.
	kbConfirm string
	qaPhone   string
	qaText    string

	statusLine string
	statusErr  error
}

// Deps carries the console's constructed collaborators into the TUI.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Client   *api.Client
	Engine   *poll.Engine
	Composer *composer.Composer
	Recorder *recorder.Recorder
	CRMForm  *crm.Form
	Panel    *aipanel.Panel
}

// New creates the console app model.
func New(ctx context.Context, deps Deps) *App {
	return &App{
		cfg:      deps.Config,
		logger:   deps.Logger,
		client:   deps.Client,
		engine:   deps.Engine,
		composer: deps.Composer,
		recorder: deps.Recorder,
		crmForm:  deps.CRMForm,
		panel:    deps.Panel,
		ctx:      ctx,
		pane:     paneInbox,
		takeover: model.TakeoverAll,
		unread:   model.UnreadAll,
		viewport: poll.NewViewport(),
	}
}

// Init starts the polling engine and the 1s UI tick.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			a.engine.Start(a.ctx)
			return nil
		},
		loadTagsCmd(a.ctx, a.client),
		uiTickCmd(),
	)
}

// Update handles one message.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = typed.Width
		a.height = typed.Height
		a.viewport.SetSizes(a.chatHeight(), len(a.messages))
		return a, nil

	case uiTickMsg:
		// Re-render so clocks, flashes and the recording timer advance.
		return a, uiTickCmd()

	case listUpdatedMsg:
		a.conversations = typed.Conversations
		if a.selected >= len(a.conversations) {
			a.selected = len(a.conversations) - 1
		}
		if a.selected < 0 {
			a.selected = 0
		}
		if typed.Cue {
			return a, bellCmd
		}
		return a, nil

	case threadUpdatedMsg:
		a.messages = typed.Messages
		a.viewport.SetSizes(a.chatHeight(), len(a.messages))
		if typed.Outcome.Reloaded {
			a.viewport.ScrollToBottom()
		} else if typed.Outcome.Grew && a.viewport.NearBottom() {
			a.viewport.ScrollToBottom()
		}
		return a, nil

	case tagsMsg:
		a.tags = typed.Tags
		return a, nil

	case sentMsg:
		if typed.Err != nil {
			a.statusErr = typed.Err
			return a, nil
		}
		a.statusErr = nil
		a.statusLine = "message sent"
		// Previews update without waiting for the next tick.
		return a, refreshAfterSendCmd(a.ctx, a.engine)

	case recordingMsg:
		if typed.Err != nil {
			a.statusErr = typed.Err
		}
		return a, nil

	case recordingStoppedMsg:
		if typed.Err != nil {
			a.statusErr = typed.Err
		} else {
			a.statusErr = nil
			a.statusLine = "voice note ready to send"
		}
		return a, nil

	case uploadedMsg:
		if typed.Err != nil {
			a.statusErr = typed.Err
		} else {
			a.statusErr = nil
			a.statusLine = "attachment staged"
		}
		return a, nil

	case productsMsg:
		if typed.Err != nil {
			a.statusErr = typed.Err
			return a, nil
		}
		a.products = typed.Products
		a.productIndex = 0
		return a, nil

	case crmLoadedMsg:
		if typed.Err != nil {
			a.statusErr = typed.Err
		}
		return a, nil

	case crmSavedMsg:
		// The form tracks its own flash; errors stay in the form state too.
		return a, nil

	case aiLoadedMsg:
		if typed.Err != nil {
			a.statusErr = typed.Err
		}
		return a, nil

	case aiModelsMsg:
		if typed.Err != nil {
			a.statusErr = typed.Err
			return a, nil
		}
		a.aiModels = typed.Models
		return a, nil

	case aiActionMsg:
		if typed.Err != nil {
			a.statusErr = typed.Err
		} else {
			a.statusErr = nil
		}
		return a, nil

	case qaMsg:
		if typed.Err != nil {
			a.statusErr = typed.Err
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(typed)
	}

	return a, nil
}

// selectConversation opens the conversation under the cursor.
func (a *App) selectConversation() tea.Cmd {
	if a.selected < 0 || a.selected >= len(a.conversations) {
		return nil
	}
	conv := a.conversations[a.selected]
	a.composer.SetPhone(conv.Phone)
	a.pane = paneChat
	a.focus = focusCompose
	a.messages = nil

	return tea.Batch(
		selectCmd(a.ctx, a.engine, conv.Phone),
		loadCRMCmd(a.ctx, a.crmForm, conv.Phone),
	)
}

func (a *App) applyFilters() tea.Cmd {
	filter := model.ConversationFilter{
		Search:   a.search,
		Takeover: a.takeover,
		Unread:   a.unread,
		Tags:     a.tagFilter,
	}
	return setFilterCmd(a.ctx, a.engine, filter)
}

func (a *App) openConversation() *model.Conversation {
	phone := a.engine.Phone()
	for i := range a.conversations {
		if a.conversations[i].Phone == phone {
			return &a.conversations[i]
		}
	}
	return nil
}

func (a *App) chatHeight() int {
	// Header, composer and status rows are reserved.
	h := a.height - 8
	if h < 4 {
		return 4
	}
	return h
}

func (a *App) logKey(action string) {
	a.logger.Debug("key action", zap.String("action", action))
}
