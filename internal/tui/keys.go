package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chatlead/agent-console/internal/aipanel"
	"github.com/chatlead/agent-console/internal/crm"
	"github.com/chatlead/agent-console/internal/model"
	"github.com/chatlead/agent-console/internal/recorder"
)

// crmFields is the tab order of the profile form.
var crmFields = []crm.Field{
	crm.FieldFirstName,
	crm.FieldLastName,
	crm.FieldCity,
	crm.FieldCustomerType,
	crm.FieldInterests,
	crm.FieldTags,
	crm.FieldNotes,
}

// aiRows is the tab order of the settings block. Numeric rows adjust with
// left/right, text rows open an inline edit on enter.
const (
	aiRowEnabled = iota
	aiRowProvider
	aiRowModel
	aiRowSystemPrompt
	aiRowMaxTokens
	aiRowTemperature
	aiRowFallbackProvider
	aiRowFallbackModel
	aiRowTimeoutSec
	aiRowMaxRetries
	aiRowReplyChunkChars
	aiRowReplyDelayMs
	aiRowTypingDelayMs
	aiRowCount
)

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		a.engine.Stop()
		return a, tea.Quit
	}

	switch a.focus {
	case focusSearch:
		return a.handleSearchKey(msg)
	case focusCompose:
		return a.handleComposeKey(msg)
	case focusProductQuery:
		return a.handleProductKey(msg)
	case focusCRMField:
		return a.handleCRMEditKey(msg)
	case focusQAPhone, focusQAText:
		return a.handleQAKey(msg)
	case focusFilePath:
		return a.handleFilePathKey(msg)
	case focusAIText:
		return a.handleAITextKey(msg)
	}

	// Navigation mode.
	switch msg.String() {
	case "q":
		a.engine.Stop()
		return a, tea.Quit
	case "1":
		a.pane = paneInbox
		return a, nil
	case "2":
		a.pane = paneChat
		return a, nil
	case "3":
		a.pane = paneCRM
		return a, nil
	case "4":
		a.pane = paneAI
		a.aiSection = aiSectionSettings
		return a, loadAICmd(a.ctx, a.panel)
	}

	switch a.pane {
	case paneInbox:
		return a.handleInboxKey(msg)
	case paneChat:
		return a.handleChatNavKey(msg)
	case paneCRM:
		return a.handleCRMNavKey(msg)
	case paneAI:
		return a.handleAINavKey(msg)
	}
	return a, nil
}

func (a *App) handleInboxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.selected > 0 {
			a.selected--
		}
	case "down", "j":
		if a.selected < len(a.conversations)-1 {
			a.selected++
		}
	case "enter":
		a.logKey("open conversation")
		return a, a.selectConversation()
	case "/":
		a.focus = focusSearch
	case "t":
		a.takeover = cycleTakeover(a.takeover)
		return a, a.applyFilters()
	case "u":
		a.unread = cycleUnread(a.unread)
		return a, a.applyFilters()
	case "g":
		a.tagFilter = cycleTag(a.tags, a.tagFilter)
		return a, a.applyFilters()
	case "r":
		return a, func() tea.Msg {
			a.engine.RefreshList(a.ctx)
			return nil
		}
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.focus = focusNone
		a.search = ""
		return a, a.applyFilters()
	case tea.KeyEnter:
		a.focus = focusNone
		return a, a.applyFilters()
	case tea.KeyBackspace:
		a.search = trimLastRune(a.search)
	case tea.KeyRunes, tea.KeySpace:
		a.search += string(msg.Runes)
	}
	return a, nil
}

func (a *App) handleChatNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.pane = paneInbox
	case "i", "enter":
		if a.engine.Phone() != "" {
			a.focus = focusCompose
		}
	case "up":
		a.viewport.Scroll(a.viewport.Offset() - 1)
	case "down":
		a.viewport.Scroll(a.viewport.Offset() + 1)
	case "pgup":
		a.viewport.Scroll(a.viewport.Offset() - a.chatHeight())
	case "pgdown":
		a.viewport.Scroll(a.viewport.Offset() + a.chatHeight())
	case "G":
		a.viewport.ScrollToBottom()
	case "t":
		if conv := a.openConversation(); conv != nil {
			a.logKey("toggle takeover")
			return a, toggleTakeoverCmd(a.ctx, a.client, a.engine, conv.Phone, !conv.Takeover)
		}
	}
	return a, nil
}

func (a *App) handleComposeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Recording keys stay live while the text input is locked.
	switch msg.Type {
	case tea.KeyEsc:
		a.focus = focusNone
		return a, nil
	case tea.KeyCtrlR:
		if a.recorder.State() == recorder.StateRecording {
			a.logKey("stop recording")
			return a, stopRecordingCmd(a.ctx, a.recorder)
		}
		a.logKey("start recording")
		return a, startRecordingCmd(a.ctx, a.recorder)
	}

	if a.composer.Locked() {
		return a, nil
	}

	switch msg.Type {
	case tea.KeyEnter:
		if !a.composer.CanSend() {
			return a, nil
		}
		a.logKey("send message")
		return a, sendCmd(a.ctx, a.composer)
	case tea.KeyCtrlF:
		a.fileToKB = false
		a.prevFocus = focusCompose
		a.focus = focusFilePath
		a.filePath = ""
	case tea.KeyCtrlP:
		a.pickingProduct = true
		a.focus = focusProductQuery
		a.productQuery = ""
		a.productSearched = ""
		a.products = nil
		a.productIndex = 0
	case tea.KeyCtrlX:
		a.composer.ClearAttachment()
	case tea.KeyBackspace:
		a.composer.SetText(trimLastRune(a.composer.Text()))
	case tea.KeyRunes, tea.KeySpace:
		a.composer.SetText(a.composer.Text() + string(msg.Runes))
	}
	return a, nil
}

func (a *App) handleProductKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.pickingProduct = false
		a.focus = focusCompose
	case tea.KeyUp:
		if a.productIndex > 0 {
			a.productIndex--
		}
	case tea.KeyDown:
		if a.productIndex < len(a.products)-1 {
			a.productIndex++
		}
	case tea.KeyEnter:
		// First enter searches, a second enter on the same query stages
		// the highlighted product.
		if a.productQuery != a.productSearched || len(a.products) == 0 {
			a.productSearched = a.productQuery
			a.logKey("search products")
			return a, searchProductsCmd(a.ctx, a.client, a.productQuery)
		}
		if a.productIndex < len(a.products) {
			product := a.products[a.productIndex]
			a.pickingProduct = false
			a.focus = focusCompose
			a.logKey("stage product")
			return a, stageProductCmd(a.composer, product)
		}
	case tea.KeyBackspace:
		a.productQuery = trimLastRune(a.productQuery)
	case tea.KeyRunes, tea.KeySpace:
		a.productQuery += string(msg.Runes)
	}
	return a, nil
}

func (a *App) handleFilePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.focus = a.prevFocus
		a.filePath = ""
	case tea.KeyEnter:
		path := strings.TrimSpace(a.filePath)
		a.focus = a.prevFocus
		a.filePath = ""
		if path == "" {
			return a, nil
		}
		if a.fileToKB {
			a.logKey("upload knowledge file")
			return a, kbUploadCmd(a.ctx, a.panel, path, "")
		}
		a.logKey("stage media file")
		return a, stageFileCmd(a.ctx, a.client, a.composer, path)
	case tea.KeyBackspace:
		a.filePath = trimLastRune(a.filePath)
	case tea.KeyRunes, tea.KeySpace:
		a.filePath += string(msg.Runes)
	}
	return a, nil
}

func (a *App) handleCRMNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.pane = paneChat
	case "up", "k":
		if a.crmField > 0 {
			a.crmField--
		}
	case "down", "j":
		if a.crmField < len(crmFields)-1 {
			a.crmField++
		}
	case "enter", "i":
		if a.crmForm.Profile().Phone != "" {
			a.focus = focusCRMField
		}
	case "s":
		if a.crmForm.CanSave() {
			a.logKey("save crm")
			return a, saveCRMCmd(a.ctx, a.crmForm)
		}
	}
	return a, nil
}

func (a *App) handleCRMEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := crmFields[a.crmField]
	value := crmFieldValue(a.crmForm.Profile(), field)

	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		a.focus = focusNone
	case tea.KeyCtrlS:
		a.focus = focusNone
		if a.crmForm.CanSave() {
			return a, saveCRMCmd(a.ctx, a.crmForm)
		}
	case tea.KeyBackspace:
		a.crmForm.Set(field, trimLastRune(value))
	case tea.KeyRunes, tea.KeySpace:
		a.crmForm.Set(field, value+string(msg.Runes))
	}
	return a, nil
}

func (a *App) handleAINavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "tab" {
		a.aiSection = (a.aiSection + 1) % 3
		return a, nil
	}
	switch a.aiSection {
	case aiSectionSettings:
		return a.handleAISettingsKey(msg)
	case aiSectionKB:
		return a.handleKBKey(msg)
	case aiSectionQA:
		return a.handleQANavKey(msg)
	}
	return a, nil
}

func (a *App) handleAISettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.pane = paneChat
	case "up", "k":
		if a.aiRow > 0 {
			a.aiRow--
		}
	case "down", "j":
		if a.aiRow < aiRowCount-1 {
			a.aiRow++
		}
	case "left", "h":
		return a, a.adjustAIRow(-1)
	case "right", "l":
		return a, a.adjustAIRow(1)
	case "enter", "i":
		if aiRowIsText(a.aiRow) {
			a.focus = focusAIText
		}
	case "R":
		provider := a.panel.Draft().Provider
		a.logKey("refresh models")
		return a, loadModelsCmd(a.ctx, a.panel, provider, true)
	case "s":
		a.logKey("save ai settings")
		return a, saveAICmd(a.ctx, a.panel)
	}
	return a, nil
}

// adjustAIRow steps the selected setting. Provider and model cycle through
// their catalogs, numerics move by a row-appropriate increment; the panel
// clamps out-of-range values on save.
func (a *App) adjustAIRow(dir int) tea.Cmd {
	var cmd tea.Cmd
	a.panel.EditDraft(func(s *model.AISettings) {
		switch a.aiRow {
		case aiRowEnabled:
			s.IsEnabled = !s.IsEnabled
		case aiRowProvider:
			s.Provider = cycleString(aipanel.Providers, s.Provider, dir)
			s.Model = ""
			cmd = loadModelsCmd(a.ctx, a.panel, s.Provider, false)
		case aiRowModel:
			ids := make([]string, len(a.aiModels))
			for i, m := range a.aiModels {
				ids[i] = m.ID
			}
			if len(ids) > 0 {
				s.Model = cycleString(ids, s.Model, dir)
			}
		case aiRowMaxTokens:
			s.MaxTokens += dir * 64
		case aiRowTemperature:
			s.Temperature += float64(dir) * 0.1
		case aiRowFallbackProvider:
			s.FallbackProvider = cycleString(append([]string{""}, aipanel.Providers...), s.FallbackProvider, dir)
		case aiRowTimeoutSec:
			s.TimeoutSec += dir * 5
		case aiRowMaxRetries:
			s.MaxRetries += dir
		case aiRowReplyChunkChars:
			s.ReplyChunkChars += dir * 40
		case aiRowReplyDelayMs:
			s.ReplyDelayMs += dir * 100
		case aiRowTypingDelayMs:
			s.TypingDelayMs += dir * 50
		}
	})
	return cmd
}

func aiRowIsText(row int) bool {
	return row == aiRowSystemPrompt || row == aiRowFallbackModel
}

func (a *App) handleAITextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyEnter:
		a.focus = focusNone
	case tea.KeyBackspace:
		a.panel.EditDraft(func(s *model.AISettings) {
			switch a.aiRow {
			case aiRowSystemPrompt:
				s.SystemPrompt = trimLastRune(s.SystemPrompt)
			case aiRowFallbackModel:
				s.FallbackModel = trimLastRune(s.FallbackModel)
			}
		})
	case tea.KeyRunes, tea.KeySpace:
		a.panel.EditDraft(func(s *model.AISettings) {
			switch a.aiRow {
			case aiRowSystemPrompt:
				s.SystemPrompt += string(msg.Runes)
			case aiRowFallbackModel:
				s.FallbackModel += string(msg.Runes)
			}
		})
	}
	return a, nil
}

func (a *App) handleKBKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files := a.panel.KnowledgeFiles()

	// A pending delete only accepts confirm or cancel.
	if a.kbConfirm != "" {
		switch msg.String() {
		case "y":
			id := a.kbConfirm
			a.kbConfirm = ""
			a.logKey("delete knowledge file")
			return a, kbDeleteCmd(a.ctx, a.panel, id)
		default:
			a.kbConfirm = ""
		}
		return a, nil
	}

	switch msg.String() {
	case "up", "k":
		if a.kbIndex > 0 {
			a.kbIndex--
		}
	case "down", "j":
		if a.kbIndex < len(files)-1 {
			a.kbIndex++
		}
	case "f":
		return a, kbFilterCmd(a.ctx, a.panel, cycleKnowledge(a.panel.KnowledgeFilter()))
	case "u":
		a.fileToKB = true
		a.prevFocus = focusNone
		a.focus = focusFilePath
		a.filePath = ""
	case "r":
		if a.kbIndex < len(files) {
			a.logKey("reindex knowledge file")
			return a, kbReindexCmd(a.ctx, a.panel, files[a.kbIndex].ID)
		}
	case "d":
		if a.kbIndex < len(files) {
			a.kbConfirm = files[a.kbIndex].ID
		}
	}
	return a, nil
}

func (a *App) handleQANavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "p":
		a.focus = focusQAPhone
	case "t", "i":
		a.focus = focusQAText
	case "enter":
		a.logKey("run qa test")
		return a, qaCmd(a.ctx, a.panel, a.qaPhone, a.qaText)
	}
	return a, nil
}

func (a *App) handleQAKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	target := &a.qaPhone
	if a.focus == focusQAText {
		target = &a.qaText
	}
	switch msg.Type {
	case tea.KeyEsc:
		a.focus = focusNone
	case tea.KeyEnter:
		a.focus = focusNone
		return a, qaCmd(a.ctx, a.panel, a.qaPhone, a.qaText)
	case tea.KeyBackspace:
		*target = trimLastRune(*target)
	case tea.KeyRunes, tea.KeySpace:
		*target += string(msg.Runes)
	}
	return a, nil
}

func crmFieldValue(p model.CRMProfile, field crm.Field) string {
	switch field {
	case crm.FieldFirstName:
		return p.FirstName
	case crm.FieldLastName:
		return p.LastName
	case crm.FieldCity:
		return p.City
	case crm.FieldCustomerType:
		return p.CustomerType
	case crm.FieldInterests:
		return p.Interests
	case crm.FieldTags:
		return p.Tags
	case crm.FieldNotes:
		return p.Notes
	}
	return ""
}

func trimLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}

func cycleTakeover(f model.TakeoverFilter) model.TakeoverFilter {
	switch f {
	case model.TakeoverAll:
		return model.TakeoverOn
	case model.TakeoverOn:
		return model.TakeoverOff
	default:
		return model.TakeoverAll
	}
}

func cycleUnread(f model.UnreadFilter) model.UnreadFilter {
	switch f {
	case model.UnreadAll:
		return model.UnreadYes
	case model.UnreadYes:
		return model.UnreadNo
	default:
		return model.UnreadAll
	}
}

func cycleKnowledge(f model.KnowledgeFilter) model.KnowledgeFilter {
	switch f {
	case model.KnowledgeAll:
		return model.KnowledgeActive
	case model.KnowledgeActive:
		return model.KnowledgeInactive
	default:
		return model.KnowledgeAll
	}
}

// cycleTag steps through "" plus the known tags.
func cycleTag(tags []string, current string) string {
	if len(tags) == 0 {
		return ""
	}
	options := append([]string{""}, tags...)
	for i, t := range options {
		if t == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func cycleString(options []string, current string, dir int) string {
	if len(options) == 0 {
		return current
	}
	for i, o := range options {
		if o == current {
			return options[(i+len(options)+dir)%len(options)]
		}
	}
	return options[0]
}
