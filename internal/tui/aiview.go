package tui

import (
	"fmt"
	"strings"

	"github.com/chatlead/agent-console/internal/format"
)

func (a *App) viewAI() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Assistant"))
	b.WriteString(styleDim.Render("  tab: settings / knowledge / tester"))
	b.WriteString("\n\n")

	switch a.aiSection {
	case aiSectionSettings:
		b.WriteString(a.viewAISettings())
	case aiSectionKB:
		b.WriteString(a.viewKnowledge())
	case aiSectionQA:
		b.WriteString(a.viewQA())
	}

	if status := a.panel.Status(); status != nil {
		b.WriteString("\n\n")
		if status.IsError {
			b.WriteString(styleError.Render(status.Message))
		} else {
			b.WriteString(styleStatus.Render(status.Message))
		}
	}
	return b.String()
}

func (a *App) viewAISettings() string {
	draft := a.panel.Draft()

	rows := []struct {
		label string
		value string
	}{
		{"Enabled", onOff(draft.IsEnabled)},
		{"Provider", draft.Provider},
		{"Model", draft.Model},
		{"System prompt", format.Truncate(draft.SystemPrompt, a.mainWidth()-22)},
		{"Max tokens", fmt.Sprintf("%d", draft.MaxTokens)},
		{"Temperature", fmt.Sprintf("%.1f", draft.Temperature)},
		{"Fallback provider", draft.FallbackProvider},
		{"Fallback model", draft.FallbackModel},
		{"Timeout", fmt.Sprintf("%ds", draft.TimeoutSec)},
		{"Max retries", fmt.Sprintf("%d", draft.MaxRetries)},
		{"Reply chunk chars", fmt.Sprintf("%d", draft.ReplyChunkChars)},
		{"Reply delay", fmt.Sprintf("%dms", draft.ReplyDelayMs)},
		{"Typing delay", fmt.Sprintf("%dms", draft.TypingDelayMs)},
	}

	var b strings.Builder
	for i, row := range rows {
		editing := a.focus == focusAIText && i == a.aiRow
		line := fit(row.label, 18) + " " + row.value + cursorSuffix(editing)
		if i == a.aiRow {
			b.WriteString(styleSelected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	if len(a.aiModels) > 0 && a.aiRow == aiRowModel {
		b.WriteString(styleDim.Render("\n" + countLabel(len(a.aiModels), "model") + " available, ←→ to cycle"))
	}
	return b.String()
}

func (a *App) viewKnowledge() string {
	files := a.panel.KnowledgeFiles()

	var b strings.Builder
	b.WriteString(styleTitle.Render("Knowledge files"))
	b.WriteString(styleDim.Render(fmt.Sprintf("  filter:%s  u upload · r reindex · d delete", a.panel.KnowledgeFilter())))
	b.WriteString("\n\n")

	if a.focus == focusFilePath && a.fileToKB {
		b.WriteString(styleStatus.Render("file: " + a.filePath + "▏"))
		b.WriteString("\n")
	}

	if len(files) == 0 {
		b.WriteString(styleDim.Render("no knowledge files"))
		return b.String()
	}

	for i, f := range files {
		state := "inactive"
		if f.IsActive {
			state = "active"
		}
		row := fit(f.FileName, 32) + " " + fit(format.Bytes(f.SizeBytes), 10) + state
		if f.Chunks > 0 {
			row += styleDim.Render(fmt.Sprintf("  %d chunks", f.Chunks))
		}
		if i == a.kbIndex {
			b.WriteString(styleSelected.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		if a.kbConfirm == f.ID {
			b.WriteString(styleError.Render("  delete? y/n"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) viewQA() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render("Reply tester"))
	b.WriteString(styleDim.Render("  p phone · t text · enter run"))
	b.WriteString("\n\n")

	b.WriteString("  Phone " + a.qaPhone + cursorSuffix(a.focus == focusQAPhone))
	b.WriteString("\n  Text  " + a.qaText + cursorSuffix(a.focus == focusQAText))
	b.WriteString("\n")

	result := a.panel.QAResult()
	if result == nil {
		return b.String()
	}

	b.WriteString("\n")
	if !result.OK {
		b.WriteString(styleError.Render("failed: " + result.Error))
		return b.String()
	}
	header := fmt.Sprintf("%s/%s", result.Provider, result.Model)
	if result.UsedFallback {
		header += " (fallback)"
	}
	b.WriteString(styleStatus.Render(header))
	b.WriteString("\n")
	b.WriteString(result.ReplyText)
	return b.String()
}
