package tui

import (
	"strings"
	"time"

	"github.com/chatlead/agent-console/internal/crm"
)

var crmLabels = map[crm.Field]string{
	crm.FieldFirstName:    "First name",
	crm.FieldLastName:     "Last name",
	crm.FieldCity:         "City",
	crm.FieldCustomerType: "Customer type",
	crm.FieldInterests:    "Interests",
	crm.FieldTags:         "Tags",
	crm.FieldNotes:        "Notes",
}

func (a *App) viewCRM() string {
	profile := a.crmForm.Profile()

	var b strings.Builder
	b.WriteString(styleTitle.Render("Customer profile"))
	if profile.Phone != "" {
		b.WriteString(styleDim.Render("  " + profile.Phone))
	}
	if a.crmForm.Dirty() {
		b.WriteString(styleStatus.Render("  unsaved changes"))
	}
	b.WriteString("\n\n")

	if profile.Phone == "" {
		b.WriteString(styleDim.Render("open a conversation first"))
		return b.String()
	}

	for i, field := range crmFields {
		label := fit(crmLabels[field], 14)
		value := crmFieldValue(profile, field)
		editing := a.focus == focusCRMField && i == a.crmField

		row := label + " " + value + cursorSuffix(editing)
		if i == a.crmField {
			b.WriteString(styleSelected.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	if flash := a.crmForm.Flash(); flash != nil && flash.Until.After(time.Now()) {
		b.WriteString("\n")
		if flash.IsError {
			b.WriteString(styleError.Render(flash.Message))
		} else {
			b.WriteString(styleStatus.Render(flash.Message))
		}
	}
	if a.crmForm.Saving() {
		b.WriteString("\n")
		b.WriteString(styleDim.Render("saving..."))
	}
	return b.String()
}
