// Package crm implements the customer-profile form for the open
// conversation.
package crm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/chatlead/agent-console/internal/api"
	"github.com/chatlead/agent-console/internal/model"
	"github.com/chatlead/agent-console/pkg/logger"
)

// FlashDuration is how long the transient save indicator stays visible.
const FlashDuration = 2500 * time.Millisecond

// ErrNoPhone means the form has no phone number to save against.
var ErrNoPhone = errors.New("no phone selected")

// ErrNotDirty means save was invoked with nothing to persist.
var ErrNotDirty = errors.New("no unsaved changes")

// Field names the editable profile fields.
type Field string

const (
	FieldFirstName    Field = "first_name"
	FieldLastName     Field = "last_name"
	FieldCity         Field = "city"
	FieldCustomerType Field = "customer_type"
	FieldInterests    Field = "interests"
	FieldTags         Field = "tags"
	FieldNotes        Field = "notes"
)

// Store is the slice of the backend client the form needs.
type Store interface {
	GetCRM(ctx context.Context, phone string) (*model.CRMProfile, error)
	SaveCRM(ctx context.Context, profile model.CRMProfile) error
}

var _ Store = (*api.Client)(nil)

// Flash is the transient save status indicator.
type Flash struct {
	Message string
	IsError bool
	Until   time.Time
}

// Form is the editable CRM profile state.
type Form struct {
	store  Store
	logger *logger.Logger
	now    func() time.Time

	profile model.CRMProfile
	dirty   bool
	saving  bool
	flash   *Flash
}

// New creates an empty form.
func New(store Store, log *logger.Logger) *Form {
	if log == nil {
		log = logger.NewNop()
	}
	return &Form{store: store, logger: log, now: time.Now}
}

// Load fetches the profile for a phone and marks the form clean. Missing
// fields come back as empty strings.
func (f *Form) Load(ctx context.Context, phone string) error {
	if phone == "" {
		return ErrNoPhone
	}

	profile, err := f.store.GetCRM(ctx, phone)
	if err != nil {
		f.logger.Warn("crm load failed", zap.String("phone", phone), zap.Error(err))
		return err
	}

	profile.Phone = phone
	f.profile = *profile
	f.dirty = false
	f.flash = nil
	return nil
}

// Profile returns the current field values.
func (f *Form) Profile() model.CRMProfile { return f.profile }

// Dirty reports whether there are unsaved edits.
func (f *Form) Dirty() bool { return f.dirty }

// Saving reports whether a save is in flight.
func (f *Form) Saving() bool { return f.saving }

// CanSave reports whether Save would do anything: dirty and not already
// saving.
func (f *Form) CanSave() bool {
	return f.dirty && !f.saving && f.profile.Phone != ""
}

// Set updates one field and marks the form dirty.
func (f *Form) Set(field Field, value string) {
	switch field {
	case FieldFirstName:
		f.profile.FirstName = value
	case FieldLastName:
		f.profile.LastName = value
	case FieldCity:
		f.profile.City = value
	case FieldCustomerType:
		f.profile.CustomerType = value
	case FieldInterests:
		f.profile.Interests = value
	case FieldTags:
		f.profile.Tags = value
	case FieldNotes:
		f.profile.Notes = value
	default:
		return
	}
	f.dirty = true
}

// Save upserts the full record. Success marks the form clean and flashes a
// confirmation; failure flashes an error and keeps every entered value.
func (f *Form) Save(ctx context.Context) error {
	if f.profile.Phone == "" {
		return ErrNoPhone
	}
	if !f.dirty {
		return ErrNotDirty
	}
	if f.saving {
		return nil
	}

	f.saving = true
	err := f.store.SaveCRM(ctx, f.profile)
	f.saving = false

	if err != nil {
		f.logger.Error("crm save failed", zap.String("phone", f.profile.Phone), zap.Error(err))
		f.flash = &Flash{Message: "Save failed", IsError: true, Until: f.now().Add(FlashDuration)}
		return err
	}

	f.dirty = false
	f.flash = &Flash{Message: "Saved", Until: f.now().Add(FlashDuration)}
	return nil
}

// Flash returns the active status indicator, nil once it expires.
func (f *Form) Flash() *Flash {
	if f.flash == nil {
		return nil
	}
	if f.now().After(f.flash.Until) {
		f.flash = nil
		return nil
	}
	return f.flash
}
