package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/chatlead/agent-console/internal/model"
)

type fakeStore struct {
	profile model.CRMProfile
	getErr  error
	saveErr error
	saved   []model.CRMProfile
}

func (s *fakeStore) GetCRM(ctx context.Context, phone string) (*model.CRMProfile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	p := s.profile
	return &p, nil
}

func (s *fakeStore) SaveCRM(ctx context.Context, profile model.CRMProfile) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, profile)
	return nil
}

func TestFormLoadStartsClean(t *testing.T) {
	store := &fakeStore{profile: model.CRMProfile{FirstName: "Ana", City: "Lima"}}
	form := New(store, nil)

	require.NoError(t, form.Load(context.Background(), "15550001"))

	require.Equal(t, "Ana", form.Profile().FirstName)
	require.Equal(t, "15550001", form.Profile().Phone)
	require.False(t, form.Dirty())
	require.False(t, form.CanSave())
}

func TestFormLoadWithoutPhone(t *testing.T) {
	form := New(&fakeStore{}, nil)
	require.ErrorIs(t, form.Load(context.Background(), ""), ErrNoPhone)
}

func TestFormSetMarksDirty(t *testing.T) {
	store := &fakeStore{}
	form := New(store, nil)
	require.NoError(t, form.Load(context.Background(), "15550001"))

	form.Set(FieldCity, "Cusco")

	require.True(t, form.Dirty())
	require.True(t, form.CanSave())
	require.Equal(t, "Cusco", form.Profile().City)
}

func TestFormSaveUpsertsFullRecord(t *testing.T) {
	store := &fakeStore{profile: model.CRMProfile{FirstName: "Ana"}}
	form := New(store, nil)
	require.NoError(t, form.Load(context.Background(), "15550001"))
	form.Set(FieldTags, "vip,flowers")

	require.NoError(t, form.Save(context.Background()))

	require.Len(t, store.saved, 1)
	require.Equal(t, "Ana", store.saved[0].FirstName, "untouched fields ride along")
	require.Equal(t, "vip,flowers", store.saved[0].Tags)
	require.False(t, form.Dirty())

	flash := form.Flash()
	require.NotNil(t, flash)
	require.False(t, flash.IsError)
	require.Equal(t, "Saved", flash.Message)
}

func TestFormSaveCleanIsRejected(t *testing.T) {
	form := New(&fakeStore{}, nil)
	require.NoError(t, form.Load(context.Background(), "15550001"))

	require.ErrorIs(t, form.Save(context.Background()), ErrNotDirty)
}

func TestFormSaveFailureKeepsValuesAndDirty(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("500")}
	form := New(store, nil)
	require.NoError(t, form.Load(context.Background(), "15550001"))
	form.Set(FieldNotes, "prefers whatsapp")

	require.Error(t, form.Save(context.Background()))

	require.True(t, form.Dirty(), "dirty flag survives a failed save")
	require.Equal(t, "prefers whatsapp", form.Profile().Notes)

	flash := form.Flash()
	require.NotNil(t, flash)
	require.True(t, flash.IsError)
}

func TestFormFlashExpires(t *testing.T) {
	store := &fakeStore{}
	form := New(store, nil)
	require.NoError(t, form.Load(context.Background(), "15550001"))
	form.Set(FieldCity, "Lima")

	now := time.Now()
	form.now = func() time.Time { return now }
	require.NoError(t, form.Save(context.Background()))
	require.NotNil(t, form.Flash())

	form.now = func() time.Time { return now.Add(FlashDuration + time.Millisecond) }
	require.Nil(t, form.Flash())
}

func TestFormLoadResetsDirtyStateOnSwitch(t *testing.T) {
	store := &fakeStore{}
	form := New(store, nil)
	require.NoError(t, form.Load(context.Background(), "15550001"))
	form.Set(FieldCity, "Lima")

	require.NoError(t, form.Load(context.Background(), "15550002"))

	require.False(t, form.Dirty(), "switching conversations discards edits")
	require.Empty(t, form.Profile().City)
}
