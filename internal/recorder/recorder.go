// Package recorder manages microphone capture sessions and turns their
// result into staged audio attachments.
package recorder

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chatlead/agent-console/internal/api"
	"github.com/chatlead/agent-console/internal/composer"
	"github.com/chatlead/agent-console/internal/model"
	"github.com/chatlead/agent-console/pkg/logger"
	"github.com/chatlead/agent-console/pkg/metrics"
)

// State is the capture session state.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateRecording
	StateStopping
)

// ErrPermissionDenied means the capture device refused access. It is
// reported to the user and the recorder returns to idle.
var ErrPermissionDenied = errors.New("microphone access denied")

// ErrNotRecording means Stop was called without an active session.
var ErrNotRecording = errors.New("no active recording")

// Device abstracts the microphone capture source.
type Device interface {
	// Start acquires the device and begins capturing.
	Start(ctx context.Context) (Session, error)
}

// Session is one active capture. Stop always releases the device, whatever
// happens to the captured bytes afterwards.
type Session interface {
	// Stop halts capture and returns the finalized encoded audio.
	Stop() ([]byte, error)
	// MimeType is the encoding of the captured audio.
	MimeType() string
	// FileName is the suggested upload file name.
	FileName() string
}

// Uploader is the slice of the backend client the recorder needs.
type Uploader interface {
	UploadMedia(ctx context.Context, req api.UploadRequest) (*model.MediaUpload, error)
}

var _ Uploader = (*api.Client)(nil)

// Recorder runs at most one capture session at a time.
type Recorder struct {
	device   Device
	uploader Uploader
	composer *composer.Composer
	logger   *logger.Logger
	now      func() time.Time

	mu        sync.Mutex
	state     State
	session   Session
	startedAt time.Time
}

// New creates a recorder. The composer is consulted to clear staged
// attachments and to lock text input during capture.
func New(device Device, uploader Uploader, comp *composer.Composer, log *logger.Logger) *Recorder {
	if log == nil {
		log = logger.NewNop()
	}
	return &Recorder{
		device:   device,
		uploader: uploader,
		composer: comp,
		logger:   log,
		now:      time.Now,
	}
}

// State returns the current session state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Elapsed returns whole seconds since recording started, for the 1s display
// tick.
func (r *Recorder) Elapsed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording && r.state != StateStopping {
		return 0
	}
	return int(r.now().Sub(r.startedAt) / time.Second)
}

// Start begins a capture session. Any staged attachment is cleared first:
// a recording and a pre-existing attachment are mutually exclusive. Starting
// while a session is active is ignored.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return nil
	}
	r.state = StateRequesting
	r.mu.Unlock()

	r.composer.ClearAttachment()

	session, err := r.device.Start(ctx)
	if err != nil {
		r.mu.Lock()
		r.state = StateIdle
		r.mu.Unlock()
		r.logger.Error("capture device unavailable", zap.Error(err))
		if errors.Is(err, ErrPermissionDenied) {
			return err
		}
		return err
	}

	r.composer.Lock()

	r.mu.Lock()
	r.state = StateRecording
	r.session = session
	r.startedAt = r.now()
	r.mu.Unlock()

	return nil
}

// Stop halts the session, uploads the captured audio and stages the result
// as a media attachment of subtype audio. The device is released regardless
// of the upload outcome; upload failure stages nothing.
func (r *Recorder) Stop(ctx context.Context) (*model.Attachment, error) {
	r.mu.Lock()
	if r.state != StateRecording {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	r.state = StateStopping
	session := r.session
	elapsed := int(r.now().Sub(r.startedAt) / time.Second)
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.state = StateIdle
		r.session = nil
		r.mu.Unlock()
	}()

	audio, err := session.Stop()
	r.composer.Unlock()
	if err != nil {
		r.logger.Error("failed to finalize recording", zap.Error(err))
		return nil, err
	}

	upload, err := r.uploader.UploadMedia(ctx, api.UploadRequest{
		Kind:     "audio",
		FileName: session.FileName(),
		MimeType: session.MimeType(),
		Reader:   bytes.NewReader(audio),
	})
	if err != nil {
		r.logger.Error("voice note upload failed", zap.Error(err))
		return nil, err
	}

	metrics.RecordingSeconds.Observe(float64(elapsed))

	att := model.Attachment{
		ID:          uuid.NewString(),
		Kind:        model.AttachmentMedia,
		Subtype:     model.TypeAudio,
		MediaID:     upload.MediaID,
		MimeType:    upload.MimeType,
		FileName:    upload.FileName,
		FileSize:    int64(len(audio)),
		DurationSec: elapsed,
	}
	if err := r.composer.Stage(att); err != nil {
		return nil, err
	}
	return &att, nil
}
