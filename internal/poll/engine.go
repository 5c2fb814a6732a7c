package poll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chatlead/agent-console/internal/api"
	"github.com/chatlead/agent-console/internal/model"
	"github.com/chatlead/agent-console/pkg/logger"
	"github.com/chatlead/agent-console/pkg/metrics"
)

// Backend is the slice of the API client the engine needs.
type Backend interface {
	ListConversations(ctx context.Context, filter model.ConversationFilter) ([]model.Conversation, error)
	ListMessages(ctx context.Context, phone string) ([]model.Message, error)
	MarkRead(ctx context.Context, phone string) error
}

var _ Backend = (*api.Client)(nil)

// ListUpdate is emitted after every conversation list cycle.
type ListUpdate struct {
	Conversations []model.Conversation
	// Cue means a conversation other than the open one advanced and the
	// audible cue should fire once.
	Cue bool
}

// ThreadUpdate is emitted after every message cycle for the open
// conversation.
type ThreadUpdate struct {
	Phone    string
	Messages []model.Message
	Outcome  ThreadOutcome
}

// Engine runs the two periodic concerns: the conversation list poll and,
// while a conversation is open, the message poll. Fetch failures are logged
// and ignored; the next cycle retries. No backoff, no circuit breaking.
type Engine struct {
	backend   Backend
	scheduler Scheduler
	logger    *logger.Logger

	listInterval   time.Duration
	threadInterval time.Duration

	onList   func(ListUpdate)
	onThread func(ThreadUpdate)

	mu         sync.Mutex
	inbox      *Inbox
	thread     *Thread
	filter     model.ConversationFilter
	phone      string
	stopList   func()
	stopThread func()
}

// Config wires an Engine.
type Config struct {
	Backend        Backend
	Scheduler      Scheduler
	Logger         *logger.Logger
	ListInterval   time.Duration
	ThreadInterval time.Duration
	// OnList and OnThread receive every completed cycle's state. They are
	// called from the scheduler goroutine.
	OnList   func(ListUpdate)
	OnThread func(ThreadUpdate)
}

// NewEngine creates a stopped engine.
func NewEngine(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = TickerScheduler{}
	}
	return &Engine{
		backend:        cfg.Backend,
		scheduler:      sched,
		logger:         log,
		listInterval:   cfg.ListInterval,
		threadInterval: cfg.ThreadInterval,
		onList:         cfg.OnList,
		onThread:       cfg.OnThread,
		inbox:          NewInbox(),
		thread:         NewThread(),
	}
}

// Start begins the conversation list concern with an immediate fetch.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.stopList == nil {
		e.stopList = e.scheduler.Every(e.listInterval, func() { e.pollList(ctx) })
	}
	e.mu.Unlock()

	e.pollList(ctx)
}

// Stop cancels both timers and clears reconciliation state.
func (e *Engine) Stop() {
	e.mu.Lock()
	stopList, stopThread := e.stopList, e.stopThread
	e.stopList, e.stopThread = nil, nil
	e.inbox.Reset()
	e.thread.Clear()
	e.phone = ""
	e.mu.Unlock()

	if stopList != nil {
		stopList()
	}
	if stopThread != nil {
		stopThread()
	}
}

// SetFilter restarts the list concern with fresh parameters and refetches
// immediately.
func (e *Engine) SetFilter(ctx context.Context, filter model.ConversationFilter) {
	e.mu.Lock()
	e.filter = filter
	stop := e.stopList
	e.stopList = e.scheduler.Every(e.listInterval, func() { e.pollList(ctx) })
	e.mu.Unlock()

	if stop != nil {
		stop()
	}
	e.pollList(ctx)
}

// Select opens a conversation: the read mark is fired and forgotten, the
// list is refetched immediately so the unread badge clears before the next
// tick, and the message concern restarts against the new phone.
func (e *Engine) Select(ctx context.Context, phone string) {
	e.mu.Lock()
	e.phone = phone
	stop := e.stopThread
	if phone != "" {
		e.stopThread = e.scheduler.Every(e.threadInterval, func() { e.pollThread(ctx) })
	} else {
		e.stopThread = nil
		e.thread.Clear()
	}
	e.mu.Unlock()

	if stop != nil {
		stop()
	}
	if phone == "" {
		return
	}

	if err := e.backend.MarkRead(ctx, phone); err != nil {
		e.logger.Warn("mark read failed", zap.String("phone", phone), zap.Error(err))
	}
	e.pollList(ctx)
	e.pollThread(ctx)
}

// Phone returns the currently open conversation, "" when none.
func (e *Engine) Phone() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phone
}

// RefreshList forces one list cycle outside the schedule, as after a send.
func (e *Engine) RefreshList(ctx context.Context) { e.pollList(ctx) }

// RefreshThread forces one message cycle outside the schedule.
func (e *Engine) RefreshThread(ctx context.Context) { e.pollThread(ctx) }

func (e *Engine) pollList(ctx context.Context) {
	e.mu.Lock()
	filter := e.filter
	openPhone := e.phone
	e.mu.Unlock()

	conversations, err := e.backend.ListConversations(ctx, filter)
	if err != nil {
		metrics.RecordPollCycle("list", "error")
		e.logger.Warn("conversation poll failed", zap.Error(err))
		return
	}
	metrics.RecordPollCycle("list", "ok")

	e.mu.Lock()
	cue := e.inbox.ApplyList(conversations, openPhone)
	e.mu.Unlock()

	if cue {
		metrics.NewMessageCuesTotal.Inc()
	}
	if e.onList != nil {
		e.onList(ListUpdate{Conversations: conversations, Cue: cue})
	}
}

func (e *Engine) pollThread(ctx context.Context) {
	e.mu.Lock()
	phone := e.phone
	e.mu.Unlock()
	if phone == "" {
		return
	}

	messages, err := e.backend.ListMessages(ctx, phone)
	if err != nil {
		metrics.RecordPollCycle("thread", "error")
		e.logger.Warn("message poll failed", zap.String("phone", phone), zap.Error(err))
		return
	}
	metrics.RecordPollCycle("thread", "ok")

	e.mu.Lock()
	// A late response for a conversation that is no longer open is simply
	// dropped; the active concern owns the thread.
	if e.phone != phone {
		e.mu.Unlock()
		return
	}
	outcome := e.thread.Apply(phone, messages)
	e.mu.Unlock()

	if e.onThread != nil {
		e.onThread(ThreadUpdate{Phone: phone, Messages: messages, Outcome: outcome})
	}
}
