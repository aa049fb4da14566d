// Package editor is the reaction form engine. It owns the document tree,
// keeps it in sync with the reaction record, routes validation and
// rendering through the remote service and persists edits back into the
// dataset.
//
// All document state is confined to a single event-loop goroutine. Remote
// calls run on worker goroutines and post their completions back to the
// loop, so a response is always applied in one step against the current
// tree.
package editor

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
	"github.com/antonkast-google/ord-editor/internal/sections"
)

const (
	defaultAutosavePeriod = 15 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

// Remote is the validation, rendering and dataset service the editor
// talks to. Request bodies are pre-encoded binary records.
type Remote interface {
	ReadDataset(ctx context.Context, name string) (*models.Dataset, error)
	ReactionByID(ctx context.Context, id string) (*models.Reaction, error)
	Validate(ctx context.Context, typeName string, body []byte) (*models.Diagnostics, error)
	Render(ctx context.Context, body []byte) (string, error)
	WriteDataset(ctx context.Context, name string, body []byte) error
	Upload(ctx context.Context, dataset, token string, data []byte) error
	Download(ctx context.Context, body []byte) ([]byte, error)
	CompareDataset(ctx context.Context, name string, body []byte) error
}

// Editor is one editing session over a single reaction.
type Editor struct {
	remote   Remote
	logger   *slog.Logger
	enums    *models.EnumRegistry
	animator Animator
	period   time.Duration
	timeout  time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	loop      chan func()
	done      chan struct{}
	closeOnce sync.Once
	inflight  tracker

	// Everything below is owned by the loop goroutine.
	doc      *form.Document
	sec      *sections.Set
	session  Session
	state    RecordState
	ready    bool
	frozen   bool
	dirtyGen uint64
	undo     *undoBuffer
	seq      map[*form.Node]uint64
	nextSeq  uint64
	uploads  map[string][]byte

	reactionID       *form.Node
	saveButton       *form.Node
	autosaveButton   *form.Node
	reactionValidate *form.Node
	datasetContext   *form.Node
	render           *form.Node
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the editor's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// WithAnimator paces show and hide transitions.
func WithAnimator(a Animator) Option {
	return func(e *Editor) { e.animator = a }
}

// WithEnums replaces the enum registry used to fill selectors.
func WithEnums(r *models.EnumRegistry) Option {
	return func(e *Editor) { e.enums = r }
}

// WithAutosavePeriod sets the autosave tick interval.
func WithAutosavePeriod(d time.Duration) Option {
	return func(e *Editor) {
		if d > 0 {
			e.period = d
		}
	}
}

// WithRequestTimeout bounds every remote call made by the editor.
func WithRequestTimeout(d time.Duration) Option {
	return func(e *Editor) { e.timeout = d }
}

// New builds the form and starts the event loop. Close releases it.
func New(remote Remote, opts ...Option) *Editor {
	e := &Editor{
		remote:   remote,
		logger:   slog.Default(),
		enums:    models.DefaultEnums(),
		animator: Immediate{},
		period:   defaultAutosavePeriod,
		timeout:  defaultRequestTimeout,
		loop:     make(chan func()),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.session.Timers = make(map[string]*timer)
	e.build()
	go e.run()
	return e
}

func (e *Editor) run() {
	defer close(e.done)
	for {
		select {
		case fn := <-e.loop:
			fn()
		case <-e.ctx.Done():
			return
		}
	}
}

// Close stops the event loop and every timer. In-flight responses are
// dropped.
func (e *Editor) Close() error {
	e.closeOnce.Do(func() {
		e.cancel()
		<-e.done
	})
	return nil
}

// Settle blocks until no request or animation continuation is pending.
func (e *Editor) Settle(ctx context.Context) error {
	return e.inflight.wait(ctx)
}

// exec runs fn on the loop and waits for it.
func (e *Editor) exec(fn func()) error {
	ran := make(chan struct{})
	select {
	case e.loop <- func() { defer close(ran); fn() }:
	case <-e.done:
		return ErrClosed
	}
	select {
	case <-ran:
		return nil
	case <-e.done:
		return ErrClosed
	}
}

// deliver posts a tracked completion to the loop.
func (e *Editor) deliver(fn func()) {
	select {
	case e.loop <- func() { defer e.inflight.done(); fn() }:
	case <-e.done:
		e.inflight.done()
	}
}

// spawn runs work off the loop and applies the continuation it returns on
// the loop.
func (e *Editor) spawn(work func(ctx context.Context) func()) {
	e.inflight.add()
	go func() {
		ctx, cancel := e.requestContext()
		apply := work(ctx)
		cancel()
		e.deliver(apply)
	}()
}

// after wraps fn as a tracked continuation that an animator may call from
// any goroutine, at most once.
func (e *Editor) after(fn func()) func() {
	e.inflight.add()
	var once sync.Once
	return func() {
		once.Do(func() { go e.deliver(fn) })
	}
}

func (e *Editor) requestContext() (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(e.ctx, e.timeout)
	}
	return context.WithCancel(e.ctx)
}
