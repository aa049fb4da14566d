package editor

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by calls made after Close.
	ErrClosed = errors.New("editor: closed")
	// ErrStale completes a validation whose target has since been
	// re-validated; its result was discarded.
	ErrStale = errors.New("editor: stale response discarded")
	// ErrNoDataset is returned by dataset operations on a session opened by
	// reaction id.
	ErrNoDataset = errors.New("editor: no dataset context")
)

// Task is the future of one asynchronous editor operation. Tasks cannot be
// cancelled; a response lands whenever it arrives.
type Task struct {
	done chan struct{}
	err  error
}

func newTask() *Task {
	return &Task{done: make(chan struct{})}
}

func doneTask(err error) *Task {
	t := newTask()
	t.finish(err)
	return t
}

func (t *Task) finish(err error) {
	t.err = err
	close(t.done)
}

// Done is closed once the operation's result has been applied.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err returns the operation's error. Only meaningful after Done.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task completes or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// tracker counts work that will still touch the editor state: requests in
// flight and pending animation continuations.
type tracker struct {
	mu   sync.Mutex
	n    int
	idle chan struct{}
}

func (t *tracker) add() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.n == 0 {
		t.idle = make(chan struct{})
	}
	t.n++
}

func (t *tracker) done() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.n--
	if t.n == 0 {
		close(t.idle)
	}
}

func (t *tracker) wait(ctx context.Context) error {
	t.mu.Lock()
	if t.n == 0 {
		t.mu.Unlock()
		return nil
	}
	idle := t.idle
	t.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
