package editor

import (
	"time"

	"github.com/antonkast-google/ord-editor/internal/form"
)

// Animator paces visibility transitions. The editor flips Hidden itself
// before calling Show or Hide; done, when non-nil, must be called exactly
// once after the transition, from any goroutine.
type Animator interface {
	Show(n *form.Node, done func())
	Hide(n *form.Node, done func())
}

// Immediate completes every transition at once.
type Immediate struct{}

func (Immediate) Show(_ *form.Node, done func()) { finish(done) }
func (Immediate) Hide(_ *form.Node, done func()) { finish(done) }

// Delayed completes transitions after a fixed duration.
type Delayed time.Duration

func (d Delayed) Show(_ *form.Node, done func()) { d.wait(done) }
func (d Delayed) Hide(_ *form.Node, done func()) { d.wait(done) }

func (d Delayed) wait(done func()) {
	if done == nil {
		return
	}
	time.AfterFunc(time.Duration(d), done)
}

func finish(done func()) {
	if done != nil {
		done()
	}
}
