package editor

import (
	"context"
	"fmt"

	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
	"github.com/antonkast-google/ord-editor/internal/sections"
)

// SaveIndicator is the state of the save control.
type SaveIndicator struct {
	Visible bool
	Text    string
}

// Status is a snapshot of the session for callers outside the loop.
type Status struct {
	State    RecordState
	Ready    bool
	Frozen   bool
	Save     SaveIndicator
	Autosave string
	Dataset  string
	Index    int
}

// Status reports the session state.
func (e *Editor) Status() (Status, error) {
	var st Status
	err := e.exec(func() {
		st = Status{
			State:    e.state,
			Ready:    e.ready,
			Frozen:   e.frozen,
			Save:     SaveIndicator{Visible: e.saveButton.Visible(), Text: e.saveButton.Text()},
			Autosave: e.autosaveButton.Text(),
			Dataset:  e.session.FileName,
			Index:    e.session.Index,
		}
	})
	return st, err
}

// Inspect runs fn on the event loop with the document and its sections.
// fn may read and edit the tree; it must not retain nodes past the call
// for use outside the loop.
func (e *Editor) Inspect(fn func(doc *form.Document, s *sections.Set)) error {
	return e.exec(func() { fn(e.doc, e.sec) })
}

// Load replaces the form contents with r.
func (e *Editor) Load(r *models.Reaction) error {
	return e.exec(func() { e.loadReaction(r) })
}

// Unload returns a fresh record built from the form.
func (e *Editor) Unload() (*models.Reaction, error) {
	var r *models.Reaction
	err := e.exec(func() { r = e.unloadReaction() })
	return r, err
}

// Edit sets the text of n and blurs it, as typing into the field would.
func (e *Editor) Edit(n *form.Node, text string) error {
	return e.exec(func() {
		if !n.Editable {
			return
		}
		n.SetText(text)
		n.Trigger(form.EventBlur)
	})
}

// Select picks value on the enum selector n and fires its change event.
func (e *Editor) Select(n *form.Node, value int32) error {
	return e.exec(func() {
		form.SetSelector(n, value)
		n.Trigger(form.EventChange)
	})
}

// SetBool picks a tri-state value on the optional-bool selector n.
func (e *Editor) SetBool(n *form.Node, v *bool) error {
	return e.exec(func() {
		form.SetOptionalBool(n, v)
		n.Trigger(form.EventChange)
	})
}

// Click fires a click on n.
func (e *Editor) Click(n *form.Node) error {
	return e.exec(func() { n.Trigger(form.EventClick) })
}

// AddSlowly clones template under root. An unknown template is reported
// as form.ErrUnknownTemplate.
func (e *Editor) AddSlowly(template string, root *form.Node) (*form.Node, error) {
	var (
		n   *form.Node
		err error
	)
	if xerr := e.exec(func() { n, err = e.addSlowly(template, root) }); xerr != nil {
		return nil, xerr
	}
	return n, err
}

// RemoveSlowly removes the closest ancestor of button matching ancestor.
func (e *Editor) RemoveSlowly(button *form.Node, ancestor string) error {
	return e.exec(func() { e.removeSlowly(button, ancestor) })
}

// Undo restores the most recently removed fragment.
func (e *Editor) Undo() error {
	return e.exec(e.undoSlowly)
}

// Validate validates msg as typeName and renders into target.
func (e *Editor) Validate(msg any, typeName string, scope, target *form.Node) (*Task, error) {
	var t *Task
	err := e.exec(func() { t = e.validate(msg, typeName, scope, target) })
	return t, err
}

// ValidateReaction validates the whole record and every visible section.
func (e *Editor) ValidateReaction() (*Task, error) {
	var t *Task
	err := e.exec(func() { t = e.validateReaction() })
	return t, err
}

// Commit saves the record into its dataset.
func (e *Editor) Commit() (*Task, error) {
	var t *Task
	err := e.exec(func() { t = e.commit() })
	return t, err
}

// ToggleAutosave flips autosave and reports whether it is now on.
func (e *Editor) ToggleAutosave() (bool, error) {
	var on bool
	err := e.exec(func() { on = e.toggleAutosave() })
	return on, err
}

// TickAutosave runs one autosave check immediately.
func (e *Editor) TickAutosave() error {
	return e.exec(e.autosaveTick)
}

// AttachUpload queues data for upload with the next commit.
func (e *Editor) AttachUpload(data []byte) (string, error) {
	var token string
	err := e.exec(func() { token = e.attachUpload(data) })
	return token, err
}

// PendingUploads lists the uploads queued for the next commit.
func (e *Editor) PendingUploads() (map[string][]byte, error) {
	var out map[string][]byte
	err := e.exec(func() { out = e.pendingUploads() })
	return out, err
}

// Freeze makes the form read-only.
func (e *Editor) Freeze() error {
	return e.exec(e.freeze)
}

// SetupObserver starts mirroring visible sections onto the sidebar.
func (e *Editor) SetupObserver() error {
	return e.exec(e.setupObserver)
}

// Intersect reports that section scrolled into or out of view.
func (e *Editor) Intersect(section *form.Node, visible bool) error {
	return e.exec(func() { e.intersect(section, visible) })
}

// Download returns the current record as rendered by the remote download
// endpoint.
func (e *Editor) Download(ctx context.Context) ([]byte, error) {
	var body []byte
	var err error
	if xerr := e.exec(func() { body, err = codec.Marshal(e.unloadReaction()) }); xerr != nil {
		return nil, xerr
	}
	if err != nil {
		return nil, fmt.Errorf("editor: download: %w", err)
	}
	out, err := e.remote.Download(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("editor: download: %w", err)
	}
	return out, nil
}

// CompareDataset asks the remote whether the in-memory dataset matches the
// stored one. A mismatch comes back as an error.
func (e *Editor) CompareDataset(ctx context.Context) error {
	var (
		name string
		body []byte
		err  error
	)
	if xerr := e.exec(func() { name, body, err = e.encodeDataset() }); xerr != nil {
		return xerr
	}
	if err != nil {
		return err
	}
	if err := e.remote.CompareDataset(ctx, name, body); err != nil {
		return fmt.Errorf("editor: compare %s: %w", name, err)
	}
	return nil
}
