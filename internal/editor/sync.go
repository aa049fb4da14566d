package editor

import (
	"fmt"
	"log/slog"

	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

// RecordState tracks the loaded record through the session.
type RecordState int

const (
	Unloaded RecordState = iota
	Loading
	Loaded
	Dirty
)

func (s RecordState) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Dirty:
		return "dirty"
	default:
		return fmt.Sprintf("RecordState(%d)", int(s))
	}
}

// loadReaction populates a fresh form from r. Collections that must always
// show at least one entry get an empty one.
func (e *Editor) loadReaction(r *models.Reaction) {
	if e.state != Unloaded {
		e.build()
	}
	if r == nil {
		r = &models.Reaction{}
	}
	e.state = Loading
	s := e.sec
	s.Identifiers.Load(r.Identifiers)
	s.Inputs.Load(r.Inputs)
	if len(r.Inputs) == 0 {
		s.Inputs.Add()
	}
	s.Setup.Load(r.Setup)
	s.Conditions.Load(r.Conditions)
	s.Notes.Load(r.Notes)
	s.Observations.Load(r.Observations)
	s.Workups.Load(r.Workups)
	s.Outcomes.Load(r.Outcomes)
	if len(r.Outcomes) == 0 {
		s.Outcomes.Add()
	}
	s.Provenance.Load(r.Provenance)
	e.reactionID.SetText(r.ReactionID)
	form.RoundFloats(e.doc.Body)
	e.state = Loaded
}

// unloadReaction builds a new record from the form. Singular sub-records
// are attached only when they carry information; collections always are.
func (e *Editor) unloadReaction() *models.Reaction {
	s := e.sec
	r := &models.Reaction{
		Identifiers:  s.Identifiers.Unload(),
		Inputs:       s.Inputs.Unload(),
		Setup:        nonEmpty(s.Setup.Unload()),
		Conditions:   nonEmpty(s.Conditions.Unload()),
		Notes:        nonEmpty(s.Notes.Unload()),
		Observations: s.Observations.Unload(),
		Workups:      s.Workups.Unload(),
		Outcomes:     s.Outcomes.Unload(),
		Provenance:   nonEmpty(s.Provenance.Unload()),
	}
	if id := e.reactionID.Text(); id != "" {
		r.ReactionID = id
	}
	return r
}

func nonEmpty[T any](v *T) *T {
	if models.IsEmptyMessage(v) {
		return nil
	}
	return v
}

// addSlowly clones template under root, fades it in and wires the change
// listeners.
func (e *Editor) addSlowly(template string, root *form.Node) (*form.Node, error) {
	if root == nil {
		return nil, fmt.Errorf("editor: add %s: no parent", template)
	}
	node, err := e.doc.Instantiate(template)
	if err != nil {
		return nil, fmt.Errorf("editor: add: %w", err)
	}
	node.Hidden = true
	root.Append(node)
	node.Hidden = false
	e.animator.Show(node, nil)
	e.dirty()
	e.listen(node)
	return node, nil
}

// removeSlowly hides the closest ancestor of button matching ancestor,
// keeps it recoverable and re-validates every enclosing field group once
// the fade finishes.
func (e *Editor) removeSlowly(button *form.Node, ancestor string) {
	node := button.Closest(ancestor)
	if node == nil {
		e.logger.Warn("editor: remove without target",
			slog.String("button", button.String()),
			slog.String("ancestor", ancestor),
		)
		return
	}
	var buttons []*form.Node
	for _, fs := range node.Parents("fieldset") {
		for _, legend := range fs.ChildrenMatching("legend") {
			buttons = append(buttons, legend.Find("validate_button")...)
		}
	}
	parked := true
	if err := e.makeUndoable(node); err != nil {
		e.logger.Error("editor: remove", slog.String("error", err.Error()))
		parked = false
	}
	node.Hidden = true
	e.animator.Hide(node, e.after(func() {
		if !parked {
			node.Remove()
		}
		for _, b := range buttons {
			b.Trigger(form.EventClick)
		}
		e.sec.Inputs.UpdateSidebar()
	}))
	e.dirty()
}

type undoBuffer struct {
	node    *form.Node
	control *form.Node
}

// makeUndoable parks node as the single undo candidate. Whatever was
// parked before is discarded for good.
func (e *Editor) makeUndoable(node *form.Node) error {
	if u := e.undo; u != nil {
		u.node.Remove()
		u.control.Remove()
		e.undo = nil
	}
	ctrl, err := e.doc.Instantiate(undoTemplate)
	if err != nil {
		return fmt.Errorf("editor: undo control: %w", err)
	}
	node.State = form.PendingUndo
	node.InsertAfter(ctrl)
	e.animator.Show(ctrl, nil)
	e.undo = &undoBuffer{node: node, control: ctrl}
	return nil
}

// undoSlowly restores the parked fragment. The restored content is not
// re-validated.
func (e *Editor) undoSlowly() {
	u := e.undo
	if u == nil {
		return
	}
	e.undo = nil
	u.node.State = form.Live
	u.node.Hidden = false
	e.animator.Show(u.node, nil)
	u.control.Hidden = true
	e.animator.Hide(u.control, e.after(func() {
		u.control.Remove()
		e.sec.Inputs.UpdateSidebar()
	}))
	e.dirty()
}
