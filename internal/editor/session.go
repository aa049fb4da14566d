package editor

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/antonkast-google/ord-editor/internal/apperr"
	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

// Session is the per-editor context: where the record came from and the
// live helpers attached to the form.
type Session struct {
	FileName     string
	Dataset      *models.Dataset
	Index        int
	Observer     *Observer
	NavSelectors map[string]*form.Node
	Timers       map[string]*timer
}

// Observer tracks which sections are on screen and mirrors that onto the
// navigation sidebar.
type Observer struct {
	observed []*form.Node
}

// Observes reports whether n is one of the tracked sections.
func (o *Observer) Observes(n *form.Node) bool {
	return slices.Contains(o.observed, n)
}

// InitFromDataset loads reaction index of the named dataset and starts the
// session: validation, render and autosave.
func (e *Editor) InitFromDataset(ctx context.Context, fileName string, index int) error {
	ds, err := e.remote.ReadDataset(ctx, fileName)
	if err != nil {
		return fmt.Errorf("editor: read dataset %s: %w", fileName, err)
	}
	if index < 0 || index >= len(ds.Reactions) {
		return fmt.Errorf("editor: reaction %d of %s: %w", index, fileName, apperr.ErrNotFound)
	}
	return e.exec(func() {
		e.session.FileName = fileName
		e.session.Dataset = ds
		e.session.Index = index
		e.start(ds.Reactions[index])
		e.datasetContext.SetText(fmt.Sprintf("%s / reaction %d", fileName, index))
		e.datasetContext.Hidden = false
	})
}

// InitFromReactionID loads a single reaction looked up by id. The session
// has no dataset context, so commit is a no-op.
func (e *Editor) InitFromReactionID(ctx context.Context, id string) error {
	r, err := e.remote.ReactionByID(ctx, id)
	if err != nil {
		return fmt.Errorf("editor: reaction %s: %w", id, err)
	}
	return e.exec(func() {
		e.session.FileName = ""
		e.session.Dataset = nil
		e.session.Index = 0
		e.start(r)
	})
}

func (e *Editor) start(r *models.Reaction) {
	e.loadReaction(r)
	e.clean()
	e.validateReaction()
	if !e.autosaveRunning() {
		e.toggleAutosave()
	}
	e.ready = true
}

// setupObserver attaches an observer to the current layout.
func (e *Editor) setupObserver() {
	e.session.Observer = &Observer{}
	e.updateObserver()
}

// updateObserver re-collects the visible sections and the sidebar entries
// that mirror them.
func (e *Editor) updateObserver() {
	o := e.session.Observer
	if o == nil {
		return
	}
	o.observed = o.observed[:0]
	for _, n := range e.doc.Body.Find("section") {
		if n.Visible() && !n.HasClass("workup_input") {
			o.observed = append(o.observed, n)
		}
	}
	e.session.NavSelectors = make(map[string]*form.Node)
	for _, n := range e.doc.Body.Find("navSection") {
		e.session.NavSelectors[n.Attr("data-section")] = n
	}
	for _, n := range e.doc.Body.Find("inputNavSection") {
		e.session.NavSelectors[n.Attr("input_name")] = n
	}
}

// intersect highlights the sidebar entry of section while it is on screen.
func (e *Editor) intersect(section *form.Node, visible bool) {
	o := e.session.Observer
	if o == nil || !o.Observes(section) {
		return
	}
	nav := e.session.NavSelectors[navKey(section)]
	if nav == nil {
		return
	}
	if visible {
		nav.SetAttr("background-color", "lightblue")
	} else {
		nav.RemoveAttr("background-color")
	}
}

// navKey maps a section to its sidebar entry: inputs by name, the rest by
// the second segment of their id.
func navKey(section *form.Node) string {
	if section.HasClass("input") {
		return section.Attr("input_name")
	}
	parts := strings.Split(section.ID, "_")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
