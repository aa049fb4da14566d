package editor

import (
	"log/slog"

	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/sections"
)

const (
	undoTemplate       = "undo_template"
	reactionValidateID = "reaction_validate"

	saveTextIdle   = "save"
	saveTextSaving = "saving"
)

// build creates a fresh document: header, sections, templates, selector
// options and the change listeners.
func (e *Editor) build() {
	e.doc = form.NewDocument()
	e.undo = nil
	e.seq = make(map[*form.Node]uint64)
	if e.uploads == nil {
		e.uploads = make(map[string][]byte)
	}

	e.reactionID = form.EditText("reaction_id").WithID("reaction_id")
	e.saveButton = form.Button("save", saveTextIdle, func(*form.Node) { e.commit() }).WithID("save")
	e.saveButton.Hidden = true
	e.autosaveButton = form.Button("autosave", autosaveOffText, func(*form.Node) { e.toggleAutosave() }).WithID("toggle_autosave")
	e.setAutosaveIndicator(e.autosaveRunning())
	e.reactionValidate = form.Validation(reactionValidateID, func(*form.Node) { e.validateReaction() })
	e.datasetContext = form.Div("dataset_context").WithID("dataset_context")
	e.datasetContext.Hidden = true

	header := form.Div("header").WithID("header").Append(
		e.reactionID,
		e.saveButton,
		e.autosaveButton,
		e.reactionValidate,
	)
	e.doc.Body.Append(header, e.datasetContext)

	e.sec = sections.Build(e.doc, host{e})

	e.render = form.Div("reaction_render").WithID("reaction_render")
	e.doc.Body.Append(e.render)
	e.doc.DefineTemplate(undoTemplate, form.Button("undo", "undo", func(*form.Node) { e.undoSlowly() }))

	for _, n := range e.doc.Find("selector") {
		if err := form.InitSelector(n, e.enums); err != nil {
			e.logger.Warn("editor: selector without options",
				slog.String("selector", n.FirstClass()),
				slog.String("error", err.Error()),
			)
		}
	}
	for _, n := range e.doc.Find("optional_bool") {
		form.InitOptionalBool(n)
	}

	e.listen(e.doc.Body)
	for _, w := range e.sec.Watches() {
		e.addChangeHandler(w.Node, e.dirty)
		e.addChangeHandler(w.Node, w.Validate)
	}
	e.updateObserver()
}

// listen marks the document dirty on every edit under n and guards the
// numeric fields.
func (e *Editor) listen(n *form.Node) {
	e.addChangeHandler(n, e.dirty)
	n.On(form.EventBlur, "floattext", form.CheckFloat)
	n.On(form.EventBlur, "integertext", form.CheckInteger)
}

func (e *Editor) addChangeHandler(n *form.Node, fn func()) {
	h := func(*form.Node) { fn() }
	n.On(form.EventBlur, "edittext", h)
	n.On(form.EventChange, "selector", h)
	n.On(form.EventChange, "optional_bool", h)
	n.On(form.EventClick, "add", h)
}

func (e *Editor) dirty() {
	e.dirtyGen++
	e.saveButton.Hidden = false
	if e.state == Loaded {
		e.state = Dirty
	}
}

func (e *Editor) clean() {
	e.saveButton.Hidden = true
	e.saveButton.SetText(saveTextIdle)
}

// freeze makes the whole form read-only.
func (e *Editor) freeze() {
	e.doc.Body.Walk(func(n *form.Node) bool {
		switch {
		case n.HasClass("edittext"):
			n.Editable = false
		case n.Tag == "select":
			n.Disabled = true
		}
		for _, c := range []string{"add", "remove", "validate", "save", "undo"} {
			if n.HasClass(c) {
				n.Hidden = true
			}
		}
		return true
	})
	e.frozen = true
}

// host adapts the editor to the sub-editors' view of it.
type host struct{ e *Editor }

// AddSlowly falls back to a detached fragment when the template cannot be
// placed, so the caller's writes land nowhere.
func (h host) AddSlowly(template string, root *form.Node) *form.Node {
	n, err := h.e.addSlowly(template, root)
	if err != nil {
		h.e.logger.Error("editor: add", slog.String("template", template), slog.String("error", err.Error()))
		return form.Div(template)
	}
	return n
}

func (h host) RemoveSlowly(button *form.Node, ancestor string) {
	h.e.removeSlowly(button, ancestor)
}

func (h host) AddChangeHandler(n *form.Node, fn func()) {
	h.e.addChangeHandler(n, fn)
}

func (h host) Validate(msg any, typeName string, scope, target *form.Node) {
	h.e.validate(msg, typeName, scope, target)
}

func (h host) UpdateObserver() { h.e.updateObserver() }
