package editor

import (
	"context"
	"log/slog"
	"slices"

	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/models"
)

// validate sends msg to the remote validator and renders the diagnostics,
// merged with the invalid-field errors found under scope, into target. A
// nil target falls back to the first diagnostics target under scope. Only
// the newest request per target renders.
func (e *Editor) validate(msg any, typeName string, scope, target *form.Node) *Task {
	if target == nil && scope != nil {
		target = scope.First("validate")
	}
	body, err := codec.Marshal(msg)
	if err != nil {
		e.logger.Error("editor: encode for validation",
			slog.String("type", typeName),
			slog.String("error", err.Error()),
		)
		return doneTask(err)
	}
	seq := e.stamp(target)
	task := newTask()
	e.spawn(func(ctx context.Context) func() {
		diag, err := e.remote.Validate(ctx, typeName, body)
		return func() {
			if err != nil {
				e.logger.Error("editor: validate",
					slog.String("type", typeName),
					slog.String("error", err.Error()),
				)
				task.finish(err)
				return
			}
			if !e.current(target, seq) {
				task.finish(ErrStale)
				return
			}
			if diag == nil {
				diag = &models.Diagnostics{}
			}
			errs := slices.Clone(diag.Errors)
			if scope != nil {
				errs = append(errs, form.InvalidFieldErrors(scope)...)
			}
			if target != nil {
				form.RenderDiagnostics(target, errs, diag.Warnings)
			}
			task.finish(nil)
		}
	})
	return task
}

// stamp issues the next request sequence for n.
func (e *Editor) stamp(n *form.Node) uint64 {
	e.nextSeq++
	if n != nil {
		e.seq[n] = e.nextSeq
	}
	return e.nextSeq
}

func (e *Editor) current(n *form.Node, seq uint64) bool {
	return n == nil || e.seq[n] == seq
}

// validateReaction validates the whole record, cascades to every visible
// section validator and refreshes the rendered view.
func (e *Editor) validateReaction() *Task {
	r := e.unloadReaction()
	task := e.validate(r, "Reaction", e.doc.Body, e.reactionValidate)
	for _, b := range e.doc.Body.Find("validate_button") {
		if b.ID == reactionValidateID+"_button" || !b.Visible() {
			continue
		}
		b.Trigger(form.EventClick)
	}
	e.renderReaction(r)
	return task
}

func (e *Editor) renderReaction(r any) {
	body, err := codec.Marshal(r)
	if err != nil {
		e.logger.Error("editor: encode for render", slog.String("error", err.Error()))
		return
	}
	seq := e.stamp(e.render)
	e.spawn(func(ctx context.Context) func() {
		html, err := e.remote.Render(ctx, body)
		return func() {
			if err != nil {
				e.logger.Error("editor: render", slog.String("error", err.Error()))
				return
			}
			if e.current(e.render, seq) {
				e.render.SetText(html)
			}
		}
	})
}
