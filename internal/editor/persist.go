package editor

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/antonkast-google/ord-editor/internal/codec"
)

const (
	autosaveTimer   = "autosave"
	autosaveOnText  = "autosave: on"
	autosaveOffText = "autosave: off"
)

// commit writes the current record back into its dataset slot and saves
// the dataset, followed by any pending uploads. Without a dataset context
// it does nothing.
func (e *Editor) commit() *Task {
	ds := e.session.Dataset
	if ds == nil {
		return doneTask(nil)
	}
	if e.session.Index < 0 || e.session.Index >= len(ds.Reactions) {
		return doneTask(fmt.Errorf("editor: commit: reaction %d outside dataset %s", e.session.Index, e.session.FileName))
	}
	next := *ds
	next.Reactions = slices.Clone(ds.Reactions)
	next.Reactions[e.session.Index] = e.unloadReaction()
	body, err := codec.Marshal(&next)
	if err != nil {
		e.logger.Error("editor: encode dataset", slog.String("error", err.Error()))
		return doneTask(fmt.Errorf("editor: commit: %w", err))
	}
	e.session.Dataset = &next

	name := e.session.FileName
	uploads := e.uploads
	e.uploads = make(map[string][]byte)
	gen := e.dirtyGen
	e.saveButton.SetText(saveTextSaving)

	task := newTask()
	e.spawn(func(ctx context.Context) func() {
		err := e.remote.WriteDataset(ctx, name, body)
		if err == nil {
			for token, data := range uploads {
				if err = e.remote.Upload(ctx, name, token, data); err != nil {
					err = fmt.Errorf("upload %s: %w", token, err)
					break
				}
			}
		}
		return func() {
			if err != nil {
				e.logger.Error("editor: commit",
					slog.String("dataset", name),
					slog.String("error", err.Error()),
				)
				for token, data := range uploads {
					if _, ok := e.uploads[token]; !ok {
						e.uploads[token] = data
					}
				}
				e.saveButton.SetText(saveTextIdle)
				e.saveButton.Hidden = false
				task.finish(fmt.Errorf("editor: commit %s: %w", name, err))
				return
			}
			if e.dirtyGen == gen {
				e.clean()
				if e.state == Dirty {
					e.state = Loaded
				}
			} else {
				e.saveButton.SetText(saveTextIdle)
			}
			e.logger.Info("editor: committed",
				slog.String("dataset", name),
				slog.Int("index", e.session.Index),
			)
			task.finish(nil)
		}
	})
	return task
}

// attachUpload queues data for upload with the next commit and returns
// the token it will be stored under.
func (e *Editor) attachUpload(data []byte) string {
	token := uuid.NewString()
	e.uploads[token] = data
	e.dirty()
	return token
}

// timer feeds a periodic callback into the event loop until stopped.
type timer struct {
	stop chan struct{}
}

func (e *Editor) startTimer(period time.Duration, fn func()) *timer {
	t := &timer{stop: make(chan struct{})}
	go func() {
		tk := time.NewTicker(period)
		defer tk.Stop()
		for {
			select {
			case <-tk.C:
				select {
				case e.loop <- fn:
				case <-t.stop:
					return
				case <-e.done:
					return
				}
			case <-t.stop:
				return
			case <-e.done:
				return
			}
		}
	}()
	return t
}

func (t *timer) Stop() { close(t.stop) }

func (e *Editor) autosaveRunning() bool {
	_, ok := e.session.Timers[autosaveTimer]
	return ok
}

// toggleAutosave starts or stops the autosave timer and reports whether
// it is now running.
func (e *Editor) toggleAutosave() bool {
	if t, ok := e.session.Timers[autosaveTimer]; ok {
		t.Stop()
		delete(e.session.Timers, autosaveTimer)
		e.setAutosaveIndicator(false)
		return false
	}
	e.session.Timers[autosaveTimer] = e.startTimer(e.period, e.autosaveTick)
	e.setAutosaveIndicator(true)
	return true
}

func (e *Editor) setAutosaveIndicator(on bool) {
	if on {
		e.autosaveButton.SetText(autosaveOnText).SetAttr("background-color", "lightgreen")
		return
	}
	e.autosaveButton.SetText(autosaveOffText).SetAttr("background-color", "pink")
}

// autosaveTick commits only when there are unsaved edits and no save is in
// flight.
func (e *Editor) autosaveTick() {
	if e.saveButton.Visible() && e.saveButton.Text() == saveTextIdle {
		e.commit()
	}
}

// pendingUploads returns a copy of the uploads queued for the next commit.
func (e *Editor) pendingUploads() map[string][]byte {
	return maps.Clone(e.uploads)
}

func (e *Editor) encodeDataset() (string, []byte, error) {
	if e.session.Dataset == nil {
		return "", nil, ErrNoDataset
	}
	body, err := codec.Marshal(e.session.Dataset)
	return e.session.FileName, body, err
}
