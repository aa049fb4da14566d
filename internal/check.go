package internal

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/antonkast-google/ord-editor/internal/client"
	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/editor"
	"github.com/antonkast-google/ord-editor/internal/models"
)

const checkConcurrency = 4

// ReactionCheck is the outcome of loading one reaction into an editor.
type ReactionCheck struct {
	Index      int
	ReactionID string
	// RoundTrip reports whether unloading the form gave back the stored record.
	RoundTrip bool
	Errors    []string
	Warnings  []string
}

// CheckReport covers every reaction of one dataset.
type CheckReport struct {
	Dataset   string
	Reactions []ReactionCheck
}

// Failed reports whether any reaction lost data or failed validation.
func (r *CheckReport) Failed() bool {
	for _, c := range r.Reactions {
		if !c.RoundTrip || len(c.Errors) > 0 {
			return true
		}
	}
	return false
}

// Check opens every reaction of dataset in a headless editor session against
// the configured server, unloads it again and validates the result.
func Check(ctx context.Context, dataset string, opts ...Option) (*CheckReport, error) {
	app, logger, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	cfg := app.config.Editor

	remote := client.New(cfg.ServerURL,
		client.WithToken(cfg.Token),
		client.WithTimeout(cfg.RequestTimeout),
	)
	ds, err := remote.ReadDataset(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("check: %w", err)
	}

	report := &CheckReport{Dataset: dataset, Reactions: make([]ReactionCheck, len(ds.Reactions))}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(checkConcurrency)
	for i, want := range ds.Reactions {
		g.Go(func() error {
			res, err := checkReaction(gCtx, remote, cfg, logger, dataset, i, want)
			if err != nil {
				return fmt.Errorf("check: reaction %d: %w", i, err)
			}
			report.Reactions[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("check: done",
		slog.String("dataset", dataset),
		slog.Int("reactions", len(ds.Reactions)),
		slog.Bool("failed", report.Failed()))
	return report, nil
}

func checkReaction(ctx context.Context, remote *client.Client, cfg EditorConfig, logger *slog.Logger, dataset string, i int, want *models.Reaction) (ReactionCheck, error) {
	e := editor.New(remote,
		editor.WithLogger(logger),
		editor.WithAutosavePeriod(cfg.AutosavePeriod),
		editor.WithRequestTimeout(cfg.RequestTimeout),
	)
	defer e.Close()

	if err := e.InitFromDataset(ctx, dataset, i); err != nil {
		return ReactionCheck{}, err
	}
	// A check never writes back.
	if _, err := e.ToggleAutosave(); err != nil {
		return ReactionCheck{}, err
	}
	if err := e.Settle(ctx); err != nil {
		return ReactionCheck{}, err
	}

	got, err := e.Unload()
	if err != nil {
		return ReactionCheck{}, err
	}
	body, err := codec.Marshal(got)
	if err != nil {
		return ReactionCheck{}, err
	}
	diag, err := remote.Validate(ctx, "Reaction", body)
	if err != nil {
		return ReactionCheck{}, err
	}
	return ReactionCheck{
		Index:      i,
		ReactionID: want.ReactionID,
		RoundTrip:  models.Equal(got, want),
		Errors:     diag.Errors,
		Warnings:   diag.Warnings,
	}, nil
}
