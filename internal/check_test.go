package internal

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/antonkast-google/ord-editor/internal/api"
	"github.com/antonkast-google/ord-editor/internal/datasetservice"
	"github.com/antonkast-google/ord-editor/internal/testutil"
)

func TestCheckDataset(t *testing.T) {
	_, store := testutil.TestStore(t)
	svc := datasetservice.NewService(store, testutil.TestDB(t))
	ds := testutil.SampleDataset("demo", "ord-1", "ord-2")
	ds.Reactions[1].Outcomes = nil
	if err := svc.WriteDataset(context.Background(), "demo.json", ds); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(api.NewRouter(svc, true, "secret", nil))
	defer srv.Close()

	cfg := NewDefaultConfig()
	cfg.Editor.ServerURL = srv.URL
	cfg.Editor.Token = "secret"
	cfg.Editor.RequestTimeout = 5 * time.Second

	report, err := Check(context.Background(), "demo.json", WithConfig(cfg), WithLogOutput(io.Discard))
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(report.Reactions) != 2 {
		t.Fatalf("reactions = %d", len(report.Reactions))
	}
	first, second := report.Reactions[0], report.Reactions[1]
	if first.ReactionID != "ord-1" || !first.RoundTrip || len(first.Errors) != 0 {
		t.Errorf("first = %+v", first)
	}
	if second.Index != 1 || len(second.Errors) == 0 {
		t.Errorf("second = %+v, want outcome error", second)
	}
	if !report.Failed() {
		t.Error("report with errors should fail")
	}
}

func TestCheckMissingDataset(t *testing.T) {
	_, store := testutil.TestStore(t)
	srv := httptest.NewServer(api.NewRouter(datasetservice.NewService(store, testutil.TestDB(t)), false, "", nil))
	defer srv.Close()

	cfg := NewDefaultConfig()
	cfg.Editor.ServerURL = srv.URL
	if _, err := Check(context.Background(), "none.json", WithConfig(cfg), WithLogOutput(io.Discard)); err == nil {
		t.Error("missing dataset should fail")
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Error("Run without config should fail")
	}
}
