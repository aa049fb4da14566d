package client_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/antonkast-google/ord-editor/internal/api"
	"github.com/antonkast-google/ord-editor/internal/apperr"
	"github.com/antonkast-google/ord-editor/internal/client"
	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/datasetservice"
	"github.com/antonkast-google/ord-editor/internal/editor"
	"github.com/antonkast-google/ord-editor/internal/form"
	"github.com/antonkast-google/ord-editor/internal/sections"
	"github.com/antonkast-google/ord-editor/internal/testutil"
)

var _ editor.Remote = (*client.Client)(nil)

func newServer(t *testing.T, token string) (*datasetservice.Service, *client.Client) {
	t.Helper()
	_, store := testutil.TestStore(t)
	svc := datasetservice.NewService(store, testutil.TestDB(t))
	srv := httptest.NewServer(api.NewRouter(svc, token != "", token, nil))
	t.Cleanup(srv.Close)
	return svc, client.New(srv.URL, client.WithToken(token), client.WithTimeout(5*time.Second))
}

func TestDatasetRoundTrip(t *testing.T) {
	_, c := newServer(t, "")
	ctx := context.Background()

	body, _ := codec.Marshal(testutil.SampleDataset("demo", "ord-1", "ord-2"))
	if err := c.WriteDataset(ctx, "sub/demo.json", body); err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}
	ds, err := c.ReadDataset(ctx, "sub/demo.json")
	if err != nil {
		t.Fatalf("ReadDataset: %v", err)
	}
	if len(ds.Reactions) != 2 {
		t.Fatalf("reactions = %d", len(ds.Reactions))
	}
	if err := c.CompareDataset(ctx, "sub/demo.json", body); err != nil {
		t.Errorf("CompareDataset: %v", err)
	}
	other, _ := codec.Marshal(testutil.SampleDataset("demo", "ord-3"))
	if err := c.CompareDataset(ctx, "sub/demo.json", other); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("mismatch err = %v, want ErrConflict", err)
	}

	r, err := c.ReactionByID(ctx, "ord-2")
	if err != nil || r.ReactionID != "ord-2" {
		t.Errorf("ReactionByID = %v, %v", r, err)
	}
	if err := c.Upload(ctx, "sub/demo.json", "tok", []byte("blob")); err != nil {
		t.Errorf("Upload: %v", err)
	}
}

func TestErrorsMapToSentinels(t *testing.T) {
	_, c := newServer(t, "")
	ctx := context.Background()

	if _, err := c.ReadDataset(ctx, "missing.json"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("read err = %v, want ErrNotFound", err)
	}
	if _, err := c.Validate(ctx, "Teapot", []byte("{}")); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("validate err = %v, want ErrInvalidInput", err)
	}
}

func TestValidateRenderDownload(t *testing.T) {
	_, c := newServer(t, "")
	ctx := context.Background()
	body, _ := codec.Marshal(testutil.SampleReaction("ord-1"))

	d, err := c.Validate(ctx, "Reaction", body)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(d.Errors) != 0 {
		t.Errorf("errors = %v", d.Errors)
	}
	html, err := c.Render(ctx, body)
	if err != nil || !strings.Contains(html, "ord-1") {
		t.Errorf("Render = %q, %v", html, err)
	}
	text, err := c.Download(ctx, body)
	if err != nil || !strings.Contains(string(text), "reaction_id: ord-1") {
		t.Errorf("Download = %q, %v", text, err)
	}
}

func TestBearerToken(t *testing.T) {
	_, authed := newServer(t, "secret")
	if _, err := authed.Validate(context.Background(), "Reaction", []byte("{}")); err != nil {
		t.Errorf("authorised call failed: %v", err)
	}

	_, store := testutil.TestStore(t)
	svc := datasetservice.NewService(store, testutil.TestDB(t))
	srv := httptest.NewServer(api.NewRouter(svc, true, "secret", nil))
	defer srv.Close()
	_, err := client.New(srv.URL).Validate(context.Background(), "Reaction", []byte("{}"))
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Errorf("anonymous call err = %v", err)
	}
}

func TestEditorCommitOverHTTP(t *testing.T) {
	svc, c := newServer(t, "")
	ctx := context.Background()
	if err := svc.WriteDataset(ctx, "demo.json", testutil.SampleDataset("demo", "ord-1", "ord-2")); err != nil {
		t.Fatal(err)
	}

	e := editor.New(c, editor.WithAutosavePeriod(time.Hour))
	defer e.Close()
	if err := e.InitFromDataset(ctx, "demo.json", 1); err != nil {
		t.Fatalf("InitFromDataset: %v", err)
	}
	settleCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := e.Settle(settleCtx); err != nil {
		t.Fatal(err)
	}

	var safety *form.Node
	_ = e.Inspect(func(doc *form.Document, _ *sections.Set) { safety = doc.Body.First("notes_safety") })
	if safety == nil {
		t.Fatal("no safety notes field")
	}
	if err := e.Edit(safety, "blast shield"); err != nil {
		t.Fatal(err)
	}
	task, err := e.Commit()
	if err != nil {
		t.Fatal(err)
	}
	if err := task.Wait(settleCtx); err != nil {
		t.Fatalf("commit: %v", err)
	}

	ds, err := svc.ReadDataset(ctx, "demo.json")
	if err != nil {
		t.Fatal(err)
	}
	if got := ds.Reactions[1]; got.Notes == nil || got.Notes.SafetyNotes != "blast shield" {
		t.Errorf("stored notes = %+v", got.Notes)
	}
	if ds.Reactions[0].ReactionID != "ord-1" {
		t.Errorf("neighbour changed: %s", ds.Reactions[0].ReactionID)
	}
	if err := e.CompareDataset(ctx); err != nil {
		t.Errorf("CompareDataset after commit: %v", err)
	}
	if st, _ := e.Status(); st.Save.Visible {
		t.Errorf("save still visible: %+v", st.Save)
	}
}
