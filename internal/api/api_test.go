package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/datasetservice"
	"github.com/antonkast-google/ord-editor/internal/models"
	"github.com/antonkast-google/ord-editor/internal/testutil"
)

// testEnv sets up a temp dataset root, SQLite DB, service, and router.
// An empty authToken means auth is disabled.
func testEnv(t *testing.T, authToken string) (*datasetservice.Service, http.Handler) {
	t.Helper()
	_, store := testutil.TestStore(t)
	svc := datasetservice.NewService(store, testutil.TestDB(t))
	return svc, NewRouter(svc, authToken != "", authToken, nil)
}

func do(t *testing.T, router http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func encode(t *testing.T, v any) []byte {
	t.Helper()
	b, err := codec.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestWriteAndReadDataset(t *testing.T) {
	_, router := testEnv(t, "")

	ds := testutil.SampleDataset("demo", "ord-1", "ord-2")
	w := do(t, router, http.MethodPost, "/dataset/proto/write/demo.json", encode(t, ds))
	if w.Code != http.StatusOK {
		t.Fatalf("write status = %d, body = %s", w.Code, w.Body.String())
	}
	var wr WriteDatasetResponse
	_ = json.Unmarshal(w.Body.Bytes(), &wr)
	if wr.Name != "demo.json" || wr.Reactions != 2 {
		t.Errorf("write response = %+v", wr)
	}

	w = do(t, router, http.MethodGet, "/dataset/proto/read/demo.json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("read status = %d", w.Code)
	}
	var got models.Dataset
	if err := codec.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !models.Equal(&got, ds) {
		t.Errorf("round trip changed dataset: %+v", got)
	}
}

func TestNestedDatasetName(t *testing.T) {
	_, router := testEnv(t, "")
	body := encode(t, testutil.SampleDataset("deep", "ord-d"))

	if w := do(t, router, http.MethodPost, "/dataset/proto/write/sub/deep.json", body); w.Code != http.StatusOK {
		t.Fatalf("write status = %d, body = %s", w.Code, w.Body.String())
	}
	if w := do(t, router, http.MethodGet, "/dataset/proto/read/sub%2Fdeep.json", nil); w.Code != http.StatusOK {
		t.Errorf("escaped read status = %d", w.Code)
	}
}

func TestReadMissingDataset(t *testing.T) {
	_, router := testEnv(t, "")
	if w := do(t, router, http.MethodGet, "/dataset/proto/read/none.json", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestWriteRejectsBadBody(t *testing.T) {
	_, router := testEnv(t, "")
	cases := map[string][]byte{
		"garbage":       []byte("{not json"),
		"unknown field": []byte(`{"name":"x","colour":"blue"}`),
	}
	for name, body := range cases {
		if w := do(t, router, http.MethodPost, "/dataset/proto/write/x.json", body); w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, w.Code)
		}
	}
	if w := do(t, router, http.MethodPost, "/dataset/proto/write/notes.txt", encode(t, &models.Dataset{Name: "x"})); w.Code != http.StatusBadRequest {
		t.Errorf("non-dataset extension: status = %d, want 400", w.Code)
	}
}

func TestListAndDeleteDatasets(t *testing.T) {
	svc, router := testEnv(t, "")
	ctx := context.Background()
	_ = svc.WriteDataset(ctx, "a.json", testutil.SampleDataset("a", "ord-a"))
	_ = svc.WriteDataset(ctx, "b.yaml", testutil.SampleDataset("b", "ord-b1", "ord-b2"))

	w := do(t, router, http.MethodGet, "/datasets", nil)
	var list DatasetListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Datasets) != 2 {
		t.Fatalf("datasets = %+v", list.Datasets)
	}

	if w := do(t, router, http.MethodDelete, "/dataset/a.json", nil); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := do(t, router, http.MethodDelete, "/dataset/a.json", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestCompareDataset(t *testing.T) {
	svc, router := testEnv(t, "")
	_ = svc.WriteDataset(context.Background(), "demo.json", testutil.SampleDataset("demo", "ord-1"))

	same := encode(t, testutil.SampleDataset("demo", "ord-1"))
	if w := do(t, router, http.MethodPost, "/dataset/proto/compare/demo.json", same); w.Code != http.StatusOK {
		t.Errorf("equal compare = %d, body = %s", w.Code, w.Body.String())
	}
	changed := encode(t, testutil.SampleDataset("demo", "ord-2"))
	if w := do(t, router, http.MethodPost, "/dataset/proto/compare/demo.json", changed); w.Code != http.StatusConflict {
		t.Errorf("changed compare = %d, want 409", w.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	_, router := testEnv(t, "")

	w := do(t, router, http.MethodPost, "/dataset/proto/validate/Reaction", encode(t, &models.Reaction{}))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var d models.Diagnostics
	_ = json.Unmarshal(w.Body.Bytes(), &d)
	if len(d.Errors) == 0 {
		t.Errorf("empty reaction passed validation: %+v", d)
	}

	if w := do(t, router, http.MethodPost, "/dataset/proto/validate/Teapot", []byte("{}")); w.Code != http.StatusBadRequest {
		t.Errorf("unknown type status = %d, want 400", w.Code)
	}
}

func TestReactionByID(t *testing.T) {
	svc, router := testEnv(t, "")
	_ = svc.WriteDataset(context.Background(), "demo.json", testutil.SampleDataset("demo", "ord-1", "ord-2"))

	w := do(t, router, http.MethodGet, "/reaction/id/ord-2/proto", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var r models.Reaction
	_ = codec.Unmarshal(w.Body.Bytes(), &r)
	if r.ReactionID != "ord-2" {
		t.Errorf("reaction_id = %q", r.ReactionID)
	}
	if w := do(t, router, http.MethodGet, "/reaction/id/ord-9/proto", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", w.Code)
	}
}

func TestRenderAndDownload(t *testing.T) {
	_, router := testEnv(t, "")
	body := encode(t, testutil.SampleReaction("ord-1"))

	w := do(t, router, http.MethodPost, "/render/reaction", body)
	if w.Code != http.StatusOK {
		t.Fatalf("render status = %d", w.Code)
	}
	var html string
	if err := json.Unmarshal(w.Body.Bytes(), &html); err != nil {
		t.Fatalf("render body is not a JSON string: %v", err)
	}
	if !strings.Contains(html, "ord-1") {
		t.Errorf("html = %q", html)
	}

	w = do(t, router, http.MethodPost, "/reaction/download", body)
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "reaction.pbtxt") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.Contains(w.Body.String(), "reaction_id: ord-1") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestUploadAndServe(t *testing.T) {
	svc, router := testEnv(t, "")
	_ = svc.WriteDataset(context.Background(), "sub/demo.json", testutil.SampleDataset("demo"))

	target := "/dataset/proto/upload/" + url.PathEscape("sub/demo.json") + "/tok-1"
	w := do(t, router, http.MethodPost, target, []byte("PNGDATA"))
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}
	var up UploadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &up)
	if up.Dataset != "sub/demo.json" || up.Token != "tok-1" || up.Size != 7 {
		t.Errorf("upload response = %+v", up)
	}

	w = do(t, router, http.MethodGet, target, nil)
	if w.Code != http.StatusOK || w.Body.String() != "PNGDATA" {
		t.Errorf("serve = %d %q", w.Code, w.Body.String())
	}

	if w := do(t, router, http.MethodPost, "/dataset/proto/upload/missing.json/tok", []byte("x")); w.Code != http.StatusNotFound {
		t.Errorf("upload to missing dataset = %d, want 404", w.Code)
	}
	if w := do(t, router, http.MethodPost, "/dataset/proto/upload/"+url.PathEscape("sub/demo.json")+"/..", []byte("x")); w.Code != http.StatusBadRequest && w.Code != http.StatusNotFound {
		t.Errorf("traversal token = %d", w.Code)
	}
}

func TestSearchEndpoint(t *testing.T) {
	svc, router := testEnv(t, "")
	_ = svc.WriteDataset(context.Background(), "demo.json", testutil.SampleDataset("demo", "ord-1", "ord-2"))

	if w := do(t, router, http.MethodGet, "/search", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing q = %d, want 400", w.Code)
	}
	w := do(t, router, http.MethodGet, "/search?q=ord-2", nil)
	var res SearchResponse
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if len(res.Results) != 1 || res.Results[0].ReactionID != "ord-2" || res.Results[0].Position != 1 {
		t.Errorf("results = %+v", res.Results)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, router := testEnv(t, "secret")

	if w := do(t, router, http.MethodGet, "/datasets", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token = %d, want 401", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/datasets", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token = %d, want 401", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/datasets", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token = %d, want 200", w.Code)
	}
}

func TestEventsRouteOptional(t *testing.T) {
	_, router := testEnv(t, "")
	if w := do(t, router, http.MethodGet, "/events", nil); w.Code != http.StatusNotFound && w.Code != http.StatusMethodNotAllowed {
		t.Errorf("events without broker = %d", w.Code)
	}

	_, store := testutil.TestStore(t)
	svc := datasetservice.NewService(store, testutil.TestDB(t))
	called := false
	sse := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { called = true; w.WriteHeader(http.StatusOK) })
	r := NewRouter(svc, false, "", sse)
	do(t, r, http.MethodGet, "/events", nil)
	if !called {
		t.Error("sse handler not mounted")
	}
}
