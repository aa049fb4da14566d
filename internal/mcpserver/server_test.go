package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/antonkast-google/ord-editor/internal/datasetservice"
	"github.com/antonkast-google/ord-editor/internal/testutil"
)

func testServer(t *testing.T) (*Server, *datasetservice.Service) {
	t.Helper()
	_, store := testutil.TestStore(t)
	svc := datasetservice.NewService(store, testutil.TestDB(t))
	if err := svc.WriteDataset(context.Background(), "demo.json", testutil.SampleDataset("demo", "ord-1", "ord-2")); err != nil {
		t.Fatal(err)
	}
	return New(svc, "test"), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so handlers are
	// invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_reactions":
		result, err = srv.searchReactions(ctx, req)
	case "list_datasets":
		result, err = srv.listDatasets(ctx, req)
	case "read_dataset":
		result, err = srv.readDataset(ctx, req)
	case "get_reaction":
		result, err = srv.getReaction(ctx, req)
	case "download_reaction":
		result, err = srv.downloadReaction(ctx, req)
	case "render_reaction":
		result, err = srv.renderReaction(ctx, req)
	case "validate_reaction":
		result, err = srv.validateReaction(ctx, req)
	case "get_format_contract":
		result, err = srv.getFormatContract(ctx, req)
	case "upload_asset":
		result, err = srv.uploadAsset(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListDatasets(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_datasets", map[string]interface{}{})
	if text := resultText(r); text != "demo.json\t2" {
		t.Errorf("list = %q", text)
	}
}

func TestReadDatasetAndReaction(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "read_dataset", map[string]interface{}{"name": "demo.json"})
	if text := resultText(r); !strings.Contains(text, "reaction_id: ord-1") || !strings.Contains(text, "reaction_id: ord-2") {
		t.Errorf("dataset text = %q", text)
	}

	r = callTool(t, srv, "get_reaction", map[string]interface{}{"id": "ord-2"})
	if text := resultText(r); !strings.HasPrefix(text, "reaction_id: ord-2") && !strings.Contains(text, "\nreaction_id: ord-2") {
		t.Errorf("reaction text = %q", text)
	}

	r = callTool(t, srv, "get_reaction", map[string]interface{}{"id": "ord-404"})
	if !r.IsError {
		t.Error("expected error for missing reaction")
	}
}

func TestSearchReactions(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "search_reactions", map[string]interface{}{"query": "ord-2"})
	var hits []struct {
		Dataset    string
		ReactionID string
	}
	if err := json.Unmarshal([]byte(resultText(r)), &hits); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(hits) != 1 || hits[0].ReactionID != "ord-2" || hits[0].Dataset != "demo.json" {
		t.Errorf("hits = %+v", hits)
	}
}

func TestValidateReaction(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "validate_reaction", map[string]interface{}{"content": "reaction_id: ord-x\n"})
	if r.IsError {
		t.Fatalf("validate failed: %s", resultText(r))
	}
	text := resultText(r)
	if !strings.Contains(text, "at least one input is required") {
		t.Errorf("diagnostics = %s", text)
	}

	r = callTool(t, srv, "validate_reaction", map[string]interface{}{
		"content": `{"value": -1, "units": 2}`,
		"type":    "Temperature",
	})
	if r.IsError {
		t.Fatalf("validate failed: %s", resultText(r))
	}

	r = callTool(t, srv, "validate_reaction", map[string]interface{}{"content": "{}", "type": "Teapot"})
	if !r.IsError {
		t.Error("unknown type accepted")
	}
}

func TestDownloadReaction(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "download_reaction", map[string]interface{}{"id": "ord-1"})
	if text := resultText(r); !strings.Contains(text, "reaction_id: ord-1") {
		t.Errorf("download = %q", text)
	}
}

func TestRenderReaction(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "render_reaction", map[string]interface{}{"id": "ord-1"})
	if text := resultText(r); !strings.Contains(text, "ord-1") {
		t.Errorf("render = %q", text)
	}
}

func TestFormatContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_format_contract", map[string]interface{}{})
	if resultText(r) != ReactionFormatContract {
		t.Error("contract tool mismatch")
	}
	contents, err := srv.readFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
	if tc, ok := contents[0].(mcp.TextResourceContents); !ok || tc.URI != formatURI {
		t.Errorf("resource contents = %+v", contents[0])
	}
}

func TestUploadAssetDataURI(t *testing.T) {
	srv, svc := testServer(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	r := callTool(t, srv, "upload_asset", map[string]interface{}{
		"dataset": "demo.json",
		"url":     uri,
		"token":   "../tlc plate.png",
	})
	if r.IsError {
		t.Fatalf("upload failed: %s", resultText(r))
	}
	var res uploadResult
	if err := json.Unmarshal([]byte(resultText(r)), &res); err != nil {
		t.Fatal(err)
	}
	if res.Token != "tlc_plate.png" || res.Size != len(png) {
		t.Errorf("result = %+v", res)
	}
	got, err := svc.ReadUpload(context.Background(), "demo.json", res.Token)
	if err != nil || len(got) != len(png) {
		t.Errorf("stored upload = %d bytes, %v", len(got), err)
	}

	r = callTool(t, srv, "upload_asset", map[string]interface{}{
		"dataset": "demo.json",
		"url":     "data:text/plain;base64,aGVsbG8=",
	})
	if !r.IsError {
		t.Error("unsupported MIME type accepted")
	}

	r = callTool(t, srv, "upload_asset", map[string]interface{}{
		"dataset": "missing.json",
		"url":     uri,
	})
	if !r.IsError {
		t.Error("upload to missing dataset accepted")
	}
}

func TestFetchHTTPBlocksLoopback(t *testing.T) {
	if _, _, err := fetchHTTP(context.Background(), "http://127.0.0.1/x.png"); err == nil {
		t.Error("loopback fetch allowed")
	}
	if _, _, err := fetchHTTP(context.Background(), "ftp://example.com/x.png"); err == nil {
		t.Error("ftp scheme allowed")
	}
}
