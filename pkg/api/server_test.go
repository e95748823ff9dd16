package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/loopcast/loopcast/pkg/config"
	"github.com/loopcast/loopcast/pkg/orchestrator"
)

const testToken = "test-token"

func newTestServer(t *testing.T) (*Server, *orchestrator.Orchestrator) {
	t.Helper()

	orch := orchestrator.New(zerolog.Nop(), orchestrator.Options{})
	tree := config.ServerSchema()
	el, err := config.ParseDocument(strings.NewReader(`
<Server version="11">
    <Name>loopcast</Name>
    <Type>origin</Type>
</Server>`))
	if err != nil {
		t.Fatalf("failed to parse server document: %v", err)
	}
	binder := config.NewBinder(zerolog.Nop(), nil)
	if err := binder.Bind(tree, el); err != nil {
		t.Fatalf("failed to bind server document: %v", err)
	}
	tree.Freeze()

	srv := NewServer(zerolog.Nop(), Config{
		AccessToken:  testToken,
		CrossDomains: []string{"*"},
	}, orch, tree, nil)
	return srv, orch
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestCreateVirtualHost_OutcomeMapping(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"name":"stream-a","hostNames":["a.example.com"]}`

	rec := doRequest(t, srv, http.MethodPost, "/v1/vhosts", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var created VirtualHostResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Name != "stream-a" {
		t.Errorf("expected name stream-a, got %s", created.Name)
	}
	if len(created.HostNames) != 1 || created.HostNames[0] != "a.example.com" {
		t.Errorf("unexpected host names: %v", created.HostNames)
	}

	// Duplicate maps to conflict.
	rec = doRequest(t, srv, http.MethodPost, "/v1/vhosts", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate create: expected 409, got %d", rec.Code)
	}

	// Invalid specification maps to bad request.
	rec = doRequest(t, srv, http.MethodPost, "/v1/vhosts", `{"name":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid create: expected 400, got %d", rec.Code)
	}
}

func TestCreateVirtualHost_PaddedNameReturnsBoundHost(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/vhosts", `{"name":"  stream-a  "}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var created VirtualHostResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Name != "stream-a" {
		t.Errorf("expected name stream-a, got %q", created.Name)
	}
	if created.ID == "" {
		t.Error("expected a non-empty id for the admitted host")
	}
}

func TestDeleteVirtualHost_OutcomeMapping(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/vhosts", `{"name":"stream-a"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/v1/vhosts/stream-a", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/v1/vhosts/stream-a", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete missing: expected 404, got %d", rec.Code)
	}
}

func TestDeleteVirtualHost_ProtectedAndInUse(t *testing.T) {
	srv, orch := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/v1/vhosts", `{"name":"stream-a"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", rec.Code)
	}

	vh, _ := orch.Lookup("stream-a")
	vh.Acquire()
	defer vh.Release()

	rec = doRequest(t, srv, http.MethodDelete, "/v1/vhosts/stream-a", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("delete in use: expected 400, got %d", rec.Code)
	}
}

func TestListAndGetVirtualHosts(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, name := range []string{"stream-a", "stream-b"} {
		body := fmt.Sprintf(`{"name":%q}`, name)
		if rec := doRequest(t, srv, http.MethodPost, "/v1/vhosts", body); rec.Code != http.StatusOK {
			t.Fatalf("create %s: expected 200, got %d", name, rec.Code)
		}
	}

	rec := doRequest(t, srv, http.MethodGet, "/v1/vhosts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var listed []VirtualHostResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(listed) != 2 || listed[0].Name != "stream-a" || listed[1].Name != "stream-b" {
		t.Fatalf("unexpected list: %+v", listed)
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/vhosts/stream-b", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/v1/vhosts/missing", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get missing: expected 404, got %d", rec.Code)
	}
}

func TestGetConfig(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/v1/config", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var dump map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &dump); err != nil {
		t.Fatalf("failed to decode config dump: %v", err)
	}
	if dump["Name"] != "loopcast" {
		t.Errorf("expected Name loopcast in dump, got %v", dump["Name"])
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/config?format=xml", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("xml dump: expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<Name>loopcast</Name>") {
		t.Errorf("xml dump missing bound value: %s", rec.Body.String())
	}

	rec = doRequest(t, srv, http.MethodGet, "/v1/config?format=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus format: expected 400, got %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	// No token header.
	req := httptest.NewRequest(http.MethodGet, "/v1/vhosts", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rec.Code)
	}

	// Wrong token.
	req = httptest.NewRequest(http.MethodGet, "/v1/vhosts", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: expected 401, got %d", rec.Code)
	}
}

func TestAuth_NoConfiguredToken(t *testing.T) {
	orch := orchestrator.New(zerolog.Nop(), orchestrator.Options{})
	srv := NewServer(zerolog.Nop(), Config{}, orch, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/vhosts", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unconfigured token: expected 403, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/vhosts", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Errorf("unexpected allow-origin header: %q", got)
	}
	if got := rec.Header().Get("Server"); got != serverHeader {
		t.Errorf("unexpected server header: %q", got)
	}
}
