package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lockrank/pkg/pipeline"
)

const testLockfile = `{
	"name": "demo-app",
	"lockfileVersion": 3,
	"packages": {
		"": {
			"name": "demo-app",
			"version": "1.0.0",
			"dependencies": {"express": "^4.18.0"}
		},
		"node_modules/express": {"version": "4.18.2"}
	}
}`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(nil, nil, logger)
	srv := httptest.NewServer(New(runner, logger).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestVersion(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["version"] == "" {
		t.Error("version field missing")
	}
}

func TestAnalyzeRawLockfile(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/analyze", "application/octet-stream",
		strings.NewReader(testLockfile))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}

	var body struct {
		GraphHash string            `json:"graph_hash"`
		NodeCount int               `json:"node_count"`
		Artifacts map[string][]byte `json:"artifacts"`
		Analysis  struct {
			Stats struct {
				Root string `json:"root"`
			} `json:"stats"`
		} `json:"analysis"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.GraphHash == "" {
		t.Error("graph_hash missing")
	}
	if body.NodeCount != 2 {
		t.Errorf("node_count = %d, want 2", body.NodeCount)
	}
	if body.Analysis.Stats.Root != "demo-app" {
		t.Errorf("root = %q, want demo-app", body.Analysis.Stats.Root)
	}
	if len(body.Artifacts["json"]) == 0 {
		t.Error("json artifact missing")
	}
}

func TestAnalyzeRawLockfileAsJSON(t *testing.T) {
	srv := testServer(t)

	// A package-lock.json posted with its natural content type must be
	// treated as a raw upload, not as the request envelope.
	resp, err := http.Post(srv.URL+"/api/v1/analyze", "application/json",
		strings.NewReader(testLockfile))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}

	var body struct {
		NodeCount int `json:"node_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.NodeCount != 2 {
		t.Errorf("node_count = %d, want 2", body.NodeCount)
	}
}

func TestAnalyzeJSONRequest(t *testing.T) {
	srv := testServer(t)

	reqBody, _ := json.Marshal(map[string]any{
		"data":    testLockfile,
		"formats": []string{"markdown", "dot"},
	})
	resp, err := http.Post(srv.URL+"/api/v1/analyze", "application/json",
		bytes.NewReader(reqBody))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}

	var body struct {
		Artifacts map[string][]byte `json:"artifacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(body.Artifacts["markdown"], []byte("demo-app")) {
		t.Error("markdown artifact should mention root package")
	}
	if !bytes.Contains(body.Artifacts["dot"], []byte("digraph")) {
		t.Error("dot artifact malformed")
	}
}

func TestAnalyzeInvalidLockfile(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/analyze", "application/octet-stream",
		strings.NewReader("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Code != "INVALID_LOCKFILE" {
		t.Errorf("code = %q, want INVALID_LOCKFILE", body.Code)
	}
}

func TestAnalyzeMalformedJSONRequest(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/analyze", "application/json",
		strings.NewReader("{broken"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	srv := testServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Request-ID", "test-id-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "test-id-123" {
		t.Errorf("X-Request-ID = %q, want test-id-123", got)
	}
}
