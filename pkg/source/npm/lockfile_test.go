package npm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/lockrank/pkg/depgraph"
	"github.com/matzehuels/lockrank/pkg/errors"
)

const basicLockfile = `{
	"name": "demo-app",
	"lockfileVersion": 3,
	"packages": {
		"": {
			"name": "demo-app",
			"version": "1.0.0",
			"dependencies": {
				"express": "^4.18.0"
			},
			"devDependencies": {
				"jest": "^29.0.0"
			}
		},
		"node_modules/express": {
			"version": "4.18.2",
			"dependencies": {
				"accepts": "~1.3.8"
			}
		},
		"node_modules/accepts": {
			"version": "1.3.8"
		},
		"node_modules/jest": {
			"version": "29.7.0"
		}
	}
}`

func TestLoadBasic(t *testing.T) {
	g, err := Load([]byte(basicLockfile), Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	root, ok := g.Node("demo-app")
	if !ok {
		t.Fatal("root node demo-app missing")
	}
	if root.Type != depgraph.NodeRoot {
		t.Errorf("root type = %v, want %v", root.Type, depgraph.NodeRoot)
	}
	if root.Version != "1.0.0" {
		t.Errorf("root version = %q, want 1.0.0", root.Version)
	}

	if _, ok := g.Node("express@4.18.2"); !ok {
		t.Error("node express@4.18.2 missing")
	}
	if _, ok := g.Node("accepts@1.3.8"); !ok {
		t.Error("node accepts@1.3.8 missing")
	}

	// Default options ignore devDependencies edges but the installed
	// package still becomes a node.
	if _, ok := g.Node("jest@29.7.0"); !ok {
		t.Error("node jest@29.7.0 missing")
	}
	if g.InDegree("jest@29.7.0") != 0 {
		t.Error("jest should have no incoming edges without Dev option")
	}

	wantEdges := []depgraph.Edge{
		{From: "demo-app", To: "express@4.18.2", Type: depgraph.EdgeInstalled},
		{From: "express@4.18.2", To: "accepts@1.3.8", Type: depgraph.EdgeInstalled},
	}
	edges := g.Edges()
	if len(edges) != len(wantEdges) {
		t.Fatalf("edge count = %d, want %d (%v)", len(edges), len(wantEdges), edges)
	}
	for i, want := range wantEdges {
		if edges[i] != want {
			t.Errorf("edge[%d] = %v, want %v", i, edges[i], want)
		}
	}
}

func TestLoadDevDependencies(t *testing.T) {
	g, err := Load([]byte(basicLockfile), Options{Dev: true})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if g.InDegree("jest@29.7.0") != 1 {
		t.Errorf("jest in-degree = %d, want 1 with Dev option", g.InDegree("jest@29.7.0"))
	}
}

func TestLoadNestedResolution(t *testing.T) {
	// Two installed versions of "debug": express gets its nested copy,
	// everyone else resolves to the top-level one.
	data := `{
		"name": "nested",
		"lockfileVersion": 3,
		"packages": {
			"": {"version": "0.1.0", "dependencies": {"express": "^4.0.0", "debug": "^4.0.0"}},
			"node_modules/debug": {"version": "4.3.4"},
			"node_modules/express": {
				"version": "4.18.2",
				"dependencies": {"debug": "2.6.9"}
			},
			"node_modules/express/node_modules/debug": {"version": "2.6.9"}
		}
	}`
	g, err := Load([]byte(data), Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	hasEdge := func(from, to string) bool {
		for _, e := range g.Edges() {
			if e.From == from && e.To == to {
				return true
			}
		}
		return false
	}

	if !hasEdge("nested", "debug@4.3.4") {
		t.Error("root should resolve to top-level debug@4.3.4")
	}
	if !hasEdge("express@4.18.2", "debug@2.6.9") {
		t.Error("express should resolve to its nested debug@2.6.9")
	}
	if hasEdge("express@4.18.2", "debug@4.3.4") {
		t.Error("express must not resolve to the top-level debug")
	}
}

func TestLoadUnresolvedDependency(t *testing.T) {
	data := `{
		"name": "ghost",
		"lockfileVersion": 3,
		"packages": {
			"": {"version": "0.1.0", "dependencies": {"left-pad": "^1.0.0"}}
		}
	}`
	g, err := Load([]byte(data), Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	n, ok := g.Node("left-pad")
	if !ok {
		t.Fatal("unresolved dependency should become a version-less node")
	}
	if n.Type != depgraph.NodeUnknown {
		t.Errorf("node type = %v, want %v", n.Type, depgraph.NodeUnknown)
	}

	edges := g.Edges()
	if len(edges) != 1 || edges[0].Type != depgraph.EdgeRequired {
		t.Errorf("edges = %v, want single required edge", edges)
	}
}

func TestLoadSharedUnresolvedDependency(t *testing.T) {
	// Two packages declaring the same uninstalled dependency share one
	// constraint-only node; the second declaration must not fail the load.
	data := `{
		"name": "ghost",
		"lockfileVersion": 3,
		"packages": {
			"": {"version": "0.1.0", "dependencies": {"a": "^1.0.0"}},
			"node_modules/a": {"version": "1.0.0", "peerDependencies": {"react": ">=17"}},
			"node_modules/b": {"version": "2.0.0", "peerDependencies": {"react": ">=17"}}
		}
	}`
	g, err := Load([]byte(data), Options{Peer: true})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if _, ok := g.Node("react"); !ok {
		t.Fatal("shared unresolved dependency should become one node")
	}
	var required int
	for _, e := range g.Edges() {
		if e.To == "react" {
			if e.Type != depgraph.EdgeRequired {
				t.Errorf("edge to react has type %v, want %v", e.Type, depgraph.EdgeRequired)
			}
			required++
		}
	}
	if required != 2 {
		t.Errorf("required edges to react = %d, want 2", required)
	}
}

func TestLoadScopedPackages(t *testing.T) {
	data := `{
		"name": "scoped",
		"lockfileVersion": 2,
		"packages": {
			"": {"version": "0.1.0", "dependencies": {"@babel/core": "^7.0.0"}},
			"node_modules/@babel/core": {"version": "7.23.0"}
		}
	}`
	g, err := Load([]byte(data), Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	n, ok := g.Node("@babel/core@7.23.0")
	if !ok {
		t.Fatal("scoped node missing")
	}
	if n.Name != "@babel/core" {
		t.Errorf("name = %q, want @babel/core", n.Name)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"malformed json", `{not json`, errors.ErrCodeInvalidLockfile},
		{"v1 lockfile", `{"name": "old", "lockfileVersion": 1, "dependencies": {}}`, errors.ErrCodeUnsupportedLockfile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data), Options{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "package-lock.json")
	if err := os.WriteFile(path, []byte(basicLockfile), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := LoadFile(path, Options{})
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("node count = %d, want 4", g.NodeCount())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(basicLockfile))
	}))
	defer srv.Close()

	g, err := LoadURL(context.Background(), srv.URL, Options{})
	if err != nil {
		t.Fatalf("LoadURL() error = %v", err)
	}
	if g.NodeCount() != 4 {
		t.Errorf("node count = %d, want 4", g.NodeCount())
	}
}
