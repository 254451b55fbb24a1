// Package npm loads npm package-lock.json files into dependency graphs.
//
// Lockfile versions 2 and 3 are supported (the "packages" map introduced
// with npm 7). Each installed package becomes a node identified as
// "name@version"; the lockfile's own project becomes the root node. An
// edge is "installed" when the dependency resolves to an installed entry
// via npm's node_modules nesting rules, and "required" when a declared
// dependency has no installed counterpart in the lockfile.
package npm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/matzehuels/lockrank/pkg/depgraph"
	"github.com/matzehuels/lockrank/pkg/errors"
	"github.com/matzehuels/lockrank/pkg/httputil"
)

// lockfile mirrors the package-lock.json structure for versions 2 and 3.
type lockfile struct {
	Name            string                   `json:"name"`
	LockfileVersion int                      `json:"lockfileVersion"`
	Packages        map[string]lockfileEntry `json:"packages"`
}

type lockfileEntry struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
	Optional         bool              `json:"optional"`
	Link             bool              `json:"link"`
}

// Options controls which declared dependency groups become edges.
type Options struct {
	// Dev includes devDependencies of the root project.
	Dev bool
	// Peer includes peerDependencies.
	Peer bool
}

// LoadFile parses a package-lock.json from disk.
func LoadFile(path string, opts Options) (*depgraph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Load(data, opts)
}

// LoadURL fetches a package-lock.json over HTTP and parses it.
func LoadURL(ctx context.Context, url string, opts Options) (*depgraph.Graph, error) {
	data, err := httputil.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return Load(data, opts)
}

// Load parses package-lock.json bytes into a dependency graph.
// Returns a coded error for unparseable input or unsupported lockfile
// versions (v1 lockfiles predate the "packages" map).
func Load(data []byte, opts Options) (*depgraph.Graph, error) {
	var lf lockfile
	if err := json.Unmarshal(data, &lf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLockfile, err, "parse package-lock.json")
	}
	if lf.Packages == nil {
		return nil, errors.New(errors.ErrCodeUnsupportedLockfile,
			"lockfileVersion %d has no packages map (npm 7+ required)", lf.LockfileVersion)
	}

	b := &builder{graph: depgraph.New(), installed: make(map[string]string)}
	if err := b.addNodes(lf); err != nil {
		return nil, err
	}
	if err := b.addEdges(lf, opts); err != nil {
		return nil, err
	}
	return b.graph, nil
}

// builder accumulates graph state across the two construction passes:
// nodes (with the installed-path index) first, then edges.
type builder struct {
	graph     *depgraph.Graph
	installed map[string]string // node_modules path -> node ID
	rootID    string
}

func (b *builder) addNodes(lf lockfile) error {
	// Deterministic node order: root first, then lexical path order.
	paths := make([]string, 0, len(lf.Packages))
	for path := range lf.Packages {
		if path != "" {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	root := lf.Packages[""]
	b.rootID = lf.Name
	if b.rootID == "" {
		b.rootID = root.Name
	}
	if b.rootID == "" {
		b.rootID = "root"
	}
	if err := b.graph.AddNode(depgraph.Node{
		ID:      b.rootID,
		Name:    b.rootID,
		Version: root.Version,
		Type:    depgraph.NodeRoot,
	}); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "add root node")
	}
	b.installed[""] = b.rootID

	for _, path := range paths {
		entry := lf.Packages[path]
		if entry.Link {
			continue // workspace symlinks duplicate their target entry
		}
		name := entry.Name
		if name == "" {
			name = nameFromPath(path)
		}
		id := name
		if entry.Version != "" {
			id = name + "@" + entry.Version
		}
		if _, exists := b.graph.Node(id); !exists {
			if err := b.graph.AddNode(depgraph.Node{
				ID:      id,
				Name:    name,
				Version: entry.Version,
				Type:    depgraph.NodeDependency,
			}); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "add node %s", id)
			}
		}
		b.installed[path] = id
	}
	return nil
}

func (b *builder) addEdges(lf lockfile, opts Options) error {
	for path, entry := range lf.Packages {
		if entry.Link {
			continue
		}
		from, ok := b.installed[path]
		if !ok {
			continue
		}

		deps := make(map[string]string, len(entry.Dependencies))
		for name, constraint := range entry.Dependencies {
			deps[name] = constraint
		}
		if opts.Dev && path == "" {
			for name, constraint := range entry.DevDependencies {
				deps[name] = constraint
			}
		}
		if opts.Peer {
			for name, constraint := range entry.PeerDependencies {
				deps[name] = constraint
			}
		}

		names := make([]string, 0, len(deps))
		for name := range deps {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if to, ok := b.resolve(path, name); ok {
				if err := b.graph.AddEdge(depgraph.Edge{From: from, To: to, Type: depgraph.EdgeInstalled}); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "add edge %s -> %s", from, to)
				}
				continue
			}
			// Declared but never installed (e.g. optional peer): keep the
			// requirement visible as a constraint-only node.
			if _, exists := b.graph.Node(name); !exists {
				if err := b.graph.AddNode(depgraph.Node{ID: name, Name: name, Type: depgraph.NodeUnknown}); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "add node %s", name)
				}
			}
			if err := b.graph.AddEdge(depgraph.Edge{From: from, To: name, Type: depgraph.EdgeRequired}); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidLockfile, err, "add edge %s -> %s", from, name)
			}
		}
	}
	return nil
}

// resolve walks npm's nesting rules: a dependency of the package at path
// resolves to the nearest enclosing node_modules directory containing it.
func (b *builder) resolve(path, name string) (string, bool) {
	for {
		var candidate string
		if path == "" {
			candidate = "node_modules/" + name
		} else {
			candidate = path + "/node_modules/" + name
		}
		if id, ok := b.installed[candidate]; ok {
			return id, true
		}
		if path == "" {
			return "", false
		}
		idx := strings.LastIndex(path, "/node_modules/")
		if idx < 0 {
			path = ""
		} else {
			path = path[:idx]
		}
	}
}

// nameFromPath derives a package name from its node_modules path,
// keeping scoped-package prefixes ("node_modules/@scope/pkg" → "@scope/pkg").
func nameFromPath(path string) string {
	const marker = "node_modules/"
	idx := strings.LastIndex(path, marker)
	if idx < 0 {
		return path
	}
	return path[idx+len(marker):]
}
