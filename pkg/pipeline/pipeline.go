// Package pipeline provides the core analysis pipeline for Lockrank.
//
// This package implements the complete load → analyze → render pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse a lockfile (local path, URL, or raw bytes) into a dependency graph
//  2. Analyze: Compute centrality metrics, network statistics, and inequality scores
//  3. Render: Generate output in various formats (Markdown, DOT, SVG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Path:    "package-lock.json",
//	    Formats: []string{"markdown"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report := result.Artifacts["markdown"]
//
// Run individual stages:
//
//	// Load only
//	g, err := runner.Load(ctx, opts)
//
//	// Analyze an existing graph
//	res, err := runner.Analyze(ctx, g, opts)
//
//	// Render with existing results
//	artifacts, err := runner.Render(ctx, g, res, opts)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lockrank/pkg/analysis"
	"github.com/matzehuels/lockrank/pkg/cache"
	"github.com/matzehuels/lockrank/pkg/depgraph"
	"github.com/matzehuels/lockrank/pkg/errors"
)

// SourceNpm identifies npm package-lock.json input.
const SourceNpm = "npm"

// DefaultSource is the default lockfile ecosystem.
const DefaultSource = SourceNpm

// Format constants for output formats.
const (
	FormatMarkdown = "markdown"
	FormatDOT      = "dot"
	FormatSVG      = "svg"
	FormatJSON     = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatMarkdown: true,
	FormatDOT:      true,
	FormatSVG:      true,
	FormatJSON:     true,
}

// ValidSources is the set of supported lockfile ecosystems.
var ValidSources = map[string]bool{
	SourceNpm: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the analysis pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options. Exactly one of Path, URL, or Data selects the input.
	Source  string `json:"source,omitempty"`
	Path    string `json:"path,omitempty"`
	URL     string `json:"url,omitempty"`
	Data    []byte `json:"-"`
	Dev     bool   `json:"dev,omitempty"`
	Peer    bool   `json:"peer,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	// Analysis options
	Analysis analysis.Options `json:"analysis,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the loaded dependency graph.
	Graph *depgraph.Graph

	// GraphHash is the content hash of the graph.
	GraphHash string

	// Analysis holds the computed metrics and statistics.
	Analysis *analysis.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	LoadTime    time.Duration
	AnalyzeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit    bool // Whether the parsed graph came from cache
	AnalyzeHit bool // Whether analysis results came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: markdown, dot, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSource checks that a lockfile ecosystem is supported.
func ValidateSource(source string) error {
	if !ValidSources[source] {
		return errors.New(errors.ErrCodeUnsupported, "unsupported source: %q", source)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetAnalyzeDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if err := ValidateSource(o.Source); err != nil {
		return err
	}

	inputs := 0
	if o.Path != "" {
		inputs++
	}
	if o.URL != "" {
		inputs++
	}
	if len(o.Data) > 0 {
		inputs++
	}
	if inputs == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "path, url, or data is required")
	}
	if inputs > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "path, url, and data are mutually exclusive")
	}
	if o.URL != "" {
		if err := errors.ValidateURL(o.URL); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetAnalyzeDefaults fills zero-valued analysis settings.
func (o *Options) SetAnalyzeDefaults() {
	if o.Analysis.PageRank.MaxIterations == 0 {
		o.Analysis = analysis.Options{
			PageRank: analysis.DefaultPageRankOptions(),
			Parallel: o.Analysis.Parallel,
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatMarkdown}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return ValidateFormats(o.Formats)
}

// Input names the configured lockfile input for logging.
func (o *Options) Input() string {
	switch {
	case o.Path != "":
		return o.Path
	case o.URL != "":
		return o.URL
	default:
		return fmt.Sprintf("<%d bytes>", len(o.Data))
	}
}

// GraphKeyOpts returns cache key options for graph loading.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		Dev:  o.Dev,
		Peer: o.Peer,
	}
}

// AnalysisKeyOpts returns cache key options for the analysis stage.
func (o *Options) AnalysisKeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		Damping:       o.Analysis.PageRank.Damping,
		Tolerance:     o.Analysis.PageRank.Tolerance,
		MaxIterations: o.Analysis.PageRank.MaxIterations,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
	}
}
