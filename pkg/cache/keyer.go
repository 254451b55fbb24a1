package cache

// Keyer derives cache keys for the pipeline stages. Centralizing key
// construction keeps CLI and server lookups compatible: the same input
// always maps to the same key regardless of which surface computed it.
type Keyer interface {
	// HTTPKey generates a key for a fetched HTTP response.
	HTTPKey(namespace, key string) string

	// GraphKey generates a key for a dependency graph parsed from a
	// lockfile. The hash is the SHA-256 of the raw lockfile bytes.
	GraphKey(source, lockfileHash string, opts GraphKeyOpts) string

	// AnalysisKey generates a key for computed analysis results.
	// The hash identifies the graph the analysis was run on.
	AnalysisKey(graphHash string, opts AnalysisKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact (markdown,
	// DOT, SVG) derived from a graph and its analysis.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// GraphKeyOpts are the parse options that change the resulting graph.
type GraphKeyOpts struct {
	Dev  bool `json:"dev"`
	Peer bool `json:"peer"`
}

// AnalysisKeyOpts are the analysis options that change computed scores.
type AnalysisKeyOpts struct {
	Damping       float64 `json:"damping"`
	Tolerance     float64 `json:"tolerance"`
	MaxIterations int     `json:"max_iterations"`
}

// ArtifactKeyOpts are the render options that change the output artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"` // markdown, dot, svg
}

// DefaultKeyer is the standard key derivation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// GraphKey generates a key for dependency graph caching.
func (k *DefaultKeyer) GraphKey(source, lockfileHash string, opts GraphKeyOpts) string {
	return hashKey("graph", source, lockfileHash, opts)
}

// AnalysisKey generates a key for analysis result caching.
func (k *DefaultKeyer) AnalysisKey(graphHash string, opts AnalysisKeyOpts) string {
	return hashKey("analysis", graphHash, opts)
}

// ArtifactKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
