package analysis

import "sort"

// Score is a single (label, value) pair in a score distribution.
// The label is a node ID for centrality metrics and a measure name for
// the Gini summary.
type Score struct {
	Label string  `json:"label" bson:"label"`
	Value float64 `json:"value" bson:"value"`
}

// ScoreDistribution is an ordered sequence of scores. Metric functions
// return distributions already sorted by value descending, with ties broken
// by the graph's node insertion order.
type ScoreDistribution []Score

// SortDesc sorts the distribution by value descending, in place.
// The sort is stable, so equal values keep their original relative order.
func (d ScoreDistribution) SortDesc() {
	sort.SliceStable(d, func(i, j int) bool { return d[i].Value > d[j].Value })
}

// Top returns the first n scores, or the whole distribution if it has
// fewer than n entries. The returned slice shares backing storage.
func (d ScoreDistribution) Top(n int) ScoreDistribution {
	if n < 0 {
		n = 0
	}
	if n > len(d) {
		n = len(d)
	}
	return d[:n]
}

// Bottom returns the last n scores, or the whole distribution if it has
// fewer than n entries. The returned slice shares backing storage.
func (d ScoreDistribution) Bottom(n int) ScoreDistribution {
	if n < 0 {
		n = 0
	}
	if n > len(d) {
		n = len(d)
	}
	return d[len(d)-n:]
}

// NonZero returns a new distribution containing only entries with a
// strictly positive value, preserving order.
func (d ScoreDistribution) NonZero() ScoreDistribution {
	var out ScoreDistribution
	for _, s := range d {
		if s.Value > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Values returns the raw score values in distribution order.
func (d ScoreDistribution) Values() []float64 {
	vals := make([]float64, len(d))
	for i, s := range d {
		vals[i] = s.Value
	}
	return vals
}
