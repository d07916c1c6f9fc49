package evolve

import (
	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// Stats accumulates per-generation fitness statistics.
type Stats struct {
	gens []int64
	best []float64
	mean []float64
	taxa []int64
}

// NewStats creates an empty collector.
func NewStats() *Stats { return &Stats{} }

// Record appends one generation's numbers: its index, the fitness
// values of the whole population and the number of active taxa.
func (s *Stats) Record(gen int, fits []float64, taxa int) {
	best, sum := fits[0], 0.0
	for _, f := range fits {
		if f > best {
			best = f
		}
		sum += f
	}
	s.gens = append(s.gens, int64(gen))
	s.best = append(s.best, best)
	s.mean = append(s.mean, sum/float64(len(fits)))
	s.taxa = append(s.taxa, int64(taxa))
}

// Len returns the number of recorded generations.
func (s *Stats) Len() int { return len(s.gens) }

// BestHistory returns the best fitness per generation, oldest first.
func (s *Stats) BestHistory() []float64 {
	out := make([]float64, len(s.best))
	copy(out, s.best)
	return out
}

// MeanHistory returns the mean fitness per generation, oldest first.
func (s *Stats) MeanHistory() []float64 {
	out := make([]float64, len(s.mean))
	copy(out, s.mean)
	return out
}

// DataFrame builds a dataframe of the recorded statistics with
// columns generation, best, mean and taxa.
func (s *Stats) DataFrame() *dataframe.DataFrame {
	gens := make([]interface{}, len(s.gens))
	best := make([]interface{}, len(s.best))
	mean := make([]interface{}, len(s.mean))
	taxa := make([]interface{}, len(s.taxa))
	for i := range s.gens {
		gens[i] = s.gens[i]
		best[i] = s.best[i]
		mean[i] = s.mean[i]
		taxa[i] = s.taxa[i]
	}
	return dataframe.NewDataFrame(
		dataframe.NewSeriesInt64("generation", nil, gens...),
		dataframe.NewSeriesFloat64("best", nil, best...),
		dataframe.NewSeriesFloat64("mean", nil, mean...),
		dataframe.NewSeriesInt64("taxa", nil, taxa...),
	)
}
