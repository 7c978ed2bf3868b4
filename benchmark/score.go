package benchmark

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"
)

// Score accumulates the samples of one metric
type Score struct {
	Metric string
	Count  int
	Sum    float64
	Min    float64
	Max    float64

	logSum   float64
	positive int
}

// Add records one sample
func (s *Score) Add(v float64) {
	if s.Count == 0 || v < s.Min {
		s.Min = v
	}
	if s.Count == 0 || v > s.Max {
		s.Max = v
	}

	s.Count++
	s.Sum += v

	if v > 0 {
		s.logSum += math.Log(v)
		s.positive++
	}
}

// Avg returns the arithmetic mean of the samples
func (s *Score) Avg() float64 {
	if s.Count == 0 {
		return 0
	}

	return s.Sum / float64(s.Count)
}

// Geomean returns the geometric mean of the positive samples
func (s *Score) Geomean() float64 {
	if s.positive == 0 {
		return 0
	}

	return math.Exp(s.logSum / float64(s.positive))
}

// FormatValue formats v to 4 significant figures
func FormatValue(v float64) string {
	if v == 0.0 {
		return "0"
	}

	// Calculate magnitude of the number
	order := math.Floor(math.Log10(math.Abs(v))) + 1

	// Determine the precision needed for 4 significant figures
	precision := 4 - int(order)

	if precision < 0 {
		precision = 0
	}

	format := fmt.Sprintf("%%.%df", precision)

	return fmt.Sprintf(format, v)
}

// Scores keeps one Score per metric in the order the metrics were first seen
type Scores struct {
	order  []string
	scores map[string]*Score
}

// NewScores creates an empty Scores
func NewScores() *Scores {
	return &Scores{scores: make(map[string]*Score)}
}

// Add records a sample for the metric
func (s *Scores) Add(metric string, v float64) {
	var sc, ok = s.scores[metric]
	if !ok {
		sc = &Score{Metric: metric}
		s.scores[metric] = sc
		s.order = append(s.order, metric)
	}

	sc.Add(v)
}

// Get returns the score of the metric
func (s *Scores) Get(metric string) (*Score, bool) {
	var sc, ok = s.scores[metric]
	return sc, ok
}

// Metrics returns the metric names in insertion order
func (s *Scores) Metrics() []string {
	return append([]string(nil), s.order...)
}

// Print writes the avg/min/max/geomean summary table
func (s *Scores) Print(w io.Writer, unit string) error {
	if len(s.order) == 0 {
		return nil
	}

	var tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "%s\tsamples\tavg, %s\tmin, %s\tmax, %s\tgeomean, %s\n", "step", unit, unit, unit, unit)
	for _, metric := range s.order {
		var sc = s.scores[metric]
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n",
			metric, sc.Count, FormatValue(sc.Avg()), FormatValue(sc.Min), FormatValue(sc.Max), FormatValue(sc.Geomean()))
	}

	return tw.Flush()
}
