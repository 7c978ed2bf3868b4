package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/acronis/perfkit/dbopt-bench/benchmark"
)

// Reporter prints the measurements as they are taken and keeps them for the summary
type Reporter struct {
	out    io.Writer
	scores *benchmark.Scores
}

// NewReporter creates a reporter writing to out and collecting into scores
func NewReporter(out io.Writer, scores *benchmark.Scores) *Reporter {
	return &Reporter{out: out, scores: scores}
}

// Iteration prints the header of iteration n, counting from 1
func (r *Reporter) Iteration(n int) {
	_, _ = fmt.Fprintf(r.out, "Iteration %d\n", n)
}

// Step prints the elapsed time of a step
func (r *Reporter) Step(label string, elapsed time.Duration) {
	var seconds = elapsed.Seconds()
	r.scores.Add(label, seconds)

	_, _ = fmt.Fprintf(r.out, "%s Time: %v seconds\n", label, seconds)
}

// Summary prints avg/min/max per step over all iterations
func (r *Reporter) Summary() error {
	if len(r.scores.Metrics()) == 0 {
		return nil
	}

	if _, err := fmt.Fprintf(r.out, "\nSummary over all iterations, seconds:\n"); err != nil {
		return err
	}

	return r.scores.Print(r.out, "sec")
}
