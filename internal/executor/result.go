package executor

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aryankumar/crunch/internal/command"
)

// Collector accumulates results delivered from worker goroutines.
// Its Add method can be passed to WithResultHandler directly.
type Collector struct {
	mu      sync.Mutex
	results []Result
}

// Add records a result; safe for concurrent use
func (c *Collector) Add(r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

// Results returns a copy of the results recorded so far, in completion order
func (c *Collector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Result, len(c.results))
	copy(out, c.results)
	return out
}

// CountSuccessful returns the number of successful results (no error)
func CountSuccessful(results []Result) int {
	count := 0
	for _, r := range results {
		if r.Error == nil {
			count++
		}
	}
	return count
}

// CountFailed returns the number of failed results (has error)
func CountFailed(results []Result) int {
	return len(results) - CountSuccessful(results)
}

// FilterFailed returns only the failed results
func FilterFailed(results []Result) []Result {
	filtered := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterByKind returns results for one command kind
func FilterByKind(results []Result, kind command.Kind) []Result {
	filtered := make([]Result, 0)
	for _, r := range results {
		if r.Kind == kind {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// AverageDuration calculates the average duration of all results
func AverageDuration(results []Result) time.Duration {
	if len(results) == 0 {
		return 0
	}

	var total time.Duration
	for _, r := range results {
		total += r.Duration
	}
	return total / time.Duration(len(results))
}

// MaxDuration returns the maximum duration among all results
func MaxDuration(results []Result) time.Duration {
	var longest time.Duration
	for _, r := range results {
		if r.Duration > longest {
			longest = r.Duration
		}
	}
	return longest
}

// GetErrors extracts the errors of failed results
func GetErrors(results []Result) []error {
	errs := make([]error, 0)
	for _, r := range results {
		if r.Error != nil {
			errs = append(errs, r.Error)
		}
	}
	return errs
}

// Summary provides a summary of execution results
type Summary struct {
	Total       int           `json:"total" yaml:"total"`
	Successful  int           `json:"successful" yaml:"successful"`
	Failed      int           `json:"failed" yaml:"failed"`
	Generated   int           `json:"generated" yaml:"generated"`
	Aggregated  int           `json:"aggregated" yaml:"aggregated"`
	AvgDuration time.Duration `json:"avgDuration" yaml:"avgDuration"`
	MaxDuration time.Duration `json:"maxDuration" yaml:"maxDuration"`
}

// Summarize creates a summary of the results
func Summarize(results []Result) Summary {
	return Summary{
		Total:       len(results),
		Successful:  CountSuccessful(results),
		Failed:      CountFailed(results),
		Generated:   len(FilterByKind(results, command.KindGenerate)),
		Aggregated:  len(FilterByKind(results, command.KindAggregate)),
		AvgDuration: AverageDuration(results),
		MaxDuration: MaxDuration(results),
	}
}

// String returns a human-readable string representation of the summary
func (s Summary) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Total: %d (generate: %d, aggregate: %d), ", s.Total, s.Generated, s.Aggregated))
	sb.WriteString(fmt.Sprintf("Successful: %d, ", s.Successful))
	sb.WriteString(fmt.Sprintf("Failed: %d", s.Failed))

	if s.Total > 0 {
		sb.WriteString(fmt.Sprintf(", Avg: %s", s.AvgDuration.Round(time.Millisecond)))
		sb.WriteString(fmt.Sprintf(", Max: %s", s.MaxDuration.Round(time.Millisecond)))
	}

	return sb.String()
}

// HasErrors returns true if any results contain errors
func HasErrors(results []Result) bool {
	return CountFailed(results) > 0
}

// SuccessRate returns the success rate as a percentage (0.0 to 100.0)
func SuccessRate(results []Result) float64 {
	if len(results) == 0 {
		return 0.0
	}
	return float64(CountSuccessful(results)) / float64(len(results)) * 100.0
}
