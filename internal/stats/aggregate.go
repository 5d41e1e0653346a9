package stats

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/aryankumar/crunch/internal/tracing"
	"github.com/aryankumar/crunch/internal/util"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

// Aggregate computes a Report over a copy of values. The six computations run concurrently
// and all of them must succeed; the first failure cancels the rest and is returned wrapped
// in util.ErrAggregationFailed.
func Aggregate(ctx context.Context, values []int) (Report, error) {
	snapshot := make([]int, len(values))
	copy(snapshot, values)

	ctx, span := tracing.StartSpan(ctx, "stats.aggregate",
		attribute.Int("values", len(snapshot)))

	report, err := aggregate(ctx, snapshot)
	span.End(err)
	return report, err
}

func aggregate(ctx context.Context, values []int) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("%w: %w", util.ErrAggregationFailed, err)
	}

	var (
		minimum, maximum int
		mean, sum        float64
		evens            []int
		above, atOrBelow []int
	)

	g, gctx := errgroup.WithContext(ctx)

	compute(gctx, g, "min", func() { minimum = Min(values) })
	compute(gctx, g, "max", func() { maximum = Max(values) })
	compute(gctx, g, "mean", func() { mean = Mean(values) })
	compute(gctx, g, "evens", func() { evens = Evens(values) })
	compute(gctx, g, "sum", func() { sum = Sum(values) })
	compute(gctx, g, "partition", func() { above, atOrBelow = Partition(values, Threshold) })

	if err := g.Wait(); err != nil {
		slog.Debug("aggregation failed", "error", err, "values", len(values))
		return Report{}, fmt.Errorf("%w: %w", util.ErrAggregationFailed, err)
	}

	return Report{
		Count:              len(values),
		Min:                minimum,
		Max:                maximum,
		Mean:               mean,
		Sum:                sum,
		Evens:              evens,
		AboveThreshold:     above,
		AtOrBelowThreshold: atOrBelow,
		Threshold:          Threshold,
	}, nil
}

// compute schedules fn on g inside its own span. A panic in fn becomes an error, and a
// context cancelled before fn starts skips it.
func compute(ctx context.Context, g *errgroup.Group, name string, fn func()) {
	g.Go(func() error {
		return runComputation(ctx, name, fn)
	})
}

func runComputation(ctx context.Context, name string, fn func()) (err error) {
	_, span := tracing.StartSpan(ctx, "stats."+name)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s computation panicked: %v", name, r)
		}
		span.End(err)
	}()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s computation: %w", name, err)
	}
	fn()
	return nil
}

// Min returns the smallest value, or 0 for an empty slice.
func Min(values []int) int {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the largest value, or 0 for an empty slice.
func Max(values []int) int {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Sum returns the total as a float64. Accumulation happens in int64.
func Sum(values []int) float64 {
	var total int64
	for _, v := range values {
		total += int64(v)
	}
	return float64(total)
}

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Evens returns the even values in input order. Never nil.
func Evens(values []int) []int {
	out := make([]int, 0, len(values)/2)
	for _, v := range values {
		if v%2 == 0 {
			out = append(out, v)
		}
	}
	return out
}

// Partition splits values into those greater than threshold and the rest, keeping input
// order within each part. Neither result is nil.
func Partition(values []int, threshold int) (above, atOrBelow []int) {
	above = make([]int, 0)
	atOrBelow = make([]int, 0)
	for _, v := range values {
		if v > threshold {
			above = append(above, v)
		} else {
			atOrBelow = append(atOrBelow, v)
		}
	}
	return above, atOrBelow
}

// FormatMean renders a mean with at most two decimals and no trailing zeros.
func FormatMean(mean float64) string {
	return strconv.FormatFloat(math.Round(mean*100)/100, 'f', -1, 64)
}
