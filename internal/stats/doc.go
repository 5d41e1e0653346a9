// Package stats computes the aggregate report for a dataset snapshot.
//
// Aggregate fans a snapshot out to six independent computations (minimum, maximum, mean,
// even subsequence, sum and a two-way partition around Threshold), runs them concurrently
// and joins on all of them before building a Report:
//
//	report, err := stats.Aggregate(ctx, values)
//	if err != nil {
//	    // errors.Is(err, util.ErrAggregationFailed) is always true here
//	}
//	summary := report.Describe()
//
// A failed or cancelled computation fails the whole aggregation; no partial report is
// returned. An empty input is not an error: numeric fields fall back to zero and the
// subsequences are empty.
package stats
