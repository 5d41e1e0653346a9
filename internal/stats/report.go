package stats

// Threshold splits values into the "above" and "at or below" partitions.
const Threshold = 50

// Report is the result of one aggregation over one snapshot. Slices are allocated per report
// and never written after Aggregate returns.
type Report struct {
	Count int     `json:"count" yaml:"count"`
	Min   int     `json:"min" yaml:"min"`
	Max   int     `json:"max" yaml:"max"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Sum   float64 `json:"sum" yaml:"sum"`

	// Evens keeps the even values in their original order.
	Evens []int `json:"evens" yaml:"evens"`

	// AboveThreshold and AtOrBelowThreshold partition the input around Threshold,
	// each preserving original relative order.
	AboveThreshold     []int `json:"aboveThreshold" yaml:"aboveThreshold"`
	AtOrBelowThreshold []int `json:"atOrBelowThreshold" yaml:"atOrBelowThreshold"`
	Threshold          int   `json:"threshold" yaml:"threshold"`
}

// Summary is the descriptive-statistics view of a report.
type Summary struct {
	Count int     `json:"count" yaml:"count"`
	Sum   float64 `json:"sum" yaml:"sum"`
	Min   int     `json:"min" yaml:"min"`
	Max   int     `json:"max" yaml:"max"`
	Mean  float64 `json:"mean" yaml:"mean"`
}

// Describe derives the descriptive view from the report's own figures.
func (r Report) Describe() Summary {
	return Summary{
		Count: r.Count,
		Sum:   r.Sum,
		Min:   r.Min,
		Max:   r.Max,
		Mean:  r.Mean,
	}
}

// IsEmpty reports whether the report was computed over no values.
func (r Report) IsEmpty() bool {
	return r.Count == 0
}
