package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aryankumar/crunch/internal/executor"
	"github.com/aryankumar/crunch/internal/stats"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats output as a borderless table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case stats.Report:
		return f.FormatReport(w, v)
	case []executor.Result:
		return f.FormatResults(w, v)
	case executor.Summary:
		_, err := fmt.Fprintln(w, v.String())
		return err
	case string:
		_, err := fmt.Fprintln(w, v)
		return err
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// FormatReport outputs an aggregate report as STATISTIC/VALUE rows followed by the
// descriptive statistics line
func (f *TableFormatter) FormatReport(w io.Writer, report stats.Report) error {
	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	if !f.options.NoHeaders {
		table.SetHeader(colors.headers("STATISTIC", "VALUE"))
	}

	threshold := strconv.Itoa(report.Threshold)
	table.AppendBulk([][]string{
		{"count", strconv.Itoa(report.Count)},
		{"min", strconv.Itoa(report.Min)},
		{"max", strconv.Itoa(report.Max)},
		{"mean", stats.FormatMean(report.Mean)},
		{"sum", formatFloat(report.Sum)},
		{"evens", formatInts(report.Evens)},
		{"above " + threshold, formatInts(report.AboveThreshold)},
		{"at or below " + threshold, formatInts(report.AtOrBelowThreshold)},
	})
	table.Render()

	d := report.Describe()
	_, err := fmt.Fprintf(w, "\n%s count=%d sum=%s min=%d max=%d mean=%s\n",
		colors.Title("Descriptive statistics:"),
		d.Count, formatFloat(d.Sum), d.Min, d.Max, stats.FormatMean(d.Mean))
	return err
}

// FormatResults outputs executed command results as a table with a summary line
func (f *TableFormatter) FormatResults(w io.Writer, results []executor.Result) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No results")
		return err
	}

	colors := NewColorScheme(w, f.options.NoColor)
	table := f.createTable(w)

	headers := []string{"COMMAND", "KIND", "STATUS", "DURATION"}
	if f.options.Wide {
		headers = append(headers, "ERROR")
	}
	if !f.options.NoHeaders {
		table.SetHeader(colors.headers(headers...))
	}

	for _, result := range results {
		table.Append(f.formatResultRow(result, colors))
	}
	table.Render()

	f.printSummary(w, results, colors)
	return nil
}

// formatResultRow formats a single result as a table row
func (f *TableFormatter) formatResultRow(result executor.Result, colors *ColorScheme) []string {
	id := result.CommandID
	if len(id) > 8 {
		id = id[:8]
	}

	status := "Success"
	if result.Error != nil {
		status = "Failed"
	}

	row := []string{
		colors.Title(id),
		result.Kind.String(),
		colors.StatusColor(result.Error != nil)(status),
		colors.Duration(result.Duration.String()),
	}

	if f.options.Wide {
		errText := ""
		if result.Error != nil {
			errText = result.Error.Error()
			if len(errText) > 60 {
				errText = errText[:57] + "..."
			}
		}
		row = append(row, errText)
	}

	return row
}

// createTable creates a new borderless, tab separated table
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	return table
}

// printSummary prints a summary of the results
func (f *TableFormatter) printSummary(w io.Writer, results []executor.Result, colors *ColorScheme) {
	summary := executor.Summarize(results)

	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Summary: ")

	successText := colors.Success("%d successful", summary.Successful)

	failedText := fmt.Sprintf("%d failed", summary.Failed)
	if summary.Failed > 0 {
		failedText = colors.Error("%s", failedText)
	}

	durationText := colors.Duration("avg=%s", summary.AvgDuration.Round(1000))

	fmt.Fprintf(w, "%s, %s, %s\n", successText, failedText, durationText)
}
