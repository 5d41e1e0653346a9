// Package output renders crunch results for the terminal.
//
// It provides the console Sink commands write to, and formatters for aggregate reports
// and command results in table, JSON and YAML form.
//
// # Basic Usage
//
//	sink := output.NewConsoleSink(os.Stdout, noColor)
//	formatter := output.NewFormatter(output.FormatTable, output.WithNoColor(noColor))
//
//	env := &command.Env{Sink: sink, Formatter: formatter, ...}
//
// # Grids
//
// Generated values are drawn by RenderGrid: a bordered table with a fixed number of
// columns, right aligned cells of a minimum width, and a blank padded last row.
//
// # Formatters
//
// Table Formatter:
//   - Borderless STATISTIC/VALUE rows for reports, followed by a descriptive statistics line
//   - COMMAND/KIND/STATUS/DURATION rows for results, with a summary line
//   - Wide mode adds the error column
//
// JSON and YAML formatters encode stats.Report directly and results as flat records.
//
// Report rendering depends only on the report, so rendering the same report twice
// produces identical output.
//
// # Color Support
//
// Colors are enabled only when the writer is a terminal and WithNoColor is not set.
package output
