package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// RenderGrid draws values row by row in a bordered grid of the given number of columns.
// Cells are right aligned and at least cellWidth wide; the last row is padded with blanks.
func RenderGrid(w io.Writer, values []int, columns, cellWidth int) {
	if len(values) == 0 {
		fmt.Fprintln(w, "(no values)")
		return
	}
	if columns <= 0 {
		columns = 1
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for col := 0; col < columns; col++ {
		table.SetColMinWidth(col, cellWidth)
	}

	for start := 0; start < len(values); start += columns {
		row := make([]string, columns)
		for col := range row {
			if i := start + col; i < len(values) {
				row[col] = strconv.Itoa(values[i])
			}
		}
		table.Append(row)
	}
	table.Render()
}
