package cli

import (
	"fmt"
	"io"

	"github.com/aryankumar/crunch/pkg/version"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for the Crunch CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd, cmd.OutOrStdout())
		},
	}

	return cmd
}

func runVersion(cmd *cobra.Command, w io.Writer) error {
	info := version.Get()
	outputFormat, _ := cmd.Flags().GetString("output")

	switch outputFormat {
	case "json":
		return outputJSON(w, info)
	case "yaml":
		return outputYAML(w, info)
	case "table":
		return outputTable(w, info)
	default:
		// Default to human-readable format
		fmt.Fprintln(w, info.String())
		return nil
	}
}

func outputJSON(w io.Writer, info version.Info) error {
	data, err := info.JSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, data)
	return nil
}

func outputYAML(w io.Writer, info version.Info) error {
	data, err := info.YAML()
	if err != nil {
		return err
	}
	fmt.Fprint(w, data)
	return nil
}

func outputTable(w io.Writer, info version.Info) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"COMPONENT", "VALUE"})
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk([][]string{
		{"Version", info.Version},
		{"Commit", info.Commit},
		{"Build Time", info.BuildTime},
		{"Go Version", info.GoVersion},
		{"Platform", info.Platform},
	})
	table.Render()
	return nil
}
