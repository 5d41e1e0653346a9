package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aryankumar/crunch/internal/output"
	"github.com/spf13/cobra"
)

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// formatDescriptions is shown next to each --output candidate
var formatDescriptions = map[output.Format]string{
	output.FormatTable: "statistics table with a descriptive summary line",
	output.FormatJSON:  "report as indented JSON",
	output.FormatYAML:  "report as YAML",
}

// workerSuggestions are offered for --workers; any value from 1 to 64 is accepted
var workerSuggestions = []int{1, 2, 4, 8, 16}

// newCompletionCmd creates the completion command for generating shell completions
func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for crunch.

Besides subcommands, the script completes report formats for --output, common
pool sizes for --workers and YAML files for --config.

  $ source <(crunch completion bash)
  $ crunch completion zsh > "${fpath[1]}/_crunch"
  $ crunch completion fish | source
  PS> crunch completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		// Completion scripts must not depend on a readable config file
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompletion(cmd, args[0])
		},
	}

	return cmd
}

// runCompletion writes the completion script for shell
func runCompletion(cmd *cobra.Command, shell string) error {
	w := cmd.OutOrStdout()
	root := cmd.Root()

	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return fmt.Errorf("unsupported shell type %q", shell)
	}
}

// registerCompletions attaches value completion to the root's persistent flags
func registerCompletions(root *cobra.Command) error {
	if err := root.RegisterFlagCompletionFunc("output", completeOutputFormats); err != nil {
		return err
	}
	if err := root.RegisterFlagCompletionFunc("workers", completeWorkers); err != nil {
		return err
	}
	return root.MarkPersistentFlagFilename("config", "yaml", "yml")
}

func completeOutputFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, f := range output.Formats() {
		if strings.HasPrefix(string(f), strings.ToLower(toComplete)) {
			out = append(out, string(f)+"\t"+formatDescriptions[f])
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeWorkers(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, n := range workerSuggestions {
		s := strconv.Itoa(n)
		if strings.HasPrefix(s, toComplete) {
			out = append(out, s)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
