package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/aryankumar/crunch/internal/output"
	"github.com/spf13/cobra"
)

// newConfigCmd creates the config parent command
func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or initialize the crunch configuration",
	}

	cmd.AddCommand(newConfigViewCmd(opts))
	cmd.AddCommand(newConfigInitCmd(opts))

	return cmd
}

func newConfigViewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
CRUNCH_* environment variables and command-line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigView(opts, cmd.OutOrStdout())
		},
	}
}

func runConfigView(opts *rootOptions, w io.Writer) error {
	format := output.FormatYAML
	if opts.cfg.Display.Output == string(output.FormatJSON) {
		format = output.FormatJSON
	}
	return output.NewFormatter(format).Format(w, opts.cfg.Settings())
}

func newConfigInitCmd(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Long: `Write the effective configuration to the file given by --config,
or $HOME/.crunch.yaml when no file is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(opts, force, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	return cmd
}

func runConfigInit(opts *rootOptions, force bool, w io.Writer) error {
	if path := opts.cfgFile; path != "" && !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists, use --force to overwrite", path)
		}
	}

	opts.manager.SetConfig(opts.cfg)
	if err := opts.manager.Save(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Configuration written to %s\n", opts.manager.ConfigPath())
	return nil
}
