package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

const menu = "Options: 1) generate  2) aggregate  3) quit"

type choice int

const (
	choiceNone choice = iota
	choiceGenerate
	choiceAggregate
	choiceQuit
	choiceUnknown
)

// parseChoice maps a line of input to a menu choice
func parseChoice(line string) choice {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return choiceNone
	case "1", "g", "generate":
		return choiceGenerate
	case "2", "a", "aggregate":
		return choiceAggregate
	case "3", "q", "quit", "exit":
		return choiceQuit
	default:
		return choiceUnknown
	}
}

// newRunCmd creates the interactive run command
func newRunCmd(opts *rootOptions) *cobra.Command {
	var noGenerate bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the interactive generate/aggregate loop",
		Long: `Start an interactive session reading one choice per line from stdin.

  1 | generate    replace the dataset with freshly generated numbers
  2 | aggregate   run the parallel aggregation and print the report
  3 | quit        finish queued commands and exit

A dataset is generated once at startup. Commands run asynchronously on the
executor's workers; output is printed as each command completes. On SIGINT or
SIGTERM queued commands are discarded and running ones get the shutdown grace
period to finish.`,
		Example: `  # Interactive session with 4 workers
  crunch run -w 4

  # Scripted session
  printf '2\n1\n2\n3\n' | crunch run --no-color`,
		Args:              cobra.NoArgs,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), !noGenerate)
		},
	}

	cmd.Flags().BoolVar(&noGenerate, "no-generate", false, "skip generating a dataset at startup")

	return cmd
}

func runInteractive(ctx context.Context, opts *rootOptions, in io.Reader, out io.Writer, autoGenerate bool) error {
	s := newSession(opts.cfg, opts.logger, out)
	if err := s.start(ctx); err != nil {
		return err
	}

	s.sink.Display(menu)

	if autoGenerate {
		if err := s.submitGenerate(); err != nil {
			s.displayError(err)
		}
	}

	done := make(chan struct{})
	defer close(done)
	lines := readLines(in, done)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("interrupted, shutting down")
			return s.shutdown(false)

		case line, ok := <-lines:
			if !ok {
				// EOF behaves like quit
				return s.shutdown(true)
			}

			var err error
			switch parseChoice(line) {
			case choiceNone:
				continue
			case choiceGenerate:
				err = s.submitGenerate()
			case choiceAggregate:
				err = s.submitAggregate()
			case choiceQuit:
				return s.shutdown(true)
			default:
				s.sink.Display(fmt.Sprintf("Unknown option %q.", strings.TrimSpace(line)))
				s.sink.Display(menu)
			}

			if err != nil {
				s.displayError(err)
			}
		}
	}
}

// readLines feeds lines from r into the returned channel until EOF or done is closed.
// A read blocked on r outlives done; the goroutine exits on its next line.
func readLines(r io.Reader, done <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()
	return lines
}
