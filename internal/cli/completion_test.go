package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// complete runs cobra's hidden completion command without descriptions
func complete(t *testing.T, args ...string) (candidates []string, directive string) {
	t.Helper()

	rootCmd := newRootCmd(&rootOptions{})
	// value completion must work without loading configuration
	rootCmd.PersistentPreRunE = nil

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{cobra.ShellCompNoDescRequestCmd}, args...))

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("completion failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	return lines[:len(lines)-1], lines[len(lines)-1]
}

func TestCompletion_OutputFormats(t *testing.T) {
	tests := []struct {
		name       string
		toComplete string
		want       []string
	}{
		{name: "all formats", toComplete: "", want: []string{"table", "json", "yaml"}},
		{name: "prefix", toComplete: "j", want: []string{"json"}},
		{name: "no match", toComplete: "xml", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, directive := complete(t, "aggregate", "--output", tt.toComplete)

			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("candidates = %v, want %v", got, tt.want)
			}
			if directive != ":4" {
				t.Errorf("directive = %q, want file completion disabled (:4)", directive)
			}
		})
	}
}

func TestCompletion_OutputFormatsHaveDescriptions(t *testing.T) {
	got, _ := completeOutputFormats(nil, nil, "")
	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %v", got)
	}
	for _, c := range got {
		name, desc, ok := strings.Cut(c, "\t")
		if !ok || desc == "" {
			t.Errorf("candidate %q has no description", c)
		}
		if name == "table" && !strings.Contains(desc, "table") {
			t.Errorf("unexpected table description %q", desc)
		}
	}
}

func TestCompletion_Workers(t *testing.T) {
	got, directive := complete(t, "run", "-w", "1")

	if strings.Join(got, ",") != "1,16" {
		t.Errorf("candidates = %v, want [1 16]", got)
	}
	if directive != ":4" {
		t.Errorf("directive = %q, want :4", directive)
	}
}

func TestCompletion_CommandsTakeNoFiles(t *testing.T) {
	for _, sub := range []string{"run", "aggregate"} {
		t.Run(sub, func(t *testing.T) {
			got, directive := complete(t, sub, "")
			if len(got) != 0 {
				t.Errorf("expected no candidates, got %v", got)
			}
			if directive != ":4" {
				t.Errorf("directive = %q, want :4", directive)
			}
		})
	}
}

func TestCompletion_Shells(t *testing.T) {
	got, _ := complete(t, "completion", "")
	if strings.Join(got, ",") != strings.Join(completionShells, ",") {
		t.Errorf("candidates = %v, want %v", got, completionShells)
	}
}

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell    string
		wantErr  string
		contains string
	}{
		{shell: "bash", contains: "__crunch_"},
		{shell: "zsh", contains: "#compdef crunch"},
		{shell: "fish", contains: "complete -c crunch"},
		{shell: "powershell", contains: "Register-ArgumentCompleter"},
		{shell: "tcsh", wantErr: "invalid argument"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			rootCmd := newRootCmd(&rootOptions{})
			out := &bytes.Buffer{}
			rootCmd.SetOut(out)
			rootCmd.SetErr(&bytes.Buffer{})
			rootCmd.SetArgs([]string{"completion", tt.shell})

			err := rootCmd.Execute()
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out.String(), tt.contains) {
				t.Errorf("%s script missing %q", tt.shell, tt.contains)
			}
		})
	}
}
