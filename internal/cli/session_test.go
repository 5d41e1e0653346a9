package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/aryankumar/crunch/internal/config"
	"github.com/aryankumar/crunch/internal/util"
)

func TestSession_RejectedSubmitShowsFriendlyError(t *testing.T) {
	cfg := config.Default()
	cfg.Display.NoColor = true

	var out bytes.Buffer
	s := newSession(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), &out)
	if err := s.start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.shutdown(false); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}

	err := s.submitAggregate()
	if !util.IsRejected(err) {
		t.Fatalf("expected rejection, got %v", err)
	}
	s.displayError(err)

	want := "Error: Command rejected: the executor is shutting down.\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if strings.Contains(out.String(), "aggregate command") {
		t.Errorf("raw command error leaked to the user: %q", out.String())
	}
}

func TestSession_ShutdownIdleWithZeroTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.Display.NoColor = true
	cfg.Executor.ShutdownTimeout = 0

	var out bytes.Buffer
	s := newSession(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), &out)
	if err := s.start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := s.shutdown(true); err != nil {
		t.Fatalf("idle session must shut down cleanly, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no warning, got %q", out.String())
	}
}
