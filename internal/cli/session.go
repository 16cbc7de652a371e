// Package cli runs the interactive terminal flow: check the backend, ask for a
// prompt and a tone, print the optimized prompt.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mlorentedev/promptune/internal/adapter"
	"github.com/mlorentedev/promptune/internal/optimizer"
	"github.com/mlorentedev/promptune/internal/tone"
)

// ErrNotReady is returned when the backend is down or the model is missing.
var ErrNotReady = errors.New("backend not ready")

// Session is one interactive run over In and Out.
type Session struct {
	Optimizer *optimizer.Optimizer
	In        io.Reader
	Out       io.Writer
}

// Run performs the readiness check and, only if it passes, a single
// optimization.
func (s *Session) Run(ctx context.Context) error {
	if err := s.Check(ctx); err != nil {
		return err
	}

	sc := bufio.NewScanner(s.In)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	prompt, err := s.ask(sc, "Enter a prompt to optimize: ")
	if err != nil {
		return err
	}

	reg := s.Optimizer.Tones()
	fmt.Fprintln(s.Out, "\nSelect the tone for optimization:")
	for _, e := range tone.Entries(reg) {
		fmt.Fprintf(s.Out, "- %s: %s\n", title(string(e.Tone)), e.Instruction)
	}

	choice, err := s.ask(sc, fmt.Sprintf("\nEnter your choice (%s): ", choiceList(reg)))
	if err != nil {
		return err
	}

	fmt.Fprint(s.Out, "\n🤖 Optimizing your prompt...\n\n")
	res, err := s.Optimizer.Optimize(ctx, prompt, tone.Tone(choice))
	if err != nil {
		fmt.Fprintf(s.Out, "❌ %s\n", describe(err))
		return err
	}

	fmt.Fprintf(s.Out, "⏳ Optimization Time: %.2f sec\n\nOptimized Prompt:\n%s\n", res.Elapsed.Seconds(), res.Text)
	return nil
}

// Check prints the connectivity status and fails unless the configured model
// is installed.
func (s *Session) Check(ctx context.Context) error {
	st := s.Optimizer.CheckReady(ctx)
	if !st.Reachable {
		fmt.Fprintf(s.Out, "❌ %s\n", describe(st.Err))
		return fmt.Errorf("%w: %w", ErrNotReady, st.Err)
	}

	fmt.Fprintln(s.Out, "✅ Connected to Ollama successfully!")
	fmt.Fprintf(s.Out, "Available models: %s\n", strings.Join(st.Models, ", "))

	if !st.ModelPresent {
		fmt.Fprintf(s.Out, "❌ Model '%s' not found. Install it with 'ollama pull %s'.\n", st.Model, st.Model)
		return fmt.Errorf("%w: model %q not installed", ErrNotReady, st.Model)
	}
	return nil
}

func (s *Session) ask(sc *bufio.Scanner, question string) (string, error) {
	fmt.Fprint(s.Out, question)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("cli: read input: %w", err)
		}
		return "", fmt.Errorf("cli: read input: %w", io.ErrUnexpectedEOF)
	}
	return strings.TrimSpace(sc.Text()), nil
}

func describe(err error) string {
	var be *adapter.BackendError
	switch {
	case errors.Is(err, adapter.ErrUnreachable):
		return "Ollama server is not running. Start it with 'ollama serve'."
	case errors.As(err, &be):
		return "Error: " + be.Detail
	case errors.Is(err, optimizer.ErrInvalidInput):
		return "Invalid input: " + strings.TrimPrefix(err.Error(), optimizer.ErrInvalidInput.Error()+": ")
	default:
		return err.Error()
	}
}

func choiceList(reg tone.Registry) string {
	names := make([]string, 0, 5)
	for _, t := range reg.Tones() {
		names = append(names, string(t))
	}
	list := strings.Join(names, "/")
	if _, free := reg.(tone.FreeForm); free {
		list += " or any tone"
	}
	return list
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
