// Package optimizer turns a prompt and a tone into a backend generation
// request and cleans the model output into the optimized prompt.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mlorentedev/promptune/internal/adapter"
	"github.com/mlorentedev/promptune/internal/metrics"
	"github.com/mlorentedev/promptune/internal/tone"
)

// Marker ends the composed instruction and anchors output cleanup.
const Marker = "Optimized Prompt:"

const (
	separator      = "\n\n"
	originalPrefix = "Original Prompt: "
	thinkOpen      = "<think>"
	thinkClose     = "</think>"
)

// ErrInvalidInput is returned for a blank prompt or a rejected tone, before
// any backend call.
var ErrInvalidInput = errors.New("invalid input")

// Result is the cleaned backend answer.
type Result struct {
	Text    string
	Tone    tone.Tone
	Model   string
	Elapsed time.Duration
}

// Optimizer is safe for concurrent use; it holds no mutable state.
type Optimizer struct {
	backend adapter.Backend
	tones   tone.Registry
	model   string
}

func New(backend adapter.Backend, tones tone.Registry, model string) *Optimizer {
	return &Optimizer{backend: backend, tones: tones, model: model}
}

func (o *Optimizer) Model() string            { return o.model }
func (o *Optimizer) Tones() tone.Registry     { return o.tones }
func (o *Optimizer) Backend() adapter.Backend { return o.backend }

// Request validates the input and builds the generation request for it.
func (o *Optimizer) Request(prompt string, t tone.Tone) (adapter.GenerationRequest, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return adapter.GenerationRequest{}, fmt.Errorf("%w: prompt is required", ErrInvalidInput)
	}
	instruction, err := o.tones.Instruction(t)
	if err != nil {
		return adapter.GenerationRequest{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return adapter.GenerationRequest{
		Model:  o.model,
		Prompt: Compose(instruction, prompt),
		System: instruction,
		User:   prompt,
	}, nil
}

// Optimize rewrites prompt in the requested tone. Backend errors are returned
// as-is so callers can classify them with errors.Is and errors.As.
func (o *Optimizer) Optimize(ctx context.Context, prompt string, t tone.Tone) (Result, error) {
	req, err := o.Request(prompt, t)
	if err != nil {
		metrics.OptimizeErrors.WithLabelValues(Kind(err)).Inc()
		return Result{}, err
	}
	metrics.InputChars.Observe(float64(utf8.RuneCountInString(req.User)))

	res, err := o.backend.Generate(ctx, req)
	if err != nil {
		kind := Kind(err)
		metrics.OptimizeErrors.WithLabelValues(kind).Inc()
		slog.Warn("optimize failed",
			"backend", o.backend.Name(),
			"model", o.model,
			"tone", string(t),
			"kind", kind,
			"error", err,
		)
		return Result{}, err
	}
	metrics.OptimizeDuration.WithLabelValues(toneLabel(t)).Observe(res.Elapsed.Seconds())

	return Result{
		Text:    Clean(res.Text),
		Tone:    t,
		Model:   o.model,
		Elapsed: res.Elapsed,
	}, nil
}

// Compose builds the flat instruction text sent to the backend.
func Compose(instruction, prompt string) string {
	return instruction + separator + originalPrefix + prompt + separator + Marker
}

// Clean trims raw model output and keeps only what follows the last Marker,
// so a restated template never leaks back to the caller. A reasoning block
// is dropped first, but only when the output opens with <think> and the block
// is closed; a </think> anywhere else is ordinary text.
func Clean(raw string) string {
	text := strings.TrimSpace(raw)
	if strings.HasPrefix(text, thinkOpen) {
		if i := strings.Index(text, thinkClose); i >= 0 {
			text = text[i+len(thinkClose):]
		}
	}
	if i := strings.LastIndex(text, Marker); i >= 0 {
		text = text[i+len(Marker):]
	}
	return strings.TrimSpace(text)
}

// Kind classifies err for metrics and logs.
func Kind(err error) string {
	var be *adapter.BackendError
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, adapter.ErrUnreachable):
		return "unreachable"
	case errors.As(err, &be):
		return "backend"
	default:
		return "other"
	}
}

// toneLabel keeps metric cardinality bounded when free-form tones are on.
func toneLabel(t tone.Tone) string {
	n := tone.Normalize(t)
	if slices.Contains(tone.Catalog{}.Tones(), n) {
		return string(n)
	}
	return "custom"
}
