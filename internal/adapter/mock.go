package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// MockAdapter returns simulated responses with a configurable delay.
// Used for development and testing without a real Ollama.
type MockAdapter struct {
	Delay     time.Duration
	Installed []string
}

func (m *MockAdapter) Name() string { return "Mock" }

func (m *MockAdapter) Models(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("mock: %w", err)
	}
	out := make([]string, len(m.Installed))
	copy(out, m.Installed)
	return out, nil
}

// Generate echoes the user text behind the marker, the way small models
// tend to restate the template before answering.
func (m *MockAdapter) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	start := time.Now()
	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return GenerationResult{}, fmt.Errorf("mock: %w", ctx.Err())
		}
	}

	text := strings.TrimSpace(req.User)
	if len(text) > 0 && text[0] >= 'a' && text[0] <= 'z' {
		text = strings.ToUpper(text[:1]) + text[1:]
	}
	return GenerationResult{
		Text:    "Optimized Prompt:\n" + text,
		Elapsed: time.Since(start),
	}, nil
}
