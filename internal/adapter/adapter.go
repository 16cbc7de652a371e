package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnreachable means the backend could not be contacted or did not answer
// in time (connection refused, DNS failure, timeout while sending or reading).
var ErrUnreachable = errors.New("backend unreachable")

// BackendError is returned when the backend answered with a non-200 status
// or a payload that could not be decoded.
type BackendError struct {
	Status int
	Detail string
}

func (e *BackendError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("backend error: %s", e.Detail)
	}
	return fmt.Sprintf("backend error (status %d): %s", e.Status, e.Detail)
}

// Backend defines the contract for an inference server.
type Backend interface {
	Name() string
	// Models lists the identifiers of the installed models.
	Models(ctx context.Context) ([]string, error)
	Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error)
}

// GenerationRequest carries one generation call. Prompt is the composed flat
// instruction text; System and User are the same content split for
// chat-shaped backends.
type GenerationRequest struct {
	Model  string
	Prompt string
	System string
	User   string
}

// GenerationResult is the raw backend output.
type GenerationResult struct {
	Text    string
	Elapsed time.Duration
}

// Kind selects a Backend implementation.
type Kind string

const (
	KindGenerate Kind = "generate"
	KindChat     Kind = "chat"
	KindMock     Kind = "mock"
)

// New builds the backend for kind. model only matters to the mock, which
// reports it as installed.
func New(kind Kind, baseURL, model string, client *http.Client) (Backend, error) {
	switch kind {
	case KindGenerate, "":
		return &OllamaGenerate{BaseURL: baseURL, Client: client}, nil
	case KindChat:
		return &OllamaChat{BaseURL: baseURL, Client: client}, nil
	case KindMock:
		return &MockAdapter{Delay: 500 * time.Millisecond, Installed: []string{model}}, nil
	default:
		return nil, fmt.Errorf("adapter: unsupported backend %q", kind)
	}
}
