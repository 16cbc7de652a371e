package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mlorentedev/promptune/internal/adapter"
	"github.com/mlorentedev/promptune/internal/optimizer"
	"github.com/mlorentedev/promptune/internal/tone"
)

// stubBackend fails every call with err.
type stubBackend struct {
	err error
}

func (s *stubBackend) Name() string { return "stub" }
func (s *stubBackend) Models(ctx context.Context) ([]string, error) {
	return nil, s.err
}
func (s *stubBackend) Generate(ctx context.Context, req adapter.GenerationRequest) (adapter.GenerationResult, error) {
	return adapter.GenerationResult{}, s.err
}

func mockOptimizer(reg tone.Registry) *optimizer.Optimizer {
	return optimizer.New(&adapter.MockAdapter{Installed: []string{"mock"}}, reg, "mock")
}

func postOptimize(t *testing.T, h http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	var bodyBytes []byte
	switch b := body.(type) {
	case nil:
	case string:
		bodyBytes = []byte(b)
	default:
		var err error
		bodyBytes, err = json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/optimize", bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleOptimize(t *testing.T) {
	h := Optimize(mockOptimizer(tone.Catalog{}))

	tests := []struct {
		name      string
		body      any
		wantCode  int
		wantField string
		wantValue string
	}{
		{
			name:      "success",
			body:      optimizeRequest{Prompt: "write a haiku", Tone: "academic"},
			wantCode:  http.StatusOK,
			wantField: "optimized_prompt",
			wantValue: "Write a haiku",
		},
		{
			name:      "tone is case insensitive",
			body:      optimizeRequest{Prompt: "write a haiku", Tone: "Casual"},
			wantCode:  http.StatusOK,
			wantField: "optimized_prompt",
			wantValue: "Write a haiku",
		},
		{
			name:      "missing prompt",
			body:      optimizeRequest{Prompt: "", Tone: "casual"},
			wantCode:  http.StatusBadRequest,
			wantField: "error",
			wantValue: "Prompt is required.",
		},
		{
			name:      "blank prompt",
			body:      optimizeRequest{Prompt: "   ", Tone: "casual"},
			wantCode:  http.StatusBadRequest,
			wantField: "error",
			wantValue: "Prompt is required.",
		},
		{
			name:      "missing tone",
			body:      optimizeRequest{Prompt: "hello"},
			wantCode:  http.StatusBadRequest,
			wantField: "error",
			wantValue: "Tone is required.",
		},
		{
			name:      "invalid JSON",
			body:      "{invalid",
			wantCode:  http.StatusBadRequest,
			wantField: "error",
			wantValue: "invalid JSON body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postOptimize(t, h, tt.body)

			if w.Code != tt.wantCode {
				t.Errorf("status: got %d, want %d", w.Code, tt.wantCode)
			}

			var resp map[string]any
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			got, ok := resp[tt.wantField]
			if !ok {
				t.Fatalf("response missing field %q: %v", tt.wantField, resp)
			}
			if got != tt.wantValue {
				t.Errorf("%s: got %q, want %q", tt.wantField, got, tt.wantValue)
			}
		})
	}
}

func TestHandleOptimizeUnknownToneClosed(t *testing.T) {
	w := postOptimize(t, Optimize(mockOptimizer(tone.Catalog{})), optimizeRequest{Prompt: "hello", Tone: "pirate"})

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", w.Code, http.StatusBadRequest)
	}
	var resp errorResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !strings.Contains(resp.Error, "unknown tone") {
		t.Errorf("error: got %q, want mention of unknown tone", resp.Error)
	}
}

func TestHandleOptimizeFreeFormTone(t *testing.T) {
	w := postOptimize(t, Optimize(mockOptimizer(tone.FreeForm{})), optimizeRequest{Prompt: "hello", Tone: "pirate"})

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	var resp optimizeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Tone != "pirate" {
		t.Errorf("tone: got %q, want %q", resp.Tone, "pirate")
	}
	if resp.Model != "mock" {
		t.Errorf("model: got %q, want %q", resp.Model, "mock")
	}
	if resp.ElapsedMs < 0 {
		t.Errorf("elapsed_ms should be >= 0, got %d", resp.ElapsedMs)
	}
}

func TestHandleOptimizeBackendFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{
			name:    "unreachable",
			err:     fmt.Errorf("ollama: %w: dial tcp: connection refused", adapter.ErrUnreachable),
			wantMsg: "Could not connect to Ollama. Make sure it's running.",
		},
		{
			name:    "backend error",
			err:     &adapter.BackendError{Status: 500, Detail: "model not loaded"},
			wantMsg: "Ollama API error: model not loaded",
		},
		{
			name:    "other",
			err:     fmt.Errorf("boom"),
			wantMsg: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := optimizer.New(&stubBackend{err: tt.err}, tone.Catalog{}, "m")
			w := postOptimize(t, Optimize(opt), optimizeRequest{Prompt: "hello", Tone: "technical"})

			if w.Code != http.StatusInternalServerError {
				t.Errorf("status: got %d, want %d", w.Code, http.StatusInternalServerError)
			}
			var resp errorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Error != tt.wantMsg {
				t.Errorf("error: got %q, want %q", resp.Error, tt.wantMsg)
			}
		})
	}
}

func TestHandleOptimizeWrongMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/optimize", nil)
	w := httptest.NewRecorder()

	Optimize(mockOptimizer(tone.Catalog{})).ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status: got %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}

func TestHandleOptimizePromptTooLong(t *testing.T) {
	h := Optimize(mockOptimizer(tone.Catalog{}))

	t.Run("over limit", func(t *testing.T) {
		w := postOptimize(t, h, optimizeRequest{Prompt: strings.Repeat("a", maxPromptLength+1), Tone: "casual"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want %d", w.Code, http.StatusBadRequest)
		}
		var resp errorResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if !strings.Contains(resp.Error, "too long") {
			t.Errorf("error: got %q, want to contain 'too long'", resp.Error)
		}
	})

	t.Run("at limit counts runes", func(t *testing.T) {
		w := postOptimize(t, h, optimizeRequest{Prompt: strings.Repeat("é", maxPromptLength), Tone: "casual"})
		if w.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d", w.Code, http.StatusOK)
		}
	})
}

func TestHandleHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	Health(mockOptimizer(tone.Catalog{})).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	var resp healthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status: got %q, want %q", resp.Status, "ok")
	}
	if !resp.Reachable || !resp.ModelPresent {
		t.Errorf("readiness: got %+v", resp)
	}
	if resp.Backend != "Mock" {
		t.Errorf("backend: got %q, want %q", resp.Backend, "Mock")
	}
}

func TestHandleHealthDegraded(t *testing.T) {
	tests := []struct {
		name       string
		opt        *optimizer.Optimizer
		wantReason string
	}{
		{
			name:       "unreachable",
			opt:        optimizer.New(&stubBackend{err: fmt.Errorf("%w: refused", adapter.ErrUnreachable)}, tone.Catalog{}, "m"),
			wantReason: "Could not connect to Ollama. Make sure it's running.",
		},
		{
			name:       "model missing",
			opt:        optimizer.New(&adapter.MockAdapter{Installed: []string{"other"}}, tone.Catalog{}, "m"),
			wantReason: "model m not installed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			w := httptest.NewRecorder()

			Health(tt.opt).ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("status: got %d, want %d", w.Code, http.StatusOK)
			}
			var resp healthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Status != "degraded" {
				t.Errorf("status: got %q, want %q", resp.Status, "degraded")
			}
			if resp.Reason != tt.wantReason {
				t.Errorf("reason: got %q, want %q", resp.Reason, tt.wantReason)
			}
		})
	}
}

func TestHandleTones(t *testing.T) {
	tests := []struct {
		name     string
		reg      tone.Registry
		wantFree bool
	}{
		{"closed", tone.Catalog{}, false},
		{"free", tone.FreeForm{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/tones", nil)
			w := httptest.NewRecorder()

			Tones(tt.reg).ServeHTTP(w, req)

			var resp tonesResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.FreeForm != tt.wantFree {
				t.Errorf("free_form: got %v, want %v", resp.FreeForm, tt.wantFree)
			}
			if len(resp.Tones) != 5 {
				t.Fatalf("tones count: got %d, want 5", len(resp.Tones))
			}
			if resp.Tones[0].Tone != tone.Academic {
				t.Errorf("first tone: got %q, want %q", resp.Tones[0].Tone, tone.Academic)
			}
		})
	}
}
