package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/mlorentedev/promptune/internal/adapter"
	"github.com/mlorentedev/promptune/internal/optimizer"
	"github.com/mlorentedev/promptune/internal/tone"
)

const maxPromptLength = 10000

type optimizeRequest struct {
	Prompt string `json:"prompt"`
	Tone   string `json:"tone"`
}

type optimizeResponse struct {
	OptimizedPrompt string `json:"optimized_prompt"`
	Tone            string `json:"tone"`
	Model           string `json:"model"`
	ElapsedMs       int64  `json:"elapsed_ms"`
}

// Optimize serves POST /optimize. The readiness check is not a precondition
// here; a down backend surfaces as a 500 from the call itself.
func Optimize(opt *optimizer.Optimizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req optimizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		prompt := strings.TrimSpace(req.Prompt)
		t := strings.TrimSpace(req.Tone)
		if prompt == "" {
			writeError(w, http.StatusBadRequest, "Prompt is required.")
			return
		}
		if t == "" {
			writeError(w, http.StatusBadRequest, "Tone is required.")
			return
		}
		if n := utf8.RuneCountInString(prompt); n > maxPromptLength {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("prompt too long: %d characters (max %d)", n, maxPromptLength))
			return
		}

		res, err := opt.Optimize(r.Context(), prompt, tone.Tone(t))
		if err != nil {
			code, msg := classify(err)
			writeError(w, code, msg)
			return
		}

		writeJSON(w, http.StatusOK, optimizeResponse{
			OptimizedPrompt: res.Text,
			Tone:            string(res.Tone),
			Model:           res.Model,
			ElapsedMs:       res.Elapsed.Milliseconds(),
		})
	}
}

// classify maps optimizer and backend errors to a status code and message.
func classify(err error) (int, string) {
	var be *adapter.BackendError
	switch {
	case errors.Is(err, optimizer.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, adapter.ErrUnreachable):
		return http.StatusInternalServerError, "Could not connect to Ollama. Make sure it's running."
	case errors.As(err, &be):
		return http.StatusInternalServerError, "Ollama API error: " + be.Detail
	default:
		return http.StatusInternalServerError, err.Error()
	}
}
