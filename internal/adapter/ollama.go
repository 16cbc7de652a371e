package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is where a local Ollama listens by default.
const DefaultBaseURL = "http://localhost:11434"

// maxErrorBody bounds how much of a failed response is kept as detail.
const maxErrorBody = 4096

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
}

type ollamaTag struct {
	Name string `json:"name"`
}

type ollamaTagsResponse struct {
	Models []ollamaTag `json:"models"`
}

// OllamaGenerate talks to a local Ollama via the single-shot /api/generate.
type OllamaGenerate struct {
	BaseURL string
	Client  *http.Client
}

func (o *OllamaGenerate) Name() string { return "ollama (generate)" }

func (o *OllamaGenerate) Models(ctx context.Context) ([]string, error) {
	return listModels(ctx, o.Client, o.BaseURL)
}

func (o *OllamaGenerate) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	reqBody := ollamaGenerateRequest{
		Model:  req.Model,
		Prompt: req.Prompt,
		Stream: false,
	}

	var genResp ollamaGenerateResponse
	start := time.Now()
	if err := postJSON(ctx, o.Client, endpoint(o.BaseURL, "/api/generate"), reqBody, &genResp); err != nil {
		return GenerationResult{}, err
	}

	return GenerationResult{Text: genResp.Response, Elapsed: time.Since(start)}, nil
}

// OllamaChat talks to a local Ollama via /api/chat with a system and a user message.
type OllamaChat struct {
	BaseURL string
	Client  *http.Client
}

func (o *OllamaChat) Name() string { return "ollama (chat)" }

func (o *OllamaChat) Models(ctx context.Context) ([]string, error) {
	return listModels(ctx, o.Client, o.BaseURL)
}

func (o *OllamaChat) Generate(ctx context.Context, req GenerationRequest) (GenerationResult, error) {
	reqBody := ollamaChatRequest{
		Model: req.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Stream: false,
	}

	var chatResp ollamaChatResponse
	start := time.Now()
	if err := postJSON(ctx, o.Client, endpoint(o.BaseURL, "/api/chat"), reqBody, &chatResp); err != nil {
		return GenerationResult{}, err
	}

	return GenerationResult{Text: chatResp.Message.Content, Elapsed: time.Since(start)}, nil
}

func listModels(ctx context.Context, client *http.Client, baseURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(baseURL, "/api/tags"), nil)
	if err != nil {
		return nil, fmt.Errorf("ollama: create request: %w", err)
	}

	var tags ollamaTagsResponse
	if err := do(httpClient(client), req, &tags); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

func postJSON(ctx context.Context, client *http.Client, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return do(httpClient(client), req, out)
}

// do sends req once and decodes a 200 JSON body into out. Transport failures
// wrap ErrUnreachable; everything the backend answers with is a *BackendError.
func do(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama: %w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &BackendError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(detail))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if interrupted(req, err) {
			return fmt.Errorf("ollama: %w: read response: %v", ErrUnreachable, err)
		}
		return &BackendError{Status: resp.StatusCode, Detail: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// interrupted reports whether a body read failed because the client gave up
// (timeout or cancellation) rather than because the backend sent bad JSON.
func interrupted(req *http.Request, err error) bool {
	if req.Context().Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func endpoint(baseURL, path string) string {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/") + path
}

func httpClient(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}
