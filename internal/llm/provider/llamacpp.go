package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

func NewLlamaCppProvider(opts ...LlamaCppProviderOption) (*LlamaCppProvider, error) {
	p := &LlamaCppProvider{baseURL: DefaultBaseURL, apiKey: DefaultAPIKey}
	for _, opt := range opts {
		opt(p)
	}
	if p.httpClient == nil {
		p.httpClient = &http.Client{}
	}
	p.baseURL = strings.TrimRight(p.baseURL, "/")
	if !strings.HasPrefix(p.baseURL, "http://") && !strings.HasPrefix(p.baseURL, "https://") {
		return nil, fmt.Errorf("llamacpp: base url %q must be http(s)", p.baseURL)
	}

	// Generation is never retried; a failed call surfaces to the caller.
	p.Client = openai.NewClient(
		option.WithBaseURL(p.baseURL+"/v1/"),
		option.WithAPIKey(p.apiKey),
		option.WithHTTPClient(p.httpClient),
		option.WithMaxRetries(0),
	)
	return p, nil
}

// Model is the name sent with each completion. llama-server serves a single
// model and only echoes it back.
func (p *LlamaCppProvider) Model() string {
	if p.modelPath == "" {
		return ""
	}
	return filepath.Base(p.modelPath)
}

// Validate checks that the model file exists and is a regular file.
func (p *LlamaCppProvider) Validate() error {
	if strings.TrimSpace(p.modelPath) == "" {
		return ErrNoModelPath
	}
	fi, err := os.Stat(p.modelPath)
	if err != nil {
		return fmt.Errorf("model file: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("model file %s is a directory", p.modelPath)
	}
	return nil
}

// Ping waits for llama-server to report healthy. It returns 503 while the
// model is still loading, which is retried up to retries times.
func (p *LlamaCppProvider) Ping(ctx context.Context, retries int, logger *slog.Logger) error {
	h := retryablehttp.NewClient()
	h.HTTPClient = p.httpClient
	h.RetryMax = retries
	h.Logger = nil
	if logger != nil {
		h.Logger = logger
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := h.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 300 {
		return fmt.Errorf("llamacpp: health status %d", resp.StatusCode)
	}
	return nil
}

func (p *LlamaCppProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if p.closed.Load() {
		return "", ErrClosed
	}
	params := openai.CompletionNewParams{
		Model:       openai.CompletionNewParamsModel(p.Model()),
		Prompt:      openai.CompletionNewParamsPromptUnion{OfString: openai.String(req.Prompt)},
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Temperature: openai.Float(req.Temperature),
	}
	if len(req.Stop) > 0 {
		params.Stop = openai.CompletionNewParamsStopUnion{OfStringArray: req.Stop}
	}
	if req.TopP > 0 {
		params.TopP = openai.Float(req.TopP)
	}
	// llama.cpp sampling knobs outside the OpenAI schema.
	var extra []option.RequestOption
	if req.TopK > 0 {
		extra = append(extra, option.WithJSONSet("top_k", req.TopK))
	}
	if req.RepeatPenalty > 0 {
		extra = append(extra, option.WithJSONSet("repeat_penalty", req.RepeatPenalty))
	}

	completion, err := p.Client.Completions.New(ctx, params, extra...)
	if err != nil {
		return "", fmt.Errorf("llamacpp: completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("llamacpp: empty response choices")
	}
	return completion.Choices[0].Text, nil
}

func (p *LlamaCppProvider) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	p.httpClient.CloseIdleConnections()
	return nil
}
