package provider

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/openai/openai-go/v2"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8081"
	// llama-server accepts any bearer token unless started with --api-key.
	DefaultAPIKey = "sk-no-key-required"
)

var (
	ErrNoModelPath = errors.New("model path not set")
	ErrClosed      = errors.New("provider closed")
)

// Provider defines the minimal interface for text generation.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Validate() error
	Close() error
}

// GenerateRequest carries a raw prompt and sampling settings.
// Zero TopP, TopK or RepeatPenalty leave the server default.
type GenerateRequest struct {
	Prompt        string
	MaxTokens     int
	Temperature   float64
	TopP          float64
	TopK          int
	RepeatPenalty float64
	Stop          []string
}

// LlamaCppProvider generates with a GGUF model served by llama.cpp's
// llama-server through its OpenAI-compatible completions endpoint.
type LlamaCppProvider struct {
	modelPath  string
	baseURL    string
	apiKey     string
	httpClient *http.Client
	closed     atomic.Bool

	Client openai.Client
}

type LlamaCppProviderOption func(*LlamaCppProvider)

func WithModelPath(path string) LlamaCppProviderOption {
	return func(p *LlamaCppProvider) {
		p.modelPath = path
	}
}

func WithBaseURL(url string) LlamaCppProviderOption {
	return func(p *LlamaCppProvider) {
		p.baseURL = url
	}
}

func WithAPIKey(apiKey string) LlamaCppProviderOption {
	return func(p *LlamaCppProvider) {
		p.apiKey = apiKey
	}
}

// WithHTTPClient swaps the transport; tests point it at httptest servers.
func WithHTTPClient(c *http.Client) LlamaCppProviderOption {
	return func(p *LlamaCppProvider) {
		p.httpClient = c
	}
}
