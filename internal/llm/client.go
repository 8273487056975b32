package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mythicalprogrammer/exRPG/internal/llm/provider"
	"github.com/mythicalprogrammer/exRPG/internal/metrics"
	"github.com/mythicalprogrammer/exRPG/internal/workout"
	"golang.org/x/sync/semaphore"
)

const DefaultTimeout = 120 * time.Second

// Client owns the provider for the life of the process. A nil provider is
// degraded mode: every request gets the unavailable fallback plan.
type Client struct {
	provider provider.Provider
	parallel int
	timeout  time.Duration
	logger   *slog.Logger

	sem *semaphore.Weighted
}

type LLMClientOption func(*Client)

func WithProvider(p provider.Provider) LLMClientOption {
	return func(c *Client) {
		c.provider = p
	}
}

// WithParallelism caps concurrent generations. llama.cpp slots are not
// assumed reentrant, so the default is 1.
func WithParallelism(n int) LLMClientOption {
	return func(c *Client) {
		c.parallel = n
	}
}

func WithTimeout(d time.Duration) LLMClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(l *slog.Logger) LLMClientOption {
	return func(c *Client) {
		c.logger = l
	}
}

func New(opts ...LLMClientOption) (*Client, error) {
	c := &Client{parallel: 1, timeout: DefaultTimeout, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}

	if c.parallel < 1 {
		return nil, fmt.Errorf("parallelism must be at least 1, got %d", c.parallel)
	}
	if c.timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %s", c.timeout)
	}
	if c.provider != nil {
		if err := c.provider.Validate(); err != nil {
			return nil, err
		}
	}
	c.sem = semaphore.NewWeighted(int64(c.parallel))

	if c.Available() {
		metrics.ModelAvailable.Set(1)
	} else {
		metrics.ModelAvailable.Set(0)
	}
	return c, nil
}

func (c *Client) Available() bool { return c.provider != nil }

// Generate builds the prompt, calls the provider and extracts a plan.
// Only a failed provider call (including timeout or cancellation) is an
// error; unusable output comes back as a fallback Result.
func (c *Client) Generate(ctx context.Context, req workout.WorkoutRequest) (workout.Result, error) {
	if c.provider == nil {
		res := workout.Unavailable()
		metrics.PlansTotal.WithLabelValues(res.Source.String()).Inc()
		return res, nil
	}

	prompt := BuildPrompt(req)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	out, err := c.generate(ctx, prompt)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationErrors.Inc()
		return workout.Result{}, err
	}
	c.logger.Debug("model output", "chars", len(out), "elapsed", time.Since(start))

	res := workout.Extract(out)
	if res.Fallback() {
		c.logger.Warn("model output unusable; serving fallback plan", "source", res.Source.String(), "error", res.Err)
	}
	metrics.PlansTotal.WithLabelValues(res.Source.String()).Inc()
	return res, nil
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("wait for model: %w", err)
	}
	defer c.sem.Release(1)

	out, err := c.provider.Generate(ctx, generationParams(prompt))
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out, nil
}

// Close releases the provider. The client must not be used afterwards.
func (c *Client) Close() error {
	if c.provider == nil {
		return nil
	}
	return c.provider.Close()
}
