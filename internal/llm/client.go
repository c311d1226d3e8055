package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/alexanderramin/kurikula/internal/schema"
	"golang.org/x/time/rate"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Schema       *schema.Schema // non-nil switches the back end to structured output
	Temperature  *float64       // nil uses task default
	MaxTokens    *int           // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the model endpoint is reachable.
	Available(ctx context.Context) bool
}

// NewClient builds the LLMClient selected by cfg.Provider.
func NewClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(cfg, observer), nil
	case ProviderOllama:
		return NewOllamaClient(cfg, observer), nil
	case ProviderLangchain:
		return NewLangchainClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// sampling resolves temperature and token limit for a request.
func sampling(cfg LLMConfig, req GenerateRequest) (float64, int) {
	taskCfg := cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}

// invoke runs call once, or up to 1+MaxRetries times for transient failures,
// applying the task deadline and reporting the outcome to observer.
// A non-nil gate is waited on before every attempt, retries included.
func invoke(ctx context.Context, cfg LLMConfig, gate *rate.Limiter, observer Observer, req GenerateRequest, call func(ctx context.Context) (*GenerateResponse, error)) (*GenerateResponse, error) {
	start := time.Now()

	if timeout := cfg.TaskTimeout(req.Task); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	attempts := 1 + cfg.MaxRetries
	backoff := cfg.retryBackoff()

	var lastErr error
	made := 0
	for i := 0; i < attempts; i++ {
		if err := waitGate(ctx, gate); err != nil {
			lastErr = err
			break
		}
		made++
		resp, err := call(ctx)
		if err == nil {
			resp.LatencyMs = time.Since(start).Milliseconds()
			if resp.Model == "" {
				resp.Model = cfg.Model
			}
			event := callEvent(cfg, req, made)
			event.Latency = time.Since(start)
			event.ReplyChars = len(resp.Text)
			observer.OnCallComplete(event)
			return resp, nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout or permanent failures.
		if ctx.Err() != nil || !isTransient(err) || i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > 10*time.Second {
			backoff = 10 * time.Second
		}
	}

	err := classify(ctx, lastErr, made, attempts)
	event := callEvent(cfg, req, made)
	event.Latency = time.Since(start)
	event.ErrorCode = errorCode(err)
	observer.OnCallComplete(event)
	return nil, err
}

// waitGate blocks until the rate limiter admits one request. A wait that
// cannot finish before the deadline is reported as ErrTimeout.
func waitGate(ctx context.Context, gate *rate.Limiter) error {
	if gate == nil {
		return nil
	}
	err := gate.Wait(ctx)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func callEvent(cfg LLMConfig, req GenerateRequest, attempts int) CallEvent {
	return CallEvent{
		Task:        req.Task,
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		Structured:  req.Schema != nil,
		PromptChars: len(req.SystemPrompt) + len(req.UserPrompt),
		Attempts:    attempts,
	}
}

func classify(ctx context.Context, err error, made, attempts int) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("llm request cancelled: %w", ctxErr)
	}
	if isConnectionError(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if attempts > 1 && made == attempts {
		return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
	}
	return err
}

func isTransient(err error) bool {
	if isConnectionError(err) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Transient()
	}
	return false
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrMissingAPIKey):
		return "NO_API_KEY"
	case errors.Is(err, ErrBlocked):
		return "BLOCKED"
	case errors.As(err, &httpErr):
		return fmt.Sprintf("HTTP_%d", httpErr.StatusCode)
	default:
		return "UNKNOWN"
	}
}
