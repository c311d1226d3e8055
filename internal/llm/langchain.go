package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"golang.org/x/time/rate"
)

// langchainClient implements LLMClient on top of a langchaingo model. The
// default model is the googleai Gemini client, built on first use so a missing
// key only fails the first call.
type langchainClient struct {
	cfg      LLMConfig
	gate     *rate.Limiter
	observer Observer

	mu    sync.Mutex
	model llms.Model
}

// NewLangchainClient creates an LLMClient backed by langchaingo's googleai provider.
func NewLangchainClient(cfg LLMConfig, observer Observer) LLMClient {
	return newLangchainClient(cfg, observer, nil)
}

// NewLangchainClientWithModel wraps an already constructed langchaingo model.
func NewLangchainClientWithModel(cfg LLMConfig, observer Observer, model llms.Model) LLMClient {
	return newLangchainClient(cfg, observer, model)
}

func newLangchainClient(cfg LLMConfig, observer Observer, model llms.Model) *langchainClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.Provider = ProviderLangchain
	return &langchainClient{cfg: cfg, gate: cfg.newGate(), observer: observer, model: model}
}

func (c *langchainClient) resolveModel(ctx context.Context) (llms.Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.model != nil {
		return c.model, nil
	}
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	opts := []googleai.Option{googleai.WithAPIKey(c.cfg.APIKey)}
	if c.cfg.Model != "" {
		opts = append(opts, googleai.WithDefaultModel(c.cfg.Model))
	}
	model, err := googleai.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating googleai client: %w", err)
	}
	c.model = model
	return model, nil
}

func (c *langchainClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	messages, err := c.buildMessages(req)
	if err != nil {
		return nil, err
	}
	opts := c.buildCallOptions(req)

	return invoke(ctx, c.cfg, c.gate, c.observer, req, func(ctx context.Context) (*GenerateResponse, error) {
		model, err := c.resolveModel(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := model.GenerateContent(ctx, messages, opts...)
		if err != nil {
			return nil, err
		}
		if resp == nil || len(resp.Choices) == 0 {
			return nil, fmt.Errorf("%w: no choices", ErrBlocked)
		}
		return &GenerateResponse{Text: resp.Choices[0].Content}, nil
	})
}

// buildMessages inlines the schema into the system message since JSON mode
// alone does not constrain the shape.
func (c *langchainClient) buildMessages(req GenerateRequest) ([]llms.MessageContent, error) {
	system := req.SystemPrompt
	if req.Schema != nil {
		raw, err := json.MarshalIndent(req.Schema.Map(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling schema: %w", err)
		}
		var b strings.Builder
		b.WriteString(system)
		if system != "" {
			b.WriteString("\n\n")
		}
		b.WriteString("Respond with JSON only, conforming to this JSON schema:\n")
		b.Write(raw)
		system = b.String()
	}

	var messages []llms.MessageContent
	if system != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, system))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.UserPrompt))
	return messages, nil
}

func (c *langchainClient) buildCallOptions(req GenerateRequest) []llms.CallOption {
	temp, maxTok := sampling(c.cfg, req)
	opts := []llms.CallOption{llms.WithTemperature(temp)}
	if maxTok > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTok))
	}
	if c.cfg.Model != "" {
		opts = append(opts, llms.WithModel(c.cfg.Model))
	}
	if req.Schema != nil {
		opts = append(opts, llms.WithJSONMode())
	}
	return opts
}

func (c *langchainClient) Available(ctx context.Context) bool {
	_, err := c.resolveModel(ctx)
	return err == nil
}
