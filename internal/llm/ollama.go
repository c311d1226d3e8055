package llm

import (
	"context"

	"golang.org/x/time/rate"
)

// ollamaClient serves Generate from a local Ollama daemon via /api/generate.
type ollamaClient struct {
	cfg      LLMConfig
	gate     *rate.Limiter
	api      *restEndpoint
	observer Observer
}

// NewOllamaClient talks to an Ollama instance. A Gemini endpoint left over
// in cfg is replaced by the local default. Structured requests pass the
// schema as Ollama's "format" constraint.
func NewOllamaClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Endpoint == "" || cfg.Endpoint == DefaultGeminiEndpoint {
		cfg.Endpoint = DefaultOllamaEndpoint
	}
	cfg.Provider = ProviderOllama
	return &ollamaClient{cfg: cfg, gate: cfg.newGate(), api: newRESTEndpoint(cfg.Endpoint, nil), observer: observer}
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	System  string        `json:"system,omitempty"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Format  any           `json:"format,omitempty"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse is the non-streaming reply body.
type ollamaResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
}

func (c *ollamaClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok := sampling(c.cfg, req)
	body := ollamaRequest{
		Model:   c.cfg.Model,
		System:  req.SystemPrompt,
		Prompt:  req.UserPrompt,
		Options: ollamaOptions{Temperature: temp, NumPredict: maxTok},
	}
	if req.Schema != nil {
		body.Format = req.Schema.Map()
	}

	return invoke(ctx, c.cfg, c.gate, c.observer, req, func(ctx context.Context) (*GenerateResponse, error) {
		var out ollamaResponse
		if err := c.api.postJSON(ctx, "/api/generate", body, &out); err != nil {
			return nil, err
		}
		return &GenerateResponse{Text: out.Response, Model: out.Model}, nil
	})
}

// Available lists local models as a liveness check.
func (c *ollamaClient) Available(ctx context.Context) bool {
	return c.api.probe(ctx, "/api/tags")
}
