package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

// geminiClient implements LLMClient using the Gemini generateContent REST API.
type geminiClient struct {
	cfg      LLMConfig
	gate     *rate.Limiter
	api      *restEndpoint
	observer Observer
}

// NewGeminiClient creates an LLMClient for the hosted Gemini API. The API key
// is not checked here; a missing key fails the first Generate call.
func NewGeminiClient(cfg LLMConfig, observer Observer) LLMClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultGeminiEndpoint
	}
	cfg.Provider = ProviderGemini
	header := http.Header{}
	header.Set("x-goog-api-key", cfg.APIKey)
	return &geminiClient{cfg: cfg, gate: cfg.newGate(), api: newRESTEndpoint(cfg.Endpoint, header), observer: observer}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      *float64       `json:"temperature,omitempty"`
	MaxOutputTokens  int            `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

// geminiRequest is the JSON body sent to models/{model}:generateContent.
type geminiRequest struct {
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	Contents          []geminiContent        `json:"contents"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

// geminiResponse is the subset of the generateContent reply we read.
type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	ModelVersion string `json:"modelVersion"`
}

func (c *geminiClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	body := c.buildRequest(req)
	return invoke(ctx, c.cfg, c.gate, c.observer, req, func(ctx context.Context) (*GenerateResponse, error) {
		if c.cfg.APIKey == "" {
			return nil, ErrMissingAPIKey
		}
		var resp geminiResponse
		if err := c.api.postJSON(ctx, c.modelPath(":generateContent"), body, &resp); err != nil {
			return nil, err
		}
		text, err := resp.text()
		if err != nil {
			return nil, err
		}
		return &GenerateResponse{Text: text, Model: resp.ModelVersion}, nil
	})
}

func (c *geminiClient) buildRequest(req GenerateRequest) geminiRequest {
	temp, maxTok := sampling(c.cfg, req)
	body := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.UserPrompt}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     &temp,
			MaxOutputTokens: maxTok,
		},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}
	if req.Schema != nil {
		body.GenerationConfig.ResponseMimeType = "application/json"
		body.GenerationConfig.ResponseSchema = req.Schema.ToGemini()
	}
	return body
}

func (c *geminiClient) modelPath(suffix string) string {
	return "/v1beta/models/" + url.PathEscape(c.cfg.Model) + suffix
}

// text joins the parts of the first candidate.
func (r *geminiResponse) text() (string, error) {
	if len(r.Candidates) == 0 {
		if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: %s", ErrBlocked, r.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates", ErrBlocked)
	}
	cand := r.Candidates[0]
	if cand.FinishReason == "SAFETY" || cand.FinishReason == "PROHIBITED_CONTENT" {
		return "", fmt.Errorf("%w: finish reason %s", ErrBlocked, cand.FinishReason)
	}
	var b strings.Builder
	for _, p := range cand.Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}

// Available fetches the model resource; a missing key is never available.
func (c *geminiClient) Available(ctx context.Context) bool {
	return c.cfg.APIKey != "" && c.api.probe(ctx, c.modelPath(""))
}
