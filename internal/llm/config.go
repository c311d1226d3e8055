package llm

import (
	"time"

	"golang.org/x/time/rate"
)

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskObjectives TaskType = "objectives"
	TaskFlow       TaskType = "flow"
	TaskAnnual     TaskType = "annual"
	TaskSemester   TaskType = "semester"
)

// Provider selects the back end that serves Generate calls.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOllama    Provider = "ollama"
	ProviderLangchain Provider = "langchain"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider          Provider
	LogCalls          bool
	Endpoint          string
	Model             string
	APIKey            string
	TimeoutMs         int // 0 means no deadline
	MaxRetries        int
	RetryBackoffMs    int
	RequestsPerMinute int // caps calls across all tasks; 0 disables the cap
	Tasks             map[TaskType]TaskConfig
}

const (
	DefaultGeminiEndpoint = "https://generativelanguage.googleapis.com"
	DefaultOllamaEndpoint = "http://localhost:11434"
	DefaultModel          = "gemini-3-pro-preview"
)

// DefaultConfig returns an LLMConfig that talks to Gemini, makes exactly one
// call per request and imposes no deadline.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:       ProviderGemini,
		Endpoint:       DefaultGeminiEndpoint,
		Model:          DefaultModel,
		TimeoutMs:      0,
		MaxRetries:     0,
		RetryBackoffMs: 1000,
		Tasks: map[TaskType]TaskConfig{
			TaskObjectives: {Temperature: 0.4, MaxTokens: 8192},
			TaskFlow:       {Temperature: 0.3, MaxTokens: 8192},
			TaskAnnual:     {Temperature: 0.2, MaxTokens: 8192},
			TaskSemester:   {Temperature: 0.2, MaxTokens: 8192},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
// Zero means the call may block until the endpoint answers.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return time.Duration(tc.TimeoutMs) * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

func (c LLMConfig) retryBackoff() time.Duration {
	if c.RetryBackoffMs <= 0 {
		return time.Second
	}
	return time.Duration(c.RetryBackoffMs) * time.Millisecond
}

// newGate returns the limiter shared by one client's calls, or nil when
// RequestsPerMinute is not positive. Bursts are not allowed.
func (c LLMConfig) newGate() *rate.Limiter {
	if c.RequestsPerMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(c.RequestsPerMinute)), 1)
}
