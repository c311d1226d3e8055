// Package config loads kurikula settings from defaults, an optional YAML
// file and KURIKULA_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/llm"
	"github.com/spf13/viper"
)

const envPrefix = "KURIKULA"

// Downstream policies accepted by pipeline.downstream.
const (
	DownstreamInvalidate = "invalidate"
	DownstreamRetain     = "retain"
)

// Config holds all configuration for the application.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Workspace WorkspaceConfig `mapstructure:"workspace"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Context   ContextConfig   `mapstructure:"context"`
}

type LogConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// WorkspaceConfig locates the run workspace database. ":memory:" keeps
// everything in process.
type WorkspaceConfig struct {
	Path string `mapstructure:"path"`
}

type PipelineConfig struct {
	Downstream string `mapstructure:"downstream"`
	Strict     bool   `mapstructure:"strict"`
}

type TaskConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TimeoutMs   int     `mapstructure:"timeout_ms"`
}

type LLMConfig struct {
	Provider          string                `mapstructure:"provider"`
	Endpoint          string                `mapstructure:"endpoint"`
	Model             string                `mapstructure:"model"`
	APIKey            string                `mapstructure:"api_key"`
	TimeoutMs         int                   `mapstructure:"timeout_ms"`
	MaxRetries        int                   `mapstructure:"max_retries"`
	RetryBackoffMs    int                   `mapstructure:"retry_backoff_ms"`
	RequestsPerMinute int                   `mapstructure:"requests_per_minute"`
	LogCalls          bool                  `mapstructure:"log_calls"`
	Tasks             map[string]TaskConfig `mapstructure:"tasks"`
}

// ContextConfig holds the defaults offered by `kurikula init`.
type ContextConfig struct {
	Level          string `mapstructure:"level"`
	Phase          string `mapstructure:"phase"`
	Subject        string `mapstructure:"subject"`
	AcademicYear   string `mapstructure:"academic_year"`
	EffectiveWeeks int    `mapstructure:"effective_weeks"`
	PeriodsPerWeek int    `mapstructure:"periods_per_week"`
	Approach       string `mapstructure:"approach"`
}

// Load loads configuration from file and environment variables. An empty
// configPath falls back to $KURIKULA_CONFIG; no file at all is fine.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath == "" {
		configPath = os.Getenv(envPrefix + "_CONFIG")
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.level", "warn")
	v.SetDefault("workspace.path", DefaultWorkspacePath())
	v.SetDefault("pipeline.downstream", DownstreamInvalidate)
	v.SetDefault("pipeline.strict", false)

	def := llm.DefaultConfig()
	v.SetDefault("llm.provider", string(def.Provider))
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.model", def.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout_ms", def.TimeoutMs)
	v.SetDefault("llm.max_retries", def.MaxRetries)
	v.SetDefault("llm.retry_backoff_ms", def.RetryBackoffMs)
	v.SetDefault("llm.requests_per_minute", def.RequestsPerMinute)
	v.SetDefault("llm.log_calls", false)
	for task, tc := range def.Tasks {
		prefix := "llm.tasks." + string(task) + "."
		v.SetDefault(prefix+"temperature", tc.Temperature)
		v.SetDefault(prefix+"max_tokens", tc.MaxTokens)
		v.SetDefault(prefix+"timeout_ms", tc.TimeoutMs)
	}

	ctx := domain.DefaultContext()
	v.SetDefault("context.level", string(ctx.Level))
	v.SetDefault("context.phase", ctx.Phase)
	v.SetDefault("context.subject", ctx.Subject)
	v.SetDefault("context.academic_year", ctx.AcademicYear)
	v.SetDefault("context.effective_weeks", ctx.EffectiveWeeks)
	v.SetDefault("context.periods_per_week", ctx.PeriodsPerWeek)
	v.SetDefault("context.approach", string(ctx.Approach))
}

// bindEnvVars accepts the bare credential variable names used by hosted
// model tooling when KURIKULA_LLM_API_KEY is not set.
func bindEnvVars(v *viper.Viper) {
	if v.GetString("llm.api_key") != "" {
		return
	}
	for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if key := os.Getenv(name); key != "" {
			v.Set("llm.api_key", key)
			return
		}
	}
}

// DefaultWorkspacePath returns ~/.kurikula/kurikula.db, or a file in the
// working directory when the home directory cannot be resolved.
func DefaultWorkspacePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kurikula.db"
	}
	return filepath.Join(home, ".kurikula", "kurikula.db")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderGemini, llm.ProviderOllama, llm.ProviderLangchain:
	default:
		return fmt.Errorf("invalid llm provider: %s (must be 'gemini', 'ollama', or 'langchain')", c.LLM.Provider)
	}

	if c.Pipeline.Downstream != DownstreamInvalidate && c.Pipeline.Downstream != DownstreamRetain {
		return fmt.Errorf("invalid pipeline downstream policy: %s (must be 'invalidate' or 'retain')", c.Pipeline.Downstream)
	}

	if c.Workspace.Path == "" {
		return fmt.Errorf("workspace path cannot be empty")
	}

	if c.LLM.TimeoutMs < 0 {
		return fmt.Errorf("llm timeout_ms cannot be negative")
	}

	if c.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm max_retries cannot be negative")
	}

	if c.LLM.RequestsPerMinute < 0 {
		return fmt.Errorf("llm requests_per_minute cannot be negative")
	}

	for name := range c.LLM.Tasks {
		if _, err := domain.ParseStage(name); err != nil {
			return fmt.Errorf("invalid llm task %q: %w", name, err)
		}
	}

	return nil
}

// LLMSettings converts the llm section into the transport configuration.
func (c *Config) LLMSettings() llm.LLMConfig {
	out := llm.DefaultConfig()
	out.Provider = llm.Provider(c.LLM.Provider)
	out.Model = c.LLM.Model
	out.APIKey = c.LLM.APIKey
	out.TimeoutMs = c.LLM.TimeoutMs
	out.MaxRetries = c.LLM.MaxRetries
	out.RetryBackoffMs = c.LLM.RetryBackoffMs
	out.RequestsPerMinute = c.LLM.RequestsPerMinute
	out.LogCalls = c.LLM.LogCalls

	out.Endpoint = c.LLM.Endpoint
	if out.Endpoint == "" {
		switch out.Provider {
		case llm.ProviderOllama:
			out.Endpoint = llm.DefaultOllamaEndpoint
		default:
			out.Endpoint = llm.DefaultGeminiEndpoint
		}
	}

	for name, tc := range c.LLM.Tasks {
		stage, err := domain.ParseStage(name)
		if err != nil {
			continue
		}
		out.Tasks[llm.TaskType(stage)] = llm.TaskConfig{
			Temperature: tc.Temperature,
			MaxTokens:   tc.MaxTokens,
			TimeoutMs:   tc.TimeoutMs,
		}
	}
	return out
}

// CurriculumContext parses the context defaults. The result is not
// validated so callers can overlay flags first.
func (c *Config) CurriculumContext() (domain.CurriculumContext, error) {
	level, err := domain.ParseEducationLevel(c.Context.Level)
	if err != nil {
		return domain.CurriculumContext{}, err
	}
	approach, err := domain.ParseLearningApproach(c.Context.Approach)
	if err != nil {
		return domain.CurriculumContext{}, err
	}
	return domain.CurriculumContext{
		Level:          level,
		Phase:          c.Context.Phase,
		Subject:        c.Context.Subject,
		AcademicYear:   c.Context.AcademicYear,
		EffectiveWeeks: c.Context.EffectiveWeeks,
		PeriodsPerWeek: c.Context.PeriodsPerWeek,
		Approach:       approach,
	}, nil
}
