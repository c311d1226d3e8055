package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/kurikula/internal/domain"
	"github.com/alexanderramin/kurikula/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"KURIKULA_CONFIG", "KURIKULA_LLM_API_KEY", "GEMINI_API_KEY", "API_KEY"} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, DownstreamInvalidate, cfg.Pipeline.Downstream)
	assert.False(t, cfg.Pipeline.Strict)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, llm.DefaultModel, cfg.LLM.Model)
	assert.Zero(t, cfg.LLM.MaxRetries)
	assert.Zero(t, cfg.LLM.TimeoutMs)
	assert.Empty(t, cfg.LLM.APIKey)

	ctx, err := cfg.CurriculumContext()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultContext(), ctx)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "kurikula.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workspace:
  path: /tmp/plans.db
pipeline:
  downstream: retain
  strict: true
llm:
  provider: ollama
  model: llama3.2
  max_retries: 2
  requests_per_minute: 10
  tasks:
    flow:
      temperature: 0.7
context:
  level: smp
  subject: IPA
  effective_weeks: 34
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/plans.db", cfg.Workspace.Path)
	assert.Equal(t, DownstreamRetain, cfg.Pipeline.Downstream)
	assert.True(t, cfg.Pipeline.Strict)

	settings := cfg.LLMSettings()
	assert.Equal(t, llm.ProviderOllama, settings.Provider)
	assert.Equal(t, llm.DefaultOllamaEndpoint, settings.Endpoint)
	assert.Equal(t, "llama3.2", settings.Model)
	assert.Equal(t, 2, settings.MaxRetries)
	assert.Equal(t, 10, settings.RequestsPerMinute)
	assert.InDelta(t, 0.7, settings.Tasks[llm.TaskFlow].Temperature, 1e-9)
	assert.InDelta(t, 0.4, settings.Tasks[llm.TaskObjectives].Temperature, 1e-9)

	ctx, err := cfg.CurriculumContext()
	require.NoError(t, err)
	assert.Equal(t, domain.LevelSMP, ctx.Level)
	assert.Equal(t, "IPA", ctx.Subject)
	assert.Equal(t, 34, ctx.EffectiveWeeks)
	assert.Equal(t, 4, ctx.PeriodsPerWeek)
}

func TestLoad_ConfigFromEnvPath(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "k.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  mode: prod\n"), 0o600))
	t.Setenv("KURIKULA_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Log.Mode)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("KURIKULA_LLM_MODEL", "gemini-2.5-flash")
	t.Setenv("KURIKULA_PIPELINE_STRICT", "true")
	t.Setenv("KURIKULA_LLM_TIMEOUT_MS", "30000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.True(t, cfg.Pipeline.Strict)
	assert.Equal(t, 30000, cfg.LLM.TimeoutMs)
}

func TestLoad_APIKeyFallbacks(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"prefixed wins", map[string]string{"KURIKULA_LLM_API_KEY": "a", "GEMINI_API_KEY": "b", "API_KEY": "c"}, "a"},
		{"gemini before bare", map[string]string{"GEMINI_API_KEY": "b", "API_KEY": "c"}, "b"},
		{"bare", map[string]string{"API_KEY": "c"}, "c"},
		{"none", map[string]string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.LLMSettings().APIKey)
		})
	}
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"provider", func(c *Config) { c.LLM.Provider = "openai" }, "invalid llm provider"},
		{"downstream", func(c *Config) { c.Pipeline.Downstream = "cascade" }, "invalid pipeline downstream policy"},
		{"workspace", func(c *Config) { c.Workspace.Path = "" }, "workspace path cannot be empty"},
		{"timeout", func(c *Config) { c.LLM.TimeoutMs = -1 }, "timeout_ms"},
		{"retries", func(c *Config) { c.LLM.MaxRetries = -1 }, "max_retries"},
		{"rate", func(c *Config) { c.LLM.RequestsPerMinute = -5 }, "requests_per_minute"},
		{"task", func(c *Config) { c.LLM.Tasks["summary"] = TaskConfig{} }, "invalid llm task"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			cfg.LLM.Tasks = map[string]TaskConfig{}
			for k, v := range base.LLM.Tasks {
				cfg.LLM.Tasks[k] = v
			}
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}
