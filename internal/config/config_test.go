package config

import (
	"strings"
	"testing"
	"time"

	"quiz-forge/internal/domain"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadYAML(t *testing.T, yaml string) (*Config, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yaml)))
	return LoadConfigFrom(v)
}

func TestLoadConfigFrom_Defaults(t *testing.T) {
	cfg, err := loadYAML(t, "server:\n  port: 9000\n")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "template", cfg.Generation.Strategy)
	assert.Equal(t, 20*time.Second, cfg.Generation.CallTimeout)
	assert.Equal(t, 512, cfg.Chunking.TargetSize)
	assert.Equal(t, int64(10*1024*1024), cfg.Upload.MaxFileSize())
	assert.Equal(t, []string{".pdf", ".docx"}, cfg.Upload.AllowedExtensions)
	assert.False(t, cfg.DB.Enabled())

	table, err := cfg.MarkTable()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMarkTable(), table)
}

func TestLoadConfigFrom_MarkOverrides(t *testing.T) {
	cfg, err := loadYAML(t, `
paper:
  marks:
    long_answer: 10
    hots: 4
`)
	require.NoError(t, err)

	table, err := cfg.MarkTable()
	require.NoError(t, err)
	assert.Equal(t, 10, table.Marks(domain.QuestionTypeLongAnswer))
	assert.Equal(t, 4, table.Marks(domain.QuestionTypeHOTS))
	assert.Equal(t, 1, table.Marks(domain.QuestionTypeMCQ))
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"overlap not below target", "chunking:\n  target_size: 100\n  overlap: 100\n"},
		{"unknown unit", "chunking:\n  unit: pages\n"},
		{"unknown strategy", "generation:\n  strategy: markov\n"},
		{"unknown mark type", "paper:\n  marks:\n    essay: 3\n"},
		{"zero marks", "paper:\n  marks:\n    mcq: 0\n"},
		{"difficulty out of range", "generation:\n  default_difficulty: 7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadYAML(t, tt.yaml)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestLoadConfigFrom_EnvOverride(t *testing.T) {
	t.Setenv("DB_HOST", "oracle.internal")
	t.Setenv("GENERATION_STRATEGY", "ollama")

	cfg, err := loadYAML(t, "db:\n  host: localhost\n")
	require.NoError(t, err)
	assert.Equal(t, "oracle.internal", cfg.DB.Host)
	assert.Equal(t, "ollama", cfg.Generation.Strategy)
	assert.True(t, cfg.DB.Enabled())
}

func TestParseTTLStringOrDefault(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, time.Minute, cfg.ParseTTLStringOrDefault("", time.Minute))
	assert.Equal(t, time.Minute, cfg.ParseTTLStringOrDefault("soon", time.Minute))
	assert.Equal(t, 2*time.Hour, cfg.ParseTTLStringOrDefault("2h", time.Minute))
}
