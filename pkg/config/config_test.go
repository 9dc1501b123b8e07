package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/astkit/internal/testlang"
	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/config"
	"github.com/Sumatoshi-tech/astkit/pkg/convert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "astkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "{}\n"))
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
	assert.False(t, cfg.Log.JSON)
	assert.False(t, cfg.Transform.GenericFallback)
	assert.False(t, cfg.Transform.FailOnError)
	assert.Equal(t, config.DefaultIDStrategy, cfg.Convert.IDStrategy)
	assert.True(t, cfg.Convert.ConsiderParent)
	assert.Empty(t, cfg.Convert.SourceID)
	assert.Equal(t, config.ByteSize(4<<20), cfg.Frontend.MaxSourceSize)
	assert.Equal(t, "4.0 MiB", cfg.Frontend.MaxSourceSize.String())
	assert.InDelta(t, config.DefaultSampleRatio, cfg.Telemetry.SampleRatio, 1e-9)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoadConfig_File(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
log:
  level: debug
  json: true
transform:
  generic_fallback: true
  fail_on_error: true
convert:
  id_strategy: sequential
  consider_parent: false
  source_id: calc
frontend:
  max_source_size: 512 KiB
  language: python
  anonymous: true
telemetry:
  otlp_endpoint: localhost:4317
  otlp_headers: "x-team=ast"
  insecure: true
  sample_ratio: 0.25
  metrics_out: metrics.prom
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, slog.LevelDebug, cfg.Log.SlogLevel())
	assert.True(t, cfg.Log.JSON)
	assert.True(t, cfg.Transform.GenericFallback)
	assert.True(t, cfg.Transform.FailOnError)
	assert.Equal(t, config.IDStrategySequential, cfg.Convert.IDStrategy)
	assert.False(t, cfg.Convert.ConsiderParent)
	assert.Equal(t, "calc", cfg.Convert.SourceID)
	assert.Equal(t, config.ByteSize(512<<10), cfg.Frontend.MaxSourceSize)
	assert.Equal(t, 512<<10, cfg.Frontend.MaxSourceSize.Int())
	assert.Equal(t, "python", cfg.Frontend.Language)
	assert.True(t, cfg.Frontend.Anonymous)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.Equal(t, "x-team=ast", cfg.Telemetry.OTLPHeaders)
	assert.True(t, cfg.Telemetry.Insecure)
	assert.InDelta(t, 0.25, cfg.Telemetry.SampleRatio, 1e-9)
	assert.Equal(t, "metrics.prom", cfg.Telemetry.MetricsOut)
}

func TestLoadConfig_NumericSize(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "frontend:\n  max_source_size: 2048\n"))
	require.NoError(t, err)
	assert.Equal(t, config.ByteSize(2048), cfg.Frontend.MaxSourceSize)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("ASTKIT_LOG_LEVEL", "warn")
	t.Setenv("ASTKIT_CONVERT_ID_STRATEGY", "sequential")
	t.Setenv("ASTKIT_FRONTEND_MAX_SOURCE_SIZE", "1MB")

	cfg, err := config.LoadConfig(writeConfig(t, "log:\n  level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, slog.LevelWarn, cfg.Log.SlogLevel())
	assert.Equal(t, config.IDStrategySequential, cfg.Convert.IDStrategy)
	assert.Equal(t, config.ByteSize(1_000_000), cfg.Frontend.MaxSourceSize)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"log level", "log:\n  level: loud\n", config.ErrInvalidLogLevel},
		{"id strategy", "convert:\n  id_strategy: random\n", config.ErrInvalidIDStrategy},
		{"source id", "convert:\n  source_id: a/b\n", config.ErrInvalidSourceID},
		{"size syntax", "frontend:\n  max_source_size: lots\n", config.ErrInvalidSourceSize},
		{"size zero", "frontend:\n  max_source_size: 0\n", config.ErrInvalidSourceSize},
		{"language", "frontend:\n  language: cobol\n", config.ErrInvalidLanguage},
		{"sample ratio", "telemetry:\n  sample_ratio: 1.5\n", config.ErrInvalidSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// Decode hook failures arrive wrapped by the decoder, so match on text.
			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestConvertConfig_IDProvider(t *testing.T) {
	t.Parallel()

	prog := testlang.SampleProgram()
	ast.AssignParents(prog)

	structural := config.ConvertConfig{IDStrategy: config.IDStrategyStructural}

	id, err := structural.IDProvider("calc.mc").ID(prog)
	require.NoError(t, err)
	assert.Equal(t, convert.SourceIDFromPath("calc.mc")+"_root", id)

	fixed := config.ConvertConfig{IDStrategy: config.IDStrategyStructural, SourceID: "calc"}

	id, err = fixed.IDProvider("ignored.mc").ID(prog)
	require.NoError(t, err)
	assert.Equal(t, "calc_root", id)

	sequential := config.ConvertConfig{IDStrategy: config.IDStrategySequential}
	provider := sequential.IDProvider("calc.mc")

	first, err := provider.ID(prog)
	require.NoError(t, err)

	second, err := provider.ID(prog.Statements[0])
	require.NoError(t, err)

	assert.Equal(t, "0", first)
	assert.Equal(t, "1", second)
}
