// Package config loads astkit settings from a YAML file and ASTKIT_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/astkit/pkg/ast"
	"github.com/Sumatoshi-tech/astkit/pkg/convert"
	"github.com/Sumatoshi-tech/astkit/pkg/frontend"
)

// Sentinel validation errors.
var (
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidIDStrategy  = errors.New("invalid id strategy")
	ErrInvalidSourceID    = errors.New("invalid source id")
	ErrInvalidSourceSize  = errors.New("invalid max source size")
	ErrInvalidLanguage    = errors.New("invalid language override")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

// envPrefix prefixes every environment override, e.g. ASTKIT_LOG_LEVEL.
const envPrefix = "ASTKIT"

// Config holds all astkit configuration.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Transform TransformConfig `mapstructure:"transform"`
	Convert   ConvertConfig   `mapstructure:"convert"`
	Frontend  FrontendConfig  `mapstructure:"frontend"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// TransformConfig holds transformation engine configuration.
type TransformConfig struct {
	GenericFallback bool `mapstructure:"generic_fallback"`
	FailOnError     bool `mapstructure:"fail_on_error"`
}

// ConvertConfig holds graph conversion configuration.
type ConvertConfig struct {
	IDStrategy     string `mapstructure:"id_strategy"`
	ConsiderParent bool   `mapstructure:"consider_parent"`
	SourceID       string `mapstructure:"source_id"`
}

// FrontendConfig holds parser configuration.
type FrontendConfig struct {
	MaxSourceSize ByteSize `mapstructure:"max_source_size"`
	Language      string   `mapstructure:"language"`
	Anonymous     bool     `mapstructure:"anonymous"`
}

// TelemetryConfig holds OpenTelemetry configuration.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	Insecure     bool    `mapstructure:"insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	MetricsOut   string  `mapstructure:"metrics_out"`
}

// ByteSize is a size in bytes written in humanized form ("4MiB", "512 KB")
// in configuration files.
type ByteSize uint64

// String renders the size in IEC units.
func (b ByteSize) String() string { return humanize.IBytes(uint64(b)) }

// Int returns the size as an int, saturating on overflow.
func (b ByteSize) Int() int {
	const maxInt = int(^uint(0) >> 1)

	if uint64(b) > uint64(maxInt) {
		return maxInt
	}

	return int(b)
}

// LoadConfig loads configuration from the file at configPath, or from
// .astkit.yaml in the working directory when configPath is empty, and
// applies ASTKIT_* environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(".astkit")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.DecodeHookFuncType(byteSizeHook),
		mapstructure.StringToTimeDurationHookFunc(),
	))

	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("transform.generic_fallback", DefaultGenericFallback)
	v.SetDefault("transform.fail_on_error", DefaultFailOnError)

	v.SetDefault("convert.id_strategy", DefaultIDStrategy)
	v.SetDefault("convert.consider_parent", DefaultConsiderParent)
	v.SetDefault("convert.source_id", DefaultSourceID)

	v.SetDefault("frontend.max_source_size", DefaultMaxSourceSize)
	v.SetDefault("frontend.language", "")
	v.SetDefault("frontend.anonymous", DefaultAnonymous)

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.otlp_headers", "")
	v.SetDefault("telemetry.insecure", false)
	v.SetDefault("telemetry.sample_ratio", DefaultSampleRatio)
	v.SetDefault("telemetry.metrics_out", "")
}

// byteSizeHook decodes humanized strings into ByteSize fields.
func byteSizeHook(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeFor[ByteSize]() || from.Kind() != reflect.String {
		return data, nil
	}

	s, _ := data.(string)

	n, err := humanize.ParseBytes(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSourceSize, s, err)
	}

	return ByteSize(n), nil
}

// Validate checks the configuration for values the tools cannot honour.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Convert.IDStrategy {
	case IDStrategyStructural, IDStrategySequential:
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidIDStrategy,
			c.Convert.IDStrategy, IDStrategyStructural, IDStrategySequential)
	}

	if c.Convert.SourceID != "" && strings.ContainsAny(c.Convert.SourceID, " ./\t") {
		return fmt.Errorf("%w: %q", ErrInvalidSourceID, c.Convert.SourceID)
	}

	if c.Frontend.MaxSourceSize == 0 {
		return fmt.Errorf("%w: must be positive", ErrInvalidSourceSize)
	}

	if c.Frontend.Language != "" && !slices.Contains(frontend.Languages(), c.Frontend.Language) {
		return fmt.Errorf("%w: %q (supported: %s)", ErrInvalidLanguage,
			c.Frontend.Language, strings.Join(frontend.Languages(), ", "))
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Telemetry.SampleRatio)
	}

	return nil
}

// SlogLevel returns the configured log level.
func (c LogConfig) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Level)

	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level

	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}

	return level, nil
}

// IDProvider returns the identifier strategy for exports. Source paths are
// used as the structural source id when no fixed one is configured.
func (c ConvertConfig) IDProvider(sourcePath string) ast.IDProvider {
	if c.IDStrategy == IDStrategySequential {
		return ast.NewSequentialIDProvider(0)
	}

	source := c.SourceID
	if source == "" {
		source = convert.SourceIDFromPath(sourcePath)
	}

	return convert.StructuralIDProvider{SourceID: source}
}
