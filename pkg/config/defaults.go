package config

// Log defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)

// Transform defaults.
const (
	DefaultGenericFallback = false
	DefaultFailOnError     = false
)

// Convert defaults.
const (
	IDStrategyStructural = "structural"
	IDStrategySequential = "sequential"

	DefaultIDStrategy     = IDStrategyStructural
	DefaultConsiderParent = true
	DefaultSourceID       = ""
)

// Frontend defaults.
const (
	DefaultMaxSourceSize = "4MiB"
	DefaultAnonymous     = false
)

// Telemetry defaults.
const (
	DefaultSampleRatio = 1.0
)
