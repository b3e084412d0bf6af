package config

// Render defaults.
const (
	DefaultRenderFormat = "tree"
	DefaultRenderOrder  = "in"
	DefaultRenderColor  = true
	DefaultRenderTitle  = "Red-Black Tree"
)

// Arena defaults.
const (
	DefaultHibernationThreshold = 1000
)

// Bench defaults.
const (
	DefaultBenchCount    = 100_000
	DefaultBenchSeed     = 1
	DefaultBenchMaxArena = ""
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Telemetry defaults.
const (
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultMetricsAddr  = ""
)
