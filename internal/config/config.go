package config

// ServeConfig holds configuration for the `unjsify serve` diagnostics HTTP
// service.
type ServeConfig struct {
	Addr      string // Listen address (default ":8089")
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: text, json
}

// DefaultServeConfig returns sensible defaults.
func DefaultServeConfig() ServeConfig {
	return ServeConfig{
		Addr:      ":8089",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// RewriteConfig holds the parameters of one rewrite invocation, shared
// between the CLI's root command and the diagnostics HTTP service's
// /rewrite handler.
type RewriteConfig struct {
	Workflow string // path to the root CWL document to rewrite
	Output   string // output directory
	BaseDir  string // base directory the output mirrors; defaults to Workflow's directory
	Language string // "js" or "python"
	Lint     bool   // run the Expression Lint over the root document's text before rewriting
	CacheDB  string // optional sqlite parse cache path
}
