// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers an optional YAML file and environment variables on top.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8050".
	Addr string `koanf:"addr"`

	// DataDir is the root of the per-repository CSV store.
	DataDir string `koanf:"data_dir"`

	// GitHubToken authenticates collector requests. Falls back to the
	// GITHUB_TOKEN environment variable when unset.
	GitHubToken string `koanf:"github_token"`

	// CollectMaxPRs bounds how many merged PRs one collector run fetches.
	CollectMaxPRs int `koanf:"collect_max_prs"`

	// CollectPageSize sets the GitHub list page size.
	CollectPageSize int `koanf:"collect_page_size"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8050",
		DataDir:         "./data",
		CollectMaxPRs:   10,
		CollectPageSize: 100,
	}
}
