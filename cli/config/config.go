package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/pithecene-io/hookchain/types"
)

// ErrConfigInvalid is the root of all configuration validation failures.
var ErrConfigInvalid = errors.New("invalid configuration")

// Config represents a hookchain.yaml configuration file.
// CLI flags always override config values.
type Config struct {
	LogLevel  string                 `yaml:"log_level"`
	HookDirs  []string               `yaml:"hook_dirs"`
	Chains    map[string]ChainConfig `yaml:"chains"`
	Hooks     map[string]HookConfig  `yaml:"hooks"`
	Telemetry TelemetryConfig        `yaml:"telemetry"`
	Archive   ArchiveConfig          `yaml:"archive"`
	Adapter   AdapterConfig          `yaml:"adapter"`
}

// ChainConfig is a chain definition within the config file.
// Name is derived from the map key, not stored in the struct.
type ChainConfig struct {
	Description     string   `yaml:"description,omitempty"`
	Sequence        []string `yaml:"sequence"`
	PropagateOutput bool     `yaml:"propagate_output"`
	StopOnFailure   bool     `yaml:"stop_on_failure"`
	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// HookConfig holds per-hook execution parameters within the config file.
// Name is derived from the map key.
type HookConfig struct {
	TimeoutSeconds int  `yaml:"timeout_seconds,omitempty"`
	Retries        int  `yaml:"retries,omitempty"`
	Critical       bool `yaml:"critical,omitempty"`
}

// TelemetryConfig holds telemetry dispatch defaults from the config file.
type TelemetryConfig struct {
	// Policy selects the dispatch policy: strict (default), buffered, none.
	Policy string `yaml:"policy,omitempty"`
	// BufferEvents is the buffered policy's capacity.
	BufferEvents int `yaml:"buffer_events,omitempty"`
	// JournalDir is where run journals are written (default ~/.hookchain/journal).
	JournalDir string `yaml:"journal_dir,omitempty"`
}

// ArchiveConfig holds archive export defaults from the config file.
type ArchiveConfig struct {
	// Backend selects the archive store: "" (disabled), fs, s3.
	Backend     string `yaml:"backend,omitempty"`
	Path        string `yaml:"path,omitempty"`
	Region      string `yaml:"region,omitempty"`
	Endpoint    string `yaml:"endpoint,omitempty"`
	S3PathStyle bool   `yaml:"s3_path_style,omitempty"`
}

// AdapterConfig holds adapter defaults from the config file.
type AdapterConfig struct {
	Type    string            `yaml:"type,omitempty"` // "", webhook, redis
	URL     string            `yaml:"url,omitempty"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
	Retries *int              `yaml:"retries,omitempty"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// Chain converts a named chain config into its runtime definition.
// Returns nil when the chain is not configured.
func (c *Config) Chain(name string) *types.ChainDefinition {
	cc, ok := c.Chains[name]
	if !ok {
		return nil
	}
	enabled := true
	if cc.Enabled != nil {
		enabled = *cc.Enabled
	}
	return &types.ChainDefinition{
		Name:            name,
		Description:     cc.Description,
		Sequence:        cc.Sequence,
		PropagateOutput: cc.PropagateOutput,
		StopOnFailure:   cc.StopOnFailure,
		Enabled:         enabled,
	}
}

// ChainNames returns the configured chain names, sorted for deterministic
// listings.
func (c *Config) ChainNames() []string {
	names := make([]string, 0, len(c.Chains))
	for name := range c.Chains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HookMetadata converts the hook config map into runtime metadata keyed by
// hook name. Hooks without an entry are absent; the runtime applies
// defaults.
func (c *Config) HookMetadata() map[string]types.HookMetadata {
	hooks := make(map[string]types.HookMetadata, len(c.Hooks))
	for name, hc := range c.Hooks {
		timeout := hc.TimeoutSeconds
		if timeout == 0 {
			timeout = types.DefaultTimeoutSeconds
		}
		hooks[name] = types.HookMetadata{
			Name:           name,
			TimeoutSeconds: timeout,
			RetryCount:     hc.Retries,
			Critical:       hc.Critical,
		}
	}
	return hooks
}

// Validate checks the whole configuration. Every problem wraps
// ErrConfigInvalid so callers can classify the failure.
func (c *Config) Validate() error {
	for name, cc := range c.Chains {
		if len(cc.Sequence) == 0 {
			return fmt.Errorf("%w: chain %q has an empty sequence", ErrConfigInvalid, name)
		}
		for i, hook := range cc.Sequence {
			if hook == "" {
				return fmt.Errorf("%w: chain %q has an empty hook name at position %d", ErrConfigInvalid, name, i)
			}
		}
	}

	for name, hc := range c.Hooks {
		if hc.TimeoutSeconds < 0 {
			return fmt.Errorf("%w: hook %q has a negative timeout", ErrConfigInvalid, name)
		}
		if hc.Retries < 0 {
			return fmt.Errorf("%w: hook %q has a negative retry count", ErrConfigInvalid, name)
		}
	}

	switch c.Telemetry.Policy {
	case "", "strict", "buffered", "none":
	default:
		return fmt.Errorf("%w: unknown telemetry policy %q", ErrConfigInvalid, c.Telemetry.Policy)
	}
	if c.Telemetry.BufferEvents < 0 {
		return fmt.Errorf("%w: negative telemetry buffer size", ErrConfigInvalid)
	}

	switch c.Archive.Backend {
	case "", "fs", "s3":
	default:
		return fmt.Errorf("%w: unknown archive backend %q", ErrConfigInvalid, c.Archive.Backend)
	}
	if c.Archive.Backend != "" && c.Archive.Path == "" {
		return fmt.Errorf("%w: archive backend %q requires a path", ErrConfigInvalid, c.Archive.Backend)
	}

	switch c.Adapter.Type {
	case "", "webhook", "redis":
	default:
		return fmt.Errorf("%w: unknown adapter type %q", ErrConfigInvalid, c.Adapter.Type)
	}
	if c.Adapter.Type != "" && c.Adapter.URL == "" {
		return fmt.Errorf("%w: adapter %q requires a URL", ErrConfigInvalid, c.Adapter.Type)
	}

	return nil
}
