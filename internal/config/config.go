// Package config loads the ambient defaults for the sexpr module:
// the default serialize mode, whether to attempt locking sensitive
// pages, and the parser's maximum accepted atom length. Falls back to
// fixed defaults when no config file is present or set.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// EnvFile names the environment variable holding the path to an
// optional YAML config file. Unset or unreadable means defaults.
const EnvFile = "SEXPR_CONFIG"

// Config holds the tunable ambient defaults.
type Config struct {
	// SerializeMode is "canonical" or "advanced"; anything else
	// falls back to "canonical".
	SerializeMode string `yaml:"serialize_mode"`
	// LockSensitivePages controls whether the allocator attempts to
	// mlock sensitive-class buffers. Some sandboxes forbid mlock
	// outright; set to false there rather than spamming warnings.
	LockSensitivePages bool `yaml:"lock_sensitive_pages"`
	// MaxAtomBytes bounds how large a single DATA atom the parser
	// will accept, defending against a hostile giant-atom input
	// without changing the 16-bit wire length field. Zero means use
	// the wire format's own ceiling (65535).
	MaxAtomBytes int `yaml:"max_atom_bytes"`
}

// Default returns the fixed built-in defaults.
func Default() Config {
	return Config{
		SerializeMode:      "canonical",
		LockSensitivePages: true,
		MaxAtomBytes:       0,
	}
}

// Load reads the config file named by the EnvFile environment
// variable, if set, and overlays it onto Default(). A missing
// variable, missing file, or parse error all silently yield
// Default() — config is an optimization for deployments that want
// to tune it, never a required input.
func Load() Config {
	cfg := Default()

	path := os.Getenv(EnvFile)
	if path == "" {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg
	}
	if v, ok := raw["serialize_mode"].(string); ok && (v == "canonical" || v == "advanced") {
		cfg.SerializeMode = v
	}
	if v, ok := raw["lock_sensitive_pages"].(bool); ok {
		cfg.LockSensitivePages = v
	}
	if v, ok := raw["max_atom_bytes"].(int); ok && v > 0 {
		cfg.MaxAtomBytes = v
	}
	return cfg
}
