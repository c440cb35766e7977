package config

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source records which layer supplied a value.
type Source string

// Layers, lowest priority first.
const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// ResolverConfig configures a Resolver.
type ResolverConfig struct {
	// EnvPrefix maps key "listen_addr" to PREFIX_LISTEN_ADDR.
	EnvPrefix string

	// EnvBindings pins a key to an exact variable name, bypassing EnvPrefix.
	EnvBindings map[string]string

	// ConfigFile is an explicit YAML file. It must exist and parse.
	ConfigFile string

	// GlobalConfigDir names a directory under ~/.config whose
	// GlobalConfigFile is read, if present, when ConfigFile is empty.
	GlobalConfigDir  string
	GlobalConfigFile string

	Defaults map[string]string

	// ValidKeys restricts the keys accepted from files. Nil accepts all.
	ValidKeys []string

	// ErrWriter receives warnings. Defaults to os.Stderr.
	ErrWriter io.Writer
}

// Resolver merges defaults, a YAML file, the environment and flags,
// later layers winning.
type Resolver struct {
	cfg      ResolverConfig
	path     string
	explicit bool

	// Warnings lists non-fatal problems seen by the last resolution.
	Warnings []string
}

// NewResolver creates a Resolver and settles which file it will read.
func NewResolver(cfg ResolverConfig) *Resolver {
	if cfg.ErrWriter == nil {
		cfg.ErrWriter = os.Stderr
	}
	if cfg.GlobalConfigFile == "" {
		cfg.GlobalConfigFile = "config.yaml"
	}

	r := &Resolver{cfg: cfg}
	if cfg.ConfigFile != "" {
		r.path, r.explicit = cfg.ConfigFile, true
	} else if cfg.GlobalConfigDir != "" {
		if home, err := os.UserHomeDir(); err == nil {
			r.path = filepath.Join(home, ".config", cfg.GlobalConfigDir, cfg.GlobalConfigFile)
		}
	}
	return r
}

// FilePath returns the file consulted, or "" if none.
func (r *Resolver) FilePath() string { return r.path }

// EnvVar returns the variable read for key, or "" when the key is unbound
// and there is no prefix.
func (r *Resolver) EnvVar(key string) string {
	if name, ok := r.cfg.EnvBindings[key]; ok {
		return name
	}
	if r.cfg.EnvPrefix == "" {
		return ""
	}
	return r.cfg.EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// Resolve merges defaults, file and environment.
func (r *Resolver) Resolve() (*Resolved, error) {
	r.Warnings = nil

	out := &Resolved{entries: make(map[string]entry)}
	for k, v := range r.cfg.Defaults {
		out.set(k, v, SourceDefault)
	}

	fileValues, err := r.readFile()
	if err != nil {
		return nil, err
	}
	for k, v := range fileValues {
		out.set(k, v, SourceFile)
	}

	for _, k := range r.envCandidates(out) {
		if name := r.EnvVar(k); name != "" {
			if v := os.Getenv(name); v != "" {
				out.set(k, v, SourceEnv)
			}
		}
	}
	return out, nil
}

// ResolveWithFlags resolves and then applies non-empty flag values.
func (r *Resolver) ResolveWithFlags(flags map[string]string) (*Resolved, error) {
	out, err := r.Resolve()
	if err != nil {
		return nil, err
	}
	for k, v := range flags {
		if v != "" {
			out.set(k, v, SourceFlag)
		}
	}
	return out, nil
}

// envCandidates is every key that could be overridden from the environment.
func (r *Resolver) envCandidates(current *Resolved) []string {
	seen := make(map[string]struct{})
	for k := range current.entries {
		seen[k] = struct{}{}
	}
	for k := range r.cfg.EnvBindings {
		seen[k] = struct{}{}
	}
	return slices.Collect(maps.Keys(seen))
}

func (r *Resolver) readFile() (map[string]string, error) {
	if r.path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(r.path)
	switch {
	case err == nil:
	case r.explicit:
		return nil, fmt.Errorf("read config %s: %w", r.path, err)
	case errors.Is(err, os.ErrNotExist):
		return nil, nil
	default:
		r.warnf("could not read %s: %v", r.path, err)
		return nil, nil
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		if r.explicit {
			return nil, fmt.Errorf("parse config %s: %w", r.path, err)
		}
		r.warnf("could not parse %s: %v", r.path, err)
		return nil, nil
	}

	values := make(map[string]string, len(doc))
	for key, node := range doc {
		if r.cfg.ValidKeys != nil && !slices.Contains(r.cfg.ValidKeys, key) {
			r.warnf("unknown key %q in %s", key, r.path)
			continue
		}
		if v := nodeString(&node); v != "" {
			values[key] = v
		}
	}
	return values, nil
}

func (r *Resolver) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	fmt.Fprintf(r.cfg.ErrWriter, "Warning: %s\n", msg)
}

// nodeString flattens a YAML value. Scalars keep their literal text and
// sequences of scalars are comma-joined. Nulls and mappings are dropped.
func nodeString(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return ""
		}
		return n.Value
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if s := nodeString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

type entry struct {
	value  string
	source Source
}

// Resolved is the merged configuration.
type Resolved struct {
	entries map[string]entry
}

func (c *Resolved) set(key, value string, source Source) {
	c.entries[key] = entry{value: value, source: source}
}

// Get returns the value for key, or "".
func (c *Resolved) Get(key string) string { return c.entries[key].value }

// Source returns the layer that supplied key.
func (c *Resolved) Source(key string) Source { return c.entries[key].source }

// GetWithSource returns the value and its layer.
func (c *Resolved) GetWithSource(key string) (string, Source) {
	e := c.entries[key]
	return e.value, e.source
}

// All returns a copy of every value.
func (c *Resolved) All() map[string]string {
	out := make(map[string]string, len(c.entries))
	for k, e := range c.entries {
		out[k] = e.value
	}
	return out
}

// Keys returns every key, sorted.
func (c *Resolved) Keys() []string {
	return slices.Sorted(maps.Keys(c.entries))
}
