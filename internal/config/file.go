// Package config holds the typesafe constants and the typesafe.yaml
// configuration file.
//
// A configuration file declares, for a project:
//   - module aliases used when resolving dotted type references
//   - protobuf sources whose message names become resolvable references
//   - named explicit specifications, kept in declaration order
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level typesafe.yaml configuration.
type Config struct {
	// Aliases maps a short module name used in references to an import path
	// (e.g. geometry: github.com/acme/shapes/geometry).
	Aliases map[string]string `yaml:"aliases,omitempty"`

	// Protos lists .proto sources for the protobuf resolver.
	Protos *ProtoConfig `yaml:"protos,omitempty"`

	// Specs lists explicit specifications by function name.
	Specs []SpecConfig `yaml:"specs,omitempty"`

	// Dir is the directory containing the configuration file. Relative
	// proto import paths are resolved against it.
	Dir string `yaml:"-"`
}

// ProtoConfig describes the .proto files to load.
type ProtoConfig struct {
	// ImportPaths are searched for Files and their imports. Defaults to the
	// configuration directory.
	ImportPaths []string `yaml:"import_paths,omitempty"`

	// Files are the .proto file names, relative to one of ImportPaths.
	Files []string `yaml:"files"`
}

// SpecConfig is one named explicit specification.
type SpecConfig struct {
	// Func is the name the specification is looked up by.
	Func string `yaml:"func"`

	// Types maps parameter names (and the reserved "return") to type
	// references, in declaration order.
	Types Mapping `yaml:"types"`
}

// Pair is one entry of an ordered Mapping.
type Pair struct {
	Key   string
	Value string
}

// Mapping is an ordered name -> type reference mapping.
type Mapping []Pair

// Pairs builds a Mapping from alternating keys and values.
// It panics if given an odd argument count.
func Pairs(kv ...string) Mapping {
	if len(kv)%2 == 1 {
		panic("config.Pairs: odd argument count")
	}
	m := make(Mapping, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		m = append(m, Pair{Key: kv[i], Value: kv[i+1]})
	}
	return m
}

// Keys returns the keys in declaration order.
func (m Mapping) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}

// UnmarshalYAML decodes a YAML mapping node while preserving key order.
func (m *Mapping) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: types must be a mapping", node.Line)
	}
	out := make(Mapping, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: type of %q must be a scalar reference", val.Line, key.Value)
		}
		out = append(out, Pair{Key: key.Value, Value: val.Value})
	}
	*m = out
	return nil
}

// LoadConfig reads and parses a typesafe.yaml file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses typesafe.yaml content from bytes.
// The path argument is used for error messages and to locate relative files.
func ParseConfig(data []byte, path string) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults(path)
	return &cfg, nil
}

// FindConfig searches for typesafe.yaml starting from dir and walking up to
// parent directories. Returns an empty path and nil error if none is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Lookup returns the specification declared for fn.
func (c *Config) Lookup(fn string) (*SpecConfig, bool) {
	for i := range c.Specs {
		if c.Specs[i].Func == fn {
			return &c.Specs[i], true
		}
	}
	return nil, false
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if len(c.Aliases) == 0 && c.Protos == nil && len(c.Specs) == 0 {
		return fmt.Errorf("%s: no aliases, protos or specs defined", path)
	}

	for short, target := range c.Aliases {
		if short == "" || strings.ContainsAny(short, " \t/") {
			return fmt.Errorf("%s: aliases: invalid alias %q", path, short)
		}
		if target == "" || strings.ContainsAny(target, " \t") {
			return fmt.Errorf("%s: aliases.%s: invalid import path %q", path, short, target)
		}
	}

	if c.Protos != nil && len(c.Protos.Files) == 0 {
		return fmt.Errorf("%s: protos: files is required", path)
	}

	seen := make(map[string]bool)
	for i, s := range c.Specs {
		if s.Func == "" {
			return fmt.Errorf("%s: specs[%d]: func is required", path, i)
		}
		if seen[s.Func] {
			return fmt.Errorf("%s: specs[%d]: duplicate func %q", path, i, s.Func)
		}
		seen[s.Func] = true

		if s.Types == nil {
			return fmt.Errorf("%s: specs[%d] (%s): types is required", path, i, s.Func)
		}
		keys := make(map[string]bool)
		for _, p := range s.Types {
			if p.Key == "" {
				return fmt.Errorf("%s: specs[%d] (%s): empty parameter name", path, i, s.Func)
			}
			if keys[p.Key] {
				return fmt.Errorf("%s: specs[%d] (%s): duplicate parameter %q", path, i, s.Func, p.Key)
			}
			keys[p.Key] = true
		}
	}

	return nil
}

// setDefaults fills in default values.
func (c *Config) setDefaults(path string) {
	c.Dir = filepath.Dir(path)
	if c.Protos == nil {
		return
	}
	if len(c.Protos.ImportPaths) == 0 {
		c.Protos.ImportPaths = []string{"."}
	}
	for i, p := range c.Protos.ImportPaths {
		if !filepath.IsAbs(p) {
			c.Protos.ImportPaths[i] = filepath.Join(c.Dir, p)
		}
	}
}
