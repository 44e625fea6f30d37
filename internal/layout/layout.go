// Package layout loads rebind.toml, the manifest describing the target
// binding layout and remap options for a shader directory tree.
package layout

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"rebind/internal/bind"
	"rebind/internal/remap"
)

// ManifestName is the file the loader walks up the directory tree for.
const ManifestName = "rebind.toml"

// Manifest is a located and validated rebind.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the TOML document.
type Config struct {
	Remap    RemapConfig     `toml:"remap"`
	Bindings []BindingConfig `toml:"binding"`
}

// RemapConfig is the [remap] table.
type RemapConfig struct {
	Target   string `toml:"target"` // "d3d12" (default) or "vulkan"
	Strict   bool   `toml:"strict"`
	Jobs     int    `toml:"jobs"`
	CacheDir string `toml:"cache_dir"`
}

// BindingConfig is one [[binding]] entry.
type BindingConfig struct {
	Name      string `toml:"name"`
	Space     uint32 `toml:"space"`
	Register  uint32 `toml:"register"`
	Kind      string `toml:"kind"`
	Count     uint32 `toml:"count"`     // omitted means 1
	Unbounded bool   `toml:"unbounded"` // runtime-sized array
}

// Find walks from startDir toward the filesystem root looking for a
// manifest file.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load discovers and parses the manifest governing startDir. The second
// result is false when no manifest exists anywhere up the tree.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile parses the manifest at an explicit path.
func LoadFile(path string) (*Manifest, error) {
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, nil
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if len(cfg.Bindings) == 0 {
		return Config{}, fmt.Errorf("%s: no [[binding]] entries", path)
	}
	seen := make(map[string]bool, len(cfg.Bindings))
	for i, b := range cfg.Bindings {
		if strings.TrimSpace(b.Name) == "" {
			return Config{}, fmt.Errorf("%s: [[binding]] #%d: missing name", path, i+1)
		}
		if _, err := bind.ParseKind(b.Kind); err != nil {
			return Config{}, fmt.Errorf("%s: binding %q: %w", path, b.Name, err)
		}
		if seen[b.Name] {
			return Config{}, fmt.Errorf("%s: duplicate binding %q", path, b.Name)
		}
		seen[b.Name] = true
	}
	switch cfg.Remap.Target {
	case "", "d3d12", "vulkan":
	default:
		return Config{}, fmt.Errorf("%s: [remap].target must be %q or %q, got %q",
			path, "d3d12", "vulkan", cfg.Remap.Target)
	}
	if cfg.Remap.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [remap].jobs must not be negative", path)
	}
	return cfg, nil
}

// Requests converts the binding entries into remap requests. Kinds were
// validated at load time.
func (m *Manifest) Requests() []bind.Request {
	reqs := make([]bind.Request, 0, len(m.Config.Bindings))
	for _, b := range m.Config.Bindings {
		kind, err := bind.ParseKind(b.Kind)
		if err != nil {
			panic(fmt.Sprintf("layout: unvalidated kind %q", b.Kind))
		}
		count := b.Count
		if b.Unbounded {
			count = bind.Unbounded
		} else if count == 0 {
			count = 1
		}
		reqs = append(reqs, bind.Request{
			Name:     b.Name,
			Space:    b.Space,
			Register: b.Register,
			Kind:     kind,
			Count:    count,
		})
	}
	return reqs
}

// Target maps the configured target string onto the remap target,
// defaulting to Direct3D 12.
func (m *Manifest) Target() remap.Target {
	if m.Config.Remap.Target == "vulkan" {
		return remap.TargetVulkan
	}
	return remap.TargetDirect3D12
}
