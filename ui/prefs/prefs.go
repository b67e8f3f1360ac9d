// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"pixel-retouch/internal/effect"
	"pixel-retouch/internal/retouch"
)

const (
	appDir    = "pixel-retouch"
	prefsFile = "preferences.json"
)

// Keys used by the GUI.
const (
	KeyRadius      = "brush.radius"
	KeyOperator    = "brush.operator"
	KeyOpenDir     = "dir.open"
	KeyExportDir   = "dir.export"
	KeyJPEGQuality = "export.jpegQuality"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from <user config dir>/pixel-retouch/preferences.json.
// Returns empty Prefs if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, appDir, prefsFile))
}

// LoadFrom reads preferences from path. A missing or corrupt file gives
// empty Prefs that will be written to path on Save.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	if err := json.Unmarshal(data, &p.values); err != nil {
		p.values = make(map[string]interface{})
	}
	return p
}

// Path returns the backing file.
func (p *Prefs) Path() string { return p.path }

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Int returns an int preference, or fallback if not set.
// JSON numbers decode as float64, so both are accepted.
func (p *Prefs) Int(key string, fallback int) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch n := p.values[key].(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return fallback
}

// SetInt stores an int preference.
func (p *Prefs) SetInt(key string, val int) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, _ := p.values[key].(string)
	return s
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Brush returns the saved brush, falling back to the engine defaults for
// missing or invalid values.
func (p *Prefs) Brush() retouch.Brush {
	b := retouch.DefaultBrush()
	b.Radius = retouch.ClampRadius(p.Int(KeyRadius, b.Radius))
	if kind, err := effect.ParseKind(p.String(KeyOperator)); err == nil {
		b.Operator = kind
	}
	return b
}

// SetBrush stores the brush.
func (p *Prefs) SetBrush(b retouch.Brush) {
	p.SetInt(KeyRadius, b.Radius)
	p.SetString(KeyOperator, b.Operator.String())
}
