package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/conceptree/pkg/errors"
)

// Load reads, defaults and validates the settings file at path.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes settings in the format named by ext (".toml", ".yaml" or
// ".yml"), applies defaults and validates the result.
func Parse(data []byte, ext string) (*Settings, error) {
	var s Settings
	switch strings.ToLower(ext) {
	case ".toml":
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse toml")
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && len(bytes.TrimSpace(data)) > 0 {
			return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse yaml")
		}
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unsupported config format %q", ext)
	}
	s.applyDefaults()
	if err := Validate(&s); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid config")
	}
	return &s, nil
}

// Loader holds the current settings of a file and reloads them on change.
type Loader struct {
	path     string
	logger   *log.Logger
	mu       sync.RWMutex
	current  *Settings
	onChange []func(*Settings)
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string, logger *log.Logger) (*Loader, error) {
	if logger == nil {
		logger = log.Default()
	}
	l := &Loader{path: path, logger: logger}
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	l.current = s
	return l, nil
}

// Settings returns the latest successfully loaded settings.
func (l *Loader) Settings() *Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked after every successful reload.
func (l *Loader) OnChange(fn func(*Settings)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Reload re-reads the file. On error the previous settings stay current.
func (l *Loader) Reload() (*Settings, error) {
	s, err := Load(l.path)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.current = s
	callbacks := make([]func(*Settings), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(s)
	}
	return s, nil
}

// Watch reloads the settings whenever the file changes until ctx is done.
// Reload failures are logged and the old settings kept.
func (l *Loader) Watch(ctx context.Context) error {
	return WatchFile(ctx, l.path, func() {
		if _, err := l.Reload(); err != nil {
			l.logger.Warn("config reload failed, keeping previous settings", "path", l.path, "err", err)
			return
		}
		l.logger.Info("config reloaded", "path", l.path)
	})
}
