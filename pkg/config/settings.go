// Package config loads conceptree settings from TOML or YAML files and
// watches files for changes.
//
// A settings file looks like:
//
//	[layout]
//	max_width = 12
//	layer_spacing = 120
//	node_spacing = 120
//
//	[cache]
//	dir = "/var/cache/conceptree"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//
//	[resolve]
//	max_rows = 200000
//
// The format is picked by extension: .toml, or .yaml/.yml.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/conceptree/pkg/layout"
)

// Settings is the top-level settings document.
type Settings struct {
	Layout  LayoutSettings  `toml:"layout" yaml:"layout"`
	Cache   CacheSettings   `toml:"cache" yaml:"cache"`
	Server  ServerSettings  `toml:"server" yaml:"server"`
	Resolve ResolveSettings `toml:"resolve" yaml:"resolve"`
}

// LayoutSettings tune the node-link layout.
type LayoutSettings struct {
	MaxWidth     int     `toml:"max_width" yaml:"max_width"`
	LayerSpacing float64 `toml:"layer_spacing" yaml:"layer_spacing"`
	NodeSpacing  float64 `toml:"node_spacing" yaml:"node_spacing"`
}

// Options converts the settings into layout options.
func (s LayoutSettings) Options() layout.Options {
	return layout.Options{
		MaxWidth:     s.MaxWidth,
		LayerSpacing: s.LayerSpacing,
		NodeSpacing:  s.NodeSpacing,
	}
}

// CacheSettings select and tune the cache backend. RedisAddr takes
// precedence over Dir; Disabled turns caching off. Prefix namespaces every
// key the engine writes.
type CacheSettings struct {
	Dir       string   `toml:"dir" yaml:"dir"`
	RedisAddr string   `toml:"redis_addr" yaml:"redis_addr"`
	Prefix    string   `toml:"prefix" yaml:"prefix"`
	TTL       Duration `toml:"ttl" yaml:"ttl"`
	Disabled  bool     `toml:"disabled" yaml:"disabled"`
}

// ServerSettings configure the HTTP API.
type ServerSettings struct {
	Addr         string   `toml:"addr" yaml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`
}

// ResolveSettings bound the visibility resolver.
type ResolveSettings struct {
	MaxRows int `toml:"max_rows" yaml:"max_rows"`
}

// Duration is a time.Duration written as a string such as "90s" or "168h".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler, which both the TOML and
// YAML decoders use for scalars.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns settings with every default applied.
func Default() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

func (s *Settings) applyDefaults() {
	if s.Layout.MaxWidth == 0 {
		s.Layout.MaxWidth = layout.DefaultMaxWidth
	}
	if s.Layout.LayerSpacing == 0 {
		s.Layout.LayerSpacing = layout.DefaultLayerSpacing
	}
	if s.Layout.NodeSpacing == 0 {
		s.Layout.NodeSpacing = layout.DefaultNodeSpacing
	}
	if s.Cache.TTL.Duration == 0 {
		s.Cache.TTL.Duration = 7 * 24 * time.Hour
	}
	if s.Server.Addr == "" {
		s.Server.Addr = ":8080"
	}
	if s.Server.ReadTimeout.Duration == 0 {
		s.Server.ReadTimeout.Duration = 30 * time.Second
	}
	if s.Server.WriteTimeout.Duration == 0 {
		s.Server.WriteTimeout.Duration = 60 * time.Second
	}
}

// Validate reports every invalid field at once.
func Validate(s *Settings) error {
	var problems []string
	if s.Layout.MaxWidth < 1 {
		problems = append(problems, fmt.Sprintf("layout.max_width must be positive, got %d", s.Layout.MaxWidth))
	}
	if s.Layout.LayerSpacing <= 0 || s.Layout.NodeSpacing <= 0 {
		problems = append(problems, "layout spacing must be positive")
	}
	if s.Cache.TTL.Duration < 0 {
		problems = append(problems, "cache.ttl must not be negative")
	}
	if s.Resolve.MaxRows < 0 {
		problems = append(problems, fmt.Sprintf("resolve.max_rows must not be negative, got %d", s.Resolve.MaxRows))
	}
	if len(problems) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
