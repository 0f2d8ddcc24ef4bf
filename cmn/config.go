// Package cmn holds types shared across the daemon and its tooling:
// the broker's runtime configuration and its global owner.
package cmn

import (
	"os"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Config is the broker's full runtime configuration.
type Config struct {
	ZoneWidth       uint64 `json:"zone_width"`
	MapWidthInZones uint64 `json:"map_width_in_zones"`
	BindAddress     string `json:"bind_address"`
	MetricsAddress  string `json:"metrics_address"`
}

// gco owns the single live Config, swapped atomically so readers
// never observe a partially-updated value. Modeled on the
// BeginUpdate/CommitUpdate pair used throughout the teacher's fs
// package tests.
type gco struct {
	value atomic.Pointer[Config]
}

// GCO is the process-wide configuration owner.
var GCO = &gco{}

// Get returns the current configuration. Panics if no configuration
// has been loaded yet, since every code path that needs one runs
// after daemon startup has committed one.
func (g *gco) Get() *Config {
	c := g.value.Load()
	if c == nil {
		panic("cmn: GCO.Get called before any configuration was committed")
	}
	return c
}

// BeginUpdate returns a copy of the current configuration (or a zero
// Config if none has been committed yet) for the caller to mutate and
// pass back to CommitUpdate.
func (g *gco) BeginUpdate() *Config {
	cur := g.value.Load()
	if cur == nil {
		return &Config{}
	}
	clone := *cur
	return &clone
}

// CommitUpdate atomically makes config the current configuration.
func (g *gco) CommitUpdate(config *Config) {
	g.value.Store(config)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// LoadConfig reads a JSON-encoded Config from path and commits it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cmn: reading config %q", path)
	}
	config := &Config{}
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "cmn: parsing config %q", path)
	}
	GCO.CommitUpdate(config)
	return config, nil
}
