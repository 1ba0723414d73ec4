package cliconfig

import (
	"fmt"
	"strconv"

	"github.com/parlaynu/pi-multicapture/internal/domain"
	"github.com/parlaynu/pi-multicapture/internal/endpoint"
)

const (
	// DefaultPort is the collector port used by producers when none is given.
	DefaultPort = 8089

	// DefaultFPS is the default capture rate.
	DefaultFPS = 2
)

// Source names accepted by --source.
const (
	SourcePattern = "pattern"
	SourceSpool   = "spool"
)

// ProducerConfig holds CLI configuration for camstream.
type ProducerConfig struct {
	Name string
	URL  string

	Limit int
	FPS   int

	HFlip  bool
	VFlip  bool
	Centre bool

	Source      string
	SpoolDir    string
	SpoolRemove bool
	Width       int
	Height      int
	Quality     int

	QueueCapacity int
}

// DefaultProducerConfig returns a ProducerConfig with default values.
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		FPS:           DefaultFPS,
		Source:        SourcePattern,
		Width:         1920,
		Height:        1080,
		Quality:       95,
		QueueCapacity: 10,
	}
}

// Validate checks the configuration and fills in derived defaults.
func (c *ProducerConfig) Validate() error {
	if c.Name == "" {
		c.Name = DefaultNodeName()
	}
	if err := domain.ValidatePeer(c.Name); err != nil {
		return err
	}
	if c.URL == "" {
		return fmt.Errorf("%w: destination url is required", domain.ErrConfiguration)
	}
	if _, err := endpoint.Parse(c.URL); err != nil {
		return err
	}
	if c.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", domain.ErrConfiguration)
	}
	if c.FPS < 0 {
		return fmt.Errorf("%w: fps must not be negative", domain.ErrConfiguration)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return fmt.Errorf("%w: quality must be between 1 and 100", domain.ErrConfiguration)
	}
	if c.QueueCapacity < 1 {
		return fmt.Errorf("%w: queue capacity must be positive", domain.ErrConfiguration)
	}

	switch c.Source {
	case SourcePattern:
		if c.Width <= 0 || c.Height <= 0 {
			return fmt.Errorf("%w: width and height must be positive", domain.ErrConfiguration)
		}
	case SourceSpool:
		if c.SpoolDir == "" {
			return fmt.Errorf("%w: spool-dir is required for the spool source", domain.ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", domain.ErrConfiguration, c.Source)
	}
	return nil
}

// CollectorConfig holds CLI configuration for storagesink.
type CollectorConfig struct {
	OutDir string

	All     bool
	Host    string
	Port    int
	IPC     bool
	IPCPath string
}

// DefaultCollectorConfig returns a CollectorConfig with default values.
func DefaultCollectorConfig() CollectorConfig {
	return CollectorConfig{Port: DefaultPort}
}

// Validate checks the configuration.
func (c *CollectorConfig) Validate() error {
	if c.OutDir == "" {
		return fmt.Errorf("%w: output directory is required", domain.ErrConfiguration)
	}
	if c.IPCPath != "" {
		c.IPC = true
	}
	if !c.IPC && (c.Port < 0 || c.Port > 65535) {
		return fmt.Errorf("%w: invalid port %d", domain.ErrConfiguration, c.Port)
	}
	return nil
}

// BindSpec converts the configuration into an endpoint.BindSpec.
func (c CollectorConfig) BindSpec() endpoint.BindSpec {
	return endpoint.BindSpec{
		AllInterfaces: c.All,
		Host:          c.Host,
		Port:          c.Port,
		IPC:           c.IPC,
		IPCPath:       c.IPCPath,
	}
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: parse %s: %v", domain.ErrConfiguration, flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString accepts "true" and "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
