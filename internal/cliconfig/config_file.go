package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/parlaynu/pi-multicapture/internal/domain"
)

// FileConfig is the TOML configuration file. Each program reads its own table.
type FileConfig struct {
	Camstream   ProducerFileConfig  `toml:"camstream"`
	Storagesink CollectorFileConfig `toml:"storagesink"`
}

// ProducerFileConfig is the [camstream] table.
type ProducerFileConfig struct {
	Name          string `toml:"name"`
	URL           string `toml:"url"`
	Limit         int    `toml:"limit"`
	FPS           int    `toml:"fps"`
	HFlip         *bool  `toml:"hflip"`
	VFlip         *bool  `toml:"vflip"`
	Centre        *bool  `toml:"centre"`
	Source        string `toml:"source"`
	SpoolDir      string `toml:"spool_dir"`
	SpoolRemove   *bool  `toml:"spool_remove"`
	Width         int    `toml:"width"`
	Height        int    `toml:"height"`
	Quality       int    `toml:"quality"`
	QueueCapacity int    `toml:"queue_capacity"`
}

// CollectorFileConfig is the [storagesink] table.
type CollectorFileConfig struct {
	OutDir  string `toml:"outdir"`
	All     *bool  `toml:"all"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	IPC     *bool  `toml:"ipc"`
	IPCPath string `toml:"ipc_path"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("%w: parse %s: %v", domain.ErrConfiguration, path, err)
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.pi-multicapture/config.toml, or "" if the home
// directory is unknown.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".pi-multicapture", "config.toml")
	}
	return ""
}

// ApplyProducerFileConfig applies the [camstream] table, skipping flags that
// were set explicitly.
func ApplyProducerFileConfig(cfg *ProducerConfig, fc ProducerFileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("name", fc.Name, &cfg.Name)
	s.setString("url", fc.URL, &cfg.URL)
	s.setString("source", fc.Source, &cfg.Source)
	s.setString("spool-dir", fc.SpoolDir, &cfg.SpoolDir)

	s.setInt("limit", fc.Limit, &cfg.Limit)
	s.setInt("fps", fc.FPS, &cfg.FPS)
	s.setInt("width", fc.Width, &cfg.Width)
	s.setInt("height", fc.Height, &cfg.Height)
	s.setInt("quality", fc.Quality, &cfg.Quality)
	s.setInt("queue-capacity", fc.QueueCapacity, &cfg.QueueCapacity)

	s.setBool("hflip", fc.HFlip, &cfg.HFlip)
	s.setBool("vflip", fc.VFlip, &cfg.VFlip)
	s.setBool("centre", fc.Centre, &cfg.Centre)
	s.setBool("spool-remove", fc.SpoolRemove, &cfg.SpoolRemove)
}

// ApplyCollectorFileConfig applies the [storagesink] table, skipping flags
// that were set explicitly.
func ApplyCollectorFileConfig(cfg *CollectorConfig, fc CollectorFileConfig, changed map[string]bool) {
	s := newConfigSetter(changed)

	s.setString("outdir", fc.OutDir, &cfg.OutDir)
	s.setString("host", fc.Host, &cfg.Host)
	s.setString("ipc-path", fc.IPCPath, &cfg.IPCPath)
	s.setInt("port", fc.Port, &cfg.Port)
	s.setBool("all", fc.All, &cfg.All)
	s.setBool("ipc", fc.IPC, &cfg.IPC)
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
