package cliconfig

import "os"

// ApplyProducerEnvConfig applies CAMSTREAM_* environment variables, skipping
// flags that were set explicitly.
func ApplyProducerEnvConfig(cfg *ProducerConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("name", os.Getenv("CAMSTREAM_NAME"), &cfg.Name)
	s.setString("url", os.Getenv("CAMSTREAM_URL"), &cfg.URL)
	s.setString("source", os.Getenv("CAMSTREAM_SOURCE"), &cfg.Source)
	s.setString("spool-dir", os.Getenv("CAMSTREAM_SPOOL_DIR"), &cfg.SpoolDir)

	ints := []struct {
		flag, env string
		dst       *int
	}{
		{"limit", "CAMSTREAM_LIMIT", &cfg.Limit},
		{"fps", "CAMSTREAM_FPS", &cfg.FPS},
		{"width", "CAMSTREAM_WIDTH", &cfg.Width},
		{"height", "CAMSTREAM_HEIGHT", &cfg.Height},
		{"quality", "CAMSTREAM_QUALITY", &cfg.Quality},
		{"queue-capacity", "CAMSTREAM_QUEUE_CAPACITY", &cfg.QueueCapacity},
	}
	for _, v := range ints {
		if err := s.setIntFromString(v.flag, os.Getenv(v.env), v.dst); err != nil {
			return err
		}
	}

	s.setBoolFromString("hflip", os.Getenv("CAMSTREAM_HFLIP"), &cfg.HFlip)
	s.setBoolFromString("vflip", os.Getenv("CAMSTREAM_VFLIP"), &cfg.VFlip)
	s.setBoolFromString("centre", os.Getenv("CAMSTREAM_CENTRE"), &cfg.Centre)
	s.setBoolFromString("spool-remove", os.Getenv("CAMSTREAM_SPOOL_REMOVE"), &cfg.SpoolRemove)
	return nil
}

// ApplyCollectorEnvConfig applies STORAGESINK_* environment variables,
// skipping flags that were set explicitly.
func ApplyCollectorEnvConfig(cfg *CollectorConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("outdir", os.Getenv("STORAGESINK_OUTDIR"), &cfg.OutDir)
	s.setString("host", os.Getenv("STORAGESINK_HOST"), &cfg.Host)
	s.setString("ipc-path", os.Getenv("STORAGESINK_IPC_PATH"), &cfg.IPCPath)
	if err := s.setIntFromString("port", os.Getenv("STORAGESINK_PORT"), &cfg.Port); err != nil {
		return err
	}
	s.setBoolFromString("all", os.Getenv("STORAGESINK_ALL"), &cfg.All)
	s.setBoolFromString("ipc", os.Getenv("STORAGESINK_IPC"), &cfg.IPC)
	return nil
}
