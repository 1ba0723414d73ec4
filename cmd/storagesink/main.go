package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/parlaynu/pi-multicapture/internal/adapters/fs"
	logAdapter "github.com/parlaynu/pi-multicapture/internal/adapters/log"
	"github.com/parlaynu/pi-multicapture/internal/adapters/zmq"
	"github.com/parlaynu/pi-multicapture/internal/app"
	"github.com/parlaynu/pi-multicapture/internal/cliconfig"
	"github.com/parlaynu/pi-multicapture/internal/endpoint"
)

const longHelp = `Collect images streamed by camstream nodes and save them to disk.

Every image is written to <outdir>/<node>/image_<index>.jpg. Existing files
are overwritten. A malformed message stops the collector.`

var exampleUsage = strings.TrimSpace(`
  storagesink /data/images
  storagesink --all --port 9000 /data/images
  storagesink --ipc /data/images
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultCollectorConfig()
	var cfgPath string

	log := logAdapter.NewConsoleLogger("storagesink")

	root := &cobra.Command{
		Use:     "storagesink [flags] <outdir>",
		Short:   "Save images streamed by camstream nodes",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if len(args) == 1 {
				cfg.OutDir = args[0]
				changed["outdir"] = true
			}

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}
			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				cliconfig.ApplyCollectorFileConfig(&cfg, fc.Storagesink, changed)
			}

			if err := cliconfig.ApplyCollectorEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log.Info().Interface("config", cfg).Msg("configuration")

			return run(cfg, log)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.pi-multicapture/config.toml)")
	root.Flags().BoolVarP(&cfg.All, "all", "a", cfg.All, "listen on all interfaces")
	root.Flags().StringVar(&cfg.Host, "host", cfg.Host, "listen on this address only")
	root.Flags().IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	root.Flags().BoolVar(&cfg.IPC, "ipc", cfg.IPC, "listen on a local socket in a new temporary directory")
	root.Flags().StringVar(&cfg.IPCPath, "ipc-path", cfg.IPCPath, "listen on a local socket at this path")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("storagesink")
		os.Exit(1)
	}
}

func run(cfg cliconfig.CollectorConfig, log zerolog.Logger) error {
	bind, err := cfg.BindSpec().BindEndpoint()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := zmq.NewSession(context.Background(), log)
	defer session.Close()

	pull, err := session.Pull(bind)
	if err != nil {
		return err
	}
	connect, err := endpoint.Advertise(bind, pull.Addr())
	if err != nil {
		return err
	}
	log.Info().
		Str("session", session.ID()).
		Str("bind", bind.String()).
		Str("connect", connect.String()).
		Msg("collector listening")

	logger := logAdapter.NewZerologAdapterWithLogger(log)
	collector := app.NewCollector(pull, fs.NewFileStore(cfg.OutDir), logger)

	if err := collector.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
