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

	logAdapter "github.com/parlaynu/pi-multicapture/internal/adapters/log"
	"github.com/parlaynu/pi-multicapture/internal/adapters/source"
	"github.com/parlaynu/pi-multicapture/internal/adapters/zmq"
	"github.com/parlaynu/pi-multicapture/internal/app"
	"github.com/parlaynu/pi-multicapture/internal/cliconfig"
	"github.com/parlaynu/pi-multicapture/internal/endpoint"
	"github.com/parlaynu/pi-multicapture/internal/ports"
)

const longHelp = `Capture images on this node and stream them to a storagesink collector.

Frames are pulled from the capture source one at a time, optionally flipped
or centre-cropped, tagged, JPEG encoded and pushed to the collector. At most
10 frames wait for the network; beyond that capture pauses until the
collector catches up.`

var exampleUsage = strings.TrimSpace(`
  camstream tcp://10.0.0.2:8089
  camstream --name cam-north --fps 5 --hflip tcp://collector.local:8089
  camstream --source spool --spool-dir /run/capture ipc:///tmp/storagesink-123/sink.ipc
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultProducerConfig()
	var cfgPath string

	log := logAdapter.NewConsoleLogger("camstream")

	root := &cobra.Command{
		Use:     "camstream [flags] <url>",
		Short:   "Stream captured images to a storagesink collector",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })
			if len(args) == 1 {
				cfg.URL = args[0]
				changed["url"] = true
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
				cliconfig.ApplyProducerFileConfig(&cfg, fc.Camstream, changed)
			}

			if err := cliconfig.ApplyProducerEnvConfig(&cfg, changed); err != nil {
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
	root.Flags().StringVarP(&cfg.Name, "name", "n", cfg.Name, "the name of this node (default: short host name)")
	root.Flags().IntVarP(&cfg.Limit, "limit", "l", cfg.Limit, "limit the number of frames to send (0 = unlimited)")
	root.Flags().IntVarP(&cfg.FPS, "fps", "r", cfg.FPS, "capture frames per second")
	root.Flags().BoolVar(&cfg.HFlip, "hflip", cfg.HFlip, "flip the image horizontally")
	root.Flags().BoolVar(&cfg.VFlip, "vflip", cfg.VFlip, "flip the image vertically")
	root.Flags().BoolVarP(&cfg.Centre, "centre", "c", cfg.Centre, "crop the centre square of the image")

	root.Flags().StringVar(&cfg.Source, "source", cfg.Source, "capture source: pattern or spool")
	root.Flags().StringVar(&cfg.SpoolDir, "spool-dir", cfg.SpoolDir, "directory watched by the spool source")
	root.Flags().BoolVar(&cfg.SpoolRemove, "spool-remove", cfg.SpoolRemove, "delete spooled images once read")
	root.Flags().IntVar(&cfg.Width, "width", cfg.Width, "pattern source image width")
	root.Flags().IntVar(&cfg.Height, "height", cfg.Height, "pattern source image height")
	root.Flags().IntVar(&cfg.Quality, "quality", cfg.Quality, "JPEG quality (1-100)")

	root.Flags().IntVar(&cfg.QueueCapacity, "queue-capacity", cfg.QueueCapacity, "pending frame limit before capture blocks")
	if err := root.Flags().MarkHidden("queue-capacity"); err != nil {
		log.Info().Err(err).Msg("failed to hide queue-capacity flag")
	}

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("camstream")
		os.Exit(1)
	}
}

func newSource(cfg cliconfig.ProducerConfig) ports.FrameSource {
	if cfg.Source == cliconfig.SourceSpool {
		return source.NewSpool(cfg.SpoolDir, cfg.SpoolRemove)
	}
	return source.NewPattern(cfg.Width, cfg.Height, cfg.FPS)
}

func run(cfg cliconfig.ProducerConfig, log zerolog.Logger) error {
	ep, err := endpoint.Parse(cfg.URL)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logAdapter.NewZerologAdapterWithLogger(log)

	session := zmq.NewSession(context.Background(), log)
	defer session.Close()
	log.Info().Str("session", session.ID()).Str("url", ep.String()).Msg("connecting")

	push, err := session.Push(ep)
	if err != nil {
		return err
	}
	tx := app.NewTransmitter(push, cfg.QueueCapacity, logger)

	p := &app.Pipeline{
		Device: app.NewDevice(newSource(cfg), logger),
		Stages: []app.Stage{
			app.Transform(app.Geometry{HFlip: cfg.HFlip, VFlip: cfg.VFlip, Centre: cfg.Centre}),
			app.Annotate(cfg.Name, "camstream", nil),
			app.EncodeJPEG(cfg.Quality),
		},
		Sender: tx,
		Peer:   cfg.Name,
		Limit:  cfg.Limit,
		Logger: logger,
	}

	runErr := p.Run(ctx)

	if ctx.Err() != nil {
		// Interrupted: unsent frames are dropped rather than waiting on the network.
		log.Info().Msg("received signal, stopping...")
		session.Close()
		tx.Close()
		return runErr
	}

	closeErr := tx.Close()
	return errors.Join(runErr, closeErr)
}
