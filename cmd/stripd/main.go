// Command stripd drives LED strips from a YAML roster. It renders every
// configured pattern on one loop, reloads the roster when the file
// changes and optionally serves live telemetry over HTTP.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/glowshed/stripctl/internal/config"
	"github.com/glowshed/stripctl/internal/manager"
	"github.com/glowshed/stripctl/internal/telemetry"
)

var (
	configPath = "stripctl.yaml"
	listenAddr = ""
	logLevel   = "info"
	logFormat  = "console"
	pollEvery  = time.Second
)

func init() {
	pflag.StringVarP(&configPath, "config", "c", configPath, "strip roster file")
	pflag.StringVar(&listenAddr, "listen", listenAddr, "status server address, overrides the config value")
	pflag.StringVar(&logLevel, "log-level", logLevel, "trace | debug | info | warn | error")
	pflag.StringVar(&logFormat, "log-format", logFormat, "console | json")
	pflag.DurationVar(&pollEvery, "config-poll", pollEvery, "roster poll interval")
}

func main() {
	pflag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	if logFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}

	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("stripd failed")
	}
	log.Info().Msg("stopped")
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// The flag wins over the file for the log level, but only when it
	// was actually given.
	level := logLevel
	if !pflag.CommandLine.Changed("log-level") && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", level).Msg("unknown log level, staying at info")
	}

	addr := cfg.Listen
	if listenAddr != "" {
		addr = listenAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	snaps, err := config.Watch(ctx, configPath, pollEvery)
	if err != nil {
		return err
	}

	reporter := telemetry.Reporter(telemetry.NewLogReporter())
	var status manager.StatusSink
	var hub *telemetry.Hub
	if addr != "" {
		hub = telemetry.NewHub()
		reporter = telemetry.Multi(reporter, hub)
		status = hub
	}

	m := manager.New(manager.Options{Reporter: reporter, Status: status})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return m.Run(ctx, snaps) })

	if addr != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.HandleWS)
		mux.HandleFunc("/status", hub.HandleStatus)
		srv := &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		g.Go(func() error {
			log.Info().Str("addr", addr).Msg("status server listening")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdown)
		})
	}

	return g.Wait()
}
