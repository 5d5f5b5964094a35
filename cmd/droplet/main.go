package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/akmonengine/droplet"
	"github.com/akmonengine/droplet/driver"
	"github.com/akmonengine/droplet/internal/logging"
	"github.com/akmonengine/droplet/scene"
	"github.com/akmonengine/droplet/stream"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", "", "YAML configuration file, defaults are used when empty")
	addr := flag.String("addr", ":8080", "websocket listen address")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	spawnEvery := flag.Uint64("spawn-every", scene.DEFAULT_SPAWN_EVERY, "add a circle every N frames, 0 disables spawning")
	boxSize := flag.Float64("box-size", 200, "side of the rounded box placed in the middle of the world, 0 disables it")
	flag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	if err := run(logger, *configPath, *addr, *spawnEvery, *boxSize); err != nil {
		logger.Error("droplet stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(logger *zap.Logger, configPath, addr string, spawnEvery uint64, boxSize float64) error {
	config := droplet.DefaultConfig()
	if configPath != "" {
		var err error
		if config, err = droplet.LoadFile(configPath); err != nil {
			return err
		}
	}

	world, err := droplet.NewWorld(config, droplet.WithLogger(logger.Named("world")))
	if err != nil {
		return err
	}

	if boxSize > 0 {
		if err := scene.Enqueue(world, scene.CenteredBox(config.Width, config.Height, boxSize, 20)); err != nil {
			return fmt.Errorf("build scene: %w", err)
		}
	}

	hub := stream.NewHub(world, stream.WithLogger(logger.Named("stream")))

	d := driver.New(world, driver.WithLogger(logger.Named("driver")))
	d.Subscribe(hub.Broadcast)
	if spawnEvery > 0 {
		d.AddHook(scene.NewSpawner(world, spawnEvery, scene.DefaultTemplate).OnFrame)
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           hub.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.Run(ctx)
	})

	g.Go(func() error {
		logger.Info("listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
