package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/jawher/mow.cli"

	"github.com/arloliu/ringq/internal/httpapi"
	"github.com/arloliu/ringq/logger"
	"github.com/arloliu/ringq/queue"
	"github.com/arloliu/ringq/registry"
)

const (
	appName        = "ringq-server"
	appDescription = "Serves named FIFO queues over HTTP."
)

type serverConfig struct {
	addr            string
	initialCapacity int
	growFloor       int
	maxMessageSize  int64
	reclaimInterval time.Duration
	reclaimMinSlack int
	shutdownTimeout time.Duration
	logLevel        logger.Level
	consoleLog      bool
}

func main() {
	app := cli.App(appName, appDescription)

	addr := app.String(cli.StringOpt{
		Name:   "addr",
		Value:  ":8080",
		Desc:   "Address to listen on",
		EnvVar: "RINGQ_ADDR",
	})
	initialCapacity := app.Int(cli.IntOpt{
		Name:   "initial-capacity",
		Value:  16,
		Desc:   "Capacity of newly created queues",
		EnvVar: "RINGQ_INITIAL_CAPACITY",
	})
	growFloor := app.Int(cli.IntOpt{
		Name:   "grow-floor",
		Value:  4,
		Desc:   "Smallest capacity a full queue grows to",
		EnvVar: "RINGQ_GROW_FLOOR",
	})
	maxMessageSize := app.Int(cli.IntOpt{
		Name:   "max-message-size",
		Value:  1 << 20,
		Desc:   "Largest accepted message in bytes, 0 disables the limit",
		EnvVar: "RINGQ_MAX_MESSAGE_SIZE",
	})
	reclaimInterval := app.String(cli.StringOpt{
		Name:   "reclaim-interval",
		Value:  "1m",
		Desc:   "How often unused queue capacity is released, 0 disables reclaiming",
		EnvVar: "RINGQ_RECLAIM_INTERVAL",
	})
	reclaimMinSlack := app.Int(cli.IntOpt{
		Name:   "reclaim-min-slack",
		Value:  64,
		Desc:   "Minimum number of unused slots before a queue is reclaimed",
		EnvVar: "RINGQ_RECLAIM_MIN_SLACK",
	})
	shutdownTimeout := app.String(cli.StringOpt{
		Name:   "shutdown-timeout",
		Value:  "10s",
		Desc:   "Time allowed for in-flight requests on shutdown",
		EnvVar: "RINGQ_SHUTDOWN_TIMEOUT",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "log-level",
		Value:  "info",
		Desc:   "Logging level (debug, info, warn, error)",
		EnvVar: "LOG_LEVEL",
	})
	consoleLog := app.Bool(cli.BoolOpt{
		Name:   "console-log",
		Value:  false,
		Desc:   "Write human readable logs instead of JSON",
		EnvVar: "RINGQ_CONSOLE_LOG",
	})

	app.Action = func() {
		cfg, err := newServerConfig(*addr, *initialCapacity, *growFloor, *maxMessageSize,
			*reclaimInterval, *reclaimMinSlack, *shutdownTimeout, *logLevel, *consoleLog)
		if err != nil {
			logger.Fatal("invalid configuration", "error", err)
		}

		l := logger.NewSlogWriter(os.Stdout, cfg.logLevel, false, cfg.consoleLog || os.Getenv("ENV") == "development")
		logger.SetLogger(l)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := run(ctx, cfg, l); err != nil {
			l.Fatal("server stopped", "error", err)
		}
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServerConfig(addr string, initialCapacity int, growFloor int, maxMessageSize int,
	reclaimInterval string, reclaimMinSlack int, shutdownTimeout string, logLevel string, consoleLog bool,
) (serverConfig, error) {
	cfg := serverConfig{
		addr:            addr,
		initialCapacity: initialCapacity,
		growFloor:       growFloor,
		maxMessageSize:  int64(maxMessageSize),
		reclaimMinSlack: reclaimMinSlack,
		consoleLog:      consoleLog,
	}

	var err error
	if cfg.reclaimInterval, err = time.ParseDuration(reclaimInterval); err != nil {
		return cfg, fmt.Errorf("reclaim interval: %w", err)
	}
	if cfg.shutdownTimeout, err = time.ParseDuration(shutdownTimeout); err != nil {
		return cfg, fmt.Errorf("shutdown timeout: %w", err)
	}
	if cfg.logLevel, err = logger.ParseLevel(logLevel); err != nil {
		return cfg, err
	}

	switch {
	case cfg.addr == "":
		return cfg, errors.New("listen address is required")
	case cfg.initialCapacity < 0:
		return cfg, errors.New("initial capacity should be >= 0")
	case cfg.growFloor < 1:
		return cfg, errors.New("grow floor should be >= 1")
	case cfg.maxMessageSize < 0:
		return cfg, errors.New("max message size should be >= 0")
	case cfg.reclaimInterval < 0:
		return cfg, errors.New("reclaim interval should be >= 0")
	case cfg.reclaimMinSlack < 0:
		return cfg, errors.New("reclaim min slack should be >= 0")
	}

	return cfg, nil
}

func newRegistry(cfg serverConfig, l logger.Logger) (*registry.Registry, error) {
	return registry.New(
		registry.WithLogger(l),
		registry.WithInitialCapacity(cfg.initialCapacity),
		registry.WithQueueOptions(queue.WithGrowFloor(cfg.growFloor)),
	)
}

func run(ctx context.Context, cfg serverConfig, l logger.Logger) error {
	reg, err := newRegistry(cfg, l)
	if err != nil {
		return err
	}

	h := httpapi.NewHandler(reg, l)
	h.MaxMessageSize = cfg.maxMessageSize

	server := &http.Server{
		Addr:              cfg.addr,
		Handler:           httpapi.NewServer(h),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.addr)
	if err != nil {
		return err
	}

	return serve(ctx, server, ln, reg, cfg, l)
}

func serve(ctx context.Context, server *http.Server, ln net.Listener, reg *registry.Registry, cfg serverConfig, l logger.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("queue service listening", "addr", ln.Addr().String())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	go reclaimLoop(ctx, reg, cfg.reclaimInterval, cfg.reclaimMinSlack, l)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info("shutting down queue service")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	reg.PrintStats()

	return <-errCh
}

// reclaimLoop releases unused queue capacity every interval until ctx is done.
func reclaimLoop(ctx context.Context, reg *registry.Registry, interval time.Duration, minSlack int, l logger.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := reg.ReclaimAll(minSlack); n > 0 {
				l.Debug("reclaimed queue capacity", "queues", n)
			}
		}
	}
}
