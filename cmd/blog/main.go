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

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-blog"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/internal/runtimeconfig"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	serverIdleTimeout  = time.Minute
	serverReadTimeout  = 10 * time.Second
	serverWriteTimeout = 30 * time.Second
)

func main() {
	configPath := flag.String("config", "", "Optional YAML config file")
	envFile := flag.String("env-file", ".env", "Dotenv file loaded before reading the environment")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configPath, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "blog: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, envFile string) error {
	if err := runtimeconfig.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := runtimeconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	module, err := blog.New(cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	log := logging.ModuleLogger(module.Container().LoggerProvider(), "blog.server")

	handler, err := module.Handler()
	if err != nil {
		return fmt.Errorf("routes: %w", err)
	}

	go func() {
		if err := module.Warm(ctx); err != nil {
			log.Warn("server.warm.failed", "error", err)
		}
	}()

	servers := []*http.Server{startServer(log, "http", cfg.Server.Addr, handler)}
	if cfg.Server.MetricsAddr != "" {
		servers = append(servers, startServer(log, "metrics", cfg.Server.MetricsAddr, metricsRouter(module)))
	}

	<-ctx.Done()
	log.Info("server.shutdown.start")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutdown %s: %w", srv.Addr, err))
		}
	}
	log.Info("server.shutdown.complete")
	return errors.Join(errs...)
}

func metricsRouter(module *blog.Module) http.Handler {
	mux := chi.NewRouter()
	mux.Handle("/metrics", module.MetricsHandler())
	return mux
}

func startServer(log interfaces.Logger, name, addr string, handler http.Handler) *http.Server {
	server := &http.Server{
		Addr:         addr,
		IdleTimeout:  serverIdleTimeout,
		ReadTimeout:  serverReadTimeout,
		WriteTimeout: serverWriteTimeout,
		Handler:      handler,
	}

	go func() {
		log.Info("server.started", "server", name, "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server.failed", "server", name, "error", err)
		}
	}()

	return server
}
