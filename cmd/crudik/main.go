package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/AlibekovAA/crudik/internal/common/bootstrap"
	"github.com/AlibekovAA/crudik/internal/common/config"
	"github.com/AlibekovAA/crudik/internal/common/constants"
	"github.com/AlibekovAA/crudik/internal/common/db"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	srv "github.com/AlibekovAA/crudik/internal/common/server"
	"github.com/AlibekovAA/crudik/internal/common/tracing"
)

const (
	modeServer  = "server"
	modeMigrate = "migrate"
)

func main() {
	mode := flag.String("mode", modeServer, "run mode: server or migrate")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Dir, constants.ServiceName, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	switch *mode {
	case modeServer:
		err = runServer(cfg, log)
	case modeMigrate:
		err = db.Migrate(log, cfg.DB.DSN())
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatalf("%s: %v", *mode, err)
	}
}

func runServer(cfg config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, constants.ServiceName, cfg.Otel.Endpoint)
	if err != nil {
		return err
	}

	pool, err := db.NewPool(ctx, log, cfg.DB.DSN())
	if err != nil {
		return err
	}

	metricsCtx, stopMetrics := context.WithCancel(context.Background())
	db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)

	app := bootstrap.NewApp(cfg, log, pool)

	serverConfig := srv.DefaultServerConfig(cfg.Server.Addr())
	server := srv.NewServer(serverConfig, app.Router())

	hooks := []srv.ShutdownHook{
		func(context.Context) error {
			stopMetrics()
			pool.Close()
			log.Infof("database pool closed")
			return nil
		},
		shutdownTracing,
	}

	return srv.ListenAndRun(ctx, server, serverConfig, log, hooks)
}
