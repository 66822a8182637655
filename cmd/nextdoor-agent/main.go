package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/Prescott-Data/nextdoor/bridge"
	"github.com/Prescott-Data/nextdoor/bridge/telemetry"
	"github.com/Prescott-Data/nextdoor/config"
	"github.com/Prescott-Data/nextdoor/internal/agent"
	"github.com/Prescott-Data/nextdoor/internal/server"
)

var Version = "dev"

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		log.Printf("nextdoor-agent version: %s", Version)
		os.Exit(0)
	}

	configPath := flag.String("config", getEnv("NEXTDOOR_CONFIG", "nextdoor.yaml"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := run(cfg); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if cfg.ConnectionID == "" {
		cfg.ConnectionID = uuid.NewString()
	}

	logger := telemetry.NewLoggerWithLevel(os.Stdout, telemetry.ParseLevel(cfg.Log.Level))
	labels := map[string]string{"connection_id": cfg.ConnectionID}
	for k, v := range cfg.Metrics.Labels {
		labels[k] = v
	}
	metrics := telemetry.NewMetrics(nil, labels)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status := server.NewStatus(cfg.ConnectionID)
	if cfg.Metrics.Addr != "" {
		srv := server.New(cfg.Metrics.Addr, status)
		go func() {
			logger.Info("Status server listening", "addr", cfg.Metrics.Addr)
			if err := srv.Start(); err != nil {
				logger.Error(err, "Status server failed")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	routes := agent.NewRouter(&agent.State{
		AgentID:   cfg.ConnectionID,
		Version:   Version,
		StartedAt: time.Now(),
		Logger:    logger,
	})

	opts := append(cfg.BridgeOptions(),
		bridge.WithLogger(logger),
		bridge.WithMetrics(metrics),
		bridge.WithOnConnect(status.OnConnect),
		bridge.WithOnDisconnect(status.OnDisconnect),
	)
	b := bridge.New(routes, opts...)

	logger.Info("Starting nextdoor-agent", "version", Version, "connectionID", cfg.ConnectionID, "endpoint", telemetry.RedactURL(cfg.URL))
	if err := b.MaintainWebSocket(ctx, cfg.ConnectionID, cfg.URL); err != nil {
		logger.Error(err, "Bridge stopped")
		return err
	}
	logger.Info("Shut down cleanly")
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
