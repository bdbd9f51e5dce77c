package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"smartclimate/internal/api"
	"smartclimate/internal/clock"
	"smartclimate/internal/config"
	"smartclimate/internal/controller"
	"smartclimate/internal/ha"
	"smartclimate/internal/store"
	"smartclimate/internal/telemetry"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using environment variables")
	}

	haURL := os.Getenv("HA_URL")
	haToken := os.Getenv("HA_TOKEN")
	readOnly := os.Getenv("READ_ONLY") == "true"

	if haURL == "" || haToken == "" {
		logger.Fatal("HA_URL and HA_TOKEN environment variables must be set")
	}

	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config.yaml"
	}

	statePath := os.Getenv("STATE_FILE")
	if statePath == "" {
		statePath = "smartclimate-state.json"
	}

	apiPort := 8081
	if p := os.Getenv("API_PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			logger.Fatal("Invalid API_PORT", zap.String("value", p))
		}
		apiPort = port
	}

	cfg, err := config.Load(configPath, logger.Named("config"))
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Info("Starting Smart Climate Control",
		zap.String("url", haURL),
		zap.String("heat_pump", cfg.HeatPump),
		zap.Bool("read_only", readOnly))

	client := ha.NewClient(haURL, haToken, logger.Named("ha"))
	if err := client.Connect(); err != nil {
		logger.Fatal("Failed to connect to Home Assistant", zap.Error(err))
	}
	defer client.Disconnect()

	var publisher telemetry.Publisher
	if broker := os.Getenv("MQTT_BROKER"); broker != "" {
		pub, err := telemetry.NewRealPublisher(broker)
		if err != nil {
			logger.Error("Failed to connect to MQTT broker, telemetry disabled", zap.Error(err))
		} else {
			publisher = pub
			defer pub.Close()
			pub.PublishSystem(telemetry.SystemEvent{
				Timestamp: time.Now(),
				Event:     "STARTUP",
			})
		}
	}

	st := store.New(statePath, logger.Named("store"))

	ctrl := controller.New(client, cfg, st, clock.NewReal(), publisher, logger, readOnly)
	if err := ctrl.Start(); err != nil {
		logger.Fatal("Failed to start controller", zap.Error(err))
	}

	apiServer := api.NewServer(ctrl, logger.Named("api"), apiPort)
	if err := apiServer.Start(); err != nil {
		logger.Fatal("Failed to start API server", zap.Error(err))
	}

	if readOnly {
		logger.Info("Running in READ-ONLY mode - no commands will be sent to Home Assistant")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logger.Info("Shutting down gracefully...", zap.String("signal", sig.String()))

	if publisher != nil {
		publisher.PublishSystem(telemetry.SystemEvent{
			Timestamp: time.Now(),
			Event:     "SHUTDOWN",
			Reason:    sig.String(),
		})
	}

	if err := apiServer.Stop(); err != nil {
		logger.Error("Failed to stop API server", zap.Error(err))
	}
	ctrl.Stop()
}
