package main

import (
	"github.com/signify-dev/signify-go-backend/internal/config"
	"github.com/signify-dev/signify-go-backend/internal/detector"
	"github.com/signify-dev/signify-go-backend/internal/event"
	"github.com/signify-dev/signify-go-backend/internal/inference"
	"github.com/signify-dev/signify-go-backend/internal/logger"
	"github.com/signify-dev/signify-go-backend/internal/metrics"
	"github.com/signify-dev/signify-go-backend/internal/server"
)

func main() {
	cfg, err := config.ReadConfig()
	if err != nil {
		logger.FatalF("Error occured while reading config %v", err)
		return
	}
	loggerCallback := logger.Init()
	logger.Debug("Application initializing...")
	cleaner := event.NewCleaner()
	cleaner.Init(loggerCallback)

	predictor, err := inference.New(cfg)
	if err != nil {
		logger.FatalF("Error occured while loading the model, details: %v", err)
		return
	}
	logger.InfoF("Classifier ready: %s (%d classes)", predictor.Describe(), predictor.NumClasses())

	// landmark extraction runs out of process; without one configured every
	// frame is treated as a detection miss
	extractor := detector.NewNullExtractor()
	logger.Warn("No landmark detector configured, frames will be reported as detection misses")

	performance := metrics.New(100)
	cleaner.Add(metrics.NewDumpCallback(performance))

	server.StartHealthServer(cfg.Server.HealthPort, cfg.AppName, predictor.Describe())

	srv := server.NewServer(cfg, extractor, predictor, performance)
	cleaner.Add(server.NewShutdownCallback(srv))
	if err := srv.Start(); err != nil {
		logger.FatalF("Error occured while running the websocket server, details: %v", err)
	}
}
