package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/signify-dev/signify-go-backend/internal/logger"
)

const serviceVersion = "1.0.0"

type healthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Model   string `json:"model"`
}

// StartHealthServer serves the liveness endpoint and the prometheus scrape
// target on their own port, fully isolated from the recognition pipeline.
func StartHealthServer(port int, serviceName, modelDescription string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthStatus{
			Status:  "healthy",
			Service: serviceName,
			Version: serviceVersion,
			Model:   modelDescription,
		})
	})
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.InfoF("Health check endpoint available at http://0.0.0.0:%d/health", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.ErrorF("Health server error: %v", err)
		}
	}()
}
