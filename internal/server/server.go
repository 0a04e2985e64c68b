// Package server accepts websocket clients and runs one recognition
// dispatcher per connection.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/gorilla/websocket"

	"github.com/signify-dev/signify-go-backend/internal/config"
	"github.com/signify-dev/signify-go-backend/internal/connection"
	"github.com/signify-dev/signify-go-backend/internal/detector"
	"github.com/signify-dev/signify-go-backend/internal/inference"
	"github.com/signify-dev/signify-go-backend/internal/logger"
	"github.com/signify-dev/signify-go-backend/internal/metrics"
)

// connection intake cap
var sem = make(chan struct{}, 10000)

type Server struct {
	cfg       config.Config
	extractor detector.Extractor
	predictor inference.Predictor
	metrics   *metrics.PerformanceMetrics
	pool      *workerpool.WorkerPool
	upgrader  websocket.Upgrader
	manager   *connection.ConnectionManager
}

func NewServer(cfg config.Config, extractor detector.Extractor, predictor inference.Predictor,
	m *metrics.PerformanceMetrics) *Server {
	return &Server{
		cfg:       cfg,
		extractor: extractor,
		predictor: predictor,
		metrics:   m,
		pool:      workerpool.New(cfg.Pipeline.WorkerPoolSize),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1 << 16,
			WriteBufferSize: 1 << 12,
			// browser clients connect from arbitrary origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		manager: connection.GetConnectionManager(),
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	select {
	case sem <- struct{}{}:
	default:
		http.Error(w, "too many connections", http.StatusServiceUnavailable)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		<-sem
		logger.ErrorF("Websocket upgrade failed: %v", err)
		return
	}

	go func() {
		defer func() { <-sem }()
		newConnectionHandler(s, ws).handleConnection()
	}()
}

// Start blocks serving websocket clients until the listener fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleWebsocket)

	addr := fmt.Sprintf(":%d", s.cfg.Server.WebsocketPort)
	logger.InfoF("Websocket server listening on ws://0.0.0.0%s", addr)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}

// ShutdownCallback closes all live connections and drains the worker pool.
type ShutdownCallback struct {
	server *Server
}

func NewShutdownCallback(s *Server) *ShutdownCallback {
	return &ShutdownCallback{server: s}
}

func (sc *ShutdownCallback) Invoke(ctx context.Context) error {
	logger.InfoF("Closing %d live connections", sc.server.manager.Count())
	sc.server.manager.CloseAll()
	sc.server.pool.StopWait()
	return nil
}
