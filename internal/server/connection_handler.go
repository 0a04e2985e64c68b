package server

import (
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"

	"github.com/signify-dev/signify-go-backend/internal/connection"
	"github.com/signify-dev/signify-go-backend/internal/logger"
	"github.com/signify-dev/signify-go-backend/internal/pipeline"
	"github.com/signify-dev/signify-go-backend/internal/protocol"
	"github.com/signify-dev/signify-go-backend/internal/throttle"
	"github.com/signify-dev/signify-go-backend/internal/utils"
)

type connectionHandler struct {
	conn       *connection.Connection
	dispatcher *pipeline.Dispatcher
	manager    *connection.ConnectionManager
}

// newConnectionHandler builds the per-connection pipeline: a fresh session
// state and throttle, sharing the process-wide detector, model, metrics and
// worker pool.
func newConnectionHandler(s *Server, ws *websocket.Conn) *connectionHandler {
	conn := connection.NewConnection(ws)

	state := pipeline.NewState(s.cfg.Pipeline.KeypointWindowSize, s.cfg.Pipeline.SmoothingWindowSize)
	consumer := pipeline.NewConsumer(conn.ID, state, s.extractor, s.predictor, s.metrics)
	th := throttle.New(
		utils.ParseStringTime(s.cfg.Throttle.MinInterval),
		s.cfg.Throttle.ProbabilityThreshold,
	)

	var frameTimeout time.Duration
	if s.cfg.Pipeline.FrameTimeout != "" {
		frameTimeout = utils.ParseStringTime(s.cfg.Pipeline.FrameTimeout)
	}
	dispatcher := pipeline.NewDispatcher(conn.ID, state, consumer, th, s.metrics, s.pool, conn, frameTimeout)

	return &connectionHandler{
		conn:       conn,
		dispatcher: dispatcher,
		manager:    s.manager,
	}
}

func isNetClosedError(err error) bool {
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	var opErr *net.OpError
	ok := errors.As(err, &opErr)
	return ok && opErr.Timeout()
}

func handleReadError(connID string, err error) {
	var closeErr *websocket.CloseError
	switch {
	case errors.As(err, &closeErr):
		logger.InfoF("[%s] Client close connection (code=%d)", connID, closeErr.Code)
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		logger.InfoF("[%s] Client close connection", connID)
	default:
		logger.ErrorF("[%s] Error occured while reading message, details: %v", connID, err)
	}
}

// handleMessageSafe absorbs panics from a single message so one bad frame
// never kills the connection; the client gets the rare error form instead.
func (c *connectionHandler) handleMessageSafe(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorF("[%s] Unexpected error handling message: %v", c.conn.ID, r)
			if err := c.conn.Send(protocol.FormatErrorResponse(fmt.Sprint(r))); err != nil {
				logger.ErrorF("[%s] Failed to send error response: %v", c.conn.ID, err)
			}
		}
	}()
	c.dispatcher.HandleMessage(data)
}

func (c *connectionHandler) handleConnection() {
	c.manager.AddConnection(c.conn)

	defer func() {
		c.dispatcher.Close()
		c.manager.RemoveConnection(c.conn.ID)
		logger.DebugF("[%s] Connection closed", c.conn.ID)
		if err := c.conn.Close(); err != nil && !isNetClosedError(err) {
			logger.WarnF("[%s] Error occured while closing connection, details: %v", c.conn.ID, err)
		}
	}()

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			handleReadError(c.conn.ID, err)
			return
		}

		if messageType != websocket.TextMessage {
			logger.WarnF("[%s] Ignoring non-text message (type=%d)", c.conn.ID, messageType)
			continue
		}

		logger.DebugF("[%s] Receive message, %d bytes", c.conn.ID, len(data))
		c.handleMessageSafe(data)
	}
}
