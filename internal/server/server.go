// Package server hosts the websocket endpoint of the dictation service:
// it accepts client connections, segments their audio into recognition
// tasks and routes results back to the connection that sent the audio.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"dikto/internal/protocol"
	"dikto/internal/recognize"
	"dikto/internal/segment"
	"dikto/internal/version"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

var upgrader = websocket.Upgrader{
	Subprotocols: []string{"binary"},
	// Audio frames can be large; do not cap message sizes.
	ReadBufferSize:  1 << 16,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Server accepts dictation clients over websocket.
type Server struct {
	echo     *echo.Echo
	registry *Registry
	tasks    chan<- recognize.Task

	wg sync.WaitGroup
}

// New wires the websocket host to the worker's task queue.
func New(registry *Registry, tasks chan<- recognize.Task) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	s := &Server{echo: e, registry: registry, tasks: tasks}

	e.GET("/", s.handleWS)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"status":      "ok",
			"version":     version.Version,
			"connections": registry.Len(),
		})
	})
	return s
}

// Start binds the listener and serves until Shutdown. A failed bind is
// returned so main can exit non-zero.
func (s *Server) Start(addr string, port int) error {
	err := s.echo.Start(fmt.Sprintf("%s:%d", addr, port))
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bind %s:%d: %w", addr, port, err)
	}
	return nil
}

// Shutdown closes the acceptor and waits for connection loops to end.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.echo.Shutdown(ctx)
	s.wg.Wait()
	return err
}

// SendResults consumes the worker's out-queue and routes each result to
// its originating connection. Results whose connection is gone are
// dropped. Returns when the channel closes.
func (s *Server) SendResults(results <-chan recognize.Result) {
	for result := range results {
		c := s.registry.get(result.SocketID)
		if c == nil {
			continue
		}
		if err := c.writeJSON(result.Frame()); err != nil {
			log.Printf("send to %s failed: %v", result.SocketID, err)
			continue
		}
		switch {
		case result.Source == protocol.SourceMic && result.IsFinal:
			log.Printf("recognized: %s", result.Text)
		case result.Source == protocol.SourceFile && result.IsFinal:
			log.Printf("transcription finished at %.2fs", result.Duration)
		}
	}
}

// handleWS runs one connection: upgrade, register, then feed incoming
// frames through the per-connection segment buffer until the peer goes
// away or sends garbage.
func (s *Server) handleWS(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	s.registry.Add(id, ws)
	s.wg.Add(1)
	log.Printf("client connected: %s (%s)", id, c.RealIP())

	go func() {
		defer func() {
			s.registry.Remove(id)
			ws.Close()
			s.wg.Done()
			log.Printf("client disconnected: %s", id)
		}()
		s.recvLoop(id, ws)
	}()
	return nil
}

func (s *Server) recvLoop(id string, ws *websocket.Conn) {
	buffer := segment.New()
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			// Clean close and abrupt drop end the loop the same way;
			// in-flight tasks die at the worker's liveness check.
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("read from %s: %v", id, err)
			}
			return
		}

		frame, pcm, err := protocol.ParseAudioFrame(raw)
		if err != nil {
			log.Printf("closing %s: %v", id, err)
			return
		}

		if frame.Source == protocol.SourceFile && !buffer.Started() && !frame.IsFinal {
			log.Printf("receiving audio file from %s", id)
		}
		if frame.IsFinal {
			log.Printf("audio complete from %s: %.2fs", id, buffer.Pending()+float64(len(pcm))/protocol.BytesPerSecond)
		}

		// A full task queue blocks here, which stalls this connection's
		// reads and pushes back on the client.
		for _, task := range buffer.Feed(frame, pcm, id, epochNow()) {
			s.tasks <- task
		}
	}
}

func epochNow() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
