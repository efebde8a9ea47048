package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cardroomlabs/holdem/internal/game"
)

// Server hosts one table over websockets. Every connection receives its own
// redacted view of the table after each accepted change.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	table       *game.Table
	timer       *TurnTimer
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewServer creates a websocket server around an existing table.
func NewServer(addr string, table *game.Table, timer *TurnTimer, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				// In production, implement proper origin checking
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		table:       table,
		timer:       timer,
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}

	table.SetOnUpdate(s.onTableUpdate)
	return s
}

// Start runs the connection hub and the HTTP listener until one fails.
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	g, ctx := errgroup.WithContext(s.ctx)

	httpServer := &http.Server{Addr: s.addr, Handler: mux}

	g.Go(func() error {
		s.run()
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return httpServer.Close()
	})

	g.Go(func() error {
		s.logger.Info("Starting WebSocket server", "addr", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	return g.Wait()
}

// Stop stops the server and closes every connection.
func (s *Server) Stop() error {
	s.cancel()
	if s.timer != nil {
		s.timer.Stop()
	}

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			_, ok := s.connections[conn]
			if ok {
				delete(s.connections, conn)
			}
			total := len(s.connections)
			s.mu.Unlock()

			if ok {
				// Vacate the seat for a disconnected player.
				if playerID := conn.PlayerID(); playerID != "" {
					s.logger.Info("Removing disconnected player", "player", playerID)
					_ = s.table.Leave(playerID) // Ignore errors during cleanup
				}
				_ = conn.Close()
				s.logger.Info("Client disconnected", "total", total)
			}

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s, s.logger)
	s.register <- client
	client.Start()

	// New viewers see the table immediately.
	if msg := s.stateMessage(client.PlayerID()); msg != nil {
		client.Send(msg)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK") // Ignore write errors for health check
}

// onTableUpdate broadcasts the new state and re-arms the turn timer.
func (s *Server) onTableUpdate(state *game.State) {
	if s.timer != nil {
		s.timer.Observe(state)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		view := NewStateView(state, conn.PlayerID())
		msg, err := NewMessage(MessageTypeState, view)
		if err != nil {
			s.logger.Error("Failed to encode state", "error", err)
			return
		}
		conn.Send(msg)
	}
}

// stateMessage builds a state message for one viewer from a fresh snapshot.
func (s *Server) stateMessage(viewerID string) *Message {
	view := NewStateView(s.table.Snapshot(), viewerID)
	msg, err := NewMessage(MessageTypeState, view)
	if err != nil {
		s.logger.Error("Failed to encode state", "error", err)
		return nil
	}
	return msg
}

// handleMessage dispatches one client message.
func (s *Server) handleMessage(conn *Connection, msg *Message) {
	switch msg.Type {
	case MessageTypeJoin:
		s.handleJoin(conn, msg)
	case MessageTypeLeave:
		s.handleLeave(conn)
	case MessageTypeAction:
		s.handleAction(conn, msg)
	case MessageTypeStartHand:
		if err := s.table.StartHand(); err != nil {
			s.sendError(conn, "start_hand_failed", err)
		}
	case MessageTypeNextHand:
		if err := s.table.NextHand(); err != nil {
			s.sendError(conn, "next_hand_failed", err)
		}
	default:
		s.sendError(conn, "unknown_message", fmt.Errorf("unknown message type: %s", msg.Type))
	}
}

func (s *Server) handleJoin(conn *Connection, msg *Message) {
	var data JoinData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		s.sendError(conn, "bad_request", err)
		return
	}
	if conn.PlayerID() != "" {
		s.sendError(conn, "already_seated", fmt.Errorf("connection already seated"))
		return
	}

	playerID, err := s.table.Join(data.Name, data.BuyIn)
	if err != nil {
		s.sendError(conn, "join_failed", err)
		return
	}
	conn.SetPlayer(playerID)
	s.logger.Info("Player joined", "player", playerID, "name", data.Name)

	welcome, err := NewMessage(MessageTypeWelcome, WelcomeData{
		PlayerID: playerID,
		TableID:  s.table.ID(),
	})
	if err != nil {
		s.logger.Error("Failed to encode welcome", "error", err)
		return
	}
	conn.Send(welcome)

	// Push a fresh view so the new player sees their own seat.
	if state := s.stateMessage(playerID); state != nil {
		conn.Send(state)
	}
}

func (s *Server) handleLeave(conn *Connection) {
	playerID := conn.PlayerID()
	if playerID == "" {
		s.sendError(conn, "not_seated", fmt.Errorf("connection has no seat"))
		return
	}
	if err := s.table.Leave(playerID); err != nil {
		s.sendError(conn, "leave_failed", err)
		return
	}
	conn.SetPlayer("")
}

func (s *Server) handleAction(conn *Connection, msg *Message) {
	playerID := conn.PlayerID()
	if playerID == "" {
		s.sendError(conn, "not_seated", fmt.Errorf("connection has no seat"))
		return
	}

	var data ActionData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		s.sendError(conn, "bad_request", err)
		return
	}
	action, err := game.ParseAction(data.Action)
	if err != nil {
		s.sendError(conn, "bad_action", err)
		return
	}
	if err := s.table.Apply(playerID, action, data.Amount); err != nil {
		s.sendError(conn, "action_rejected", err)
	}
}

func (s *Server) sendError(conn *Connection, code string, cause error) {
	s.logger.Debug("Rejecting client message", "code", code, "error", cause)
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: cause.Error()})
	if err != nil {
		s.logger.Error("Failed to encode error", "error", err)
		return
	}
	conn.Send(msg)
}
