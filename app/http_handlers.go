// HTTP front-end over the engine session. Requests are accepted
// asynchronously (202) and their outcomes are picked up from /events, the
// same poll-the-result-queue model a desktop front uses.

package app

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Randy420Marsh/Chess-Analyzer/app/models"
)

// Server exposes one engine session over HTTP and buffers its events until a
// client polls for them.
type Server struct {
	log     zerolog.Logger
	session *Session
	rules   Rules
	history *HistoryStore

	mu      sync.Mutex
	pending []models.SessionEvent
}

// NewServer wires a server around a running session and starts draining its
// event stream into the poll buffer.
func NewServer(logger zerolog.Logger, session *Session, history *HistoryStore) *Server {
	s := &Server{
		log:     logger,
		session: session,
		rules:   NotnilRules{},
		history: history,
	}
	go s.drainEvents()
	return s
}

func (s *Server) drainEvents() {
	for ev := range s.session.Events() {
		s.mu.Lock()
		s.pending = append(s.pending, ev)
		s.mu.Unlock()
	}
}

// Close shuts the session down. The drain goroutine exits when the event
// stream closes.
func (s *Server) Close() {
	s.session.Shutdown()
}

type connectRequest struct {
	Path string `json:"path"`
}

// ConnectEngine queues a connection attempt. An empty path falls back to
// probing PATH for a Stockfish install.
func (s *Server) ConnectEngine(c *gin.Context) {
	var req connectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	path := req.Path
	if path == "" {
		path = DetectEngine()
		if path == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no engine path given and none found on PATH"})
			return
		}
	}

	if err := s.session.Connect(path); err != nil {
		s.rejected(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "connecting", "path": path})
}

type analyzeRequest struct {
	FEN        string `json:"fen" binding:"required"`
	MoveTimeMS int    `json:"move_time_ms"`
}

// AnalyzePosition freezes the posted FEN through the rules library and
// queues it for analysis.
func (s *Server) AnalyzePosition(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pos, err := s.rules.ParseFEN(req.FEN)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot := Snapshot(s.rules, pos)
	budget := time.Duration(req.MoveTimeMS) * time.Millisecond
	if err := s.session.Analyze(snapshot, budget); err != nil {
		s.rejected(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "analyzing", "turn": snapshot.Turn})
}

// GetEvents pops every buffered session event, oldest first.
func (s *Server) GetEvents(c *gin.Context) {
	s.mu.Lock()
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	if events == nil {
		events = []models.SessionEvent{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetStatus reports the session's lifecycle state.
func (s *Server) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": s.session.State().String()})
}

// GetHistory returns recently stored analyses; empty when no database is
// configured.
func (s *Server) GetHistory(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 500 {
			limit = v
		}
	}

	entries, err := s.history.Recent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) rejected(c *gin.Context, err error) {
	status := http.StatusServiceUnavailable
	if errors.Is(err, ErrQueueFull) {
		status = http.StatusTooManyRequests
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
