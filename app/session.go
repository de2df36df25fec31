// The engine session: a single background worker that owns one UCI engine
// process and exchanges typed requests/events with the foreground over
// bounded channels. The caller never blocks on engine work and never touches
// the process; it submits a request and later polls (or ranges over) the
// event stream.

package app

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Randy420Marsh/Chess-Analyzer/app/config"
	"github.com/Randy420Marsh/Chess-Analyzer/app/models"
)

// SessionState is the worker's lifecycle position, readable from any
// goroutine for status display.
type SessionState int32

const (
	StateDisconnected SessionState = iota
	StateConnecting
	StateIdle
	StateAnalyzing
)

func (st SessionState) String() string {
	switch st {
	case StateConnecting:
		return "connecting"
	case StateIdle:
		return "idle"
	case StateAnalyzing:
		return "analyzing"
	default:
		return "disconnected"
	}
}

// watchdogMargin pads the search watchdog beyond movetime*factor so a
// healthy engine's own overhead never trips it.
const watchdogMargin = 2 * time.Second

type requestKind int

const (
	reqConnect requestKind = iota
	reqAnalyze
)

type request struct {
	kind     requestKind
	path     string                 // reqConnect
	analysis models.AnalysisRequest // reqAnalyze
}

// engineTransport is what the worker drives; *UCIEngine in production, a
// scripted fake in tests.
type engineTransport interface {
	NewGame() error
	Analyze(ctx context.Context, fen string, settings models.EngineSettings) (models.UCIScore, error)
	Alive() bool
	Close() error
}

// Session owns at most one live engine at a time. Requests are processed
// strictly in submission order by one worker goroutine, and every accepted
// request produces exactly one terminal SessionEvent.
type Session struct {
	cfg config.EngineConfig
	log zerolog.Logger

	requests chan request
	events   chan models.SessionEvent
	quit     chan struct{}
	done     chan struct{}

	closeOnce sync.Once
	state     atomic.Int32

	// submitMu orders submissions against Shutdown: once closed is set no
	// further request can land in the queue, so the worker's final drain
	// sees everything that was ever accepted.
	submitMu sync.RWMutex
	closed   bool

	// worker-owned; nothing outside run() may touch these.
	engine  engineTransport
	history *HistoryStore

	launch func(path string, timeout time.Duration) (engineTransport, error)
}

// NewSession starts the session worker. The history store may be nil.
func NewSession(cfg config.EngineConfig, logger zerolog.Logger, history *HistoryStore) *Session {
	s := newSession(cfg, logger, history)
	go s.run()
	return s
}

func newSession(cfg config.EngineConfig, logger zerolog.Logger, history *HistoryStore) *Session {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	if cfg.MoveTime <= 0 {
		cfg.MoveTime = 2000
	}
	if cfg.WatchdogFactor <= 0 {
		cfg.WatchdogFactor = 3
	}
	if cfg.HandshakeTimeoutMS <= 0 {
		cfg.HandshakeTimeoutMS = 5000
	}

	return &Session{
		cfg:      cfg,
		log:      logger,
		requests: make(chan request, cfg.QueueSize),
		events:   make(chan models.SessionEvent, cfg.QueueSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		history:  history,
		launch: func(path string, timeout time.Duration) (engineTransport, error) {
			return NewUCIEngine(path, timeout)
		},
	}
}

// Connect queues a connection attempt to the engine at path (a file path or
// a bare command name). Any engine already live when the request is processed
// is terminated first. The outcome arrives as a ConnectSucceeded or
// ConnectFailed event.
func (s *Session) Connect(path string) error {
	return s.submit(request{kind: reqConnect, path: path})
}

// Analyze queues an analysis of a frozen position. A zero budget uses the
// configured default movetime. The outcome arrives as an AnalysisCompleted
// or OperationFailed event.
func (s *Session) Analyze(snapshot models.PositionSnapshot, budget time.Duration) error {
	if budget <= 0 {
		budget = time.Duration(s.cfg.MoveTime) * time.Millisecond
	}
	return s.submit(request{kind: reqAnalyze, analysis: models.AnalysisRequest{
		Snapshot: snapshot,
		MoveTime: budget,
	}})
}

// Shutdown terminates any live engine, fails whatever is still queued, and
// stops the worker. It is idempotent, never errors, and returns once the
// worker has exited.
func (s *Session) Shutdown() {
	s.closeOnce.Do(func() {
		s.submitMu.Lock()
		s.closed = true
		s.submitMu.Unlock()
		close(s.quit)
	})
	<-s.done
}

// Events is the session's outbound stream. It is closed when the session
// shuts down.
func (s *Session) Events() <-chan models.SessionEvent {
	return s.events
}

// Poll takes one pending event without blocking; ok is false when nothing is
// pending or the session has shut down.
func (s *Session) Poll() (models.SessionEvent, bool) {
	select {
	case ev, open := <-s.events:
		if !open {
			return models.SessionEvent{}, false
		}
		return ev, true
	default:
		return models.SessionEvent{}, false
	}
}

// State reports the worker's current lifecycle state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

func (s *Session) submit(req request) error {
	s.submitMu.RLock()
	defer s.submitMu.RUnlock()
	if s.closed {
		return ErrSessionClosed
	}
	select {
	case s.requests <- req:
		return nil
	default:
		return ErrQueueFull
	}
}

func (s *Session) setState(st SessionState) {
	s.state.Store(int32(st))
}

func (s *Session) run() {
	defer close(s.done)
	for {
		select {
		case <-s.quit:
			s.stop()
			return
		case req := <-s.requests:
			switch req.kind {
			case reqConnect:
				s.handleConnect(req.path)
			case reqAnalyze:
				s.handleAnalyze(req.analysis)
			}
		}
	}
}

func (s *Session) handleConnect(path string) {
	s.setState(StateConnecting)
	s.dropEngine()

	resolved, err := ResolveEnginePath(path)
	if err != nil {
		s.connectFailed(path, err)
		return
	}

	eng, err := s.launch(resolved, time.Duration(s.cfg.HandshakeTimeoutMS)*time.Millisecond)
	if err != nil {
		s.connectFailed(resolved, err)
		return
	}
	if err := eng.NewGame(); err != nil {
		_ = eng.Close()
		s.connectFailed(resolved, err)
		return
	}

	s.engine = eng
	s.setState(StateIdle)
	s.log.Info().Str("engine", resolved).Msg("engine connected")
	s.emit(models.SessionEvent{Kind: models.EventConnectSucceeded})
}

func (s *Session) connectFailed(path string, err error) {
	s.setState(StateDisconnected)
	s.log.Warn().Str("engine", path).Err(err).Msg("engine connection failed")
	s.emit(models.SessionEvent{Kind: models.EventConnectFailed, Cause: err.Error()})
}

func (s *Session) handleAnalyze(req models.AnalysisRequest) {
	if s.engine == nil {
		s.emit(models.SessionEvent{
			Kind:  models.EventOperationFailed,
			Cause: ErrNotConnected.Error(),
		})
		return
	}

	s.setState(StateAnalyzing)
	settings := models.EngineSettings{MoveTimeMS: int(req.MoveTime.Milliseconds())}

	watchdog := req.MoveTime*time.Duration(s.cfg.WatchdogFactor) + watchdogMargin
	ctx, cancel := context.WithTimeout(context.Background(), watchdog)
	raw, err := s.engine.Analyze(ctx, req.Snapshot.FEN, settings)
	cancel()

	if err != nil {
		// The handle is only trustworthy if the process survived.
		if !s.engine.Alive() {
			s.log.Warn().Err(err).Msg("engine died during analysis")
			s.dropEngine()
			s.setState(StateDisconnected)
		} else {
			s.setState(StateIdle)
		}
		s.emit(models.SessionEvent{
			Kind:  models.EventOperationFailed,
			Cause: fmt.Sprintf("analysis failed: %v", err),
		})
		return
	}

	result := newAnalysisResult(req.Snapshot, raw)
	if err := s.history.Save(context.Background(), req.Snapshot, result); err != nil {
		s.log.Warn().Err(err).Msg("failed to record analysis history")
	}

	s.setState(StateIdle)
	s.emit(models.SessionEvent{Kind: models.EventAnalysisCompleted, Result: &result})
}

// emit blocks until the caller drains the event buffer; the bounded buffer
// is the backpressure between worker and foreground.
func (s *Session) emit(ev models.SessionEvent) {
	select {
	case s.events <- ev:
	case <-s.quit:
	}
}

func (s *Session) dropEngine() {
	if s.engine == nil {
		return
	}
	if err := s.engine.Close(); err != nil {
		s.log.Debug().Err(err).Msg("engine close")
	}
	s.engine = nil
}

// stop fails everything still queued, then releases the engine and closes
// the event stream. If the event buffer is already full the caller has
// stopped reading; the failure event is logged and dropped, and the stream
// close is the remaining terminal signal.
func (s *Session) stop() {
	for {
		select {
		case <-s.requests:
			select {
			case s.events <- models.SessionEvent{
				Kind:  models.EventOperationFailed,
				Cause: ErrSessionClosed.Error(),
			}:
			default:
				s.log.Warn().Msg("event buffer full at shutdown, dropping queued-request failure")
			}
		default:
			s.dropEngine()
			s.setState(StateDisconnected)
			close(s.events)
			return
		}
	}
}
