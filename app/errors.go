package app

import "errors"

// Failure taxonomy for engine sessions. All of these are recovered at the
// session boundary and surfaced to the caller as SessionEvents; none of them
// terminate the worker.
var (
	ErrInvalidExecutable = errors.New("invalid engine executable")
	ErrHandshakeTimeout  = errors.New("engine handshake timed out")
	ErrProtocolViolation = errors.New("unexpected UCI response")
	ErrProcessCrashed    = errors.New("engine process exited")
	ErrNotConnected      = errors.New("engine not connected")
	ErrSearchTimeout     = errors.New("engine search timed out")
	ErrSessionClosed     = errors.New("session is shut down")
	ErrQueueFull         = errors.New("session request queue is full")
)
