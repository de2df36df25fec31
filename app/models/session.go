package models

import "time"

// Side identifies whose perspective a score or turn refers to.
type Side string

const (
	SideWhite Side = "white"
	SideBlack Side = "black"
)

func (s Side) String() string { return string(s) }

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SideWhite {
		return SideBlack
	}
	return SideWhite
}

// PositionSnapshot is a frozen copy of a board position. It is captured
// before an analysis request is queued so the caller's live board can keep
// changing while the engine works.
type PositionSnapshot struct {
	FEN  string `json:"fen"`
	Turn Side   `json:"turn"`
}

// AnalysisRequest asks the engine for its best line on a frozen position.
type AnalysisRequest struct {
	Snapshot PositionSnapshot `json:"snapshot"`
	MoveTime time.Duration    `json:"move_time"`
}

// EvalKind tags an Evaluation.
type EvalKind string

const (
	EvalCentipawns  EvalKind = "cp"
	EvalMate        EvalKind = "mate"
	EvalUnavailable EvalKind = "unavailable"
)

// Evaluation is a score normalized to the perspective of the side to move in
// the analyzed position. For EvalCentipawns, Value is centipawns (positive =
// the analyzed side is better). For EvalMate, Value is the signed mate
// distance (positive = the analyzed side delivers mate, negative = it is
// being mated). For EvalUnavailable, Value is meaningless.
type Evaluation struct {
	Kind  EvalKind `json:"kind"`
	Value int      `json:"value,omitempty"`
}

// AnalysisResult is the terminal outcome of a successful analysis.
type AnalysisResult struct {
	// BestMove is the engine's principal move in UCI notation, or "" when
	// the position has no legal move (checkmate/stalemate).
	BestMove    string     `json:"bestmove"`
	Eval        Evaluation `json:"eval"`
	Perspective Side       `json:"perspective"` // side to move in the analyzed position
}

// SessionEventKind tags a SessionEvent.
type SessionEventKind string

const (
	EventConnectSucceeded  SessionEventKind = "connect_succeeded"
	EventConnectFailed     SessionEventKind = "connect_failed"
	EventAnalysisCompleted SessionEventKind = "analysis_completed"
	EventOperationFailed   SessionEventKind = "operation_failed"
)

// SessionEvent is the single kind of message a session delivers back to its
// caller. Exactly one event is produced per accepted request, in request
// order.
type SessionEvent struct {
	Kind   SessionEventKind `json:"kind"`
	Cause  string           `json:"cause,omitempty"`  // set for the two failure kinds
	Result *AnalysisResult  `json:"result,omitempty"` // set for EventAnalysisCompleted
}
