package models

// UCIScore is the raw report extracted from the engine's info/bestmove lines.
type UCIScore struct {
	// Exactly one of these will be set; both nil means the engine never
	// reported a score before bestmove.
	CP   *int   `json:"cp,omitempty"`   // centipawns, positive means advantage for side to move
	Mate *int   `json:"mate,omitempty"` // mate in N, sign indicates who is mating (+ means side to move mates)
	Best string `json:"bestmove"`       // engine best move in UCI, e.g. "e2e4"; "" when the engine had no move
	PV   string `json:"pv,omitempty"`   // last reported principal variation
}

// EngineSettings drives how we query the engine for a position.
type EngineSettings struct {
	MoveTimeMS int `json:"move_time_ms"`
}
