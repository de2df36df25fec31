package models

// HistoryEntry is one stored analysis, as returned to the frontend.
type HistoryEntry struct {
	FEN        string   `json:"fen"`
	Turn       Side     `json:"turn"`
	BestMove   string   `json:"bestmove"`
	EvalKind   EvalKind `json:"eval_kind"`
	EvalValue  int      `json:"eval_value"`
	AnalyzedAt int64    `json:"analyzed_at_unix"`
}
