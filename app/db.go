package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Randy420Marsh/Chess-Analyzer/app/config"
	"github.com/Randy420Marsh/Chess-Analyzer/app/models"
)

// HistoryStore keeps a record of completed analyses in Postgres. It is
// optional: a nil store (no database configured) accepts and discards
// everything, so the session never needs to care whether history is on.
type HistoryStore struct {
	db *sql.DB
}

// NewHistoryStore connects to Postgres when configured and returns (nil, nil)
// when it is not.
func NewHistoryStore(cfg config.PostgresConfig) (*HistoryStore, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s",
		cfg.Username,
		cfg.Password,
		cfg.URL,
		cfg.Port,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}

	s := &HistoryStore{db: db}
	if err := s.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *HistoryStore) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_history (
			id          BIGSERIAL PRIMARY KEY,
			fen         TEXT        NOT NULL,
			turn        TEXT        NOT NULL,
			bestmove    TEXT        NOT NULL,
			eval_kind   TEXT        NOT NULL,
			eval_value  INT         NOT NULL,
			analyzed_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

// Save records one completed analysis. Safe on a nil store.
func (s *HistoryStore) Save(ctx context.Context, snapshot models.PositionSnapshot, result models.AnalysisResult) error {
	if s == nil || s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analysis_history (fen, turn, bestmove, eval_kind, eval_value)
		VALUES ($1, $2, $3, $4, $5);
	`,
		snapshot.FEN,
		string(snapshot.Turn),
		result.BestMove,
		string(result.Eval.Kind),
		result.Eval.Value,
	)
	return err
}

// Recent returns the most recently analyzed positions, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT fen, turn, bestmove, eval_kind, eval_value, analyzed_at
		FROM analysis_history
		ORDER BY analyzed_at DESC, id DESC
		LIMIT $1;
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		var turn, kind string
		var at time.Time
		if err := rows.Scan(&e.FEN, &turn, &e.BestMove, &kind, &e.EvalValue, &at); err != nil {
			return nil, err
		}
		e.Turn = models.Side(turn)
		e.EvalKind = models.EvalKind(kind)
		e.AnalyzedAt = at.Unix()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close releases the database handle. Safe on a nil store.
func (s *HistoryStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
