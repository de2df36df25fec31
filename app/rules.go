// Thin collaborator over the chess rules library. The analyzer never
// implements rules itself; it freezes positions through this surface before
// handing them to the engine session and applies user moves on the live
// board in the front-ends.

package app

import (
	"fmt"

	"github.com/notnil/chess"

	"github.com/Randy420Marsh/Chess-Analyzer/app/models"
)

// Rules is the narrow surface of the rules library the analyzer consumes.
type Rules interface {
	LegalMoves(pos *chess.Position) []*chess.Move
	ApplyMove(pos *chess.Position, move *chess.Move) *chess.Position
	ParseFEN(fen string) (*chess.Position, error)
	SerializeFEN(pos *chess.Position) string
	TurnOf(pos *chess.Position) models.Side
}

// NotnilRules implements Rules on github.com/notnil/chess.
type NotnilRules struct{}

func (NotnilRules) LegalMoves(pos *chess.Position) []*chess.Move {
	return pos.ValidMoves()
}

func (NotnilRules) ApplyMove(pos *chess.Position, move *chess.Move) *chess.Position {
	return pos.Update(move)
}

func (NotnilRules) ParseFEN(fen string) (*chess.Position, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("invalid FEN: %w", err)
	}
	return chess.NewGame(opt).Position(), nil
}

func (NotnilRules) SerializeFEN(pos *chess.Position) string {
	return pos.String()
}

func (NotnilRules) TurnOf(pos *chess.Position) models.Side {
	if pos.Turn() == chess.Black {
		return models.SideBlack
	}
	return models.SideWhite
}

// Snapshot freezes a position into plain data. The snapshot never aliases the
// live position, so the caller can keep playing moves while an analysis of
// the frozen state is in flight.
func Snapshot(r Rules, pos *chess.Position) models.PositionSnapshot {
	return models.PositionSnapshot{
		FEN:  r.SerializeFEN(pos),
		Turn: r.TurnOf(pos),
	}
}

// DecodeUserMove parses a move in UCI notation against a position. A bare
// from-to pair that lands a pawn on the last rank is retried as a queen
// promotion, matching how board front-ends promote by default.
func DecodeUserMove(pos *chess.Position, uciMove string) (*chess.Move, error) {
	notation := chess.UCINotation{}
	move, err := notation.Decode(pos, uciMove)
	if err != nil && len(uciMove) == 4 {
		if promoted, perr := notation.Decode(pos, uciMove+"q"); perr == nil {
			return promoted, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("invalid move %q: %w", uciMove, err)
	}
	return move, nil
}
