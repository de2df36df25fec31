// Score normalization and display formatting.
//
// UCI engines report scores from the point of view of the side to move in
// the analyzed position, so the perspective carried on an AnalysisResult is
// that side, never the caller's live board (which may have moved on).

package app

import (
	"fmt"

	"github.com/Randy420Marsh/Chess-Analyzer/app/models"
)

const (
	// mateScore is the conventional centipawn sentinel for a forced mate.
	// Engines that fold mate into cp report mateScore minus the distance
	// in plies; anything at or above the threshold is mate framing and is
	// resolved back into a mate distance before an Evaluation is emitted.
	mateScore     = 10000
	mateThreshold = mateScore - 256
)

// NormalizeScore converts a raw engine report into a tagged Evaluation from
// the analyzed side's perspective.
func NormalizeScore(raw models.UCIScore) models.Evaluation {
	switch {
	case raw.Mate != nil:
		return models.Evaluation{Kind: models.EvalMate, Value: *raw.Mate}
	case raw.CP != nil:
		cp := *raw.CP
		if cp >= mateThreshold || cp <= -mateThreshold {
			return models.Evaluation{Kind: models.EvalMate, Value: mateFromSentinel(cp)}
		}
		return models.Evaluation{Kind: models.EvalCentipawns, Value: cp}
	default:
		return models.Evaluation{Kind: models.EvalUnavailable}
	}
}

func mateFromSentinel(cp int) int {
	plies := mateScore - cp
	if cp < 0 {
		plies = mateScore + cp
	}
	moves := (plies + 1) / 2
	if moves < 1 {
		moves = 1
	}
	if cp < 0 {
		return -moves
	}
	return moves
}

// newAnalysisResult pairs a normalized score with the best move and the
// analyzed side.
func newAnalysisResult(snapshot models.PositionSnapshot, raw models.UCIScore) models.AnalysisResult {
	return models.AnalysisResult{
		BestMove:    raw.Best,
		Eval:        NormalizeScore(raw),
		Perspective: snapshot.Turn,
	}
}

// Severity classifies an evaluation for presentation; callers map it to
// colors or styles.
type Severity string

const (
	SeverityGood    Severity = "good"
	SeverityBad     Severity = "bad"
	SeverityNeutral Severity = "neutral"
	SeverityMuted   Severity = "muted"
)

// FormatEvaluation renders an Evaluation for display: "Mate in 3",
// "Mated in 2", "0.35", "-1.20", or "(not available)".
func FormatEvaluation(eval models.Evaluation) (string, Severity) {
	switch eval.Kind {
	case models.EvalMate:
		switch {
		case eval.Value > 0:
			return fmt.Sprintf("Mate in %d", eval.Value), SeverityGood
		case eval.Value < 0:
			return fmt.Sprintf("Mated in %d", -eval.Value), SeverityBad
		default:
			return "Mate", SeverityNeutral
		}
	case models.EvalCentipawns:
		text := fmt.Sprintf("%.2f", float64(eval.Value)/100)
		switch {
		case eval.Value > 50:
			return text, SeverityGood
		case eval.Value < -50:
			return text, SeverityBad
		default:
			return text, SeverityNeutral
		}
	default:
		return "(not available)", SeverityMuted
	}
}

// FormatBestMove renders the principal move, substituting the no-legal-move
// sentinel for finished positions.
func FormatBestMove(result models.AnalysisResult) string {
	if result.BestMove == "" {
		return "N/A"
	}
	return result.BestMove
}
