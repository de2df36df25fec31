package app

import (
	"testing"

	"github.com/Randy420Marsh/Chess-Analyzer/app/models"
)

func TestParseAndSerializeFEN(t *testing.T) {
	r := NotnilRules{}

	pos, err := r.ParseFEN(blackMoveFEN)
	if err != nil {
		t.Fatalf("ParseFEN error: %v", err)
	}
	if got := r.SerializeFEN(pos); got != blackMoveFEN {
		t.Fatalf("SerializeFEN = %q, want %q", got, blackMoveFEN)
	}
	if got := r.TurnOf(pos); got != models.SideBlack {
		t.Fatalf("TurnOf = %v, want black", got)
	}

	if _, err := r.ParseFEN("this is not a fen"); err == nil {
		t.Fatal("ParseFEN should reject garbage")
	}
}

func TestLegalMovesAtStart(t *testing.T) {
	r := NotnilRules{}
	pos, err := r.ParseFEN(startposFEN)
	if err != nil {
		t.Fatal(err)
	}
	if moves := r.LegalMoves(pos); len(moves) != 20 {
		t.Fatalf("LegalMoves at start = %d moves, want 20", len(moves))
	}
}

func TestApplyMoveDoesNotMutateOriginal(t *testing.T) {
	r := NotnilRules{}
	pos, err := r.ParseFEN(startposFEN)
	if err != nil {
		t.Fatal(err)
	}

	move, err := DecodeUserMove(pos, "e2e4")
	if err != nil {
		t.Fatal(err)
	}

	next := r.ApplyMove(pos, move)
	if r.SerializeFEN(pos) != startposFEN {
		t.Fatalf("original position changed: %q", r.SerializeFEN(pos))
	}
	if r.TurnOf(next) != models.SideBlack {
		t.Fatalf("turn after e2e4 = %v, want black", r.TurnOf(next))
	}
}

func TestSnapshotFreezesPosition(t *testing.T) {
	r := NotnilRules{}
	pos, err := r.ParseFEN(startposFEN)
	if err != nil {
		t.Fatal(err)
	}

	snapshot := Snapshot(r, pos)
	if snapshot.FEN != startposFEN || snapshot.Turn != models.SideWhite {
		t.Fatalf("Snapshot = %+v", snapshot)
	}

	// Advancing the live position leaves the snapshot alone.
	move, err := DecodeUserMove(pos, "e2e4")
	if err != nil {
		t.Fatal(err)
	}
	_ = r.ApplyMove(pos, move)
	if snapshot.FEN != startposFEN {
		t.Fatalf("snapshot changed after live move: %q", snapshot.FEN)
	}
}

func TestDecodeUserMove(t *testing.T) {
	r := NotnilRules{}

	t.Run("plain move", func(t *testing.T) {
		pos, err := r.ParseFEN(startposFEN)
		if err != nil {
			t.Fatal(err)
		}
		move, err := DecodeUserMove(pos, "g1f3")
		if err != nil {
			t.Fatalf("DecodeUserMove error: %v", err)
		}
		if move.String() != "g1f3" {
			t.Fatalf("move = %q, want g1f3", move.String())
		}
	})

	t.Run("auto queen promotion", func(t *testing.T) {
		pos, err := r.ParseFEN("8/4P1k1/8/8/8/8/8/4K3 w - - 0 1")
		if err != nil {
			t.Fatal(err)
		}
		move, err := DecodeUserMove(pos, "e7e8")
		if err != nil {
			t.Fatalf("DecodeUserMove error: %v", err)
		}
		if move.String() != "e7e8q" {
			t.Fatalf("move = %q, want queen promotion e7e8q", move.String())
		}
	})

	t.Run("garbage", func(t *testing.T) {
		pos, err := r.ParseFEN(startposFEN)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := DecodeUserMove(pos, "zz99"); err == nil {
			t.Fatal("DecodeUserMove should reject invalid input")
		}
	})
}
