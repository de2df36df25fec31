package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Randy420Marsh/Chess-Analyzer/app/models"
)

func newTestEngine(outputLines []string) (*UCIEngine, *strings.Builder) {
	pr, pw := io.Pipe()
	go func() {
		for _, line := range outputLines {
			_, _ = fmt.Fprintln(pw, line)
		}
		_ = pw.Close()
	}()

	var sb strings.Builder
	eng := &UCIEngine{
		in:    bufio.NewWriter(&sb),
		out:   bufio.NewScanner(pr),
		ready: true,
	}
	return eng, &sb
}

func TestAnalyzeUsesMovetimeAndParsesScore(t *testing.T) {
	eng, sb := newTestEngine([]string{
		"info depth 10 score cp 23 pv e2e4 e7e5",
		"bestmove e2e4",
	})

	score, err := eng.Analyze(context.Background(), "test-fen", models.EngineSettings{MoveTimeMS: 75})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if score.CP == nil || *score.CP != 23 || score.Best != "e2e4" {
		t.Fatalf("Analyze unexpected score: %+v", score)
	}
	if score.PV != "e2e4 e7e5" {
		t.Fatalf("Analyze unexpected pv: %q", score.PV)
	}

	sent := sb.String()
	if !strings.Contains(sent, "position fen test-fen") {
		t.Fatalf("Analyze did not send position command: %q", sent)
	}
	if !strings.Contains(sent, "go movetime 75") {
		t.Fatalf("Analyze did not use movetime: %q", sent)
	}
}

func TestAnalyzeKeepsLastReportedScore(t *testing.T) {
	eng, _ := newTestEngine([]string{
		"info depth 8 score cp 12 pv e2e4",
		"info depth 14 score cp -35 pv d7d5 g1f3",
		"bestmove d7d5",
	})

	score, err := eng.Analyze(context.Background(), "fen", models.EngineSettings{MoveTimeMS: 50})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if score.CP == nil || *score.CP != -35 {
		t.Fatalf("Analyze should keep last cp, got %+v", score)
	}
	if score.PV != "d7d5 g1f3" {
		t.Fatalf("Analyze should keep last pv, got %q", score.PV)
	}
}

func TestAnalyzeParsesMateScore(t *testing.T) {
	for _, tc := range []struct {
		line string
		want int
	}{
		{"info depth 20 score mate 3 pv d5f7", 3},
		{"info depth 20 score mate -2 pv e8d8", -2},
	} {
		eng, _ := newTestEngine([]string{tc.line, "bestmove d5f7"})
		score, err := eng.Analyze(context.Background(), "fen", models.EngineSettings{MoveTimeMS: 50})
		if err != nil {
			t.Fatalf("Analyze error: %v", err)
		}
		if score.Mate == nil || *score.Mate != tc.want || score.CP != nil {
			t.Fatalf("Analyze(%q) score = %+v, want mate %d", tc.line, score, tc.want)
		}
	}
}

func TestAnalyzeNoLegalMove(t *testing.T) {
	eng, _ := newTestEngine([]string{
		"info depth 0 score mate 0",
		"bestmove (none)",
	})

	score, err := eng.Analyze(context.Background(), "fen", models.EngineSettings{MoveTimeMS: 50})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}
	if score.Best != "" {
		t.Fatalf("Analyze should report empty best move for (none), got %q", score.Best)
	}
}

func TestAnalyzeNotReady(t *testing.T) {
	eng := &UCIEngine{}
	if _, err := eng.Analyze(context.Background(), "fen", models.EngineSettings{MoveTimeMS: 10}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Analyze on unready engine = %v, want ErrNotConnected", err)
	}
}

func TestAnalyzeMalformedBestmove(t *testing.T) {
	eng, _ := newTestEngine([]string{"bestmove"})
	if _, err := eng.Analyze(context.Background(), "fen", models.EngineSettings{MoveTimeMS: 10}); !errors.Is(err, ErrProtocolViolation) {
		t.Fatalf("Analyze = %v, want ErrProtocolViolation", err)
	}
}

func TestAnalyzeStreamClosedBeforeBestmove(t *testing.T) {
	eng, _ := newTestEngine([]string{"info depth 3 score cp 1"})
	if _, err := eng.Analyze(context.Background(), "fen", models.EngineSettings{MoveTimeMS: 10}); !errors.Is(err, ErrProcessCrashed) {
		t.Fatalf("Analyze = %v, want ErrProcessCrashed", err)
	}
}

func TestAnalyzeContextExpirySendsStop(t *testing.T) {
	pr, _ := io.Pipe() // engine that never answers
	var sb strings.Builder
	eng := &UCIEngine{in: bufio.NewWriter(&sb), out: bufio.NewScanner(pr), ready: true}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := eng.Analyze(ctx, "fen", models.EngineSettings{MoveTimeMS: 10})
	if !errors.Is(err, ErrSearchTimeout) {
		t.Fatalf("Analyze = %v, want ErrSearchTimeout", err)
	}
	if !strings.Contains(sb.String(), "stop") {
		t.Fatalf("Analyze should send stop on timeout, sent %q", sb.String())
	}
}

func TestAnalyzeTimeoutRetiresHandle(t *testing.T) {
	pr, _ := io.Pipe() // engine that never answers
	var sb strings.Builder
	eng := &UCIEngine{in: bufio.NewWriter(&sb), out: bufio.NewScanner(pr), ready: true}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := eng.Analyze(ctx, "fen", models.EngineSettings{MoveTimeMS: 10}); !errors.Is(err, ErrSearchTimeout) {
		t.Fatalf("Analyze = %v, want ErrSearchTimeout", err)
	}

	// The abandoned reader still owns the scanner, so the handle must not
	// accept another search.
	if eng.Alive() {
		t.Fatal("engine reports alive after an abandoned search")
	}
	if _, err := eng.Analyze(context.Background(), "fen", models.EngineSettings{MoveTimeMS: 10}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Analyze after abandoned search = %v, want ErrNotConnected", err)
	}
}

func TestNewGameSendsCommands(t *testing.T) {
	pr, pw := io.Pipe()
	go func() {
		_, _ = fmt.Fprintln(pw, "readyok")
		_ = pw.Close()
	}()

	var sb strings.Builder
	eng := &UCIEngine{in: bufio.NewWriter(&sb), out: bufio.NewScanner(pr), ready: true}
	if err := eng.NewGame(); err != nil {
		t.Fatalf("NewGame error: %v", err)
	}
	sent := sb.String()
	if !strings.Contains(sent, "ucinewgame") || !strings.Contains(sent, "isready") {
		t.Fatalf("NewGame did not send expected commands: %q", sent)
	}
}

func TestNewGameTimesOutOnMuteEngine(t *testing.T) {
	pr, _ := io.Pipe() // swallows isready
	var sb strings.Builder
	eng := &UCIEngine{in: bufio.NewWriter(&sb), out: bufio.NewScanner(pr), ready: true, hsTimeout: 30 * time.Millisecond}

	if err := eng.NewGame(); !errors.Is(err, ErrHandshakeTimeout) {
		t.Fatalf("NewGame = %v, want ErrHandshakeTimeout", err)
	}
	if eng.Alive() {
		t.Fatal("engine reports alive after a failed readiness check")
	}
}

func TestParseInfoLine(t *testing.T) {
	tests := []struct {
		line     string
		wantCP   *int
		wantMate *int
		wantPV   string
	}{
		{"info depth 18 seldepth 24 score cp 23 nodes 12 pv e2e4 e7e5", intPtr(23), nil, "e2e4 e7e5"},
		{"info depth 20 score mate -4 pv e8d8", nil, intPtr(-4), "e8d8"},
		{"info string NNUE evaluation enabled", nil, nil, ""},
		{"info depth 1 score cp bogus pv e2e4", nil, nil, "e2e4"},
	}

	for _, tc := range tests {
		var score models.UCIScore
		parseInfoLine(tc.line, &score)
		if !intPtrEq(score.CP, tc.wantCP) || !intPtrEq(score.Mate, tc.wantMate) || score.PV != tc.wantPV {
			t.Fatalf("parseInfoLine(%q) = %+v", tc.line, score)
		}
	}
}

func intPtr(v int) *int { return &v }

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
