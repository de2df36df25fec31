// Starts the engine process, speaks UCI over stdin/stdout, and exposes the
// handshake/analyze/quit exchanges the session worker drives.

package app

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/Randy420Marsh/Chess-Analyzer/app/models"
)

const (
	// How long Close waits for the engine to exit after "quit" before
	// killing it.
	quitGrace = 2 * time.Second

	// How long Analyze waits for a bestmove after sending "stop".
	stopGrace = 500 * time.Millisecond
)

type UCIEngine struct {
	cmd   *exec.Cmd
	in    *bufio.Writer
	out   *bufio.Scanner
	mu    sync.Mutex
	ready bool

	// hsTimeout bounds every expect-a-token wait outside a search.
	hsTimeout time.Duration

	// done is closed once the child has been reaped; nil for pipe-backed
	// test engines that have no process.
	done    chan struct{}
	waitErr error
}

// NewUCIEngine launches the engine at path and performs the UCI handshake:
// "uci" -> "uciok", then "isready" -> "readyok". Engines announce themselves
// with id/option lines before uciok; those are skipped. A handshake that does
// not complete within timeout kills the process and fails.
func NewUCIEngine(path string, timeout time.Duration) (*UCIEngine, error) {
	cmd := exec.Command(path)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	e := &UCIEngine{
		cmd:       cmd,
		in:        bufio.NewWriter(stdin),
		out:       bufio.NewScanner(stdout),
		hsTimeout: timeout,
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExecutable, err)
	}

	e.done = make(chan struct{})
	go func() {
		e.waitErr = cmd.Wait()
		close(e.done)
	}()

	deadline := time.Now().Add(timeout)
	if err := e.handshake(deadline, "uci", "uciok"); err != nil {
		e.kill()
		return nil, err
	}
	if err := e.handshake(deadline, "isready", "readyok"); err != nil {
		e.kill()
		return nil, err
	}

	e.ready = true
	return e, nil
}

// handshake sends one command and reads lines until the expected terminal
// token, discarding everything else (id, option, copyright banners).
func (e *UCIEngine) handshake(deadline time.Time, command, expect string) error {
	if err := e.send(command); err != nil {
		return err
	}
	return e.await(expect, time.Until(deadline))
}

func (e *UCIEngine) await(expect string, timeout time.Duration) error {
	found := make(chan error, 1)
	go func() {
		for e.out.Scan() {
			if strings.TrimSpace(e.out.Text()) == expect {
				found <- nil
				return
			}
		}
		if err := e.out.Err(); err != nil {
			found <- err
			return
		}
		found <- fmt.Errorf("%w: stream closed before %q", ErrProcessCrashed, expect)
	}()

	select {
	case err := <-found:
		return err
	case <-time.After(timeout):
		return fmt.Errorf("%w: no %q", ErrHandshakeTimeout, expect)
	}
}

// NewGame resets the engine's internal state between positions. The readyok
// wait carries the same bound as the handshake so a mute engine cannot wedge
// the caller.
func (e *UCIEngine) NewGame() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.ready {
		return ErrNotConnected
	}
	if err := e.send("ucinewgame"); err != nil {
		return err
	}
	if err := e.send("isready"); err != nil {
		return err
	}
	if err := e.await("readyok", e.readyTimeout()); err != nil {
		// The await reader still owns the scanner; killing the process
		// unblocks it and keeps the handle from being reused.
		e.ready = false
		e.kill()
		return err
	}
	return nil
}

func (e *UCIEngine) readyTimeout() time.Duration {
	if e.hsTimeout > 0 {
		return e.hsTimeout
	}
	return 5 * time.Second
}

// Analyze evaluates one position. The context bounds the total wait; the
// engine's own search is bounded by the movetime in settings. Interleaved
// info lines are parsed as they stream by so the final score/pv pair reported
// before bestmove wins.
func (e *UCIEngine) Analyze(ctx context.Context, fen string, settings models.EngineSettings) (models.UCIScore, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.ready {
		return models.UCIScore{}, ErrNotConnected
	}

	if err := e.send(fmt.Sprintf("position fen %s", fen)); err != nil {
		return models.UCIScore{}, err
	}
	if err := e.send(fmt.Sprintf("go movetime %d", settings.MoveTimeMS)); err != nil {
		return models.UCIScore{}, err
	}

	var score models.UCIScore
	readDone := make(chan error, 1)
	go func() {
		sawBestmove := false
		for e.out.Scan() {
			line := e.out.Text()
			switch {
			case strings.HasPrefix(line, "info"):
				parseInfoLine(line, &score)
			case strings.HasPrefix(line, "bestmove"):
				fields := strings.Fields(line)
				if len(fields) < 2 {
					readDone <- fmt.Errorf("%w: %q", ErrProtocolViolation, line)
					return
				}
				if fields[1] != "(none)" {
					score.Best = fields[1]
				}
				sawBestmove = true
			}
			if sawBestmove {
				break
			}
		}
		if !sawBestmove {
			if err := e.out.Err(); err != nil {
				readDone <- err
				return
			}
			readDone <- fmt.Errorf("%w: stream closed before bestmove", ErrProcessCrashed)
			return
		}
		readDone <- nil
	}()

	var err error
	select {
	case <-ctx.Done():
		_ = e.send("stop")
		select {
		case err = <-readDone:
		case <-time.After(stopGrace):
			// The reader goroutine still owns the scanner mid-exchange,
			// so the handle cannot serve another search. Put the process
			// down; that unblocks the reader and the caller reconnects.
			e.ready = false
			e.kill()
			err = fmt.Errorf("%w: no bestmove after stop", ErrSearchTimeout)
		}
	case err = <-readDone:
	}
	if err != nil {
		return models.UCIScore{}, err
	}
	return score, nil
}

// parseInfoLine extracts score and pv from one UCI info line, e.g.
//
//	info depth 18 seldepth 24 score cp 23 nodes 120000 pv e2e4 e7e5
//	info depth 20 score mate 3 pv d5f7 e8f7 h5f7
func parseInfoLine(line string, score *models.UCIScore) {
	fields := strings.Fields(line)
	for i, f := range fields {
		switch f {
		case "score":
			if i+2 >= len(fields) {
				continue
			}
			var n int
			if _, err := fmt.Sscanf(fields[i+2], "%d", &n); err != nil {
				continue
			}
			switch fields[i+1] {
			case "cp":
				v := n
				score.CP = &v
				score.Mate = nil
			case "mate":
				v := n
				score.Mate = &v
				score.CP = nil
			}
		case "pv":
			if i+1 < len(fields) {
				score.PV = strings.Join(fields[i+1:], " ")
			}
		}
	}
}

// Alive reports whether the child process is still running. Pipe-backed test
// engines count as alive while ready.
func (e *UCIEngine) Alive() bool {
	if e.done == nil {
		return e.ready
	}
	select {
	case <-e.done:
		return false
	default:
		return true
	}
}

// Close sends a best-effort quit handshake and reaps the process, killing it
// if it ignores quit for longer than the grace period. The process's exit
// error is returned for logging; a clean quit yields nil.
func (e *UCIEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ready = false
	_ = e.send("quit")
	if e.done == nil {
		return nil
	}
	select {
	case <-e.done:
	case <-time.After(quitGrace):
		e.kill()
	}
	return e.waitErr
}

func (e *UCIEngine) kill() {
	if e.cmd == nil || e.cmd.Process == nil {
		return
	}
	_ = e.cmd.Process.Kill()
	if e.done != nil {
		<-e.done
	}
}

func (e *UCIEngine) send(cmd string) error {
	_, err := fmt.Fprintln(e.in, cmd)
	if err != nil {
		return err
	}
	return e.in.Flush()
}
