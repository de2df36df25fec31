// Interactive terminal front-end: play moves on a live board and request
// engine analysis of frozen snapshots of it.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/notnil/chess"

	"github.com/Randy420Marsh/Chess-Analyzer/app"
	"github.com/Randy420Marsh/Chess-Analyzer/app/config"
	"github.com/Randy420Marsh/Chess-Analyzer/app/models"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Logs)

	history, err := app.NewHistoryStore(cfg.DB)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open history store")
	}
	defer history.Close()

	session := app.NewSession(cfg.Engine, logger, history)
	defer session.Shutdown()

	go printEvents(session)

	rules := app.NotnilRules{}
	game := chess.NewGame()

	if path := app.DetectEngine(); path != "" {
		fmt.Printf("Detected %s on PATH; type 'connect' to use it.\n", path)
	} else {
		fmt.Println("Type 'connect <path>' to attach a UCI engine.")
	}
	printBoard(game)

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			return
		}
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "connect":
			path := cfg.Engine.Path
			if len(fields) > 1 {
				path = fields[1]
			}
			if path == "" {
				path = app.DetectEngine()
			}
			if path == "" {
				fmt.Println("no engine path given and none found on PATH")
				continue
			}
			if err := session.Connect(path); err != nil {
				fmt.Println("connect:", err)
			}

		case "fen":
			fen := strings.Join(fields[1:], " ")
			opt, err := chess.FEN(fen)
			if err != nil {
				fmt.Println("invalid FEN:", err)
				continue
			}
			game = chess.NewGame(opt)
			printBoard(game)

		case "move":
			if len(fields) < 2 {
				fmt.Println("usage: move <uci>, e.g. move e2e4")
				continue
			}
			move, err := app.DecodeUserMove(game.Position(), fields[1])
			if err != nil {
				fmt.Println(err)
				continue
			}
			if err := game.Move(move); err != nil {
				fmt.Println("illegal move:", err)
				continue
			}
			printBoard(game)

		case "moves":
			var all []string
			for _, m := range rules.LegalMoves(game.Position()) {
				all = append(all, m.String())
			}
			fmt.Println(strings.Join(all, " "))

		case "board":
			printBoard(game)

		case "analyze":
			budget := time.Duration(cfg.Engine.MoveTime) * time.Millisecond
			if len(fields) > 1 {
				if ms, err := strconv.Atoi(fields[1]); err == nil && ms > 0 {
					budget = time.Duration(ms) * time.Millisecond
				}
			}
			// The snapshot is frozen here; the live board can keep moving
			// while the engine works.
			snapshot := app.Snapshot(rules, game.Position())
			if err := session.Analyze(snapshot, budget); err != nil {
				fmt.Println("analyze:", err)
			}

		case "quit", "exit":
			return

		default:
			fmt.Println("commands: connect [path] | fen <FEN> | move <uci> | moves | board | analyze [ms] | quit")
		}
	}
}

func printEvents(session *app.Session) {
	for ev := range session.Events() {
		switch ev.Kind {
		case models.EventConnectSucceeded:
			fmt.Println("\nengine connected, ready to analyze")
		case models.EventConnectFailed:
			fmt.Println("\nconnection failed:", ev.Cause)
		case models.EventAnalysisCompleted:
			text, _ := app.FormatEvaluation(ev.Result.Eval)
			fmt.Printf("\nbest move: %s  eval: %s (%s to move)\n",
				app.FormatBestMove(*ev.Result), text, ev.Result.Perspective)
		case models.EventOperationFailed:
			fmt.Println("\nerror:", ev.Cause)
		}
	}
}

func printBoard(game *chess.Game) {
	fmt.Println(game.Position().Board().Draw())
	fmt.Printf("%s to move\n", turnName(game.Position()))
}

func turnName(pos *chess.Position) string {
	if pos.Turn() == chess.Black {
		return "Black"
	}
	return "White"
}
