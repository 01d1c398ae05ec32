// Package uci implements the Universal Chess Interface command loop.
package uci

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/halcyon-chess/halcyon/internal/board"
	"github.com/halcyon-chess/halcyon/internal/diagram"
	"github.com/halcyon-chess/halcyon/internal/engine"
)

// Name and Author identify the engine on the uci handshake.
const (
	Name   = "Halcyon"
	Author = "Halcyon authors"
)

// Protocol owns the position and the engine and runs the command loop. The
// search runs on a single worker goroutine; every command that mutates
// engine state first sets the stop flag and joins the worker, so the two
// never touch the position concurrently.
type Protocol struct {
	engine *engine.Engine
	pos    *board.Position
	log    zerolog.Logger

	searchDone  chan struct{}
	usesNewGame bool
}

// New creates a protocol handler around the given engine.
func New(eng *engine.Engine, log zerolog.Logger) *Protocol {
	p := &Protocol{
		engine: eng,
		pos:    board.NewPosition(),
		log:    log,
	}
	eng.OnInfo = p.sendInfo
	return p
}

// Run reads commands from stdin until quit or EOF.
func (u *Protocol) Run() {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		u.handle(line)
	}
	u.stopSearch()
}

func (u *Protocol) handle(line string) {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "uci":
		fmt.Printf("id name %s\n", Name)
		fmt.Printf("id author %s\n", Author)
		fmt.Println()
		fmt.Printf("option name Hash type spin default %d min 1 max 1024\n", engine.DefaultHashMB)
		fmt.Println("uciok")
	case "isready":
		fmt.Println("readyok")
	case "ucinewgame":
		u.usesNewGame = true
		u.newGame()
	case "position":
		u.stopSearch()
		if !u.usesNewGame {
			// GUIs that never send ucinewgame still get a clean engine: every
			// position command then resets the table, ring and board.
			u.newGame()
		}
		u.handlePosition(args)
	case "go":
		u.stopSearch()
		u.handleGo(args)
	case "stop":
		u.stopSearch()
	case "quit":
		u.stopSearch()
		os.Exit(0)
	case "setoption":
		u.stopSearch()
		u.handleSetOption(args)
	case "d":
		u.stopSearch()
		fmt.Println(u.pos)
	case "eval":
		u.stopSearch()
		score := engine.Evaluate(u.pos)
		if u.pos.SideToMove == board.Black {
			score = -score
		}
		fmt.Println(score)
	case "perft":
		u.stopSearch()
		u.handlePerft(args)
	case "svg":
		u.stopSearch()
		u.handleSVG(args)
	default:
		fmt.Printf("Unknown command: %s\n", line)
	}
}

func (u *Protocol) newGame() {
	u.stopSearch()
	u.engine.NewGame()
	u.pos = board.NewPosition()
}

// stopSearch sets the stop flag and joins the search worker, if one is
// running.
func (u *Protocol) stopSearch() {
	if u.searchDone == nil {
		return
	}
	u.engine.StopFlag().Store(true)
	<-u.searchDone
	u.searchDone = nil
}

func (u *Protocol) handlePosition(args []string) {
	if len(args) == 0 {
		return
	}

	movesIndex := -1
	for i, arg := range args {
		if arg == "moves" {
			movesIndex = i
			break
		}
	}

	switch args[0] {
	case "startpos":
		u.pos = board.NewPosition()
	case "fen":
		fenEnd := len(args)
		if movesIndex != -1 {
			fenEnd = movesIndex
		}
		fen := strings.Join(args[1:fenEnd], " ")
		if err := u.pos.SetFEN(fen); err != nil {
			u.log.Error().Err(err).Str("fen", fen).Msg("position rejected")
			return
		}
	default:
		return
	}

	u.engine.Repetition().Clear()

	if movesIndex == -1 {
		return
	}
	for _, moveStr := range args[movesIndex+1:] {
		move := u.pos.ParseMove(moveStr)
		if move == board.NoMove {
			u.log.Error().Str("move", moveStr).Msg("illegal move in position command")
			return
		}
		u.pos.MakeMove(move, false)
		u.engine.Repetition().Push(u.pos.Key)
	}
}

func (u *Protocol) handleGo(args []string) {
	limits, err := parseGoLimits(args)
	if err != nil {
		u.log.Error().Err(err).Msg("go rejected")
		return
	}
	u.engine.SetLimits(limits)
	u.engine.StopFlag().Store(false)

	u.searchDone = make(chan struct{})
	go func() {
		defer close(u.searchDone)
		best, _ := u.engine.Search(u.pos)
		fmt.Printf("bestmove %s\n", best)
	}()
}

func parseGoLimits(args []string) (engine.Limits, error) {
	var limits engine.Limits

	intArg := func(i int) (int, error) {
		if i >= len(args) {
			return 0, fmt.Errorf("missing value for %s", args[i-1])
		}
		n, err := strconv.Atoi(args[i])
		if err != nil {
			return 0, fmt.Errorf("invalid value for %s: %q", args[i-1], args[i])
		}
		return n, nil
	}

	var err error
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "depth":
			i++
			if limits.Depth, err = intArg(i); err != nil {
				return limits, err
			}
		case "nodes":
			i++
			var n int
			if n, err = intArg(i); err != nil {
				return limits, err
			}
			limits.Nodes = uint64(n)
		case "movetime":
			i++
			if limits.MoveTime, err = intArg(i); err != nil {
				return limits, err
			}
		case "wtime":
			i++
			if limits.WhiteTime, err = intArg(i); err != nil {
				return limits, err
			}
		case "btime":
			i++
			if limits.BlackTime, err = intArg(i); err != nil {
				return limits, err
			}
		case "winc":
			i++
			if limits.WhiteInc, err = intArg(i); err != nil {
				return limits, err
			}
		case "binc":
			i++
			if limits.BlackInc, err = intArg(i); err != nil {
				return limits, err
			}
		case "movestogo":
			i++
			if limits.MovesToGo, err = intArg(i); err != nil {
				return limits, err
			}
		case "infinite":
			limits.Infinite = true
		}
	}
	return limits, nil
}

func (u *Protocol) handleSetOption(args []string) {
	var name, value string
	reading := ""
	for _, arg := range args {
		switch arg {
		case "name":
			reading = "name"
		case "value":
			reading = "value"
		default:
			switch reading {
			case "name":
				if name != "" {
					name += " "
				}
				name += arg
			case "value":
				if value != "" {
					value += " "
				}
				value += arg
			}
		}
	}

	switch strings.ToLower(name) {
	case "hash":
		mb, err := strconv.Atoi(value)
		if err != nil || mb < 1 || mb > 1024 {
			u.log.Error().Str("value", value).Msg("invalid Hash value")
			return
		}
		u.engine.ResizeHash(mb)
		u.log.Info().Int("mb", mb).Msg("hash resized")
	default:
		u.log.Warn().Str("name", name).Msg("unhandled option")
	}
}

// handlePerft runs perft [debug] <depth> [startpos|<FEN>].
func (u *Protocol) handlePerft(args []string) {
	debug := false
	if len(args) > 0 && args[0] == "debug" {
		debug = true
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Println("Invalid depth")
		return
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		fmt.Println("Invalid depth")
		return
	}
	args = args[1:]

	if len(args) > 0 {
		if args[0] == "startpos" {
			u.pos = board.NewPosition()
		} else if err := u.pos.SetFEN(strings.Join(args, " ")); err != nil {
			u.log.Error().Err(err).Msg("perft position rejected")
			return
		}
	}

	start := time.Now()
	if debug {
		var total uint64
		for _, entry := range board.PerftDivide(u.pos, depth) {
			fmt.Printf("%s: Nodes %d\n", entry.Move, entry.Nodes)
			total += entry.Nodes
		}
		fmt.Printf("Depth: %d Nodes: %d Time: %d\n", depth, total, time.Since(start).Milliseconds())
	} else {
		fmt.Println(board.Perft(u.pos, depth))
	}
}

func (u *Protocol) handleSVG(args []string) {
	path := "board.svg"
	if len(args) > 0 {
		path = args[0]
	}
	f, err := os.Create(path)
	if err != nil {
		u.log.Error().Err(err).Msg("svg output failed")
		return
	}
	defer f.Close()
	diagram.Render(f, u.pos)
	u.log.Info().Str("path", path).Msg("board diagram written")
}

// sendInfo prints one info line per completed search depth.
func (u *Protocol) sendInfo(info engine.SearchInfo) {
	var sb strings.Builder

	if info.Score > engine.CheckmateScore && info.Score < engine.CheckmateWindow {
		fmt.Fprintf(&sb, "info score mate %d", (info.Score-engine.CheckmateScore+1)/-2)
	} else if info.Score > -engine.CheckmateWindow && info.Score < -engine.CheckmateScore {
		mate := info.Score + engine.CheckmateScore - 1
		if mate < 0 {
			mate = -mate
		}
		fmt.Fprintf(&sb, "info score mate %d", mate/2)
	} else {
		fmt.Fprintf(&sb, "info score cp %d", info.Score)
	}

	ms := info.Time.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	fmt.Fprintf(&sb, " depth %d", info.Depth)
	fmt.Fprintf(&sb, " nodes %d", info.Nodes)
	fmt.Fprintf(&sb, " time %d", ms)
	fmt.Fprintf(&sb, " nps %d", info.Nodes*1000/uint64(ms))
	fmt.Fprintf(&sb, " hashfull %d", info.HashFull)

	sb.WriteString(" pv")
	for _, move := range info.PV {
		sb.WriteByte(' ')
		sb.WriteString(move.String())
	}

	fmt.Println(sb.String())
}
