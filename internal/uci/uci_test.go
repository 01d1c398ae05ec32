package uci

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/halcyon-chess/halcyon/internal/engine"
)

func newTestProtocol() *Protocol {
	return New(engine.New(1), zerolog.Nop())
}

func TestParseGoLimits(t *testing.T) {
	tests := []struct {
		args []string
		want engine.Limits
	}{
		{[]string{"depth", "6"}, engine.Limits{Depth: 6}},
		{[]string{"nodes", "100000"}, engine.Limits{Nodes: 100000}},
		{[]string{"movetime", "2500"}, engine.Limits{MoveTime: 2500}},
		{[]string{"infinite"}, engine.Limits{Infinite: true}},
		{
			[]string{"wtime", "60000", "btime", "55000", "winc", "1000", "binc", "900", "movestogo", "32"},
			engine.Limits{WhiteTime: 60000, BlackTime: 55000, WhiteInc: 1000, BlackInc: 900, MovesToGo: 32},
		},
	}

	for _, tc := range tests {
		got, err := parseGoLimits(tc.args)
		if err != nil {
			t.Errorf("parseGoLimits(%v): %v", tc.args, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseGoLimits(%v) = %+v, want %+v", tc.args, got, tc.want)
		}
	}
}

func TestParseGoLimitsErrors(t *testing.T) {
	bad := [][]string{
		{"depth"},
		{"depth", "six"},
		{"wtime", "soon"},
	}
	for _, args := range bad {
		if _, err := parseGoLimits(args); err == nil {
			t.Errorf("parseGoLimits(%v): expected error", args)
		}
	}
}

func TestHandlePositionStartposMoves(t *testing.T) {
	u := newTestProtocol()
	u.handlePosition([]string{"startpos", "moves", "e2e4", "e7e5"})

	want := "rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2"
	if got := u.pos.FEN(); got != want {
		t.Errorf("position = %q, want %q", got, want)
	}
	if u.engine.Repetition().Len() != 2 {
		t.Errorf("repetition entries = %d, want 2", u.engine.Repetition().Len())
	}
}

func TestHandlePositionFEN(t *testing.T) {
	u := newTestProtocol()
	fen := "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1"
	u.handlePosition(append([]string{"fen"}, strings.Fields(fen)...))

	if got := u.pos.FEN(); got != fen {
		t.Errorf("position = %q, want %q", got, fen)
	}
}

func TestHandlePositionRejectsBadFEN(t *testing.T) {
	u := newTestProtocol()
	before := u.pos.FEN()
	u.handlePosition([]string{"fen", "not", "a", "position", "w"})
	if got := u.pos.FEN(); got != before {
		t.Errorf("position changed after invalid FEN: %q", got)
	}
}
