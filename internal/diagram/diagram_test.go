package diagram

import (
	"strings"
	"testing"

	"github.com/halcyon-chess/halcyon/internal/board"
)

func TestRenderStartPosition(t *testing.T) {
	var sb strings.Builder
	Render(&sb, board.NewPosition())
	out := sb.String()

	if !strings.Contains(out, "<svg") || !strings.Contains(out, "</svg>") {
		t.Fatal("output is not an SVG document")
	}
	if got := strings.Count(out, "<rect"); got != 64 {
		t.Errorf("squares drawn = %d, want 64", got)
	}
	// All 32 starting pieces plus 16 coordinate labels.
	if got := strings.Count(out, "<text"); got != 48 {
		t.Errorf("text elements = %d, want 48", got)
	}
	if !strings.Contains(out, "♔") || !strings.Contains(out, "♚") {
		t.Error("kings missing from the diagram")
	}
}

func TestRenderEmptyBoard(t *testing.T) {
	pos := &board.Position{}
	if err := pos.SetFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1"); err != nil {
		t.Fatalf("SetFEN: %v", err)
	}

	var sb strings.Builder
	Render(&sb, pos)
	out := sb.String()

	// Two kings plus 16 coordinate labels.
	if got := strings.Count(out, "<text"); got != 18 {
		t.Errorf("text elements = %d, want 18", got)
	}
}
