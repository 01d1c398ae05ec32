// Package diagram renders positions as SVG board images for diagnostics.
package diagram

import (
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/halcyon-chess/halcyon/internal/board"
)

const (
	squareSize = 48
	margin     = 24
	boardSize  = 8 * squareSize
)

const (
	lightFill  = "fill:#f0d9b5"
	darkFill   = "fill:#b58863"
	textStyle  = "font-size:36px;text-anchor:middle;font-family:sans-serif"
	coordStyle = "font-size:14px;text-anchor:middle;font-family:sans-serif;fill:#555"
)

// glyphs maps pieces to their Unicode figurines, indexed by Piece.
var glyphs = [board.NumPieces]string{
	"♙", "♘", "♗", "♖", "♕", "♔",
	"♟", "♞", "♝", "♜", "♛", "♚",
}

// Render writes the position as an SVG document.
func Render(w io.Writer, pos *board.Position) {
	canvas := svg.New(w)
	canvas.Start(boardSize+2*margin, boardSize+2*margin)

	for rank := 7; rank >= 0; rank-- {
		for file := 0; file < 8; file++ {
			x := margin + file*squareSize
			y := margin + (7-rank)*squareSize

			fill := lightFill
			if (file+rank)%2 == 0 {
				fill = darkFill
			}
			canvas.Rect(x, y, squareSize, squareSize, fill)

			piece := pos.PieceOn(board.NewSquare(file, rank))
			if piece != board.NoPiece {
				canvas.Text(x+squareSize/2, y+squareSize-10, glyphs[piece], textStyle)
			}
		}
	}

	// Coordinates along the frame.
	for file := 0; file < 8; file++ {
		x := margin + file*squareSize + squareSize/2
		canvas.Text(x, margin+boardSize+16, string(rune('a'+file)), coordStyle)
	}
	for rank := 0; rank < 8; rank++ {
		y := margin + (7-rank)*squareSize + squareSize/2 + 5
		canvas.Text(margin/2, y, string(rune('1'+rank)), coordStyle)
	}

	canvas.End()
}
