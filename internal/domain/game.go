package domain

import "errors"

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

// String returns the marker shown for the cell, or "" when empty.
func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return ""
	}
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// Game owns the move history of one match. History[0] is always the empty board
// and Current points at the snapshot being shown.
type Game struct {
	History []Board
	Current int
	Winner  Cell
}

// Errors returned by domain operations. Callers treat them as ignored intents.
var (
	ErrOutOfBounds = errors.New("out of bounds")
	ErrOccupied    = errors.New("cell occupied")
	ErrGameOver    = errors.New("game over")
	ErrNoSuchMove  = errors.New("no such move")
)

// New returns a new game with X to move.
func New() Game {
	return Game{History: []Board{{}}}
}

// Board returns the snapshot at the current move.
func (g *Game) Board() Board {
	return g.History[g.Current]
}

// Next returns the marker to play, derived from the parity of the current move.
func (g *Game) Next() Cell {
	if g.Current%2 == 0 {
		return X
	}
	return O
}

// Moves returns the index of the last move in the history.
func (g *Game) Moves() int {
	return len(g.History) - 1
}

// Result evaluates the board at the current move.
func (g *Game) Result() Result {
	return Evaluate(g.Board())
}

// Play places the current player's marker at cell i (0..8) on the shown board.
// Any future beyond the shown move is discarded. won is true only for the play
// that first produces a winner.
func (g *Game) Play(i int) (won bool, err error) {
	if i < 0 || i > 8 {
		return false, ErrOutOfBounds
	}
	if g.Winner != Empty {
		return false, ErrGameOver
	}
	next := g.Board()
	if next[i] != Empty {
		return false, ErrOccupied
	}
	next[i] = g.Next()

	// Full slice expression so snapshots sharing the old backing array stay intact.
	g.History = append(g.History[:g.Current+1:g.Current+1], next)
	g.Current = len(g.History) - 1

	if r := Evaluate(next); r.Winner != Empty {
		g.Winner = r.Winner
		return true, nil
	}
	return false, nil
}

// JumpTo shows the snapshot at move. The winner is kept as is.
func (g *Game) JumpTo(move int) error {
	if move < 0 || move >= len(g.History) {
		return ErrNoSuchMove
	}
	g.Current = move
	return nil
}

// Reset returns the game to its initial state.
func (g *Game) Reset() {
	*g = New()
}

// Clone returns a deep copy.
func (g Game) Clone() Game {
	g.History = append([]Board(nil), g.History...)
	return g
}
