package app

import (
	"strconv"

	"github.com/jaminalder/tictactoe-history/internal/domain"
)

// StatusText is the status line shown above the board.
func StatusText(res domain.Result, next domain.Cell) string {
	if res.Winner != domain.Empty {
		return "🎉 Winner: " + res.Winner.String() + " 🎉"
	}
	return "Next player: " + next.String()
}

// MoveLabel names a history entry.
func MoveLabel(move int) string {
	if move == 0 {
		return "Go to game start"
	}
	return "Go to move # " + strconv.Itoa(move)
}

// Congrats is the headline shown once the game has a winner.
func Congrats(winner domain.Cell) string {
	return "🎉 Congratulations! " + winner.String() + " wins 🎉"
}
