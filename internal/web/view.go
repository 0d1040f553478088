package web

import (
	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/domain"
)

// cellView is one square of the rendered board.
type cellView struct {
	Index     int
	Mark      string
	Winning   bool
	Clickable bool
}

// Class lists the CSS classes of the square.
func (c cellView) Class() string {
	class := "square"
	if c.Mark != "" {
		class += " " + c.Mark
	}
	if c.Winning {
		class += " winning-square"
	}
	return class
}

type moveView struct {
	Move     int
	Label    string
	Selected bool
}

// gameView is everything the game fragment shows for one snapshot.
type gameView struct {
	ID          string
	Status      string
	Cells       [9]cellView
	History     []moveView
	Winner      string
	Congrats    string
	ShowOverlay bool
}

func newGameView(gs app.GameState) gameView {
	g := gs.Game
	board := g.Board()
	res := g.Result()

	v := gameView{
		ID:          gs.ID,
		Status:      app.StatusText(res, g.Next()),
		Winner:      g.Winner.String(),
		ShowOverlay: g.Winner != domain.Empty,
	}
	if v.ShowOverlay {
		v.Congrats = app.Congrats(g.Winner)
	}
	for i, c := range board {
		v.Cells[i] = cellView{
			Index:     i,
			Mark:      c.String(),
			Winning:   res.Contains(i),
			Clickable: c == domain.Empty && g.Winner == domain.Empty,
		}
	}
	v.History = make([]moveView, len(g.History))
	for move := range g.History {
		v.History[move] = moveView{Move: move, Label: app.MoveLabel(move), Selected: move == g.Current}
	}
	return v
}
