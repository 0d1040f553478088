// Package tui renders a game session in the terminal with Bubble Tea.
//
// The model holds only the cursor and the confetti animation; the game itself
// lives in the app.Service session and every key press is forwarded as an intent.
package tui

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jaminalder/tictactoe-history/internal/app"
	"github.com/jaminalder/tictactoe-history/internal/domain"
)

const (
	frameInterval = 80 * time.Millisecond
	// celebrationFrames is how many frames the confetti runs for.
	celebrationFrames = 20
	confettiWidth     = 40
)

type frameMsg struct{}

// Model is the Bubble Tea model of one terminal game.
type Model struct {
	svc    *app.Service
	id     string
	state  app.GameState
	cursor int
	frames int
	rng    *rand.Rand
	err    error
}

// New creates a session on svc and returns a model showing it.
func New(svc *app.Service) (*Model, error) {
	gs, err := svc.CreateGame()
	if err != nil {
		return nil, err
	}
	return &Model{
		svc:    svc,
		id:     gs.ID,
		state:  *gs,
		cursor: 4,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if m.frames > 0 {
			m.frames--
		}
		if m.frames > 0 {
			return m, tick()
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	}
	return m, nil
}

func (m *Model) handleKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "up", "k":
		if m.cursor >= 3 {
			m.cursor -= 3
		}
	case "down", "j":
		if m.cursor < 6 {
			m.cursor += 3
		}
	case "left", "h":
		if m.cursor%3 > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor%3 < 2 {
			m.cursor++
		}
	case "enter", " ":
		return m.play()
	case "[":
		m.jump(m.state.Game.Current - 1)
	case "]":
		m.jump(m.state.Game.Current + 1)
	case "r":
		// offered only on the win popup, like the web overlay
		if m.state.Game.Winner == domain.Empty {
			return nil
		}
		gs, err := m.svc.Reset(m.id)
		m.apply(gs, err)
		m.frames = 0
	default:
		if move, err := strconv.Atoi(key); err == nil {
			m.jump(move)
		}
	}
	return nil
}

// play forwards the intent only when the cell under the cursor can be played.
func (m *Model) play() tea.Cmd {
	g := m.state.Game
	if g.Winner != domain.Empty || g.Board()[m.cursor] != domain.Empty {
		return nil
	}
	gs, celebration, err := m.svc.Play(m.id, m.cursor)
	m.apply(gs, err)
	if celebration == nil {
		return nil
	}
	start := m.frames == 0
	m.frames = celebrationFrames
	if start {
		return tick()
	}
	return nil
}

func (m *Model) jump(move int) {
	gs, err := m.svc.JumpTo(m.id, move)
	m.apply(gs, err)
}

func (m *Model) apply(gs *app.GameState, err error) {
	if gs != nil {
		m.state = *gs
	}
	if errors.Is(err, app.ErrNotFound) {
		m.err = err
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

// Celebrating reports whether the confetti animation is running.
func (m *Model) Celebrating() bool { return m.frames > 0 }

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return Styles.Error.Render(m.err.Error()) + "\n"
	}
	g := m.state.Game
	res := g.Result()

	var b strings.Builder
	if m.Celebrating() {
		b.WriteString(m.confetti())
		b.WriteString("\n")
	}
	b.WriteString(Styles.Title.Render(app.StatusText(res, g.Next())))
	b.WriteString("\n\n")

	board := m.renderBoard(g.Board(), res)
	history := m.renderHistory()
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, board, "    ", history))
	b.WriteString("\n")

	if g.Winner != domain.Empty {
		b.WriteString(Styles.Popup.Render(app.Congrats(g.Winner) + "\n\npress r to play again"))
		b.WriteString("\n")
	}
	b.WriteString(Styles.Hint.Render("arrows/hjkl move • enter play • [ ] history • 0-9 jump • q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderBoard(board domain.Board, res domain.Result) string {
	var rows []string
	for r := 0; r < 3; r++ {
		var cells []string
		for c := 0; c < 3; c++ {
			i := r*3 + c
			cells = append(cells, cellStyle(board[i], res.Contains(i), i == m.cursor).Render(cellText(board[i])))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderHistory() string {
	var lines []string
	for move := range m.state.Game.History {
		label := strconv.Itoa(move) + ". " + app.MoveLabel(move)
		if move == m.state.Game.Current {
			lines = append(lines, Styles.Selected.Render("> "+label))
		} else {
			lines = append(lines, Styles.Normal.Render("  "+label))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) confetti() string {
	var b strings.Builder
	for i := 0; i < confettiWidth; i++ {
		if m.rng.Intn(3) == 0 {
			g := confettiGlyphs[m.rng.Intn(len(confettiGlyphs))]
			b.WriteString(confettiColors[m.rng.Intn(len(confettiColors))].Render(g))
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func cellText(c domain.Cell) string {
	if c == domain.Empty {
		return " "
	}
	return c.String()
}
