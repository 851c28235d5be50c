// Package tui plays a game against the computer in the terminal.
package tui

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/jaminalder/codex-gomoku/internal/app"
	"github.com/jaminalder/codex-gomoku/internal/domain"
)

// LocalPlayer owns the game hosted by the terminal UI.
const LocalPlayer = "local"

const (
	pageBoard    = "board"
	pageNotice   = "notice"
	pageGameOver = "gameover"
)

// Game-over choices.
const (
	choiceYes  = "Yes"
	choiceNo   = "No"
	choiceQuit = "Quit"
)

var (
	colorHuman    = tcell.ColorDodgerBlue
	colorComputer = tcell.ColorOrangeRed
	colorWinning  = tcell.ColorDarkGreen
	colorLast     = tcell.ColorDarkGoldenrod
)

// UI renders one game as a table of cells. Enter or a click on a cell plays it.
type UI struct {
	app    *tview.Application
	pages  *tview.Pages
	table  *tview.Table
	status *tview.TextView

	svc    *app.Service
	gameID string
	frozen bool
	log    *zap.Logger
	quit   func()
}

type Option func(*UI)

func WithLogger(l *zap.Logger) Option {
	return func(u *UI) {
		if l != nil {
			u.log = l
		}
	}
}

// New creates a game on svc and builds the widgets for it.
func New(svc *app.Service, opts ...Option) (*UI, error) {
	gs, err := svc.CreateGame(LocalPlayer)
	if err != nil {
		return nil, err
	}
	u := &UI{
		app:    tview.NewApplication(),
		pages:  tview.NewPages(),
		table:  tview.NewTable(),
		status: tview.NewTextView(),
		svc:    svc,
		gameID: gs.ID,
		log:    zap.NewNop(),
	}
	for _, o := range opts {
		o(u)
	}
	u.quit = u.app.Stop

	u.table.SetBorders(true).
		SetSelectable(true, true).
		SetSelectedFunc(u.play)
	u.status.SetDynamicColors(true)
	u.status.SetTextAlign(tview.AlignCenter)
	help := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText("arrows move  enter plays  n new game  q quit")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.status, 1, 0, false).
		AddItem(u.table, 0, 1, true).
		AddItem(help, 1, 0, false)
	u.pages.AddPage(pageBoard, layout, true, true)

	u.app.SetRoot(u.pages, true).
		EnableMouse(true).
		SetInputCapture(u.keys)
	u.refresh(*gs)
	center := len(gs.Board) / 2
	u.table.Select(center, center)
	if gs.Status.Over() {
		u.gameOver(gs.Status)
	}
	return u, nil
}

// Run blocks until the user quits.
func (u *UI) Run() error { return u.app.Run() }

func (u *UI) keys(ev *tcell.EventKey) *tcell.EventKey {
	if front, _ := u.pages.GetFrontPage(); front != pageBoard {
		return ev
	}
	switch ev.Rune() {
	case 'q':
		u.quit()
		return nil
	case 'n':
		u.newRound()
		return nil
	}
	return ev
}

func (u *UI) play(r, c int) {
	if u.frozen {
		return
	}
	gs, err := u.svc.Play(u.gameID, LocalPlayer, r, c)
	switch {
	case errors.Is(err, domain.ErrOccupied):
		u.notice("Cell is not empty!")
		return
	case errors.Is(err, domain.ErrGameOver):
		u.frozen = true
		return
	case err != nil && gs == nil:
		u.log.Error("play", zap.Int("row", r), zap.Int("col", c), zap.Error(err))
		u.notice(err.Error())
		return
	case err != nil:
		u.log.Error("computer move", zap.Error(err))
	}
	u.refresh(*gs)
	if gs.Status.Over() {
		u.gameOver(gs.Status)
	}
}

func (u *UI) newRound() {
	gs, err := u.svc.NewRound(u.gameID, LocalPlayer)
	if gs == nil {
		u.log.Error("new round", zap.Error(err))
		return
	}
	if err != nil {
		u.log.Error("computer opening", zap.Error(err))
	}
	u.frozen = false
	u.refresh(*gs)
	if gs.Status.Over() {
		u.gameOver(gs.Status)
	}
}

func (u *UI) notice(text string) {
	modal := tview.NewModal().
		SetText(text).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(int, string) { u.dismiss(pageNotice) })
	u.pages.AddPage(pageNotice, modal, false, true)
	u.app.SetFocus(modal)
}

func (u *UI) gameOver(s app.Status) {
	modal := tview.NewModal().
		SetText(s.Message() + " New game?").
		AddButtons([]string{choiceYes, choiceNo, choiceQuit}).
		SetDoneFunc(func(_ int, label string) { u.choose(label) })
	u.pages.AddPage(pageGameOver, modal, false, true)
	u.app.SetFocus(modal)
}

// choose handles a game-over button: a new round, a frozen board, or exit.
func (u *UI) choose(label string) {
	u.dismiss(pageGameOver)
	switch label {
	case choiceYes:
		u.newRound()
	case choiceQuit:
		u.quit()
	default:
		u.frozen = true
	}
}

func (u *UI) dismiss(page string) {
	u.pages.RemovePage(page)
	u.app.SetFocus(u.table)
}

func (u *UI) refresh(gs app.GameState) {
	last, hasLast := gs.LastMove()
	for r, row := range gs.Board {
		for c, m := range row {
			cell := tview.NewTableCell(cellText(m)).
				SetAlign(tview.AlignCenter).
				SetTextColor(markColor(m))
			switch {
			case gs.IsWinning(r, c):
				cell.SetBackgroundColor(colorWinning)
			case hasLast && last.Position == domain.Pos(r, c):
				cell.SetBackgroundColor(colorLast)
			}
			u.table.SetCell(r, c, cell)
		}
	}
	u.status.SetText(fmt.Sprintf("Round %d  %s", gs.Round, gs.Status.Message()))
}

func cellText(m domain.Mark) string {
	if m == domain.Empty {
		return " . "
	}
	return " " + m.Glyph() + " "
}

func markColor(m domain.Mark) tcell.Color {
	switch m {
	case domain.Human:
		return colorHuman
	case domain.Computer:
		return colorComputer
	default:
		return tcell.ColorGray
	}
}
