// Package tui is the terminal frontend: it draws snapshots with tcell and
// turns key presses into direction intents.
package tui

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/hoshinonyaruko/torus-snake/session"
	"github.com/hoshinonyaruko/torus-snake/structs"
)

// Each grid cell is two terminal columns wide so the board looks square.
const cellWidth = 2

var (
	foodShades = [3]tcell.Color{tcell.ColorRed, tcell.ColorOrange, tcell.ColorYellow}

	borderStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	bodyStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	headStyle   = tcell.StyleDefault.Foreground(tcell.ColorLime).Bold(true)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	deadStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// Frontend owns the screen. Render is called from the loop goroutine and
// RunInput from its own.
type Frontend struct {
	screen tcell.Screen
	mu     sync.Mutex
	high   int
}

func New(screen tcell.Screen) *Frontend {
	return &Frontend{screen: screen}
}

// SetHighScore seeds the best score shown in the status line.
func (f *Frontend) SetHighScore(n int) {
	f.mu.Lock()
	if n > f.high {
		f.high = n
	}
	f.mu.Unlock()
}

// HighScore returns the best score seen so far.
func (f *Frontend) HighScore() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.high
}

// HandleEvents bumps the high score when a round ends.
func (f *Frontend) HandleEvents(snap structs.Snapshot, ev session.Events) {
	if ev.Died {
		f.SetHighScore(snap.Score)
	}
}

// Render draws snap and shows it.
func (f *Frontend) Render(snap structs.Snapshot) error {
	high := f.HighScore()
	if snap.Score > high {
		high = snap.Score
	}

	s := f.screen
	s.Clear()
	drawBorder(s, snap.Width*cellWidth+2, snap.Height+2)

	for _, layer := range snap.Layers() {
		for i, pos := range layer.Cells() {
			switch layer.Kind() {
			case structs.KindFood:
				style := tcell.StyleDefault.Foreground(foodShades[((snap.AnimationIndex%3)+3)%3])
				drawCell(s, pos, '●', ' ', style)
			default:
				if i == 0 {
					drawCell(s, pos, '█', '█', headStyle)
				} else {
					drawCell(s, pos, '▓', '▓', bodyStyle)
				}
			}
		}
	}

	status := fmt.Sprintf(" score %d  best %d  round %d  len %d", snap.Score, high, snap.Round, len(snap.Segments))
	drawText(s, 0, snap.Height+2, status, textStyle)
	if !snap.Alive {
		msg := "GAME OVER  r: restart  q: quit"
		x := (snap.Width*cellWidth + 2 - len(msg)) / 2
		if x < 0 {
			x = 0
		}
		drawText(s, x, (snap.Height+2)/2, msg, deadStyle)
	}
	s.Show()
	return nil
}

func drawCell(s tcell.Screen, pos structs.Position, left, right rune, style tcell.Style) {
	x := 1 + pos.X*cellWidth
	y := 1 + pos.Y
	s.SetContent(x, y, left, nil, style)
	s.SetContent(x+1, y, right, nil, style)
}

func drawBorder(s tcell.Screen, w, h int) {
	for x := 1; x < w-1; x++ {
		s.SetContent(x, 0, '─', nil, borderStyle)
		s.SetContent(x, h-1, '─', nil, borderStyle)
	}
	for y := 1; y < h-1; y++ {
		s.SetContent(0, y, '│', nil, borderStyle)
		s.SetContent(w-1, y, '│', nil, borderStyle)
	}
	s.SetContent(0, 0, '┌', nil, borderStyle)
	s.SetContent(w-1, 0, '┐', nil, borderStyle)
	s.SetContent(0, h-1, '└', nil, borderStyle)
	s.SetContent(w-1, h-1, '┘', nil, borderStyle)
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
