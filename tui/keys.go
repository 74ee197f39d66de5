package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/torus-snake/input"
	"github.com/hoshinonyaruko/torus-snake/session"
	"github.com/hoshinonyaruko/torus-snake/structs"
)

// Action is what a key press asks for.
type Action uint8

const (
	ActNone Action = iota
	ActMove
	ActReset
	ActQuit
)

// Commander accepts session commands; *session.Loop implements it.
type Commander interface {
	Send(cmd session.Command) bool
}

var runeDirections = map[rune]structs.Direction{
	'w': structs.Up, 'k': structs.Up,
	's': structs.Down, 'j': structs.Down,
	'a': structs.Left, 'h': structs.Left,
	'd': structs.Right, 'l': structs.Right,
}

// vi 风格的斜向键
var runeChords = map[rune][2]structs.Direction{
	'y': {structs.Up, structs.Left},
	'u': {structs.Up, structs.Right},
	'b': {structs.Down, structs.Left},
	'n': {structs.Down, structs.Right},
}

var keyDirections = map[tcell.Key]structs.Direction{
	tcell.KeyUp:    structs.Up,
	tcell.KeyDown:  structs.Down,
	tcell.KeyLeft:  structs.Left,
	tcell.KeyRight: structs.Right,
}

// MapKey translates one key event.
func MapKey(ev *tcell.EventKey) (Action, input.Intent) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return ActQuit, input.Intent{}
	case tcell.KeyRune:
		r := ev.Rune()
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		switch r {
		case 'q':
			return ActQuit, input.Intent{}
		case 'r':
			return ActReset, input.Intent{}
		}
		if d, ok := runeDirections[r]; ok {
			return ActMove, input.Intent{First: d}
		}
		if c, ok := runeChords[r]; ok {
			return ActMove, input.Intent{First: c[0], Second: c[1], Chord: true}
		}
	default:
		if d, ok := keyDirections[ev.Key()]; ok {
			return ActMove, input.Intent{First: d}
		}
	}
	return ActNone, input.Intent{}
}

// RunInput reads keys until ctx is done or the player quits, in which case
// quit is called.
func (f *Frontend) RunInput(ctx context.Context, buf *input.Buffer, cmds Commander, quit func()) {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := f.screen.PollEvent()
			if ev == nil {
				// Fini 之后 PollEvent 返回 nil
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !f.handleKey(ev, buf, cmds) {
					quit()
					return
				}
			case *tcell.EventResize:
				f.screen.Sync()
			}
		}
	}
}

// handleKey reports false when the player asked to quit.
func (f *Frontend) handleKey(ev *tcell.EventKey, buf *input.Buffer, cmds Commander) bool {
	act, intent := MapKey(ev)
	switch act {
	case ActQuit:
		return false
	case ActReset:
		cmds.Send(session.CmdReset)
	case ActMove:
		if err := buf.SubmitIntent(intent); err != nil {
			log.Err(err).Stringer("intent", intent).Msg("key rejected")
		}
	}
	return true
}
