package session

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/hoshinonyaruko/torus-snake/structs"
)

// Renderer receives one snapshot per tick.
type Renderer interface {
	Render(snap structs.Snapshot) error
}

// Listener reacts to tick events (sound, score store, logs).
type Listener interface {
	HandleEvents(snap structs.Snapshot, ev Events)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(structs.Snapshot) error

func (f RendererFunc) Render(snap structs.Snapshot) error { return f(snap) }

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(structs.Snapshot, Events)

func (f ListenerFunc) HandleEvents(snap structs.Snapshot, ev Events) { f(snap, ev) }

// Command 是会话级别的指令
type Command uint8

const (
	CmdReset Command = iota + 1
)

func (c Command) String() string {
	if c == CmdReset {
		return "reset"
	}
	return "unknown"
}

const commandQueue = 4

// Loop drives a session from a clock. Run is the only goroutine touching
// the session.
type Loop struct {
	session   *Session
	clock     Clock
	renderers []Renderer
	listeners []Listener
	commands  chan Command
	log       zerolog.Logger
}

// NewLoop wires a session to a clock.
func NewLoop(s *Session, clock Clock, log zerolog.Logger) *Loop {
	return &Loop{
		session:  s,
		clock:    clock,
		commands: make(chan Command, commandQueue),
		log:      log,
	}
}

// AddRenderer registers r. Call before Run.
func (l *Loop) AddRenderer(r Renderer) {
	l.renderers = append(l.renderers, r)
}

// AddListener registers h. Call before Run.
func (l *Loop) AddListener(h Listener) {
	l.listeners = append(l.listeners, h)
}

// Send queues a command without blocking. It reports false when the queue
// is full and the command was dropped.
func (l *Loop) Send(cmd Command) bool {
	select {
	case l.commands <- cmd:
		return true
	default:
		l.log.Warn().Stringer("cmd", cmd).Msg("command queue full, dropped")
		return false
	}
}

// Run ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	l.publish(l.session.Snapshot(), Events{})
	for {
		if err := l.clock.Wait(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		l.drainCommands()
		snap, ev := l.session.Tick()
		l.logEvents(snap, ev)
		l.publish(snap, ev)
	}
}

func (l *Loop) drainCommands() {
	for {
		select {
		case cmd := <-l.commands:
			l.apply(cmd)
		default:
			return
		}
	}
}

func (l *Loop) apply(cmd Command) {
	switch cmd {
	case CmdReset:
		if err := l.session.Reset(); err != nil {
			l.log.Err(err).Int("round", l.session.Round()).Msg("reset without food")
		}
		l.log.Info().Int("round", l.session.Round()).Msg("new round")
	default:
		l.log.Warn().Uint8("cmd", uint8(cmd)).Msg("unknown command")
	}
}

func (l *Loop) logEvents(snap structs.Snapshot, ev Events) {
	if ev.Ate {
		l.log.Debug().
			Int("round", snap.Round).
			Int("score", snap.Score).
			Int("len", len(snap.Segments)).
			Msg("food eaten")
	}
	if ev.Exhausted {
		l.log.Warn().Int("len", len(snap.Segments)).Msg("no free cell for food")
	}
	if ev.Died {
		l.log.Info().
			Int("round", snap.Round).
			Int("score", snap.Score).
			Int("len", len(snap.Segments)).
			Int("tick", snap.Tick).
			Msg("snake died")
	}
}

func (l *Loop) publish(snap structs.Snapshot, ev Events) {
	for _, r := range l.renderers {
		if err := r.Render(snap); err != nil {
			l.log.Err(err).Msg("render failed")
		}
	}
	for _, h := range l.listeners {
		h.HandleEvents(snap, ev)
	}
}
