// Package input holds the single-slot direction register shared between
// input sources and the simulation loop.
package input

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/hoshinonyaruko/torus-snake/structs"
)

// ErrInvalidChord is returned for a chord whose keys share an axis.
var ErrInvalidChord = errors.New("chord needs one horizontal and one vertical direction")

// Intent 是一次输入意图：单个方向，或者一个斜向组合键
type Intent struct {
	First  structs.Direction
	Second structs.Direction
	Chord  bool
}

// Resolve orders a chord against the current heading: the direction
// perpendicular to heading comes first, the other one is queued for the
// next tick.
func (in Intent) Resolve(heading structs.Direction) (now, next structs.Direction) {
	if in.First.Perpendicular(heading) {
		return in.First, in.Second
	}
	return in.Second, in.First
}

func (in Intent) String() string {
	if in.Chord {
		return in.First.String() + "+" + in.Second.String()
	}
	return in.First.String()
}

// Buffer 单槽输入缓冲，后写覆盖先写
//
// The buffer also tracks the heading the simulation last applied, so a
// reversal press is dropped before it can replace a queued turn.
type Buffer struct {
	mu         sync.Mutex
	intent     Intent
	set        bool
	heading    structs.Direction
	hasHeading bool
}

// NewBuffer returns an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Submit stores d, replacing anything not yet consumed. The opposite of the
// current heading is dropped and the slot is left alone; Submit reports
// whether d was accepted.
func (b *Buffer) Submit(d structs.Direction) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.hasHeading && d == b.heading.Opposite() {
		return false
	}
	b.intent = Intent{First: d}
	b.set = true
	return true
}

// SetHeading records the direction the snake is moving in. Only the
// simulation loop calls it, after every direction update.
func (b *Buffer) SetHeading(d structs.Direction) {
	b.mu.Lock()
	b.heading = d
	b.hasHeading = true
	b.mu.Unlock()
}

// Heading returns the last heading set, false before the first one.
func (b *Buffer) Heading() (structs.Direction, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.heading, b.hasHeading
}

// SubmitChord stores a diagonal intent made of a and b.
func (b *Buffer) SubmitChord(a, c structs.Direction) error {
	if !a.Perpendicular(c) {
		return fmt.Errorf("%w: %v+%v", ErrInvalidChord, a, c)
	}
	b.mu.Lock()
	b.intent = Intent{First: a, Second: c, Chord: true}
	b.set = true
	b.mu.Unlock()
	return nil
}

// Take consumes the slot. Only the simulation loop calls it.
func (b *Buffer) Take() (Intent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.set {
		return Intent{}, false
	}
	b.set = false
	return b.intent, true
}

// Clear drops any unconsumed intent.
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.set = false
	b.mu.Unlock()
}

// ParseIntent 解析 "up"、"left" 或者 "up-left" 这样的组合
func ParseIntent(s string) (Intent, error) {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '-' || r == '+' || r == ' '
	})
	switch len(parts) {
	case 1:
		d, err := structs.ParseDirection(parts[0])
		if err != nil {
			return Intent{}, err
		}
		return Intent{First: d}, nil
	case 2:
		a, err := structs.ParseDirection(parts[0])
		if err != nil {
			return Intent{}, err
		}
		c, err := structs.ParseDirection(parts[1])
		if err != nil {
			return Intent{}, err
		}
		if !a.Perpendicular(c) {
			return Intent{}, fmt.Errorf("%w: %q", ErrInvalidChord, s)
		}
		return Intent{First: a, Second: c, Chord: true}, nil
	}
	return Intent{}, fmt.Errorf("%w: %q", structs.ErrInvalidDirection, s)
}

// SubmitIntent stores a parsed intent. A single reversal is dropped
// silently, as in Submit.
func (b *Buffer) SubmitIntent(in Intent) error {
	if in.Chord {
		return b.SubmitChord(in.First, in.Second)
	}
	b.Submit(in.First)
	return nil
}
