// Package session runs one game of snake: the per-tick state machine and the
// loop that paces it.
package session

import (
	"errors"
	"fmt"

	"github.com/hoshinonyaruko/torus-snake/input"
	"github.com/hoshinonyaruko/torus-snake/snake"
	"github.com/hoshinonyaruko/torus-snake/structs"
)

// State of a session.
type State uint8

const (
	Running State = iota
	Dead
)

func (s State) String() string {
	if s == Dead {
		return "dead"
	}
	return "running"
}

// AnimationFrames is the length of the color cycle exposed to renderers.
const AnimationFrames = 3

// Config 一局游戏的固定配置
type Config struct {
	Width            int
	Height           int
	InitialBody      []structs.Position
	InitialDirection structs.Direction
	Growth           snake.GrowthMode
	Seed             int64
}

// DefaultConfig matches the classic 32x24 board.
func DefaultConfig() Config {
	return Config{
		Width:            32,
		Height:           24,
		InitialBody:      snake.InitialBody,
		InitialDirection: structs.Up,
		Growth:           snake.GrowthDouble,
	}
}

// Events 描述一个 tick 内发生了什么
type Events struct {
	Ate       bool // 吃到食物
	Died      bool // 本 tick 撞到自己
	Exhausted bool // 本 tick 地图被占满，没有地方放食物
}

// Session owns the snake, the food and the counters of one game. It is not
// safe for concurrent use; the loop goroutine is its only user.
type Session struct {
	field   snake.Field
	body    *snake.Body
	spawner *snake.FoodSpawner
	input   *input.Buffer

	food    structs.Position
	hasFood bool
	state   State

	score         int
	animationTick int
	tick          int
	round         int
}

// New validates cfg and starts the first round.
func New(cfg Config, in *input.Buffer) (*Session, error) {
	if cfg.Width < snake.MinFieldSize || cfg.Height < snake.MinFieldSize {
		return nil, fmt.Errorf("invalid field size %dx%d", cfg.Width, cfg.Height)
	}
	if len(cfg.InitialBody) == 0 {
		return nil, errors.New("initial body is empty")
	}
	field := snake.NewField(cfg.Width, cfg.Height)
	for _, p := range cfg.InitialBody {
		if !field.Contains(p) {
			return nil, fmt.Errorf("initial segment %v outside %dx%d field", p, cfg.Width, cfg.Height)
		}
	}
	if in == nil {
		in = input.NewBuffer()
	}

	s := &Session{
		field:   field,
		body:    snake.NewBody(cfg.InitialBody, cfg.InitialDirection, cfg.Growth),
		spawner: snake.NewFoodSpawner(field, cfg.Seed),
		input:   in,
	}
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset starts a new round. It is accepted in both states.
func (s *Session) Reset() error {
	s.body.Reset()
	s.input.Clear()
	s.input.SetHeading(s.body.Direction())
	s.score = 0
	s.tick = 0
	s.round++
	s.state = Running
	return s.respawnFood()
}

// Tick advances the game by one step and returns the new snapshot.
// A dead session only returns its frozen state.
func (s *Session) Tick() (structs.Snapshot, Events) {
	var ev Events
	if s.state == Dead {
		return s.Snapshot(), ev
	}

	hadFood := s.hasFood
	s.applyInput()
	s.body.Move(s.field)

	if s.hasFood && s.body.CheckFoodCollision(s.food) {
		s.body.Extend(s.field)
		s.score++
		ev.Ate = true
		s.hasFood = false
	}
	if !s.hasFood {
		// 用增长之后的身体生成新食物
		// 只在刚吃掉最后一格食物时报告一次
		if err := s.respawnFood(); err != nil && hadFood {
			ev.Exhausted = true
		}
	}

	if s.body.CheckSelfCollision() {
		s.state = Dead
		ev.Died = true
	}

	s.animationTick++
	s.tick++
	return s.Snapshot(), ev
}

// applyInput consumes at most one intent. A chord turns now and leaves its
// second direction pending for the next tick.
func (s *Session) applyInput() {
	in, ok := s.input.Take()
	if ok && in.Chord {
		now, next := in.Resolve(s.body.Direction())
		s.body.SetPendingDirection(now)
		s.body.UpdateDirection()
		s.body.SetPendingDirection(next)
		s.input.SetHeading(s.body.Direction())
		return
	}
	if ok {
		s.body.SetPendingDirection(in.First)
	}
	s.body.UpdateDirection()
	s.input.SetHeading(s.body.Direction())
}

func (s *Session) respawnFood() error {
	pos, err := s.spawner.Spawn(s.body.Occupied())
	if err != nil {
		s.hasFood = false
		return err
	}
	s.food = pos
	s.hasFood = true
	return nil
}

// Snapshot copies the render-relevant state.
func (s *Session) Snapshot() structs.Snapshot {
	return structs.Snapshot{
		Segments:       s.body.Segments(),
		Food:           s.food,
		HasFood:        s.hasFood,
		Score:          s.score,
		Alive:          s.state == Running,
		AnimationIndex: s.animationTick % AnimationFrames,
		Tick:           s.tick,
		Round:          s.round,
		Width:          s.field.Width,
		Height:         s.field.Height,
		Direction:      s.body.Direction(),
	}
}

// State returns Running or Dead.
func (s *Session) State() State { return s.state }

// Score is the number of food items eaten this round.
func (s *Session) Score() int { return s.score }

// Round counts resets, starting at 1.
func (s *Session) Round() int { return s.round }

// Len is the current body length.
func (s *Session) Len() int { return s.body.Len() }

// Input returns the buffer the session reads from.
func (s *Session) Input() *input.Buffer { return s.input }
