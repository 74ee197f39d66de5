package structs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDirection is returned when a direction name cannot be parsed.
var ErrInvalidDirection = errors.New("invalid direction")

// Position 描述游戏地图上的一个格子坐标。
type Position struct {
	X int `json:"x"` // X坐标
	Y int `json:"y"` // Y坐标
}

// Add 向量相加，不做边界处理
func (p Position) Add(d Direction) Position {
	v := d.Vector()
	return Position{X: p.X + v.X, Y: p.Y + v.Y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction 是四个单位方向之一
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists every direction in declaration order.
var Directions = []Direction{Up, Down, Left, Right}

var directionNames = [...]string{"up", "down", "left", "right"}

var directionVectors = [...]Position{
	Up:    {X: 0, Y: -1},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
	Right: {X: 1, Y: 0},
}

// Vector returns the unit step of d.
func (d Direction) Vector() Position {
	return directionVectors[d]
}

// Opposite returns the reverse heading.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

// Horizontal reports whether d moves along the x axis.
func (d Direction) Horizontal() bool {
	return d == Left || d == Right
}

// Perpendicular reports whether d and o lie on different axes.
func (d Direction) Perpendicular(o Direction) bool {
	return d.Horizontal() != o.Horizontal()
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", d)
}

// ParseDirection 解析 "up", "down", "left", "right"（忽略大小写）
func ParseDirection(s string) (Direction, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
}

func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directionNames) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, d)
	}
	return []byte(directionNames[d]), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// CellKind tells a renderer what an occupied cell belongs to.
type CellKind uint8

const (
	KindSnake CellKind = iota
	KindHead
	KindFood
)

// Drawable is anything that can report the cells it occupies.
// Renderers pick colors from the kind and the animation index.
type Drawable interface {
	Cells() []Position
	Kind() CellKind
}

// BodyLayer 蛇身图层
type BodyLayer []Position

func (b BodyLayer) Cells() []Position { return b }
func (b BodyLayer) Kind() CellKind    { return KindSnake }

// FoodLayer 食物图层，没有食物时为空
type FoodLayer []Position

func (f FoodLayer) Cells() []Position { return f }
func (f FoodLayer) Kind() CellKind    { return KindFood }

// Snapshot 是每一帧交给渲染器的只读状态。
// Segments 是独立拷贝，可以安全地交给其他 goroutine。
type Snapshot struct {
	Segments       []Position `json:"segments"`        // 蛇身，0 是蛇头
	Food           Position   `json:"food"`            // 食物位置
	HasFood        bool       `json:"has_food"`        // 地图被占满时为 false
	Score          int        `json:"score"`           // 本局吃到的食物数
	Alive          bool       `json:"alive"`           // 是否存活
	AnimationIndex int        `json:"animation_index"` // 0..2，用于颜色循环
	Tick           int        `json:"tick"`            // 本局已运行的 tick 数
	Round          int        `json:"round"`           // 第几局
	Width          int        `json:"width"`           // 地图宽度
	Height         int        `json:"height"`          // 地图高度
	Direction      Direction  `json:"direction"`       // 当前方向
}

// Layers returns the drawables of s, food first so the body paints over it.
func (s Snapshot) Layers() []Drawable {
	food := FoodLayer{}
	if s.HasFood {
		food = FoodLayer{s.Food}
	}
	return []Drawable{food, BodyLayer(s.Segments)}
}

// Head returns the head cell, or false for an empty snapshot.
func (s Snapshot) Head() (Position, bool) {
	if len(s.Segments) == 0 {
		return Position{}, false
	}
	return s.Segments[0], true
}

// GameRecord 是一局结束后写入数据库的记录
type GameRecord struct {
	ID      int64 `json:"id"`
	Round   int   `json:"round"`
	Score   int   `json:"score"`
	Length  int   `json:"length"`
	Ticks   int   `json:"ticks"`
	EndedAt int64 `json:"ended_at"` // Unix 时间戳
}
