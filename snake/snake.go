// 关于蛇的移动、增长和碰撞
package snake

import (
	"fmt"

	"github.com/hoshinonyaruko/torus-snake/structs"
)

// InitialBody is the fixed starting layout, head first.
var InitialBody = []structs.Position{{X: 16, Y: 10}, {X: 16, Y: 11}, {X: 16, Y: 12}}

// GrowthMode selects how many segments one food item adds.
type GrowthMode uint8

const (
	// GrowthDouble appends two tail extensions per food item.
	GrowthDouble GrowthMode = iota
	// GrowthSingle keeps the vacated tail cell, one segment per food item.
	GrowthSingle
)

func (m GrowthMode) String() string {
	if m == GrowthSingle {
		return "single"
	}
	return "double"
}

// ParseGrowthMode parses "double" or "single".
func ParseGrowthMode(s string) (GrowthMode, error) {
	switch s {
	case "", "double":
		return GrowthDouble, nil
	case "single":
		return GrowthSingle, nil
	}
	return GrowthDouble, fmt.Errorf("unknown growth mode %q", s)
}

// Body 蛇身，0 号元素是蛇头
type Body struct {
	segments   []structs.Position
	direction  structs.Direction
	pending    structs.Direction
	hasPending bool
	vacated    structs.Position // 上一次 Move 移走的尾巴

	initial    []structs.Position
	initialDir structs.Direction
	growth     GrowthMode
}

// NewBody creates a snake laid out as initial, heading dir.
// initial must not be empty.
func NewBody(initial []structs.Position, dir structs.Direction, growth GrowthMode) *Body {
	b := &Body{
		initial:    append([]structs.Position(nil), initial...),
		initialDir: dir,
		growth:     growth,
	}
	b.Reset()
	return b
}

// Reset 恢复初始的身体和方向，清掉待处理方向
func (b *Body) Reset() {
	b.segments = append(b.segments[:0], b.initial...)
	b.direction = b.initialDir
	b.hasPending = false
	b.vacated = b.segments[len(b.segments)-1]
}

// SetPendingDirection queues d for the next UpdateDirection. A reversal of
// the current heading is dropped; otherwise the last call wins.
func (b *Body) SetPendingDirection(d structs.Direction) {
	if d == b.direction.Opposite() {
		return
	}
	b.pending = d
	b.hasPending = true
}

// UpdateDirection applies and clears the pending direction.
func (b *Body) UpdateDirection() {
	if b.hasPending {
		b.direction = b.pending
		b.hasPending = false
	}
}

// Move 蛇头前进一格，去掉尾巴，长度不变
func (b *Body) Move(field Field) {
	head := field.Wrap(b.segments[0], b.direction)
	last := len(b.segments) - 1
	b.vacated = b.segments[last]

	// 整体后移一格再放新蛇头，复用底层数组
	copy(b.segments[1:], b.segments[:last])
	b.segments[0] = head
}

// Grow advances the head like Move and then extends the body.
func (b *Body) Grow(field Field) {
	b.Move(field)
	b.Extend(field)
}

// Extend adds the growth segments for one food item to the tail.
// GrowthDouble appends two copies of Wrap(tail, direction); GrowthSingle
// puts back the cell vacated by the last Move.
func (b *Body) Extend(field Field) {
	if b.growth == GrowthSingle {
		b.segments = append(b.segments, b.vacated)
		return
	}
	ext := field.Wrap(b.segments[len(b.segments)-1], b.direction)
	b.segments = append(b.segments, ext, ext)
}

// CheckFoodCollision 蛇头是否吃到食物
func (b *Body) CheckFoodCollision(food structs.Position) bool {
	return b.segments[0] == food
}

// CheckSelfCollision reports true when the head overlaps any other segment.
func (b *Body) CheckSelfCollision() bool {
	head := b.segments[0]
	for _, part := range b.segments[1:] {
		if part == head {
			return true
		}
	}
	return false
}

// Head returns the head cell.
func (b *Body) Head() structs.Position {
	return b.segments[0]
}

// Tail returns the last cell.
func (b *Body) Tail() structs.Position {
	return b.segments[len(b.segments)-1]
}

// Len is the number of segments.
func (b *Body) Len() int {
	return len(b.segments)
}

// Segments returns a copy of the body, head first.
func (b *Body) Segments() []structs.Position {
	return append([]structs.Position(nil), b.segments...)
}

// Occupied returns the set of cells covered by the body.
func (b *Body) Occupied() Occupied {
	return NewOccupied(b.segments)
}

// Direction is the applied heading.
func (b *Body) Direction() structs.Direction {
	return b.direction
}

// Pending returns the queued direction, if any.
func (b *Body) Pending() (structs.Direction, bool) {
	return b.pending, b.hasPending
}

// Growth returns the growth mode.
func (b *Body) Growth() GrowthMode {
	return b.growth
}
