package snake

import "github.com/hoshinonyaruko/torus-snake/structs"

// MinFieldSize is the smallest width or height a game accepts.
const MinFieldSize = 2

// Field 定义地图大小和环形边界规则
type Field struct {
	Width  int
	Height int
}

// NewField returns a field of width x height cells.
func NewField(width, height int) Field {
	return Field{Width: width, Height: height}
}

// Wrap 从 pos 沿 dir 走一步。越过边界时从对边出来，两个轴各自处理。
func (f Field) Wrap(pos structs.Position, dir structs.Direction) structs.Position {
	next := pos.Add(dir)
	next.X, next.Y = WrapPosition(next.X, next.Y, f.Width, f.Height)
	return next
}

// WrapPosition 确保位置不会超出地图边界
func WrapPosition(x, y, width, height int) (int, int) {
	if x < 0 {
		x += width
	} else if x >= width {
		x -= width
	}
	if y < 0 {
		y += height
	} else if y >= height {
		y -= height
	}
	return x, y
}

// Contains reports whether pos lies inside the field.
func (f Field) Contains(pos structs.Position) bool {
	return pos.X >= 0 && pos.X < f.Width && pos.Y >= 0 && pos.Y < f.Height
}

// Cells is the number of cells on the field.
func (f Field) Cells() int {
	return f.Width * f.Height
}
