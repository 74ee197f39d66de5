package snake

import (
	"errors"
	"math/rand"
	"time"

	"github.com/hoshinonyaruko/torus-snake/structs"
)

// ErrFieldExhausted is returned when every cell of the field is occupied.
var ErrFieldExhausted = errors.New("field exhausted: no free cell for food")

// maxSamples bounds the rejection loop before falling back to enumerating
// free cells.
const maxSamples = 64

// Occupied 被占用的格子集合
type Occupied map[structs.Position]struct{}

// NewOccupied builds a set from cells.
func NewOccupied(cells []structs.Position) Occupied {
	set := make(Occupied, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether pos is in the set.
func (o Occupied) Has(pos structs.Position) bool {
	_, ok := o[pos]
	return ok
}

// FoodSpawner 在空格子上随机生成食物
type FoodSpawner struct {
	field Field
	rng   *rand.Rand
}

// NewFoodSpawner creates a spawner. A zero seed uses the current time.
func NewFoodSpawner(field Field, seed int64) *FoodSpawner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &FoodSpawner{
		field: field,
		rng:   rand.New(rand.NewSource(seed)),
	}
}

// Spawn returns a uniformly random cell that is not in occupied.
func (fs *FoodSpawner) Spawn(occupied Occupied) (structs.Position, error) {
	// 先随机采样，大多数情况下几次就能找到空位
	for i := 0; i < maxSamples; i++ {
		pos := structs.Position{
			X: fs.rng.Intn(fs.field.Width),
			Y: fs.rng.Intn(fs.field.Height),
		}
		if !occupied.Has(pos) {
			return pos, nil
		}
	}

	// 蛇太长了，枚举所有空位再均匀选一个
	free := make([]structs.Position, 0, fs.field.Cells()-len(occupied))
	for y := 0; y < fs.field.Height; y++ {
		for x := 0; x < fs.field.Width; x++ {
			pos := structs.Position{X: x, Y: y}
			if !occupied.Has(pos) {
				free = append(free, pos)
			}
		}
	}
	if len(free) == 0 {
		return structs.Position{}, ErrFieldExhausted
	}
	return free[fs.rng.Intn(len(free))], nil
}
