package snake

import (
	"errors"
	"testing"
)

func TestSpawn_NeverOnOccupied(t *testing.T) {
	field := NewField(5, 4)
	occupied := NewOccupied([]P{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 3}})
	spawner := NewFoodSpawner(field, 42)
	for i := 0; i < 2000; i++ {
		pos, err := spawner.Spawn(occupied)
		if err != nil {
			t.Fatalf("trial %d: %v", i, err)
		}
		if occupied.Has(pos) {
			t.Fatalf("trial %d: %v is occupied", i, pos)
		}
		if !field.Contains(pos) {
			t.Fatalf("trial %d: %v outside field", i, pos)
		}
	}
}

func TestSpawn_ReachesEveryFreeCell(t *testing.T) {
	field := NewField(3, 3)
	occupied := NewOccupied([]P{{X: 1, Y: 1}, {X: 0, Y: 2}})
	spawner := NewFoodSpawner(field, 1)

	seen := make(map[P]int)
	for i := 0; i < 10000; i++ {
		pos, err := spawner.Spawn(occupied)
		if err != nil {
			t.Fatalf("trial %d: %v", i, err)
		}
		seen[pos]++
	}
	if len(seen) != 7 {
		t.Fatalf("saw %d distinct cells, want 7: %v", len(seen), seen)
	}
	for pos, n := range seen {
		// 期望约 1428 次，留足余量
		if n < 1000 || n > 1900 {
			t.Errorf("cell %v produced %d times, distribution looks skewed", pos, n)
		}
	}
}

func TestSpawn_FallbackFindsLastFreeCell(t *testing.T) {
	field := NewField(8, 8)
	var cells []P
	for y := 0; y < field.Height; y++ {
		for x := 0; x < field.Width; x++ {
			if x == 6 && y == 5 {
				continue
			}
			cells = append(cells, P{X: x, Y: y})
		}
	}
	spawner := NewFoodSpawner(field, 3)
	pos, err := spawner.Spawn(NewOccupied(cells))
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if pos != (P{X: 6, Y: 5}) {
		t.Fatalf("pos=%v want=(6,5)", pos)
	}
}

func TestSpawn_FieldExhausted(t *testing.T) {
	field := NewField(2, 2)
	occupied := NewOccupied([]P{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}})
	spawner := NewFoodSpawner(field, 9)
	if _, err := spawner.Spawn(occupied); !errors.Is(err, ErrFieldExhausted) {
		t.Fatalf("err=%v want ErrFieldExhausted", err)
	}
}

func TestSpawn_SeedIsDeterministic(t *testing.T) {
	field := NewField(32, 24)
	a := NewFoodSpawner(field, 12345)
	b := NewFoodSpawner(field, 12345)
	occupied := NewOccupied(InitialBody)
	for i := 0; i < 50; i++ {
		pa, _ := a.Spawn(occupied)
		pb, _ := b.Spawn(occupied)
		if pa != pb {
			t.Fatalf("trial %d: %v != %v", i, pa, pb)
		}
	}
}
