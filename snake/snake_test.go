package snake

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hoshinonyaruko/torus-snake/structs"
)

type P = structs.Position

// dumpBody draws the body on a small board, head uppercase.
func dumpBody(field Field, segments []P) string {
	grid := make([][]byte, field.Height)
	for y := range grid {
		grid[y] = []byte(strings.Repeat(".", field.Width))
	}
	for i := len(segments) - 1; i >= 0; i-- {
		p := segments[i]
		if !field.Contains(p) {
			continue
		}
		if i == 0 {
			grid[p.Y][p.X] = 'H'
		} else {
			grid[p.Y][p.X] = 's'
		}
	}
	var sb strings.Builder
	for _, row := range grid {
		sb.Write(row)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func assertBody(t *testing.T, field Field, got, want []P) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("body len=%d want=%d\n%s", len(got), len(want), dumpBody(field, got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("body[%d]=%v want=%v\n%s", i, got[i], want[i], dumpBody(field, got))
		}
	}
}

func TestWrap_Edges(t *testing.T) {
	field := NewField(10, 8)
	cases := []struct {
		from P
		dir  structs.Direction
		want P
	}{
		{P{X: 9, Y: 3}, structs.Right, P{X: 0, Y: 3}},
		{P{X: 0, Y: 3}, structs.Left, P{X: 9, Y: 3}},
		{P{X: 4, Y: 7}, structs.Down, P{X: 4, Y: 0}},
		{P{X: 4, Y: 0}, structs.Up, P{X: 4, Y: 7}},
		{P{X: 0, Y: 0}, structs.Up, P{X: 0, Y: 7}},
		{P{X: 9, Y: 7}, structs.Right, P{X: 0, Y: 7}},
	}
	for _, c := range cases {
		if got := field.Wrap(c.from, c.dir); got != c.want {
			t.Errorf("Wrap(%v, %v)=%v want=%v", c.from, c.dir, got, c.want)
		}
	}
}

func TestWrap_AllEdgeCells(t *testing.T) {
	field := NewField(7, 5)
	for y := 0; y < field.Height; y++ {
		if got := field.Wrap(P{X: field.Width - 1, Y: y}, structs.Right); got != (P{X: 0, Y: y}) {
			t.Fatalf("right edge y=%d: got %v", y, got)
		}
		if got := field.Wrap(P{X: 0, Y: y}, structs.Left); got != (P{X: field.Width - 1, Y: y}) {
			t.Fatalf("left edge y=%d: got %v", y, got)
		}
	}
	for x := 0; x < field.Width; x++ {
		if got := field.Wrap(P{X: x, Y: field.Height - 1}, structs.Down); got != (P{X: x, Y: 0}) {
			t.Fatalf("bottom edge x=%d: got %v", x, got)
		}
		if got := field.Wrap(P{X: x, Y: 0}, structs.Up); got != (P{X: x, Y: field.Height - 1}) {
			t.Fatalf("top edge x=%d: got %v", x, got)
		}
	}
}

func TestWrap_Interior(t *testing.T) {
	field := NewField(10, 10)
	from := P{X: 5, Y: 5}
	for _, d := range structs.Directions {
		want := from.Add(d)
		if got := field.Wrap(from, d); got != want {
			t.Errorf("Wrap(%v, %v)=%v want=%v", from, d, got, want)
		}
	}
}

func TestSetPendingDirection_RejectsReversal(t *testing.T) {
	for _, cur := range structs.Directions {
		for _, next := range structs.Directions {
			b := NewBody([]P{{X: 5, Y: 5}}, cur, GrowthDouble)
			b.SetPendingDirection(next)
			got, ok := b.Pending()
			if next == cur.Opposite() {
				if ok {
					t.Errorf("cur=%v next=%v: reversal queued as %v", cur, next, got)
				}
				continue
			}
			if !ok || got != next {
				t.Errorf("cur=%v next=%v: pending=%v,%v", cur, next, got, ok)
			}
		}
	}
}

func TestSetPendingDirection_ReversalKeepsEarlierPending(t *testing.T) {
	b := NewBody([]P{{X: 5, Y: 5}}, structs.Up, GrowthDouble)
	b.SetPendingDirection(structs.Left)
	b.SetPendingDirection(structs.Down)
	if got, ok := b.Pending(); !ok || got != structs.Left {
		t.Fatalf("pending=%v,%v want=left", got, ok)
	}
	b.SetPendingDirection(structs.Right)
	if got, _ := b.Pending(); got != structs.Right {
		t.Fatalf("last write should win, pending=%v", got)
	}
}

func TestUpdateDirection_ConsumesPending(t *testing.T) {
	b := NewBody([]P{{X: 5, Y: 5}}, structs.Up, GrowthDouble)
	b.UpdateDirection()
	if b.Direction() != structs.Up {
		t.Fatalf("direction changed without pending: %v", b.Direction())
	}
	b.SetPendingDirection(structs.Right)
	b.UpdateDirection()
	if b.Direction() != structs.Right {
		t.Fatalf("direction=%v want=right", b.Direction())
	}
	if _, ok := b.Pending(); ok {
		t.Fatal("pending not cleared")
	}
}

func TestMove_ScenarioA(t *testing.T) {
	field := NewField(10, 10)
	b := NewBody([]P{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 5, Y: 7}}, structs.Up, GrowthDouble)
	b.Move(field)
	assertBody(t, field, b.Segments(), []P{{X: 5, Y: 4}, {X: 5, Y: 5}, {X: 5, Y: 6}})
}

func TestMove_ScenarioB_WrapsLeft(t *testing.T) {
	field := NewField(10, 10)
	b := NewBody([]P{{X: 0, Y: 5}, {X: 0, Y: 6}}, structs.Left, GrowthDouble)
	b.Move(field)
	if got := b.Head(); got != (P{X: 9, Y: 5}) {
		t.Fatalf("head=%v want=(9,5)", got)
	}
	assertBody(t, field, b.Segments(), []P{{X: 9, Y: 5}, {X: 0, Y: 5}})
}

func TestMove_KeepsLength(t *testing.T) {
	field := NewField(6, 4)
	b := NewBody([]P{{X: 2, Y: 1}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 2}}, structs.Right, GrowthDouble)
	dirs := []structs.Direction{structs.Right, structs.Down, structs.Down, structs.Left, structs.Up, structs.Up, structs.Up}
	for i, d := range dirs {
		b.SetPendingDirection(d)
		b.UpdateDirection()
		b.Move(field)
		if b.Len() != 4 {
			t.Fatalf("step %d: len=%d want=4", i, b.Len())
		}
		for _, p := range b.Segments() {
			if !field.Contains(p) {
				t.Fatalf("step %d: %v outside field", i, p)
			}
		}
	}
}

func TestGrow_AddsTwoSegments(t *testing.T) {
	field := NewField(10, 10)
	for _, d := range structs.Directions {
		origin := P{X: 3, Y: 3}
		start := []P{origin, origin.Add(d.Opposite()), origin.Add(d.Opposite()).Add(d.Opposite())}
		b := NewBody(start, d, GrowthDouble)
		oldHead := b.Head()
		b.Grow(field)
		if b.Len() != len(start)+2 {
			t.Fatalf("%v: len=%d want=%d", d, b.Len(), len(start)+2)
		}
		if want := field.Wrap(oldHead, d); b.Head() != want {
			t.Fatalf("%v: head=%v want=%v", d, b.Head(), want)
		}
	}
}

func TestGrow_TailExtensions(t *testing.T) {
	field := NewField(10, 10)
	b := NewBody([]P{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 7, Y: 5}}, structs.Left, GrowthDouble)
	b.Grow(field)
	// 移动后尾巴在 (6,5)，向左延伸得到 (5,5) 两次
	assertBody(t, field, b.Segments(), []P{{X: 4, Y: 5}, {X: 5, Y: 5}, {X: 6, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 5}})
	if b.CheckSelfCollision() {
		t.Fatal("tail extensions must not count as a head collision")
	}
}

func TestGrow_SingleMode(t *testing.T) {
	field := NewField(10, 10)
	b := NewBody([]P{{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 5, Y: 7}}, structs.Up, GrowthSingle)
	b.Grow(field)
	assertBody(t, field, b.Segments(), []P{{X: 5, Y: 4}, {X: 5, Y: 5}, {X: 5, Y: 6}, {X: 5, Y: 7}})
}

func TestCheckFoodCollision_ScenarioC(t *testing.T) {
	field := NewField(10, 10)
	b := NewBody([]P{{X: 3, Y: 3}, {X: 3, Y: 4}, {X: 3, Y: 5}}, structs.Up, GrowthDouble)
	food := P{X: 3, Y: 3}
	if !b.CheckFoodCollision(food) {
		t.Fatal("head on food not detected")
	}
	if b.CheckFoodCollision(P{X: 3, Y: 4}) {
		t.Fatal("body cell reported as food collision")
	}
	before := b.Len()
	b.Grow(field)
	if b.Len() != before+2 {
		t.Fatalf("len=%d want=%d", b.Len(), before+2)
	}
	spawner := NewFoodSpawner(field, 7)
	next, err := spawner.Spawn(b.Occupied())
	if err != nil {
		t.Fatalf("spawn: %v", err)
	}
	if b.Occupied().Has(next) {
		t.Fatalf("food %v spawned on body", next)
	}
}

func TestCheckSelfCollision(t *testing.T) {
	cases := []struct {
		name string
		body []P
		want bool
	}{
		{"single", []P{{X: 1, Y: 1}}, false},
		{"distinct", []P{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}}, false},
		{"scenario D", []P{{X: 4, Y: 4}, {X: 4, Y: 4}}, true},
		{"head on tail", []P{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 1}, {X: 1, Y: 1}}, true},
		{"head in middle", []P{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}}, true},
	}
	for _, c := range cases {
		b := NewBody(c.body, structs.Up, GrowthDouble)
		if got := b.CheckSelfCollision(); got != c.want {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestReset(t *testing.T) {
	field := NewField(32, 24)
	b := NewBody(InitialBody, structs.Up, GrowthDouble)
	b.SetPendingDirection(structs.Left)
	b.UpdateDirection()
	b.Grow(field)
	b.SetPendingDirection(structs.Down)
	b.Reset()
	assertBody(t, field, b.Segments(), InitialBody)
	if b.Direction() != structs.Up {
		t.Fatalf("direction=%v want=up", b.Direction())
	}
	if _, ok := b.Pending(); ok {
		t.Fatal("pending survived reset")
	}
}

func TestSegments_ReturnsCopy(t *testing.T) {
	b := NewBody(InitialBody, structs.Up, GrowthDouble)
	segs := b.Segments()
	segs[0] = P{X: 99, Y: 99}
	if b.Head() == (P{X: 99, Y: 99}) {
		t.Fatal("Segments leaked internal slice")
	}
	if InitialBody[0] != (P{X: 16, Y: 10}) {
		t.Fatal("InitialBody mutated")
	}
}

func TestParseGrowthMode(t *testing.T) {
	for in, want := range map[string]GrowthMode{"": GrowthDouble, "double": GrowthDouble, "single": GrowthSingle} {
		got, err := ParseGrowthMode(in)
		if err != nil || got != want {
			t.Errorf("ParseGrowthMode(%q)=%v,%v", in, got, err)
		}
	}
	if _, err := ParseGrowthMode("triple"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func ExampleField_Wrap() {
	field := NewField(32, 24)
	fmt.Println(field.Wrap(P{X: 31, Y: 0}, structs.Right), field.Wrap(P{X: 31, Y: 0}, structs.Up))
	// Output: (0,0) (31,23)
}
