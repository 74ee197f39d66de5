package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/hoshinonyaruko/torus-snake/session"
	"github.com/hoshinonyaruko/torus-snake/structs"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "game.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHighScore_Empty(t *testing.T) {
	s := openTestStore(t)
	best, err := s.HighScore()
	if err != nil || best != 0 {
		t.Fatalf("best=%d err=%v", best, err)
	}
	games, err := s.Recent(5)
	if err != nil || len(games) != 0 {
		t.Fatalf("games=%v err=%v", games, err)
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	for i, score := range []int{3, 9, 5} {
		if _, err := s.Record(structs.GameRecord{Round: i + 1, Score: score, Length: 3 + 2*score, Ticks: 100 * (i + 1)}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	best, err := s.HighScore()
	if err != nil || best != 9 {
		t.Fatalf("best=%d err=%v", best, err)
	}

	games, err := s.Recent(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(games) != 2 {
		t.Fatalf("len=%d want=2", len(games))
	}
	if games[0].Round != 3 || games[0].Score != 5 || games[1].Round != 2 {
		t.Fatalf("order %+v", games)
	}
	if games[0].EndedAt != 1700000000 || games[0].Length != 13 || games[0].Ticks != 300 {
		t.Fatalf("fields %+v", games[0])
	}
}

func TestHandleEvents_RecordsOnDeath(t *testing.T) {
	s := openTestStore(t)
	snap := structs.Snapshot{Round: 4, Score: 2, Tick: 50, Segments: make([]structs.Position, 7)}

	s.HandleEvents(snap, session.Events{Ate: true})
	if games, _ := s.Recent(10); len(games) != 0 {
		t.Fatalf("recorded without death: %v", games)
	}
	s.HandleEvents(snap, session.Events{Died: true})
	games, err := s.Recent(10)
	if err != nil || len(games) != 1 {
		t.Fatalf("games=%v err=%v", games, err)
	}
	if g := games[0]; g.Round != 4 || g.Score != 2 || g.Length != 7 || g.Ticks != 50 {
		t.Fatalf("record %+v", g)
	}
}
