package sqlite

import (
	"github.com/rs/zerolog/log"

	"github.com/hoshinonyaruko/torus-snake/session"
	"github.com/hoshinonyaruko/torus-snake/structs"
)

// HandleEvents records a game when the snake dies.
func (s *Store) HandleEvents(snap structs.Snapshot, ev session.Events) {
	if !ev.Died {
		return
	}
	id, err := s.Record(structs.GameRecord{
		Round:  snap.Round,
		Score:  snap.Score,
		Length: len(snap.Segments),
		Ticks:  snap.Tick,
	})
	if err != nil {
		log.Err(err).Int("round", snap.Round).Msg("record game")
		return
	}
	log.Debug().Int64("id", id).Int("score", snap.Score).Msg("game recorded")
}
