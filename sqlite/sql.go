package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hoshinonyaruko/torus-snake/structs"
	_ "github.com/mattn/go-sqlite3"
)

const createGamesTableSQL = `
CREATE TABLE IF NOT EXISTS Games (
    ID INTEGER PRIMARY KEY AUTOINCREMENT,
    Round INTEGER,
    Score INTEGER,
    Length INTEGER,
    Ticks INTEGER,
    EndedAt INTEGER
);
`

const createScoreIndexSQL = `
CREATE INDEX IF NOT EXISTS idx_games_score ON Games (Score);
`

func executeSQL(db *sql.DB, sqlStatement string) error {
	if _, err := db.Exec(sqlStatement); err != nil {
		return fmt.Errorf("executing SQL statement %q: %w", sqlStatement, err)
	}
	return nil
}

func InitializeDatabase(db *sql.DB) error {
	for _, stmt := range []string{createGamesTableSQL, createScoreIndexSQL} {
		if err := executeSQL(db, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Store keeps the history of finished games.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite 只允许一个写者
	db.SetMaxOpenConns(1)
	if err := InitializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record saves one finished game. EndedAt is filled in when zero.
func (s *Store) Record(rec structs.GameRecord) (int64, error) {
	if rec.EndedAt == 0 {
		rec.EndedAt = s.now().Unix()
	}
	result, err := s.db.Exec("INSERT INTO Games (Round, Score, Length, Ticks, EndedAt) VALUES (?, ?, ?, ?, ?)",
		rec.Round, rec.Score, rec.Length, rec.Ticks, rec.EndedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// HighScore returns the best score so far, 0 on an empty table.
func (s *Store) HighScore() (int, error) {
	var best sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(Score) FROM Games").Scan(&best); err != nil {
		return 0, err
	}
	return int(best.Int64), nil
}

// Recent returns up to limit games, newest first.
func (s *Store) Recent(limit int) ([]structs.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query("SELECT ID, Round, Score, Length, Ticks, EndedAt FROM Games ORDER BY ID DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	games := make([]structs.GameRecord, 0, limit)
	for rows.Next() {
		var g structs.GameRecord
		if err := rows.Scan(&g.ID, &g.Round, &g.Score, &g.Length, &g.Ticks, &g.EndedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
