package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lazharichir/nutsrv/domain/events"
	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore persists hand results in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the database at dsn and creates the schema if needed.
// Use ":memory:" for a throwaway database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// sqlite serialises writers, and every ":memory:" connection is its own database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if err := initTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func initTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS hand_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id INTEGER NOT NULL,
			table_id INTEGER NOT NULL,
			hand_id TEXT NOT NULL,
			showdown BOOLEAN NOT NULL,
			payouts TEXT NOT NULL,
			ended_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("error creating hand_results table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_hand_results_game ON hand_results (game_id)`)
	if err != nil {
		return fmt.Errorf("error creating hand_results index: %w", err)
	}

	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append records the event if it ends a hand
func (s *SQLiteStore) Append(event events.Event) error {
	r, ok := resultOf(event)
	if !ok {
		return nil
	}

	payouts, err := json.Marshal(r.Payouts)
	if err != nil {
		return fmt.Errorf("error encoding payouts: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO hand_results (game_id, table_id, hand_id, showdown, payouts, ended_at) VALUES (?, ?, ?, ?, ?, ?)",
		r.GameID, r.TableID, r.HandID, r.Showdown, string(payouts), r.At.UTC(),
	)
	if err != nil {
		return fmt.Errorf("error saving hand result: %w", err)
	}
	return nil
}

// Results returns the game's hands, oldest first
func (s *SQLiteStore) Results(gameID int) ([]Result, error) {
	rows, err := s.db.Query(
		"SELECT game_id, table_id, hand_id, showdown, payouts, ended_at FROM hand_results WHERE game_id = ? ORDER BY id",
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying hand results: %w", err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var r Result
		var payouts string
		var endedAt time.Time
		if err := rows.Scan(&r.GameID, &r.TableID, &r.HandID, &r.Showdown, &payouts, &endedAt); err != nil {
			return nil, fmt.Errorf("error scanning hand result: %w", err)
		}
		if err := json.Unmarshal([]byte(payouts), &r.Payouts); err != nil {
			return nil, fmt.Errorf("error decoding payouts of hand %s: %w", r.HandID, err)
		}
		r.At = endedAt
		results = append(results, r)
	}

	return results, rows.Err()
}
