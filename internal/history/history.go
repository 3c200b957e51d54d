// Package history provides SQLite persistence for recent searches.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/nhoward/scout/internal/linkstate"
	"github.com/nhoward/scout/internal/query"
)

// Entry is one recorded search.
type Entry struct {
	ID          string
	Query       query.Query
	ResultCount int
	TotalCount  int
	ExecutedAt  time.Time
}

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates a Store at the given database path, creating tables if they
// don't exist. Uses WAL mode for file-based databases.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		// Shared cache so pooled connections see the same database.
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS searches (
		id TEXT PRIMARY KEY,
		params TEXT NOT NULL,
		link TEXT NOT NULL,
		result_count INTEGER NOT NULL,
		total_count INTEGER NOT NULL,
		executed_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_searches_executed ON searches(executed_at DESC);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// queryRow is the serialized form stored in the params column. Kept flat so
// old rows survive field additions.
type queryRow struct {
	Text           string   `json:"text"`
	TopK           int      `json:"topK"`
	MinScore       float64  `json:"minScore"`
	Location       string   `json:"location,omitempty"`
	Availability   string   `json:"availability,omitempty"`
	Technologies   []string `json:"technologies,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	MinYears       int      `json:"minYears,omitempty"`
}

// Record inserts a successful search. The share-link form is stored
// alongside the structured params so history rows can be replayed directly.
func (s *Store) Record(q query.Query, resultCount, totalCount int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := queryRow{
		Text:           q.Text,
		TopK:           q.TopK,
		MinScore:       q.MinScore,
		Location:       q.Facets.Location,
		Availability:   q.Facets.Availability,
		Technologies:   q.Facets.Technologies,
		Skills:         q.Facets.Skills,
		Certifications: q.Facets.Certifications,
		MinYears:       q.Facets.MinYears,
	}
	params, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO searches (id, params, link, result_count, total_count, executed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		string(params),
		linkstate.EncodeString(q),
		resultCount,
		totalCount,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert search: %w", err)
	}
	return nil
}

// Recent returns up to limit searches, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
		SELECT id, params, result_count, total_count, executed_at
		FROM searches
		ORDER BY executed_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query searches: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e      Entry
			params string
		)
		if err := rows.Scan(&e.ID, &params, &e.ResultCount, &e.TotalCount, &e.ExecutedAt); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		var row queryRow
		if err := json.Unmarshal([]byte(params), &row); err != nil {
			// Unreadable row, skip it rather than failing the whole listing.
			continue
		}
		e.Query = query.Query{
			Text:     row.Text,
			TopK:     row.TopK,
			MinScore: row.MinScore,
			Facets: query.FacetFilters{
				Location:       row.Location,
				Availability:   row.Availability,
				Technologies:   row.Technologies,
				Skills:         row.Skills,
				Certifications: row.Certifications,
				MinYears:       row.MinYears,
			},
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes everything but the newest keep rows.
func (s *Store) Prune(keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		DELETE FROM searches
		WHERE id NOT IN (
			SELECT id FROM searches ORDER BY executed_at DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune searches: %w", err)
	}
	return nil
}
