package storage

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"netflix-explorer/dataset"
)

// SQLiteStorage keeps a queryable snapshot of the loaded catalog. The
// in-memory table stays the source of truth for filtering and aggregation;
// the snapshot is what the refresh job writes and the stats queries read.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	dataPath string
}

type StorageInterface interface {
	Initialize() error
	SaveTitle(title dataset.Title) error
	ReplaceAll(table dataset.Table) error
	GetAllTitles() ([]dataset.Title, error)
	GetTitlesByType(contentType string) ([]dataset.Title, error)
	SearchTitles(name string) ([]dataset.Title, error)
	Close() error
}

func NewSQLiteStorage(dataPath string) *SQLiteStorage {
	dbPath := filepath.Join(dataPath, "netflix_explorer.db")
	return &SQLiteStorage{
		dbPath:   dbPath,
		dataPath: dataPath,
	}
}

func (s *SQLiteStorage) Initialize() error {
	// Create data directory if it doesn't exist
	if err := os.MkdirAll(s.dataPath, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	// Open database connection
	db, err := sql.Open("sqlite3", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %v", err)
	}

	s.db = db

	// Initialize and run migrations using Goose
	migrationManager := NewMigrationManager(s.db)
	if err := migrationManager.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize migrations: %v", err)
	}

	if err := migrationManager.Up(); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}

	log.Printf("SQLite database initialized at: %s", s.dbPath)
	return nil
}

// SaveTitle upserts one title keyed by its show_id.
func (s *SQLiteStorage) SaveTitle(title dataset.Title) error {
	var exists bool
	err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM titles WHERE show_id = ?)`,
		title.ShowID).Scan(&exists)

	if err != nil {
		return fmt.Errorf("failed to check if title exists: %v", err)
	}

	if exists {
		query := `
		UPDATE titles
		SET type = ?, title = ?, director = ?, cast_members = ?, country = ?,
			date_added = ?, release_year = ?, rating = ?, duration = ?,
			listed_in = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE show_id = ?
		`

		_, err := s.db.Exec(query, title.Type, title.Name, title.Director, title.Cast,
			strings.Join(title.Countries, ", "), title.DateAddedRaw, title.ReleaseYear,
			title.Rating, durationString(title), strings.Join(title.Genres, ", "),
			title.Description, title.ShowID)
		if err != nil {
			return fmt.Errorf("failed to update title: %v", err)
		}
	} else {
		query := `
		INSERT INTO titles (show_id, type, title, director, cast_members, country,
			date_added, release_year, rating, duration, listed_in, description,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		`

		_, err := s.db.Exec(query, title.ShowID, title.Type, title.Name, title.Director,
			title.Cast, strings.Join(title.Countries, ", "), title.DateAddedRaw,
			title.ReleaseYear, title.Rating, durationString(title),
			strings.Join(title.Genres, ", "), title.Description)
		if err != nil {
			return fmt.Errorf("failed to insert title: %v", err)
		}
	}

	return nil
}

// ReplaceAll swaps the snapshot for a freshly loaded table in one
// transaction, so readers never see a half-written catalog.
func (s *SQLiteStorage) ReplaceAll(table dataset.Table) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM titles`); err != nil {
		return fmt.Errorf("failed to clear titles: %v", err)
	}

	stmt, err := tx.Prepare(`
	INSERT INTO titles (show_id, type, title, director, cast_members, country,
		date_added, release_year, rating, duration, listed_in, description,
		created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %v", err)
	}
	defer stmt.Close()

	for _, title := range table {
		_, err := stmt.Exec(title.ShowID, title.Type, title.Name, title.Director,
			title.Cast, strings.Join(title.Countries, ", "), title.DateAddedRaw,
			title.ReleaseYear, title.Rating, durationString(title),
			strings.Join(title.Genres, ", "), title.Description)
		if err != nil {
			return fmt.Errorf("failed to insert title %s: %v", title.ShowID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %v", err)
	}

	log.Printf("Snapshot replaced with %d titles", len(table))
	return nil
}

const selectColumns = `
SELECT show_id, type, title, director, cast_members, country, date_added,
	release_year, rating, duration, listed_in, description
FROM titles
`

func (s *SQLiteStorage) GetAllTitles() ([]dataset.Title, error) {
	rows, err := s.db.Query(selectColumns + `ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles: %v", err)
	}
	defer rows.Close()

	return scanTitles(rows)
}

func (s *SQLiteStorage) GetTitlesByType(contentType string) ([]dataset.Title, error) {
	rows, err := s.db.Query(selectColumns+`WHERE type = ? ORDER BY created_at DESC`, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to query titles by type: %v", err)
	}
	defer rows.Close()

	return scanTitles(rows)
}

func (s *SQLiteStorage) SearchTitles(name string) ([]dataset.Title, error) {
	rows, err := s.db.Query(selectColumns+`WHERE title LIKE ? ORDER BY created_at DESC`, "%"+name+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to search titles: %v", err)
	}
	defer rows.Close()

	return scanTitles(rows)
}

func scanTitles(rows *sql.Rows) ([]dataset.Title, error) {
	var titles []dataset.Title
	for rows.Next() {
		var t dataset.Title
		var country, listedIn, duration string
		err := rows.Scan(&t.ShowID, &t.Type, &t.Name, &t.Director, &t.Cast, &country,
			&t.DateAddedRaw, &t.ReleaseYear, &t.Rating, &duration, &listedIn, &t.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to scan title: %v", err)
		}

		// Rebuild the derived fields the same way the loader does.
		t.Countries = dataset.SplitList(country)
		t.Genres = dataset.SplitList(listedIn)
		t.Regions = dataset.RegionsFor(t.Countries)
		t.IsMovie = t.Type == dataset.TypeMovie
		t.IsKids = dataset.IsKidsRating(t.Rating)
		if added, err := time.Parse("January 2, 2006", t.DateAddedRaw); err == nil {
			t.DateAdded = added
			t.YearAdded = added.Year()
			t.MonthAdded = int(added.Month())
		}
		t.DurationValue, t.DurationUnit = dataset.ParseDuration(duration)

		titles = append(titles, t)
	}

	return titles, nil
}

func durationString(title dataset.Title) string {
	if title.DurationValue == 0 {
		return ""
	}
	if title.DurationUnit == "" {
		return fmt.Sprintf("%d", title.DurationValue)
	}
	return fmt.Sprintf("%d %s", title.DurationValue, title.DurationUnit)
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStorage) GetDB() (*sql.DB, error) {
	if s.db == nil {
		// Open database connection if not already open
		db, err := sql.Open("sqlite3", s.dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %v", err)
		}
		s.db = db
	}
	return s.db, nil
}

func (s *SQLiteStorage) GetStats() (map[string]int, error) {
	stats := make(map[string]int)

	// Total titles
	var total int
	err := s.db.QueryRow("SELECT COUNT(*) FROM titles").Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to get total count: %v", err)
	}
	stats["total"] = total

	// Movies count
	var movies int
	err = s.db.QueryRow("SELECT COUNT(*) FROM titles WHERE type = 'Movie'").Scan(&movies)
	if err != nil {
		return nil, fmt.Errorf("failed to get movies count: %v", err)
	}
	stats["movies"] = movies

	// TV shows count
	var shows int
	err = s.db.QueryRow("SELECT COUNT(*) FROM titles WHERE type = 'TV Show'").Scan(&shows)
	if err != nil {
		return nil, fmt.Errorf("failed to get TV shows count: %v", err)
	}
	stats["tv_shows"] = shows

	return stats, nil
}

// Migration management methods
func (s *SQLiteStorage) GetMigrationManager() *MigrationManager {
	return NewMigrationManager(s.db)
}

func (s *SQLiteStorage) GetDatabaseVersion() (int64, error) {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return 0, err
	}
	return migrationManager.Version()
}

func (s *SQLiteStorage) RunMigrations() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Up()
}

func (s *SQLiteStorage) RollbackMigration() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Down()
}

func (s *SQLiteStorage) ResetDatabase() error {
	migrationManager := s.GetMigrationManager()
	if err := migrationManager.Initialize(); err != nil {
		return err
	}
	return migrationManager.Reset()
}
