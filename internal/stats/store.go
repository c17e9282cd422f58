package stats

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Record is one stored image entry.
type Record struct {
	Name           string
	Width          int
	Height         int
	DominantHue    float64
	MeanSaturation float64
	MeanLightness  float64
	Histogram      Histogram
	UpdatedAt      time.Time
}

// Store persists image histograms in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens a histogram database and initializes the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS images (
			name TEXT PRIMARY KEY,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			dominant_hue REAL NOT NULL,
			mean_saturation REAL NOT NULL,
			mean_lightness REAL NOT NULL,
			histogram TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_images_dominant_hue ON images (dominant_hue);
		CREATE INDEX IF NOT EXISTS idx_images_mean_lightness ON images (mean_lightness);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Save inserts or replaces an image's histogram entry.
func (s *Store) Save(name string, width, height int, hist Histogram) error {
	blob, err := json.Marshal(hist)
	if err != nil {
		return fmt.Errorf("failed to encode histogram: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO images (name, width, height, dominant_hue, mean_saturation, mean_lightness, histogram, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			width=excluded.width, height=excluded.height,
			dominant_hue=excluded.dominant_hue,
			mean_saturation=excluded.mean_saturation,
			mean_lightness=excluded.mean_lightness,
			histogram=excluded.histogram,
			updated_at=excluded.updated_at`,
		name, width, height, hist.DominantHue(), hist.MeanSaturation(), hist.MeanLightness(),
		string(blob), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save histogram for %s: %w", name, err)
	}
	return nil
}

// Get returns the stored record for an image name.
func (s *Store) Get(name string) (Record, error) {
	row := s.db.QueryRow(`
		SELECT name, width, height, dominant_hue, mean_saturation, mean_lightness, histogram, updated_at
		FROM images WHERE name = ?`, name)
	return scanRecord(row)
}

// ListByHue returns images whose dominant hue falls within [hueMin, hueMax]
// degrees, ordered by dominant hue. hueMin > hueMax wraps through 0.
func (s *Store) ListByHue(hueMin, hueMax float64) ([]Record, error) {
	query := `
		SELECT name, width, height, dominant_hue, mean_saturation, mean_lightness, histogram, updated_at
		FROM images WHERE dominant_hue >= ? AND dominant_hue <= ? ORDER BY dominant_hue`
	args := []any{hueMin, hueMax}
	if hueMin > hueMax {
		query = `
		SELECT name, width, height, dominant_hue, mean_saturation, mean_lightness, histogram, updated_at
		FROM images WHERE dominant_hue >= ? OR (dominant_hue <= ? AND dominant_hue >= 0) ORDER BY dominant_hue`
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query by hue: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListByLightness returns images ordered by mean lightness, darkest first.
func (s *Store) ListByLightness() ([]Record, error) {
	rows, err := s.db.Query(`
		SELECT name, width, height, dominant_hue, mean_saturation, mean_lightness, histogram, updated_at
		FROM images ORDER BY mean_lightness`)
	if err != nil {
		return nil, fmt.Errorf("failed to query by lightness: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var blob string
	var updated int64
	err := row.Scan(&rec.Name, &rec.Width, &rec.Height, &rec.DominantHue,
		&rec.MeanSaturation, &rec.MeanLightness, &blob, &updated)
	if err == sql.ErrNoRows {
		return rec, fmt.Errorf("image not found")
	}
	if err != nil {
		return rec, fmt.Errorf("failed to scan record: %w", err)
	}
	if err := json.Unmarshal([]byte(blob), &rec.Histogram); err != nil {
		return rec, fmt.Errorf("failed to decode histogram: %w", err)
	}
	rec.UpdatedAt = time.Unix(updated, 0)
	return rec, nil
}
