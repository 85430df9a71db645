package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteFile = "runs.db"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	scenario   TEXT NOT NULL,
	created_at TEXT NOT NULL,
	metadata   TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS frames (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	%s,
	PRIMARY KEY (run_id, idx)
);`

// SQLiteStore keeps runs in <dir>/runs.db: metadata as JSON in the runs
// table and one row per frame in the frames table.
type SQLiteStore struct {
	dir string
	db  *sql.DB
}

func NewSQLiteStore(dir string) *SQLiteStore {
	return &SQLiteStore{dir: dir}
}

// frameColumns maps Columns to SQL column names; "index" is reserved.
func frameColumns() []string {
	cols := make([]string, len(Columns))
	for i, c := range Columns {
		if c == "index" {
			c = "idx"
		}
		cols[i] = c
	}
	return cols
}

func (s *SQLiteStore) Init() error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	db, err := sql.Open("sqlite3", filepath.Join(s.dir, sqliteFile))
	if err != nil {
		return err
	}

	defs := make([]string, 0, len(Columns))
	for _, c := range frameColumns() {
		defs = append(defs, c+" REAL NOT NULL")
	}
	if _, err := db.Exec(fmt.Sprintf(sqliteSchema, strings.Join(defs, ",\n\t"))); err != nil {
		db.Close()
		return fmt.Errorf("create schema: %w", err)
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) Save(meta *RunMetadata, records []FrameRecord) (string, error) {
	fillMetadata(meta, records)
	data, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO runs (id, scenario, created_at, metadata) VALUES (?, ?, ?, ?)`,
		meta.ID, meta.Scenario, meta.Timestamp.Format(time.RFC3339Nano), string(data)); err != nil {
		return "", err
	}

	cols := frameColumns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)+1), ", ")
	stmt, err := tx.Prepare(fmt.Sprintf(`INSERT INTO frames (run_id, %s) VALUES (%s)`,
		strings.Join(cols, ", "), placeholders))
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	args := make([]any, len(cols)+1)
	args[0] = meta.ID
	for _, r := range records {
		for i, v := range r.Values() {
			args[i+1] = v
		}
		if _, err := stmt.Exec(args...); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	tracer().Infof("saved run %s with %d frames", meta.ID, len(records))
	return meta.ID, nil
}

func (s *SQLiteStore) List() ([]RunMetadata, error) {
	rows, err := s.db.Query(`SELECT metadata FROM runs ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]RunMetadata, 0)
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var meta RunMetadata
		if err := json.Unmarshal([]byte(data), &meta); err != nil {
			return nil, err
		}
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

func (s *SQLiteStore) Load(runID string) (*RunMetadata, error) {
	var data string
	err := s.db.QueryRow(`SELECT metadata FROM runs WHERE id = ?`, runID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *SQLiteStore) LoadFrames(runID string) ([]FrameRecord, error) {
	if _, err := s.Load(runID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(fmt.Sprintf(`SELECT %s FROM frames WHERE run_id = ? ORDER BY idx`,
		strings.Join(frameColumns(), ", ")), runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := make([]float64, len(Columns))
	dest := make([]any, len(Columns))
	for i := range values {
		dest[i] = &values[i]
	}

	records := make([]FrameRecord, 0)
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		rec, err := RecordFromValues(values)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
