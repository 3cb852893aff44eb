package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// dbFileName is the SQLite database file created under the data directory.
const dbFileName = "satchel.db"

// timeLayout is the storage format for timestamps: RFC3339 UTC with a
// fixed nine-digit fraction. Fixed width keeps SQL string comparison
// consistent with time ordering, which the pending-sync predicate relies on.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store implements satchel's entity storage over a single SQLite file.
// A Store is opened once per process and shared by every component; the
// engine's file locking arbitrates concurrent CLI invocations.
type Store struct {
	mu     sync.RWMutex
	open   bool
	config types.Config
	db     *sql.DB
}

// NewStore creates an unopened store. Call Open with a Config before use.
func NewStore() *Store {
	return &Store{}
}

// Open initializes the store with the given configuration. Creates the
// data directory if it does not exist and applies the schema. Returns
// ErrAlreadyOpen if called while open.
func (s *Store) Open(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return types.ErrAlreadyOpen
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return err
	}

	for _, ddl := range allTables {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	for _, ddl := range createIndexes {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("applying indexes: %w", err)
		}
	}

	s.db = db
	s.config = config
	s.open = true
	return nil
}

// Close releases the SQLite connection. Idempotent. After Close, all
// operations return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return err
		}
		s.db = nil
	}

	s.open = false
	return nil
}

// checkOpen returns ErrStoreClosed unless the store is open.
func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.open {
		return types.ErrStoreClosed
	}
	return nil
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// now returns the current time in UTC, the only clock the store uses.
func now() time.Time {
	return time.Now().UTC()
}

// fmtTime renders a timestamp in the storage layout.
func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// fmtTimePtr renders an optional timestamp; nil maps to SQL NULL.
func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

// parseTime parses a stored timestamp.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// parseTimePtr parses an optional stored timestamp.
func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := parseTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// encodeStrings renders a string slice as JSON text for storage. A nil
// slice encodes as the empty set.
func encodeStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding string set: %w", err)
	}
	return string(b), nil
}

// decodeStrings parses a JSON-encoded string slice from storage.
func decodeStrings(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var v []string
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("decoding string set: %w", err)
	}
	if len(v) == 0 {
		return nil, nil
	}
	return v, nil
}

// encodeMeta renders a meta map as JSON text for storage.
func encodeMeta(v map[string]string) (string, error) {
	if v == nil {
		v = map[string]string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding meta: %w", err)
	}
	return string(b), nil
}

// decodeMeta parses a JSON-encoded meta map from storage.
func decodeMeta(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	var v map[string]string
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, fmt.Errorf("decoding meta: %w", err)
	}
	if len(v) == 0 {
		return nil, nil
	}
	return v, nil
}
