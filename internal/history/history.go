// Package history keeps a SQLite log of finished analysis cycles.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/smykla-skalski/codemate/pkg/logger"
)

const (
	dbDirPermissions = 0o700
	busyTimeoutMS    = 5000
	// timeLayout has a fixed width so stored times sort lexically.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrNotFound is returned when no entry has the requested id.
var ErrNotFound = errors.New("history entry not found")

// Entry is one finished analysis cycle.
type Entry struct {
	ID              string    `json:"id"               yaml:"id"`
	SessionID       string    `json:"session_id"       yaml:"session_id"`
	Cycle           uint64    `json:"cycle"            yaml:"cycle"`
	StartedAt       time.Time `json:"started_at"       yaml:"started_at"`
	FinishedAt      time.Time `json:"finished_at"      yaml:"finished_at"`
	Outcome         string    `json:"outcome"          yaml:"outcome"`
	ErrorType       string    `json:"error_type,omitempty" yaml:"error_type,omitempty"`
	ErrorCount      int       `json:"error_count"      yaml:"error_count"`
	WarningCount    int       `json:"warning_count"    yaml:"warning_count"`
	SeverityPercent int       `json:"severity_percent" yaml:"severity_percent"`
	NeedsInput      bool      `json:"needs_input"      yaml:"needs_input"`
	HasFix          bool      `json:"has_fix"          yaml:"has_fix"`
	SourceDigest    string    `json:"source_digest"    yaml:"source_digest"`
	SourceBytes     int       `json:"source_bytes"     yaml:"source_bytes"`
}

// Duration returns how long the cycle's blocking calls took.
func (e Entry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// Digest returns the hex SHA-256 of source.
func Digest(source string) string {
	sum := sha256.Sum256([]byte(source))

	return hex.EncodeToString(sum[:])
}

// Store reads and writes history entries.
type Store struct {
	db     *sql.DB
	logger logger.Logger
}

// Option configures the Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.logger = log
		}
	}
}

// Open opens or creates the database at path. ":memory:" opens a private
// in-memory database.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	dsn := path

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), dbDirPermissions); err != nil {
			return nil, errors.Wrap(err, "creating history directory")
		}

		dsn = fmt.Sprintf(
			"file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
			path,
			busyTimeoutMS,
		)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening history database")
	}

	// SQLite has a single writer, and ":memory:" is per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, logger: logger.NewNoOpLogger()}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()

		return nil, err
	}

	s.logger.Debug("history database opened", "path", path)

	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS cycles (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL,
  cycle INTEGER NOT NULL,
  started_at TEXT NOT NULL,
  finished_at TEXT NOT NULL,
  outcome TEXT NOT NULL,
  error_type TEXT NOT NULL DEFAULT '',
  error_count INTEGER NOT NULL DEFAULT 0,
  warning_count INTEGER NOT NULL DEFAULT 0,
  severity_percent INTEGER NOT NULL DEFAULT 0,
  needs_input INTEGER NOT NULL DEFAULT 0,
  has_fix INTEGER NOT NULL DEFAULT 0,
  source_digest TEXT NOT NULL,
  source_bytes INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_cycles_finished_at ON cycles(finished_at);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(err, "creating history schema")
	}

	return nil
}

// Record inserts or replaces e.
func (s *Store) Record(ctx context.Context, e Entry) error {
	const stmt = `
INSERT INTO cycles (id, session_id, cycle, started_at, finished_at, outcome, error_type,
  error_count, warning_count, severity_percent, needs_input, has_fix, source_digest, source_bytes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  finished_at=excluded.finished_at,
  outcome=excluded.outcome,
  error_type=excluded.error_type,
  error_count=excluded.error_count,
  warning_count=excluded.warning_count,
  severity_percent=excluded.severity_percent,
  needs_input=excluded.needs_input,
  has_fix=MAX(cycles.has_fix, excluded.has_fix);
`
	_, err := s.db.ExecContext(ctx, stmt,
		e.ID,
		e.SessionID,
		int64(e.Cycle), //nolint:gosec // G115: cycle counters stay far below MaxInt64
		e.StartedAt.UTC().Format(timeLayout),
		e.FinishedAt.UTC().Format(timeLayout),
		e.Outcome,
		e.ErrorType,
		e.ErrorCount,
		e.WarningCount,
		e.SeverityPercent,
		e.NeedsInput,
		e.HasFix,
		e.SourceDigest,
		e.SourceBytes,
	)
	if err != nil {
		return errors.Wrapf(err, "recording cycle %s", e.ID)
	}

	return nil
}

// MarkFixed records that the corrected code for entry id arrived. It returns
// ErrNotFound when the entry was not recorded yet.
func (s *Store) MarkFixed(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE cycles SET has_fix = 1 WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "marking cycle %s fixed", id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}

	if n == 0 {
		return errors.Wrapf(ErrNotFound, "id %s", id)
	}

	return nil
}

// Get returns the entry with id.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "id %s", id)
	}

	if err != nil {
		return nil, err
	}

	return e, nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns every entry.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		selectColumns+` ORDER BY finished_at DESC, cycle DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying history")
	}
	defer rows.Close() //nolint:errcheck // read-only cursor

	var entries []Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating history")
	}

	return entries, nil
}

// Count returns the number of recorded cycles.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cycles`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "counting history")
	}

	return n, nil
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return errors.Wrap(s.db.PingContext(ctx), "pinging history database")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

const selectColumns = `SELECT id, session_id, cycle, started_at, finished_at, outcome, error_type,
  error_count, warning_count, severity_percent, needs_input, has_fix, source_digest, source_bytes
FROM cycles`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e                  Entry
		cycle              int64
		started, finished  string
		needsInput, hasFix bool
	)

	err := row.Scan(
		&e.ID,
		&e.SessionID,
		&cycle,
		&started,
		&finished,
		&e.Outcome,
		&e.ErrorType,
		&e.ErrorCount,
		&e.WarningCount,
		&e.SeverityPercent,
		&needsInput,
		&hasFix,
		&e.SourceDigest,
		&e.SourceBytes,
	)
	if err != nil {
		return nil, errors.Wrap(err, "scanning history row")
	}

	e.Cycle = uint64(cycle) //nolint:gosec // G115: stored from a uint64
	e.NeedsInput = needsInput
	e.HasFix = hasFix

	if e.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return nil, errors.Wrap(err, "parsing started_at")
	}

	if e.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return nil, errors.Wrap(err, "parsing finished_at")
	}

	return &e, nil
}
