// Package store persists OHLCV bars to a per-period SQLite table and
// ingests them back out again. It opens one WAL-mode connection, guards
// its schema with a plain CREATE TABLE IF NOT EXISTS rather than a
// version-tracked migration (only one table shape exists here), and
// bulk-inserts rows inside a single transaction (conflicting rows are
// skipped, or the symbol's rows are deleted first when replacing).
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/chidi150c/bartest/internal/bars"
	"github.com/chidi150c/bartest/internal/period"
)

// BarStore is the persistence surface the engine and CLI use to load and
// cache OHLCV bars, independent of backing implementation.
type BarStore interface {
	EnsureTable(periodStr string) error
	Query(symbol, periodStr string, start, end string, count int) ([]bars.Bar, error)
	BulkInsert(symbol, periodStr string, data []bars.Bar, replace bool) (int, error)
	IngestCSV(symbol, periodStr, csvPath string, replace bool) (int, error)
	Close() error
}

// SQLiteStore is the BarStore implementation backed by modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path in WAL mode.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", bars.ErrStoreFailure, path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", bars.ErrStoreFailure, path, err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureTable creates the klines_<period> table (and its symbol+datetime
// unique index) for periodStr if it does not already exist.
func (s *SQLiteStore) EnsureTable(periodStr string) error {
	table, err := period.TableName(periodStr)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			symbol   TEXT NOT NULL,
			datetime TEXT NOT NULL,
			open     REAL NOT NULL,
			high     REAL NOT NULL,
			low      REAL NOT NULL,
			close    REAL NOT NULL,
			volume   REAL NOT NULL,
			PRIMARY KEY (symbol, datetime)
		);
	`, table))
	if err != nil {
		return fmt.Errorf("%w: ensure table %s: %v", bars.ErrStoreFailure, table, err)
	}
	return nil
}

// Query returns bars for symbol in periodStr's table, ascending by
// datetime. When count > 0, start is ignored and the most recent count
// rows are returned (optionally bounded above by end); when count <= 0,
// all rows within [start, end] are returned.
func (s *SQLiteStore) Query(symbol, periodStr string, start, end string, count int) ([]bars.Bar, error) {
	table, err := period.TableName(periodStr)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	if count > 0 {
		rows, err = s.queryTail(table, symbol, end, count)
	} else {
		rows, err = s.queryRange(table, symbol, start, end)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []bars.Bar
	for rows.Next() {
		var dt string
		var b bars.Bar
		if err := rows.Scan(&dt, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", bars.ErrStoreFailure, table, err)
		}
		parsed, err := bars.ParseDateTime(dt)
		if err != nil {
			return nil, err
		}
		b.DateTime = parsed
		b.Symbol = symbol
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate %s: %v", bars.ErrStoreFailure, table, err)
	}

	if count > 0 {
		reverse(out)
	}
	return out, nil
}

func (s *SQLiteStore) queryRange(table, symbol, start, end string) (*sql.Rows, error) {
	rows, err := s.db.Query(fmt.Sprintf(
		`SELECT datetime, open, high, low, close, volume FROM %s
		 WHERE symbol = ? AND datetime >= ? AND datetime <= ?
		 ORDER BY datetime ASC`, table),
		symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", bars.ErrStoreFailure, table, err)
	}
	return rows, nil
}

// queryTail selects the most-recent count rows (optionally bounded above
// by end) in descending order; the caller reverses the result to ascending.
func (s *SQLiteStore) queryTail(table, symbol, end string, count int) (*sql.Rows, error) {
	query := fmt.Sprintf(
		`SELECT datetime, open, high, low, close, volume FROM %s
		 WHERE symbol = ?%s
		 ORDER BY datetime DESC LIMIT ?`, table, tailEndClause(end))
	args := []interface{}{symbol}
	if end != "" {
		args = append(args, end)
	}
	args = append(args, count)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query tail %s: %v", bars.ErrStoreFailure, table, err)
	}
	return rows, nil
}

func tailEndClause(end string) string {
	if end == "" {
		return ""
	}
	return " AND datetime <= ?"
}

func reverse(b []bars.Bar) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// BulkInsert writes data into periodStr's table for symbol in one
// transaction. If replace, symbol's existing rows are deleted first and
// the new rows are inserted plain; otherwise rows are inserted ignoring
// any conflict on (symbol, datetime), preserving whatever was already
// stored. Returns the number of rows written.
func (s *SQLiteStore) BulkInsert(symbol, periodStr string, data []bars.Bar, replace bool) (int, error) {
	table, err := period.TableName(periodStr)
	if err != nil {
		return 0, err
	}
	if err := s.EnsureTable(periodStr); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: begin tx: %v", bars.ErrStoreFailure, err)
	}
	defer tx.Rollback()

	if replace {
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE symbol = ?`, table), symbol); err != nil {
			return 0, fmt.Errorf("%w: delete from %s: %v", bars.ErrStoreFailure, table, err)
		}
	}

	insertVerb := "INSERT OR IGNORE"
	if replace {
		insertVerb = "INSERT"
	}
	stmt, err := tx.Prepare(fmt.Sprintf(
		`%s INTO %s (symbol, datetime, open, high, low, close, volume)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`, insertVerb, table))
	if err != nil {
		return 0, fmt.Errorf("%w: prepare insert into %s: %v", bars.ErrStoreFailure, table, err)
	}
	defer stmt.Close()

	n := 0
	for _, b := range data {
		sym := b.Symbol
		if sym == "" {
			sym = symbol
		}
		if _, err := stmt.Exec(sym, bars.CanonicalDateTime(b.DateTime), b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return n, fmt.Errorf("%w: insert into %s: %v", bars.ErrStoreFailure, table, err)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return n, fmt.Errorf("%w: commit %s: %v", bars.ErrStoreFailure, table, err)
	}
	return n, nil
}
