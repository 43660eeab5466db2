// Package manifest tracks downloaded archive files in a SQL store so that
// repeated synchronization runs can be audited and exported.
package manifest

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/solartools/epdload/internal/contract"
	"github.com/solartools/epdload/schema"
)

// fetchManifestTable is the single table the manifest lives in.
const fetchManifestTable = "epd_fetch_manifest"

// StoreImpl implements the ManifestStore interface over database/sql.
type StoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.ManifestStore = &StoreImpl{} // Compile-time check

// OpenStore creates a manifest store for the specified backend. The none
// backend yields a store whose operations are all no-ops.
func OpenStore(backend schema.DatabaseBackend, connStr string) (contract.ManifestStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetManifestDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		return &StoreImpl{db: nil, backend: backend, driverName: ""}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if _, err := db.Exec(getCreateManifestQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", fetchManifestTable, err)
	}

	return &StoreImpl{db: db, backend: backend, driverName: driverName}, nil
}

// getCreateManifestQuery returns the CREATE TABLE query for epd_fetch_manifest.
func getCreateManifestQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(fetchManifestTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fetch_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				sensor VARCHAR(16) NOT NULL,
				viewing VARCHAR(16) NOT NULL,
				level VARCHAR(8) NOT NULL,
				file_date VARCHAR(8) NOT NULL,
				version INT NOT NULL,
				file_name VARCHAR(255) NOT NULL,
				local_path VARCHAR(512) NOT NULL,
				size_bytes BIGINT NOT NULL,
				fetched_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fetch_id BIGSERIAL PRIMARY KEY,
				sensor TEXT NOT NULL,
				viewing TEXT NOT NULL,
				level TEXT NOT NULL,
				file_date TEXT NOT NULL,
				version INT NOT NULL,
				file_name TEXT NOT NULL,
				local_path TEXT NOT NULL,
				size_bytes BIGINT NOT NULL,
				fetched_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				fetch_id INTEGER PRIMARY KEY AUTOINCREMENT,
				sensor TEXT NOT NULL,
				viewing TEXT NOT NULL,
				level TEXT NOT NULL,
				file_date TEXT NOT NULL,
				version INTEGER NOT NULL,
				file_name TEXT NOT NULL,
				local_path TEXT NOT NULL,
				size_bytes INTEGER NOT NULL,
				fetched_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// RecordFetch stores one completed download.
func (s *StoreImpl) RecordFetch(rec schema.ManifestRecord) error {
	// Skip for NoneBackend
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(fetchManifestTable, s.backend)

	var query string
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (sensor, viewing, level, file_date, version, file_name, local_path, size_bytes, fetched_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			INSERT INTO %s (sensor, viewing, level, file_date, version, file_name, local_path, size_bytes, fetched_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, quotedTableName)
	}

	_, err := s.db.Exec(query,
		string(rec.Sensor), string(rec.Viewing), string(rec.Level),
		rec.FileDate.Format(schema.DateFormat), rec.Version, rec.FileName,
		rec.LocalPath, rec.SizeBytes, formatTime(rec.FetchedAt, s.backend))
	if err != nil {
		return fmt.Errorf("failed to insert fetch record: %w", err)
	}
	return nil
}

// ListFetches returns the most recent downloads, newest first. A limit of
// zero returns everything.
func (s *StoreImpl) ListFetches(limit int) ([]schema.ManifestRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(
		"SELECT fetch_id, sensor, viewing, level, file_date, version, file_name, local_path, size_bytes, fetched_at FROM %s ORDER BY fetch_id DESC",
		quoteTableName(fetchManifestTable, s.backend))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fetch records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ManifestRecord
	for rows.Next() {
		var rec schema.ManifestRecord
		var sensor, viewing, level, fileDate string
		var fetchedAt any

		switch s.backend {
		case schema.SQLiteBackend:
			var fetchedAtStr string
			if err := rows.Scan(&rec.ID, &sensor, &viewing, &level, &fileDate, &rec.Version,
				&rec.FileName, &rec.LocalPath, &rec.SizeBytes, &fetchedAtStr); err != nil {
				return nil, fmt.Errorf("failed to scan fetch record: %w", err)
			}
			fetchedAt = fetchedAtStr
		default: // MySQL and PostgreSQL store as native datetime
			var fetchedAtTime time.Time
			if err := rows.Scan(&rec.ID, &sensor, &viewing, &level, &fileDate, &rec.Version,
				&rec.FileName, &rec.LocalPath, &rec.SizeBytes, &fetchedAtTime); err != nil {
				return nil, fmt.Errorf("failed to scan fetch record: %w", err)
			}
			fetchedAt = fetchedAtTime
		}

		rec.Sensor = schema.Sensor(sensor)
		rec.Viewing = schema.Viewing(viewing)
		rec.Level = schema.Level(level)
		if rec.FileDate, err = time.Parse(schema.DateFormat, fileDate); err != nil {
			return nil, fmt.Errorf("failed to parse file_date: %w", err)
		}
		if rec.FetchedAt, err = parseTime(fetchedAt); err != nil {
			return nil, fmt.Errorf("failed to parse fetched_at: %w", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fetch records: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the manifest store.
func (s *StoreImpl) GetStatus() (schema.ManifestStatus, error) {
	status := schema.ManifestStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}
	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(fetchManifestTable, s.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := s.db.QueryRow(countQuery).Scan(&status.TotalFetches); err != nil {
		return status, fmt.Errorf("failed to get total fetches: %w", err)
	}
	status.TableSizes[fetchManifestTable] = status.TotalFetches

	if status.TotalFetches > 0 {
		lastQuery := fmt.Sprintf("SELECT fetched_at FROM %s ORDER BY fetch_id DESC LIMIT 1", quotedTableName)
		last, err := s.scanTime(lastQuery)
		if err != nil {
			return status, fmt.Errorf("failed to get last fetch time: %w", err)
		}
		status.LastFetch = last

		oldestQuery := fmt.Sprintf("SELECT fetched_at FROM %s ORDER BY fetch_id ASC LIMIT 1", quotedTableName)
		oldest, err := s.scanTime(oldestQuery)
		if err != nil {
			return status, fmt.Errorf("failed to get oldest fetch time: %w", err)
		}
		status.OldestFetch = oldest
	}
	return status, nil
}

// Clear removes all manifest records.
func (s *StoreImpl) Clear() error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}
	query := fmt.Sprintf("DELETE FROM %s", quoteTableName(fetchManifestTable, s.backend))
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to clear manifest: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *StoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// scanTime runs a single-row query returning one timestamp column.
func (s *StoreImpl) scanTime(query string) (time.Time, error) {
	row := s.db.QueryRow(query)
	switch s.backend {
	case schema.SQLiteBackend:
		var str string
		if err := row.Scan(&str); err != nil {
			return time.Time{}, err
		}
		return time.Parse(time.RFC3339Nano, str)
	default:
		var t time.Time
		if err := row.Scan(&t); err != nil {
			return time.Time{}, err
		}
		return t, nil
	}
}

// quoteTableName quotes a table identifier per backend dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + name + "`"
	case schema.PostgreSQLBackend:
		return `"` + name + `"`
	default:
		return name
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}

// parseTime converts a scanned timestamp back to time.Time.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	default:
		return time.Time{}, fmt.Errorf("unexpected timestamp type %T", v)
	}
}
