// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

// Package database queries raw historical table files in place through an
// in-memory DuckDB instance. Nothing is persisted; each query reads the file
// as it is on disk at call time.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/agrismart/internal/logging"
	"github.com/tomtom215/agrismart/internal/metrics"
)

// DefaultQueryTimeout bounds a single query against a raw file.
const DefaultQueryTimeout = 10 * time.Second

// ErrUnsupportedFormat is returned for files DuckDB is not asked to read.
var ErrUnsupportedFormat = errors.New("unsupported raw table format")

// Column names in the raw table.
const (
	columnArea = "Area"
	columnCrop = "Crop"
	columnItem = "Item"
)

// DB wraps an in-memory DuckDB connection.
type DB struct {
	conn    *sql.DB
	timeout time.Duration
}

// Open starts an in-memory DuckDB instance. Extension autoloading is
// disabled; read_csv_auto is built in.
func Open() (*DB, error) {
	connStr := fmt.Sprintf(":memory:?threads=%d&autoinstall_known_extensions=false&autoload_known_extensions=false", max(1, runtime.NumCPU()/2))
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &DB{conn: conn, timeout: DefaultQueryTimeout}, nil
}

// Close releases the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Options holds the distinct areas and crops of a raw table file.
type Options struct {
	Areas []string
	Crops []string
}

// DistinctOptions reads path and returns its sorted distinct areas and
// crops. The crop column is "Crop", or "Item" when "Crop" is absent.
func (db *DB) DistinctOptions(ctx context.Context, path string) (Options, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return Options{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	ctx, cancel := context.WithTimeout(ctx, db.timeout)
	defer cancel()

	source := fmt.Sprintf("read_csv_auto(%s, header = true)", quoteLiteral(path))

	columns, err := db.columns(ctx, source)
	if err != nil {
		return Options{}, err
	}
	if !columns[columnArea] {
		return Options{}, fmt.Errorf("raw table %s has no %s column", path, columnArea)
	}
	cropColumn := columnCrop
	if !columns[columnCrop] {
		if !columns[columnItem] {
			return Options{}, fmt.Errorf("raw table %s has neither %s nor %s column", path, columnCrop, columnItem)
		}
		cropColumn = columnItem
	}

	areas, err := db.distinct(ctx, source, columnArea)
	if err != nil {
		return Options{}, err
	}
	crops, err := db.distinct(ctx, source, cropColumn)
	if err != nil {
		return Options{}, err
	}

	logging.Debug().Str("path", path).Int("areas", len(areas)).Int("crops", len(crops)).Msg("Read raw options")
	return Options{Areas: areas, Crops: crops}, nil
}

func (db *DB) columns(ctx context.Context, source string) (map[string]bool, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, "DESCRIBE SELECT * FROM "+source)
	metrics.RecordDBQuery("describe", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("describe raw table: %w", err)
	}
	defer closeQuietly(rows)

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for rows.Next() {
		// column_name comes first; the remaining columns are ignored
		vals := make([]any, len(cols))
		var name string
		vals[0] = &name
		for i := 1; i < len(vals); i++ {
			vals[i] = new(any)
		}
		if err := rows.Scan(vals...); err != nil {
			return nil, fmt.Errorf("scan raw table schema: %w", err)
		}
		out[name] = true
	}
	return out, rows.Err()
}

func (db *DB) distinct(ctx context.Context, source, column string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT DISTINCT trim(CAST(%[1]s AS VARCHAR)) AS v FROM %[2]s WHERE %[1]s IS NOT NULL AND trim(CAST(%[1]s AS VARCHAR)) <> '' ORDER BY v",
		quoteIdent(column), source)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("distinct", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("query distinct %s: %w", column, err)
	}
	defer closeQuietly(rows)

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct %s: %w", column, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
