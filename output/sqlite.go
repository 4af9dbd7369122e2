// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package output

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	"github.com/patrickbr/gtfsdirections/directions"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// tables in deletion order, children first
var tables = []string{"trip", "direction_stop", "direction", "stop", "route", "agency"}

// DB is an app-ready SQLite database
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at path
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single writer, no need for more
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// EnsureSchema creates the tables if they don't exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Write replaces the content of the database with ds, in a single
// transaction
func (db *DB) Write(ctx context.Context, ds *Dataset) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("failed to clear %s: %w", t, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO agency (agency_id, agency_name, color) VALUES (?, ?, ?)",
		ds.Agency.ID, ds.Agency.Name, ds.Agency.Color,
	); err != nil {
		return fmt.Errorf("failed to insert agency: %w", err)
	}

	if err := insertAll(ctx, tx, "route",
		"INSERT INTO route (route_id, short_name, long_name, color) VALUES (?, ?, ?, ?)",
		ds.Routes, func(r Route) []any { return []any{r.ID, r.ShortName, r.LongName, r.Color} },
	); err != nil {
		return err
	}

	if err := insertAll(ctx, tx, "stop",
		"INSERT INTO stop (stop_id, code, name, lat, lon) VALUES (?, ?, ?, ?, ?)",
		ds.Stops, func(s Stop) []any { return []any{s.ID, s.Code, s.Name, s.Lat, s.Lon} },
	); err != nil {
		return err
	}

	if err := insertAll(ctx, tx, "direction",
		"INSERT INTO direction (route_id, direction_index, direction, headsign) VALUES (?, ?, ?, ?)",
		ds.Patterns, func(p directions.Pattern) []any { return []any{p.RouteID, p.Index, string(p.Direction), p.Label} },
	); err != nil {
		return err
	}

	var dirStops [][]any
	for _, p := range ds.Patterns {
		for i, code := range p.Stops {
			sid, err := directions.ParseStopID(code)
			if err != nil {
				return err
			}
			dirStops = append(dirStops, []any{p.RouteID, p.Index, i + 1, sid})
		}
	}
	if err := insertAll(ctx, tx, "direction_stop",
		"INSERT INTO direction_stop (route_id, direction_index, stop_sequence, stop_id) VALUES (?, ?, ?, ?)",
		dirStops, func(row []any) []any { return row },
	); err != nil {
		return err
	}

	if err := insertAll(ctx, tx, "trip",
		"INSERT INTO trip (trip_id, route_id, direction_index, service_id, headsign) VALUES (?, ?, ?, ?, ?)",
		ds.Trips, func(t Trip) []any { return []any{t.ID, t.RouteID, t.Index, t.ServiceID, t.Headsign} },
	); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

func insertAll[T any](ctx context.Context, tx *sql.Tx, table string, query string, rows []T, args func(T) []any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare %s insert: %w", table, err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, args(r)...); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}

	return nil
}

// WriteSQLite writes ds to a fresh or existing database file at path
func WriteSQLite(ctx context.Context, path string, ds *Dataset) error {
	db, err := Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	return db.Write(ctx, ds)
}
