// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/naeemhassan09/stock-data-pipeline/data/database"
	"github.com/naeemhassan09/stock-data-pipeline/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// Store is the persistent keyed series store. The pipeline only ever does
// whole-table replaces; there are no partial updates.
type Store interface {
	TableExists(ctx context.Context, name string) (bool, error)
	LoadSeries(ctx context.Context, name string) ([]ProcessedBar, error)
	ReplaceSeries(ctx context.Context, name string, bars []ProcessedBar) error
}

// PgStore persists processed series as one PostgreSQL table per cache key
type PgStore struct {
}

// NewPgStore creates a PostgreSQL-backed series store
func NewPgStore() *PgStore {
	return &PgStore{}
}

// TableExists reports whether a table with the given name exists
func (store *PgStore) TableExists(ctx context.Context, name string) (bool, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "pgstore.TableExists")
	defer span.End()

	subLog := log.With().Str("TableName", name).Logger()

	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when checking table existence")
		return false, err
	}

	var exists bool
	err = trx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema='public' AND table_name=$1)", name).Scan(&exists)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "database query failed")
		subLog.Error().Stack().Err(err).Msg("could not query table existence")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return false, err
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	return exists, nil
}

// LoadSeries reads every row of the named series table in date order
func (store *PgStore) LoadSeries(ctx context.Context, name string) ([]ProcessedBar, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "pgstore.LoadSeries")
	defer span.End()

	subLog := log.With().Str("TableName", name).Logger()

	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when loading series")
		return nil, err
	}

	ident := pgx.Identifier{name}
	sql := fmt.Sprintf("SELECT event_date, open, high, low, close, volume, daily_return, cumulative_return, direction FROM %s ORDER BY event_date", ident.Sanitize())

	rows, err := trx.Query(ctx, sql)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "database query failed")
		subLog.Error().Stack().Err(err).Str("SQL", sql).Msg("could not query series")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return nil, err
	}

	bars := make([]ProcessedBar, 0, 252)
	for rows.Next() {
		var bar ProcessedBar
		if err := rows.Scan(&bar.Date, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume, &bar.DailyReturn, &bar.CumulativeReturn, &bar.Direction); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not scan series row")
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return nil, err
		}
		bars = append(bars, bar)
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Warn().Stack().Err(err).Msg("could not commit transaction")
	}

	return bars, nil
}

// ReplaceSeries replaces the named table wholesale with the provided bars.
// The create, delete and inserts run in a single transaction so readers
// never observe a partially written table.
func (store *PgStore) ReplaceSeries(ctx context.Context, name string, bars []ProcessedBar) error {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "pgstore.ReplaceSeries")
	defer span.End()

	subLog := log.With().Str("TableName", name).Int("NumBars", len(bars)).Logger()

	trx, err := database.Trx(ctx)
	if err != nil {
		subLog.Error().Stack().Err(err).Msg("could not get transaction when writing series")
		return err
	}

	ident := pgx.Identifier{name}
	createSQL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		event_date timestamptz PRIMARY KEY,
		open double precision,
		high double precision,
		low double precision,
		close double precision,
		volume bigint,
		daily_return double precision,
		cumulative_return double precision,
		direction text
	)`, ident.Sanitize())

	if _, err := trx.Exec(ctx, createSQL); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create table failed")
		subLog.Error().Stack().Err(err).Msg("could not create series table")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	if _, err := trx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", ident.Sanitize())); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		subLog.Error().Stack().Err(err).Msg("could not clear series table")
		if err := trx.Rollback(ctx); err != nil {
			subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
		}
		return err
	}

	insertSQL := fmt.Sprintf("INSERT INTO %s (event_date, open, high, low, close, volume, daily_return, cumulative_return, direction) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)", ident.Sanitize())
	for _, bar := range bars {
		if _, err := trx.Exec(ctx, insertSQL, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume, bar.DailyReturn, bar.CumulativeReturn, bar.Direction); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "insert failed")
			subLog.Error().Stack().Err(err).Time("EventDate", bar.Date).Msg("could not insert series row")
			if err := trx.Rollback(ctx); err != nil {
				subLog.Error().Stack().Err(err).Msg("could not rollback transaction")
			}
			return err
		}
	}

	if err := trx.Commit(ctx); err != nil {
		subLog.Error().Stack().Err(err).Msg("could not commit series write")
		return err
	}

	return nil
}
