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

	"github.com/rs/zerolog/log"
)

// Manager orchestrates fetch-or-load of processed series: the persistent
// store acts as a memoization layer and the market-data provider is the
// fallback source of truth.
type Manager struct {
	store    Store
	provider Provider
}

// NewManager creates a Manager over the given store and provider
func NewManager(store Store, provider Provider) *Manager {
	return &Manager{
		store:    store,
		provider: provider,
	}
}

// FetchOrLoad returns the processed series for the asset over the window.
// A (nil, nil) result means the asset is absent for this window: the
// provider failed or returned no usable data. Provider errors are never
// propagated; callers exclude absent assets from downstream aggregation.
//
// A table that exists but holds zero rows is treated as stale and forces a
// re-fetch, so a transient empty provider response does not poison the key.
// Concurrent callers may race to fetch and overwrite the same key; the
// whole-table replace makes that a last-writer-wins race, which is accepted.
func (manager *Manager) FetchOrLoad(ctx context.Context, asset Asset, window Window) (*ProcessedSeries, error) {
	tableName := TableName(asset, window.Role)
	subLog := log.With().Str("Symbol", asset.Symbol).Str("Role", string(window.Role)).Str("TableName", tableName).Logger()

	exists, err := manager.store.TableExists(ctx, tableName)
	if err != nil {
		return nil, err
	}

	if exists {
		bars, err := manager.store.LoadSeries(ctx, tableName)
		if err != nil {
			return nil, err
		}

		if len(bars) > 0 {
			subLog.Debug().Int("NumBars", len(bars)).Msg("cache hit")
			return &ProcessedSeries{
				Asset: asset,
				Bars:  bars,
			}, nil
		}

		subLog.Info().Msg("cached table is empty; re-fetching")
	}

	rawBars, err := manager.provider.GetHistory(ctx, asset.Symbol, window.Begin, window.End)
	if err != nil {
		// provider failures are recovered as "no data for this asset"
		subLog.Warn().Err(err).Msg("provider failed; treating asset as absent")
		return nil, nil
	}

	if len(rawBars) == 0 {
		subLog.Warn().Msg("provider returned no data for symbol")
		return nil, nil
	}

	series := Annotate(asset, rawBars)
	if series.Len() == 0 {
		subLog.Warn().Int("NumRawBars", len(rawBars)).Msg("series empty after transform")
		return nil, nil
	}

	if err := manager.store.ReplaceSeries(ctx, tableName, series.Bars); err != nil {
		// a failed cache write does not fail the request -- the data is
		// already in hand
		subLog.Error().Err(err).Msg("could not persist processed series")
	}

	return series, nil
}

// FetchUniverse runs FetchOrLoad for every asset concurrently and collects
// the present series keyed by symbol. Absent assets are omitted.
func (manager *Manager) FetchUniverse(ctx context.Context, assets []Asset, window Window) map[string]*ProcessedSeries {
	type seriesResult struct {
		symbol string
		series *ProcessedSeries
	}

	ch := make(chan seriesResult)
	for ii := range assets {
		go func(asset Asset) {
			series, err := manager.FetchOrLoad(ctx, asset, window)
			if err != nil {
				log.Warn().Err(err).Str("Symbol", asset.Symbol).Msg("could not fetch series for asset")
				series = nil
			}
			ch <- seriesResult{
				symbol: asset.Symbol,
				series: series,
			}
		}(assets[ii])
	}

	res := make(map[string]*ProcessedSeries, len(assets))
	for range assets {
		v := <-ch
		if v.series != nil {
			res[v.symbol] = v.series
		}
	}

	return res
}
