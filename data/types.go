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
	"fmt"
	"strings"
	"time"

	"github.com/naeemhassan09/stock-data-pipeline/dataframe"
)

// Category classifies an asset within the configured universe
type Category string

const (
	CategoryTradable  Category = "tradable"
	CategoryBenchmark Category = "benchmark"
)

// Asset identifies one instrument of the fixed universe
type Asset struct {
	Symbol   string   `json:"symbol"`
	Name     string   `json:"name,omitempty"`
	Category Category `json:"category"`
}

// Role tags a window as the training or the test range
type Role string

const (
	RoleTraining Role = "training"
	RoleTest     Role = "test"
)

// Window is a half-open date range [Begin, End)
type Window struct {
	Begin time.Time `json:"begin"`
	End   time.Time `json:"end"`
	Role  Role      `json:"role"`
}

// RawBar is one calendar day's OHLCV record for one asset
type RawBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Direction labels for the sign of a daily return. A return of exactly zero
// is labeled Decrease.
const (
	DirectionIncrease = "Increase"
	DirectionDecrease = "Decrease"
)

// ProcessedBar is a RawBar augmented with derived return fields
type ProcessedBar struct {
	RawBar
	DailyReturn      float64 `json:"dailyReturn"`
	CumulativeReturn float64 `json:"cumulativeReturn"`
	Direction        string  `json:"direction"`
}

// ProcessedSeries is a return-annotated bar sequence for one asset. The
// first raw bar, whose return is undefined, is never present.
type ProcessedSeries struct {
	Asset Asset          `json:"asset"`
	Bars  []ProcessedBar `json:"bars"`
}

// Len returns the number of bars in the series
func (series *ProcessedSeries) Len() int {
	return len(series.Bars)
}

// DailyReturns returns the daily-return column
func (series *ProcessedSeries) DailyReturns() []float64 {
	rets := make([]float64, len(series.Bars))
	for idx, bar := range series.Bars {
		rets[idx] = bar.DailyReturn
	}
	return rets
}

// LastCumulativeReturn returns the final cumulative-return value, or 0 for
// an empty series
func (series *ProcessedSeries) LastCumulativeReturn() float64 {
	if len(series.Bars) == 0 {
		return 0
	}
	return series.Bars[len(series.Bars)-1].CumulativeReturn
}

// ReturnFrame builds a single-column dataframe of daily returns indexed by date
func (series *ProcessedSeries) ReturnFrame() *dataframe.DataFrame {
	dates := make([]time.Time, len(series.Bars))
	rets := make([]float64, len(series.Bars))
	for idx, bar := range series.Bars {
		dates[idx] = bar.Date
		rets[idx] = bar.DailyReturn
	}

	return &dataframe.DataFrame{
		Dates:    dates,
		ColNames: []string{series.Asset.Symbol},
		Vals:     [][]float64{rets},
	}
}

// TableName derives the deterministic cache-table name for an asset and
// window role. Two assets never collide because the symbol is part of the
// name; the same asset+role+category always maps to the same table.
func TableName(asset Asset, role Role) string {
	roleTag := "train"
	if role == RoleTest {
		roleTag = "test"
	}

	kind := "stock"
	if asset.Category == CategoryBenchmark {
		kind = "benchmark"
	}

	symbol := strings.ToLower(asset.Symbol)
	symbol = strings.NewReplacer("^", "", ".", "_", "-", "_", "=", "_").Replace(symbol)

	return fmt.Sprintf("%s_%s_%s", symbol, roleTag, kind)
}
