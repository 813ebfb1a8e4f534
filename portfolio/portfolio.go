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

package portfolio

import (
	"math"
	"sort"

	"github.com/naeemhassan09/stock-data-pipeline/common"
	"github.com/naeemhassan09/stock-data-pipeline/data"
	"github.com/naeemhassan09/stock-data-pipeline/dataframe"
	"gonum.org/v1/gonum/stat"
)

// Composition maps included asset symbols to allocation percentages. The
// values sum to 100 across included assets; excluded assets have no entry
// at all. An empty composition means no asset qualified.
type Composition map[string]float64

// RiskMetrics are the combined-series statistics computed for the
// equal-weight policy. RiskAdjustedReturn is nil when volatility is exactly
// zero.
type RiskMetrics struct {
	AverageDailyReturn float64  `json:"averageDailyReturn"`
	Volatility         float64  `json:"volatility"`
	RiskAdjustedReturn *float64 `json:"riskAdjustedReturn,omitempty"`
}

// Projection is the portfolio-level outcome for a composition
type Projection struct {
	CumulativeReturn float64      `json:"cumulativeReturn"`
	PredictedValue   float64      `json:"predictedValue"`
	Risk             *RiskMetrics `json:"risk,omitempty"`
}

// Result pairs a composition with its projection. Projection is nil when
// the composition is empty.
type Result struct {
	Composition Composition `json:"composition"`
	Projection  *Projection `json:"projection,omitempty"`
}

// eligibleSymbols returns the sorted symbols whose test-window cumulative
// return is strictly positive, the sole inclusion gate for both policies
func eligibleSymbols(testSeries map[string]*data.ProcessedSeries) []string {
	symbols := make([]string, 0, len(testSeries))
	for symbol, series := range testSeries {
		if series == nil || series.Len() == 0 {
			continue
		}
		if series.LastCumulativeReturn() > 0 {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)
	return symbols
}

// EqualWeight builds the equal-weighted portfolio over all assets with a
// strictly positive test-window cumulative return. The portfolio daily
// return is the row-wise mean of the eligible series over their shared
// dates; the cumulative return compounds that combined series, not the
// already-compounded per-asset returns.
func EqualWeight(testSeries map[string]*data.ProcessedSeries, investment float64) *Result {
	symbols := eligibleSymbols(testSeries)
	if len(symbols) == 0 {
		return &Result{Composition: Composition{}}
	}

	composition := make(Composition, len(symbols))
	weight := common.RoundPct(100 / float64(len(symbols)))
	dfMap := make(dataframe.Map, len(symbols))
	for _, symbol := range symbols {
		composition[symbol] = weight
		dfMap[symbol] = testSeries[symbol].ReturnFrame()
	}

	combined := dfMap.Join().Drop(math.NaN()).RowMean()

	projection := &Projection{}
	if combined.Len() > 0 {
		portfolioRets := combined.Vals[0]

		compound := 1.0
		for _, ret := range portfolioRets {
			compound *= 1 + ret
		}
		projection.CumulativeReturn = compound - 1

		vol := stat.StdDev(portfolioRets, nil)
		if math.IsNaN(vol) {
			// a single combined return has no dispersion; report zero so
			// the value survives serialization
			vol = 0
		}
		risk := &RiskMetrics{
			AverageDailyReturn: stat.Mean(portfolioRets, nil),
			Volatility:         vol,
		}
		if risk.Volatility != 0 {
			ratio := risk.AverageDailyReturn / risk.Volatility
			risk.RiskAdjustedReturn = &ratio
		}
		projection.Risk = risk
	}

	projection.PredictedValue = investment * (1 + projection.CumulativeReturn)

	return &Result{
		Composition: composition,
		Projection:  projection,
	}
}

// ReturnProportional builds the return-weighted portfolio: test-window
// eligible assets whose training-window mean daily return is positive are
// weighted in proportion to that training mean. Unlike the equal-weight
// policy the portfolio cumulative return is the weighted sum of the
// already-compounded per-asset returns; the two policies are intentionally
// not unified.
func ReturnProportional(trainSeries, testSeries map[string]*data.ProcessedSeries, investment float64) *Result {
	symbols := eligibleSymbols(testSeries)

	rawWeights := make(map[string]float64, len(symbols))
	total := 0.0
	for _, symbol := range symbols {
		train, ok := trainSeries[symbol]
		if !ok || train.Len() == 0 {
			continue
		}

		trainMean := stat.Mean(train.DailyReturns(), nil)
		if trainMean <= 0 {
			// excluded entirely -- no zero-weight entry
			continue
		}

		rawWeights[symbol] = trainMean
		total += trainMean
	}

	if total == 0 {
		return &Result{Composition: Composition{}}
	}

	composition := make(Composition, len(rawWeights))
	projection := &Projection{}
	for symbol, w := range rawWeights {
		pct := common.RoundPct(w / total * 100)
		composition[symbol] = pct

		testCum := testSeries[symbol].LastCumulativeReturn()
		projection.PredictedValue += investment * (pct / 100) * (1 + testCum)
		projection.CumulativeReturn += (pct / 100) * testCum
	}

	return &Result{
		Composition: composition,
		Projection:  projection,
	}
}
