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
	"context"
	"strconv"

	"github.com/naeemhassan09/stock-data-pipeline/data"
	"github.com/rs/zerolog/log"
)

// Pipeline runs the full projection computation for a request: per-asset
// series via the fetch-or-load cache, correlation structure and group
// statistics over the training window, and both portfolio constructions
// over the test window.
type Pipeline struct {
	manager  *data.Manager
	universe *data.Universe
}

// NewPipeline creates a Pipeline over the given manager and universe
func NewPipeline(manager *data.Manager, universe *data.Universe) *Pipeline {
	return &Pipeline{
		manager:  manager,
		universe: universe,
	}
}

// AssetProjection is the per-asset outcome over the test window
type AssetProjection struct {
	Symbol           string  `json:"symbol"`
	CumulativeReturn float64 `json:"cumulativeReturn"`
	PredictedValue   float64 `json:"predictedValue"`
	Direction        string  `json:"direction"`
}

// Report is the complete structured result handed to the presentation
// layer; rendering is the caller's responsibility
type Report struct {
	Investment          float64                    `json:"investment"`
	Assets              map[string]AssetProjection `json:"assets"`
	StockCorrelation    *CorrelationMatrix         `json:"stockCorrelation"`
	CombinedCorrelation *CorrelationMatrix         `json:"combinedCorrelation"`
	StockMetrics        *GroupMetrics              `json:"stockMetrics"`
	BenchmarkMetrics    *GroupMetrics              `json:"benchmarkMetrics"`
	EqualWeight         *Result                    `json:"equalWeight"`
	Optimized           *Result                    `json:"optimized"`
}

// Run executes the pipeline for the given investment amount. An asset the
// provider cannot serve is excluded from every downstream aggregate; it
// never fails the whole request.
func (pipeline *Pipeline) Run(ctx context.Context, investment float64) *Report {
	subLog := log.With().Float64("Investment", investment).Logger()

	trainStocks := pipeline.manager.FetchUniverse(ctx, pipeline.universe.Stocks, pipeline.universe.Training)
	testStocks := pipeline.manager.FetchUniverse(ctx, pipeline.universe.Stocks, pipeline.universe.Test)
	trainBenchmarks := pipeline.manager.FetchUniverse(ctx, pipeline.universe.Benchmarks, pipeline.universe.Training)

	subLog.Info().
		Int("NumTrainStocks", len(trainStocks)).
		Int("NumTestStocks", len(testStocks)).
		Int("NumBenchmarks", len(trainBenchmarks)).
		Msg("fetched universe series")

	assets := make(map[string]AssetProjection, len(testStocks))
	for symbol, series := range testStocks {
		cum := series.LastCumulativeReturn()
		assets[symbol] = AssetProjection{
			Symbol:           symbol,
			CumulativeReturn: cum,
			PredictedValue:   investment * (1 + cum),
			Direction:        series.Bars[series.Len()-1].Direction,
		}
	}

	// benchmarks are labeled by their configured display name when present
	benchmarksByLabel := make(map[string]*data.ProcessedSeries, len(trainBenchmarks))
	for _, asset := range pipeline.universe.Benchmarks {
		if series, ok := trainBenchmarks[asset.Symbol]; ok {
			label := asset.Name
			if label == "" {
				label = asset.Symbol
			}
			benchmarksByLabel[label] = series
		}
	}

	return &Report{
		Investment:          investment,
		Assets:              assets,
		StockCorrelation:    BuildCorrelationMatrix(trainStocks),
		CombinedCorrelation: BuildCorrelationMatrix(MergeSeries(trainStocks, benchmarksByLabel)),
		StockMetrics:        SummarizeGroup(trainStocks),
		BenchmarkMetrics:    SummarizeGroup(benchmarksByLabel),
		EqualWeight:         EqualWeight(testStocks, investment),
		Optimized:           ReturnProportional(trainStocks, testStocks, investment),
	}
}

// ParseInvestment converts boundary input to an investment amount.
// Malformed input is a caller-level validation concern that defaults to a
// zero investment instead of propagating a parse error into the pipeline.
func ParseInvestment(raw string) float64 {
	investment, err := strconv.ParseFloat(raw, 64)
	if err != nil || investment < 0 {
		log.Warn().Str("Raw", raw).Msg("invalid investment amount; defaulting to 0")
		return 0
	}
	return investment
}
