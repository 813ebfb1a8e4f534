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

	"github.com/naeemhassan09/stock-data-pipeline/data"
	"gonum.org/v1/gonum/stat"
)

// AssetMetrics summarizes the return characteristics of one series
type AssetMetrics struct {
	AverageDailyReturn float64 `json:"averageDailyReturn"`
	Volatility         float64 `json:"volatility"`
	CumulativeReturn   float64 `json:"cumulativeReturn"`
}

// GroupMetrics holds per-asset summaries plus their arithmetic average.
// Average is nil when no asset qualified.
type GroupMetrics struct {
	PerAsset map[string]AssetMetrics `json:"perAsset"`
	Average  *AssetMetrics           `json:"average,omitempty"`
}

// SummarizeGroup computes mean daily return, sample volatility and final
// cumulative return for every non-empty series, plus the group average of
// each metric. Empty input yields empty outputs, never an error.
func SummarizeGroup(seriesByAsset map[string]*data.ProcessedSeries) *GroupMetrics {
	group := &GroupMetrics{
		PerAsset: make(map[string]AssetMetrics, len(seriesByAsset)),
	}

	var sum AssetMetrics
	for label, series := range seriesByAsset {
		if series == nil || series.Len() == 0 {
			continue
		}

		rets := series.DailyReturns()
		vol := stat.StdDev(rets, nil)
		if math.IsNaN(vol) {
			// a single retained bar has no dispersion; report zero so the
			// value survives serialization
			vol = 0
		}
		metrics := AssetMetrics{
			AverageDailyReturn: stat.Mean(rets, nil),
			Volatility:         vol,
			CumulativeReturn:   series.LastCumulativeReturn(),
		}

		group.PerAsset[label] = metrics
		sum.AverageDailyReturn += metrics.AverageDailyReturn
		sum.Volatility += metrics.Volatility
		sum.CumulativeReturn += metrics.CumulativeReturn
	}

	if n := float64(len(group.PerAsset)); n > 0 {
		group.Average = &AssetMetrics{
			AverageDailyReturn: sum.AverageDailyReturn / n,
			Volatility:         sum.Volatility / n,
			CumulativeReturn:   sum.CumulativeReturn / n,
		}
	}

	return group
}
