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
	"github.com/naeemhassan09/stock-data-pipeline/dataframe"
)

// CorrelationMatrix is a symmetric Pearson correlation grid. Values[i][j]
// is the correlation between Labels[i] and Labels[j]. An empty Labels slice
// means no data was available to correlate.
type CorrelationMatrix struct {
	Labels []string    `json:"labels"`
	Values [][]float64 `json:"values"`
}

// BuildCorrelationMatrix aligns the daily-return series of every asset onto
// their shared dates (inner-join) and computes pairwise Pearson correlation.
// Assets map keys become the matrix labels. Series with no overlapping dates
// produce the defined empty result rather than an error.
func BuildCorrelationMatrix(seriesByAsset map[string]*data.ProcessedSeries) *CorrelationMatrix {
	dfMap := make(dataframe.Map, len(seriesByAsset))
	for label, series := range seriesByAsset {
		if series == nil || series.Len() == 0 {
			continue
		}
		df := series.ReturnFrame()
		df.ColNames[0] = label
		dfMap[label] = df
	}

	combined := dfMap.Join().Drop(math.NaN())
	if combined.Len() == 0 {
		return &CorrelationMatrix{
			Labels: []string{},
			Values: [][]float64{},
		}
	}

	return &CorrelationMatrix{
		Labels: combined.ColNames,
		Values: combined.Corr(),
	}
}

// MergeSeries combines two series collections into one map for the combined
// stocks-plus-benchmarks correlation variant. Later collections win on key
// collision.
func MergeSeries(collections ...map[string]*data.ProcessedSeries) map[string]*data.ProcessedSeries {
	merged := make(map[string]*data.ProcessedSeries)
	for _, collection := range collections {
		for k, v := range collection {
			merged[k] = v
		}
	}
	return merged
}
