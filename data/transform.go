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

import "math"

// DailyReturns computes the fractional close-to-close change for each bar.
// The first element has no prior bar and is NaN; it must be dropped by the
// caller, never coerced to zero.
func DailyReturns(bars []RawBar) []float64 {
	rets := make([]float64, len(bars))
	for idx := range bars {
		if idx == 0 {
			rets[idx] = math.NaN()
			continue
		}
		prev := bars[idx-1].Close
		rets[idx] = (bars[idx].Close - prev) / prev
	}
	return rets
}

// DropUndefined removes leading rows whose return is undefined. The output
// contains no NaN returns and is one row shorter than the input whenever the
// input began with an undefined value.
func DropUndefined(bars []RawBar, rets []float64) ([]RawBar, []float64) {
	idx := 0
	for idx < len(rets) && math.IsNaN(rets[idx]) {
		idx++
	}
	return bars[idx:], rets[idx:]
}

// Annotate runs the full series transform: daily returns, removal of the
// undefined leading row, compounded cumulative return over the retained rows
// and a direction label per bar. Pure; performs no I/O.
func Annotate(asset Asset, bars []RawBar) *ProcessedSeries {
	rets := DailyReturns(bars)
	bars, rets = DropUndefined(bars, rets)

	series := &ProcessedSeries{
		Asset: asset,
		Bars:  make([]ProcessedBar, len(bars)),
	}

	compound := 1.0
	for idx, bar := range bars {
		compound *= 1 + rets[idx]

		direction := DirectionDecrease
		if rets[idx] > 0 {
			direction = DirectionIncrease
		}

		series.Bars[idx] = ProcessedBar{
			RawBar:           bar,
			DailyReturn:      rets[idx],
			CumulativeReturn: compound - 1,
			Direction:        direction,
		}
	}

	return series
}
