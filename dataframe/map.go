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

package dataframe

import (
	"sort"
	"time"
)

// Join combines single-column dataframes into one multi-column dataframe over
// the intersection of their dates. Rows where any member lacks a value are
// discarded. Column order follows the sorted key order so results are
// deterministic. An empty map yields an empty dataframe.
func (dfMap Map) Join() *DataFrame {
	combined := &DataFrame{
		Dates:    []time.Time{},
		ColNames: []string{},
		Vals:     [][]float64{},
	}

	if len(dfMap) == 0 {
		return combined
	}

	keys := make([]string, 0, len(dfMap))
	for k := range dfMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// count date occurrences across all members; a date survives only when
	// every member has it
	dateCount := make(map[time.Time]int)
	for _, k := range keys {
		for _, dt := range dfMap[k].Dates {
			dateCount[dt]++
		}
	}

	shared := make([]time.Time, 0, len(dateCount))
	for dt, cnt := range dateCount {
		if cnt == len(keys) {
			shared = append(shared, dt)
		}
	}
	sort.Slice(shared, func(i, j int) bool { return shared[i].Before(shared[j]) })

	combined.Dates = shared
	for _, k := range keys {
		df := dfMap[k]
		lookup := make(map[time.Time]float64, df.Len())
		for idx, dt := range df.Dates {
			lookup[dt] = df.Vals[0][idx]
		}

		col := make([]float64, len(shared))
		for idx, dt := range shared {
			col[idx] = lookup[dt]
		}

		combined.ColNames = append(combined.ColNames, k)
		combined.Vals = append(combined.Vals, col)
	}

	return combined
}

// Drop calls DataFrame.Drop on each dataframe in the map
func (dfMap Map) Drop(val float64) Map {
	for _, v := range dfMap {
		v.Drop(val)
	}
	return dfMap
}
