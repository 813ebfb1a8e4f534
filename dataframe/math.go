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
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Mean calculates the mean of each column
func (df *DataFrame) Mean() map[string]float64 {
	res := make(map[string]float64, len(df.ColNames))
	for idx, colName := range df.ColNames {
		res[colName] = stat.Mean(df.Vals[idx], nil)
	}
	return res
}

// Std calculates the sample standard deviation of each column
func (df *DataFrame) Std() map[string]float64 {
	res := make(map[string]float64, len(df.ColNames))
	for idx, colName := range df.ColNames {
		res[colName] = stat.StdDev(df.Vals[idx], nil)
	}
	return res
}

// RowMean computes the arithmetic mean across columns for each row and
// returns a new single-column dataframe named `mean`
func (df *DataFrame) RowMean() *DataFrame {
	meanVals := make([]float64, df.Len())
	for rowIdx := range df.Dates {
		sum := 0.0
		for colIdx := range df.ColNames {
			sum += df.Vals[colIdx][rowIdx]
		}
		meanVals[rowIdx] = sum / float64(len(df.ColNames))
	}

	return &DataFrame{
		Dates:    df.Dates,
		ColNames: []string{"mean"},
		Vals:     [][]float64{meanVals},
	}
}

// Corr computes the symmetric Pearson correlation matrix across the
// dataframe's columns. Returns an empty matrix when there are no rows.
// Cells that have no defined correlation (a constant column, or a single
// row) hold the identity value instead of NaN.
func (df *DataFrame) Corr() [][]float64 {
	nCols := df.ColCount()
	if nCols == 0 || df.Len() == 0 {
		return [][]float64{}
	}

	// gonum expects observations in rows and variables in columns
	dense := mat.NewDense(df.Len(), nCols, nil)
	for colIdx := range df.ColNames {
		for rowIdx := range df.Dates {
			dense.Set(rowIdx, colIdx, df.Vals[colIdx][rowIdx])
		}
	}

	corr := mat.NewSymDense(nCols, nil)
	stat.CorrelationMatrix(corr, dense, nil)

	res := make([][]float64, nCols)
	for ii := 0; ii < nCols; ii++ {
		res[ii] = make([]float64, nCols)
		for jj := 0; jj < nCols; jj++ {
			v := corr.At(ii, jj)
			if math.IsNaN(v) {
				if ii == jj {
					v = 1
				} else {
					v = 0
				}
			}
			res[ii][jj] = v
		}
	}

	return res
}
