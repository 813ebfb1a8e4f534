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

package portfolio_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/stat"

	"github.com/naeemhassan09/stock-data-pipeline/data"
	"github.com/naeemhassan09/stock-data-pipeline/portfolio"
)

var _ = Describe("Metrics", func() {
	var start = time.Date(2024, 1, 2, 16, 0, 0, 0, time.UTC)

	Describe("SummarizeGroup", func() {
		It("computes per-asset mean, volatility and cumulative return", func() {
			series := seriesFromCloses("AAPL", start, 100, 105, 110, 108)
			group := portfolio.SummarizeGroup(map[string]*data.ProcessedSeries{
				"AAPL": series,
			})

			rets := series.DailyReturns()
			metrics := group.PerAsset["AAPL"]
			Expect(metrics.AverageDailyReturn).To(BeNumerically("~", stat.Mean(rets, nil), 1e-12))
			Expect(metrics.Volatility).To(BeNumerically("~", stat.StdDev(rets, nil), 1e-12))
			Expect(metrics.CumulativeReturn).To(BeNumerically("~", 0.08, 1e-9))
		})

		It("averages each metric across the group", func() {
			group := portfolio.SummarizeGroup(map[string]*data.ProcessedSeries{
				"A": seriesFromCloses("A", start, 100, 110),
				"B": seriesFromCloses("B", start, 100, 120),
			})

			Expect(group.PerAsset).To(HaveLen(2))
			Expect(group.Average).ToNot(BeNil())
			Expect(group.Average.CumulativeReturn).To(BeNumerically("~", 0.15, 1e-9))
			Expect(group.Average.AverageDailyReturn).To(BeNumerically("~", 0.15, 1e-9))
		})

		It("reports zero volatility for a series with a single retained bar", func() {
			group := portfolio.SummarizeGroup(map[string]*data.ProcessedSeries{
				"SHORT": seriesFromCloses("SHORT", start, 100, 110),
			})

			metrics := group.PerAsset["SHORT"]
			Expect(metrics.AverageDailyReturn).To(BeNumerically("~", 0.10, 1e-9))
			Expect(metrics.Volatility).To(BeNumerically("==", 0))
			Expect(group.Average.Volatility).To(BeNumerically("==", 0))
		})

		It("yields empty outputs for empty input", func() {
			group := portfolio.SummarizeGroup(map[string]*data.ProcessedSeries{})
			Expect(group.PerAsset).To(BeEmpty())
			Expect(group.Average).To(BeNil())
		})

		It("skips absent and empty series", func() {
			group := portfolio.SummarizeGroup(map[string]*data.ProcessedSeries{
				"A":     seriesFromCloses("A", start, 100, 110),
				"EMPTY": {},
				"NIL":   nil,
			})

			Expect(group.PerAsset).To(HaveLen(1))
			Expect(group.PerAsset).To(HaveKey("A"))
		})
	})
})
