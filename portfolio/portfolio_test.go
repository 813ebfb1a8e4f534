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

	"github.com/naeemhassan09/stock-data-pipeline/data"
	"github.com/naeemhassan09/stock-data-pipeline/portfolio"
)

var _ = Describe("Portfolio", func() {
	var start = time.Date(2024, 1, 2, 16, 0, 0, 0, time.UTC)

	Describe("EqualWeight", func() {
		Context("with one winner and one loser", func() {
			var test map[string]*data.ProcessedSeries

			BeforeEach(func() {
				test = map[string]*data.ProcessedSeries{
					"WIN":  seriesFromCloses("WIN", start, 100, 110),
					"LOSE": seriesFromCloses("LOSE", start, 100, 95),
				}
			})

			It("allocates 100% to the sole eligible asset", func() {
				result := portfolio.EqualWeight(test, 1000)
				Expect(result.Composition).To(HaveLen(1))
				Expect(result.Composition["WIN"]).To(BeNumerically("==", 100))
			})

			It("projects the investment at the asset's cumulative return", func() {
				result := portfolio.EqualWeight(test, 1000)
				Expect(result.Projection).ToNot(BeNil())
				Expect(result.Projection.CumulativeReturn).To(BeNumerically("~", 0.10, 1e-9))
				Expect(result.Projection.PredictedValue).To(BeNumerically("~", 1100, 1e-6))
			})

			It("reports zero volatility when only one combined return exists", func() {
				result := portfolio.EqualWeight(test, 1000)
				risk := result.Projection.Risk
				Expect(risk).ToNot(BeNil())
				Expect(risk.Volatility).To(BeNumerically("==", 0))
				Expect(risk.RiskAdjustedReturn).To(BeNil())
			})
		})

		Context("with two eligible assets", func() {
			var test map[string]*data.ProcessedSeries

			BeforeEach(func() {
				test = map[string]*data.ProcessedSeries{
					"A": seriesFromCloses("A", start, 100, 110, 121),
					"B": seriesFromCloses("B", start, 100, 120, 132),
				}
			})

			It("splits the allocation evenly", func() {
				result := portfolio.EqualWeight(test, 1000)
				Expect(result.Composition["A"]).To(BeNumerically("==", 50))
				Expect(result.Composition["B"]).To(BeNumerically("==", 50))
			})

			It("compounds the combined daily series rather than averaging per-asset cumulatives", func() {
				// row means are 0.15 and 0.10; compounding gives 1.15*1.10-1
				result := portfolio.EqualWeight(test, 1000)
				Expect(result.Projection.CumulativeReturn).To(BeNumerically("~", 0.265, 1e-9))
				Expect(result.Projection.PredictedValue).To(BeNumerically("~", 1265, 1e-6))
			})

			It("reports combined-series risk metrics", func() {
				result := portfolio.EqualWeight(test, 1000)
				risk := result.Projection.Risk
				Expect(risk).ToNot(BeNil())
				Expect(risk.AverageDailyReturn).To(BeNumerically("~", 0.125, 1e-9))
				Expect(risk.Volatility).To(BeNumerically(">", 0))
				Expect(risk.RiskAdjustedReturn).ToNot(BeNil())
				Expect(*risk.RiskAdjustedReturn).To(BeNumerically("~", risk.AverageDailyReturn/risk.Volatility, 1e-12))
			})
		})

		It("omits the risk-adjusted ratio when volatility is zero", func() {
			test := map[string]*data.ProcessedSeries{
				"STEADY": seriesFromCloses("STEADY", start, 100, 110, 121),
			}

			result := portfolio.EqualWeight(test, 1000)
			Expect(result.Projection.Risk.Volatility).To(BeNumerically("~", 0, 1e-12))
			Expect(result.Projection.Risk.RiskAdjustedReturn).To(BeNil())
		})

		It("returns an empty composition when no asset qualifies", func() {
			test := map[string]*data.ProcessedSeries{
				"DOWN": seriesFromCloses("DOWN", start, 100, 90),
				"FLAT": seriesFromCloses("FLAT", start, 100, 100),
			}

			result := portfolio.EqualWeight(test, 1000)
			Expect(result.Composition).To(BeEmpty())
			Expect(result.Projection).To(BeNil())
		})
	})

	Describe("ReturnProportional", func() {
		var (
			train map[string]*data.ProcessedSeries
			test  map[string]*data.ProcessedSeries
		)

		BeforeEach(func() {
			train = map[string]*data.ProcessedSeries{
				"A": seriesFromCloses("A", start, 100, 120),
				"B": seriesFromCloses("B", start, 100, 110),
			}
			test = map[string]*data.ProcessedSeries{
				"A": seriesFromCloses("A", start, 100, 110),
				"B": seriesFromCloses("B", start, 100, 105),
			}
		})

		It("weights assets in proportion to their training mean return", func() {
			result := portfolio.ReturnProportional(train, test, 1000)
			Expect(result.Composition["A"]).To(BeNumerically("~", 66.67, 1e-9))
			Expect(result.Composition["B"]).To(BeNumerically("~", 33.33, 1e-9))
		})

		It("sums the weighted compounded test returns", func() {
			result := portfolio.ReturnProportional(train, test, 1000)
			Expect(result.Projection.CumulativeReturn).To(BeNumerically("~", 0.6667*0.10+0.3333*0.05, 1e-9))
			Expect(result.Projection.PredictedValue).To(BeNumerically("~", 1000*0.6667*1.10+1000*0.3333*1.05, 1e-6))
		})

		It("excludes assets with no training series", func() {
			delete(train, "B")
			result := portfolio.ReturnProportional(train, test, 1000)
			Expect(result.Composition).To(HaveLen(1))
			Expect(result.Composition["A"]).To(BeNumerically("==", 100))
		})

		It("excludes assets whose training mean is not positive", func() {
			train["B"] = seriesFromCloses("B", start, 100, 90)
			result := portfolio.ReturnProportional(train, test, 1000)
			Expect(result.Composition).To(HaveLen(1))
			Expect(result.Composition).To(HaveKey("A"))
		})

		It("returns an empty composition when no weight can be assigned", func() {
			train = map[string]*data.ProcessedSeries{
				"A": seriesFromCloses("A", start, 100, 90),
				"B": seriesFromCloses("B", start, 100, 95),
			}

			result := portfolio.ReturnProportional(train, test, 1000)
			Expect(result.Composition).To(BeEmpty())
			Expect(result.Projection).To(BeNil())
		})

		It("ignores test-window losers regardless of their training record", func() {
			test["A"] = seriesFromCloses("A", start, 100, 90)
			result := portfolio.ReturnProportional(train, test, 1000)
			Expect(result.Composition).To(HaveLen(1))
			Expect(result.Composition).To(HaveKey("B"))
		})
	})

	Describe("ParseInvestment", func() {
		DescribeTable("converts raw input to an amount",
			func(raw string, expected float64) {
				Expect(portfolio.ParseInvestment(raw)).To(BeNumerically("==", expected))
			},
			Entry("a plain number", "1000", 1000.0),
			Entry("a decimal number", "2500.50", 2500.50),
			Entry("zero", "0", 0.0),
			Entry("a negative amount", "-50", 0.0),
			Entry("garbage", "lots", 0.0),
			Entry("empty input", "", 0.0),
		)
	})
})
