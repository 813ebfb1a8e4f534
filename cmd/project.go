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

package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/naeemhassan09/stock-data-pipeline/data"
	"github.com/naeemhassan09/stock-data-pipeline/data/database"
	"github.com/naeemhassan09/stock-data-pipeline/portfolio"
)

func init() {
	rootCmd.AddCommand(projectCmd)
}

var projectCmd = &cobra.Command{
	Use:   "project [investment]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Run the projection pipeline and print the report",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}

		investment := 0.0
		if len(args) > 0 {
			investment = portfolio.ParseInvestment(args[0])
		}

		universe := data.UniverseFromConfig()
		manager := data.NewManager(data.NewPgStore(), data.NewYahoo())
		pipeline := portfolio.NewPipeline(manager, universe)

		report := pipeline.Run(ctx, investment)

		printAssets(report)
		printGroupMetrics("Stock Metrics (training window)", report.StockMetrics)
		printGroupMetrics("Benchmark Metrics (training window)", report.BenchmarkMetrics)
		printCorrelation("Stock Correlation", report.StockCorrelation)
		printCorrelation("Stocks + Benchmarks Correlation", report.CombinedCorrelation)
		printResult("Equal-Weight Portfolio", report.EqualWeight, report.Investment)
		printResult("Return-Proportional Portfolio", report.Optimized, report.Investment)
	},
}

func printAssets(report *portfolio.Report) {
	symbols := make([]string, 0, len(report.Assets))
	for symbol := range report.Assets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	fmt.Printf("\nPer-Asset Projection (investment %.2f)\n", report.Investment)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Cumulative Return", "Predicted Value", "Direction"})
	table.SetBorders(tablewriter.Border{Left: true, Top: true, Right: true, Bottom: true})
	for _, symbol := range symbols {
		proj := report.Assets[symbol]
		table.Append([]string{
			proj.Symbol,
			fmt.Sprintf("%.4f", proj.CumulativeReturn),
			fmt.Sprintf("%.2f", proj.PredictedValue),
			proj.Direction,
		})
	}
	table.Render()
}

func printGroupMetrics(title string, group *portfolio.GroupMetrics) {
	if group == nil {
		return
	}

	labels := make([]string, 0, len(group.PerAsset))
	for label := range group.PerAsset {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	fmt.Printf("\n%s\n", title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Asset", "Avg Daily Return", "Volatility", "Cumulative Return"})
	table.SetBorders(tablewriter.Border{Left: true, Top: true, Right: true, Bottom: true})
	for _, label := range labels {
		metrics := group.PerAsset[label]
		table.Append([]string{
			label,
			fmt.Sprintf("%.6f", metrics.AverageDailyReturn),
			fmt.Sprintf("%.6f", metrics.Volatility),
			fmt.Sprintf("%.4f", metrics.CumulativeReturn),
		})
	}
	if group.Average != nil {
		table.SetFooter([]string{
			"Average",
			fmt.Sprintf("%.6f", group.Average.AverageDailyReturn),
			fmt.Sprintf("%.6f", group.Average.Volatility),
			fmt.Sprintf("%.4f", group.Average.CumulativeReturn),
		})
	}
	table.Render()
}

func printCorrelation(title string, matrix *portfolio.CorrelationMatrix) {
	if matrix == nil || len(matrix.Labels) == 0 {
		fmt.Printf("\n%s: no overlapping dates\n", title)
		return
	}

	fmt.Printf("\n%s\n", title)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(append([]string{""}, matrix.Labels...))
	table.SetBorders(tablewriter.Border{Left: true, Top: true, Right: true, Bottom: true})
	for idx, label := range matrix.Labels {
		row := make([]string, 0, len(matrix.Labels)+1)
		row = append(row, label)
		for _, val := range matrix.Values[idx] {
			row = append(row, fmt.Sprintf("%.3f", val))
		}
		table.Append(row)
	}
	table.Render()
}

func printResult(title string, result *portfolio.Result, investment float64) {
	fmt.Printf("\n%s\n", title)
	if result == nil || len(result.Composition) == 0 {
		fmt.Println("no asset qualified for inclusion")
		return
	}

	symbols := make([]string, 0, len(result.Composition))
	for symbol := range result.Composition {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Symbol", "Allocation %"})
	table.SetBorders(tablewriter.Border{Left: true, Top: true, Right: true, Bottom: true})
	for _, symbol := range symbols {
		table.Append([]string{symbol, fmt.Sprintf("%.2f", result.Composition[symbol])})
	}
	table.Render()

	if result.Projection != nil {
		fmt.Printf("Cumulative Return: %.4f\n", result.Projection.CumulativeReturn)
		fmt.Printf("Predicted Value of %.2f: %.2f\n", investment, result.Projection.PredictedValue)
		if result.Projection.Risk != nil {
			risk := result.Projection.Risk
			fmt.Printf("Avg Daily Return: %.6f  Volatility: %.6f", risk.AverageDailyReturn, risk.Volatility)
			if risk.RiskAdjustedReturn != nil {
				fmt.Printf("  Risk-Adjusted Return: %.4f", *risk.RiskAdjustedReturn)
			}
			fmt.Println()
		}
	}
}
