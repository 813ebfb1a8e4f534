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
	"os"

	"github.com/naeemhassan09/stock-data-pipeline/common"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Database
	viper.BindEnv("database.url", "DATABASE_URL")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	viper.BindPFlag("database.url", rootCmd.PersistentFlags().Lookup("database-url"))

	// Logging configuration
	viper.BindEnv("log.level", "LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level: trace, debug, info, warning, error, fatal, panic")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Pretty print log output to console")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Report calling function in logs")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stderr", "Write logs to specified output: stdout or stderr")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	// Cache
	viper.BindEnv("cache.redis_url", "REDIS_URL")
	rootCmd.PersistentFlags().Bool("cache-redis", false, "Use redis as a second-level cache for provider responses")
	viper.BindPFlag("cache.redis", rootCmd.PersistentFlags().Lookup("cache-redis"))

	// Tracing
	viper.BindEnv("otlp.endpoint", "OTLP_ENDPOINT")

	viper.SetDefault("cache.local_size", 64)
	viper.SetDefault("cache.ttl", 86400)
	viper.SetDefault("cache.redis_url", "redis://localhost:6379")
	viper.SetDefault("provider.timeout", "30s")

	// Universe defaults mirror the production asset roster; tests and
	// deployments substitute their own via configuration
	viper.SetDefault("universe.stocks", []string{
		"AAPL", "MSFT", "GOOG", "AMZN", "TSLA", "NVDA", "META", "JPM", "V", "JNJ",
	})
	viper.SetDefault("universe.benchmarks", map[string]string{
		"S&P 500": "^GSPC",
		"NASDAQ":  "^IXIC",
		"Dow 30":  "^DJI",
		"Gold":    "GLD",
	})
	viper.SetDefault("windows.training.begin", "2021-01-01")
	viper.SetDefault("windows.training.end", "2024-01-01")
	viper.SetDefault("windows.test.begin", "2024-01-01")
	viper.SetDefault("windows.test.end", "2025-01-01")
}

var rootCmd = &cobra.Command{
	Use:   "stock-data-pipeline",
	Short: "Compute portfolio projections over a fixed equity universe",
	Long: `stock-data-pipeline ingests daily price history for a configured
universe of equities and benchmarks, derives return statistics and a
correlation structure, and constructs equal-weighted and return-weighted
candidate portfolios with risk metrics.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		common.SetupCache()
	},
}

// Execute runs the requested sub-command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
