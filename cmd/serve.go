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
	"os/signal"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/naeemhassan09/stock-data-pipeline/data"
	"github.com/naeemhassan09/stock-data-pipeline/data/database"
	"github.com/naeemhassan09/stock-data-pipeline/middleware"
	"github.com/naeemhassan09/stock-data-pipeline/observability/opentelemetry"
	"github.com/naeemhassan09/stock-data-pipeline/portfolio"
	"github.com/naeemhassan09/stock-data-pipeline/router"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the projection API server",
	Long:  `Run the HTTP server that serves portfolio projection reports`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		if viper.GetString("otlp.endpoint") != "" {
			shutdown, err := opentelemetry.Setup()
			if err != nil {
				log.Error().Err(err).Msg("could not initialize tracing")
			} else {
				defer func() {
					if err := shutdown(ctx); err != nil {
						log.Error().Err(err).Msg("could not shutdown tracing")
					}
				}()
			}
		}

		// setup database
		if err := database.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("could not connect to database")
		}

		universe := data.UniverseFromConfig()
		manager := data.NewManager(data.NewPgStore(), data.NewYahoo())
		pipeline := portfolio.NewPipeline(manager, universe)

		// Create new Fiber instance
		app := fiber.New()

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("could not shutdown app")
			}
		}()

		// Configure CORS
		corsConfig := cors.Config{
			AllowOrigins: "*",
			AllowHeaders: "*",
			AllowMethods: "GET,POST,HEAD",
		}
		app.Use(cors.New(corsConfig))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Setup routes
		router.SetupRoutes(app, pipeline)

		// warm the series cache for the configured universe once a day so
		// the first request after a quiet period does not pay for every fetch
		scheduler := gocron.NewScheduler(time.UTC)
		if _, err := scheduler.Every(1).Day().At("05:00").Do(func() {
			log.Info().Msg("warming series cache")
			for _, window := range []data.Window{universe.Training, universe.Test} {
				manager.FetchUniverse(ctx, universe.Assets(), window)
			}
		}); err != nil {
			log.Error().Err(err).Msg("could not schedule cache warm job")
		}
		scheduler.StartAsync()
		defer scheduler.Stop()

		port := viper.GetInt("server.port")
		log.Info().Int("Port", port).Msg("starting server")
		if err := app.Listen(fmt.Sprintf(":%d", port)); err != nil {
			log.Fatal().Err(err).Msg("server exited with error")
		}
	},
}
