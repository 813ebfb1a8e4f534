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

package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/naeemhassan09/stock-data-pipeline/portfolio"
)

// Projections computes the full portfolio projection report for the
// investment amount given in the `investment` query parameter. A malformed
// amount runs the pipeline with a zero investment rather than rejecting the
// request.
func Projections(pipeline *portfolio.Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		investment := portfolio.ParseInvestment(c.Query("investment", "0"))
		report := pipeline.Run(c.UserContext(), investment)
		return c.JSON(report)
	}
}

// Ping is a trivial health check
func Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
