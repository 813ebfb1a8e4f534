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

package handler_test

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/naeemhassan09/stock-data-pipeline/data"
	"github.com/naeemhassan09/stock-data-pipeline/portfolio"
	"github.com/naeemhassan09/stock-data-pipeline/router"
)

type missStore struct{}

func (store *missStore) TableExists(_ context.Context, _ string) (bool, error) { return false, nil }
func (store *missStore) LoadSeries(_ context.Context, _ string) ([]data.ProcessedBar, error) {
	return nil, nil
}
func (store *missStore) ReplaceSeries(_ context.Context, _ string, _ []data.ProcessedBar) error {
	return nil
}

type fixedProvider struct{}

func (provider *fixedProvider) GetHistory(_ context.Context, _ string, begin, _ time.Time) ([]data.RawBar, error) {
	closes := []float64{100, 105, 110}
	bars := make([]data.RawBar, len(closes))
	dt := time.Date(begin.Year(), 1, 2, 16, 0, 0, 0, time.UTC)
	for idx, cl := range closes {
		bars[idx] = data.RawBar{Date: dt, Close: cl}
		dt = dt.AddDate(0, 0, 1)
	}
	return bars, nil
}

// shortProvider serves the minimum usable history: two closes per window,
// leaving a single retained bar after the return transform
type shortProvider struct{}

func (provider *shortProvider) GetHistory(_ context.Context, _ string, begin, _ time.Time) ([]data.RawBar, error) {
	dt := time.Date(begin.Year(), 1, 2, 16, 0, 0, 0, time.UTC)
	return []data.RawBar{
		{Date: dt, Close: 100},
		{Date: dt.AddDate(0, 0, 1), Close: 110},
	}, nil
}

func newTestApp(provider data.Provider) *fiber.App {
	universe := &data.Universe{
		Stocks: []data.Asset{
			{Symbol: "AAPL", Category: data.CategoryTradable},
		},
		Benchmarks: []data.Asset{
			{Symbol: "^GSPC", Name: "S&P 500", Category: data.CategoryBenchmark},
		},
		Training: data.Window{
			Begin: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Role:  data.RoleTraining,
		},
		Test: data.Window{
			Begin: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			Role:  data.RoleTest,
		},
	}

	manager := data.NewManager(&missStore{}, provider)
	pipeline := portfolio.NewPipeline(manager, universe)

	app := fiber.New()
	router.SetupRoutes(app, pipeline)
	return app
}

var _ = Describe("Projection handler", func() {
	var app *fiber.App

	BeforeEach(func() {
		app = newTestApp(&fixedProvider{})
	})

	It("answers the health check", func() {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		resp, err := app.Test(req)
		Expect(err).To(BeNil())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("serves a projection report as json", func() {
		req := httptest.NewRequest(http.MethodGet, "/v1/projections?investment=1000", nil)
		resp, err := app.Test(req, 30000)
		Expect(err).To(BeNil())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body, err := ioutil.ReadAll(resp.Body)
		Expect(err).To(BeNil())

		var report portfolio.Report
		Expect(json.Unmarshal(body, &report)).To(BeNil())
		Expect(report.Investment).To(BeNumerically("==", 1000))
		Expect(report.Assets).To(HaveKey("AAPL"))
		Expect(report.Assets["AAPL"].CumulativeReturn).To(BeNumerically("~", 0.10, 1e-9))
		Expect(report.Assets["AAPL"].PredictedValue).To(BeNumerically("~", 1100, 1e-6))
	})

	It("defaults a malformed investment to zero", func() {
		req := httptest.NewRequest(http.MethodGet, "/v1/projections?investment=abc", nil)
		resp, err := app.Test(req, 30000)
		Expect(err).To(BeNil())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body, err := ioutil.ReadAll(resp.Body)
		Expect(err).To(BeNil())

		var report portfolio.Report
		Expect(json.Unmarshal(body, &report)).To(BeNil())
		Expect(report.Investment).To(BeNumerically("==", 0))
	})

	It("serves a well-formed report when every series has a single retained bar", func() {
		shortApp := newTestApp(&shortProvider{})

		req := httptest.NewRequest(http.MethodGet, "/v1/projections?investment=1000", nil)
		resp, err := shortApp.Test(req, 30000)
		Expect(err).To(BeNil())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body, err := ioutil.ReadAll(resp.Body)
		Expect(err).To(BeNil())

		var report portfolio.Report
		Expect(json.Unmarshal(body, &report)).To(BeNil())
		Expect(report.Assets["AAPL"].CumulativeReturn).To(BeNumerically("~", 0.10, 1e-9))
		Expect(report.StockMetrics.PerAsset["AAPL"].Volatility).To(BeNumerically("==", 0))
		Expect(report.EqualWeight.Projection.Risk.Volatility).To(BeNumerically("==", 0))
	})

	It("defaults a missing investment parameter to zero", func() {
		req := httptest.NewRequest(http.MethodGet, "/v1/projections", nil)
		resp, err := app.Test(req, 30000)
		Expect(err).To(BeNil())
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		body, err := ioutil.ReadAll(resp.Body)
		Expect(err).To(BeNil())

		var report portfolio.Report
		Expect(json.Unmarshal(body, &report)).To(BeNil())
		Expect(report.Investment).To(BeNumerically("==", 0))
	})
})
