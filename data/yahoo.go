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

import (
	"context"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/naeemhassan09/stock-data-pipeline/common"
	"github.com/naeemhassan09/stock-data-pipeline/observability/opentelemetry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var yahooAPI = "https://query1.finance.yahoo.com"

type yahoo struct {
}

// NewYahoo creates a Yahoo Finance chart-API data provider
func NewYahoo() Provider {
	return &yahoo{}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetHistory downloads daily bars for the symbol over [begin, end). Raw
// responses are memoized in the byte cache so repeated pipeline runs within
// the cache TTL do not hit the remote API.
func (y *yahoo) GetHistory(ctx context.Context, symbol string, begin, end time.Time) ([]RawBar, error) {
	ctx, span := otel.Tracer(opentelemetry.Name).Start(ctx, "yahoo.GetHistory")
	defer span.End()

	subLog := log.With().Str("Symbol", symbol).Time("Begin", begin).Time("End", end).Logger()

	if !begin.Before(end) {
		subLog.Warn().Stack().Msg("end before begin in call to GetHistory")
		return nil, ErrInvalidTimeRange
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history",
		yahooAPI, strings.ToUpper(symbol), begin.Unix(), end.Unix())

	span.SetAttributes(
		attribute.KeyValue{
			Key:   "Symbol",
			Value: attribute.StringValue(symbol),
		},
		attribute.KeyValue{
			Key:   "Url",
			Value: attribute.StringValue(url),
		},
	)

	body, err := y.download(ctx, url)
	if err != nil {
		span.RecordError(err)
		msg := "yahoo http request failed"
		span.SetStatus(codes.Error, msg)
		subLog.Warn().Err(err).Msg(msg)
		return nil, err
	}

	var chartResp yahooChartResponse
	if err := json.Unmarshal(body, &chartResp); err != nil {
		span.RecordError(err)
		msg := "could not unmarshal json"
		span.SetStatus(codes.Error, msg)
		subLog.Error().Err(err).Msg(msg)
		return nil, err
	}

	if chartResp.Chart.Error != nil {
		// unknown symbols are not an error -- just no data
		subLog.Warn().Str("Code", chartResp.Chart.Error.Code).Str("Description", chartResp.Chart.Error.Description).Msg("yahoo reported a chart error")
		return []RawBar{}, nil
	}

	if len(chartResp.Chart.Result) == 0 {
		return []RawBar{}, nil
	}

	result := chartResp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []RawBar{}, nil
	}

	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		subLog.Error().Int("NumClose", len(quote.Close)).Int("NumTimestamps", len(result.Timestamp)).Msg("quote column length does not match timestamps")
		return nil, ErrMalformedQuote
	}

	tz := common.GetTimezone()
	bars := make([]RawBar, 0, len(result.Timestamp))
	for idx, ts := range result.Timestamp {
		// bars with a null close are holidays or half-days without data
		if quote.Close[idx] == nil {
			continue
		}

		dt := time.Unix(ts, 0).In(tz)
		bar := RawBar{
			Date:  time.Date(dt.Year(), dt.Month(), dt.Day(), 16, 0, 0, 0, tz),
			Close: *quote.Close[idx],
		}
		if idx < len(quote.Open) && quote.Open[idx] != nil {
			bar.Open = *quote.Open[idx]
		}
		if idx < len(quote.High) && quote.High[idx] != nil {
			bar.High = *quote.High[idx]
		}
		if idx < len(quote.Low) && quote.Low[idx] != nil {
			bar.Low = *quote.Low[idx]
		}
		if idx < len(quote.Volume) && quote.Volume[idx] != nil {
			bar.Volume = *quote.Volume[idx]
		}

		bars = append(bars, bar)
	}

	return bars, nil
}

func (y *yahoo) download(ctx context.Context, url string) ([]byte, error) {
	cacheKey := common.CacheKey("yahoo", url)
	if body, err := common.CacheGet(cacheKey); err == nil {
		return body, nil
	}

	timeout := viper.GetDuration("provider.timeout")
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "stock-data-pipeline/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		log.Warn().Int("HTTPResponseStatusCode", resp.StatusCode).Str("Url", url).Bytes("Body", body).Msg("yahoo request failed")
		return nil, fmt.Errorf("%w: %d", ErrProviderStatus, resp.StatusCode)
	}

	if err := common.CacheSet(cacheKey, body); err != nil {
		log.Warn().Err(err).Msg("could not store provider response in cache")
	}

	return body, nil
}
