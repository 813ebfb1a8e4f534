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
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Universe is the fixed asset roster plus the two evaluation windows that
// every request is computed against
type Universe struct {
	Stocks     []Asset
	Benchmarks []Asset
	Training   Window
	Test       Window
}

// Assets returns the combined roster, stocks first
func (u *Universe) Assets() []Asset {
	assets := make([]Asset, 0, len(u.Stocks)+len(u.Benchmarks))
	assets = append(assets, u.Stocks...)
	assets = append(assets, u.Benchmarks...)
	return assets
}

// WindowFor returns the configured window with the requested role
func (u *Universe) WindowFor(role Role) Window {
	if role == RoleTest {
		return u.Test
	}
	return u.Training
}

// UniverseFromConfig builds the universe from viper settings. Symbols come
// from universe.stocks and universe.benchmarks; windows from
// windows.training and windows.test as 2006-01-02 dates.
func UniverseFromConfig() *Universe {
	u := &Universe{
		Stocks:     make([]Asset, 0, 10),
		Benchmarks: make([]Asset, 0, 4),
	}

	for _, symbol := range viper.GetStringSlice("universe.stocks") {
		u.Stocks = append(u.Stocks, Asset{
			Symbol:   symbol,
			Category: CategoryTradable,
		})
	}

	for name, symbol := range viper.GetStringMapString("universe.benchmarks") {
		u.Benchmarks = append(u.Benchmarks, Asset{
			Symbol:   symbol,
			Name:     name,
			Category: CategoryBenchmark,
		})
	}

	u.Training = parseWindow("windows.training", RoleTraining)
	u.Test = parseWindow("windows.test", RoleTest)

	return u
}

func parseWindow(key string, role Role) Window {
	subLog := log.With().Str("ConfigKey", key).Logger()

	begin, err := time.ParseInLocation("2006-01-02", viper.GetString(key+".begin"), time.UTC)
	if err != nil {
		subLog.Panic().Err(err).Str("Value", viper.GetString(key+".begin")).Msg("could not parse window begin date")
	}

	end, err := time.ParseInLocation("2006-01-02", viper.GetString(key+".end"), time.UTC)
	if err != nil {
		subLog.Panic().Err(err).Str("Value", viper.GetString(key+".end")).Msg("could not parse window end date")
	}

	if !begin.Before(end) {
		subLog.Panic().Time("Begin", begin).Time("End", end).Msg("window begin must be before end")
	}

	return Window{
		Begin: begin,
		End:   end,
		Role:  role,
	}
}
