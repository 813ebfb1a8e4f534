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
	"time"
)

// Provider retrieves daily price history for a symbol over [begin, end).
// Implementations must tolerate unknown symbols by returning an empty bar
// list rather than an error; any error is converted to "no data" by the
// Manager and never propagated to the request.
type Provider interface {
	GetHistory(ctx context.Context, symbol string, begin, end time.Time) ([]RawBar, error)
}
