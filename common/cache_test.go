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

package common_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/naeemhassan09/stock-data-pipeline/common"
)

var _ = Describe("Cache", func() {
	BeforeEach(func() {
		viper.Set("cache.local_size", 16)
		viper.Set("cache.redis", false)
		common.SetupCache()
	})

	Describe("CacheKey", func() {
		It("is deterministic", func() {
			Expect(common.CacheKey("yahoo", "http://example.com")).To(Equal(common.CacheKey("yahoo", "http://example.com")))
		})

		It("differs for different inputs", func() {
			Expect(common.CacheKey("a")).ToNot(Equal(common.CacheKey("b")))
		})
	})

	Describe("CacheSet and CacheGet", func() {
		It("round-trips a value", func() {
			key := common.CacheKey("test", "round-trip")
			payload := []byte(`{"chart":{"result":[]}}`)

			Expect(common.CacheSet(key, payload)).To(BeNil())

			got, err := common.CacheGet(key)
			Expect(err).To(BeNil())
			Expect(got).To(Equal(payload))
		})

		It("misses for an unknown key", func() {
			_, err := common.CacheGet(common.CacheKey("test", "never-set"))
			Expect(errors.Is(err, common.ErrCacheMiss)).To(BeTrue())
		})

		It("evicts the oldest entries past the size limit", func() {
			first := common.CacheKey("test", "evict-0")
			Expect(common.CacheSet(first, []byte("v"))).To(BeNil())

			for ii := 1; ii <= 16; ii++ {
				key := common.CacheKey("test", "evict", string(rune('a'+ii)))
				Expect(common.CacheSet(key, []byte("v"))).To(BeNil())
			}

			_, err := common.CacheGet(first)
			Expect(errors.Is(err, common.ErrCacheMiss)).To(BeTrue())
		})
	})
})
