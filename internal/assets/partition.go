// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package assets

// DefaultWorkers is the download worker count when none is configured.
const DefaultWorkers = 3

// Partition deals urls into n buckets round-robin: url i goes to bucket
// i mod n. Each bucket keeps manifest order. n below 1 is treated as 1 and
// n is capped at len(urls), so no bucket is empty unless urls is.
func Partition(urls []string, n int) [][]string {
	if n > len(urls) {
		n = len(urls)
	}
	if n < 1 {
		n = 1
	}
	buckets := make([][]string, n)
	for i, u := range urls {
		buckets[i%n] = append(buckets[i%n], u)
	}
	return buckets
}
