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

import (
	"fmt"
	"io"
	"os"
)

// Status is the verification outcome for one URL.
type Status struct {
	URL  string
	Path string
	OK   bool
}

// Report is the result of a verification pass, in manifest order.
type Report struct {
	Statuses []Status
}

// Missing returns the number of URLs without a local file.
func (r Report) Missing() int {
	n := 0
	for _, s := range r.Statuses {
		if !s.OK {
			n++
		}
	}
	return n
}

// Verify checks, for every URL, whether its destination below outputDir
// exists. URLs whose destination cannot be derived are reported missing.
// It never modifies the filesystem.
func Verify(outputDir string, urls []string) Report {
	report := Report{Statuses: make([]Status, 0, len(urls))}
	for _, u := range urls {
		s := Status{URL: u}
		if dest, err := DestinationPath(outputDir, u); err == nil {
			s.Path = dest
			_, statErr := os.Stat(dest)
			s.OK = statErr == nil
		}
		report.Statuses = append(report.Statuses, s)
	}
	return report
}

// WriteTo writes one line per URL, "OK <url>" or "NG <url>".
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, s := range r.Statuses {
		mark := "NG"
		if s.OK {
			mark = "OK"
		}
		n, err := fmt.Fprintf(w, "%s %s\n", mark, s.URL)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
