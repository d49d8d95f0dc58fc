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

// Package metadata tracks statistics about an export run and persists them
// as JSON. A Tracker is created when a run starts, fed as resources are
// written and assets processed, and turned into an ExportMetadata record at
// the end.
//
// Metadata files are named export-metadata-{unix}.json so that a directory
// of them sorts chronologically.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sirseerhq/github-export/internal/logger"
	"github.com/sirseerhq/github-export/internal/output"
)

// Tracker collects statistics during an export run. It is safe for
// concurrent use.
type Tracker struct {
	mu        sync.Mutex
	startTime time.Time
	records   map[string]int
	expected  *RepositoryTotals
	assets    AssetStats
	apiCalls  func() int64
}

// New creates a tracker started at the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
		records:   make(map[string]int),
	}
}

// RecordResource stores the number of records written for a resource.
func (t *Tracker) RecordResource(name string, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[name] = count
}

// SetExpected stores the totals reported by the API for comparison.
func (t *Tracker) SetExpected(totals RepositoryTotals) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.expected = &totals
}

// RecordListed stores the manifest size.
func (t *Tracker) RecordListed(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.assets.Listed = n
}

// RecordDownloads stores the downloader outcome.
func (t *Tracker) RecordDownloads(fetched, skipped int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.assets.Fetched = fetched
	t.assets.Skipped = skipped
}

// RecordMissing stores the number of assets reported NG by the check.
func (t *Tracker) RecordMissing(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.assets.Missing = n
}

// CountAPICalls registers the source of the API call counter, read when
// metadata is generated.
func (t *Tracker) CountAPICalls(counter func() int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apiCalls = counter
}

// GenerateMetadata creates the record for the run so far.
func (t *Tracker) GenerateMetadata(toolVersion string, params ExportParams) *ExportMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()
	records := make(map[string]int, len(t.records))
	for k, v := range t.records {
		records[k] = v
	}

	var calls int64
	if t.apiCalls != nil {
		calls = t.apiCalls()
	}

	var expected *RepositoryTotals
	if t.expected != nil {
		e := *t.expected
		expected = &e
	}

	return &ExportMetadata{
		ToolVersion: toolVersion,
		ExportID:    fmt.Sprintf("export-%d", t.startTime.Unix()),
		Parameters:  params,
		Results: ExportResults{
			Records:      records,
			Expected:     expected,
			Assets:       t.assets,
			APICallCount: calls,
			Duration:     completedAt.Sub(t.startTime).Round(time.Millisecond).String(),
			StartedAt:    t.startTime,
			CompletedAt:  completedAt,
		},
	}
}

// Log writes a one-line summary of the record at info level.
func Log(m *ExportMetadata) {
	fields := logrus.Fields{
		"repository":     m.Parameters.Owner + "/" + m.Parameters.Repository,
		"api_calls":      m.Results.APICallCount,
		"assets_listed":  m.Results.Assets.Listed,
		"assets_fetched": m.Results.Assets.Fetched,
		"assets_skipped": m.Results.Assets.Skipped,
		"assets_missing": m.Results.Assets.Missing,
		"duration":       m.Results.Duration,
	}
	for name, n := range m.Results.Records {
		fields["records_"+name] = n
	}
	if e := m.Results.Expected; e != nil {
		fields["expected_issues_and_prs"] = e.Issues + e.PullRequests
	}
	logger.WithFields(fields).Info("export finished")
}

// SaveMetadata writes the record to dir as export-metadata-{unix}.json via
// a temporary file and rename.
func SaveMetadata(m *ExportMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	filename := fmt.Sprintf("export-metadata-%d.json", m.Results.StartedAt.Unix())
	path := filepath.Join(dir, filename)
	tmpFile := path + ".tmp"

	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(m, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}
	return path, nil
}

// LoadMetadata reads a record written by SaveMetadata.
func LoadMetadata(path string) (*ExportMetadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	var m ExportMetadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &m, nil
}

// WriteMetadataToWriter serializes the record as indented JSON.
func WriteMetadataToWriter(m *ExportMetadata, w io.Writer) error {
	return output.NewWriter(w).Write(m)
}
