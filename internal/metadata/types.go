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

// Package metadata types define the run record written after a full
// export: what was requested, what was written and how long it took.
package metadata

import (
	"time"
)

// ExportMetadata is the complete record for a single export run.
type ExportMetadata struct {
	ToolVersion string        `json:"tool_version"`
	ExportID    string        `json:"export_id"`
	Parameters  ExportParams  `json:"parameters"`
	Results     ExportResults `json:"results"`
}

// ExportParams captures the inputs of a run.
type ExportParams struct {
	Owner      string `json:"owner"`
	Repository string `json:"repository"`
	OutputDir  string `json:"output_dir"`
	ClientNum  int    `json:"client_num"`
	Force      bool   `json:"force"`
}

// RepositoryTotals holds the counts GitHub reports for the repository,
// used to compare against what was exported.
type RepositoryTotals struct {
	Issues       int `json:"issues"`
	PullRequests int `json:"pull_requests"`
	Milestones   int `json:"milestones"`
	Releases     int `json:"releases"`
	Labels       int `json:"labels"`
}

// AssetStats summarizes the asset pipeline of a run.
type AssetStats struct {
	Listed  int `json:"listed"`
	Fetched int `json:"fetched"`
	Skipped int `json:"skipped"`
	Missing int `json:"missing"`
}

// ExportResults contains the statistics of a completed run.
type ExportResults struct {
	Records      map[string]int    `json:"records"`
	Expected     *RepositoryTotals `json:"expected,omitempty"`
	Assets       AssetStats        `json:"assets"`
	APICallCount int64             `json:"api_calls_made"`
	Duration     string            `json:"duration"`
	StartedAt    time.Time         `json:"started_at"`
	CompletedAt  time.Time         `json:"completed_at"`
}
