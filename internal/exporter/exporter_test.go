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

package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirseerhq/github-export/internal/assets"
	exporterrors "github.com/sirseerhq/github-export/internal/errors"
	"github.com/sirseerhq/github-export/internal/github"
	"github.com/sirseerhq/github-export/internal/metadata"
)

const (
	traceURL = "https://user-images.githubusercontent.com/1/trace.png"
	mockURL  = "https://user-images.githubusercontent.com/1/mock.png"
)

func newTestExporter(t *testing.T, client github.Client) (*Exporter, *bytes.Buffer) {
	t.Helper()
	var report bytes.Buffer
	return New(client, Options{OutputDir: t.TempDir(), Workers: 2, Report: &report}), &report
}

func readJSON(t *testing.T, path string) any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var v any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestResources_Order(t *testing.T) {
	var names []string
	for _, r := range Resources() {
		names = append(names, r.Name)
		assert.Equal(t, r.Name+".json", r.File)
	}
	assert.Equal(t, []string{
		"repository", "milestones", "releases", "labels",
		"issues", "comments", "events", "issue_events",
	}, names)
}

func TestLookup(t *testing.T) {
	r, err := Lookup("issues")
	require.NoError(t, err)
	assert.Equal(t, github.ListParams{State: "all", Sort: "created", Direction: "asc"}, r.Params)

	_, err = Lookup("pulls")
	assert.Error(t, err)
}

func TestExport_RequestParams(t *testing.T) {
	tests := []struct {
		resource string
		method   string
		want     github.ListParams
	}{
		{"milestones", "ListMilestones", github.ListParams{}},
		{"releases", "ListReleases", github.ListParams{}},
		{"labels", "ListLabels", github.ListParams{}},
		{"issues", "ListIssues", github.ListParams{State: "all", Sort: "created", Direction: "asc"}},
		{"comments", "ListIssueComments", github.ListParams{Sort: "created", Direction: "asc"}},
		{"events", "ListRepositoryEvents", github.ListParams{Sort: "created", Direction: "asc"}},
		{"issue_events", "ListIssueEvents", github.ListParams{Sort: "created", Direction: "asc"}},
	}

	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			mock := github.NewMockClient()
			e, _ := newTestExporter(t, mock)

			require.NoError(t, e.Export(context.Background(), tt.resource, "octocat", "hello-world"))

			call, ok := mock.LastCall(tt.method)
			require.True(t, ok, "expected %s to be called", tt.method)
			assert.Equal(t, "octocat", call.Owner)
			assert.Equal(t, "hello-world", call.Repo)
			assert.Equal(t, tt.want, call.Params)
		})
	}
}

func TestExport_WritesPrettyJSON(t *testing.T) {
	mock := github.NewMockClient()
	e, _ := newTestExporter(t, mock)

	require.NoError(t, e.Export(context.Background(), "labels", "octocat", "hello-world"))

	data, err := os.ReadFile(filepath.Join(e.OutputDir(), "labels.json"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \""), "not indented: %q", data)
	assert.True(t, strings.HasSuffix(string(data), "]\n"))

	labels, ok := readJSON(t, filepath.Join(e.OutputDir(), "labels.json")).([]any)
	require.True(t, ok)
	assert.Len(t, labels, 2)
}

func TestExport_RepositoryIsObject(t *testing.T) {
	mock := github.NewMockClient()
	e, _ := newTestExporter(t, mock)

	require.NoError(t, e.Export(context.Background(), "repository", "octocat", "hello-world"))

	repo, ok := readJSON(t, filepath.Join(e.OutputDir(), "repository.json")).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "octocat/hello-world", repo["full_name"])
}

func TestExport_EmptyListWritesArray(t *testing.T) {
	mock := github.NewMockClientWithOptions(github.WithList("ListReleases", nil))
	e, _ := newTestExporter(t, mock)

	require.NoError(t, e.Export(context.Background(), "releases", "octocat", "hello-world"))

	data, err := os.ReadFile(filepath.Join(e.OutputDir(), "releases.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestExport_PreservesUnknownFields(t *testing.T) {
	rec := github.Record(`{"id":7,"custom_field":{"nested":[1,2,3]},"body":"a & b <c>"}`)
	mock := github.NewMockClientWithOptions(github.WithList("ListIssues", []github.Record{rec}))
	e, _ := newTestExporter(t, mock)

	require.NoError(t, e.Export(context.Background(), "issues", "o", "r"))

	data, err := os.ReadFile(filepath.Join(e.OutputDir(), "issues.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"custom_field"`)
	assert.Contains(t, string(data), `a & b <c>`)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, []any{1.0, 2.0, 3.0}, got[0]["custom_field"].(map[string]any)["nested"])
}

func TestExport_Errors(t *testing.T) {
	t.Run("unknown resource", func(t *testing.T) {
		e, _ := newTestExporter(t, github.NewMockClient())
		assert.Error(t, e.Export(context.Background(), "pulls", "o", "r"))
	})

	t.Run("client failure writes nothing", func(t *testing.T) {
		mock := github.NewMockClientWithOptions(github.WithError("ListLabels", exporterrors.ErrRateLimit))
		e, _ := newTestExporter(t, mock)

		err := e.Export(context.Background(), "labels", "o", "r")
		assert.ErrorIs(t, err, exporterrors.ErrRateLimit)
		assert.NoFileExists(t, filepath.Join(e.OutputDir(), "labels.json"))
	})

	t.Run("not found", func(t *testing.T) {
		e, _ := newTestExporter(t, github.NewMockClient())
		err := e.Export(context.Background(), "repository", "nonexistent", "repo")
		assert.ErrorIs(t, err, exporterrors.ErrRepoNotFound)
	})

	t.Run("network failure", func(t *testing.T) {
		mock := github.NewMockClient()
		mock.ShouldFailNetwork = true
		e, _ := newTestExporter(t, mock)

		err := e.Export(context.Background(), "issues", "o", "r")
		assert.ErrorIs(t, err, exporterrors.ErrNetworkFailure)
		assert.NoFileExists(t, filepath.Join(e.OutputDir(), "issues.json"))
	})

	t.Run("missing repository on any owner", func(t *testing.T) {
		mock := github.NewMockClient()
		mock.ShouldFailNotFound = true
		e, _ := newTestExporter(t, mock)

		err := e.Export(context.Background(), "milestones", "octocat", "hello-world")
		assert.ErrorIs(t, err, exporterrors.ErrRepoNotFound)
	})
}

func TestNew_Workers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{"zero uses default", 0, assets.DefaultWorkers},
		{"negative clamps to one", -5, 1},
		{"positive kept", 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(github.NewMockClient(), Options{OutputDir: t.TempDir(), Workers: tt.workers})
			assert.Equal(t, tt.want, e.opts.Workers)
		})
	}
}

func TestExportAll_NegativeWorkersStillDownloads(t *testing.T) {
	mock := github.NewMockClientWithOptions(
		github.WithAsset(traceURL, []byte("trace")),
		github.WithAsset(mockURL, []byte("mock")),
	)
	var report bytes.Buffer
	e := New(mock, Options{OutputDir: t.TempDir(), Workers: -1, Report: &report})

	require.NoError(t, e.ExportAll(context.Background(), "octocat", "hello-world"))
	assert.Equal(t, 2, mock.DownloadCount())
	assert.FileExists(t, filepath.Join(e.OutputDir(), "1", "trace.png"))
}

func TestExportAll(t *testing.T) {
	mock := github.NewMockClientWithOptions(
		github.WithAsset(traceURL, []byte("trace")),
		github.WithAsset(mockURL, []byte("mock")),
	)
	e, report := newTestExporter(t, mock)

	require.NoError(t, e.ExportAll(context.Background(), "octocat", "hello-world"))

	for _, r := range Resources() {
		assert.FileExists(t, filepath.Join(e.OutputDir(), r.File))
	}

	manifest, err := os.ReadFile(filepath.Join(e.OutputDir(), "assets.txt"))
	require.NoError(t, err)
	assert.Equal(t, mockURL+"\n"+traceURL+"\n", string(manifest))

	assert.FileExists(t, filepath.Join(e.OutputDir(), "1", "trace.png"))
	assert.FileExists(t, filepath.Join(e.OutputDir(), "1", "mock.png"))
	assert.Equal(t, "OK "+mockURL+"\nOK "+traceURL+"\n", report.String())
	assert.Equal(t, 2, mock.DownloadCount())

	assert.Equal(t, []string{
		"GetRepository", "ListMilestones", "ListReleases", "ListLabels",
		"ListIssues", "ListIssueComments", "ListRepositoryEvents", "ListIssueEvents",
		"Download", "Download",
	}, mock.Methods())
}

func TestExportAll_AbortsOnFirstError(t *testing.T) {
	mock := github.NewMockClientWithOptions(github.WithError("ListIssues", exporterrors.ErrNetworkFailure))
	e, _ := newTestExporter(t, mock)

	err := e.ExportAll(context.Background(), "octocat", "hello-world")
	require.ErrorIs(t, err, exporterrors.ErrNetworkFailure)

	assert.FileExists(t, filepath.Join(e.OutputDir(), "labels.json"))
	assert.NoFileExists(t, filepath.Join(e.OutputDir(), "issues.json"))
	assert.NoFileExists(t, filepath.Join(e.OutputDir(), "comments.json"))
	assert.NoFileExists(t, filepath.Join(e.OutputDir(), "assets.txt"))
	_, called := mock.LastCall("ListIssueComments")
	assert.False(t, called)
}

func TestExportAll_AuthFailure(t *testing.T) {
	e, _ := newTestExporter(t, github.NewMockClientWithOptions(github.WithAuthFailure()))

	err := e.ExportAll(context.Background(), "octocat", "hello-world")
	assert.True(t, exporterrors.IsAuthError(err))
	assert.NoFileExists(t, filepath.Join(e.OutputDir(), "repository.json"))
}

func TestExportAll_CanceledContext(t *testing.T) {
	mock := github.NewMockClient()
	e, _ := newTestExporter(t, mock)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.ExportAll(ctx, "octocat", "hello-world")
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Empty(t, mock.Methods())
}

func TestExportAll_Tracker(t *testing.T) {
	mock := github.NewMockClientWithOptions(
		github.WithAsset(traceURL, []byte("trace")),
		github.WithAsset(mockURL, []byte("mock")),
	)
	tracker := metadata.New()
	e := New(mock, Options{
		OutputDir: t.TempDir(),
		Report:    &bytes.Buffer{},
		Info:      mock,
		Tracker:   tracker,
	})

	require.NoError(t, e.ExportAll(context.Background(), "octocat", "hello-world"))

	m := tracker.GenerateMetadata("dev", metadata.ExportParams{Owner: "octocat", Repository: "hello-world"})
	assert.Equal(t, 2, m.Results.Records["issues"])
	assert.Equal(t, 1, m.Results.Records["repository"])
	assert.Equal(t, 2, m.Results.Records["labels"])
	require.NotNil(t, m.Results.Expected)
	assert.Equal(t, 2, m.Results.Expected.Issues)
	assert.Equal(t, metadata.AssetStats{Listed: 2, Fetched: 2}, m.Results.Assets)
}

func TestExportAll_InfoFailureIgnored(t *testing.T) {
	mock := github.NewMockClientWithOptions(
		github.WithError("GetRepositoryInfo", errors.New("graphql unavailable")),
		github.WithAsset(traceURL, []byte("trace")),
		github.WithAsset(mockURL, []byte("mock")),
	)
	tracker := metadata.New()
	e := New(mock, Options{OutputDir: t.TempDir(), Report: &bytes.Buffer{}, Info: mock, Tracker: tracker})

	require.NoError(t, e.ExportAll(context.Background(), "octocat", "hello-world"))
	assert.Nil(t, tracker.GenerateMetadata("dev", metadata.ExportParams{}).Results.Expected)
}
