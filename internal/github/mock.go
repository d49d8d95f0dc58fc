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

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	exporterrors "github.com/sirseerhq/github-export/internal/errors"
)

// MockCall records one invocation of a MockClient method.
type MockCall struct {
	Method string
	Owner  string
	Repo   string
	Params ListParams
}

// MockClient is a mock implementation of the Client and InfoClient
// interfaces for testing. It is safe for concurrent use.
type MockClient struct {
	mu sync.Mutex

	// Repository is returned by GetRepository.
	Repository Record

	// Lists holds the records returned by each List method, keyed by
	// method name (for example "ListIssues").
	Lists map[string][]Record

	// Assets maps a URL to the bytes Download writes.
	Assets map[string][]byte

	// Info is returned by GetRepositoryInfo.
	Info *RepositoryInfo

	// Errors makes the named method fail with the given error.
	Errors map[string]error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	Calls     []MockCall
	Downloads map[string]int
}

var (
	_ Client     = (*MockClient)(nil)
	_ InfoClient = (*MockClient)(nil)
)

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	return &MockClient{
		Repository: Record(`{"id":1,"full_name":"octocat/hello-world","private":false}`),
		Lists:      generateTestLists(),
		Assets:     map[string][]byte{},
		Errors:     map[string]error{},
		Downloads:  map[string]int{},
		Info:       &RepositoryInfo{Issues: 2, PullRequests: 1, Milestones: 1, Releases: 1, Labels: 2},
	}
}

func (m *MockClient) record(ctx context.Context, method, owner, repo string, params ListParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Method: method, Owner: owner, Repo: repo, Params: params})

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", exporterrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", exporterrors.ErrNetworkFailure)
	}
	if m.ShouldFailNotFound || (owner == "nonexistent" && repo == "repo") {
		return fmt.Errorf("repository not found: %w", exporterrors.ErrRepoNotFound)
	}
	if err := m.Errors[method]; err != nil {
		return err
	}
	return nil
}

func (m *MockClient) list(ctx context.Context, method, owner, repo string, params ListParams) ([]Record, error) {
	if err := m.record(ctx, method, owner, repo, params); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	records := append([]Record{}, m.Lists[method]...)
	return records, nil
}

// GetRepository implements Client.
func (m *MockClient) GetRepository(ctx context.Context, owner, repo string) (Record, error) {
	if err := m.record(ctx, "GetRepository", owner, repo, ListParams{}); err != nil {
		return nil, err
	}
	return m.Repository, nil
}

// ListMilestones implements Client.
func (m *MockClient) ListMilestones(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return m.list(ctx, "ListMilestones", owner, repo, params)
}

// ListReleases implements Client.
func (m *MockClient) ListReleases(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return m.list(ctx, "ListReleases", owner, repo, params)
}

// ListLabels implements Client.
func (m *MockClient) ListLabels(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return m.list(ctx, "ListLabels", owner, repo, params)
}

// ListIssues implements Client.
func (m *MockClient) ListIssues(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return m.list(ctx, "ListIssues", owner, repo, params)
}

// ListIssueComments implements Client.
func (m *MockClient) ListIssueComments(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return m.list(ctx, "ListIssueComments", owner, repo, params)
}

// ListRepositoryEvents implements Client.
func (m *MockClient) ListRepositoryEvents(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return m.list(ctx, "ListRepositoryEvents", owner, repo, params)
}

// ListIssueEvents implements Client.
func (m *MockClient) ListIssueEvents(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return m.list(ctx, "ListIssueEvents", owner, repo, params)
}

// Download implements Fetcher. Unknown URLs fail like a 404 would.
func (m *MockClient) Download(ctx context.Context, rawURL string, w io.Writer) error {
	if err := m.record(ctx, "Download", "", "", ListParams{}); err != nil {
		return err
	}

	m.mu.Lock()
	m.Downloads[rawURL]++
	data, ok := m.Assets[rawURL]
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("download %s: %w", rawURL, exporterrors.ErrRepoNotFound)
	}
	_, err := w.Write(data)
	return err
}

// GetRepositoryInfo implements InfoClient.
func (m *MockClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	if err := m.record(ctx, "GetRepositoryInfo", owner, repo, ListParams{}); err != nil {
		return nil, err
	}
	info := *m.Info
	return &info, nil
}

// Methods returns the method names called so far, in call order.
func (m *MockClient) Methods() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	methods := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		methods[i] = c.Method
	}
	return methods
}

// LastCall returns the most recent call to method.
func (m *MockClient) LastCall(method string) (MockCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := len(m.Calls) - 1; i >= 0; i-- {
		if m.Calls[i].Method == method {
			return m.Calls[i], true
		}
	}
	return MockCall{}, false
}

// DownloadCount returns the total number of Download calls.
func (m *MockClient) DownloadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := 0
	for _, n := range m.Downloads {
		total += n
	}
	return total
}

func mustRecord(v any) Record {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// generateTestLists creates sample records for every list endpoint. Issue
// and comment bodies reference the same image twice plus one other image.
func generateTestLists() map[string][]Record {
	return map[string][]Record{
		"ListMilestones": {
			mustRecord(map[string]any{"number": 1, "title": "v1.0", "state": "open"}),
		},
		"ListReleases": {
			mustRecord(map[string]any{"id": 10, "tag_name": "v1.0.0", "body": "First release"}),
		},
		"ListLabels": {
			mustRecord(map[string]any{"name": "bug", "color": "d73a4a"}),
			mustRecord(map[string]any{"name": "enhancement", "color": "a2eeef"}),
		},
		"ListIssues": {
			mustRecord(map[string]any{"number": 1, "title": "Crash on start", "body": "See ![trace](https://user-images.githubusercontent.com/1/trace.png)"}),
			mustRecord(map[string]any{"number": 2, "title": "Add dark mode", "body": "Mockup ![mock](https://user-images.githubusercontent.com/1/mock.png)"}),
		},
		"ListIssueComments": {
			mustRecord(map[string]any{"id": 100, "body": "Same here ![trace](https://user-images.githubusercontent.com/1/trace.png)"}),
		},
		"ListRepositoryEvents": {
			mustRecord(map[string]any{"id": "1", "type": "IssuesEvent"}),
		},
		"ListIssueEvents": {
			mustRecord(map[string]any{"id": 1000, "event": "closed"}),
		},
	}
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithList sets the records returned by a List method.
func WithList(method string, records []Record) MockClientOption {
	return func(m *MockClient) {
		m.Lists[method] = records
	}
}

// WithAsset registers the bytes returned for url.
func WithAsset(url string, data []byte) MockClientOption {
	return func(m *MockClient) {
		m.Assets[url] = data
	}
}

// WithError makes method fail with err.
func WithError(method string, err error) MockClientOption {
	return func(m *MockClient) {
		m.Errors[method] = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
