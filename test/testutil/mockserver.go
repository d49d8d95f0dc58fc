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

// Package testutil provides a fake GitHub server and file helpers for
// tests that exercise github-export end to end.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Fixture describes the content served by a MockServer.
type Fixture struct {
	Owner string
	Repo  string

	// Repository is served at /repos/{owner}/{repo}.
	Repository map[string]any

	// Lists maps a path below /repos/{owner}/{repo}/ (for example
	// "issues" or "issues/comments") to the records served there.
	Lists map[string][]map[string]any

	// Assets maps a URL path to the bytes served for it.
	Assets map[string][]byte

	// Totals is returned from the GraphQL endpoint, keyed by connection
	// name ("issues", "pullRequests", ...).
	Totals map[string]int

	// PageSize is the number of records per page. Defaults to 2 so that
	// small fixtures still span several pages.
	PageSize int

	// Token, when set, is the only bearer token accepted.
	Token string
}

// MockServer is an httptest server that answers the GitHub REST and
// GraphQL requests made by github-export.
type MockServer struct {
	*httptest.Server

	fixture Fixture

	mu       sync.Mutex
	requests []*url.URL
}

// NewMockServer starts a server for fixture and closes it when the test
// ends.
func NewMockServer(t *testing.T, fixture Fixture) *MockServer {
	t.Helper()
	if fixture.PageSize < 1 {
		fixture.PageSize = 2
	}

	s := &MockServer{fixture: fixture}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// NewErrorServer creates a mock server that always returns the specified
// status with a GitHub style error body.
func NewErrorServer(t *testing.T, statusCode int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": http.StatusText(statusCode)})
	}))
	t.Cleanup(server.Close)
	return server
}

// SetList replaces the records served at a path below the repository.
// Fixtures whose records reference the server's own URL are built this way.
func (s *MockServer) SetList(path string, records []map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fixture.Lists == nil {
		s.fixture.Lists = map[string][]map[string]any{}
	}
	s.fixture.Lists[path] = records
}

// AssetURL returns the absolute URL of an asset path on this server.
func (s *MockServer) AssetURL(path string) string {
	return s.URL + path
}

// RequestCount returns the number of requests received.
func (s *MockServer) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// Requests returns the URLs requested for path, in arrival order.
func (s *MockServer) Requests(path string) []*url.URL {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*url.URL
	for _, u := range s.requests {
		if u.Path == path {
			out = append(out, u)
		}
	}
	return out
}

func (s *MockServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	u := *r.URL
	s.requests = append(s.requests, &u)
	s.mu.Unlock()

	if s.fixture.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.fixture.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}

	if data, ok := s.fixture.Assets[r.URL.Path]; ok {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(data)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/graphql" {
		s.handleGraphQL(w)
		return
	}

	prefix := fmt.Sprintf("/repos/%s/%s", s.fixture.Owner, s.fixture.Repo)
	switch {
	case r.URL.Path == prefix:
		writeJSON(w, http.StatusOK, s.fixture.Repository)
	case strings.HasPrefix(r.URL.Path, prefix+"/"):
		s.mu.Lock()
		records, ok := s.fixture.Lists[strings.TrimPrefix(r.URL.Path, prefix+"/")]
		s.mu.Unlock()
		if !ok {
			records = []map[string]any{}
		}
		s.writePage(w, r, records)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

// writePage serves the requested page of records with a GitHub style Link
// header pointing at the next page.
func (s *MockServer) writePage(w http.ResponseWriter, r *http.Request, records []map[string]any) {
	size := s.fixture.PageSize
	if pp, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && pp > 0 && pp < size {
		size = pp
	}

	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}

	start := (page - 1) * size
	if start > len(records) {
		start = len(records)
	}
	end := start + size
	if end > len(records) {
		end = len(records)
	}

	if end < len(records) {
		next := *r.URL
		q := next.Query()
		q.Set("page", strconv.Itoa(page+1))
		next.RawQuery = q.Encode()
		w.Header().Set("Link", fmt.Sprintf(`<http://%s%s>; rel="next"`, r.Host, next.RequestURI()))
	}

	writeJSON(w, http.StatusOK, records[start:end])
}

func (s *MockServer) handleGraphQL(w http.ResponseWriter) {
	repo := map[string]any{}
	for _, name := range []string{"issues", "pullRequests", "milestones", "releases", "labels"} {
		repo[name] = map[string]any{"totalCount": s.fixture.Totals[name]}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"repository": repo}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
