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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	gh "github.com/google/go-github/v80/github"
	"github.com/google/go-querystring/query"

	"github.com/sirseerhq/github-export/internal/giterror"
)

// RESTClient implements Client over the GitHub REST API. It is safe for
// concurrent use; the asset downloader shares one instance across workers.
type RESTClient struct {
	gh        *gh.Client
	inspector giterror.Inspector
	requests  atomic.Int64
}

// NewRESTClient creates a client that sends requests through httpClient to
// endpoint. An empty endpoint keeps go-github's public API default.
func NewRESTClient(httpClient *http.Client, endpoint string) (*RESTClient, error) {
	client := gh.NewClient(httpClient)
	if endpoint != "" {
		baseURL, err := parseEndpoint(endpoint)
		if err != nil {
			return nil, err
		}
		client.BaseURL = baseURL
	}
	client.UserAgent = userAgent

	return &RESTClient{
		gh:        client,
		inspector: giterror.NewInspector(),
	}, nil
}

// parseEndpoint parses an API base URL, adding the trailing slash
// go-github requires for relative request paths.
func parseEndpoint(endpoint string) (*url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid API endpoint %q: %w", endpoint, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API endpoint %q: scheme and host required", endpoint)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

// Requests returns the number of API requests issued so far.
func (c *RESTClient) Requests() int64 {
	return c.requests.Load()
}

// GetRepository implements Client.
func (c *RESTClient) GetRepository(ctx context.Context, owner, repo string) (Record, error) {
	req, err := c.gh.NewRequest(http.MethodGet, repoPath(owner, repo, ""), nil)
	if err != nil {
		return nil, err
	}

	var record Record
	if _, err := c.do(ctx, req, &record); err != nil {
		return nil, c.wrapError(err, "get repository")
	}
	return record, nil
}

// ListMilestones implements Client.
func (c *RESTClient) ListMilestones(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return c.listAll(ctx, repoPath(owner, repo, "milestones"), params, "list milestones")
}

// ListReleases implements Client.
func (c *RESTClient) ListReleases(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return c.listAll(ctx, repoPath(owner, repo, "releases"), params, "list releases")
}

// ListLabels implements Client.
func (c *RESTClient) ListLabels(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return c.listAll(ctx, repoPath(owner, repo, "labels"), params, "list labels")
}

// ListIssues implements Client.
func (c *RESTClient) ListIssues(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return c.listAll(ctx, repoPath(owner, repo, "issues"), params, "list issues")
}

// ListIssueComments implements Client.
func (c *RESTClient) ListIssueComments(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return c.listAll(ctx, repoPath(owner, repo, "issues/comments"), params, "list issue comments")
}

// ListRepositoryEvents implements Client.
func (c *RESTClient) ListRepositoryEvents(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return c.listAll(ctx, repoPath(owner, repo, "events"), params, "list repository events")
}

// ListIssueEvents implements Client.
func (c *RESTClient) ListIssueEvents(ctx context.Context, owner, repo string, params ListParams) ([]Record, error) {
	return c.listAll(ctx, repoPath(owner, repo, "issues/events"), params, "list issue events")
}

// Download writes the body of rawURL to w. The request goes through the
// authenticated transport; non-2xx responses are returned as errors.
func (c *RESTClient) Download(ctx context.Context, rawURL string, w io.Writer) error {
	req, err := c.gh.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("invalid asset url %q: %w", rawURL, err)
	}
	req.Header.Set("Accept", "*/*")

	if _, err := c.do(ctx, req, w); err != nil {
		return c.wrapError(err, "download "+rawURL)
	}
	return nil
}

// listAll requests every page of path and concatenates the records in the
// order the pages were returned.
func (c *RESTClient) listAll(ctx context.Context, path string, params ListParams, operation string) ([]Record, error) {
	all := []Record{}
	page := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		u, err := withQuery(path, params, page)
		if err != nil {
			return nil, err
		}
		req, err := c.gh.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		var batch []Record
		resp, err := c.do(ctx, req, &batch)
		if err != nil {
			return nil, c.wrapError(err, operation)
		}
		all = append(all, batch...)

		if resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return all, nil
}

func (c *RESTClient) do(ctx context.Context, req *http.Request, v any) (*gh.Response, error) {
	c.requests.Add(1)
	return c.gh.Do(ctx, req, v)
}

// wrapError attaches the operation name and the matching sentinel error.
func (c *RESTClient) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return giterror.Classify(c.inspector, fmt.Errorf("%s: %w", operation, err))
}

// listQuery combines caller parameters with paging for go-querystring.
type listQuery struct {
	ListParams
	gh.ListOptions
}

func withQuery(path string, params ListParams, page int) (string, error) {
	values, err := query.Values(listQuery{
		ListParams:  params,
		ListOptions: gh.ListOptions{Page: page, PerPage: perPage},
	})
	if err != nil {
		return "", fmt.Errorf("encode query for %s: %w", path, err)
	}
	return path + "?" + values.Encode(), nil
}

func repoPath(owner, repo, suffix string) string {
	p := fmt.Sprintf("repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}
