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
	"net/http"

	"github.com/shurcooL/graphql"

	"github.com/sirseerhq/github-export/internal/giterror"
)

// GraphQLClient reads repository totals from the GitHub GraphQL API. The
// REST API has no cheap way to count issues or releases, so these totals
// let an export report what it expected next to what it wrote.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

var _ InfoClient = (*GraphQLClient)(nil)

// NewGraphQLClient creates a GraphQL client that sends requests through
// httpClient to endpoint.
func NewGraphQLClient(httpClient *http.Client, endpoint string) *GraphQLClient {
	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: giterror.NewInspector(),
	}
}

// GetRepositoryInfo retrieves the repository's issue, pull request,
// milestone, release and label totals in a single query.
func (c *GraphQLClient) GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error) {
	var query struct {
		Repository struct {
			Issues struct {
				TotalCount graphql.Int
			} `graphql:"issues"`
			PullRequests struct {
				TotalCount graphql.Int
			} `graphql:"pullRequests"`
			Milestones struct {
				TotalCount graphql.Int
			} `graphql:"milestones"`
			Releases struct {
				TotalCount graphql.Int
			} `graphql:"releases"`
			Labels struct {
				TotalCount graphql.Int
			} `graphql:"labels"`
		} `graphql:"repository(owner: $owner, name: $repo)"`
	}

	variables := map[string]interface{}{
		"owner": graphql.String(owner),
		"repo":  graphql.String(repo),
	}

	if err := c.client.Query(ctx, &query, variables); err != nil {
		return nil, giterror.Classify(c.inspector,
			fmt.Errorf("query repository info for %s/%s: %w", owner, repo, err))
	}

	r := query.Repository
	return &RepositoryInfo{
		Issues:       int(r.Issues.TotalCount),
		PullRequests: int(r.PullRequests.TotalCount),
		Milestones:   int(r.Milestones.TotalCount),
		Releases:     int(r.Releases.TotalCount),
		Labels:       int(r.Labels.TotalCount),
	}, nil
}
