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
	"io"
)

// Client defines the interface for reading repository content from GitHub.
// Every List method follows pagination to the last page before returning.
// This interface allows for easy mocking in tests.
type Client interface {
	// GetRepository returns the repository itself.
	GetRepository(ctx context.Context, owner, repo string) (Record, error)

	// ListMilestones returns the repository's milestones.
	ListMilestones(ctx context.Context, owner, repo string, params ListParams) ([]Record, error)

	// ListReleases returns the repository's releases.
	ListReleases(ctx context.Context, owner, repo string, params ListParams) ([]Record, error)

	// ListLabels returns the repository's labels.
	ListLabels(ctx context.Context, owner, repo string, params ListParams) ([]Record, error)

	// ListIssues returns the repository's issues, including pull requests.
	ListIssues(ctx context.Context, owner, repo string, params ListParams) ([]Record, error)

	// ListIssueComments returns every issue comment in the repository.
	ListIssueComments(ctx context.Context, owner, repo string, params ListParams) ([]Record, error)

	// ListRepositoryEvents returns the repository's activity events.
	ListRepositoryEvents(ctx context.Context, owner, repo string, params ListParams) ([]Record, error)

	// ListIssueEvents returns the events of every issue in the repository.
	ListIssueEvents(ctx context.Context, owner, repo string, params ListParams) ([]Record, error)

	Fetcher
}

// Fetcher downloads arbitrary URLs with the client's credentials, so
// assets attached to private repositories are reachable.
type Fetcher interface {
	Download(ctx context.Context, rawURL string, w io.Writer) error
}

// InfoClient reports repository totals.
type InfoClient interface {
	GetRepositoryInfo(ctx context.Context, owner, repo string) (*RepositoryInfo, error)
}
