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
	"context"
	"fmt"

	"github.com/sirseerhq/github-export/internal/github"
)

// fetchFunc retrieves one resource. It returns the document to write and
// the number of records it holds.
type fetchFunc func(ctx context.Context, c github.Client, owner, repo string, params github.ListParams) (any, int, error)

// Resource describes one exportable resource kind.
type Resource struct {
	Name   string
	File   string
	Params github.ListParams
	fetch  fetchFunc
}

var createdAsc = github.ListParams{Sort: "created", Direction: "asc"}

// resources is the export table. ExportAll runs it in this order.
var resources = []Resource{
	{Name: "repository", File: "repository.json", fetch: fetchRepository},
	{Name: "milestones", File: "milestones.json", fetch: listWith(github.Client.ListMilestones)},
	{Name: "releases", File: "releases.json", fetch: listWith(github.Client.ListReleases)},
	{Name: "labels", File: "labels.json", fetch: listWith(github.Client.ListLabels)},
	{
		Name:   "issues",
		File:   "issues.json",
		Params: github.ListParams{State: "all", Sort: "created", Direction: "asc"},
		fetch:  listWith(github.Client.ListIssues),
	},
	{Name: "comments", File: "comments.json", Params: createdAsc, fetch: listWith(github.Client.ListIssueComments)},
	{Name: "events", File: "events.json", Params: createdAsc, fetch: listWith(github.Client.ListRepositoryEvents)},
	{Name: "issue_events", File: "issue_events.json", Params: createdAsc, fetch: listWith(github.Client.ListIssueEvents)},
}

// Resources returns the export table in execution order.
func Resources() []Resource {
	out := make([]Resource, len(resources))
	copy(out, resources)
	return out
}

// Lookup returns the resource with the given name.
func Lookup(name string) (Resource, error) {
	for _, r := range resources {
		if r.Name == name {
			return r, nil
		}
	}
	return Resource{}, fmt.Errorf("unknown resource %q", name)
}

func fetchRepository(ctx context.Context, c github.Client, owner, repo string, _ github.ListParams) (any, int, error) {
	rec, err := c.GetRepository(ctx, owner, repo)
	if err != nil {
		return nil, 0, err
	}
	return rec, 1, nil
}

type listMethod func(c github.Client, ctx context.Context, owner, repo string, params github.ListParams) ([]github.Record, error)

func listWith(method listMethod) fetchFunc {
	return func(ctx context.Context, c github.Client, owner, repo string, params github.ListParams) (any, int, error) {
		records, err := method(c, ctx, owner, repo, params)
		if err != nil {
			return nil, 0, err
		}
		if records == nil {
			records = []github.Record{}
		}
		return records, len(records), nil
	}
}
