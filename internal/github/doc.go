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

// Package github provides the client used to read a repository's content
// from GitHub. Records are kept as raw JSON so exports carry every field
// the API returns, not just the ones a Go struct knows about.
//
// The package includes:
//   - A Client interface covering every exported resource and raw asset download
//   - A REST implementation on top of go-github with automatic pagination
//   - A GraphQL client for repository totals used in run summaries
//   - Access token creation through the authorizations endpoint
//   - A mock client for testing
//
// Basic usage:
//
//	httpClient := github.NewHTTPClient("your-github-token", false)
//	client, err := github.NewRESTClient(httpClient, "https://api.github.com/")
//	if err != nil {
//	    // Handle error
//	}
//	issues, err := client.ListIssues(ctx, "golang", "go", github.ListParams{
//	    State: "all", Sort: "created", Direction: "asc",
//	})
package github
