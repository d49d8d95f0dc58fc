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

import "encoding/json"

// Record is one API resource exactly as the server returned it.
type Record = json.RawMessage

// ListParams are the query parameters passed to list endpoints. Empty
// fields are omitted from the request.
type ListParams struct {
	State     string `url:"state,omitempty"`
	Sort      string `url:"sort,omitempty"`
	Direction string `url:"direction,omitempty"`
}

// perPage is the page size requested from every list endpoint; GitHub caps
// it at 100.
const perPage = 100

// RepositoryInfo holds repository totals reported by the GraphQL API.
// Issues excludes pull requests, unlike the REST issues endpoint.
type RepositoryInfo struct {
	Issues       int
	PullRequests int
	Milestones   int
	Releases     int
	Labels       int
}

// AuthorizationRequest is the body sent when creating an access token.
type AuthorizationRequest struct {
	Scopes []string `json:"scopes"`
	Note   string   `json:"note"`
}

// Authorization is the subset of the authorization response we use.
type Authorization struct {
	ID     int64    `json:"id"`
	Token  string   `json:"token"`
	Note   string   `json:"note"`
	Scopes []string `json:"scopes"`
}
