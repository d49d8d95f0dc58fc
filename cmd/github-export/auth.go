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

package main

import (
	"context"

	"github.com/sirseerhq/github-export/internal/config"
	"github.com/sirseerhq/github-export/internal/credentials"
	"github.com/sirseerhq/github-export/internal/github"
)

// clients bundles what the export commands need from GitHub.
type clients struct {
	client   github.Client
	info     github.InfoClient
	requests func() int64
}

type clientFactory func(token string, cfg *config.Config, trace bool) (*clients, error)

type authorizerFactory func(cfg *config.Config, trace bool) credentials.Authorizer

// newGitHubClients builds the REST and GraphQL clients over one
// authenticated HTTP client.
func newGitHubClients(token string, cfg *config.Config, trace bool) (*clients, error) {
	httpClient := github.NewHTTPClient(token, trace)

	rest, err := github.NewRESTClient(httpClient, cfg.GitHub.APIEndpoint)
	if err != nil {
		return nil, err
	}

	return &clients{
		client:   rest,
		info:     github.NewGraphQLClient(httpClient, cfg.GitHub.GraphQLEndpoint),
		requests: rest.Requests,
	}, nil
}

func newGitHubAuthorizer(cfg *config.Config, trace bool) credentials.Authorizer {
	return github.NewAuthorizationClient(cfg.GitHub.APIEndpoint, trace)
}

// connect resolves the access token and returns clients using it.
func (a *app) connect(ctx context.Context) (*clients, error) {
	prompter := credentials.NewPrompter(a.stdin, a.stderr)
	auth := a.newAuthorizer(a.cfg, a.verbose)

	token, err := credentials.Resolve(ctx, prompter, auth, a.tokenFlag, a.cfg.Token())
	if err != nil {
		return nil, err
	}
	return a.newClients(token, a.cfg, a.verbose)
}
