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

// Package main implements the github-export command-line interface.
// It exports the content of a GitHub repository (repository, milestones,
// releases, labels, issues, comments, events and issue events) to
// pretty-printed JSON files, then finds the images referenced from
// Markdown in those files, downloads them and reports which are present.
//
// Usage:
//
//	github-export all <owner>/<repo> [-d <dir>] [-t <token>]
//	github-export issues <owner>/<repo>
//	github-export assets_list [files...]
//	github-export assets_download [--client-num N] [--force]
//	github-export assets_check
//
// The access token is taken from --access-token, then from the
// environment variable named in the configuration (GITHUB_TOKEN by
// default). Without either, the user is prompted for login, password and
// an optional two-factor code and a new token is created.
//
// Exit codes:
//   - 0: Success
//   - 1: Any failure
package main
