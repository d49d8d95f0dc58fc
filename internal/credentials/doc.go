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

// Package credentials resolves the GitHub access token used by the export
// commands. An explicit token or one from the environment is used as-is;
// otherwise the user is prompted for login, password and an optional
// two-factor code, and a new token is created through the authorizations
// endpoint. The token is only kept in memory.
package credentials
