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

// Package exporter writes the content of a GitHub repository to JSON files
// and runs the asset pipeline over them.
//
// Each resource kind is fetched completely (every page) and written as one
// pretty-printed JSON array to <output_dir>/<resource>.json; the repository
// itself is written as a single object. ExportAll runs the fixed resource
// table in order and then scans the written files for Markdown images,
// downloads them and reports which are present.
package exporter
