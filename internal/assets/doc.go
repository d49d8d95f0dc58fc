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

// Package assets finds, downloads and verifies the images referenced from
// exported records.
//
// The pipeline has three steps that share a manifest file:
//   - Scan extracts Markdown image URLs from exported JSON and writes the
//     sorted, deduplicated list to the manifest
//   - Downloader fetches every manifest URL into the output directory,
//     skipping files that already exist unless forced
//   - Verify reports, per manifest URL, whether the file exists locally
//
// A URL's local path is its path component below the output directory,
// so two URLs that differ only by host or query share a destination.
package assets
