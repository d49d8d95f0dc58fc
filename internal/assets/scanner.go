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

package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// imagePattern matches Markdown image references. Neither the alt text nor
// the URL may contain brackets or parentheses respectively.
var imagePattern = regexp.MustCompile(`!\[[^\[\]]*\]\(([^()]+)\)`)

// ExtractURLs returns the capture of every image reference in text, in
// order of appearance and including duplicates. Captures are returned
// exactly as matched.
func ExtractURLs(text string) []string {
	matches := imagePattern.FindAllStringSubmatch(text, -1)
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, m[1])
	}
	return urls
}

// Scan reads every file and returns the sorted, deduplicated set of image
// URLs found in them. The result does not depend on file order.
func Scan(files []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", file, err)
		}
		for _, u := range ExtractURLs(string(data)) {
			seen[u] = struct{}{}
		}
	}

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls, nil
}

// FindJSONFiles returns every *.json file below dir, recursively, in
// lexical order.
func FindJSONFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find json files in %s: %w", dir, err)
	}
	return files, nil
}
