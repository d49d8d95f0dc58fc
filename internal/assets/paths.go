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
	"net/url"
	"path"
	"path/filepath"
)

// DestinationPath returns where rawURL is stored below outputDir: the URL's
// path component, cleaned as an absolute path so ".." cannot climb out of
// outputDir.
func DestinationPath(outputDir, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse asset url %q: %w", rawURL, err)
	}

	p := path.Clean("/" + u.Path)
	if p == "/" {
		return "", fmt.Errorf("asset url %q has no path", rawURL)
	}
	return filepath.Join(outputDir, filepath.FromSlash(p)), nil
}
