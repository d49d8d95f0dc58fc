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

	"github.com/sirseerhq/github-export/internal/assets"
	"github.com/sirseerhq/github-export/internal/logger"
)

// Assets runs list, download and check over the output directory.
func (e *Exporter) Assets(ctx context.Context) error {
	files, err := assets.FindJSONFiles(e.opts.OutputDir)
	if err != nil {
		return err
	}
	if _, err := e.ListAssets(files); err != nil {
		return err
	}
	if err := e.DownloadAssets(ctx); err != nil {
		return err
	}
	_, err = e.CheckAssets()
	return err
}

// ListAssets scans files for image URLs and overwrites the manifest with
// the deduplicated, sorted result. It returns the URLs written.
func (e *Exporter) ListAssets(files []string) ([]string, error) {
	urls, err := assets.Scan(files)
	if err != nil {
		return nil, err
	}

	path := assets.ManifestPath(e.opts.OutputDir)
	if err := assets.WriteManifest(path, urls); err != nil {
		return nil, err
	}

	logger.Info("listed %d assets from %d files in %s", len(urls), len(files), path)
	if e.opts.Tracker != nil {
		e.opts.Tracker.RecordListed(len(urls))
	}
	return urls, nil
}

// DownloadAssets fetches every manifest URL that is not yet present.
func (e *Exporter) DownloadAssets(ctx context.Context) error {
	urls, err := assets.ReadManifest(assets.ManifestPath(e.opts.OutputDir))
	if err != nil {
		return err
	}

	d := assets.NewDownloader(e.client, e.opts.OutputDir, assets.Options{
		Workers: e.opts.Workers,
		Force:   e.opts.Force,
	})
	result, err := d.Run(ctx, urls)

	logger.Info("downloaded %d assets, skipped %d existing", result.Fetched, result.Skipped)
	if e.opts.Tracker != nil {
		e.opts.Tracker.RecordDownloads(result.Fetched, result.Skipped)
	}
	if err != nil {
		return fmt.Errorf("download assets: %w", err)
	}
	return nil
}

// CheckAssets writes an OK or NG line per manifest URL to the report
// writer. Missing assets are not an error.
func (e *Exporter) CheckAssets() (assets.Report, error) {
	urls, err := assets.ReadManifest(assets.ManifestPath(e.opts.OutputDir))
	if err != nil {
		return assets.Report{}, err
	}

	report := assets.Verify(e.opts.OutputDir, urls)
	if _, err := report.WriteTo(e.opts.Report); err != nil {
		return report, fmt.Errorf("write check report: %w", err)
	}

	missing := report.Missing()
	logger.Info("checked %d assets: %d ok, %d missing", len(urls), len(urls)-missing, missing)
	if e.opts.Tracker != nil {
		e.opts.Tracker.RecordMissing(missing)
	}
	return report, nil
}
