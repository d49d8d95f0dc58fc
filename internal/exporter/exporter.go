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
	"io"
	"os"
	"path/filepath"

	"github.com/sirseerhq/github-export/internal/assets"
	"github.com/sirseerhq/github-export/internal/github"
	"github.com/sirseerhq/github-export/internal/logger"
	"github.com/sirseerhq/github-export/internal/metadata"
	"github.com/sirseerhq/github-export/internal/output"
)

// Options configures an Exporter.
type Options struct {
	// OutputDir receives the JSON files, the manifest and the assets.
	OutputDir string

	// Workers is the number of parallel asset download workers.
	Workers int

	// Force re-downloads assets that already exist locally.
	Force bool

	// Report receives the asset check lines. Defaults to os.Stdout.
	Report io.Writer

	// Info, when set, is queried for repository totals before ExportAll.
	Info github.InfoClient

	// Tracker, when set, records statistics for the run.
	Tracker *metadata.Tracker
}

// Exporter exports one repository through a github.Client.
type Exporter struct {
	client github.Client
	opts   Options
}

// New returns an Exporter. A zero OutputDir means the current directory,
// zero Workers means assets.DefaultWorkers and negative Workers means 1.
func New(client github.Client, opts Options) *Exporter {
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	switch {
	case opts.Workers == 0:
		opts.Workers = assets.DefaultWorkers
	case opts.Workers < 0:
		opts.Workers = 1
	}
	if opts.Report == nil {
		opts.Report = os.Stdout
	}
	return &Exporter{client: client, opts: opts}
}

// OutputDir returns the directory the exporter writes to.
func (e *Exporter) OutputDir() string {
	return e.opts.OutputDir
}

// Export fetches the named resource and writes it to its file.
func (e *Exporter) Export(ctx context.Context, name, owner, repo string) error {
	r, err := Lookup(name)
	if err != nil {
		return err
	}
	return e.export(ctx, r, owner, repo)
}

func (e *Exporter) export(ctx context.Context, r Resource, owner, repo string) error {
	logger.Info("exporting %s of %s/%s", r.Name, owner, repo)

	doc, count, err := r.fetch(ctx, e.client, owner, repo, r.Params)
	if err != nil {
		return fmt.Errorf("export %s: %w", r.Name, err)
	}

	path := filepath.Join(e.opts.OutputDir, r.File)
	if err := output.WriteFile(path, doc); err != nil {
		return fmt.Errorf("export %s: %w", r.Name, err)
	}

	logger.Debug("wrote %d %s to %s", count, r.Name, path)
	if e.opts.Tracker != nil {
		e.opts.Tracker.RecordResource(r.Name, count)
	}
	return nil
}

// ExportAll exports every resource in table order and then runs the asset
// pipeline. The first error aborts the remaining steps.
func (e *Exporter) ExportAll(ctx context.Context, owner, repo string) error {
	e.recordTotals(ctx, owner, repo)

	for _, r := range resources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.export(ctx, r, owner, repo); err != nil {
			return err
		}
	}
	return e.Assets(ctx)
}

// recordTotals asks the info client for repository totals. Failures only
// cost the comparison in the run summary, so they are logged and ignored.
func (e *Exporter) recordTotals(ctx context.Context, owner, repo string) {
	if e.opts.Info == nil || e.opts.Tracker == nil {
		return
	}
	info, err := e.opts.Info.GetRepositoryInfo(ctx, owner, repo)
	if err != nil {
		logger.Debug("repository totals unavailable: %v", err)
		return
	}
	e.opts.Tracker.SetExpected(metadata.RepositoryTotals{
		Issues:       info.Issues,
		PullRequests: info.PullRequests,
		Milestones:   info.Milestones,
		Releases:     info.Releases,
		Labels:       info.Labels,
	})
}
