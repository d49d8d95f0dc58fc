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
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/sirseerhq/github-export/internal/github"
	"github.com/sirseerhq/github-export/internal/logger"
)

// Options configures the downloader.
type Options struct {
	// Workers is the number of parallel download workers. Values below 1
	// are clamped to 1.
	Workers int

	// Force re-downloads assets whose destination already exists.
	Force bool
}

// Result summarizes a download run.
type Result struct {
	Fetched int
	Skipped int
}

// WorkerError reports the URL that stopped a worker. The worker's
// remaining URLs are not attempted; other workers are unaffected.
type WorkerError struct {
	Worker int
	URL    string
	Err    error
}

func (e *WorkerError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("worker %d: %v", e.Worker, e.Err)
	}
	return fmt.Sprintf("worker %d: %s: %v", e.Worker, e.URL, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}

// Downloader fetches manifest URLs into an output directory.
type Downloader struct {
	fetcher   github.Fetcher
	outputDir string
	opts      Options
}

// NewDownloader returns a Downloader that fetches through fetcher and
// writes below outputDir.
func NewDownloader(fetcher github.Fetcher, outputDir string, opts Options) *Downloader {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Downloader{fetcher: fetcher, outputDir: outputDir, opts: opts}
}

// Run partitions urls round-robin across the workers, runs every worker
// concurrently and waits for all of them. At most Workers fetches are in
// flight at once and each URL is attempted at most once. The returned error
// joins the WorkerError of every worker that stopped early.
func (d *Downloader) Run(ctx context.Context, urls []string) (Result, error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		errs    []error
		fetched atomic.Int64
		skipped atomic.Int64
	)

	for id, bucket := range Partition(urls, d.opts.Workers) {
		if len(bucket) == 0 {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.work(ctx, id, bucket, &fetched, &skipped); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	result := Result{Fetched: int(fetched.Load()), Skipped: int(skipped.Load())}
	return result, errors.Join(errs...)
}

// work processes one bucket in order, stopping at the first failure. A
// panic is converted into the worker's error.
func (d *Downloader) work(ctx context.Context, id int, urls []string, fetched, skipped *atomic.Int64) (err error) {
	current := ""
	defer func() {
		if r := recover(); r != nil {
			err = &WorkerError{Worker: id, URL: current, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	for _, u := range urls {
		current = u
		if ctxErr := ctx.Err(); ctxErr != nil {
			return &WorkerError{Worker: id, URL: u, Err: ctxErr}
		}

		didFetch, err := d.download(ctx, u)
		if err != nil {
			return &WorkerError{Worker: id, URL: u, Err: err}
		}
		if didFetch {
			fetched.Add(1)
		} else {
			skipped.Add(1)
		}
	}
	return nil
}

// download stores one asset. It reports false when the destination already
// existed and was left alone.
func (d *Downloader) download(ctx context.Context, rawURL string) (bool, error) {
	dest, err := DestinationPath(d.outputDir, rawURL)
	if err != nil {
		return false, err
	}

	if !d.opts.Force {
		if _, err := os.Stat(dest); err == nil {
			logger.Debug("skip %s: %s exists", rawURL, dest)
			return false, nil
		}
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}

	logger.Debug("download %s -> %s", rawURL, dest)
	if err := d.fetchTo(ctx, rawURL, dest); err != nil {
		return false, err
	}
	return true, nil
}

// fetchTo writes the asset to a temporary file next to dest and renames
// it into place, so a failed fetch never leaves a partial file behind.
func (d *Downloader) fetchTo(ctx context.Context, rawURL, dest string) error {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	done := false
	defer func() {
		if !done {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err := d.fetcher.Download(ctx, rawURL, tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("move into place: %w", err)
	}
	done = true
	return nil
}
