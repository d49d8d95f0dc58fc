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
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirseerhq/github-export/internal/github"
)

func mockWithAssets(urls ...string) *github.MockClient {
	opts := make([]github.MockClientOption, 0, len(urls))
	for _, u := range urls {
		opts = append(opts, github.WithAsset(u, []byte("data:"+u)))
	}
	return github.NewMockClientWithOptions(opts...)
}

func TestDownloader_Run(t *testing.T) {
	urls := []string{"http://h/a/b.png", "http://h/c/d.jpg", "http://h/e.gif"}
	mock := mockWithAssets(urls...)
	dir := t.TempDir()

	result, err := NewDownloader(mock, dir, Options{Workers: 2}).Run(context.Background(), urls)
	require.NoError(t, err)
	assert.Equal(t, Result{Fetched: 3}, result)

	for _, u := range urls {
		dest, err := DestinationPath(dir, u)
		require.NoError(t, err)
		data, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "data:"+u, string(data))
	}
}

func TestDownloader_SkipsExisting(t *testing.T) {
	urls := []string{"http://h/a/b.png", "http://h/c/d.jpg"}
	mock := mockWithAssets(urls...)
	dir := t.TempDir()
	d := NewDownloader(mock, dir, Options{Workers: DefaultWorkers})

	_, err := d.Run(context.Background(), urls)
	require.NoError(t, err)
	require.Equal(t, 2, mock.DownloadCount())

	result, err := d.Run(context.Background(), urls)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 2}, result)
	assert.Equal(t, 2, mock.DownloadCount(), "second run must not fetch")
}

func TestDownloader_ForceRefetches(t *testing.T) {
	urls := []string{"http://h/a/b.png"}
	mock := mockWithAssets(urls...)
	dir := t.TempDir()

	dest, err := DestinationPath(dir, urls[0])
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0o755))
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0o644))

	d := NewDownloader(mock, dir, Options{Workers: 1, Force: true})
	for i := 1; i <= 2; i++ {
		result, err := d.Run(context.Background(), urls)
		require.NoError(t, err)
		assert.Equal(t, Result{Fetched: 1}, result)
		assert.Equal(t, i, mock.DownloadCount())
	}

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "data:"+urls[0], string(data))
}

func TestDownloader_HugeWorkerCount(t *testing.T) {
	urls := []string{"http://h/a.png"}
	mock := mockWithAssets(urls...)
	dir := t.TempDir()

	result, err := NewDownloader(mock, dir, Options{Workers: 1 << 62}).Run(context.Background(), urls)
	require.NoError(t, err)
	assert.Equal(t, Result{Fetched: 1}, result)
	assert.FileExists(t, filepath.Join(dir, "a.png"))
}

func TestDownloader_EmptyManifest(t *testing.T) {
	mock := github.NewMockClient()
	result, err := NewDownloader(mock, t.TempDir(), Options{Workers: 3}).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
	assert.Zero(t, mock.DownloadCount())
}

func TestDownloader_WorkerFailureIsIsolated(t *testing.T) {
	// With two workers, bucket 0 is {ok0, missing, ok2} and bucket 1 is {ok1, ok3}.
	urls := []string{"http://h/ok0.png", "http://h/ok1.png", "http://h/missing.png", "http://h/ok3.png", "http://h/ok2.png"}
	mock := mockWithAssets("http://h/ok0.png", "http://h/ok1.png", "http://h/ok3.png", "http://h/ok2.png")
	dir := t.TempDir()

	result, err := NewDownloader(mock, dir, Options{Workers: 2}).Run(context.Background(), urls)
	require.Error(t, err)

	var werr *WorkerError
	require.ErrorAs(t, err, &werr)
	assert.Equal(t, 0, werr.Worker)
	assert.Equal(t, "http://h/missing.png", werr.URL)

	assert.Equal(t, 3, result.Fetched)
	assert.Equal(t, 1, mock.Downloads["http://h/missing.png"])
	assert.Zero(t, mock.Downloads["http://h/ok2.png"], "failed worker must stop")
	assert.FileExists(t, filepath.Join(dir, "ok1.png"))
	assert.FileExists(t, filepath.Join(dir, "ok3.png"))
	assert.NoFileExists(t, filepath.Join(dir, "missing.png"))
	assertNoPartialFiles(t, dir)
}

type panicFetcher struct {
	target string
}

func (p panicFetcher) Download(_ context.Context, rawURL string, w io.Writer) error {
	if rawURL == p.target {
		panic("boom")
	}
	_, err := w.Write([]byte("ok"))
	return err
}

func TestDownloader_RecoversPanic(t *testing.T) {
	urls := []string{"http://h/boom.png", "http://h/fine.png"}
	dir := t.TempDir()

	result, err := NewDownloader(panicFetcher{target: urls[0]}, dir, Options{Workers: 2}).Run(context.Background(), urls)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: boom")
	assert.Equal(t, 1, result.Fetched)
	assert.FileExists(t, filepath.Join(dir, "fine.png"))
	assert.NoFileExists(t, filepath.Join(dir, "boom.png"))
	assertNoPartialFiles(t, dir)
}

// countingFetcher records the peak number of concurrent downloads.
type countingFetcher struct {
	active atomic.Int32
	peak   atomic.Int32
	mu     sync.Mutex
	seen   map[string]int
}

func (c *countingFetcher) Download(_ context.Context, rawURL string, w io.Writer) error {
	n := c.active.Add(1)
	defer c.active.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}

	c.mu.Lock()
	c.seen[rawURL]++
	c.mu.Unlock()

	time.Sleep(5 * time.Millisecond)
	_, err := io.Copy(w, bytes.NewBufferString(rawURL))
	return err
}

func TestDownloader_BoundedConcurrency(t *testing.T) {
	urls := make([]string, 12)
	for i := range urls {
		urls[i] = "http://h/img/" + string(rune('a'+i)) + ".png"
	}
	fetcher := &countingFetcher{seen: map[string]int{}}

	result, err := NewDownloader(fetcher, t.TempDir(), Options{Workers: 3}).Run(context.Background(), urls)
	require.NoError(t, err)
	assert.Equal(t, 12, result.Fetched)
	assert.LessOrEqual(t, fetcher.peak.Load(), int32(3))
	for _, u := range urls {
		assert.Equal(t, 1, fetcher.seen[u], u)
	}
}

func TestDownloader_CanceledContext(t *testing.T) {
	urls := []string{"http://h/a.png", "http://h/b.png"}
	mock := mockWithAssets(urls...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDownloader(mock, t.TempDir(), Options{Workers: 2}).Run(ctx, urls)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Zero(t, mock.DownloadCount())
}

func TestDownloader_InvalidURL(t *testing.T) {
	mock := github.NewMockClient()
	_, err := NewDownloader(mock, t.TempDir(), Options{Workers: 1}).Run(context.Background(), []string{"http://h/"})
	assert.Error(t, err)
	assert.Zero(t, mock.DownloadCount())
}

func assertNoPartialFiles(t *testing.T, dir string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(dir, ".*.part"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}
