// Package pipeline sequences the full download: parse the folder URL, fetch
// the revision archive (with a fallback URL), filter the archive down to the
// requested subtree, and materialize it through a staging directory.
package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"repo-fetch/extract"
	"repo-fetch/fetcher"
	"repo-fetch/gh"
	"repo-fetch/helpers"
	"repo-fetch/model"
	"repo-fetch/parse"
)

// ErrDownloadFailed signals that both the primary and the fallback archive
// URLs exhausted their retry budgets.
var ErrDownloadFailed = errors.New("download failed on both archive URLs")

// Options tunes one Run. Zero values fall back to the fetcher defaults and
// silent observers.
type Options struct {
	// OutputDir overrides the destination directory name derived from the
	// coordinates.
	OutputDir string

	Timeout       time.Duration
	MaxRetries    int
	BackoffFactor float64

	// Cache, when non-nil, is consulted before fetching and populated after
	// a successful fetch.
	Cache *gh.ArchiveCache

	DownloadProgress helpers.Progress
	ExtractProgress  helpers.Progress
	Logf             helpers.Logf

	// ArchiveURLs overrides the archive URL builders. Tests point it at a
	// local server; the default targets github.com.
	ArchiveURLs func(model.RepoCoordinates) (primary, fallback string)

	// Sleep is forwarded to the fetcher; injectable for tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

func (o *Options) withDefaults() {
	if o.Logf == nil {
		o.Logf = helpers.NopLogf
	}
	if o.ArchiveURLs == nil {
		o.ArchiveURLs = func(c model.RepoCoordinates) (string, string) {
			return gh.ArchiveURL(c), gh.FallbackArchiveURL(c)
		}
	}
}

// Run downloads the subtree identified by locator and returns the resolved
// absolute destination path. The destination is never touched unless the
// archive downloaded and the subtree exists in it.
func Run(ctx context.Context, locator string, opts Options) (string, error) {
	opts.withDefaults()

	coords, err := parse.FolderURL(locator)
	if err != nil {
		return "", err
	}

	dest := strings.TrimRight(opts.OutputDir, "/\\")
	if dest == "" {
		dest = coords.DefaultOutputDir()
	}

	primaryURL, fallbackURL := opts.ArchiveURLs(coords)

	data, err := opts.fetchArchive(ctx, primaryURL)
	if errors.Is(err, fetcher.ErrFetchExhausted) {
		opts.Logf("primary archive URL failed, trying fallback: %s", fallbackURL)
		data, err = opts.fetchArchive(ctx, fallbackURL)
		if errors.Is(err, fetcher.ErrFetchExhausted) {
			return "", fmt.Errorf("%w: %w", ErrDownloadFailed, err)
		}
	}
	if err != nil {
		return "", err
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}

	prefix := coords.ArchivePrefix()
	members, err := extract.FilterMembers(reader, prefix)
	if err != nil {
		return "", err
	}

	return extract.Materialize(ctx, members, prefix, dest, extract.Options{
		Progress: opts.ExtractProgress,
		Logf:     opts.Logf,
	})
}

// fetchArchive resolves one archive URL through the cache or the network.
func (o *Options) fetchArchive(ctx context.Context, archiveURL string) ([]byte, error) {
	if o.Cache != nil {
		if data, ok := o.Cache.Get(archiveURL); ok {
			o.Logf("using cached archive for %s", archiveURL)
			if o.DownloadProgress != nil {
				o.DownloadProgress(int64(len(data)), int64(len(data)))
			}
			return data, nil
		}
	}

	data, err := fetcher.Download(ctx, archiveURL, fetcher.Options{
		Timeout:       o.Timeout,
		MaxRetries:    o.MaxRetries,
		BackoffFactor: o.BackoffFactor,
		Sleep:         o.Sleep,
		Progress:      o.DownloadProgress,
		Logf:          o.Logf,
	})
	if err != nil {
		return nil, err
	}

	if o.Cache != nil {
		o.Cache.Put(archiveURL, data)
	}

	return data, nil
}
