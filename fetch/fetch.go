// Package fetch downloads a dataset archive and unpacks it.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/juruen/homus/archive"
	"github.com/juruen/homus/log"
)

// Options tune a Fetcher. The zero value downloads the registered URL
// straight into the destination directory.
type Options struct {
	// URL replaces the registered download location.
	URL string
	// SHA256 replaces the registered checksum.
	SHA256 string
	// CacheDir keeps verified archives between runs. "user" selects the
	// per-user cache directory, empty disables caching.
	CacheDir string
	// Timeout bounds the whole transfer. Zero leaves it to the transport.
	Timeout time.Duration
	// Client is used for the transfer, http.DefaultClient when nil.
	Client *http.Client
}

type Fetcher struct {
	opts   Options
	client *http.Client
}

func New(opts Options) *Fetcher {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &Fetcher{opts: opts, client: client}
}

// Fetch downloads the dataset with default options.
func Fetch(ctx context.Context, datasetID, destDir string) (string, error) {
	return New(Options{}).Fetch(ctx, datasetID, destDir)
}

// Fetch downloads the archive of datasetID, verifies it and extracts it
// into destDir. It returns the root of the extracted tree.
func (f *Fetcher) Fetch(ctx context.Context, datasetID, destDir string) (string, error) {
	ds, err := Lookup(datasetID)
	if err != nil {
		return "", err
	}
	if f.opts.URL != "" {
		ds.URL = f.opts.URL
	}
	if f.opts.SHA256 != "" {
		ds.SHA256 = f.opts.SHA256
	}

	cacheDir, err := resolveCacheDir(f.opts.CacheDir)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", errors.Wrapf(err, "can't create %s", destDir)
	}

	archivePath, temporary, err := f.obtain(ctx, ds, destDir, cacheDir)
	if err != nil {
		return "", err
	}
	if temporary {
		defer os.Remove(archivePath)
	}

	log.Info.Printf("extracting %s into %s", ds.ID, destDir)
	n, err := archive.ExtractFile(archivePath, destDir)
	if err != nil {
		return "", &ExtractionError{Archive: archivePath, Err: err}
	}
	log.Info.Printf("extracted %d files", n)

	return destDir, nil
}

// obtain returns a verified archive on disk, either from the cache or
// freshly downloaded. temporary is set when the caller must remove it.
func (f *Fetcher) obtain(ctx context.Context, ds Dataset, destDir, cacheDir string) (path string, temporary bool, err error) {
	if cacheDir != "" {
		cached := filepath.Join(cacheDir, ds.Filename)
		if _, err := os.Stat(cached); err == nil {
			if err := verify(cached, ds); err == nil {
				log.Info.Printf("using cached archive %s", cached)
				return cached, false, nil
			}
			log.Warning.Printf("cached archive %s is stale, downloading again", cached)
		}
	}

	partDir := destDir
	if cacheDir != "" {
		partDir = cacheDir
	}
	part := filepath.Join(partDir, fmt.Sprintf(".%s.%s.part", ds.Filename, uuid.New().String()))

	if err := f.download(ctx, ds.URL, part); err != nil {
		os.Remove(part)
		return "", false, err
	}

	if err := verify(part, ds); err != nil {
		os.Remove(part)
		return "", false, &ExtractionError{Archive: ds.URL, Err: err}
	}

	if cacheDir == "" {
		return part, true, nil
	}

	cached := filepath.Join(cacheDir, ds.Filename)
	if err := os.Rename(part, cached); err != nil {
		os.Remove(part)
		return "", false, errors.Wrapf(err, "can't store %s", cached)
	}
	return cached, false, nil
}

func (f *Fetcher) download(ctx context.Context, url, dest string) error {
	if f.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}

	log.Info.Printf("downloading %s", url)
	res, err := f.client.Do(req)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &NetworkError{URL: url, StatusCode: res.StatusCode}
	}

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "can't create %s", dest)
	}

	n, err := io.Copy(out, res.Body)
	if cerr := out.Close(); err == nil && cerr != nil {
		return errors.Wrapf(cerr, "can't write %s", dest)
	}
	if err != nil {
		return &NetworkError{URL: url, Err: errors.Wrap(err, "transfer interrupted")}
	}

	if res.ContentLength >= 0 && n != res.ContentLength {
		return &NetworkError{URL: url, Err: errors.Errorf("transfer interrupted: got %d of %d bytes", n, res.ContentLength)}
	}

	log.Trace.Printf("downloaded %d bytes from %s", n, url)
	return nil
}
