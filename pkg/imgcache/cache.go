// Package imgcache stores remote images on disk under a name derived from
// the SHA-256 of their URL. Concurrent requests for one URL share a single
// download, and the number of downloads on the wire is bounded.
package imgcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/spf13/afero"
	"github.com/touchpos/touchpos/pkg/logger"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// DefaultSlots is the number of downloads allowed at once.
const DefaultSlots = 4

var (
	ErrInvalidURL = errors.New("image URL is not absolute")
	errPanic      = errors.New("fetch panicked")
)

// Fetcher returns the bytes behind url.
type Fetcher func(ctx context.Context, url string) ([]byte, error)

type Options struct {
	// Slots bounds concurrent downloads. Zero selects DefaultSlots.
	Slots  int
	Logger logger.Logger
}

// Cache is safe for concurrent use. Entries are never evicted: a URL is
// assumed to name immutable content.
type Cache struct {
	fs    afero.Fs
	dir   string
	fetch Fetcher
	gate  *semaphore.Weighted
	group singleflight.Group
	log   logger.Logger
}

// New returns a cache writing into dir on fs. The directory is created on
// the first write.
func New(fs afero.Fs, dir string, fetch Fetcher, opts *Options) *Cache {
	if opts == nil {
		opts = &Options{}
	}
	slots := opts.Slots
	if slots <= 0 {
		slots = DefaultSlots
	}
	return &Cache{
		fs:    fs,
		dir:   dir,
		fetch: fetch,
		gate:  semaphore.NewWeighted(int64(slots)),
		log:   logger.OrNop(opts.Logger),
	}
}

func (c *Cache) Dir() string {
	return c.dir
}

// FileName returns the cache file name for rawURL: the lowercase hex
// SHA-256 of the URL string followed by the extension of its path.
// It reports false when rawURL is not an absolute URL.
func FileName(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return "", false
	}
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:]) + path.Ext(u.EscapedPath()), true
}

// Path returns where rawURL is or would be stored.
func (c *Cache) Path(rawURL string) (string, bool) {
	name, ok := FileName(rawURL)
	if !ok {
		return "", false
	}
	return filepath.Join(c.dir, name), true
}

// GetOrDownload returns the local path of rawURL, downloading it first if
// it is not on disk. It reports false for a blank or relative URL and when
// the download or the write fails; a later call retries.
//
// Callers asking for the same URL at the same time share one download.
// Cancelling ctx abandons the wait but not the shared download.
func (c *Cache) GetOrDownload(ctx context.Context, rawURL string) (string, bool) {
	if strings.TrimSpace(rawURL) == "" {
		return "", false
	}
	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(rawURL, func() (any, error) {
		return c.download(detached, rawURL)
	})
	select {
	case <-ctx.Done():
		return "", false
	case res := <-ch:
		if res.Err != nil {
			return "", false
		}
		return res.Val.(string), true
	}
}

func (c *Cache) download(ctx context.Context, rawURL string) (p string, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("imgcache: PANIC fetching %s: %v\n%s", rawURL, r, debug.Stack())
			p, err = "", fmt.Errorf("%w: %v", errPanic, r)
		}
	}()

	dst, ok := c.Path(rawURL)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}
	if c.exists(dst) {
		return dst, nil
	}

	if err := c.gate.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.gate.Release(1)

	// Another process or cache instance may have written it meanwhile.
	if c.exists(dst) {
		return dst, nil
	}

	data, err := c.fetch(ctx, rawURL)
	if err != nil {
		c.log.Warning("imgcache: fetch %s: %v", rawURL, err)
		return "", err
	}
	if err := c.write(dst, data); err != nil {
		c.log.Warning("imgcache: write %s: %v", dst, err)
		return "", err
	}
	c.log.Debug("imgcache: stored %s (%d bytes)", filepath.Base(dst), len(data))
	return dst, nil
}

func (c *Cache) exists(p string) bool {
	ok, err := afero.Exists(c.fs, p)
	return err == nil && ok
}

// write stores data under dst through a temporary file so a reader never
// sees a partial image.
func (c *Cache) write(dst string, data []byte) error {
	if err := c.fs.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	tmp, err := afero.TempFile(c.fs, c.dir, ".img-*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		c.fs.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		c.fs.Remove(name)
		return err
	}
	if err := c.fs.Rename(name, dst); err != nil {
		c.fs.Remove(name)
		return err
	}
	return nil
}
