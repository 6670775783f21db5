package imgcache

import (
	"context"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/touchpos/touchpos/pkg/logger"
)

// safeGo runs fn in a goroutine with panic recovery. wg, if non-nil, is
// decremented when fn returns or panics.
func safeGo(l logger.Logger, wg *sync.WaitGroup, label string, fn func()) {
	go func() {
		if wg != nil {
			defer wg.Done()
		}
		defer func() {
			if r := recover(); r != nil {
				l.Error("PANIC [%s]: %v\n%s", label, r, debug.Stack())
			}
		}()
		fn()
	}()
}

// Prefetch makes sure every URL in urls is on disk and returns how many
// are. Blank and repeated URLs are skipped. onDone, if not nil, is called
// once per distinct URL with its local path, possibly from several
// goroutines at once.
func (c *Cache) Prefetch(ctx context.Context, urls []string, onDone func(url, path string, ok bool)) int {
	var (
		wg     sync.WaitGroup
		cached atomic.Int64
	)
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}

		wg.Add(1)
		safeGo(c.log, &wg, "prefetch "+u, func() {
			p, ok := c.GetOrDownload(ctx, u)
			if ok {
				cached.Add(1)
			}
			if onDone != nil {
				onDone(u, p, ok)
			}
		})
	}
	wg.Wait()
	return int(cached.Load())
}

// Unique returns the number of distinct non-blank URLs in urls, the
// number of onDone calls Prefetch will make.
func Unique(urls []string) int {
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			seen[u] = struct{}{}
		}
	}
	return len(seen)
}
