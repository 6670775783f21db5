package cmd

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/touchpos/touchpos/cmd/common"
	"github.com/touchpos/touchpos/internal/app"
	"github.com/touchpos/touchpos/internal/catalog"
	"github.com/touchpos/touchpos/pkg/imgcache"
	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

var quietPrefetch bool

var prefetchFlags = []cli.Flag{
	cli.BoolFlag{
		Name:        "quiet, q",
		Usage:       "do not draw the progress bar",
		Destination: &quietPrefetch,
	},
}

func prefetch(ctx context.Context, _ *cli.Context, e *env) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	screen, err := e.app.LoadCreateScreen(ctx)
	if err != nil {
		return e.loadFailure(err, app.MsgArtikliFailed)
	}
	total := imgcache.Unique(catalog.Images(screen.Items))
	if total == 0 {
		fmt.Fprintln(e.out, "Nema slika za preuzimanje.")
		return nil
	}

	var (
		p   *mpb.Progress
		bar *mpb.Bar
	)
	if !quietPrefetch {
		p = mpb.NewWithContext(ctx, mpb.WithOutput(e.out), mpb.WithWidth(40))
		bar = common.NewPrefetchBar(p, "Slike", int64(total))
	}
	var failed atomic.Int64
	n := e.app.PrefetchImages(ctx, screen.Items, func(url string, ok bool) {
		if !ok {
			failed.Add(1)
		}
		if bar != nil {
			bar.Increment()
		}
	})
	if p != nil {
		p.Wait()
	}
	fmt.Fprintf(e.out, "Slike u %s: %d/%d\n", e.images.Dir(), n, total)
	if f := failed.Load(); f > 0 {
		e.log.Warning("prefetch: %d of %d images failed", f, total)
		fmt.Fprintf(e.out, "Nije preuzeto: %d\n", f)
	}
	return nil
}
