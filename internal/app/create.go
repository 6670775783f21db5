package app

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"github.com/touchpos/touchpos/internal/cart"
	"github.com/touchpos/touchpos/internal/catalog"
	"github.com/touchpos/touchpos/pkg/posapi"
	"golang.org/x/sync/errgroup"
)

// CreateScreen is everything needed to compose a representation.
type CreateScreen struct {
	Items []catalog.Item
	Cards []catalog.Card
	// FirstCategory is the card selected initially; nil when there are no
	// cards.
	FirstCategory *int
	// Warehouses excludes hidden ones, Reasons inactive ones.
	Warehouses []posapi.Warehouse
	Reasons    []posapi.RepresentationReason
}

// Visible returns the items shown for categoryID.
func (s *CreateScreen) Visible(categoryID *int) []catalog.Item {
	return catalog.Filter(s.Items, categoryID)
}

// LoadCreateScreen fetches articles, reasons, warehouses and categories at
// once and builds the catalog from them.
func (a *App) LoadCreateScreen(ctx context.Context) (*CreateScreen, error) {
	var (
		artikli    []posapi.Artikl
		reasons    []posapi.RepresentationReason
		warehouses []posapi.Warehouse
		categories []posapi.DrinkCategory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		artikli, err = a.client.Artikli(gctx, a.session)
		return err
	})
	g.Go(func() (err error) {
		reasons, err = a.client.RepresentationReasons(gctx, a.session)
		return err
	})
	g.Go(func() (err error) {
		warehouses, err = a.client.Warehouses(gctx, a.session)
		return err
	})
	g.Go(func() (err error) {
		categories, err = a.client.DrinkCategories(gctx, a.session)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := catalog.BuildItems(artikli, categories)
	cards := catalog.Cards(items)
	screen := &CreateScreen{
		Items:         items,
		Cards:         cards,
		FirstCategory: catalog.FirstCard(cards),
		Warehouses:    []posapi.Warehouse{},
		Reasons:       []posapi.RepresentationReason{},
	}
	for _, w := range warehouses {
		if !w.Hidden {
			screen.Warehouses = append(screen.Warehouses, w)
		}
	}
	for _, r := range reasons {
		if r.IsActive {
			screen.Reasons = append(screen.Reasons, r)
		}
	}
	return screen, nil
}

// SaveRepresentation validates the selection and submits the cart. A
// warehouse or reason of zero means nothing was selected. When the server
// rejects the request the payloads are written to the dump file and the
// message carries the HTTP status.
func (a *App) SaveRepresentation(ctx context.Context, c *cart.Cart, warehouse, reason int, note string) (posapi.CreateResult, error) {
	switch {
	case warehouse <= 0:
		return posapi.CreateResult{Message: MsgNoWarehouse}, nil
	case reason <= 0:
		return posapi.CreateResult{Message: MsgNoReason}, nil
	case c == nil || c.Len() == 0:
		return posapi.CreateResult{Message: MsgEmptyCart}, nil
	}

	res, err := a.client.CreateRepresentation(ctx, a.session, c.Request(warehouse, reason, note))
	if err != nil {
		return res, err
	}
	if res.Success {
		res.Message = MsgSaved
		return res, nil
	}
	if res.StatusCode != 0 {
		res.Message = fmt.Sprintf("%s (HTTP %d)", res.Message, res.StatusCode)
		if !a.writeDump(res) {
			a.log.Warning("app: could not write %s", a.dumpFile)
		}
	}
	return res, nil
}

// DumpFile is where the last rejected create is recorded.
func (a *App) DumpFile() string {
	return a.dumpFile
}

func (a *App) writeDump(res posapi.CreateResult) bool {
	if a.dumpFile == "" {
		return false
	}
	text := "REQUEST JSON:\n" + res.RequestBody + "\n\n" +
		"RESPONSE BODY:\n" + res.ResponseBody + "\n"
	if err := a.fs.MkdirAll(filepath.Dir(a.dumpFile), 0o755); err != nil {
		return false
	}
	return afero.WriteFile(a.fs, a.dumpFile, []byte(text), 0o644) == nil
}

// PrefetchImages downloads the images of items and points each item at
// its local copy. It returns how many images are on disk. onDone, if not
// nil, is called once per distinct URL.
func (a *App) PrefetchImages(ctx context.Context, items []catalog.Item, onDone func(url string, ok bool)) int {
	if a.images == nil {
		return 0
	}
	var mu sync.Mutex
	paths := make(map[string]string)
	n := a.images.Prefetch(ctx, catalog.Images(items), func(url, path string, ok bool) {
		if ok {
			mu.Lock()
			paths[url] = path
			mu.Unlock()
		}
		if onDone != nil {
			onDone(url, ok)
		}
	})
	for i := range items {
		if p, ok := paths[items[i].Image]; ok {
			items[i].Image = p
		}
	}
	return n
}
