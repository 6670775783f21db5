package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/touchpos/touchpos/internal/app"
	"github.com/touchpos/touchpos/internal/cart"
	"github.com/touchpos/touchpos/internal/catalog"
	"github.com/touchpos/touchpos/pkg/posapi"
	"github.com/urfave/cli"
)

var createFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "warehouse, w",
		Usage: "warehouse id",
	},
	cli.IntFlag{
		Name:  "reason, r",
		Usage: "reason id",
	},
	cli.StringFlag{
		Name:  "note, n",
		Usage: "free text note",
	},
	cli.StringSliceFlag{
		Name:  "item, i",
		Usage: "article as ID:QUANTITY[:PRICE], repeatable",
	},
}

var errItemFormat = errors.New("stavka mora biti ID:KOLIČINA[:CIJENA]")

// itemSpec is one parsed --item value.
type itemSpec struct {
	id    int
	qty   posapi.Decimal
	price posapi.Decimal
}

func parseItem(s string) (itemSpec, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return itemSpec{}, fmt.Errorf("%w: %q", errItemFormat, s)
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil || id <= 0 {
		return itemSpec{}, fmt.Errorf("%w: %q", errItemFormat, s)
	}
	qty, err := posapi.ParseDecimal(parts[1])
	if err != nil {
		return itemSpec{}, fmt.Errorf("%w: %q", errItemFormat, s)
	}
	spec := itemSpec{id: id, qty: qty, price: posapi.NewDecimal(0)}
	if len(parts) == 3 {
		if spec.price, err = posapi.ParseDecimal(parts[2]); err != nil {
			return itemSpec{}, fmt.Errorf("%w: %q", errItemFormat, s)
		}
	}
	return spec, nil
}

// fillCart adds every spec to c. Articles must exist in the catalog; a
// repeated article keeps the last quantity and price.
func fillCart(c *cart.Cart, items []catalog.Item, specs []itemSpec) error {
	byID := make(map[int]catalog.Item, len(items))
	for _, it := range items {
		byID[it.RmID] = it
	}
	for _, s := range specs {
		it, ok := byID[s.id]
		if !ok {
			return fmt.Errorf("nepoznat artikl #%d", s.id)
		}
		c.Add(it)
		if err := c.SetQuantity(s.id, s.qty); err != nil {
			return fmt.Errorf("artikl #%d: %w", s.id, err)
		}
		if err := c.SetPrice(s.id, s.price); err != nil {
			return fmt.Errorf("artikl #%d: %w", s.id, err)
		}
	}
	return nil
}

func create(ctx context.Context, c *cli.Context, e *env) error {
	var specs []itemSpec
	for _, raw := range c.StringSlice("item") {
		s, err := parseItem(raw)
		if err != nil {
			return err
		}
		specs = append(specs, s)
	}
	if err := e.requireSession(); err != nil {
		return err
	}

	screen, err := e.app.LoadCreateScreen(ctx)
	if err != nil {
		return e.loadFailure(err, app.MsgArtikliFailed)
	}
	crt := cart.New()
	if err := fillCart(crt, screen.Items, specs); err != nil {
		return err
	}

	res, err := e.app.SaveRepresentation(ctx, crt, c.Int("warehouse"), c.Int("reason"), c.String("note"))
	if err != nil {
		return e.failure(err, posapi.MsgCreateRejected)
	}
	if !res.Success {
		if res.StatusCode != 0 {
			fmt.Fprintf(e.out, "Zahtjev i odgovor su zapisani u %s\n", e.app.DumpFile())
		}
		return errors.New(res.Message)
	}
	fmt.Fprintf(e.out, "%s Stavki: %d, ukupno %s\n", res.Message, crt.Len(), crt.Total().StringFixed(2))
	return nil
}
