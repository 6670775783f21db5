package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/touchpos/touchpos/cmd/common"
	"github.com/touchpos/touchpos/internal/app"
	"github.com/touchpos/touchpos/internal/catalog"
	"github.com/urfave/cli"
)

const MsgNoItems = "Nema artikala."

var catalogFlags = []cli.Flag{
	cli.IntFlag{
		Name:  "category, c",
		Usage: "show the articles of this category card",
	},
	cli.BoolFlag{
		Name:  "all, a",
		Usage: "show the articles of every category",
	},
	cli.BoolFlag{
		Name:  "lookups, l",
		Usage: "also list warehouses and reasons with their ids",
	},
}

func catalogCmd(ctx context.Context, c *cli.Context, e *env) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	screen, err := e.app.LoadCreateScreen(ctx)
	if err != nil {
		return e.loadFailure(err, app.MsgArtikliFailed)
	}

	printCards(e, screen.Cards)

	selected := screen.FirstCategory
	switch {
	case c.Bool("all"):
		selected = nil
	case c.IsSet("category"):
		id := c.Int("category")
		selected = &id
	}
	printItems(e, screen.Visible(selected))

	if c.Bool("lookups") {
		printLookups(e, screen)
	}
	return nil
}

func printCards(e *env, cards []catalog.Card) {
	if len(cards) == 0 {
		return
	}
	txt := "Kategorije:"
	for _, card := range cards {
		txt += fmt.Sprintf("\n  %s %s %s",
			common.RightCell(strconv.Itoa(card.ID), 5),
			common.Cell(card.Name, 30),
			common.RightCell("("+strconv.Itoa(card.Count)+")", 6),
		)
	}
	fmt.Fprintln(e.out, txt+"\n")
}

func printItems(e *env, items []catalog.Item) {
	if len(items) == 0 {
		fmt.Fprintln(e.out, MsgNoItems)
		return
	}
	line := "\n" + strings.Repeat("-", 70)
	txt := "Artikli:"
	txt += line
	txt += fmt.Sprintf("\n|%s|%s|%s|",
		common.Beaut("ID", 7),
		common.Beaut("Naziv", 34),
		common.Beaut("Kategorija", 25),
	)
	txt += "\n|-------|----------------------------------|-------------------------|"
	for _, it := range items {
		category := it.LeafCategoryName
		if category == "" {
			category = it.CategoryName
		}
		txt += fmt.Sprintf("\n| %s | %s | %s |",
			common.RightCell(strconv.Itoa(it.RmID), 5),
			common.Cell(it.Name, 32),
			common.Cell(category, 23),
		)
	}
	txt += line
	fmt.Fprintln(e.out, txt)
}

func printLookups(e *env, screen *app.CreateScreen) {
	txt := "\nSkladišta:"
	for _, w := range screen.Warehouses {
		txt += fmt.Sprintf("\n  %s %s", common.RightCell(strconv.Itoa(w.RmID), 5), w.Name)
	}
	txt += "\n\nRazlozi:"
	for _, r := range screen.Reasons {
		txt += fmt.Sprintf("\n  %s %s", common.RightCell(strconv.Itoa(r.ID), 5), r.Name)
	}
	fmt.Fprintln(e.out, txt)
}
