package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/touchpos/touchpos/cmd/common"
	"github.com/touchpos/touchpos/internal/app"
	"github.com/touchpos/touchpos/pkg/posapi"
	"github.com/urfave/cli"
)

const (
	MsgNoRepresentations = "Nema zapisa."
	MsgInvalidID         = "Neispravan broj zapisa."
	MsgNotFound          = "Zapis ne postoji."
	MsgDetailsFailed     = "Ne mogu dohvatiti zapis."
)

func list(ctx context.Context, _ *cli.Context, e *env) error {
	if err := e.requireSession(); err != nil {
		return err
	}
	views, err := e.app.LoadRepresentations(ctx)
	if err != nil {
		return e.loadFailure(err, app.MsgListFailed)
	}
	if len(views) == 0 {
		fmt.Fprintln(e.out, MsgNoRepresentations)
		return nil
	}
	line := "\n" + strings.Repeat("-", 81)
	txt := "Reprezentacije:"
	txt += line
	txt += fmt.Sprintf("\n|%s|%s|%s|%s|%s|",
		common.Beaut("ID", 7),
		common.Beaut("Vrijeme", 18),
		common.Beaut("Korisnik", 22),
		common.Beaut("Razlog", 22),
		common.Beaut("Stavki", 7),
	)
	txt += "\n|-------|------------------|----------------------|----------------------|-------|"
	for _, v := range views {
		txt += fmt.Sprintf("\n| %s | %s | %s | %s | %s |",
			common.RightCell(strconv.Itoa(v.ID), 5),
			common.Cell(v.OccurredAtDisplay, 16),
			common.Cell(v.UserName, 20),
			common.Cell(v.ReasonName, 20),
			common.RightCell(strconv.Itoa(v.ItemCount), 5),
		)
	}
	txt += line
	fmt.Fprintln(e.out, txt)
	return nil
}

func show(ctx context.Context, c *cli.Context, e *env) error {
	id, err := strconv.Atoi(c.Args().First())
	if err != nil || id <= 0 {
		return errors.New(MsgInvalidID)
	}
	if err := e.requireSession(); err != nil {
		return err
	}
	rep, err := e.app.RepresentationDetails(ctx, id)
	if errors.Is(err, posapi.ErrNotFound) {
		return errors.New(MsgNotFound)
	}
	if err != nil {
		return e.loadFailure(err, MsgDetailsFailed)
	}

	fmt.Fprintf(e.out, "Reprezentacija #%d\n", rep.ID)
	fmt.Fprintf(e.out, "%s %s\n", common.Cell("Vrijeme:", 10), rep.OccurredAt.In(displayLocation).Format(app.TimeLayout))
	fmt.Fprintf(e.out, "%s #%d\n", common.Cell("Skladište:", 10), rep.Warehouse)
	fmt.Fprintf(e.out, "%s %s\n", common.Cell("Razlog:", 10), reasonLabel(rep))
	if rep.Note != "" {
		fmt.Fprintf(e.out, "%s %s\n", common.Cell("Napomena:", 10), rep.Note)
	}

	line := "\n" + strings.Repeat("-", 66)
	txt := line
	txt += fmt.Sprintf("\n|%s|%s|%s|%s|",
		common.Beaut("Artikl", 30),
		common.Beaut("Količina", 10),
		common.Beaut("Cijena", 10),
		common.Beaut("Iznos", 11),
	)
	txt += "\n|------------------------------|----------|----------|-----------|"
	total := posapi.NewDecimal(0)
	for _, it := range rep.Items {
		amount := it.Amount()
		total = total.Add(amount)
		txt += fmt.Sprintf("\n| %s | %s | %s | %s |",
			common.Cell(it.ArtiklName, 28),
			common.RightCell(it.Quantity.String(), 8),
			common.RightCell(it.Price.StringFixed(2), 8),
			common.RightCell(amount.StringFixed(2), 9),
		)
	}
	txt += line
	txt += fmt.Sprintf("\n%s %s", common.RightCell("Ukupno:", 54), common.RightCell(total.StringFixed(2), 11))
	fmt.Fprintln(e.out, txt)
	return nil
}

func reasonLabel(rep *posapi.Representation) string {
	if rep.ReasonName != "" {
		return rep.ReasonName
	}
	return "#" + strconv.Itoa(rep.ReasonID)
}
