package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/touchpos/touchpos/internal/catalog"
	"github.com/touchpos/touchpos/pkg/posapi"
)

var (
	espresso = catalog.Item{RmID: 10, Name: "Espresso", Image: "https://x/e.png"}
	cola     = catalog.Item{RmID: 11, Name: "Cola"}
)

func TestCart_AddMergesLines(t *testing.T) {
	c := New()
	l := c.Add(espresso)
	require.Equal(t, "1", l.Quantity.String())
	require.True(t, l.Price.IsZero())

	c.Add(cola)
	l = c.Add(espresso)
	require.Equal(t, "2", l.Quantity.String())

	lines := c.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, 10, lines[0].ArtiklID)
	require.Equal(t, "https://x/e.png", lines[0].Image)
	require.Equal(t, 11, lines[1].ArtiklID)
}

func TestCart_IncrementDecrement(t *testing.T) {
	c := New()
	c.Add(espresso)

	require.NoError(t, c.Decrement(10))
	require.Equal(t, "1", c.Lines()[0].Quantity.String(), "quantity never drops below one")

	require.NoError(t, c.Increment(10))
	require.NoError(t, c.Increment(10))
	require.NoError(t, c.Decrement(10))
	require.Equal(t, "2", c.Lines()[0].Quantity.String())

	require.ErrorIs(t, c.Increment(99), ErrNotInCart)
	require.ErrorIs(t, c.Decrement(99), ErrNotInCart)
}

func TestCart_DecrementFractional(t *testing.T) {
	c := New()
	c.Add(espresso)
	require.NoError(t, c.SetQuantity(10, posapi.MustDecimal("1.5")))
	require.NoError(t, c.Decrement(10))
	require.Equal(t, "0.5", c.Lines()[0].Quantity.String())
	require.NoError(t, c.Decrement(10))
	require.Equal(t, "0.5", c.Lines()[0].Quantity.String())
}

func TestCart_SetPriceAndQuantity(t *testing.T) {
	c := New()
	c.Add(espresso)

	require.NoError(t, c.SetPrice(10, posapi.MustDecimal("1.20")))
	require.NoError(t, c.SetQuantity(10, posapi.MustDecimal("3")))
	require.Equal(t, "3.6", c.Lines()[0].Amount().String())

	require.ErrorIs(t, c.SetQuantity(10, posapi.NewDecimal(0)), ErrInvalidQuantity)
	require.ErrorIs(t, c.SetQuantity(10, posapi.MustDecimal("-1")), ErrInvalidQuantity)
	require.ErrorIs(t, c.SetPrice(10, posapi.MustDecimal("-0.01")), ErrNegativePrice)
	require.ErrorIs(t, c.SetPrice(99, posapi.NewDecimal(1)), ErrNotInCart)
	require.ErrorIs(t, c.SetQuantity(99, posapi.NewDecimal(1)), ErrNotInCart)
}

func TestCart_TotalIsExact(t *testing.T) {
	c := New()
	c.Add(espresso)
	c.Add(cola)
	require.NoError(t, c.SetPrice(10, posapi.MustDecimal("0.1")))
	require.NoError(t, c.SetPrice(11, posapi.MustDecimal("0.2")))
	require.Equal(t, "0.3", c.Total().String())
}

func TestCart_RemoveAndClear(t *testing.T) {
	c := New()
	c.Add(espresso)
	c.Add(cola)

	require.True(t, c.Remove(10))
	require.False(t, c.Remove(10))
	require.Equal(t, 1, c.Len())
	require.Equal(t, 11, c.Lines()[0].ArtiklID)

	c.Clear()
	require.Zero(t, c.Len())
	require.Equal(t, "0", c.Total().String())
}

func TestCart_LinesIsACopy(t *testing.T) {
	c := New()
	c.Add(espresso)
	lines := c.Lines()
	lines[0].Quantity = posapi.NewDecimal(50)
	require.Equal(t, "1", c.Lines()[0].Quantity.String())
}

func TestCart_Request(t *testing.T) {
	c := New()
	c.Add(espresso)
	c.Add(espresso)
	require.NoError(t, c.SetPrice(10, posapi.MustDecimal("1.50")))

	req := c.Request(3, 2, "  sastanak uprave \n")
	require.Equal(t, "sastanak uprave", req.Note)

	body, err := json.Marshal(req)
	require.NoError(t, err)
	require.JSONEq(t, `{"warehouse":3,"reason_id":2,"note":"sastanak uprave",
		"items":[{"artikl":10,"quantity":2,"price":1.5}]}`, string(body))

	empty := New().Request(1, 1, "")
	require.NotNil(t, empty.Items)
}
