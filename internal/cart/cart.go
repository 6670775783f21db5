// Package cart holds the line items of a representation being composed.
package cart

import (
	"errors"
	"strings"

	"github.com/touchpos/touchpos/internal/catalog"
	"github.com/touchpos/touchpos/pkg/posapi"
)

var (
	ErrNotInCart       = errors.New("artikl is not in the cart")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrNegativePrice   = errors.New("price must not be negative")
)

// Line is one article in the cart.
type Line struct {
	ArtiklID int
	Name     string
	Image    string
	Quantity posapi.Decimal
	Price    posapi.Decimal
}

// Amount returns Quantity × Price.
func (l Line) Amount() posapi.Decimal {
	return l.Quantity.Mul(l.Price)
}

// Cart keeps lines in the order they were first added. It is not safe for
// concurrent use.
type Cart struct {
	lines []*Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) find(artiklID int) (int, *Line) {
	for i, l := range c.lines {
		if l.ArtiklID == artiklID {
			return i, l
		}
	}
	return -1, nil
}

// Add puts one unit of item in the cart. Adding an article that is already
// there increments its quantity instead. New lines start with price zero.
func (c *Cart) Add(item catalog.Item) Line {
	if _, l := c.find(item.RmID); l != nil {
		l.Quantity = l.Quantity.Add(posapi.NewDecimal(1))
		return *l
	}
	l := &Line{
		ArtiklID: item.RmID,
		Name:     item.Name,
		Image:    item.Image,
		Quantity: posapi.NewDecimal(1),
		Price:    posapi.NewDecimal(0),
	}
	c.lines = append(c.lines, l)
	return *l
}

func (c *Cart) Increment(artiklID int) error {
	_, l := c.find(artiklID)
	if l == nil {
		return ErrNotInCart
	}
	l.Quantity = l.Quantity.Add(posapi.NewDecimal(1))
	return nil
}

// Decrement lowers the quantity by one. A quantity of one or less is left
// as it is; use Remove to drop the line.
func (c *Cart) Decrement(artiklID int) error {
	_, l := c.find(artiklID)
	if l == nil {
		return ErrNotInCart
	}
	one := posapi.NewDecimal(1)
	if l.Quantity.GreaterThan(one.Decimal) {
		l.Quantity = l.Quantity.Sub(one)
	}
	return nil
}

// Remove drops the line for artiklID and reports whether it was present.
func (c *Cart) Remove(artiklID int) bool {
	i, _ := c.find(artiklID)
	if i < 0 {
		return false
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return true
}

func (c *Cart) SetPrice(artiklID int, price posapi.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	_, l := c.find(artiklID)
	if l == nil {
		return ErrNotInCart
	}
	l.Price = price
	return nil
}

func (c *Cart) SetQuantity(artiklID int, qty posapi.Decimal) error {
	if !qty.IsPositive() {
		return ErrInvalidQuantity
	}
	_, l := c.find(artiklID)
	if l == nil {
		return ErrNotInCart
	}
	l.Quantity = qty
	return nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = *l
	}
	return out
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Total is the sum of the line amounts.
func (c *Cart) Total() posapi.Decimal {
	total := posapi.NewDecimal(0)
	for _, l := range c.lines {
		total = total.Add(l.Amount())
	}
	return total
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Request builds the create payload from the cart. The note is trimmed.
func (c *Cart) Request(warehouse, reason int, note string) posapi.RepresentationCreateRequest {
	items := make([]posapi.RepresentationCreateItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, posapi.RepresentationCreateItem{
			Artikl:   l.ArtiklID,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}
	return posapi.RepresentationCreateRequest{
		Warehouse: warehouse,
		ReasonID:  reason,
		Note:      strings.TrimSpace(note),
		Items:     items,
	}
}
