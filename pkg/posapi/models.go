package posapi

import (
	"time"

	"github.com/shopspring/decimal"
)

// Decimal is an exact decimal used for quantities, prices and ordinals.
// It is written as a JSON number and read from a JSON number or a numeric
// string.
type Decimal struct {
	decimal.Decimal
}

// NewDecimal returns the integer v as a Decimal.
func NewDecimal(v int64) Decimal {
	return Decimal{decimal.NewFromInt(v)}
}

// ParseDecimal parses s ("1", "2.50", "-0.125").
func ParseDecimal(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, err
	}
	return Decimal{d}, nil
}

// MustDecimal is ParseDecimal that panics on malformed input; for constants.
func MustDecimal(s string) Decimal {
	return Decimal{decimal.RequireFromString(s)}
}

// Add returns d + o.
func (d Decimal) Add(o Decimal) Decimal {
	return Decimal{d.Decimal.Add(o.Decimal)}
}

// Sub returns d - o.
func (d Decimal) Sub(o Decimal) Decimal {
	return Decimal{d.Decimal.Sub(o.Decimal)}
}

// Mul returns d × o.
func (d Decimal) Mul(o Decimal) Decimal {
	return Decimal{d.Decimal.Mul(o.Decimal)}
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(d.Decimal.String()), nil
}

func (d *Decimal) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	return d.Decimal.UnmarshalJSON(b)
}

// Representation is a recorded write-off/consumption against inventory.
type Representation struct {
	ID         int                  `json:"id"`
	OccurredAt time.Time            `json:"occurred_at"`
	Warehouse  int                  `json:"warehouse"`
	User       int                  `json:"user"`
	ReasonID   int                  `json:"reason_id"`
	ReasonName string               `json:"reason_name,omitempty"`
	Note       string               `json:"note,omitempty"`
	Items      []RepresentationItem `json:"items"`
}

// RepresentationItem is one line of a Representation. ArtiklName is
// resolved client side and never sent.
type RepresentationItem struct {
	ID         int     `json:"id"`
	Artikl     int     `json:"artikl"`
	ArtiklName string  `json:"-"`
	Quantity   Decimal `json:"quantity"`
	Price      Decimal `json:"price"`
}

// Amount returns Quantity × Price.
func (i RepresentationItem) Amount() Decimal {
	return i.Quantity.Mul(i.Price)
}

type RepresentationReason struct {
	ID        int    `json:"id"`
	Code      string `json:"code,omitempty"`
	Name      string `json:"name,omitempty"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

// DrinkCategory is a node of the category tree; ParentID is nil for roots.
type DrinkCategory struct {
	ID         int    `json:"id"`
	Name       string `json:"name,omitempty"`
	ParentID   *int   `json:"parent_id"`
	ParentName string `json:"parent_name,omitempty"`
	IsActive   bool   `json:"is_active"`
	SortOrder  int    `json:"sort_order"`
}

// Artikl is a sellable or stockable inventory item.
type Artikl struct {
	RmID              int    `json:"rm_id"`
	Name              string `json:"name,omitempty"`
	Code              string `json:"code,omitempty"`
	Image             string `json:"image,omitempty"`
	Image46x75        string `json:"image_46x75,omitempty"`
	Image125x200      string `json:"image_125x200,omitempty"`
	DrinkCategoryID   *int   `json:"drink_category_id"`
	DrinkCategoryName string `json:"drink_category_name,omitempty"`
	IsSellable        bool   `json:"is_sellable"`
	IsStockItem       bool   `json:"is_stock_item"`
}

type Warehouse struct {
	RmID    int     `json:"rm_id"`
	Name    string  `json:"name,omitempty"`
	Hidden  bool    `json:"hidden"`
	Ordinal Decimal `json:"ordinal"`
}

type User struct {
	ID          int    `json:"id"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// RepresentationCreateRequest is the body of POST api/representations/.
type RepresentationCreateRequest struct {
	Warehouse int                        `json:"warehouse"`
	ReasonID  int                        `json:"reason_id"`
	Note      string                     `json:"note"`
	Items     []RepresentationCreateItem `json:"items"`
}

type RepresentationCreateItem struct {
	Artikl   int     `json:"artikl"`
	Quantity Decimal `json:"quantity"`
	Price    Decimal `json:"price"`
}
