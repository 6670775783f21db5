// Package catalog turns the raw article and category lists into what the
// touch screen shows: sellable items grouped under their second level
// category, ordered the way Croatian readers expect.
package catalog

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/touchpos/touchpos/pkg/posapi"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// maxDepth bounds the parent walk so a cycle in the category data cannot
// loop forever.
const maxDepth = 20

// Item is a sellable article placed in the category tree.
type Item struct {
	RmID  int
	Name  string
	Image string
	// CategoryID and CategoryName identify the second level ancestor (or the
	// root, for a root category). CategoryID is nil when the article has no
	// known category.
	CategoryID        *int
	CategoryName      string
	CategorySortOrder int
	LeafCategoryName  string
	LeafSortOrder     int
}

// Card is a category button with the number of items beneath it.
type Card struct {
	ID        int
	Name      string
	Count     int
	SortOrder int
}

// Index looks categories up by id.
type Index map[int]posapi.DrinkCategory

func NewIndex(categories []posapi.DrinkCategory) Index {
	ix := make(Index, len(categories))
	for _, c := range categories {
		ix[c.ID] = c
	}
	return ix
}

// chain returns the ancestry of id ordered root first.
func (ix Index) chain(id *int) []posapi.DrinkCategory {
	if id == nil {
		return nil
	}
	cur, ok := ix[*id]
	if !ok {
		return nil
	}
	chain := []posapi.DrinkCategory{cur}
	for hops := 0; cur.ParentID != nil && hops <= maxDepth; hops++ {
		parent, ok := ix[*cur.ParentID]
		if !ok {
			break
		}
		chain = append(chain, parent)
		cur = parent
	}
	slices.Reverse(chain)
	return chain
}

// Level2 returns the second category on the root to leaf path of id, or
// the root itself when id is a root. It reports false for a nil or unknown
// id.
func (ix Index) Level2(id *int) (posapi.DrinkCategory, bool) {
	chain := ix.chain(id)
	switch len(chain) {
	case 0:
		return posapi.DrinkCategory{}, false
	case 1:
		return chain[0], true
	default:
		return chain[1], true
	}
}

// LeafSortOrder returns the sort order of category id itself, or
// math.MaxInt when it is unknown.
func (ix Index) LeafSortOrder(id *int) int {
	if id == nil {
		return math.MaxInt
	}
	c, ok := ix[*id]
	if !ok {
		return math.MaxInt
	}
	return c.SortOrder
}

// Resolve places one article. Unknown categories sort last.
func (ix Index) Resolve(a posapi.Artikl) Item {
	it := Item{
		RmID:              a.RmID,
		Name:              a.Name,
		Image:             a.Image125x200,
		LeafCategoryName:  a.DrinkCategoryName,
		LeafSortOrder:     ix.LeafSortOrder(a.DrinkCategoryID),
		CategorySortOrder: math.MaxInt,
	}
	if strings.TrimSpace(it.Image) == "" {
		it.Image = a.Image
	}
	if l2, ok := ix.Level2(a.DrinkCategoryID); ok {
		id := l2.ID
		it.CategoryID = &id
		it.CategoryName = l2.Name
		it.CategorySortOrder = l2.SortOrder
	}
	return it
}

// BuildItems resolves every sellable article, keeping input order.
func BuildItems(artikli []posapi.Artikl, categories []posapi.DrinkCategory) []Item {
	ix := NewIndex(categories)
	items := make([]Item, 0, len(artikli))
	for _, a := range artikli {
		if !a.IsSellable {
			continue
		}
		items = append(items, ix.Resolve(a))
	}
	return items
}

// Images returns the non-blank image URLs of items in order.
func Images(items []Item) []string {
	var urls []string
	for _, it := range items {
		if strings.TrimSpace(it.Image) != "" {
			urls = append(urls, it.Image)
		}
	}
	return urls
}

// newCollator returns a case-insensitive hr-HR collator. Collators keep
// scratch buffers, so each sort gets its own.
func newCollator() *collate.Collator {
	return collate.New(language.Croatian, collate.IgnoreCase)
}

// Cards groups items by category. Items without a category or with a blank
// category name get no card. Cards are ordered by the smallest sort order
// of their items, then by name.
func Cards(items []Item) []Card {
	type key struct {
		id   int
		name string
	}
	var order []key
	groups := map[key]*Card{}
	for _, it := range items {
		if it.CategoryID == nil || strings.TrimSpace(it.CategoryName) == "" {
			continue
		}
		k := key{*it.CategoryID, it.CategoryName}
		card, ok := groups[k]
		if !ok {
			card = &Card{ID: k.id, Name: k.name, SortOrder: it.CategorySortOrder}
			groups[k] = card
			order = append(order, k)
		}
		card.Count++
		card.SortOrder = min(card.SortOrder, it.CategorySortOrder)
	}

	cards := make([]Card, 0, len(order))
	for _, k := range order {
		cards = append(cards, *groups[k])
	}
	col := newCollator()
	slices.SortStableFunc(cards, func(a, b Card) int {
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		return col.CompareString(a.Name, b.Name)
	})
	return cards
}

// FirstCard returns the id of the first card, the category selected when
// the screen opens.
func FirstCard(cards []Card) *int {
	if len(cards) == 0 {
		return nil
	}
	id := cards[0].ID
	return &id
}

// Filter returns the items shown for categoryID. A nil categoryID shows
// everything ordered by category then leaf category then name; otherwise
// only that category's items are returned, ordered by leaf category then
// name.
func Filter(items []Item, categoryID *int) []Item {
	col := newCollator()
	byLeaf := func(a, b Item) int {
		if c := cmp.Compare(a.LeafSortOrder, b.LeafSortOrder); c != 0 {
			return c
		}
		if c := col.CompareString(a.LeafCategoryName, b.LeafCategoryName); c != 0 {
			return c
		}
		return col.CompareString(a.Name, b.Name)
	}

	if categoryID == nil {
		out := slices.Clone(items)
		slices.SortStableFunc(out, func(a, b Item) int {
			if c := cmp.Compare(a.CategorySortOrder, b.CategorySortOrder); c != 0 {
				return c
			}
			if c := col.CompareString(a.CategoryName, b.CategoryName); c != 0 {
				return c
			}
			return byLeaf(a, b)
		})
		return out
	}

	out := make([]Item, 0)
	for _, it := range items {
		if it.CategoryID != nil && *it.CategoryID == *categoryID {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, byLeaf)
	return out
}
