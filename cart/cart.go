// Package cart holds the shopping cart state, the reducer that updates it and
// the engine that persists it per session.
package cart

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// PlaceholderImage stands in for products that have no image.
const PlaceholderImage = "/images/placeholder.jpg"

// Item is one cart line. Lines are keyed by product id, size and color.
type Item struct {
	ID       uint            `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Size     string          `json:"size,omitempty"`
	Color    string          `json:"color,omitempty"`
	Quantity int             `json:"quantity"`
}

func (i Item) sameLine(other Item) bool {
	return i.ID == other.ID && i.Size == other.Size && i.Color == other.Color
}

// State is the whole cart. Total and ItemCount are always derived from Items.
type State struct {
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
	IsOpen    bool            `json:"isOpen"`
}

func Empty() State {
	return State{Items: []Item{}, Total: decimal.Zero}
}

// Action is a cart mutation understood by Reduce.
type Action interface {
	apply(items []Item, isOpen bool) ([]Item, bool)
}

// AddItem merges into the line with the same id, size and color, or appends
// a new line. Quantities below 1 add one unit.
type AddItem struct {
	Item     Item
	Quantity int
}

// RemoveItem drops every line for the product id, across sizes and colors.
type RemoveItem struct {
	ID uint
}

// UpdateQuantity sets the quantity of every line for the product id. A
// quantity of zero or less removes them.
type UpdateQuantity struct {
	ID       uint
	Quantity int
}

type (
	Clear  struct{}
	Open   struct{}
	Close  struct{}
	Toggle struct{}
)

func (a AddItem) apply(items []Item, isOpen bool) ([]Item, bool) {
	qty := a.Quantity
	if qty < 1 {
		qty = 1
	}
	for i := range items {
		if items[i].sameLine(a.Item) {
			items[i].Quantity += qty
			return items, isOpen
		}
	}
	line := a.Item
	line.Quantity = qty
	return append(items, line), isOpen
}

func (a RemoveItem) apply(items []Item, isOpen bool) ([]Item, bool) {
	kept := items[:0]
	for _, item := range items {
		if item.ID != a.ID {
			kept = append(kept, item)
		}
	}
	return kept, isOpen
}

func (a UpdateQuantity) apply(items []Item, isOpen bool) ([]Item, bool) {
	if a.Quantity <= 0 {
		return RemoveItem{ID: a.ID}.apply(items, isOpen)
	}
	for i := range items {
		if items[i].ID == a.ID {
			items[i].Quantity = a.Quantity
		}
	}
	return items, isOpen
}

func (Clear) apply(_ []Item, isOpen bool) ([]Item, bool) { return []Item{}, isOpen }
func (Open) apply(items []Item, _ bool) ([]Item, bool) { return items, true }
func (Close) apply(items []Item, _ bool) ([]Item, bool) { return items, false }
func (Toggle) apply(items []Item, isOpen bool) ([]Item, bool) { return items, !isOpen }

// Reduce returns the state after applying action. The input state is not
// modified.
func Reduce(state State, action Action) State {
	items := make([]Item, len(state.Items))
	copy(items, state.Items)

	items, isOpen := action.apply(items, state.IsOpen)
	return withTotals(items, isOpen)
}

func withTotals(items []Item, isOpen bool) State {
	if items == nil {
		items = []Item{}
	}
	total := decimal.Zero
	count := 0
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	return State{Items: items, Total: total, ItemCount: count, IsOpen: isOpen}
}

// Rehydrate decodes a persisted state. Lines with a quantity below 1 are
// dropped and the totals are recomputed rather than trusted.
func Rehydrate(data []byte) (State, error) {
	var stored State
	if err := json.Unmarshal(data, &stored); err != nil {
		return Empty(), err
	}
	items := make([]Item, 0, len(stored.Items))
	for _, item := range stored.Items {
		if item.Quantity >= 1 {
			items = append(items, item)
		}
	}
	return withTotals(items, stored.IsOpen), nil
}
