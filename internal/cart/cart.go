package cart

import "github.com/shopspring/decimal"

// Item is what a screen hands over when a product is added.
type Item struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Image     *string         `json:"image,omitempty"`
}

// Line is one product in the cart. Quantity is always >= 1.
type Line struct {
	Item
	Quantity int `json:"quantity"`
}

// Cart is an ordered list of lines, first added first, with at most one line
// per item id. All mutation goes through AddItem, UpdateQuantity, RemoveItem
// and Clear.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// FromLines rebuilds a cart from stored lines. Duplicate ids are merged into
// the first occurrence and lines with a non-positive quantity are dropped.
func FromLines(lines []Line) *Cart {
	c := New()
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		if i := c.index(l.ID); i >= 0 {
			c.lines[i].Quantity += l.Quantity
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

// AddItem increments the quantity of an existing line or appends a new one.
// An existing line keeps its name, price and image.
func (c *Cart) AddItem(item Item) {
	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: 1})
}

// UpdateQuantity adds delta to the line's quantity, never going below 1.
// Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, delta int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.lines[i].Quantity = max(1, c.lines[i].Quantity+delta)
}

// RemoveItem deletes the line with the given id, if any.
func (c *Cart) RemoveItem(id string) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for id.
func (c *Cart) Line(id string) (Line, bool) {
	i := c.index(id)
	if i < 0 {
		return Line{}, false
	}
	return c.lines[i], true
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// ItemCount is the sum of all quantities.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Totals recomputes subtotal, shipping and total from the current lines.
func (c *Cart) Totals() Totals {
	return ComputeTotals(c.lines)
}

func (c *Cart) index(id string) int {
	for i := range c.lines {
		if c.lines[i].ID == id {
			return i
		}
	}
	return -1
}
