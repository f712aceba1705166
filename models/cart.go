package models

// CartItem is a line in the cart. Product fields are copied at add time so later
// catalog reloads never change what is already in the cart.
type CartItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Material    string  `json:"material"`
	Image       string  `json:"image"`
	Emoji       string  `json:"emoji"`
	Price       float64 `json:"price"` // Unit price locked at first add
	Qty         int     `json:"qty"`
}

// Subtotal returns price times quantity for the line
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Qty)
}

// Cart holds the line items of one session and the open flag of the cart panel
type Cart struct {
	Items  []CartItem `json:"items"`
	IsOpen bool       `json:"isOpen"`
}

// AddItem inserts the product with qty 1, or increments the existing line.
// The caller resolves the price (promo or regular) before calling.
// The price of an existing line is not updated.
func (c *Cart) AddItem(p Product) {
	for i := range c.Items {
		if c.Items[i].ID == p.ID {
			c.Items[i].Qty++
			c.IsOpen = true
			return
		}
	}
	c.Items = append(c.Items, CartItem{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Subcategory: p.Subcategory,
		Material:    p.Material,
		Image:       p.Image,
		Emoji:       p.Emoji,
		Price:       p.Price,
		Qty:         1,
	})
	c.IsOpen = true
}

// RemoveItem deletes the line regardless of its quantity
func (c *Cart) RemoveItem(id string) {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	c.Items = items
}

// ChangeQty adds delta to the line quantity. A result of zero or less removes the line.
func (c *Cart) ChangeQty(id string, delta int) {
	items := make([]CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		if item.ID == id {
			item.Qty += delta
			if item.Qty <= 0 {
				continue
			}
		}
		items = append(items, item)
	}
	c.Items = items
}

// SetOpen sets the visibility flag of the cart panel
func (c *Cart) SetOpen(open bool) {
	c.IsOpen = open
}

// Total returns the sum of price times quantity over all lines
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// Count returns the number of units in the cart
func (c Cart) Count() int {
	count := 0
	for _, item := range c.Items {
		count += item.Qty
	}
	return count
}

// Find returns the line for the given id
func (c Cart) Find(id string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == id {
			return item, true
		}
	}
	return CartItem{}, false
}

// CartView is the cart as exposed to the presentation layer
type CartView struct {
	Items  []CartItem `json:"items"`
	Total  float64    `json:"total"`
	Count  int        `json:"count"`
	IsOpen bool       `json:"isOpen"`
}

// View builds the exposed representation with derived totals
func (c Cart) View() CartView {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return CartView{
		Items:  items,
		Total:  c.Total(),
		Count:  c.Count(),
		IsOpen: c.IsOpen,
	}
}
