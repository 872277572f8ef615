package order

import (
	"fmt"
	"strings"
)

// Basket holds the line items of one order, unique by product number and
// kept in ascending numeric order after every insert.
type Basket struct {
	OrderNum int
	items    []*Product
}

func NewBasket() *Basket {
	return &Basket{}
}

func NewBasketWithOrderNum(orderNum int) *Basket {
	return &Basket{OrderNum: orderNum}
}

// Insert merges the product into an existing line with the same product
// number, or places it at its sorted position. The scan stops at the
// first line whose product number is numerically greater.
func (b *Basket) Insert(pr *Product) {
	prNum := pr.numValue()

	for _, item := range b.items {
		if item.ProductNum == pr.ProductNum {
			item.Quantity += pr.Quantity
			return
		}
	}

	for i, item := range b.items {
		if prNum < item.numValue() {
			b.items = append(b.items[:i], append([]*Product{pr}, b.items[i:]...)...)
			return
		}
	}

	b.items = append(b.items, pr)
}

func (b *Basket) Find(productNum string) *Product {
	for _, item := range b.items {
		if item.ProductNum == productNum {
			return item
		}
	}
	return nil
}

func (b *Basket) Items() []*Product {
	return b.items
}

func (b *Basket) Size() int {
	return len(b.items)
}

func (b *Basket) Total() float64 {
	total := 0.0
	for _, item := range b.items {
		total += item.LineTotal()
	}
	return total
}

// Details renders the basket as the durable order record text. The
// rendering is deterministic: lines follow basket order.
func (b *Basket) Details() string {
	var sb strings.Builder

	if b.OrderNum != 0 {
		fmt.Fprintf(&sb, "Order number: %03d\n", b.OrderNum)
	}

	for _, item := range b.items {
		fmt.Fprintf(&sb, "%-7s %-14.14s (%3d) @ %7.2f  %8.2f\n",
			item.ProductNum, item.Description, item.Quantity,
			item.Price, item.LineTotal())
	}

	fmt.Fprintf(&sb, "----------------------------\nTotal %33.2f\n", b.Total())

	return sb.String()
}

// Change reports the difference between the cash tendered and the basket
// total. A negative result is the amount still owed.
func (b *Basket) Change(tendered float64) float64 {
	return tendered - b.Total()
}
