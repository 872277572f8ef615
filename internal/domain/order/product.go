package order

import (
	"fmt"
	"strconv"
)

type Product struct {
	ProductNum  string
	Description string
	Price       float64
	Quantity    int
}

func NewProduct(productNum, description string, price float64, quantity int) *Product {
	return &Product{
		ProductNum:  productNum,
		Description: description,
		Price:       price,
		Quantity:    quantity,
	}
}

// numValue panics on a non-numeric product number. Ordering inside a
// basket depends on numeric product numbers, so a malformed one is a
// programmer error, not a business outcome.
func (p *Product) numValue() int {
	n, err := strconv.Atoi(p.ProductNum)
	if err != nil {
		panic(fmt.Sprintf("order: non-numeric product number %q", p.ProductNum))
	}
	return n
}

func ValidProductNum(productNum string) bool {
	if productNum == "" {
		return false
	}
	_, err := strconv.Atoi(productNum)
	return err == nil
}

func (p *Product) LineTotal() float64 {
	return p.Price * float64(p.Quantity)
}
