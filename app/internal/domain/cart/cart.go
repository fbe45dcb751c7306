package cart

import "time"

type Item struct {
	ProductID int64
	Quantity  int64
}

type DetailedItem struct {
	Item
	ProductName  string
	ProductPrice float64
	ExpiresAt    time.Time
}

type Cart struct {
	SessionID string
	UserID    int64
	Items     []DetailedItem
}

func (c *Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.ProductPrice * float64(item.Quantity)
	}
	return total
}
