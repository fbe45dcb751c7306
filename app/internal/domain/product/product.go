package product

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	// Stock is the physical inventory. Only a completed sale decrements it.
	Stock      int64
	CategoryID int64
	IsActive   bool
}

// Available is Stock minus reserved, floored at zero.
func (p *Product) Available(reserved int64) int64 {
	if avail := p.Stock - reserved; avail > 0 {
		return avail
	}
	return 0
}

type ListFilter struct {
	CategoryID *int64
	Search     string
	OnlyActive bool
}
