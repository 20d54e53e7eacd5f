package domain

// LineItem is one product entry in the cart. Name is the merge key for
// repeated additions; ID is generated once and stable for the item's
// lifetime. Prices are whole currency units.
type LineItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
}

func (it LineItem) LineTotal() int64 {
	return it.UnitPrice * it.Quantity
}

// Snapshot is a read-only copy of the cart at a point in time, with the
// derived totals recomputed. Items keep insertion order.
type Snapshot struct {
	Items      []LineItem `json:"items"`
	TotalItems int64      `json:"total_items"`
	TotalPrice int64      `json:"total_price"`
}

func NewSnapshot(items []LineItem) Snapshot {
	snap := Snapshot{Items: make([]LineItem, len(items))}
	copy(snap.Items, items)
	for _, it := range items {
		snap.TotalItems += it.Quantity
		snap.TotalPrice += it.LineTotal()
	}
	return snap
}
