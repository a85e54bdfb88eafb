package models

// LineItem is one purchased item on a session or bill.
type LineItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

func (i LineItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// CloneItems copies the slice so callers never share backing arrays.
// A nil or empty input yields an empty, non-nil slice.
func CloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// CatalogItem is an entry of the quick-add item bar.
type CatalogItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// DefaultCatalog lists the items sold at the counter.
var DefaultCatalog = []CatalogItem{
	{ID: "cold-drink", Name: "Cold Drink", Price: 25},
	{ID: "cigarette", Name: "Cigarette", Price: 15},
	{ID: "snacks", Name: "Snacks", Price: 30},
}

// FindCatalogItem looks an item up by id in DefaultCatalog.
func FindCatalogItem(id string) (CatalogItem, bool) {
	for _, item := range DefaultCatalog {
		if item.ID == id {
			return item, true
		}
	}
	return CatalogItem{}, false
}

func (c CatalogItem) LineItem() LineItem {
	return LineItem{ID: c.ID, Name: c.Name, UnitPrice: c.Price}
}
