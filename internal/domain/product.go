package domain

// SyncStatus tracks how the in-memory copy of a product relates to the
// persistence backend. The snapshot always advances optimistically; the
// persister flips the status once the write lands (or gives up).
type SyncStatus string

const (
	SyncPending SyncStatus = "pending"
	SyncSynced  SyncStatus = "synced"
	SyncFailed  SyncStatus = "failed"
)

type Variation struct {
	ID       string  `json:"id"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
	Stock    int     `json:"stock"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

type Product struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
	Stock       int         `json:"stock"`
	Price       float64     `json:"price"`
	ImageURL    string      `json:"imageUrl"`
	Variations  []Variation `json:"variations"`

	// Not persisted; owned by the store's persister.
	SyncStatus SyncStatus `json:"-"`
}

// VariationStockSum returns the total stock held across variations. When the
// product has variations, Stock must equal this sum after every mutation.
func (p *Product) VariationStockSum() int {
	sum := 0
	for _, v := range p.Variations {
		sum += v.Stock
	}
	return sum
}

// HasVariation reports whether a variation with the given id exists on the
// product.
func (p *Product) HasVariation(id string) bool {
	for _, v := range p.Variations {
		if v.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, so callers can hand snapshots out without
// exposing the store's backing slices.
func (p *Product) Clone() *Product {
	cp := *p
	cp.Variations = make([]Variation, len(p.Variations))
	copy(cp.Variations, p.Variations)
	return &cp
}

// ProductUpdate carries a shallow partial update. Nil fields are left
// untouched. Replacing Variations wholesale is allowed and recomputes the
// derived stock.
type ProductUpdate struct {
	Name        *string      `json:"name,omitempty"`
	Description *string      `json:"description,omitempty"`
	Category    *string      `json:"category,omitempty"`
	Stock       *int         `json:"stock,omitempty"`
	Price       *float64     `json:"price,omitempty"`
	ImageURL    *string      `json:"imageUrl,omitempty"`
	Variations  *[]Variation `json:"variations,omitempty"`
}

type VariationUpdate struct {
	Size     *string  `json:"size,omitempty"`
	Color    *string  `json:"color,omitempty"`
	Stock    *int     `json:"stock,omitempty"`
	Price    *float64 `json:"price,omitempty"`
	ImageURL *string  `json:"imageUrl,omitempty"`
}

// Apply merges the update into the product. Derived stock is recomputed only
// when the variation sequence itself is replaced.
func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.ImageURL != nil {
		p.ImageURL = *u.ImageURL
	}
	if u.Variations != nil {
		p.Variations = make([]Variation, len(*u.Variations))
		copy(p.Variations, *u.Variations)
		if len(p.Variations) > 0 {
			p.Stock = p.VariationStockSum()
		}
	}
}

func (u VariationUpdate) Apply(v *Variation) {
	if u.Size != nil {
		v.Size = *u.Size
	}
	if u.Color != nil {
		v.Color = *u.Color
	}
	if u.Stock != nil {
		v.Stock = *u.Stock
	}
	if u.Price != nil {
		v.Price = *u.Price
	}
	if u.ImageURL != nil {
		v.ImageURL = *u.ImageURL
	}
}
