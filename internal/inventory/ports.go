package inventory

import "estoque/internal/domain"

// ProductStore is the store surface the HTTP controller consumes.
type ProductStore interface {
	Products() []*domain.Product
	GetProductByID(id string) (*domain.Product, bool)
	AddProduct(p domain.Product) (*domain.Product, error)
	UpdateProduct(id string, upd domain.ProductUpdate) (*domain.Product, error)
	AddVariation(productID string, v domain.Variation) (*domain.Product, error)
	UpdateVariation(productID, variationID string, upd domain.VariationUpdate) (*domain.Product, error)
	AdjustStock(productID, variationID string, delta int) (*domain.Product, error)
	DeleteProduct(id string)
	DeleteVariation(productID, variationID string) (*domain.Product, error)
}
