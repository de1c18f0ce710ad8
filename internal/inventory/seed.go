package inventory

import "estoque/internal/domain"

const (
	shirtImage = "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800&q=60"
	jeansImage = "https://images.unsplash.com/photo-1602293589930-4535a9ac7d89?w=800&q=60"
)

// seedProducts is the demo catalog written to an empty backend on first load.
func seedProducts() []*domain.Product {
	return []*domain.Product{
		{
			ID:          "SKU001",
			Name:        "Camiseta Básica Branca",
			Description: "Camiseta de algodão confortável, cor branca.",
			Category:    "Vestuário Superior",
			Stock:       50,
			Price:       29.99,
			ImageURL:    shirtImage,
			Variations: []domain.Variation{
				{ID: "SKU001-S", Size: "P", Color: "Branca", Stock: 20, Price: 29.99, ImageURL: shirtImage},
				{ID: "SKU001-M", Size: "M", Color: "Branca", Stock: 30, Price: 29.99, ImageURL: shirtImage},
			},
		},
		{
			ID:          "SKU002",
			Name:        "Calça Jeans Azul Escuro",
			Description: "Calça jeans skinny, lavagem azul escuro.",
			Category:    "Vestuário Inferior",
			Stock:       35,
			Price:       89.90,
			ImageURL:    jeansImage,
			Variations: []domain.Variation{
				{ID: "SKU002-38", Size: "38", Color: "Azul Escuro", Stock: 15, Price: 89.90, ImageURL: jeansImage},
				{ID: "SKU002-40", Size: "40", Color: "Azul Escuro", Stock: 20, Price: 89.90, ImageURL: jeansImage},
			},
		},
	}
}
