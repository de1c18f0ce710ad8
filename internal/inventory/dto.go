package inventory

import "estoque/internal/domain"

type VariationCreateRequest struct {
	ID       string  `json:"id"`
	Size     string  `json:"size"`
	Color    string  `json:"color"`
	Stock    int     `json:"stock" validate:"gte=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	ImageURL string  `json:"imageUrl"`
}

type ProductCreateRequest struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name" validate:"required"`
	Description string                   `json:"description"`
	Category    string                   `json:"category"`
	Stock       int                      `json:"stock" validate:"gte=0"`
	Price       float64                  `json:"price" validate:"gte=0"`
	ImageURL    string                   `json:"imageUrl"`
	Variations  []VariationCreateRequest `json:"variations" validate:"dive"`
}

type StockAdjustRequest struct {
	VariationID string `json:"variationId"`
	Delta       int    `json:"delta"`
}

type VariationResponse struct {
	ID       string  `json:"id"`
	Size     string  `json:"size,omitempty"`
	Color    string  `json:"color,omitempty"`
	Stock    int     `json:"stock"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

type ProductResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Category    string              `json:"category,omitempty"`
	Stock       int                 `json:"stock"`
	Price       float64             `json:"price"`
	ImageURL    string              `json:"imageUrl"`
	Variations  []VariationResponse `json:"variations"`
	SyncStatus  string              `json:"syncStatus"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

func (r ProductCreateRequest) toDomain() domain.Product {
	variations := make([]domain.Variation, len(r.Variations))
	for i, v := range r.Variations {
		variations[i] = v.toDomain()
	}
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Stock:       r.Stock,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		Variations:  variations,
	}
}

func (r VariationCreateRequest) toDomain() domain.Variation {
	return domain.Variation{
		ID:       r.ID,
		Size:     r.Size,
		Color:    r.Color,
		Stock:    r.Stock,
		Price:    r.Price,
		ImageURL: r.ImageURL,
	}
}

func toProductResponse(p *domain.Product) ProductResponse {
	variations := make([]VariationResponse, len(p.Variations))
	for i, v := range p.Variations {
		variations[i] = VariationResponse{
			ID:       v.ID,
			Size:     v.Size,
			Color:    v.Color,
			Stock:    v.Stock,
			Price:    v.Price,
			ImageURL: v.ImageURL,
		}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Stock:       p.Stock,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Variations:  variations,
		SyncStatus:  string(p.SyncStatus),
	}
}
