package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"estoque/internal/domain"
	apperrors "estoque/internal/errors"
)

type Controller struct {
	store    ProductStore
	validate *validator.Validate
	logger   *zap.Logger
}

func NewController(store ProductStore, logger *zap.Logger) *Controller {
	return &Controller{
		store:    store,
		validate: validator.New(),
		logger:   logger,
	}
}

func (c *Controller) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", c.ListProducts)
		r.Post("/", c.CreateProduct)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", c.GetProduct)
			r.Patch("/", c.UpdateProduct)
			r.Delete("/", c.DeleteProduct)
			r.Post("/stock", c.AdjustStock)
			r.Post("/variations", c.CreateVariation)
			r.Patch("/variations/{variationId}", c.UpdateVariation)
			r.Delete("/variations/{variationId}", c.DeleteVariation)
		})
	})
}

// ListProducts returns the current snapshot, optionally filtered by the q
// parameter matched case-insensitively against id, name and category.
func (c *Controller) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))

	products := c.store.Products()
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		out = append(out, toProductResponse(p))
	}

	c.writeJSON(w, http.StatusOK, ProductListResponse{Products: out, Total: len(out)})
}

func (c *Controller) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := c.store.GetProductByID(id)
	if !ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", "product not found")
		return
	}
	c.writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (c *Controller) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if !c.validateStruct(w, req) {
		return
	}

	p, err := c.store.AddProduct(req.toDomain())
	if err != nil {
		c.handleStoreError(w, err)
		return
	}

	c.logger.Info("product created", zap.String("productId", p.ID))
	c.writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (c *Controller) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var upd domain.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if detail, ok := validateProductUpdate(upd); !ok {
		c.writeValidationError(w, detail.Message, detail)
		return
	}

	p, err := c.store.UpdateProduct(id, upd)
	if err != nil {
		c.handleStoreError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (c *Controller) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c.store.DeleteProduct(id)
	c.logger.Info("product deleted", zap.String("productId", id))
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) CreateVariation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req VariationCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if !c.validateStruct(w, req) {
		return
	}

	p, err := c.store.AddVariation(id, req.toDomain())
	if err != nil {
		c.handleStoreError(w, err)
		return
	}

	c.logger.Info("variation created", zap.String("productId", id))
	c.writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (c *Controller) UpdateVariation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	variationID := chi.URLParam(r, "variationId")

	var upd domain.VariationUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if detail, ok := validateVariationUpdate(upd); !ok {
		c.writeValidationError(w, detail.Message, detail)
		return
	}

	p, err := c.store.UpdateVariation(id, variationID, upd)
	if err != nil {
		c.handleStoreError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (c *Controller) DeleteVariation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	variationID := chi.URLParam(r, "variationId")

	_, err := c.store.DeleteVariation(id, variationID)
	if err != nil {
		c.handleStoreError(w, err)
		return
	}
	c.logger.Info("variation deleted", zap.String("productId", id), zap.String("variationId", variationID))
	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req StockAdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}
	if req.Delta == 0 {
		c.writeValidationError(w, "delta must not be zero", apperrors.ValidationDetail{
			Field:   "delta",
			Message: "delta must be a non-zero integer",
		})
		return
	}

	p, err := c.store.AdjustStock(id, req.VariationID, req.Delta)
	if err != nil {
		c.handleStoreError(w, err)
		return
	}
	c.writeJSON(w, http.StatusOK, toProductResponse(p))
}

func matchesQuery(p *domain.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Category), q) ||
		strings.Contains(strings.ToLower(p.ID), q)
}

// Negative stock or price never reaches the store; partial updates are
// checked field by field since the validator cannot express optional
// pointer constraints cleanly.
func validateProductUpdate(upd domain.ProductUpdate) (apperrors.ValidationDetail, bool) {
	if upd.Stock != nil && *upd.Stock < 0 {
		return apperrors.ValidationDetail{Field: "stock", Message: "stock must be non-negative"}, false
	}
	if upd.Price != nil && *upd.Price < 0 {
		return apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"}, false
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return apperrors.ValidationDetail{Field: "name", Message: "name must not be empty"}, false
	}
	if upd.Variations != nil {
		for _, v := range *upd.Variations {
			if v.Stock < 0 {
				return apperrors.ValidationDetail{Field: "variations", Message: "variation stock must be non-negative"}, false
			}
			if v.Price < 0 {
				return apperrors.ValidationDetail{Field: "variations", Message: "variation price must be non-negative"}, false
			}
		}
	}
	return apperrors.ValidationDetail{}, true
}

func validateVariationUpdate(upd domain.VariationUpdate) (apperrors.ValidationDetail, bool) {
	if upd.Stock != nil && *upd.Stock < 0 {
		return apperrors.ValidationDetail{Field: "stock", Message: "stock must be non-negative"}, false
	}
	if upd.Price != nil && *upd.Price < 0 {
		return apperrors.ValidationDetail{Field: "price", Message: "price must be non-negative"}, false
	}
	return apperrors.ValidationDetail{}, true
}

func (c *Controller) validateStruct(w http.ResponseWriter, req any) bool {
	err := c.validate.Struct(req)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		details := make([]apperrors.ValidationDetail, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			details = append(details, apperrors.ValidationDetail{
				Field:   fieldErr.Field(),
				Message: "failed on rule: " + fieldErr.Tag(),
			})
		}
		c.writeValidationError(w, "validation failed", details...)
		return false
	}

	c.writeValidationError(w, "invalid request body")
	return false
}

func (c *Controller) handleStoreError(w http.ResponseWriter, err error) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsDuplicateIDError(err); ok {
		c.writeError(w, http.StatusConflict, "DUPLICATE_ID", err.Error())
		return
	}

	c.logger.Error("unexpected store error", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeError(w http.ResponseWriter, status int, code, message string) {
	c.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
