package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hukshh/fitchekk/internal/domain"
)

// CreateCategoryRequest is the payload for POST /api/categories.
type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate ensures request correctness.
func (r CreateCategoryRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

func (h *Handler) categoryCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createCategory(w, r)
	case http.MethodGet:
		h.listCategories(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	if _, ok := userID(w, r); !ok {
		return
	}

	var req CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Description))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]CategoryView{"category": toCategoryView(*category)})
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]CategoryView, 0, len(categories))
	for _, category := range categories {
		views = append(views, toCategoryView(category))
	}
	writeJSON(w, http.StatusOK, map[string][]CategoryView{"categories": views})
}

// CreateProductRequest is the payload for POST /api/products.
type CreateProductRequest struct {
	CategoryID  string  `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
}

// Validate ensures request correctness.
func (r CreateProductRequest) Validate() error {
	if strings.TrimSpace(r.CategoryID) == "" {
		return errors.New("category_id is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if r.Price < 0 {
		return errors.New("price must be >= 0")
	}
	if r.Stock < 0 {
		return errors.New("stock must be >= 0")
	}
	return nil
}

func (h *Handler) productCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createProduct(w, r)
	case http.MethodGet:
		h.listProducts(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := userID(w, r); !ok {
		return
	}

	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), req.CategoryID, strings.TrimSpace(req.Name), req.Description, req.ImageURL, req.Price, req.Stock)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]ProductView{"product": toProductView(*product)})
}

// ListProductsResponse packages paginated products.
type ListProductsResponse struct {
	Products   []ProductView  `json:"products"`
	Pagination PaginationView `json:"pagination"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ProductFilter{
		Category: query.Get("category"),
		Search:   query.Get("search"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 20),
	}

	page, err := h.catalog.ListProducts(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	products := make([]ProductView, 0, len(page.Products))
	for _, product := range page.Products {
		products = append(products, toProductView(product))
	}
	writeJSON(w, http.StatusOK, ListProductsResponse{
		Products:   products,
		Pagination: toPaginationView(page.Page, page.Limit, page.Total),
	})
}

func (h *Handler) productByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/products/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing product id")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]ProductView{"product": toProductView(*product)})
}
