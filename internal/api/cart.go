package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// AddToCartRequest is the payload for POST /api/cart.
type AddToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Validate ensures request correctness.
func (r AddToCartRequest) Validate() error {
	if strings.TrimSpace(r.ProductID) == "" {
		return errors.New("product_id is required")
	}
	if r.Quantity < 0 {
		return errors.New("quantity must be >= 0")
	}
	return nil
}

// CartResponse is the cart with its computed totals.
type CartResponse struct {
	Items []CartItemView `json:"items"`
	Total float64        `json:"total"`
	Count int            `json:"count"`
}

func (h *Handler) cartCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getCart(w, r)
	case http.MethodPost:
		h.addToCart(w, r)
	case http.MethodDelete:
		h.clearCart(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	cart, err := h.cart.Get(r.Context(), uid)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	items := make([]CartItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, toCartItemView(item))
	}
	writeJSON(w, http.StatusOK, CartResponse{Items: items, Total: cart.Total, Count: cart.Count})
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req AddToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	item, err := h.cart.Add(r.Context(), uid, req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]CartItemView{"item": toCartItemView(*item)})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.cart.Clear(r.Context(), uid); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}

// UpdateCartItemRequest is the payload for PUT /api/cart/items/{id}.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) cartItemByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing cart item id")
		return
	}

	switch r.Method {
	case http.MethodPut:
		h.updateCartItem(w, r, id)
	case http.MethodDelete:
		h.removeCartItem(w, r, id)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request, id string) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	item, err := h.cart.UpdateItem(r.Context(), uid, id, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if item == nil {
		// Quantity dropped to zero; the line is gone.
		writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]CartItemView{"item": toCartItemView(*item)})
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request, id string) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	if err := h.cart.Remove(r.Context(), uid, id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}
