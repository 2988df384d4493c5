package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/hukshh/fitchekk/internal/domain"
)

// PlaceOrderRequest is the payload for POST /api/orders.
type PlaceOrderRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

// Validate ensures request correctness.
func (r PlaceOrderRequest) Validate() error {
	if strings.TrimSpace(r.ShippingAddress) == "" {
		return errors.New("shipping_address is required")
	}
	return nil
}

func (h *Handler) orderCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.placeOrder(w, r)
	case http.MethodGet:
		h.listOrders(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	order, err := h.orders.Place(r.Context(), uid, strings.TrimSpace(req.ShippingAddress))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]OrderView{"order": toOrderView(*order)})
}

// ListOrdersResponse packages paginated orders.
type ListOrdersResponse struct {
	Orders     []OrderView    `json:"orders"`
	Pagination PaginationView `json:"pagination"`
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)

	result, err := h.orders.List(r.Context(), uid, page, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	orders := make([]OrderView, 0, len(result.Orders))
	for _, order := range result.Orders {
		orders = append(orders, toOrderView(order))
	}
	writeJSON(w, http.StatusOK, ListOrdersResponse{
		Orders:     orders,
		Pagination: toPaginationView(result.Page, result.Limit, result.Total),
	})
}

func (h *Handler) orderByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/orders/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing order id")
		return
	}

	if id, found := strings.CutSuffix(rest, "/status"); found {
		if r.Method != http.MethodPut {
			methodNotAllowed(w)
			return
		}
		h.updateOrderStatus(w, r, id)
		return
	}

	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	h.getOrder(w, r, rest)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request, id string) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Get(r.Context(), uid, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]OrderView{"order": toOrderView(*order)})
}

// UpdateOrderStatusRequest is the payload for PUT /api/orders/{id}/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request, id string) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), uid, id, domain.OrderStatus(req.Status))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]OrderView{"order": toOrderView(*order)})
}
