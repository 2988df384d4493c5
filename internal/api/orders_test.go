package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hukshh/fitchekk/internal/auth"
	"github.com/hukshh/fitchekk/internal/domain"
)

type stubOrderRepo struct {
	cart    []domain.CartItem
	placed  *domain.Order
	orders  []domain.Order
	order   *domain.Order
	updated *domain.Order
}

func (s *stubOrderRepo) PlaceFromCart(_ context.Context, _ string, build func([]domain.CartItem) (domain.Order, error)) (*domain.Order, error) {
	order, err := build(s.cart)
	if err != nil {
		return nil, err
	}
	s.placed = &order
	return &order, nil
}

func (s *stubOrderRepo) List(_ context.Context, _ string, _, _ int) ([]domain.Order, int, error) {
	return s.orders, len(s.orders), nil
}

func (s *stubOrderRepo) Get(_ context.Context, _, _ string) (*domain.Order, error) {
	return s.order, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, _, _ string, status domain.OrderStatus) (*domain.Order, error) {
	if s.updated != nil {
		s.updated.Status = status
	}
	return s.updated, nil
}

func orderHandler(repo domain.OrderRepository) *Handler {
	return NewHandler(Services{Orders: domain.NewOrderService(repo)}, auth.Config{Secret: "test"})
}

func TestPlaceOrderSuccess(t *testing.T) {
	repo := &stubOrderRepo{cart: []domain.CartItem{
		{ID: "ci-1", UserID: "user-1", ProductID: "prod-1", Quantity: 2, Product: &domain.Product{ID: "prod-1", Price: 5.00}},
		{ID: "ci-2", UserID: "user-1", ProductID: "prod-2", Quantity: 2, Product: &domain.Product{ID: "prod-2", Price: 7.50}},
	}}
	handler := orderHandler(repo)

	body := strings.NewReader(`{"shipping_address":"1 Gym Street"}`)
	rr := httptest.NewRecorder()
	handler.placeOrder(rr, authedRequest(http.MethodPost, "/api/orders", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]OrderView
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	order := resp["order"]
	if order.TotalAmount != 25.00 {
		t.Fatalf("expected total 25.00 got %v", order.TotalAmount)
	}
	if order.Status != "pending" {
		t.Fatalf("expected pending got %q", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(order.Items))
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	handler := orderHandler(&stubOrderRepo{})

	body := strings.NewReader(`{"shipping_address":"1 Gym Street"}`)
	rr := httptest.NewRecorder()
	handler.placeOrder(rr, authedRequest(http.MethodPost, "/api/orders", body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["type"] != "invalid_state" {
		t.Fatalf("unexpected error type %q", resp["type"])
	}
}

func TestPlaceOrderRequiresAddress(t *testing.T) {
	handler := orderHandler(&stubOrderRepo{})

	body := strings.NewReader(`{"shipping_address":"  "}`)
	rr := httptest.NewRecorder()
	handler.placeOrder(rr, authedRequest(http.MethodPost, "/api/orders", body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestUpdateOrderStatusInvalidValue(t *testing.T) {
	handler := orderHandler(&stubOrderRepo{updated: &domain.Order{ID: "ord-1", UserID: "user-1"}})

	body := strings.NewReader(`{"status":"refunded"}`)
	rr := httptest.NewRecorder()
	handler.orderByID(rr, authedRequest(http.MethodPut, "/api/orders/ord-1/status", body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestUpdateOrderStatusSuccess(t *testing.T) {
	handler := orderHandler(&stubOrderRepo{updated: &domain.Order{ID: "ord-1", UserID: "user-1", Status: domain.OrderStatusPending, CreatedAt: time.Now()}})

	body := strings.NewReader(`{"status":"shipped"}`)
	rr := httptest.NewRecorder()
	handler.orderByID(rr, authedRequest(http.MethodPut, "/api/orders/ord-1/status", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp map[string]OrderView
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["order"].Status != "shipped" {
		t.Fatalf("expected shipped got %q", resp["order"].Status)
	}
}

func TestGetOrderNotOwned(t *testing.T) {
	handler := orderHandler(&stubOrderRepo{order: nil})

	rr := httptest.NewRecorder()
	handler.orderByID(rr, authedRequest(http.MethodGet, "/api/orders/ord-9", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["type"] != "not_found" {
		t.Fatalf("unexpected error type %q", resp["type"])
	}
}
