package domain

import (
	"errors"
	"testing"
	"time"
)

func TestBuildOrderSnapshotsCart(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	shake := &Product{ID: "prod-1", Name: "Protein Shake", Price: 5.00}
	band := &Product{ID: "prod-2", Name: "Resistance Band", Price: 7.50}
	items := []CartItem{
		{ID: "ci-1", UserID: "user-1", ProductID: "prod-1", Quantity: 2, Product: shake},
		{ID: "ci-2", UserID: "user-1", ProductID: "prod-2", Quantity: 2, Product: band},
	}

	order, err := BuildOrder("user-1", "1 Gym Street", items, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.TotalAmount != 25.00 {
		t.Fatalf("expected total 25.00 got %v", order.TotalAmount)
	}
	if order.Status != OrderStatusPending {
		t.Fatalf("expected pending status got %q", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(order.Items))
	}
	if order.Items[0].Price != 5.00 || order.Items[1].Price != 7.50 {
		t.Fatalf("expected frozen unit prices got %v and %v", order.Items[0].Price, order.Items[1].Price)
	}
	if order.CreatedAt != now {
		t.Fatalf("expected created at %v got %v", now, order.CreatedAt)
	}

	// A later catalog price change must not touch the snapshot.
	shake.Price = 9.99
	if order.Items[0].Price != 5.00 {
		t.Fatalf("expected snapshot price 5.00 got %v", order.Items[0].Price)
	}
}

func TestBuildOrderRejectsEmptyCart(t *testing.T) {
	_, err := BuildOrder("user-1", "1 Gym Street", nil, time.Now())
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty got %v", err)
	}
}

func TestCartTotalRoundsToCents(t *testing.T) {
	items := []CartItem{
		{Quantity: 3, Product: &Product{Price: 1.10}},
	}
	if got := CartTotal(items); got != 3.30 {
		t.Fatalf("expected 3.30 got %v", got)
	}
}

func TestOrderStatusValid(t *testing.T) {
	valid := []OrderStatus{OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled}
	for _, status := range valid {
		if !status.Valid() {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	for _, status := range []OrderStatus{"", "refunded", "PENDING"} {
		if status.Valid() {
			t.Fatalf("expected %q to be invalid", status)
		}
	}
}
