package validation

import "testing"

func validCheckout() CheckoutRequest {
	return CheckoutRequest{
		Items: []CheckoutItem{
			{ID: "exp-1", Price: 25.00, Currency: "USD", Quantity: 2},
			{ID: "tkt-2", Price: 9.99, Currency: "USD", Quantity: 1},
		},
		Subtotal: 59.99,
		Tax:      4.80,
		Total:    64.79,
	}
}

func TestCheckoutRequest_Valid(t *testing.T) {
	v := New()
	if err := v.Struct(validCheckout()); err != nil {
		t.Fatalf("expected valid, got error: %v", err)
	}
}

func TestCheckoutRequest_SubtotalMismatch(t *testing.T) {
	v := New()
	req := validCheckout()
	req.Subtotal = 42.00

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for subtotal mismatch, got nil")
	}
}

func TestCheckoutRequest_TotalNotAdditive(t *testing.T) {
	v := New()
	req := validCheckout()
	req.Total = 60.00 // != subtotal + tax

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for non-additive total, got nil")
	}
}

func TestCheckoutRequest_MixedCurrencies(t *testing.T) {
	v := New()
	req := validCheckout()
	req.Items[1].Currency = "EUR"

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for mixed currencies, got nil")
	}
}

func TestCheckoutRequest_NoItems(t *testing.T) {
	v := New()
	req := CheckoutRequest{Subtotal: 0, Tax: 0, Total: 0}

	if err := v.Struct(req); err == nil {
		t.Fatal("expected validation error for empty items, got nil")
	}
}

func TestUpdateQuantityRequest_Floor(t *testing.T) {
	v := New()

	if err := v.Struct(UpdateQuantityRequest{Quantity: 1}); err != nil {
		t.Fatalf("quantity 1 should be valid: %v", err)
	}
	if err := v.Struct(UpdateQuantityRequest{Quantity: 0}); err == nil {
		t.Fatal("quantity 0 should fail validation")
	}
	if err := v.Struct(UpdateQuantityRequest{Quantity: -2}); err == nil {
		t.Fatal("negative quantity should fail validation")
	}
}
