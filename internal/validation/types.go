package validation

// UpdateQuantityRequest is the payload for PATCH /api/v1/cart/items/:id.
// Quantities below 1 never reach the orchestrator; removal is an explicit
// DELETE, not a zero quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// CheckoutItem is one line item as claimed by the checkout client.
type CheckoutItem struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name,omitempty"`
	Price    float64 `json:"price" validate:"gte=0"`   // unit price
	Currency string  `json:"currency,omitempty"`       // all lines must agree
	Quantity int     `json:"quantity" validate:"required,min=1"`
}

// CheckoutRequest is the payload for POST /api/v1/checkout. The client
// echoes back the totals it displayed; struct-level validation re-derives
// them from the items and rejects mismatches.
type CheckoutRequest struct {
	Items    []CheckoutItem         `json:"items" validate:"required,min=1,dive"`
	Subtotal float64                `json:"subtotal" validate:"gte=0"`
	Tax      float64                `json:"tax" validate:"gte=0"`
	Total    float64                `json:"total" validate:"gte=0"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}
