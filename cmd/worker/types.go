package main

// CartEvent is the payload sent from API -> SQS -> worker.
type CartEvent struct {
	Event         string  `json:"event"` // cart_updated | checkout_requested
	Slot          string  `json:"slot"`
	Revision      string  `json:"revision,omitempty"`
	OrderID       string  `json:"order_id,omitempty"`
	Total         float64 `json:"total,omitempty"`
	Lines         int     `json:"lines,omitempty"`
	CorrelationID string  `json:"correlation_id,omitempty"`
}
