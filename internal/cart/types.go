package cart

// DefaultCurrency is stamped onto normalized items whose source record
// carries no currency code.
const DefaultCurrency = "USD"

// DefaultSlot is the snapshot slot used when a request names no cart.
const DefaultSlot = "atlvs-cart"

// RawItem is a loosely-typed line item as decoded from an upstream cart
// response or a previously serialized snapshot. Field types are whatever
// the JSON decoder produced; Normalize turns batches of these into Items.
type RawItem map[string]interface{}

// Item is the canonical cart line item. All mutation and pricing code
// operates on this shape only.
type Item struct {
	ID          string                 `json:"id" dynamodbav:"id"`
	Name        string                 `json:"name,omitempty" dynamodbav:"name,omitempty"`
	Description string                 `json:"description,omitempty" dynamodbav:"description,omitempty"`
	Type        string                 `json:"type,omitempty" dynamodbav:"type,omitempty"` // e.g. experience | ticket | package; opaque here
	Price       float64                `json:"price" dynamodbav:"price"`                   // unit price, >= 0
	Currency    string                 `json:"currency" dynamodbav:"currency"`
	Quantity    int                    `json:"quantity" dynamodbav:"quantity"` // >= 1
	Image       string                 `json:"image,omitempty" dynamodbav:"image,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" dynamodbav:"metadata,omitempty"`
}

// Totals is the derived pricing summary for one cart snapshot. Values are
// rounded to two decimal places; recomputed from the items on every read,
// never persisted on their own.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// SingleCurrency returns the currency shared by all items and true when the
// list is non-empty and unmixed. Mixed carts report the first item's
// currency and false; callers decide whether to refuse to quote totals.
func SingleCurrency(items []Item) (string, bool) {
	if len(items) == 0 {
		return DefaultCurrency, true
	}
	first := items[0].Currency
	for _, it := range items[1:] {
		if it.Currency != first {
			return first, false
		}
	}
	return first, true
}
