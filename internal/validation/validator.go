package validation

import (
	"fmt"
	"math"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation
// registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// checkout requests must be internally consistent: claimed subtotal
	// matches the items, total is subtotal + tax, one currency throughout.
	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})

	return v
}

// checkoutStructValidation re-derives the money fields from the line items
// and compares in integer cents to avoid float rounding noise.
func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)

	var sum float64
	currency := ""
	mixed := false
	for _, it := range req.Items {
		sum += float64(it.Quantity) * it.Price
		if it.Currency == "" {
			continue
		}
		if currency == "" {
			currency = it.Currency
		} else if it.Currency != currency {
			mixed = true
		}
	}

	if mixed {
		sl.ReportError(req.Items, "items", "Items", "single_currency", currency)
	}

	sumCents := int(math.Round(sum * 100))
	subtotalCents := int(math.Round(req.Subtotal * 100))
	if sumCents != subtotalCents {
		sl.ReportError(req.Subtotal, "subtotal", "Subtotal", "subtotal_match_items",
			fmt.Sprintf("items sum %.2f != subtotal %.2f", sum, req.Subtotal))
	}

	totalCents := int(math.Round(req.Total * 100))
	taxCents := int(math.Round(req.Tax * 100))
	if subtotalCents+taxCents != totalCents {
		sl.ReportError(req.Total, "total", "Total", "total_match_sum",
			fmt.Sprintf("subtotal %.2f + tax %.2f != total %.2f", req.Subtotal, req.Tax, req.Total))
	}
}
