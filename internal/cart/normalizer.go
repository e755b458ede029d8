package cart

import (
	"math"
	"strconv"
	"strings"
)

// Normalize converts a batch of loosely-typed source records into canonical
// Items. Policy: a record without a usable id is skipped (no stable identity
// means no quantity edits or removal later); a duplicate id within the batch
// is skipped (first occurrence wins); every other malformed field is
// defaulted rather than failing the record. Input order is preserved, with
// skipped records simply absent. Pure function.
func Normalize(raw []RawItem) []Item {
	items := make([]Item, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, rec := range raw {
		if rec == nil {
			continue
		}
		id := asString(rec["id"])
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		it := Item{
			ID:          id,
			Name:        asString(rec["name"]),
			Description: asString(rec["description"]),
			Type:        asString(rec["type"]),
			Price:       asPrice(rec["price"]),
			Currency:    asCurrency(rec["currency"]),
			Quantity:    asQuantity(rec["quantity"]),
			Image:       asString(rec["image"]),
		}
		if md, ok := rec["metadata"].(map[string]interface{}); ok && len(md) > 0 {
			it.Metadata = md
		}
		items = append(items, it)
	}
	return items
}

func asString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	default:
		return ""
	}
}

// asPrice coerces to a non-negative unit price; anything unusable becomes 0
// (render-then-fix beats failing the whole cart for one bad line).
func asPrice(v interface{}) float64 {
	f, ok := asFloat(v)
	if !ok || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// asQuantity coerces to a positive integer, defaulting to 1. Fractional
// quantities are truncated toward zero before the floor is applied.
func asQuantity(v interface{}) int {
	f, ok := asFloat(v)
	if !ok {
		return 1
	}
	q := int(f)
	if q < 1 {
		return 1
	}
	return q
}

func asCurrency(v interface{}) string {
	s := strings.ToUpper(strings.TrimSpace(asString(v)))
	if len(s) != 3 {
		return DefaultCurrency
	}
	return s
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
