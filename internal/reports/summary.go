// Package reports aggregates cart snapshots into summary figures for the
// reporting endpoint and the worker's metrics.
package reports

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/atlvs/cartflow/internal/cart"
)

// TypeBreakdown is the per-item-type slice of a summary.
type TypeBreakdown struct {
	Type     string  `json:"type"`
	Lines    int     `json:"lines"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"` // Σ price×quantity for the type, 2dp
}

// Summary is the aggregate view of one cart snapshot.
type Summary struct {
	Currency         string          `json:"currency"`
	Lines            int             `json:"lines"`
	TotalQuantity    int             `json:"total_quantity"`
	AverageUnitPrice float64         `json:"average_unit_price"` // quantity-weighted, 2dp
	Totals           cart.Totals     `json:"totals"`
	ByType           []TypeBreakdown `json:"by_type"`
}

const untyped = "untyped"

// Build aggregates the items into a Summary using the calculator's policy
// for the money fields. Items with no type bucket under "untyped". The
// by-type slice is sorted by descending revenue, ties by name.
func Build(items []cart.Item, calc *cart.Calculator) Summary {
	s := Summary{
		Lines:  len(items),
		Totals: calc.Totals(items),
	}
	s.Currency, _ = cart.SingleCurrency(items)

	type bucket struct {
		lines    int
		quantity int
		revenue  decimal.Decimal
	}
	buckets := map[string]*bucket{}

	qty := decimal.Zero
	spend := decimal.Zero
	for _, it := range items {
		q := decimal.NewFromInt(int64(it.Quantity))
		line := decimal.NewFromFloat(it.Price).Mul(q)
		qty = qty.Add(q)
		spend = spend.Add(line)

		key := it.Type
		if key == "" {
			key = untyped
		}
		b := buckets[key]
		if b == nil {
			b = &bucket{}
			buckets[key] = b
		}
		b.lines++
		b.quantity += it.Quantity
		b.revenue = b.revenue.Add(line)
	}

	s.TotalQuantity = int(qty.IntPart())
	if !qty.IsZero() {
		s.AverageUnitPrice, _ = spend.Div(qty).Round(2).Float64()
	}

	for key, b := range buckets {
		rev, _ := b.revenue.Round(2).Float64()
		s.ByType = append(s.ByType, TypeBreakdown{
			Type:     key,
			Lines:    b.lines,
			Quantity: b.quantity,
			Revenue:  rev,
		})
	}
	sort.Slice(s.ByType, func(i, j int) bool {
		if s.ByType[i].Revenue != s.ByType[j].Revenue {
			return s.ByType[i].Revenue > s.ByType[j].Revenue
		}
		return s.ByType[i].Type < s.ByType[j].Type
	})

	return s
}
