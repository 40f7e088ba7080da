package finance

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Holding is a tracked quantity of a named asset, with its cost basis and an optional manual mark.
type Holding struct {
	ID           string
	Name         string
	Symbol       string
	Category     string
	Quantity     decimal.Decimal
	AvgCost      decimal.Decimal // cost basis per unit
	Currency     string
	CurrentPrice decimal.NullDecimal // per unit, absent until manually set
	UpdatedAt    Timestamp
}

// DefaultHoldingCategory is the category of a holding that does not name one.
const DefaultHoldingCategory = "other"

// HoldingCategories are the categories offered when adding a holding.
var HoldingCategories = []string{"crypto", "stocks", "property", "cash", "other"}

// Validate checks h and returns a copy with defaults applied.
func (h Holding) Validate() (Holding, error) {
	e := &ValidationError{Record: "holding"}
	h.check(e)
	if err := e.orNil(); err != nil {
		return h, err
	}
	return h.normalized(), nil
}

func (h Holding) check(e *ValidationError) {
	if h.ID == "" && !e.Has("id") {
		e.add("id", "required")
	}
	if strings.TrimSpace(h.Name) == "" && !e.Has("name") {
		e.add("name", "must not be empty")
	}
	nonNegative(e, "quantity", h.Quantity)
	nonNegative(e, "avgCost", h.AvgCost)
	if h.CurrentPrice.Valid {
		nonNegative(e, "currentPrice", h.CurrentPrice.Decimal)
	}
}

func (h Holding) normalized() Holding {
	if h.Currency == "" {
		h.Currency = DefaultCurrency
	}
	if h.Category == "" {
		h.Category = DefaultHoldingCategory
	}
	return h
}

// Key returns the record identifier.
func (h Holding) Key() string { return h.ID }

// Label returns the symbol if any, the name otherwise.
func (h Holding) Label() string {
	if h.Symbol != "" {
		return h.Symbol
	}
	return h.Name
}

// Price returns the current price, falling back to the average cost when no price has been set.
func (h Holding) Price() decimal.Decimal {
	if h.CurrentPrice.Valid {
		return h.CurrentPrice.Decimal
	}
	return h.AvgCost
}

// Cost returns the cost basis of the whole position.
func (h Holding) Cost() decimal.Decimal { return h.AvgCost.Mul(h.Quantity) }

// Value returns the market value of the position.
func (h Holding) Value() decimal.Decimal { return h.Price().Mul(h.Quantity) }

// PL returns the unrealized profit or loss. It is zero when no price has been set.
func (h Holding) PL() decimal.Decimal { return h.Value().Sub(h.Cost()) }

// PortfolioValue sums the value of all holdings.
//
// Currencies are not normalized: holdings in different currencies are summed as is.
func PortfolioValue(holdings []Holding) decimal.Decimal {
	total := decimal.Zero
	for _, h := range holdings {
		total = total.Add(h.Value())
	}
	return total
}

// OpenHolding validates a new holding and returns it along with the asset
// transaction that records its purchase in the ledger.
func OpenHolding(h Holding, txID string, now Timestamp) (Holding, Transaction, error) {
	h.UpdatedAt = now
	h, err := h.Validate()
	if err != nil {
		return Holding{}, Transaction{}, err
	}
	if !h.Quantity.IsPositive() {
		return Holding{}, Transaction{}, precondition("open holding", "quantity must be positive, got %s", h.Quantity)
	}
	if !h.AvgCost.IsPositive() {
		return Holding{}, Transaction{}, precondition("open holding", "average cost must be positive, got %s", h.AvgCost)
	}

	note := "new holding"
	if h.Symbol != "" {
		note = h.Symbol + " - new holding"
	}
	tx := Transaction{
		ID:       txID,
		Kind:     Asset,
		Amount:   h.Cost(),
		Currency: h.Currency,
		Category: "asset:" + h.Name,
		Note:     note,
		Date:     now,
	}
	return h, tx, nil
}

// SetPrice returns a copy of h marked at price.
func (h Holding) SetPrice(price decimal.Decimal, now Timestamp) (Holding, error) {
	if !price.IsPositive() {
		return h, precondition("set price", "price must be positive, got %s", price)
	}
	h.CurrentPrice = decimal.NewNullDecimal(price)
	h.UpdatedAt = now
	return h, nil
}

// PriceBasis selects the unit price of a sale.
type PriceBasis int

const (
	AtCurrentPrice PriceBasis = iota
	AtAverageCost
)

func (b PriceBasis) String() string {
	if b == AtAverageCost {
		return "avg cost"
	}
	return "current price"
}

// ParsePriceBasis accepts "current" or "cost".
func ParsePriceBasis(s string) (PriceBasis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "current", "price", "current-price":
		return AtCurrentPrice, nil
	case "cost", "avg", "avg-cost":
		return AtAverageCost, nil
	default:
		return AtCurrentPrice, fmt.Errorf("unknown price basis %q, want current or cost", s)
	}
}

// Sale is the outcome of selling from a holding.
type Sale struct {
	Holding  Holding     // the remaining position, meaningless when Removed
	Removed  bool        // the whole position was sold and the holding must be deleted
	Proceeds Transaction // the income transaction of the sale
}

// Sell sells qty units at the unit price selected by basis.
//
// Proceeds are rounded to 2 decimals. The remaining quantity is exact.
// Selling the whole quantity or more removes the holding.
func (h Holding) Sell(qty decimal.Decimal, basis PriceBasis, txID string, now Timestamp) (Sale, error) {
	if !qty.IsPositive() {
		return Sale{}, precondition("sell", "quantity must be positive, got %s", qty)
	}
	var price decimal.Decimal
	switch basis {
	case AtCurrentPrice:
		if !h.CurrentPrice.Valid {
			return Sale{}, precondition("sell", "no current price set for %q", h.Name)
		}
		price = h.CurrentPrice.Decimal
	case AtAverageCost:
		price = h.AvgCost
	}

	sale := Sale{
		Proceeds: Transaction{
			ID:       txID,
			Kind:     Income,
			Amount:   qty.Mul(price).Round(2),
			Currency: h.Currency,
			Category: "asset:sell:" + h.Name,
			Note:     fmt.Sprintf("%s - sold %s @ %s", h.Label(), qty, basis),
			Date:     now,
		}.normalized(),
	}
	if qty.LessThan(h.Quantity) {
		h.Quantity = h.Quantity.Sub(qty)
		h.UpdatedAt = now
		sale.Holding = h
	} else {
		sale.Removed = true
	}
	return sale, nil
}

// MarshalJSON implements the json.Marshaler interface for Holding.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", h.ID)
	w.Append("name", h.Name)
	w.Optional("symbol", h.Symbol)
	w.Append("category", h.Category)
	w.Append("quantity", h.Quantity)
	w.Append("avgCost", h.AvgCost)
	w.Append("currency", h.Currency)
	if h.CurrentPrice.Valid {
		w.Append("currentPrice", h.CurrentPrice.Decimal)
	}
	w.Append("updatedAt", h.UpdatedAt)
	return w.MarshalJSON()
}

// UnmarshalJSON decodes a stored holding.
func (h *Holding) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID           string              `json:"id"`
		Name         string              `json:"name"`
		Symbol       string              `json:"symbol"`
		Category     string              `json:"category"`
		Quantity     decimal.Decimal     `json:"quantity"`
		AvgCost      decimal.Decimal     `json:"avgCost"`
		Currency     string              `json:"currency"`
		CurrentPrice decimal.NullDecimal `json:"currentPrice"`
		UpdatedAt    Timestamp           `json:"updatedAt"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*h = Holding(temp).normalized()
	return nil
}
