package book

import (
	"context"
	"fmt"

	"github.com/etnz/finance"
	"github.com/etnz/finance/store"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OpenHolding adds a new holding and the asset transaction of its purchase.
// The holding ID is assigned by the book.
func (b *Book) OpenHolding(ctx context.Context, h finance.Holding) (finance.Holding, finance.Transaction, error) {
	h.ID = b.newID()
	h, tx, err := finance.OpenHolding(h, b.newID(), b.timestamp())
	if err != nil {
		return finance.Holding{}, finance.Transaction{}, err
	}
	if err := b.holdings.Add(ctx, h); err != nil {
		return finance.Holding{}, finance.Transaction{}, err
	}
	if err := b.transactions.Add(ctx, tx); err != nil {
		// the purchase was not recorded, drop the holding.
		if derr := b.holdings.Delete(ctx, h.ID); derr != nil {
			b.log.WithError(derr).WithField("holding", h.ID).Error("could not undo holding")
		}
		return finance.Holding{}, finance.Transaction{}, err
	}
	b.log.WithFields(logrus.Fields{"holding": h.ID, "cost": tx.Amount}).Debug("holding opened")
	return h, tx, nil
}

func (b *Book) holding(ctx context.Context, id string) (finance.Holding, error) {
	h, ok, err := b.holdings.Get(ctx, id)
	if err != nil {
		return finance.Holding{}, err
	}
	if !ok {
		return finance.Holding{}, fmt.Errorf("holding %q: %w", id, store.ErrNotFound)
	}
	return h, nil
}

// SetPrice marks the holding id at price.
func (b *Book) SetPrice(ctx context.Context, id string, price decimal.Decimal) (finance.Holding, error) {
	var updated finance.Holding
	err := b.holdings.Update(ctx, id, func(h *finance.Holding) error {
		next, err := h.SetPrice(price, b.timestamp())
		if err != nil {
			return err
		}
		*h = next
		updated = next
		return nil
	})
	return updated, err
}

// Sell sells qty units of the holding id and records the proceeds as income.
func (b *Book) Sell(ctx context.Context, id string, qty decimal.Decimal, basis finance.PriceBasis) (finance.Sale, error) {
	h, err := b.holding(ctx, id)
	if err != nil {
		return finance.Sale{}, err
	}
	sale, err := h.Sell(qty, basis, b.newID(), b.timestamp())
	if err != nil {
		return finance.Sale{}, err
	}
	if err := b.transactions.Add(ctx, sale.Proceeds); err != nil {
		return finance.Sale{}, err
	}
	if sale.Removed {
		err = b.holdings.Delete(ctx, id)
	} else {
		err = b.holdings.Put(ctx, sale.Holding)
	}
	if err != nil {
		return finance.Sale{}, err
	}
	b.log.WithFields(logrus.Fields{"holding": id, "proceeds": sale.Proceeds.Amount, "removed": sale.Removed}).Debug("holding sold")
	return sale, nil
}

// RemoveHolding deletes a holding without any cash effect.
func (b *Book) RemoveHolding(ctx context.Context, id string) error {
	return b.holdings.Delete(ctx, id)
}

// Holdings returns all holdings ordered by name.
func (b *Book) Holdings(ctx context.Context) ([]finance.Holding, error) {
	hs, err := b.holdings.Scan(ctx, store.Query{OrderBy: "name"})
	if err != nil {
		return nil, fmt.Errorf("could not read holdings: %w", err)
	}
	return hs, nil
}
