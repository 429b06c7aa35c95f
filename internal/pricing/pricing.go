// Package pricing holds the per-container-size price list. Price logic is
// kept out of the report builder on purpose: reports aggregate volume and
// counts, revenue is this collaborator's business.
package pricing

import (
	"context"
	"fmt"
	"strconv"

	"github.com/pourhouse/pourhouse/internal/store"
)

// settingPrefix + container size in milliliters, e.g. "price.size.200".
const settingPrefix = "price.size."

// PriceList maps container sizes (milliliters) to the price of one cup.
type PriceList struct {
	prices map[int]float64
}

// NewPriceList returns a list holding only the given defaults.
func NewPriceList(defaults map[int]float64) *PriceList {
	prices := make(map[int]float64, len(defaults))
	for size, price := range defaults {
		prices[size] = price
	}
	return &PriceList{prices: prices}
}

// Load returns the price list for the given sizes: the settings table wins,
// configuration defaults fill the gaps. Sizes priced in neither place get
// zero; sales of unknown sizes still show up in reports, just without
// revenue.
func Load(ctx context.Context, engine *store.Engine, defaults map[int]float64) (*PriceList, error) {
	list := NewPriceList(defaults)
	for size := range defaults {
		value, ok, err := engine.GetSetting(ctx, settingKey(size))
		if err != nil {
			return nil, fmt.Errorf("pricing: %w", err)
		}
		if !ok {
			continue
		}
		price, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("pricing: bad price for size %d: %w", size, err)
		}
		list.prices[size] = price
	}
	return list, nil
}

// PriceFor returns the price of one cup of the given size, or 0 when the
// size is not priced.
func (p *PriceList) PriceFor(sizeML int) float64 {
	return p.prices[sizeML]
}

// Store writes a price into the settings table so it survives restarts.
func Store(ctx context.Context, engine *store.Engine, sizeML int, price float64) error {
	if err := engine.SetSetting(ctx, settingKey(sizeML), strconv.FormatFloat(price, 'f', 2, 64)); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	return nil
}

func settingKey(sizeML int) string {
	return settingPrefix + strconv.Itoa(sizeML)
}
