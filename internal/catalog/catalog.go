// Package catalog defines the product reference data sold at the stand.
//
// The default assortment lives in seed.cue so that adding or changing a
// default product is a data edit that still gets schema-checked (non-empty
// id/name, well-formed hex color) before it reaches the database.
package catalog

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed seed.cue
var seedCUE string

// Item is one product in the catalog. Items are reference data: created at
// seed time or by an admin action, never deleted once a transaction refers
// to them.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

// DefaultItems decodes and validates the embedded seed definitions.
func DefaultItems() ([]Item, error) {
	ctx := cuecontext.New()

	value := ctx.CompileString(seedCUE, cue.Filename("seed.cue"))
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("catalog: compile seed: %w", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("catalog: validate seed: %w", err)
	}

	itemsValue := value.LookupPath(cue.ParsePath("items"))
	if err := itemsValue.Err(); err != nil {
		return nil, fmt.Errorf("catalog: seed missing items list: %w", err)
	}

	var items []Item
	if err := itemsValue.Decode(&items); err != nil {
		return nil, fmt.Errorf("catalog: decode seed items: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("catalog: seed defines no items")
	}
	return items, nil
}
