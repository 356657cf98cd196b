package bac

import (
	"fmt"
	"sort"
)

// Consumption is a validated mapping of drink key to servings consumed.
// Entries with zero servings are not stored.
type Consumption struct {
	quantities map[string]int
}

// NewConsumption validates raw quantities against the catalog.
func NewConsumption(catalog *Catalog, quantities map[string]int) (Consumption, error) {
	c := Consumption{quantities: make(map[string]int, len(quantities))}
	for key, qty := range quantities {
		if _, ok := catalog.Lookup(key); !ok {
			return Consumption{}, fmt.Errorf("%w: %q", ErrUnknownDrink, key)
		}
		if qty < MinQuantity || qty > MaxQuantity {
			return Consumption{}, fmt.Errorf("%w: %s=%d", ErrQuantityOutOfRange, key, qty)
		}
		if qty > 0 {
			c.quantities[key] = qty
		}
	}
	return c, nil
}

// IsEmpty reports whether no drink has a positive quantity.
func (c Consumption) IsEmpty() bool {
	return len(c.quantities) == 0
}

// Quantity returns the servings recorded for key.
func (c Consumption) Quantity(key string) int {
	return c.quantities[key]
}

// Keys returns the drink keys with positive quantities, sorted.
func (c Consumption) Keys() []string {
	keys := make([]string, 0, len(c.quantities))
	for k := range c.quantities {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Quantities returns a copy of the underlying mapping.
func (c Consumption) Quantities() map[string]int {
	out := make(map[string]int, len(c.quantities))
	for k, v := range c.quantities {
		out[k] = v
	}
	return out
}

// AlcoholMass returns the total grams of pure ethanol in quantities.
//
// Drinks are summed in catalog order so that repeated calls produce
// bit-identical results. An empty mapping yields 0.
func AlcoholMass(catalog *Catalog, quantities map[string]int) (float64, error) {
	for key, qty := range quantities {
		if _, ok := catalog.Lookup(key); !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownDrink, key)
		}
		if qty < 0 {
			return 0, fmt.Errorf("%w: %s=%d", ErrQuantityOutOfRange, key, qty)
		}
	}

	var total float64
	for _, drink := range catalog.Drinks() {
		qty, ok := quantities[drink.Key]
		if !ok || qty == 0 {
			continue
		}
		total += drink.EthanolGrams(qty)
	}
	return total, nil
}
