package bac

import "fmt"

// DrinkType describes one standard serving of a drink.
type DrinkType struct {
	// Key uniquely identifies the drink (e.g. "cerveza").
	Key string

	// Label is the human-readable name shown to users.
	Label string

	// VolumeML is the volume of one serving in millilitres.
	VolumeML float64

	// ABVPercent is the alcohol by volume, 0-100.
	ABVPercent float64
}

// EthanolGrams returns the grams of pure ethanol in quantity servings.
func (d DrinkType) EthanolGrams(quantity int) float64 {
	volume := float64(quantity) * d.VolumeML
	return volume * (d.ABVPercent / 100) * EthanolDensity
}

func (d DrinkType) validate() error {
	if d.Key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidDrinkType)
	}
	if d.VolumeML <= 0 {
		return fmt.Errorf("%w: %s volume must be positive", ErrInvalidDrinkType, d.Key)
	}
	if d.ABVPercent < 0 || d.ABVPercent > 100 {
		return fmt.Errorf("%w: %s ABV must be within 0-100", ErrInvalidDrinkType, d.Key)
	}
	return nil
}

// Catalog is an immutable set of drink types keyed by DrinkType.Key.
type Catalog struct {
	order  []string
	drinks map[string]DrinkType
}

// NewCatalog builds a catalog, rejecting invalid or duplicate entries.
func NewCatalog(drinks ...DrinkType) (*Catalog, error) {
	c := &Catalog{
		order:  make([]string, 0, len(drinks)),
		drinks: make(map[string]DrinkType, len(drinks)),
	}
	for _, d := range drinks {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, exists := c.drinks[d.Key]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDrink, d.Key)
		}
		c.order = append(c.order, d.Key)
		c.drinks[d.Key] = d
	}
	return c, nil
}

// DefaultCatalog returns the five standard Spanish servings.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(
		DrinkType{Key: "cerveza", Label: "Cerveza (330 ml, 5%)", VolumeML: 330, ABVPercent: 5},
		DrinkType{Key: "vino", Label: "Vino (150 ml, 12%)", VolumeML: 150, ABVPercent: 12},
		DrinkType{Key: "cava", Label: "Cava (150 ml, 11.5%)", VolumeML: 150, ABVPercent: 11.5},
		DrinkType{Key: "licor", Label: "Licor (50 ml, 30%)", VolumeML: 50, ABVPercent: 30},
		DrinkType{Key: "combinado", Label: "Combinado (250 ml, 20%)", VolumeML: 250, ABVPercent: 20},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the drink with the given key.
func (c *Catalog) Lookup(key string) (DrinkType, bool) {
	d, ok := c.drinks[key]
	return d, ok
}

// Drinks returns all drinks in catalog order.
func (c *Catalog) Drinks() []DrinkType {
	out := make([]DrinkType, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.drinks[key])
	}
	return out
}

// Len returns the number of drinks in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}
