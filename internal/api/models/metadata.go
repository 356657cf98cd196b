package models

// Drink describes a catalog entry.
type Drink struct {
	Key          string  `json:"key"`
	Label        string  `json:"label"`
	VolumeML     float64 `json:"volumeMl"`
	ABVPercent   float64 `json:"abvPercent"`
	EthanolGrams float64 `json:"ethanolGramsPerServing"`
}

// DrinkCatalog lists the drinks in display order.
type DrinkCatalog struct {
	Items       []Drink `json:"items"`
	MaxQuantity int     `json:"maxQuantity"`
}

// DriverCategoryInfo describes a driver category and its legal limits.
type DriverCategoryInfo struct {
	Value      string     `json:"value"`
	LegalLimit LegalLimit `json:"legalLimit"`
}

// Enums represents the enum values used by the API.
type Enums struct {
	Sexes            []string             `json:"sexes"`
	DriverCategories []DriverCategoryInfo `json:"driverCategories"`
	Editions         []string             `json:"editions"`
	DefaultEdition   string               `json:"defaultEdition"`
	AdvisoryLevels   []string             `json:"advisoryLevels"`
	FragmentKinds    []string             `json:"fragmentKinds"`
}
