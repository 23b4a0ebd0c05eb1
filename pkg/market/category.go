package market

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RangeOption is one dropdown entry of a range filter. A nil Max means the
// range is open-ended.
type RangeOption struct {
	Label string
	Min   decimal.Decimal
	Max   *decimal.Decimal
}

// RangeFilter resolves a dropdown label to min<Key>/max<Key> query values.
type RangeFilter struct {
	Key     string
	Options []RangeOption
}

func (r RangeFilter) Resolve(label string) (RangeOption, bool) {
	for _, o := range r.Options {
		if o.Label == label {
			return o, true
		}
	}
	return RangeOption{}, false
}

// Category is the schema that drives one directory/detail page pair.
type Category struct {
	Name    string
	Title   string
	Filters []string
	Ranges  []RangeFilter
	// AutoApply pages re-fetch on every filter change; the rest wait for an
	// explicit Apply.
	AutoApply bool
}

// EditPath is the vendor-side route of the edit form for one listing.
func (c Category) EditPath(listingID string) string {
	return fmt.Sprintf("/vendor/%s/%s/edit", c.Name, listingID)
}

func (c Category) HasFilter(key string) bool {
	for _, k := range c.Filters {
		if k == key {
			return true
		}
	}
	for _, r := range c.Ranges {
		if r.Key == key {
			return true
		}
	}
	return false
}

func (c Category) Range(key string) (RangeFilter, bool) {
	for _, r := range c.Ranges {
		if r.Key == key {
			return r, true
		}
	}
	return RangeFilter{}, false
}

const (
	CategoryCatering      = "catering"
	CategoryVenues        = "venues"
	CategoryPhotographers = "photographers"
	CategoryDecorators    = "decorators"
	CategoryRentals       = "rentals"
	CategoryMakeupArtists = "makeup-artists"
)

func rangeOpt(label string, min int64, max int64) RangeOption {
	o := RangeOption{Label: label, Min: decimal.NewFromInt(min)}
	if max > 0 {
		m := decimal.NewFromInt(max)
		o.Max = &m
	}
	return o
}

var (
	budgetRange = RangeFilter{Key: "price", Options: []RangeOption{
		rangeOpt("Under 25,000", 0, 25000),
		rangeOpt("25,000 - 50,000", 25000, 50000),
		rangeOpt("50,000 - 1,00,000", 50000, 100000),
		rangeOpt("1,00,000 - 3,00,000", 100000, 300000),
		rangeOpt("Above 3,00,000", 300000, 0),
	}}
	servicePriceRange = RangeFilter{Key: "price", Options: []RangeOption{
		rangeOpt("Under 10,000", 0, 10000),
		rangeOpt("10,000 - 25,000", 10000, 25000),
		rangeOpt("25,000 - 50,000", 25000, 50000),
		rangeOpt("Above 50,000", 50000, 0),
	}}
	capacityRange = RangeFilter{Key: "capacity", Options: []RangeOption{
		rangeOpt("Up to 100", 0, 100),
		rangeOpt("100 - 300", 100, 300),
		rangeOpt("300 - 500", 300, 500),
		rangeOpt("500 - 1000", 500, 1000),
		rangeOpt("1000+", 1000, 0),
	}}
	seatingRange = RangeFilter{Key: "seating", Options: []RangeOption{
		rangeOpt("Up to 50", 0, 50),
		rangeOpt("50 - 150", 50, 150),
		rangeOpt("150 - 400", 150, 400),
		rangeOpt("400+", 400, 0),
	}}
	areaRange = RangeFilter{Key: "area", Options: []RangeOption{
		rangeOpt("Under 1,000 sq ft", 0, 1000),
		rangeOpt("1,000 - 5,000 sq ft", 1000, 5000),
		rangeOpt("5,000 - 20,000 sq ft", 5000, 20000),
		rangeOpt("20,000+ sq ft", 20000, 0),
	}}
)

var categories = []Category{
	{
		Name:    CategoryCatering,
		Title:   "Catering",
		Filters: []string{"city", "type", "minGuests", "search"},
		Ranges:  []RangeFilter{budgetRange},
	},
	{
		Name:    CategoryVenues,
		Title:   "Venues",
		Filters: []string{"city", "type", "search"},
		Ranges:  []RangeFilter{budgetRange, capacityRange, seatingRange, areaRange},
	},
	{
		Name:      CategoryPhotographers,
		Title:     "Photographers",
		Filters:   []string{"city", "type", "search"},
		Ranges:    []RangeFilter{servicePriceRange},
		AutoApply: true,
	},
	{
		Name:    CategoryDecorators,
		Title:   "Decorators",
		Filters: []string{"city", "type", "search"},
		Ranges:  []RangeFilter{servicePriceRange},
	},
	{
		Name:    CategoryRentals,
		Title:   "Property Rentals",
		Filters: []string{"city", "type", "search"},
		Ranges:  []RangeFilter{budgetRange, areaRange, capacityRange},
	},
	{
		Name:      CategoryMakeupArtists,
		Title:     "Makeup Artists",
		Filters:   []string{"city", "type", "search"},
		Ranges:    []RangeFilter{servicePriceRange},
		AutoApply: true,
	},
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func LookupCategory(name string) (Category, bool) {
	for _, c := range categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
