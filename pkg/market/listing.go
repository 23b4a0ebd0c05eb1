package market

import (
	"time"

	"github.com/shopspring/decimal"
)

// Prices travel as JSON numbers.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Location struct {
	Area  string `json:"area,omitempty"`
	City  string `json:"city"`
	State string `json:"state,omitempty"`
}

type Package struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Includes    []string        `json:"includes,omitempty"`
}

type Ratings struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Review struct {
	ID       string    `json:"id,omitempty"`
	UserName string    `json:"userName"`
	Rating   float64   `json:"rating"`
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
}

// Listing is the common shape of every category's records. Category-specific
// numbers (capacity, seating, area) are zero when they do not apply.
type Listing struct {
	ID          string           `json:"id"`
	VendorID    string           `json:"vendorId"`
	Category    string           `json:"category"`
	Type        string           `json:"type,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Location    Location         `json:"location"`
	MainImage   string           `json:"mainImage,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Packages    []Package        `json:"packages,omitempty"`
	Amenities   []string         `json:"amenities,omitempty"`
	Features    []string         `json:"features,omitempty"`
	Capacity    int              `json:"capacity,omitempty"`
	Seating     int              `json:"seating,omitempty"`
	AreaSqft    int              `json:"areaSqft,omitempty"`
	MinPrice    decimal.Decimal  `json:"minPrice"`
	Ratings     Ratings          `json:"ratings"`
	Reviews     []Review         `json:"reviews,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// MinPrice is the lowest package price, or zero when there are no packages.
func MinPrice(packages []Package) decimal.Decimal {
	if len(packages) == 0 {
		return decimal.Zero
	}
	m := packages[0].Price
	for _, p := range packages[1:] {
		if p.Price.LessThan(m) {
			m = p.Price
		}
	}
	return m
}

// SortPrice is the value price filters compare against: the cheapest package
// when packages exist, else the flat price, else zero.
func (l Listing) SortPrice() decimal.Decimal {
	if len(l.Packages) > 0 {
		return MinPrice(l.Packages)
	}
	if l.Price != nil {
		return *l.Price
	}
	return decimal.Zero
}

// AddRating folds one more rating into a running average.
func (r Ratings) AddRating(rating float64) Ratings {
	total := r.Average*float64(r.Count) + rating
	n := r.Count + 1
	return Ratings{Average: roundTo(total/float64(n), 2), Count: n}
}

func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}
