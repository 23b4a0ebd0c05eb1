package listing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"eventmarket/pkg/market"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 50
)

type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

func (r PriceRange) Contains(v decimal.Decimal) bool {
	if r.Min != nil && v.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && v.GreaterThan(*r.Max) {
		return false
	}
	return true
}

type IntRange struct {
	Min *int
	Max *int
}

func (r IntRange) Contains(v int) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// Query is the parsed form of GET /{category}. Zero values mean "no filter".
type Query struct {
	City      string
	Type      string
	Search    string
	MinGuests int
	Price     PriceRange
	Capacity  IntRange
	Seating   IntRange
	Area      IntRange
	Page      int
	Limit     int
}

func (q Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

// ParseQuery reads the directory query string. Numeric parameters that do not
// parse are rejected rather than ignored.
func ParseQuery(v url.Values) (Query, error) {
	q := Query{
		City:   strings.TrimSpace(v.Get("city")),
		Type:   strings.TrimSpace(v.Get("type")),
		Search: strings.TrimSpace(v.Get("search")),
		Page:   1,
		Limit:  DefaultPageSize,
	}

	var err error
	if q.MinGuests, err = intParam(v, "minGuests", 0); err != nil {
		return Query{}, err
	}
	if q.Page, err = intParam(v, "page", 1); err != nil {
		return Query{}, err
	}
	if q.Limit, err = intParam(v, "limit", DefaultPageSize); err != nil {
		return Query{}, err
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}

	if q.Price.Min, err = decimalParam(v, market.MinParam("price")); err != nil {
		return Query{}, err
	}
	if q.Price.Max, err = decimalParam(v, market.MaxParam("price")); err != nil {
		return Query{}, err
	}
	for key, dst := range map[string]*IntRange{"capacity": &q.Capacity, "seating": &q.Seating, "area": &q.Area} {
		if dst.Min, err = optIntParam(v, market.MinParam(key)); err != nil {
			return Query{}, err
		}
		if dst.Max, err = optIntParam(v, market.MaxParam(key)); err != nil {
			return Query{}, err
		}
	}
	return q, nil
}

// Matches applies the filters to one listing in memory. The SQL repository
// expresses the same predicate in its WHERE clause.
func (q Query) Matches(l market.Listing) bool {
	if q.City != "" && !strings.EqualFold(l.Location.City, q.City) {
		return false
	}
	if q.Type != "" && !strings.EqualFold(l.Type, q.Type) {
		return false
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(l.Name), strings.ToLower(q.Search)) {
		return false
	}
	if q.MinGuests > 0 && l.Capacity < q.MinGuests {
		return false
	}
	return q.Price.Contains(l.SortPrice()) &&
		q.Capacity.Contains(l.Capacity) &&
		q.Seating.Contains(l.Seating) &&
		q.Area.Contains(l.AreaSqft)
}

func intParam(v url.Values, key string, fallback int) (int, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

func optIntParam(v url.Values, key string) (*int, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &n, nil
}

func decimalParam(v url.Values, key string) (*decimal.Decimal, error) {
	s := strings.TrimSpace(v.Get(key))
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &d, nil
}
