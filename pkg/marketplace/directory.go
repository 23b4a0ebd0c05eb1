package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"eventmarket/pkg/market"
)

// Directory is the filter state and result list of one category page.
//
// In explicit mode Set only records the value and Apply fetches. In auto mode
// (AutoApply) every Set fetches immediately. Clear always resets every field
// and fetches exactly once.
type Directory struct {
	client    Client
	category  market.Category
	autoApply bool

	mu         sync.Mutex
	filter     market.Filter
	page       int
	items      []market.Listing
	pagination *Pagination

	gen generation
}

// NewDirectory starts in the category's own apply mode.
func NewDirectory(c Client, category string) (*Directory, error) {
	cat, ok := market.LookupCategory(category)
	if !ok {
		return nil, fmt.Errorf("marketplace: unknown category %q", category)
	}
	return &Directory{client: c, category: cat, autoApply: cat.AutoApply, filter: market.Filter{}}, nil
}

func (d *Directory) Category() market.Category { return d.category }

func (d *Directory) AutoApply() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.autoApply
}

func (d *Directory) SetAutoApply(on bool) {
	d.mu.Lock()
	d.autoApply = on
	d.mu.Unlock()
}

// Set records one filter value. Keys the category does not filter on are
// rejected.
func (d *Directory) Set(ctx context.Context, key, value string) error {
	if !d.category.HasFilter(key) {
		return market.ValidationError{Code: "FILTER_UNKNOWN", Field: key, Message: fmt.Sprintf("%s has no %q filter", d.category.Name, key)}
	}

	d.mu.Lock()
	d.filter[key] = value
	d.page = 0
	auto := d.autoApply
	d.mu.Unlock()

	if auto {
		return d.Refresh(ctx)
	}
	return nil
}

func (d *Directory) Apply(ctx context.Context) error {
	return d.Refresh(ctx)
}

func (d *Directory) Clear(ctx context.Context) error {
	d.mu.Lock()
	d.filter = market.Filter{}
	d.page = 0
	d.mu.Unlock()
	return d.Refresh(ctx)
}

// SetPage selects a result page and fetches it.
func (d *Directory) SetPage(ctx context.Context, page int) error {
	d.mu.Lock()
	d.page = page
	d.mu.Unlock()
	return d.Refresh(ctx)
}

func (d *Directory) Filter() market.Filter {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.filter.Clone()
}

// Query is what the next fetch will send.
func (d *Directory) Query() url.Values {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queryLocked()
}

func (d *Directory) queryLocked() url.Values {
	q := market.BuildQuery(d.category, d.filter)
	if d.page > 1 {
		q.Set("page", strconv.Itoa(d.page))
	}
	return q
}

func (d *Directory) Refresh(ctx context.Context) error {
	tag := d.gen.next()
	d.mu.Lock()
	q := d.queryLocked()
	d.mu.Unlock()

	items, page, err := d.client.ListListings(ctx, d.category.Name, q)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.gen.current(tag) {
		return ErrSuperseded
	}
	if items == nil {
		items = []market.Listing{}
	}
	d.items = items
	d.pagination = page
	return nil
}

func (d *Directory) Listings() []market.Listing {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]market.Listing(nil), d.items...)
}

// Pagination is nil when the server sent a bare list.
func (d *Directory) Pagination() *Pagination {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pagination == nil {
		return nil
	}
	p := *d.pagination
	return &p
}
