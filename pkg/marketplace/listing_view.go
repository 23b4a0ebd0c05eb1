package marketplace

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"eventmarket/pkg/market"
)

type Tab string

const (
	TabAbout     Tab = "about"
	TabPackages  Tab = "packages"
	TabAmenities Tab = "amenities"
	TabReviews   Tab = "reviews"
)

var tabs = []Tab{TabAbout, TabPackages, TabAmenities, TabReviews}

// ListingView is the detail page of one listing.
type ListingView struct {
	client   Client
	category string
	id       string

	mu      sync.Mutex
	listing *market.Listing
	tab     Tab

	gen generation
}

func NewListingView(c Client, category, id string) *ListingView {
	return &ListingView{client: c, category: category, id: id, tab: TabAbout}
}

func (v *ListingView) Load(ctx context.Context) error {
	tag := v.gen.next()
	l, err := v.client.GetListing(ctx, v.category, v.id)
	if err != nil {
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.gen.current(tag) {
		return ErrSuperseded
	}
	v.listing = l
	return nil
}

// Listing returns the last loaded record, or nil before the first Load.
func (v *ListingView) Listing() *market.Listing {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.listing == nil {
		return nil
	}
	l := *v.listing
	return &l
}

// MinPrice is computed from the loaded packages, zero when there are none.
func (v *ListingView) MinPrice() decimal.Decimal {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.listing == nil {
		return decimal.Zero
	}
	return market.MinPrice(v.listing.Packages)
}

func (v *ListingView) Tab() Tab {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.tab
}

func (v *ListingView) SetTab(t Tab) error {
	for _, known := range tabs {
		if t == known {
			v.mu.Lock()
			v.tab = t
			v.mu.Unlock()
			return nil
		}
	}
	return fmt.Errorf("marketplace: unknown tab %q", t)
}

// SubmitReview posts the review and reloads the listing whatever the POST
// returned. Invalid input is refused before any request.
func (v *ListingView) SubmitReview(ctx context.Context, in market.ReviewInput) error {
	if err := v.client.SubmitReview(ctx, v.category, v.id, in); err != nil {
		return err
	}
	return v.Load(ctx)
}
