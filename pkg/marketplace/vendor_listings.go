package marketplace

import (
	"context"
	"fmt"
	"sync"

	"eventmarket/pkg/market"
)

// VendorListings is the vendor's own listings across all categories.
type VendorListings struct {
	client Client

	mu    sync.Mutex
	items []market.Listing

	gen generation
}

func NewVendorListings(c Client) *VendorListings {
	return &VendorListings{client: c}
}

func (v *VendorListings) Refresh(ctx context.Context) error {
	tag := v.gen.next()
	items, err := v.client.VendorListings(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.gen.current(tag) {
		return ErrSuperseded
	}
	v.items = items
	return nil
}

func (v *VendorListings) Listings() []market.Listing {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]market.Listing(nil), v.items...)
}

// Delete removes one listing after confirmation and re-fetches the list.
func (v *VendorListings) Delete(ctx context.Context, l market.Listing, c Confirmer) error {
	if _, ok := market.LookupCategory(l.Category); !ok {
		return market.ValidationError{Code: "VALIDATION_FAILED", Field: "type", Message: fmt.Sprintf("unknown listing type %q", l.Category)}
	}
	if err := confirm(ctx, c, fmt.Sprintf("Delete %q?", l.Name)); err != nil {
		return err
	}
	if err := v.client.DeleteVendorListing(ctx, l.ID, l.Category); err != nil {
		return err
	}
	if err := v.Refresh(ctx); err != nil {
		return fmt.Errorf("listing %s deleted, refresh failed: %w", l.ID, err)
	}
	return nil
}

// EditPath is the route of the edit form for l.
func EditPath(l market.Listing) (string, error) {
	cat, ok := market.LookupCategory(l.Category)
	if !ok {
		return "", fmt.Errorf("marketplace: unknown category %q", l.Category)
	}
	return cat.EditPath(l.ID), nil
}
