package listing

import (
	"context"
	"errors"
	"time"

	"eventmarket/pkg/market"
)

var ErrNotFound = errors.New("listing not found")

// Store is implemented by the Postgres Repository and by the in-memory store.
type Store interface {
	List(ctx context.Context, category string, q Query) ([]market.Listing, int, error)
	Get(ctx context.Context, category, id string) (*market.Listing, error)
	// AddReview appends a review and refreshes ratings, returning the updated listing.
	AddReview(ctx context.Context, category, id string, in market.ReviewInput, now time.Time) (*market.Listing, error)
	ListByVendor(ctx context.Context, vendorID string) ([]market.Listing, error)
	DeleteByVendor(ctx context.Context, vendorID, category, id string) error
	Insert(ctx context.Context, l market.Listing) (*market.Listing, error)
}
