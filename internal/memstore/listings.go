// Package memstore holds mutex-guarded in-memory implementations of the
// listing, booking and lead stores. The API server uses them when
// STORE=memory; handler and client tests use them directly.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventmarket/internal/listing"
	"eventmarket/pkg/market"
)

type Listings struct {
	mu    sync.Mutex
	items map[string]market.Listing
	now   func() time.Time
}

func NewListings() *Listings {
	return &Listings{items: map[string]market.Listing{}, now: time.Now}
}

var _ listing.Store = (*Listings)(nil)

func (s *Listings) List(ctx context.Context, category string, q listing.Query) ([]market.Listing, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []market.Listing
	for _, l := range s.items {
		if l.Category == category && q.Matches(l) {
			all = append(all, l)
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Ratings.Average != all[j].Ratings.Average {
			return all[i].Ratings.Average > all[j].Ratings.Average
		}
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})

	out := []market.Listing{}
	for i := q.Offset(); i < len(all) && len(out) < q.Limit; i++ {
		l := cloneListing(all[i])
		l.Reviews = nil
		out = append(out, l)
	}
	return out, len(all), nil
}

func (s *Listings) Get(ctx context.Context, category, id string) (*market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.items[id]
	if !ok || l.Category != category {
		return nil, listing.ErrNotFound
	}
	out := cloneListing(l)
	return &out, nil
}

func (s *Listings) AddReview(ctx context.Context, category, id string, in market.ReviewInput, now time.Time) (*market.Listing, error) {
	in = in.Trimmed()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.items[id]
	if !ok || l.Category != category {
		return nil, listing.ErrNotFound
	}
	rv := market.Review{ID: uuid.NewString(), UserName: in.UserName, Rating: in.Rating, Comment: in.Comment, Date: now}
	l.Reviews = append([]market.Review{rv}, l.Reviews...)
	l.Ratings = l.Ratings.AddRating(in.Rating)
	l.UpdatedAt = now
	s.items[id] = l

	out := cloneListing(l)
	return &out, nil
}

func (s *Listings) ListByVendor(ctx context.Context, vendorID string) ([]market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []market.Listing{}
	for _, l := range s.items {
		if l.VendorID == vendorID {
			c := cloneListing(l)
			c.Reviews = nil
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Listings) DeleteByVendor(ctx context.Context, vendorID, category, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.items[id]
	if !ok || l.VendorID != vendorID || l.Category != category {
		return listing.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Listings) Insert(ctx context.Context, l market.Listing) (*market.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	l.UpdatedAt = l.CreatedAt
	l.MinPrice = market.MinPrice(l.Packages)
	if l.Reviews == nil {
		l.Reviews = []market.Review{}
	}
	s.items[l.ID] = cloneListing(l)

	out := cloneListing(l)
	return &out, nil
}

func cloneListing(l market.Listing) market.Listing {
	out := l
	out.Images = append([]string(nil), l.Images...)
	out.Amenities = append([]string(nil), l.Amenities...)
	out.Features = append([]string(nil), l.Features...)
	out.Packages = append([]market.Package(nil), l.Packages...)
	out.Reviews = append([]market.Review{}, l.Reviews...)
	if l.Price != nil {
		p := *l.Price
		out.Price = &p
	}
	return out
}
