package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventmarket/internal/booking"
	"eventmarket/internal/events"
	"eventmarket/pkg/market"
)

type Bookings struct {
	mu     sync.Mutex
	items  map[string]market.Booking
	events map[string][]events.Event
	now    func() time.Time
}

func NewBookings() *Bookings {
	return &Bookings{
		items:  map[string]market.Booking{},
		events: map[string][]events.Event{},
		now:    time.Now,
	}
}

var _ booking.Store = (*Bookings)(nil)

func (s *Bookings) ListByVendor(ctx context.Context, vendorID string) ([]market.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []market.Booking{}
	for _, b := range s.items {
		if b.VendorID == vendorID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Bookings) StatsByVendor(ctx context.Context, vendorID string) (market.BookingStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st market.BookingStats
	for _, b := range s.items {
		if b.VendorID == vendorID {
			st.Count(b.Status)
		}
	}
	return st, nil
}

func (s *Bookings) ApplyChange(ctx context.Context, vendorID, id string, c market.BookingChange, actor string, now time.Time) (*market.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.items[id]
	if !ok || cur.VendorID != vendorID {
		return nil, booking.ErrNotFound
	}
	next, err := cur.Apply(c, now)
	if err != nil {
		return nil, err
	}
	s.items[id] = next

	ev := events.StatusChange(events.EntityBooking, id, string(cur.Status), string(next.Status), actor, now)
	ev.ID = uuid.NewString()
	s.events[id] = append(s.events[id], ev)
	return &next, nil
}

func (s *Bookings) Events(ctx context.Context, vendorID, id string) ([]events.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.items[id]
	if !ok || b.VendorID != vendorID {
		return nil, booking.ErrNotFound
	}
	return append([]events.Event{}, s.events[id]...), nil
}

func (s *Bookings) Insert(ctx context.Context, b market.Booking) (*market.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = market.BookingPending
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	b.UpdatedAt = b.CreatedAt
	s.items[b.ID] = b
	return &b, nil
}
