package booking

import (
	"context"
	"errors"
	"time"

	"eventmarket/internal/events"
	"eventmarket/pkg/market"
)

var ErrNotFound = errors.New("booking not found")

// Store is scoped by vendor: a vendor never sees or changes another vendor's
// bookings, and a miss is reported as ErrNotFound either way.
type Store interface {
	ListByVendor(ctx context.Context, vendorID string) ([]market.Booking, error)
	StatsByVendor(ctx context.Context, vendorID string) (market.BookingStats, error)
	// ApplyChange validates c against the stored status and persists it together
	// with a status-change event. It returns market.ErrInvalidTransition (wrapped)
	// when the stored status does not allow the move.
	ApplyChange(ctx context.Context, vendorID, id string, c market.BookingChange, actor string, now time.Time) (*market.Booking, error)
	Events(ctx context.Context, vendorID, id string) ([]events.Event, error)
	Insert(ctx context.Context, b market.Booking) (*market.Booking, error)
}
