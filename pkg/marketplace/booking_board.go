package marketplace

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"eventmarket/pkg/market"
)

// BookingBoard is the vendor's booking list with its stats block.
//
// Mutations are never applied locally: after a successful status change the
// list and stats are fetched again, each on its own, so one can fail while the
// other succeeds. Failed mutations are returned as-is and not retried.
type BookingBoard struct {
	client Client

	mu       sync.Mutex
	bookings []market.Booking
	stats    market.BookingStats
	filter   string

	listGen  generation
	statsGen generation
}

func NewBookingBoard(c Client) *BookingBoard {
	return &BookingBoard{client: c, filter: market.StatusFilterAll}
}

// Refresh fetches the list and the stats block independently.
func (b *BookingBoard) Refresh(ctx context.Context) error {
	return errors.Join(b.refreshList(ctx), b.refreshStats(ctx))
}

func (b *BookingBoard) refreshList(ctx context.Context) error {
	tag := b.listGen.next()
	items, err := b.client.VendorBookings(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.listGen.current(tag) {
		return ErrSuperseded
	}
	b.bookings = items
	return nil
}

func (b *BookingBoard) refreshStats(ctx context.Context) error {
	tag := b.statsGen.next()
	st, err := b.client.VendorBookingStats(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.statsGen.current(tag) {
		return ErrSuperseded
	}
	b.stats = st
	return nil
}

func (b *BookingBoard) Bookings() []market.Booking {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]market.Booking(nil), b.bookings...)
}

func (b *BookingBoard) Stats() market.BookingStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// SetFilter selects "all" or one status. It does not fetch.
func (b *BookingBoard) SetFilter(status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		status = market.StatusFilterAll
	}
	if status != market.StatusFilterAll {
		if _, err := market.ParseBookingStatus(status); err != nil {
			return market.ValidationError{Code: "STATUS_INVALID", Field: "status", Message: err.Error()}
		}
	}
	b.mu.Lock()
	b.filter = status
	b.mu.Unlock()
	return nil
}

// Visible is the fetched list narrowed by the status filter.
func (b *BookingBoard) Visible() []market.Booking {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []market.Booking{}
	for _, bk := range b.bookings {
		if market.MatchesStatusFilter(b.filter, bk.Status) {
			out = append(out, bk)
		}
	}
	return out
}

// Actions lists the controls for a loaded booking.
func (b *BookingBoard) Actions(id string) []market.Action {
	bk, ok := b.find(id)
	if !ok {
		return nil
	}
	return market.Actions(bk.Status)
}

// Confirm accepts a pending booking. totalPrice may be blank; when given it
// must parse as a number.
func (b *BookingBoard) Confirm(ctx context.Context, id, totalPrice, notes string) error {
	price, err := market.ParseTotalPrice(totalPrice)
	if err != nil {
		return err
	}
	return b.transition(ctx, id, market.BookingChange{
		Status:      market.BookingConfirmed,
		TotalPrice:  price,
		VendorNotes: strings.TrimSpace(notes),
	})
}

// Reject refuses a pending booking. A blank reason is refused without a
// request.
func (b *BookingBoard) Reject(ctx context.Context, id, reason string) error {
	return b.transition(ctx, id, market.BookingChange{
		Status:          market.BookingRejected,
		RejectionReason: strings.TrimSpace(reason),
	})
}

// Complete marks a confirmed booking done after the confirmer agrees.
func (b *BookingBoard) Complete(ctx context.Context, id string, c Confirmer) error {
	bk, ok := b.find(id)
	if !ok {
		return fmt.Errorf("marketplace: booking %s is not loaded", id)
	}
	change := market.BookingChange{Status: market.BookingCompleted}
	if err := change.Validate(bk.Status); err != nil {
		return err
	}
	if err := confirm(ctx, c, fmt.Sprintf("Mark %q as completed?", bk.EventName)); err != nil {
		return err
	}
	return b.send(ctx, id, change)
}

func (b *BookingBoard) transition(ctx context.Context, id string, change market.BookingChange) error {
	bk, ok := b.find(id)
	if !ok {
		return fmt.Errorf("marketplace: booking %s is not loaded", id)
	}
	if err := change.Validate(bk.Status); err != nil {
		return err
	}
	return b.send(ctx, id, change)
}

func (b *BookingBoard) send(ctx context.Context, id string, change market.BookingChange) error {
	if _, err := b.client.UpdateBookingStatus(ctx, id, change); err != nil {
		return err
	}
	if err := b.Refresh(ctx); err != nil {
		return fmt.Errorf("booking %s updated, refresh failed: %w", id, err)
	}
	return nil
}

func (b *BookingBoard) find(id string) (market.Booking, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bk := range b.bookings {
		if bk.ID == id {
			return bk, true
		}
	}
	return market.Booking{}, false
}
