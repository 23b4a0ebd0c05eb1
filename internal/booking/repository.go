package booking

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"eventmarket/internal/events"
	"eventmarket/pkg/db"
	"eventmarket/pkg/market"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `
id, COALESCE(listing_id::text, ''), vendor_id, guest_id, event_name, event_date::text, event_time,
guest_count, venue, venue_address, contact_person, contact_phone, contact_email, special_requests,
status, total_price::text, vendor_notes, rejection_reason, confirmed_at, created_at, updated_at`

func scanBooking(row pgx.Row, b *market.Booking) error {
	var total *string
	if err := row.Scan(
		&b.ID, &b.ListingID, &b.VendorID, &b.GuestID, &b.EventName, &b.EventDate, &b.EventTime,
		&b.GuestCount, &b.Venue, &b.VenueAddress, &b.ContactPerson, &b.ContactPhone, &b.ContactEmail, &b.SpecialRequests,
		&b.Status, &total, &b.VendorNotes, &b.RejectionReason, &b.ConfirmedAt, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return err
	}
	if total != nil {
		d, err := decimal.NewFromString(*total)
		if err != nil {
			return err
		}
		b.TotalPrice = &d
	}
	return nil
}

func (r *Repository) ListByVendor(ctx context.Context, vendorID string) ([]market.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
FROM bookings
WHERE vendor_id = $1
ORDER BY created_at DESC
`
	rows, err := r.db.Query(ctx, q, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []market.Booking{}
	for rows.Next() {
		var b market.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) StatsByVendor(ctx context.Context, vendorID string) (market.BookingStats, error) {
	const q = `
SELECT status, COUNT(*)
FROM bookings
WHERE vendor_id = $1
GROUP BY status
`
	var st market.BookingStats
	rows, err := r.db.Query(ctx, q, vendorID)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var s market.BookingStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return st, err
		}
		for i := 0; i < n; i++ {
			st.Count(s)
		}
	}
	return st, rows.Err()
}

func getForUpdate(ctx context.Context, tx pgx.Tx, vendorID, id string) (*market.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
FROM bookings
WHERE vendor_id = $1 AND id = $2
FOR UPDATE
`
	var b market.Booking
	if err := scanBooking(tx.QueryRow(ctx, q, vendorID, id), &b); err != nil {
		if db.IsNoRows(err) || db.IsInvalidUUID(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *Repository) ApplyChange(ctx context.Context, vendorID, id string, c market.BookingChange, actor string, now time.Time) (*market.Booking, error) {
	var out market.Booking
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		cur, err := getForUpdate(ctx, tx, vendorID, id)
		if err != nil {
			return err
		}

		next, err := cur.Apply(c, now)
		if err != nil {
			return err
		}

		var total *string
		if next.TotalPrice != nil {
			s := next.TotalPrice.String()
			total = &s
		}
		const q = `
UPDATE bookings
SET status = $2, total_price = CAST($3 AS numeric), vendor_notes = $4, rejection_reason = $5,
    confirmed_at = $6, updated_at = $7
WHERE id = $1
`
		if _, err := tx.Exec(ctx, q, next.ID, next.Status, total, next.VendorNotes, next.RejectionReason, next.ConfirmedAt, now); err != nil {
			return err
		}

		ev := events.StatusChange(events.EntityBooking, next.ID, string(cur.Status), string(next.Status), actor, now)
		if err := events.Insert(ctx, tx, ev.EntityType, ev.EntityID, ev.EventType, ev.Summary, ev.Actor, ev.OccurredAt, ev.Data); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) Events(ctx context.Context, vendorID, id string) ([]events.Event, error) {
	const q = `SELECT id FROM bookings WHERE vendor_id = $1 AND id = $2`
	var bookingID string
	if err := r.db.QueryRow(ctx, q, vendorID, id).Scan(&bookingID); err != nil {
		if db.IsNoRows(err) || db.IsInvalidUUID(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return events.ListByEntity(ctx, r.db, events.EntityBooking, bookingID)
}

func (r *Repository) Insert(ctx context.Context, b market.Booking) (*market.Booking, error) {
	if b.Status == "" {
		b.Status = market.BookingPending
	}
	var total *string
	if b.TotalPrice != nil {
		s := b.TotalPrice.String()
		total = &s
	}
	var listingID *string
	if b.ListingID != "" {
		listingID = &b.ListingID
	}

	const q = `
INSERT INTO bookings (
  listing_id, vendor_id, guest_id, event_name, event_date, event_time, guest_count, venue, venue_address,
  contact_person, contact_phone, contact_email, special_requests, status, total_price, vendor_notes,
  rejection_reason, confirmed_at
)
VALUES (
  CAST($1 AS uuid), $2, $3, $4, CAST($5 AS date), $6, $7, $8, $9,
  $10, $11, $12, $13, $14, CAST($15 AS numeric), $16,
  $17, $18
)
RETURNING id, created_at, updated_at
`
	if err := r.db.QueryRow(ctx, q,
		listingID, b.VendorID, b.GuestID, b.EventName, b.EventDate, b.EventTime, b.GuestCount, b.Venue, b.VenueAddress,
		b.ContactPerson, b.ContactPhone, b.ContactEmail, b.SpecialRequests, b.Status, total, b.VendorNotes,
		b.RejectionReason, b.ConfirmedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}
