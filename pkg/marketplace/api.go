package marketplace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"eventmarket/pkg/market"
)

type Pagination = market.Pagination

// BookingEvent is one entry of a booking's status timeline.
type BookingEvent struct {
	ID         string          `json:"id"`
	EventType  string          `json:"eventType"`
	Summary    string          `json:"summary"`
	Actor      string          `json:"actor"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func (c Client) ListListings(ctx context.Context, category string, q url.Values) ([]market.Listing, *Pagination, error) {
	r := request{method: http.MethodGet, path: "/" + url.PathEscape(category), query: q}
	b, err := c.do(ctx, r)
	if err != nil {
		return nil, nil, err
	}
	var items []market.Listing
	if err := decodeData(b, &items); err != nil {
		return nil, nil, err
	}
	return items, decodePagination(b), nil
}

func (c Client) GetListing(ctx context.Context, category, id string) (*market.Listing, error) {
	var l market.Listing
	r := request{method: http.MethodGet, path: "/" + url.PathEscape(category) + "/" + url.PathEscape(id)}
	if err := c.doData(ctx, r, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// SubmitReview validates in before sending; an invalid review never reaches
// the server.
func (c Client) SubmitReview(ctx context.Context, category, id string, in market.ReviewInput) error {
	in = in.Trimmed()
	if err := in.Validate(); err != nil {
		return err
	}
	r := request{
		method: http.MethodPost,
		path:   "/" + url.PathEscape(category) + "/" + url.PathEscape(id) + "/reviews",
		body:   in,
	}
	return c.doData(ctx, r, nil)
}

func (c Client) VendorBookings(ctx context.Context) ([]market.Booking, error) {
	var out []market.Booking
	err := c.doData(ctx, request{method: http.MethodGet, path: "/bookings/vendor", auth: true}, &out)
	return out, err
}

func (c Client) VendorBookingStats(ctx context.Context) (market.BookingStats, error) {
	var st market.BookingStats
	err := c.doData(ctx, request{method: http.MethodGet, path: "/bookings/vendor/stats", auth: true}, &st)
	return st, err
}

// UpdateBookingStatus sends one status change. A reject without a reason is
// refused locally.
func (c Client) UpdateBookingStatus(ctx context.Context, id string, change market.BookingChange) (*market.Booking, error) {
	if _, err := market.ParseBookingStatus(string(change.Status)); err != nil {
		return nil, market.ValidationError{Code: "STATUS_INVALID", Field: "status", Message: err.Error()}
	}
	if change.Status == market.BookingRejected {
		if err := change.Validate(market.BookingPending); err != nil {
			return nil, err
		}
	}

	var b market.Booking
	r := request{method: http.MethodPatch, path: "/bookings/" + url.PathEscape(id) + "/status", auth: true, body: change}
	if err := c.doData(ctx, r, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c Client) BookingEvents(ctx context.Context, id string) ([]BookingEvent, error) {
	var out []BookingEvent
	err := c.doData(ctx, request{method: http.MethodGet, path: "/bookings/" + url.PathEscape(id) + "/events", auth: true}, &out)
	return out, err
}

func (c Client) Leads(ctx context.Context, f market.LeadFilter) ([]market.Lead, error) {
	var out []market.Lead
	err := c.doData(ctx, request{method: http.MethodGet, path: "/leads", query: f.Query(), auth: true}, &out)
	return out, err
}

func (c Client) LeadStats(ctx context.Context) (market.LeadStats, error) {
	var st market.LeadStats
	err := c.doData(ctx, request{method: http.MethodGet, path: "/leads/stats", auth: true}, &st)
	return st, err
}

func (c Client) Lead(ctx context.Context, id string) (*market.Lead, error) {
	var l market.Lead
	if err := c.doData(ctx, request{method: http.MethodGet, path: "/leads/" + url.PathEscape(id), auth: true}, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c Client) UpdateLead(ctx context.Context, id string, u market.LeadUpdate) error {
	if err := u.Validate(); err != nil {
		return err
	}
	return c.doData(ctx, request{method: http.MethodPut, path: "/leads/" + url.PathEscape(id), auth: true, body: u}, nil)
}

// AddLeadNote refuses blank notes without sending anything.
func (c Client) AddLeadNote(ctx context.Context, id, text string) error {
	note, err := market.NormalizeNote(text)
	if err != nil {
		return err
	}
	body := map[string]string{"note": note}
	return c.doData(ctx, request{method: http.MethodPost, path: "/leads/" + url.PathEscape(id) + "/notes", auth: true, body: body}, nil)
}

func (c Client) DeleteLead(ctx context.Context, id string) error {
	return c.doData(ctx, request{method: http.MethodDelete, path: "/leads/" + url.PathEscape(id), auth: true}, nil)
}

func (c Client) VendorListings(ctx context.Context) ([]market.Listing, error) {
	var out []market.Listing
	err := c.doData(ctx, request{method: http.MethodGet, path: "/vendor/listings", auth: true}, &out)
	return out, err
}

// DeleteVendorListing deletes one of the caller's listings. listingType is the
// listing's category name.
func (c Client) DeleteVendorListing(ctx context.Context, id, listingType string) error {
	body := map[string]string{"type": listingType}
	return c.doData(ctx, request{method: http.MethodDelete, path: "/vendor/listings/" + url.PathEscape(id), auth: true, body: body}, nil)
}
