package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingRejected  BookingStatus = "rejected"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// StatusFilterAll matches every booking in a client-side status filter.
const StatusFilterAll = "all"

func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingRejected, BookingCancelled, BookingCompleted:
		return BookingStatus(s), nil
	default:
		return "", fmt.Errorf("unknown booking status: %s", s)
	}
}

// cancelled is reached through the guest flow only; the vendor never sets it.
var bookingTransitions = map[BookingStatus]map[BookingStatus]bool{
	BookingPending:   {BookingConfirmed: true, BookingRejected: true},
	BookingConfirmed: {BookingCompleted: true},
	BookingRejected:  {},
	BookingCancelled: {},
	BookingCompleted: {},
}

func CanTransition(from, to BookingStatus) bool {
	m, ok := bookingTransitions[from]
	if !ok {
		return false
	}
	return m[to]
}

// Terminal reports whether no vendor transition leaves s.
func (s BookingStatus) Terminal() bool {
	return len(bookingTransitions[s]) == 0
}

// MatchesStatusFilter is the list predicate used by the vendor booking board.
func MatchesStatusFilter(filter string, s BookingStatus) bool {
	return filter == "" || filter == StatusFilterAll || BookingStatus(filter) == s
}

type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionReject   Action = "reject"
	ActionComplete Action = "complete"
	ActionCall     Action = "call"
	ActionEmail    Action = "email"
)

// Actions lists the controls offered for a booking in status s, status
// transitions first. Contact actions are hidden for cancelled and rejected
// bookings.
func Actions(s BookingStatus) []Action {
	var out []Action
	switch s {
	case BookingPending:
		out = append(out, ActionConfirm, ActionReject)
	case BookingConfirmed:
		out = append(out, ActionComplete)
	}
	if s != BookingCancelled && s != BookingRejected {
		out = append(out, ActionCall, ActionEmail)
	}
	return out
}

// Target returns the status an action moves a booking to. Contact actions
// have no target.
func (a Action) Target() (BookingStatus, bool) {
	switch a {
	case ActionConfirm:
		return BookingConfirmed, true
	case ActionReject:
		return BookingRejected, true
	case ActionComplete:
		return BookingCompleted, true
	default:
		return "", false
	}
}

// NeedsConfirmation reports whether the action must pass a yes/no prompt
// before anything is sent.
func (a Action) NeedsConfirmation() bool {
	return a == ActionComplete
}

type Booking struct {
	ID              string           `json:"id"`
	ListingID       string           `json:"listingId"`
	VendorID        string           `json:"vendorId"`
	GuestID         string           `json:"guestId,omitempty"`
	EventName       string           `json:"eventName"`
	EventDate       string           `json:"eventDate"`
	EventTime       string           `json:"eventTime,omitempty"`
	GuestCount      int              `json:"guestCount"`
	Venue           string           `json:"venue,omitempty"`
	VenueAddress    string           `json:"venueAddress,omitempty"`
	ContactPerson   string           `json:"contactPerson"`
	ContactPhone    string           `json:"contactPhone,omitempty"`
	ContactEmail    string           `json:"contactEmail,omitempty"`
	SpecialRequests string           `json:"specialRequests,omitempty"`
	Status          BookingStatus    `json:"status"`
	TotalPrice      *decimal.Decimal `json:"totalPrice,omitempty"`
	VendorNotes     string           `json:"vendorNotes,omitempty"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	ConfirmedAt     *time.Time       `json:"confirmedAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

type BookingStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}

// Count adds one booking in status s to the block.
func (st *BookingStats) Count(s BookingStatus) {
	st.Total++
	switch s {
	case BookingPending:
		st.Pending++
	case BookingConfirmed:
		st.Confirmed++
	case BookingRejected:
		st.Rejected++
	case BookingCancelled:
		st.Cancelled++
	case BookingCompleted:
		st.Completed++
	}
}

// BookingChange is the body of PATCH /bookings/{id}/status.
type BookingChange struct {
	Status          BookingStatus    `json:"status"`
	TotalPrice      *decimal.Decimal `json:"totalPrice,omitempty"`
	VendorNotes     string           `json:"vendorNotes,omitempty"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
}

// Validate checks the change against the booking's current status.
//
// Rules:
// - the target must be reachable from `from` in the transition table;
// - rejecting requires a non-blank rejection reason.
//
// A total price is only checked for being a number, which decoding already did.
func (c BookingChange) Validate(from BookingStatus) error {
	if _, err := ParseBookingStatus(string(c.Status)); err != nil {
		return ValidationError{Code: "STATUS_INVALID", Field: "status", Message: err.Error()}
	}
	if !CanTransition(from, c.Status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, c.Status)
	}
	if c.Status == BookingRejected && strings.TrimSpace(c.RejectionReason) == "" {
		return ValidationError{Code: "REJECTION_REASON_REQUIRED", Field: "rejectionReason", Message: "rejection reason is required"}
	}
	return nil
}

// ParseTotalPrice turns the free-text price field into a decimal. Blank input
// means "not given".
func ParseTotalPrice(s string) (*decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, ValidationError{Code: "TOTAL_PRICE_INVALID", Field: "totalPrice", Message: "total price must be a number"}
	}
	return &d, nil
}

// Apply returns b with the change applied. It does not mutate b.
func (b Booking) Apply(c BookingChange, now time.Time) (Booking, error) {
	if err := c.Validate(b.Status); err != nil {
		return b, err
	}

	out := b
	out.Status = c.Status
	out.UpdatedAt = now
	switch c.Status {
	case BookingConfirmed:
		t := now
		out.ConfirmedAt = &t
		if c.TotalPrice != nil {
			p := *c.TotalPrice
			out.TotalPrice = &p
		}
		if notes := strings.TrimSpace(c.VendorNotes); notes != "" {
			out.VendorNotes = notes
		}
	case BookingRejected:
		out.RejectionReason = strings.TrimSpace(c.RejectionReason)
	}
	return out, nil
}
