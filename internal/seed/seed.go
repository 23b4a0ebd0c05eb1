// Package seed loads a small, fixed marketplace into any set of stores so
// local runs and the memory-backed server have something to show.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"eventmarket/internal/booking"
	"eventmarket/internal/lead"
	"eventmarket/internal/listing"
	"eventmarket/pkg/market"
)

const (
	VendorRoyal   = "vendor-royal-caterers"
	VendorLotus   = "vendor-lotus-venues"
	VendorFrames  = "vendor-frames-studio"
	AdminOperator = "admin-ops"
)

type Stores struct {
	Listings listing.Store
	Bookings booking.Store
	Leads    lead.Store
}

type Result struct {
	Listings []market.Listing
	Bookings []market.Booking
	Leads    []market.Lead
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func pricePtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func Listings(now time.Time) []market.Listing {
	return []market.Listing{
		{
			VendorID: VendorRoyal, Category: market.CategoryCatering, Type: "North Indian",
			Name: "Royal Caterers", Description: "Traditional Rajasthani and North Indian menus for weddings.",
			Location: market.Location{Area: "C-Scheme", City: "Jaipur", State: "Rajasthan"},
			Packages: []market.Package{
				{Name: "Silver", Price: price(450), Description: "Per plate, 18 items"},
				{Name: "Gold", Price: price(650), Description: "Per plate, 24 items", Includes: []string{"Live counters"}},
			},
			Capacity: 1200, Amenities: []string{"Live counters", "Service staff"},
			Ratings: market.Ratings{Average: 4.5, Count: 2},
			Reviews: []market.Review{
				{UserName: "Ananya", Rating: 5, Comment: "Food was the highlight of the wedding.", Date: now.Add(-72 * time.Hour)},
				{UserName: "Rohit", Rating: 4, Comment: "Good spread, service a little slow.", Date: now.Add(-96 * time.Hour)},
			},
			CreatedAt: now.Add(-30 * 24 * time.Hour),
		},
		{
			VendorID: VendorRoyal, Category: market.CategoryCatering, Type: "Continental",
			Name: "Royal Bites Express", Location: market.Location{City: "Jaipur", State: "Rajasthan"},
			Packages: []market.Package{{Name: "Cocktail", Price: price(900)}},
			Capacity: 80,
			CreatedAt: now.Add(-20 * 24 * time.Hour),
		},
		{
			VendorID: VendorRoyal, Category: market.CategoryCatering, Type: "South Indian",
			Name: "Dakshin Kitchen", Location: market.Location{City: "Bengaluru", State: "Karnataka"},
			Packages: []market.Package{{Name: "Classic", Price: price(380)}},
			Capacity: 400,
			CreatedAt: now.Add(-10 * 24 * time.Hour),
		},
		{
			VendorID: VendorLotus, Category: market.CategoryVenues, Type: "Banquet Hall",
			Name: "Lotus Banquets", Location: market.Location{Area: "Vaishali Nagar", City: "Jaipur", State: "Rajasthan"},
			Price: pricePtr(150000), Capacity: 600, Seating: 350, AreaSqft: 12000,
			Amenities: []string{"Parking", "Air conditioning", "Bridal room"},
			Ratings:   market.Ratings{Average: 4, Count: 1},
			Reviews:   []market.Review{{UserName: "Meera", Rating: 4, Comment: "Spacious hall.", Date: now.Add(-48 * time.Hour)}},
			CreatedAt: now.Add(-25 * 24 * time.Hour),
		},
		{
			VendorID: VendorLotus, Category: market.CategoryRentals, Type: "Farmhouse",
			Name: "Lotus Farm Stay", Location: market.Location{City: "Udaipur", State: "Rajasthan"},
			Price: pricePtr(60000), Capacity: 150, AreaSqft: 30000,
			CreatedAt: now.Add(-15 * 24 * time.Hour),
		},
		{
			VendorID: VendorFrames, Category: market.CategoryPhotographers, Type: "Candid",
			Name: "Frames Studio", Location: market.Location{City: "Delhi", State: "Delhi"},
			Packages: []market.Package{
				{Name: "Half day", Price: price(25000)},
				{Name: "Full wedding", Price: price(85000), Includes: []string{"Album", "Drone"}},
			},
			Features:  []string{"Drone", "Same-day edit"},
			CreatedAt: now.Add(-12 * 24 * time.Hour),
		},
		{
			VendorID: VendorFrames, Category: market.CategoryMakeupArtists, Type: "Bridal",
			Name: "Glow by Frames", Location: market.Location{City: "Delhi", State: "Delhi"},
			Packages:  []market.Package{{Name: "Bridal", Price: price(18000)}},
			CreatedAt: now.Add(-8 * 24 * time.Hour),
		},
		{
			VendorID: VendorLotus, Category: market.CategoryDecorators, Type: "Floral",
			Name: "Petal Works", Location: market.Location{City: "Jaipur", State: "Rajasthan"},
			Packages:  []market.Package{{Name: "Mandap", Price: price(40000)}},
			CreatedAt: now.Add(-5 * 24 * time.Hour),
		},
	}
}

func Bookings(now time.Time, listingID string) []market.Booking {
	confirmedAt := now.Add(-24 * time.Hour)
	mk := func(name string, status market.BookingStatus, age time.Duration) market.Booking {
		return market.Booking{
			ListingID: listingID, VendorID: VendorRoyal, GuestID: "guest-" + name,
			EventName: name, EventDate: now.Add(30 * 24 * time.Hour).Format("2006-01-02"), EventTime: "19:00",
			GuestCount: 250, Venue: "Lotus Banquets", VenueAddress: "Vaishali Nagar, Jaipur",
			ContactPerson: "Priya Sharma", ContactPhone: "+91 98290 00000", ContactEmail: "priya@example.com",
			Status: status, CreatedAt: now.Add(-age),
		}
	}

	pending := mk("Sharma Wedding Reception", market.BookingPending, 2*time.Hour)
	confirmed := mk("Gupta Engagement", market.BookingConfirmed, 48*time.Hour)
	confirmed.TotalPrice = pricePtr(120000)
	confirmed.ConfirmedAt = &confirmedAt
	rejected := mk("Corporate Offsite", market.BookingRejected, 72*time.Hour)
	rejected.RejectionReason = "Fully booked on that date"
	cancelled := mk("Birthday Dinner", market.BookingCancelled, 96*time.Hour)

	return []market.Booking{pending, confirmed, rejected, cancelled}
}

func Leads(now time.Time) []market.Lead {
	return []market.Lead{
		{
			FullName: "Kabir Mehta", Email: "kabir@example.com", Phone: "+91 99000 11111",
			ServiceType: market.CategoryVenues, EventDate: "2026-12-12", GuestCount: 400, Location: "Jaipur",
			Message: "Looking for a palace venue.", Source: "website",
			Status: market.LeadNew, Priority: market.PriorityLow, CreatedAt: now.Add(-1 * time.Hour),
		},
		{
			FullName: "Sara Khan", Email: "sara@example.com",
			ServiceType: market.CategoryCatering, GuestCount: 150, Location: "Delhi", Source: "instagram",
			Status: market.LeadContacted, Priority: market.PriorityHigh, CreatedAt: now.Add(-26 * time.Hour),
			Notes: []market.LeadNote{{Note: "Called, wants a tasting.", AddedBy: AdminOperator, AddedAt: now.Add(-20 * time.Hour)}},
		},
		{
			FullName: "Dev Patel", Email: "dev@example.com",
			ServiceType: market.CategoryPhotographers, Location: "Mumbai", Source: "referral",
			Status: market.LeadQualified, Priority: market.PriorityMedium, CreatedAt: now.Add(-50 * time.Hour),
		},
	}
}

// Load inserts the fixed data set and returns the stored records.
func Load(ctx context.Context, s Stores, now time.Time) (Result, error) {
	var res Result
	for _, l := range Listings(now) {
		// Ratings are rebuilt from the reviews below.
		bare := l
		bare.Reviews = nil
		bare.Ratings = market.Ratings{}
		stored, err := s.Listings.Insert(ctx, bare)
		if err != nil {
			return res, fmt.Errorf("seed listing %q: %w", l.Name, err)
		}
		for i := len(l.Reviews) - 1; i >= 0; i-- {
			rv := l.Reviews[i]
			if _, err := s.Listings.AddReview(ctx, stored.Category, stored.ID, market.ReviewInput{UserName: rv.UserName, Rating: rv.Rating, Comment: rv.Comment}, rv.Date); err != nil {
				return res, fmt.Errorf("seed review for %q: %w", l.Name, err)
			}
		}
		if len(l.Reviews) > 0 {
			if stored, err = s.Listings.Get(ctx, stored.Category, stored.ID); err != nil {
				return res, err
			}
		}
		res.Listings = append(res.Listings, *stored)
	}

	for _, b := range Bookings(now, res.Listings[0].ID) {
		stored, err := s.Bookings.Insert(ctx, b)
		if err != nil {
			return res, fmt.Errorf("seed booking %q: %w", b.EventName, err)
		}
		res.Bookings = append(res.Bookings, *stored)
	}

	for _, l := range Leads(now) {
		stored, err := s.Leads.Insert(ctx, l)
		if err != nil {
			return res, fmt.Errorf("seed lead %q: %w", l.FullName, err)
		}
		res.Leads = append(res.Leads, *stored)
	}
	return res, nil
}
