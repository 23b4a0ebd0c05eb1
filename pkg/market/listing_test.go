package market

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMinPrice_EmptyIsZero(t *testing.T) {
	if got := MinPrice(nil); !got.IsZero() {
		t.Fatalf("expected 0, got %s", got)
	}
}

func TestMinPrice_Lowest(t *testing.T) {
	pkgs := []Package{
		{Name: "Gold", Price: decimal.RequireFromString("120000")},
		{Name: "Silver", Price: decimal.RequireFromString("75000.50")},
		{Name: "Platinum", Price: decimal.RequireFromString("200000")},
	}
	if got := MinPrice(pkgs); !got.Equal(decimal.RequireFromString("75000.50")) {
		t.Fatalf("expected 75000.50, got %s", got)
	}
}

func TestSortPrice_FallsBackToFlatPrice(t *testing.T) {
	p := decimal.NewFromInt(9000)
	l := Listing{Price: &p}
	if !l.SortPrice().Equal(p) {
		t.Fatalf("expected flat price, got %s", l.SortPrice())
	}
}

func TestRatings_AddRating(t *testing.T) {
	r := Ratings{Average: 4, Count: 2}.AddRating(5)
	if r.Count != 3 {
		t.Fatalf("expected count 3, got %d", r.Count)
	}
	if r.Average != 4.33 {
		t.Fatalf("expected 4.33, got %v", r.Average)
	}
}

func TestReviewInput_Validate(t *testing.T) {
	ok := ReviewInput{UserName: "A", Rating: 4.5, Comment: "Great"}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := []ReviewInput{
		{UserName: "", Rating: 5, Comment: "x"},
		{UserName: "A", Rating: 5, Comment: "  "},
		{UserName: "A", Rating: 0.5, Comment: "x"},
		{UserName: "A", Rating: 5.5, Comment: "x"},
		{UserName: "A", Rating: 3.3, Comment: "x"},
	}
	for _, in := range bad {
		if err := in.Validate(); !IsValidation(err) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}
}

func TestLeadApply_PriorityOnly(t *testing.T) {
	high := PriorityHigh
	l := Lead{ID: "l1", Status: LeadNew, Priority: PriorityLow}
	got := l.Apply(LeadUpdate{Priority: &high}, time.Now())
	if got.Status != LeadNew {
		t.Fatalf("status must be unchanged, got %s", got.Status)
	}
	if got.Priority != PriorityHigh {
		t.Fatalf("expected high priority, got %s", got.Priority)
	}
}

func TestLeadUpdate_AnyStatusFromAny(t *testing.T) {
	back := LeadNew
	l := Lead{Status: LeadConverted}
	if err := (LeadUpdate{Status: &back}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := l.Apply(LeadUpdate{Status: &back}, time.Now()); got.Status != LeadNew {
		t.Fatalf("expected new, got %s", got.Status)
	}
}

func TestNormalizeNote_Blank(t *testing.T) {
	if _, err := NormalizeNote(" \t\n"); !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
