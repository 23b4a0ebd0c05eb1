package market

import "testing"

func TestBuildQuery_CateringOmitsEmpty(t *testing.T) {
	c, ok := LookupCategory(CategoryCatering)
	if !ok {
		t.Fatalf("catering category missing")
	}
	q := BuildQuery(c, Filter{"city": "Jaipur", "minGuests": "100", "type": "", "search": "  ", "price": ""})

	if q.Get("city") != "Jaipur" || q.Get("minGuests") != "100" {
		t.Fatalf("expected city and minGuests, got %v", q)
	}
	if len(q) != 2 {
		t.Fatalf("expected exactly 2 params, got %v", q)
	}
}

func TestBuildQuery_ResolvesRangeLabels(t *testing.T) {
	c, _ := LookupCategory(CategoryVenues)
	q := BuildQuery(c, Filter{"price": "50,000 - 1,00,000", "capacity": "1000+"})

	if q.Get("minPrice") != "50000" || q.Get("maxPrice") != "100000" {
		t.Fatalf("unexpected price range: %v", q)
	}
	if q.Get("minCapacity") != "1000" {
		t.Fatalf("unexpected capacity min: %v", q)
	}
	if _, ok := q["maxCapacity"]; ok {
		t.Fatalf("open-ended range must not send a max: %v", q)
	}
}

func TestBuildQuery_UnknownLabelAndKeyDropped(t *testing.T) {
	c, _ := LookupCategory(CategoryPhotographers)
	q := BuildQuery(c, Filter{"price": "cheap", "seating": "Up to 50", "minGuests": "10"})
	if len(q) != 0 {
		t.Fatalf("expected empty query, got %v", q)
	}
}

func TestLeadFilterQuery(t *testing.T) {
	q := LeadFilter{Status: "all", Priority: "high", Search: " anna "}.Query()
	if len(q) != 2 || q.Get("priority") != "high" || q.Get("search") != "anna" {
		t.Fatalf("unexpected lead query: %v", q)
	}
}
