package marketplace_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"eventmarket/internal/auth"
	"eventmarket/internal/httpapi"
	"eventmarket/internal/memstore"
	"eventmarket/internal/seed"
	"eventmarket/pkg/config"
	"eventmarket/pkg/market"
	"eventmarket/pkg/marketplace"
)

const testSecret = "test_secret"

// fixture is a live API on seeded memory stores that records every request
// it receives as "METHOD /path?query".
type fixture struct {
	srv    *httptest.Server
	seeded seed.Result

	mu   sync.Mutex
	hits []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	stores := seed.Stores{
		Listings: memstore.NewListings(),
		Bookings: memstore.NewBookings(),
		Leads:    memstore.NewLeads(),
	}
	res, err := seed.Load(context.Background(), stores, time.Now())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:      config.Config{JWTSecret: testSecret},
		Listings: stores.Listings,
		Bookings: stores.Bookings,
		Leads:    stores.Leads,
		Quiet:    true,
	})

	f := &fixture{seeded: res}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits = append(f.hits, r.Method+" "+r.URL.RequestURI())
		f.mu.Unlock()
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) client(t *testing.T, subject, role string) marketplace.Client {
	t.Helper()
	c := marketplace.Client{BaseURL: f.srv.URL}
	if role != "" {
		tok, err := auth.Issue(testSecret, subject, role, "", time.Hour, time.Now())
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		c.Credentials = marketplace.StaticToken(tok)
	}
	return c
}

// count returns how many recorded requests start with prefix.
func (f *fixture) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, h := range f.hits {
		if strings.HasPrefix(h, prefix) {
			n++
		}
	}
	return n
}

func (f *fixture) last() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.hits) == 0 {
		return ""
	}
	return f.hits[len(f.hits)-1]
}

func (f *fixture) reset() {
	f.mu.Lock()
	f.hits = nil
	f.mu.Unlock()
}

var (
	yes = marketplace.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	no  = marketplace.ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
)

func TestDirectory_CateringJaipurQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir, err := marketplace.NewDirectory(f.client(t, "", ""), market.CategoryCatering)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}

	_ = dir.Set(ctx, "city", "Jaipur")
	_ = dir.Set(ctx, "minGuests", "100")
	_ = dir.Set(ctx, "search", "  ")
	_ = dir.Set(ctx, "price", "")
	if n := f.count("GET"); n != 0 {
		t.Fatalf("explicit-apply page fetched on Set: %d requests", n)
	}

	if err := dir.Apply(ctx); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := f.last(); got != "GET /catering?city=Jaipur&minGuests=100" {
		t.Fatalf("unexpected request %q", got)
	}
	items := dir.Listings()
	if len(items) != 1 || items[0].Name != "Royal Caterers" {
		t.Fatalf("unexpected listings: %+v", items)
	}
	if p := dir.Pagination(); p == nil || p.Total != 1 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

func TestDirectory_ClearResetsAndFetchesOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir, _ := marketplace.NewDirectory(f.client(t, "", ""), market.CategoryVenues)

	_ = dir.Set(ctx, "city", "Jaipur")
	_ = dir.Set(ctx, "price", "1,00,000 - 3,00,000")
	if err := dir.Apply(ctx); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := f.last(); got != "GET /venues?city=Jaipur&maxPrice=300000&minPrice=100000" {
		t.Fatalf("unexpected request %q", got)
	}

	f.reset()
	if err := dir.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if n := f.count("GET"); n != 1 {
		t.Fatalf("expected exactly one fetch, got %d", n)
	}
	if got := f.last(); got != "GET /venues" {
		t.Fatalf("expected unfiltered request, got %q", got)
	}
	if !dir.Filter().Empty() {
		t.Fatalf("filter not reset: %+v", dir.Filter())
	}
}

func TestDirectory_AutoApplyFetchesOnSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dir, _ := marketplace.NewDirectory(f.client(t, "", ""), market.CategoryPhotographers)
	if !dir.AutoApply() {
		t.Fatalf("photographers page should auto-apply")
	}

	if err := dir.Set(ctx, "city", "Delhi"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := dir.Set(ctx, "price", "Above 50,000"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if n := f.count("GET /photographers"); n != 2 {
		t.Fatalf("expected a fetch per Set, got %d", n)
	}
	if got := f.last(); got != "GET /photographers?city=Delhi&minPrice=50000" {
		t.Fatalf("open-ended range must omit max, got %q", got)
	}
	if err := dir.Set(ctx, "capacity", "1000+"); !market.IsValidation(err) {
		t.Fatalf("expected validation error for unknown filter, got %v", err)
	}
}

func TestListingView_ReviewRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	royal := f.seeded.Listings[0]
	v := marketplace.NewListingView(f.client(t, "", ""), royal.Category, royal.ID)

	if err := v.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := v.Listing().Ratings.Count
	if !v.MinPrice().Equal(market.MinPrice(royal.Packages)) {
		t.Fatalf("unexpected min price %s", v.MinPrice())
	}

	f.reset()
	if err := v.SubmitReview(ctx, market.ReviewInput{UserName: "A", Rating: 5, Comment: "Great"}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if f.count("POST") != 1 || f.count("GET /catering/"+royal.ID) != 1 {
		t.Fatalf("expected POST then re-fetch, got %d POST / %d GET", f.count("POST"), f.count("GET"))
	}
	l := v.Listing()
	if l.Ratings.Count != before+1 || l.Reviews[0].UserName != "A" {
		t.Fatalf("review not reflected: count=%d first=%+v", l.Ratings.Count, l.Reviews[0])
	}
}

func TestListingView_InvalidReviewSendsNothing(t *testing.T) {
	f := newFixture(t)
	royal := f.seeded.Listings[0]
	v := marketplace.NewListingView(f.client(t, "", ""), royal.Category, royal.ID)

	for _, in := range []market.ReviewInput{
		{UserName: "", Rating: 5, Comment: "x"},
		{UserName: "A", Rating: 5, Comment: "   "},
		{UserName: "A", Rating: 0, Comment: "x"},
	} {
		if err := v.SubmitReview(context.Background(), in); !market.IsValidation(err) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}
	if n := f.count(""); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
	if err := v.SetTab("pricing"); err == nil {
		t.Fatalf("expected unknown tab error")
	}
}

func TestBookingBoard_ConfirmScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	board := marketplace.NewBookingBoard(f.client(t, seed.VendorRoyal, auth.RoleVendor))
	if err := board.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	pending := f.seeded.Bookings[0]

	f.reset()
	if err := board.Confirm(ctx, pending.ID, "50000", "Menu tasting on the 5th"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if f.count("PATCH") != 1 || f.count("GET /bookings/vendor/stats") != 1 || f.count("GET /bookings/vendor") != 2 {
		t.Fatalf("expected one PATCH and a list+stats re-fetch, got %v", f.hits)
	}

	var got market.Booking
	for _, b := range board.Bookings() {
		if b.ID == pending.ID {
			got = b
		}
	}
	if got.Status != market.BookingConfirmed || got.TotalPrice == nil || got.TotalPrice.IntPart() != 50000 || got.ConfirmedAt == nil {
		t.Fatalf("unexpected booking after confirm: %+v", got)
	}
	if st := board.Stats(); st.Pending != 0 || st.Confirmed != 2 {
		t.Fatalf("stats not re-fetched: %+v", st)
	}
}

func TestBookingBoard_RejectWithoutReasonSendsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	board := marketplace.NewBookingBoard(f.client(t, seed.VendorRoyal, auth.RoleVendor))
	_ = board.Refresh(ctx)

	f.reset()
	err := board.Reject(ctx, f.seeded.Bookings[0].ID, "   ")
	if !market.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := f.count(""); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}

	if err := board.Reject(ctx, f.seeded.Bookings[0].ID, "Kitchen closed for renovation"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if f.count("PATCH") != 1 {
		t.Fatalf("expected one PATCH, got %d", f.count("PATCH"))
	}
}

func TestBookingBoard_CompleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	board := marketplace.NewBookingBoard(f.client(t, seed.VendorRoyal, auth.RoleVendor))
	_ = board.Refresh(ctx)
	confirmed := f.seeded.Bookings[1]

	f.reset()
	if err := board.Complete(ctx, confirmed.ID, no); !errors.Is(err, marketplace.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if n := f.count(""); n != 0 {
		t.Fatalf("declined prompt sent %d requests", n)
	}

	if err := board.Complete(ctx, confirmed.ID, yes); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if st := board.Stats(); st.Completed != 1 {
		t.Fatalf("expected one completed booking, got %+v", st)
	}
}

func TestBookingBoard_TerminalStatesHaveNoTransitions(t *testing.T) {
	f := newFixture(t)
	board := marketplace.NewBookingBoard(f.client(t, seed.VendorRoyal, auth.RoleVendor))
	_ = board.Refresh(context.Background())

	for _, b := range f.seeded.Bookings[2:] {
		for _, a := range board.Actions(b.ID) {
			if _, ok := a.Target(); ok {
				t.Fatalf("%s booking offers transition %s", b.Status, a)
			}
		}
	}
	if acts := board.Actions(f.seeded.Bookings[3].ID); len(acts) != 0 {
		t.Fatalf("cancelled booking should offer nothing, got %v", acts)
	}
}

func TestBookingBoard_StaleStateIsReportedNotRetried(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.client(t, seed.VendorRoyal, auth.RoleVendor)
	stale := marketplace.NewBookingBoard(c)
	fresh := marketplace.NewBookingBoard(c)
	_ = stale.Refresh(ctx)
	_ = fresh.Refresh(ctx)
	id := f.seeded.Bookings[0].ID

	if err := fresh.Confirm(ctx, id, "", ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	f.reset()
	err := stale.Reject(ctx, id, "Double booked")
	if marketplace.StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %v", err)
	}
	if n := f.count(""); n != 1 {
		t.Fatalf("expected a single attempt and no re-fetch, got %d requests", n)
	}
}

func TestBookingBoard_VisibleFiltersLocally(t *testing.T) {
	f := newFixture(t)
	board := marketplace.NewBookingBoard(f.client(t, seed.VendorRoyal, auth.RoleVendor))
	_ = board.Refresh(context.Background())

	f.reset()
	if err := board.SetFilter("pending"); err != nil {
		t.Fatalf("set filter: %v", err)
	}
	if v := board.Visible(); len(v) != 1 || v[0].Status != market.BookingPending {
		t.Fatalf("unexpected visible bookings: %+v", v)
	}
	_ = board.SetFilter("all")
	if v := board.Visible(); len(v) != 4 {
		t.Fatalf("expected all 4, got %d", len(v))
	}
	if err := board.SetFilter("archived"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if n := f.count(""); n != 0 {
		t.Fatalf("filtering must not fetch, got %d requests", n)
	}
}

func TestBookingBoard_NoCredentials(t *testing.T) {
	f := newFixture(t)
	board := marketplace.NewBookingBoard(f.client(t, "", ""))
	if err := board.Refresh(context.Background()); !errors.Is(err, marketplace.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
	if n := f.count(""); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestLeadBoard_UpdatePriorityKeepsStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	board := marketplace.NewLeadBoard(f.client(t, seed.AdminOperator, auth.RoleAdmin))
	_ = board.Refresh(ctx)
	kabir := f.seeded.Leads[0]
	if err := board.Open(ctx, kabir.ID); err != nil {
		t.Fatalf("open: %v", err)
	}

	f.reset()
	if err := board.UpdatePriority(ctx, kabir.ID, market.PriorityHigh); err != nil {
		t.Fatalf("update priority: %v", err)
	}
	if f.count("PUT") != 1 || f.count("GET /leads/stats") != 1 || f.count("GET /leads/"+kabir.ID) != 1 {
		t.Fatalf("expected PUT and list/stats/detail re-fetch, got %v", f.hits)
	}
	d := board.Detail()
	if d == nil || d.Status != market.LeadNew || d.Priority != market.PriorityHigh {
		t.Fatalf("unexpected detail: %+v", d)
	}
	if st := board.Stats(); st.HighPriority != 2 {
		t.Fatalf("stats not re-fetched: %+v", st)
	}

	if err := board.UpdateStatus(ctx, kabir.ID, market.LeadConverted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if d := board.Detail(); d.Status != market.LeadConverted || d.Priority != market.PriorityHigh {
		t.Fatalf("unexpected detail: %+v", d)
	}
}

func TestLeadBoard_BlankNoteSendsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	board := marketplace.NewLeadBoard(f.client(t, seed.AdminOperator, auth.RoleAdmin))
	id := f.seeded.Leads[0].ID

	if err := board.AddNote(ctx, id, " \t\n"); !market.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := f.count(""); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}

	_ = board.Open(ctx, id)
	if err := board.AddNote(ctx, id, "Asked for a quote"); err != nil {
		t.Fatalf("add note: %v", err)
	}
	if d := board.Detail(); len(d.Notes) != 1 || d.Notes[0].Note != "Asked for a quote" {
		t.Fatalf("note not visible in detail: %+v", d)
	}
}

func TestLeadBoard_DeleteNeedsConfirmation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	board := marketplace.NewLeadBoard(f.client(t, seed.AdminOperator, auth.RoleAdmin))
	_ = board.Refresh(ctx)
	before := board.Leads()
	id := f.seeded.Leads[1].ID

	if err := board.Delete(ctx, id, no); !errors.Is(err, marketplace.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if f.count("DELETE") != 0 || len(board.Leads()) != len(before) {
		t.Fatalf("declined delete changed something")
	}

	_ = board.Open(ctx, id)
	if err := board.Delete(ctx, id, yes); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if f.count("DELETE") != 1 || len(board.Leads()) != len(before)-1 {
		t.Fatalf("expected one DELETE and a shorter list")
	}
	if board.Detail() != nil {
		t.Fatalf("deleted lead left open")
	}
}

func TestLeadBoard_FilterQuery(t *testing.T) {
	f := newFixture(t)
	board := marketplace.NewLeadBoard(f.client(t, seed.AdminOperator, auth.RoleAdmin))

	err := board.SetFilter(context.Background(), market.LeadFilter{Status: "all", Priority: "high", Search: " "})
	if err != nil {
		t.Fatalf("set filter: %v", err)
	}
	if got := f.last(); got != "GET /leads?priority=high" {
		t.Fatalf("unexpected request %q", got)
	}
	if leads := board.Leads(); len(leads) != 1 {
		t.Fatalf("expected 1 high priority lead, got %d", len(leads))
	}
}

func TestVendorListings_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := marketplace.NewVendorListings(f.client(t, seed.VendorRoyal, auth.RoleVendor))
	if err := v.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	items := v.Listings()
	if len(items) != 3 {
		t.Fatalf("expected 3 listings, got %d", len(items))
	}

	path, err := marketplace.EditPath(items[0])
	if err != nil || path != "/vendor/catering/"+items[0].ID+"/edit" {
		t.Fatalf("unexpected edit path %q (%v)", path, err)
	}

	if err := v.Delete(ctx, items[0], no); !errors.Is(err, marketplace.ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if err := v.Delete(ctx, items[0], yes); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if f.count("DELETE") != 1 || len(v.Listings()) != 2 {
		t.Fatalf("expected one DELETE and 2 listings left")
	}
}
