package marketplace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"eventmarket/pkg/market"
)

func TestDecodeData_EnvelopeAndBare(t *testing.T) {
	var a, b []market.Listing
	if err := decodeData([]byte(`{"data":[{"id":"1","name":"x"}]}`), &a); err != nil {
		t.Fatalf("envelope: %v", err)
	}
	if err := decodeData([]byte(` [{"id":"1","name":"x"}]`), &b); err != nil {
		t.Fatalf("bare: %v", err)
	}
	if len(a) != 1 || len(b) != 1 || a[0].ID != b[0].ID {
		t.Fatalf("shapes decoded differently: %+v vs %+v", a, b)
	}

	var l market.Listing
	if err := decodeData([]byte(`{"id":"7","name":"Bare listing"}`), &l); err != nil || l.ID != "7" {
		t.Fatalf("bare object: %+v %v", l, err)
	}
}

func TestDo_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"code":"INVALID_STATE_TRANSITION","message":"confirmed -> rejected"}}`))
	}))
	defer srv.Close()

	c := Client{BaseURL: srv.URL, Credentials: StaticToken("t")}
	_, err := c.VendorBookings(context.Background())
	var ae *APIError
	if !errors.As(err, &ae) || ae.Status != http.StatusConflict || ae.Code != "INVALID_STATE_TRANSITION" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDo_SendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":{"total":0}}`))
	}))
	defer srv.Close()

	c := Client{BaseURL: srv.URL, Credentials: StaticToken("abc")}
	if _, err := c.LeadStats(context.Background()); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if got != "Bearer abc" {
		t.Fatalf("unexpected Authorization %q", got)
	}
}

func TestDirectory_SupersededResponseIsDiscarded(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var n atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			close(arrived)
			<-release
			_, _ = w.Write([]byte(`[{"id":"old","name":"Old"}]`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"new","name":"New"}]}`))
	}))
	defer srv.Close()

	d, err := NewDirectory(Client{BaseURL: srv.URL}, market.CategoryDecorators)
	if err != nil {
		t.Fatalf("new directory: %v", err)
	}

	first := make(chan error, 1)
	go func() { first <- d.Refresh(context.Background()) }()
	<-arrived

	if err := d.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	close(release)

	if err := <-first; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", err)
	}
	items := d.Listings()
	if len(items) != 1 || items[0].ID != "new" {
		t.Fatalf("stale response overwrote newer state: %+v", items)
	}
}

func TestHTTPClient_DefaultIsShared(t *testing.T) {
	a, b := Client{}, Client{BaseURL: "http://example.test"}
	if a.httpClient() != b.httpClient() || a.httpClient() != defaultHTTPClient {
		t.Fatalf("expected the shared default client")
	}
	if defaultHTTPClient.Timeout == 0 {
		t.Fatalf("default client must have a timeout")
	}
	own := &http.Client{}
	if (Client{HTTPClient: own}).httpClient() != own {
		t.Fatalf("explicit client ignored")
	}
}
