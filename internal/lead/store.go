package lead

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"eventmarket/pkg/market"
)

var ErrNotFound = errors.New("lead not found")

type Store interface {
	// List returns leads newest first. Notes are only loaded by Get.
	List(ctx context.Context, f market.LeadFilter) ([]market.Lead, error)
	Stats(ctx context.Context) (market.LeadStats, error)
	Get(ctx context.Context, id string) (*market.Lead, error)
	Update(ctx context.Context, id string, u market.LeadUpdate, actor string, now time.Time) (*market.Lead, error)
	AddNote(ctx context.Context, id, note, actor string, now time.Time) (*market.Lead, error)
	Delete(ctx context.Context, id, actor string) error
	Insert(ctx context.Context, l market.Lead) (*market.Lead, error)
}

// ParseFilter reads GET /leads query parameters. "all" means no filter.
func ParseFilter(v url.Values) market.LeadFilter {
	get := func(k string) string {
		s := strings.TrimSpace(v.Get(k))
		if s == market.StatusFilterAll {
			return ""
		}
		return s
	}
	return market.LeadFilter{
		Status:      get("status"),
		Priority:    get("priority"),
		ServiceType: get("serviceType"),
		Search:      get("search"),
	}
}

// Matches is the in-memory form of the List predicate. Search looks at name,
// email and phone, case-insensitively.
func Matches(f market.LeadFilter, l market.Lead) bool {
	if f.Status != "" && string(l.Status) != f.Status {
		return false
	}
	if f.Priority != "" && string(l.Priority) != f.Priority {
		return false
	}
	if f.ServiceType != "" && !strings.EqualFold(l.ServiceType, f.ServiceType) {
		return false
	}
	if f.Search != "" {
		s := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(l.FullName), s) &&
			!strings.Contains(strings.ToLower(l.Email), s) &&
			!strings.Contains(strings.ToLower(l.Phone), s) {
			return false
		}
	}
	return true
}
