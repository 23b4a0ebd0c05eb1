package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventmarket/internal/lead"
	"eventmarket/pkg/market"
)

type Leads struct {
	mu    sync.Mutex
	items map[string]market.Lead
	now   func() time.Time
}

func NewLeads() *Leads {
	return &Leads{items: map[string]market.Lead{}, now: time.Now}
}

var _ lead.Store = (*Leads)(nil)

func (s *Leads) List(ctx context.Context, f market.LeadFilter) ([]market.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []market.Lead{}
	for _, l := range s.items {
		if lead.Matches(f, l) {
			l.Notes = []market.LeadNote{}
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Leads) Stats(ctx context.Context) (market.LeadStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st market.LeadStats
	for _, l := range s.items {
		st.Count(l)
	}
	return st, nil
}

func (s *Leads) Get(ctx context.Context, id string) (*market.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.items[id]
	if !ok {
		return nil, lead.ErrNotFound
	}
	out := cloneLead(l)
	return &out, nil
}

func (s *Leads) Update(ctx context.Context, id string, u market.LeadUpdate, actor string, now time.Time) (*market.Lead, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.items[id]
	if !ok {
		return nil, lead.ErrNotFound
	}
	l = l.Apply(u, now)
	s.items[id] = l
	out := cloneLead(l)
	return &out, nil
}

func (s *Leads) AddNote(ctx context.Context, id, note, actor string, now time.Time) (*market.Lead, error) {
	note, err := market.NormalizeNote(note)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.items[id]
	if !ok {
		return nil, lead.ErrNotFound
	}
	l.Notes = append(cloneLead(l).Notes, market.LeadNote{Note: note, AddedBy: actor, AddedAt: now})
	l.UpdatedAt = now
	s.items[id] = l
	out := cloneLead(l)
	return &out, nil
}

func (s *Leads) Delete(ctx context.Context, id, actor string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return lead.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *Leads) Insert(ctx context.Context, l market.Lead) (*market.Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = market.LeadNew
	}
	if l.Priority == "" {
		l.Priority = market.PriorityMedium
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = s.now()
	}
	l.UpdatedAt = l.CreatedAt
	l = cloneLead(l)
	s.items[l.ID] = l
	out := cloneLead(l)
	return &out, nil
}

func cloneLead(l market.Lead) market.Lead {
	out := l
	out.Notes = append([]market.LeadNote{}, l.Notes...)
	return out
}
