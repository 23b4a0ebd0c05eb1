package marketplace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"eventmarket/pkg/market"
)

// LeadBoard is the admin lead list, its stats block and an optional open
// detail view. Every mutation re-fetches list, stats and the open detail, each
// independently.
type LeadBoard struct {
	client Client

	mu     sync.Mutex
	filter market.LeadFilter
	leads  []market.Lead
	stats  market.LeadStats
	openID string
	open   *market.Lead

	listGen   generation
	statsGen  generation
	detailGen generation
}

func NewLeadBoard(c Client) *LeadBoard {
	return &LeadBoard{client: c}
}

// SetFilter replaces the list filter and fetches the list.
func (b *LeadBoard) SetFilter(ctx context.Context, f market.LeadFilter) error {
	b.mu.Lock()
	b.filter = f
	b.mu.Unlock()
	return b.refreshList(ctx)
}

func (b *LeadBoard) Filter() market.LeadFilter {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.filter
}

func (b *LeadBoard) Refresh(ctx context.Context) error {
	return errors.Join(b.refreshList(ctx), b.refreshStats(ctx))
}

func (b *LeadBoard) refreshList(ctx context.Context) error {
	tag := b.listGen.next()
	b.mu.Lock()
	f := b.filter
	b.mu.Unlock()

	items, err := b.client.Leads(ctx, f)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.listGen.current(tag) {
		return ErrSuperseded
	}
	b.leads = items
	return nil
}

func (b *LeadBoard) refreshStats(ctx context.Context) error {
	tag := b.statsGen.next()
	st, err := b.client.LeadStats(ctx)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.statsGen.current(tag) {
		return ErrSuperseded
	}
	b.stats = st
	return nil
}

// Open loads one lead into the detail view.
func (b *LeadBoard) Open(ctx context.Context, id string) error {
	b.mu.Lock()
	b.openID = id
	b.open = nil
	b.mu.Unlock()
	return b.refreshDetail(ctx)
}

func (b *LeadBoard) Close() {
	b.detailGen.next()
	b.mu.Lock()
	b.openID = ""
	b.open = nil
	b.mu.Unlock()
}

func (b *LeadBoard) refreshDetail(ctx context.Context) error {
	tag := b.detailGen.next()
	b.mu.Lock()
	id := b.openID
	b.mu.Unlock()
	if id == "" {
		return nil
	}

	l, err := b.client.Lead(ctx, id)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.detailGen.current(tag) {
		return ErrSuperseded
	}
	b.open = l
	return nil
}

func (b *LeadBoard) Leads() []market.Lead {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]market.Lead(nil), b.leads...)
}

func (b *LeadBoard) Stats() market.LeadStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// Detail is the open lead, or nil.
func (b *LeadBoard) Detail() *market.Lead {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open == nil {
		return nil
	}
	l := *b.open
	return &l
}

func (b *LeadBoard) UpdateStatus(ctx context.Context, id string, status market.LeadStatus) error {
	return b.mutate(ctx, id, func() error {
		return b.client.UpdateLead(ctx, id, market.LeadUpdate{Status: &status})
	})
}

func (b *LeadBoard) UpdatePriority(ctx context.Context, id string, priority market.LeadPriority) error {
	return b.mutate(ctx, id, func() error {
		return b.client.UpdateLead(ctx, id, market.LeadUpdate{Priority: &priority})
	})
}

// AddNote refuses blank text without a request.
func (b *LeadBoard) AddNote(ctx context.Context, id, text string) error {
	return b.mutate(ctx, id, func() error {
		return b.client.AddLeadNote(ctx, id, text)
	})
}

// Delete removes a lead after the confirmer agrees. A declined prompt sends
// nothing and leaves the board untouched.
func (b *LeadBoard) Delete(ctx context.Context, id string, c Confirmer) error {
	if err := confirm(ctx, c, "Delete this lead? This cannot be undone."); err != nil {
		return err
	}
	if err := b.client.DeleteLead(ctx, id); err != nil {
		return err
	}

	b.mu.Lock()
	closing := b.openID == id
	b.mu.Unlock()
	if closing {
		b.Close()
	}
	return b.afterMutation(ctx, id)
}

func (b *LeadBoard) mutate(ctx context.Context, id string, send func() error) error {
	if err := send(); err != nil {
		return err
	}
	return b.afterMutation(ctx, id)
}

func (b *LeadBoard) afterMutation(ctx context.Context, id string) error {
	if err := errors.Join(b.refreshList(ctx), b.refreshStats(ctx), b.refreshDetail(ctx)); err != nil {
		return fmt.Errorf("lead %s updated, refresh failed: %w", id, err)
	}
	return nil
}
