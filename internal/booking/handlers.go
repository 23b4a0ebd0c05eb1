package booking

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"eventmarket/internal/api"
	"eventmarket/internal/statscache"
	"eventmarket/pkg/market"
)

type Handlers struct {
	Store Store
	Cache *statscache.Cache
	Now   func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	p := api.PrincipalFromContext(r.Context())
	if p == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	items, err := h.Store.ListByVendor(r.Context(), p.ID)
	if err != nil {
		log.Printf("[booking] list vendor=%s err=%v", p.ID, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteData(w, http.StatusOK, items, nil)
}

func (h Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	p := api.PrincipalFromContext(r.Context())
	if p == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	st, err := statscache.Load(r.Context(), h.Cache, statscache.BookingKey(p.ID), func(ctx context.Context) (market.BookingStats, error) {
		return h.Store.StatsByVendor(ctx, p.ID)
	})
	if err != nil {
		log.Printf("[booking] stats vendor=%s err=%v", p.ID, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteData(w, http.StatusOK, st, nil)
}

// PatchStatus applies one vendor transition.
//
// Contract:
// - unknown booking (or another vendor's) -> 404 NOT_FOUND
// - move not allowed from the stored status -> 409 INVALID_STATE_TRANSITION
// - reject without a reason, unknown status -> 400
func (h Handlers) PatchStatus(w http.ResponseWriter, r *http.Request) {
	p := api.PrincipalFromContext(r.Context())
	if p == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	id, ok := api.PathID(w, r, "id")
	if !ok {
		return
	}

	var req market.BookingChange
	if !api.DecodeJSON(w, r, &req) {
		return
	}

	b, err := h.Store.ApplyChange(r.Context(), p.ID, id, req, p.DisplayName(), h.now())
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		return
	case errors.Is(err, market.ErrInvalidTransition):
		api.WriteError(w, http.StatusConflict, "INVALID_STATE_TRANSITION", err.Error())
		return
	case api.WriteValidation(w, err):
		return
	default:
		log.Printf("[booking] patch status id=%s vendor=%s err=%v", id, p.ID, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	h.Cache.Invalidate(r.Context(), statscache.BookingKey(p.ID))
	log.Printf("[booking] status id=%s status=%s vendor=%s", b.ID, b.Status, p.ID)
	api.WriteData(w, http.StatusOK, b, nil)
}

func (h Handlers) Events(w http.ResponseWriter, r *http.Request) {
	p := api.PrincipalFromContext(r.Context())
	if p == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	id, ok := api.PathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.Store.Events(r.Context(), p.ID, id)
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "booking not found")
		return
	}
	if err != nil {
		log.Printf("[booking] events id=%s err=%v", id, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteData(w, http.StatusOK, items, nil)
}
