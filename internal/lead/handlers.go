package lead

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

// Handlers serves /leads. The router restricts every route to admins.
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

func actor(r *http.Request) string {
	if p := api.PrincipalFromContext(r.Context()); p != nil {
		return p.DisplayName()
	}
	return "admin"
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.List(r.Context(), ParseFilter(r.URL.Query()))
	if err != nil {
		log.Printf("[lead] list err=%v", err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteData(w, http.StatusOK, items, nil)
}

func (h Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := statscache.Load(r.Context(), h.Cache, statscache.LeadKey(), func(ctx context.Context) (market.LeadStats, error) {
		return h.Store.Stats(ctx)
	})
	if err != nil {
		log.Printf("[lead] stats err=%v", err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteData(w, http.StatusOK, st, nil)
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r, "id")
	if !ok {
		return
	}

	l, err := h.Store.Get(r.Context(), id)
	if !h.writeStoreError(w, "get", id, err) {
		api.WriteData(w, http.StatusOK, l, nil)
	}
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r, "id")
	if !ok {
		return
	}

	var req market.LeadUpdate
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		api.WriteValidation(w, err)
		return
	}

	l, err := h.Store.Update(r.Context(), id, req, actor(r), h.now())
	if h.writeStoreError(w, "update", id, err) {
		return
	}
	h.Cache.Invalidate(r.Context(), statscache.LeadKey())
	api.WriteData(w, http.StatusOK, l, nil)
}

type NoteRequest struct {
	Note string `json:"note"`
}

func (h Handlers) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r, "id")
	if !ok {
		return
	}

	var req NoteRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	note, err := market.NormalizeNote(req.Note)
	if err != nil {
		api.WriteValidation(w, err)
		return
	}

	l, err := h.Store.AddNote(r.Context(), id, note, actor(r), h.now())
	if h.writeStoreError(w, "add note", id, err) {
		return
	}
	api.WriteData(w, http.StatusCreated, l, nil)
}

func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := api.PathID(w, r, "id")
	if !ok {
		return
	}

	err := h.Store.Delete(r.Context(), id, actor(r))
	if h.writeStoreError(w, "delete", id, err) {
		return
	}
	h.Cache.Invalidate(r.Context(), statscache.LeadKey())
	log.Printf("[lead] deleted id=%s by=%s", id, actor(r))
	api.WriteData(w, http.StatusOK, map[string]any{"id": id, "deleted": true}, nil)
}

// writeStoreError reports whether err was written as a response.
func (h Handlers) writeStoreError(w http.ResponseWriter, op, id string, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "lead not found")
	case api.WriteValidation(w, err):
	default:
		log.Printf("[lead] %s id=%s err=%v", op, id, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
	return true
}
