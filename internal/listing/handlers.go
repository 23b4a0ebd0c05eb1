package listing

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"eventmarket/internal/api"
	"eventmarket/pkg/market"
)

// Handlers serves the public directory, detail and review endpoints.
type Handlers struct {
	Store Store
	Now   func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func categoryParam(w http.ResponseWriter, r *http.Request) (market.Category, bool) {
	cat, ok := market.LookupCategory(chi.URLParam(r, "category"))
	if !ok {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "unknown category")
		return market.Category{}, false
	}
	return cat, true
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	cat, ok := categoryParam(w, r)
	if !ok {
		return
	}

	q, err := ParseQuery(r.URL.Query())
	if err != nil {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	items, total, err := h.Store.List(r.Context(), cat.Name, q)
	if err != nil {
		log.Printf("[listing] list category=%s err=%v", cat.Name, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}

	api.WriteData(w, http.StatusOK, items, map[string]any{
		"pagination": market.Pagination{Page: q.Page, Limit: q.Limit, Total: total},
	})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	cat, ok := categoryParam(w, r)
	if !ok {
		return
	}
	id, ok := api.PathID(w, r, "id")
	if !ok {
		return
	}

	l, err := h.Store.Get(r.Context(), cat.Name, id)
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "listing not found")
		return
	}
	if err != nil {
		log.Printf("[listing] get id=%s err=%v", id, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteData(w, http.StatusOK, l, nil)
}

func (h Handlers) AddReview(w http.ResponseWriter, r *http.Request) {
	cat, ok := categoryParam(w, r)
	if !ok {
		return
	}
	id, ok := api.PathID(w, r, "id")
	if !ok {
		return
	}

	var in market.ReviewInput
	if !api.DecodeJSON(w, r, &in) {
		return
	}
	in = in.Trimmed()
	if err := in.Validate(); err != nil {
		api.WriteValidation(w, err)
		return
	}

	l, err := h.Store.AddReview(r.Context(), cat.Name, id, in, h.now())
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "listing not found")
		return
	}
	if err != nil {
		if api.WriteValidation(w, err) {
			return
		}
		log.Printf("[listing] add review id=%s err=%v", id, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteData(w, http.StatusCreated, l, nil)
}

// VendorHandlers serves /vendor/listings for the authenticated vendor.
type VendorHandlers struct {
	Store Store
}

func (h VendorHandlers) List(w http.ResponseWriter, r *http.Request) {
	p := api.PrincipalFromContext(r.Context())
	if p == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}

	items, err := h.Store.ListByVendor(r.Context(), p.ID)
	if err != nil {
		log.Printf("[listing] vendor list vendor=%s err=%v", p.ID, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteData(w, http.StatusOK, items, nil)
}

type DeleteRequest struct {
	Type string `json:"type"`
}

func (h VendorHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	p := api.PrincipalFromContext(r.Context())
	if p == nil {
		api.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing identity")
		return
	}
	id, ok := api.PathID(w, r, "id")
	if !ok {
		return
	}

	var req DeleteRequest
	if !api.DecodeJSON(w, r, &req) {
		return
	}
	cat, ok := market.LookupCategory(strings.TrimSpace(req.Type))
	if !ok {
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_FAILED", "unknown listing type")
		return
	}

	err := h.Store.DeleteByVendor(r.Context(), p.ID, cat.Name, id)
	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "listing not found")
		return
	}
	if err != nil {
		log.Printf("[listing] delete id=%s vendor=%s err=%v", id, p.ID, err)
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	api.WriteData(w, http.StatusOK, map[string]any{"id": id, "deleted": true}, nil)
}
