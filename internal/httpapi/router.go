package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"eventmarket/internal/api"
	"eventmarket/internal/auth"
	"eventmarket/internal/booking"
	"eventmarket/internal/lead"
	"eventmarket/internal/listing"
	"eventmarket/internal/statscache"
	"eventmarket/pkg/config"
)

type Dependencies struct {
	Cfg      config.Config
	Listings listing.Store
	Bookings booking.Store
	Leads    lead.Store
	// Stats may be nil; stats are then computed on every request.
	Stats *statscache.Cache
	// Quiet disables request logging (tests).
	Quiet bool
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if !deps.Quiet {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(api.CORSMiddleware(api.CORSOptions{
		AllowedOrigins: deps.Cfg.CORSAllowedOrigins,
		MaxAgeSeconds:  600,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	listingHandlers := listing.Handlers{Store: deps.Listings}
	vendorListingHandlers := listing.VendorHandlers{Store: deps.Listings}
	bookingHandlers := booking.Handlers{Store: deps.Bookings, Cache: deps.Stats}
	leadHandlers := lead.Handlers{Store: deps.Leads, Cache: deps.Stats}

	// Authenticated routes are registered first; their static prefixes win over
	// the /{category} pattern below.
	r.Group(func(r chi.Router) {
		r.Use(api.BearerAuth(deps.Cfg.JWTSecret))

		// Vendor booking workflow
		r.Group(func(r chi.Router) {
			r.Use(api.RequireRole(auth.RoleVendor))

			r.Get("/bookings/vendor", bookingHandlers.List)
			r.Get("/bookings/vendor/stats", bookingHandlers.Stats)
			r.Patch("/bookings/{id}/status", bookingHandlers.PatchStatus)
			r.Get("/bookings/{id}/events", bookingHandlers.Events)

			r.Get("/vendor/listings", vendorListingHandlers.List)
			r.Delete("/vendor/listings/{id}", vendorListingHandlers.Delete)
		})

		// Admin lead workflow
		r.Route("/leads", func(r chi.Router) {
			r.Use(api.RequireRole(auth.RoleAdmin))

			r.Get("/", leadHandlers.List)
			r.Get("/stats", leadHandlers.Stats)
			r.Get("/{id}", leadHandlers.Get)
			r.Put("/{id}", leadHandlers.Update)
			r.Post("/{id}/notes", leadHandlers.AddNote)
			r.Delete("/{id}", leadHandlers.Delete)
		})
	})

	// Public directory
	r.Get("/{category}", listingHandlers.List)
	r.Get("/{category}/{id}", listingHandlers.Get)
	r.Post("/{category}/{id}/reviews", listingHandlers.AddReview)

	return r
}
