package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"eventmarket/internal/audit"
	"eventmarket/pkg/db"
	"eventmarket/pkg/market"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const listingColumns = `
id, vendor_id, category, sub_type, name, description, area, city, state, main_image,
images, price::text, packages, amenities, features, capacity, seating, area_sqft,
min_price::text, rating_average::float8, rating_count, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanListing(row scanner, l *market.Listing, extra ...any) error {
	var (
		images, packages, amenities, features json.RawMessage
		price                                 *string
		minPrice                              string
	)
	dest := []any{
		&l.ID, &l.VendorID, &l.Category, &l.Type, &l.Name, &l.Description,
		&l.Location.Area, &l.Location.City, &l.Location.State, &l.MainImage,
		&images, &price, &packages, &amenities, &features, &l.Capacity, &l.Seating, &l.AreaSqft,
		&minPrice, &l.Ratings.Average, &l.Ratings.Count, &l.CreatedAt, &l.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return err
	}

	for _, f := range []struct {
		raw json.RawMessage
		dst any
	}{
		{images, &l.Images},
		{packages, &l.Packages},
		{amenities, &l.Amenities},
		{features, &l.Features},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return fmt.Errorf("listing %s: %w", l.ID, err)
		}
	}

	if price != nil {
		d, err := decimal.NewFromString(*price)
		if err != nil {
			return err
		}
		l.Price = &d
	}
	mp, err := decimal.NewFromString(minPrice)
	if err != nil {
		return err
	}
	l.MinPrice = mp
	return nil
}

// whereClause builds the directory predicate. It must stay in step with Query.Matches.
func whereClause(category string, q Query) (string, []any) {
	args := []any{category}
	conds := []string{"category = $1"}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.City != "" {
		conds = append(conds, "lower(city) = lower("+arg(q.City)+")")
	}
	if q.Type != "" {
		conds = append(conds, "lower(sub_type) = lower("+arg(q.Type)+")")
	}
	if q.Search != "" {
		conds = append(conds, "strpos(lower(name), lower("+arg(q.Search)+")) > 0")
	}
	if q.MinGuests > 0 {
		conds = append(conds, "capacity >= "+arg(q.MinGuests))
	}
	if q.Price.Min != nil {
		conds = append(conds, "sort_price >= CAST("+arg(q.Price.Min.String())+" AS numeric)")
	}
	if q.Price.Max != nil {
		conds = append(conds, "sort_price <= CAST("+arg(q.Price.Max.String())+" AS numeric)")
	}
	for _, r := range []struct {
		col string
		rng IntRange
	}{{"capacity", q.Capacity}, {"seating", q.Seating}, {"area_sqft", q.Area}} {
		if r.rng.Min != nil {
			conds = append(conds, r.col+" >= "+arg(*r.rng.Min))
		}
		if r.rng.Max != nil {
			conds = append(conds, r.col+" <= "+arg(*r.rng.Max))
		}
	}
	return strings.Join(conds, " AND "), args
}

func (r *Repository) List(ctx context.Context, category string, q Query) ([]market.Listing, int, error) {
	where, args := whereClause(category, q)
	args = append(args, q.Limit, q.Offset())
	query := `SELECT ` + listingColumns + `, COUNT(*) OVER() AS total
FROM listings
WHERE ` + where + fmt.Sprintf(`
ORDER BY rating_average DESC, created_at DESC
LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []market.Listing{}
	total := 0
	for rows.Next() {
		var l market.Listing
		if err := scanListing(rows, &l, &total); err != nil {
			return nil, 0, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// A page past the end returns no rows and therefore no window total.
	if len(out) == 0 && q.Page > 1 {
		countArgs := args[:len(args)-2]
		if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM listings WHERE `+where, countArgs...).Scan(&total); err != nil {
			return nil, 0, err
		}
	}
	return out, total, nil
}

func (r *Repository) Get(ctx context.Context, category, id string) (*market.Listing, error) {
	const q = `SELECT ` + listingColumns + `
FROM listings
WHERE category = $1 AND id = $2
`
	var l market.Listing
	if err := scanListing(r.db.QueryRow(ctx, q, category, id), &l); err != nil {
		if db.IsNoRows(err) || db.IsInvalidUUID(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reviews, err := r.reviews(ctx, r.db, l.ID)
	if err != nil {
		return nil, err
	}
	l.Reviews = reviews
	return &l, nil
}

func (r *Repository) reviews(ctx context.Context, q db.Querier, listingID string) ([]market.Review, error) {
	const stmt = `
SELECT id, user_name, rating::float8, comment, created_at
FROM listing_reviews
WHERE listing_id = $1
ORDER BY created_at DESC
`
	rows, err := q.Query(ctx, stmt, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []market.Review{}
	for rows.Next() {
		var rv market.Review
		if err := rows.Scan(&rv.ID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.Date); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repository) AddReview(ctx context.Context, category, id string, in market.ReviewInput, now time.Time) (*market.Listing, error) {
	in = in.Trimmed()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const qLock = `SELECT id FROM listings WHERE category = $1 AND id = $2 FOR UPDATE`
		var listingID string
		if err := tx.QueryRow(ctx, qLock, category, id).Scan(&listingID); err != nil {
			if db.IsNoRows(err) || db.IsInvalidUUID(err) {
				return ErrNotFound
			}
			return err
		}

		const qIns = `
INSERT INTO listing_reviews (listing_id, user_name, rating, comment, created_at)
VALUES ($1, $2, $3, $4, $5)
`
		if _, err := tx.Exec(ctx, qIns, listingID, in.UserName, in.Rating, in.Comment, now); err != nil {
			return err
		}

		const qRatings = `
UPDATE listings
SET rating_average = (SELECT ROUND(AVG(rating), 2) FROM listing_reviews WHERE listing_id = $1),
    rating_count = (SELECT COUNT(*) FROM listing_reviews WHERE listing_id = $1),
    updated_at = $2
WHERE id = $1
`
		_, err := tx.Exec(ctx, qRatings, listingID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, category, id)
}

func (r *Repository) ListByVendor(ctx context.Context, vendorID string) ([]market.Listing, error) {
	const q = `SELECT ` + listingColumns + `
FROM listings
WHERE vendor_id = $1
ORDER BY created_at DESC
`
	rows, err := r.db.Query(ctx, q, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []market.Listing{}
	for rows.Next() {
		var l market.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// DeleteByVendor removes a listing only when it belongs to vendorID, so a
// vendor cannot delete someone else's listing by guessing ids.
func (r *Repository) DeleteByVendor(ctx context.Context, vendorID, category, id string) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		const q = `DELETE FROM listings WHERE id = $1 AND category = $2 AND vendor_id = $3`
		tag, err := tx.Exec(ctx, q, id, category, vendorID)
		if err != nil {
			if db.IsInvalidUUID(err) {
				return ErrNotFound
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return audit.Insert(ctx, tx, vendorID, "listing", id, audit.ActionListingDeleted, map[string]any{"type": category})
	})
}

func (r *Repository) Insert(ctx context.Context, l market.Listing) (*market.Listing, error) {
	images, _ := json.Marshal(nonNil(l.Images))
	amenities, _ := json.Marshal(nonNil(l.Amenities))
	features, _ := json.Marshal(nonNil(l.Features))
	packages, _ := json.Marshal(nonNilPackages(l.Packages))

	var price *string
	if l.Price != nil {
		s := l.Price.String()
		price = &s
	}
	l.MinPrice = market.MinPrice(l.Packages)

	const q = `
INSERT INTO listings (
  vendor_id, category, sub_type, name, description, area, city, state, main_image,
  images, price, packages, amenities, features, capacity, seating, area_sqft,
  min_price, sort_price, rating_average, rating_count
)
VALUES (
  $1, $2, $3, $4, $5, $6, $7, $8, $9,
  CAST($10 AS jsonb), CAST($11 AS numeric), CAST($12 AS jsonb), CAST($13 AS jsonb), CAST($14 AS jsonb), $15, $16, $17,
  CAST($18 AS numeric), CAST($19 AS numeric), $20, $21
)
RETURNING id, created_at, updated_at
`
	if err := r.db.QueryRow(ctx, q,
		l.VendorID, l.Category, l.Type, l.Name, l.Description, l.Location.Area, l.Location.City, l.Location.State, l.MainImage,
		string(images), price, string(packages), string(amenities), string(features), l.Capacity, l.Seating, l.AreaSqft,
		l.MinPrice.String(), l.SortPrice().String(), l.Ratings.Average, l.Ratings.Count,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilPackages(p []market.Package) []market.Package {
	if p == nil {
		return []market.Package{}
	}
	return p
}
