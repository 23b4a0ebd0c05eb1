package lead

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventmarket/internal/audit"
	"eventmarket/internal/events"
	"eventmarket/pkg/db"
	"eventmarket/pkg/market"
)

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const leadColumns = `
id, full_name, email, phone, service_type, event_date, guest_count, location, message, source,
status, priority, created_at, updated_at`

func scanLead(row pgx.Row, l *market.Lead) error {
	return row.Scan(
		&l.ID, &l.FullName, &l.Email, &l.Phone, &l.ServiceType, &l.EventDate, &l.GuestCount, &l.Location, &l.Message, &l.Source,
		&l.Status, &l.Priority, &l.CreatedAt, &l.UpdatedAt,
	)
}

func (r *Repository) List(ctx context.Context, f market.LeadFilter) ([]market.Lead, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.Priority != "" {
		conds = append(conds, "priority = "+arg(f.Priority))
	}
	if f.ServiceType != "" {
		conds = append(conds, "lower(service_type) = lower("+arg(f.ServiceType)+")")
	}
	if f.Search != "" {
		p := arg(f.Search)
		conds = append(conds, "(full_name ILIKE '%' || "+p+" || '%' OR email ILIKE '%' || "+p+" || '%' OR phone ILIKE '%' || "+p+" || '%')")
	}

	q := `SELECT ` + leadColumns + `
FROM leads`
	if len(conds) > 0 {
		q += "\nWHERE " + strings.Join(conds, " AND ")
	}
	q += "\nORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []market.Lead{}
	for rows.Next() {
		var l market.Lead
		if err := scanLead(rows, &l); err != nil {
			return nil, err
		}
		l.Notes = []market.LeadNote{}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repository) Stats(ctx context.Context) (market.LeadStats, error) {
	const q = `
SELECT
  COUNT(*),
  COUNT(*) FILTER (WHERE status = 'new'),
  COUNT(*) FILTER (WHERE status = 'contacted'),
  COUNT(*) FILTER (WHERE status = 'qualified'),
  COUNT(*) FILTER (WHERE status = 'converted'),
  COUNT(*) FILTER (WHERE status = 'lost'),
  COUNT(*) FILTER (WHERE priority = 'high')
FROM leads
`
	var st market.LeadStats
	err := r.db.QueryRow(ctx, q).Scan(&st.Total, &st.New, &st.Contacted, &st.Qualified, &st.Converted, &st.Lost, &st.HighPriority)
	return st, err
}

func (r *Repository) Get(ctx context.Context, id string) (*market.Lead, error) {
	return r.get(ctx, r.db, id, false)
}

func (r *Repository) get(ctx context.Context, q db.Querier, id string, lock bool) (*market.Lead, error) {
	stmt := `SELECT ` + leadColumns + `
FROM leads
WHERE id = $1`
	if lock {
		stmt += "\nFOR UPDATE"
	}

	var l market.Lead
	if err := scanLead(q.QueryRow(ctx, stmt, id), &l); err != nil {
		if db.IsNoRows(err) || db.IsInvalidUUID(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	notes, err := listNotes(ctx, q, l.ID)
	if err != nil {
		return nil, err
	}
	l.Notes = notes
	return &l, nil
}

func listNotes(ctx context.Context, q db.Querier, leadID string) ([]market.LeadNote, error) {
	const stmt = `
SELECT note, added_by, added_at
FROM lead_notes
WHERE lead_id = $1
ORDER BY added_at ASC
`
	rows, err := q.Query(ctx, stmt, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []market.LeadNote{}
	for rows.Next() {
		var n market.LeadNote
		if err := rows.Scan(&n.Note, &n.AddedBy, &n.AddedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id string, u market.LeadUpdate, actor string, now time.Time) (*market.Lead, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}

	var out *market.Lead
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		cur, err := r.get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		next := cur.Apply(u, now)

		const q = `UPDATE leads SET status = $2, priority = $3, updated_at = $4 WHERE id = $1`
		if _, err := tx.Exec(ctx, q, next.ID, next.Status, next.Priority, now); err != nil {
			return err
		}

		if err := audit.Insert(ctx, tx, actor, events.EntityLead, next.ID, audit.ActionLeadUpdated, u); err != nil {
			return err
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) AddNote(ctx context.Context, id, note, actor string, now time.Time) (*market.Lead, error) {
	note, err := market.NormalizeNote(note)
	if err != nil {
		return nil, err
	}

	var out *market.Lead
	err = db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := r.get(ctx, tx, id, true); err != nil {
			return err
		}

		const q = `INSERT INTO lead_notes (lead_id, note, added_by, added_at) VALUES ($1, $2, $3, $4)`
		if _, err := tx.Exec(ctx, q, id, note, actor, now); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE leads SET updated_at = $2 WHERE id = $1`, id, now); err != nil {
			return err
		}
		if err := audit.Insert(ctx, tx, actor, events.EntityLead, id, audit.ActionLeadNoteAdded, map[string]any{"note": note}); err != nil {
			return err
		}

		out, err = r.get(ctx, tx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id, actor string) error {
	return db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
		if err != nil {
			if db.IsInvalidUUID(err) {
				return ErrNotFound
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return audit.Insert(ctx, tx, actor, events.EntityLead, id, audit.ActionLeadDeleted, nil)
	})
}

func (r *Repository) Insert(ctx context.Context, l market.Lead) (*market.Lead, error) {
	if l.Status == "" {
		l.Status = market.LeadNew
	}
	if l.Priority == "" {
		l.Priority = market.PriorityMedium
	}

	const q = `
INSERT INTO leads (full_name, email, phone, service_type, event_date, guest_count, location, message, source, status, priority)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id, created_at, updated_at
`
	if err := r.db.QueryRow(ctx, q,
		l.FullName, l.Email, l.Phone, l.ServiceType, l.EventDate, l.GuestCount, l.Location, l.Message, l.Source, l.Status, l.Priority,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}

	for _, n := range l.Notes {
		const qn = `INSERT INTO lead_notes (lead_id, note, added_by, added_at) VALUES ($1, $2, $3, $4)`
		if _, err := r.db.Exec(ctx, qn, l.ID, n.Note, n.AddedBy, n.AddedAt); err != nil {
			return nil, err
		}
	}
	if l.Notes == nil {
		l.Notes = []market.LeadNote{}
	}
	return &l, nil
}
