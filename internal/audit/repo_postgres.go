package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo persists auth events.
//
// Assumes table auth_events:
//
//	id, type, company_id, actor_user_id, actor_email, session_id,
//	ip_address, message, created_at
//
// with an INSERT-only policy (optionally a trigger preventing UPDATE/DELETE).
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
INSERT INTO auth_events (
  id, type, company_id, actor_user_id, actor_email, session_id, ip_address, message, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.Type,
		e.CompanyID,
		e.ActorUserID,
		e.ActorEmail,
		e.SessionID,
		e.IPAddress,
		e.Message,
		e.CreatedAt,
	)
	return err
}
