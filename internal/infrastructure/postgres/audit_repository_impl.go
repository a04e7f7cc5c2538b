package postgres

import (
	"context"
	"encoding/json"

	"github.com/oksasatya/passvault/internal/domain/entity"
	"github.com/oksasatya/passvault/internal/domain/repository"
)

type AuditRepository struct {
	q Querier
}

func NewAuditRepository(q Querier) *AuditRepository {
	return &AuditRepository{q: q}
}

func (r *AuditRepository) Insert(ctx context.Context, e entity.AuditEntry) error {
	meta := []byte("{}")
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		meta = b
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO audit_logs (user_id, email, action, ip, user_agent, metadata)
		VALUES (NULLIF($1, '')::uuid, $2, $3, $4, $5, $6)
	`, e.UserID, e.Email, e.Action, e.IP, e.UserAgent, meta)
	return wrapErr(err)
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
