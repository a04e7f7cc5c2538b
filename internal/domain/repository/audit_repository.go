package repository

import (
	"context"

	"github.com/oksasatya/passvault/internal/domain/entity"
)

type AuditRepository interface {
	Insert(ctx context.Context, e entity.AuditEntry) error
}
