package repository

import (
	"context"

	"github.com/datalization1/roberts-lackwerk/internal/domain/entity"
)

// AuditRepository define el puerto de la pista de auditoría (solo inserción).
type AuditRepository interface {
	Create(ctx context.Context, entry *entity.AuditEntry) error
	ListByObject(ctx context.Context, objectID string, limit, offset int) ([]*entity.AuditEntry, error)
}
