package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/retail-ops/internal/domain/entity"
	"github.com/tu-usuario/retail-ops/internal/domain/repository"
)

var _ repository.AuditLogRepository = (*AuditLogRepo)(nil)

// AuditLogRepo persiste la bitácora de auditoría. Se construye SIEMPRE sobre
// el pool, nunca sobre una tx: un insert fallido dentro de la transacción de
// negocio la abortaría, y la auditoría es best-effort.
type AuditLogRepo struct {
	q Querier
}

// NewAuditLogRepository construye el adaptador de auditoría (pasar el pool).
func NewAuditLogRepository(q Querier) *AuditLogRepo {
	return &AuditLogRepo{q: q}
}

// Create inserta una entrada de auditoría.
func (r *AuditLogRepo) Create(a *entity.AuditLog) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, table_name, record_id, detail, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.UserID, a.Action, a.Table, a.RecordID, a.Detail, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
