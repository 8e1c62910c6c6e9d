package entity

import "time"

// AuditLog entrada de auditoría de acciones de negocio (best-effort:
// un fallo al escribirla nunca aborta la transacción que la origina).
type AuditLog struct {
	ID        string
	UserID    string // vacío = sistema
	Action    string // entrada_stock, salida_stock, reservar_stock, ...
	Table     string
	RecordID  string
	Detail    string
	CreatedAt time.Time
}
