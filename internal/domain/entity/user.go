package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleDeposito = "deposito"
	RoleVendedor = "vendedor"
)

// User representa un usuario interno del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, deposito, vendedor
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
