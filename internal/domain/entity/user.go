package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin        = "admin"
	RoleFarmaceutico = "farmaceutico"
	RoleAuditoria    = "auditoria"
)

// User representa a un miembro del personal con acceso al núcleo de farmacia.
// Su ID queda como responsable en cada asiento del kardex.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	Name         string
	Role         string // admin, farmaceutico, auditoria
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
