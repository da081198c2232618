package entity

import (
	"time"

	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
)

// User representa un usuario del sistema.
// CustomPermissions nil significa "sin lista personalizada" (aplica la política por rol).
type User struct {
	ID                string
	Username          string
	PasswordHash      string // bcrypt hash, nunca plano en dominio después de persistir
	Role              string // admin, user
	CustomPermissions []access.Permission
	CreatedAt         time.Time
}

// Permissions resuelve el conjunto de capacidades del usuario.
func (u *User) Permissions() access.Set {
	return access.Resolve(u.Role, u.CustomPermissions)
}
