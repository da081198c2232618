// Package access resuelve el conjunto de capacidades de un actor a partir de su rol
// y de su lista opcional de permisos personalizados.
package access

import "strings"

// Permission capacidad elemental sobre los recursos de la API.
type Permission string

const (
	PermCreate Permission = "create"
	PermRead   Permission = "read"
	PermUpdate Permission = "update"
	PermDelete Permission = "delete"
)

// Roles válidos.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// All lista todas las capacidades en orden estable.
var All = []Permission{PermCreate, PermRead, PermUpdate, PermDelete}

// defaultPermissions capacidades de un usuario sin lista personalizada.
var defaultPermissions = []Permission{PermCreate, PermRead}

// Set conjunto de capacidades resuelto para un actor.
type Set map[Permission]struct{}

// Resolve aplica la política: admin → todas; lista personalizada (no nil) → exactamente esa;
// en otro caso → {create, read}. Una lista personalizada vacía no otorga nada.
func Resolve(role string, custom []Permission) Set {
	switch {
	case role == RoleAdmin:
		return newSet(All)
	case custom != nil:
		return newSet(custom)
	default:
		return newSet(defaultPermissions)
	}
}

func newSet(perms []Permission) Set {
	s := make(Set, len(perms))
	for _, p := range perms {
		if p.Valid() {
			s[p] = struct{}{}
		}
	}
	return s
}

// Has indica si el conjunto incluye p.
func (s Set) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

// List devuelve las capacidades en el orden de All.
func (s Set) List() []Permission {
	out := make([]Permission, 0, len(s))
	for _, p := range All {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Valid indica si p es una capacidad conocida.
func (p Permission) Valid() bool {
	switch p {
	case PermCreate, PermRead, PermUpdate, PermDelete:
		return true
	}
	return false
}

// ParseList convierte strings (p.ej. claims JWT) en permisos, ignorando los desconocidos.
// Devuelve nil si raw es nil para conservar la distinción "sin lista personalizada".
func ParseList(raw []string) []Permission {
	if raw == nil {
		return nil
	}
	out := make([]Permission, 0, len(raw))
	for _, r := range raw {
		p := Permission(strings.ToLower(strings.TrimSpace(r)))
		if p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

// Strings convierte permisos a []string (para claims y respuestas JSON).
func Strings(perms []Permission) []string {
	if perms == nil {
		return nil
	}
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}

// Actor contexto explícito de quien ejecuta una operación (usuario autenticado).
type Actor struct {
	UserID      string
	Username    string
	Role        string
	Permissions Set
}

// Can indica si el actor tiene la capacidad p.
func (a Actor) Can(p Permission) bool {
	return a.Permissions.Has(p)
}
