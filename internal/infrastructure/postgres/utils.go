package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isForeignKeyViolation verifica si un error es una violación de foreign key (23503),
// p.ej. borrar un cliente con citas (ON DELETE RESTRICT).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503")
}

// isInvalidText id con formato no UUID (22P02); los getters lo tratan como inexistente.
func isInvalidText(err error) bool {
	return hasCode(err, "22P02")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), code)
}

// nullable convierte "" en NULL para columnas opcionales.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref inverso de nullable.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
