// Package repository implements the data access layer for the application.
package repository

import "strings"

// DefaultListLimit is the page size used when a listing request does not
// ask for one. Only this first page is served through the cache.
const DefaultListLimit = 20

func isFirstPage(limit, offset int) bool {
	return offset == 0 && limit == DefaultListLimit
}

// isUniqueConstraintError checks if a DB error is a unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL unique violation SQLSTATE 23505
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "23505")
}

// isForeignKeyError checks if a DB error is a referential integrity violation.
// Callers surface these as retryable conflicts rather than internal errors.
func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	// PostgreSQL foreign key violation SQLSTATE 23503; SQLite phrasing for tests
	return strings.Contains(msg, "foreign key constraint") ||
		strings.Contains(msg, "violates foreign key") ||
		strings.Contains(msg, "23503")
}
