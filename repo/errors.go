package repo

import "strings"

// Constraint classification for errors surfaced by the embedded engine.
// The SQLite driver exposes no structured error codes for these, so
// classification falls back to message matching.

// IsUniqueConstraint reports whether the error resulted from a uniqueness
// constraint violation.
func IsUniqueConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyConstraint reports whether the error resulted from a
// foreign-key constraint violation.
func IsForeignKeyConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsCheckConstraint reports whether the error resulted from a check
// constraint violation.
func IsCheckConstraint(err error) bool {
	return err != nil && strings.Contains(err.Error(), "CHECK constraint failed")
}

// IsConstraint reports whether the error resulted from any constraint
// violation.
func IsConstraint(err error) bool {
	return IsUniqueConstraint(err) || IsForeignKeyConstraint(err) || IsCheckConstraint(err)
}
