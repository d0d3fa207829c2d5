// Package store provides SQLite persistence for job application records.
// It defines the Application row, the calendar Date type used by its date
// columns, and SQLiteStore, a sqlx-backed store running SQLite in WAL mode.
package store
