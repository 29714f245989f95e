// Package postgres provides PostgreSQL implementations of the storage
// interfaces defined in internal/store, together with the embedded goose
// migrations for their schema. Driver errors are translated to store errors
// by MapError so callers never depend on pgx types.
package postgres
