package repositories

import (
	"database/sql"
	"errors"
)

// Common repository-level errors.
var (
	ErrNotFound      = errors.New("requested item not found")
	ErrDatabaseError = errors.New("database error")
	ErrDuplicateKey  = errors.New("duplicate key value violates unique constraint")
	ErrForeignKey    = errors.New("referenced row does not exist")
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx so repository methods
// can run inside or outside a transaction decided by the caller.
type SQLExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
