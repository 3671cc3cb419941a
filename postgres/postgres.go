// Package postgres provides PostgreSQL implementations of domain service
// interfaces. It is the authoritative record store the reconciliation
// engine runs against.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukerupert/vigie"
)

// DB wraps the database connection pool and exposes domain services.
type DB struct {
	pool *pgxpool.Pool

	// Domain services (initialized in NewDB)
	ClientService     vigie.ClientService
	MachineService    vigie.MachineService
	ReportService     vigie.ReportService
	VGPHistoryService vigie.VGPHistoryService
}

// NewDB creates a new database wrapper with all services initialized.
func NewDB(pool *pgxpool.Pool) *DB {
	db := &DB{pool: pool}

	db.ClientService = &ClientService{db: db}
	db.MachineService = &MachineService{db: db}
	db.ReportService = &ReportService{db: db}
	db.VGPHistoryService = &VGPHistoryService{db: db}

	return db
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer using service methods.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}

// pgErrorCode returns the server error code carried by err, or the empty
// string when the error did not come back from PostgreSQL.
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation recognizes unique-index failures; the report service
// turns them into report_already_exists conflicts.
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == "23505"
}

// isForeignKeyViolation recognizes writes referencing a missing parent
// row (client, report, machine); services surface them as ENOTFOUND.
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == "23503"
}
