// Package audit records import runs for compliance traceability. Every
// import call, successful or not, leaves one append-only row with its
// reconciliation log.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukerupert/vigie"
)

// Recorder writes import audit entries. Recording must never block or fail
// an import; errors fall back to the logger.
type Recorder struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewRecorder creates an import audit recorder.
func NewRecorder(db *pgxpool.Pool, logger *slog.Logger) *Recorder {
	return &Recorder{
		db:     db,
		logger: logger,
	}
}

// Entry is one import run.
type Entry struct {
	ReportNumber string
	Outcome      string // "imported", "replaced", "rejected", "conflict", "failed"
	Operator     string
	RequestID    string
	Logs         []vigie.ImportLog
}

// Record persists an audit entry asynchronously. A short independent
// timeout bounds the write; on failure the entry is logged instead.
func (r *Recorder) Record(entry Entry) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		logs, err := json.Marshal(entry.Logs)
		if err != nil {
			logs = []byte("[]")
		}

		_, err = r.db.Exec(ctx, `
			INSERT INTO import_audit (report_number, outcome, operator, request_id, logs)
			VALUES ($1, $2, $3, $4, $5)`,
			entry.ReportNumber, entry.Outcome, entry.Operator, entry.RequestID, logs)
		if err != nil {
			r.logger.Error("failed to record import audit entry",
				slog.String("report_number", entry.ReportNumber),
				slog.String("outcome", entry.Outcome),
				slog.String("error", err.Error()),
			)
		}
	}()
}
