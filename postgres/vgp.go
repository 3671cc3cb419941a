package postgres

import (
	"context"
	"strings"

	"github.com/dukerupert/vigie"
)

// Compile-time check that VGPHistoryService implements vigie.VGPHistoryService.
var _ vigie.VGPHistoryService = (*VGPHistoryService)(nil)

// VGPHistoryService implements vigie.VGPHistoryService using PostgreSQL.
type VGPHistoryService struct {
	db *DB
}

func (s *VGPHistoryService) CreateVGPHistory(ctx context.Context, history *vigie.VGPHistory) error {
	row := s.db.pool.QueryRow(ctx, `
		INSERT INTO vgp_history (machine_id, report_id, report_number, date_verification, next_due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		history.MachineID, history.ReportID, history.ReportNumber,
		history.DateVerification, history.NextDueDate)
	if err := row.Scan(&history.ID, &history.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return vigie.NotFound("Machine or report not found")
		}
		return vigie.Internal("Failed to create VGP history", err)
	}
	return nil
}

func (s *VGPHistoryService) FindVGPHistory(ctx context.Context, filter vigie.VGPHistoryFilter) ([]*vigie.VGPHistory, error) {
	query := `
		SELECT id, machine_id, report_id, report_number, date_verification, next_due_date, created_at
		FROM vgp_history`
	var args []any
	var where []string
	if filter.MachineID != nil {
		args = append(args, *filter.MachineID)
		where = append(where, `machine_id = $1`)
	}
	if filter.ReportID != nil {
		args = append(args, *filter.ReportID)
		if len(args) == 1 {
			where = append(where, `report_id = $1`)
		} else {
			where = append(where, `report_id = $2`)
		}
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY date_verification DESC, id`

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, vigie.Internal("Failed to list VGP history", err)
	}
	defer rows.Close()

	var entries []*vigie.VGPHistory
	for rows.Next() {
		var h vigie.VGPHistory
		if err := rows.Scan(&h.ID, &h.MachineID, &h.ReportID, &h.ReportNumber,
			&h.DateVerification, &h.NextDueDate, &h.CreatedAt); err != nil {
			return nil, vigie.Internal("Failed to scan VGP history", err)
		}
		entries = append(entries, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, vigie.Internal("Failed to list VGP history", err)
	}
	return entries, nil
}
