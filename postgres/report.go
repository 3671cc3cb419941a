package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dukerupert/vigie"
)

// Compile-time check that ReportService implements vigie.ReportService.
var _ vigie.ReportService = (*ReportService)(nil)

// ReportService implements vigie.ReportService using PostgreSQL. Reports
// carry a unique index on report_number; that constraint is the backstop
// against two imports of the same number racing between resolve and create.
type ReportService struct {
	db *DB
}

const reportColumns = `id, report_number, client_id, organisme, client_reference,
	categorie, date_verification, date_rapport, signataire_nom, has_observations,
	pieces_jointes, adresse_facturation_raw, raw_payload, archive_key,
	created_at, updated_at`

func scanReport(row pgx.Row) (*vigie.Report, error) {
	var r vigie.Report
	err := row.Scan(&r.ID, &r.ReportNumber, &r.ClientID, &r.Organisme, &r.ClientReference,
		&r.Categorie, &r.DateVerification, &r.DateRapport, &r.SignataireNom, &r.HasObservations,
		&r.PiecesJointes, &r.AdresseFacturationRaw, &r.RawPayload, &r.ArchiveKey,
		&r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *ReportService) FindReportByID(ctx context.Context, id uuid.UUID) (*vigie.Report, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vigie.NotFound("Report not found")
		}
		return nil, vigie.Internal("Failed to fetch report", err)
	}
	return report, nil
}

func (s *ReportService) FindReportByNumber(ctx context.Context, reportNumber string) (*vigie.Report, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE report_number = $1`, strings.TrimSpace(reportNumber))
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vigie.NotFound("Report %q not found", reportNumber)
		}
		return nil, vigie.Internal("Failed to fetch report by number", err)
	}
	return report, nil
}

func (s *ReportService) FindReports(ctx context.Context, filter vigie.ReportFilter) ([]*vigie.Report, int, error) {
	query := `SELECT ` + reportColumns + ` FROM reports`
	var args []any
	var where []string
	if filter.ID != nil {
		args = append(args, *filter.ID)
		where = append(where, `id = $1`)
	}
	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		if len(args) == 1 {
			where = append(where, `client_id = $1`)
		} else {
			where = append(where, `client_id = $2`)
		}
	}
	if filter.ReportNumber != nil {
		args = append(args, strings.TrimSpace(*filter.ReportNumber))
		switch len(args) {
		case 1:
			where = append(where, `report_number = $1`)
		case 2:
			where = append(where, `report_number = $2`)
		default:
			where = append(where, `report_number = $3`)
		}
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id`

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, vigie.Internal("Failed to list reports", err)
	}
	defer rows.Close()

	var reports []*vigie.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, 0, vigie.Internal("Failed to scan report", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, vigie.Internal("Failed to list reports", err)
	}

	total := len(reports)
	reports = paginate(reports, filter.Offset, filter.Limit)
	return reports, total, nil
}

func (s *ReportService) CreateReport(ctx context.Context, report *vigie.Report) error {
	pieces := report.PiecesJointes
	if pieces == nil {
		pieces = []string{}
	}
	row := s.db.pool.QueryRow(ctx, `
		INSERT INTO reports (report_number, client_id, organisme, client_reference,
			categorie, date_verification, date_rapport, signataire_nom, has_observations,
			pieces_jointes, adresse_facturation_raw, raw_payload, archive_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		report.ReportNumber, report.ClientID, report.Organisme, report.ClientReference,
		report.Categorie, report.DateVerification, report.DateRapport, report.SignataireNom,
		report.HasObservations, pieces, report.AdresseFacturationRaw, report.RawPayload,
		report.ArchiveKey)
	if err := row.Scan(&report.ID, &report.CreatedAt, &report.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return vigie.ReportExists(report.ReportNumber)
		}
		if isForeignKeyViolation(err) {
			return vigie.NotFound("Client not found")
		}
		return vigie.Internal("Failed to create report", err)
	}
	return nil
}

func (s *ReportService) UpdateReport(ctx context.Context, id uuid.UUID, upd vigie.ReportUpdate) (*vigie.Report, error) {
	current, err := s.FindReportByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.HasObservations != nil {
		current.HasObservations = *upd.HasObservations
	}
	if upd.ArchiveKey != nil {
		current.ArchiveKey = *upd.ArchiveKey
	}

	row := s.db.pool.QueryRow(ctx, `
		UPDATE reports SET has_observations = $2, archive_key = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		id, current.HasObservations, current.ArchiveKey)
	if err := row.Scan(&current.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, vigie.NotFound("Report not found")
		}
		return nil, vigie.Internal("Failed to update report", err)
	}
	return current, nil
}

// DeleteReport removes a report and its dependents: observations first,
// then inspections, then VGP history, then the report row. The whole
// cascade runs in one transaction so a replace never leaves half a delete.
func (s *ReportService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return vigie.Internal("Failed to begin delete transaction", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM report_observations
		WHERE inspection_id IN (SELECT id FROM report_inspections WHERE report_id = $1)`, id); err != nil {
		return vigie.Internal("Failed to delete report observations", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM report_inspections WHERE report_id = $1`, id); err != nil {
		return vigie.Internal("Failed to delete report inspections", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM vgp_history WHERE report_id = $1`, id); err != nil {
		return vigie.Internal("Failed to delete report history", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return vigie.Internal("Failed to delete report", err)
	}
	if tag.RowsAffected() == 0 {
		return vigie.NotFound("Report not found")
	}

	if err := tx.Commit(ctx); err != nil {
		return vigie.Internal("Failed to commit delete transaction", err)
	}
	return nil
}

func (s *ReportService) CreateInspection(ctx context.Context, inspection *vigie.ReportInspection) error {
	if !inspection.ResultatStatus.IsValid() {
		inspection.ResultatStatus = vigie.ResultStatusNotVerified
	}
	row := s.db.pool.QueryRow(ctx, `
		INSERT INTO report_inspections (report_id, machine_id, titre_section, mission_code,
			texte_reference, resultat_status, resultat_comment, particularites)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		inspection.ReportID, inspection.MachineID, inspection.TitreSection, inspection.MissionCode,
		inspection.TexteReference, inspection.ResultatStatus, inspection.ResultatComment,
		inspection.Particularites)
	if err := row.Scan(&inspection.ID, &inspection.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return vigie.NotFound("Report or machine not found")
		}
		return vigie.Internal("Failed to create inspection", err)
	}
	return nil
}

func (s *ReportService) FindInspections(ctx context.Context, reportID uuid.UUID) ([]*vigie.ReportInspection, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT id, report_id, machine_id, titre_section, mission_code, texte_reference,
			resultat_status, resultat_comment, particularites, created_at
		FROM report_inspections WHERE report_id = $1
		ORDER BY created_at, id`, reportID)
	if err != nil {
		return nil, vigie.Internal("Failed to list inspections", err)
	}
	defer rows.Close()

	var inspections []*vigie.ReportInspection
	for rows.Next() {
		var i vigie.ReportInspection
		if err := rows.Scan(&i.ID, &i.ReportID, &i.MachineID, &i.TitreSection, &i.MissionCode,
			&i.TexteReference, &i.ResultatStatus, &i.ResultatComment, &i.Particularites,
			&i.CreatedAt); err != nil {
			return nil, vigie.Internal("Failed to scan inspection", err)
		}
		inspections = append(inspections, &i)
	}
	if err := rows.Err(); err != nil {
		return nil, vigie.Internal("Failed to list inspections", err)
	}
	return inspections, nil
}

func (s *ReportService) CreateObservation(ctx context.Context, observation *vigie.ReportObservation) error {
	row := s.db.pool.QueryRow(ctx, `
		INSERT INTO report_observations (inspection_id, numero, point_de_controle,
			observation, date_1er_constat, page)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		observation.InspectionID, observation.Numero, observation.PointDeControle,
		observation.Observation, observation.Date1erConstat, observation.Page)
	if err := row.Scan(&observation.ID, &observation.CreatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return vigie.NotFound("Inspection not found")
		}
		return vigie.Internal("Failed to create observation", err)
	}
	return nil
}

func (s *ReportService) FindObservations(ctx context.Context, inspectionID uuid.UUID) ([]*vigie.ReportObservation, error) {
	rows, err := s.db.pool.Query(ctx, `
		SELECT id, inspection_id, numero, point_de_controle, observation,
			date_1er_constat, page, created_at
		FROM report_observations WHERE inspection_id = $1
		ORDER BY numero NULLS LAST, created_at, id`, inspectionID)
	if err != nil {
		return nil, vigie.Internal("Failed to list observations", err)
	}
	defer rows.Close()

	var observations []*vigie.ReportObservation
	for rows.Next() {
		var o vigie.ReportObservation
		if err := rows.Scan(&o.ID, &o.InspectionID, &o.Numero, &o.PointDeControle,
			&o.Observation, &o.Date1erConstat, &o.Page, &o.CreatedAt); err != nil {
			return nil, vigie.Internal("Failed to scan observation", err)
		}
		observations = append(observations, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, vigie.Internal("Failed to list observations", err)
	}
	return observations, nil
}
