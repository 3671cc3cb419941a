package vigie

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Report represents a single VGP compliance document, imported as one
// atomic unit and identified system-wide by its report number.
type Report struct {
	ID                    uuid.UUID       `json:"id"`
	ReportNumber          string          `json:"reportNumber"`
	ClientID              uuid.UUID       `json:"clientId"`
	Organisme             string          `json:"organisme,omitempty"`
	ClientReference       string          `json:"clientReference,omitempty"`
	Categorie             string          `json:"categorie,omitempty"`
	DateVerification      *time.Time      `json:"dateVerification,omitempty"`
	DateRapport           *time.Time      `json:"dateRapport,omitempty"`
	SignataireNom         string          `json:"signataireNom,omitempty"`
	HasObservations       bool            `json:"hasObservations"`
	PiecesJointes         []string        `json:"piecesJointes,omitempty"`
	AdresseFacturationRaw string          `json:"adresseFacturationRaw,omitempty"`

	// RawPayload retains the original import payload for traceability.
	RawPayload json.RawMessage `json:"rawPayload,omitempty"`

	// ArchiveKey locates the archived payload copy in the archive store;
	// empty when archiving is disabled.
	ArchiveKey string `json:"archiveKey,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReportInspection holds one machine's findings within a report. A report
// section may re-inspect the same physical machine under a different
// section title, so inspections are per-occurrence, never deduplicated.
type ReportInspection struct {
	ID              uuid.UUID       `json:"id"`
	ReportID        uuid.UUID       `json:"reportId"`
	MachineID       uuid.UUID       `json:"machineId"`
	TitreSection    string          `json:"titreSection,omitempty"`
	MissionCode     string          `json:"missionCode,omitempty"`
	TexteReference  string          `json:"texteReference,omitempty"`
	ResultatStatus  ResultStatus    `json:"resultatStatus"`
	ResultatComment string          `json:"resultatComment,omitempty"`
	Particularites  json.RawMessage `json:"particularites,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// ReportObservation is one specific finding noted during an inspection.
// Observations are immutable facts tied to the report snapshot; they are
// only ever created, never edited independently.
type ReportObservation struct {
	ID              uuid.UUID `json:"id"`
	InspectionID    uuid.UUID `json:"inspectionId"`
	Numero          *int      `json:"numero,omitempty"`
	PointDeControle string    `json:"pointDeControle,omitempty"`
	Observation     string    `json:"observation,omitempty"`
	Date1erConstat  string    `json:"date1erConstat,omitempty"`
	Page            *int      `json:"page,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ResultStatus represents the outcome of one machine's inspection.
type ResultStatus string

const (
	ResultStatusOK          ResultStatus = "OK"
	ResultStatusKO          ResultStatus = "KO"
	ResultStatusNotVerified ResultStatus = "NOT_VERIFIED"
	ResultStatusInfoOnly    ResultStatus = "INFO_ONLY"
)

// IsValid returns true if the status is a recognized value.
func (s ResultStatus) IsValid() bool {
	switch s {
	case ResultStatusOK, ResultStatusKO, ResultStatusNotVerified, ResultStatusInfoOnly:
		return true
	}
	return false
}

// ParseResultStatus maps an externally produced status string onto a
// ResultStatus. Source documents are imperfect, so absent or unrecognized
// values fall back to NOT_VERIFIED rather than failing the import.
func ParseResultStatus(s string) ResultStatus {
	status := ResultStatus(s)
	if status.IsValid() {
		return status
	}
	return ResultStatusNotVerified
}

// ReportService defines operations for managing reports and their
// dependent inspections and observations.
type ReportService interface {
	// FindReportByID retrieves a report by its ID.
	// Returns ENOTFOUND if the report does not exist.
	FindReportByID(ctx context.Context, id uuid.UUID) (*Report, error)

	// FindReportByNumber retrieves a report by its unique report number.
	// Returns ENOTFOUND if no report carries the number.
	FindReportByNumber(ctx context.Context, reportNumber string) (*Report, error)

	// FindReports retrieves reports matching the filter criteria.
	// Returns the matching reports and total count.
	FindReports(ctx context.Context, filter ReportFilter) ([]*Report, int, error)

	// CreateReport creates a new report, assigning a fresh ID.
	// Returns ECONFLICT if the report number is already taken; the store's
	// uniqueness constraint is the backstop against racing imports.
	CreateReport(ctx context.Context, report *Report) error

	// UpdateReport patches an existing report.
	// Returns ENOTFOUND if the report does not exist.
	UpdateReport(ctx context.Context, id uuid.UUID, upd ReportUpdate) (*Report, error)

	// DeleteReport deletes a report and cascades over its observations,
	// inspections, and VGP history rows, in that order, within one store
	// transaction. Returns ENOTFOUND if the report does not exist.
	DeleteReport(ctx context.Context, id uuid.UUID) error

	// CreateInspection creates an inspection under a report.
	CreateInspection(ctx context.Context, inspection *ReportInspection) error

	// FindInspections lists a report's inspections in creation order.
	FindInspections(ctx context.Context, reportID uuid.UUID) ([]*ReportInspection, error)

	// CreateObservation creates an observation under an inspection.
	CreateObservation(ctx context.Context, observation *ReportObservation) error

	// FindObservations lists an inspection's observations ordered by
	// ascending numero (which need not be contiguous).
	FindObservations(ctx context.Context, inspectionID uuid.UUID) ([]*ReportObservation, error)
}

// ReportFilter defines criteria for filtering reports.
type ReportFilter struct {
	ID           *uuid.UUID
	ClientID     *uuid.UUID
	ReportNumber *string

	// Pagination
	Offset int
	Limit  int
}

// ReportUpdate defines fields that can be patched on a report.
// Nil pointers leave the stored value untouched.
type ReportUpdate struct {
	HasObservations *bool
	ArchiveKey      *string
}
