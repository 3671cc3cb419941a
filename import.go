package vigie

import (
	"context"
	"encoding/json"
)

// ImportPayload is the semi-structured document produced by the external
// extraction tool, consumed as-is. Field names mirror the wire contract;
// nothing in it is trusted until the validator has run.
type ImportPayload struct {
	Client   *ImportClient    `json:"client"`
	Site     *ImportSite      `json:"site,omitempty"`
	Report   *ImportReport    `json:"report"`
	Machines []*ImportMachine `json:"machines"`
}

// ImportClient carries the client block of an import payload.
type ImportClient struct {
	Nom              string   `json:"nom"`
	Adresse          string   `json:"adresse"`
	ContactNom       string   `json:"contactNom,omitempty"`
	ContactPrenom    string   `json:"contactPrenom,omitempty"`
	ContactEmail     string   `json:"contactEmail,omitempty"`
	ContactTelephone string   `json:"contactTelephone,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"`
	Longitude        *float64 `json:"longitude,omitempty"`
}

// ImportSite carries the optional, informational-only site block.
type ImportSite struct {
	NomSite   string   `json:"nom_site,omitempty"`
	Adresse   string   `json:"adresse"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// ImportReport carries the report block of an import payload.
type ImportReport struct {
	ReportNumber          string   `json:"report_number"`
	Organisme             string   `json:"organisme,omitempty"`
	ClientReference       string   `json:"client_reference,omitempty"`
	Categorie             string   `json:"categorie,omitempty"`
	DateVerification      string   `json:"date_verification,omitempty"`
	DateRapport           string   `json:"date_rapport,omitempty"`
	SignataireNom         string   `json:"signataire_nom,omitempty"`
	HasObservations       *bool    `json:"has_observations,omitempty"`
	PiecesJointes         []string `json:"pieces_jointes,omitempty"`
	AdresseFacturationRaw string   `json:"adresse_facturation_raw,omitempty"`
	RawTextStored         bool     `json:"raw_text_stored,omitempty"`
}

// ImportMachine carries one machine section of an import payload together
// with its inspection result and nested observations.
type ImportMachine struct {
	TitreSection       string               `json:"titre_section,omitempty"`
	Nature             string               `json:"nature,omitempty"`
	Constructeur       string               `json:"constructeur,omitempty"`
	ReferenceClient    string               `json:"referenceClient,omitempty"`
	Modele             string               `json:"modele,omitempty"`
	Type               string               `json:"type,omitempty"`
	NumeroSerie        string               `json:"numeroSerie,omitempty"`
	Force              string               `json:"force,omitempty"`
	AnneeMiseEnService string               `json:"anneeMiseEnService,omitempty"`
	MissionCode        string               `json:"mission_code,omitempty"`
	TexteReference     string               `json:"texte_reference,omitempty"`
	ResultatStatus     string               `json:"resultat_status,omitempty"`
	ResultatComment    string               `json:"resultat_comment,omitempty"`
	Particularites     json.RawMessage      `json:"particularites,omitempty"`
	Observations       []*ImportObservation `json:"observations,omitempty"`
}

// ImportObservation carries one finding of a machine section. All fields
// are copied verbatim onto the created observation; nulls are allowed.
type ImportObservation struct {
	Numero          *int   `json:"numero,omitempty"`
	PointDeControle string `json:"point_de_controle,omitempty"`
	Observation     string `json:"observation,omitempty"`
	Date1erConstat  string `json:"date_1er_constat,omitempty"`
	Page            *int   `json:"page,omitempty"`
}

// Log entry types, one per entity kind the engine touches.
const (
	LogTypeClient      = "client"
	LogTypeMachine     = "machine"
	LogTypeReport      = "report"
	LogTypeInspection  = "inspection"
	LogTypeObservation = "observation"
	LogTypeVGPHistory  = "vgp_history"
)

// Log entry actions.
const (
	LogActionCreated = "created"
	LogActionUpdated = "updated"
	LogActionSkipped = "skipped"
)

// ImportLog is one ordered audit entry describing a reconciliation
// decision made during an import.
type ImportLog struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Details string `json:"details,omitempty"`
}

// ImportResult is the outcome of a successful import call.
type ImportResult struct {
	ReportID string      `json:"reportId"`
	Logs     []ImportLog `json:"logs"`
}

// ImportService defines the report-import reconciliation operations.
type ImportService interface {
	// ValidatePayload checks structural completeness of a payload without
	// touching the record store. Returns an EINVALID error carrying one of
	// the stable reasons (missing_client, missing_report,
	// missing_report_number, empty_machines), or nil.
	ValidatePayload(payload *ImportPayload) error

	// ImportReport reconciles a payload against existing records. When a
	// report with the same number exists and replaceExisting is false it
	// fails with ECONFLICT/report_already_exists; with replaceExisting true
	// the prior report and its dependents are deleted and recreated from
	// the payload. Client and machine rows are only ever created or
	// updated, never deleted.
	ImportReport(ctx context.Context, payload *ImportPayload, replaceExisting bool) (*ImportResult, error)
}
