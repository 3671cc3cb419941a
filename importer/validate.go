package importer

import (
	"strings"

	"github.com/dukerupert/vigie"
)

// ValidatePayload checks structural completeness of an import payload
// before any mutation. Checks run in order and short-circuit on the first
// failure; no side effects. Also exposed through the API as a dry-run so
// operators can preview rejections before committing to an import.
func (e *Engine) ValidatePayload(payload *vigie.ImportPayload) error {
	if payload == nil {
		return vigie.InvalidReason(vigie.ReasonMissingClient, "Payload is missing a client")
	}
	if payload.Client == nil ||
		strings.TrimSpace(payload.Client.Nom) == "" ||
		strings.TrimSpace(payload.Client.Adresse) == "" {
		return vigie.InvalidReason(vigie.ReasonMissingClient, "Payload is missing a client with nom and adresse")
	}
	if payload.Report == nil {
		return vigie.InvalidReason(vigie.ReasonMissingReport, "Payload is missing a report")
	}
	if strings.TrimSpace(payload.Report.ReportNumber) == "" {
		return vigie.InvalidReason(vigie.ReasonMissingReportNumber, "Payload report is missing a report_number")
	}
	if len(payload.Machines) == 0 {
		return vigie.InvalidReason(vigie.ReasonEmptyMachines, "Payload has no machines")
	}
	return nil
}
