package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/vigie"
)

// ImportReport reconciles one payload against the record store. The walk
// is client, then report, then machines with their inspections and
// observations, and finally the has_observations recompute. It is a single
// synchronous operation; there is no internal parallelism and no retry.
func (e *Engine) ImportReport(ctx context.Context, payload *vigie.ImportPayload, replaceExisting bool) (*vigie.ImportResult, error) {
	if err := e.ValidatePayload(payload); err != nil {
		importsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	reportNumber := strings.TrimSpace(payload.Report.ReportNumber)
	logger := e.logger.With(slog.String("report_number", reportNumber))

	// Resolve the report first: the conflict path must run before any
	// mutation so a rejected import leaves no state change.
	existing, err := e.resolveReport(ctx, reportNumber)
	if err != nil {
		importsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	var logs []vigie.ImportLog
	replaced := false
	if existing != nil {
		if !replaceExisting {
			importsTotal.WithLabelValues("conflict").Inc()
			return nil, vigie.ReportExists(reportNumber)
		}
		// Conflict policy: cascade-delete the prior report, then continue
		// as a create. The store runs the cascade in one transaction, but
		// the delete+recreate boundary itself is not transactional; a
		// recreate failure past this point leaves the old rows gone.
		if err := e.reports.DeleteReport(ctx, existing.ID); err != nil {
			importsTotal.WithLabelValues("error").Inc()
			return nil, err
		}
		logs = append(logs, vigie.ImportLog{
			Type:    vigie.LogTypeReport,
			Action:  vigie.LogActionUpdated,
			ID:      existing.ID.String(),
			Name:    reportNumber,
			Details: "replaced existing report",
		})
		replaced = true
		logger.Info("existing report deleted for replace", slog.String("report_id", existing.ID.String()))
	}

	result, err := e.reconcile(ctx, logger, payload, reportNumber, &logs)
	if err != nil {
		if replaced {
			logger.Error("recreate failed after replace delete; report left partial",
				slog.String("error", err.Error()))
			importsTotal.WithLabelValues("error").Inc()
			return nil, vigie.ReplaceIncomplete(reportNumber, err)
		}
		importsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if replaced {
		importsTotal.WithLabelValues("replaced").Inc()
	} else {
		importsTotal.WithLabelValues("created").Inc()
	}
	return result, nil
}

// reconcile performs the create walk shared by the create and replace
// paths. Logs accumulate into *logs so the replace entry stays first.
func (e *Engine) reconcile(ctx context.Context, logger *slog.Logger, payload *vigie.ImportPayload, reportNumber string, logs *[]vigie.ImportLog) (*vigie.ImportResult, error) {
	client, err := e.upsertClient(ctx, payload, logs)
	if err != nil {
		return nil, err
	}

	report, err := e.createReport(ctx, payload, reportNumber, client.ID)
	if err != nil {
		return nil, err
	}
	*logs = append(*logs, vigie.ImportLog{
		Type:   vigie.LogTypeReport,
		Action: vigie.LogActionCreated,
		ID:     report.ID.String(),
		Name:   reportNumber,
	})

	dateVerification := parseDate(payload.Report.DateVerification)
	observationCount := 0
	historySeen := make(map[uuid.UUID]bool)

	for _, entry := range payload.Machines {
		machine, err := e.upsertMachine(ctx, client.ID, entry, logs)
		if err != nil {
			return nil, err
		}

		inspection := &vigie.ReportInspection{
			ReportID:        report.ID,
			MachineID:       machine.ID,
			TitreSection:    entry.TitreSection,
			MissionCode:     entry.MissionCode,
			TexteReference:  entry.TexteReference,
			ResultatStatus:  vigie.ParseResultStatus(entry.ResultatStatus),
			ResultatComment: entry.ResultatComment,
			Particularites:  entry.Particularites,
		}
		if err := e.reports.CreateInspection(ctx, inspection); err != nil {
			return nil, err
		}
		*logs = append(*logs, vigie.ImportLog{
			Type:   vigie.LogTypeInspection,
			Action: vigie.LogActionCreated,
			ID:     inspection.ID.String(),
			Name:   entry.TitreSection,
		})

		// Observations are immutable facts tied to this report snapshot;
		// they are always appended fresh, never updated.
		for _, obs := range entry.Observations {
			observation := &vigie.ReportObservation{
				InspectionID:    inspection.ID,
				Numero:          obs.Numero,
				PointDeControle: obs.PointDeControle,
				Observation:     obs.Observation,
				Date1erConstat:  obs.Date1erConstat,
				Page:            obs.Page,
			}
			if err := e.reports.CreateObservation(ctx, observation); err != nil {
				return nil, err
			}
			*logs = append(*logs, vigie.ImportLog{
				Type:   vigie.LogTypeObservation,
				Action: vigie.LogActionCreated,
				ID:     observation.ID.String(),
				Name:   obs.PointDeControle,
			})
			observationCount++
		}

		// One history row per distinct machine per import; duplicate
		// sections of the same machine don't repeat the verification.
		if dateVerification != nil && !historySeen[machine.ID] {
			historySeen[machine.ID] = true
			history := &vigie.VGPHistory{
				MachineID:        machine.ID,
				ReportID:         report.ID,
				ReportNumber:     reportNumber,
				DateVerification: *dateVerification,
				NextDueDate:      dateVerification.Add(machine.TypeMachine.VerificationPeriod()),
			}
			if err := e.history.CreateVGPHistory(ctx, history); err != nil {
				return nil, err
			}
			*logs = append(*logs, vigie.ImportLog{
				Type:   vigie.LogTypeVGPHistory,
				Action: vigie.LogActionCreated,
				ID:     history.ID.String(),
				Name:   machine.NumeroSerie,
			})
		}
	}

	// has_observations is never trusted from input; recompute and patch.
	hasObservations := observationCount > 0
	upd := vigie.ReportUpdate{HasObservations: &hasObservations}
	if key := e.archivePayload(ctx, logger, payload, reportNumber); key != "" {
		upd.ArchiveKey = &key
	}
	if _, err := e.reports.UpdateReport(ctx, report.ID, upd); err != nil {
		return nil, err
	}

	logger.Info("report imported",
		slog.String("report_id", report.ID.String()),
		slog.Int("machines", len(payload.Machines)),
		slog.Int("observations", observationCount),
	)

	return &vigie.ImportResult{ReportID: report.ID.String(), Logs: *logs}, nil
}

// upsertClient resolves the payload's client and either updates changed
// fields or creates a fresh row, logging the decision.
func (e *Engine) upsertClient(ctx context.Context, payload *vigie.ImportPayload, logs *[]vigie.ImportLog) (*vigie.Client, error) {
	existing, err := e.resolveClient(ctx, payload.Client)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		client := clientFromPayload(payload.Client, payload.Site)
		if err := e.clients.CreateClient(ctx, client); err != nil {
			return nil, err
		}
		*logs = append(*logs, vigie.ImportLog{
			Type:   vigie.LogTypeClient,
			Action: vigie.LogActionCreated,
			ID:     client.ID.String(),
			Name:   client.Nom,
		})
		return client, nil
	}

	upd := clientUpdateFrom(existing, payload.Client, payload.Site)
	if upd.IsZero() {
		*logs = append(*logs, vigie.ImportLog{
			Type:   vigie.LogTypeClient,
			Action: vigie.LogActionSkipped,
			ID:     existing.ID.String(),
			Name:   existing.Nom,
		})
		return existing, nil
	}

	updated, err := e.clients.UpdateClient(ctx, existing.ID, upd)
	if err != nil {
		return nil, err
	}
	*logs = append(*logs, vigie.ImportLog{
		Type:   vigie.LogTypeClient,
		Action: vigie.LogActionUpdated,
		ID:     updated.ID.String(),
		Name:   updated.Nom,
	})
	return updated, nil
}

// upsertMachine resolves one machine entry under the client and either
// updates changed descriptive fields or creates a fresh row.
func (e *Engine) upsertMachine(ctx context.Context, clientID uuid.UUID, entry *vigie.ImportMachine, logs *[]vigie.ImportLog) (*vigie.Machine, error) {
	existing, err := e.resolveMachine(ctx, clientID, entry)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		machine := machineFromPayload(clientID, entry)
		if err := e.machines.CreateMachine(ctx, machine); err != nil {
			return nil, err
		}
		*logs = append(*logs, vigie.ImportLog{
			Type:   vigie.LogTypeMachine,
			Action: vigie.LogActionCreated,
			ID:     machine.ID.String(),
			Name:   machineLabel(machine),
		})
		return machine, nil
	}

	upd := machineUpdateFrom(existing, entry)
	if upd.IsZero() {
		*logs = append(*logs, vigie.ImportLog{
			Type:   vigie.LogTypeMachine,
			Action: vigie.LogActionSkipped,
			ID:     existing.ID.String(),
			Name:   machineLabel(existing),
		})
		return existing, nil
	}

	updated, err := e.machines.UpdateMachine(ctx, existing.ID, upd)
	if err != nil {
		return nil, err
	}
	*logs = append(*logs, vigie.ImportLog{
		Type:   vigie.LogTypeMachine,
		Action: vigie.LogActionUpdated,
		ID:     updated.ID.String(),
		Name:   machineLabel(updated),
	})
	return updated, nil
}

// createReport builds and stores the report row. has_observations starts
// false and is patched after the machine walk.
func (e *Engine) createReport(ctx context.Context, payload *vigie.ImportPayload, reportNumber string, clientID uuid.UUID) (*vigie.Report, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, vigie.Internal("Failed to serialize import payload", err)
	}

	report := &vigie.Report{
		ReportNumber:          reportNumber,
		ClientID:              clientID,
		Organisme:             payload.Report.Organisme,
		ClientReference:       payload.Report.ClientReference,
		Categorie:             payload.Report.Categorie,
		DateVerification:      parseDate(payload.Report.DateVerification),
		DateRapport:           parseDate(payload.Report.DateRapport),
		SignataireNom:         payload.Report.SignataireNom,
		HasObservations:       false,
		PiecesJointes:         payload.Report.PiecesJointes,
		AdresseFacturationRaw: payload.Report.AdresseFacturationRaw,
		RawPayload:            raw,
	}
	if err := e.reports.CreateReport(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// archivePayload writes the raw payload to the archive store for
// traceability. Failures are logged and swallowed; archiving never aborts
// an import. Returns the archive key, or empty when skipped or failed.
func (e *Engine) archivePayload(ctx context.Context, logger *slog.Logger, payload *vigie.ImportPayload, reportNumber string) string {
	if e.archive == nil {
		return ""
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	key := fmt.Sprintf("imports/%s/%s.json", reportNumber, uuid.New().String())
	if _, err := e.archive.Put(ctx, key, bytes.NewReader(raw), "application/json"); err != nil {
		logger.Warn("payload archive failed", slog.String("error", err.Error()))
		return ""
	}
	return key
}

func clientFromPayload(c *vigie.ImportClient, site *vigie.ImportSite) *vigie.Client {
	client := &vigie.Client{
		Nom:              strings.TrimSpace(c.Nom),
		Adresse:          strings.TrimSpace(c.Adresse),
		ContactNom:       c.ContactNom,
		ContactPrenom:    c.ContactPrenom,
		ContactEmail:     c.ContactEmail,
		ContactTelephone: c.ContactTelephone,
		Latitude:         c.Latitude,
		Longitude:        c.Longitude,
	}
	if site != nil {
		client.NomSite = site.NomSite
		if client.Latitude == nil {
			client.Latitude = site.Latitude
		}
		if client.Longitude == nil {
			client.Longitude = site.Longitude
		}
	}
	return client
}

// clientUpdateFrom diffs payload values against the stored client. Only
// non-empty payload fields are considered; an import never blanks data
// entered by hand.
func clientUpdateFrom(existing *vigie.Client, c *vigie.ImportClient, site *vigie.ImportSite) vigie.ClientUpdate {
	var upd vigie.ClientUpdate
	setString(&upd.ContactNom, existing.ContactNom, c.ContactNom)
	setString(&upd.ContactPrenom, existing.ContactPrenom, c.ContactPrenom)
	setString(&upd.ContactEmail, existing.ContactEmail, c.ContactEmail)
	setString(&upd.ContactTelephone, existing.ContactTelephone, c.ContactTelephone)
	setFloat(&upd.Latitude, existing.Latitude, c.Latitude)
	setFloat(&upd.Longitude, existing.Longitude, c.Longitude)
	if site != nil {
		setString(&upd.NomSite, existing.NomSite, site.NomSite)
		if upd.Latitude == nil {
			setFloat(&upd.Latitude, existing.Latitude, site.Latitude)
		}
		if upd.Longitude == nil {
			setFloat(&upd.Longitude, existing.Longitude, site.Longitude)
		}
	}
	return upd
}

func machineFromPayload(clientID uuid.UUID, entry *vigie.ImportMachine) *vigie.Machine {
	return &vigie.Machine{
		ClientID:           clientID,
		TypeMachine:        vigie.MachineTypeFromNature(entry.Nature, entry.Type),
		Nature:             entry.Nature,
		Constructeur:       strings.TrimSpace(entry.Constructeur),
		Modele:             strings.TrimSpace(entry.Modele),
		Type:               entry.Type,
		NumeroSerie:        strings.TrimSpace(entry.NumeroSerie),
		Force:              entry.Force,
		AnneeMiseEnService: entry.AnneeMiseEnService,
		ReferenceClient:    strings.TrimSpace(entry.ReferenceClient),
	}
}

// machineUpdateFrom diffs the descriptive fields an import may refresh:
// constructeur, modele, force, anneeMiseEnService, referenceClient.
func machineUpdateFrom(existing *vigie.Machine, entry *vigie.ImportMachine) vigie.MachineUpdate {
	var upd vigie.MachineUpdate
	setStringTrimmed(&upd.Constructeur, existing.Constructeur, entry.Constructeur)
	setStringTrimmed(&upd.Modele, existing.Modele, entry.Modele)
	setString(&upd.Force, existing.Force, entry.Force)
	setString(&upd.AnneeMiseEnService, existing.AnneeMiseEnService, entry.AnneeMiseEnService)
	setStringTrimmed(&upd.ReferenceClient, existing.ReferenceClient, entry.ReferenceClient)
	return upd
}

func machineLabel(m *vigie.Machine) string {
	if m.NumeroSerie != "" {
		return m.NumeroSerie
	}
	return strings.TrimSpace(m.Constructeur + " " + m.Modele)
}

func setString(dst **string, current, incoming string) {
	if incoming != "" && incoming != current {
		*dst = &incoming
	}
}

func setStringTrimmed(dst **string, current, incoming string) {
	trimmed := strings.TrimSpace(incoming)
	if trimmed != "" && trimmed != strings.TrimSpace(current) {
		*dst = &trimmed
	}
}

func setFloat(dst **float64, current, incoming *float64) {
	if incoming != nil && (current == nil || *current != *incoming) {
		*dst = incoming
	}
}

// dateLayouts are tried in order against externally produced date strings.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
}

// parseDate parses a payload date, returning nil on empty or unparseable
// input. Imperfect source dates never abort an import.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
