package importer

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/vigie"
	"github.com/dukerupert/vigie/mock"
)

// memStore is an in-memory record store backing the mock services, so
// engine tests can assert on real reconciliation outcomes.
type memStore struct {
	clients      []*vigie.Client
	machines     []*vigie.Machine
	reports      []*vigie.Report
	inspections  []*vigie.ReportInspection
	observations []*vigie.ReportObservation
	history      []*vigie.VGPHistory

	// failCreateReport makes the next CreateReport fail, for exercising
	// the replace failure path.
	failCreateReport bool
}

func newTestEngine(store *memStore) *Engine {
	clients := &mock.ClientService{
		FindClientByKeyFn: func(ctx context.Context, nom, adresse string) (*vigie.Client, error) {
			nomKey, adresseKey := vigie.NormalizeKey(nom), vigie.NormalizeKey(adresse)
			for _, c := range store.clients {
				cn, ca := c.NaturalKey()
				if cn == nomKey && ca == adresseKey {
					return c, nil
				}
			}
			return nil, vigie.NotFound("Client not found")
		},
		CreateClientFn: func(ctx context.Context, client *vigie.Client) error {
			client.ID = uuid.New()
			client.CreatedAt = time.Now()
			client.UpdatedAt = time.Now()
			store.clients = append(store.clients, client)
			return nil
		},
		UpdateClientFn: func(ctx context.Context, id uuid.UUID, upd vigie.ClientUpdate) (*vigie.Client, error) {
			for _, c := range store.clients {
				if c.ID != id {
					continue
				}
				if upd.ContactNom != nil {
					c.ContactNom = *upd.ContactNom
				}
				if upd.ContactEmail != nil {
					c.ContactEmail = *upd.ContactEmail
				}
				if upd.ContactTelephone != nil {
					c.ContactTelephone = *upd.ContactTelephone
				}
				if upd.NomSite != nil {
					c.NomSite = *upd.NomSite
				}
				if upd.Latitude != nil {
					c.Latitude = upd.Latitude
				}
				if upd.Longitude != nil {
					c.Longitude = upd.Longitude
				}
				c.UpdatedAt = time.Now()
				return c, nil
			}
			return nil, vigie.NotFound("Client not found")
		},
	}

	machines := &mock.MachineService{
		FindMachinesFn: func(ctx context.Context, filter vigie.MachineFilter) ([]*vigie.Machine, int, error) {
			var out []*vigie.Machine
			for _, m := range store.machines {
				if filter.ClientID != nil && m.ClientID != *filter.ClientID {
					continue
				}
				out = append(out, m)
			}
			return out, len(out), nil
		},
		CreateMachineFn: func(ctx context.Context, machine *vigie.Machine) error {
			machine.ID = uuid.New()
			machine.CreatedAt = time.Now()
			machine.UpdatedAt = time.Now()
			store.machines = append(store.machines, machine)
			return nil
		},
		UpdateMachineFn: func(ctx context.Context, id uuid.UUID, upd vigie.MachineUpdate) (*vigie.Machine, error) {
			for _, m := range store.machines {
				if m.ID != id {
					continue
				}
				if upd.Constructeur != nil {
					m.Constructeur = *upd.Constructeur
				}
				if upd.Modele != nil {
					m.Modele = *upd.Modele
				}
				if upd.Force != nil {
					m.Force = *upd.Force
				}
				if upd.AnneeMiseEnService != nil {
					m.AnneeMiseEnService = *upd.AnneeMiseEnService
				}
				if upd.ReferenceClient != nil {
					m.ReferenceClient = *upd.ReferenceClient
				}
				m.UpdatedAt = time.Now()
				return m, nil
			}
			return nil, vigie.NotFound("Machine not found")
		},
	}

	reports := &mock.ReportService{
		FindReportByNumberFn: func(ctx context.Context, reportNumber string) (*vigie.Report, error) {
			for _, r := range store.reports {
				if r.ReportNumber == reportNumber {
					return r, nil
				}
			}
			return nil, vigie.NotFound("Report not found")
		},
		CreateReportFn: func(ctx context.Context, report *vigie.Report) error {
			if store.failCreateReport {
				store.failCreateReport = false
				return vigie.Internal("store unavailable", nil)
			}
			for _, r := range store.reports {
				if r.ReportNumber == report.ReportNumber {
					return vigie.ReportExists(report.ReportNumber)
				}
			}
			report.ID = uuid.New()
			report.CreatedAt = time.Now()
			report.UpdatedAt = time.Now()
			store.reports = append(store.reports, report)
			return nil
		},
		UpdateReportFn: func(ctx context.Context, id uuid.UUID, upd vigie.ReportUpdate) (*vigie.Report, error) {
			for _, r := range store.reports {
				if r.ID != id {
					continue
				}
				if upd.HasObservations != nil {
					r.HasObservations = *upd.HasObservations
				}
				if upd.ArchiveKey != nil {
					r.ArchiveKey = *upd.ArchiveKey
				}
				r.UpdatedAt = time.Now()
				return r, nil
			}
			return nil, vigie.NotFound("Report not found")
		},
		DeleteReportFn: func(ctx context.Context, id uuid.UUID) error {
			var kept []*vigie.Report
			found := false
			for _, r := range store.reports {
				if r.ID == id {
					found = true
					continue
				}
				kept = append(kept, r)
			}
			if !found {
				return vigie.NotFound("Report not found")
			}
			store.reports = kept

			inspectionIDs := make(map[uuid.UUID]bool)
			var keptInspections []*vigie.ReportInspection
			for _, ins := range store.inspections {
				if ins.ReportID == id {
					inspectionIDs[ins.ID] = true
					continue
				}
				keptInspections = append(keptInspections, ins)
			}
			store.inspections = keptInspections

			var keptObservations []*vigie.ReportObservation
			for _, obs := range store.observations {
				if inspectionIDs[obs.InspectionID] {
					continue
				}
				keptObservations = append(keptObservations, obs)
			}
			store.observations = keptObservations

			var keptHistory []*vigie.VGPHistory
			for _, h := range store.history {
				if h.ReportID == id {
					continue
				}
				keptHistory = append(keptHistory, h)
			}
			store.history = keptHistory
			return nil
		},
		CreateInspectionFn: func(ctx context.Context, inspection *vigie.ReportInspection) error {
			inspection.ID = uuid.New()
			inspection.CreatedAt = time.Now()
			store.inspections = append(store.inspections, inspection)
			return nil
		},
		CreateObservationFn: func(ctx context.Context, observation *vigie.ReportObservation) error {
			observation.ID = uuid.New()
			observation.CreatedAt = time.Now()
			store.observations = append(store.observations, observation)
			return nil
		},
	}

	history := &mock.VGPHistoryService{
		CreateVGPHistoryFn: func(ctx context.Context, h *vigie.VGPHistory) error {
			h.ID = uuid.New()
			h.CreatedAt = time.Now()
			store.history = append(store.history, h)
			return nil
		},
	}

	return NewEngine(Config{
		ClientService:     clients,
		MachineService:    machines,
		ReportService:     reports,
		VGPHistoryService: history,
		Logger:            slog.New(slog.DiscardHandler),
	})
}

func acmePayload() *vigie.ImportPayload {
	return &vigie.ImportPayload{
		Client: &vigie.ImportClient{
			Nom:     "ACME Industrie",
			Adresse: "12 rue des Forges, 69001 Lyon",
		},
		Report: &vigie.ImportReport{
			ReportNumber: "R-2026-001",
			Organisme:    "Bureau Veritas",
		},
		Machines: []*vigie.ImportMachine{
			{
				TitreSection:   "Chariot élévateur",
				Nature:         "Chariot automoteur",
				Constructeur:   "Toyota",
				Modele:         "8FBN25",
				NumeroSerie:    "SN-12345",
				ResultatStatus: "OK",
				Observations: []*vigie.ImportObservation{
					{PointDeControle: "Frein de service", Observation: "Usure des plaquettes"},
				},
			},
		},
	}
}

func logActions(logs []vigie.ImportLog) []string {
	out := make([]string, len(logs))
	for i, l := range logs {
		out[i] = l.Type + ":" + l.Action
	}
	return out
}

func TestImportReport_CreatesFullGraph(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	result, err := engine.ImportReport(context.Background(), acmePayload(), false)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, []string{
		"client:created",
		"report:created",
		"machine:created",
		"inspection:created",
		"observation:created",
	}, logActions(result.Logs))

	// No verification date in the payload, so no history row.
	assert.Empty(t, store.history)

	require.Len(t, store.reports, 1)
	report := store.reports[0]
	assert.Equal(t, result.ReportID, report.ID.String())
	assert.Equal(t, "R-2026-001", report.ReportNumber)
	assert.True(t, report.HasObservations)
	assert.NotEmpty(t, report.RawPayload)

	require.Len(t, store.clients, 1)
	assert.Equal(t, "ACME Industrie", store.clients[0].Nom)
	assert.Equal(t, report.ClientID, store.clients[0].ID)

	require.Len(t, store.machines, 1)
	assert.Equal(t, "SN-12345", store.machines[0].NumeroSerie)
	assert.Equal(t, vigie.MachineTypeMobile, store.machines[0].TypeMachine)

	require.Len(t, store.inspections, 1)
	assert.Equal(t, vigie.ResultStatusOK, store.inspections[0].ResultatStatus)
	require.Len(t, store.observations, 1)
	assert.Equal(t, "Frein de service", store.observations[0].PointDeControle)
}

func TestImportReport_VGPHistoryDueDate(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	payload := acmePayload()
	payload.Report.DateVerification = "2026-03-15"
	payload.Machines[0].Nature = "Grue mobile"

	result, err := engine.ImportReport(context.Background(), payload, false)
	require.NoError(t, err)

	assert.Contains(t, logActions(result.Logs), "vgp_history:created")
	require.Len(t, store.history, 1)
	h := store.history[0]
	verified := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, verified, h.DateVerification)
	// Lifting equipment is on a six month cycle.
	assert.Equal(t, verified.Add(6*30*24*time.Hour), h.NextDueDate)
	assert.Equal(t, "R-2026-001", h.ReportNumber)
}

func TestImportReport_DuplicateNumberConflicts(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	_, err := engine.ImportReport(context.Background(), acmePayload(), false)
	require.NoError(t, err)

	_, err = engine.ImportReport(context.Background(), acmePayload(), false)
	require.Error(t, err)
	assert.Equal(t, vigie.ECONFLICT, vigie.ErrorCode(err))
	assert.Equal(t, vigie.ReasonReportExists, vigie.ErrorReason(err))

	// A rejected import leaves no state change.
	assert.Len(t, store.reports, 1)
	assert.Len(t, store.clients, 1)
	assert.Len(t, store.machines, 1)
	assert.Len(t, store.inspections, 1)
	assert.Len(t, store.observations, 1)
}

func TestImportReport_ReplaceExisting(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	_, err := engine.ImportReport(context.Background(), acmePayload(), false)
	require.NoError(t, err)
	firstReportID := store.reports[0].ID

	replacement := acmePayload()
	replacement.Machines[0].Observations = nil

	result, err := engine.ImportReport(context.Background(), replacement, true)
	require.NoError(t, err)

	require.NotEmpty(t, result.Logs)
	first := result.Logs[0]
	assert.Equal(t, vigie.LogTypeReport, first.Type)
	assert.Equal(t, vigie.LogActionUpdated, first.Action)
	assert.Equal(t, "replaced existing report", first.Details)

	require.Len(t, store.reports, 1)
	assert.NotEqual(t, firstReportID, store.reports[0].ID)
	assert.False(t, store.reports[0].HasObservations)
	assert.Empty(t, store.observations)

	// Client and machine rows survive the replace.
	assert.Len(t, store.clients, 1)
	assert.Len(t, store.machines, 1)
}

func TestImportReport_ReplaceRecreateFailure(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	_, err := engine.ImportReport(context.Background(), acmePayload(), false)
	require.NoError(t, err)

	store.failCreateReport = true
	_, err = engine.ImportReport(context.Background(), acmePayload(), true)
	require.Error(t, err)
	assert.Equal(t, vigie.EUNPROCESSABLE, vigie.ErrorCode(err))
	assert.Equal(t, vigie.ReasonReplaceIncomplete, vigie.ErrorReason(err))

	// The delete already happened; the old report is gone.
	assert.Empty(t, store.reports)
}

func TestImportReport_ClientDeduplication(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	_, err := engine.ImportReport(context.Background(), acmePayload(), false)
	require.NoError(t, err)

	// Same client spelled with different case, accents, and spacing.
	second := acmePayload()
	second.Report.ReportNumber = "R-2026-002"
	second.Client.Nom = "acmé   industrie"
	second.Client.Adresse = "12 RUE DES FORGES, 69001 LYON"

	result, err := engine.ImportReport(context.Background(), second, false)
	require.NoError(t, err)

	assert.Len(t, store.clients, 1)
	assert.Equal(t, "client:skipped", logActions(result.Logs)[0])
}

func TestImportReport_ClientContactUpdate(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	_, err := engine.ImportReport(context.Background(), acmePayload(), false)
	require.NoError(t, err)

	second := acmePayload()
	second.Report.ReportNumber = "R-2026-002"
	second.Client.ContactEmail = "qse@acme.example"

	result, err := engine.ImportReport(context.Background(), second, false)
	require.NoError(t, err)

	assert.Len(t, store.clients, 1)
	assert.Equal(t, "qse@acme.example", store.clients[0].ContactEmail)
	assert.Equal(t, "client:updated", logActions(result.Logs)[0])
}

func TestImportReport_MachineMatchedBySerial(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	_, err := engine.ImportReport(context.Background(), acmePayload(), false)
	require.NoError(t, err)

	second := acmePayload()
	second.Report.ReportNumber = "R-2026-002"
	second.Machines[0].NumeroSerie = "  sn-12345 "
	second.Machines[0].Observations = nil

	result, err := engine.ImportReport(context.Background(), second, false)
	require.NoError(t, err)

	assert.Len(t, store.machines, 1)
	assert.Contains(t, logActions(result.Logs), "machine:skipped")
	// Each import gets its own inspection even for a known machine.
	assert.Len(t, store.inspections, 2)
}

func TestImportReport_MachineTripleFallback(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	payload := acmePayload()
	payload.Machines[0].NumeroSerie = ""
	_, err := engine.ImportReport(context.Background(), payload, false)
	require.NoError(t, err)

	second := acmePayload()
	second.Report.ReportNumber = "R-2026-002"
	second.Machines[0].NumeroSerie = ""
	second.Machines[0].Observations = nil

	_, err = engine.ImportReport(context.Background(), second, false)
	require.NoError(t, err)
	assert.Len(t, store.machines, 1)
}

func TestImportReport_UnidentifiableMachineAlwaysNew(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	payload := acmePayload()
	payload.Machines[0].NumeroSerie = ""
	payload.Machines[0].Constructeur = ""
	payload.Machines[0].Modele = ""
	payload.Machines[0].ReferenceClient = ""
	_, err := engine.ImportReport(context.Background(), payload, false)
	require.NoError(t, err)

	second := acmePayload()
	second.Report.ReportNumber = "R-2026-002"
	second.Machines[0].NumeroSerie = ""
	second.Machines[0].Constructeur = ""
	second.Machines[0].Modele = ""
	second.Machines[0].ReferenceClient = ""

	_, err = engine.ImportReport(context.Background(), second, false)
	require.NoError(t, err)
	assert.Len(t, store.machines, 2)
}

func TestImportReport_HasObservationsIgnoresInputFlag(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	// The payload claims observations but carries none; the recompute wins.
	claimed := true
	payload := acmePayload()
	payload.Report.HasObservations = &claimed
	payload.Machines[0].Observations = nil

	_, err := engine.ImportReport(context.Background(), payload, false)
	require.NoError(t, err)

	require.Len(t, store.reports, 1)
	assert.False(t, store.reports[0].HasObservations)
}

func TestImportReport_UnknownStatusDefaults(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	payload := acmePayload()
	payload.Machines[0].ResultatStatus = "CONFORME"

	_, err := engine.ImportReport(context.Background(), payload, false)
	require.NoError(t, err)

	require.Len(t, store.inspections, 1)
	assert.Equal(t, vigie.ResultStatusNotVerified, store.inspections[0].ResultatStatus)
}

func TestImportReport_InvalidPayloadLeavesNoState(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	payload := acmePayload()
	payload.Machines = nil

	_, err := engine.ImportReport(context.Background(), payload, false)
	require.Error(t, err)
	assert.Equal(t, vigie.EINVALID, vigie.ErrorCode(err))
	assert.Equal(t, vigie.ReasonEmptyMachines, vigie.ErrorReason(err))

	assert.Empty(t, store.clients)
	assert.Empty(t, store.reports)
	assert.Empty(t, store.machines)
}

func TestImportReport_SingleHistoryPerMachine(t *testing.T) {
	store := &memStore{}
	engine := newTestEngine(store)

	// Two sections re-inspecting the same physical machine.
	payload := acmePayload()
	payload.Report.DateVerification = "2026-03-15"
	duplicate := *payload.Machines[0]
	duplicate.TitreSection = "Chariot élévateur (reprise)"
	duplicate.Observations = nil
	payload.Machines = append(payload.Machines, &duplicate)

	_, err := engine.ImportReport(context.Background(), payload, false)
	require.NoError(t, err)

	assert.Len(t, store.machines, 1)
	assert.Len(t, store.inspections, 2)
	assert.Len(t, store.history, 1)
}
