package importer

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/vigie"
)

// Entity resolution: read-only lookups that decide create vs. update.
// Nil results mean "not found"; store errors propagate unchanged.

// resolveClient finds an existing client by normalized (nom, adresse)
// equality.
func (e *Engine) resolveClient(ctx context.Context, candidate *vigie.ImportClient) (*vigie.Client, error) {
	client, err := e.clients.FindClientByKey(ctx, candidate.Nom, candidate.Adresse)
	if err != nil {
		if vigie.IsErrorCode(err, vigie.ENOTFOUND) {
			return nil, nil
		}
		return nil, err
	}
	return client, nil
}

// resolveReport finds an existing report by exact report number.
func (e *Engine) resolveReport(ctx context.Context, reportNumber string) (*vigie.Report, error) {
	report, err := e.reports.FindReportByNumber(ctx, reportNumber)
	if err != nil {
		if vigie.IsErrorCode(err, vigie.ENOTFOUND) {
			return nil, nil
		}
		return nil, err
	}
	return report, nil
}

// resolveMachine finds an existing machine of the client matching the
// candidate. With a non-empty serial, only serial equality counts
// (case-insensitive, trimmed). Without one, equality on the trimmed
// (constructeur, modele, referenceClient) triple is the fallback; when all
// three are empty, the candidate is always treated as new.
func (e *Engine) resolveMachine(ctx context.Context, clientID uuid.UUID, candidate *vigie.ImportMachine) (*vigie.Machine, error) {
	existing, _, err := e.machines.FindMachines(ctx, vigie.MachineFilter{ClientID: &clientID})
	if err != nil {
		return nil, err
	}
	return matchMachine(existing, candidate), nil
}

func matchMachine(existing []*vigie.Machine, candidate *vigie.ImportMachine) *vigie.Machine {
	serial := strings.TrimSpace(candidate.NumeroSerie)
	if serial != "" {
		for _, m := range existing {
			if strings.EqualFold(strings.TrimSpace(m.NumeroSerie), serial) {
				return m
			}
		}
		return nil
	}

	constructeur := strings.TrimSpace(candidate.Constructeur)
	modele := strings.TrimSpace(candidate.Modele)
	reference := strings.TrimSpace(candidate.ReferenceClient)
	if constructeur == "" && modele == "" && reference == "" {
		return nil
	}
	for _, m := range existing {
		if strings.TrimSpace(m.Constructeur) == constructeur &&
			strings.TrimSpace(m.Modele) == modele &&
			strings.TrimSpace(m.ReferenceClient) == reference {
			return m
		}
	}
	return nil
}
