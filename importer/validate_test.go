package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/vigie"
)

func TestValidatePayload(t *testing.T) {
	engine := NewEngine(Config{})

	tests := []struct {
		name       string
		payload    *vigie.ImportPayload
		wantReason string
	}{
		{
			name:       "nil payload",
			payload:    nil,
			wantReason: vigie.ReasonMissingClient,
		},
		{
			name: "missing client block",
			payload: &vigie.ImportPayload{
				Report:   &vigie.ImportReport{ReportNumber: "R-1"},
				Machines: []*vigie.ImportMachine{{}},
			},
			wantReason: vigie.ReasonMissingClient,
		},
		{
			name: "client with blank nom",
			payload: &vigie.ImportPayload{
				Client:   &vigie.ImportClient{Nom: "   ", Adresse: "1 rue A"},
				Report:   &vigie.ImportReport{ReportNumber: "R-1"},
				Machines: []*vigie.ImportMachine{{}},
			},
			wantReason: vigie.ReasonMissingClient,
		},
		{
			name: "client with blank adresse",
			payload: &vigie.ImportPayload{
				Client:   &vigie.ImportClient{Nom: "ACME", Adresse: ""},
				Report:   &vigie.ImportReport{ReportNumber: "R-1"},
				Machines: []*vigie.ImportMachine{{}},
			},
			wantReason: vigie.ReasonMissingClient,
		},
		{
			name: "missing report block",
			payload: &vigie.ImportPayload{
				Client:   &vigie.ImportClient{Nom: "ACME", Adresse: "1 rue A"},
				Machines: []*vigie.ImportMachine{{}},
			},
			wantReason: vigie.ReasonMissingReport,
		},
		{
			name: "blank report number",
			payload: &vigie.ImportPayload{
				Client:   &vigie.ImportClient{Nom: "ACME", Adresse: "1 rue A"},
				Report:   &vigie.ImportReport{ReportNumber: "  "},
				Machines: []*vigie.ImportMachine{{}},
			},
			wantReason: vigie.ReasonMissingReportNumber,
		},
		{
			name: "no machines",
			payload: &vigie.ImportPayload{
				Client: &vigie.ImportClient{Nom: "ACME", Adresse: "1 rue A"},
				Report: &vigie.ImportReport{ReportNumber: "R-1"},
			},
			wantReason: vigie.ReasonEmptyMachines,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.ValidatePayload(tt.payload)
			require.Error(t, err)
			assert.Equal(t, vigie.EINVALID, vigie.ErrorCode(err))
			assert.Equal(t, tt.wantReason, vigie.ErrorReason(err))
		})
	}
}

func TestValidatePayload_Complete(t *testing.T) {
	engine := NewEngine(Config{})

	payload := &vigie.ImportPayload{
		Client:   &vigie.ImportClient{Nom: "ACME", Adresse: "1 rue A"},
		Report:   &vigie.ImportReport{ReportNumber: "R-1"},
		Machines: []*vigie.ImportMachine{{TitreSection: "Section 1"}},
	}

	assert.NoError(t, engine.ValidatePayload(payload))
}

func TestValidatePayload_FirstFailureWins(t *testing.T) {
	engine := NewEngine(Config{})

	// Multiple problems; the client check runs first.
	err := engine.ValidatePayload(&vigie.ImportPayload{})
	require.Error(t, err)
	assert.Equal(t, vigie.ReasonMissingClient, vigie.ErrorReason(err))
}
