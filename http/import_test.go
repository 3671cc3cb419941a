package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/vigie"
	"github.com/dukerupert/vigie/mock"
)

func newTestServer(importService vigie.ImportService) *Server {
	return NewServer(Config{
		Addr:              "localhost:0",
		Logger:            slog.New(slog.DiscardHandler),
		ClientService:     &mock.ClientService{},
		MachineService:    &mock.MachineService{},
		ReportService:     &mock.ReportService{},
		VGPHistoryService: &mock.VGPHistoryService{},
		ImportService:     importService,
	})
}

const importBody = `{
	"payload": {
		"client": {"nom": "ACME Industrie", "adresse": "12 rue des Forges"},
		"report": {"report_number": "R-2026-001"},
		"machines": [{"titre_section": "Chariot", "numeroSerie": "SN-1"}]
	}
}`

func TestHandleImportReport(t *testing.T) {
	var gotReplace bool
	importService := &mock.ImportService{
		ImportReportFn: func(ctx context.Context, payload *vigie.ImportPayload, replaceExisting bool) (*vigie.ImportResult, error) {
			gotReplace = replaceExisting
			assert.Equal(t, "R-2026-001", payload.Report.ReportNumber)
			return &vigie.ImportResult{
				ReportID: "6f1b6f0e-0000-0000-0000-000000000001",
				Logs: []vigie.ImportLog{
					{Type: vigie.LogTypeReport, Action: vigie.LogActionCreated, Name: "R-2026-001"},
				},
			}, nil
		},
	}
	server := newTestServer(importService)

	req := httptest.NewRequest(http.MethodPost, "/api/imports", strings.NewReader(importBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.False(t, gotReplace)

	var result vigie.ImportResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "6f1b6f0e-0000-0000-0000-000000000001", result.ReportID)
	require.Len(t, result.Logs, 1)
	assert.Equal(t, vigie.LogActionCreated, result.Logs[0].Action)
}

func TestHandleImportReport_Conflict(t *testing.T) {
	importService := &mock.ImportService{
		ImportReportFn: func(ctx context.Context, payload *vigie.ImportPayload, replaceExisting bool) (*vigie.ImportResult, error) {
			return nil, vigie.ReportExists("R-2026-001")
		},
	}
	server := newTestServer(importService)

	req := httptest.NewRequest(http.MethodPost, "/api/imports", strings.NewReader(importBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, vigie.ReasonReportExists, resp.Reason)
}

func TestHandleImportReport_ReplaceFlag(t *testing.T) {
	var gotReplace bool
	importService := &mock.ImportService{
		ImportReportFn: func(ctx context.Context, payload *vigie.ImportPayload, replaceExisting bool) (*vigie.ImportResult, error) {
			gotReplace = replaceExisting
			return &vigie.ImportResult{ReportID: "x"}, nil
		},
	}
	server := newTestServer(importService)

	body := strings.Replace(importBody, `"payload"`, `"replace_existing": true, "payload"`, 1)
	req := httptest.NewRequest(http.MethodPost, "/api/imports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, gotReplace)
}

func TestHandleImportReport_ReplaceIncomplete(t *testing.T) {
	importService := &mock.ImportService{
		ImportReportFn: func(ctx context.Context, payload *vigie.ImportPayload, replaceExisting bool) (*vigie.ImportResult, error) {
			return nil, vigie.ReplaceIncomplete("R-2026-001", assert.AnError)
		},
	}
	server := newTestServer(importService)

	req := httptest.NewRequest(http.MethodPost, "/api/imports", strings.NewReader(importBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, vigie.ReasonReplaceIncomplete, resp.Reason)
}

func TestHandleImportReport_MissingReportBlock(t *testing.T) {
	importService := &mock.ImportService{
		ImportReportFn: func(ctx context.Context, payload *vigie.ImportPayload, replaceExisting bool) (*vigie.ImportResult, error) {
			if payload.Report == nil {
				return nil, vigie.InvalidReason(vigie.ReasonMissingReport, "Payload is missing a report")
			}
			return &vigie.ImportResult{ReportID: "x"}, nil
		},
	}
	server := newTestServer(importService)

	// Well-formed JSON whose payload has no report block must surface as
	// a validation rejection, not a server error.
	body := `{
		"payload": {
			"client": {"nom": "ACME Industrie", "adresse": "12 rue des Forges"},
			"machines": [{"titre_section": "Chariot"}]
		}
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/imports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, vigie.ReasonMissingReport, resp.Reason)
}

func TestImportSuccessOutcome(t *testing.T) {
	created := &vigie.ImportResult{Logs: []vigie.ImportLog{
		{Type: vigie.LogTypeClient, Action: vigie.LogActionCreated},
		{Type: vigie.LogTypeReport, Action: vigie.LogActionCreated},
	}}
	replaced := &vigie.ImportResult{Logs: []vigie.ImportLog{
		{Type: vigie.LogTypeReport, Action: vigie.LogActionUpdated, Details: "replaced existing report"},
		{Type: vigie.LogTypeClient, Action: vigie.LogActionSkipped},
	}}

	// The replace flag on the request does not decide the outcome; the
	// result does. A replace request against a fresh number is a create.
	assert.Equal(t, "imported", importSuccessOutcome(created))
	assert.Equal(t, "replaced", importSuccessOutcome(replaced))
	assert.Equal(t, "imported", importSuccessOutcome(&vigie.ImportResult{}))
}

func TestHandleImportReport_MalformedBody(t *testing.T) {
	server := newTestServer(&mock.ImportService{})

	req := httptest.NewRequest(http.MethodPost, "/api/imports", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, vigie.ReasonInvalidJSON, resp.Reason)
}

func TestHandleValidatePayload(t *testing.T) {
	importService := &mock.ImportService{
		ValidatePayloadFn: func(payload *vigie.ImportPayload) error {
			if len(payload.Machines) == 0 {
				return vigie.InvalidReason(vigie.ReasonEmptyMachines, "Payload has no machines")
			}
			return nil
		},
	}
	server := newTestServer(importService)

	req := httptest.NewRequest(http.MethodPost, "/api/imports/validate", strings.NewReader(importBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	empty := `{"payload": {"client": {"nom": "ACME", "adresse": "1 rue A"}, "report": {"report_number": "R-1"}, "machines": []}}`
	req = httptest.NewRequest(http.MethodPost, "/api/imports/validate", strings.NewReader(empty))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	server.Echo().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, vigie.ReasonEmptyMachines, resp.Reason)
}
