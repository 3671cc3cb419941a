package http

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/vigie"
	"github.com/dukerupert/vigie/internal/audit"
)

// ImportRequest carries an inspection payload plus import options.
type ImportRequest struct {
	Payload         vigie.ImportPayload `json:"payload" validate:"required"`
	ReplaceExisting bool                `json:"replace_existing"`
	Operator        string              `json:"operator"`
}

// handleImportReport reconciles a payload against the record store.
func (s *Server) handleImportReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	var req ImportRequest
	if err := bind(c, &req); err != nil {
		return HandleError(c, s.log(c), err)
	}

	if req.Operator != "" {
		ctx = vigie.NewContextWithOperator(ctx, req.Operator)
	}

	// The report block is untrusted input; the engine's validator rejects
	// its absence, so only read the number here when it is present.
	var reportNumber string
	if req.Payload.Report != nil {
		reportNumber = req.Payload.Report.ReportNumber
	}

	result, err := s.importService.ImportReport(ctx, &req.Payload, req.ReplaceExisting)
	if err != nil {
		s.recordImportAudit(c, reportNumber, req.Operator, importOutcome(err), nil)
		return HandleError(c, s.log(c), err)
	}

	outcome := importSuccessOutcome(result)
	s.recordImportAudit(c, reportNumber, req.Operator, outcome, result.Logs)

	s.log(c).Info("report imported",
		slog.String("report_number", reportNumber),
		slog.String("report_id", result.ReportID),
		slog.Int("log_count", len(result.Logs)),
	)

	return RespondCreated(c, result)
}

// handleValidatePayload validates a payload without touching the store.
func (s *Server) handleValidatePayload(c echo.Context) error {
	var req ImportRequest
	if err := bind(c, &req); err != nil {
		return HandleError(c, s.log(c), err)
	}

	if err := s.importService.ValidatePayload(&req.Payload); err != nil {
		return HandleError(c, s.log(c), err)
	}

	return RespondOK(c, map[string]bool{"valid": true})
}

// importSuccessOutcome classifies a successful import for the audit
// trail. A replace run is recognized by its leading report log entry;
// a replace_existing request against a fresh number is a plain create.
func importSuccessOutcome(result *vigie.ImportResult) string {
	if len(result.Logs) > 0 &&
		result.Logs[0].Type == vigie.LogTypeReport &&
		result.Logs[0].Action == vigie.LogActionUpdated {
		return "replaced"
	}
	return "imported"
}

// importOutcome classifies an import failure for the audit trail.
func importOutcome(err error) string {
	switch vigie.ErrorCode(err) {
	case vigie.ECONFLICT:
		return "conflict"
	case vigie.EINVALID:
		return "rejected"
	default:
		return "failed"
	}
}

func (s *Server) recordImportAudit(c echo.Context, reportNumber, operator, outcome string, logs []vigie.ImportLog) {
	if s.auditRecorder == nil {
		return
	}
	s.auditRecorder.Record(audit.Entry{
		ReportNumber: reportNumber,
		Outcome:      outcome,
		Operator:     operator,
		RequestID:    c.Response().Header().Get(echo.HeaderXRequestID),
		Logs:         logs,
	})
}
