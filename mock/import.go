package mock

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/vigie"
)

// Compile-time interface check
var _ vigie.ImportService = (*ImportService)(nil)

// ImportService is a mock implementation of vigie.ImportService.
type ImportService struct {
	ValidatePayloadFn func(payload *vigie.ImportPayload) error
	ImportReportFn    func(ctx context.Context, payload *vigie.ImportPayload, replaceExisting bool) (*vigie.ImportResult, error)
}

func (s *ImportService) ValidatePayload(payload *vigie.ImportPayload) error {
	if s.ValidatePayloadFn != nil {
		return s.ValidatePayloadFn(payload)
	}
	return nil
}

func (s *ImportService) ImportReport(ctx context.Context, payload *vigie.ImportPayload, replaceExisting bool) (*vigie.ImportResult, error) {
	if s.ImportReportFn != nil {
		return s.ImportReportFn(ctx, payload, replaceExisting)
	}
	return &vigie.ImportResult{ReportID: uuid.New().String(), Logs: []vigie.ImportLog{}}, nil
}
