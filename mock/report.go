package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/vigie"
)

// Compile-time interface check
var _ vigie.ReportService = (*ReportService)(nil)

// ReportService is a mock implementation of vigie.ReportService.
type ReportService struct {
	FindReportByIDFn     func(ctx context.Context, id uuid.UUID) (*vigie.Report, error)
	FindReportByNumberFn func(ctx context.Context, reportNumber string) (*vigie.Report, error)
	FindReportsFn        func(ctx context.Context, filter vigie.ReportFilter) ([]*vigie.Report, int, error)
	CreateReportFn       func(ctx context.Context, report *vigie.Report) error
	UpdateReportFn       func(ctx context.Context, id uuid.UUID, upd vigie.ReportUpdate) (*vigie.Report, error)
	DeleteReportFn       func(ctx context.Context, id uuid.UUID) error
	CreateInspectionFn   func(ctx context.Context, inspection *vigie.ReportInspection) error
	FindInspectionsFn    func(ctx context.Context, reportID uuid.UUID) ([]*vigie.ReportInspection, error)
	CreateObservationFn  func(ctx context.Context, observation *vigie.ReportObservation) error
	FindObservationsFn   func(ctx context.Context, inspectionID uuid.UUID) ([]*vigie.ReportObservation, error)
}

func (s *ReportService) FindReportByID(ctx context.Context, id uuid.UUID) (*vigie.Report, error) {
	if s.FindReportByIDFn != nil {
		return s.FindReportByIDFn(ctx, id)
	}
	return nil, vigie.NotFound("Report not found")
}

func (s *ReportService) FindReportByNumber(ctx context.Context, reportNumber string) (*vigie.Report, error) {
	if s.FindReportByNumberFn != nil {
		return s.FindReportByNumberFn(ctx, reportNumber)
	}
	return nil, vigie.NotFound("Report not found")
}

func (s *ReportService) FindReports(ctx context.Context, filter vigie.ReportFilter) ([]*vigie.Report, int, error) {
	if s.FindReportsFn != nil {
		return s.FindReportsFn(ctx, filter)
	}
	return []*vigie.Report{}, 0, nil
}

func (s *ReportService) CreateReport(ctx context.Context, report *vigie.Report) error {
	if s.CreateReportFn != nil {
		return s.CreateReportFn(ctx, report)
	}
	report.ID = uuid.New()
	report.CreatedAt = time.Now()
	report.UpdatedAt = time.Now()
	return nil
}

func (s *ReportService) UpdateReport(ctx context.Context, id uuid.UUID, upd vigie.ReportUpdate) (*vigie.Report, error) {
	if s.UpdateReportFn != nil {
		return s.UpdateReportFn(ctx, id, upd)
	}
	return nil, vigie.NotFound("Report not found")
}

func (s *ReportService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	if s.DeleteReportFn != nil {
		return s.DeleteReportFn(ctx, id)
	}
	return vigie.NotFound("Report not found")
}

func (s *ReportService) CreateInspection(ctx context.Context, inspection *vigie.ReportInspection) error {
	if s.CreateInspectionFn != nil {
		return s.CreateInspectionFn(ctx, inspection)
	}
	inspection.ID = uuid.New()
	inspection.CreatedAt = time.Now()
	return nil
}

func (s *ReportService) FindInspections(ctx context.Context, reportID uuid.UUID) ([]*vigie.ReportInspection, error) {
	if s.FindInspectionsFn != nil {
		return s.FindInspectionsFn(ctx, reportID)
	}
	return []*vigie.ReportInspection{}, nil
}

func (s *ReportService) CreateObservation(ctx context.Context, observation *vigie.ReportObservation) error {
	if s.CreateObservationFn != nil {
		return s.CreateObservationFn(ctx, observation)
	}
	observation.ID = uuid.New()
	observation.CreatedAt = time.Now()
	return nil
}

func (s *ReportService) FindObservations(ctx context.Context, inspectionID uuid.UUID) ([]*vigie.ReportObservation, error) {
	if s.FindObservationsFn != nil {
		return s.FindObservationsFn(ctx, inspectionID)
	}
	return []*vigie.ReportObservation{}, nil
}
