package http

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/vigie"
)

// handleListReports lists reports with optional filtering.
func (s *Server) handleListReports(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	filter := vigie.ReportFilter{
		Offset: queryInt(c, "offset", 0),
		Limit:  queryInt(c, "limit", 50),
	}
	if number := c.QueryParam("report_number"); number != "" {
		filter.ReportNumber = &number
	}
	if clientID := c.QueryParam("client_id"); clientID != "" {
		id, err := parseUUID(clientID)
		if err != nil {
			return HandleError(c, s.log(c), err)
		}
		filter.ClientID = &id
	}

	reports, total, err := s.reportService.FindReports(ctx, filter)
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	return RespondList(c, reports, total, filter.Offset, filter.Limit)
}

// handleGetReport retrieves a report by its report number.
func (s *Server) handleGetReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	number, err := requireParam(c, "number")
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	report, err := s.reportService.FindReportByNumber(ctx, number)
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	return RespondOK(c, report)
}

// handleListReportInspections lists a report's inspections.
func (s *Server) handleListReportInspections(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	number, err := requireParam(c, "number")
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	report, err := s.reportService.FindReportByNumber(ctx, number)
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	inspections, err := s.reportService.FindInspections(ctx, report.ID)
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	return RespondOK(c, inspections)
}

// handleDeleteReport removes a report and everything hanging off it.
func (s *Server) handleDeleteReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	number, err := requireParam(c, "number")
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	report, err := s.reportService.FindReportByNumber(ctx, number)
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	if err := s.reportService.DeleteReport(ctx, report.ID); err != nil {
		return HandleError(c, s.log(c), err)
	}

	s.log(c).Info("report deleted",
		slog.String("report_number", number),
		slog.String("report_id", report.ID.String()),
	)

	return RespondNoContent(c)
}

// handleListInspectionObservations lists an inspection's observations.
func (s *Server) handleListInspectionObservations(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	observations, err := s.reportService.FindObservations(ctx, id)
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	return RespondOK(c, observations)
}
