package http

import (
	"github.com/labstack/echo/v4"

	"github.com/dukerupert/vigie"
)

// handleGetMachine retrieves a machine by ID.
func (s *Server) handleGetMachine(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	machine, err := s.machineService.FindMachineByID(ctx, id)
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	return RespondOK(c, machine)
}

// handleListMachineHistory lists a machine's VGP verification history.
func (s *Server) handleListMachineHistory(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	// A lookup first so missing machines return 404 rather than an empty list.
	if _, err := s.machineService.FindMachineByID(ctx, id); err != nil {
		return HandleError(c, s.log(c), err)
	}

	history, err := s.historyService.FindVGPHistory(ctx, vigie.VGPHistoryFilter{MachineID: &id})
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	return RespondOK(c, history)
}
