package http

import (
	"github.com/labstack/echo/v4"

	"github.com/dukerupert/vigie"
)

// handleListClients lists clients with optional filtering.
func (s *Server) handleListClients(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	filter := vigie.ClientFilter{
		Offset: queryInt(c, "offset", 0),
		Limit:  queryInt(c, "limit", 50),
	}
	if nom := c.QueryParam("nom"); nom != "" {
		filter.Nom = &nom
	}

	clients, total, err := s.clientService.FindClients(ctx, filter)
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	return RespondList(c, clients, total, filter.Offset, filter.Limit)
}

// handleGetClient retrieves a client by ID.
func (s *Server) handleGetClient(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	client, err := s.clientService.FindClientByID(ctx, id)
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	return RespondOK(c, client)
}

// handleListClientMachines lists the machines registered to a client.
func (s *Server) handleListClientMachines(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	id, err := requireUUIDParam(c, "id")
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	filter := vigie.MachineFilter{
		ClientID: &id,
		Offset:   queryInt(c, "offset", 0),
		Limit:    queryInt(c, "limit", 50),
	}

	machines, total, err := s.machineService.FindMachines(ctx, filter)
	if err != nil {
		return HandleError(c, s.log(c), err)
	}

	return RespondList(c, machines, total, filter.Offset, filter.Limit)
}
