package http

// registerRoutes registers all API routes on the echo instance.
func (s *Server) registerRoutes() {
	// Health endpoints
	s.echo.GET("/health", s.handleHealthCheck)
	s.echo.GET("/health/live", s.handleLivenessCheck)
	s.echo.GET("/health/ready", s.handleReadinessCheck)

	api := s.echo.Group("/api")

	// Imports
	api.POST("/imports", s.handleImportReport)
	api.POST("/imports/validate", s.handleValidatePayload)

	// Reports
	api.GET("/reports", s.handleListReports)
	api.GET("/reports/:number", s.handleGetReport)
	api.GET("/reports/:number/inspections", s.handleListReportInspections)
	api.DELETE("/reports/:number", s.handleDeleteReport)

	// Inspections
	api.GET("/inspections/:id/observations", s.handleListInspectionObservations)

	// Clients
	api.GET("/clients", s.handleListClients)
	api.GET("/clients/:id", s.handleGetClient)
	api.GET("/clients/:id/machines", s.handleListClientMachines)

	// Machines
	api.GET("/machines/:id", s.handleGetMachine)
	api.GET("/machines/:id/history", s.handleListMachineHistory)
}
