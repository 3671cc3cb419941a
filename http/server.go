// Package http provides the echo transport over the domain services. It
// binds requests, maps domain errors to status codes, and stays free of
// reconciliation logic.
package http

import (
	"context"
	"log/slog"
	"net"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/vigie"
	"github.com/dukerupert/vigie/internal/audit"
	"github.com/dukerupert/vigie/internal/validation"
)

// Server represents the HTTP server with all its dependencies.
type Server struct {
	echo   *echo.Echo
	ln     net.Listener
	logger *slog.Logger

	// Configuration
	Addr   string
	Domain string

	// Domain services
	clientService  vigie.ClientService
	machineService vigie.MachineService
	reportService  vigie.ReportService
	historyService vigie.VGPHistoryService
	importService  vigie.ImportService

	// Import audit recorder (optional)
	auditRecorder *audit.Recorder
}

// Config holds the configuration for creating a new Server.
type Config struct {
	Addr   string
	Domain string
	Logger *slog.Logger

	// Domain services
	ClientService     vigie.ClientService
	MachineService    vigie.MachineService
	ReportService     vigie.ReportService
	VGPHistoryService vigie.VGPHistoryService
	ImportService     vigie.ImportService

	// AuditRecorder is optional; when nil import runs are not persisted.
	AuditRecorder *audit.Recorder
}

// NewServer creates a new HTTP server with the given configuration.
func NewServer(cfg Config) *Server {
	s := &Server{
		Addr:           cfg.Addr,
		Domain:         cfg.Domain,
		logger:         cfg.Logger,
		clientService:  cfg.ClientService,
		machineService: cfg.MachineService,
		reportService:  cfg.ReportService,
		historyService: cfg.VGPHistoryService,
		importService:  cfg.ImportService,
		auditRecorder:  cfg.AuditRecorder,
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = validation.NewValidator()

	// Register middleware and routes
	s.registerMiddleware()
	s.registerRoutes()

	return s
}

// Echo returns the underlying Echo instance.
// Use sparingly - prefer registering routes through Server methods.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Open starts the HTTP server.
func (s *Server) Open() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.ln = ln

	go func() {
		if err := s.echo.Server.Serve(s.ln); err != nil {
			s.logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	s.logger.Info("server started", slog.String("addr", s.Addr))
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

// URL returns the base URL of the server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}
