// Package importer implements the report-import reconciliation engine: it
// validates semi-structured VGP payloads, resolves them against existing
// client, machine, and report records, and applies create/update/skip
// decisions with an ordered audit log.
package importer

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dukerupert/vigie"
)

// importsTotal counts import calls by outcome: created, replaced,
// conflict, invalid, error.
var importsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "vigie",
	Name:      "imports_total",
	Help:      "Report import calls by outcome.",
}, []string{"outcome"})

// Compile-time check that Engine implements vigie.ImportService.
var _ vigie.ImportService = (*Engine)(nil)

// Engine orchestrates one import call: validator, entity resolution,
// reconciliation walk, and the replace conflict policy. It holds no state
// between calls; every lookup goes through the record-store services so
// concurrent operators never see a stale in-memory cache.
type Engine struct {
	clients  vigie.ClientService
	machines vigie.MachineService
	reports  vigie.ReportService
	history  vigie.VGPHistoryService
	archive  vigie.ArchiveStore
	logger   *slog.Logger
}

// Config holds the collaborators for creating an Engine.
type Config struct {
	ClientService     vigie.ClientService
	MachineService    vigie.MachineService
	ReportService     vigie.ReportService
	VGPHistoryService vigie.VGPHistoryService

	// ArchiveStore is optional; when nil, raw payloads are retained on the
	// report row only.
	ArchiveStore vigie.ArchiveStore

	Logger *slog.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		clients:  cfg.ClientService,
		machines: cfg.MachineService,
		reports:  cfg.ReportService,
		history:  cfg.VGPHistoryService,
		archive:  cfg.ArchiveStore,
		logger:   logger,
	}
}
