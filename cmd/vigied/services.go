package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dukerupert/vigie"
	"github.com/dukerupert/vigie/importer"
	"github.com/dukerupert/vigie/internal/archive"
	"github.com/dukerupert/vigie/internal/audit"
	"github.com/dukerupert/vigie/postgres"
)

// Services holds all application services.
type Services struct {
	ClientService     vigie.ClientService
	MachineService    vigie.MachineService
	ReportService     vigie.ReportService
	VGPHistoryService vigie.VGPHistoryService
	ImportService     vigie.ImportService
	AuditRecorder     *audit.Recorder
}

// initServices initializes all application services.
func initServices(ctx context.Context, pool *pgxpool.Pool, cfg *Config, logger *slog.Logger) (*Services, error) {
	db := postgres.NewDB(pool)
	logger.Info("database services initialized")

	archiveStore, err := initArchiveStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("payload archive initialized", slog.String("provider", cfg.ArchiveProvider))

	engine := importer.NewEngine(importer.Config{
		ClientService:     db.ClientService,
		MachineService:    db.MachineService,
		ReportService:     db.ReportService,
		VGPHistoryService: db.VGPHistoryService,
		ArchiveStore:      archiveStore,
		Logger:            logger,
	})
	logger.Info("import engine initialized")

	var recorder *audit.Recorder
	if cfg.AuditEnabled {
		recorder = audit.NewRecorder(pool, logger)
		logger.Info("import audit recorder initialized")
	}

	return &Services{
		ClientService:     db.ClientService,
		MachineService:    db.MachineService,
		ReportService:     db.ReportService,
		VGPHistoryService: db.VGPHistoryService,
		ImportService:     engine,
		AuditRecorder:     recorder,
	}, nil
}

// initArchiveStore creates the payload archive implementation.
func initArchiveStore(ctx context.Context, cfg *Config, logger *slog.Logger) (vigie.ArchiveStore, error) {
	logger.Debug("archive configuration",
		slog.String("provider", cfg.ArchiveProvider),
		slog.String("local_path", cfg.ArchiveLocalPath),
		slog.String("s3_bucket", cfg.ArchiveS3Bucket),
		slog.String("s3_region", cfg.ArchiveS3Region))

	archiveCfg := vigie.ArchiveConfig{
		Provider:  cfg.ArchiveProvider,
		LocalPath: cfg.ArchiveLocalPath,
		LocalURL:  cfg.ArchiveLocalURL,
		S3Bucket:  cfg.ArchiveS3Bucket,
		S3Region:  cfg.ArchiveS3Region,
		S3BaseURL: cfg.ArchiveS3BaseURL,
	}

	return archive.NewArchiveStore(ctx, logger, archiveCfg)
}
