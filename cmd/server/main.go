package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlasbio/atlas/internal/clients/chembl"
	"github.com/atlasbio/atlas/internal/clients/ctgov"
	"github.com/atlasbio/atlas/internal/clients/fmp"
	rankclient "github.com/atlasbio/atlas/internal/clients/ranking"
	"github.com/atlasbio/atlas/internal/config"
	"github.com/atlasbio/atlas/internal/database"
	"github.com/atlasbio/atlas/internal/events"
	"github.com/atlasbio/atlas/internal/modules/analysis"
	"github.com/atlasbio/atlas/internal/modules/companies"
	"github.com/atlasbio/atlas/internal/modules/criteria"
	"github.com/atlasbio/atlas/internal/modules/ranking"
	"github.com/atlasbio/atlas/internal/modules/sessions"
	"github.com/atlasbio/atlas/internal/scheduler"
	"github.com/atlasbio/atlas/internal/server"
	"github.com/atlasbio/atlas/pkg/logger"
)

func main() {
	// Load configuration first so the log level follows it
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Atlas research dashboard")

	// Initialize database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	// Provider clients
	fmpClient := fmp.NewClient(cfg.FMPBaseURL, cfg.FMPAPIKey, log)
	ctgovClient := ctgov.NewClient(cfg.CTGovBaseURL, log)
	chemblClient := chembl.NewClient(cfg.ChEMBLBaseURL, log)
	rankingClient := rankclient.NewClient(cfg.RankingServiceURL, log)

	eventManager := events.NewManager(log)

	// Company registry
	companyRepo := companies.NewRepository(db.Conn())
	if err := companyRepo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create companies schema")
	}

	// Sessions
	sessionRepo := sessions.NewRepository(db.Conn())
	if err := sessionRepo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create sessions schema")
	}

	// Analysis pipeline. With MOCK_PROVIDERS the pipeline runs
	// entirely on the deterministic placeholder data.
	var profileProvider analysis.ProfileProvider = fmpClient
	var trialsProvider analysis.TrialsProvider = ctgovClient
	if cfg.MockProviders {
		log.Warn().Msg("MOCK_PROVIDERS set, analysis pipeline uses placeholder data")
		profileProvider = fmp.StaticProvider{}
		trialsProvider = ctgov.StaticProvider{}
	}
	assembler := analysis.NewAssembler(profileProvider, trialsProvider, log)
	orchestrator := analysis.NewOrchestrator(assembler, eventManager, log)

	// Ranking
	rankingService := ranking.NewService(rankingClient, eventManager, log)

	// Background jobs
	sched := scheduler.New(log)
	profileSync := scheduler.NewProfileSyncJob(companyRepo, profileProvider, db.Conn(), eventManager, log)
	if err := profileSync.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create profile snapshot schema")
	}
	if err := sched.AddJob(cfg.ProfileSyncCron, profileSync); err != nil {
		log.Fatal().Err(err).Msg("Failed to register profile sync job")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP server
	srv := server.New(server.Config{
		Port:    cfg.Port,
		Log:     log,
		Config:  cfg,
		DevMode: cfg.DevMode,

		FMPClient:    fmpClient,
		CTGovClient:  ctgovClient,
		ChEMBLClient: chemblClient,

		CompanyHandlers:  companies.NewHandlers(companyRepo, eventManager, log),
		AnalysisHandlers: analysis.NewHandlers(orchestrator, companyRepo, log),
		CriteriaHandlers: criteria.NewHandlers(log),
		RankingHandlers:  ranking.NewHandlers(rankingService, orchestrator, log),
		SessionHandlers:  sessions.NewHandlers(sessionRepo, eventManager, log),
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
