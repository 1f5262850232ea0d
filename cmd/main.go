package main

import (
	"context"
	"net/http"
	"time"

	"github.com/dlandlab/voicetrack/config"
	adminctrl "github.com/dlandlab/voicetrack/internal/controller/admin"
	userctrl "github.com/dlandlab/voicetrack/internal/controller/user"
	"github.com/dlandlab/voicetrack/internal/database"
	"github.com/dlandlab/voicetrack/internal/logger"
	"github.com/dlandlab/voicetrack/internal/repository"
	"github.com/dlandlab/voicetrack/internal/server"
	"github.com/dlandlab/voicetrack/internal/service"
	"github.com/dlandlab/voicetrack/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

// @title Voicetrack API
// @version 1.0
// @description Recording ingestion and assessment progress tracking for spoken-language studies.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token
func main() {
	logger.Init("info", false)

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			storage.NewStore,
			server.NewGinEngine,
		),

		fx.Provide(
			repository.NewParticipantRepository,
			repository.NewQuestionRepository,
			repository.NewRecordingRepository,
			repository.NewAssessmentRepository,
		),

		fx.Provide(
			service.NewProgressTracker,
			service.NewCompletionCalculator,
			service.NewAssessmentService,
			service.NewParticipantService,
			service.NewQuestionService,
			service.NewRecordingService,
			service.NewRecordingAnalyzer,
		),

		fx.Provide(
			userctrl.NewAssessmentController,
			userctrl.NewRecordingController,
			userctrl.NewQuestionController,
			userctrl.NewParticipantController,
			userctrl.NewFileController,
			adminctrl.NewAssessmentController,
			adminctrl.NewRecordingController,
			adminctrl.NewQuestionController,
			adminctrl.NewParticipantController,
		),

		fx.Invoke(ConfigureLogger),
		fx.Invoke(database.AutoMigrate),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

// ConfigureLogger re-applies the logger settings once the config is loaded.
func ConfigureLogger(cfg *config.Config) {
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	store storage.Store,
	controllers server.Controllers,
) {
	server.RegisterRoutes(router, cfg, controllers)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Voicetrack API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			if closer, ok := store.(interface{ Close() error }); ok {
				return closer.Close()
			}
			return nil
		},
	})
}
