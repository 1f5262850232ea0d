package server

import (
	"net/http"
	"time"

	"github.com/dlandlab/voicetrack/config"
	adminctrl "github.com/dlandlab/voicetrack/internal/controller/admin"
	userctrl "github.com/dlandlab/voicetrack/internal/controller/user"
	"github.com/dlandlab/voicetrack/internal/middleware"
	"github.com/dlandlab/voicetrack/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

// Controllers is every HTTP controller, collected by fx.
type Controllers struct {
	fx.In

	Assessments      *userctrl.AssessmentController
	Recordings       *userctrl.RecordingController
	Questions        *userctrl.QuestionController
	Participants     *userctrl.ParticipantController
	Files            *userctrl.FileController
	AdminAssessments *adminctrl.AssessmentController
	AdminRecordings  *adminctrl.RecordingController
	AdminQuestions   *adminctrl.QuestionController
	AdminParticipant *adminctrl.ParticipantController
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.AuthTokenHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.Server.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.Server.MaxUploadBytes
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

// RegisterRoutes mounts the API under /api. Routes marked with auth need a valid token.
func RegisterRoutes(router *gin.Engine, cfg *config.Config, c Controllers) {
	auth := middleware.RequireAuth(cfg.Auth.JWTSecret)

	health := func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	}
	router.GET("/", health)

	api := router.Group("/api")
	api.GET("/health", health)

	assessments := api.Group("/assessments")
	{
		assessments.GET("", auth, c.AdminAssessments.All)
		assessments.GET("/status/:participantId", c.Assessments.GetStatus)
		assessments.POST("/status", c.Assessments.UpdateStatus)
		assessments.GET("/participant/:participantId", c.Assessments.ForParticipant)
	}

	recordings := api.Group("/recordings")
	{
		recordings.POST("", c.Recordings.Upload)
		recordings.GET("/participant/:participantId", c.Recordings.ListByParticipant)
		recordings.GET("/stats/:participantId", c.Recordings.Stats)
		recordings.GET("/:id", c.Recordings.Get)
		recordings.DELETE("/:id", auth, c.AdminRecordings.Delete)
		recordings.PUT("/:id/analysis", auth, c.AdminRecordings.Annotate)
		recordings.POST("/:id/analyze", auth, c.AdminRecordings.Analyze)
	}

	questions := api.Group("/questions")
	{
		questions.GET("", c.Questions.List)
		questions.GET("/:id", c.Questions.Get)
		questions.POST("", auth, c.AdminQuestions.Create)
		questions.POST("/import", auth, c.AdminQuestions.Import)
		questions.PUT("/:id", auth, c.AdminQuestions.Update)
		questions.DELETE("/:id", auth, c.AdminQuestions.Delete)
	}

	participants := api.Group("/participants")
	{
		participants.GET("", auth, c.AdminParticipant.List)
		participants.GET("/:participantId", c.Participants.Get)
		participants.PUT("/:participantId", auth, c.AdminParticipant.Update)
	}

	router.GET(storage.FilesRoute+"/*path", c.Files.Serve)
}
