package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/psyline/psyline-api/internal/audit"
	"github.com/psyline/psyline-api/internal/cache"
	"github.com/psyline/psyline-api/internal/config"
	"github.com/psyline/psyline-api/internal/handlers"
	infraRepo "github.com/psyline/psyline-api/internal/infra/repository"
	"github.com/psyline/psyline-api/internal/media"
	"github.com/psyline/psyline-api/internal/middleware"
	ucAppointment "github.com/psyline/psyline-api/internal/usecase/appointment"
)

// Deps carries the optional infrastructure the route tree wires up.
// Cache and Media may be nil.
type Deps struct {
	DB    *gorm.DB
	Cfg   *config.Config
	Cache cache.Client
	Media media.Store
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ------------------------------
	// INFRA (SINGLETONS)
	// ------------------------------
	appointmentRepo := infraRepo.NewAppointmentGormRepository(d.DB)

	auditLogger := audit.New(d.DB)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ------------------------------
	// USE CASES — APPOINTMENTS
	// ------------------------------
	createAppointmentUC := ucAppointment.NewCreateAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	getAppointmentUC := ucAppointment.NewGetAppointment(
		appointmentRepo,
	)

	updateStatusUC := ucAppointment.NewUpdateStatus(
		appointmentRepo,
		auditDispatcher,
	)

	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	// ------------------------------
	// HANDLERS
	// ------------------------------
	authHandler := handlers.NewAuthHandler(d.DB, d.Cfg, auditDispatcher)
	meHandler := handlers.NewMeHandler(d.DB, auditDispatcher)

	psychologistHandler := handlers.NewPsychologistHandler(d.DB, d.Cache, d.Media)
	specializationHandler := handlers.NewSpecializationHandler(d.DB)
	scheduleHandler := handlers.NewScheduleHandler(d.DB, d.Cache)
	reviewHandler := handlers.NewReviewHandler(d.DB, d.Cache, auditDispatcher)
	chatHandler := handlers.NewChatHandler(d.DB)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		getAppointmentUC,
		updateStatusUC,
		deleteAppointmentUC,
	)

	// ------------------------------
	// USERS
	// ------------------------------
	users := r.Group("/users")
	{
		users.POST("/register", authHandler.Register)
		users.POST("/login", authHandler.Login)
	}

	usersSecured := r.Group("/users")
	usersSecured.Use(middleware.AuthMiddleware(d.Cfg))
	{
		usersSecured.GET("/me", meHandler.GetMe)
		usersSecured.PUT("/change-password", meHandler.ChangePassword)
		usersSecured.DELETE("/delete", meHandler.DeleteMe)
	}

	// ------------------------------
	// CATALOG (no auth)
	// ------------------------------
	psychologists := r.Group("/psychologists")
	{
		psychologists.POST("/", psychologistHandler.Create)
		psychologists.GET("/:id", psychologistHandler.Get)
		psychologists.PUT("/:id", psychologistHandler.Update)
		psychologists.POST("/:id/avatar", psychologistHandler.UploadAvatar)
	}

	specializations := r.Group("/specializations")
	{
		specializations.POST("/", specializationHandler.Create)
		specializations.GET("/:id", specializationHandler.Get)
	}

	schedule := r.Group("/schedule")
	{
		schedule.POST("/", scheduleHandler.Create)
		schedule.GET("/:psychologist_id", scheduleHandler.ListForPsychologist)
		schedule.DELETE("/:id", scheduleHandler.Delete)
	}

	reviews := r.Group("/reviews")
	{
		reviews.POST("/", reviewHandler.Create)
		reviews.GET("/:psychologist_id", reviewHandler.ListForPsychologist)
	}

	// ------------------------------
	// APPOINTMENTS + CHAT (bearer)
	// ------------------------------
	appointments := r.Group("/appointments")
	appointments.Use(middleware.AuthMiddleware(d.Cfg))
	{
		appointments.POST("/", appointmentHandler.Create)
		appointments.GET("/:id", appointmentHandler.Get)
		appointments.PATCH("/:id/status", appointmentHandler.UpdateStatus)
		appointments.DELETE("/:id", appointmentHandler.Delete)
	}

	chat := r.Group("/chat")
	chat.Use(middleware.AuthMiddleware(d.Cfg))
	{
		chat.POST("/", chatHandler.Send)
		chat.GET("/", chatHandler.ListForUser)
	}
}
