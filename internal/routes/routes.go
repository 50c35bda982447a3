package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberia/internal/audit"
	"github.com/BruksfildServices01/barberia/internal/config"
	"github.com/BruksfildServices01/barberia/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barberia/internal/infra/repository"
	"github.com/BruksfildServices01/barberia/internal/media"
	"github.com/BruksfildServices01/barberia/internal/metrics"
	"github.com/BruksfildServices01/barberia/internal/middleware"
	"github.com/BruksfildServices01/barberia/internal/models"
	"github.com/BruksfildServices01/barberia/internal/payments"
	"github.com/BruksfildServices01/barberia/internal/realtime"
	"github.com/BruksfildServices01/barberia/internal/session"
	"github.com/BruksfildServices01/barberia/internal/stats"
	"github.com/BruksfildServices01/barberia/internal/usecase"
	ucAppointment "github.com/BruksfildServices01/barberia/internal/usecase/appointment"
	ucBloqueo "github.com/BruksfildServices01/barberia/internal/usecase/bloqueo"
	ucCaja "github.com/BruksfildServices01/barberia/internal/usecase/caja"
	ucChat "github.com/BruksfildServices01/barberia/internal/usecase/chat"
	ucPayment "github.com/BruksfildServices01/barberia/internal/usecase/payment"
)

// Deps são as peças montadas no main. Uploader, WhatsApp, Payments e
// Metrics podem ser nil (integração desligada).
type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Log      *zap.Logger
	Sessions session.Store
	Broker   realtime.Broker
	Audit    audit.Recorder
	Metrics  *metrics.Metrics
	Uploader media.Uploader
	WhatsApp ucChat.Sender
	Payments payments.Gateway
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	db := d.DB
	cfg := d.Config

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RequestLogger(d.Log))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET(cfg.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	cajaRepo := infraRepo.NewCajaGormRepository(db)
	chatRepo := infraRepo.NewChatGormRepository(db)
	paymentRepo := infraRepo.NewPaymentGormRepository(db)

	hooks := usecase.Hooks{
		Audit:   d.Audit,
		Events:  d.Broker,
		Metrics: d.Metrics,
		Log:     d.Log,
	}

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	changeStatusUC := ucAppointment.NewChangeStatus(appointmentRepo, hooks)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo)

	appointmentUC := handlers.AppointmentUseCases{
		Create:       ucAppointment.NewCreatePrivateAppointment(appointmentRepo, hooks),
		ChangeStatus: changeStatusUC,
		Complete:     ucAppointment.NewCompleteAppointment(changeStatusUC),
		Cancel:       ucAppointment.NewCancelAppointment(changeStatusUC),
		Reschedule:   ucAppointment.NewRescheduleAppointment(appointmentRepo, hooks),
		ListByDate:   ucAppointment.NewListAppointmentsByDate(appointmentRepo),
		ListByMonth:  ucAppointment.NewListAppointmentsByMonth(appointmentRepo),
		Calendar:     ucAppointment.NewGetCalendar(appointmentRepo),
		Kanban:       ucAppointment.NewGetKanban(appointmentRepo),
		Availability: availabilityUC,
	}

	cajaUC := handlers.CajaUseCases{
		Register: ucCaja.NewRegisterMovement(cajaRepo, hooks),
		Void:     ucCaja.NewVoidMovement(cajaRepo, hooks),
		List:     ucCaja.NewListMovements(cajaRepo),
		Summary:  ucCaja.NewGetSummary(cajaRepo),
		Close:    ucCaja.NewCloseCaja(cajaRepo, hooks),
		Closings: ucCaja.NewListClosings(cajaRepo),
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg, d.Sessions, d.Audit, d.Log)
	meHandler := handlers.NewMeHandler(db)
	barbershopHandler := handlers.NewBarbershopHandler(db, d.Audit)
	branchHandler := handlers.NewBranchHandler(db, d.Audit)
	barberHandler := handlers.NewBarberHandler(db, d.Uploader, d.Audit, d.Log)
	serviceHandler := handlers.NewServiceHandler(db, d.Audit)
	workingHoursHandler := handlers.NewWorkingHoursHandler(db, d.Audit)
	clientHandler := handlers.NewClientHandler(db, d.Audit)

	appointmentHandler := handlers.NewAppointmentHandler(appointmentRepo, appointmentUC)
	bloqueoHandler := handlers.NewBloqueoHandler(
		ucBloqueo.NewCreateBloqueo(appointmentRepo, hooks),
		ucBloqueo.NewDeleteBloqueo(appointmentRepo, hooks),
		ucBloqueo.NewListBloqueos(appointmentRepo),
	)
	cajaHandler := handlers.NewCajaHandler(cajaUC)

	chatHandler := handlers.NewChatHandler(
		ucChat.NewInbox(chatRepo),
		ucChat.NewSendMessage(chatRepo, d.WhatsApp, hooks),
	)
	paymentHandler := handlers.NewPaymentHandler(
		ucPayment.NewCreatePaymentLink(paymentRepo, d.Payments, hooks),
	)
	webhookHandler := handlers.NewWebhookHandler(
		cfg.WhatsApp,
		ucChat.NewHandleWebhook(chatRepo, hooks, d.Log),
		ucPayment.NewHandleNotification(paymentRepo, d.Payments, hooks, d.Log),
		d.Log,
	)

	statsHandler := handlers.NewStatsHandler(appointmentRepo, stats.NewReporter(db), d.Log)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	realtimeHandler := handlers.NewRealtimeHandler(d.Broker, cfg.AllowedOrigins, d.Log)

	publicHandler := handlers.NewPublicHandler(
		db,
		appointmentRepo,
		availabilityUC,
		ucAppointment.NewCreatePublicAppointment(appointmentRepo, hooks),
	)

	managers := middleware.RequireRole(models.RoleOwner, models.RoleAdmin)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 API PÚBLICA
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/:slug/services", publicHandler.ListServices)
			publicAPI.GET("/:slug/branches", publicHandler.ListBranches)
			publicAPI.GET("/:slug/barbers", publicHandler.ListBarbers)
			publicAPI.GET("/:slug/availability", publicHandler.Availability)
			publicAPI.POST("/:slug/appointments", publicHandler.CreateAppointment)
		}

		// ------------------------------
		// 🔔 WEBHOOKS
		// ------------------------------
		webhooks := api.Group("/webhooks")
		{
			webhooks.GET("/whatsapp", webhookHandler.VerifyWhatsApp)
			webhooks.POST("/whatsapp", webhookHandler.WhatsApp)
			webhooks.POST("/mercadopago", webhookHandler.MercadoPago)
		}

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		auth := middleware.AuthMiddleware(cfg, d.Sessions)

		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", auth, authHandler.Logout)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		me := api.Group("/me")
		me.Use(auth)
		{
			me.GET("", meHandler.GetMe)
			me.GET("/ws", realtimeHandler.Stream)

			me.GET("/barbershop", barbershopHandler.GetMeBarbershop)
			me.PATCH("/barbershop", managers, barbershopHandler.UpdateMeBarbershop)

			me.GET("/branches", branchHandler.List)
			me.POST("/branches", managers, branchHandler.Create)
			me.PATCH("/branches/:id", managers, branchHandler.Update)
			me.DELETE("/branches/:id", managers, branchHandler.Delete)

			me.GET("/barbers", barberHandler.List)
			me.POST("/barbers", managers, barberHandler.Create)
			me.PATCH("/barbers/:id", managers, barberHandler.Update)
			me.POST("/barbers/:id/avatar", barberHandler.UploadAvatar)
			me.GET("/barbers/:id/working-hours", workingHoursHandler.Get)
			me.PUT("/barbers/:id/working-hours", managers, workingHoursHandler.Update)

			me.GET("/working-hours", workingHoursHandler.Get)
			me.PUT("/working-hours", workingHoursHandler.Update)

			me.GET("/services", serviceHandler.List)
			me.POST("/services", managers, serviceHandler.Create)
			me.PATCH("/services/:id", managers, serviceHandler.Update)

			me.GET("/clients", clientHandler.List)
			me.POST("/clients", clientHandler.Create)
			me.GET("/clients/:id", clientHandler.Get)
			me.PATCH("/clients/:id", clientHandler.Update)
			me.DELETE("/clients/:id", managers, clientHandler.Delete)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			me.POST("/appointments", appointmentHandler.Create)
			me.GET("/appointments", appointmentHandler.ListByDate)
			me.GET("/appointments/month", appointmentHandler.ListByMonth)
			me.PATCH("/appointments/:id/status", appointmentHandler.ChangeStatus)
			me.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			me.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			me.PATCH("/appointments/:id/reschedule", appointmentHandler.Reschedule)
			me.POST("/appointments/:id/payment-link", paymentHandler.CreateLink)

			me.GET("/calendar", appointmentHandler.Calendar)
			me.GET("/kanban", appointmentHandler.Kanban)
			me.GET("/availability", appointmentHandler.Availability)

			me.GET("/bloqueos", bloqueoHandler.List)
			me.POST("/bloqueos", bloqueoHandler.Create)
			me.DELETE("/bloqueos/:id", bloqueoHandler.Delete)

			// ------------------------------
			// CAJA
			// ------------------------------
			caja := me.Group("/caja", managers)
			{
				caja.POST("/movements", cajaHandler.RegisterMovement)
				caja.GET("/movements", cajaHandler.ListMovements)
				caja.POST("/movements/:id/void", cajaHandler.VoidMovement)
				caja.GET("/summary", cajaHandler.Summary)
				caja.POST("/closings", cajaHandler.Close)
				caja.GET("/closings", cajaHandler.ListClosings)
			}

			// ------------------------------
			// CHAT
			// ------------------------------
			me.GET("/conversations", chatHandler.ListConversations)
			me.GET("/conversations/:id/messages", chatHandler.ListMessages)
			me.POST("/conversations/:id/messages", chatHandler.SendMessage)
			me.PATCH("/conversations/:id/read", chatHandler.MarkRead)
			me.PATCH("/conversations/:id/archive", chatHandler.Archive)

			me.GET("/stats", managers, statsHandler.Get)
			me.GET("/audit-logs", managers, auditLogsHandler.List)
		}
	}
}
