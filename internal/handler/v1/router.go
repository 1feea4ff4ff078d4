package v1

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medisched/medisched-api/internal/config"
	"github.com/medisched/medisched-api/internal/domain"
	"github.com/medisched/medisched-api/pkg/auth"
	"github.com/medisched/medisched-api/pkg/metrics"
)

type RouterDeps struct {
	Config       *config.Config
	JWTManager   *auth.JWTManager
	Collector    *metrics.Collector
	Logger       *zap.Logger
	Auth         *AuthHandler
	Directory    *DirectoryHandler
	Patient      *PatientHandler
	Availability *AvailabilityHandler
	Appointment  *AppointmentHandler
	Dashboard    *DashboardHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(deps.Logger))
	r.Use(MetricsMiddleware(deps.Collector))
	r.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.CORS.AllowedOrigins,
		AllowMethods: deps.Config.CORS.AllowedMethods,
		AllowHeaders: deps.Config.CORS.AllowedHeaders,
		MaxAge:       deps.Config.CORS.MaxAge,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", deps.Auth.Login)
		authGroup.POST("/signup", deps.Auth.Signup)
		authGroup.POST("/refresh", deps.Auth.Refresh)
		authGroup.POST("/change-password", AuthMiddleware(deps.JWTManager), deps.Auth.ChangePassword)
	}

	authed := api.Group("")
	authed.Use(AuthMiddleware(deps.JWTManager))
	{
		authed.GET("/dashboard", deps.Dashboard.View)

		// Patient self-service
		me := authed.Group("/patients/me", RequireRole(domain.RolePatient))
		{
			me.GET("", deps.Patient.GetProfile)
			me.PUT("", deps.Patient.UpdateProfile)
		}

		// Doctor self-service
		doctorMe := authed.Group("/doctors/me", RequireRole(domain.RoleDoctor))
		{
			doctorMe.GET("", deps.Directory.GetOwnDoctorProfile)
			doctorMe.PUT("", deps.Directory.UpdateOwnDoctorProfile)
		}

		// Directory
		authed.GET("/departments", deps.Directory.ListDepartments)
		authed.POST("/departments", RequireRole(domain.RoleAdmin), deps.Directory.CreateDepartment)
		authed.GET("/doctors", deps.Directory.ListDoctors)
		authed.POST("/doctors", RequireRole(domain.RoleAdmin), deps.Directory.CreateDoctor)
		authed.GET("/patients", RequireRole(domain.RoleAdmin), deps.Directory.ListPatients)

		// Availability
		authed.POST("/availability", RequireRole(domain.RoleAdmin, domain.RoleDoctor), deps.Availability.Declare)
		authed.GET("/doctors/:id/availability", deps.Availability.ListForDoctor)

		// Appointments and treatments
		appts := authed.Group("/appointments")
		{
			appts.POST("", RequireRole(domain.RoleAdmin, domain.RolePatient), deps.Appointment.Book)
			appts.GET("", deps.Appointment.List)
			appts.GET("/:id", deps.Appointment.Get)
			appts.POST("/:id/cancel", RequireRole(domain.RoleAdmin, domain.RolePatient), deps.Appointment.Cancel)
			appts.POST("/:id/treatment", RequireRole(domain.RoleAdmin, domain.RoleDoctor), deps.Appointment.RecordTreatment)
			appts.GET("/:id/treatment", deps.Appointment.GetTreatment)
		}
	}

	return r
}
