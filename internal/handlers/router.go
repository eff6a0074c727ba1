package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/harentsoaR/medconnect-api/internal/middleware"
	"github.com/harentsoaR/medconnect-api/internal/utils"
)

type RouterConfig struct {
	Tokens      *utils.TokenIssuer
	Users       middleware.UserFinder
	CORSOrigins []string
	Log         *logrus.Logger
}

// NewRouter wires middleware and every route onto a gin engine.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(cfg.Log),
		middleware.Recovery(cfg.Log),
		middleware.CORS(cfg.CORSOrigins),
	)

	r.GET("/", h.Banner)
	r.GET("/health", h.Health)

	protect := middleware.Auth(cfg.Tokens, cfg.Users)

	api := r.Group("/api")

	users := api.Group("/users")
	{
		users.POST("", h.RegisterUser)
		users.POST("/login", h.Login)
		users.GET("/profile", protect, h.GetProfile)
		users.PUT("/profile", protect, h.UpdateProfile)
	}

	doctors := api.Group("/doctors")
	{
		doctors.GET("", h.ListDoctors)
		doctors.POST("", protect, middleware.RequireAdmin(), h.CreateDoctor)
		doctors.GET("/:id", h.GetDoctor)
		doctors.PUT("/:id", protect, h.UpdateDoctor)
	}

	appointments := api.Group("/appointments", protect)
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.GetMyAppointments)
		appointments.GET("/doctor", middleware.RequireDoctor(), h.GetDoctorAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", middleware.RequireDoctor(), h.UpdateAppointment)
		appointments.PUT("/:id/cancel", h.CancelAppointment)
	}

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Not Found - "+c.Request.URL.Path)
	})
	return r
}
