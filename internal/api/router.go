package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ngo-crm/feedback-crm/docs"
	"github.com/ngo-crm/feedback-crm/internal/api/handler"
	"github.com/ngo-crm/feedback-crm/internal/api/middleware"
	"github.com/ngo-crm/feedback-crm/internal/core/domain"
	"github.com/ngo-crm/feedback-crm/internal/core/ports"
)

// Dependencies are the services the HTTP surface is built on.
type Dependencies struct {
	Identity  ports.IdentityService
	Tasks     ports.TaskService
	Tokens    handler.TokenIssuer
	JWTSecret string
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Identity, deps.Tokens)
	userHandler := handler.NewUserHandler(deps.Identity)
	taskHandler := handler.NewTaskHandler(deps.Tasks)
	feedbackHandler := handler.NewFeedbackHandler(deps.Tasks)
	authMiddleware := middleware.Auth(deps.JWTSecret, deps.Identity)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authMiddleware)

	// --- Authenticated API ---
	v1 := e.Group("/v1", authMiddleware)
	v1.GET("/me", authHandler.Me)

	users := v1.Group("/users", middleware.RBAC(domain.PermManageUsers))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/stats", userHandler.Stats)
	users.PATCH("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	v1.POST("/feedback", feedbackHandler.Submit, middleware.RBAC(domain.PermSubmitFeedback))

	v1.GET("/tasks", taskHandler.List)
	v1.GET("/tasks/stats", taskHandler.Stats)
	v1.GET("/tasks/:id", taskHandler.Get)
	v1.PATCH("/tasks/:id/status", taskHandler.UpdateStatus, middleware.RBAC(domain.PermEditTasks))
	v1.PATCH("/tasks/:id/assignee", taskHandler.Assign, middleware.RBAC(domain.PermEditTasks))
	v1.DELETE("/tasks/:id", taskHandler.Delete, middleware.RBAC(domain.PermDeleteTasks))

	v1.GET("/analytics", taskHandler.Analytics, middleware.RBAC(domain.PermViewAnalytics))

	// --- API docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
