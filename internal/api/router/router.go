package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/edupulse/deadline-reminder/internal/api/handlers/notification"
	"github.com/edupulse/deadline-reminder/internal/api/handlers/reminder"
	"github.com/edupulse/deadline-reminder/internal/middlewares"
)

// New builds the HTTP router. All API routes require a verified
// student identity.
func New(reminders *reminder.Handler, notifications *notification.Handler) *ginext.Engine {
	e := ginext.New()
	e.Use(middlewares.CORSMiddleware())
	e.Use(ginext.Logger())
	e.Use(ginext.Recovery())

	api := e.Group("/api")
	api.Use(middlewares.RequireStudent())
	{
		api.POST("/reminders", reminders.Create)
		api.GET("/notifications", notifications.List)
		api.GET("/notifications/:id/status", notifications.GetStatus)
		api.PUT("/notifications/:id/read", notifications.MarkRead)
	}

	return e
}
