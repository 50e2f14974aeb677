package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zero-Base-1/DonationTracker/internal/service"
	"github.com/Zero-Base-1/DonationTracker/internal/session"
)

type RouterDeps struct {
	Sessions  *session.Store
	Remember  *service.RememberService
	Auth      *AuthHandler
	Donations *DonationHandler
	Events    *EventHandler
	Reports   *ReportHandler
	Cookies   CookieConfig
	Logger    *zap.Logger
}

func RegisterRoutes(router *gin.Engine, deps RouterDeps) {
	router.GET("/healthz", Ping)

	router.Use(SessionMiddleware(deps.Sessions, deps.Remember, deps.Cookies, deps.Logger))

	router.POST("/signup", deps.Auth.Signup)
	router.POST("/login", deps.Auth.Login)
	router.POST("/logout", deps.Auth.Logout)
	router.POST("/forgot-password", deps.Auth.ForgotPassword)
	router.GET("/reset-password", deps.Auth.ResetContext)
	router.POST("/reset-password", deps.Auth.ResetPassword)
	router.GET("/flash", deps.Auth.Flash)
	router.GET("/me", deps.Auth.Me)

	authed := router.Group("/", RequireAuthenticated(deps.Sessions))
	{
		authed.GET("/dashboard", deps.Reports.Dashboard)
		authed.GET("/reports", deps.Reports.Reports)

		authed.GET("/donations", deps.Donations.List)
		authed.POST("/donations", deps.Donations.Create)
		authed.GET("/donations/:id", deps.Donations.Get)
		authed.PUT("/donations/:id", deps.Donations.Update)
		authed.DELETE("/donations/:id", deps.Donations.Delete)

		authed.GET("/events", deps.Events.List)
		authed.POST("/events", deps.Events.Create)
		authed.GET("/events/:id", deps.Events.Get)
		authed.PUT("/events/:id", deps.Events.Update)
		authed.DELETE("/events/:id", deps.Events.Delete)
	}

	admin := router.Group("/admin", RequireAdmin(deps.Sessions))
	{
		admin.GET("/users", deps.Reports.Users)
		admin.GET("/activity", deps.Reports.Activity)
	}
}
