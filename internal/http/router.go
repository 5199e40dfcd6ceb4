// README: HTTP router registration.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hail/internal/http/handlers"
	"hail/internal/http/middleware"
	"hail/internal/modules/admin"
	"hail/internal/modules/driver"
	"hail/internal/modules/ride"
	"hail/internal/modules/user"
)

type RouterDeps struct {
	Users    *user.Service
	Drivers  *driver.Service
	Rides    *ride.Service
	Admin    *admin.Service
	Verifier middleware.TokenVerifier
	Tokens   handlers.TokenIssuer
	Logger   *slog.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Users, deps.Tokens)
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", middleware.Auth(deps.Verifier), authHandler.Me)
		authGroup.PATCH("/me", middleware.Auth(deps.Verifier), authHandler.UpdateMe)
	}

	rideHandler := handlers.NewRideHandler(deps.Rides)
	driverHandler := handlers.NewDriverHandler(deps.Rides, deps.Drivers)
	rides := r.Group("/api/rides")
	{
		// Rider routes.
		rides.POST("/request", middleware.Auth(deps.Verifier, user.RoleRider), rideHandler.Request)
		rides.PATCH("/:id/cancel", middleware.Auth(deps.Verifier, user.RoleRider), rideHandler.Cancel)
		rides.GET("/history/rider", middleware.Auth(deps.Verifier, user.RoleRider), rideHandler.RiderHistory)
		rides.GET("/active/rider", middleware.Auth(deps.Verifier, user.RoleRider), rideHandler.RiderActive)
		// Driver routes.
		rides.GET("/requests", middleware.Auth(deps.Verifier, user.RoleDriver), driverHandler.Pending)
		rides.PATCH("/:id/accept", middleware.Auth(deps.Verifier, user.RoleDriver), driverHandler.Accept)
		rides.PATCH("/:id/reject", middleware.Auth(deps.Verifier, user.RoleDriver), driverHandler.Reject)
		rides.PATCH("/:id/status", middleware.Auth(deps.Verifier, user.RoleDriver), driverHandler.Advance)
		rides.GET("/history/driver", middleware.Auth(deps.Verifier, user.RoleDriver), driverHandler.DriverHistory)
		rides.GET("/active/driver", middleware.Auth(deps.Verifier, user.RoleDriver), driverHandler.DriverActive)
		// Shared detail view.
		rides.GET("/:id", middleware.Auth(deps.Verifier), rideHandler.Get)
	}

	drivers := r.Group("/api/drivers", middleware.Auth(deps.Verifier, user.RoleDriver))
	{
		drivers.PATCH("/availability", driverHandler.SetAvailability)
		drivers.GET("/earnings", driverHandler.Earnings)
		drivers.GET("/earnings/monthly", driverHandler.MonthlyEarnings)
	}

	adminHandler := handlers.NewAdminHandler(deps.Users, deps.Drivers, deps.Rides, deps.Admin)
	adminGroup := r.Group("/api/admin", middleware.Auth(deps.Verifier, user.RoleAdmin))
	{
		adminGroup.GET("/users", adminHandler.ListUsers)
		adminGroup.GET("/drivers", adminHandler.ListDrivers)
		adminGroup.GET("/rides", adminHandler.ListRides)
		adminGroup.GET("/analytics", adminHandler.Analytics)
		adminGroup.PATCH("/drivers/:userId/approval", adminHandler.SetApproval)
		adminGroup.PATCH("/users/:userId/block", adminHandler.SetBlocked)
	}

	return r
}
