package cmd

import (
	"github.com/labstack/echo/v4"
	"github.com/orcrobert/mpp/pkg/mpband/auth"
	"github.com/orcrobert/mpp/pkg/mpband/monitor"
	"github.com/orcrobert/mpp/pkg/mpband/webapi"
	"github.com/orcrobert/mpp/pkg/mpband/webapi/apimiddleware"
	"github.com/orcrobert/mpp/pkg/mpdb/stor"
)

type RouteOpts struct {
	stors           *stor.Stors
	issuer          *auth.TokenIssuer
	activityMonitor *monitor.ActivityMonitor
}

func setupRoutes(e *echo.Echo, opts RouteOpts) {
	// Band/album routes work without a token; when one is present the
	// user's actions are logged for the activity monitor.
	optionalAuth := apimiddleware.BearerTokenAuth(apimiddleware.BearerTokenConfig{
		Issuer:      opts.issuer,
		GetUserByID: opts.stors.UserStor.GetUserByID,
		Optional:    true,
	})

	requiredAuth := apimiddleware.BearerTokenAuth(apimiddleware.BearerTokenConfig{
		Issuer:      opts.issuer,
		GetUserByID: opts.stors.UserStor.GetUserByID,
	})

	bandController := webapi.NewBandController(opts.stors.BandStor, opts.stors.UserLogStor)
	e.GET("/entities", bandController.ListBands, optionalAuth)
	e.GET("/entities/health", bandController.HealthCheck)
	e.GET("/entities/stats", bandController.CatalogStats)
	e.POST("/entities", bandController.CreateBand, optionalAuth)
	e.PUT("/entities/:id", bandController.UpdateBand, optionalAuth)
	e.DELETE("/entities/:id", bandController.DeleteBand, optionalAuth)

	albumController := webapi.NewAlbumController(opts.stors.AlbumStor, opts.stors.UserLogStor)
	e.POST("/bands/:bandId/albums", albumController.CreateAlbum, optionalAuth)
	e.GET("/bands/:bandId/albums", albumController.ListAlbums)

	g := e.Group("/api")

	authController := webapi.NewAuthController(opts.stors.UserStor, opts.issuer)
	g.POST("/auth/login", authController.Login)
	g.POST("/auth/register", authController.Register)
	g.GET("/auth/verify", authController.Verify, requiredAuth)

	monitoringController := webapi.NewMonitoringController(opts.stors.MonitoredUserStor, opts.activityMonitor)
	g.GET("/monitoring", monitoringController.ListMonitoredUsers, requiredAuth, apimiddleware.AdminOnly)
	g.POST("/start-monitoring", monitoringController.StartMonitoring, requiredAuth, apimiddleware.AdminOnly)
}
