package cmd

import (
	"context"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/orcrobert/mpp/pkg/config"
	"github.com/orcrobert/mpp/pkg/mpband/auth"
	"github.com/orcrobert/mpp/pkg/mpband/monitor"
	"github.com/orcrobert/mpp/pkg/mpdb"
	"github.com/orcrobert/mpp/pkg/mpdb/stor"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mpbandd",
	Short: "Run the band catalog API server",
	Long:  ``,
	Run: func(cmd *cobra.Command, args []string) {
		e := echo.New()
		e.HideBanner = true
		e.HidePort = true
		e.Use(middleware.Recover())

		c := config.MustLoadFromDotenv()
		db := mpdb.MustConnectToDB()
		stors := stor.NewGormStors(db)

		issuer := auth.NewTokenIssuer(c.MustGetKey("MP_JWT_SECRET"))

		checkInterval := time.Duration(c.GetIntKeyWithDefault("MP_MONITOR_INTERVAL", 300)) * time.Second
		activityMonitor := monitor.NewActivityMonitor(
			monitor.WithUserStor(stors.UserStor),
			monitor.WithUserLogStor(stors.UserLogStor),
			monitor.WithMonitoredUserStor(stors.MonitoredUserStor),
			monitor.WithCheckInterval(checkInterval),
		)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go activityMonitor.Run(ctx)

		setupRoutes(e, RouteOpts{
			stors:           stors,
			issuer:          issuer,
			activityMonitor: activityMonitor,
		})

		if err := e.Start(":" + c.GetKeyWithDefault("MPBANDD_PORT", "1355")); err != nil {
			log.Fatalf("Unable to start server: %v", err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
