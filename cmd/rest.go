package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wasched/wasched/config"
	"github.com/wasched/wasched/infrastructure/backend"
	"github.com/wasched/wasched/pkg/utils"
	"github.com/wasched/wasched/repository"
	"github.com/wasched/wasched/ui/rest"
	"github.com/wasched/wasched/ui/rest/middleware"
	uiWebsocket "github.com/wasched/wasched/ui/websocket"
	"github.com/wasched/wasched/usecase"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the scheduler dashboard API over http",
	Run:   restServer,
}

func init() {
	restCmd.Flags().String("backend-url", "", "Base URL of the messaging backend")
	rootCmd.AddCommand(restCmd)
}

func restServer(cmd *cobra.Command, _ []string) {
	cfg := config.Global

	if backendURL, _ := cmd.Flags().GetString("backend-url"); backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}

	if err := utils.CreateFolder(cfg.Paths.Storages); err != nil {
		logrus.Fatalf("failed to create storage folder: %v", err)
	}

	// Outbound client, one instance shared by every consumer.
	backendClient := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	favoritesDB, err := repository.OpenFavoritesDB(cfg.Paths.FavoritesDB)
	if err != nil {
		logrus.Fatalf("failed to open favorites db: %v", err)
	}
	favoritesRepo := repository.NewFavoritesGormRepository(favoritesDB)
	if err := favoritesRepo.Init(context.Background()); err != nil {
		logrus.Fatalf("failed to init favorites db: %v", err)
	}

	// State holders and the orchestrator.
	activityService := usecase.NewActivityService()
	connectionService := usecase.NewConnectionService()
	viewService := usecase.NewViewService()
	submitService := usecase.NewSubmitService(backendClient, backendClient, backendClient, activityService, connectionService)
	syncService := usecase.NewSyncService(backendClient, backendClient, connectionService, viewService, activityService,
		cfg.Sync.StatusInterval, cfg.Sync.ScheduledInterval)
	submitService.SetRefresher(syncService)

	// Live push to connected dashboards.
	activityService.SetNotifier(uiWebsocket.NotifyActivity)
	connectionService.SetNotifier(uiWebsocket.NotifyConnection)
	viewService.SetNotifier(uiWebsocket.NotifyScheduledRefresh)
	go uiWebsocket.RunHub()

	syncCtx, stopSync := context.WithCancel(context.Background())
	syncService.Start(syncCtx)

	app := fiber.New(fiber.Config{
		AppName:      "Wasched Dashboard",
		BodyLimit:    int(cfg.Composer.MaxImageSize) * (cfg.Composer.MaxImages + 1),
		Network:      "tcp",
		ServerHeader: "Hidden",
	})

	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.App.CorsAllowedOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	apiGroup := app.Group(cfg.App.BasePath + "/api")
	rest.InitRestCompose(apiGroup, submitService, viewService)
	rest.InitRestDashboard(apiGroup, backendClient, connectionService, activityService)
	rest.InitRestGroup(apiGroup, backendClient, favoritesRepo, submitService)
	uiWebsocket.RegisterRoutes(app.Group(cfg.App.BasePath))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Termination signal received, shutting down gracefully...")
		stopSync()
		syncService.Stop()
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Fatalln("failed to start server:", err)
	}

	logrus.Info("[REST] Server stopped.")
}
