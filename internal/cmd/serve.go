package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/robinbaebae/sprt/internal/claude/scanner"
	"github.com/robinbaebae/sprt/internal/config"
	"github.com/robinbaebae/sprt/internal/git"
	"github.com/robinbaebae/sprt/internal/git/executor"
	"github.com/robinbaebae/sprt/internal/handlers"
	"github.com/robinbaebae/sprt/internal/logger"
	"github.com/robinbaebae/sprt/internal/services"
	"github.com/robinbaebae/sprt/internal/storage"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local SPRT API server",
	Long: `# 🌐 sprt serve

Starts the HTTP API the menu-bar app polls for usage stats, rate limits,
and devlogs. Binds to localhost only.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 4777, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger.Configure(logger.GetLogLevelFromEnv(true), true)

	runtime := config.Runtime
	logger.Infof("Claude directory: %s", runtime.ClaudeDir)

	sc := scanner.NewScanner(runtime.ProjectsDir)
	harvester := git.NewHarvester(runtime.ProjectsDir, executor.NewGitExecutor())
	store := storage.NewStore(runtime.SprtDir)
	anthropic := services.NewAnthropicService(runtime.CredentialsPath())
	rateLimits := services.NewRateLimitService(anthropic)
	devlogs := services.NewDevLogService(store, harvester, sc, anthropic)

	watcher := services.NewWatcherService(runtime.ProjectsDir, filepath.Join(runtime.SprtDir, "devlogs"))
	if err := watcher.Start(); err != nil {
		logger.Warnf("File watching disabled: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "sprt",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())

	registerRoutes(app, sc, rateLimits, devlogs, watcher)

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Infof("Shutting down")
		watcher.Stop()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf("127.0.0.1:%d", servePort)
	logger.Infof("🏃 SPRT API listening on http://%s", addr)
	return app.Listen(addr)
}

func registerRoutes(app *fiber.App, sc *scanner.Scanner, rateLimits *services.RateLimitService, devlogs *services.DevLogService, watcher *services.WatcherService) {
	claudeHandler := handlers.NewClaudeHandler(sc, rateLimits)
	devlogHandler := handlers.NewDevLogHandler(devlogs)
	eventsHandler := handlers.NewEventsHandler(watcher)

	v1 := app.Group("/v1")

	claude := v1.Group("/claude")
	claude.Get("/stats-cache", claudeHandler.GetStatsCache)
	claude.Get("/sessions", claudeHandler.GetActiveSessions)
	claude.Get("/projects", claudeHandler.GetProjectUsage)
	claude.Get("/realtime", claudeHandler.GetRealtimeStats)
	claude.Get("/rate-limits", claudeHandler.GetRateLimits)

	v1.Post("/devlogs/generate", devlogHandler.Generate)
	v1.Get("/devlogs/:type/:date", devlogHandler.Get)
	v1.Get("/devlogs/:type", devlogHandler.List)

	v1.Get("/git/activity", devlogHandler.GetGitActivity)
	v1.Get("/events", eventsHandler.Poll)
}
