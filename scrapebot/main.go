package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"scrapebot/config"
	"scrapebot/controllers"
	"scrapebot/routes"
	"scrapebot/services/ai"
	"scrapebot/services/chatbot"
	"scrapebot/services/llm"
	"scrapebot/services/scraper"
	"scrapebot/sources/psql"
	"scrapebot/sources/psql/dao"
	"scrapebot/sources/storage"
	"scrapebot/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The database and the object store are optional collaborators. When one
	// is unreachable the server still runs; persistence and exports are
	// skipped.
	var pages *dao.PageDAO
	var gateway chatbot.PersistenceGateway
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.AppLogger.Warn("database unreachable, running without persistence", zap.Error(err))
	} else {
		defer db.Close()
		pages = dao.NewPageDAO(db.DB)
		gateway = pages
	}

	var exports *storage.ExportStore
	if cfg.MinIOEndpoint != "" {
		exports, err = storage.NewExportStore(cfg)
		if err != nil {
			logging.AppLogger.Warn("object store unreachable, running without exports", zap.Error(err))
			exports = nil
		}
	}

	store := chatbot.NewStore(cfg, gateway)
	chatCtrl := controllers.NewChatController(store)
	authCtrl := controllers.NewAuthController(cfg)
	healthCtrl := controllers.NewHealthController()

	scr := scraper.New(scraper.Config{
		Delay:         cfg.ScrapeDelay,
		Timeout:       cfg.FetchTimeout,
		RespectRobots: cfg.RespectRobots,
	})
	analyzer := ai.NewAnalyzer(llm.NewClient(cfg.AIProvider, cfg), cfg.MaxSummaryWords)
	scrapeCtrl := controllers.NewScrapeController(scr, analyzer, exports, pages)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Mount("/health", routes.HealthRoutes(healthCtrl))
	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))
	r.Mount("/scrape", routes.ScrapeRoutes(scrapeCtrl, cfg))

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
