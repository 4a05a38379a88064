package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkohno/guardian/internal/api"
	"github.com/tkohno/guardian/internal/api/handlers"
	"github.com/tkohno/guardian/internal/external/jquants"
	"github.com/tkohno/guardian/internal/external/kabutan"
	"github.com/tkohno/guardian/internal/screening"
	"github.com/tkohno/guardian/internal/watchlist"
	"github.com/tkohno/guardian/pkg/config"
	"github.com/tkohno/guardian/pkg/httputil"
	"github.com/tkohno/guardian/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API サーバー起動",
	Long: `REST API サーバーを起動します。

Endpoints:
  GET    /health                 - Health check
  POST   /api/screen             - 業種スクリーニング実行
  GET    /api/screen/ws          - スクリーニング進捗 (WebSocket)
  GET    /api/watchlist          - 監視リスト取得
  POST   /api/watchlist          - 銘柄追加
  DELETE /api/watchlist/{code}   - 銘柄削除
  GET    /api/watchlist/status   - 損益ステータス取得

Example:
  go run ./cmd/guardian api
  go run ./cmd/guardian api --port 8091`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API サーバーポート")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Trade Guardian API Server ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Create HTTP client
	httpClient := httputil.New(log).WithRateLimit(cfg.JQuants.RateLimit)

	// 4. Create external API clients
	jquantsClient := jquants.NewClient(cfg.JQuants, httpClient, log)
	kabutanClient := kabutan.NewClient(cfg.Kabutan.BaseURL, httpClient, log)

	// 5. Create screening pipeline
	deriver := screening.NewDeriver(screening.DeriverConfig{
		GrowthBase: screening.GrowthBase(cfg.Screening.GrowthBase),
	})
	classifier := screening.NewClassifier(screening.DefaultClassifierConfig())
	commentator := screening.NewCommentator(screening.DefaultCommentaryConfig())

	screener := screening.NewScreener(
		jquantsClient, jquantsClient, kabutanClient,
		deriver, classifier, commentator, log,
	)

	// 6. Create watch list store and monitor
	store := watchlist.NewStore(cfg.Watch.FilePath, log)
	monitor := watchlist.NewMonitor(store, kabutanClient, watchlist.DefaultThresholds(), log)

	// 7. Create handlers
	hub := handlers.NewProgressHub(log)
	screeningHandler := handlers.NewScreeningHandler(
		jquantsClient, screener, hub, cfg.Screening.DefaultLimit, log,
	)
	watchHandler := handlers.NewWatchlistHandler(store, monitor, log)

	// 8. Create router
	router := api.NewRouter(screeningHandler, watchHandler, log)

	// 9. Create server
	server := api.New(cfg, log, router)

	// 10. Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET    /health")
	fmt.Println("  POST   /api/screen")
	fmt.Println("  GET    /api/screen/ws")
	fmt.Println("  GET    /api/watchlist")
	fmt.Println("  POST   /api/watchlist")
	fmt.Println("  DELETE /api/watchlist/{code}")
	fmt.Println("  GET    /api/watchlist/status")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
