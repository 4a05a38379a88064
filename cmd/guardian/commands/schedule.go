package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tkohno/guardian/internal/external/kabutan"
	"github.com/tkohno/guardian/internal/notify"
	"github.com/tkohno/guardian/internal/scheduler"
	"github.com/tkohno/guardian/internal/scheduler/jobs"
	"github.com/tkohno/guardian/internal/watchlist"
	"github.com/tkohno/guardian/pkg/config"
	"github.com/tkohno/guardian/pkg/httputil"
	"github.com/tkohno/guardian/pkg/logger"
)

// scheduleCmd represents the schedule command
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "定期監視の開始",
	Long: `スケジューラを起動し、監視リストの定期更新を行います。

登録されるジョブ:
- watch_refresh: 監視銘柄の価格取得と損益判定 (既定: 平日9-15時 15分毎)
  アラート水準の銘柄はWebhookへ通知されます。

スケジュールは WATCH_SCHEDULE 環境変数 (秒付きcron式) で変更できます。

Subcommands:
  run  - watch_refresh を即時実行

Example:
  go run ./cmd/guardian schedule
  go run ./cmd/guardian schedule run`,
	RunE: runSchedule,
}

var scheduleRunCmd = &cobra.Command{
	Use:   "run",
	Short: "watch_refresh を即時実行",
	RunE:  runScheduleOnce,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
	scheduleCmd.AddCommand(scheduleRunCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Trade Guardian Scheduler ===")

	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	printJobSummary(sched)

	return nil
}

// printJobSummary prints the most recent runs of every registered job
func printJobSummary(sched *scheduler.Scheduler) {
	fmt.Println("\nJob summary:")
	for _, jobName := range sched.GetAllJobs() {
		history, err := sched.GetJobHistory(jobName)
		if err != nil {
			continue
		}

		results := history.GetLatestResults(5)
		if len(results) == 0 {
			fmt.Printf("  %s: no runs\n", jobName)
			continue
		}

		for _, r := range results {
			status := "ok"
			if !r.Success {
				status = "failed: " + r.Error
			}
			fmt.Printf("  %s  %s  %s (%s)\n",
				jobName, r.StartTime.Format("15:04:05"), status,
				r.Duration.Round(time.Millisecond))
		}
	}
}

func runScheduleOnce(cmd *cobra.Command, args []string) error {
	sched, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Println("Running watch_refresh...")

	// Synchronous: the process exits right after this command returns
	if err := sched.RunJobSync("watch_refresh"); err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	fmt.Println("✅ watch_refresh completed")
	return nil
}

func initScheduler() (*scheduler.Scheduler, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Create HTTP client
	httpClient := httputil.New(log)

	// 4. Create price source, store and monitor
	kabutanClient := kabutan.NewClient(cfg.Kabutan.BaseURL, httpClient, log)
	store := watchlist.NewStore(cfg.Watch.FilePath, log)
	monitor := watchlist.NewMonitor(store, kabutanClient, watchlist.DefaultThresholds(), log)

	// 5. Create webhook notifier
	webhook := notify.NewWebhook(cfg.WebhookURL, httpClient, log)

	// 6. Create scheduler and register jobs
	sched := scheduler.New(log)

	if err := sched.AddJob(jobs.NewWatchRefreshJob(monitor, webhook, cfg.Watch.Schedule, log)); err != nil {
		return nil, fmt.Errorf("register watch_refresh: %w", err)
	}

	return sched, nil
}
