package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tkohno/guardian/internal/contracts"
	"github.com/tkohno/guardian/internal/external/kabutan"
	"github.com/tkohno/guardian/internal/notify"
	"github.com/tkohno/guardian/internal/watchlist"
	"github.com/tkohno/guardian/pkg/config"
	"github.com/tkohno/guardian/pkg/httputil"
	"github.com/tkohno/guardian/pkg/logger"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "監視リスト管理",
	Long: `監視リストの銘柄を管理し、現在価格と損益を確認します。

Subcommands:
  add     - 銘柄を追加 (code と取得単価)
  remove  - 銘柄を削除
  list    - 登録銘柄一覧
  status  - 現在価格を取得して損益ステータスを表示

Example:
  go run ./cmd/guardian watch add 7203 2500
  go run ./cmd/guardian watch remove 7203
  go run ./cmd/guardian watch list
  go run ./cmd/guardian watch status`,
}

var (
	watchAddCmd = &cobra.Command{
		Use:   "add [code] [entry_price]",
		Short: "銘柄を追加",
		Args:  cobra.ExactArgs(2),
		RunE:  runWatchAdd,
	}

	watchRemoveCmd = &cobra.Command{
		Use:   "remove [code]",
		Short: "銘柄を削除",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatchRemove,
	}

	watchListCmd = &cobra.Command{
		Use:   "list",
		Short: "登録銘柄一覧",
		RunE:  runWatchList,
	}

	watchStatusCmd = &cobra.Command{
		Use:   "status",
		Short: "損益ステータスを表示",
		RunE:  runWatchStatus,
	}

	watchNotify bool
)

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.AddCommand(watchAddCmd)
	watchCmd.AddCommand(watchRemoveCmd)
	watchCmd.AddCommand(watchListCmd)
	watchCmd.AddCommand(watchStatusCmd)

	watchStatusCmd.Flags().BoolVar(&watchNotify, "notify", false, "アラート対象をWebhookへ通知")
}

func runWatchAdd(cmd *cobra.Command, args []string) error {
	entry, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid entry price %q: %w", args[1], err)
	}

	store, _, err := initWatchStore()
	if err != nil {
		return err
	}

	item := contracts.WatchItem{Code: args[0], EntryPrice: entry}
	if err := store.Add(item); err != nil {
		return fmt.Errorf("add watch item: %w", err)
	}

	fmt.Printf("✅ Added %s @ %.1f円\n", item.Code, item.EntryPrice)
	return nil
}

func runWatchRemove(cmd *cobra.Command, args []string) error {
	store, _, err := initWatchStore()
	if err != nil {
		return err
	}

	if err := store.Remove(args[0]); err != nil {
		return fmt.Errorf("remove watch item: %w", err)
	}

	fmt.Printf("✅ Removed %s\n", args[0])
	return nil
}

func runWatchList(cmd *cobra.Command, args []string) error {
	store, _, err := initWatchStore()
	if err != nil {
		return err
	}

	items, err := store.Load()
	if err != nil {
		return fmt.Errorf("load watch list: %w", err)
	}

	if len(items) == 0 {
		fmt.Println("監視リストは空です")
		return nil
	}

	fmt.Printf("監視リスト (%d 銘柄):\n", len(items))
	for _, item := range items {
		fmt.Printf("  %s  取得単価 %.1f円\n", item.Code, item.EntryPrice)
	}

	return nil
}

func runWatchStatus(cmd *cobra.Command, args []string) error {
	store, cfg, err := initWatchStore()
	if err != nil {
		return err
	}

	log := logger.New(cfg)
	httpClient := httputil.New(log)
	kabutanClient := kabutan.NewClient(cfg.Kabutan.BaseURL, httpClient, log)
	monitor := watchlist.NewMonitor(store, kabutanClient, watchlist.DefaultThresholds(), log)

	ctx := context.Background()

	snapshots, err := monitor.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh watch list: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Println("監視リストは空です")
		return nil
	}

	for _, snap := range snapshots {
		if snap.Price == nil {
			fmt.Printf("  %s  %s\n", snap.Item.Code, snap.Label)
			continue
		}
		fmt.Printf("  %s  %.1f円 (%+.1f%%)  %s\n",
			snap.Item.Code, *snap.Price, *snap.PnLPercent, snap.Label)
	}

	if watchNotify {
		webhook := notify.NewWebhook(cfg.WebhookURL, httpClient, log)
		if !webhook.Enabled() {
			fmt.Println("\nWEBHOOK_URL が未設定のため通知をスキップしました")
			return nil
		}
		sent := 0
		for _, snap := range snapshots {
			if snap.Status.Alerting() {
				webhook.Alert(ctx, snap)
				sent++
			}
		}
		fmt.Printf("\n📣 %d 件のアラートを通知しました\n", sent)
	}

	return nil
}

func initWatchStore() (*watchlist.Store, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)
	store := watchlist.NewStore(cfg.Watch.FilePath, log)

	return store, cfg, nil
}
