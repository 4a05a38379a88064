package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tkohno/guardian/internal/contracts"
	"github.com/tkohno/guardian/internal/external/jquants"
	"github.com/tkohno/guardian/internal/external/kabutan"
	"github.com/tkohno/guardian/internal/screening"
	"github.com/tkohno/guardian/pkg/config"
	"github.com/tkohno/guardian/pkg/httputil"
	"github.com/tkohno/guardian/pkg/logger"
)

// screenCmd represents the screen command
var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "業種スクリーニング実行",
	Long: `指定した業種の銘柄を決算データでスクリーニングします。

各銘柄について:
- 直近2期の決算からメトリクスを算出
- 成長率・利益率でS/A/Bランク分類
- S/Aランクのみを結果として出力

Flags:
  --sector       業種名 (Sector33CodeName, 必須)
  --limit        評価する銘柄数の上限 (既定: 設定値)
  --growth-base  成長率の分母 (strict-positive|nonzero)

Example:
  go run ./cmd/guardian screen --sector 情報・通信業
  go run ./cmd/guardian screen --sector 銀行業 --limit 50
  go run ./cmd/guardian screen --sector 医薬品 --growth-base nonzero`,
	RunE: runScreen,
}

var (
	screenSector     string
	screenLimit      int
	screenGrowthBase string
)

func init() {
	rootCmd.AddCommand(screenCmd)

	// Flags
	screenCmd.Flags().StringVar(&screenSector, "sector", "", "業種名 (必須)")
	screenCmd.Flags().IntVar(&screenLimit, "limit", 0, "評価銘柄数の上限 (0: 設定値)")
	screenCmd.Flags().StringVar(&screenGrowthBase, "growth-base", "", "成長率の分母 (strict-positive|nonzero)")

	screenCmd.MarkFlagRequired("sector")
}

func runScreen(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Trade Guardian Screener ===")

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Flag overrides
	if screenLimit > 0 {
		cfg.Screening.DefaultLimit = screenLimit
	}
	if screenGrowthBase != "" {
		if screenGrowthBase != string(screening.GrowthBaseStrictPositive) &&
			screenGrowthBase != string(screening.GrowthBaseNonZero) {
			return fmt.Errorf("invalid --growth-base %q (strict-positive|nonzero)", screenGrowthBase)
		}
		cfg.Screening.GrowthBase = screenGrowthBase
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

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

	ctx := context.Background()

	// 6. Authenticate
	session, err := jquantsClient.Authenticate(ctx)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	fmt.Printf("\n🔍 Sector: %s (limit %d)\n\n", screenSector, cfg.Screening.DefaultLimit)

	// 7. Screen with console progress
	progress := contracts.ProgressFunc(func(fraction float64, code string) {
		fmt.Printf("\r  %3.0f%%  %s    ", fraction*100, code)
	})

	results, err := screener.Screen(ctx, screenSector, cfg.Screening.DefaultLimit, session, progress)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("screen sector: %w", err)
	}

	// 8. Print results
	if len(results) == 0 {
		fmt.Println("\n条件を満たす銘柄はありませんでした")
		return nil
	}

	fmt.Printf("\n✅ %d 銘柄が条件を満たしました\n\n", len(results))
	for _, r := range results {
		fmt.Printf("  [%s] %s\n", r.Rank, r.Code)
		fmt.Printf("      %s\n", r.Commentary)
		if r.Price != nil {
			if r.PER != nil {
				fmt.Printf("      株価 %.1f円 / PER %.1f倍\n", *r.Price, *r.PER)
			} else {
				fmt.Printf("      株価 %.1f円\n", *r.Price)
			}
		}
	}

	return nil
}
