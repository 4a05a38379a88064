package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "guardian",
	Short: "Trade Guardian - 決算ベースの銘柄スクリーニング",
	Long: `Trade Guardian CLI

J-Quants決算データによる業種スクリーニングと監視リスト管理。

Usage:
  go run ./cmd/guardian [command]

Examples:
  go run ./cmd/guardian screen --sector 情報・通信業
  go run ./cmd/guardian watch status
  go run ./cmd/guardian api
  go run ./cmd/guardian schedule`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
