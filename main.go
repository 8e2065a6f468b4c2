package main

import (
	"fmt"
	"leadboard/config"
	"leadboard/utils"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "leadboard",
	Short: "Multi-tenant lead and campaign dashboard",
	Long: `Leadboard tracks outreach campaigns and the leads in them.

Available commands:
  serve   - Run the HTTP API
  migrate - Apply or roll back database migrations
  seed    - Fill a user's account with sample data
  user    - Manage user accounts`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		utils.Log.SetLevel(utils.ParseLogLevel(cfg.Log.Level))
		utils.Log.SetFormat(cfg.Log.Format)

		if err := utils.InitI18n(); err != nil {
			utils.Log.Error("Failed to initialize i18n: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "Path to the TOML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(userCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
