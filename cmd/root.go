package cmd

import (
	"fmt"
	"os"

	"clinic/config"
	"clinic/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// cfg загружается перед выполнением любой подкоманды
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "clinic",
	Short: "Clinic API - appointments, billing and doctor payouts",
	Long: `Clinic API serves the clinic management backend: patients, appointments,
exams, inventory, financial transactions with PIX payments and monthly
doctor payout reconciliation.

Configuration is read from config.yaml (or the file in CLINIC_CONFIG)
and CLINIC_* environment variables. A .env file is loaded when present.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("ошибка чтения .env: %w", err)
		}

		if path, _ := cmd.Flags().GetString("config"); path != "" {
			os.Setenv("CLINIC_CONFIG", path)
		}

		loaded, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("ошибка загрузки конфигурации: %w", err)
		}
		cfg = loaded

		return utils.SetupLogger(utils.LogConfig{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			TimeFormat: cfg.Log.TimeFormat,
			Output:     cfg.Log.Output,
		})
	},
}

// Execute запускает корневую команду
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		utils.WithComponent("cmd").Error().Err(err).Msg("command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default ./config.yaml)")
}
