package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trading-agents-go/internal/advisor"
	"trading-agents-go/internal/agents"
	"trading-agents-go/internal/config"
	"trading-agents-go/internal/database"
	"trading-agents-go/internal/llm"
	"trading-agents-go/internal/logger"
	"trading-agents-go/internal/marketdata"
	"trading-agents-go/internal/store"
)

var (
	cfgPath   string
	logLevel  string
	appCfg    config.Config
	appLog    *zap.Logger
	appAdvise *advisor.Advisor
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "LLM-backed trading recommendations with a persisted audit trail",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if appAdvise != nil {
			return nil
		}

		cfg, err := config.LoadConfig(cfgPath)
		if err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
		if logLevel != "" {
			cfg.Logger.Level = logLevel
		}

		log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
		if err != nil {
			return fmt.Errorf("could not initialize logger: %w", err)
		}

		db, err := database.NewDatabase(cfg.Database.DSN)
		if err != nil {
			return err
		}

		var completer llm.Completer
		if cfg.LLM.ApiKey != "" {
			completer = llm.NewClient(&cfg.LLM, log)
		} else {
			log.Warn("No LLM api key configured, using noop completer (always HOLD)")
			completer = llm.NewNoopCompleter()
		}

		gateway := marketdata.NewGateway(&cfg, log)
		orch := agents.NewOrchestrator(completer, log)
		recorder := store.NewRecorder(db, log)

		appCfg = cfg
		appLog = log
		appAdvise = advisor.New(log, gateway, orch, recorder)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "./configs", "Path to the configuration directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log level defined in config")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
