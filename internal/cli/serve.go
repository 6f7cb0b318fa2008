package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trading-agents-go/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := server.New(appLog, appAdvise, appCfg.Server.Port)
		appLog.Info("Starting dashboard server", zap.String("address", srv.Addr))
		return srv.ListenAndServe()
	},
}
