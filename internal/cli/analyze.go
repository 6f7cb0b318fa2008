package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var executeFlag bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbol]",
	Short: "Run the full agent chain for a symbol and print the results",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbol := appCfg.Advisor.DefaultSymbol
		if len(args) == 1 {
			symbol = args[0]
		}

		session, err := appAdvise.Analyze(cmd.Context(), symbol)
		if err != nil {
			appLog.Warn("Analysis completed with failures", zap.Error(err))
		}

		out, _ := json.MarshalIndent(session.Results(), "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))

		if executeFlag {
			receipt, err := appAdvise.ExecuteTrade(cmd.Context(), symbol)
			if err != nil {
				return err
			}
			receiptOut, _ := json.MarshalIndent(receipt, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(receiptOut))
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&executeFlag, "execute", false, "Persist the final decision and audit entry after analysis")
}
