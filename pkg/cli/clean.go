package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Run one cleanup pass and exit",
		Run:   runClean,
	}

	RootCmd.AddCommand(cmd)
}

func runClean(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	cfg.LogSummary()

	eng := buildEngine(cfg)
	eng.Clean(cmd.Context())
}
