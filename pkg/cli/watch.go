package cli

import (
	"bufio"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rimetools/udbclean/pkg/plog"
)

func init() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Read input lines from stdin and clean when the trigger arrives",
		Long: "watch reads one candidate input per line from stdin, the way an input\n" +
			"method host would hand them over. A line equal to the configured trigger\n" +
			"starts a background cleanup pass; every other line is ignored.",
		Run: runWatch,
	}

	RootCmd.AddCommand(cmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("config", err)
	}
	cfg.LogSummary()

	eng := buildEngine(cfg)
	plog.Info("Watching stdin for trigger input", "trigger", cfg.TriggerInput)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		eng.ProcessInput(scanner.Text(), nil)
	}
	if err := scanner.Err(); err != nil {
		plog.Warn("Stopped reading input", "error", err)
	}

	// A pass started by the last line may still be running.
	for eng.Busy() {
		time.Sleep(50 * time.Millisecond)
	}
}
