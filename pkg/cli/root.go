// Package cli implements the udbclean CLI commands.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rimetools/udbclean/pkg/config"
	"github.com/rimetools/udbclean/pkg/deployer"
	"github.com/rimetools/udbclean/pkg/dictpath"
	"github.com/rimetools/udbclean/pkg/engine"
	"github.com/rimetools/udbclean/pkg/notify"
)

var configPath string

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "udbclean",
	Short: "Prune invalid entries from Rime user dictionaries",
	Long: "udbclean empties legacy .userdb index folders and rewrites .userdb.txt\n" +
		"sync files, dropping every entry whose commit weight is not positive.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file path (default: ./"+config.ConfigFileName+")")
}

// loadConfig layers the config file over the defaults and validates the
// result. The log level takes effect before the command body runs.
func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = config.ConfigFileName
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	cfg.ApplyLogLevel()
	return cfg, nil
}

// buildEngine wires the engine's collaborators from the configuration.
func buildEngine(cfg config.Config) *engine.Engine {
	resolver := dictpath.New(cfg.Paths.UserDataDir, cfg.Paths.SharedDataDir, cfg.Paths.SyncDir)

	var dep deployer.Deployer = deployer.Null{}
	if cfg.Deployer.Enabled {
		timeout := time.Duration(cfg.Deployer.TimeoutSeconds) * time.Second
		dep = deployer.New(resolver.SharedDataDir(), cfg.Deployer.Executable, timeout)
	}

	return engine.New(cfg, resolver, dep, notify.LogSink{})
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
