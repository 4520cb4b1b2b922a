package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rimetools/udbclean/pkg/dictbackup"
	"github.com/rimetools/udbclean/pkg/plog"
	"github.com/rimetools/udbclean/pkg/util"
)

// ConfigFileName is the name of the configuration file.
const ConfigFileName = "udbclean.yaml"

// PathsConfig supplies the directory-resolution inputs. SyncDir may stay
// empty; the resolver then falls back to installation metadata and the
// conventional sync subdirectory.
type PathsConfig struct {
	UserDataDir   string `yaml:"user_data_dir"`
	SharedDataDir string `yaml:"shared_data_dir"`
	SyncDir       string `yaml:"sync_dir"`
}

// DeployerConfig controls the optional external deployer invocations around a
// cleanup pass.
type DeployerConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Executable string `yaml:"executable"`
	// PreCommands/PostCommands are directives passed to the executable one at
	// a time, before and after the pass.
	PreCommands    []string `yaml:"pre_commands"`
	PostCommands   []string `yaml:"post_commands"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

// BackupConfig controls the pre-clean compressed snapshot of each text file.
type BackupConfig struct {
	Enabled bool              `yaml:"enabled"`
	Format  dictbackup.Format `yaml:"format"`
}

// EngineConfig holds performance knobs for the cleanup pass.
type EngineConfig struct {
	// CompactWorkers bounds how many text files are compacted concurrently.
	CompactWorkers int `yaml:"compact_workers"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `yaml:"level"` // debug / info / quiet
}

// Config is the full engine configuration.
type Config struct {
	TriggerInput           string         `yaml:"trigger_input"`
	CleanupUserdbList      []string       `yaml:"cleanup_userdb_list"`
	FullInformationDisplay bool           `yaml:"full_information_display"`
	Paths                  PathsConfig    `yaml:"paths"`
	Deployer               DeployerConfig `yaml:"deployer"`
	Backup                 BackupConfig   `yaml:"backup"`
	Engine                 EngineConfig   `yaml:"engine"`
	Log                    LogConfig      `yaml:"log"`
}

// NewDefault creates a Config with sensible defaults. Environment variables
// (UDBCLEAN_*) override the built-in values; a config file, when present,
// overrides both.
func NewDefault() Config {
	return Config{
		TriggerInput:           envOr("UDBCLEAN_TRIGGER_INPUT", "/del"),
		CleanupUserdbList:      nil,   // Empty list means every dictionary is cleaned.
		FullInformationDisplay: false, // Only the aggregate count by default.
		Paths: PathsConfig{
			UserDataDir:   envOr("UDBCLEAN_USER_DATA_DIR", ""), // Intentionally empty to force user configuration.
			SharedDataDir: envOr("UDBCLEAN_SHARED_DATA_DIR", ""),
			SyncDir:       envOr("UDBCLEAN_SYNC_DIR", ""),
		},
		Deployer: DeployerConfig{
			Enabled:        false,
			Executable:     "WeaselDeployer.exe",
			PreCommands:    []string{"/deploy", "/sync"}, // Deploy then pull the latest snapshots before cleaning.
			PostCommands:   []string{"/sync", "/deploy"}, // Push the compacted snapshots back, then redeploy.
			TimeoutSeconds: 10,
		},
		Backup: BackupConfig{
			Enabled: false,
			Format:  dictbackup.Gzip,
		},
		Engine: EngineConfig{
			CompactWorkers: 4, // Safe for HDDs, decent for SSDs.
		},
		Log: LogConfig{
			Level: envOr("UDBCLEAN_LOG_LEVEL", "info"),
		},
	}
}

// Load reads the configuration file at path on top of the defaults. A missing
// file is a normal case and yields the defaults without an error; a file that
// exists but fails to parse is an error.
func Load(path string) (Config, error) {
	cfg := NewDefault()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("error opening config file %s: %w", path, err)
	}

	plog.Info("Loading configuration", "path", path)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for logical errors and normalizes paths.
func (c *Config) Validate() error {
	if c.TriggerInput == "" {
		return fmt.Errorf("trigger_input cannot be empty")
	}
	if c.Paths.UserDataDir == "" {
		return fmt.Errorf("paths.user_data_dir cannot be empty")
	}

	var err error
	c.Paths.UserDataDir, err = util.ExpandPath(c.Paths.UserDataDir)
	if err != nil {
		return fmt.Errorf("could not expand user data dir: %w", err)
	}
	c.Paths.UserDataDir = filepath.Clean(c.Paths.UserDataDir)

	if c.Paths.SharedDataDir != "" {
		c.Paths.SharedDataDir, err = util.ExpandPath(c.Paths.SharedDataDir)
		if err != nil {
			return fmt.Errorf("could not expand shared data dir: %w", err)
		}
		c.Paths.SharedDataDir = filepath.Clean(c.Paths.SharedDataDir)
	}

	if c.Paths.SyncDir != "" {
		c.Paths.SyncDir, err = util.ExpandPath(c.Paths.SyncDir)
		if err != nil {
			return fmt.Errorf("could not expand sync dir: %w", err)
		}
		c.Paths.SyncDir = filepath.Clean(c.Paths.SyncDir)
	}

	for _, name := range c.CleanupUserdbList {
		if name == "" {
			return fmt.Errorf("cleanup_userdb_list must not contain empty names")
		}
		if strings.ContainsAny(name, `\/`) {
			return fmt.Errorf("cleanup_userdb_list entry %q cannot contain path separators ('/' or '\\')", name)
		}
	}

	if c.Deployer.Enabled && c.Deployer.Executable == "" {
		return fmt.Errorf("deployer.executable cannot be empty when the deployer is enabled")
	}
	if c.Deployer.TimeoutSeconds < 0 {
		return fmt.Errorf("deployer.timeout_seconds cannot be negative")
	}

	if c.Backup.Enabled {
		if _, err := dictbackup.ParseFormat(c.Backup.Format.String()); err != nil {
			return err
		}
	}

	if c.Engine.CompactWorkers < 1 {
		return fmt.Errorf("engine.compact_workers must be at least 1")
	}

	switch c.Log.Level {
	case "debug", "info", "quiet":
	default:
		return fmt.Errorf("invalid log level: %q. Must be 'debug', 'info' or 'quiet'", c.Log.Level)
	}
	return nil
}

// LogSummary prints a user-friendly summary of the configuration.
func (c *Config) LogSummary() {
	logArgs := []interface{}{
		"trigger_input", c.TriggerInput,
		"log_level", c.Log.Level,
		"user_data_dir", c.Paths.UserDataDir,
		"full_display", c.FullInformationDisplay,
		"compact_workers", c.Engine.CompactWorkers,
	}
	if c.Paths.SharedDataDir != "" {
		logArgs = append(logArgs, "shared_data_dir", c.Paths.SharedDataDir)
	}
	if c.Paths.SyncDir != "" {
		logArgs = append(logArgs, "sync_dir", c.Paths.SyncDir)
	}
	if len(c.CleanupUserdbList) > 0 {
		logArgs = append(logArgs, "cleanup_userdb_list", strings.Join(c.CleanupUserdbList, ", "))
	}
	if c.Deployer.Enabled {
		deployerSummary := fmt.Sprintf("enabled (e:%s t:%ds)", c.Deployer.Executable, c.Deployer.TimeoutSeconds)
		logArgs = append(logArgs, "deployer", deployerSummary)
	}
	if c.Backup.Enabled {
		logArgs = append(logArgs, "backup", fmt.Sprintf("enabled (f:%s)", c.Backup.Format))
	}
	plog.Info("Configuration loaded", logArgs...)
}

// ApplyLogLevel configures the global logger from the config.
func (c *Config) ApplyLogLevel() {
	plog.SetQuiet(c.Log.Level == "quiet")
	plog.SetDebug(c.Log.Level == "debug")
}

// envOr returns the environment value for key, or fallback when unset.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
