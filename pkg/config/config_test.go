package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rimetools/udbclean/pkg/dictbackup"
)

func TestNewDefault(t *testing.T) {
	cfg := NewDefault()
	if cfg.TriggerInput != "/del" {
		t.Errorf("TriggerInput = %q, want /del", cfg.TriggerInput)
	}
	if len(cfg.CleanupUserdbList) != 0 {
		t.Errorf("CleanupUserdbList should default to empty (clean everything), got %v", cfg.CleanupUserdbList)
	}
	if cfg.FullInformationDisplay {
		t.Error("FullInformationDisplay should default to false")
	}
	if cfg.Deployer.TimeoutSeconds != 10 {
		t.Errorf("Deployer.TimeoutSeconds = %d, want 10", cfg.Deployer.TimeoutSeconds)
	}
	if cfg.Engine.CompactWorkers != 4 {
		t.Errorf("Engine.CompactWorkers = %d, want 4", cfg.Engine.CompactWorkers)
	}
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("UDBCLEAN_TRIGGER_INPUT", "/clean")
	cfg := NewDefault()
	if cfg.TriggerInput != "/clean" {
		t.Errorf("TriggerInput = %q, want env override /clean", cfg.TriggerInput)
	}
}

func TestLoad(t *testing.T) {
	t.Run("MissingFileYieldsDefaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), ConfigFileName))
		if err != nil {
			t.Fatalf("Load() on missing file: %v", err)
		}
		if cfg.TriggerInput != "/del" {
			t.Errorf("TriggerInput = %q", cfg.TriggerInput)
		}
	})

	t.Run("FileOverridesDefaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ConfigFileName)
		content := "trigger_input: \"/purge\"\n" +
			"cleanup_userdb_list: [luna_pinyin, double_pinyin]\n" +
			"full_information_display: true\n" +
			"backup:\n  enabled: true\n  format: zst\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error: %v", err)
		}
		if cfg.TriggerInput != "/purge" {
			t.Errorf("TriggerInput = %q, want /purge", cfg.TriggerInput)
		}
		if len(cfg.CleanupUserdbList) != 2 || cfg.CleanupUserdbList[0] != "luna_pinyin" {
			t.Errorf("CleanupUserdbList = %v", cfg.CleanupUserdbList)
		}
		if !cfg.FullInformationDisplay {
			t.Error("FullInformationDisplay not overridden")
		}
		if cfg.Backup.Format != dictbackup.Zstd {
			t.Errorf("Backup.Format = %v, want zst", cfg.Backup.Format)
		}
		// Untouched keys keep their defaults.
		if cfg.Deployer.TimeoutSeconds != 10 {
			t.Errorf("Deployer.TimeoutSeconds = %d, want default 10", cfg.Deployer.TimeoutSeconds)
		}
	})

	t.Run("MalformedFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ConfigFileName)
		if err := os.WriteFile(path, []byte("trigger_input: [broken\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load() should fail on malformed YAML")
		}
	})

	t.Run("BadBackupFormat", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ConfigFileName)
		if err := os.WriteFile(path, []byte("backup:\n  format: rar\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Load() should fail on an unknown backup format")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := NewDefault()
		cfg.Paths.UserDataDir = t.TempDir()
		return cfg
	}

	t.Run("Valid", func(t *testing.T) {
		cfg := valid()
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() on valid config: %v", err)
		}
	})

	t.Run("EmptyUserDataDir", func(t *testing.T) {
		cfg := NewDefault()
		cfg.Paths.UserDataDir = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject empty user_data_dir")
		}
	})

	t.Run("EmptyTrigger", func(t *testing.T) {
		cfg := valid()
		cfg.TriggerInput = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject empty trigger_input")
		}
	})

	t.Run("SeparatorInAllowList", func(t *testing.T) {
		cfg := valid()
		cfg.CleanupUserdbList = []string{"foo/bar"}
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject path separators in db names")
		}
	})

	t.Run("ZeroWorkers", func(t *testing.T) {
		cfg := valid()
		cfg.Engine.CompactWorkers = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject zero compact workers")
		}
	})

	t.Run("BadLogLevel", func(t *testing.T) {
		cfg := valid()
		cfg.Log.Level = "verbose"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject unknown log levels")
		}
	})

	t.Run("EnabledDeployerNeedsExecutable", func(t *testing.T) {
		cfg := valid()
		cfg.Deployer.Enabled = true
		cfg.Deployer.Executable = ""
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() should reject an enabled deployer without executable")
		}
	})
}
