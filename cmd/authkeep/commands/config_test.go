package commands

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/authkeep/internal/app"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "authkeep.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func environ(vars ...string) func() []string {
	return func() []string { return vars }
}

func TestLoadConfigDefaults(t *testing.T) {
	configDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configDir)
	t.Setenv("HOME", configDir)

	cfg, err := loadConfig("", nil, environ())
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Storage.Provider != app.ProviderTypeAuto {
		t.Errorf("Storage.Provider = %q, want %q", cfg.Storage.Provider, app.ProviderTypeAuto)
	}
	if cfg.Autologin {
		t.Error("Autologin = true, want false")
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeConfigFile(t, `
log_level = "debug"
log_format = "json"
autologin = true

[storage]
provider = "local"
local_driver = "sqlite"
path = "`+filepath.ToSlash(filepath.Join(dir, "from-file.db"))+`"
`)

	cfg, err := loadConfig(path, nil, environ(
		"AUTHKEEP_STORAGE__LOCAL_DRIVER=file",
		"AUTHKEEP_STORAGE__PATH="+filepath.Join(dir, "from-env"),
		"UNRELATED=1",
	))
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}

	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, slog.LevelDebug)
	}
	if cfg.LogFormat != app.LogFormatJSON {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, app.LogFormatJSON)
	}
	if !cfg.Autologin {
		t.Error("Autologin = false, want true")
	}
	if cfg.Storage.Provider != app.ProviderTypeLocal {
		t.Errorf("Storage.Provider = %q, want %q", cfg.Storage.Provider, app.ProviderTypeLocal)
	}
	// Environment overrides the file
	if cfg.Storage.LocalDriver != app.LocalDriverFile {
		t.Errorf("Storage.LocalDriver = %q, want %q", cfg.Storage.LocalDriver, app.LocalDriverFile)
	}
	if cfg.Storage.Path != filepath.Join(dir, "from-env") {
		t.Errorf("Storage.Path = %q, want env value", cfg.Storage.Path)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	if _, err := loadConfig("", nil, environ("AUTHKEEP_STORAGE__PROVIDER=cloud")); err == nil {
		t.Error("loadConfig() expected error for unknown provider")
	}
	if _, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"), nil, environ()); err == nil {
		t.Error("loadConfig() expected error for missing config file")
	}
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	dir := t.TempDir()

	var cfg *app.Config
	root := newRootCommand(nil, nil)
	root.Commands = []*cli.Command{{
		Name: "inspect",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var err error
			cfg, err = loadConfig("", cmd, environ(
				"AUTHKEEP_STORAGE__PROVIDER=native",
				"AUTHKEEP_LOG_FORMAT=json",
			))
			return err
		},
	}}

	err := root.Run(context.Background(), []string{
		"authkeep",
		"--storage--provider", "local",
		"--storage--local-driver", "file",
		"--storage--path", dir,
		"--autologin",
		"inspect",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if cfg.Storage.Provider != app.ProviderTypeLocal {
		t.Errorf("Storage.Provider = %q, want flag value %q", cfg.Storage.Provider, app.ProviderTypeLocal)
	}
	if cfg.Storage.Path != dir {
		t.Errorf("Storage.Path = %q, want %q", cfg.Storage.Path, dir)
	}
	if !cfg.Autologin {
		t.Error("Autologin = false, want true from flag")
	}
	// Unset flags keep the environment value
	if cfg.LogFormat != app.LogFormatJSON {
		t.Errorf("LogFormat = %q, want env value %q", cfg.LogFormat, app.LogFormatJSON)
	}
}

func TestConfigFlagValuesIgnoreSessionFlags(t *testing.T) {
	dir := t.TempDir()

	var values map[string]any
	root := newRootCommand(nil, nil)
	for _, sub := range root.Commands {
		if sub.Name == "login" {
			sub.Action = func(ctx context.Context, cmd *cli.Command) error {
				values = configFlagValues(cmd)
				return nil
			}
		}
	}

	err := root.Run(context.Background(), []string{
		"authkeep",
		"--storage--provider", "local",
		"--storage--path", dir,
		"login",
		"--plugin", "oidc",
		"--access-token", "secret-access",
		"--csrf-token", "secret-csrf",
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if values["storage.provider"] != "local" || values["storage.path"] != dir {
		t.Errorf("root config flags missing: %v", values)
	}
	for key, value := range values {
		if _, ok := configKeySet()[key]; !ok {
			t.Errorf("non-config key %q reached the config map", key)
		}
		if s, ok := value.(string); ok && strings.HasPrefix(s, "secret-") {
			t.Errorf("credential leaked into config key %q", key)
		}
	}
}

func TestEveryRootFlagIsConfig(t *testing.T) {
	for _, flag := range newRootCommand(nil, nil).Flags {
		name := flag.Names()[0]
		if name == "config" {
			continue
		}
		if _, ok := configFlagKeys[name]; !ok {
			t.Errorf("root flag --%s has no config key", name)
		}
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"AUTHKEEP_AUTOLOGIN":             "autologin",
		"AUTHKEEP_LOG_LEVEL":             "log_level",
		"AUTHKEEP_STORAGE__LOCAL_DRIVER": "storage.local_driver",
	}
	for in, want := range tests {
		if got, _ := envKey(in, "v"); got != want {
			t.Errorf("envKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func configKeySet() map[string]struct{} {
	set := make(map[string]struct{}, len(configFlagKeys))
	for _, key := range configFlagKeys {
		set[key] = struct{}{}
	}
	return set
}
