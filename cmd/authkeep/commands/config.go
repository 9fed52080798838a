package commands

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/florianilch/authkeep/internal/app"
)

// envPrefix marks environment variables that carry configuration (e.g., AUTHKEEP_STORAGE__PATH → storage.path)
const envPrefix = "AUTHKEEP_"

// configFlagKeys maps root flags to the config keys they override.
// Subcommand flags (tokens, plugin ids) are session input and never become configuration.
var configFlagKeys = map[string]string{
	"log-level":                "log_level",
	"log-format":               "log_format",
	"autologin":                "autologin",
	"storage--provider":        "storage.provider",
	"storage--local-driver":    "storage.local_driver",
	"storage--path":            "storage.path",
	"storage--keyring-service": "storage.keyring_service",
}

// configSource is one layer of configuration, loaded in order so later layers win.
type configSource struct {
	name     string
	provider koanf.Provider
	parser   koanf.Parser
}

// loadConfig merges the config file, AUTHKEEP_ environment variables and root flags
// (in that order of precedence), then applies defaults and validates.
func loadConfig(configPath string, cmd *cli.Command, environFunc func() []string) (*app.Config, error) {
	var sources []configSource

	if configPath != "" {
		sources = append(sources, configSource{
			name:     "config file " + configPath,
			provider: file.Provider(configPath),
			parser:   toml.Parser(),
		})
	}

	sources = append(sources, configSource{
		name: "environment variables",
		provider: env.Provider(".", env.Opt{
			Prefix:        envPrefix,
			TransformFunc: envKey,
			EnvironFunc:   environFunc,
		}),
	})

	if cmd != nil {
		sources = append(sources, configSource{
			name:     "CLI flags",
			provider: confmap.Provider(configFlagValues(cmd), "."),
		})
	}

	k := koanf.New(".")
	for _, src := range sources {
		if err := k.Load(src.provider, src.parser); err != nil {
			return nil, fmt.Errorf("loading %s: %w", src.name, err)
		}
	}

	cfg := &app.Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// envKey turns AUTHKEEP_STORAGE__LOCAL_DRIVER into storage.local_driver.
func envKey(key, value string) (string, any) {
	stripped := strings.TrimPrefix(key, envPrefix)
	return strings.ToLower(strings.ReplaceAll(stripped, "__", ".")), value
}

// configFlagValues collects the config flags explicitly set on cmd or its parents.
// Unset flags are skipped so their defaults don't shadow file or environment values.
func configFlagValues(cmd *cli.Command) map[string]any {
	values := make(map[string]any, len(configFlagKeys))
	for name, key := range configFlagKeys {
		if !cmd.IsSet(name) {
			continue
		}
		if value := cmd.Value(name); value != nil {
			values[key] = value
		}
	}
	return values
}
