package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/florianilch/authkeep/internal/app"
	"github.com/florianilch/authkeep/internal/capability"
	"github.com/florianilch/authkeep/internal/observability"
)

// detectCapabilities runs once per invocation, before the app is built.
var detectCapabilities = func(keyringService string) capability.Capabilities {
	return capability.Detect(capability.WithNativeCheck(capability.KeyringCheck(keyringService)))
}

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	return newRootCommand(os.Stdin, os.Stdout).Run(ctx, args)
}

func newRootCommand(stdin io.Reader, stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "authkeep",
		Usage:     "Persist authentication session tokens",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json|otel)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.BoolFlag{
				Name:  "autologin",
				Usage: "persist the CSRF token across restarts",
			},
			&cli.StringFlag{
				Name:  "storage--provider",
				Usage: "storage provider (auto|local|native|noop)",
				Value: string(app.DefaultConfigProvider),
			},
			&cli.StringFlag{
				Name:  "storage--local-driver",
				Usage: "local storage driver (file|sqlite|browser|memory)",
				Value: string(app.DefaultLocalDriver()),
			},
			&cli.StringFlag{
				Name:  "storage--path",
				Usage: "directory (file driver) or database file (sqlite driver)",
			},
			&cli.StringFlag{
				Name:  "storage--keyring-service",
				Usage: "keyring service name for the native provider",
				Value: app.DefaultConfigKeyringService,
			},
		},
		Commands: []*cli.Command{
			detectCommand(),
			showCommand(),
			loginCommand(),
			setPluginCommand(),
			logoutCommand(),
		},
	}
}

// withApp loads configuration, sets up logging, builds the App and hands it to fn.
func withApp(ctx context.Context, cmd *cli.Command, fn func(context.Context, *app.App) error) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	caps := detectCapabilities(cfg.Storage.KeyringService)

	// Set up observability before creating app
	shutdown, err := observability.Instrument(ctx, observability.Options{
		Level:     cfg.LogLevel,
		Format:    string(cfg.LogFormat),
		AddSource: caps.DevelopmentMode,
		Writer:    cmd.Root().ErrWriter,
	})
	if err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}
	defer func() { _ = shutdown(context.WithoutCancel(ctx)) }()

	slog.DebugContext(ctx, "capabilities detected",
		"window", caps.WindowExists,
		"local_storage", caps.LocalStorageExists,
		"native_storage", caps.NativeStorageExists,
		"development_mode", caps.DevelopmentMode,
	)

	application, err := app.New(ctx, cfg, app.WithCapabilities(caps))
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			slog.ErrorContext(ctx, "closing storage failed", "error", err)
		}
	}()

	return fn(ctx, application)
}
