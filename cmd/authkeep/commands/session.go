package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/florianilch/authkeep/internal/app"
	"github.com/florianilch/authkeep/internal/session"
)

func detectCommand() *cli.Command {
	return &cli.Command{
		Name:  "detect",
		Usage: "print detected capabilities and the selected storage provider",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(ctx, cmd, func(ctx context.Context, a *app.App) error {
				caps := a.Capabilities()
				w := cmd.Root().Writer
				fmt.Fprintf(w, "window: %t\n", caps.WindowExists)
				fmt.Fprintf(w, "local_storage: %t\n", caps.LocalStorageExists)
				fmt.Fprintf(w, "native_storage: %t\n", caps.NativeStorageExists)
				fmt.Fprintf(w, "development_mode: %t\n", caps.DevelopmentMode)
				fmt.Fprintf(w, "provider: %s\n", a.ProviderKind())
				return nil
			})
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "print the persisted session values",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reveal",
				Usage: "print the CSRF token unmasked",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(ctx, cmd, func(ctx context.Context, a *app.App) error {
				s := a.Store()
				csrf := s.CSRFToken()
				if !cmd.Bool("reveal") {
					csrf = mask(csrf)
				}

				w := cmd.Root().Writer
				fmt.Fprintf(w, "provider: %s\n", a.ProviderKind())
				fmt.Fprintf(w, "autologin: %t\n", s.Autologin())
				fmt.Fprintf(w, "auth_plugin_id: %s\n", orNone(s.AuthPluginID()))
				fmt.Fprintf(w, "csrf_token: %s\n", orNone(csrf))
				return nil
			})
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "store the plugin id and tokens of a new session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "plugin",
				Usage:    "auth plugin id that produced the session",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "access-token",
				Usage: "access token (kept in memory for this process only)",
			},
			&cli.StringFlag{
				Name:  "csrf-token",
				Usage: "CSRF token, or - to read it from stdin (prompted when omitted on a terminal)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			csrf, err := readCSRFToken(cmd)
			if err != nil {
				return err
			}

			return withApp(ctx, cmd, func(ctx context.Context, a *app.App) error {
				s := a.Store()
				if err := s.SetAuthPluginID(ctx, cmd.String("plugin")); err != nil {
					return err
				}
				return s.SetTokens(ctx, session.Tokens{
					AccessToken: cmd.String("access-token"),
					CSRFToken:   csrf,
				})
			})
		},
	}
}

func setPluginCommand() *cli.Command {
	return &cli.Command{
		Name:      "set-plugin",
		Usage:     "set the auth plugin id (an empty id removes it)",
		ArgsUsage: "<plugin-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(ctx, cmd, func(ctx context.Context, a *app.App) error {
				return a.Store().SetAuthPluginID(ctx, cmd.Args().First())
			})
		},
	}
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "clear the plugin id and all tokens",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return withApp(ctx, cmd, func(ctx context.Context, a *app.App) error {
				return a.Store().Clear(ctx)
			})
		},
	}
}

// readCSRFToken resolves the --csrf-token flag, reading stdin for "-" and prompting
// without echo when the flag is omitted on an interactive terminal.
func readCSRFToken(cmd *cli.Command) (string, error) {
	in := cmd.Root().Reader

	switch value := cmd.String("csrf-token"); {
	case value == "-":
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return "", fmt.Errorf("reading csrf token: %w", err)
		}
		return strings.TrimSpace(line), nil
	case value != "" || cmd.IsSet("csrf-token"):
		return value, nil
	}

	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", nil
	}

	fmt.Fprint(cmd.Root().ErrWriter, "CSRF token: ")
	raw, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(cmd.Root().ErrWriter)
	if err != nil {
		return "", fmt.Errorf("reading csrf token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func mask(v string) string {
	if v == "" {
		return ""
	}
	return strings.Repeat("*", min(len(v), 8))
}

func orNone(v string) string {
	if v == "" {
		return "(none)"
	}
	return v
}
