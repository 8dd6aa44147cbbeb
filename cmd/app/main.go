// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/actionguard/cmd/app/commands"
	"github.com/allisson/actionguard/internal/app"
	"github.com/allisson/actionguard/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "actionguard",
		Usage:   "Capability validator and secret vault for autonomous agents",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "check-action",
				Usage: "Validate one action against the loaded policy document",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "action",
						Aliases:  []string{"a"},
						Required: true,
						Usage:    "Action name to validate (e.g. web_fetch)",
					},
					&cli.StringFlag{
						Name:    "domain",
						Aliases: []string{"d"},
						Value:   "",
						Usage:   "Target domain for network actions",
					},
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Value:   "",
						Usage:   "Target filesystem path for file actions",
					},
					&cli.IntFlag{
						Name:    "payload-size",
						Aliases: []string{"s"},
						Value:   -1,
						Usage:   "Declared payload size in bytes (-1 means unset)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					validator, err := container.Validator()
					if err != nil {
						return err
					}

					return commands.RunCheckAction(
						ctx,
						validator,
						container.Logger(),
						commands.DefaultIO().Writer,
						cmd.String("action"),
						cmd.String("domain"),
						cmd.String("path"),
						int64(cmd.Int("payload-size")),
						cmd.String("format"),
					)
				},
			},
			{
				Name:  "list-secrets",
				Usage: "List secret names declared in the policy document",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg := config.Load()
					container := app.NewContainer(cfg)
					defer func() { _ = container.Shutdown(ctx) }()

					client, err := container.VaultClient()
					if err != nil {
						return err
					}

					return commands.RunListSecrets(
						client,
						commands.DefaultIO().Writer,
						cmd.String("format"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
