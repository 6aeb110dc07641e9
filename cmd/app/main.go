// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/userhub/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "userhub",
		Usage:   "User management and route authorization service",
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
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-user",
				Usage: "Create a user and send the password setup email",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Full name of the user",
					},
					&cli.StringFlag{
						Name:     "login",
						Aliases:  []string{"l"},
						Required: true,
						Usage:    "Unique login identifier",
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "Email address for the password setup link",
					},
					&cli.StringFlag{
						Name:    "groups",
						Aliases: []string{"g"},
						Usage:   "Comma-separated list of access group IDs",
					},
					&cli.StringFlag{
						Name:  "allow",
						Usage: "Comma-separated list of individually allowed capability keys",
					},
					&cli.StringFlag{
						Name:  "deny",
						Usage: "Comma-separated list of individually denied capability keys",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunCreateUser(
						ctx,
						cmd.String("name"),
						cmd.String("login"),
						cmd.String("email"),
						cmd.String("groups"),
						cmd.String("allow"),
						cmd.String("deny"),
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
