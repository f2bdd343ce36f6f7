package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/queryowl/cmd/app/commands"
	"github.com/allisson/queryowl/internal/app"
	"github.com/allisson/queryowl/internal/config"
)

func getConnectionCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate-connections",
			Usage: "Encrypt stored connection passwords that are still plaintext",
			Flags: []cli.Flag{formatFlag()},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				container := app.NewContainer(config.Load())
				defer func() { _ = container.Shutdown(ctx) }()

				masterKeyUseCase, err := container.MasterKeyUseCase()
				if err != nil {
					return err
				}
				migrationUseCase, err := container.MigrationUseCase()
				if err != nil {
					return err
				}

				return commands.RunMigrateConnections(
					ctx,
					masterKeyUseCase,
					migrationUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
	}
}
